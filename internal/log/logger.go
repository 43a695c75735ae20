// Package log provides structured logging for vxhunter using zap.
package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with vxhunter-specific helpers for reporting
// pipeline stages and heuristic decisions.
type Logger struct {
	*zap.Logger
}

var (
	// L is the global logger instance.
	L    *Logger
	once sync.Once
)

// Init initializes the global logger with the given configuration.
// Safe to call multiple times; only the first call takes effect.
func Init(debug bool) {
	once.Do(func() {
		L = New(debug)
	})
}

// New creates a new Logger instance.
func New(debug bool) *Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	// ISO8601 timestamps under a short key, in both modes
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Fallback to no-op if config fails
		logger = zap.NewNop()
	}

	return &Logger{Logger: logger}
}

// NewNop creates a no-op logger for testing.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// WithRun returns a logger with the run-correlation field preset.
func (l *Logger) WithRun(runID string) *Logger {
	return &Logger{Logger: l.Logger.With(zap.String("run", runID))}
}

// Stage logs entry into a pipeline stage (locate, endian, stringpool,
// loadaddr, reify).
func (l *Logger) Stage(name string, fields ...zap.Field) {
	l.Debug("stage", append([]zap.Field{zap.String("stage", name)}, fields...)...)
}

// Decision logs a heuristic decision made by a stage: the endianness
// chosen, the anchor keyword selected, the load address accepted by
// quick_test or the (i,j) solver, and similar branch points worth an
// audit trail.
func (l *Logger) Decision(stage, decision string, fields ...zap.Field) {
	l.Info("decision", append([]zap.Field{zap.String("stage", stage), zap.String("decision", decision)}, fields...)...)
}

// Failed logs a terminal pipeline failure.
func (l *Logger) Failed(stage string, err error) {
	l.Warn("failed", zap.String("stage", stage), zap.Error(err))
}

// Warning logs a non-fatal per-record note collected during analysis
// (a record skipped during reification).
func (l *Logger) Warning(msg string) {
	l.Debug("warning", zap.String("detail", msg))
}

// Hex formats a uint32 as a hex string for logging.
func Hex(v uint32) string {
	return "0x" + hexString(uint64(v))
}

func hexString(v uint64) string {
	const digits = "0123456789abcdef"
	if v == 0 {
		return "0"
	}
	buf := make([]byte, 16)
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v&0xf]
		v >>= 4
	}
	return string(buf[i:])
}

// Field helpers for common patterns.

// Addr creates an address field.
func Addr(name string, v uint32) zap.Field {
	return zap.String(name, Hex(v))
}

// Offset creates an image-offset field.
func Offset(off int) zap.Field {
	return zap.Int("offset", off)
}

// Count creates a count field.
func Count(name string, n int) zap.Field {
	return zap.Int(name, n)
}
