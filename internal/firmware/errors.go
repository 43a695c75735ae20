package firmware

import "errors"

// Kind identifies which terminal failure mode aborted an analysis. All
// kinds are non-retryable for a given image: re-running the pipeline on
// the same bytes produces the same kind.
type Kind int

const (
	// KindNoSymbolTable means no offset in the image produced a
	// 100-record-window of structurally valid symbol records.
	KindNoSymbolTable Kind = iota
	// KindAmbiguousEndian means the V5 column test passed in both
	// directions (or neither), so endianness could not be decided.
	KindAmbiguousEndian
	// KindMissingAnchor means none of the canonical keyword forms
	// (bzero, usrInit, bfill, plain or underscore-prefixed) appear
	// anywhere in the image.
	KindMissingAnchor
	// KindNoStringPool means pool discovery could not grow to the
	// minimum entry count from the anchor seed before left growth hit a
	// non-function-name string or an over-long NUL gap.
	KindNoStringPool
	// KindNoLoadAddress means neither the length-sequence matching
	// algorithm nor the known-base probe produced a consistent load
	// address.
	KindNoLoadAddress
	// KindOutOfBounds means a byte access exceeded the image length.
	// This indicates a logic bug in the pipeline, not a malformed
	// image, and should be reported as such.
	KindOutOfBounds
)

func (k Kind) String() string {
	switch k {
	case KindNoSymbolTable:
		return "NoSymbolTable"
	case KindAmbiguousEndian:
		return "AmbiguousEndian"
	case KindMissingAnchor:
		return "MissingAnchor"
	case KindNoStringPool:
		return "NoStringPool"
	case KindNoLoadAddress:
		return "NoLoadAddress"
	case KindOutOfBounds:
		return "OutOfBounds"
	default:
		return "Unknown"
	}
}

// AnalysisError is the single error type returned by the pipeline. Compare
// against it with errors.Is and one of the Err* sentinels below.
type AnalysisError struct {
	Kind Kind
	msg  string
}

func (e *AnalysisError) Error() string {
	return e.Kind.String() + ": " + e.msg
}

// Is reports whether target is the sentinel for e.Kind, so callers can
// write errors.Is(err, firmware.ErrNoSymbolTable) without a type switch.
func (e *AnalysisError) Is(target error) bool {
	sentinel, ok := target.(*AnalysisError)
	if !ok {
		return false
	}
	return sentinel.Kind == e.Kind
}

// Sentinels for errors.Is comparisons. Their msg fields are unused.
var (
	ErrNoSymbolTable   = &AnalysisError{Kind: KindNoSymbolTable}
	ErrAmbiguousEndian = &AnalysisError{Kind: KindAmbiguousEndian}
	ErrMissingAnchor   = &AnalysisError{Kind: KindMissingAnchor}
	ErrNoStringPool    = &AnalysisError{Kind: KindNoStringPool}
	ErrNoLoadAddress   = &AnalysisError{Kind: KindNoLoadAddress}
	ErrOutOfBounds     = &AnalysisError{Kind: KindOutOfBounds}
)

func newAnalysisError(kind Kind, msg string) error {
	return &AnalysisError{Kind: kind, msg: msg}
}

// KindOf extracts the Kind from err if it is (or wraps) an *AnalysisError.
func KindOf(err error) (Kind, bool) {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}
