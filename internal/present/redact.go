package present

import (
	"regexp"
	"strings"
)

// Redactor scrubs incidental sensitive-looking values (embedded emails,
// IP addresses, key=value credentials) out of warnings and symbol
// detail strings before a report is printed or shared. It never touches
// symbol names or addresses, only free-text annotations.
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor creates a Redactor with the default pattern set.
func NewRedactor() *Redactor {
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`),         // email
		regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),                               // IPv4
		regexp.MustCompile(`(?i)\b(key|token|secret|password|passwd)\s*[:=]\s*\S+`),     // key=value credentials
		regexp.MustCompile(`\b[0-9a-fA-F]{32,}\b`),                                      // long hex blobs (hashes/keys)
	}
	return &Redactor{patterns: patterns}
}

// ContainsSensitive reports whether data matches any redaction pattern.
func (r *Redactor) ContainsSensitive(data string) bool {
	for _, pattern := range r.patterns {
		if pattern.MatchString(data) {
			return true
		}
	}
	return false
}

// Redact returns data with every matched span replaced by asterisks of
// the same length, preserving layout for fixed-width report columns.
func (r *Redactor) Redact(data string) string {
	redacted := data
	for _, pattern := range r.patterns {
		redacted = pattern.ReplaceAllStringFunc(redacted, func(match string) string {
			return strings.Repeat("*", len(match))
		})
	}
	return redacted
}

// IsSafe reports whether data is free of anything the Redactor would scrub.
func (r *Redactor) IsSafe(data string) bool {
	return !r.ContainsSensitive(data)
}
