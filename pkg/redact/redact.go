// Package redact scrubs personal details from log output. Child transcripts
// occasionally contain blurted-out contact details, and child names are
// masked wherever full names are not needed for debugging.
package redact

import (
	"regexp"
	"strings"
	"sync/atomic"
)

var enabled atomic.Bool

var (
	emailRe = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phoneRe = regexp.MustCompile(`\b\+?\d[\d\s\-]{7,}\d\b`)
)

// SetEnabled toggles PII redaction.
func SetEnabled(v bool) {
	enabled.Store(v)
}

// Enabled returns true when redaction is active.
func Enabled() bool {
	return enabled.Load()
}

// Text redacts emails and phone numbers when enabled.
func Text(in string) string {
	if !enabled.Load() || strings.TrimSpace(in) == "" {
		return in
	}
	out := emailRe.ReplaceAllString(in, "[REDACTED_EMAIL]")
	out = phoneRe.ReplaceAllString(out, "[REDACTED_PHONE]")
	return out
}

// Name masks a child's name down to its first letter when enabled.
func Name(in string) string {
	if !enabled.Load() {
		return in
	}
	trimmed := strings.TrimSpace(in)
	if trimmed == "" {
		return in
	}
	runes := []rune(trimmed)
	return string(runes[0]) + strings.Repeat("*", len(runes)-1)
}
