// Package logging provides zerolog helpers that keep credentials out of
// flowsynth's log output. Task environments and workflow parameters may
// carry AWS keys or passwords, and the rotating log file must never
// record them.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

// sensitivePatterns match credential formats seen in deployment
// configuration: AWS key pairs, session tokens, private keys and
// key/value secrets.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // Package-level patterns for reuse
	// AWS access key IDs (long-term AKIA, temporary ASIA)
	regexp.MustCompile(`\b(?:AKIA|ASIA)[A-Z0-9]{16}\b`),

	// AWS secret access keys assigned to a recognizable name
	regexp.MustCompile(`(?i)aws_?secret_?access_?key\s*[:=]\s*["']?[A-Za-z0-9/+=]{40}["']?`),

	// AWS session tokens
	regexp.MustCompile(`(?i)aws_?session_?token\s*[:=]\s*["']?[A-Za-z0-9/+=]{16,}["']?`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._-]{20,}`),

	// Generic secret patterns (secret, password, credential with values)
	regexp.MustCompile(`(?i)(secret|password|credential|passwd|pwd)\s*[:=]\s*["']?[^\s"']{8,}["']?`),

	// Private key blocks
	regexp.MustCompile(`(?i)-----BEGIN[A-Z\s]+PRIVATE KEY-----`),

	// Long token-like values assigned to token/auth names
	regexp.MustCompile(`(?i)(token|auth)\s*[:=]\s*["']?[a-zA-Z0-9+/=]{32,}["']?`),
}

// sensitiveFieldNames always have their values redacted (case-insensitive,
// substring match).
var sensitiveFieldNames = []string{ //nolint:gochecknoglobals // Package-level patterns for reuse
	"aws_secret_access_key",
	"aws_session_token",
	"secret",
	"password",
	"passwd",
	"credential",
	"private_key",
	"privatekey",
	"access_token",
	"refresh_token",
	"authorization",
	"bearer",
}

// SensitiveDataHook is a zerolog hook that flags log entries whose message
// matches a sensitive pattern. zerolog hooks cannot rewrite the message;
// the file writer is wrapped in a FilteringWriter to redact it.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a new SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements zerolog.Hook.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any sensitive pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every sensitive match in value with [REDACTED].
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// IsSensitiveFieldName reports whether a field or variable name indicates
// a credential.
func IsSensitiveFieldName(fieldName string) bool {
	lowerName := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFieldNames {
		if strings.Contains(lowerName, sensitive) {
			return true
		}
	}
	return false
}

// SafeValue returns [REDACTED] when fieldName indicates a credential and
// the pattern-filtered value otherwise.
//
// Usage:
//
//	log.Debug().Str(name, logging.SafeValue(name, value)).Msg("environment entry")
func SafeValue(fieldName, value string) string {
	if IsSensitiveFieldName(fieldName) {
		return RedactedValue
	}
	return FilterSensitiveValue(value)
}

// FilteringWriter wraps an io.Writer and redacts sensitive data from
// everything written through it.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a new FilteringWriter around w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It reports len(p) on success so callers do
// not see a short write when redaction changes the length.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err = fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	return len(p), nil
}
