package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyExtractor  = "extractor"
	KeyAttempt    = "attempt"
	KeyMaxAttempt = "max_attempts"
	KeyState      = "state"
	KeyIssueType  = "issue_type"
	KeyCount      = "count"
	KeyRule       = "rule"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Extractor(name string) slog.Attr  { return slog.String(KeyExtractor, name) }
func Attempt(n int) slog.Attr          { return slog.Int(KeyAttempt, n) }
func MaxAttempts(n int) slog.Attr      { return slog.Int(KeyMaxAttempt, n) }
func State(s string) slog.Attr         { return slog.String(KeyState, s) }
func IssueType(t string) slog.Attr     { return slog.String(KeyIssueType, t) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Rule(name string) slog.Attr       { return slog.String(KeyRule, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
