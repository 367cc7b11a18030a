package lint

import (
	"path/filepath"
	"strings"
)

// Lint error types reported for generated content.
const (
	TypeUnclosedTag        = "unclosed_tag"
	TypeEmailAsJSX         = "email_as_jsx"
	TypeURLAsJSX           = "url_as_jsx"
	TypeLooseAngleBracket  = "loose_angle_bracket"
	TypeAtInTag            = "at_in_tag"
	TypeUnescapedBrace     = "unescaped_brace"
	TypeInvalidFrontMatter = "invalid_front_matter"
)

// criticalTypes break MDX compilation outright.
var criticalTypes = map[string]struct{}{
	TypeUnclosedTag:       {},
	TypeEmailAsJSX:        {},
	TypeURLAsJSX:          {},
	TypeLooseAngleBracket: {},
	TypeAtInTag:           {},
}

// IsCritical reports whether errType blocks acceptance of generated content.
func IsCritical(errType string) bool {
	_, ok := criticalTypes[errType]
	return ok
}

// Critical returns the subset of errs with a critical type.
func Critical(errs []Error) []Error {
	var out []Error
	for _, e := range errs {
		if IsCritical(e.Type) {
			out = append(out, e)
		}
	}
	return out
}

// Error is a single problem found in a piece of content.
type Error struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Line        int    `json:"line"`
}

// ContentLinter checks generated content before it is written.
type ContentLinter interface {
	Lint(content, filename string) []Error
}

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo indicates informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning indicates issues that render but should be fixed.
	SeverityWarning
	// SeverityError indicates issues that break the site build.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single linting problem found in a file.
type Issue struct {
	FilePath string   // Path to the file as given to the linter
	Severity Severity // Error for critical types, warning otherwise
	Rule     string   // Error type (e.g., "unclosed_tag")
	Message  string
	Line     int // Line number (0 if file-level issue)
}

// Result contains all issues found during linting.
type Result struct {
	Issues     []Issue
	FilesTotal int // Total files scanned
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool { return r.ErrorCount() > 0 }

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool { return r.WarningCount() > 0 }

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int { return r.count(SeverityError) }

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int { return r.count(SeverityWarning) }

func (r *Result) count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// Rule is one content check.
type Rule interface {
	// Name returns the error type the rule reports.
	Name() string

	// Check inspects a prepared document.
	Check(doc *Document) []Error
}

// Config contains configuration for the linter.
type Config struct {
	// Quiet suppresses warnings, only reporting critical errors.
	Quiet bool

	// Format specifies output format (text, json).
	Format string
}

// IsDocFile returns true if the file is a Markdown or MDX document.
func IsDocFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".mdx", ".markdown":
		return true
	default:
		return false
	}
}
