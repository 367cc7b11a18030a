// Package validation sweeps a generated docs tree for defects the site build
// or a reader would trip over. Findings are returned as data, never as errors.
package validation

// Issue types reported by the validator.
const (
	IssueMissingDirectory   = "missing_directory"
	IssueNoMarkdownFiles    = "no_markdown_files"
	IssueTemplateMarker     = "template_marker"
	IssueBrokenLink         = "broken_link"
	IssueEmptySection       = "empty_section"
	IssueUnbalancedBrackets = "unbalanced_brackets"
)

// issueOrder is the order report groups are printed in.
var issueOrder = []string{
	IssueMissingDirectory,
	IssueNoMarkdownFiles,
	IssueTemplateMarker,
	IssueBrokenLink,
	IssueEmptySection,
	IssueUnbalancedBrackets,
}

// Issue is one finding. LineNumber is 1-based and 0 for file or tree level issues.
type Issue struct {
	FilePath       string `json:"file_path"`
	IssueType      string `json:"issue_type"`
	LineNumber     int    `json:"line_number,omitempty"`
	Description    string `json:"description"`
	ContentSnippet string `json:"content_snippet,omitempty"`
}

const maxSnippet = 80

func snippet(line string) string {
	r := []rune(line)
	if len(r) <= maxSnippet {
		return line
	}
	return string(r[:maxSnippet]) + "..."
}
