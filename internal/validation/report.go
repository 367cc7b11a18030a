package validation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/docapply/internal/config"
)

// Group is the issues of one type.
type Group struct {
	Type    string  `json:"type"`
	Count   int     `json:"count"`
	Preview []Issue `json:"preview"`
	Omitted int     `json:"omitted,omitempty"`
}

// Summary is a report grouped by issue type with a capped preview per type.
type Summary struct {
	Valid  bool    `json:"valid"`
	Total  int     `json:"total"`
	Groups []Group `json:"groups"`
}

// Summarize groups issues by type in a fixed type order. previewPerType <= 0
// uses the default cap.
func Summarize(issues []Issue, previewPerType int) Summary {
	if previewPerType <= 0 {
		previewPerType = config.DefaultPreviewPerType
	}
	byType := make(map[string][]Issue)
	var extra []string
	for _, is := range issues {
		if _, seen := byType[is.IssueType]; !seen && !knownType(is.IssueType) {
			extra = append(extra, is.IssueType)
		}
		byType[is.IssueType] = append(byType[is.IssueType], is)
	}

	sum := Summary{Valid: len(issues) == 0, Total: len(issues), Groups: []Group{}}
	for _, t := range append(append([]string(nil), issueOrder...), extra...) {
		group := byType[t]
		if len(group) == 0 {
			continue
		}
		g := Group{Type: t, Count: len(group), Preview: group}
		if len(group) > previewPerType {
			g.Preview = group[:previewPerType]
			g.Omitted = len(group) - previewPerType
		}
		sum.Groups = append(sum.Groups, g)
	}
	return sum
}

func knownType(t string) bool {
	for _, k := range issueOrder {
		if k == t {
			return true
		}
	}
	return false
}

// WriteText prints the grouped report for a terminal.
func WriteText(w io.Writer, issues []Issue, previewPerType int) error {
	sum := Summarize(issues, previewPerType)
	if sum.Valid {
		_, err := fmt.Fprintln(w, "✨ Documentation passed validation.")
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d validation issue%s\n", sum.Total, plural(sum.Total))
	for _, g := range sum.Groups {
		fmt.Fprintf(&b, "\n%s (%d)\n", g.Type, g.Count)
		for _, is := range g.Preview {
			location := is.FilePath
			if is.LineNumber > 0 {
				location = fmt.Sprintf("%s:%d", is.FilePath, is.LineNumber)
			}
			fmt.Fprintf(&b, "  - %s: %s\n", location, is.Description)
			if is.ContentSnippet != "" {
				fmt.Fprintf(&b, "      %s\n", is.ContentSnippet)
			}
		}
		if g.Omitted > 0 {
			fmt.Fprintf(&b, "  ... and %d more\n", g.Omitted)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON prints the grouped report as indented JSON.
func WriteJSON(w io.Writer, issues []Issue, previewPerType int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Summarize(issues, previewPerType))
}

// Write prints the report in format, "json" or text.
func Write(w io.Writer, format string, issues []Issue, previewPerType int) error {
	if format == "json" {
		return WriteJSON(w, issues, previewPerType)
	}
	return WriteText(w, issues, previewPerType)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
