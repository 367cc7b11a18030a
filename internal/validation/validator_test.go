package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docapply/internal/metrics"
)

func docsTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, os.MkdirAll(root, 0o750))
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func TestValidateAll_EndToEnd(t *testing.T) {
	root := docsTree(t, map[string]string{
		"intro.md":       "---\nid: intro\ntitle: Intro\n---\n# Intro\n\nWelcome. See the [guide](guide.md).\n\n[INSERT_CONTENT]\n",
		"guide.md":       "# Guide\n\nRead [setup](./setup) and [missing](nope.md).\n\nExternal [site](https://example.com), [mail](mailto:a@b.c), [anchor](#top).\n",
		"setup/index.md": "# Setup\n\nSteps.\n",
	})

	valid, issues := ValidateAll(root)

	assert.False(t, valid)
	require.Len(t, issues, 2)
	byType := map[string]Issue{}
	for _, is := range issues {
		byType[is.IssueType] = is
	}

	marker := byType[IssueTemplateMarker]
	assert.Equal(t, filepath.Join(root, "intro.md"), marker.FilePath)
	assert.Equal(t, 9, marker.LineNumber)
	assert.Equal(t, "[INSERT_CONTENT]", marker.ContentSnippet)

	link := byType[IssueBrokenLink]
	assert.Equal(t, filepath.Join(root, "guide.md"), link.FilePath)
	assert.Equal(t, 3, link.LineNumber)
	assert.Contains(t, link.Description, "nope.md")
}

func TestValidateAll_TreeLevelIssues(t *testing.T) {
	valid, issues := ValidateAll(filepath.Join(t.TempDir(), "missing"))
	assert.False(t, valid)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueMissingDirectory, issues[0].IssueType)

	root := docsTree(t, map[string]string{"notes.txt": "TODO: nothing here\n"})
	valid, issues = ValidateAll(root)
	assert.False(t, valid)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueNoMarkdownFiles, issues[0].IssueType)
}

func TestValidateAll_Checks(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		lines   []int
	}{
		{
			name:    "fenced code ignored",
			content: "# T\n\nText\n\n```\n[TODO: x] [a](missing.md)\n## not a heading\n```\n",
		},
		{
			name:    "code span ignored",
			content: "# T\n\nUse `{{name}}` and `FIXME:` literally.\n",
		},
		{
			name:    "markers",
			content: "# T\n\nFIXME: later\n\nHello {{USER}}\n\n[TODO write intro]\n",
			want:    []string{IssueTemplateMarker, IssueTemplateMarker, IssueTemplateMarker},
			lines:   []int{3, 5, 7},
		},
		{
			name:    "escaped braces",
			content: "# T\n\nHello \\{\\{USER\\}\\}\n",
		},
		{
			name:    "empty sections",
			content: "# A\n## B\n\nText\n## C\n",
			want:    []string{IssueEmptySection, IssueEmptySection},
			lines:   []int{1, 5},
		},
		{
			name:    "unbalanced brackets",
			content: "# Doc\n\nSee [docs](a.md for details.\n",
			want:    []string{IssueUnbalancedBrackets},
			lines:   []int{3},
		},
		{
			name:    "link fallbacks",
			content: "# Doc\n\n[a](other) [b](/root-page) [c](sub/) [d](other.mdx#section) [e](other%20page.md)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := docsTree(t, map[string]string{
				"page.md":          tt.content,
				"other.mdx":        "# Other\n\nBody.\n",
				"other page.md":    "# Spaced\n\nBody.\n",
				"root-page.md":     "# Root\n\nBody.\n",
				"sub/README.md":    "# Sub\n\nBody.\n",
				".docusaurus/x.md": "# Hidden\n",
			})
			_, issues := ValidateAll(root)

			var types []string
			var lines []int
			for _, is := range issues {
				types = append(types, is.IssueType)
				lines = append(lines, is.LineNumber)
			}
			assert.Equal(t, tt.want, types)
			if tt.lines != nil {
				assert.Equal(t, tt.lines, lines)
			}
		})
	}
}

type issueRecorder struct {
	metrics.NoopRecorder
	counts map[string]int
}

func (r *issueRecorder) AddValidationIssues(issueType string, n int) { r.counts[issueType] += n }

func TestValidator_RecordsIssueCounts(t *testing.T) {
	root := docsTree(t, map[string]string{"a.md": "# A\n\nTODO: one\n\nTODO: two\n"})
	rec := &issueRecorder{counts: map[string]int{}}

	valid, _ := New(WithRecorder(rec)).ValidateAll(root)

	assert.False(t, valid)
	assert.Equal(t, map[string]int{IssueTemplateMarker: 2}, rec.counts)
}

func TestReport(t *testing.T) {
	var issues []Issue
	for i := 1; i <= 7; i++ {
		issues = append(issues, Issue{FilePath: "docs/a.md", IssueType: IssueTemplateMarker, LineNumber: i, Description: fmt.Sprintf("marker %d", i)})
	}
	issues = append(issues, Issue{FilePath: "docs/b.md", IssueType: IssueBrokenLink, LineNumber: 2, Description: "link target not found: x.md", ContentSnippet: "[x](x.md)"})

	var text bytes.Buffer
	require.NoError(t, Write(&text, "text", issues, 5))
	out := text.String()
	assert.Contains(t, out, "Found 8 validation issues")
	assert.Contains(t, out, "template_marker (7)")
	assert.Contains(t, out, "docs/a.md:5: marker 5")
	assert.NotContains(t, out, "marker 6")
	assert.Contains(t, out, "... and 2 more")
	assert.Contains(t, out, "      [x](x.md)")
	assert.Less(t, strings.Index(out, "template_marker"), strings.Index(out, "broken_link"))

	var raw bytes.Buffer
	require.NoError(t, Write(&raw, "json", issues, 3))
	var sum Summary
	require.NoError(t, json.Unmarshal(raw.Bytes(), &sum))
	assert.False(t, sum.Valid)
	assert.Equal(t, 8, sum.Total)
	require.Len(t, sum.Groups, 2)
	assert.Len(t, sum.Groups[0].Preview, 3)
	assert.Equal(t, 4, sum.Groups[0].Omitted)

	var clean bytes.Buffer
	require.NoError(t, WriteText(&clean, nil, 0))
	assert.Contains(t, clean.String(), "passed validation")
}
