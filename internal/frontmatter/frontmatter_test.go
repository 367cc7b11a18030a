package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---\nkey: value\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, had, _, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.False(t, had)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---\nid: intro\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("id: intro\n"), fm)
	require.Empty(t, body)
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, style, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "\r\n", style.Newline)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestJoin_RoundTrip_ReconstructsOriginalBytes(t *testing.T) {
	input := []byte("---\ntitle: Hello\n---\nBody\n")
	fm, body, had, style, err := Split(input)
	require.NoError(t, err)
	require.Equal(t, input, Join(fm, body, had, style))
}

func TestBodyLine(t *testing.T) {
	assert.Equal(t, 1, BodyLine([]byte("# Title\n")))
	assert.Equal(t, 4, BodyLine([]byte("---\nid: a\n---\n# Title\n")))
	assert.Equal(t, 1, BodyLine([]byte("---\nunterminated\n")))
}

func TestParseYAML_InvalidYAML_ReturnsError(t *testing.T) {
	_, err := ParseYAML([]byte("key: [unclosed\n"))
	require.Error(t, err)

	fields, err := ParseYAML(nil)
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestEnsureDocFields_AddsMissingKeys(t *testing.T) {
	out, changed, err := EnsureDocFields([]byte("# Install\n\nSteps.\n"), DocFields{ID: "installation", Title: "Installation"})
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, "---\nid: installation\ntitle: Installation\nsidebar_label: Installation\n---\n# Install\n\nSteps.\n", string(out))

	again, changed, err := EnsureDocFields(out, DocFields{ID: "installation", Title: "Installation"})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, out, again)
}

func TestEnsureDocFields_KeepsExistingValues(t *testing.T) {
	in := []byte("---\ntitle: Getting Started\ntags: [a]\n---\nBody\n")
	out, changed, err := EnsureDocFields(in, DocFields{ID: "intro", Title: "Intro"})
	require.NoError(t, err)
	require.True(t, changed)

	doc, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "intro", doc.String("id"))
	assert.Equal(t, "Getting Started", doc.String("title"))
	assert.Equal(t, "Getting Started", doc.String("sidebar_label"))
	assert.Equal(t, []byte("Body\n"), doc.Body)
}
