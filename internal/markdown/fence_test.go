package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFence_Feed(t *testing.T) {
	lines := []string{
		"text",
		"````go",
		"```",
		"still code",
		"````",
		"after",
		"~~~",
		"```",
		"~~~~",
		"tail",
	}
	want := []bool{false, true, true, true, true, false, true, true, true, false}

	var f Fence
	for i, line := range lines {
		assert.Equal(t, want[i], f.Feed(line), "line %d %q", i, line)
	}
	assert.False(t, f.Open())
}

func TestFence_InlineBackticksDoNotOpen(t *testing.T) {
	var f Fence
	assert.False(t, f.Feed("```inline``` code"))
	assert.False(t, f.Open())
}

func TestSplitCodeSpans(t *testing.T) {
	segs := SplitCodeSpans("use `<T>` or ``a`b`` here")
	assert.Equal(t, []Segment{
		{Text: "use "},
		{Text: "`<T>`", Code: true},
		{Text: " or "},
		{Text: "``a`b``", Code: true},
		{Text: " here"},
	}, segs)
}

func TestSplitCodeSpans_Unterminated(t *testing.T) {
	assert.Equal(t, []Segment{{Text: "a `b <c>"}}, SplitCodeSpans("a `b <c>"))
	assert.Equal(t, "a  c", StripInlineCodeSpans("a `b` c"))
}
