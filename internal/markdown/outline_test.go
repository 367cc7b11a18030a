package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutline_EmptySections(t *testing.T) {
	body := []byte("# Title\n\nIntro text.\n\n## Empty\n## Filled\n\nBody.\n\n## Trailing\n")
	headings := Outline(body, Options{})
	require.Len(t, headings, 4)

	assert.Equal(t, "Title", headings[0].Text)
	assert.False(t, headings[0].Empty)
	assert.Equal(t, 1, headings[0].Line)

	assert.True(t, headings[1].Empty)
	assert.Equal(t, 5, headings[1].Line)
	assert.False(t, headings[2].Empty)
	assert.True(t, headings[3].Empty)
	assert.Equal(t, 10, headings[3].Line)
}

func TestOutline_IgnoresHeadingsInFences(t *testing.T) {
	body := []byte("# Real\n\ntext\n\n```\n# not a heading\n```\n")
	headings := Outline(body, Options{})
	require.Len(t, headings, 1)
	assert.Equal(t, "Real", headings[0].Text)
}

func TestFirstHeading(t *testing.T) {
	name, ok := FirstHeading([]byte("Some text\n\n## Sub\n\n# My *Project*\n"), 1)
	require.True(t, ok)
	assert.Equal(t, "My Project", name)

	_, ok = FirstHeading([]byte("no headings"), 1)
	assert.False(t, ok)
}

func TestFirstParagraph_StripsMarkupAndSkipsBadges(t *testing.T) {
	body := []byte("# Tool\n\n[![build](https://ci/badge.svg)](https://ci)\n\nA **fast** tool for [parsing](https://x.dev) server\nlogs.\n")
	p, ok := FirstParagraph(body)
	require.True(t, ok)
	assert.Equal(t, "A fast tool for parsing server logs.", p)
}
