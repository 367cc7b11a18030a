package logfields

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Stage", KeyStage, "enhance", Stage("enhance")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"File", KeyFile, "file.md", File("file.md")},
		{"Extractor", KeyExtractor, "cargo", Extractor("cargo")},
		{"State", KeyState, "retry", State("retry")},
		{"IssueType", KeyIssueType, "broken_link", IssueType("broken_link")},
		{"Rule", KeyRule, "unclosed_tag", Rule("unclosed_tag")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.attrKey, tc.attr.Key)
			assert.Equal(t, tc.attrVal, tc.attr.Value.String())
		})
	}
}

func TestIntHelpers(t *testing.T) {
	assert.Equal(t, int64(3), Attempt(3).Value.Int64())
	assert.Equal(t, int64(10), MaxAttempts(10).Value.Int64())
	assert.Equal(t, int64(2), Count(2).Value.Int64())
}

func TestError(t *testing.T) {
	assert.Equal(t, "", Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}
