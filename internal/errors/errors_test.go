package errors

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DocError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.err.Error())
		})
	}
}

func TestDocError_WithContext(t *testing.T) {
	err := New(CategoryExtraction, SeverityWarning, "parse failed").
		WithContext("source", "package.json").
		WithContext("path", "/repo/package.json")

	require.NotNil(t, err.Context)
	assert.Equal(t, "package.json", err.Context["source"])
	assert.Equal(t, "/repo/package.json", err.Context["path"])
}

func TestIsCategory_FollowsWrapChain(t *testing.T) {
	base := NotFound("/missing")
	wrapped := fmt.Errorf("scan: %w", base)

	assert.True(t, IsCategory(wrapped, CategoryNotFound))
	assert.False(t, IsCategory(wrapped, CategoryConfig))
	assert.False(t, IsCategory(fmt.Errorf("plain"), CategoryNotFound))
	assert.Equal(t, CategoryInternal, GetCategory(fmt.Errorf("plain")))
}

func TestEnhancementExhausted_SeverityDependsOnStrict(t *testing.T) {
	assert.True(t, IsFatal(EnhancementExhausted("a.md", 10, true)))
	assert.False(t, IsFatal(EnhancementExhausted("a.md", 10, false)))
	assert.Equal(t, 10, EnhancementExhausted("a.md", 10, true).Context["attempts"])
}

func TestUnwrap(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := SubstitutionFailed("docs/x.md", cause)

	assert.True(t, stdErrors.Is(err, cause))
	assert.False(t, IsRetryable(err))
	assert.True(t, IsRetryable(GenerationFailed(cause)))
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	assert.Equal(t, 0, a.ExitCodeFor(nil))
	assert.Equal(t, 1, a.ExitCodeFor(fmt.Errorf("plain")))
	assert.Equal(t, 3, a.ExitCodeFor(NotFound("/x")))
	assert.Equal(t, 4, a.ExitCodeFor(EnhancementExhausted("a.md", 10, true)))
	assert.Equal(t, 7, a.ExitCodeFor(ConfigNotFound("c.yaml")))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var stderr bytes.Buffer
	code := -1
	a := NewCLIErrorAdapter(false, nil)
	a.stderr = &stderr
	a.exit = func(c int) { code = c }

	a.HandleError(NotFound("/nowhere"))

	assert.Equal(t, 3, code)
	assert.Contains(t, stderr.String(), "path does not exist: /nowhere")
}
