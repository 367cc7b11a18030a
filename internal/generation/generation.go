// Package generation adapts external text generation services to the
// single call the enhancement pipeline needs.
package generation

import (
	"context"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/docapply/internal/config"
	derrors "git.home.luguber.info/inful/docapply/internal/errors"
)

// Generator produces page content for a prompt. An error or an empty string
// both mean "no result"; callers never inspect provider detail.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to Generator.
type Func func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

// None never produces content. Pages keep their markers and the validation
// sweep reports them.
type None struct{}

// Generate returns an empty result.
func (None) Generate(context.Context, string) (string, error) { return "", nil }

// New returns the generator selected by cfg.
func New(cfg config.GeneratorConfig, logger *slog.Logger) (Generator, error) {
	switch cfg.Provider {
	case "", config.GeneratorProviderNone:
		return None{}, nil
	case config.GeneratorOllama:
		return NewOllama(cfg.Host, cfg.Model, cfg.System, logger)
	default:
		return nil, derrors.ValidationFailed("generator.provider", "unknown provider "+cfg.Provider)
	}
}

// CleanResponse strips a code fence wrapped around a whole answer, which
// models add even when told not to.
func CleanResponse(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	first := strings.IndexByte(s, '\n')
	if first < 0 {
		return s
	}
	inner := strings.TrimSuffix(s[first+1:], "```")
	return strings.TrimSpace(inner) + "\n"
}
