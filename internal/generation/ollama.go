package generation

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/JexSrs/go-ollama"

	derrors "git.home.luguber.info/inful/docapply/internal/errors"
	"git.home.luguber.info/inful/docapply/internal/logfields"
)

// Ollama generates content with a local Ollama server.
type Ollama struct {
	client *ollama.Ollama
	model  string
	system string
	logger *slog.Logger
}

// NewOllama returns a generator for the server at host.
func NewOllama(host, model, system string, logger *slog.Logger) (*Ollama, error) {
	u, err := url.Parse(host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, derrors.ValidationFailed("generator.host", "invalid Ollama URL "+host)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Using Ollama generator", slog.String("host", host), slog.String("model", model))
	return &Ollama{client: ollama.New(*u), model: model, system: system, logger: logger}, nil
}

type ollamaResult struct {
	text string
	err  error
}

// Generate sends one non-streaming generate request. The client has no
// context support, so cancellation abandons the request instead of aborting it.
func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	done := make(chan ollamaResult, 1)
	go func() {
		text, finished, err := o.request(prompt)
		if err != nil {
			done <- ollamaResult{err: derrors.GenerationFailed(err)}
			return
		}
		if !finished {
			o.logger.Warn("Ollama response not marked done", slog.String("model", o.model))
		}
		done <- ollamaResult{text: CleanResponse(text)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			o.logger.Warn("Generation request failed", logfields.Error(r.err))
		}
		return r.text, r.err
	}
}

func (o *Ollama) request(prompt string) (string, bool, error) {
	gen := o.client.Generate
	opts := []func(*ollama.GenerateRequestBuilder){gen.WithModel(o.model), gen.WithPrompt(prompt)}
	if o.system != "" {
		opts = append(opts, gen.WithSystem(o.system))
	}
	res, err := gen(opts...)
	if err != nil {
		return "", false, err
	}
	return res.Response, res.Done, nil
}
