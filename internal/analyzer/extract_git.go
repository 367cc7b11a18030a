package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// gitRemoteExtractor reads the origin remote of an existing checkout. It never mutates the repository.
type gitRemoteExtractor struct{}

func (gitRemoteExtractor) Name() string { return "git" }

func (gitRemoteExtractor) Extract(_ context.Context, root string, m *Metadata) error {
	repo, err := git.PlainOpen(root)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil
		}
		return fmt.Errorf("open repository: %w", err)
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return nil
		}
		return fmt.Errorf("read origin remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil
	}
	setRepo(m, urls[0], SourceInferred)
	return nil
}
