// Package analyzer inspects a checked-out repository and extracts the project
// metadata used to fill documentation templates.
package analyzer

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	derrors "git.home.luguber.info/inful/docapply/internal/errors"
	"git.home.luguber.info/inful/docapply/internal/logfields"
)

// DefaultExcludeDirs are never descended into.
var DefaultExcludeDirs = []string{
	".git", ".hg", ".svn", "__pycache__", ".pytest_cache", ".mypy_cache", ".tox",
	"node_modules", "venv", ".venv", "env", "build", "dist", "target", "bin", "obj",
	".gradle", ".idea", ".vscode", "coverage", ".next", ".cache", "vendor",
}

// Options tune a scan.
type Options struct {
	// ExcludeDirs are directory names skipped in addition to DefaultExcludeDirs.
	ExcludeDirs []string
	// IncludeHidden walks dot-prefixed entries that are not excluded.
	IncludeHidden bool
	// Extractors overrides the metadata extractor chain. Nil uses DefaultExtractors.
	Extractors []Extractor
	Logger     *slog.Logger
}

// Analyzer scans repositories.
type Analyzer struct {
	opts    Options
	exclude map[string]struct{}
	logger  *slog.Logger
}

// New returns an Analyzer using opts.
func New(opts Options) *Analyzer {
	exclude := make(map[string]struct{}, len(DefaultExcludeDirs)+len(opts.ExcludeDirs))
	for _, d := range DefaultExcludeDirs {
		exclude[d] = struct{}{}
	}
	for _, d := range opts.ExcludeDirs {
		if d = strings.TrimSpace(d); d != "" {
			exclude[d] = struct{}{}
		}
	}
	if opts.Extractors == nil {
		opts.Extractors = DefaultExtractors()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{opts: opts, exclude: exclude, logger: logger}
}

// Scan is a convenience wrapper around New(opts).Scan.
func Scan(ctx context.Context, repoPath string, opts Options) (*Metadata, error) {
	return New(opts).Scan(ctx, repoPath)
}

// Scan walks repoPath and runs every extractor in order.
// Only a missing or non-directory root is an error; extractor failures are logged.
func (a *Analyzer) Scan(ctx context.Context, repoPath string) (*Metadata, error) {
	start := time.Now()
	info, err := os.Stat(repoPath)
	if err != nil || !info.IsDir() {
		return nil, derrors.NotFound(repoPath)
	}
	root, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, derrors.NotFound(repoPath)
	}

	m := NewMetadata(root)
	if err := a.walk(ctx, root, m); err != nil {
		return nil, err
	}

	for _, ex := range a.opts.Extractors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if exErr := ex.Extract(ctx, root, m); exErr != nil {
			warn := derrors.ExtractionFailed(ex.Name(), root, exErr)
			a.logger.Warn("Metadata extractor failed",
				logfields.Extractor(ex.Name()),
				logfields.Path(root),
				logfields.Error(warn))
		}
	}

	a.logger.Info("Repository analyzed",
		logfields.Path(root),
		slog.String("project", m.ProjectName),
		logfields.Count(len(m.Files)),
		slog.Any("languages", m.LanguageList()),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return m, nil
}

func (a *Analyzer) walk(ctx context.Context, root string, m *Metadata) error {
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtrees are skipped rather than failing the scan.
			if d != nil && d.IsDir() && p != root {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == root {
			return nil
		}
		name := d.Name()
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if a.skipDir(name) {
				return fs.SkipDir
			}
			m.Directories = append(m.Directories, rel)
			switch ClassifyDirectory(rel) {
			case DirSource:
				m.SrcDirs = append(m.SrcDirs, rel)
			case DirTest:
				m.TestDirs = append(m.TestDirs, rel)
			case DirDocumentation:
				m.DocDirs = append(m.DocDirs, rel)
			}
			return nil
		}
		cat := keyFileCategory(rel)
		if !a.opts.IncludeHidden && isHidden(name) && cat == "" {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		m.Files = append(m.Files, rel)
		if fi, infoErr := d.Info(); infoErr == nil {
			m.TotalSize += fi.Size()
		}
		if lang := DetectLanguage(p); lang != "" {
			m.Languages[lang]++
		}
		if cat != "" {
			if _, exists := m.KeyFiles[cat]; !exists {
				m.KeyFiles[cat] = rel
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(m.Files)
	sort.Strings(m.Directories)
	return nil
}

func (a *Analyzer) skipDir(name string) bool {
	if _, ok := a.exclude[name]; ok {
		return true
	}
	// CI workflows live under .github and are always of interest.
	if name == ".github" {
		return false
	}
	return !a.opts.IncludeHidden && isHidden(name)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
