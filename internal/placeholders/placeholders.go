// Package placeholders fills template tokens such as {{PROJECT_NAME}} with
// values learned from the analysed repository.
package placeholders

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/docapply/internal/analyzer"
	derrors "git.home.luguber.info/inful/docapply/internal/errors"
	"git.home.luguber.info/inful/docapply/internal/logfields"
	"git.home.luguber.info/inful/docapply/internal/siteconfig"
)

// Template tokens.
const (
	TokenProjectName     = "{{PROJECT_NAME}}"
	TokenProjectSlug     = "{{PROJECT_SLUG}}"
	TokenDescription     = "{{PROJECT_DESCRIPTION}}"
	TokenVersion         = "{{PROJECT_VERSION}}"
	TokenAuthor          = "{{AUTHOR}}"
	TokenLicense         = "{{LICENSE}}"
	TokenRepoURL         = "{{REPO_URL}}"
	TokenOrgName         = "{{ORG_NAME}}"
	TokenPrimaryLanguage = "{{PRIMARY_LANGUAGE}}"
	TokenLanguages       = "{{LANGUAGES}}"
	TokenCurrentYear     = "{{CURRENT_YEAR}}"
	TokenInstallCommand  = "{{INSTALL_COMMAND}}"
)

// FeatureTitleToken returns the title token of the n-th feature slot (1-based).
func FeatureTitleToken(n int) string { return "{{FEATURE_" + strconv.Itoa(n) + "_TITLE}}" }

// FeatureDescriptionToken returns the description token of the n-th feature slot (1-based).
func FeatureDescriptionToken(n int) string {
	return "{{FEATURE_" + strconv.Itoa(n) + "_DESCRIPTION}}"
}

// Map is a read-only token to replacement table.
type Map map[string]string

// Tokens returns the tokens of m, longest first, ties alphabetical.
func (m Map) Tokens() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// Replace substitutes every token in content. It reports whether any token was present.
func (m Map) Replace(content string) (string, bool) {
	pairs := make([]string, 0, 2*len(m))
	found := false
	for _, tok := range m.Tokens() {
		if strings.Contains(content, tok) {
			found = true
			pairs = append(pairs, tok, m[tok])
		}
	}
	if !found {
		return content, false
	}
	return strings.NewReplacer(pairs...).Replace(content), true
}

var now = time.Now

// Build derives the placeholder map from metadata and the README text.
func Build(meta *analyzer.Metadata, readme string) Map {
	name := meta.ProjectName
	languages := meta.ProgrammingLanguages()
	primary := meta.PrimaryLanguage()

	m := Map{
		TokenProjectName:     name,
		TokenProjectSlug:     siteconfig.SanitizeName(name),
		TokenDescription:     orDefault(meta.Description, "Documentation for "+name+"."),
		TokenVersion:         orDefault(meta.Version, "0.1.0"),
		TokenAuthor:          orDefault(meta.Author, orDefault(meta.OrgName, "The "+name+" authors")),
		TokenLicense:         orDefault(meta.License, "See the LICENSE file"),
		TokenRepoURL:         meta.RepoURL,
		TokenOrgName:         orDefault(meta.OrgName, orDefault(meta.Author, name)),
		TokenPrimaryLanguage: orDefault(primary, "Unknown"),
		TokenLanguages:       orDefault(strings.Join(languages, ", "), orDefault(primary, "Unknown")),
		TokenCurrentYear:     strconv.Itoa(now().Year()),
		TokenInstallCommand:  InstallCommand(meta),
	}

	features := padFeatures(ExtractFeatures(readme, languages))
	for i, f := range features {
		m[FeatureTitleToken(i+1)] = f.Title
		m[FeatureDescriptionToken(i+1)] = f.Description
	}
	// Values never reintroduce tokens, which keeps the sweep idempotent.
	for k, v := range m {
		m[k] = strings.ReplaceAll(strings.ReplaceAll(v, "{{", "{ {"), "}}", "} }")
	}
	return m
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// InstallCommand guesses how a user installs the project from its descriptors.
func InstallCommand(meta *analyzer.Metadata) string {
	slug := siteconfig.SanitizeName(meta.ProjectName)
	switch {
	case meta.HasFile("package.json"):
		return "npm install " + slug
	case meta.HasFile("pyproject.toml") || meta.HasFile("setup.py") || meta.HasFile("setup.cfg"):
		return "pip install " + slug
	case meta.HasFile("Cargo.toml"):
		return "cargo install " + slug
	case meta.HasFile("go.mod") && meta.RepoURL != "":
		return "go install " + strings.TrimPrefix(strings.TrimPrefix(meta.RepoURL, "https://"), "http://") + "@latest"
	case meta.HasFile("composer.json"):
		return "composer require " + slug
	case meta.HasFile("Gemfile"):
		return "gem install " + slug
	case meta.HasFile("pom.xml"):
		return "mvn install"
	case meta.HasFile("build.gradle") || meta.HasFile("build.gradle.kts"):
		return "./gradlew build"
	case meta.RepoURL != "":
		return "git clone " + meta.RepoURL
	default:
		return "See the installation guide"
	}
}

// Engine sweeps an output tree and substitutes tokens in text-like files.
type Engine struct {
	suffixes map[string]struct{}
	logger   *slog.Logger
}

// NewEngine returns an engine rewriting files with the given suffixes.
func NewEngine(suffixes []string, logger *slog.Logger) *Engine {
	set := make(map[string]struct{}, len(suffixes))
	for _, s := range suffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		set[s] = struct{}{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{suffixes: set, logger: logger}
}

// Result summarises a sweep.
type Result struct {
	Scanned int
	Changed []string
	Failed  []string
}

// Apply substitutes m across rootDir. Per-file failures are logged and
// skipped; the sweep succeeds if it completes.
func (e *Engine) Apply(ctx context.Context, rootDir string, m Map) (bool, error) {
	if _, err := e.Sweep(ctx, rootDir, m); err != nil {
		return false, err
	}
	return true, nil
}

// Sweep is Apply with a per-file report.
func (e *Engine) Sweep(ctx context.Context, rootDir string, m Map) (Result, error) {
	var res Result
	if info, err := os.Stat(rootDir); err != nil || !info.IsDir() {
		return res, derrors.NotFound(rootDir)
	}

	err := filepath.WalkDir(rootDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			e.logger.Warn("Skipping unreadable path", logfields.Path(p), logfields.Error(walkErr))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == "node_modules" {
				return fs.SkipDir
			}
			return nil
		}
		if _, ok := e.suffixes[strings.ToLower(filepath.Ext(p))]; !ok || !d.Type().IsRegular() {
			return nil
		}
		res.Scanned++
		changed, err := e.applyFile(p, m)
		if err != nil {
			res.Failed = append(res.Failed, p)
			e.logger.Warn("Placeholder substitution skipped file",
				logfields.File(p),
				logfields.Error(derrors.SubstitutionFailed(p, err)))
			return nil
		}
		if changed {
			res.Changed = append(res.Changed, p)
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	e.logger.Info("Placeholder substitution complete",
		logfields.Path(rootDir),
		logfields.Count(len(res.Changed)),
		slog.Int("scanned", res.Scanned),
		slog.Int("failed", len(res.Failed)))
	return res, nil
}

func (e *Engine) applyFile(path string, m Map) (bool, error) {
	// #nosec G304 -- path comes from walking the output tree
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read: %w", err)
	}
	out, found := m.Replace(string(data))
	if !found || out == string(data) {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat: %w", err)
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("write: %w", err)
	}
	return true, nil
}
