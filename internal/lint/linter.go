package lint

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	derrors "git.home.luguber.info/inful/docapply/internal/errors"
)

// Linter runs content rules over documentation files.
type Linter struct {
	cfg   *Config
	rules []Rule
}

// NewLinter creates a linter. With no rules it uses DefaultRules.
func NewLinter(cfg *Config, rules ...Rule) *Linter {
	if cfg == nil {
		cfg = &Config{Format: "text"}
	}
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Linter{cfg: cfg, rules: rules}
}

// Lint checks content and returns every error found, ordered by line.
func (l *Linter) Lint(content, filename string) []Error {
	doc := NewDocument(content, filename)
	var errs []Error
	for _, rule := range l.rules {
		errs = append(errs, rule.Check(doc)...)
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Line < errs[j].Line })
	return errs
}

// LintPath lints a single file or every documentation file below a directory.
func (l *Linter) LintPath(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, derrors.NotFound(path)
		}
		return nil, derrors.InternalError("stat lint path", err)
	}

	result := &Result{Issues: []Issue{}}
	if !info.IsDir() {
		result.FilesTotal = 1
		return result, l.lintFile(path, result)
	}

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != path && (name[0] == '.' || name == "node_modules") {
				return fs.SkipDir
			}
			return nil
		}
		if !IsDocFile(p) {
			return nil
		}
		result.FilesTotal++
		return l.lintFile(p, result)
	})
	return result, err
}

// LintFiles lints a specific list of files. Missing files and non-document
// files are skipped.
func (l *Linter) LintFiles(files []string) (*Result, error) {
	result := &Result{Issues: []Issue{}}
	for _, file := range files {
		if !IsDocFile(file) {
			continue
		}
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}
		result.FilesTotal++
		if err := l.lintFile(file, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (l *Linter) lintFile(path string, result *Result) error {
	// #nosec G304 -- path comes from the walk or the caller's file list
	data, err := os.ReadFile(path)
	if err != nil {
		return derrors.InternalError("read "+path, err)
	}
	for _, e := range l.Lint(string(data), filepath.Base(path)) {
		severity := SeverityWarning
		if IsCritical(e.Type) {
			severity = SeverityError
		}
		if l.cfg.Quiet && severity != SeverityError {
			continue
		}
		result.Issues = append(result.Issues, Issue{
			FilePath: path,
			Severity: severity,
			Rule:     e.Type,
			Message:  e.Description,
			Line:     e.Line,
		})
	}
	return nil
}
