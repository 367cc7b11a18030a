package validation

import (
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docapply/internal/frontmatter"
	"git.home.luguber.info/inful/docapply/internal/lint"
	"git.home.luguber.info/inful/docapply/internal/logfields"
	"git.home.luguber.info/inful/docapply/internal/markdown"
	"git.home.luguber.info/inful/docapply/internal/metrics"
)

var (
	markerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\[(?:INSERT|TODO|PLACEHOLDER|TBD)[^\]]*\]`),
		regexp.MustCompile(`\b(?:TODO|FIXME|XXX):`),
		regexp.MustCompile(`\{\{[^{}]*\}\}`),
	}
	schemeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)
)

// Validator runs the checks over a docs tree.
type Validator struct {
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(v *Validator) { v.logger = l } }

// WithRecorder sets the metrics recorder that receives issue counts.
func WithRecorder(r metrics.Recorder) Option { return func(v *Validator) { v.recorder = r } }

// New returns a validator.
func New(opts ...Option) *Validator {
	v := &Validator{logger: slog.Default(), recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateAll validates docsDir with a default validator.
func ValidateAll(docsDir string) (bool, []Issue) {
	return New().ValidateAll(docsDir)
}

// ValidateAll runs every check on every Markdown file below docsDir. A missing
// directory or a tree without Markdown files is reported as a single issue.
func (v *Validator) ValidateAll(docsDir string) (bool, []Issue) {
	issues := v.validate(docsDir)

	counts := make(map[string]int)
	for _, is := range issues {
		counts[is.IssueType]++
	}
	for _, t := range issueOrder {
		if counts[t] > 0 {
			v.recorder.AddValidationIssues(t, counts[t])
		}
	}
	v.logger.Info("Validation complete", logfields.Path(docsDir), logfields.Count(len(issues)))
	return len(issues) == 0, issues
}

func (v *Validator) validate(docsDir string) []Issue {
	info, err := os.Stat(docsDir)
	if err != nil || !info.IsDir() {
		return []Issue{{
			FilePath:    docsDir,
			IssueType:   IssueMissingDirectory,
			Description: "docs directory does not exist",
		}}
	}

	files, err := markdownFiles(docsDir)
	if err != nil {
		v.logger.Warn("Docs walk failed", logfields.Path(docsDir), logfields.Error(err))
	}
	if len(files) == 0 {
		return []Issue{{
			FilePath:    docsDir,
			IssueType:   IssueNoMarkdownFiles,
			Description: "no Markdown files found",
		}}
	}

	var issues []Issue
	for _, path := range files {
		// #nosec G304 -- path comes from walking docsDir
		data, err := os.ReadFile(path)
		if err != nil {
			v.logger.Warn("Skipping unreadable file", logfields.File(path), logfields.Error(err))
			continue
		}
		issues = append(issues, checkFile(docsDir, path, data)...)
	}
	return issues
}

func markdownFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
				return fs.SkipDir
			}
			return nil
		}
		if lint.IsDocFile(p) {
			files = append(files, p)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// checkFile runs the per-file checks. Each check sees the whole file,
// regardless of what the others found.
func checkFile(docsDir, path string, data []byte) []Issue {
	body := data
	offset := 0
	if _, b, had, _, err := frontmatter.Split(data); err == nil && had {
		body = b
		offset = frontmatter.BodyLine(data) - 1
	}
	lines := strings.Split(string(body), "\n")

	var issues []Issue
	issues = append(issues, checkMarkers(path, lines, offset)...)
	issues = append(issues, checkLinks(docsDir, path, body, lines, offset)...)
	issues = append(issues, checkEmptySections(path, body, lines, offset)...)
	issues = append(issues, checkBrackets(path, lines, offset)...)
	return issues
}

// proseLines calls fn with every line outside fenced code, code spans removed.
func proseLines(lines []string, fn func(i int, raw, prose string)) {
	var fence markdown.Fence
	for i, line := range lines {
		if fence.Feed(line) {
			continue
		}
		fn(i, line, markdown.StripInlineCodeSpans(line))
	}
}

func checkMarkers(path string, lines []string, offset int) []Issue {
	var issues []Issue
	proseLines(lines, func(i int, raw, prose string) {
		for _, re := range markerPatterns {
			if m := re.FindString(prose); m != "" {
				issues = append(issues, Issue{
					FilePath:       path,
					IssueType:      IssueTemplateMarker,
					LineNumber:     i + 1 + offset,
					Description:    "unresolved template marker " + m,
					ContentSnippet: snippet(strings.TrimSpace(raw)),
				})
				return
			}
		}
	})
	return issues
}

func checkLinks(docsDir, path string, body []byte, lines []string, offset int) []Issue {
	var issues []Issue
	for _, link := range markdown.ExtractLinks(body, markdown.Options{LineOffset: offset}) {
		if link.Kind == markdown.LinkKindAuto {
			continue
		}
		target, ok := localTarget(link.Destination)
		if !ok || resolves(docsDir, filepath.Dir(path), target) {
			continue
		}
		is := Issue{
			FilePath:    path,
			IssueType:   IssueBrokenLink,
			LineNumber:  link.Line,
			Description: "link target not found: " + link.Destination,
		}
		if i := link.Line - offset - 1; i >= 0 && i < len(lines) {
			is.ContentSnippet = snippet(strings.TrimSpace(lines[i]))
		}
		issues = append(issues, is)
	}
	return issues
}

// localTarget returns the file path part of a relative link, or false for
// external links, in-page anchors and empty destinations.
func localTarget(dest string) (string, bool) {
	dest = strings.TrimSpace(dest)
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "//") || schemeRe.MatchString(dest) {
		return "", false
	}
	if i := strings.IndexAny(dest, "#?"); i >= 0 {
		dest = dest[:i]
	}
	if dest == "" {
		return "", false
	}
	if unescaped, err := url.PathUnescape(dest); err == nil {
		dest = unescaped
	}
	return dest, true
}

// resolves tries target relative to the linking file and then to the docs
// root, each with the usual extension and index fallbacks.
func resolves(docsDir, fileDir, target string) bool {
	var bases []string
	if strings.HasPrefix(target, "/") {
		bases = []string{filepath.Join(docsDir, filepath.FromSlash(target))}
	} else {
		rel := filepath.FromSlash(target)
		bases = []string{filepath.Join(fileDir, rel), filepath.Join(docsDir, rel)}
	}
	for _, base := range bases {
		for _, candidate := range []string{
			base,
			base + ".md",
			base + ".mdx",
			filepath.Join(base, "index.md"),
			filepath.Join(base, "index.mdx"),
			filepath.Join(base, "README.md"),
		} {
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return true
			}
		}
	}
	return false
}

func checkEmptySections(path string, body []byte, lines []string, offset int) []Issue {
	var issues []Issue
	for _, h := range markdown.Outline(body, markdown.Options{LineOffset: offset}) {
		if !h.Empty {
			continue
		}
		is := Issue{
			FilePath:    path,
			IssueType:   IssueEmptySection,
			LineNumber:  h.Line,
			Description: "section has no content: " + h.Text,
		}
		if i := h.Line - offset - 1; h.Line > 0 && i < len(lines) {
			is.ContentSnippet = snippet(strings.TrimSpace(lines[i]))
		}
		issues = append(issues, is)
	}
	return issues
}

func checkBrackets(path string, lines []string, offset int) []Issue {
	var issues []Issue
	proseLines(lines, func(i int, raw, prose string) {
		if !strings.Contains(prose, "](") && !strings.Contains(prose, "][") {
			return
		}
		squares := strings.Count(prose, "[") - strings.Count(prose, "]")
		parens := strings.Count(prose, "(") - strings.Count(prose, ")")
		if squares == 0 && parens == 0 {
			return
		}
		issues = append(issues, Issue{
			FilePath:       path,
			IssueType:      IssueUnbalancedBrackets,
			LineNumber:     i + 1 + offset,
			Description:    "unbalanced brackets around link syntax",
			ContentSnippet: snippet(strings.TrimSpace(raw)),
		})
	})
	return issues
}
