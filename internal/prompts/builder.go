package prompts

import (
	"fmt"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docapply/internal/analyzer"
	derrors "git.home.luguber.info/inful/docapply/internal/errors"
	"git.home.luguber.info/inful/docapply/internal/placeholders"
)

const truncatedNotice = "\n[... content truncated ...]\n"

// Data is the template input for one page.
type Data struct {
	ProjectName    string
	Description    string
	Version        string
	Language       string
	Languages      string
	InstallCommand string
	RepoURL        string
	FileName       string
}

// NewData describes the page at path for the project in meta.
func NewData(meta *analyzer.Metadata, path string) Data {
	return Data{
		ProjectName:    meta.ProjectName,
		Description:    meta.Description,
		Version:        meta.Version,
		Language:       meta.PrimaryLanguage(),
		Languages:      strings.Join(meta.ProgrammingLanguages(), ", "),
		InstallCommand: placeholders.InstallCommand(meta),
		RepoURL:        meta.RepoURL,
		FileName:       filepath.Base(path),
	}
}

// Builder renders complete prompts for pages.
type Builder struct {
	registry  *Registry
	marker    string
	maxLength int
}

// NewBuilder returns a builder. maxLength <= 0 disables the length cap.
func NewBuilder(registry *Registry, marker string, maxLength int) *Builder {
	return &Builder{registry: registry, marker: marker, maxLength: maxLength}
}

// Build renders the prompt for the page at path with its current content.
// When the result would exceed the length cap the page content is cut, never
// the instructions, and truncated is true. A truncated prompt does not carry
// the whole page, so its reply must not replace the page.
func (b *Builder) Build(path, content string, data Data) (prompt string, truncated bool, err error) {
	set, err := b.registry.Load()
	if err != nil {
		return "", false, err
	}
	def := set.ForFile(path)

	var task strings.Builder
	if err := def.tmpl.Execute(&task, data); err != nil {
		return "", false, derrors.Wrap(err, derrors.CategoryInternal, derrors.SeverityError, "render prompt").
			WithContext("prompt", def.Name)
	}

	head := strings.TrimSpace(set.System) + "\n\n" + strings.TrimSpace(task.String()) + "\n\n" +
		fmt.Sprintf("Replace every %s marker in the page below with real content and return the whole page.\n\n", b.marker)

	if b.maxLength > 0 && len(head)+len(content) > b.maxLength {
		room := b.maxLength - len(head) - len(truncatedNotice)
		if room < 0 {
			room = 0
		}
		content = truncateUTF8(content, room) + truncatedNotice
		truncated = true
	}
	return head + content, truncated, nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

// MaxLength is the prompt length cap; zero means unlimited.
func (b *Builder) MaxLength() int { return b.maxLength }
