package analyzer

import (
	"context"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docapply/internal/frontmatter"
	"git.home.luguber.info/inful/docapply/internal/markdown"
)

// readmeExtractor takes the project name from the first level-one heading and
// the description from the first paragraph with visible text.
type readmeExtractor struct{}

func (readmeExtractor) Name() string { return "readme" }

var readmeNames = []string{"README.md", "README.markdown", "README.mdx", "README.rst", "README.txt", "README", "readme.md", "Readme.md"}

// FindReadme returns the root-level README path of root, or "".
func FindReadme(root string) string {
	for _, name := range readmeNames {
		p := filepath.Join(root, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

func (readmeExtractor) Extract(_ context.Context, root string, m *Metadata) error {
	p := FindReadme(root)
	if p == "" {
		return nil
	}
	// #nosec G304 -- p is a fixed README name under the scanned root
	data, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	_, body, _, _, err := frontmatter.Split(data)
	if err != nil {
		body = data
	}
	if name, ok := markdown.FirstHeading(body, 1); ok {
		m.Set(FieldProjectName, name, SourceReadme)
	}
	if desc, ok := markdown.FirstParagraph(body); ok {
		m.Set(FieldDescription, desc, SourceReadme)
	}
	return nil
}
