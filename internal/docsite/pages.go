package docsite

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docapply/internal/frontmatter"
	"git.home.luguber.info/inful/docapply/internal/lint"
	"git.home.luguber.info/inful/docapply/internal/markdown"
	"git.home.luguber.info/inful/docapply/internal/siteconfig"
)

// DocPages returns the Markdown pages below docsDir in path order, skipping
// hidden directories.
func DocPages(docsDir string) ([]string, error) {
	var pages []string
	err := filepath.WalkDir(docsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != docsDir && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if lint.IsDocFile(p) {
			pages = append(pages, p)
		}
		return nil
	})
	sort.Strings(pages)
	return pages, err
}

// NormalizeFrontMatter gives the page at p, relative to docsDir, an id, a
// title and a sidebar label when it lacks them. The id is the file name
// without extension and the title the first top-level heading, falling back
// to the titleized id. It reports whether the file changed.
func NormalizeFrontMatter(docsDir, p string) (bool, error) {
	// #nosec G304 -- p is a page inside the output tree
	data, err := os.ReadFile(p)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(docsDir, p)
	if err != nil {
		return false, err
	}
	id := path.Base(siteconfig.DocID(rel))

	_, body, _, _, err := frontmatter.Split(data)
	if err != nil {
		return false, err
	}
	title, ok := markdown.FirstHeading(body, 1)
	if !ok || strings.TrimSpace(title) == "" {
		title = siteconfig.Titleize(id)
	}

	updated, changed, err := frontmatter.EnsureDocFields(data, frontmatter.DocFields{ID: id, Title: title, SidebarLabel: title})
	if err != nil || !changed {
		return false, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(p, updated, info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}
