package siteconfig

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docapply/internal/frontmatter"
)

// DocEntry is one page listed in the sidebar.
type DocEntry struct {
	ID    string
	Label string
	// Position orders entries; lower first. Zero means unset.
	Position int
}

// SidebarItem is the serialized form of a sidebar entry.
type SidebarItem struct {
	Type  string `json:"type" yaml:"type"`
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// WriteSidebar writes a sidebar file holding one canonical sidebar with docs
// in the given order. It reports whether the file changed.
func WriteSidebar(path string, docs []DocEntry) (bool, error) {
	items := make([]SidebarItem, 0, len(docs))
	for _, d := range docs {
		label := d.Label
		if label == "" {
			label = Titleize(d.ID)
		}
		items = append(items, SidebarItem{Type: "doc", ID: d.ID, Label: label})
	}
	return writeDocument(path, map[string][]SidebarItem{CanonicalSidebarID: items})
}

// DocID derives the document id of a docs-relative path: the slash separated
// path without its Markdown extension.
func DocID(rel string) string {
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

// CollectDocs lists the Markdown documents under docsDir. Front matter id,
// sidebar_label, title and sidebar_position take precedence over values derived
// from the path. Entries are ordered by position, then index pages, then path.
func CollectDocs(docsDir string) ([]DocEntry, error) {
	var entries []DocEntry
	var paths []string
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
		ext := strings.ToLower(filepath.Ext(p))
		if ext != ".md" && ext != ".mdx" {
			return nil
		}
		rel, err := filepath.Rel(docsDir, p)
		if err != nil {
			return err
		}
		// #nosec G304 -- p comes from walking the docs tree
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		entry := DocEntry{ID: DocID(rel), Label: Titleize(rel)}
		if doc, perr := frontmatter.Parse(data); perr == nil {
			if id := doc.String("id"); id != "" {
				dir := filepath.ToSlash(filepath.Dir(rel))
				if dir == "." {
					entry.ID = id
				} else {
					entry.ID = dir + "/" + id
				}
			}
			if label := firstString(doc.String("sidebar_label"), doc.String("title")); label != "" {
				entry.Label = label
			}
			if pos, ok := doc.Fields["sidebar_position"].(int); ok {
				entry.Position = pos
			}
		}
		entries = append(entries, entry)
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ea, eb := entries[idx[a]], entries[idx[b]]
		if pa, pb := positionKey(ea.Position), positionKey(eb.Position); pa != pb {
			return pa < pb
		}
		ia, ib := isIndexPage(paths[idx[a]]), isIndexPage(paths[idx[b]])
		if ia != ib {
			return ia
		}
		return paths[idx[a]] < paths[idx[b]]
	})
	out := make([]DocEntry, 0, len(entries))
	for _, i := range idx {
		out = append(out, entries[i])
	}
	return out, nil
}

func positionKey(p int) int {
	if p == 0 {
		return int(^uint(0) >> 1)
	}
	return p
}

func isIndexPage(rel string) bool {
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel)))
	return base == "index" || base == "intro" || base == "readme"
}

func firstString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
