package siteconfig

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	derrors "git.home.luguber.info/inful/docapply/internal/errors"
)

// legacyDocsRoutes are route prefixes that navigation links keep pointing at
// after docs were moved to the site root.
var legacyDocsRoutes = []string{"/docs"}

// RepairKnownDefects rewrites the site configuration at path, and the sidebar
// file it references, so that docs are served from the site root and
// navigation and sidebar agree on one sidebar id. Each rule only fires when
// its defect is present; a second call reports no change.
func RepairKnownDefects(path string) (bool, error) {
	doc := map[string]any{}
	if err := readDocument(path, &doc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, derrors.NotFound(path)
		}
		return false, derrors.RepairFailed(path, err)
	}

	oldRoute := ""
	docs, _ := doc["docs"].(map[string]any)
	if docs != nil {
		oldRoute, _ = docs["routeBasePath"].(string)
	}

	changed := repairRouteBase(doc)
	oldSidebarIDs := map[string]bool{}
	if repairNavbar(doc, oldRoute, oldSidebarIDs) {
		changed = true
	}

	if changed {
		if _, err := writeDocument(path, doc); err != nil {
			return false, derrors.RepairFailed(path, err)
		}
	}

	sidebarPath := referencedSidebar(path, doc)
	if sidebarPath == "" {
		return changed, nil
	}
	sidebarChanged, err := repairSidebarFile(sidebarPath, oldSidebarIDs)
	if err != nil {
		return changed, derrors.RepairFailed(sidebarPath, err)
	}
	return changed || sidebarChanged, nil
}

func repairRouteBase(doc map[string]any) bool {
	docs, ok := doc["docs"].(map[string]any)
	if !ok {
		return false
	}
	route, present := docs["routeBasePath"].(string)
	if present && route == CanonicalRouteBase {
		return false
	}
	docs["routeBasePath"] = CanonicalRouteBase
	return true
}

// repairNavbar normalises doc links and sidebar ids of navbar items. Sidebar
// ids it replaces are recorded in replaced.
func repairNavbar(doc map[string]any, oldRoute string, replaced map[string]bool) bool {
	navbar, ok := doc["navbar"].(map[string]any)
	if !ok {
		return false
	}
	items, ok := navbar["items"].([]any)
	if !ok {
		return false
	}
	prefixes := append([]string(nil), legacyDocsRoutes...)
	if r := "/" + strings.Trim(oldRoute, "/"); r != "/" {
		prefixes = append(prefixes, r)
	}

	changed := false
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if to, ok := item["to"].(string); ok {
			if fixed := stripRoutePrefix(to, prefixes); fixed != to {
				item["to"] = fixed
				changed = true
			}
		}
		if item["type"] == DocSidebarItemType {
			if id, _ := item["sidebarId"].(string); id != CanonicalSidebarID {
				if id != "" {
					replaced[id] = true
				}
				item["sidebarId"] = CanonicalSidebarID
				changed = true
			}
		}
	}
	return changed
}

func stripRoutePrefix(to string, prefixes []string) string {
	for _, p := range prefixes {
		if to == p || to == p+"/" {
			return CanonicalRouteBase
		}
		if strings.HasPrefix(to, p+"/") {
			return strings.TrimPrefix(to, p)
		}
	}
	return to
}

// referencedSidebar resolves docs.sidebarPath relative to the config file.
// It returns "" when the config names no sidebar file or the file is absent.
func referencedSidebar(configPath string, doc map[string]any) string {
	docs, _ := doc["docs"].(map[string]any)
	rel, _ := docs["sidebarPath"].(string)
	if rel == "" {
		return ""
	}
	p := rel
	if !filepath.IsAbs(p) {
		p = filepath.Join(filepath.Dir(configPath), filepath.FromSlash(rel))
	}
	if _, err := formatOf(p); err != nil {
		return ""
	}
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// repairSidebarFile renames the sidebar key to the canonical id. It prefers a
// key the navbar used to reference, then a sole key.
func repairSidebarFile(path string, previousIDs map[string]bool) (bool, error) {
	sidebars := map[string]any{}
	if err := readDocument(path, &sidebars); err != nil {
		return false, err
	}
	if _, ok := sidebars[CanonicalSidebarID]; ok || len(sidebars) == 0 {
		return false, nil
	}

	keys := make([]string, 0, len(sidebars))
	for k := range sidebars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	from := ""
	for _, k := range keys {
		if previousIDs[k] {
			from = k
			break
		}
	}
	if from == "" && len(keys) == 1 {
		from = keys[0]
	}
	if from == "" {
		return false, nil
	}
	sidebars[CanonicalSidebarID] = sidebars[from]
	delete(sidebars, from)
	return writeDocument(path, sidebars)
}
