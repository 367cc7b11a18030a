package siteconfig

import (
	"errors"
	"io/fs"

	"git.home.luguber.info/inful/docapply/internal/analyzer"
	derrors "git.home.luguber.info/inful/docapply/internal/errors"
)

// UpdatePackageDescriptor sets name, description and repository of the
// site's package.json from meta, keeping every other key. It reports whether
// the file changed.
func UpdatePackageDescriptor(path string, meta *analyzer.Metadata) (bool, error) {
	pkg := map[string]any{}
	if err := readDocument(path, &pkg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, derrors.NotFound(path)
		}
		return false, derrors.RepairFailed(path, err)
	}

	changed := setString(pkg, "name", SanitizeName(meta.ProjectName))
	if meta.Description != "" && setString(pkg, "description", meta.Description) {
		changed = true
	}
	if meta.RepoURL != "" {
		repo, ok := pkg["repository"].(map[string]any)
		if !ok {
			repo = map[string]any{}
		}
		urlChanged := setString(repo, "url", meta.RepoURL)
		typeChanged := setString(repo, "type", "git")
		if urlChanged || typeChanged || !ok {
			pkg["repository"] = repo
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	if _, err := writeDocument(path, pkg); err != nil {
		return false, derrors.RepairFailed(path, err)
	}
	return true, nil
}

func setString(m map[string]any, key, value string) bool {
	if current, ok := m[key].(string); ok && current == value {
		return false
	}
	m[key] = value
	return true
}
