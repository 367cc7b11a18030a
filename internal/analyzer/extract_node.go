package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type nodeExtractor struct{}

func (nodeExtractor) Name() string { return "package.json" }

type packageJSON struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Version         string            `json:"version"`
	Author          json.RawMessage   `json:"author"`
	License         json.RawMessage   `json:"license"`
	Repository      json.RawMessage   `json:"repository"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func (nodeExtractor) Extract(_ context.Context, root string, m *Metadata) error {
	data, ok, err := readOptional(root, "package.json")
	if err != nil || !ok {
		return err
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return fmt.Errorf("parse package.json: %w", err)
	}

	name := pkg.Name
	// Scoped packages are named after the part following the scope.
	if strings.HasPrefix(name, "@") {
		if _, after, found := strings.Cut(name, "/"); found {
			name = after
		}
	}
	m.Set(FieldProjectName, name, SourceDescriptor)
	m.Set(FieldDescription, pkg.Description, SourceDescriptor)
	m.Set(FieldVersion, pkg.Version, SourceDescriptor)
	m.Set(FieldAuthor, stringOrField(pkg.Author, "name"), SourceDescriptor)
	m.Set(FieldLicense, stringOrField(pkg.License, "type"), SourceDescriptor)
	setRepo(m, stringOrField(pkg.Repository, "url"), SourceDescriptor)
	m.SetDependencies("package.json", sortedKeys(pkg.Dependencies), sortedKeys(pkg.DevDependencies))
	return nil
}

// stringOrField decodes raw as a plain string, or as an object and returns
// its key field. npm accepts both shapes for author, license and repository.
// An author string like "Jane <jane@example.com> (https://jane.dev)" yields the name part.
func stringOrField(raw json.RawMessage, key string) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return personName(s)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		if v, ok := obj[key].(string); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// personName strips an email or URL suffix from a person string.
func personName(s string) string {
	if i := strings.IndexAny(s, "<("); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
