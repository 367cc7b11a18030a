package analyzer

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
)

type cargoExtractor struct{}

func (cargoExtractor) Name() string { return "Cargo.toml" }

type cargoManifest struct {
	Package struct {
		Name        string   `toml:"name"`
		Version     any      `toml:"version"`
		Description string   `toml:"description"`
		Authors     []string `toml:"authors"`
		License     string   `toml:"license"`
		Repository  string   `toml:"repository"`
	} `toml:"package"`
	Dependencies    map[string]any `toml:"dependencies"`
	DevDependencies map[string]any `toml:"dev-dependencies"`
}

func (cargoExtractor) Extract(_ context.Context, root string, m *Metadata) error {
	data, ok, err := readOptional(root, "Cargo.toml")
	if err != nil || !ok {
		return err
	}
	var manifest cargoManifest
	if _, err := toml.Decode(string(data), &manifest); err != nil {
		return fmt.Errorf("parse Cargo.toml: %w", err)
	}

	pkg := manifest.Package
	m.Set(FieldProjectName, pkg.Name, SourceDescriptor)
	// Workspace members write version.workspace = true; only plain strings are versions.
	if v, ok := pkg.Version.(string); ok {
		m.Set(FieldVersion, v, SourceDescriptor)
	}
	m.Set(FieldDescription, pkg.Description, SourceDescriptor)
	if len(pkg.Authors) > 0 {
		m.Set(FieldAuthor, personName(pkg.Authors[0]), SourceDescriptor)
	}
	m.Set(FieldLicense, pkg.License, SourceDescriptor)
	setRepo(m, pkg.Repository, SourceDescriptor)
	m.SetDependencies("Cargo.toml", sortedKeys(manifest.Dependencies), sortedKeys(manifest.DevDependencies))
	return nil
}
