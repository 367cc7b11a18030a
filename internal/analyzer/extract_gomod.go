package analyzer

import (
	"context"
	"fmt"
	"path"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

type goModExtractor struct{}

func (goModExtractor) Name() string { return "go.mod" }

var knownForges = []string{"github.com/", "gitlab.com/", "bitbucket.org/", "codeberg.org/"}

func (goModExtractor) Extract(_ context.Context, root string, m *Metadata) error {
	data, ok, err := readOptional(root, "go.mod")
	if err != nil || !ok {
		return err
	}
	f, err := modfile.ParseLax("go.mod", data, nil)
	if err != nil {
		return fmt.Errorf("parse go.mod: %w", err)
	}
	if f.Module == nil {
		return nil
	}

	modPath := f.Module.Mod.Path
	prefix, _, ok := module.SplitPathVersion(modPath)
	if !ok {
		prefix = modPath
	}
	m.Set(FieldProjectName, path.Base(prefix), SourceDescriptor)

	// The module path names the hosting repository only by convention.
	for _, forge := range knownForges {
		if strings.HasPrefix(prefix, forge) {
			if parts := strings.SplitN(prefix, "/", 4); len(parts) >= 3 {
				setRepo(m, "https://"+strings.Join(parts[:3], "/"), SourceInferred)
			}
			break
		}
	}

	deps := make([]string, 0, len(f.Require))
	for _, r := range f.Require {
		if !r.Indirect {
			deps = append(deps, r.Mod.Path)
		}
	}
	m.SetDependencies("go.mod", deps, nil)
	return nil
}
