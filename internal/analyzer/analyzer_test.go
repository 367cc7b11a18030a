package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docapply/internal/errors"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

func scan(t *testing.T, files map[string]string) *Metadata {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, files)
	m, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	return m
}

func TestScan_DescriptorNameBeatsReadme(t *testing.T) {
	m := scan(t, map[string]string{
		"package.json": `{"name": "foo", "description": "From package"}`,
		"README.md":    "# Bar\n\nFrom readme.\n",
	})
	assert.Equal(t, "foo", m.ProjectName)
	assert.Equal(t, SourceDescriptor, m.SourceOf(FieldProjectName))
	assert.Equal(t, "From package", m.Description)
}

func TestScan_ReadmeNameFallback(t *testing.T) {
	m := scan(t, map[string]string{
		"README.md": "# Bar\n\nA tool that does things.\n",
	})
	assert.Equal(t, "Bar", m.ProjectName)
	assert.Equal(t, "A tool that does things.", m.Description)
	assert.Equal(t, "readme", m.Sources[FieldProjectName])
}

func TestScan_ReadmeReplacesDirectoryNamedDescriptor(t *testing.T) {
	root := filepath.Join(t.TempDir(), "widget")
	writeFiles(t, root, map[string]string{
		"package.json": `{"name": "widget"}`,
		"README.md":    "# Widget Pro\n",
	})
	m, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", m.ProjectName)
}

func TestScan_DefaultsToDirectoryName(t *testing.T) {
	root := filepath.Join(t.TempDir(), "plain-dir")
	require.NoError(t, os.MkdirAll(root, 0o750))
	m, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, "plain-dir", m.ProjectName)
	assert.Equal(t, SourceDefault, m.SourceOf(FieldProjectName))
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryNotFound))

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	_, err = Scan(context.Background(), file, Options{})
	assert.True(t, derrors.IsCategory(err, derrors.CategoryNotFound))
}

func TestScan_WalkExclusionsAndClassification(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/main/java/App.java":     "class App {}",
		"src/test/java/AppTest.java": "class AppTest {}",
		"docs/intro.md":              "# Intro",
		"node_modules/lib/index.js":  "module.exports = 1",
		"generated/out.py":           "print(1)",
		".hidden/secret.py":          "print(2)",
		".github/workflows/ci.yml":   "on: push",
		".env":                       "KEY=1",
		"scripts/run":                "#!/usr/bin/env python3\nprint('hi')\n",
		"Dockerfile":                 "FROM scratch",
		"LICENSE":                    "MIT",
		"README.md":                  "# Repo",
	})

	m, err := Scan(context.Background(), root, Options{ExcludeDirs: []string{"generated"}})
	require.NoError(t, err)

	assert.NotContains(t, m.Files, "node_modules/lib/index.js")
	assert.NotContains(t, m.Files, "generated/out.py")
	assert.NotContains(t, m.Files, ".hidden/secret.py")
	assert.NotContains(t, m.Files, ".env")
	assert.Contains(t, m.Files, ".github/workflows/ci.yml")
	assert.Contains(t, m.Files, "scripts/run")

	assert.Equal(t, 2, m.Languages["Java"])
	assert.Equal(t, 1, m.Languages["Python"])
	assert.Equal(t, "Java", m.PrimaryLanguage())

	assert.Contains(t, m.SrcDirs, "src/main")
	assert.Contains(t, m.SrcDirs, "src/main/java")
	assert.Contains(t, m.TestDirs, "src/test/java")
	assert.Contains(t, m.DocDirs, "docs")

	assert.Equal(t, ".github/workflows/ci.yml", m.KeyFiles[KeyCI])
	assert.Equal(t, "Dockerfile", m.KeyFiles[KeyDockerfile])
	assert.Equal(t, "LICENSE", m.KeyFiles[KeyLicense])
	assert.Equal(t, "README.md", m.KeyFiles[KeyReadme])
	assert.Positive(t, m.TotalSize)
}

func TestScan_IncludeHidden(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{".tools/gen.py": "print(1)"})
	m, err := Scan(context.Background(), root, Options{IncludeHidden: true})
	require.NoError(t, err)
	assert.Contains(t, m.Files, ".tools/gen.py")
}

func TestScan_BrokenDescriptorIsTolerated(t *testing.T) {
	m := scan(t, map[string]string{
		"package.json": `{"name": `,
		"README.md":    "# Survivor\n",
	})
	assert.Equal(t, "Survivor", m.ProjectName)
}

func TestScan_DependenciesLastSourceWins(t *testing.T) {
	m := scan(t, map[string]string{
		"package.json": `{"name": "web", "dependencies": {"react": "^18"}, "devDependencies": {"jest": "^29"}}`,
		"go.mod":       "module github.com/acme/web/v2\n\ngo 1.22\n\nrequire (\n\tgithub.com/spf13/cobra v1.8.0\n\tgolang.org/x/sys v0.1.0 // indirect\n)\n",
	})
	assert.Equal(t, "go.mod", m.DependencySource)
	assert.Equal(t, []string{"github.com/spf13/cobra"}, m.Dependencies)
	assert.Empty(t, m.DevDependencies)
	assert.Equal(t, "web", m.ProjectName)
	assert.Equal(t, "https://github.com/acme/web", m.RepoURL)
	assert.Equal(t, "acme", m.OrgName)
}

func TestScan_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.go": "package a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Scan(ctx, root, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestScan_GitRemote(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{"git@github.com:acme/widget.git"}})
	require.NoError(t, err)

	m, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/widget", m.RepoURL)
	assert.Equal(t, "acme", m.OrgName)
	assert.Equal(t, SourceInferred, m.SourceOf(FieldRepoURL))
	assert.NotContains(t, m.Files, ".git/HEAD")
}

func TestScan_DescriptorRepoBeatsGitRemote(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{"https://gitlab.com/fork/widget.git"}})
	require.NoError(t, err)
	writeFiles(t, root, map[string]string{
		"package.json": `{"name": "widget", "repository": {"type": "git", "url": "git+https://github.com/acme/widget.git"}}`,
	})

	m, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/widget", m.RepoURL)
	assert.Equal(t, "acme", m.OrgName)
}
