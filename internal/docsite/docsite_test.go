package docsite

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docapply/internal/config"
	derrors "git.home.luguber.info/inful/docapply/internal/errors"
	"git.home.luguber.info/inful/docapply/internal/frontmatter"
	"git.home.luguber.info/inful/docapply/internal/generation"
	"git.home.luguber.info/inful/docapply/internal/siteconfig"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(data)
}

func fixture(t *testing.T) (repo, tmpl, out string) {
	t.Helper()
	base := t.TempDir()
	repo = filepath.Join(base, "repo")
	tmpl = filepath.Join(base, "template")
	out = filepath.Join(base, "site")

	writeFiles(t, repo, map[string]string{
		"package.json": `{"name": "foo", "description": "Foo does things.", "version": "1.2.0", "repository": "https://github.com/acme/foo"}`,
		"README.md":    "# Bar\n\n- Fast builds with caching enabled\n",
		"index.js":     "module.exports = {}\n",
	})
	writeFiles(t, tmpl, map[string]string{
		"docs/installation.md":   "---\ntitle: Installation\n---\n# Install {{PROJECT_NAME}}\n\n[INSERT_CONTENT]\n",
		"docs/intro.md":          "# {{PROJECT_NAME}}\n\n{{PROJECT_DESCRIPTION}}\n",
		"package.json":           `{"name": "template", "private": true}`,
		"docusaurus.config.json": `{"title": "x", "docs": {"routeBasePath": "/docs", "sidebarPath": "./sidebars.json"}, "navbar": {"items": [{"type": "docSidebar", "sidebarId": "tutorialSidebar", "label": "Docs"}, {"to": "/docs/intro", "label": "Intro"}]}}`,
		"sidebars.json":          `{"tutorialSidebar": [{"type": "doc", "id": "intro", "label": "Intro"}]}`,
		".git/HEAD":              "ref: refs/heads/main\n",
	})
	return repo, tmpl, out
}

func fixedNow() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

func TestRun_EndToEnd(t *testing.T) {
	repo, tmpl, out := fixture(t)
	calls := 0
	gen := generation.Func(func(_ context.Context, _ string) (string, error) {
		calls++
		return "---\ntitle: Installation\n---\n# Install foo\n\nRun `npm install foo`.\n", nil
	})

	runner, err := New(Options{RepoPath: repo, TemplateDir: tmpl, OutputDir: out, Generator: gen, Now: fixedNow})
	require.NoError(t, err)
	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "foo", report.Metadata.ProjectName)
	assert.True(t, report.Valid, "issues: %v", report.Issues)
	assert.Equal(t, 1, calls)
	assert.Len(t, report.Enhancement.Accepted, 1)
	assert.NoDirExists(t, filepath.Join(out, ".git"))

	install := readFile(t, filepath.Join(out, "docs", "installation.md"))
	assert.Contains(t, install, "Run `npm install foo`.")
	doc, err := frontmatter.Parse([]byte(install))
	require.NoError(t, err)
	assert.Equal(t, "installation", doc.String("id"))
	assert.Equal(t, "Installation", doc.String("title"))

	intro := readFile(t, filepath.Join(out, "docs", "intro.md"))
	assert.Contains(t, intro, "# foo\n\nFoo does things.\n")
	doc, err = frontmatter.Parse([]byte(intro))
	require.NoError(t, err)
	assert.Equal(t, "intro", doc.String("id"))
	assert.Equal(t, "foo", doc.String("title"))

	assert.False(t, report.ConfigCreated)
	assert.True(t, report.ConfigRepaired)
	site, err := siteconfig.Load(filepath.Join(out, "docusaurus.config.json"))
	require.NoError(t, err)
	assert.Equal(t, siteconfig.CanonicalRouteBase, site.Docs.RouteBasePath)
	assert.Equal(t, siteconfig.CanonicalSidebarID, site.Navbar.Items[0].SidebarID)

	var sidebar map[string][]siteconfig.SidebarItem
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(out, "sidebars.json"))), &sidebar))
	require.Len(t, sidebar[siteconfig.CanonicalSidebarID], 2)
	assert.Equal(t, "intro", sidebar[siteconfig.CanonicalSidebarID][0].ID)
	assert.Equal(t, "installation", sidebar[siteconfig.CanonicalSidebarID][1].ID)

	var pkg map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(out, "package.json"))), &pkg))
	assert.Equal(t, "foo", pkg["name"])
	assert.Equal(t, true, pkg["private"])
	assert.True(t, report.PackageChanged)

	// A second run over the finished site changes nothing.
	runner, err = New(Options{RepoPath: repo, OutputDir: out, Generator: gen, Now: fixedNow})
	require.NoError(t, err)
	again, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, again.Substitution.Changed)
	assert.Len(t, again.Enhancement.Skipped, 2)
	assert.Empty(t, again.FrontMatter)
	assert.False(t, again.ConfigRepaired)
	assert.False(t, again.SidebarChanged)
	assert.False(t, again.PackageChanged)
	assert.Equal(t, 1, calls)
}

func TestRun_CreatesSiteConfig(t *testing.T) {
	repo, _, out := fixture(t)
	writeFiles(t, out, map[string]string{"docs/intro.md": "# Intro\n\nHello.\n"})

	runner, err := New(Options{RepoPath: repo, OutputDir: out, Now: fixedNow})
	require.NoError(t, err)
	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.ConfigCreated)
	assert.False(t, report.ConfigRepaired)
	site, err := siteconfig.Load(filepath.Join(out, "docusaurus.config.json"))
	require.NoError(t, err)
	assert.Equal(t, "foo", site.Title)
	assert.Contains(t, site.Footer.Copyright, "2026")
}

func TestRun_StrictExhaustionStops(t *testing.T) {
	repo, tmpl, out := fixture(t)
	cfg := config.Default()
	cfg.Enhancement.Strict = true
	cfg.Enhancement.MaxAttempts = 2

	runner, err := New(Options{RepoPath: repo, TemplateDir: tmpl, OutputDir: out, Config: cfg})
	require.NoError(t, err)
	report, err := runner.Run(context.Background())

	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryEnhancement))
	assert.True(t, derrors.IsFatal(err))
	assert.Nil(t, report.Issues)
	assert.Contains(t, readFile(t, filepath.Join(out, "docs", "installation.md")), "[INSERT_CONTENT]")
}

func TestRun_NonStrictReportsMarker(t *testing.T) {
	repo, tmpl, out := fixture(t)

	runner, err := New(Options{RepoPath: repo, TemplateDir: tmpl, OutputDir: out})
	require.NoError(t, err)
	report, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.False(t, report.Valid)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "template_marker", report.Issues[0].IssueType)
}

func TestRun_MissingInputs(t *testing.T) {
	_, err := New(Options{OutputDir: t.TempDir()})
	require.Error(t, err)

	runner, err := New(Options{RepoPath: filepath.Join(t.TempDir(), "nope"), OutputDir: t.TempDir()})
	require.NoError(t, err)
	_, err = runner.Run(context.Background())
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryNotFound))

	repo, _, out := fixture(t)
	runner, err = New(Options{RepoPath: repo, TemplateDir: filepath.Join(t.TempDir(), "nope"), OutputDir: out})
	require.NoError(t, err)
	_, err = runner.Run(context.Background())
	assert.True(t, derrors.IsCategory(err, derrors.CategoryNotFound))
}

func TestNormalizeFrontMatter(t *testing.T) {
	docs := t.TempDir()
	writeFiles(t, docs, map[string]string{
		"guides/getting-started.md": "Some text without a heading.\n",
		"kept.md":                   "---\nid: custom\ntitle: Custom\nsidebar_label: Short\n---\n# Other\n",
	})

	changed, err := NormalizeFrontMatter(docs, filepath.Join(docs, "guides", "getting-started.md"))
	require.NoError(t, err)
	assert.True(t, changed)
	doc, err := frontmatter.Parse([]byte(readFile(t, filepath.Join(docs, "guides", "getting-started.md"))))
	require.NoError(t, err)
	assert.Equal(t, "getting-started", doc.String("id"))
	assert.Equal(t, "Getting Started", doc.String("title"))

	changed, err = NormalizeFrontMatter(docs, filepath.Join(docs, "kept.md"))
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string]string{
		"a.txt":               "a",
		"nested/b.txt":        "b",
		".git/config":         "x",
		"node_modules/m/i.js": "x",
	})
	dst := filepath.Join(t.TempDir(), "out")

	require.NoError(t, CopyTree(src, dst))
	assert.Equal(t, "a", readFile(t, filepath.Join(dst, "a.txt")))
	assert.Equal(t, "b", readFile(t, filepath.Join(dst, "nested", "b.txt")))
	assert.NoDirExists(t, filepath.Join(dst, ".git"))
	assert.NoDirExists(t, filepath.Join(dst, "node_modules"))
}
