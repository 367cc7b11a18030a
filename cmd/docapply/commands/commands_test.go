package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
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

// run parses args like the binary does and returns captured stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("docapply"), kong.Exit(func(int) {}))
	require.NoError(t, err)
	kctx, err := parser.Parse(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	require.NoError(t, err)

	var out, logs bytes.Buffer
	global, err := cli.Setup(context.Background(), &out, &logs)
	require.NoError(t, err)
	err = kctx.Run(global)
	global.Flush()
	return out.String(), err
}

func TestSanitizeCmd(t *testing.T) {
	out, err := run(t, "sanitize", "My Project!")
	require.NoError(t, err)
	assert.Equal(t, "my-project\n", out)
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "docapply ")
}

func TestAnalyzeCmd(t *testing.T) {
	repo := t.TempDir()
	writeFiles(t, repo, map[string]string{
		"package.json": `{"name": "foo", "description": "Foo does things."}`,
		"index.js":     "module.exports = {}\n",
	})

	out, err := run(t, "analyze", repo)
	require.NoError(t, err)
	assert.Contains(t, out, `"project_name": "foo"`)
	assert.Contains(t, out, `"description": "Foo does things."`)
}

func TestValidateCmd(t *testing.T) {
	docs := t.TempDir()
	writeFiles(t, docs, map[string]string{
		"intro.md": "# Intro\n\nSee [setup](setup.md).\n",
	})

	out, err := run(t, "validate", docs)
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
	assert.Contains(t, out, "broken_link")

	writeFiles(t, docs, map[string]string{"setup.md": "# Setup\n\nRun it.\n"})
	out, err = run(t, "validate", docs)
	require.NoError(t, err)
	assert.Contains(t, out, "passed validation")
}

func TestLintCmd(t *testing.T) {
	docs := t.TempDir()
	writeFiles(t, docs, map[string]string{"clean.md": "# Clean\n\nNothing to see.\n"})

	_, err := run(t, "lint", docs)
	require.NoError(t, err)

	writeFiles(t, docs, map[string]string{"broken.md": "# Broken\n\nMail <user@example.com> today.\n"})
	out, err := run(t, "lint", "--format", "json", docs)
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
	assert.Contains(t, out, "email_as_jsx")
}

func TestRepairCmd_MissingFile(t *testing.T) {
	_, err := run(t, "repair", filepath.Join(t.TempDir(), "docusaurus.config.json"))
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryNotFound))
}

func TestGenerateCmd(t *testing.T) {
	base := t.TempDir()
	repo := filepath.Join(base, "repo")
	tmpl := filepath.Join(base, "template")
	site := filepath.Join(base, "site")
	writeFiles(t, repo, map[string]string{
		"package.json": `{"name": "foo", "description": "Foo does things."}`,
		"README.md":    "# Foo\n\nFoo does things.\n",
	})
	writeFiles(t, tmpl, map[string]string{
		"docs/intro.md": "# {{PROJECT_NAME}}\n\n{{PROJECT_DESCRIPTION}}\n",
	})

	out, err := run(t, "generate", repo, "--template", tmpl, "--output", site, "--provider", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "passed validation")
	assert.Contains(t, out, "(enhanced 0, skipped 1, exhausted 0, failed 0)")

	intro, err := os.ReadFile(filepath.Join(site, "docs", "intro.md"))
	require.NoError(t, err)
	assert.Contains(t, string(intro), "Foo does things.")
	assert.FileExists(t, filepath.Join(site, "docusaurus.config.json"))
	assert.FileExists(t, filepath.Join(site, "sidebars.json"))
}

func TestGenerateCmd_ReportsExhaustedPages(t *testing.T) {
	base := t.TempDir()
	repo := filepath.Join(base, "repo")
	tmpl := filepath.Join(base, "template")
	writeFiles(t, repo, map[string]string{"package.json": `{"name": "foo"}`})
	writeFiles(t, tmpl, map[string]string{
		"docs/installation.md": "# Install\n\n[INSERT_CONTENT]\n",
	})

	out, err := run(t, "generate", repo, "--template", tmpl, "--output", filepath.Join(base, "site"),
		"--provider", "none", "--max-attempts", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "(enhanced 0, skipped 0, exhausted 1, failed 0)")
	assert.Contains(t, out, "template_marker")
}

func TestGenerateCmd_MissingTemplate(t *testing.T) {
	repo := t.TempDir()
	_, err := run(t, "generate", repo, "--template", filepath.Join(repo, "nope"), "--output", t.TempDir())
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryNotFound))
}

func TestSetup_MetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "docapply.yaml")
	textfile := filepath.Join(dir, "metrics", "docapply.prom")
	require.NoError(t, os.WriteFile(cfgPath, []byte("metrics:\n  enabled: true\n  textfile_path: "+textfile+"\n"), 0o600))

	cli := &CLI{Config: cfgPath}
	var out, logs bytes.Buffer
	global, err := cli.Setup(context.Background(), &out, &logs)
	require.NoError(t, err)
	require.NotNil(t, global.prom)

	global.Recorder.IncRunOutcome("success")
	global.Flush()
	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "docapply_run_outcomes_total")
}
