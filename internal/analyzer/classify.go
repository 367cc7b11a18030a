package analyzer

import (
	"path"
	"strings"
)

var directoryPatterns = []struct {
	category string
	names    []string
}{
	{DirSource, []string{"src", "source", "sources", "lib", "libs", "app", "apps", "pkg", "cmd", "internal", "core"}},
	{DirTest, []string{"test", "tests", "spec", "specs", "__tests__", "testing", "e2e", "integration"}},
	{DirDocumentation, []string{"docs", "doc", "documentation", "wiki", "guides", "manual"}},
	{DirBuild, []string{"build", "dist", "out", "target", "bin", "scripts", "ci", "tools"}},
	{DirConfig, []string{"config", "configs", "conf", "settings", "etc", ".config"}},
}

// ClassifyDirectory returns the category for a slash-separated path relative to the repository root.
func ClassifyDirectory(rel string) string {
	rel = strings.Trim(path.Clean(strings.ReplaceAll(rel, "\\", "/")), "/")
	if rel == "src/main" || strings.HasPrefix(rel, "src/main/") {
		return DirSource
	}
	if rel == "src/test" || strings.HasPrefix(rel, "src/test/") {
		return DirTest
	}
	name := strings.ToLower(path.Base(rel))
	for _, p := range directoryPatterns {
		for _, n := range p.names {
			if name == n {
				return p.category
			}
		}
	}
	return DirOther
}

// Key file categories.
const (
	KeyReadme          = "readme"
	KeyLicense         = "license"
	KeyContributing    = "contributing"
	KeyChangelog       = "changelog"
	KeyCodeOfConduct   = "code_of_conduct"
	KeySecurity        = "security"
	KeyPackageManifest = "package_manifest"
	KeyDockerfile      = "dockerfile"
	KeyCI              = "ci"
)

var manifestNames = map[string]struct{}{
	"package.json": {}, "setup.py": {}, "setup.cfg": {}, "pyproject.toml": {}, "pom.xml": {},
	"build.gradle": {}, "build.gradle.kts": {}, "Cargo.toml": {}, "go.mod": {},
	"composer.json": {}, "Gemfile": {},
}

// keyFileCategory returns the key-file category of a root-relative slash path, or "".
func keyFileCategory(rel string) string {
	base := path.Base(rel)
	stem := strings.ToUpper(strings.TrimSuffix(base, path.Ext(base)))
	dir := path.Dir(rel)

	if strings.HasPrefix(rel, ".github/workflows/") || base == ".gitlab-ci.yml" || base == "Jenkinsfile" || base == ".travis.yml" {
		return KeyCI
	}
	if dir != "." && dir != ".github" && dir != "docs" {
		return ""
	}
	switch stem {
	case "README":
		return KeyReadme
	case "LICENSE", "LICENCE", "COPYING":
		return KeyLicense
	case "CONTRIBUTING":
		return KeyContributing
	case "CHANGELOG", "HISTORY", "CHANGES":
		return KeyChangelog
	case "CODE_OF_CONDUCT":
		return KeyCodeOfConduct
	case "SECURITY":
		return KeySecurity
	}
	if dir != "." {
		return ""
	}
	if base == "Dockerfile" {
		return KeyDockerfile
	}
	if _, ok := manifestNames[base]; ok {
		return KeyPackageManifest
	}
	ext := path.Ext(base)
	if ext == ".csproj" || ext == ".fsproj" || ext == ".vbproj" {
		return KeyPackageManifest
	}
	return ""
}
