package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractors_Descriptors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		project string
		version string
		license string
		author  string
		deps    []string
		devDeps []string
	}{
		{
			name: "pyproject pep621",
			files: map[string]string{"pyproject.toml": `
[project]
name = "pyweb"
version = "1.2.0"
description = "A web toolkit"
authors = [{ name = "Ada", email = "ada@example.com" }]
license = { text = "BSD-3-Clause" }
dependencies = ["requests>=2.0", "click[extra]; python_version > '3.8'"]

[project.optional-dependencies]
dev = ["pytest"]
`},
			project: "pyweb", version: "1.2.0", license: "BSD-3-Clause", author: "Ada",
			deps: []string{"requests", "click"}, devDeps: []string{"pytest"},
		},
		{
			name: "setup.cfg",
			files: map[string]string{"setup.cfg": `[metadata]
name = cfgpkg
version = 0.3
license = MIT

[options]
install_requires =
    numpy>=1.0
    pandas
`},
			project: "cfgpkg", version: "0.3", license: "MIT",
			deps: []string{"numpy", "pandas"}, devDeps: []string{},
		},
		{
			name: "setup.py",
			files: map[string]string{"setup.py": `from setuptools import setup
setup(
    name="legacy",
    version="2.0.1",
    author="Bob",
    install_requires=["six", "attrs>=20"],
    tests_require=["nose"],
)
`},
			project: "legacy", version: "2.0.1", author: "Bob",
			deps: []string{"six", "attrs"}, devDeps: []string{"nose"},
		},
		{
			name: "maven",
			files: map[string]string{"pom.xml": `<project>
  <groupId>org.acme</groupId>
  <artifactId>billing</artifactId>
  <version>3.1.0</version>
  <licenses><license><name>Apache-2.0</name></license></licenses>
  <dependencies>
    <dependency><groupId>com.google.guava</groupId><artifactId>guava</artifactId></dependency>
    <dependency><groupId>junit</groupId><artifactId>junit</artifactId><scope>test</scope></dependency>
  </dependencies>
</project>`},
			project: "billing", version: "3.1.0", license: "Apache-2.0",
			deps: []string{"com.google.guava:guava"}, devDeps: []string{"junit:junit"},
		},
		{
			name: "gradle with settings",
			files: map[string]string{
				"settings.gradle.kts": `rootProject.name = "shipping"`,
				"build.gradle.kts": `version = "0.9.0"
dependencies {
    implementation("io.ktor:ktor-server-core:2.3.0")
    testImplementation("org.junit.jupiter:junit-jupiter:5.10.0")
}`,
			},
			project: "shipping", version: "0.9.0",
			deps: []string{"io.ktor:ktor-server-core"}, devDeps: []string{"org.junit.jupiter:junit-jupiter"},
		},
		{
			name: "cargo",
			files: map[string]string{"Cargo.toml": `[package]
name = "ferris"
version = "0.1.0"
authors = ["Ferris <ferris@rust.dev>"]
license = "MIT OR Apache-2.0"

[dependencies]
serde = { version = "1", features = ["derive"] }
tokio = "1"

[dev-dependencies]
proptest = "1"
`},
			project: "ferris", version: "0.1.0", license: "MIT OR Apache-2.0", author: "Ferris",
			deps: []string{"serde", "tokio"}, devDeps: []string{"proptest"},
		},
		{
			name: "composer",
			files: map[string]string{"composer.json": `{"name": "acme/mailer", "license": ["MIT"], "authors": [{"name": "Carol"}],
"require": {"php": ">=8.1", "ext-json": "*", "symfony/mailer": "^6"}, "require-dev": {"phpunit/phpunit": "^10"}}`},
			project: "mailer", license: "MIT", author: "Carol",
			deps: []string{"symfony/mailer"}, devDeps: []string{"phpunit/phpunit"},
		},
		{
			name: "gemfile and gemspec",
			files: map[string]string{
				"Gemfile": `source "https://rubygems.org"
gemspec
gem "rails", "~> 7.0"
group :development, :test do
  gem "rspec"
end
gem "puma"
`,
				"gizmo.gemspec": `Gem::Specification.new do |spec|
  spec.name = "gizmo"
  spec.version = "1.4.2"
  spec.summary = "Gizmos for everyone"
  spec.authors = ["Dana"]
  spec.license = "MIT"
  spec.add_dependency "rack"
  spec.add_development_dependency "rubocop"
end
`,
			},
			project: "gizmo", version: "1.4.2", license: "MIT", author: "Dana",
			deps: []string{"rails", "puma", "rack"}, devDeps: []string{"rspec", "rubocop"},
		},
		{
			name: "csproj",
			files: map[string]string{"Service.csproj": `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <AssemblyName>Acme.Service</AssemblyName>
    <Version>5.0.0</Version>
    <PackageLicenseExpression>MIT</PackageLicenseExpression>
  </PropertyGroup>
  <ItemGroup>
    <PackageReference Include="Newtonsoft.Json" Version="13.0.1" />
    <PackageReference Include="StyleCop.Analyzers" Version="1.1" PrivateAssets="all" />
  </ItemGroup>
</Project>`},
			project: "Acme.Service", version: "5.0.0", license: "MIT",
			deps: []string{"Newtonsoft.Json"}, devDeps: []string{"StyleCop.Analyzers"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := scan(t, tt.files)
			assert.Equal(t, tt.project, m.ProjectName)
			assert.Equal(t, tt.version, m.Version)
			assert.Equal(t, tt.license, m.License)
			assert.Equal(t, tt.author, m.Author)
			assert.Equal(t, tt.deps, m.Dependencies)
			assert.Equal(t, tt.devDeps, m.DevDependencies)
		})
	}
}

func TestNormalizeRepoURL(t *testing.T) {
	tests := map[string]string{
		"git@github.com:acme/widget.git":         "https://github.com/acme/widget",
		"git+https://github.com/acme/widget.git": "https://github.com/acme/widget",
		"ssh://git@gitlab.com/group/proj.git":    "https://gitlab.com/group/proj",
		"github:acme/widget":                     "https://github.com/acme/widget",
		"https://example.org/acme/tool/":         "https://example.org/acme/tool",
		"":                                       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeRepoURL(in), in)
	}
	assert.Equal(t, "acme", OrgFromRepoURL("https://github.com/acme/widget"))
	assert.Empty(t, OrgFromRepoURL("https://github.com/"))
}

func TestClassifyDirectory(t *testing.T) {
	tests := map[string]string{
		"src":                DirSource,
		"src/main/resources": DirSource,
		"src/test/kotlin":    DirTest,
		"tests":              DirTest,
		"pkg/api/testing":    DirTest,
		"docs":               DirDocumentation,
		"scripts":            DirBuild,
		"config":             DirConfig,
		"assets":             DirOther,
	}
	for in, want := range tests {
		assert.Equal(t, want, ClassifyDirectory(in), in)
	}
}

func TestLanguageFromShebang(t *testing.T) {
	assert.Equal(t, "Python", languageFromShebang("#!/usr/bin/env python3\n"))
	assert.Equal(t, "JavaScript", languageFromShebang("#!/usr/bin/env node"))
	assert.Equal(t, "Shell", languageFromShebang("#!/bin/sh"))
	assert.Equal(t, "Shell", languageFromShebang("#!/usr/bin/env bash"))
	assert.Equal(t, "Ruby", languageFromShebang("#!/usr/bin/ruby -w"))
	assert.Empty(t, languageFromShebang("echo hi"))
}
