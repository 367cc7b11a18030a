package analyzer

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// pythonExtractor reads setup.py, setup.cfg and pyproject.toml in that order.
type pythonExtractor struct{}

func (pythonExtractor) Name() string { return "python" }

func (pythonExtractor) Extract(_ context.Context, root string, m *Metadata) error {
	if data, ok, err := readOptional(root, "setup.py"); err != nil {
		return err
	} else if ok {
		extractSetupPy(data, m)
	}
	if data, ok, err := readOptional(root, "setup.cfg"); err != nil {
		return err
	} else if ok {
		extractSetupCfg(data, m)
	}
	data, ok, err := readOptional(root, "pyproject.toml")
	if err != nil || !ok {
		return err
	}
	return extractPyproject(data, m)
}

var (
	setupPyKeyword = regexp.MustCompile(`(?m)\b(name|version|description|author|license|url)\s*=\s*['"]([^'"]*)['"]`)
	setupPyInstall = regexp.MustCompile(`(?s)install_requires\s*=\s*\[(.*?)\]`)
	setupPyTests   = regexp.MustCompile(`(?s)tests_require\s*=\s*\[(.*?)\]`)
	quotedString   = regexp.MustCompile(`['"]([^'"]+)['"]`)
)

func extractSetupPy(data []byte, m *Metadata) {
	seen := map[string]bool{}
	for _, kv := range setupPyKeyword.FindAllSubmatch(data, -1) {
		key, value := string(kv[1]), strings.TrimSpace(string(kv[2]))
		// Only the first keyword occurrence counts; later ones are usually nested calls.
		if seen[key] {
			continue
		}
		seen[key] = true
		switch key {
		case "name":
			m.Set(FieldProjectName, value, SourceDescriptor)
		case "version":
			m.Set(FieldVersion, value, SourceDescriptor)
		case "description":
			m.Set(FieldDescription, value, SourceDescriptor)
		case "author":
			m.Set(FieldAuthor, value, SourceDescriptor)
		case "license":
			m.Set(FieldLicense, value, SourceDescriptor)
		case "url":
			setRepo(m, value, SourceDescriptor)
		}
	}
	var deps, dev []string
	if match := setupPyInstall.FindSubmatch(data); match != nil {
		deps = requirementNames(quotedStrings(match[1]))
	}
	if match := setupPyTests.FindSubmatch(data); match != nil {
		dev = requirementNames(quotedStrings(match[1]))
	}
	m.SetDependencies("setup.py", deps, dev)
}

func quotedStrings(b []byte) []string {
	var out []string
	for _, q := range quotedString.FindAllSubmatch(b, -1) {
		out = append(out, string(q[1]))
	}
	return out
}

// parseINI reads the small INI dialect used by setup.cfg. Indented lines
// continue the previous value, one entry per line.
func parseINI(data []byte) map[string]map[string]string {
	sections := map[string]map[string]string{}
	section, key := "", ""
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			if sections[section] == nil {
				sections[section] = map[string]string{}
			}
			key = ""
			continue
		}
		if sections[section] == nil {
			sections[section] = map[string]string{}
		}
		if (raw[0] == ' ' || raw[0] == '\t') && key != "" {
			sections[section][key] += "\n" + line
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			k, v, ok = strings.Cut(line, ":")
		}
		if !ok {
			continue
		}
		key = strings.TrimSpace(k)
		sections[section][key] = strings.TrimSpace(v)
	}
	return sections
}

func splitList(v string) []string {
	var out []string
	for _, line := range strings.FieldsFunc(v, func(r rune) bool { return r == '\n' || r == ',' }) {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func extractSetupCfg(data []byte, m *Metadata) {
	ini := parseINI(data)
	meta := ini["metadata"]
	m.Set(FieldProjectName, meta["name"], SourceDescriptor)
	m.Set(FieldVersion, meta["version"], SourceDescriptor)
	m.Set(FieldDescription, meta["description"], SourceDescriptor)
	m.Set(FieldAuthor, meta["author"], SourceDescriptor)
	m.Set(FieldLicense, meta["license"], SourceDescriptor)
	setRepo(m, meta["url"], SourceDescriptor)

	deps := requirementNames(splitList(ini["options"]["install_requires"]))
	extras := ini["options.extras_require"]
	dev := requirementNames(append(splitList(extras["dev"]), splitList(extras["test"])...))
	m.SetDependencies("setup.cfg", deps, dev)
}

type pyproject struct {
	Project struct {
		Name        string              `toml:"name"`
		Version     string              `toml:"version"`
		Description string              `toml:"description"`
		Authors     []map[string]string `toml:"authors"`
		License     any                 `toml:"license"`
		URLs        map[string]string   `toml:"urls"`
		Deps        []string            `toml:"dependencies"`
		Optional    map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name        string                 `toml:"name"`
			Version     string                 `toml:"version"`
			Description string                 `toml:"description"`
			Authors     []string               `toml:"authors"`
			License     string                 `toml:"license"`
			Repository  string                 `toml:"repository"`
			Deps        map[string]any         `toml:"dependencies"`
			DevDeps     map[string]any         `toml:"dev-dependencies"`
			Group       map[string]poetryGroup `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

type poetryGroup struct {
	Dependencies map[string]any `toml:"dependencies"`
}

func extractPyproject(data []byte, m *Metadata) error {
	var doc pyproject
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return fmt.Errorf("parse pyproject.toml: %w", err)
	}

	p := doc.Project
	m.Set(FieldProjectName, p.Name, SourceDescriptor)
	m.Set(FieldVersion, p.Version, SourceDescriptor)
	m.Set(FieldDescription, p.Description, SourceDescriptor)
	if len(p.Authors) > 0 {
		m.Set(FieldAuthor, p.Authors[0]["name"], SourceDescriptor)
	}
	switch lic := p.License.(type) {
	case string:
		m.Set(FieldLicense, lic, SourceDescriptor)
	case map[string]any:
		if text, ok := lic["text"].(string); ok {
			m.Set(FieldLicense, text, SourceDescriptor)
		}
	}
	for _, key := range []string{"Repository", "repository", "Source", "source", "Homepage", "homepage"} {
		if u := p.URLs[key]; u != "" {
			setRepo(m, u, SourceDescriptor)
			break
		}
	}
	deps := requirementNames(p.Deps)
	var dev []string
	for _, group := range []string{"dev", "test", "tests"} {
		dev = append(dev, requirementNames(p.Optional[group])...)
	}

	poetry := doc.Tool.Poetry
	m.Set(FieldProjectName, poetry.Name, SourceDescriptor)
	m.Set(FieldVersion, poetry.Version, SourceDescriptor)
	m.Set(FieldDescription, poetry.Description, SourceDescriptor)
	if len(poetry.Authors) > 0 {
		m.Set(FieldAuthor, personName(poetry.Authors[0]), SourceDescriptor)
	}
	m.Set(FieldLicense, poetry.License, SourceDescriptor)
	setRepo(m, poetry.Repository, SourceDescriptor)
	for _, name := range sortedKeys(poetry.Deps) {
		if name != "python" {
			deps = append(deps, name)
		}
	}
	dev = append(dev, sortedKeys(poetry.DevDeps)...)
	for _, group := range sortedKeys(poetry.Group) {
		dev = append(dev, sortedKeys(poetry.Group[group].Dependencies)...)
	}
	m.SetDependencies("pyproject.toml", deps, dev)
	return nil
}
