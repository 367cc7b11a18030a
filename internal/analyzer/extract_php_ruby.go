package analyzer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

type composerExtractor struct{}

func (composerExtractor) Name() string { return "composer.json" }

type composerJSON struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Version     string          `json:"version"`
	License     json.RawMessage `json:"license"`
	Authors     []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Support struct {
		Source string `json:"source"`
	} `json:"support"`
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
}

func (composerExtractor) Extract(_ context.Context, root string, m *Metadata) error {
	data, ok, err := readOptional(root, "composer.json")
	if err != nil || !ok {
		return err
	}
	var doc composerJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse composer.json: %w", err)
	}

	name := doc.Name
	if _, pkg, found := strings.Cut(name, "/"); found {
		name = pkg
	}
	m.Set(FieldProjectName, name, SourceDescriptor)
	m.Set(FieldDescription, doc.Description, SourceDescriptor)
	m.Set(FieldVersion, doc.Version, SourceDescriptor)
	if len(doc.Authors) > 0 {
		m.Set(FieldAuthor, doc.Authors[0].Name, SourceDescriptor)
	}
	var licenses []string
	if err := json.Unmarshal(doc.License, &licenses); err == nil && len(licenses) > 0 {
		m.Set(FieldLicense, strings.Join(licenses, " OR "), SourceDescriptor)
	} else {
		m.Set(FieldLicense, stringOrField(doc.License, "type"), SourceDescriptor)
	}
	if doc.Support.Source != "" {
		setRepo(m, doc.Support.Source, SourceDescriptor)
	}

	m.SetDependencies("composer.json", phpPackages(doc.Require), phpPackages(doc.RequireDev))
	return nil
}

// phpPackages drops platform requirements such as php and ext-json.
func phpPackages(req map[string]string) []string {
	out := make([]string, 0, len(req))
	for _, name := range sortedKeys(req) {
		if name == "php" || strings.HasPrefix(name, "ext-") || strings.HasPrefix(name, "lib-") {
			continue
		}
		out = append(out, name)
	}
	return out
}

type rubyExtractor struct{}

func (rubyExtractor) Name() string { return "Gemfile" }

var (
	gemLine      = regexp.MustCompile(`^\s*gem\s+['"]([^'"]+)['"]`)
	groupOpen    = regexp.MustCompile(`^\s*group\s+(.+?)\s+do\b`)
	gemspecRef   = regexp.MustCompile(`(?m)^\s*gemspec(?:\s+name:\s*['"]([^'"]+)['"])?`)
	gemspecField = regexp.MustCompile(`(?m)^\s*\w+\.(name|version|summary|description|license|homepage)\s*=\s*['"]([^'"]+)['"]`)
	gemspecAuth  = regexp.MustCompile(`(?m)^\s*\w+\.authors?\s*=\s*\[?\s*['"]([^'"]+)['"]`)
	gemspecDep   = regexp.MustCompile(`(?m)^\s*\w+\.add_(runtime_|development_)?dependency\s*\(?\s*['"]([^'"]+)['"]`)
)

func (rubyExtractor) Extract(_ context.Context, root string, m *Metadata) error {
	data, ok, err := readOptional(root, "Gemfile")
	if err != nil || !ok {
		return err
	}

	var deps, dev []string
	depth, devDepth := 0, 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case groupOpen.MatchString(line):
			depth++
			groups := groupOpen.FindStringSubmatch(line)[1]
			if devDepth == 0 && (strings.Contains(groups, ":development") || strings.Contains(groups, ":test")) {
				devDepth = depth
			}
			continue
		case strings.HasSuffix(trimmed, " do"):
			depth++
			continue
		case trimmed == "end":
			if depth == devDepth {
				devDepth = 0
			}
			if depth > 0 {
				depth--
			}
			continue
		}
		if match := gemLine.FindStringSubmatch(line); match != nil {
			if devDepth > 0 || strings.Contains(line, "group: :development") || strings.Contains(line, "group: :test") {
				dev = append(dev, match[1])
			} else {
				deps = append(deps, match[1])
			}
		}
	}

	specPath := ""
	if ref := gemspecRef.FindSubmatch(data); ref != nil {
		if len(ref[1]) > 0 {
			specPath = filepath.Join(root, string(ref[1])+".gemspec")
		}
		if specPath == "" {
			specPath = firstMatch(root, "*.gemspec")
		}
	} else {
		specPath = firstMatch(root, "*.gemspec")
	}
	if specPath != "" {
		specDeps, specDev, err := extractGemspec(specPath, m)
		if err != nil {
			return err
		}
		deps = append(deps, specDeps...)
		dev = append(dev, specDev...)
	}
	m.SetDependencies("Gemfile", deps, dev)
	return nil
}

func extractGemspec(specPath string, m *Metadata) ([]string, []string, error) {
	// #nosec G304 -- specPath is a root-level *.gemspec of the scanned repository
	data, err := os.ReadFile(specPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	summary := false
	for _, kv := range gemspecField.FindAllSubmatch(data, -1) {
		value := string(kv[2])
		switch string(kv[1]) {
		case "name":
			m.Set(FieldProjectName, value, SourceDescriptor)
		case "version":
			m.Set(FieldVersion, value, SourceDescriptor)
		case "summary":
			summary = m.Set(FieldDescription, value, SourceDescriptor) || summary
		case "description":
			if !summary {
				m.Set(FieldDescription, value, SourceDescriptor)
			}
		case "license":
			m.Set(FieldLicense, value, SourceDescriptor)
		case "homepage":
			for _, forge := range knownForges {
				if strings.Contains(value, forge) {
					setRepo(m, value, SourceDescriptor)
				}
			}
		}
	}
	if match := gemspecAuth.FindSubmatch(data); match != nil {
		m.Set(FieldAuthor, string(match[1]), SourceDescriptor)
	}
	var deps, dev []string
	for _, d := range gemspecDep.FindAllSubmatch(data, -1) {
		if string(d[1]) == "development_" {
			dev = append(dev, string(d[2]))
		} else {
			deps = append(deps, string(d[2]))
		}
	}
	return deps, dev, nil
}
