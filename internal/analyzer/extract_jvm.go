package analyzer

import (
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
)

type mavenExtractor struct{}

func (mavenExtractor) Name() string { return "pom.xml" }

type pomProject struct {
	ArtifactID  string `xml:"artifactId"`
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Version     string `xml:"version"`
	URL         string `xml:"url"`
	Licenses    []struct {
		Name string `xml:"name"`
	} `xml:"licenses>license"`
	Developers []struct {
		Name string `xml:"name"`
	} `xml:"developers>developer"`
	SCM struct {
		URL string `xml:"url"`
	} `xml:"scm"`
	Dependencies []struct {
		GroupID    string `xml:"groupId"`
		ArtifactID string `xml:"artifactId"`
		Scope      string `xml:"scope"`
	} `xml:"dependencies>dependency"`
}

func (mavenExtractor) Extract(_ context.Context, root string, m *Metadata) error {
	data, ok, err := readOptional(root, "pom.xml")
	if err != nil || !ok {
		return err
	}
	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return fmt.Errorf("parse pom.xml: %w", err)
	}

	name := strings.TrimSpace(pom.Name)
	// Unresolved property references are not names.
	if name == "" || strings.Contains(name, "${") {
		name = strings.TrimSpace(pom.ArtifactID)
	}
	m.Set(FieldProjectName, name, SourceDescriptor)
	m.Set(FieldDescription, collapseSpace(pom.Description), SourceDescriptor)
	if !strings.Contains(pom.Version, "${") {
		m.Set(FieldVersion, strings.TrimSpace(pom.Version), SourceDescriptor)
	}
	if len(pom.Licenses) > 0 {
		m.Set(FieldLicense, strings.TrimSpace(pom.Licenses[0].Name), SourceDescriptor)
	}
	if len(pom.Developers) > 0 {
		m.Set(FieldAuthor, strings.TrimSpace(pom.Developers[0].Name), SourceDescriptor)
	}
	if pom.SCM.URL != "" {
		setRepo(m, pom.SCM.URL, SourceDescriptor)
	} else {
		setRepo(m, pom.URL, SourceDescriptor)
	}

	var deps, dev []string
	for _, d := range pom.Dependencies {
		coord := strings.TrimSpace(d.GroupID) + ":" + strings.TrimSpace(d.ArtifactID)
		if strings.TrimSpace(d.Scope) == "test" {
			dev = append(dev, coord)
		} else {
			deps = append(deps, coord)
		}
	}
	m.SetDependencies("pom.xml", deps, dev)
	return nil
}

type gradleExtractor struct{}

func (gradleExtractor) Name() string { return "gradle" }

var (
	gradleAssign     = regexp.MustCompile(`(?m)^\s*(version|description|group)\s*=\s*['"]([^'"]+)['"]`)
	gradleDependency = regexp.MustCompile(`(?m)^\s*(\w+)\s*\(?\s*['"]([^'":]+:[^'":]+)(?::[^'"]*)?['"]`)
	gradleRootName   = regexp.MustCompile(`rootProject\.name\s*=\s*['"]([^'"]+)['"]`)
)

var gradleDependencyConfigs = map[string]bool{
	"implementation": false, "api": false, "compile": false, "compileOnly": false, "runtimeOnly": false,
	"kapt": false, "annotationProcessor": false,
	"testImplementation": true, "testCompile": true, "testRuntimeOnly": true, "testCompileOnly": true,
	"androidTestImplementation": true,
}

func (gradleExtractor) Extract(_ context.Context, root string, m *Metadata) error {
	for _, name := range []string{"settings.gradle", "settings.gradle.kts"} {
		data, ok, err := readOptional(root, name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if match := gradleRootName.FindSubmatch(data); match != nil {
			m.Set(FieldProjectName, string(match[1]), SourceDescriptor)
		}
		break
	}

	for _, name := range []string{"build.gradle", "build.gradle.kts"} {
		data, ok, err := readOptional(root, name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		for _, kv := range gradleAssign.FindAllSubmatch(data, -1) {
			switch string(kv[1]) {
			case "version":
				m.Set(FieldVersion, string(kv[2]), SourceDescriptor)
			case "description":
				m.Set(FieldDescription, string(kv[2]), SourceDescriptor)
			}
		}
		var deps, dev []string
		for _, d := range gradleDependency.FindAllSubmatch(data, -1) {
			isTest, known := gradleDependencyConfigs[string(d[1])]
			if !known {
				continue
			}
			if isTest {
				dev = append(dev, string(d[2]))
			} else {
				deps = append(deps, string(d[2]))
			}
		}
		m.SetDependencies(name, deps, dev)
		return nil
	}
	return nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
