// Package siteconfig builds, stores and repairs the configuration files of a
// generated documentation site.
package siteconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docapply/internal/analyzer"
)

// Canonical values the repair rules converge on.
const (
	CanonicalRouteBase = "/"
	CanonicalSidebarID = "docsSidebar"
	DocSidebarItemType = "docSidebar"
)

// Config is the site configuration document.
type Config struct {
	Title            string     `json:"title" yaml:"title"`
	Tagline          string     `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	URL              string     `json:"url" yaml:"url"`
	BaseURL          string     `json:"baseUrl" yaml:"baseUrl"`
	OrganizationName string     `json:"organizationName,omitempty" yaml:"organizationName,omitempty"`
	ProjectName      string     `json:"projectName,omitempty" yaml:"projectName,omitempty"`
	Docs             DocsPreset `json:"docs" yaml:"docs"`
	Navbar           Navbar     `json:"navbar" yaml:"navbar"`
	Footer           Footer     `json:"footer" yaml:"footer"`
}

type DocsPreset struct {
	RouteBasePath string `json:"routeBasePath" yaml:"routeBasePath"`
	SidebarPath   string `json:"sidebarPath" yaml:"sidebarPath"`
	EditURL       string `json:"editUrl,omitempty" yaml:"editUrl,omitempty"`
}

type Navbar struct {
	Title string    `json:"title" yaml:"title"`
	Items []NavItem `json:"items" yaml:"items"`
}

type NavItem struct {
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	SidebarID string `json:"sidebarId,omitempty" yaml:"sidebarId,omitempty"`
	To        string `json:"to,omitempty" yaml:"to,omitempty"`
	Href      string `json:"href,omitempty" yaml:"href,omitempty"`
	Label     string `json:"label" yaml:"label"`
	Position  string `json:"position,omitempty" yaml:"position,omitempty"`
}

type Footer struct {
	Style     string       `json:"style,omitempty" yaml:"style,omitempty"`
	Links     []FooterLink `json:"links,omitempty" yaml:"links,omitempty"`
	Copyright string       `json:"copyright,omitempty" yaml:"copyright,omitempty"`
}

type FooterLink struct {
	Label string `json:"label" yaml:"label"`
	To    string `json:"to,omitempty" yaml:"to,omitempty"`
	Href  string `json:"href,omitempty" yaml:"href,omitempty"`
}

// Options carry site settings that do not come from repository metadata.
type Options struct {
	Tagline     string
	URL         string
	SidebarFile string
	// Year is used in the footer copyright line; 0 omits it.
	Year int
}

// BuildSiteConfig constructs the site configuration for meta. The result
// already satisfies every repair rule.
func BuildSiteConfig(meta *analyzer.Metadata, opts Options) *Config {
	slug := SanitizeName(meta.ProjectName)
	tagline := opts.Tagline
	if tagline == "" {
		tagline = meta.Description
	}
	siteURL := opts.URL
	if siteURL == "" {
		siteURL = "https://" + slug + ".example.com"
	}
	sidebarFile := opts.SidebarFile
	if sidebarFile == "" {
		sidebarFile = "sidebars.json"
	}

	cfg := &Config{
		Title:            meta.ProjectName,
		Tagline:          tagline,
		URL:              strings.TrimRight(siteURL, "/"),
		BaseURL:          "/",
		OrganizationName: meta.OrgName,
		ProjectName:      slug,
		Docs: DocsPreset{
			RouteBasePath: CanonicalRouteBase,
			SidebarPath:   "./" + filepath.ToSlash(sidebarFile),
		},
		Navbar: Navbar{
			Title: meta.ProjectName,
			Items: []NavItem{
				{Type: DocSidebarItemType, SidebarID: CanonicalSidebarID, Label: "Docs", Position: "left"},
			},
		},
		Footer: Footer{Style: "dark"},
	}
	if meta.RepoURL != "" {
		cfg.Docs.EditURL = strings.TrimRight(meta.RepoURL, "/") + "/edit/main/"
		cfg.Navbar.Items = append(cfg.Navbar.Items, NavItem{Href: meta.RepoURL, Label: repoLabel(meta.RepoURL), Position: "right"})
		cfg.Footer.Links = append(cfg.Footer.Links, FooterLink{Label: repoLabel(meta.RepoURL), Href: meta.RepoURL})
	}
	cfg.Footer.Links = append([]FooterLink{{Label: "Documentation", To: CanonicalRouteBase}}, cfg.Footer.Links...)
	if opts.Year > 0 {
		owner := meta.OrgName
		if owner == "" {
			owner = meta.ProjectName
		}
		cfg.Footer.Copyright = fmt.Sprintf("Copyright © %d %s.", opts.Year, owner)
	}
	return cfg
}

func repoLabel(repoURL string) string {
	switch {
	case strings.Contains(repoURL, "github.com"):
		return "GitHub"
	case strings.Contains(repoURL, "gitlab"):
		return "GitLab"
	default:
		return "Source"
	}
}

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported site config format %q", filepath.Ext(path))
	}
}

// Load reads a site configuration in the format implied by its extension.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := readDocument(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg in the format implied by the extension of path.
func Save(path string, cfg *Config) error {
	_, err := writeDocument(path, cfg)
	return err
}

// readDocument decodes path into v.
func readDocument(path string, v any) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}
	// #nosec G304 -- path is a site file inside the output tree
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch f {
	case formatYAML:
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeDocument encodes v to path unless the file already holds exactly
// those bytes. It reports whether the file was written.
func writeDocument(path string, v any) (bool, error) {
	f, err := formatOf(path)
	if err != nil {
		return false, err
	}
	data, err := encode(f, v)
	if err != nil {
		return false, err
	}
	// #nosec G304 -- path is a site file inside the output tree
	if existing, readErr := os.ReadFile(path); readErr == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return false, err
	}
	// #nosec G306 -- site files are published content
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func encode(f format, v any) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case formatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
