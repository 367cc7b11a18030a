// Package prompts holds the prompt definitions used to ask the generation
// capability for page content.
package prompts

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docapply/internal/errors"
)

// DefaultName is the definition used when no other definition matches a file.
const DefaultName = "default"

//go:embed defaults.yaml
var embeddedDefaults []byte

// Definition is one prompt template.
type Definition struct {
	Name     string   `yaml:"name"`
	Match    []string `yaml:"match,omitempty"`
	Template string   `yaml:"template"`

	tmpl *template.Template
}

// Set is a loaded collection of definitions.
type Set struct {
	System  string       `yaml:"system"`
	Prompts []Definition `yaml:"prompts"`
}

// Registry loads a Set on first use and caches it until Reset.
// It is safe for concurrent use.
type Registry struct {
	path string

	mu  sync.Mutex
	set *Set
	err error
}

// NewRegistry returns a registry reading path, or the built-in set when path is empty.
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

// Reset drops the cached set so the next lookup reloads it.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set, r.err = nil, nil
}

// Load returns the cached set, loading it if needed. A load error is cached
// too, so a broken prompts file fails every lookup the same way until Reset.
func (r *Registry) Load() (*Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.set == nil && r.err == nil {
		r.set, r.err = r.load()
	}
	return r.set, r.err
}

func (r *Registry) load() (*Set, error) {
	data := embeddedDefaults
	if r.path != "" {
		// #nosec G304 -- prompts file is operator configuration
		raw, err := os.ReadFile(r.path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, derrors.ConfigNotFound(r.path)
			}
			return nil, derrors.Wrap(err, derrors.CategoryConfig, derrors.SeverityFatal, "failed to read prompts file").
				WithContext("path", r.path)
		}
		data = raw
	}
	return Parse(data)
}

// Parse decodes and compiles a prompt set. The set must contain a default definition.
func Parse(data []byte) (*Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryConfig, derrors.SeverityFatal, "failed to unmarshal prompts")
	}
	hasDefault := false
	for i := range set.Prompts {
		def := &set.Prompts[i]
		if def.Name == "" {
			return nil, derrors.ValidationFailed("prompts.name", "prompt definition without a name")
		}
		tmpl, err := template.New(def.Name).Option("missingkey=error").Parse(def.Template)
		if err != nil {
			return nil, derrors.Wrap(err, derrors.CategoryValidation, derrors.SeverityFatal, "invalid prompt template").
				WithContext("prompt", def.Name)
		}
		def.tmpl = tmpl
		if def.Name == DefaultName {
			hasDefault = true
		}
	}
	if !hasDefault {
		return nil, derrors.ValidationFailed("prompts", "a definition named \"default\" is required")
	}
	return &set, nil
}

// Lookup returns the definition named name.
func (s *Set) Lookup(name string) (*Definition, bool) {
	for i := range s.Prompts {
		if s.Prompts[i].Name == name {
			return &s.Prompts[i], true
		}
	}
	return nil, false
}

// ForFile returns the first definition with a match keyword contained in the
// file's base name, or the default definition.
func (s *Set) ForFile(path string) *Definition {
	base := strings.ToLower(filepath.Base(path))
	for i := range s.Prompts {
		for _, kw := range s.Prompts[i].Match {
			if kw != "" && strings.Contains(base, strings.ToLower(kw)) {
				return &s.Prompts[i]
			}
		}
	}
	def, _ := s.Lookup(DefaultName)
	return def
}
