package analyzer

import (
	"path/filepath"
	"sort"
)

// Source identifies which input set a metadata field. Higher rank is more authoritative.
type Source int

const (
	// SourceDefault marks values derived from the repository directory itself.
	SourceDefault Source = iota
	// SourceInferred marks values read from VCS state or module paths.
	SourceInferred
	// SourceReadme marks values taken from the README heuristic.
	SourceReadme
	// SourceDescriptor marks values read from a build or package descriptor.
	SourceDescriptor
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceInferred:
		return "inferred"
	case SourceReadme:
		return "readme"
	case SourceDescriptor:
		return "descriptor"
	default:
		return "unknown"
	}
}

// Field names used for provenance tracking.
const (
	FieldProjectName = "project_name"
	FieldDescription = "description"
	FieldVersion     = "version"
	FieldAuthor      = "author"
	FieldLicense     = "license"
	FieldRepoURL     = "repo_url"
	FieldOrgName     = "org_name"
)

// Directory categories.
const (
	DirSource        = "source"
	DirTest          = "test"
	DirDocumentation = "documentation"
	DirBuild         = "build"
	DirConfig        = "config"
	DirOther         = "other"
)

// Metadata is everything the analyzer learned about a repository.
//
// It is populated once by Scan and treated as read-only afterwards.
type Metadata struct {
	RootPath        string            `json:"root_path"`
	ProjectName     string            `json:"project_name"`
	Description     string            `json:"description"`
	Version         string            `json:"version"`
	Author          string            `json:"author"`
	License         string            `json:"license"`
	RepoURL         string            `json:"repo_url"`
	OrgName         string            `json:"org_name"`
	Dependencies    []string          `json:"dependencies"`
	DevDependencies []string          `json:"dev_dependencies"`
	Languages       map[string]int    `json:"languages"`
	Files           []string          `json:"files"`
	Directories     []string          `json:"directories"`
	KeyFiles        map[string]string `json:"key_files"`
	SrcDirs         []string          `json:"src_dirs"`
	TestDirs        []string          `json:"test_dirs"`
	DocDirs         []string          `json:"doc_dirs"`
	TotalSize       int64             `json:"total_size"`

	// DependencySource names the extractor that last supplied dependency lists.
	DependencySource string            `json:"dependency_source,omitempty"`
	Sources          map[string]string `json:"sources"`

	sources     map[string]Source
	defaultName string
}

// NewMetadata returns metadata seeded with the directory name as project name.
func NewMetadata(root string) *Metadata {
	name := filepath.Base(filepath.Clean(root))
	m := &Metadata{
		RootPath:        root,
		Dependencies:    []string{},
		DevDependencies: []string{},
		Languages:       map[string]int{},
		Files:           []string{},
		Directories:     []string{},
		KeyFiles:        map[string]string{},
		SrcDirs:         []string{},
		TestDirs:        []string{},
		DocDirs:         []string{},
		Sources:         map[string]string{},
		sources:         map[string]Source{},
		defaultName:     name,
	}
	m.Set(FieldProjectName, name, SourceDefault)
	return m
}

// DefaultName returns the directory-derived project name.
func (m *Metadata) DefaultName() string { return m.defaultName }

// SourceOf returns the source that set field, or SourceDefault if unset.
func (m *Metadata) SourceOf(field string) Source { return m.sources[field] }

// Set assigns field when src is at least as authoritative as the current
// value's source, or when the current project name is still the directory
// default. Empty values never overwrite. It reports whether the field changed.
func (m *Metadata) Set(field, value string, src Source) bool {
	if value == "" {
		return false
	}
	ptr := m.fieldPtr(field)
	if ptr == nil {
		return false
	}
	current, seen := m.sources[field]
	if seen && *ptr != "" && src < current {
		if field != FieldProjectName || *ptr != m.defaultName {
			return false
		}
	}
	*ptr = value
	m.sources[field] = src
	m.Sources[field] = src.String()
	return true
}

func (m *Metadata) fieldPtr(field string) *string {
	switch field {
	case FieldProjectName:
		return &m.ProjectName
	case FieldDescription:
		return &m.Description
	case FieldVersion:
		return &m.Version
	case FieldAuthor:
		return &m.Author
	case FieldLicense:
		return &m.License
	case FieldRepoURL:
		return &m.RepoURL
	case FieldOrgName:
		return &m.OrgName
	default:
		return nil
	}
}

// SetDependencies replaces both dependency lists when the source declared any.
// Lists are deduplicated within the source; sources are not merged.
func (m *Metadata) SetDependencies(source string, deps, devDeps []string) {
	if len(deps) == 0 && len(devDeps) == 0 {
		return
	}
	m.Dependencies = dedupe(deps)
	m.DevDependencies = dedupe(devDeps)
	m.DependencySource = source
}

// LanguageList returns detected language labels sorted by name.
func (m *Metadata) LanguageList() []string {
	out := make([]string, 0, len(m.Languages))
	for lang := range m.Languages {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// HasLanguage reports whether lang was detected.
func (m *Metadata) HasLanguage(lang string) bool {
	_, ok := m.Languages[lang]
	return ok
}

// PrimaryLanguage returns the programming language with the most files.
// Ties resolve alphabetically. Data and prose formats are ignored.
func (m *Metadata) PrimaryLanguage() string {
	best, bestCount := "", 0
	for _, lang := range m.LanguageList() {
		if _, skip := nonProgrammingLanguages[lang]; skip {
			continue
		}
		if c := m.Languages[lang]; c > bestCount {
			best, bestCount = lang, c
		}
	}
	return best
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ProgrammingLanguages returns detected languages that count towards the primary language, sorted.
func (m *Metadata) ProgrammingLanguages() []string {
	out := make([]string, 0, len(m.Languages))
	for _, lang := range m.LanguageList() {
		if _, skip := nonProgrammingLanguages[lang]; !skip {
			out = append(out, lang)
		}
	}
	return out
}

// HasFile reports whether rel (slash separated, relative to the root) was seen by the walk.
func (m *Metadata) HasFile(rel string) bool {
	i := sort.SearchStrings(m.Files, rel)
	return i < len(m.Files) && m.Files[i] == rel
}
