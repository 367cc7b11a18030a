package analyzer

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

var extensionLanguages = map[string]string{
	".py": "Python", ".pyw": "Python", ".pyi": "Python", ".ipynb": "Jupyter Notebook",
	".js": "JavaScript", ".mjs": "JavaScript", ".cjs": "JavaScript", ".jsx": "JavaScript",
	".ts": "TypeScript", ".tsx": "TypeScript", ".mts": "TypeScript",
	".go":   "Go",
	".rs":   "Rust",
	".java": "Java", ".kt": "Kotlin", ".kts": "Kotlin", ".scala": "Scala", ".groovy": "Groovy",
	".c": "C", ".h": "C",
	".cpp": "C++", ".cc": "C++", ".cxx": "C++", ".hpp": "C++", ".hh": "C++",
	".cs": "C#", ".fs": "F#", ".vb": "Visual Basic",
	".rb": "Ruby", ".php": "PHP", ".swift": "Swift", ".m": "Objective-C",
	".dart": "Dart", ".lua": "Lua", ".pl": "Perl", ".pm": "Perl", ".r": "R",
	".ex": "Elixir", ".exs": "Elixir", ".erl": "Erlang", ".hs": "Haskell", ".clj": "Clojure",
	".sh": "Shell", ".bash": "Shell", ".zsh": "Shell", ".fish": "Shell", ".ps1": "PowerShell",
	".sql": "SQL", ".vue": "Vue", ".svelte": "Svelte",
	".html": "HTML", ".htm": "HTML", ".css": "CSS", ".scss": "SCSS", ".sass": "Sass", ".less": "Less",
	".md": "Markdown", ".mdx": "MDX", ".rst": "reStructuredText",
	".json": "JSON", ".yaml": "YAML", ".yml": "YAML", ".toml": "TOML", ".xml": "XML",
	".proto": "Protocol Buffers", ".tf": "HCL", ".nix": "Nix",
}

var filenameLanguages = map[string]string{
	"Dockerfile":     "Dockerfile",
	"Containerfile":  "Dockerfile",
	"Makefile":       "Makefile",
	"GNUmakefile":    "Makefile",
	"Gemfile":        "Ruby",
	"Rakefile":       "Ruby",
	"Podfile":        "Ruby",
	"Vagrantfile":    "Ruby",
	"Jenkinsfile":    "Groovy",
	"CMakeLists.txt": "CMake",
	"BUILD":          "Starlark",
	"WORKSPACE":      "Starlark",
	"Justfile":       "Just",
	"Procfile":       "Procfile",
}

var shebangInterpreters = []struct {
	needle string
	lang   string
}{
	{"python", "Python"},
	{"node", "JavaScript"},
	{"deno", "TypeScript"},
	{"bash", "Shell"},
	{"zsh", "Shell"},
	{"/sh", "Shell"},
	{" sh", "Shell"},
	{"ruby", "Ruby"},
	{"perl", "Perl"},
	{"php", "PHP"},
}

// nonProgrammingLanguages never count as a project's primary language.
var nonProgrammingLanguages = map[string]struct{}{
	"Markdown": {}, "MDX": {}, "reStructuredText": {}, "JSON": {}, "YAML": {}, "TOML": {},
	"XML": {}, "HTML": {}, "CSS": {}, "SCSS": {}, "Sass": {}, "Less": {},
	"Dockerfile": {}, "Makefile": {}, "CMake": {}, "Procfile": {}, "Just": {},
}

// DetectLanguage resolves a language label for path, reading the first line
// for a shebang when the name has no extension. It returns "" when unknown.
func DetectLanguage(path string) string {
	base := filepath.Base(path)
	if lang, ok := filenameLanguages[base]; ok {
		return lang
	}
	ext := strings.ToLower(filepath.Ext(base))
	if ext != "" {
		return extensionLanguages[ext]
	}
	return sniffShebang(path)
}

func sniffShebang(path string) string {
	// #nosec G304 -- path comes from the repository walk
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	reader := bufio.NewReaderSize(f, 256)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return languageFromShebang(line)
}

func languageFromShebang(line string) string {
	if !strings.HasPrefix(line, "#!") {
		return ""
	}
	line = strings.TrimSpace(line)
	for _, cand := range shebangInterpreters {
		if strings.Contains(line, cand.needle) {
			return cand.lang
		}
	}
	return ""
}
