package placeholders

import (
	"strings"
	"unicode"
	"unicode/utf8"

	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/docapply/internal/markdown"
)

// MaxFeatures is the number of feature slots templates can reference.
const MaxFeatures = 6

const (
	minFeatureLength = 10
	maxTitleRunes    = 50
)

// Feature is a headline capability shown on the generated landing page.
type Feature struct {
	Title       string
	Description string
}

var languageFeatures = []struct {
	languages []string
	feature   Feature
}{
	{[]string{"Python"}, Feature{"Easy Installation", "Install with pip and start using it in minutes."}},
	{[]string{"JavaScript", "TypeScript"}, Feature{"NPM Package", "Published on npm for use in any Node.js project."}},
	{[]string{"Go"}, Feature{"Single Binary", "Ships as one static binary with no runtime dependencies."}},
	{[]string{"Rust"}, Feature{"Memory Safe", "Written in Rust for memory safety without a garbage collector."}},
	{[]string{"Java"}, Feature{"JVM Ecosystem", "Runs anywhere the JVM does and fits existing Java tooling."}},
}

var genericFeatures = []Feature{
	{"Easy to Use", "A small, focused interface that is quick to learn."},
	{"Well Documented", "Guides and references cover every part of the project."},
	{"Open Source", "Developed in the open; contributions are welcome."},
	{"Actively Maintained", "Regular releases keep the project current."},
	{"Extensible", "Designed to be adapted to your own workflows."},
	{"Community Driven", "Shaped by feedback from the people who use it."},
}

// ExtractFeatures derives up to MaxFeatures features from README bullet
// lines. When the README has none, language specific stubs followed by
// generic ones are returned instead.
func ExtractFeatures(readme string, languages []string) []Feature {
	features := make([]Feature, 0, MaxFeatures)
	var fence markdown.Fence
	for _, line := range strings.Split(readme, "\n") {
		if fence.Feed(line) {
			continue
		}
		content, ok := bulletContent(line)
		if !ok {
			continue
		}
		text, linkOnly := plainBullet(content)
		if linkOnly || utf8.RuneCountInString(text) <= minFeatureLength {
			continue
		}
		features = append(features, featureFromText(text))
		if len(features) == MaxFeatures {
			return features
		}
	}
	if len(features) > 0 {
		return features
	}
	return fallbackFeatures(languages)
}

func bulletContent(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) < 2 {
		return "", false
	}
	switch trimmed[0] {
	case '-', '*', '+':
	default:
		return "", false
	}
	if trimmed[1] != ' ' && trimmed[1] != '\t' {
		return "", false
	}
	content := strings.TrimSpace(trimmed[2:])
	// Task list boxes are not part of the feature text.
	for _, box := range []string{"[ ] ", "[x] ", "[X] "} {
		content = strings.TrimPrefix(content, box)
	}
	return content, content != ""
}

// plainBullet strips inline markup. A bullet consisting of a single link is
// reported as linkOnly; those are tables of contents, not features.
func plainBullet(content string) (string, bool) {
	body := []byte(content)
	root := markdown.ParseBody(body)
	para := root.FirstChild()
	if para == nil {
		return "", false
	}
	if only := para.FirstChild(); only != nil && only == para.LastChild() && only.Kind() == gmast.KindLink {
		return "", true
	}
	return markdown.PlainText(para, body), false
}

func featureFromText(text string) Feature {
	title, desc := text, text
	for _, sep := range []string{": ", " - ", " – ", " — "} {
		if head, tail, ok := strings.Cut(text, sep); ok && strings.TrimSpace(head) != "" && strings.TrimSpace(tail) != "" {
			title, desc = strings.TrimSpace(head), strings.TrimSpace(tail)
			break
		}
	}
	return Feature{Title: truncateTitle(upperFirst(title)), Description: upperFirst(desc)}
}

func truncateTitle(s string) string {
	if utf8.RuneCountInString(s) <= maxTitleRunes {
		return s
	}
	r := []rune(s)
	return strings.TrimRight(string(r[:maxTitleRunes]), " ") + "..."
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func fallbackFeatures(languages []string) []Feature {
	have := make(map[string]bool, len(languages))
	for _, l := range languages {
		have[l] = true
	}
	out := make([]Feature, 0, MaxFeatures)
	for _, lf := range languageFeatures {
		for _, l := range lf.languages {
			if have[l] {
				out = append(out, lf.feature)
				break
			}
		}
	}
	return padFeatures(out)
}

// padFeatures fills the remaining slots with generic features not already present.
func padFeatures(features []Feature) []Feature {
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		seen[f.Title] = true
	}
	for _, g := range genericFeatures {
		if len(features) >= MaxFeatures {
			break
		}
		if !seen[g.Title] {
			features = append(features, g)
		}
	}
	if len(features) > MaxFeatures {
		features = features[:MaxFeatures]
	}
	return features
}
