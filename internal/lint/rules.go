package lint

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docapply/internal/frontmatter"
)

// DefaultRules returns every content rule in reporting order.
func DefaultRules() []Rule {
	return []Rule{
		&UnclosedTagRule{},
		newPatternRule(TypeEmailAsJSX, `<([^<>\s@]+@[^<>\s@]+\.[^<>\s]+)>`, "email address %q is parsed as a JSX tag; use [text](mailto:...) or escape the brackets"),
		newPatternRule(TypeURLAsJSX, `<((?:https?|ftp)://[^<>\s]*|mailto:[^<>\s]*|www\.[^<>\s]+)>`, "URL %q in angle brackets is parsed as a JSX tag; use a Markdown link"),
		newPatternRule(TypeLooseAngleBracket, `<(?:[^A-Za-z/!]|$)`, "stray %q starts a JSX tag; escape it as \\<"),
		newPatternRule(TypeAtInTag, `<[A-Za-z][\w.\-]*\s[^<>]*@[^<>]*>`, "tag %q contains @ which is not valid in JSX attributes"),
		newPatternRule(TypeUnescapedBrace, `[{}]`, "unescaped %q is evaluated as an expression"),
		&FrontMatterRule{},
	}
}

// patternRule reports every match of a regular expression in prose.
type patternRule struct {
	name    string
	re      *regexp.Regexp
	message string
}

func newPatternRule(name, pattern, message string) *patternRule {
	return &patternRule{name: name, re: regexp.MustCompile(pattern), message: message}
}

func (r *patternRule) Name() string { return r.name }

func (r *patternRule) Check(doc *Document) []Error {
	var errs []Error
	for i, line := range doc.Prose {
		for _, loc := range r.re.FindAllStringIndex(line, -1) {
			// Report the original text, not the masked copy.
			match := doc.Lines[i][loc[0]:loc[1]]
			errs = append(errs, Error{Type: r.name, Description: fmt.Sprintf(r.message, match), Line: i + 1})
		}
	}
	return errs
}

// voidElements never take a closing tag.
var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {}, "input": {},
	"link": {}, "meta": {}, "source": {}, "track": {}, "wbr": {},
}

// UnclosedTagRule reports tags that open without closing and closers without an opener.
type UnclosedTagRule struct{}

func (r *UnclosedTagRule) Name() string { return TypeUnclosedTag }

type openTag struct {
	name string
	line int
}

func (r *UnclosedTagRule) Check(doc *Document) []Error {
	text := strings.Join(doc.Prose, "\n")
	z := html.NewTokenizer(strings.NewReader(text))

	var (
		stack []openTag
		errs  []Error
		line  = 1
	)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		tokenLine := line
		raw := z.Raw()
		// A tag's line is where it starts; leading newlines belong to text tokens.
		line += strings.Count(string(raw), "\n")

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if !trackable(tag) {
				continue
			}
			if _, void := voidElements[tag]; void {
				continue
			}
			stack = append(stack, openTag{name: tag, line: tokenLine})
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if !trackable(tag) {
				continue
			}
			if _, void := voidElements[tag]; void {
				continue
			}
			idx := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name == tag {
					idx = i
					break
				}
			}
			if idx < 0 {
				errs = append(errs, Error{Type: r.Name(), Description: fmt.Sprintf("closing tag </%s> has no matching opening tag", tag), Line: tokenLine})
				continue
			}
			for _, open := range stack[idx+1:] {
				errs = append(errs, unclosed(open))
			}
			stack = stack[:idx]
		}
	}
	for _, open := range stack {
		errs = append(errs, unclosed(open))
	}
	return errs
}

func unclosed(t openTag) Error {
	return Error{Type: TypeUnclosedTag, Description: fmt.Sprintf("tag <%s> is never closed", t.name), Line: t.line}
}

// trackable filters tokenizer output the other rules already cover, such as
// e-mail addresses and URLs in angle brackets.
func trackable(tag string) bool {
	return tag != "" && !strings.ContainsAny(tag, "@:")
}

// FrontMatterRule reports a front matter block that cannot be parsed.
type FrontMatterRule struct{}

func (r *FrontMatterRule) Name() string { return TypeInvalidFrontMatter }

func (r *FrontMatterRule) Check(doc *Document) []Error {
	if doc.frontMatterErr != nil {
		return []Error{{Type: r.Name(), Description: doc.frontMatterErr.Error(), Line: 1}}
	}
	front, _, had, _, _ := frontmatter.Split([]byte(doc.Content))
	if !had {
		return nil
	}
	if _, err := frontmatter.ParseYAML(front); err != nil {
		return []Error{{Type: r.Name(), Description: "front matter is not valid YAML: " + err.Error(), Line: 1}}
	}
	return nil
}
