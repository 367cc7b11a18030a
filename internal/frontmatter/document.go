package frontmatter

import (
	"fmt"
	"strings"
)

// DocFields are the identity keys a documentation site needs on every page.
type DocFields struct {
	ID           string
	Title        string
	SidebarLabel string
}

// Document is a parsed Markdown file with its front matter decoded.
type Document struct {
	Fields map[string]any
	Body   []byte
	Had    bool
	Style  Style
}

// Parse splits and decodes content.
func Parse(content []byte) (*Document, error) {
	front, body, had, style, err := Split(content)
	if err != nil {
		return nil, err
	}
	fields, err := ParseYAML(front)
	if err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	return &Document{Fields: fields, Body: body, Had: had, Style: style}, nil
}

// String returns the string value of key, or "" when absent or not a string.
func (d *Document) String(key string) string {
	s, _ := d.Fields[key].(string)
	return s
}

// Bytes serializes the document. A document without fields keeps no front matter block.
func (d *Document) Bytes() ([]byte, error) {
	if len(d.Fields) == 0 {
		return Join(nil, d.Body, d.Had, d.Style), nil
	}
	front, err := SerializeYAML(d.Fields, d.Style)
	if err != nil {
		return nil, err
	}
	return Join(front, d.Body, true, d.Style), nil
}

// EnsureDocFields fills id, title and sidebar_label when they are missing or
// blank. Existing values always win. It reports whether content changed.
func EnsureDocFields(content []byte, want DocFields) ([]byte, bool, error) {
	doc, err := Parse(content)
	if err != nil {
		return nil, false, err
	}
	changed := false
	set := func(key, value string) {
		if value == "" || !isBlank(doc.Fields[key]) {
			return
		}
		doc.Fields[key] = value
		changed = true
	}
	set("id", want.ID)
	set("title", want.Title)
	label := want.SidebarLabel
	if label == "" {
		label = doc.String("title")
	}
	set("sidebar_label", label)
	if !changed {
		return content, false, nil
	}
	out, err := doc.Bytes()
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
