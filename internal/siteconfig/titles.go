package siteconfig

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Titleize turns a document slug such as "quick-start" into "Quick Start".
func Titleize(slug string) string {
	base := path.Base(strings.ReplaceAll(slug, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	words := strings.FieldsFunc(base, func(r rune) bool { return r == '-' || r == '_' || r == ' ' || r == '.' })
	if len(words) == 0 {
		return ""
	}
	return titleCaser.String(strings.Join(words, " "))
}
