package siteconfig

import (
	"regexp"
	"strings"
)

const (
	// FallbackName replaces names that sanitize to nothing.
	FallbackName = "docs-site"
	// MaxNameLength is the npm package name limit.
	MaxNameLength = 214
)

var (
	invalidNameChars = regexp.MustCompile(`[^a-z0-9\-._~]`)
	hyphenRuns       = regexp.MustCompile(`-+`)
)

// SanitizeName turns raw into a valid package name: lowercase, restricted to
// [a-z0-9-._~], no repeated or surrounding hyphens, no leading dot or
// underscore, between 1 and MaxNameLength characters.
func SanitizeName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = invalidNameChars.ReplaceAllString(name, "-")
	name = hyphenRuns.ReplaceAllString(name, "-")
	// Trimming can expose new leading hyphens, dots or underscores.
	for {
		trimmed := strings.TrimLeft(strings.Trim(name, "-"), "._")
		if trimmed == name {
			break
		}
		name = trimmed
	}
	if name == "" {
		return FallbackName
	}
	if len(name) > MaxNameLength {
		name = strings.TrimRight(name[:MaxNameLength], "-")
	}
	return name
}
