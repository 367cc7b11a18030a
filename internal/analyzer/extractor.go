package analyzer

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Extractor reads one family of project descriptors and records what it finds.
// Implementations must leave m untouched for fields they cannot determine.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, root string, m *Metadata) error
}

// DefaultExtractors returns the extractor chain in precedence order.
// Later extractors only overwrite fields under the Metadata.Set rules.
func DefaultExtractors() []Extractor {
	return []Extractor{
		nodeExtractor{},
		pythonExtractor{},
		mavenExtractor{},
		gradleExtractor{},
		cargoExtractor{},
		goModExtractor{},
		composerExtractor{},
		rubyExtractor{},
		dotnetExtractor{},
		readmeExtractor{},
		gitRemoteExtractor{},
	}
}

// readOptional returns the content of root/name and whether it exists.
func readOptional(root, name string) ([]byte, bool, error) {
	// #nosec G304 -- name is one of a fixed set of descriptor names under the scanned root
	data, err := os.ReadFile(filepath.Join(root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// firstMatch returns the lexically first root-level file matching one of the patterns.
func firstMatch(root string, patterns ...string) string {
	var found []string
	for _, p := range patterns {
		matches, err := filepath.Glob(filepath.Join(root, p))
		if err != nil {
			continue
		}
		found = append(found, matches...)
	}
	if len(found) == 0 {
		return ""
	}
	sort.Strings(found)
	return found[0]
}

var scpLikeURL = regexp.MustCompile(`^(?:[\w.-]+@)?([\w.-]+):([\w./-]+)$`)

// NormalizeRepoURL converts git remote and descriptor repository notations to
// an https URL without a trailing .git. Unrecognised input is returned trimmed.
func NormalizeRepoURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "git+")
	for prefix, host := range map[string]string{"github:": "github.com", "gitlab:": "gitlab.com", "bitbucket:": "bitbucket.org"} {
		if strings.HasPrefix(s, prefix) {
			s = "https://" + host + "/" + strings.TrimPrefix(s, prefix)
		}
	}
	if !strings.Contains(s, "://") {
		if m := scpLikeURL.FindStringSubmatch(s); m != nil {
			s = "https://" + m[1] + "/" + m[2]
		}
	}
	if u, err := url.Parse(s); err == nil && u.Host != "" {
		switch u.Scheme {
		case "ssh", "git", "git+ssh", "http":
			u.Scheme = "https"
		}
		u.User = nil
		u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), ".git")
		u.RawQuery, u.Fragment = "", ""
		return u.String()
	}
	return strings.TrimSuffix(s, ".git")
}

// OrgFromRepoURL returns the owning user or organisation of a hosted repository URL.
func OrgFromRepoURL(repoURL string) string {
	u, err := url.Parse(repoURL)
	if err != nil || u.Host == "" {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}
	return parts[0]
}

func setRepo(m *Metadata, raw string, src Source) {
	repo := NormalizeRepoURL(raw)
	if repo == "" {
		return
	}
	if m.Set(FieldRepoURL, repo, src) {
		m.Set(FieldOrgName, OrgFromRepoURL(repo), src)
	}
}

var requirementName = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9._-]*)`)

// requirementNames strips version specifiers, extras and markers from requirement strings.
func requirementNames(reqs []string) []string {
	out := make([]string, 0, len(reqs))
	for _, r := range reqs {
		if m := requirementName.FindStringSubmatch(r); m != nil {
			out = append(out, m[1])
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
