package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/docapply/internal/errors"
)

const maxAttemptsCeiling = 100

// Validate checks a defaulted configuration for values that cannot be applied.
func Validate(cfg *Config) error {
	if err := validateEnhancement(&cfg.Enhancement); err != nil {
		return err
	}
	if err := validateSite(&cfg.Site); err != nil {
		return err
	}
	return validateGenerator(&cfg.Generator)
}

func validateEnhancement(e *EnhancementConfig) error {
	if e.MaxAttempts > maxAttemptsCeiling {
		return derrors.ValidationFailed("enhancement.max_attempts",
			fmt.Sprintf("must be at most %d", maxAttemptsCeiling))
	}
	if strings.TrimSpace(e.Marker) == "" {
		return derrors.ValidationFailed("enhancement.marker", "must not be blank")
	}
	return nil
}

func validateSite(s *SiteConfig) error {
	for field, p := range map[string]string{
		"site.docs_dir":     s.DocsDir,
		"site.config_file":  s.ConfigFile,
		"site.sidebar_file": s.SidebarFile,
		"site.package_file": s.PackageFile,
	} {
		if filepath.IsAbs(p) {
			return derrors.ValidationFailed(field, "must be relative to the output directory")
		}
		if strings.HasPrefix(filepath.Clean(p), "..") {
			return derrors.ValidationFailed(field, "must not escape the output directory")
		}
	}
	switch strings.ToLower(filepath.Ext(s.ConfigFile)) {
	case ".json", ".yaml", ".yml":
	default:
		return derrors.ValidationFailed("site.config_file", "must be .json, .yaml or .yml")
	}
	return nil
}

func validateGenerator(g *GeneratorConfig) error {
	switch g.Provider {
	case GeneratorProviderNone:
		return nil
	case GeneratorOllama:
		u, err := url.Parse(g.Host)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return derrors.ValidationFailed("generator.host", "must be an absolute URL")
		}
		return nil
	default:
		return derrors.ValidationFailed("generator.provider", fmt.Sprintf("unsupported provider %q", g.Provider))
	}
}
