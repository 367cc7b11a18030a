package config

// Defaults shared with the packages that consume them.
const (
	DefaultMaxAttempts     = 10
	DefaultMarker          = "[INSERT_CONTENT]"
	DefaultSiteToken       = "{{PROJECT_NAME}}"
	DefaultPreviewPerType  = 5
	DefaultDocsDir         = "docs"
	DefaultSiteConfigFile  = "docusaurus.config.json"
	DefaultSidebarFile     = "sidebars.json"
	DefaultPackageFile     = "package.json"
	DefaultGeneratorHost   = "http://localhost:11434"
	DefaultGeneratorModel  = "llama3"
	DefaultMaxPromptLength = 32000
	GeneratorProviderNone  = "none"
	GeneratorOllama        = "ollama"
)

// DefaultSubstitutionSuffixes lists the text-like files the placeholder sweep rewrites.
var DefaultSubstitutionSuffixes = []string{
	".md", ".mdx", ".js", ".jsx", ".ts", ".tsx", ".json",
	".yml", ".yaml", ".toml", ".txt", ".html", ".css",
}

// DefaultPriorityKeywords orders enhancement: files whose name contains one of
// these are processed first, in keyword order.
var DefaultPriorityKeywords = []string{"installation", "quick-start", "quickstart", "features", "contributing"}

// ApplyDefaults fills zero values and normalizes enumerations in place.
func ApplyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = "1"
	}

	if len(cfg.Substitution.Suffixes) == 0 {
		cfg.Substitution.Suffixes = append([]string(nil), DefaultSubstitutionSuffixes...)
	}

	e := &cfg.Enhancement
	if e.MaxAttempts <= 0 {
		e.MaxAttempts = DefaultMaxAttempts
	}
	if e.Marker == "" {
		e.Marker = DefaultMarker
	}
	if e.SiteToken == "" {
		e.SiteToken = DefaultSiteToken
	}
	if len(e.PriorityKeywords) == 0 {
		e.PriorityKeywords = append([]string(nil), DefaultPriorityKeywords...)
	}
	if mode := NormalizeRetryBackoff(string(e.Retry.Backoff)); mode != "" {
		e.Retry.Backoff = mode
	} else {
		e.Retry.Backoff = RetryBackoffNone
	}
	if e.Retry.Initial < 0 {
		e.Retry.Initial = 0
	}
	if e.Retry.Max < e.Retry.Initial {
		e.Retry.Max = e.Retry.Initial
	}

	if cfg.Validation.PreviewPerType <= 0 {
		cfg.Validation.PreviewPerType = DefaultPreviewPerType
	}

	s := &cfg.Site
	if s.DocsDir == "" {
		s.DocsDir = DefaultDocsDir
	}
	if s.ConfigFile == "" {
		s.ConfigFile = DefaultSiteConfigFile
	}
	if s.SidebarFile == "" {
		s.SidebarFile = DefaultSidebarFile
	}
	if s.PackageFile == "" {
		s.PackageFile = DefaultPackageFile
	}

	g := &cfg.Generator
	if g.Provider == "" {
		g.Provider = GeneratorProviderNone
	}
	if g.Provider == GeneratorOllama {
		if g.Host == "" {
			g.Host = DefaultGeneratorHost
		}
		if g.Model == "" {
			g.Model = DefaultGeneratorModel
		}
	}
	if g.MaxPromptLength <= 0 {
		g.MaxPromptLength = DefaultMaxPromptLength
	}

	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}
