// Package config loads and normalizes docapply configuration from YAML and the environment.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docapply/internal/errors"
)

// Config represents the application configuration.
type Config struct {
	Version      string             `yaml:"version"`
	Analyzer     AnalyzerConfig     `yaml:"analyzer"`
	Substitution SubstitutionConfig `yaml:"substitution"`
	Enhancement  EnhancementConfig  `yaml:"enhancement"`
	Validation   ValidationConfig   `yaml:"validation"`
	Site         SiteConfig         `yaml:"site"`
	Generator    GeneratorConfig    `yaml:"generator"`
	Logging      LoggingConfig      `yaml:"logging"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}

// AnalyzerConfig controls the repository walk.
type AnalyzerConfig struct {
	ExcludeDirs   []string `yaml:"exclude_dirs,omitempty"`
	IncludeHidden bool     `yaml:"include_hidden"`
}

// SubstitutionConfig controls which files the placeholder sweep rewrites.
type SubstitutionConfig struct {
	Suffixes []string `yaml:"suffixes,omitempty"`
}

// EnhancementConfig controls the AI content enhancement loop.
type EnhancementConfig struct {
	Strict           bool        `yaml:"strict"`
	MaxAttempts      int         `yaml:"max_attempts"`
	Marker           string      `yaml:"marker"`
	SiteToken        string      `yaml:"site_token"`
	EscapeOutput     *bool       `yaml:"escape_output,omitempty"`
	PriorityKeywords []string    `yaml:"priority_keywords,omitempty"`
	Retry            RetryConfig `yaml:"retry"`
	PromptsFile      string      `yaml:"prompts_file,omitempty"`
}

// ShouldEscape reports whether generated content passes through the escaper before linting.
func (e EnhancementConfig) ShouldEscape() bool {
	return e.EscapeOutput == nil || *e.EscapeOutput
}

// RetryConfig configures the delay between enhancement attempts.
type RetryConfig struct {
	Backoff RetryBackoffMode `yaml:"backoff"`
	Initial time.Duration    `yaml:"initial"`
	Max     time.Duration    `yaml:"max"`
}

// ValidationConfig controls the final validation sweep.
type ValidationConfig struct {
	PreviewPerType int  `yaml:"preview_per_type"`
	FailOnIssues   bool `yaml:"fail_on_issues"`
}

// SiteConfig names the generated site artifacts relative to the output directory.
type SiteConfig struct {
	DocsDir     string `yaml:"docs_dir"`
	ConfigFile  string `yaml:"config_file"`
	SidebarFile string `yaml:"sidebar_file"`
	PackageFile string `yaml:"package_file"`
	Tagline     string `yaml:"tagline,omitempty"`
	URL         string `yaml:"url,omitempty"`
}

// GeneratorConfig selects the external generation capability.
type GeneratorConfig struct {
	Provider        string `yaml:"provider"` // ollama|none
	Host            string `yaml:"host,omitempty"`
	Model           string `yaml:"model,omitempty"`
	System          string `yaml:"system,omitempty"`
	MaxPromptLength int    `yaml:"max_prompt_length,omitempty"`
}

// LoggingConfig controls slog handler construction.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig controls the Prometheus recorder.
type MetricsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	TextfilePath string `yaml:"textfile_path,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load loads configuration from the specified file.
//
// Environment variables from .env/.env.local are loaded first (existing values win)
// and ${VAR} references in the YAML are expanded before decoding.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, derrors.ConfigNotFound(configPath)
	}

	// #nosec G304 -- configPath is supplied by the operator
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryConfig, derrors.SeverityFatal, "failed to read config file").
			WithContext("path", configPath)
	}

	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes, defaults and validates raw YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryConfig, derrors.SeverityFatal, "failed to unmarshal config")
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configPath when it exists and falls back to defaults otherwise.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		}
	}
	loadEnvFiles()
	return Default(), nil
}
