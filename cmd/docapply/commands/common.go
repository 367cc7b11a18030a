package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docapply/internal/config"
	"git.home.luguber.info/inful/docapply/internal/logfields"
	"git.home.luguber.info/inful/docapply/internal/metrics"
)

// Global is the state shared by every subcommand.
type Global struct {
	Ctx      context.Context
	Config   *config.Config
	Logger   *slog.Logger
	Recorder metrics.Recorder
	Stdout   io.Writer

	prom *metrics.PrometheusRecorder
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"docapply.yaml"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log format (text or json)"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Generate a documentation site for a repository"`
	Analyze  AnalyzeCmd  `cmd:"" help:"Print repository metadata as JSON"`
	Validate ValidateCmd `cmd:"" help:"Validate a generated docs directory"`
	Repair   RepairCmd   `cmd:"" help:"Repair known defects in a site configuration"`
	Lint     LintCmd     `cmd:"" help:"Lint documentation for content that breaks the site build"`
	Sanitize SanitizeCmd `cmd:"" help:"Print the package-safe form of a name"`
	Show     VersionCmd  `cmd:"" name:"version" help:"Print version information"`
}

// Setup loads configuration, applies global flag overrides and builds the
// logger and recorder. Logs go to stderr so stdout stays parseable.
func (c *CLI) Setup(ctx context.Context, stdout, stderr io.Writer) (*Global, error) {
	cfg, err := config.LoadOrDefault(c.Config)
	if err != nil {
		return nil, err
	}
	if c.Verbose {
		cfg.Logging.Level = config.LogLevelDebug
	}
	if c.LogFormat != "" {
		cfg.Logging.Format = config.NormalizeLogFormat(c.LogFormat)
	}
	logger := cfg.Logging.NewLogger(stderr)
	slog.SetDefault(logger)

	g := &Global{
		Ctx:      ctx,
		Config:   cfg,
		Logger:   logger,
		Recorder: metrics.NoopRecorder{},
		Stdout:   stdout,
	}
	if cfg.Metrics.Enabled {
		g.prom = metrics.NewPrometheusRecorder(prometheus.NewRegistry())
		g.Recorder = g.prom
	}
	return g, nil
}

// Flush writes collected metrics when a textfile path is configured.
func (g *Global) Flush() {
	if g == nil || g.prom == nil || g.Config.Metrics.TextfilePath == "" {
		return
	}
	if err := metrics.WriteTextfile(g.Config.Metrics.TextfilePath, g.prom.Registry()); err != nil {
		g.Logger.Warn("Failed to write metrics textfile",
			logfields.Path(g.Config.Metrics.TextfilePath), logfields.Error(err))
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
