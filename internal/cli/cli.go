package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/bee-archive/internal/batch"
	"github.com/pfrederiksen/bee-archive/internal/config"
	"github.com/pfrederiksen/bee-archive/internal/glyph"
	"github.com/pfrederiksen/bee-archive/internal/logger"
	"github.com/pfrederiksen/bee-archive/internal/ocr"
	"github.com/pfrederiksen/bee-archive/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig    string
	flagLogLevel  string
	flagHost      string
	flagTemplates string
	flagOrder     string
	flagTimeout   time.Duration
)

// newRecognizer builds the OCR fallback. Replaced in tests.
var newRecognizer = func(cfg *config.Config) (glyph.Recognizer, io.Closer, error) {
	t, err := ocr.New(ocr.WithLanguage(cfg.OCRLanguage), ocr.WithWhitelist(cfg.OCRWhitelist))
	if err != nil {
		return nil, nil, err
	}
	return t, t, nil
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bee-archive",
		Short: "Archive daily Spelling Bee puzzles from nytbee.com",
		Long: `A CLI tool that scrapes the daily Spelling Bee pages on nytbee.com.
Reads each day's statistics from the page and recovers the seven puzzle
letters from its honeycomb image, then writes one table for the whole range.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/bee-archive/config.yaml)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&flagHost, "host", config.DefaultHost, "Site root the puzzle pages live under")
	pf.StringVar(&flagTemplates, "templates", "", "Directory holding the o.png and q.png reference glyphs")
	pf.StringVar(&flagOrder, "order", config.OrderDiscovery, "Glyph reading order: discovery or left-to-right")
	pf.DurationVar(&flagTimeout, "timeout", config.DefaultTimeout, "HTTP timeout per request (0 for none)")

	cmd.AddCommand(newScrapeCmd(), newRecoverCmd(), newGlyphsCmd())
	return cmd
}

// loadConfig merges defaults, the config file and the flags set on cmd,
// validates the result and installs the configured logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("host") {
		cfg.Host = flagHost
	}
	if flags.Changed("templates") {
		cfg.UseTemplateDir(flagTemplates)
	}
	if flags.Changed("order") {
		cfg.Order = flagOrder
	}
	if flags.Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	applyScrapeFlags(cmd, cfg)

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// engineOptions converts the recognition settings of cfg.
func engineOptions(cfg *config.Config) (glyph.Options, error) {
	order, err := glyph.ParseOrder(cfg.Order)
	if err != nil {
		return glyph.Options{}, err
	}
	return glyph.Options{
		Thresholds: glyph.Thresholds{
			GlyphMin:  cfg.Thresholds.GlyphMin,
			GlyphMax:  cfg.Thresholds.GlyphMax,
			Structure: cfg.Thresholds.Structure,
		},
		ExpectedLetters: cfg.ExpectedLetters,
		Order:           order,
	}, nil
}

// templatePath returns path, or "" with a warning when no file exists
// there, so that letter goes to OCR.
func templatePath(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Warn("reference glyph not found, falling back to OCR", logger.Fields{
			"path": path,
		})
		return ""
	}
	return path
}

// newDriver wires the fetcher, templates, recognizer and engine for cfg.
// The returned closer releases the recognizer.
func newDriver(cfg *config.Config) (*batch.Driver, io.Closer, error) {
	templates, err := glyph.LoadTemplates(templatePath(cfg.Templates.O), templatePath(cfg.Templates.Q))
	if err != nil {
		return nil, nil, err
	}

	opts, err := engineOptions(cfg)
	if err != nil {
		return nil, nil, err
	}

	recognizer, closer, err := newRecognizer(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("starting OCR: %w", err)
	}

	engine := glyph.NewEngine(templates, recognizer, opts)
	client := scraper.New(
		scraper.WithTimeout(cfg.Timeout),
		scraper.WithUserAgent(cfg.UserAgent),
	)

	logger.Debug("driver ready", logger.Fields{
		"host":      cfg.Host,
		"templates": templates.Loaded(),
		"order":     cfg.Order,
	})
	return batch.New(client, engine, batch.OptionsFromConfig(cfg)), closer, nil
}

// Execute runs the CLI. An interrupt cancels the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
