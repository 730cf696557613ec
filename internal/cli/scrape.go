package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/bee-archive/internal/config"
	"github.com/pfrederiksen/bee-archive/internal/logger"
	"github.com/pfrederiksen/bee-archive/internal/storage"
)

var (
	flagDays        int
	flagOutput      string
	flagFormat      string
	flagConcurrency int
	flagOnPartial   string
	flagSummary     string
)

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape a range of days and write the result table",
		Long: `Visits one puzzle page per day, counting back from today, and writes
a single table once every day has been read. Days whose page is missing or
unreadable are logged and left out.`,
		Args: cobra.NoArgs,
		RunE: runScrape,
	}

	cmd.Flags().IntVar(&flagDays, "days", config.DefaultDays, "Number of days to scrape, counting back from today")
	cmd.Flags().StringVar(&flagOutput, "output", config.DefaultOutput, "Output file")
	cmd.Flags().StringVar(&flagFormat, "format", config.DefaultFormat, "Output format: csv, json or sqlite")
	cmd.Flags().IntVar(&flagConcurrency, "concurrency", config.DefaultConcurrency, "Days fetched at once")
	cmd.Flags().StringVar(&flagOnPartial, "on-partial", config.PartialKeep, "Days without exactly 7 letters: keep or skip")
	cmd.Flags().StringVar(&flagSummary, "summary", string(FormatText), "Run summary format: text or json")

	return cmd
}

// applyScrapeFlags copies the scrape flags set on cmd into cfg.
func applyScrapeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("days") {
		cfg.Days = flagDays
	}
	if flags.Changed("output") {
		cfg.Output = flagOutput
	}
	if flags.Changed("format") {
		cfg.Format = strings.ToLower(flagFormat)
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = flagConcurrency
	}
	if flags.Changed("on-partial") {
		cfg.OnPartial = flagOnPartial
	}
}

func runScrape(cmd *cobra.Command, args []string) error {
	summaryFormat := OutputFormat(strings.ToLower(flagSummary))
	if summaryFormat != FormatText && summaryFormat != FormatJSON {
		return fmt.Errorf("invalid summary format: %s (must be 'text' or 'json')", flagSummary)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.Output, cfg.Format)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	driver, closer, err := newDriver(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.ResetMetrics()
	startedAt := time.Now().UTC()

	res, runErr := driver.Run(cmd.Context())
	if res == nil {
		return runErr
	}

	// Whatever was read before an interruption is still written.
	if err := store.Save(cmd.Context(), res.Records); err != nil {
		return fmt.Errorf("saving results: %w", err)
	}
	logger.Info("results written", logger.Fields{
		"path":    store.Path(),
		"format":  store.Format(),
		"records": len(res.Records),
	})

	result := &OutputResult{
		StartedAt: startedAt,
		Output:    store.Path(),
		Format:    store.Format(),
		Summary:   res.Summary,
		Metrics:   logger.GetMetricsSnapshot(),
	}
	if err := WriteOutput(cmd.OutOrStdout(), result, summaryFormat); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return runErr
}
