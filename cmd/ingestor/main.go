package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"review_pipeline/internal/adapters/afsstore"
	"review_pipeline/internal/adapters/observability"
	"review_pipeline/internal/app"
	"review_pipeline/internal/domain"
	"review_pipeline/internal/shared"
	"review_pipeline/internal/storage/csvfile"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&cfg).ExecuteContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("ingestion failed")
	}
}

func newRootCmd(cfg *shared.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ingestor",
		Short:         "Join review files with product prices into one CSV",
		Long:          "Reads every *.json review file of the reviews dir, looks up each product's price in meta_<category>.json and writes one CSV row per review.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), *cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.ReviewsDir, "reviews", cfg.ReviewsDir, "directory of review files")
	f.StringVar(&cfg.MetaDir, "meta", cfg.MetaDir, "directory of meta_<category>.json files")
	f.StringVar(&cfg.OutputCSV, "out", cfg.OutputCSV, "output CSV path")
	f.StringVar(&cfg.OutputMode, "mode", cfg.OutputMode, "output mode (append|truncate)")
	f.StringVar(&cfg.OnMalformed, "on-malformed", cfg.OnMalformed, "malformed line policy (abort|skip)")
	f.StringVar(&cfg.CategorySuffix, "suffix", cfg.CategorySuffix, "file name part that ends the category")
	f.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write metrics in text format to this file")
	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "also write JSON logs to this rotated file")

	return cmd
}

func run(ctx context.Context, cfg shared.Config) error {
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogFile)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Info().
		Str("reviews", cfg.ReviewsDir).
		Str("meta", cfg.MetaDir).
		Str("out", cfg.OutputCSV).
		Str("mode", cfg.OutputMode).
		Msg("ingestor starting")

	reg := observability.InitRegistry()

	out, err := csvfile.Open(cfg.OutputCSV, domain.OutputMode(cfg.OutputMode))
	if err != nil {
		return err
	}

	ing := app.NewIngestionService(afsstore.New(), out, app.IngestOptions{
		MetaDir:        cfg.MetaDir,
		CategorySuffix: cfg.CategorySuffix,
		OnMalformed:    domain.MalformedPolicy(cfg.OnMalformed),
	})
	sum, runErr := ing.ProcessDirectory(ctx, cfg.ReviewsDir)

	if err := out.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if cfg.MetricsFile != "" {
		if err := observability.WriteTextfile(cfg.MetricsFile, reg); err != nil {
			log.Warn().Err(err).Str("file", cfg.MetricsFile).Msg("metrics not written")
		}
	}
	if runErr != nil {
		return runErr
	}

	log.Info().
		Int("categories", sum.Categories).
		Int("rows", sum.Rows).
		Int("price_hits", sum.PriceHits).
		Int("price_misses", sum.PriceMisses).
		Int("no_price", sum.NoPrice).
		Int("skipped_lines", sum.SkippedLines).
		Int("skipped_files", sum.SkippedFiles).
		Msg("ingestion completed")
	return nil
}
