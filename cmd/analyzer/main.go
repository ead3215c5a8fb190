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
	"review_pipeline/internal/analysis"
	"review_pipeline/internal/app"
	"review_pipeline/internal/shared"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&cfg).ExecuteContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}
}

func newRootCmd(cfg *shared.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "analyzer",
		Short:         "Summarise a filtered review CSV",
		Long:          "Reads the CSV written by the ingestor and reports rating, price and word statistics as JSON and, optionally, an Excel workbook with charts.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), *cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.AnalyzeInput, "in", cfg.AnalyzeInput, "review CSV to analyse")
	f.StringVar(&cfg.ReportJSON, "json", cfg.ReportJSON, `JSON report path ("-" for stdout, "" to skip)`)
	f.StringVar(&cfg.ReportXLSX, "xlsx", cfg.ReportXLSX, "Excel workbook path (empty to skip)")
	f.IntVar(&cfg.TopWords, "top-words", cfg.TopWords, "number of most common words overall")
	f.IntVar(&cfg.CategoryWords, "category-words", cfg.CategoryWords, "number of most common words per category")
	f.StringSliceVar(&cfg.TrackedWords, "word", cfg.TrackedWords, "word to track against its negation (repeatable)")
	f.StringSliceVar(&cfg.PriceCategories, "price-category", cfg.PriceCategories, "restrict price-by-rating to these categories (repeatable)")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel per-category word counts")
	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "also write JSON logs to this rotated file")

	return cmd
}

func run(ctx context.Context, cfg shared.Config) error {
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogFile)
	if err := cfg.Validate(); err != nil {
		return err
	}

	svc := app.NewReportService(afsstore.New(), app.ReportOptions{
		TopWords:        cfg.TopWords,
		CategoryWords:   cfg.CategoryWords,
		TrackedWords:    cfg.TrackedWords,
		PriceCategories: cfg.PriceCategories,
		Workers:         cfg.Workers,
	})
	rep, err := svc.Build(ctx, cfg.AnalyzeInput)
	if err != nil {
		return err
	}

	if cfg.ReportJSON != "" {
		if err := analysis.WriteJSON(cfg.ReportJSON, rep); err != nil {
			return err
		}
	}
	if cfg.ReportXLSX != "" {
		if err := analysis.WriteWorkbook(cfg.ReportXLSX, rep); err != nil {
			return err
		}
		log.Info().Str("file", cfg.ReportXLSX).Msg("workbook written")
	}
	return nil
}
