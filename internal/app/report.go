package app

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"review_pipeline/internal/analysis"
	"review_pipeline/internal/domain"
)

type ReportOptions struct {
	TopWords        int
	CategoryWords   int
	TrackedWords    []string
	PriceCategories []string // categories for the price-by-rating table; empty means all
	Workers         int
}

// ReportService reads a filtered review CSV back and summarises it.
type ReportService struct {
	store domain.Storage
	opts  ReportOptions
}

func NewReportService(store domain.Storage, opts ReportOptions) *ReportService {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &ReportService{store: store, opts: opts}
}

// Build loads the CSV at location and computes every summary. Per-category
// word counts run concurrently, bounded by Workers.
func (s *ReportService) Build(ctx context.Context, location string) (domain.Report, error) {
	start := time.Now()
	rc, err := s.store.Open(ctx, location)
	if err != nil {
		return domain.Report{}, errors.Wrapf(err, "open %s", location)
	}
	defer rc.Close()

	f, err := analysis.Load(rc)
	if err != nil {
		return domain.Report{}, errors.Wrapf(err, "load %s", location)
	}
	log.Info().Str("input", location).Int("rows", f.Len()).Msg("review table loaded")

	rep := domain.Report{
		Rows:                 f.Len(),
		Categories:           f.Categories(),
		VerifiedRatings:      analysis.VerifiedRatings(f),
		RatingDistribution:   analysis.RatingDistribution(f),
		CategoryRatings:      analysis.CategoryRatings(f),
		UniqueProducts:       analysis.UniqueProducts(f),
		PriceCategoryRatings: analysis.AverageRatingByPriceCategory(f),
		TopWords:             analysis.TopWords(f, s.opts.TopWords),
	}
	if rep.PriceByRating, err = analysis.PriceByRating(f, s.opts.PriceCategories); err != nil {
		return domain.Report{}, err
	}
	if rep.CategoryWords, err = s.categoryWords(ctx, f, rep.Categories); err != nil {
		return domain.Report{}, err
	}
	for _, w := range s.opts.TrackedWords {
		rep.WordUsage = append(rep.WordUsage, analysis.WordUsage(f, w)...)
	}

	log.Info().Int("categories", len(rep.Categories)).Dur("took", time.Since(start)).Msg("report built")
	return rep, nil
}

func (s *ReportService) categoryWords(ctx context.Context, f *analysis.Frame, categories []string) ([]domain.CategoryWords, error) {
	out := make([]domain.CategoryWords, len(categories))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, c := range categories {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = analysis.CategoryTopWords(f, c, s.opts.CategoryWords)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "category words")
	}
	return out, nil
}
