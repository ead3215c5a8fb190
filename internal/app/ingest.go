package app

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"review_pipeline/internal/adapters/observability"
	"review_pipeline/internal/domain"
)

type IngestOptions struct {
	MetaDir        string
	CategorySuffix string // file name part that separates the category, "_5" in the 5-core dumps
	OnMalformed    domain.MalformedPolicy
}

// RunSummary totals one ProcessDirectory call.
type RunSummary struct {
	Categories   int
	Records      int
	Rows         int
	PriceHits    int
	PriceMisses  int // product unknown to the metadata index
	NoPrice      int // product known, metadata carried no price
	SkippedLines int
	SkippedFiles int
}

func (s *RunSummary) add(c RunSummary) {
	s.Categories += c.Categories
	s.Records += c.Records
	s.Rows += c.Rows
	s.PriceHits += c.PriceHits
	s.PriceMisses += c.PriceMisses
	s.NoPrice += c.NoPrice
	s.SkippedLines += c.SkippedLines
}

type IngestionService struct {
	store    domain.Storage
	out      domain.RowWriter
	opts     IngestOptions
	progress *rate.Sometimes
}

func NewIngestionService(store domain.Storage, out domain.RowWriter, opts IngestOptions) *IngestionService {
	if opts.OnMalformed == "" {
		opts.OnMalformed = domain.OnMalformedAbort
	}
	return &IngestionService{
		store:    store,
		out:      out,
		opts:     opts,
		progress: &rate.Sometimes{Interval: 10 * time.Second},
	}
}

// MetadataName derives the metadata file name of a review file:
// Office_Products_5.json -> meta_Office_Products.json.
func MetadataName(reviewFile, suffix string) string {
	category, _, found := strings.Cut(reviewFile, suffix)
	if suffix == "" || !found {
		category = strings.TrimSuffix(reviewFile, ".json")
	}
	return "meta_" + category + ".json"
}

// ProcessDirectory joins every *.json file of dir, one category at a time.
// A missing dir is logged and is not an error.
func (s *IngestionService) ProcessDirectory(ctx context.Context, dir string) (RunSummary, error) {
	var sum RunSummary

	ok, err := s.store.Exists(ctx, dir)
	if err != nil {
		return sum, errors.Wrapf(err, "stat %s", dir)
	}
	if !ok {
		log.Warn().Str("dir", dir).Msg("reviews dir does not exist; nothing to ingest")
		return sum, nil
	}

	entries, err := s.store.List(ctx, dir)
	if err != nil {
		return sum, errors.Wrapf(err, "list %s", dir)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	for _, e := range entries {
		if e.IsDir || !strings.HasSuffix(e.Name, ".json") {
			sum.SkippedFiles++
			observability.ObserveSkippedFile()
			log.Debug().Str("entry", e.Name).Msg("skipping non-review entry")
			continue
		}
		cs, err := s.IngestCategory(ctx, e)
		sum.add(cs)
		if err != nil {
			return sum, err
		}
	}

	if err := s.out.Flush(); err != nil {
		return sum, errors.Wrap(err, "flush output")
	}
	return sum, nil
}

// IngestCategory indexes the category's metadata, then streams its reviews
// into the writer.
func (s *IngestionService) IngestCategory(ctx context.Context, file domain.FileInfo) (RunSummary, error) {
	start := time.Now()
	sum := RunSummary{Categories: 1}
	category := file.Name
	logger := log.With().Str("category", category).Logger()

	metaPath := s.store.Join(s.opts.MetaDir, MetadataName(file.Name, s.opts.CategorySuffix))
	idx, err := s.loadIndex(ctx, metaPath)
	if err != nil {
		return sum, err
	}
	logger.Info().Str("meta", metaPath).Int("products", idx.Len()).Msg("metadata indexed")

	rc, err := s.store.Open(ctx, s.location(file))
	if err != nil {
		return sum, errors.Wrapf(err, "open %s", file.Name)
	}
	defer rc.Close()

	records := NewRecordProducer(rc, category, s.opts.OnMalformed)
	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		rec, err := records.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			sum.SkippedLines = records.Skipped()
			return sum, err
		}
		sum.Records++
		observability.ObserveRecord(category)

		row := domain.OutputRow{ReviewRecord: rec}
		switch price, result := joinPrice(idx, rec.ProductID); result {
		case "hit":
			row.Price = price
			sum.PriceHits++
		case "no_price":
			sum.NoPrice++
		default:
			sum.PriceMisses++
		}

		if err := s.out.Write(row); err != nil {
			return sum, errors.Wrapf(err, "write row for %s", category)
		}
		sum.Rows++
		observability.ObserveRow()

		s.progress.Do(func() {
			logger.Info().Int("records", sum.Records).Msg("ingest progress")
		})
	}
	sum.SkippedLines = records.Skipped()

	observability.ObserveCategory(category, time.Since(start))
	logger.Info().
		Int("records", sum.Records).
		Int("price_hits", sum.PriceHits).
		Int("price_misses", sum.PriceMisses).
		Int("no_price", sum.NoPrice).
		Int("skipped_lines", sum.SkippedLines).
		Dur("took", time.Since(start)).
		Msg("category done")
	return sum, nil
}

func (s *IngestionService) loadIndex(ctx context.Context, metaPath string) (*domain.MetadataIndex, error) {
	ok, err := s.store.Exists(ctx, metaPath)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", metaPath)
	}
	if !ok {
		return nil, errors.Wrapf(domain.ErrMetadataMissing, "%s", metaPath)
	}
	rc, err := s.store.Open(ctx, metaPath)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", metaPath)
	}
	defer rc.Close()

	idx, st, err := BuildPriceIndex(ctx, rc, metaPath, s.opts.OnMalformed)
	if err != nil {
		return nil, err
	}
	if st.NoID > 0 {
		log.Debug().Str("meta", metaPath).Int("objects_without_id", st.NoID).Msg("metadata objects share the missing-id slot")
	}
	return idx, nil
}

func (s *IngestionService) location(file domain.FileInfo) string {
	if file.URL != "" {
		return file.URL
	}
	return file.Name
}

// joinPrice resolves a review's price. Result is hit, miss or no_price.
// A review without a product ID joins the metadata object that had none.
func joinPrice(idx domain.PriceIndex, productID *string) (*string, string) {
	result := "miss"
	var price *string
	if p, known := idx.Lookup(productID); known {
		price, result = p, "hit"
		if p == nil {
			result = "no_price"
		}
	}
	observability.ObservePriceLookup(result)
	return price, result
}
