package app

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"review_pipeline/internal/adapters/ndjson"
	"review_pipeline/internal/adapters/observability"
	"review_pipeline/internal/domain"
)

// IndexStats counts what BuildPriceIndex saw besides indexed products.
type IndexStats struct {
	Objects   int
	NoID      int // objects without a product ID; the last one fills the missing-ID slot
	Malformed int // lines dropped under the skip policy
}

// BuildPriceIndex reads a whole metadata file into memory. A product that
// appears twice keeps its last price; an object without a price is indexed
// with a nil price.
func BuildPriceIndex(ctx context.Context, r io.Reader, name string, policy domain.MalformedPolicy) (*domain.MetadataIndex, IndexStats, error) {
	idx := domain.NewMetadataIndex()
	var st IndexStats
	src := ndjson.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return nil, st, err
		}
		obj, err := src.Next()
		if err == io.EOF {
			return idx, st, nil
		}
		if err != nil {
			if errors.Is(err, domain.ErrMalformedLine) && policy == domain.OnMalformedSkip {
				st.Malformed++
				observability.ObserveMalformed("metadata")
				log.Warn().Err(err).Str("file", name).Msg("skipping malformed metadata line")
				continue
			}
			return nil, st, errors.Wrapf(err, "metadata file %s", name)
		}
		st.Objects++
		meta := mapMeta(obj)
		if meta.ProductID == nil {
			st.NoID++
		}
		idx.Put(meta)
	}
}
