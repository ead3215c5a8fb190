package app

import (
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"review_pipeline/internal/adapters/ndjson"
	"review_pipeline/internal/adapters/observability"
	"review_pipeline/internal/domain"
)

// RecordProducer turns a review file into ReviewRecords, one per call to
// Next, in file order. It holds one record at a time and cannot be restarted.
type RecordProducer struct {
	src      *ndjson.Reader
	category string
	policy   domain.MalformedPolicy
	skipped  int
}

func NewRecordProducer(r io.Reader, category string, policy domain.MalformedPolicy) *RecordProducer {
	return &RecordProducer{src: ndjson.NewReader(r), category: category, policy: policy}
}

// Next returns io.EOF after the last record. Under the abort policy a
// malformed line ends production with an error matching domain.ErrMalformedLine.
func (p *RecordProducer) Next() (domain.ReviewRecord, error) {
	for {
		obj, err := p.src.Next()
		if err == io.EOF {
			return domain.ReviewRecord{}, io.EOF
		}
		if err != nil {
			if errors.Is(err, domain.ErrMalformedLine) && p.policy == domain.OnMalformedSkip {
				p.skipped++
				observability.ObserveMalformed("review")
				log.Warn().Err(err).Str("category", p.category).Msg("skipping malformed review line")
				continue
			}
			return domain.ReviewRecord{}, errors.Wrapf(err, "review file %s", p.category)
		}
		return mapReview(p.category, obj), nil
	}
}

// Skipped is the number of malformed lines dropped under the skip policy.
func (p *RecordProducer) Skipped() int { return p.skipped }
