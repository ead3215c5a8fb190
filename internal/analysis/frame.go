// Package analysis computes descriptive summaries over a filtered review CSV.
package analysis

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"

	"review_pipeline/internal/pricing"
)

// Derived columns added on load.
const (
	ColPrice         = "Price"
	ColLowerBound    = "Price Lower Bound"
	ColPriceCategory = "Price Category"
)

const (
	colCategory = "Source Category"
	colProduct  = "Product ID"
	colRating   = "Rating"
	colText     = "Review Text"
	colVerified = "Verified"
	colPrice    = "Product Price"
)

var required = []string{colCategory, colProduct, colRating, colText, colVerified, colPrice}

// Frame is a loaded review table. All source columns are kept as strings.
type Frame struct {
	df   dataframe.DataFrame
	rows int
}

// Load reads a review CSV. Header rows repeated by appended runs are dropped.
func Load(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	if len(records) == 0 {
		return nil, errors.New("read csv: no header")
	}
	header := records[0]
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, errors.Errorf("read csv: missing columns %v", missing)
	}

	kept := records[:1]
	for _, rec := range records[1:] {
		if isHeader(rec, header) {
			continue
		}
		if len(rec) != len(header) {
			return nil, errors.Errorf("read csv: row has %d fields, want %d", len(rec), len(header))
		}
		kept = append(kept, rec)
	}
	if len(kept) == 1 {
		return &Frame{}, nil
	}

	df := dataframe.LoadRecords(kept,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "load frame")
	}
	f := &Frame{df: df, rows: df.Nrow()}
	if err := f.derivePrices(); err != nil {
		return nil, err
	}
	return f, nil
}

func missingColumns(header []string) []string {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	var out []string
	for _, c := range required {
		if !have[c] {
			out = append(out, c)
		}
	}
	return out
}

func isHeader(rec, header []string) bool {
	if len(rec) != len(header) {
		return false
	}
	for i := range rec {
		if rec[i] != header[i] {
			return false
		}
	}
	return true
}

// derivePrices adds Price (NaN when unparseable), Price Lower Bound
// (missing as 0) and Price Category ("" outside the bands).
func (f *Frame) derivePrices() error {
	raw := f.Strings(colPrice)
	price := make([]float64, len(raw))
	lower := make([]float64, len(raw))
	band := make([]string, len(raw))
	for i, s := range raw {
		price[i] = math.NaN()
		if p, ok := pricing.Normalize(s); ok {
			price[i] = p
		}
		lower[i] = pricing.LowerBound(s)
		band[i], _ = pricing.Bucket(lower[i])
	}
	f.df = f.df.Mutate(series.New(price, series.Float, ColPrice)).
		Mutate(series.New(lower, series.Float, ColLowerBound)).
		Mutate(series.New(band, series.String, ColPriceCategory))
	return errors.Wrap(f.df.Err, "derive prices")
}

// Len is the number of review rows.
func (f *Frame) Len() int { return f.rows }

// Strings returns a column as text.
func (f *Frame) Strings(col string) []string {
	if f.rows == 0 {
		return nil
	}
	return f.df.Col(col).Records()
}

// Floats returns a numeric column; unparseable cells are NaN.
func (f *Frame) Floats(col string) []float64 {
	if f.rows == 0 {
		return nil
	}
	return f.df.Col(col).Float()
}

// Categories lists source categories in order of first appearance.
func (f *Frame) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range f.Strings(colCategory) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Category returns the rows of one source category.
func (f *Frame) Category(name string) *Frame {
	if f.rows == 0 {
		return &Frame{}
	}
	sub := f.df.Filter(dataframe.F{Colname: colCategory, Comparator: series.Eq, Comparando: name})
	if sub.Err != nil || sub.Nrow() == 0 {
		return &Frame{}
	}
	return &Frame{df: sub, rows: sub.Nrow()}
}

// ratingLabel parses a Rating cell and formats it the way the CSV writer
// does. Non-numeric ratings report false.
func ratingLabel(s string) (string, float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return "", 0, false
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64), v, true
	}
	return strconv.FormatFloat(v, 'f', -1, 64), v, true
}
