// Package csvfile is the flat-file sink of the ingestion pipeline.
package csvfile

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"review_pipeline/internal/domain"
)

// csvRow is an OutputRow already rendered to text; field order is column order.
type csvRow struct {
	Category   string `csv:"Source Category"`
	ProductID  string `csv:"Product ID"`
	ReviewerID string `csv:"Reviewer ID"`
	Rating     string `csv:"Rating"`
	Summary    string `csv:"Review Summary"`
	Text       string `csv:"Review Text"`
	HasImage   string `csv:"Has Image"`
	Verified   string `csv:"Verified"`
	Price      string `csv:"Product Price"`
}

// Writer appends joined rows to a CSV stream. The header row is written
// when the Writer is created, once per run.
type Writer struct {
	buf    *bufio.Writer
	cw     *gocsv.SafeCSVWriter
	closer io.Closer
	rows   int
}

// Open opens path according to mode and writes the header row.
func Open(path string, mode domain.OutputMode) (*Writer, error) {
	flags := os.O_CREATE | os.O_WRONLY
	switch mode {
	case domain.OutputAppend:
		flags |= os.O_APPEND
	case domain.OutputTruncate:
		flags |= os.O_TRUNC
	default:
		return nil, errors.Wrapf(domain.ErrInvalidConfig, "output mode %q", mode)
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open output %s", path)
	}
	w, err := NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// NewWriter writes the header to out and returns a Writer over it.
func NewWriter(out io.Writer) (*Writer, error) {
	buf := bufio.NewWriterSize(out, 256*1024)
	cw := csv.NewWriter(buf)
	w := &Writer{buf: buf, cw: gocsv.NewSafeCSVWriter(cw)}
	if err := w.cw.Write(domain.Columns); err != nil {
		return nil, err
	}
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) Write(row domain.OutputRow) error {
	if err := gocsv.MarshalCSVWithoutHeaders([]csvRow{render(row)}, w.cw); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows is the number of data rows written so far.
func (w *Writer) Rows() int { return w.rows }

func (w *Writer) Flush() error {
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		return err
	}
	return w.buf.Flush()
}

// Close flushes and closes the underlying file, if the Writer owns one.
func (w *Writer) Close() error {
	ferr := w.Flush()
	if w.closer == nil {
		return ferr
	}
	if err := w.closer.Close(); err != nil && ferr == nil {
		ferr = err
	}
	return ferr
}

func render(r domain.OutputRow) csvRow {
	return csvRow{
		Category:   r.Category,
		ProductID:  optStr(r.ProductID),
		ReviewerID: optStr(r.ReviewerID),
		Rating:     optRating(r.Rating, r.RatingText),
		Summary:    optStr(r.Summary),
		Text:       optStr(r.Text),
		HasImage:   titleBool(r.HasImage),
		Verified:   optBool(r.Verified, r.VerifiedText),
		Price:      optStr(r.Price),
	}
}

func optStr(p *string) string {
	if p == nil {
		return domain.NotAvailable
	}
	return *p
}

// optRating keeps one decimal on whole ratings ("5.0") so downstream
// readers see the same labels the dumps use. A rating that was present but
// not numeric is written as it came.
func optRating(p *float64, raw *string) string {
	if p == nil || math.IsNaN(*p) {
		return optStr(raw)
	}
	if *p == math.Trunc(*p) {
		return strconv.FormatFloat(*p, 'f', 1, 64)
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func optBool(p *bool, raw *string) string {
	if p == nil {
		return optStr(raw)
	}
	return titleBool(*p)
}

func titleBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
