package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecordsRead = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "records_read_total", Help: "Review records parsed."},
		[]string{"category"},
	)
	RowsWritten = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "reviews", Name: "rows_written_total", Help: "Joined rows written to the output."},
	)
	PriceLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "price_lookups_total", Help: "Price joins by result."},
		[]string{"result"}, // result: hit|miss|no_price
	)
	MalformedLines = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "malformed_lines_total", Help: "Lines that were not JSON objects."},
		[]string{"kind"}, // kind: review|metadata
	)
	SkippedFiles = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "reviews", Name: "skipped_files_total", Help: "Directory entries that are not review files."},
	)
	CategoryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviews", Name: "category_duration_seconds",
			Help:    "Time to index metadata and join one category.",
			Buckets: []float64{.1, .5, 1, 5, 15, 60, 300, 900},
		},
		[]string{"category"},
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(RecordsRead, RowsWritten, PriceLookups, MalformedLines, SkippedFiles, CategoryDuration)
	return reg
}

// WriteTextfile dumps the registry in text exposition format, the shape the
// node_exporter textfile collector picks up. There is no scrape endpoint.
func WriteTextfile(path string, reg *prometheus.Registry) error {
	return prometheus.WriteToTextfile(path, reg)
}

func ObserveRecord(category string) { RecordsRead.WithLabelValues(category).Inc() }

func ObserveRow() { RowsWritten.Inc() }

func ObservePriceLookup(result string) { PriceLookups.WithLabelValues(result).Inc() }

func ObserveMalformed(kind string) { MalformedLines.WithLabelValues(kind).Inc() }

func ObserveSkippedFile() { SkippedFiles.Inc() }

func ObserveCategory(category string, dur time.Duration) {
	CategoryDuration.WithLabelValues(category).Observe(dur.Seconds())
}
