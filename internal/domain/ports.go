package domain

import (
	"context"
	"io"
)

// FileInfo describes one entry of an input directory.
type FileInfo struct {
	Name  string
	URL   string
	IsDir bool
}

// Storage is the read side of the input file tree (review and metadata dirs).
type Storage interface {
	Exists(ctx context.Context, location string) (bool, error)
	List(ctx context.Context, dir string) ([]FileInfo, error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
	Join(dir, name string) string
}

// RowWriter is the sink of joined rows. The header is written by the
// constructor of the concrete writer, once per run.
type RowWriter interface {
	Write(row OutputRow) error
	Flush() error
}

// PriceIndex is what the join needs from a MetadataIndex.
type PriceIndex interface {
	Lookup(productID *string) (*string, bool)
	Len() int
}

// MalformedPolicy decides what happens to a line that is not valid JSON.
type MalformedPolicy string

const (
	OnMalformedAbort MalformedPolicy = "abort"
	OnMalformedSkip  MalformedPolicy = "skip"
)

// OutputMode decides whether an existing output file is kept or replaced.
type OutputMode string

const (
	OutputAppend   OutputMode = "append"
	OutputTruncate OutputMode = "truncate"
)
