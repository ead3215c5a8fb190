// Package ndjson reads newline-delimited JSON objects one line at a time.
package ndjson

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"review_pipeline/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LineError reports a line that is not a JSON object.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Is lets callers match any LineError with domain.ErrMalformedLine.
func (e *LineError) Is(target error) bool { return target == domain.ErrMalformedLine }

// Reader yields the non-empty lines of r decoded as JSON objects.
// It is single pass; there is no way to rewind it.
type Reader struct {
	br   *bufio.Reader
	line int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64*1024)}
}

// Line is the 1-based number of the last line read.
func (r *Reader) Line() int { return r.line }

// Next returns the next object, or io.EOF when the input is exhausted.
// A malformed line returns a *LineError; reading may continue after it.
func (r *Reader) Next() (map[string]any, error) {
	for {
		raw, err := r.br.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if len(raw) == 0 && err == io.EOF {
			return nil, io.EOF
		}
		r.line++

		raw = bytes.TrimRight(raw, "\r\n")
		if len(raw) == 0 {
			continue
		}

		var obj map[string]any
		if uerr := json.Unmarshal(raw, &obj); uerr != nil {
			return nil, &LineError{Line: r.line, Err: uerr}
		}
		if obj == nil {
			return nil, &LineError{Line: r.line, Err: errors.New("not a json object")}
		}
		return obj, nil
	}
}
