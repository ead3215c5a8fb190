package analysis

import (
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"review_pipeline/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EncodeJSON writes the report as indented JSON.
func EncodeJSON(w io.Writer, rep domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(rep), "encode report")
}

// WriteJSON writes the report to path, or to stdout when path is "-".
func WriteJSON(path string, rep domain.Report) error {
	if path == "-" {
		return EncodeJSON(os.Stdout, rep)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := EncodeJSON(f, rep); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
