// Package afsstore exposes the input file tree through github.com/viant/afs.
package afsstore

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"review_pipeline/internal/domain"
)

type Store struct{ fs afs.Service }

func New() *Store { return &Store{fs: afs.New()} }

// normalize turns a relative or absolute OS path into a file:// URL and
// leaves anything that already has a scheme untouched.
func normalize(location string) (string, error) {
	if url.Scheme(location, "") != "" {
		return location, nil
	}
	if url.IsRelative(location) {
		abs, err := filepath.Abs(location)
		if err != nil {
			return "", err
		}
		location = abs
	}
	return url.ToFileURL(location), nil
}

func (s *Store) Exists(ctx context.Context, location string) (bool, error) {
	u, err := normalize(location)
	if err != nil {
		return false, err
	}
	return s.fs.Exists(ctx, u)
}

// List returns the direct children of dir; the directory itself is not included.
func (s *Store) List(ctx context.Context, dir string) ([]domain.FileInfo, error) {
	u, err := normalize(dir)
	if err != nil {
		return nil, err
	}
	objects, err := s.fs.List(ctx, u)
	if err != nil {
		return nil, err
	}
	self := strings.TrimRight(url.Path(u), "/")
	out := make([]domain.FileInfo, 0, len(objects))
	for i, o := range objects {
		if o.IsDir() && (i == 0 || strings.TrimRight(url.Path(o.URL()), "/") == self) {
			continue
		}
		out = append(out, domain.FileInfo{Name: o.Name(), URL: o.URL(), IsDir: o.IsDir()})
	}
	return out, nil
}

func (s *Store) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	u, err := normalize(location)
	if err != nil {
		return nil, err
	}
	return s.fs.OpenURL(ctx, u)
}

// Join appends name to dir, keeping dir's form (path or URL).
func (s *Store) Join(dir, name string) string {
	if url.Scheme(dir, "") != "" {
		return url.Join(dir, name)
	}
	return filepath.Join(dir, name)
}
