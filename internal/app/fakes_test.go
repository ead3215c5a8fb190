package app_test

import (
	"context"
	"io"
	"os"
	"strings"

	"review_pipeline/internal/domain"
)

// ---- fakes ----

type fakeStore struct {
	files map[string]string
	dirs  map[string][]domain.FileInfo
}

func (s *fakeStore) Exists(ctx context.Context, location string) (bool, error) {
	if _, ok := s.files[location]; ok {
		return true, nil
	}
	_, ok := s.dirs[location]
	return ok, nil
}

func (s *fakeStore) List(ctx context.Context, dir string) ([]domain.FileInfo, error) {
	return s.dirs[dir], nil
}

func (s *fakeStore) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	body, ok := s.files[location]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (s *fakeStore) Join(dir, name string) string { return dir + "/" + name }

// reviewsFixture lays out reviews/ and meta/ the way the dumps do.
func reviewsFixture(reviews map[string]string, meta map[string]string) *fakeStore {
	s := &fakeStore{files: map[string]string{}, dirs: map[string][]domain.FileInfo{"reviews": nil, "meta": nil}}
	for name, body := range reviews {
		s.files["reviews/"+name] = body
		s.dirs["reviews"] = append(s.dirs["reviews"], domain.FileInfo{Name: name, URL: "reviews/" + name})
	}
	for name, body := range meta {
		s.files["meta/"+name] = body
		s.dirs["meta"] = append(s.dirs["meta"], domain.FileInfo{Name: name, URL: "meta/" + name})
	}
	return s
}

type fakeWriter struct {
	rows    []domain.OutputRow
	flushes int
}

func (w *fakeWriter) Write(r domain.OutputRow) error {
	w.rows = append(w.rows, r)
	return nil
}

func (w *fakeWriter) Flush() error {
	w.flushes++
	return nil
}

func ptr[T any](v T) *T { return &v }

func deref(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}
