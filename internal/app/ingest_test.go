package app_test

import (
	"context"
	"errors"
	"testing"

	"review_pipeline/internal/app"
	"review_pipeline/internal/domain"
)

func opts() app.IngestOptions {
	return app.IngestOptions{MetaDir: "meta", CategorySuffix: "_5"}
}

func TestMetadataName(t *testing.T) {
	cases := map[string]string{
		"Office_Products_5.json": "meta_Office_Products.json",
		"Toys_5.json":            "meta_Toys.json",
		"Books.json":             "meta_Books.json",
	}
	for in, want := range cases {
		if got := app.MetadataName(in, "_5"); got != want {
			t.Fatalf("%s: got %s want %s", in, got, want)
		}
	}
	if got := app.MetadataName("Toys_5.json", ""); got != "meta_Toys_5.json" {
		t.Fatalf("empty suffix: %s", got)
	}
}

func TestProcessDirectory_JoinsPrices(t *testing.T) {
	store := reviewsFixture(
		map[string]string{
			"Toys_5.json": `{"asin":"P1","reviewerID":"R1","overall":5.0,"summary":"Great","reviewText":"Good","verified":true}
{"asin":"P2","reviewerID":"R2","overall":3.0,"image":["x.jpg"]}
{"asin":"P3","reviewerID":"R3"}
{"reviewerID":"R4"}
`,
		},
		map[string]string{
			"meta_Toys.json": `{"asin":"P1","price":"$12.99"}
{"asin":"P2"}
{"title":"no id","price":"$7.00"}
`,
		},
	)
	w := &fakeWriter{}
	svc := app.NewIngestionService(store, w, opts())

	sum, err := svc.ProcessDirectory(context.Background(), "reviews")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if sum.Categories != 1 || sum.Records != 4 || sum.Rows != 4 {
		t.Fatalf("summary=%+v", sum)
	}
	if sum.PriceHits != 2 || sum.NoPrice != 1 || sum.PriceMisses != 1 {
		t.Fatalf("price results=%+v", sum)
	}
	if w.flushes != 1 || len(w.rows) != 4 {
		t.Fatalf("writer rows=%d flushes=%d", len(w.rows), w.flushes)
	}

	r := w.rows[0]
	if r.Category != "Toys_5.json" || deref(r.Price) != "$12.99" || deref(r.ProductID) != "P1" {
		t.Fatalf("row0=%+v", r)
	}
	if r.Rating == nil || *r.Rating != 5 || r.Verified == nil || !*r.Verified || r.HasImage {
		t.Fatalf("row0 fields=%+v", r)
	}
	if !w.rows[1].HasImage || w.rows[1].Price != nil {
		t.Fatalf("row1=%+v", w.rows[1])
	}
	if w.rows[2].Price != nil || w.rows[2].Rating != nil || w.rows[2].Text != nil {
		t.Fatalf("row2 should carry only ids: %+v", w.rows[2])
	}
	// a review without a product ID joins the metadata object without one
	if w.rows[3].ProductID != nil || deref(w.rows[3].Price) != "$7.00" {
		t.Fatalf("row3 id=%s price=%s", deref(w.rows[3].ProductID), deref(w.rows[3].Price))
	}
}

func TestProcessDirectory_SkipsNonReviewEntriesInOrder(t *testing.T) {
	store := reviewsFixture(
		map[string]string{
			"B_5.json":   `{"asin":"P1"}` + "\n",
			"A_5.json":   `{"asin":"P1"}` + "\n",
			"README.txt": "hello",
		},
		map[string]string{
			"meta_A.json": `{"asin":"P1","price":"1"}`,
			"meta_B.json": `{"asin":"P1","price":"2"}`,
		},
	)
	store.dirs["reviews"] = append(store.dirs["reviews"], domain.FileInfo{Name: "nested.json", IsDir: true})
	w := &fakeWriter{}

	sum, err := app.NewIngestionService(store, w, opts()).ProcessDirectory(context.Background(), "reviews")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if sum.SkippedFiles != 2 || sum.Categories != 2 {
		t.Fatalf("summary=%+v", sum)
	}
	if len(w.rows) != 2 || w.rows[0].Category != "A_5.json" || deref(w.rows[1].Price) != "2" {
		t.Fatalf("rows=%+v", w.rows)
	}
}

func TestProcessDirectory_MissingDirIsNoop(t *testing.T) {
	w := &fakeWriter{}
	sum, err := app.NewIngestionService(&fakeStore{}, w, opts()).ProcessDirectory(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("missing dir should not fail: %v", err)
	}
	if sum.Categories != 0 || len(w.rows) != 0 {
		t.Fatalf("summary=%+v rows=%d", sum, len(w.rows))
	}
}

func TestProcessDirectory_MissingMetadataFails(t *testing.T) {
	store := reviewsFixture(map[string]string{"Toys_5.json": `{"asin":"P1"}`}, nil)
	_, err := app.NewIngestionService(store, &fakeWriter{}, opts()).ProcessDirectory(context.Background(), "reviews")
	if !errors.Is(err, domain.ErrMetadataMissing) {
		t.Fatalf("want ErrMetadataMissing, got %v", err)
	}
}

func TestProcessDirectory_MalformedPolicy(t *testing.T) {
	reviews := map[string]string{"Toys_5.json": "{\"asin\":\"P1\"}\n{oops\n{\"asin\":\"P2\"}\n"}
	meta := map[string]string{"meta_Toys.json": "{\"asin\":\"P1\",\"price\":\"3\"}\n"}

	w := &fakeWriter{}
	_, err := app.NewIngestionService(reviewsFixture(reviews, meta), w, opts()).ProcessDirectory(context.Background(), "reviews")
	if !errors.Is(err, domain.ErrMalformedLine) {
		t.Fatalf("abort: want ErrMalformedLine, got %v", err)
	}
	if len(w.rows) != 1 {
		t.Fatalf("abort: rows before the bad line are kept, got %d", len(w.rows))
	}

	o := opts()
	o.OnMalformed = domain.OnMalformedSkip
	w = &fakeWriter{}
	sum, err := app.NewIngestionService(reviewsFixture(reviews, meta), w, o).ProcessDirectory(context.Background(), "reviews")
	if err != nil {
		t.Fatalf("skip: %v", err)
	}
	if sum.SkippedLines != 1 || len(w.rows) != 2 {
		t.Fatalf("skip: summary=%+v rows=%d", sum, len(w.rows))
	}
}

func TestProcessDirectory_Cancelled(t *testing.T) {
	store := reviewsFixture(
		map[string]string{"Toys_5.json": `{"asin":"P1"}`},
		map[string]string{"meta_Toys.json": `{"asin":"P1"}`},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := app.NewIngestionService(store, &fakeWriter{}, opts()).ProcessDirectory(ctx, "reviews")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
