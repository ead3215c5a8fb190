package shared_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"review_pipeline/internal/domain"
	"review_pipeline/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := shared.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OutputMode != "append" || cfg.OnMalformed != "abort" || cfg.CategorySuffix != "_5" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	yml := "reviews_dir: /data/reviews\noutput_mode: truncate\ntop_words: 20\ntracked_words: [good, comfortable]\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TOP_WORDS", "30")

	cfg, err := shared.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ReviewsDir != "/data/reviews" {
		t.Errorf("reviews_dir = %q", cfg.ReviewsDir)
	}
	if cfg.OutputMode != "truncate" {
		t.Errorf("output_mode = %q", cfg.OutputMode)
	}
	if cfg.TopWords != 30 {
		t.Errorf("env should win over file, top_words = %d", cfg.TopWords)
	}
	if len(cfg.TrackedWords) != 2 || cfg.TrackedWords[1] != "comfortable" {
		t.Errorf("tracked_words = %v", cfg.TrackedWords)
	}
	// untouched keys keep their defaults
	if cfg.MetaDir != "./metadata" {
		t.Errorf("meta_dir = %q", cfg.MetaDir)
	}
}

func TestLoad_EnvList(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PRICE_CATEGORIES", "Office_Products_5.json, Toys_and_Games_5.json,")
	cfg, err := shared.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.PriceCategories) != 2 || cfg.PriceCategories[1] != "Toys_and_Games_5.json" {
		t.Fatalf("price_categories = %v", cfg.PriceCategories)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := shared.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), shared.Defaults())
	if !errors.Is(err, os.ErrNotExist) || !strings.Contains(err.Error(), "nope.yaml") {
		t.Fatalf("expected a not-exist error naming the file, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(*shared.Config){
		"mode":    func(c *shared.Config) { c.OutputMode = "overwrite" },
		"policy":  func(c *shared.Config) { c.OnMalformed = "ignore" },
		"words":   func(c *shared.Config) { c.TopWords = 0 },
		"workers": func(c *shared.Config) { c.Workers = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := shared.Defaults()
			mutate(&c)
			err := c.Validate()
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.HasSuffix(err.Error(), domain.ErrInvalidConfig.Error()) {
				t.Fatalf("message should end with the sentinel text: %q", err.Error())
			}
		})
	}
}
