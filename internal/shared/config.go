package shared

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"review_pipeline/internal/domain"
)

type Config struct {
	AppEnv  string `yaml:"app_env"`
	LogFile string `yaml:"log_file"`

	// ingestion
	ReviewsDir     string `yaml:"reviews_dir"`
	MetaDir        string `yaml:"meta_dir"`
	OutputCSV      string `yaml:"output_csv"`
	OutputMode     string `yaml:"output_mode"`  // append|truncate
	OnMalformed    string `yaml:"on_malformed"` // abort|skip
	CategorySuffix string `yaml:"category_suffix"`
	MetricsFile    string `yaml:"metrics_file"`

	// analysis
	AnalyzeInput    string   `yaml:"analyze_input"`
	ReportJSON      string   `yaml:"report_json"` // "-" is stdout
	ReportXLSX      string   `yaml:"report_xlsx"`
	TopWords        int      `yaml:"top_words"`
	CategoryWords   int      `yaml:"category_words"`
	TrackedWords    []string `yaml:"tracked_words"`
	PriceCategories []string `yaml:"price_categories"`
	Workers         int      `yaml:"workers"`
}

func Defaults() Config {
	return Config{
		AppEnv:         "prod",
		ReviewsDir:     "./reviews",
		MetaDir:        "./metadata",
		OutputCSV:      "filtered_reviews.csv",
		OutputMode:     string(domain.OutputAppend),
		OnMalformed:    string(domain.OnMalformedAbort),
		CategorySuffix: "_5",
		AnalyzeInput:   "filtered_reviews.csv",
		ReportJSON:     "-",
		TopWords:       100,
		CategoryWords:  5,
		TrackedWords:   []string{"good"},
		Workers:        4,
	}
}

// Load builds the config from defaults, then CONFIG_FILE (YAML) if set,
// then environment variables.
func Load() (Config, error) {
	c := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		var err error
		if c, err = LoadFile(path, c); err != nil {
			return c, err
		}
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer env value")
		}
		return def
	}
	c.AppEnv = env("APP_ENV", c.AppEnv)
	c.LogFile = env("LOG_FILE", c.LogFile)
	c.ReviewsDir = env("REVIEWS_DIR", c.ReviewsDir)
	c.MetaDir = env("META_DIR", c.MetaDir)
	c.OutputCSV = env("OUTPUT_CSV", c.OutputCSV)
	c.OutputMode = env("OUTPUT_MODE", c.OutputMode)
	c.OnMalformed = env("ON_MALFORMED", c.OnMalformed)
	c.CategorySuffix = env("CATEGORY_SUFFIX", c.CategorySuffix)
	c.MetricsFile = env("METRICS_FILE", c.MetricsFile)
	c.AnalyzeInput = env("ANALYZE_INPUT", c.AnalyzeInput)
	c.ReportJSON = env("REPORT_JSON", c.ReportJSON)
	c.ReportXLSX = env("REPORT_XLSX", c.ReportXLSX)
	c.TopWords = atoi("TOP_WORDS", c.TopWords)
	c.CategoryWords = atoi("CATEGORY_WORDS", c.CategoryWords)
	c.TrackedWords = envList("TRACKED_WORDS", c.TrackedWords)
	c.PriceCategories = envList("PRICE_CATEGORIES", c.PriceCategories)
	c.Workers = atoi("ANALYZE_WORKERS", c.Workers)
	return c, nil
}

// LoadFile overlays the YAML file at path on base. Keys absent from the
// file keep base's value.
func LoadFile(path string, base Config) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return base, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(b, &base); err != nil {
		return base, errors.Wrapf(err, "parse config %s", path)
	}
	return base, nil
}

func (c Config) Validate() error {
	switch domain.OutputMode(c.OutputMode) {
	case domain.OutputAppend, domain.OutputTruncate:
	default:
		return errors.Wrapf(domain.ErrInvalidConfig, "output_mode %q (want append|truncate)", c.OutputMode)
	}
	switch domain.MalformedPolicy(c.OnMalformed) {
	case domain.OnMalformedAbort, domain.OnMalformedSkip:
	default:
		return errors.Wrapf(domain.ErrInvalidConfig, "on_malformed %q (want abort|skip)", c.OnMalformed)
	}
	if c.TopWords <= 0 || c.CategoryWords <= 0 {
		return errors.Wrap(domain.ErrInvalidConfig, "top_words and category_words must be positive")
	}
	if c.Workers <= 0 {
		return errors.Wrap(domain.ErrInvalidConfig, "workers must be positive")
	}
	if within(c.MetaDir, c.ReviewsDir) {
		// meta_*.json would be picked up as review files
		log.Warn().Str("meta_dir", c.MetaDir).Str("reviews_dir", c.ReviewsDir).Msg("metadata dir is inside the reviews dir")
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envList(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func within(child, parent string) bool {
	c, err1 := filepath.Abs(child)
	p, err2 := filepath.Abs(parent)
	if err1 != nil || err2 != nil {
		return false
	}
	rel, err := filepath.Rel(p, c)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
