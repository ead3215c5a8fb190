// Package pricing turns the free-form price strings of the metadata dumps
// into numbers and price bands.
package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var cleaner = strings.NewReplacer("$", "", " ", "", "–", "-")

// Normalize returns a single price for v. Numbers pass through unchanged;
// strings are stripped of "$" and spaces, and a "lo-hi" range yields the mean
// of its parts. ok is false for anything that does not parse ("N/A", "", text).
func Normalize(v any) (float64, bool) {
	switch x := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		return parse(x)
	case *string:
		if x == nil {
			return 0, false
		}
		return parse(*x)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func parse(raw string) (float64, bool) {
	s := cleaner.Replace(raw)
	if strings.Contains(s, "-") {
		parts := strings.Split(s, "-")
		var sum float64
		for _, p := range parts {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return 0, false
			}
			sum += f
		}
		return sum / float64(len(parts)), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Band is a half-open price interval [Lo, Hi).
type Band struct {
	Label  string
	Lo, Hi float64
}

// Bands are the price categories used in the rating-by-price summaries.
var Bands = []Band{
	{"0-10", 0, 10},
	{"10-20", 10, 20},
	{"20-30", 20, 30},
	{"30-40", 30, 40},
	{"40-50", 40, 50},
	{"50-100", 50, 100},
	{"100-200", 100, 200},
	{"200-500", 200, 500},
}

// Bucket returns the label of the band containing p; prices below 0 or at
// 500 and above fall outside every band.
func Bucket(p float64) (string, bool) {
	for _, b := range Bands {
		if p >= b.Lo && p < b.Hi {
			return b.Label, true
		}
	}
	return "", false
}

// LowerBound is the price used for grouping: missing prices count as 0.
func LowerBound(v any) float64 {
	if f, ok := Normalize(v); ok {
		return f
	}
	return 0
}
