package pricing_test

import (
	"math"
	"testing"

	"review_pipeline/internal/pricing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{"$10.00", 10.0, true},
		{"$10.00 - $20.00", 15.0, true},
		{"$10.00 – $20.00", 15.0, true},
		{"10-15-20", 15.0, true},
		{"garbage", 0, false},
		{"N/A", 0, false},
		{"", 0, false},
		{"-5", 0, false},
		{12.5, 12.5, true},
		{7, 7.0, true},
		{math.NaN(), 0, false},
		{nil, 0, false},
	}
	for _, c := range cases {
		got, ok := pricing.Normalize(c.in)
		if ok != c.wantOK || (ok && !almostEqual(got, c.want)) {
			t.Errorf("Normalize(%#v) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.wantOK)
		}
	}
}

func TestNormalize_StringPointer(t *testing.T) {
	s := "$3.50"
	if got, ok := pricing.Normalize(&s); !ok || !almostEqual(got, 3.5) {
		t.Fatalf("got %v %v", got, ok)
	}
	var nilStr *string
	if _, ok := pricing.Normalize(nilStr); ok {
		t.Fatal("nil pointer should be missing")
	}
}

func TestBucket(t *testing.T) {
	cases := []struct {
		in     float64
		want   string
		wantOK bool
	}{
		{0, "0-10", true},
		{9.99, "0-10", true},
		{10, "10-20", true},
		{49.5, "40-50", true},
		{50, "50-100", true},
		{199.99, "100-200", true},
		{499, "200-500", true},
		{500, "", false},
		{-1, "", false},
	}
	for _, c := range cases {
		got, ok := pricing.Bucket(c.in)
		if got != c.want || ok != c.wantOK {
			t.Errorf("Bucket(%v) = %q, %v; want %q, %v", c.in, got, ok, c.want, c.wantOK)
		}
	}
}

func TestLowerBound_MissingIsZero(t *testing.T) {
	if got := pricing.LowerBound("N/A"); got != 0 {
		t.Fatalf("got %v", got)
	}
	if got := pricing.LowerBound("$4.00"); !almostEqual(got, 4) {
		t.Fatalf("got %v", got)
	}
}
