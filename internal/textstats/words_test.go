package textstats_test

import (
	"testing"

	"review_pipeline/internal/textstats"
)

func TestTokens_LowercasesStripsPunctuationAndStopWords(t *testing.T) {
	c := textstats.NewCounter()
	got := c.Tokens("This is GREAT, I don't like it... Works!")
	want := []string{"great", "dont", "like", "works"}
	if len(got) != len(want) {
		t.Fatalf("tokens=%v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("[%d]=%q want %q", i, got[i], want[i])
		}
	}
}

func TestTokens_KeepsNonASCIIPunctuation(t *testing.T) {
	got := textstats.NewCounter().Tokens("café — nice")
	if len(got) != 3 || got[0] != "café" || got[1] != "—" {
		t.Fatalf("tokens=%v", got)
	}
}

func TestTop_OrdersByCountThenWord(t *testing.T) {
	c := textstats.NewCounter()
	c.Add("zebra apple apple")
	c.Add("mango zebra")
	got := c.Top(10)
	if len(got) != 3 {
		t.Fatalf("got %v", got)
	}
	if got[0].Word != "apple" || got[0].Count != 2 || got[1].Word != "zebra" || got[2].Word != "mango" {
		t.Fatalf("order %v", got)
	}
	if top := c.Top(1); len(top) != 1 || top[0].Word != "apple" {
		t.Fatalf("top1 %v", top)
	}
	if c.Len() != 3 {
		t.Fatalf("len=%d", c.Len())
	}
}

func TestIsStopWord(t *testing.T) {
	for _, w := range []string{"the", "not", "wouldn't", "i"} {
		if !textstats.IsStopWord(w) {
			t.Fatalf("%q should be a stop word", w)
		}
	}
	if textstats.IsStopWord("good") {
		t.Fatalf("good is not a stop word")
	}
}

func TestCountOccurrences(t *testing.T) {
	cases := []struct {
		text           string
		plain, negated int
		total          int
	}{
		{"Good good GOOD", 3, 0, 3},
		{"not good but good", 1, 1, 4},
		{"NOT Good", 0, 1, 2},
		{"good. not good!", 0, 0, 4},
		{"not", 0, 0, 1},
		{"", 0, 0, 0},
	}
	for _, tc := range cases {
		o := textstats.CountOccurrences(tc.text, "good")
		if o.Plain != tc.plain || o.Negated != tc.negated || o.Total != tc.total {
			t.Fatalf("%q: got %+v", tc.text, o)
		}
	}
}
