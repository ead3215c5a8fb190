// Package textstats counts words in review text.
package textstats

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"review_pipeline/internal/domain"
)

// asciiPunct is Python's string.punctuation.
const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Counter accumulates word frequencies. It is not safe for concurrent use;
// give each goroutine its own.
type Counter struct {
	lower  cases.Caser
	strip  transform.Transformer
	counts map[string]int
}

func NewCounter() *Counter {
	return &Counter{
		lower:  cases.Lower(language.English),
		strip:  runes.Remove(runes.Predicate(func(r rune) bool { return strings.ContainsRune(asciiPunct, r) })),
		counts: make(map[string]int),
	}
}

// Tokens lowercases text, drops ASCII punctuation and returns the
// remaining words that are not stop words.
func (c *Counter) Tokens(text string) []string {
	clean, _, err := transform.String(c.strip, c.lower.String(text))
	if err != nil {
		clean = c.lower.String(text)
	}
	fields := strings.Fields(clean)
	out := fields[:0]
	for _, w := range fields {
		if IsStopWord(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func (c *Counter) Add(text string) {
	for _, w := range c.Tokens(text) {
		c.counts[w]++
	}
}

func (c *Counter) Len() int { return len(c.counts) }

// Top returns the n most frequent words, ties broken alphabetically.
func (c *Counter) Top(n int) []domain.WordCount {
	out := make([]domain.WordCount, 0, len(c.counts))
	for w, k := range c.counts {
		out = append(out, domain.WordCount{Word: w, Count: k})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Occurrences counts word in text on whitespace-separated, lowercased
// tokens. Punctuation is kept, so "good." is not "good". A word directly
// preceded by "not" counts as Negated instead of Plain.
type Occurrences struct {
	Plain   int
	Negated int
	Total   int // all tokens in text
}

func CountOccurrences(text, word string) Occurrences {
	words := strings.Fields(strings.ToLower(text))
	word = strings.ToLower(word)
	o := Occurrences{Total: len(words)}
	for i, w := range words {
		switch {
		case w == "not" && i+1 < len(words) && words[i+1] == word:
			o.Negated++
		case w == word:
			o.Plain++
		}
	}
	return o
}
