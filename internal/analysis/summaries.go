package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"review_pipeline/internal/domain"
	"review_pipeline/internal/pricing"
	"review_pipeline/internal/textstats"
)

// VerifiedRatings counts 1.0..5.0 ratings split by the Verified flag.
// Anything but a case-insensitive "true" counts as unverified.
func VerifiedRatings(f *Frame) domain.VerifiedRatings {
	idx := make(map[string]int, len(domain.RatingLabels))
	out := domain.VerifiedRatings{Ratings: make([]domain.VerifiedRating, len(domain.RatingLabels))}
	for i, l := range domain.RatingLabels {
		idx[l] = i
		out.Ratings[i].Rating = l
	}
	ratings, verified := f.Strings(colRating), f.Strings(colVerified)
	for i := range ratings {
		label, _, ok := ratingLabel(ratings[i])
		if !ok {
			continue
		}
		j, ok := idx[label]
		if !ok {
			continue
		}
		if strings.EqualFold(verified[i], "true") {
			out.Ratings[j].Verified++
			out.Verified++
		} else {
			out.Ratings[j].Unverified++
			out.Unverified++
		}
	}
	return out
}

// RatingDistribution counts reviews per rating, most frequent first.
// Rows without a numeric rating are left out.
func RatingDistribution(f *Frame) []domain.LabelCount {
	counts := make(map[string]int)
	for _, r := range f.Strings(colRating) {
		if label, _, ok := ratingLabel(r); ok {
			counts[label]++
		}
	}
	return sortedCounts(counts)
}

// CategoryRatings is RatingDistribution per source category.
func CategoryRatings(f *Frame) []domain.CategoryRatings {
	var out []domain.CategoryRatings
	for _, c := range f.Categories() {
		out = append(out, domain.CategoryRatings{Category: c, Ratings: RatingDistribution(f.Category(c))})
	}
	return out
}

// UniqueProducts counts distinct product IDs per source category.
func UniqueProducts(f *Frame) []domain.LabelCount {
	seen := make(map[string]map[string]struct{})
	cats, products := f.Strings(colCategory), f.Strings(colProduct)
	for i := range cats {
		if products[i] == domain.NotAvailable {
			continue
		}
		set, ok := seen[cats[i]]
		if !ok {
			set = make(map[string]struct{})
			seen[cats[i]] = set
		}
		set[products[i]] = struct{}{}
	}
	var out []domain.LabelCount
	for _, c := range f.Categories() {
		out = append(out, domain.LabelCount{Label: c, Count: len(seen[c])})
	}
	return out
}

// AverageRatingByPriceCategory averages ratings per (price band, source
// category). Rows whose price lower bound falls outside every band, or
// that have no numeric rating, are left out. Output follows band order,
// then category order.
func AverageRatingByPriceCategory(f *Frame) []domain.PriceCategoryRating {
	type key struct{ band, cat string }
	type acc struct {
		sum float64
		n   int
	}
	groups := make(map[key]*acc)
	cats, bands, ratings := f.Strings(colCategory), f.Strings(ColPriceCategory), f.Floats(colRating)
	for i := range cats {
		if bands[i] == "" || math.IsNaN(ratings[i]) {
			continue
		}
		k := key{bands[i], cats[i]}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		a.sum += ratings[i]
		a.n++
	}

	var out []domain.PriceCategoryRating
	for _, b := range pricing.Bands {
		for _, c := range f.Categories() {
			a, ok := groups[key{b.Label, c}]
			if !ok {
				continue
			}
			out = append(out, domain.PriceCategoryRating{
				PriceCategory: b.Label,
				Category:      c,
				AverageRating: a.sum / float64(a.n),
				Reviews:       a.n,
			})
		}
	}
	return out
}

// PriceByRating computes mean and median price lower bound per rating for
// each listed category, or for every category when none are listed.
// Categories absent from the frame are skipped.
func PriceByRating(f *Frame, categories []string) ([]domain.CategoryPriceStats, error) {
	if len(categories) == 0 {
		categories = f.Categories()
	}
	var out []domain.CategoryPriceStats
	for _, c := range categories {
		sub := f.Category(c)
		if sub.Len() == 0 {
			continue
		}
		byRating, err := priceStats(sub)
		if err != nil {
			return nil, errors.Wrapf(err, "price by rating %s", c)
		}
		out = append(out, domain.CategoryPriceStats{Category: c, ByRating: byRating})
	}
	return out, nil
}

func priceStats(f *Frame) ([]domain.RatingPrice, error) {
	groups := make(map[float64]stats.Float64Data)
	labels := make(map[float64]string)
	ratings, lower := f.Strings(colRating), f.Floats(ColLowerBound)
	for i, r := range ratings {
		label, v, ok := ratingLabel(r)
		if !ok {
			continue
		}
		labels[v] = label
		groups[v] = append(groups[v], lower[i])
	}
	keys := make([]float64, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	out := make([]domain.RatingPrice, 0, len(keys))
	for _, k := range keys {
		data := groups[k]
		mean, err := stats.Mean(data)
		if err != nil {
			return nil, err
		}
		median, err := stats.Median(data)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.RatingPrice{Rating: labels[k], Mean: mean, Median: median, Reviews: len(data)})
	}
	return out, nil
}

// TopWords returns the n most common non stop words in the review text.
func TopWords(f *Frame, n int) []domain.WordCount {
	c := textstats.NewCounter()
	for _, t := range f.Strings(colText) {
		c.Add(t)
	}
	return c.Top(n)
}

// CategoryTopWords returns the top n words of one category, overall and
// for each rating present.
func CategoryTopWords(f *Frame, category string, n int) domain.CategoryWords {
	sub := f.Category(category)
	out := domain.CategoryWords{Category: category, Words: TopWords(sub, n)}

	byRating := make(map[string]*textstats.Counter)
	texts, ratings := sub.Strings(colText), sub.Strings(colRating)
	for i, t := range texts {
		label, _, ok := ratingLabel(ratings[i])
		if !ok {
			continue
		}
		c, ok := byRating[label]
		if !ok {
			c = textstats.NewCounter()
			byRating[label] = c
		}
		c.Add(t)
	}
	for _, l := range domain.RatingLabels {
		if c, ok := byRating[l]; ok {
			out.ByRating = append(out.ByRating, domain.RatingWords{Rating: l, Words: c.Top(n)})
		}
	}
	return out
}

// WordUsage counts, per category and 1.0..5.0 rating, how often word is
// used bare and as "not <word>". Ratings with no reviews are omitted.
func WordUsage(f *Frame, word string) []domain.WordUsage {
	var out []domain.WordUsage
	for _, c := range f.Categories() {
		sub := f.Category(c)
		acc := make(map[string]*domain.RatingUsage)
		texts, ratings := sub.Strings(colText), sub.Strings(colRating)
		for i, t := range texts {
			label, _, ok := ratingLabel(ratings[i])
			if !ok {
				continue
			}
			u, ok := acc[label]
			if !ok {
				u = &domain.RatingUsage{Rating: label}
				acc[label] = u
			}
			o := textstats.CountOccurrences(t, word)
			u.Plain += o.Plain
			u.Negated += o.Negated
			u.TotalWords += o.Total
		}
		wu := domain.WordUsage{Word: word, Category: c}
		for _, l := range domain.RatingLabels {
			if u, ok := acc[l]; ok {
				wu.ByRating = append(wu.ByRating, *u)
			}
		}
		out = append(out, wu)
	}
	return out
}

func sortedCounts(counts map[string]int) []domain.LabelCount {
	out := make([]domain.LabelCount, 0, len(counts))
	for l, n := range counts {
		out = append(out, domain.LabelCount{Label: l, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
