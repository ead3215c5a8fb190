package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"review_pipeline/internal/domain"
)

/********** alias registries (single source of truth) **********/

// The first alias is the key used by the 2014/2018 review dumps.
var reviewAliases = map[string][]string{
	"product_id":  {"asin", "product_id", "productId"},
	"reviewer_id": {"reviewerID", "reviewer_id", "user_id"},
	"rating":      {"overall", "rating"},
	"summary":     {"summary", "title"},
	"text":        {"reviewText", "review_text", "text"},
	"verified":    {"verified", "verified_purchase"},
}

var metaAliases = map[string][]string{
	"product_id": {"asin", "product_id"},
	"price":      {"price"},
}

// Presence of this key marks a review with images; its value is ignored.
const imageKey = "image"

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps. A JSON null counts as absent.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstAlias returns the value under the first alias present in m.
func firstAlias(m map[string]any, aliases map[string][]string, key string) any {
	for _, p := range aliases[key] {
		if v := lookupAny(m, p); v != nil {
			return v
		}
	}
	return nil
}

// aliasStr: text form of the first present alias.
func aliasStr(m map[string]any, aliases map[string][]string, key string) *string {
	v := firstAlias(m, aliases, key)
	if v == nil {
		return nil
	}
	s := text(v)
	return &s
}

// text renders a decoded JSON value. Whole numbers keep one decimal
// (12.0 stays "12.0"); other floats use their shortest form.
func text(v any) string {
	if b, ok := v.(bool); ok {
		if b {
			return "True"
		}
		return "False"
	}
	if f, ok := v.(float64); ok && !math.IsInf(f, 0) && f == math.Trunc(f) && math.Abs(f) < 1e16 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		s = fmt.Sprint(v)
	}
	return s
}

// aliasFloat: number from float64/int/string like "4.0". A present value
// that does not convert comes back as raw text instead.
func aliasFloat(m map[string]any, aliases map[string][]string, key string) (*float64, *string) {
	v := firstAlias(m, aliases, key)
	if v == nil {
		return nil, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		raw := text(v)
		return nil, &raw
	}
	return &f, nil
}

// aliasBool: like aliasFloat, for true/false flags.
func aliasBool(m map[string]any, aliases map[string][]string, key string) (*bool, *string) {
	v := firstAlias(m, aliases, key)
	if v == nil {
		return nil, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		raw := text(v)
		return nil, &raw
	}
	return &b, nil
}

/********** review mapper **********/

func mapReview(category string, r map[string]any) domain.ReviewRecord {
	_, hasImage := r[imageKey]
	rating, ratingText := aliasFloat(r, reviewAliases, "rating")
	verified, verifiedText := aliasBool(r, reviewAliases, "verified")
	return domain.ReviewRecord{
		Category:     category,
		ProductID:    aliasStr(r, reviewAliases, "product_id"),
		ReviewerID:   aliasStr(r, reviewAliases, "reviewer_id"),
		Rating:       rating,
		RatingText:   ratingText,
		Summary:      aliasStr(r, reviewAliases, "summary"),
		Text:         aliasStr(r, reviewAliases, "text"),
		HasImage:     hasImage,
		Verified:     verified,
		VerifiedText: verifiedText,
	}
}

/********** metadata mapper **********/

func mapMeta(m map[string]any) domain.ProductMeta {
	return domain.ProductMeta{
		ProductID: aliasStr(m, metaAliases, "product_id"),
		Price:     aliasStr(m, metaAliases, "price"),
	}
}
