package domain

// Report is the analyzer's read model over a filtered review CSV.
type Report struct {
	Rows                 int                   `json:"rows"`
	Categories           []string              `json:"categories"`
	VerifiedRatings      VerifiedRatings       `json:"verified_ratings"`
	RatingDistribution   []LabelCount          `json:"rating_distribution"`
	CategoryRatings      []CategoryRatings     `json:"category_rating_distribution"`
	UniqueProducts       []LabelCount          `json:"unique_products"`
	PriceCategoryRatings []PriceCategoryRating `json:"average_rating_by_price_category"`
	PriceByRating        []CategoryPriceStats  `json:"price_by_rating"`
	TopWords             []WordCount           `json:"top_words"`
	CategoryWords        []CategoryWords       `json:"category_top_words"`
	WordUsage            []WordUsage           `json:"word_usage"`
}

// RatingLabels are the star ratings as they appear in the CSV.
var RatingLabels = []string{"1.0", "2.0", "3.0", "4.0", "5.0"}

type VerifiedRating struct {
	Rating     string `json:"rating"`
	Verified   int    `json:"verified"`
	Unverified int    `json:"unverified"`
}

type VerifiedRatings struct {
	Ratings    []VerifiedRating `json:"ratings"`
	Verified   int              `json:"verified_total"`
	Unverified int              `json:"unverified_total"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type CategoryRatings struct {
	Category string       `json:"category"`
	Ratings  []LabelCount `json:"ratings"`
}

type PriceCategoryRating struct {
	PriceCategory string  `json:"price_category"`
	Category      string  `json:"source_category"`
	AverageRating float64 `json:"average_rating"`
	Reviews       int     `json:"reviews"`
}

type RatingPrice struct {
	Rating  string  `json:"rating"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Reviews int     `json:"reviews"`
}

type CategoryPriceStats struct {
	Category string        `json:"category"`
	ByRating []RatingPrice `json:"by_rating"`
}

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type CategoryWords struct {
	Category string        `json:"category"`
	Words    []WordCount   `json:"words"`
	ByRating []RatingWords `json:"by_rating,omitempty"`
}

type RatingWords struct {
	Rating string      `json:"rating"`
	Words  []WordCount `json:"words"`
}

type RatingUsage struct {
	Rating     string `json:"rating"`
	Plain      int    `json:"plain"`
	Negated    int    `json:"negated"`
	TotalWords int    `json:"total_words"`
}

type WordUsage struct {
	Word     string        `json:"word"`
	Category string        `json:"category"`
	ByRating []RatingUsage `json:"by_rating"`
}
