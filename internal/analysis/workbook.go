package analysis

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"review_pipeline/internal/domain"
)

type sheet struct {
	name   string
	header []any
	rows   [][]any
	chart  excelize.ChartType
	title  string
	// value column for the chart; categories are always column A
	valueCol int
	hasChart bool
}

// WriteWorkbook saves the report as an xlsx file with one sheet per table.
// Sheets with data get a native chart next to the table.
func WriteWorkbook(path string, rep domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := workbookSheets(rep)
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return errors.Wrap(err, "rename sheet")
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return errors.Wrapf(err, "new sheet %s", s.name)
		}
		if err := writeTable(f, s); err != nil {
			return errors.Wrapf(err, "sheet %s", s.name)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

func writeTable(f *excelize.File, s sheet) error {
	if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
		return err
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(s.name, cell, &r); err != nil {
			return err
		}
	}
	if !s.hasChart || len(s.rows) == 0 {
		return nil
	}

	last := len(s.rows) + 1
	col, err := excelize.ColumnNumberToName(s.valueCol)
	if err != nil {
		return err
	}
	anchor, err := excelize.CoordinatesToCellName(len(s.header)+2, 2)
	if err != nil {
		return err
	}
	return f.AddChart(s.name, anchor, &excelize.Chart{
		Type: s.chart,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$%s$1", s.name, col),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", s.name, last),
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", s.name, col, col, last),
		}},
		Title: []excelize.RichTextRun{{Text: s.title}},
	})
}

func workbookSheets(rep domain.Report) []sheet {
	verified := sheet{name: "Verified Ratings", header: []any{"Rating", "Verified", "Unverified"},
		chart: excelize.Col, title: "Verified Reviews by Rating", valueCol: 2, hasChart: true}
	for _, r := range rep.VerifiedRatings.Ratings {
		verified.rows = append(verified.rows, []any{r.Rating, r.Verified, r.Unverified})
	}

	dist := sheet{name: "Rating Distribution", header: []any{"Rating", "Count"},
		chart: excelize.Pie, title: "Overall Ratings Distribution", valueCol: 2, hasChart: true}
	for _, r := range rep.RatingDistribution {
		dist.rows = append(dist.rows, []any{r.Label, r.Count})
	}

	catDist := sheet{name: "Category Ratings", header: []any{"Source Category", "Rating", "Count"}}
	for _, c := range rep.CategoryRatings {
		for _, r := range c.Ratings {
			catDist.rows = append(catDist.rows, []any{c.Category, r.Label, r.Count})
		}
	}

	products := sheet{name: "Unique Products", header: []any{"Source Category", "Products"},
		chart: excelize.Pie, title: "Unique Products per Source Category", valueCol: 2, hasChart: true}
	for _, p := range rep.UniqueProducts {
		products.rows = append(products.rows, []any{p.Label, p.Count})
	}

	byPrice := sheet{name: "Rating by Price", header: []any{"Price Category", "Source Category", "Average Rating", "Reviews"}}
	for _, p := range rep.PriceCategoryRatings {
		byPrice.rows = append(byPrice.rows, []any{p.PriceCategory, p.Category, p.AverageRating, p.Reviews})
	}

	prices := sheet{name: "Price by Rating", header: []any{"Source Category", "Rating", "Mean Price", "Median Price", "Reviews"}}
	for _, c := range rep.PriceByRating {
		for _, r := range c.ByRating {
			prices.rows = append(prices.rows, []any{c.Category, r.Rating, r.Mean, r.Median, r.Reviews})
		}
	}

	words := sheet{name: "Top Words", header: []any{"Word", "Count"},
		chart: excelize.Col, title: "Most Common Words in Reviews", valueCol: 2, hasChart: true}
	for _, w := range rep.TopWords {
		words.rows = append(words.rows, []any{w.Word, w.Count})
	}

	catWords := sheet{name: "Category Words", header: []any{"Source Category", "Rating", "Word", "Count"}}
	for _, c := range rep.CategoryWords {
		for _, w := range c.Words {
			catWords.rows = append(catWords.rows, []any{c.Category, "all", w.Word, w.Count})
		}
		for _, r := range c.ByRating {
			for _, w := range r.Words {
				catWords.rows = append(catWords.rows, []any{c.Category, r.Rating, w.Word, w.Count})
			}
		}
	}

	usage := sheet{name: "Word Usage", header: []any{"Word", "Source Category", "Rating", "Plain", "Negated", "Total Words"}}
	for _, u := range rep.WordUsage {
		for _, r := range u.ByRating {
			usage.rows = append(usage.rows, []any{u.Word, u.Category, r.Rating, r.Plain, r.Negated, r.TotalWords})
		}
	}

	return []sheet{verified, dist, catDist, products, byPrice, prices, words, catWords, usage}
}
