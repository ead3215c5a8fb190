package domain

// NotAvailable is how a missing value is rendered in the CSV output.
// Inside the pipeline missing values are nil pointers, never this string.
const NotAvailable = "N/A"

// ReviewRecord is one parsed line of a category review file.
//
// RatingText and VerifiedText hold the raw value when the field is present
// but is not a number or a boolean; Rating and Verified are nil then.
type ReviewRecord struct {
	Category     string // source file name, e.g. Office_Products_5.json
	ProductID    *string
	ReviewerID   *string
	Rating       *float64
	RatingText   *string
	Summary      *string
	Text         *string
	HasImage     bool // "image" key present in the raw object, whatever its value
	Verified     *bool
	VerifiedText *string
}

// OutputRow is a ReviewRecord joined with its product price.
type OutputRow struct {
	ReviewRecord
	Price *string // nil when the product is unknown or has no price
}

// Columns is the fixed CSV header, in output order.
var Columns = []string{
	"Source Category",
	"Product ID",
	"Reviewer ID",
	"Rating",
	"Review Summary",
	"Review Text",
	"Has Image",
	"Verified",
	"Product Price",
}
