package domain

// ProductMeta is the part of a metadata object the join needs.
type ProductMeta struct {
	ProductID *string // nil when the object carries no product ID
	Price     *string // raw price text; nil when the object carries none
}

// MetadataIndex maps product ID to price for one category.
// Built once per category and read-only afterwards.
//
// Objects without a product ID share one slot, which is what a review
// without a product ID joins against.
type MetadataIndex struct {
	prices       map[string]*string
	missingID    *string
	hasMissingID bool
}

func NewMetadataIndex() *MetadataIndex {
	return &MetadataIndex{prices: make(map[string]*string)}
}

// Put records the price of a product. A repeated ID overwrites the earlier entry.
func (m *MetadataIndex) Put(p ProductMeta) {
	if p.ProductID == nil {
		m.missingID, m.hasMissingID = p.Price, true
		return
	}
	m.prices[*p.ProductID] = p.Price
}

// Lookup returns the recorded price and whether the product is known at all.
// A known product may still have a nil price. A nil productID looks up the
// slot of objects that had no product ID.
func (m *MetadataIndex) Lookup(productID *string) (*string, bool) {
	if productID == nil {
		return m.missingID, m.hasMissingID
	}
	p, ok := m.prices[*productID]
	return p, ok
}

// Len counts indexed keys, the missing-ID slot included.
func (m *MetadataIndex) Len() int {
	if m.hasMissingID {
		return len(m.prices) + 1
	}
	return len(m.prices)
}
