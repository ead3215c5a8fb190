package domain_test

import (
	"testing"

	"review_pipeline/internal/domain"
)

func ptr(s string) *string { return &s }

func TestMetadataIndex(t *testing.T) {
	idx := domain.NewMetadataIndex()
	idx.Put(domain.ProductMeta{ProductID: ptr("A"), Price: ptr("$1")})
	idx.Put(domain.ProductMeta{ProductID: ptr("B")})
	idx.Put(domain.ProductMeta{ProductID: ptr("A"), Price: ptr("$2")})

	if idx.Len() != 2 {
		t.Fatalf("len=%d", idx.Len())
	}
	if p, ok := idx.Lookup(ptr("A")); !ok || *p != "$2" {
		t.Fatalf("A=%v %v", p, ok)
	}
	if p, ok := idx.Lookup(ptr("B")); !ok || p != nil {
		t.Fatalf("B=%v %v", p, ok)
	}
	if _, ok := idx.Lookup(ptr("C")); ok {
		t.Fatalf("C should be unknown")
	}
	if _, ok := idx.Lookup(nil); ok {
		t.Fatalf("no object without an ID was indexed yet")
	}

	var _ domain.PriceIndex = idx
}

func TestMetadataIndex_MissingIDSlot(t *testing.T) {
	idx := domain.NewMetadataIndex()
	idx.Put(domain.ProductMeta{Price: ptr("$7.00")})
	idx.Put(domain.ProductMeta{Price: ptr("$8.00")})

	p, ok := idx.Lookup(nil)
	if !ok || p == nil || *p != "$8.00" {
		t.Fatalf("missing-ID slot=%v %v, want last write $8.00", p, ok)
	}
	if idx.Len() != 1 {
		t.Fatalf("len=%d", idx.Len())
	}
	if _, ok := idx.Lookup(ptr("N/A")); ok {
		t.Fatalf("the literal N/A ID is not the missing-ID slot")
	}
}
