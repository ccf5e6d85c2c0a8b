package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"costafeed/internal/app"
	"costafeed/internal/domain"
)

func TestDedupKey(t *testing.T) {
	assert.Equal(t, "N100", app.DedupKey(domain.Property{Reference: "n100"}))
	assert.Equal(t, "N100", app.DedupKey(domain.Property{Reference: " N100 "}))

	noRef := domain.Property{Town: "Torrevieja", Price: 250000, Bedrooms: 3}
	assert.Equal(t, "torrevieja|250000|3", app.DedupKey(noRef))
}

func TestDedupe_ReferenceAcrossSources(t *testing.T) {
	kyero := []domain.Property{
		{ID: "kyero-N100", Reference: "N100", Source: domain.SourceKyero, Price: 300000},
		{ID: "kyero-N200", Reference: "N200", Source: domain.SourceKyero, Price: 180000},
	}
	sooprema := []domain.Property{
		// same listing, different price and case
		{ID: "sooprema-n100", Reference: "n100", Source: domain.SourceSooprema, Price: 305000},
		{ID: "sooprema-X9", Reference: "X9", Source: domain.SourceSooprema, Price: 99000},
	}

	got := app.Dedupe(kyero, sooprema)

	assert.Len(t, got, 3)
	// the primary feed's copy survives whole, no field merging
	assert.Equal(t, "kyero-N100", got[0].ID)
	assert.Equal(t, 300000, got[0].Price)
	assert.Equal(t, domain.SourceKyero, got[0].Source)
	// first-occurrence order
	assert.Equal(t, []string{"kyero-N100", "kyero-N200", "sooprema-X9"},
		[]string{got[0].ID, got[1].ID, got[2].ID})
}

func TestDedupe_CompositeFallback(t *testing.T) {
	a := domain.Property{ID: "kyero-", Town: "Jávea", Price: 500000, Bedrooms: 4}
	// distinct physical listings sharing town, price and bedrooms collapse;
	// the counts elsewhere assume this, so the behavior is pinned here
	b := domain.Property{ID: "sooprema-", Town: "jávea", Price: 500000, Bedrooms: 4}
	c := domain.Property{ID: "sooprema-2", Town: "Jávea", Price: 500000, Bedrooms: 5}

	got := app.Dedupe([]domain.Property{a}, []domain.Property{b, c})

	assert.Len(t, got, 2)
	assert.Equal(t, "kyero-", got[0].ID)
	assert.Equal(t, "sooprema-2", got[1].ID)
}

func TestDedupe_WithinSingleSource(t *testing.T) {
	batch := []domain.Property{
		{Reference: "A1", Price: 1},
		{Reference: "A1", Price: 2},
	}
	got := app.Dedupe(batch)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Price)
}
