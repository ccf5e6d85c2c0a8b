package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costafeed/internal/app"
	"costafeed/internal/domain"
	"costafeed/internal/feeds"
)

// stubAdapter feeds a canned record set through the real cache so query tests
// exercise the whole normalize → dedupe → snapshot path.
type stubAdapter struct {
	source  domain.Source
	records []feeds.Record
}

func (s *stubAdapter) Source() domain.Source                { return s.source }
func (s *stubAdapter) Fetch(_ context.Context) []feeds.Record { return s.records }

// catalogRecords is a small cross-section of the site's stock: two towns in
// each region, one development, one plot, one price-on-request listing.
func catalogRecords() []feeds.Record {
	return []feeds.Record{
		{
			Source: domain.SourceKyero, Reference: "V1", RawType: "villa",
			RawPrice: "450000", RawBeds: "4", RawBaths: "3",
			Town: "Torrevieja", Province: "Alicante",
			Features: []string{"Sea View", "Private Pool", "Terrace"},
			Images:   []string{"1", "2", "3", "4", "5", "6"},
		},
		{
			Source: domain.SourceKyero, Reference: "A1", RawType: "apartment",
			RawPrice: "200000", RawBeds: "2",
			Town: "Torrevieja", Province: "Alicante",
			Features: []string{"Communal Pool"},
		},
		{
			Source: domain.SourceKyero, Reference: "A2", RawType: "apartment",
			RawPrice: "300000", RawBeds: "3",
			Town: "Jávea", Province: "Alicante",
		},
		{
			Source: domain.SourceKyero, Reference: "A3", RawType: "piso",
			RawPrice: "250000", RawBeds: "3",
			Town: "Jávea", Province: "Alicante",
		},
		{
			Source: domain.SourceKyero, Reference: "P1", RawType: "land",
			RawPrice: "80000",
			Town:     "Jávea", Province: "Alicante",
		},
		{
			Source: domain.SourceKyero, Reference: "T1", RawType: "townhouse",
			RawPrice: "", RawBeds: "3", // price on request
			Town: "Ciudad Quesada", Province: "Alicante",
			Development: "Quesada Hills", Developer: "GUEMAR",
			RawStatus: "Key ready",
		},
		{
			Source: domain.SourceKyero, Reference: "T2", RawType: "townhouse",
			RawPrice: "180000", RawBeds: "2",
			Town: "Ciudad Quesada", Province: "Alicante",
			RawLatitude: "38.0520", RawLongitude: "-0.7370",
			Development: "Quesada Hills", Developer: "GUEMAR",
		},
		{
			Source: domain.SourceKyero, Reference: "B1", RawType: "bungalow",
			RawPrice: "350000", RawBeds: "3",
			Town: "Orihuela Costa", Province: "Alicante",
		},
	}
}

func newTestService(t *testing.T) *app.QueryService {
	t.Helper()
	cache := app.NewCache(time.Hour, zerolog.Nop(), &stubAdapter{
		source:  domain.SourceKyero,
		records: catalogRecords(),
	})
	return app.NewQueryService(cache)
}

func ids(props []domain.Property) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.ID)
	}
	return out
}

func TestList_NoFilterExcludesPlots(t *testing.T) {
	q := newTestService(t)
	ctx := context.Background()

	page := q.List(ctx, domain.Filter{}, domain.Sort{}, domain.Page{})
	assert.Equal(t, 7, page.Total, "plots stay out unless asked for")

	page = q.List(ctx, domain.Filter{IncludePlots: true}, domain.Sort{}, domain.Page{})
	assert.Equal(t, 8, page.Total)
	assert.Contains(t, ids(page.Items), "kyero-P1")
}

func TestList_FilterPredicatesAreANDed(t *testing.T) {
	q := newTestService(t)
	ctx := context.Background()

	page := q.List(ctx, domain.Filter{
		Town:     "torre",
		MinPrice: 250000,
	}, domain.Sort{}, domain.Page{})

	require.Len(t, page.Items, 1)
	assert.Equal(t, "kyero-V1", page.Items[0].ID)
}

func TestList_FilterSoundness(t *testing.T) {
	q := newTestService(t)
	ctx := context.Background()

	f := domain.Filter{
		Region:      domain.RegionSouth,
		MinBedrooms: 2,
		MaxPrice:    400000,
	}
	page := q.List(ctx, f, domain.Sort{}, domain.Page{})
	require.NotEmpty(t, page.Items)
	for _, p := range page.Items {
		assert.Equal(t, domain.RegionSouth, p.Region)
		assert.GreaterOrEqual(t, p.Bedrooms, 2)
		assert.LessOrEqual(t, p.Price, 400000)
	}
}

func TestList_BooleanAndEnumFilters(t *testing.T) {
	q := newTestService(t)
	ctx := context.Background()

	pool := true
	page := q.List(ctx, domain.Filter{HasPool: &pool}, domain.Sort{}, domain.Page{})
	assert.ElementsMatch(t, []string{"kyero-V1", "kyero-A1"}, ids(page.Items))

	page = q.List(ctx, domain.Filter{Types: []string{"apartment"}}, domain.Sort{}, domain.Page{})
	assert.ElementsMatch(t, []string{"kyero-A1", "kyero-A2", "kyero-A3"}, ids(page.Items),
		"piso normalizes to Apartment and type match is case-insensitive")

	page = q.List(ctx, domain.Filter{Statuses: []domain.Status{domain.StatusKeyReady}}, domain.Sort{}, domain.Page{})
	assert.Equal(t, []string{"kyero-T1"}, ids(page.Items))
}

func TestList_SortPriceStable(t *testing.T) {
	q := newTestService(t)
	ctx := context.Background()

	page := q.List(ctx, domain.Filter{}, domain.Sort{Key: domain.SortPrice}, domain.Page{})
	require.Equal(t, 7, len(page.Items))
	for i := 1; i < len(page.Items); i++ {
		assert.LessOrEqual(t, page.Items[i-1].Price, page.Items[i].Price)
	}

	desc := q.List(ctx, domain.Filter{}, domain.Sort{Key: domain.SortPrice, Desc: true}, domain.Page{})
	assert.Equal(t, "kyero-V1", desc.Items[0].ID)
	// A2 and A3 share nothing, but T1/T2 town ties elsewhere keep snapshot
	// order under stable sort; pin the full ascending order instead
	assert.Equal(t, []string{"kyero-T1", "kyero-T2", "kyero-A1", "kyero-A3", "kyero-A2", "kyero-B1", "kyero-V1"},
		ids(page.Items))
}

func TestList_Pagination(t *testing.T) {
	q := newTestService(t)
	ctx := context.Background()
	sort := domain.Sort{Key: domain.SortPrice}

	// pages concatenate back to the full result
	var all []string
	for n := 1; ; n++ {
		page := q.List(ctx, domain.Filter{}, sort, domain.Page{Number: n, Size: 3})
		assert.Equal(t, 7, page.Total)
		assert.Equal(t, 3, page.TotalPages)
		if len(page.Items) == 0 {
			break
		}
		all = append(all, ids(page.Items)...)
	}
	full := q.List(ctx, domain.Filter{}, sort, domain.Page{})
	assert.Equal(t, ids(full.Items), all)
}

func TestList_PagePastEndIsEmptyNotError(t *testing.T) {
	q := newTestService(t)

	page := q.List(context.Background(), domain.Filter{}, domain.Sort{}, domain.Page{Number: 99, Size: 10})
	assert.Empty(t, page.Items)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, 99, page.Page)
}

func TestList_MinBedsPriceAscSecondPage(t *testing.T) {
	q := newTestService(t)

	page := q.List(context.Background(),
		domain.Filter{MinBedrooms: 3},
		domain.Sort{Key: domain.SortPrice},
		domain.Page{Number: 2, Size: 2})

	// matches by ascending price: T1 (unknown, sorts as 0), A3, A2, B1, V1
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, []string{"kyero-A2", "kyero-B1"}, ids(page.Items))
}

func TestGetByIDAndReference(t *testing.T) {
	q := newTestService(t)
	ctx := context.Background()

	p, ok := q.GetByID(ctx, "kyero-V1")
	require.True(t, ok)
	assert.Equal(t, "V1", p.Reference)

	p, ok = q.GetByReference(ctx, "v1")
	require.True(t, ok)
	assert.Equal(t, "kyero-V1", p.ID)

	_, ok = q.GetByID(ctx, "kyero-NOPE")
	assert.False(t, ok)
}

func TestForceRefresh(t *testing.T) {
	q := newTestService(t)
	assert.Equal(t, 8, q.ForceRefresh(context.Background()))
}

func TestFeatured(t *testing.T) {
	q := newTestService(t)

	top := q.Featured(context.Background(), 3)
	require.Len(t, top, 3)
	// sea view + pool + terrace + 6 images + >300k makes V1 the clear leader
	assert.Equal(t, "kyero-V1", top[0].ID)
	assert.NotContains(t, ids(top), "kyero-P1", "plots are never featured")

	all := q.Featured(context.Background(), 0)
	assert.Len(t, all, 7)
}
