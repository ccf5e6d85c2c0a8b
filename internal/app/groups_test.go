package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costafeed/internal/domain"
)

func TestDevelopments(t *testing.T) {
	q := newTestService(t)

	devs := q.Developments(context.Background())
	require.Len(t, devs, 1, "only named developments form groups")

	d := devs[0]
	assert.Equal(t, "quesada-hills", d.Slug)
	assert.Equal(t, "Quesada Hills", d.Name)
	assert.Equal(t, "GUEMAR", d.Developer)
	assert.Equal(t, "guemar", d.DeveloperSlug)
	assert.Equal(t, "Ciudad Quesada", d.Town)
	assert.Equal(t, domain.RegionSouth, d.Region)
	assert.Equal(t, 2, d.PropertyCount)

	// T1 has no price, so the range comes from T2 alone
	assert.Equal(t, 180000, d.PriceFrom)
	assert.Equal(t, 180000, d.PriceTo)
	assert.Equal(t, domain.BedroomRange{Min: 2, Max: 3}, d.BedroomRange)
	assert.Equal(t, []string{"Townhouse"}, d.Types)
	assert.ElementsMatch(t, []domain.Status{domain.StatusKeyReady, domain.StatusUnderConstruction}, d.Statuses)
}

func TestDevelopmentBySlug(t *testing.T) {
	q := newTestService(t)
	ctx := context.Background()

	d, ok := q.DevelopmentBySlug(ctx, "quesada-hills")
	require.True(t, ok)
	assert.Equal(t, "Quesada Hills", d.Name)

	_, ok = q.DevelopmentBySlug(ctx, "no-such-project")
	assert.False(t, ok)
}

func TestGroupByTown(t *testing.T) {
	q := newTestService(t)

	towns := q.GroupByTown(context.Background())
	require.Len(t, towns, 4)

	// sorted by name, plot rows never form a town page
	names := make([]string, 0, len(towns))
	for _, tw := range towns {
		names = append(names, tw.Name)
	}
	assert.Equal(t, []string{"Ciudad Quesada", "Jávea", "Orihuela Costa", "Torrevieja"}, names)

	torrevieja := towns[3]
	assert.Equal(t, "torrevieja", torrevieja.Slug)
	assert.Equal(t, 2, torrevieja.PropertyCount)
	assert.Equal(t, 200000, torrevieja.PriceFrom)
	assert.Equal(t, 450000, torrevieja.PriceTo)
	assert.ElementsMatch(t, []string{"Villa", "Apartment"}, torrevieja.Types)

	javea := towns[1]
	assert.Equal(t, "javea", javea.Slug, "slug folds the accent")
	assert.Equal(t, 2, javea.PropertyCount)
}

func TestGroupByDeveloper(t *testing.T) {
	q := newTestService(t)
	ctx := context.Background()

	builders := q.GroupByDeveloper(ctx)
	require.Len(t, builders, 1)

	b := builders[0]
	assert.Equal(t, "guemar", b.Slug)
	assert.Equal(t, "GUEMAR", b.Name)
	assert.Equal(t, 1, b.DevelopmentCount)
	assert.Equal(t, 2, b.TotalUnits)
	assert.Equal(t, []string{"quesada-hills"}, b.Developments)
	assert.Equal(t, []string{"Ciudad Quesada"}, b.Towns)
	assert.Equal(t, []domain.Region{domain.RegionSouth}, b.Regions)
	assert.Equal(t, 180000, b.PriceFrom)
	assert.Equal(t, 180000, b.PriceTo)

	got, ok := q.BuilderBySlug(ctx, "guemar")
	require.True(t, ok)
	assert.Equal(t, b, got)

	_, ok = q.BuilderBySlug(ctx, "nobody")
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	q := newTestService(t)

	st := q.Stats(context.Background())
	assert.Equal(t, 8, st.TotalProperties, "stats count the whole snapshot, plots included")
	assert.Equal(t, 1, st.TotalDevelopments)
	assert.Equal(t, 4, st.TotalTowns)
	assert.Equal(t, 1, st.TotalBuilders)
	assert.Equal(t, 80000, st.PriceFrom, "the plot holds the lowest known price")
}

func TestGolfCourses(t *testing.T) {
	q := newTestService(t)

	courses := q.GolfCourses()
	require.NotEmpty(t, courses)
	slugs := map[string]bool{}
	for _, c := range courses {
		slugs[c.Slug] = true
		assert.NotZero(t, c.Coords.Lat)
		assert.NotEmpty(t, c.Name)
	}
	assert.True(t, slugs["la-marquesa"])
	assert.True(t, slugs["villamartin"])
}

func TestNearGolf(t *testing.T) {
	q := newTestService(t)
	ctx := context.Background()

	// T2 carries coordinates a few hundred metres from La Marquesa; nothing
	// else in the catalog has coordinates at all
	props, ok := q.NearGolf(ctx, "la-marquesa", 2)
	require.True(t, ok)
	require.Len(t, props, 1)
	assert.Equal(t, "kyero-T2", props[0].ID)

	_, ok = q.NearGolf(ctx, "augusta-national", 10)
	assert.False(t, ok, "unknown course slug")
}

func TestGolfDevelopments(t *testing.T) {
	q := newTestService(t)

	devs := q.GolfDevelopments(context.Background())
	require.Len(t, devs, 1, "Ciudad Quesada is golf territory")
	assert.Equal(t, "quesada-hills", devs[0].Slug)
}
