package app

import (
	"context"
	"sort"

	"costafeed/internal/domain"
)

// Developments groups the snapshot's new-build units by development slug and
// computes per-group aggregates on the fly. Units without a development name
// don't form a group. Results are ordered by first appearance in the
// snapshot, so grouping is deterministic for a fixed snapshot.
func (q *QueryService) Developments(ctx context.Context) []domain.Development {
	snap := q.cache.Snapshot(ctx)

	order := []string{}
	grouped := map[string][]domain.Property{}
	for _, p := range snap.Properties {
		if p.DevelopmentSlug == "" || p.Category == domain.CategoryPlot {
			continue
		}
		if _, seen := grouped[p.DevelopmentSlug]; !seen {
			order = append(order, p.DevelopmentSlug)
		}
		grouped[p.DevelopmentSlug] = append(grouped[p.DevelopmentSlug], p)
	}

	out := make([]domain.Development, 0, len(order))
	for _, slug := range order {
		out = append(out, buildDevelopment(slug, grouped[slug]))
	}
	return out
}

func (q *QueryService) DevelopmentBySlug(ctx context.Context, slug string) (domain.Development, bool) {
	for _, d := range q.Developments(ctx) {
		if d.Slug == slug {
			return d, true
		}
	}
	return domain.Development{}, false
}

func buildDevelopment(slug string, units []domain.Property) domain.Development {
	first := units[0]
	d := domain.Development{
		Slug:          slug,
		Name:          first.DevelopmentName,
		Developer:     first.Developer,
		DeveloperSlug: first.DeveloperSlug,
		Town:          first.Town,
		Province:      first.Province,
		Region:        first.Region,
		Zone:          first.Zone,
		DeliveryDate:  first.DeliveryDate,
		PropertyCount: len(units),
		MainImage:     first.MainImage,
		Properties:    units,
	}
	d.PriceFrom, d.PriceTo = priceRange(units)
	d.Types = distinctTypes(units)
	d.Statuses = distinctStatuses(units)
	d.BedroomRange = bedroomRange(units)
	return d
}

// GroupByTown returns one summary per town, keyed by the town's slug, sorted
// by town name for stable area-page listings.
func (q *QueryService) GroupByTown(ctx context.Context) []domain.TownSummary {
	snap := q.cache.Snapshot(ctx)

	grouped := map[string][]domain.Property{}
	for _, p := range snap.Properties {
		if p.Town == "" || p.Category == domain.CategoryPlot {
			continue
		}
		key := Slugify(p.Town)
		grouped[key] = append(grouped[key], p)
	}

	out := make([]domain.TownSummary, 0, len(grouped))
	for slug, props := range grouped {
		first := props[0]
		t := domain.TownSummary{
			Name:          first.Town,
			Slug:          slug,
			Region:        first.Region,
			PropertyCount: len(props),
			Types:         distinctTypes(props),
			BedroomRange:  bedroomRange(props),
			Properties:    props,
		}
		t.PriceFrom, t.PriceTo = priceRange(props)
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GroupByDeveloper aggregates developments per builder for builder pages.
func (q *QueryService) GroupByDeveloper(ctx context.Context) []domain.Builder {
	devs := q.Developments(ctx)

	order := []string{}
	grouped := map[string][]domain.Development{}
	for _, d := range devs {
		if d.DeveloperSlug == "" {
			continue
		}
		if _, seen := grouped[d.DeveloperSlug]; !seen {
			order = append(order, d.DeveloperSlug)
		}
		grouped[d.DeveloperSlug] = append(grouped[d.DeveloperSlug], d)
	}

	out := make([]domain.Builder, 0, len(order))
	for _, slug := range order {
		group := grouped[slug]
		b := domain.Builder{
			Slug:             slug,
			Name:             group[0].Developer,
			DevelopmentCount: len(group),
		}
		townSeen := map[string]bool{}
		regionSeen := map[domain.Region]bool{}
		for _, d := range group {
			b.TotalUnits += d.PropertyCount
			b.Developments = append(b.Developments, d.Slug)
			if d.Town != "" && !townSeen[d.Town] {
				townSeen[d.Town] = true
				b.Towns = append(b.Towns, d.Town)
			}
			if !regionSeen[d.Region] {
				regionSeen[d.Region] = true
				b.Regions = append(b.Regions, d.Region)
			}
			if d.PriceFrom > 0 && (b.PriceFrom == 0 || d.PriceFrom < b.PriceFrom) {
				b.PriceFrom = d.PriceFrom
			}
			if d.PriceTo > b.PriceTo {
				b.PriceTo = d.PriceTo
			}
		}
		out = append(out, b)
	}
	return out
}

func (q *QueryService) BuilderBySlug(ctx context.Context, slug string) (domain.Builder, bool) {
	for _, b := range q.GroupByDeveloper(ctx) {
		if b.Slug == slug {
			return b, true
		}
	}
	return domain.Builder{}, false
}

// Stats are the headline numbers for the homepage.
func (q *QueryService) Stats(ctx context.Context) domain.Stats {
	snap := q.cache.Snapshot(ctx)
	devs := q.Developments(ctx)
	towns := q.GroupByTown(ctx)
	builders := q.GroupByDeveloper(ctx)

	st := domain.Stats{
		TotalProperties:   len(snap.Properties),
		TotalDevelopments: len(devs),
		TotalTowns:        len(towns),
		TotalBuilders:     len(builders),
	}
	st.PriceFrom, _ = priceRange(snap.Properties)
	return st
}

/********** aggregate helpers **********/

// priceRange ignores unknown (zero) prices: a 0 sentinel must never surface
// as a "from €0" teaser.
func priceRange(props []domain.Property) (from, to int) {
	for _, p := range props {
		if !p.PriceKnown() {
			continue
		}
		if from == 0 || p.Price < from {
			from = p.Price
		}
		if p.Price > to {
			to = p.Price
		}
	}
	return from, to
}

func distinctTypes(props []domain.Property) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range props {
		if p.Type != "" && !seen[p.Type] {
			seen[p.Type] = true
			out = append(out, p.Type)
		}
	}
	return out
}

func distinctStatuses(props []domain.Property) []domain.Status {
	seen := map[domain.Status]bool{}
	var out []domain.Status
	for _, p := range props {
		if !seen[p.Status] {
			seen[p.Status] = true
			out = append(out, p.Status)
		}
	}
	return out
}

func bedroomRange(props []domain.Property) domain.BedroomRange {
	var r domain.BedroomRange
	for _, p := range props {
		if p.Bedrooms <= 0 {
			continue
		}
		if r.Min == 0 || p.Bedrooms < r.Min {
			r.Min = p.Bedrooms
		}
		if p.Bedrooms > r.Max {
			r.Max = p.Bedrooms
		}
	}
	return r
}
