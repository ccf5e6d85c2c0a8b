package app

import (
	"context"
	"sort"
	"strings"

	"costafeed/internal/domain"
)

// QueryService answers read queries over the cache's current snapshot. It
// never mutates snapshot data; every result is built from copies.
type QueryService struct {
	cache *Cache
}

func NewQueryService(c *Cache) *QueryService { return &QueryService{cache: c} }

// List filters, sorts and paginates the snapshot. Filter predicates are ANDed;
// zero-valued fields impose no constraint. Sorting is stable, so ties keep
// snapshot order. Pages are 1-indexed; a page past the end is empty, not an
// error.
func (q *QueryService) List(ctx context.Context, f domain.Filter, s domain.Sort, page domain.Page) domain.PropertyPage {
	snap := q.cache.Snapshot(ctx)

	matched := make([]domain.Property, 0, len(snap.Properties))
	for _, p := range snap.Properties {
		if matches(p, f) {
			matched = append(matched, p)
		}
	}

	sortProperties(matched, s)
	return paginate(matched, page)
}

func (q *QueryService) GetByID(ctx context.Context, id string) (domain.Property, bool) {
	return q.cache.Snapshot(ctx).ByID(id)
}

func (q *QueryService) GetByReference(ctx context.Context, ref string) (domain.Property, bool) {
	return q.cache.Snapshot(ctx).ByReference(ref)
}

// ForceRefresh rebuilds the snapshot regardless of TTL and reports its size.
func (q *QueryService) ForceRefresh(ctx context.Context) int {
	return len(q.cache.Refresh(ctx, true).Properties)
}

/********** filtering **********/

func matches(p domain.Property, f domain.Filter) bool {
	// land is opt-in everywhere
	if !f.IncludePlots && p.Category == domain.CategoryPlot {
		return false
	}
	if f.Town != "" && !strings.Contains(strings.ToLower(p.Town), strings.ToLower(f.Town)) {
		return false
	}
	if f.Region != "" && p.Region != f.Region {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.MinBedrooms > 0 && p.Bedrooms < f.MinBedrooms {
		return false
	}
	if f.MaxBedrooms > 0 && p.Bedrooms > f.MaxBedrooms {
		return false
	}
	if len(f.Types) > 0 && !containsFold(f.Types, p.Type) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, p.Status) {
		return false
	}
	if f.NewBuild != nil && p.NewBuild != *f.NewBuild {
		return false
	}
	if f.HasPool != nil && p.HasPool != *f.HasPool {
		return false
	}
	if f.HasSeaview != nil && p.HasSeaview != *f.HasSeaview {
		return false
	}
	if f.HasGolfview != nil && p.HasGolfview != *f.HasGolfview {
		return false
	}
	return true
}

func containsFold(hay []string, needle string) bool {
	for _, h := range hay {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}

func containsStatus(hay []domain.Status, needle domain.Status) bool {
	for _, h := range hay {
		if h == needle {
			return true
		}
	}
	return false
}

/********** sorting & pagination **********/

func sortProperties(props []domain.Property, s domain.Sort) {
	var less func(a, b domain.Property) bool
	switch s.Key {
	case domain.SortPrice:
		less = func(a, b domain.Property) bool { return a.Price < b.Price }
	case domain.SortBedrooms:
		less = func(a, b domain.Property) bool { return a.Bedrooms < b.Bedrooms }
	case domain.SortRecency:
		less = func(a, b domain.Property) bool { return a.LastUpdated.Before(b.LastUpdated) }
	default:
		return
	}
	sort.SliceStable(props, func(i, j int) bool {
		if s.Desc {
			return less(props[j], props[i])
		}
		return less(props[i], props[j])
	})
}

func paginate(props []domain.Property, page domain.Page) domain.PropertyPage {
	total := len(props)
	if page.Size <= 0 {
		return domain.PropertyPage{Items: props, Total: total, Page: 1, PageSize: total, TotalPages: 1}
	}
	if page.Number < 1 {
		page.Number = 1
	}
	totalPages := (total + page.Size - 1) / page.Size
	start := (page.Number - 1) * page.Size
	if start >= total {
		return domain.PropertyPage{Items: []domain.Property{}, Total: total, Page: page.Number, PageSize: page.Size, TotalPages: totalPages}
	}
	end := start + page.Size
	if end > total {
		end = total
	}
	return domain.PropertyPage{Items: props[start:end], Total: total, Page: page.Number, PageSize: page.Size, TotalPages: totalPages}
}

/********** featured **********/

// Featured scores listings on their headline features and returns the top n.
// Weights follow what the site has always shown first: sea views beat pools.
func (q *QueryService) Featured(ctx context.Context, n int) []domain.Property {
	snap := q.cache.Snapshot(ctx)

	type scored struct {
		p     domain.Property
		score int
	}
	all := make([]scored, 0, len(snap.Properties))
	for _, p := range snap.Properties {
		if p.Category == domain.CategoryPlot {
			continue
		}
		s := 0
		if p.HasSeaview {
			s += 3
		}
		if p.HasPool {
			s += 2
		}
		if p.HasGolfview {
			s += 2
		}
		if p.HasGarden {
			s++
		}
		if p.HasTerrace {
			s++
		}
		if len(p.Images) > 5 {
			s++
		}
		if p.Price > 300_000 {
			s++
		}
		all = append(all, scored{p, s})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	if n <= 0 || n > len(all) {
		n = len(all)
	}
	out := make([]domain.Property, 0, n)
	for _, sc := range all[:n] {
		out = append(out, sc.p)
	}
	return out
}
