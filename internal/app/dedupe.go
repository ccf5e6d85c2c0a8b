package app

import (
	"fmt"
	"strings"

	"costafeed/internal/domain"
)

// DedupKey identifies a physical listing across feeds: the uppercased native
// reference when present, otherwise a town+price+bedrooms composite. The
// composite can collide for distinct listings that share all three values;
// that imprecision is inherited from the feed design and left alone because
// downstream counts depend on it.
func DedupKey(p domain.Property) string {
	if ref := strings.TrimSpace(p.Reference); ref != "" {
		return strings.ToUpper(ref)
	}
	return fmt.Sprintf("%s|%d|%d", strings.ToLower(strings.TrimSpace(p.Town)), p.Price, p.Bedrooms)
}

// Dedupe collapses records sharing a dedup key, whole-record, first seen
// wins. Callers pass batches in source-priority order (primary feed first),
// so the highest-priority record survives no matter how the lower-priority
// feed orders its copy. No field-level merging: stale partial data from a
// secondary feed never bleeds into a surviving record. Output preserves
// first-occurrence order.
func Dedupe(batches ...[]domain.Property) []domain.Property {
	seen := map[string]struct{}{}
	var out []domain.Property
	for _, batch := range batches {
		for _, p := range batch {
			key := DedupKey(p)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
