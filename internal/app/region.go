package app

import (
	"strings"

	"golang.org/x/text/transform"

	"costafeed/internal/domain"
)

// Town allowlists for region classification. Matching is by substring on the
// lowercased town, so "Playa Flamenca (Orihuela Costa)" still lands in the
// south. Keep entries lowercase.
var northTowns = []string{
	"javea", "xabia", "moraira", "calpe", "altea", "benidorm", "denia",
	"villajoyosa", "albir", "alfaz del pi", "benissa", "teulada", "benitachell",
	"cumbre del sol", "pedreguer", "ondara", "pego", "parcent", "jalon",
	"gandia", "oliva", "finestrat", "polop", "callosa", "guadalest", "nucia",
}

var southTowns = []string{
	"torrevieja", "orihuela", "guardamar", "algorfa", "villamartin", "la zenia",
	"playa flamenca", "punta prima", "campoamor", "mil palmeras",
	"pilar de la horadada", "torre de la horadada", "san miguel",
	"los montesinos", "quesada", "rojales", "catral", "almoradi", "benijofar",
	"ciudad quesada", "la marina", "san fulgencio", "dolores", "bigastro",
	"cabo roig", "dehesa de campoamor", "la finca", "los alcazares",
	"san pedro del pinatar",
}

// ClassifyRegion maps a (town, province) pair onto the closed region set.
// Precedence is load-bearing and must not be reordered: the Murcia province
// override wins over any town match, town allowlists come next, then the
// Alicante province fallback, then the generic region. Changing this order
// changes which listings appear on which regional landing page.
func ClassifyRegion(town, province string) domain.Region {
	t := foldTown(town)
	p := foldTown(province)

	if strings.Contains(p, "murcia") {
		return domain.RegionCalida
	}
	for _, s := range southTowns {
		if strings.Contains(t, s) {
			return domain.RegionSouth
		}
	}
	for _, n := range northTowns {
		if strings.Contains(t, n) {
			return domain.RegionNorth
		}
	}
	if strings.Contains(p, "alicante") {
		return domain.RegionGeneric
	}
	return domain.RegionGeneric
}

// foldTown lowercases and strips diacritics so the feeds' "Jávea" matches the
// allowlist entry "javea".
func foldTown(s string) string {
	if folded, _, err := transform.String(deaccent, s); err == nil {
		s = folded
	}
	return strings.ToLower(strings.TrimSpace(s))
}
