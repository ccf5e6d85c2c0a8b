package app

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"costafeed/internal/domain"
	"costafeed/internal/feeds"
)

/********** synonym and keyword tables (single source of truth) **********/

// typeSynonyms maps lowercased source type strings onto the normalized set.
// Unknown strings pass through title-cased so bad feed data stays visible
// instead of silently collapsing into Apartment.
var typeSynonyms = map[string]string{
	"apartment":      "Apartment",
	"apartments":     "Apartment",
	"apartamento":    "Apartment",
	"flat":           "Apartment",
	"piso":           "Apartment",
	"penthouse":      "Penthouse",
	"atico":          "Penthouse",
	"ático":          "Penthouse",
	"villa":          "Villa",
	"villas":         "Villa",
	"detached":       "Villa",
	"detached villa": "Villa",
	"chalet":         "Villa",
	"townhouse":      "Townhouse",
	"town house":     "Townhouse",
	"terraced":       "Townhouse",
	"adosado":        "Townhouse",
	"semi-detached":  "Semi-Detached",
	"bungalow":       "Bungalow",
	"duplex":         "Duplex",
	"studio":         "Studio",
	"estudio":        "Studio",
	"finca":          "Finca",
	"country house":  "Finca",
	"land":           "Plot",
	"plot":           "Plot",
	"building plot":  "Plot",
	"terreno":        "Plot",
	"parcela":        "Plot",
}

// plotKeywords tag land offered through the same feeds, in the feeds'
// description languages. Matched as substrings of the normalized type.
var plotKeywords = []string{
	"land", "plot", "terrain", "terreno", "parcela", "grundstück", "grond", "solar",
}

// statusKeywords, first match wins.
var statusKeywords = []struct {
	needles []string
	status  domain.Status
}{
	{[]string{"key", "ready", "llave"}, domain.StatusKeyReady},
	{[]string{"sold", "vendido"}, domain.StatusSold},
	{[]string{"off-plan", "off plan", "plano"}, domain.StatusOffPlan},
	{[]string{"completed", "terminado", "finalizado"}, domain.StatusCompleted},
}

// englishFallbackOrder decides which language fills in a missing English
// description. Stable so normalization is deterministic.
var englishFallbackOrder = []string{"es", "de", "fr", "nl", "sv", "da", "fi", "no", "pl", "ru"}

/********** defensive parsing helpers **********/

// parseIntField returns 0 for anything unparseable, never an error. Accepts
// decimal-comma and trailing units ("85 m2").
func parseIntField(s string) int {
	return int(parseFloatField(s))
}

func parseFloatField(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	// strip a trailing unit if present
	if i := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.' && r != '-' && r != '+'
	}); i > 0 {
		s = s[:i]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseBoolFlag treats "1", "yes" and "true" (case-insensitive) as set.
// Anything else, including absence, is false — flags never default true.
func parseBoolFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true":
		return true
	}
	return false
}

func parseCoords(rawLat, rawLon string) *domain.Coords {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(rawLon), 64)
	// both or neither: a half-parsed coordinate is worse than none
	if errLat != nil || errLon != nil || (lat == 0 && lon == 0) {
		return nil
	}
	return &domain.Coords{Lat: lat, Lon: lon}
}

/********** normalization **********/

// NormalizeType resolves a raw feed type string against the synonym table.
func NormalizeType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	if t == "" {
		return "Property"
	}
	if canonical, ok := typeSynonyms[t]; ok {
		return canonical
	}
	// pass through unchanged except first-letter capitalization
	r := []rune(strings.TrimSpace(raw))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func isPlotType(normalizedType string) bool {
	t := strings.ToLower(normalizedType)
	for _, kw := range plotKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

func normalizeStatus(raw string) domain.Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return domain.StatusUnderConstruction
	}
	for _, group := range statusKeywords {
		for _, n := range group.needles {
			if strings.Contains(s, n) {
				return group.status
			}
		}
	}
	return domain.StatusUnderConstruction
}

// Normalize maps one intermediate feed record into the canonical property
// shape. Pure: the same record and timestamp always produce the same output.
// Bad data degrades field by field (zeroes, nil coords, pass-through type);
// the record itself is never rejected here.
func Normalize(rec feeds.Record, at time.Time) domain.Property {
	propType := NormalizeType(rec.RawType)

	category := domain.CategoryNewBuild
	if isPlotType(propType) {
		category = domain.CategoryPlot
	}

	town := rec.Town
	province := rec.Province
	if province == "" {
		province = "Alicante"
	}

	descriptions := map[string]string{}
	for lang, text := range rec.Descriptions {
		if t := strings.TrimSpace(text); t != "" {
			descriptions[lang] = t
		}
	}
	// English must be populated whenever any description exists.
	if _, ok := descriptions["en"]; !ok && len(descriptions) > 0 {
		for _, lang := range englishFallbackOrder {
			if t, ok := descriptions[lang]; ok {
				descriptions["en"] = t
				break
			}
		}
	}

	features := make([]string, 0, len(rec.Features))
	for _, f := range rec.Features {
		if t := strings.TrimSpace(f); t != "" {
			features = append(features, t)
		}
	}
	featuresLower := strings.ToLower(strings.Join(features, " "))
	has := func(needles ...string) bool {
		for _, n := range needles {
			if strings.Contains(featuresLower, n) {
				return true
			}
		}
		return false
	}

	images := make([]string, 0, len(rec.Images))
	for _, u := range rec.Images {
		if t := strings.TrimSpace(u); t != "" {
			images = append(images, t)
		}
	}
	mainImage := ""
	if len(images) > 0 {
		mainImage = images[0]
	}

	currency := strings.ToUpper(strings.TrimSpace(rec.Currency))
	if currency == "" {
		currency = "EUR"
	}

	p := domain.Property{
		ID:        string(rec.Source) + "-" + rec.Reference,
		Reference: rec.Reference,
		Source:    rec.Source,

		Town:           town,
		LocationDetail: rec.LocationDetail,
		Province:       province,
		Region:         ClassifyRegion(town, province),
		Coords:         parseCoords(rec.RawLatitude, rec.RawLongitude),

		Type:        propType,
		Category:    category,
		Bedrooms:    parseIntField(rec.RawBeds),
		Bathrooms:   parseIntField(rec.RawBaths),
		BuiltArea:   parseFloatField(rec.RawBuilt),
		PlotArea:    parseFloatField(rec.RawPlot),
		TerraceArea: parseFloatField(rec.RawTerrace),

		Price:    parseIntField(rec.RawPrice), // 0 == price unknown
		Currency: currency,

		Title:     rec.Title,
		Images:    images,
		MainImage: mainImage,

		Descriptions: descriptions,
		Features:     features,

		NewBuild:    parseBoolFlag(rec.RawNewBuild),
		HasPool:     parseBoolFlag(rec.RawPool) || has("pool", "piscina"),
		HasSeaview:  has("sea view", "seaview", "vista mar", "vistas al mar"),
		HasGolfview: has("golf") && has("view", "vista"),
		HasGarden:   has("garden", "jardin", "jardín"),
		HasTerrace:  has("terrace", "terraza"),
		HasParking:  has("parking", "garage", "garaje"),

		DevelopmentName: rec.Development,
		Developer:       rec.Developer,
		DeliveryDate:    rec.DeliveryDate,
		Status:          normalizeStatus(rec.RawStatus),
		Zone:            rec.Zone,

		EnergyConsumption: rec.EnergyConsumption,
		EnergyEmissions:   rec.EnergyEmissions,

		ExternalURL: rec.ExternalURL,
		LastUpdated: at,
	}

	if p.DevelopmentName != "" {
		p.DevelopmentSlug = Slugify(p.DevelopmentName)
	}
	if p.Developer != "" {
		p.DeveloperSlug = Slugify(p.Developer)
	}
	if p.Price < 0 {
		p.Price = 0
	}
	return p
}
