package domain

// BedroomRange is the min/max bedroom count across a group of units.
type BedroomRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Development groups the units of one building project, keyed by the slug of
// the development name. Aggregates are computed on read from the current
// snapshot, never cached separately.
type Development struct {
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Developer     string   `json:"developer"`
	DeveloperSlug string   `json:"developerSlug"`
	Town          string   `json:"town"`
	Province      string   `json:"province"`
	Region        Region   `json:"region"`
	Zone          string   `json:"zone,omitempty"`
	DeliveryDate  string   `json:"deliveryDate,omitempty"`

	PropertyCount int          `json:"propertyCount"`
	PriceFrom     int          `json:"priceFrom"` // 0 when no unit has a known price
	PriceTo       int          `json:"priceTo"`
	Types         []string     `json:"types"`
	Statuses      []Status     `json:"statuses"`
	BedroomRange  BedroomRange `json:"bedroomRange"`
	MainImage     string       `json:"mainImage,omitempty"`

	Properties []Property `json:"properties"`
}

// Builder aggregates the developments of one developer.
type Builder struct {
	Slug             string   `json:"slug"`
	Name             string   `json:"name"`
	DevelopmentCount int      `json:"developmentCount"`
	TotalUnits       int      `json:"totalUnits"`
	Developments     []string `json:"developments"` // development slugs
	Towns            []string `json:"towns"`
	Regions          []Region `json:"regions"`
	PriceFrom        int      `json:"priceFrom"`
	PriceTo          int      `json:"priceTo"`
}

// TownSummary is the per-town aggregate behind area pages.
type TownSummary struct {
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Region        Region     `json:"region"`
	PropertyCount int        `json:"propertyCount"`
	PriceFrom     int        `json:"priceFrom"`
	PriceTo       int        `json:"priceTo"`
	Types         []string   `json:"types"`
	BedroomRange  BedroomRange `json:"bedroomRange"`
	Properties    []Property `json:"properties"`
}

// Stats are the site-wide headline numbers.
type Stats struct {
	TotalProperties   int `json:"totalProperties"`
	TotalDevelopments int `json:"totalDevelopments"`
	TotalTowns        int `json:"totalTowns"`
	TotalBuilders     int `json:"totalBuilders"`
	PriceFrom         int `json:"priceFrom"`
}
