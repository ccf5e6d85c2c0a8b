package domain

import "time"

// Source identifies which feed a property came from.
type Source string

const (
	SourceKyero    Source = "kyero"
	SourceSooprema Source = "sooprema"
	SourceManual   Source = "manual"
)

// Region is a closed set of geographic groupings used for landing-page
// segmentation. Classification never yields an empty region; RegionCostaBlanca
// doubles as the generic fallback.
type Region string

const (
	RegionNorth  Region = "Costa Blanca North"
	RegionSouth  Region = "Costa Blanca South"
	RegionCalida Region = "Costa Cálida"
	RegionGeneric Region = "Costa Blanca"
)

// Category splits new-build stock from land. Plot records are excluded from
// listing queries unless asked for explicitly.
type Category string

const (
	CategoryNewBuild Category = "new-build"
	CategoryPlot     Category = "plot"
)

// Status is the construction status of a new-build unit.
type Status string

const (
	StatusOffPlan           Status = "off-plan"
	StatusUnderConstruction Status = "under-construction"
	StatusCompleted         Status = "completed"
	StatusKeyReady          Status = "key-ready"
	StatusSold              Status = "sold"
)

// Coords is a parsed coordinate pair. A property carries either both values
// or no Coords at all; there is no half-parsed state.
type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Property is the canonical listing record every feed normalizes into.
// Price 0 means "price unknown", never free. Descriptions map ISO language
// codes to free text; when any description exists, "en" is populated.
type Property struct {
	// Identity
	ID        string `json:"id"`        // source-prefixed, unique after dedup
	Reference string `json:"reference"` // feed-native identifier
	Source    Source `json:"source"`

	// Location
	Town           string  `json:"town"`
	LocationDetail string  `json:"locationDetail,omitempty"`
	Province       string  `json:"province"`
	Region         Region  `json:"region"`
	Coords         *Coords `json:"coords,omitempty"`

	// Physical
	Type        string   `json:"propertyType"`
	Category    Category `json:"propertyCategory"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	BuiltArea   float64  `json:"builtArea"`
	PlotArea    float64  `json:"plotArea"`
	TerraceArea float64  `json:"terraceArea,omitempty"`

	// Commercial
	Price    int    `json:"price"`
	Currency string `json:"currency"`

	// Media
	Title     string   `json:"title,omitempty"`
	Images    []string `json:"images"`
	MainImage string   `json:"mainImage,omitempty"`

	// Descriptions by ISO language code.
	Descriptions map[string]string `json:"descriptions"`

	// Features
	Features    []string `json:"features"`
	NewBuild    bool     `json:"isNewBuild"`
	HasPool     bool     `json:"hasPool"`
	HasSeaview  bool     `json:"hasSeaview"`
	HasGolfview bool     `json:"hasGolfview"`
	HasGarden   bool     `json:"hasGarden"`
	HasTerrace  bool     `json:"hasTerrace"`
	HasParking  bool     `json:"hasParking"`

	// Development metadata (new-build specific)
	DevelopmentName string `json:"developmentName,omitempty"`
	DevelopmentSlug string `json:"developmentSlug,omitempty"`
	Developer       string `json:"developer,omitempty"`
	DeveloperSlug   string `json:"developerSlug,omitempty"`
	DeliveryDate    string `json:"deliveryDate,omitempty"`
	Status          Status `json:"constructionStatus"`
	Zone            string `json:"zone,omitempty"`

	// Energy rating pass-through from the feed, empty when absent.
	EnergyConsumption string `json:"energyConsumption,omitempty"`
	EnergyEmissions   string `json:"energyEmissions,omitempty"`

	ExternalURL string    `json:"externalUrl,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// PriceKnown reports whether the feed supplied a usable price.
func (p Property) PriceKnown() bool { return p.Price > 0 }
