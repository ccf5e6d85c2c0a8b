package domain

// SortKey orders listing results. The zero value keeps snapshot order.
type SortKey string

const (
	SortNone     SortKey = ""
	SortPrice    SortKey = "price"
	SortBedrooms SortKey = "bedrooms"
	SortRecency  SortKey = "recency"
)

// Filter is a conjunction of optional predicates. Zero-valued fields impose
// no constraint. Plot-category records are excluded unless IncludePlots.
type Filter struct {
	Town         string
	Region       Region
	MinPrice     int
	MaxPrice     int
	MinBedrooms  int
	MaxBedrooms  int
	Types        []string
	Statuses     []Status
	NewBuild     *bool
	HasPool      *bool
	HasSeaview   *bool
	HasGolfview  *bool
	IncludePlots bool
}

// Sort pairs a key with a direction.
type Sort struct {
	Key  SortKey
	Desc bool
}

// Page is a 1-indexed pagination request. PageSize <= 0 means everything.
type Page struct {
	Number int
	Size   int
}

// PropertyPage is a paginated listing response.
type PropertyPage struct {
	Items      []Property `json:"properties"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}
