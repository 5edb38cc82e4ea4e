package domain

// SchemaVersion is the Place field set written by this module. Version 3 adds
// city, tags and maps_id on top of the first address/coordinates record.
const SchemaVersion = 3

// Placeholders written when an enrichment source has nothing to offer.
const (
	DefaultAddress      = "Default address"
	DefaultCategory     = "Default Type"
	DefaultExternalLink = "No external link yet"
	DefaultCity         = "Not available yet"
	DefaultMapsID       = "NOT AVAILABLE"
	DefaultDescription  = "No description yet"
	DefaultArabicName   = "Not available yet"
	DefaultTags         = "Not available yet"
	DefaultLocation     = "Default location"
)

// InputRow is one deduplicated row of the source dataset.
type InputRow struct {
	LandmarkID string
	Name       string // underscores already replaced by spaces
	ImageURL   string
	Line       int
}

// Place is the canonical record persisted in the places table.
type Place struct {
	ID           string  `json:"places_id,omitempty"`
	Name         string  `json:"name" validate:"required"`
	Image        string  `json:"image"`
	Address      string  `json:"address" validate:"required"`
	Latitude     float64 `json:"latitude" validate:"latitude"`
	Longitude    float64 `json:"longitude" validate:"longitude"`
	Category     string  `json:"category" validate:"required"`
	ExternalLink string  `json:"external_link" validate:"required"`
	City         string  `json:"city" validate:"required"`
	MapsID       string  `json:"maps_id" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	ArabicName   string  `json:"arabic_name" validate:"required"`
	Tags         string  `json:"tags" validate:"required"`
	Location     string  `json:"location"`
	Rating       float64 `json:"rating"`
}

// GeoResult holds the place-search fields of a Place.
type GeoResult struct {
	Found        bool
	Address      string
	Latitude     float64
	Longitude    float64
	Category     string
	City         string
	MapsID       string
	ExternalLink string
}

// DefaultGeo is the result used when the place-search collaborator has no match.
func DefaultGeo() GeoResult {
	return GeoResult{
		Address:      DefaultAddress,
		Category:     DefaultCategory,
		City:         DefaultCity,
		MapsID:       DefaultMapsID,
		ExternalLink: DefaultExternalLink,
	}
}

// KnowledgeResult holds the encyclopedia fields of a Place.
type KnowledgeResult struct {
	Found       bool
	Description string
	Tags        string
	ArabicName  string
}

// DefaultKnowledge is the result used when no encyclopedia page exists.
func DefaultKnowledge() KnowledgeResult {
	return KnowledgeResult{
		Description: DefaultDescription,
		Tags:        DefaultTags,
		ArabicName:  DefaultArabicName,
	}
}

// PlacePatch names the fields of an existing row to overwrite. Nil fields are left alone.
type PlacePatch struct {
	Address      *string
	Latitude     *float64
	Longitude    *float64
	Category     *string
	City         *string
	MapsID       *string
	ExternalLink *string
	Description  *string
	ArabicName   *string
	Tags         *string
}

// Columns returns the column names and values of the set fields, in a stable order.
func (p PlacePatch) Columns() ([]string, []any) {
	var cols []string
	var vals []any
	addStr := func(col string, v *string) {
		if v != nil {
			cols = append(cols, col)
			vals = append(vals, *v)
		}
	}
	addF64 := func(col string, v *float64) {
		if v != nil {
			cols = append(cols, col)
			vals = append(vals, *v)
		}
	}
	addStr("address", p.Address)
	addF64("latitude", p.Latitude)
	addF64("longitude", p.Longitude)
	addStr("category", p.Category)
	addStr("city", p.City)
	addStr("maps_id", p.MapsID)
	addStr("external_link", p.ExternalLink)
	addStr("description", p.Description)
	addStr("arabic_name", p.ArabicName)
	addStr("tags", p.Tags)
	return cols, vals
}

// Empty reports whether the patch changes nothing.
func (p PlacePatch) Empty() bool {
	cols, _ := p.Columns()
	return len(cols) == 0
}

// Apply returns a copy of pl with the patch applied.
func (p PlacePatch) Apply(pl Place) Place {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&pl.Address, p.Address)
	if p.Latitude != nil {
		pl.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		pl.Longitude = *p.Longitude
	}
	set(&pl.Category, p.Category)
	set(&pl.City, p.City)
	set(&pl.MapsID, p.MapsID)
	set(&pl.ExternalLink, p.ExternalLink)
	set(&pl.Description, p.Description)
	set(&pl.ArabicName, p.ArabicName)
	set(&pl.Tags, p.Tags)
	return pl
}
