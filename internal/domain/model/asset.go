// Package model contains domain models passed between layers.
package model

// Slot names used by the bundled catalog. The set is open: any non-empty
// slot string loaded from a catalog is accepted.
const (
	SlotTop        = "top"
	SlotBottom     = "bottom"
	SlotOutfit     = "outfit"
	SlotHair       = "hair"
	SlotFacialHair = "facialHair"
	SlotGlasses    = "glasses"
	SlotHeadwear   = "headwear"
	SlotFootwear   = "footwear"
)

// CatalogEntry describes one wearable or appearance asset.
type CatalogEntry struct {
	ID                string   `json:"id" yaml:"id" toml:"id"`                // stable identifier
	Name              string   `json:"name" yaml:"name" toml:"name"`          // human-readable label
	Slot              string   `json:"slot" yaml:"slot" toml:"slot"`          // appearance category
	ApplicableGenders []string `json:"genders" yaml:"genders" toml:"genders"` // empty means unrestricted
	Tags              []string `json:"tags" yaml:"tags" toml:"tags"`          // color, material, style descriptors
}

// SearchTerms holds the tokens extracted from a description, bucketed by vocabulary.
type SearchTerms struct {
	Colors       []string
	Materials    []string
	GarmentTypes []string
	Styles       []string
	Genders      []string
	Keywords     []string // every token, in order
}

// AssetMatch pairs a catalog entry with its relevance score for one query.
type AssetMatch struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Slot              string   `json:"slot"`
	Score             int      `json:"score"`
	ApplicableGenders []string `json:"genders"`
}
