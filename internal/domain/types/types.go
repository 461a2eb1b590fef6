// Package types contains common types used across the application
package types

import "github.com/okian/wardrobe/internal/domain/model"

// RankedAsset represents one row of a ranked asset search
type RankedAsset struct {
	Rank    int      `json:"rank"`
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Slot    string   `json:"slot"`
	Score   int      `json:"score"`
	Genders []string `json:"genders,omitempty"`
}

// Rank converts ordered matches into ranked rows starting at 1.
func Rank(matches []model.AssetMatch) []RankedAsset {
	out := make([]RankedAsset, len(matches))
	for i, m := range matches {
		out[i] = RankedAsset{
			Rank:    i + 1,
			ID:      m.ID,
			Name:    m.Name,
			Slot:    m.Slot,
			Score:   m.Score,
			Genders: m.ApplicableGenders,
		}
	}
	return out
}
