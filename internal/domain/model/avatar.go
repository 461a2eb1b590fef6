package model

import "time"

// Gender is the gender tag inferred from a description.
type Gender string

// Inferred genders.
const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
)

// AvatarConfiguration is the result of matching one description against the catalog.
type AvatarConfiguration struct {
	InferredGender    Gender            `json:"inferredGender"`
	Matches           []AssetMatch      `json:"matches"`           // best match per slot, slot first-seen order
	SlotConfiguration map[string]string `json:"slotConfiguration"` // configuration key -> asset id
}

// Character is a saved avatar built from a description.
type Character struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Configuration AvatarConfiguration `json:"configuration"`
	CreatedAt     time.Time           `json:"created_at"`
}

// BuildRequest asks the worker pool to build and store a character.
type BuildRequest struct {
	RequestID   string    // client supplied id for idempotency
	CharacterID string    // id assigned on acceptance
	Name        string    // display name of the character
	Description string    // free-text avatar description
	SubmittedAt time.Time // acceptance time
}
