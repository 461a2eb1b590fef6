// Package probe drives a running wardrobe server with generated descriptions
// and checks that its answers keep the matcher's guarantees.
package probe

import (
	"runtime"
	"time"

	"github.com/okian/wardrobe/internal/domain/model"
)

// Default probe settings.
const (
	DefaultBaseURL    = "http://localhost:9080"
	DefaultQueries    = 1000
	DefaultMaxResults = 10
	DefaultTimeout    = 10 * time.Second
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Queries    int           // Number of descriptions to match
	Characters int           // Number of characters to submit
	Workers    int           // Number of concurrent workers
	MaxResults int           // Result cap the server is configured with
	Timeout    time.Duration // HTTP request timeout
	Seed       uint64        // Seed for description generation
	Verbose    bool          // Log every violation
}

// DefaultConfig returns a Config with the standard settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Queries:    DefaultQueries,
		Characters: 0,
		Workers:    runtime.NumCPU() * 2,
		MaxResults: DefaultMaxResults,
		Timeout:    DefaultTimeout,
		Seed:       1,
	}
}

// rankedAsset mirrors one row of GET /assets.
type rankedAsset struct {
	Rank  int    `json:"rank"`
	ID    string `json:"id"`
	Slot  string `json:"slot"`
	Score int    `json:"score"`
}

// ackResponse mirrors the POST /characters acknowledgement.
type ackResponse struct {
	Status      string `json:"status"`
	Duplicate   bool   `json:"duplicate"`
	CharacterID string `json:"character_id"`
}

// Violation is one broken guarantee observed for a description.
type Violation struct {
	Description string `json:"description"`
	Endpoint    string `json:"endpoint"`
	Reason      string `json:"reason"`
}

// Stats holds probe statistics.
type Stats struct {
	QueriesSent         int
	QueriesFailed       int
	EmptyResults        int
	CharactersSubmitted int
	CharactersAccepted  int
	CharactersDuplicate int
	CharactersFailed    int
	Violations          []Violation
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}

// OK reports whether the run saw no failures or violations.
func (s *Stats) OK() bool {
	return s.QueriesFailed == 0 && s.CharactersFailed == 0 && len(s.Violations) == 0
}

type matchResult struct {
	description string
	config      model.AvatarConfiguration
	assets      []rankedAsset
	err         error
}
