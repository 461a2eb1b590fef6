// Package scoring assigns relevance scores to catalog entries for extracted search terms.
package scoring

import (
	"strings"
	"unicode/utf8"

	"github.com/okian/wardrobe/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultGarmentWeight  = 10
	defaultColorWeight    = 5
	defaultMaterialWeight = 5
	defaultStyleWeight    = 3
	defaultGenderWeight   = 2
	defaultKeywordWeight  = 1
	// Keywords must be longer than this to take part in the fallback pass.
	defaultKeywordMinLen = 3
)

// Bucket names accepted by WithWeightsFromConfig.
const (
	BucketGarment  = "garment"
	BucketColor    = "color"
	BucketMaterial = "material"
	BucketStyle    = "style"
	BucketGender   = "gender"
	BucketKeyword  = "keyword"
)

// Weights holds the per-hit weight of each bucket.
type Weights struct {
	Garment  int
	Color    int
	Material int
	Style    int
	Gender   int
	Keyword  int
}

// DefaultWeights returns the built-in bucket weights.
func DefaultWeights() Weights {
	return Weights{
		Garment:  defaultGarmentWeight,
		Color:    defaultColorWeight,
		Material: defaultMaterialWeight,
		Style:    defaultStyleWeight,
		Gender:   defaultGenderWeight,
		Keyword:  defaultKeywordWeight,
	}
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights replaces all bucket weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		s.weights = w
	}
}

// WithWeightsFromConfig overrides bucket weights from a configuration map.
// Unknown buckets and negative weights are ignored.
func WithWeightsFromConfig(weights map[string]int) Option {
	return func(s *Scorer) {
		for bucket, weight := range weights {
			if weight < 0 {
				continue
			}
			switch strings.ToLower(bucket) {
			case BucketGarment:
				s.weights.Garment = weight
			case BucketColor:
				s.weights.Color = weight
			case BucketMaterial:
				s.weights.Material = weight
			case BucketStyle:
				s.weights.Style = weight
			case BucketGender:
				s.weights.Gender = weight
			case BucketKeyword:
				s.weights.Keyword = weight
			}
		}
	}
}

// WithKeywordMinLength sets the length a keyword must exceed to be scored.
func WithKeywordMinLength(n int) Option {
	return func(s *Scorer) {
		if n >= 0 {
			s.keywordMinLen = n
		}
	}
}

// Scorer computes additive, bucket-weighted scores. It is immutable after
// construction and safe for concurrent use.
type Scorer struct {
	weights       Weights
	keywordMinLen int
}

// NewScorer creates a scorer with default weights unless overridden.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		weights:       DefaultWeights(),
		keywordMinLen: defaultKeywordMinLen,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Weights returns the weights in effect.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score returns the relevance of entry for the given terms. Every bucket is
// evaluated; a token may contribute to its own bucket and to the keyword pass.
// An entry with no content hit scores 0 regardless of gender.
func (s *Scorer) Score(entry *model.CatalogEntry, st *model.SearchTerms) int {
	name := strings.ToLower(entry.Name)
	slot := strings.ToLower(entry.Slot)
	score := 0

	for _, tok := range st.GarmentTypes {
		if strings.Contains(name, tok) || tok == slot || hasTag(entry.Tags, tok) {
			score += s.weights.Garment
		}
	}
	score += s.descriptorHits(st.Colors, name, entry.Tags) * s.weights.Color
	score += s.descriptorHits(st.Materials, name, entry.Tags) * s.weights.Material
	score += s.descriptorHits(st.Styles, name, entry.Tags) * s.weights.Style

	for _, tok := range st.Keywords {
		if utf8.RuneCountInString(tok) <= s.keywordMinLen {
			continue
		}
		if strings.Contains(name, tok) || tagContains(entry.Tags, tok) {
			score += s.weights.Keyword
		}
	}

	// Gender only breaks ties between entries that already matched on content.
	if score > 0 && genderMatches(st.Genders, entry.ApplicableGenders) {
		score += s.weights.Gender
	}

	return score
}

// descriptorHits counts tokens found in the name or among the tags.
func (s *Scorer) descriptorHits(tokens []string, name string, tags []string) int {
	hits := 0
	for _, tok := range tokens {
		if strings.Contains(name, tok) || hasTag(tags, tok) {
			hits++
		}
	}
	return hits
}

func hasTag(tags []string, tok string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tok) {
			return true
		}
	}
	return false
}

func tagContains(tags []string, tok string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), tok) {
			return true
		}
	}
	return false
}
