// Package terms splits free-text avatar descriptions into vocabulary buckets.
package terms

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/okian/wardrobe/internal/domain/model"
)

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithVocabulary replaces the built-in vocabulary.
func WithVocabulary(v Vocabulary) Option {
	return func(e *Extractor) {
		e.vocab = v
	}
}

// Extractor classifies tokens against a fixed vocabulary. It holds no
// mutable state and is safe for concurrent use.
type Extractor struct {
	vocab Vocabulary
}

// NewExtractor creates an extractor using the default vocabulary unless overridden.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{vocab: DefaultVocabulary()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultExtractor = NewExtractor() //nolint:gochecknoglobals // read-only after init

// Extract runs the default extractor.
func Extract(description string) model.SearchTerms {
	return defaultExtractor.Extract(description)
}

// Extract lower-cases the description, splits it on whitespace and sorts each
// token into every bucket whose vocabulary contains it. Keywords keeps all
// tokens in their original order.
func (e *Extractor) Extract(description string) model.SearchTerms {
	var out model.SearchTerms

	// cases.Caser is stateful, so one per call.
	lowered := cases.Lower(language.Und).String(description)
	tokens := strings.Fields(lowered)
	if len(tokens) == 0 {
		return out
	}

	out.Keywords = tokens
	for _, tok := range tokens {
		if _, ok := e.vocab.Colors[tok]; ok {
			out.Colors = append(out.Colors, tok)
		}
		if _, ok := e.vocab.Materials[tok]; ok {
			out.Materials = append(out.Materials, tok)
		}
		if _, ok := e.vocab.GarmentTypes[tok]; ok {
			out.GarmentTypes = append(out.GarmentTypes, tok)
		}
		if _, ok := e.vocab.Styles[tok]; ok {
			out.Styles = append(out.Styles, tok)
		}
		if _, ok := e.vocab.Genders[tok]; ok {
			out.Genders = append(out.Genders, tok)
		}
	}
	return out
}
