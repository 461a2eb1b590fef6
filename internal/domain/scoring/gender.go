package scoring

import "strings"

// canonicalGender maps gender words, singular and plural, onto the tags used
// by catalogs.
var canonicalGender = map[string]string{ //nolint:gochecknoglobals // read-only lookup
	"man":       "male",
	"men":       "male",
	"boy":       "male",
	"gentleman": "male",
	"gentlemen": "male",
	"woman":     "female",
	"women":     "female",
	"girl":      "female",
	"lady":      "female",
	"ladies":    "female",
}

// normalizeGender maps the word to its catalog tag, retrying with a plural
// "s" stripped. Unknown words come back lower-cased without the "s".
func normalizeGender(word string) string {
	w := strings.ToLower(word)
	if c, ok := canonicalGender[w]; ok {
		return c
	}
	w = strings.TrimSuffix(w, "s")
	if c, ok := canonicalGender[w]; ok {
		return c
	}
	return w
}

// genderMatches reports whether any gender token is a substring of any of
// the entry's applicable genders. Substring semantics mean "male" also
// matches "female".
func genderMatches(tokens, applicable []string) bool {
	if len(tokens) == 0 || len(applicable) == 0 {
		return false
	}
	for _, tok := range tokens {
		g := normalizeGender(tok)
		if g == "" {
			continue
		}
		for _, a := range applicable {
			if strings.Contains(strings.ToLower(a), g) {
				return true
			}
		}
	}
	return false
}
