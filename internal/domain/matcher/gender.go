package matcher

import (
	"regexp"

	"github.com/okian/wardrobe/internal/domain/model"
)

var (
	malePattern   = regexp.MustCompile(`(?i)\b(man|male|boy|gentleman)\b`)   //nolint:gochecknoglobals // compiled once
	femalePattern = regexp.MustCompile(`(?i)\b(woman|female|girl|lady)\b`) //nolint:gochecknoglobals // compiled once
)

// InferGender returns male when a male word is present, else female when a
// female word is present, else neutral. Male is checked first, so a
// description naming both is male.
func InferGender(description string) model.Gender {
	switch {
	case malePattern.MatchString(description):
		return model.GenderMale
	case femalePattern.MatchString(description):
		return model.GenderFemale
	default:
		return model.GenderNeutral
	}
}
