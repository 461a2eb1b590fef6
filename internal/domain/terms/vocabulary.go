package terms

// Vocabulary is the set of words recognised for each bucket. Membership is
// exact and case-sensitive against already lower-cased tokens.
type Vocabulary struct {
	Colors       map[string]struct{}
	Materials    map[string]struct{}
	GarmentTypes map[string]struct{}
	Styles       map[string]struct{}
	Genders      map[string]struct{}
}

// NewVocabulary builds a Vocabulary from word lists.
func NewVocabulary(colors, materials, garments, styles, genders []string) Vocabulary {
	return Vocabulary{
		Colors:       setOf(colors),
		Materials:    setOf(materials),
		GarmentTypes: setOf(garments),
		Styles:       setOf(styles),
		Genders:      setOf(genders),
	}
}

func setOf(words []string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

var (
	defaultColors = []string{
		"black", "white", "red", "blue", "green", "yellow", "orange", "purple",
		"pink", "brown", "gray", "grey", "navy", "beige", "gold", "silver",
		"blonde", "brunette", "maroon", "teal", "khaki", "olive",
	}
	defaultMaterials = []string{
		"leather", "denim", "cotton", "silk", "wool", "linen", "velvet", "suede",
		"lace", "nylon", "polyester", "fur", "knit", "satin", "cashmere", "tweed",
	}
	defaultGarments = []string{
		"shirt", "tshirt", "t-shirt", "jacket", "coat", "hoodie", "sweater",
		"dress", "skirt", "pants", "jeans", "shorts", "suit", "blazer", "top",
		"bottom", "outfit", "hair", "beard", "mustache", "moustache", "glasses",
		"sunglasses", "hat", "cap", "beanie", "shoes", "boots", "sneakers",
		"headwear", "footwear", "ponytail", "bun", "braids",
	}
	defaultStyles = []string{
		"casual", "formal", "elegant", "sporty", "vintage", "modern", "classic",
		"cool", "punk", "bohemian", "business", "streetwear", "cute", "edgy",
		"retro", "minimalist", "gothic", "preppy", "chic", "long", "short", "curly",
	}
	defaultGenders = []string{
		"man", "men", "male", "males", "boy", "boys", "gentleman", "gentlemen",
		"woman", "women", "female", "females", "girl", "girls", "lady", "ladies",
		"unisex",
	}
)

// DefaultVocabulary returns the built-in vocabulary.
func DefaultVocabulary() Vocabulary {
	return NewVocabulary(defaultColors, defaultMaterials, defaultGarments, defaultStyles, defaultGenders)
}
