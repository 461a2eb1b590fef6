package probe

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Word pools for generated descriptions. They overlap the matcher's
// vocabulary and add noise words that should never score.
var (
	subjects  = []string{"man", "woman", "boy", "girl", "gentleman", "lady", "person", "pilot"}
	colors    = []string{"black", "white", "red", "blue", "brown", "blonde", "grey", "green"}
	materials = []string{"leather", "denim", "cotton", "silk", "wool", "suede", ""}
	garments  = []string{"jacket", "dress", "jeans", "hoodie", "suit", "t-shirt", "boots", "hat"}
	styles    = []string{"casual", "formal", "vintage", "sporty", "punk", "elegant", ""}
	extras    = []string{
		"with long black hair", "with short blonde hair", "with a full beard",
		"with round glasses", "wearing sunglasses", "in a wool beanie", "", "",
	}
)

// generateDescriptions returns n descriptions drawn deterministically from seed.
func generateDescriptions(n int, seed uint64) []string {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pick := func(words []string) string { return words[r.IntN(len(words))] }

	out := make([]string, n)
	for i := range out {
		parts := []string{"a", pick(styles), pick(subjects), "in a", pick(colors), pick(materials), pick(garments), pick(extras)}
		out[i] = strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	}
	return out
}

func characterName(i int) string {
	return fmt.Sprintf("probe-%04d", i)
}
