package probe

import (
	"fmt"

	"github.com/okian/wardrobe/internal/domain/matcher"
	"github.com/okian/wardrobe/internal/domain/model"
)

// verifyAssets checks a GET /assets answer: capped, positive, ranked and
// sorted best first.
func verifyAssets(assets []rankedAsset, maxResults int) []string {
	var problems []string
	if maxResults > 0 && len(assets) > maxResults {
		problems = append(problems, fmt.Sprintf("%d results exceed the cap of %d", len(assets), maxResults))
	}
	for i, a := range assets {
		if a.Score <= 0 {
			problems = append(problems, fmt.Sprintf("%s has non-positive score %d", a.ID, a.Score))
		}
		if a.Rank != i+1 {
			problems = append(problems, fmt.Sprintf("%s has rank %d at position %d", a.ID, a.Rank, i+1))
		}
		if i > 0 && a.Score > assets[i-1].Score {
			problems = append(problems, fmt.Sprintf("%s scores above %s", a.ID, assets[i-1].ID))
		}
	}
	return problems
}

// verifyConfiguration checks a POST /match answer: one match per slot, sorted,
// and every configuration key pointing at the best match that maps to it.
func verifyConfiguration(cfg *model.AvatarConfiguration, slotKeys map[string]string) []string {
	var problems []string
	switch cfg.InferredGender {
	case model.GenderMale, model.GenderFemale, model.GenderNeutral:
	default:
		problems = append(problems, fmt.Sprintf("unknown gender %q", cfg.InferredGender))
	}

	slots := make(map[string]struct{}, len(cfg.Matches))
	best := make(map[string]string, len(cfg.SlotConfiguration))
	for i, m := range cfg.Matches {
		if _, dup := slots[m.Slot]; dup {
			problems = append(problems, fmt.Sprintf("slot %s appears twice", m.Slot))
		}
		slots[m.Slot] = struct{}{}
		if m.Score <= 0 {
			problems = append(problems, fmt.Sprintf("%s has non-positive score %d", m.ID, m.Score))
		}
		if i > 0 && m.Score > cfg.Matches[i-1].Score {
			problems = append(problems, fmt.Sprintf("%s scores above %s", m.ID, cfg.Matches[i-1].ID))
		}
		if key, ok := slotKeys[m.Slot]; ok {
			if _, taken := best[key]; !taken {
				best[key] = m.ID
			}
		}
	}

	for key, id := range cfg.SlotConfiguration {
		if best[key] != id {
			problems = append(problems, fmt.Sprintf("key %s is %s, expected %s", key, id, best[key]))
		}
	}
	for key := range best {
		if _, ok := cfg.SlotConfiguration[key]; !ok {
			problems = append(problems, fmt.Sprintf("key %s is missing", key))
		}
	}
	return problems
}

// defaultSlotKeys is the slot mapping the server uses unless reconfigured.
func defaultSlotKeys() map[string]string {
	return matcher.DefaultSlotKeys()
}
