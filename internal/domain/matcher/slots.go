package matcher

import "github.com/okian/wardrobe/internal/domain/model"

// DefaultSlotKeys maps catalog slots to the configuration keys the avatar
// creation service expects. Slots without a key are left out of the slot
// configuration.
func DefaultSlotKeys() map[string]string {
	return map[string]string{
		model.SlotHair:       "hairStyle",
		model.SlotFacialHair: "beardStyle",
		model.SlotGlasses:    "glasses",
		model.SlotOutfit:     "outfit",
		model.SlotTop:        "outfit",
		model.SlotBottom:     "outfit",
		model.SlotHeadwear:   "headwear",
	}
}
