package matcher_test

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/okian/wardrobe/internal/domain/catalog"
	"github.com/okian/wardrobe/internal/domain/matcher"
	"github.com/okian/wardrobe/internal/domain/model"
	"github.com/okian/wardrobe/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func fixtureCatalog() *catalog.Catalog {
	c, err := catalog.New([]model.CatalogEntry{
		{ID: "outfit-leather-jacket", Name: "Black Leather Jacket", Slot: model.SlotOutfit, Tags: []string{"jacket", "leather", "black", "casual", "cool"}, ApplicableGenders: []string{"male", "female"}},
		{ID: "top-black-tee", Name: "Black T-Shirt", Slot: model.SlotTop, Tags: []string{"tshirt", "black", "cotton", "casual"}, ApplicableGenders: []string{"male", "female"}},
		{ID: "outfit-red-dress", Name: "Red Dress", Slot: model.SlotOutfit, Tags: []string{"dress", "red", "elegant"}, ApplicableGenders: []string{"female"}},
		{ID: "bottom-blue-jeans", Name: "Blue Jeans", Slot: model.SlotBottom, Tags: []string{"jeans", "denim", "blue", "casual"}},
		{ID: "hair-long-black", Name: "Long Black Hair", Slot: model.SlotHair, Tags: []string{"long", "black", "straight"}, ApplicableGenders: []string{"female"}},
		{ID: "hair-short-black", Name: "Short Black Hair", Slot: model.SlotHair, Tags: []string{"short", "black"}, ApplicableGenders: []string{"male"}},
		{ID: "glasses-round", Name: "Round Glasses", Slot: model.SlotGlasses, Tags: []string{"round", "metal"}},
		{ID: "footwear-black-boots", Name: "Black Leather Boots", Slot: model.SlotFootwear, Tags: []string{"boots", "leather", "black"}},
		{ID: "facial-full-beard", Name: "Full Beard", Slot: model.SlotFacialHair, Tags: []string{"beard", "full"}, ApplicableGenders: []string{"male"}},
	})
	if err != nil {
		panic(err)
	}
	return c
}

func ids(matches []model.AssetMatch) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.ID
	}
	return out
}

func TestInferGender(t *testing.T) {
	Convey("Given descriptions with gender words", t, func() {
		So(matcher.InferGender("Indian man with black jacket"), ShouldEqual, model.GenderMale)
		So(matcher.InferGender("elegant woman in red dress"), ShouldEqual, model.GenderFemale)
		So(matcher.InferGender("a person walking"), ShouldEqual, model.GenderNeutral)

		Convey("Then whole words should be required", func() {
			So(matcher.InferGender("a female pilot"), ShouldEqual, model.GenderFemale)
			So(matcher.InferGender("mandarin collar"), ShouldEqual, model.GenderNeutral)
		})

		Convey("Then matching should ignore case", func() {
			So(matcher.InferGender("A GENTLEMAN in tweed"), ShouldEqual, model.GenderMale)
			So(matcher.InferGender("Lady in velvet"), ShouldEqual, model.GenderFemale)
		})

		Convey("Then male should win when both are present", func() {
			So(matcher.InferGender("a girl and a boy"), ShouldEqual, model.GenderMale)
		})
	})
}

func TestFindAssets(t *testing.T) {
	Convey("Given a matcher over the fixture catalog", t, func() {
		m := matcher.New(fixtureCatalog())

		Convey("When searching for a man in a black jacket", func() {
			got := m.FindAssets("Indian man with black jacket")

			Convey("Then the jacket should lead and ties keep catalog order", func() {
				So(ids(got), ShouldResemble, []string{
					"outfit-leather-jacket",
					"top-black-tee",
					"hair-long-black",
					"hair-short-black",
					"footwear-black-boots",
				})
				So(got[0].Score, ShouldEqual, 19)
				So(got[1].Score, ShouldEqual, 8)
				So(got[4].Score, ShouldEqual, 6)
			})

			Convey("And scores should be positive and non-increasing", func() {
				for i := range got {
					So(got[i].Score, ShouldBeGreaterThan, 0)
					if i > 0 {
						So(got[i].Score, ShouldBeLessThanOrEqualTo, got[i-1].Score)
					}
				}
			})
		})

		Convey("When the description is empty", func() {
			got := m.FindAssets("")

			Convey("Then the result should be empty", func() {
				So(got, ShouldNotBeNil)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When nothing in the catalog is mentioned", func() {
			So(m.FindAssets("a person walking"), ShouldBeEmpty)
		})

		Convey("When calling twice", func() {
			a := m.FindAssets("casual black leather outfit")
			b := m.FindAssets("casual black leather outfit")

			Convey("Then results should be identical", func() {
				So(reflect.DeepEqual(a, b), ShouldBeTrue)
			})
		})

		Convey("When a match is returned", func() {
			got := m.FindAssets("black jacket")

			Convey("Then its gender list should not alias the catalog", func() {
				got[0].ApplicableGenders[0] = "mutated"
				e, err := m.Catalog().Get("outfit-leather-jacket")
				So(err, ShouldBeNil)
				So(e.ApplicableGenders[0], ShouldEqual, "male")
			})
		})
	})

	Convey("Given a catalog with more matches than the cap", t, func() {
		entries := make([]model.CatalogEntry, 15)
		for i := range entries {
			entries[i] = model.CatalogEntry{
				ID:   fmt.Sprintf("red-%02d", i),
				Name: fmt.Sprintf("Item %d", i),
				Slot: fmt.Sprintf("slot-%d", i),
				Tags: []string{"red"},
			}
		}
		c, err := catalog.New(entries)
		So(err, ShouldBeNil)

		Convey("Then only the first ten tied entries should be returned", func() {
			got := matcher.New(c).FindAssets("red")
			So(got, ShouldHaveLength, 10)
			So(got[0].ID, ShouldEqual, "red-00")
			So(got[9].ID, ShouldEqual, "red-09")
		})

		Convey("Then the cap should be configurable", func() {
			So(matcher.New(c, matcher.WithMaxResults(3)).FindAssets("red"), ShouldHaveLength, 3)
			So(matcher.New(c, matcher.WithMaxResults(0)).FindAssets("red"), ShouldHaveLength, 10)
		})
	})
}

func TestBuildAvatarConfiguration(t *testing.T) {
	Convey("Given a matcher over the fixture catalog", t, func() {
		m := matcher.New(fixtureCatalog())

		Convey("When building from a male description", func() {
			cfg := m.BuildAvatarConfiguration("Indian man with black jacket")

			Convey("Then one match per slot should be kept in first-seen order", func() {
				So(cfg.InferredGender, ShouldEqual, model.GenderMale)
				So(ids(cfg.Matches), ShouldResemble, []string{
					"outfit-leather-jacket",
					"top-black-tee",
					"hair-long-black",
					"footwear-black-boots",
				})
			})

			Convey("And mapped slots should share keys without overwriting the best", func() {
				So(cfg.SlotConfiguration, ShouldResemble, map[string]string{
					"outfit":    "outfit-leather-jacket",
					"hairStyle": "hair-long-black",
				})
			})
		})

		Convey("When a top outscores every outfit", func() {
			cfg := m.BuildAvatarConfiguration("black cotton tshirt")

			Convey("Then the shared outfit key should point at the top", func() {
				So(cfg.Matches[0].ID, ShouldEqual, "top-black-tee")
				So(cfg.Matches[0].Score, ShouldEqual, 23)
				So(cfg.SlotConfiguration["outfit"], ShouldEqual, "top-black-tee")
			})
		})

		Convey("When the description names glasses and a beard", func() {
			cfg := m.BuildAvatarConfiguration("gentleman with round glasses and a full beard")

			Convey("Then both slots should map to their keys", func() {
				So(cfg.InferredGender, ShouldEqual, model.GenderMale)
				So(cfg.SlotConfiguration["glasses"], ShouldEqual, "glasses-round")
				So(cfg.SlotConfiguration["beardStyle"], ShouldEqual, "facial-full-beard")
			})
		})

		Convey("When the description is empty", func() {
			cfg := m.BuildAvatarConfiguration("")

			Convey("Then the configuration should be neutral and empty", func() {
				So(cfg.InferredGender, ShouldEqual, model.GenderNeutral)
				So(cfg.Matches, ShouldNotBeNil)
				So(cfg.Matches, ShouldBeEmpty)
				So(cfg.SlotConfiguration, ShouldNotBeNil)
				So(cfg.SlotConfiguration, ShouldBeEmpty)
			})
		})

		Convey("When custom slot keys are configured", func() {
			custom := matcher.New(fixtureCatalog(), matcher.WithSlotKeys(map[string]string{
				model.SlotFootwear: "shoes",
			}))
			cfg := custom.BuildAvatarConfiguration("black leather boots")

			Convey("Then only the custom table should apply", func() {
				So(cfg.SlotConfiguration, ShouldResemble, map[string]string{"shoes": "footwear-black-boots"})
			})
		})

		Convey("When called from many goroutines", func() {
			want := m.BuildAvatarConfiguration("elegant woman in red dress with long black hair")
			var wg sync.WaitGroup
			results := make([]model.AvatarConfiguration, 32)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = m.BuildAvatarConfiguration("elegant woman in red dress with long black hair")
				}(i)
			}
			wg.Wait()

			Convey("Then every result should equal the sequential one", func() {
				So(want.InferredGender, ShouldEqual, model.GenderFemale)
				for _, r := range results {
					So(reflect.DeepEqual(r, want), ShouldBeTrue)
				}
			})
		})
	})

	Convey("Given a matcher with a custom scorer", t, func() {
		w := scoring.DefaultWeights()
		w.Gender = 0
		m := matcher.New(fixtureCatalog(), matcher.WithScorer(scoring.NewScorer(scoring.WithWeights(w))))

		Convey("Then scores should reflect the custom weights", func() {
			got := m.FindAssets("Indian man with black jacket")
			So(got[0].Score, ShouldEqual, 17)
		})
	})
}
