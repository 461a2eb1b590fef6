package catalog_test

import (
	"errors"
	"testing"

	"github.com/okian/wardrobe/internal/domain/catalog"
	"github.com/okian/wardrobe/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleEntries() []model.CatalogEntry {
	return []model.CatalogEntry{
		{ID: "hair-bob", Name: "Short Bob", Slot: model.SlotHair, Tags: []string{" Short ", "BLACK", ""}, ApplicableGenders: []string{"Female"}},
		{ID: "outfit-suit", Name: "Navy Suit", Slot: model.SlotOutfit, Tags: []string{"navy", "formal"}},
		{ID: "hair-crew", Name: "Crew Cut", Slot: model.SlotHair, Tags: []string{"short"}},
	}
}

func TestNew(t *testing.T) {
	Convey("Given valid catalog entries", t, func() {
		c, err := catalog.New(sampleEntries())

		Convey("Then the catalog should be built in load order", func() {
			So(err, ShouldBeNil)
			So(c.Len(), ShouldEqual, 3)
			ids := []string{}
			c.Range(func(_ int, e *model.CatalogEntry) bool {
				ids = append(ids, e.ID)
				return true
			})
			So(ids, ShouldResemble, []string{"hair-bob", "outfit-suit", "hair-crew"})
		})

		Convey("And tags and genders should be normalised", func() {
			e, err := c.Get("hair-bob")
			So(err, ShouldBeNil)
			So(e.Tags, ShouldResemble, []string{"short", "black"})
			So(e.ApplicableGenders, ShouldResemble, []string{"female"})
		})

		Convey("And slots should be distinct in first-seen order", func() {
			So(c.Slots(), ShouldResemble, []string{model.SlotHair, model.SlotOutfit})
		})

		Convey("And BySlot should filter case-insensitively", func() {
			So(c.BySlot("HAIR"), ShouldHaveLength, 2)
			So(c.BySlot("glasses"), ShouldBeEmpty)
		})

		Convey("And returned entries should not alias catalog state", func() {
			all := c.Entries()
			all[0].Tags[0] = "mutated"
			e, _ := c.Get("hair-bob")
			So(e.Tags[0], ShouldEqual, "short")
		})

		Convey("And Range should stop when asked", func() {
			n := 0
			c.Range(func(_ int, _ *model.CatalogEntry) bool {
				n++
				return false
			})
			So(n, ShouldEqual, 1)
		})

		Convey("And unknown ids should report not found", func() {
			_, err := c.Get("missing")
			So(errors.Is(err, catalog.ErrEntryNotFound), ShouldBeTrue)
		})
	})

	Convey("Given an empty collection", t, func() {
		c, err := catalog.New(nil)

		Convey("Then loading should fail", func() {
			So(c, ShouldBeNil)
			So(errors.Is(err, catalog.ErrCatalogLoad), ShouldBeTrue)
			So(errors.Is(err, catalog.ErrEmptyCatalog), ShouldBeTrue)
		})
	})

	Convey("Given a duplicate id", t, func() {
		entries := sampleEntries()
		entries[2].ID = "hair-bob"
		c, err := catalog.New(entries)

		Convey("Then loading should fail and name the record", func() {
			So(c, ShouldBeNil)
			So(errors.Is(err, catalog.ErrDuplicateID), ShouldBeTrue)
			So(errors.Is(err, catalog.ErrCatalogLoad), ShouldBeTrue)
			var le *catalog.LoadError
			So(errors.As(err, &le), ShouldBeTrue)
			So(le.Index, ShouldEqual, 2)
			So(err.Error(), ShouldContainSubstring, "hair-bob")
		})
	})

	Convey("Given malformed records", t, func() {
		cases := map[string]model.CatalogEntry{
			"missing id":   {Name: "No Id", Slot: model.SlotTop},
			"missing name": {ID: "x", Slot: model.SlotTop},
			"missing slot": {ID: "x", Name: "No Slot", Slot: "   "},
		}
		for want, entry := range cases {
			_, err := catalog.New([]model.CatalogEntry{entry})
			So(errors.Is(err, catalog.ErrInvalidEntry), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, want)
		}
	})
}
