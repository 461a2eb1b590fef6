package terms_test

import (
	"testing"

	"github.com/okian/wardrobe/internal/domain/terms"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExtract(t *testing.T) {
	Convey("Given the default extractor", t, func() {
		Convey("When extracting from a mixed-case description", func() {
			st := terms.Extract("Black LEATHER jacket for a Man")

			Convey("Then tokens should be lower-cased and bucketed", func() {
				So(st.Colors, ShouldResemble, []string{"black"})
				So(st.Materials, ShouldResemble, []string{"leather"})
				So(st.GarmentTypes, ShouldResemble, []string{"jacket"})
				So(st.Styles, ShouldBeEmpty)
				So(st.Genders, ShouldResemble, []string{"man"})
			})

			Convey("And keywords should keep every token in order", func() {
				So(st.Keywords, ShouldResemble, []string{"black", "leather", "jacket", "for", "a", "man"})
			})
		})

		Convey("When a token repeats", func() {
			st := terms.Extract("red red dress")

			Convey("Then duplicates should be preserved", func() {
				So(st.Colors, ShouldResemble, []string{"red", "red"})
				So(st.Keywords, ShouldHaveLength, 3)
			})
		})

		Convey("When the description is empty or whitespace", func() {
			for _, in := range []string{"", "   ", "\t\n"} {
				st := terms.Extract(in)
				So(st.Keywords, ShouldBeEmpty)
				So(st.Colors, ShouldBeEmpty)
				So(st.GarmentTypes, ShouldBeEmpty)
				So(st.Genders, ShouldBeEmpty)
			}
		})

		Convey("When the description has non-ASCII tokens", func() {
			st := terms.Extract("chaqueta négra jacket")

			Convey("Then they should only appear as keywords", func() {
				So(st.GarmentTypes, ShouldResemble, []string{"jacket"})
				So(st.Colors, ShouldBeEmpty)
				So(st.Keywords, ShouldResemble, []string{"chaqueta", "négra", "jacket"})
			})
		})

		Convey("When whitespace is irregular", func() {
			st := terms.Extract("  elegant\twoman \n in   red  dress ")

			Convey("Then splitting should ignore runs of whitespace", func() {
				So(st.Keywords, ShouldResemble, []string{"elegant", "woman", "in", "red", "dress"})
				So(st.Styles, ShouldResemble, []string{"elegant"})
				So(st.Genders, ShouldResemble, []string{"woman"})
			})
		})
	})

	Convey("Given an extractor with a custom vocabulary", t, func() {
		vocab := terms.NewVocabulary(
			[]string{"crimson"},
			[]string{"chainmail"},
			[]string{"cloak", "shirt"},
			[]string{"heroic"},
			[]string{"knight"},
		)
		ex := terms.NewExtractor(terms.WithVocabulary(vocab))

		Convey("When extracting", func() {
			st := ex.Extract("heroic knight in crimson chainmail cloak shirt")

			Convey("Then only the custom words should be bucketed", func() {
				So(st.Colors, ShouldResemble, []string{"crimson"})
				So(st.Materials, ShouldResemble, []string{"chainmail"})
				So(st.GarmentTypes, ShouldResemble, []string{"cloak", "shirt"})
				So(st.Styles, ShouldResemble, []string{"heroic"})
				So(st.Genders, ShouldResemble, []string{"knight"})
			})
		})
	})
}

func TestExtractTokenInSeveralBuckets(t *testing.T) {
	Convey("Given a vocabulary where a word is both a color and a style", t, func() {
		vocab := terms.NewVocabulary([]string{"gold"}, nil, nil, []string{"gold"}, nil)
		ex := terms.NewExtractor(terms.WithVocabulary(vocab))

		Convey("Then the token should land in both buckets", func() {
			st := ex.Extract("gold")
			So(st.Colors, ShouldResemble, []string{"gold"})
			So(st.Styles, ShouldResemble, []string{"gold"})
		})
	})
}
