package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/wardrobe/internal/adapters/catalogsource"
	"github.com/okian/wardrobe/internal/adapters/http/api"
	service "github.com/okian/wardrobe/internal/app"
	"github.com/okian/wardrobe/internal/domain/model"
	"github.com/okian/wardrobe/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerateDescriptions(t *testing.T) {
	Convey("Given a seed", t, func() {
		a := generateDescriptions(50, 7)
		b := generateDescriptions(50, 7)
		c := generateDescriptions(50, 8)

		Convey("Then generation should be deterministic per seed", func() {
			So(a, ShouldHaveLength, 50)
			So(a, ShouldResemble, b)
			So(a, ShouldNotResemble, c)
		})

		Convey("Then descriptions should have no doubled spaces", func() {
			for _, d := range a {
				So(d, ShouldNotContainSubstring, "  ")
				So(d, ShouldStartWith, "a ")
			}
		})
	})
}

func TestVerifyAssets(t *testing.T) {
	Convey("Given ranked assets", t, func() {
		good := []rankedAsset{{Rank: 1, ID: "a", Score: 9}, {Rank: 2, ID: "b", Score: 9}, {Rank: 3, ID: "c", Score: 1}}

		Convey("Then a well-formed list should pass", func() {
			So(verifyAssets(good, 10), ShouldBeEmpty)
		})

		Convey("Then the cap should be enforced", func() {
			So(verifyAssets(good, 2), ShouldHaveLength, 1)
		})

		Convey("Then unsorted, unranked and zero scores should be flagged", func() {
			bad := []rankedAsset{{Rank: 1, ID: "a", Score: 1}, {Rank: 3, ID: "b", Score: 5}, {Rank: 3, ID: "c", Score: 0}}
			So(verifyAssets(bad, 10), ShouldHaveLength, 3)
		})
	})
}

func TestVerifyConfiguration(t *testing.T) {
	Convey("Given avatar configurations", t, func() {
		keys := defaultSlotKeys()

		Convey("Then a top beating an outfit should own the outfit key", func() {
			cfg := model.AvatarConfiguration{
				InferredGender: model.GenderMale,
				Matches: []model.AssetMatch{
					{ID: "top-1", Slot: "top", Score: 20},
					{ID: "outfit-1", Slot: "outfit", Score: 10},
					{ID: "shoe-1", Slot: "footwear", Score: 5},
				},
				SlotConfiguration: map[string]string{"outfit": "top-1"},
			}
			So(verifyConfiguration(&cfg, keys), ShouldBeEmpty)
		})

		Convey("Then a lower match owning a key should be flagged", func() {
			cfg := model.AvatarConfiguration{
				InferredGender: model.GenderNeutral,
				Matches: []model.AssetMatch{
					{ID: "top-1", Slot: "top", Score: 20},
					{ID: "outfit-1", Slot: "outfit", Score: 10},
				},
				SlotConfiguration: map[string]string{"outfit": "outfit-1"},
			}
			So(verifyConfiguration(&cfg, keys), ShouldHaveLength, 1)
		})

		Convey("Then duplicate slots, missing keys and bad genders should be flagged", func() {
			cfg := model.AvatarConfiguration{
				InferredGender: "robot",
				Matches: []model.AssetMatch{
					{ID: "hair-1", Slot: "hair", Score: 10},
					{ID: "hair-2", Slot: "hair", Score: 8},
				},
				SlotConfiguration: map[string]string{},
			}
			So(verifyConfiguration(&cfg, keys), ShouldHaveLength, 3)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a wardrobe server", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		c, err := catalogsource.Embedded()
		So(err, ShouldBeNil)
		svc := service.New(c, service.WithWorkerCount(2))
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		mux := http.NewServeMux()
		api.NewServer(svc, svc, 100).Register(ctx, mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("When probing it", func() {
			cfg := DefaultConfig()
			cfg.BaseURL = srv.URL
			cfg.Queries = 60
			cfg.Characters = 5
			cfg.Workers = 4
			stats, err := Run(ctx, cfg)

			Convey("Then every guarantee should hold", func() {
				So(err, ShouldBeNil)
				So(stats.Violations, ShouldBeEmpty)
				So(stats.OK(), ShouldBeTrue)
				So(stats.QueriesSent, ShouldEqual, 60)
				So(stats.CharactersAccepted, ShouldEqual, 5)
				So(stats.CharactersDuplicate, ShouldEqual, 5)
			})
		})

		Convey("When the cap is lower than the server's", func() {
			cfg := DefaultConfig()
			cfg.BaseURL = srv.URL
			cfg.Queries = 20
			cfg.MaxResults = 1
			stats, err := Run(ctx, cfg)

			Convey("Then violations should be reported", func() {
				So(err, ShouldBeNil)
				So(stats.Violations, ShouldNotBeEmpty)
				So(stats.OK(), ShouldBeFalse)
			})
		})
	})

	Convey("Given no server", t, func() {
		cfg := DefaultConfig()
		cfg.BaseURL = "http://127.0.0.1:1"
		cfg.Timeout = time.Second

		Convey("Then the health check should fail", func() {
			_, err := Run(context.Background(), cfg)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "health check")
		})
	})
}
