package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/wardrobe/internal/adapters/mq/queue"
	"github.com/okian/wardrobe/internal/adapters/mq/worker"
	"github.com/okian/wardrobe/internal/domain/model"
	logging "github.com/okian/wardrobe/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type stubBuilder struct{}

func (stubBuilder) BuildAvatarConfiguration(description string) model.AvatarConfiguration {
	return model.AvatarConfiguration{
		InferredGender:    model.GenderNeutral,
		Matches:           []model.AssetMatch{{ID: "a-" + description, Name: description, Slot: "top", Score: 10}},
		SlotConfiguration: map[string]string{"outfit": "a-" + description},
	}
}

type memorySaver struct {
	mu    sync.Mutex
	saved map[string]model.Character
	fail  map[string]error
}

func newMemorySaver() *memorySaver {
	return &memorySaver{saved: map[string]model.Character{}, fail: map[string]error{}}
}

func (s *memorySaver) Save(_ context.Context, c model.Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.fail[c.Name]; ok {
		return err
	}
	s.saved[c.ID] = c
	return nil
}

func (s *memorySaver) get(id string) (model.Character, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.saved[id]
	return c, ok
}

func (s *memorySaver) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		saver := newMemorySaver()
		fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		var failedMu sync.Mutex
		var failed []string
		w := worker.NewInMemoryWorker(q, stubBuilder{}, saver,
			worker.WithName("test-worker"),
			worker.WithClock(func() time.Time { return fixed }),
			worker.WithFailureHandler(func(_ context.Context, r model.BuildRequest, _ error) {
				failedMu.Lock()
				failed = append(failed, r.RequestID)
				failedMu.Unlock()
			}),
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a request is queued", func() {
			err := q.Enqueue(ctx, model.BuildRequest{
				RequestID:   "r1",
				CharacterID: "c1",
				Name:        "Ada",
				Description: "jacket",
			})
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then a configured character should be saved", func() {
				convey.So(waitFor(func() bool { _, ok := saver.get("c1"); return ok }), convey.ShouldBeTrue)
				c, _ := saver.get("c1")
				convey.So(c.Name, convey.ShouldEqual, "Ada")
				convey.So(c.Description, convey.ShouldEqual, "jacket")
				convey.So(c.CreatedAt, convey.ShouldEqual, fixed)
				convey.So(c.Configuration.SlotConfiguration["outfit"], convey.ShouldEqual, "a-jacket")
			})
		})

		convey.Convey("When a request has no character id", func() {
			_ = q.Enqueue(ctx, model.BuildRequest{RequestID: "r2", Name: "Bo", Description: "hat"})

			convey.Convey("Then one is generated", func() {
				convey.So(waitFor(func() bool { return saver.count() == 1 }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When saving fails", func() {
			saver.fail["Cy"] = errors.New("disk full")
			_ = q.Enqueue(ctx, model.BuildRequest{RequestID: "r3", CharacterID: "c3", Name: "Cy", Description: "boots"})

			convey.Convey("Then the failure handler should be called", func() {
				convey.So(waitFor(func() bool {
					failedMu.Lock()
					defer failedMu.Unlock()
					return len(failed) == 1
				}), convey.ShouldBeTrue)
				convey.So(failed[0], convey.ShouldEqual, "r3")
				_, ok := saver.get("c3")
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			err := w.Shutdown(shutdownCtx)

			convey.Convey("Then it should stop and report done", func() {
				convey.So(err, convey.ShouldBeNil)
				_, open := <-w.Done()
				convey.So(open, convey.ShouldBeFalse)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a worker pool", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		saver := newMemorySaver()

		convey.Convey("When created with a non-positive count", func() {
			pool := worker.NewPool(0, q, stubBuilder{}, saver)

			convey.Convey("Then it should fall back to one worker per CPU", func() {
				convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When processing many requests then shutting down", func() {
			pool := worker.NewPool(4, q, stubBuilder{}, saver)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			pool.Start(ctx)

			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("req-%d", i)
				convey.So(q.Enqueue(ctx, model.BuildRequest{RequestID: id, CharacterID: id, Name: "n", Description: "d"}), convey.ShouldBeNil)
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			err := pool.Shutdown(shutdownCtx)

			convey.Convey("Then every queued request should be drained before stopping", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(saver.count(), convey.ShouldEqual, 50)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}
