package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"

	"github.com/okian/alumni/internal/adapters/mq/queue"
	"github.com/okian/alumni/internal/adapters/mq/worker"
	"github.com/okian/alumni/internal/domain/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockApplier struct {
	mu     sync.Mutex
	scores map[string]int
	errs   map[string]error
	calls  int
}

func newMockApplier() *mockApplier {
	return &mockApplier{scores: map[string]int{}, errs: map[string]error{}}
}

func (m *mockApplier) AwardPoints(_ context.Context, personID string, points int) (model.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err, ok := m.errs[personID]; ok {
		return model.Person{}, err
	}
	m.scores[personID] += points
	return model.Person{ID: personID, Score: m.scores[personID]}, nil
}

func (m *mockApplier) score(personID string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scores[personID]
	return s, ok
}

func (m *mockApplier) setError(personID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[personID] = err
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		applier := newMockApplier()
		w := worker.NewInMemoryWorker(q, applier, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		go w.Run(ctx)

		reset := func() {
			cancel()
			_ = q.Close()
			shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
			defer done()
			_ = w.Shutdown(shutdownCtx)
		}

		convey.Convey("When an activity is queued", func() {
			defer reset()
			_ = q.Enqueue(ctx, model.Activity{EventID: "a1", PersonID: "3", Kind: "answer", Points: 15})

			convey.Convey("Then its points should be applied", func() {
				convey.So(waitFor(func() bool { s, ok := applier.score("3"); return ok && s == 15 }), convey.ShouldBeTrue)
				convey.So(waitFor(func() bool { return w.Processed() == 1 }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When applying fails", func() {
			defer reset()
			applier.setError("ghost", errors.New("person not found"))
			_ = q.Enqueue(ctx, model.Activity{EventID: "a2", PersonID: "ghost", Points: 5})
			_ = q.Enqueue(ctx, model.Activity{EventID: "a3", PersonID: "1", Points: 5})

			convey.Convey("Then the worker should keep going", func() {
				convey.So(waitFor(func() bool { _, ok := applier.score("1"); return ok }), convey.ShouldBeTrue)
				_, applied := applier.score("ghost")
				convey.So(applied, convey.ShouldBeFalse)
				convey.So(waitFor(func() bool { return w.Processed() == 1 }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When shutting down twice", func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
			defer done()
			first := w.Shutdown(shutdownCtx)
			second := w.Shutdown(shutdownCtx)
			cancel()
			_ = q.Close()

			convey.Convey("Then both calls should succeed", func() {
				convey.So(first, convey.ShouldBeNil)
				convey.So(second, convey.ShouldBeNil)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a pool of workers", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(1000))
		applier := newMockApplier()
		pool := worker.NewPool(4, q, applier)
		ctx := context.Background()

		convey.So(pool.Size(), convey.ShouldEqual, 4)

		convey.Convey("When many activities are queued concurrently and the pool shuts down", func() {
			pool.Start(ctx)
			pool.Start(ctx)

			const producers, perProducer = 5, 40
			var wg sync.WaitGroup
			for i := 0; i < producers; i++ {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					for j := 0; j < perProducer; j++ {
						a := model.Activity{EventID: fmt.Sprintf("a-%d-%d", id, j), PersonID: fmt.Sprintf("p%d", id), Points: 1}
						_ = q.Enqueue(ctx, a)
					}
				}(i)
			}
			wg.Wait()

			err := pool.Shutdown(ctx)

			convey.Convey("Then every queued activity should be drained before exit", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(pool.Processed(), convey.ShouldEqual, producers*perProducer)
				for i := 0; i < producers; i++ {
					s, _ := applier.score(fmt.Sprintf("p%d", i))
					convey.So(s, convey.ShouldEqual, perProducer)
				}
			})
		})

		convey.Convey("When stopping a started pool", func() {
			pool.Start(ctx)
			stopCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			pool.Stop(stopCtx)
			_ = q.Close()

			convey.Convey("Then no activity should be processed", func() {
				convey.So(pool.Processed(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When shutting down a pool that never started", func() {
			err := pool.Shutdown(ctx)

			convey.Convey("Then it should return immediately", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a pool with a non-positive worker count", t, func() {
		q := queue.NewInMemoryQueue()
		pool := worker.NewPool(0, q, newMockApplier())
		defer func() { _ = q.Close() }()

		convey.Convey("Then it should default to a CPU-based size", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})
}
