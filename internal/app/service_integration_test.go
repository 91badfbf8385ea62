package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	service "github.com/okian/alumni/internal/app"
	"github.com/okian/alumni/internal/adapters/repository"
	"github.com/okian/alumni/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// gatedStore blocks AwardPoints until the gate is opened.
type gatedStore struct {
	*repository.InMemoryStore
	gate chan struct{}
}

func (g *gatedStore) AwardPoints(ctx context.Context, personID string, points int) (model.Person, error) {
	<-g.gate
	return g.InMemoryStore.AwardPoints(ctx, personID, points)
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestServiceActivities(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		store := seededStore()
		svc := service.New(store,
			service.WithWorkerCount(2),
			service.WithQueueSize(100),
			service.WithDedupeSize(100),
		)
		So(svc.Start(ctx), ShouldBeNil)
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When an activity is submitted", func() {
			res, err := svc.Submit(ctx, model.Activity{EventID: "a-1", PersonID: "3", Kind: "answer", Points: 10})

			Convey("Then it should be applied by a worker", func() {
				So(err, ShouldBeNil)
				So(res.Duplicate, ShouldBeFalse)
				So(eventually(func() bool {
					p, _ := store.Person(ctx, "3")
					return p.Score == 55
				}), ShouldBeTrue)
			})

			Convey("And resubmitting the same id should be acknowledged as a duplicate", func() {
				again, err := svc.Submit(ctx, model.Activity{EventID: "a-1", PersonID: "3", Points: 10})
				So(err, ShouldBeNil)
				So(again.Duplicate, ShouldBeTrue)
				So(eventually(func() bool { return svc.GetStats(ctx)["activitiesApplied"] == int64(1) }), ShouldBeTrue)
				p, _ := store.Person(ctx, "3")
				So(p.Score, ShouldEqual, 55)
			})
		})

		Convey("When an activity without an id is submitted", func() {
			res, err := svc.Submit(ctx, model.Activity{PersonID: "5", Points: 1})

			Convey("Then an id should be generated", func() {
				So(err, ShouldBeNil)
				So(res.EventID, ShouldHaveLength, 36)
			})
		})

		Convey("When points would take a score below zero", func() {
			_, err := svc.Submit(ctx, model.Activity{EventID: "revoke", PersonID: "3", Kind: "revoked", Points: -500})

			Convey("Then the score should clamp at zero", func() {
				So(err, ShouldBeNil)
				So(eventually(func() bool {
					p, _ := store.Person(ctx, "3")
					return p.Score == 0
				}), ShouldBeTrue)
			})
		})

		Convey("When enough points are awarded to cross a tier", func() {
			for i := 0; i < 6; i++ {
				_, err := svc.Submit(ctx, model.Activity{EventID: fmt.Sprintf("bump-%d", i), PersonID: "3", Points: 1})
				So(err, ShouldBeNil)
			}

			Convey("Then the leaderboard should reflect the new tier", func() {
				So(eventually(func() bool {
					lb, err := svc.Leaderboard(ctx, service.LeaderboardQuery{Role: string(model.RoleStudent)})
					return err == nil && lb.Entries[1].PersonID == "3" && lb.Entries[1].Tier.Label == "Silver Mentor"
				}), ShouldBeTrue)
			})
		})

		Convey("When the activity is invalid", func() {
			_, missing := svc.Submit(ctx, model.Activity{EventID: "x", Points: 5})
			_, unknown := svc.Submit(ctx, model.Activity{EventID: "y", PersonID: "404", Points: 5})
			_, huge := svc.Submit(ctx, model.Activity{EventID: "z", PersonID: "1", Points: model.MaxActivityPoints + 1})

			Convey("Then it should be rejected", func() {
				So(errors.Is(missing, service.ErrInvalidActivity), ShouldBeTrue)
				So(errors.Is(unknown, service.ErrInvalidActivity), ShouldBeTrue)
				So(errors.Is(unknown, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(huge, service.ErrInvalidActivity), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New(seededStore())

		Convey("When submitting an activity", func() {
			_, err := svc.Submit(context.Background(), model.Activity{PersonID: "1", Points: 1})

			Convey("Then ErrNotStarted should be returned", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(svc.GetStats(context.Background())["started"], ShouldEqual, false)
				So(svc.Stop(context.Background()), ShouldBeNil)
			})
		})
	})
}

func TestServiceBackpressure(t *testing.T) {
	Convey("Given a service whose single worker is blocked", t, func() {
		ctx := context.Background()
		store := &gatedStore{InMemoryStore: seededStore(), gate: make(chan struct{})}
		svc := service.New(store, service.WithWorkerCount(1), service.WithQueueSize(1))
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When activities keep arriving", func() {
			var rejected string
			for i := 0; i < 10 && rejected == ""; i++ {
				id := fmt.Sprintf("bp-%d", i)
				if _, err := svc.Submit(ctx, model.Activity{EventID: id, PersonID: "1", Points: 1}); err != nil {
					So(errors.Is(err, service.ErrBackpressure), ShouldBeTrue)
					rejected = id
				}
			}
			close(store.gate)

			Convey("Then the queue should push back and forget the rejected id", func() {
				So(rejected, ShouldNotBeEmpty)
				So(eventually(func() bool {
					res, err := svc.Submit(ctx, model.Activity{EventID: rejected, PersonID: "1", Points: 1})
					return err == nil && !res.Duplicate
				}), ShouldBeTrue)
				So(svc.Stop(ctx), ShouldBeNil)
			})
		})
	})
}
