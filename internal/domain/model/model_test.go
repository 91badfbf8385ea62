package model_test

import (
	"testing"
	"time"

	model "github.com/okian/alumni/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPersonClone(t *testing.T) {
	convey.Convey("Given a person with skills and tiers", t, func() {
		p := model.Person{
			ID:     "1",
			Skills: []string{"Go", "SQL"},
			Tiers:  []model.Tier{{ID: "1", Label: "Bronze Helper"}},
		}

		convey.Convey("When cloning and mutating the clone", func() {
			c := p.Clone()
			c.Skills[0] = "Rust"
			c.Tiers[0].Label = "changed"

			convey.Convey("Then the original should be unaffected", func() {
				convey.So(p.Skills[0], convey.ShouldEqual, "Go")
				convey.So(p.Tiers[0].Label, convey.ShouldEqual, "Bronze Helper")
				convey.So(c.ID, convey.ShouldEqual, p.ID)
			})
		})

		convey.Convey("When cloning a person without lists", func() {
			c := model.Person{ID: "2"}.Clone()

			convey.Convey("Then the lists should stay empty", func() {
				convey.So(c.Skills, convey.ShouldBeEmpty)
				convey.So(c.Tiers, convey.ShouldBeEmpty)
			})
		})
	})
}

func TestQuestionClone(t *testing.T) {
	convey.Convey("Given a question with topics and responses", t, func() {
		q := model.Question{
			ID:        "q1",
			Topics:    []string{"React"},
			Responses: []model.Response{{ID: "r1", Upvotes: 3}},
			CreatedAt: time.Date(2024, 1, 15, 9, 15, 0, 0, time.UTC),
		}

		convey.Convey("When cloning and mutating the clone", func() {
			c := q.Clone()
			c.Topics[0] = "Vue"
			c.Responses[0].Upvotes = 99

			convey.Convey("Then the original should be unaffected", func() {
				convey.So(q.Topics[0], convey.ShouldEqual, "React")
				convey.So(q.Responses[0].Upvotes, convey.ShouldEqual, 3)
				convey.So(c.CreatedAt, convey.ShouldEqual, q.CreatedAt)
			})
		})
	})
}
