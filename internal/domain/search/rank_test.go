package search_test

import (
	"testing"

	"github.com/okian/alumni/internal/domain/model"
	"github.com/okian/alumni/internal/domain/search"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRank(t *testing.T) {
	Convey("Given three people with scores 45, 285 and 192", t, func() {
		in := []model.Person{
			{ID: "c", Score: 45},
			{ID: "a", Score: 285, Organization: "Google"},
			{ID: "b", Score: 192},
		}

		Convey("When ranking by score", func() {
			ranked := search.Rank(in, search.PersonScore)

			Convey("Then they should be ordered 285, 192, 45 with ranks 1, 2, 3", func() {
				So(len(ranked), ShouldEqual, 3)
				So(ranked[0].Record.Score, ShouldEqual, 285)
				So(ranked[1].Record.Score, ShouldEqual, 192)
				So(ranked[2].Record.Score, ShouldEqual, 45)
				So(ranked[0].Rank, ShouldEqual, 1)
				So(ranked[1].Rank, ShouldEqual, 2)
				So(ranked[2].Rank, ShouldEqual, 3)
			})

			Convey("And the input should be left untouched", func() {
				So(in[0].ID, ShouldEqual, "c")
			})
		})

		Convey("When building a leaderboard filtered by organization", func() {
			ranked := search.Leaderboard(in, search.Criteria{}.Where(search.FieldOrganization, "Google"), 0)

			Convey("Then only the score-285 person should remain", func() {
				So(len(ranked), ShouldEqual, 1)
				So(ranked[0].Record.Score, ShouldEqual, 285)
				So(ranked[0].Rank, ShouldEqual, 1)
			})
		})
	})

	Convey("Given people with tied scores", t, func() {
		in := []model.Person{
			{ID: "p1", Score: 50},
			{ID: "p2", Score: 100},
			{ID: "p3", Score: 50},
			{ID: "p4", Score: 100},
		}

		Convey("When ranking", func() {
			ranked := search.Rank(in, search.PersonScore)

			Convey("Then ties should keep input order with distinct consecutive ranks", func() {
				got := make([]string, len(ranked))
				for i, r := range ranked {
					got[i] = r.Record.ID
					So(r.Rank, ShouldEqual, i+1)
				}
				So(got, ShouldResemble, []string{"p2", "p4", "p1", "p3"})
			})

			Convey("Then a higher score should always mean a better rank", func() {
				for i := range ranked {
					for j := range ranked {
						if ranked[i].Record.Score > ranked[j].Record.Score {
							So(ranked[i].Rank, ShouldBeLessThan, ranked[j].Rank)
						}
					}
				}
			})
		})
	})

	Convey("Given an empty collection", t, func() {
		Convey("When ranking", func() {
			ranked := search.Rank([]model.Person{}, search.PersonScore)

			Convey("Then the result should be empty", func() {
				So(ranked, ShouldBeEmpty)
			})
		})
	})
}

func TestLeaderboard(t *testing.T) {
	Convey("Given the people fixture", t, func() {
		all := people()
		alumni := search.Criteria{}.Where(search.FieldRole, string(model.RoleAlumni))

		Convey("When building the alumni leaderboard", func() {
			ranked := search.Leaderboard(all, alumni, 0)

			Convey("Then only alumni should be ranked by score", func() {
				got := make([]string, len(ranked))
				for i, r := range ranked {
					got[i] = r.Record.ID
				}
				So(got, ShouldResemble, []string{"1", "2", "4"})
			})
		})

		Convey("When a sort is requested", func() {
			c := alumni
			c.Sort = &search.Sort{Key: search.SortName, Descending: true}
			ranked := search.Leaderboard(all, c, 0)

			Convey("Then it should still rank by score", func() {
				So(ranked[0].Record.ID, ShouldEqual, "1")
			})
		})

		Convey("When limiting the leaderboard", func() {
			ranked := search.Leaderboard(all, search.Criteria{}, 2)

			Convey("Then only the top entries should be kept", func() {
				So(len(ranked), ShouldEqual, 2)
				So(ranked[1].Rank, ShouldEqual, 2)
				So(ranked[1].Record.ID, ShouldEqual, "2")
			})
		})

		Convey("When the limit exceeds the population", func() {
			ranked := search.Leaderboard(all, search.Criteria{}, 50)

			Convey("Then every person should be ranked", func() {
				So(len(ranked), ShouldEqual, len(all))
				So(ranked[len(ranked)-1].Rank, ShouldEqual, len(all))
			})
		})
	})
}
