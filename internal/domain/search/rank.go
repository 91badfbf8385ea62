package search

import (
	"sort"

	"github.com/okian/alumni/internal/domain/model"
)

// Ranked pairs a record with its 1-based leaderboard position.
type Ranked[T any] struct {
	Rank   int
	Record T
}

// Rank orders records by score, highest first, and numbers them 1..n.
// Ranks are positional: equal scores keep their input order and still get
// distinct consecutive ranks.
func Rank[T any](records []T, score func(T) float64) []Ranked[T] {
	sorted := make([]T, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return score(sorted[i]) > score(sorted[j])
	})

	out := make([]Ranked[T], len(sorted))
	for i, r := range sorted {
		out[i] = Ranked[T]{Rank: i + 1, Record: r}
	}
	return out
}

// PersonScore is the ranking key for people.
func PersonScore(p model.Person) float64 { return float64(p.Score) }

// Leaderboard selects people matching c and ranks them by score. Any sort in c
// is ignored; the leaderboard always orders by score. A positive limit keeps
// the top entries only, without renumbering.
func Leaderboard(people []model.Person, c Criteria, limit int) []Ranked[model.Person] {
	c.Sort = nil
	ranked := Rank(Select(people, People, c), PersonScore)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
