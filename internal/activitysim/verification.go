package activitysim

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/alumni/pkg/logger"
)

// ErrVerification is returned when the leaderboard disagrees with the
// submitted activities.
var ErrVerification = errors.New("leaderboard verification failed")

// expectedScores adds the points of accepted activities to starting scores.
func expectedScores(people []Person, accepted map[string]Activity) map[string]int {
	want := make(map[string]int, len(people))
	for _, p := range people {
		want[p.ID] = p.Score
	}
	for _, a := range accepted {
		want[a.PersonID] += a.Points
	}
	return want
}

// verifyLeaderboard checks that ranks are consecutive from 1, scores never
// increase down the board, each tier admits its score and each score matches
// expected when a person is known.
func verifyLeaderboard(entries []Entry, expected map[string]int) error {
	var errs []error
	for i, e := range entries {
		if e.Rank != i+1 {
			errs = append(errs, fmt.Errorf("entry %d has rank %d", i, e.Rank))
		}
		if i > 0 && e.Score > entries[i-1].Score {
			errs = append(errs, fmt.Errorf("entry %d (%s) scores %d above entry %d (%d)", i, e.PersonID, e.Score, i-1, entries[i-1].Score))
		}
		if e.Tier.MinScore > e.Score {
			errs = append(errs, fmt.Errorf("%s holds %q with %d points, below its threshold %d", e.PersonID, e.Tier.Label, e.Score, e.Tier.MinScore))
		}
		if want, ok := expected[e.PersonID]; ok && want != e.Score {
			errs = append(errs, fmt.Errorf("%s scores %d, expected %d", e.PersonID, e.Score, want))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrVerification, errors.Join(errs...))
	}
	return nil
}

func displayTopPerformers(ctx context.Context, entries []Entry, verbose bool) {
	n := len(entries)
	if !verbose && n > 10 {
		n = 10
	}
	log := logger.Get()
	for _, e := range entries[:n] {
		log.Info(ctx, "leaderboard",
			logger.Int("rank", e.Rank),
			logger.String("person_id", e.PersonID),
			logger.String("name", e.Name),
			logger.Int("score", e.Score),
			logger.String("tier", e.Tier.Label))
	}
}
