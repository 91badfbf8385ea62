package activitysim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/okian/alumni/pkg/logger"
)

// generateActivities creates n activities with fresh event ids spread over
// people. Every activity awards positive points so the expected score of a
// person is their starting score plus the points of accepted activities.
func generateActivities(ctx context.Context, rng *rand.Rand, people []Person, n int) ([]Activity, error) {
	if len(people) == 0 {
		return nil, fmt.Errorf("no people to award")
	}
	out := make([]Activity, n)
	now := time.Now().UTC()
	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation cancelled: %w", err)
		}
		k := activityKinds[rng.IntN(len(activityKinds))]
		out[i] = Activity{
			EventID:  uuid.NewString(),
			PersonID: people[rng.IntN(len(people))].ID,
			Kind:     k.kind,
			Points:   k.points,
			TS:       now.Add(time.Duration(i) * time.Millisecond).Format(time.RFC3339),
		}
	}
	logger.Get().Info(ctx, "generated activities", logger.Int("count", n), logger.Int("people", len(people)))
	return out, nil
}

// withDuplicates appends resubmissions of a random ratio of activities,
// then shuffles so duplicates interleave with originals.
func withDuplicates(rng *rand.Rand, activities []Activity, ratio float64) ([]Activity, int) {
	dups := int(float64(len(activities)) * ratio)
	out := make([]Activity, 0, len(activities)+dups)
	out = append(out, activities...)
	for _, i := range rng.Perm(len(activities))[:dups] {
		out = append(out, activities[i])
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, dups
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
