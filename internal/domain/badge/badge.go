// Package badge maps scores to tier badges.
package badge

import (
	"fmt"
	"sort"

	"github.com/okian/alumni/internal/domain/model"
)

// Default classifier configuration constants.
const (
	defaultBonusMinScore = 100
)

// Tier catalog.
var (
	Bronze = model.Tier{ID: "1", Rank: 1, MinScore: 0, Label: "Bronze Helper", Icon: "🥉", Description: "Earned 0-50 points"}
	Silver = model.Tier{ID: "2", Rank: 2, MinScore: 51, Label: "Silver Mentor", Icon: "🥈", Description: "Earned 51-150 points"}
	Gold   = model.Tier{ID: "3", Rank: 3, MinScore: 151, Label: "Gold Champion", Icon: "🥇", Description: "Earned 151+ points"}

	// KnowledgeSeeker is listed in the catalog; no rule awards it yet.
	KnowledgeSeeker     = model.Tier{ID: "4", Label: "Knowledge Seeker", Icon: "📚", Description: "Asked 10+ questions"}
	ResourceContributor = model.Tier{ID: "5", Label: "Resource Contributor", Icon: "📊", Description: "Shared 5+ resources"}
)

// DefaultTiers returns the score tiers sorted ascending by threshold.
func DefaultTiers() []model.Tier {
	return []model.Tier{Bronze, Silver, Gold}
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithTiers replaces the score tier table. Empty tables are ignored.
func WithTiers(tiers []model.Tier) Option {
	return func(c *Classifier) {
		if len(tiers) > 0 {
			c.tiers = append([]model.Tier(nil), tiers...)
		}
	}
}

// WithBonusTier sets the tier awarded to mentors above the bonus threshold.
func WithBonusTier(t model.Tier) Option {
	return func(c *Classifier) {
		if t.Label != "" {
			c.bonus = t
		}
	}
}

// WithBonusMinScore sets the score a mentor must exceed to earn the bonus tier.
func WithBonusMinScore(score int) Option {
	return func(c *Classifier) {
		if score >= 0 {
			c.bonusMinScore = score
		}
	}
}

// Classifier assigns tiers from a threshold table. It is immutable after
// construction and safe for concurrent use.
type Classifier struct {
	tiers         []model.Tier // ascending by MinScore
	bonus         model.Tier
	bonusMinScore int
}

// NewClassifier creates a classifier with the default tier table.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		tiers:         DefaultTiers(),
		bonus:         ResourceContributor,
		bonusMinScore: defaultBonusMinScore,
	}
	for _, opt := range opts {
		opt(c)
	}
	sort.SliceStable(c.tiers, func(i, j int) bool { return c.tiers[i].MinScore < c.tiers[j].MinScore })
	return c
}

// Classify returns the tier with the highest threshold not above score.
// Scores below the lowest threshold, including every negative score, are
// rejected with ErrInvalidScore rather than clamped.
func (c *Classifier) Classify(score int) (model.Tier, error) {
	if score < 0 || score < c.tiers[0].MinScore {
		return model.Tier{}, fmt.Errorf("%w: %d is below the lowest threshold %d", ErrInvalidScore, score, c.tiers[0].MinScore)
	}
	// First tier whose threshold exceeds score; the one before it wins.
	i := sort.Search(len(c.tiers), func(i int) bool { return c.tiers[i].MinScore > score })
	return c.tiers[i-1], nil
}

// EarnedTiers returns the score tier for p plus the bonus tier when p is an
// alumni mentor whose score exceeds the bonus threshold.
func (c *Classifier) EarnedTiers(p model.Person) ([]model.Tier, error) {
	t, err := c.Classify(p.Score)
	if err != nil {
		return nil, fmt.Errorf("person %s: %w", p.ID, err)
	}
	return c.WithBonus(p, t), nil
}

// WithBonus returns tier followed by the bonus tier when p qualifies for it.
// tier is expected to come from Classify(p.Score).
func (c *Classifier) WithBonus(p model.Person, tier model.Tier) []model.Tier {
	earned := []model.Tier{tier}
	if p.Role == model.RoleAlumni && p.Score > c.bonusMinScore {
		earned = append(earned, c.bonus)
	}
	return earned
}

// Catalog lists the score tiers followed by the extra badges.
func (c *Classifier) Catalog() []model.Tier {
	out := append([]model.Tier(nil), c.tiers...)
	out = append(out, KnowledgeSeeker)
	if c.bonus.ID != KnowledgeSeeker.ID {
		out = append(out, c.bonus)
	}
	return out
}

// ScoreTiers returns the score tiers, lowest threshold first.
func (c *Classifier) ScoreTiers() []model.Tier {
	return append([]model.Tier(nil), c.tiers...)
}
