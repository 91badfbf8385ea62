package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/alumni/internal/adapters/repository"
	"github.com/okian/alumni/internal/domain/model"
	"github.com/okian/alumni/internal/domain/search"
	"github.com/okian/alumni/internal/domain/types"
	"github.com/okian/alumni/pkg/logger"
	"github.com/okian/alumni/pkg/metrics"
)

// RoleAny disables the role constraint of directory and leaderboard queries.
const RoleAny = "any"

const recentLimit = 2

// Entities accepted by Facets.
const (
	EntityPeople    = "people"
	EntityQuestions = "questions"
	EntityMaterials = "materials"
)

// DirectoryQuery selects people. An empty Role means alumni.
type DirectoryQuery struct {
	Text         string
	Cohort       string
	Organization string
	Skill        string
	Role         string
	Sort         *search.Sort
}

// QuestionQuery selects forum questions.
type QuestionQuery struct {
	Text  string
	Topic string
	Asker string
	Sort  *search.Sort
}

// MaterialQuery selects library materials.
type MaterialQuery struct {
	Text        string
	Category    string
	Contributor string
	Sort        *search.Sort
}

// LeaderboardQuery selects the ranked population. A non-positive Limit keeps
// every entry; an empty Role means alumni.
type LeaderboardQuery struct {
	Limit int
	Role  string
}

func roleCriteria(role string) search.Criteria {
	switch role {
	case "":
		return search.Criteria{}.Where(search.FieldRole, string(model.RoleAlumni))
	case RoleAny:
		return search.Criteria{}
	default:
		return search.Criteria{}.Where(search.FieldRole, role)
	}
}

func since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

// Directory returns the people matching q with their earned tiers. Total
// counts the role population before text and field filters.
func (s *Service) Directory(ctx context.Context, q DirectoryQuery) (types.Directory, error) {
	start := time.Now()

	population := search.Select(s.store.People(ctx), search.People, roleCriteria(q.Role))
	c := search.Criteria{Text: q.Text, Sort: q.Sort}.
		Where(search.FieldCohort, q.Cohort).
		Where(search.FieldOrganization, q.Organization).
		Where(search.FieldSkills, q.Skill)
	people := search.Select(population, search.People, c)

	for i := range people {
		tiers, err := s.earnedTiers(ctx, people[i])
		if err != nil {
			return types.Directory{}, err
		}
		people[i].Tiers = tiers
	}

	metrics.RecordSelection("directory", len(people), since(start))
	return types.Directory{
		People: people,
		Shown:  len(people),
		Total:  len(population),
		Facets: types.DirectoryFacets{
			Cohorts:       search.Facets(population, search.People, search.FieldCohort),
			Organizations: search.Facets(population, search.People, search.FieldOrganization),
			Skills:        search.Facets(population, search.People, search.FieldSkills),
		},
	}, nil
}

// Questions returns the forum questions matching q with people resolved.
func (s *Service) Questions(ctx context.Context, q QuestionQuery) (types.Questions, error) {
	start := time.Now()

	all := s.store.Questions(ctx)
	c := search.Criteria{Text: q.Text, Sort: q.Sort}.
		Where(search.FieldTopics, q.Topic).
		Where(search.FieldAsker, q.Asker)
	selected := search.Select(all, search.Questions, c)

	views := make([]types.QuestionView, len(selected))
	for i, qu := range selected {
		views[i] = s.questionView(ctx, qu)
	}

	metrics.RecordSelection("questions", len(views), since(start))
	return types.Questions{
		Questions: views,
		Shown:     len(views),
		Total:     len(all),
		Topics:    search.Facets(all, search.Questions, search.FieldTopics),
	}, nil
}

// Materials returns the library materials matching q with contributors
// resolved, plus per-category counts over the whole library.
func (s *Service) Materials(ctx context.Context, q MaterialQuery) (types.Materials, error) {
	start := time.Now()

	all := s.store.Materials(ctx)
	c := search.Criteria{Text: q.Text, Sort: q.Sort}.
		Where(search.FieldCategory, q.Category).
		Where(search.FieldContributor, q.Contributor)
	selected := search.Select(all, search.Materials, c)

	views := make([]types.MaterialView, len(selected))
	for i, m := range selected {
		views[i] = s.materialView(ctx, m)
	}

	metrics.RecordSelection("materials", len(views), since(start))
	return types.Materials{
		Materials:  views,
		Shown:      len(views),
		Total:      len(all),
		Categories: search.FacetCounts(all, search.Materials, search.FieldCategory),
	}, nil
}

// Leaderboard ranks people by score. Ranks are positional and survive
// truncation; the tier summary covers the whole ranked population.
func (s *Service) Leaderboard(ctx context.Context, q LeaderboardQuery) (types.Leaderboard, error) {
	start := time.Now()

	ranked := search.Leaderboard(s.store.People(ctx), roleCriteria(q.Role), 0)

	counts := make(map[string]int)
	entries := make([]types.LeaderboardEntry, 0, len(ranked))
	for _, r := range ranked {
		p := r.Record
		tier, err := s.scoreTier(ctx, p)
		if err != nil {
			return types.Leaderboard{}, err
		}
		counts[tier.ID]++
		if q.Limit > 0 && len(entries) >= q.Limit {
			continue
		}
		metrics.RecordClassification(tier.Label)
		entries = append(entries, types.LeaderboardEntry{
			Rank:         r.Rank,
			PersonID:     p.ID,
			Name:         p.Name,
			Organization: p.Organization,
			Cohort:       p.Cohort,
			Skills:       p.Skills,
			Score:        p.Score,
			Tier:         tier,
			Tiers:        s.classifier.WithBonus(p, tier),
		})
	}

	scoreTiers := s.classifier.ScoreTiers()
	tierCounts := make([]types.TierCount, len(scoreTiers))
	for i, t := range scoreTiers {
		tierCounts[i] = types.TierCount{Tier: t, Count: counts[t.ID]}
	}

	metrics.RecordLeaderboardBuild()
	metrics.RecordSelection("leaderboard", len(entries), since(start))
	return types.Leaderboard{Entries: entries, Total: len(ranked), TierCounts: tierCounts}, nil
}

// Profile returns a person with their tiers and portal activity.
func (s *Service) Profile(ctx context.Context, id string) (types.Profile, error) {
	p, err := s.store.Person(ctx, id)
	if err != nil {
		return types.Profile{}, err
	}
	if p.Tiers, err = s.earnedTiers(ctx, p); err != nil {
		return types.Profile{}, err
	}

	questions := s.store.Questions(ctx)
	responses := 0
	for _, q := range questions {
		for _, r := range q.Responses {
			if r.AnswererID == id {
				responses++
			}
		}
	}

	return types.Profile{
		Person:         p,
		Questions:      search.Select(questions, search.Questions, search.Criteria{}.Where(search.FieldAsker, id)),
		Materials:      search.Select(s.store.Materials(ctx), search.Materials, search.Criteria{}.Where(search.FieldContributor, id)),
		ResponsesGiven: responses,
	}, nil
}

// PersonTiers returns the tiers earned by the person with id.
func (s *Service) PersonTiers(ctx context.Context, id string) ([]model.Tier, error) {
	p, err := s.store.Person(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.earnedTiers(ctx, p)
}

// Tiers returns the badge catalog.
func (s *Service) Tiers() []model.Tier {
	return s.classifier.Catalog()
}

// Facets returns the distinct values of field for entity. An unknown field
// yields an empty list; an unknown entity is an error.
func (s *Service) Facets(ctx context.Context, entity, field string) ([]string, error) {
	switch entity {
	case EntityPeople:
		return search.Facets(s.store.People(ctx), search.People, field), nil
	case EntityQuestions:
		return search.Facets(s.store.Questions(ctx), search.Questions, field), nil
	case EntityMaterials:
		return search.Facets(s.store.Materials(ctx), search.Materials, field), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
}

// Stats summarizes the portal for the dashboard.
func (s *Service) Stats(ctx context.Context) types.Stats {
	people := s.store.People(ctx)
	questions := s.store.Questions(ctx)
	materials := s.store.Materials(ctx)

	newest := &search.Sort{Key: search.SortCreatedAt, Descending: true}
	recentQ := search.Select(questions, search.Questions, search.Criteria{Sort: newest})
	recentM := search.Select(materials, search.Materials, search.Criteria{Sort: newest})

	st := types.Stats{
		Alumni:          len(search.Select(people, search.People, roleCriteria(string(model.RoleAlumni)))),
		Students:        len(search.Select(people, search.People, roleCriteria(string(model.RoleStudent)))),
		Questions:       len(questions),
		Materials:       len(materials),
		RecentQuestions: make([]types.QuestionView, 0, recentLimit),
		RecentMaterials: make([]types.MaterialView, 0, recentLimit),
	}
	for i := 0; i < len(recentQ) && i < recentLimit; i++ {
		st.RecentQuestions = append(st.RecentQuestions, s.questionView(ctx, recentQ[i]))
	}
	for i := 0; i < len(recentM) && i < recentLimit; i++ {
		st.RecentMaterials = append(st.RecentMaterials, s.materialView(ctx, recentM[i]))
	}
	return st
}

func (s *Service) scoreTier(ctx context.Context, p model.Person) (model.Tier, error) {
	t, err := s.classifier.Classify(p.Score)
	if err != nil {
		metrics.RecordClassificationError()
		s.logger.Error(ctx, "score outside tier table", logger.String("person_id", p.ID), logger.Int("score", p.Score))
		return model.Tier{}, fmt.Errorf("person %s: %w", p.ID, err)
	}
	return t, nil
}

func (s *Service) earnedTiers(ctx context.Context, p model.Person) ([]model.Tier, error) {
	tiers, err := s.classifier.EarnedTiers(p)
	if err != nil {
		metrics.RecordClassificationError()
		s.logger.Error(ctx, "score outside tier table", logger.String("person_id", p.ID), logger.Int("score", p.Score))
		return nil, err
	}
	return tiers, nil
}

// summary resolves a person reference; unknown ids resolve to nil.
func (s *Service) summary(ctx context.Context, id string) *types.PersonSummary {
	p, err := s.store.Person(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn(ctx, "person lookup failed", logger.String("person_id", id), logger.Error(err))
		}
		return nil
	}
	return types.Summarize(p)
}

func (s *Service) questionView(ctx context.Context, q model.Question) types.QuestionView {
	v := types.QuestionView{
		ID:        q.ID,
		Asker:     s.summary(ctx, q.AskerID),
		Body:      q.Body,
		Topics:    q.Topics,
		Responses: make([]types.ResponseView, len(q.Responses)),
		Upvotes:   q.Upvotes,
		CreatedAt: q.CreatedAt,
	}
	for i, r := range q.Responses {
		v.Responses[i] = types.ResponseView{
			ID:        r.ID,
			Answerer:  s.summary(ctx, r.AnswererID),
			Body:      r.Body,
			Upvotes:   r.Upvotes,
			CreatedAt: r.CreatedAt,
		}
	}
	return v
}

func (s *Service) materialView(ctx context.Context, m model.Material) types.MaterialView {
	return types.MaterialView{Material: m, Contributor: s.summary(ctx, m.ContributorID)}
}
