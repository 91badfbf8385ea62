package repository

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/okian/alumni/internal/domain/model"
	"github.com/okian/alumni/pkg/logger"
	"github.com/okian/alumni/pkg/metrics"
)

// InMemoryStore serves fixtures from memory. Every read returns copies, so
// callers may freely sort or modify what they receive.
type InMemoryStore struct {
	mu        sync.RWMutex
	people    []model.Person
	index     map[string]int // person id -> position in people
	questions []model.Question
	materials []model.Material

	logger logger.Logger
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore builds a store from f. References to unknown people are
// kept and logged; readers resolve them to nothing.
func NewInMemoryStore(ctx context.Context, f Fixtures, opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		people:    make([]model.Person, 0, len(f.People)),
		index:     make(map[string]int, len(f.People)),
		questions: make([]model.Question, 0, len(f.Questions)),
		materials: make([]model.Material, 0, len(f.Materials)),
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, p := range f.People {
		s.index[p.ID] = len(s.people)
		s.people = append(s.people, p.Clone())
	}
	for _, q := range f.Questions {
		s.questions = append(s.questions, q.Clone())
	}
	s.materials = append(s.materials, f.Materials...)

	s.warnDangling(ctx)
	s.updateMetrics()
	return s
}

func (s *InMemoryStore) warnDangling(ctx context.Context) {
	for _, q := range s.questions {
		if _, ok := s.index[q.AskerID]; !ok {
			s.logger.Warn(ctx, "question references unknown asker",
				logger.String("question_id", q.ID), logger.String("person_id", q.AskerID))
		}
		for _, r := range q.Responses {
			if _, ok := s.index[r.AnswererID]; !ok {
				s.logger.Warn(ctx, "response references unknown answerer",
					logger.String("response_id", r.ID), logger.String("person_id", r.AnswererID))
			}
		}
	}
	for _, m := range s.materials {
		if _, ok := s.index[m.ContributorID]; !ok {
			s.logger.Warn(ctx, "material references unknown contributor",
				logger.String("material_id", m.ID), logger.String("person_id", m.ContributorID))
		}
	}
}

// updateMetrics must be called with at least a read lock held, or before
// the store is shared.
func (s *InMemoryStore) updateMetrics() {
	var alumni, students int
	for _, p := range s.people {
		switch p.Role {
		case model.RoleAlumni:
			alumni++
		case model.RoleStudent:
			students++
		}
	}
	metrics.UpdatePeopleTotal(string(model.RoleAlumni), alumni)
	metrics.UpdatePeopleTotal(string(model.RoleStudent), students)
}

// Person returns a copy of the person with id, or ErrNotFound.
func (s *InMemoryStore) Person(_ context.Context, id string) (model.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.Person{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.people[i].Clone(), nil
}

func (s *InMemoryStore) People(_ context.Context) []model.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Person, len(s.people))
	for i, p := range s.people {
		out[i] = p.Clone()
	}
	return out
}

func (s *InMemoryStore) Questions(_ context.Context) []model.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Question, len(s.questions))
	for i, q := range s.questions {
		out[i] = q.Clone()
	}
	return out
}

func (s *InMemoryStore) Materials(_ context.Context) []model.Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Material(nil), s.materials...)
}

// AwardPoints adds points to the person's score. A result below zero is
// clamped to zero so scores never turn negative. An award that would overflow
// the score returns ErrScoreOverflow and leaves the score unchanged.
func (s *InMemoryStore) AwardPoints(_ context.Context, personID string, points int) (model.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[personID]
	if !ok {
		return model.Person{}, fmt.Errorf("%w: %s", ErrNotFound, personID)
	}
	if points > 0 && s.people[i].Score > math.MaxInt-points {
		return model.Person{}, fmt.Errorf("%w: %s has %d, award %d", ErrScoreOverflow, personID, s.people[i].Score, points)
	}
	score := s.people[i].Score + points
	if score < 0 {
		score = 0
	}
	s.people[i].Score = score
	return s.people[i].Clone(), nil
}

func (s *InMemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.people)
}
