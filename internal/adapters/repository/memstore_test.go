package repository

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/okian/alumni/internal/domain/model"
	"github.com/okian/alumni/pkg/logger"
)

func seededStore(t *testing.T) *InMemoryStore {
	t.Helper()
	f, err := DefaultFixtures()
	if err != nil {
		t.Fatalf("seed fixtures: %v", err)
	}
	return NewInMemoryStore(context.Background(), f)
}

func TestInMemoryStoreReads(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	if s.Count(ctx) != 5 {
		t.Errorf("Count = %d, want 5", s.Count(ctx))
	}

	p, err := s.Person(ctx, "4")
	if err != nil {
		t.Fatalf("Person: %v", err)
	}
	if p.Name != "David Wilson" {
		t.Errorf("unexpected person: %+v", p)
	}

	if _, err := s.Person(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	people := s.People(ctx)
	ids := make([]string, len(people))
	for i, p := range people {
		ids[i] = p.ID
	}
	if strings.Join(ids, ",") != "1,2,3,4,5" {
		t.Errorf("people should keep fixture order, got %v", ids)
	}
}

func TestInMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	people := s.People(ctx)
	people[0].Skills[0] = "COBOL"
	people[0].Score = 1

	qs := s.Questions(ctx)
	qs[0].Topics[0] = "changed"
	qs[0].Responses[0].Body = "changed"

	ms := s.Materials(ctx)
	ms[0].Title = "changed"

	p, _ := s.Person(ctx, "1")
	if p.Skills[0] != "React" || p.Score != 285 {
		t.Errorf("store person was mutated through a returned copy: %+v", p)
	}
	q := s.Questions(ctx)[0]
	if q.Topics[0] != "React" || q.Responses[0].Body == "changed" {
		t.Errorf("store question was mutated through a returned copy: %+v", q)
	}
	if s.Materials(ctx)[0].Title != "Complete React Interview Guide" {
		t.Error("store material was mutated through a returned copy")
	}
}

func TestInMemoryStoreAwardPoints(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	p, err := s.AwardPoints(ctx, "3", 10)
	if err != nil {
		t.Fatalf("AwardPoints: %v", err)
	}
	if p.Score != 55 {
		t.Errorf("score = %d, want 55", p.Score)
	}

	p, err = s.AwardPoints(ctx, "3", -1000)
	if err != nil {
		t.Fatalf("AwardPoints: %v", err)
	}
	if p.Score != 0 {
		t.Errorf("score should clamp at zero, got %d", p.Score)
	}

	if _, err := s.AwardPoints(ctx, "ghost", 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInMemoryStoreAwardPointsOverflow(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	if _, err := s.AwardPoints(ctx, "1", math.MaxInt); !errors.Is(err, ErrScoreOverflow) {
		t.Fatalf("expected ErrScoreOverflow, got %v", err)
	}
	p, err := s.Person(ctx, "1")
	if err != nil {
		t.Fatalf("Person: %v", err)
	}
	if p.Score != 285 {
		t.Errorf("score changed on overflow: got %d, want 285", p.Score)
	}

	if _, err := s.AwardPoints(ctx, "1", math.MaxInt-285); err != nil {
		t.Fatalf("award up to MaxInt: %v", err)
	}
	if _, err := s.AwardPoints(ctx, "1", 1); !errors.Is(err, ErrScoreOverflow) {
		t.Errorf("expected ErrScoreOverflow past MaxInt, got %v", err)
	}
	if p, _ := s.Person(ctx, "1"); p.Score != math.MaxInt {
		t.Errorf("score = %d, want MaxInt", p.Score)
	}

	p, err = s.AwardPoints(ctx, "1", math.MinInt)
	if err != nil {
		t.Fatalf("large revocation: %v", err)
	}
	if p.Score != 0 {
		t.Errorf("large revocation should clamp at zero, got %d", p.Score)
	}
}

func TestInMemoryStoreConcurrentAwards(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AwardPoints(ctx, "5", 2); err != nil {
				t.Errorf("AwardPoints: %v", err)
			}
			_ = s.People(ctx)
		}()
	}
	wg.Wait()

	p, _ := s.Person(ctx, "5")
	if p.Score != 178 {
		t.Errorf("score = %d, want 178", p.Score)
	}
}

func TestInMemoryStoreWarnsOnDanglingReferences(t *testing.T) {
	var buf bytes.Buffer
	if err := logger.Init(logger.WithWriter(&buf)); err != nil {
		t.Fatal(err)
	}

	f := Fixtures{
		People:    []model.Person{{ID: "1", Name: "A", Role: model.RoleAlumni}},
		Questions: []model.Question{{ID: "q1", AskerID: "404"}},
		Materials: []model.Material{{ID: "m1", ContributorID: "1"}},
	}
	s := NewInMemoryStore(context.Background(), f, WithLogger(logger.Get()))

	if !strings.Contains(buf.String(), "unknown asker") {
		t.Errorf("expected a dangling asker warning, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "unknown contributor") {
		t.Errorf("resolvable contributor should not warn: %q", buf.String())
	}
	if len(s.Questions(context.Background())) != 1 {
		t.Error("dangling records should be kept")
	}
}
