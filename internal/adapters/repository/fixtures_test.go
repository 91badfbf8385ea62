package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/alumni/internal/domain/model"
)

func TestDefaultFixtures(t *testing.T) {
	f, err := DefaultFixtures()
	if err != nil {
		t.Fatalf("seed fixtures should parse: %v", err)
	}
	if len(f.People) != 5 || len(f.Questions) != 3 || len(f.Materials) != 4 {
		t.Fatalf("unexpected seed sizes: %d people, %d questions, %d materials",
			len(f.People), len(f.Questions), len(f.Materials))
	}

	alice := f.People[0]
	if alice.Name != "Alice Johnson" || alice.Role != model.RoleAlumni || alice.Score != 285 {
		t.Errorf("unexpected first person: %+v", alice)
	}
	if f.People[2].Organization != "" {
		t.Errorf("students without an organization should have an empty one, got %q", f.People[2].Organization)
	}
	if got := len(f.Questions[0].Responses); got != 2 {
		t.Errorf("first question should have 2 responses, got %d", got)
	}
	want := time.Date(2024, 1, 15, 9, 15, 0, 0, time.UTC)
	if !f.Questions[0].CreatedAt.Equal(want) {
		t.Errorf("created_at = %v, want %v", f.Questions[0].CreatedAt, want)
	}
	if f.Materials[2].Retrievals != 234 {
		t.Errorf("unexpected retrievals: %d", f.Materials[2].Retrievals)
	}
}

func TestParseFixturesRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"malformed yaml":   "people: [",
		"missing id":       "people:\n  - name: x\n    role: student\n",
		"duplicate person": "people:\n  - {id: \"1\", role: student}\n  - {id: \"1\", role: alumni}\n",
		"unknown role":     "people:\n  - {id: \"1\", role: faculty}\n",
		"negative score":   "people:\n  - {id: \"1\", role: student, score: -1}\n",
		"bad date":         "questions:\n  - {id: \"1\", asker_id: \"1\", created_at: yesterday}\n",
		"negative upvotes": "questions:\n  - {id: \"1\", upvotes: -3}\n",
		"bad response":     "questions:\n  - id: \"1\"\n    responses:\n      - {answerer_id: \"1\"}\n",
		"dup material":     "materials:\n  - {id: \"1\"}\n  - {id: \"1\"}\n",
		"neg retrievals":   "materials:\n  - {id: \"1\", retrievals: -2}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFixtures([]byte(doc))
			if !errors.Is(err, ErrInvalidFixture) {
				t.Errorf("expected ErrInvalidFixture, got %v", err)
			}
		})
	}
}

func TestParseFixturesDefaultsEmptyLists(t *testing.T) {
	f, err := ParseFixtures([]byte("people:\n  - {id: \"9\", name: Solo, role: student}\nquestions:\n  - {id: \"q\", asker_id: \"9\"}\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.People[0].Skills == nil {
		t.Error("skills should default to an empty list")
	}
	if f.Questions[0].Topics == nil || f.Questions[0].Responses == nil {
		t.Error("topics and responses should default to empty lists")
	}
}

func TestLoadFixtures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.yaml")
	if err := os.WriteFile(path, []byte("people:\n  - {id: \"a\", name: Ann, role: alumni, score: 12}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	f, err := LoadFixtures(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.People) != 1 || f.People[0].Score != 12 {
		t.Errorf("unexpected fixtures: %+v", f)
	}

	if _, err := LoadFixtures(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
