package repository

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okian/alumni/internal/domain/model"
)

//go:embed seed.yaml
var seedYAML []byte

// Fixtures is the full data set a store is built from.
type Fixtures struct {
	People    []model.Person
	Questions []model.Question
	Materials []model.Material
}

type personDoc struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Email        string   `yaml:"email"`
	Role         string   `yaml:"role"`
	Cohort       string   `yaml:"cohort"`
	Organization string   `yaml:"organization"`
	Skills       []string `yaml:"skills"`
	Score        int      `yaml:"score"`
	Bio          string   `yaml:"bio"`
	Location     string   `yaml:"location"`
	LinkedIn     string   `yaml:"linkedin"`
	GitHub       string   `yaml:"github"`
}

type responseDoc struct {
	ID         string `yaml:"id"`
	AnswererID string `yaml:"answerer_id"`
	Body       string `yaml:"body"`
	Upvotes    int    `yaml:"upvotes"`
	CreatedAt  string `yaml:"created_at"`
}

type questionDoc struct {
	ID        string        `yaml:"id"`
	AskerID   string        `yaml:"asker_id"`
	Body      string        `yaml:"body"`
	Topics    []string      `yaml:"topics"`
	Upvotes   int           `yaml:"upvotes"`
	CreatedAt string        `yaml:"created_at"`
	Responses []responseDoc `yaml:"responses"`
}

type materialDoc struct {
	ID            string `yaml:"id"`
	ContributorID string `yaml:"contributor_id"`
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	Link          string `yaml:"link"`
	Category      string `yaml:"category"`
	Retrievals    int    `yaml:"retrievals"`
	CreatedAt     string `yaml:"created_at"`
}

type fixturesDoc struct {
	People    []personDoc   `yaml:"people"`
	Questions []questionDoc `yaml:"questions"`
	Materials []materialDoc `yaml:"materials"`
}

// DefaultFixtures returns the embedded seed data set.
func DefaultFixtures() (Fixtures, error) {
	return ParseFixtures(seedYAML)
}

// LoadFixtures reads and parses a YAML fixture file.
func LoadFixtures(path string) (Fixtures, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return Fixtures{}, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	return ParseFixtures(raw)
}

// ParseFixtures decodes and validates a YAML fixture document. Every
// violation wraps ErrInvalidFixture.
func ParseFixtures(raw []byte) (Fixtures, error) {
	var doc fixturesDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Fixtures{}, fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}

	var f Fixtures
	seen := make(map[string]struct{}, len(doc.People))
	for i, pd := range doc.People {
		p, err := pd.person()
		if err != nil {
			return Fixtures{}, fmt.Errorf("%w: people[%d]: %v", ErrInvalidFixture, i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return Fixtures{}, fmt.Errorf("%w: people[%d]: duplicate id %q", ErrInvalidFixture, i, p.ID)
		}
		seen[p.ID] = struct{}{}
		f.People = append(f.People, p)
	}

	qids := make(map[string]struct{}, len(doc.Questions))
	for i, qd := range doc.Questions {
		q, err := qd.question()
		if err != nil {
			return Fixtures{}, fmt.Errorf("%w: questions[%d]: %v", ErrInvalidFixture, i, err)
		}
		if _, dup := qids[q.ID]; dup {
			return Fixtures{}, fmt.Errorf("%w: questions[%d]: duplicate id %q", ErrInvalidFixture, i, q.ID)
		}
		qids[q.ID] = struct{}{}
		f.Questions = append(f.Questions, q)
	}

	mids := make(map[string]struct{}, len(doc.Materials))
	for i, md := range doc.Materials {
		m, err := md.material()
		if err != nil {
			return Fixtures{}, fmt.Errorf("%w: materials[%d]: %v", ErrInvalidFixture, i, err)
		}
		if _, dup := mids[m.ID]; dup {
			return Fixtures{}, fmt.Errorf("%w: materials[%d]: duplicate id %q", ErrInvalidFixture, i, m.ID)
		}
		mids[m.ID] = struct{}{}
		f.Materials = append(f.Materials, m)
	}
	return f, nil
}

func (d personDoc) person() (model.Person, error) {
	if d.ID == "" {
		return model.Person{}, fmt.Errorf("missing id")
	}
	role := model.Role(d.Role)
	if role != model.RoleStudent && role != model.RoleAlumni {
		return model.Person{}, fmt.Errorf("person %s: unknown role %q", d.ID, d.Role)
	}
	if d.Score < 0 {
		return model.Person{}, fmt.Errorf("person %s: negative score %d", d.ID, d.Score)
	}
	skills := d.Skills
	if skills == nil {
		skills = []string{}
	}
	return model.Person{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		Role:         role,
		Cohort:       d.Cohort,
		Organization: d.Organization,
		Skills:       skills,
		Score:        d.Score,
		Bio:          d.Bio,
		Location:     d.Location,
		LinkedIn:     d.LinkedIn,
		GitHub:       d.GitHub,
	}, nil
}

func (d questionDoc) question() (model.Question, error) {
	if d.ID == "" {
		return model.Question{}, fmt.Errorf("missing id")
	}
	if d.Upvotes < 0 {
		return model.Question{}, fmt.Errorf("question %s: negative upvotes %d", d.ID, d.Upvotes)
	}
	created, err := parseTime(d.CreatedAt)
	if err != nil {
		return model.Question{}, fmt.Errorf("question %s: %w", d.ID, err)
	}
	topics := d.Topics
	if topics == nil {
		topics = []string{}
	}
	q := model.Question{
		ID:        d.ID,
		AskerID:   d.AskerID,
		Body:      d.Body,
		Topics:    topics,
		Responses: make([]model.Response, 0, len(d.Responses)),
		Upvotes:   d.Upvotes,
		CreatedAt: created,
	}
	for _, rd := range d.Responses {
		if rd.ID == "" {
			return model.Question{}, fmt.Errorf("question %s: response missing id", d.ID)
		}
		if rd.Upvotes < 0 {
			return model.Question{}, fmt.Errorf("response %s: negative upvotes %d", rd.ID, rd.Upvotes)
		}
		rc, err := parseTime(rd.CreatedAt)
		if err != nil {
			return model.Question{}, fmt.Errorf("response %s: %w", rd.ID, err)
		}
		q.Responses = append(q.Responses, model.Response{
			ID:         rd.ID,
			AnswererID: rd.AnswererID,
			Body:       rd.Body,
			Upvotes:    rd.Upvotes,
			CreatedAt:  rc,
		})
	}
	return q, nil
}

func (d materialDoc) material() (model.Material, error) {
	if d.ID == "" {
		return model.Material{}, fmt.Errorf("missing id")
	}
	if d.Retrievals < 0 {
		return model.Material{}, fmt.Errorf("material %s: negative retrievals %d", d.ID, d.Retrievals)
	}
	created, err := parseTime(d.CreatedAt)
	if err != nil {
		return model.Material{}, fmt.Errorf("material %s: %w", d.ID, err)
	}
	return model.Material{
		ID:            d.ID,
		ContributorID: d.ContributorID,
		Title:         d.Title,
		Description:   d.Description,
		Link:          d.Link,
		Category:      d.Category,
		Retrievals:    d.Retrievals,
		CreatedAt:     created,
	}, nil
}

// parseTime accepts RFC3339 timestamps; an empty value yields the zero time.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid created_at %q: %w", s, err)
	}
	return t.UTC(), nil
}
