// Package model contains domain models passed between layers.
package model

import (
	"context"
	"time"
)

// Role tags a person as a current student or a graduate.
type Role string

// Known roles. Alumni act as mentors in the portal.
const (
	RoleStudent Role = "student"
	RoleAlumni  Role = "alumni"
)

// Tier describes a badge a person can earn.
type Tier struct {
	ID          string `json:"id"`
	Rank        int    `json:"rank"`      // ordinal among tiers, lowest first
	MinScore    int    `json:"min_score"` // inclusive lower bound
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Person is a portal member. Organization and Cohort are empty when absent.
// Score is never negative.
type Person struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email,omitempty"`
	Role         Role     `json:"role"`
	Cohort       string   `json:"cohort,omitempty"`
	Organization string   `json:"organization,omitempty"`
	Skills       []string `json:"skills"`
	Score        int      `json:"score"`
	Tiers        []Tier   `json:"tiers,omitempty"`
	Bio          string   `json:"bio,omitempty"`
	Location     string   `json:"location,omitempty"`
	LinkedIn     string   `json:"linkedin,omitempty"`
	GitHub       string   `json:"github,omitempty"`
}

// Clone returns a copy that shares no slices with p.
func (p Person) Clone() Person {
	p.Skills = append([]string(nil), p.Skills...)
	p.Tiers = append([]Tier(nil), p.Tiers...)
	return p
}

// Response is an answer to a Question. AnswererID references a Person.
type Response struct {
	ID         string    `json:"id"`
	AnswererID string    `json:"answerer_id"`
	Body       string    `json:"body"`
	Upvotes    int       `json:"upvotes"`
	CreatedAt  time.Time `json:"created_at"`
}

// Question is a forum post. It owns its responses; AskerID references a Person.
type Question struct {
	ID        string     `json:"id"`
	AskerID   string     `json:"asker_id"`
	Body      string     `json:"body"`
	Topics    []string   `json:"topics"`
	Responses []Response `json:"responses"`
	Upvotes   int        `json:"upvotes"`
	CreatedAt time.Time  `json:"created_at"`
}

// Clone returns a copy that shares no slices with q.
func (q Question) Clone() Question {
	q.Topics = append([]string(nil), q.Topics...)
	q.Responses = append([]Response(nil), q.Responses...)
	return q
}

// Material is a shared learning resource. ContributorID references a Person.
type Material struct {
	ID            string    `json:"id"`
	ContributorID string    `json:"contributor_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Link          string    `json:"link,omitempty"`
	Category      string    `json:"category"`
	Retrievals    int       `json:"retrievals"`
	CreatedAt     time.Time `json:"created_at"`
}

// PersonLookup resolves person references held by questions, responses and
// materials.
type PersonLookup interface {
	Person(ctx context.Context, id string) (Person, error)
}
