package search

import (
	"cmp"
	"strings"

	"github.com/okian/alumni/internal/domain/model"
)

// Field names shared by the HTTP layer and the service.
const (
	FieldID           = "id"
	FieldName         = "name"
	FieldOrganization = "organization"
	FieldSkills       = "skills"
	FieldCohort       = "cohort"
	FieldRole         = "role"

	FieldBody   = "body"
	FieldTopics = "topics"
	FieldAsker  = "asker"

	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldContributor = "contributor"
)

// Sort keys.
const (
	SortScore      = "score"
	SortName       = "name"
	SortCohort     = "cohort"
	SortUpvotes    = "upvotes"
	SortCreatedAt  = "created_at"
	SortResponses  = "responses"
	SortRetrievals = "retrievals"
	SortTitle      = "title"
)

// People is the schema for the directory and leaderboard.
// Free text matches name, organization and skills.
var People = NewSchema([]Field[model.Person]{
	{Name: FieldID, Values: func(p model.Person) []string { return one(p.ID) }},
	{Name: FieldName, Values: func(p model.Person) []string { return one(p.Name) }, Text: true},
	{Name: FieldOrganization, Values: func(p model.Person) []string { return one(p.Organization) }, Text: true},
	{Name: FieldSkills, Values: func(p model.Person) []string { return p.Skills }, Text: true},
	{Name: FieldCohort, Values: func(p model.Person) []string { return one(p.Cohort) }},
	{Name: FieldRole, Values: func(p model.Person) []string { return one(string(p.Role)) }},
}, map[string]Compare[model.Person]{
	SortScore:  func(a, b model.Person) int { return cmp.Compare(a.Score, b.Score) },
	SortName:   func(a, b model.Person) int { return strings.Compare(a.Name, b.Name) },
	SortCohort: func(a, b model.Person) int { return strings.Compare(a.Cohort, b.Cohort) },
})

// Questions is the schema for the forum. Free text matches the question body.
var Questions = NewSchema([]Field[model.Question]{
	{Name: FieldID, Values: func(q model.Question) []string { return one(q.ID) }},
	{Name: FieldBody, Values: func(q model.Question) []string { return one(q.Body) }, Text: true},
	{Name: FieldTopics, Values: func(q model.Question) []string { return q.Topics }},
	{Name: FieldAsker, Values: func(q model.Question) []string { return one(q.AskerID) }},
}, map[string]Compare[model.Question]{
	SortUpvotes:   func(a, b model.Question) int { return cmp.Compare(a.Upvotes, b.Upvotes) },
	SortCreatedAt: func(a, b model.Question) int { return a.CreatedAt.Compare(b.CreatedAt) },
	SortResponses: func(a, b model.Question) int { return cmp.Compare(len(a.Responses), len(b.Responses)) },
})

// Materials is the schema for the resource library. Free text matches title
// and description.
var Materials = NewSchema([]Field[model.Material]{
	{Name: FieldID, Values: func(m model.Material) []string { return one(m.ID) }},
	{Name: FieldTitle, Values: func(m model.Material) []string { return one(m.Title) }, Text: true},
	{Name: FieldDescription, Values: func(m model.Material) []string { return one(m.Description) }, Text: true},
	{Name: FieldCategory, Values: func(m model.Material) []string { return one(m.Category) }},
	{Name: FieldContributor, Values: func(m model.Material) []string { return one(m.ContributorID) }},
}, map[string]Compare[model.Material]{
	SortRetrievals: func(a, b model.Material) int { return cmp.Compare(a.Retrievals, b.Retrievals) },
	SortCreatedAt:  func(a, b model.Material) int { return a.CreatedAt.Compare(b.CreatedAt) },
	SortTitle:      func(a, b model.Material) int { return strings.Compare(a.Title, b.Title) },
})
