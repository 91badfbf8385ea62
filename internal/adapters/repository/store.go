// Package repository provides the portal's data: fixture loading and an
// in-memory store that hands out copies of its collections.
package repository

import (
	"context"

	"github.com/okian/alumni/internal/domain/model"
)

// Store provides read access to the portal collections plus the single
// mutation a running portal needs: awarding activity points.
type Store interface {
	model.PersonLookup

	// People returns every person in fixture order.
	People(ctx context.Context) []model.Person
	// Questions returns every question in fixture order.
	Questions(ctx context.Context) []model.Question
	// Materials returns every material in fixture order.
	Materials(ctx context.Context) []model.Material

	// AwardPoints adds points to a person's score, clamping at zero.
	// Returns ErrNotFound if the person is unknown.
	AwardPoints(ctx context.Context, personID string, points int) (model.Person, error)

	// Count returns the number of people tracked.
	Count(ctx context.Context) int
}
