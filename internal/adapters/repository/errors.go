package repository

import "errors"

// Sentinel kinds for data provider errors.
var (
	ErrNotFound       = errors.New("person not found")
	ErrInvalidFixture = errors.New("invalid fixture")
	ErrScoreOverflow  = errors.New("score overflow")
)
