package model

import "time"

// MaxActivityPoints bounds the magnitude of the points one activity may
// award or revoke.
const MaxActivityPoints = 10_000

// Activity is a point-awarding event submitted by clients, e.g. an accepted
// answer or a shared resource. Fields mirror the OpenAPI schema for /activities.
type Activity struct {
	EventID  string    // unique id for idempotency
	PersonID string    // person receiving the points
	Kind     string    // activity kind, e.g. "answer", "resource"
	Points   int       // may be negative for revoked credit; |Points| <= MaxActivityPoints
	TS       time.Time // event timestamp
}
