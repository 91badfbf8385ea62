package badge

import "errors"

// Sentinel kinds for classifier errors.
var (
	// ErrInvalidScore reports a score outside the classifier's table, which
	// for the default table means a negative score.
	ErrInvalidScore = errors.New("invalid score")
)
