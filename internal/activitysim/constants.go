package activitysim

import (
	"runtime"
	"time"
)

// Defaults.
const (
	defaultBaseURL       = "http://localhost:9080"
	defaultNumActivities = 1000
	defaultTopN          = 20
	defaultTimeout       = 10 * time.Second
	defaultSettleTimeout = 30 * time.Second
	defaultPollInterval  = 50 * time.Millisecond
)

var defaultWorkers = runtime.NumCPU() * 2

// HTTP status code constants.
const (
	StatusOK              = 200
	StatusAccepted        = 202
	StatusTooManyRequests = 429
)

// Retry configuration for backpressured submissions.
const (
	maxRetries     = 5
	initialBackoff = 10 * time.Millisecond
)

const workerChannelMultiplier = 2

// activityKinds maps each simulated kind to the points it awards.
var activityKinds = []struct {
	kind   string
	points int
}{
	{"answer", 10},
	{"question", 5},
	{"resource", 15},
	{"upvote", 2},
}
