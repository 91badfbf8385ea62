package activitysim

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL        string        // base URL of the portal
	NumActivities  int           // activities to generate
	DuplicateRatio float64       // share of activities resubmitted with the same event id
	TopN           int           // leaderboard entries to fetch and verify
	Workers        int           // concurrent submitters
	Timeout        time.Duration // per-request timeout
	SettleTimeout  time.Duration // how long to wait for workers to apply accepted activities
	PollInterval   time.Duration // pipeline polling interval while settling
	Seed           uint64        // 0 picks a time-based seed
	OutputFile     string        // optional JSON dump of generated activities
	Verbose        bool
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.NumActivities <= 0 {
		c.NumActivities = defaultNumActivities
	}
	if c.DuplicateRatio < 0 {
		c.DuplicateRatio = 0
	}
	if c.DuplicateRatio > 1 {
		c.DuplicateRatio = 1
	}
	if c.TopN <= 0 {
		c.TopN = defaultTopN
	}
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.SettleTimeout <= 0 {
		c.SettleTimeout = defaultSettleTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
}

// Activity is the POST /activities body.
type Activity struct {
	EventID  string `json:"event_id"`
	PersonID string `json:"person_id"`
	Kind     string `json:"kind"`
	Points   int    `json:"points"`
	TS       string `json:"ts"`
}

// Person is the subset of a directory record the simulator needs.
type Person struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Score int    `json:"score"`
}

// Tier is the subset of a badge the simulator verifies.
type Tier struct {
	Label    string `json:"label"`
	MinScore int    `json:"min_score"`
}

// Entry is a leaderboard entry.
type Entry struct {
	Rank     int    `json:"rank"`
	PersonID string `json:"person_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Tier     Tier   `json:"tier"`
}

type leaderboardResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

type directoryResponse struct {
	People []Person `json:"people"`
}

type healthResponse struct {
	Status   string         `json:"status"`
	Pipeline map[string]any `json:"pipeline"`
}

// AckResponse is the response to an activity submission.
type AckResponse struct {
	Status    string `json:"status"`
	EventID   string `json:"event_id"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds simulation statistics.
type Stats struct {
	People             int
	Generated          int
	Submitted          int
	Accepted           int
	Duplicates         int
	Backpressured      int
	Failed             int
	Applied            int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
