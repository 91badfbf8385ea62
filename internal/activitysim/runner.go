package activitysim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/alumni/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run drives a full simulation against the portal: it reads the people,
// submits generated activities with duplicates mixed in, waits for the
// workers to apply them and verifies the leaderboard.
func Run(ctx context.Context, config Config) (*Stats, error) {
	config.applyDefaults()
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting activity simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("activities", config.NumActivities),
		logger.Float64("duplicateRatio", config.DuplicateRatio),
		logger.Int("workers", config.Workers),
		logger.Int("topN", config.TopN))

	client := newHTTPClient(config.BaseURL, config.Timeout)
	defer client.close()

	baseline, err := appliedCount(ctx, client)
	if err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	var dir directoryResponse
	if err := client.getJSON(ctx, "/directory?role=any", &dir); err != nil {
		return stats, fmt.Errorf("directory retrieval failed: %w", err)
	}
	stats.People = len(dir.People)

	rng := newRand(config.Seed)
	activities, err := generateActivities(ctx, rng, dir.People, config.NumActivities)
	if err != nil {
		return stats, fmt.Errorf("activity generation failed: %w", err)
	}
	stats.Generated = len(activities)

	batch, _ := withDuplicates(rng, activities, config.DuplicateRatio)
	sub := submitActivities(ctx, client, config.Workers, batch)
	stats.Submitted = len(batch)
	stats.Accepted = int(sub.accepted)
	stats.Duplicates = int(sub.duplicates)
	stats.Backpressured = int(sub.backpressured)
	stats.Failed = int(sub.failed)

	applied, err := waitForApplied(ctx, client, baseline+stats.Accepted, config.SettleTimeout, config.PollInterval)
	stats.Applied = applied - baseline
	if err != nil {
		return stats, fmt.Errorf("activities were not applied: %w", err)
	}

	var board leaderboardResponse
	q := url.Values{"limit": {fmt.Sprint(config.TopN)}, "role": {"any"}}
	if err := client.getJSON(ctx, "/leaderboard?"+q.Encode(), &board); err != nil {
		return stats, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	stats.LeaderboardEntries = len(board.Entries)
	displayTopPerformers(ctx, board.Entries, config.Verbose)

	verifyErr := verifyLeaderboard(board.Entries, expectedScores(dir.People, sub.applied))

	if config.OutputFile != "" {
		if err := saveActivities(config.OutputFile, activities); err != nil {
			log.Warn(ctx, "failed to save activities to file", logger.Error(err))
		} else {
			log.Info(ctx, "activities saved to file", logger.String("filename", config.OutputFile))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if verifyErr != nil {
		return stats, verifyErr
	}
	log.Info(ctx, "simulation completed successfully")
	return stats, nil
}

// appliedCount reads the number of activities the workers have applied.
func appliedCount(ctx context.Context, client *HTTPClient) (int, error) {
	var h healthResponse
	if err := client.getJSON(ctx, "/healthz", &h); err != nil {
		return 0, err
	}
	if h.Status != "ok" {
		return 0, fmt.Errorf("status %q", h.Status)
	}
	if started, _ := h.Pipeline["started"].(bool); !started {
		return 0, fmt.Errorf("activity pipeline is not running")
	}
	n, _ := h.Pipeline["activitiesApplied"].(float64)
	return int(n), nil
}

// waitForApplied polls until at least target activities are applied.
func waitForApplied(ctx context.Context, client *HTTPClient, target int, timeout, interval time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		n, err := appliedCount(ctx, client)
		if err == nil && n >= target {
			return n, nil
		}
		select {
		case <-ctx.Done():
			return n, fmt.Errorf("%d of %d applied: %w", n, target, ctx.Err())
		case <-ticker.C:
		}
	}
}

func saveActivities(filename string, activities []Activity) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	raw, err := json.MarshalIndent(activities, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal activities: %w", err)
	}
	return os.WriteFile(filename, raw, filePermission)
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}
	logger.Get().Info(ctx, "final statistics",
		logger.Int("people", stats.People),
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("backpressured", stats.Backpressured),
		logger.Int("failed", stats.Failed),
		logger.Int("applied", stats.Applied),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("submissionsPerSecond", perSecond))
}
