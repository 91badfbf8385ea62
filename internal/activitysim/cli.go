// Package activitysim drives the portal API with generated activities and
// checks the resulting leaderboard.
package activitysim

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/alumni/pkg/logger"
)

// SetupLogging logs to stdout and, when logFile is set, to that file too.
// The returned function closes the file.
func SetupLogging(logFile string, verbose bool) (func() error, error) {
	var w io.Writer = os.Stdout
	closeFn := func() error { return nil }
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, f)
		closeFn = f.Close
	}
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closeFn, nil
}

// DefaultLogFile returns a timestamped log file name.
func DefaultLogFile() string {
	return "activity_sim_" + time.Now().Format("20060102_150405") + ".log"
}

// ShowHelp prints usage information.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Alumni Portal Activity Simulator
================================

Submits generated activities to a running portal, mixes in resubmitted
event ids, waits for the workers to apply them and verifies the leaderboard.

Usage:
  go run ./cmd/activity-sim [options]

Options:
  -url string         Base URL of the service (default "http://localhost:9080")
  -activities int     Number of activities to generate (default 1000)
  -duplicates float   Share of activities resubmitted with the same event id (default 0.1)
  -top int            Leaderboard entries to verify (default 20)
  -workers int        Concurrent submitters (default CPU cores * 2)
  -timeout duration   HTTP request timeout (default 10s)
  -settle duration    Time allowed for workers to apply activities (default 30s)
  -seed uint          Random seed, 0 for time-based
  -output string      Write generated activities to this JSON file
  -log string         Also log to this file
  -verbose            Enable debug logging
  -help               Show this help message
`)
}
