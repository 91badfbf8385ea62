package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/alumni/internal/activitysim"
)

// Default configuration constants.
const (
	defaultActivities  = 1000
	defaultDuplicates  = 0.1
	defaultTopN        = 20
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultSettle      = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		activities = flag.Int("activities", defaultActivities, "Number of activities to generate")
		duplicates = flag.Float64("duplicates", defaultDuplicates, "Share of activities resubmitted with the same event id")
		topN       = flag.Int("top", defaultTopN, "Leaderboard entries to verify")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Concurrent submitters")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		settle     = flag.Duration("settle", defaultSettle, "Time allowed for workers to apply activities")
		seed       = flag.Uint64("seed", 0, "Random seed, 0 for time-based")
		outputFile = flag.String("output", "", "Write generated activities to this JSON file")
		logFile    = flag.String("log", "", "Also log to this file")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		activitysim.ShowHelp(os.Stdout)
		return
	}

	closeLog, err := activitysim.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = activitysim.Run(ctx, activitysim.Config{
		BaseURL:        *baseURL,
		NumActivities:  *activities,
		DuplicateRatio: *duplicates,
		TopN:           *topN,
		Workers:        *workers,
		Timeout:        *timeout,
		SettleTimeout:  *settle,
		Seed:           *seed,
		OutputFile:     *outputFile,
		Verbose:        *verbose,
	})
	if err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		stop()
		cancel()
		_ = closeLog()
		os.Exit(1)
	}
}
