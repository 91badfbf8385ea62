package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/alumni/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DataFile, convey.ShouldBeEmpty)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.ActivityQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.BonusMinScore, convey.ShouldEqual, 100)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with invalid settings", t, func() {
		cases := map[string]func(*config.Config){
			"addr must not be empty":                func(c *config.Config) { c.Addr = "" },
			"max_leaderboard_limit must be positive": func(c *config.Config) { c.MaxLeaderboardLimit = 0 },
			"queue_size must be positive":            func(c *config.Config) { c.ActivityQueueSize = -1 },
			"worker_count must be positive":          func(c *config.Config) { c.WorkerCount = 0 },
			"dedupe_size must be positive":           func(c *config.Config) { c.DedupeSize = -5 },
			"bonus_min_score must not be negative":   func(c *config.Config) { c.BonusMinScore = -1 },
		}

		convey.Convey("Then each should fail with ErrInvalidConfig", func() {
			for msg, mutate := range cases {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, msg)
			}
		})
	})
}
