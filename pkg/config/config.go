// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"time"

	"github.com/caarlos0/env"
)

type Config struct {
	ObjectiveUpdateIntervalMs int   `env:"OBJECTIVE_UPDATE_INTERVAL_MS"           envDefault:"1000"   envDocs:"accumulated tick time after which live battlegrounds are advanced and finished ones reaped"`
	RatedUpdateTimerMs        int   `env:"ARENA_RATED_UPDATE_TIMER_MS"            envDefault:"5000"   envDocs:"interval of the forced rated arena queue sweep (0 disables it)"`
	MaxRatingDifference       int   `env:"ARENA_MAX_RATING_DIFFERENCE"            envDefault:"150"    envDocs:"max matchmaking rating difference in rated arenas (0 disables the forced sweep)"`
	RatingDiscardTimerMs      int   `env:"ARENA_RATING_DISCARD_TIMER_MS"          envDefault:"600000" envDocs:"time after which the rating difference is ignored"`
	PrematureFinishTimerMs    int   `env:"BATTLEGROUND_PREMATURE_FINISH_TIMER_MS" envDefault:"300000" envDocs:"time a battleground keeps running with too few players"`
	RatedTeamSizes            []int `env:"ARENA_RATED_TEAM_SIZES"                 envDefault:"2,3,5"  envDocs:"team sizes of the rated arena queues swept by the forced update"  envSeparator:","`
	BracketCount              int   `env:"BATTLEGROUND_BRACKET_COUNT"             envDefault:"16"     envDocs:"number of brackets per queue"`
	ActiveHolidays            []int `env:"ACTIVE_HOLIDAYS"                        envDefault:""       envDocs:"calendar events currently running"                             envSeparator:","`

	TickIntervalMs int    `env:"TICK_INTERVAL_MS" envDefault:"50"    envDocs:"server heartbeat"`
	TemplateFile   string `env:"TEMPLATE_FILE"    envDefault:""      envDocs:"path of the json template catalog"`
	LogLevel       string `env:"LOG_LEVEL"        envDefault:"info"  envDocs:"logrus level"`
	LogFile        string `env:"LOG_FILE"         envDefault:""      envDocs:"optional rotated log file"`
	MetricsAddress string `env:"METRICS_ADDRESS"  envDefault:":8080" envDocs:"prometheus listen address"`
	GRPCAddress    string `env:"GRPC_ADDRESS"     envDefault:":6565" envDocs:"grpc health listen address"`
	ZipkinURL      string `env:"ZIPKIN_URL"       envDefault:""      envDocs:"zipkin collector endpoint, tracing is disabled when empty"`
	RedisAddress   string `env:"REDIS_ADDRESS"    envDefault:""      envDocs:"redis address of the instance status store, disabled when empty"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ObjectiveUpdateInterval() time.Duration {
	return time.Duration(c.ObjectiveUpdateIntervalMs) * time.Millisecond
}

func (c *Config) RatedUpdateInterval() time.Duration {
	return time.Duration(c.RatedUpdateTimerMs) * time.Millisecond
}

func (c *Config) RatingDiscardTimer() time.Duration {
	return time.Duration(c.RatingDiscardTimerMs) * time.Millisecond
}

func (c *Config) PrematureFinishTimer() time.Duration {
	return time.Duration(c.PrematureFinishTimerMs) * time.Millisecond
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// ForcedRatedSweepEnabled requires both the rating difference and the timer to be set.
func (c *Config) ForcedRatedSweepEnabled() bool {
	return c.MaxRatingDifference != 0 && c.RatedUpdateTimerMs != 0
}

// RatedTeamSizesUint8 returns the rated team sizes, dropping values out of range.
func (c *Config) RatedTeamSizesUint8() []uint8 {
	sizes := make([]uint8, 0, len(c.RatedTeamSizes))
	for _, size := range c.RatedTeamSizes {
		if size <= 0 || size > 255 {
			continue
		}
		sizes = append(sizes, uint8(size))
	}
	return sizes
}
