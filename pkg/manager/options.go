// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package manager

import (
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-battleground-manager/pkg/battleground"
	"github.com/AccelByte/extend-battleground-manager/pkg/config"
	"github.com/AccelByte/extend-battleground-manager/pkg/constants"
	"github.com/AccelByte/extend-battleground-manager/pkg/metrics"
	"github.com/AccelByte/extend-battleground-manager/pkg/models"
	"github.com/AccelByte/extend-battleground-manager/pkg/queue"
	"github.com/AccelByte/extend-battleground-manager/pkg/templates"
)

// InstanceIDAllocator hands out the globally unique instance ids of the world.
type InstanceIDAllocator interface {
	GenerateInstanceID() uint32
}

// BracketResolver finds the bracket entry of a map.
type BracketResolver interface {
	BracketByID(mapID uint32, id models.BracketID) (models.Bracket, bool)
}

// ScriptFactory builds the in-match logic of a new instance. It may return nil for
// instances driven entirely from outside.
type ScriptFactory interface {
	NewScript(template *models.MatchTemplate, mapID uint32) battleground.Script
}

// HolidayCalendar reports running calendar events.
type HolidayCalendar interface {
	IsHolidayActive(holiday models.HolidayID) bool
}

// Listener observes the instance lifecycle. Callbacks run on the goroutine that
// created or reaped the instance and must not block.
type Listener interface {
	InstanceCreated(inst *battleground.Instance)
	InstanceReaped(inst *battleground.Instance)
}

// Options are the plain configuration values of the manager.
type Options struct {
	ObjectiveUpdateInterval time.Duration
	RatedUpdateInterval     time.Duration
	MaxRatingDifference     uint32
	RatingDiscardTimer      time.Duration
	PrematureFinishTime     time.Duration
	RatedTeamSizes          []uint8
	BracketCount            int
}

// DefaultOptions mirrors the config defaults.
func DefaultOptions() Options {
	return Options{
		ObjectiveUpdateInterval: constants.ObjectiveUpdateInterval,
		RatedUpdateInterval:     5 * time.Second,
		MaxRatingDifference:     150,
		RatingDiscardTimer:      10 * time.Minute,
		PrematureFinishTime:     5 * time.Minute,
		RatedTeamSizes:          []uint8{constants.ArenaType2v2, constants.ArenaType3v3, constants.ArenaType5v5},
		BracketCount:            constants.MaxBattlegroundBrackets,
	}
}

func OptionsFromConfig(cfg *config.Config) Options {
	maxRatingDifference := uint32(0)
	if cfg.MaxRatingDifference > 0 {
		maxRatingDifference = uint32(cfg.MaxRatingDifference)
	}
	bracketCount := cfg.BracketCount
	if bracketCount <= 0 {
		bracketCount = constants.MaxBattlegroundBrackets
	}

	return Options{
		ObjectiveUpdateInterval: nonNegative(cfg.ObjectiveUpdateInterval()),
		RatedUpdateInterval:     nonNegative(cfg.RatedUpdateInterval()),
		MaxRatingDifference:     maxRatingDifference,
		RatingDiscardTimer:      nonNegative(cfg.RatingDiscardTimer()),
		PrematureFinishTime:     nonNegative(cfg.PrematureFinishTimer()),
		RatedTeamSizes:          cfg.RatedTeamSizesUint8(),
		BracketCount:            bracketCount,
	}
}

// nonNegative clamps a negative duration to 0, which disables the timer.
func nonNegative(d time.Duration) time.Duration {
	return max(d, 0)
}

// Dependencies are the collaborators of the manager. Registry, Brackets, InstanceIDs
// and Queues are required.
type Dependencies struct {
	Registry    *templates.Registry
	Brackets    BracketResolver
	InstanceIDs InstanceIDAllocator
	Scripts     ScriptFactory
	Queues      queue.Factory
	Metrics     metrics.BattlegroundMetrics
	Calendar    HolidayCalendar
	Logger      *logrus.Entry
	// RandSource makes template selection reproducible. Nil uses the global generator.
	RandSource rand.Source
}
