// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package constants

import "time"

// Battlemaster list ids with a special meaning to the manager.
const (
	TypeNone        uint32 = 0
	TypeAlteracV    uint32 = 1
	TypeWarsong     uint32 = 2
	TypeArathi      uint32 = 3
	TypeNagrand     uint32 = 4
	TypeBladesEdge  uint32 = 5
	TypeAllArenas   uint32 = 6
	TypeEyeOfStorm  uint32 = 7
	TypeRuinsLorder uint32 = 8
	TypeStrand      uint32 = 9
	TypeDalaran     uint32 = 10
	TypeRingValor   uint32 = 11
	TypeIsleConq    uint32 = 30
	TypeRandom      uint32 = 32
	TypeTwinPeaks   uint32 = 108
	TypeGilneas     uint32 = 120
	TypeRandomEpic  uint32 = 901
)

// Arena team sizes.
const (
	ArenaType2v2 uint8 = 2
	ArenaType3v3 uint8 = 3
	ArenaType5v5 uint8 = 5
)

const (
	// BracketIDFirst is the lowest bracket id.
	BracketIDFirst = 0
	// MaxBattlegroundBrackets is the default number of brackets per template.
	MaxBattlegroundBrackets = 16
)

const (
	// ObjectiveUpdateInterval is the default threshold between instance sweeps.
	ObjectiveUpdateInterval = 1000 * time.Millisecond
	// DefaultMaxRatingDifference replaces a configured rating difference of zero.
	DefaultMaxRatingDifference uint32 = 5000
)

const (
	CreateInstanceFunction = "createInstance"
	TickFunction           = "tick"
	SweepFunction          = "sweepAndReap"

	// creation failure reasons.
	ReasonTemplateNotFound  = "template_not_found"
	ReasonBracketNotFound   = "bracket_not_found"
	ReasonDuplicateInstance = "duplicate_instance"
	ReasonInvalidTransition = "invalid_transition"
)
