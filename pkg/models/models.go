// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package models holds the data types shared by the battleground manager packages:
// template catalog rows, immutable match templates, brackets and queue identifiers.
package models

import (
	"fmt"

	"github.com/AccelByte/extend-battleground-manager/pkg/constants"
)

// TypeID is a battlemaster list id. It identifies a template, which may be a
// concrete map or a category resolving to several maps.
type TypeID uint32

// BracketID partitions a template by level range.
type BracketID uint8

// TypeNone is the wildcard type id used by lookups.
const TypeNone TypeID = TypeID(constants.TypeNone)

func (t TypeID) String() string {
	return fmt.Sprintf("bg-type-%d", uint32(t))
}

// IsArena reports whether the type id belongs to an arena. Arenas do not expose
// client visible instance ids.
func (t TypeID) IsArena() bool {
	switch uint32(t) {
	case constants.TypeAllArenas,
		constants.TypeBladesEdge,
		constants.TypeNagrand,
		constants.TypeDalaran,
		constants.TypeRingValor,
		constants.TypeRuinsLorder:
		return true
	}
	return false
}

// IsRandom reports whether the type id is a random category spanning several templates.
func (t TypeID) IsRandom() bool {
	return uint32(t) == constants.TypeRandom || uint32(t) == constants.TypeRandomEpic
}

// TemplateKind is the battlemaster type of a template.
type TemplateKind uint8

const (
	KindBattleground TemplateKind = iota
	KindArena
)

// Team indexes per-faction data.
type Team int

const (
	TeamAlliance Team = iota
	TeamHorde
	TeamCount
)

// StartLocation is a resolved world safe location.
type StartLocation struct {
	ID          uint32  `json:"id"`
	MapID       uint32  `json:"map_id"`
	X           float32 `json:"x"`
	Y           float32 `json:"y"`
	Z           float32 `json:"z"`
	Orientation float32 `json:"orientation"`
}

// MatchTemplate is the immutable blueprint of a battleground type.
// Templates are built by the registry at load time and never mutated afterwards.
type MatchTemplate struct {
	ID                TypeID
	Kind              TemplateKind
	MapIDs            []uint32
	MinPlayersPerTeam uint16
	MaxPlayersPerTeam uint16
	MinLevel          uint8
	MaxLevel          uint8
	Weight            uint8
	MaxStartDistSq    float32
	ScriptName        string
	StartLocations    [TeamCount]*StartLocation
}

func (t *MatchTemplate) IsArena() bool {
	return t.Kind == KindArena
}

// FirstMapID returns the map an instance of this template is created on.
func (t *MatchTemplate) FirstMapID() (uint32, bool) {
	if len(t.MapIDs) == 0 {
		return 0, false
	}
	return t.MapIDs[0], true
}

// RequiresStartLocations reports whether the template must carry a start
// location per faction. All-arenas and random categories never do.
func (t *MatchTemplate) RequiresStartLocations() bool {
	return uint32(t.ID) != constants.TypeAllArenas && !t.ID.IsRandom()
}

// Bracket is a level range partition of a map.
type Bracket struct {
	MapID    uint32
	ID       BracketID
	MinLevel uint8
	MaxLevel uint8
}

// ContainsLevel reports whether level falls into the bracket.
func (b Bracket) ContainsLevel(level uint8) bool {
	return level >= b.MinLevel && level <= b.MaxLevel
}
