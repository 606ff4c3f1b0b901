// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	validator "github.com/AccelByte/justice-input-validation-go"
)

// TemplateRow is one row of the template source as handed over by the loader.
type TemplateRow struct {
	ID               uint32  `json:"id"`
	AllianceStartLoc *uint32 `json:"alliance_start_loc,omitempty"`
	HordeStartLoc    *uint32 `json:"horde_start_loc,omitempty"`
	StartMaxDist     float32 `json:"start_max_dist"`
	Weight           int     `json:"weight"      valid:"range(0|255)"`
	ScriptName       string  `json:"script_name"`
}

func (r *TemplateRow) Validate() error {
	if _, err := validator.ValidateStruct(r); err != nil {
		return err
	}
	if r.ID == 0 {
		return ValidationErrorZeroTypeID
	}
	if r.StartMaxDist < 0 {
		return ValidationErrorNegativeDistance
	}
	return nil
}

// BattlemasterEntry carries the static per-type data: kind, team size and level bounds.
type BattlemasterEntry struct {
	ID         uint32       `json:"id"`
	Kind       TemplateKind `json:"kind"`
	MinPlayers int          `json:"min_players" valid:"range(0|65535)"`
	MaxPlayers int          `json:"max_players" valid:"range(0|65535)"`
	MinLevel   int          `json:"min_level"   valid:"range(0|255)"`
	MaxLevel   int          `json:"max_level"   valid:"range(0|255)"`
}

func (e *BattlemasterEntry) Validate() error {
	if _, err := validator.ValidateStruct(e); err != nil {
		return err
	}
	if e.MinPlayers > e.MaxPlayers {
		return ValidationErrorTeamSize
	}
	if e.MinLevel > e.MaxLevel {
		return ValidationErrorLevelRange
	}
	return nil
}

// MapAssignment places a map into the pool of a type.
type MapAssignment struct {
	TypeID uint32 `json:"type_id"`
	MapID  uint32 `json:"map_id"`
}

// BracketRow describes one bracket of a map.
type BracketRow struct {
	MapID     uint32 `json:"map_id"`
	BracketID int    `json:"bracket_id" valid:"range(0|255)"`
	MinLevel  int    `json:"min_level"  valid:"range(0|255)"`
	MaxLevel  int    `json:"max_level"  valid:"range(0|255)"`
}

func (r *BracketRow) Validate() error {
	if _, err := validator.ValidateStruct(r); err != nil {
		return err
	}
	if r.MinLevel > r.MaxLevel {
		return ValidationErrorLevelRange
	}
	return nil
}

// ScriptRow binds a script name to a map, optionally restricted to a type.
// A zero TypeID applies to every type played on the map.
type ScriptRow struct {
	MapID      uint32 `json:"map_id"`
	TypeID     uint32 `json:"type_id"`
	ScriptName string `json:"script_name"`
}

// BattlemasterRow binds a creature entry to the type it offers.
type BattlemasterRow struct {
	Entry  uint32 `json:"entry"`
	TypeID uint32 `json:"bg_template"`
}
