// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"errors"
)

var (
	ValidationErrorZeroTypeID       = errors.New("template id cannot be 0")
	ValidationErrorNegativeDistance = errors.New("start max distance cannot be negative")
	ValidationErrorTeamSize         = errors.New("min players per team should not exceed max players per team")
	ValidationErrorLevelRange       = errors.New("min level should not exceed max level")
	ValidationErrorUnknownType      = errors.New("type id not found in battlemaster list")
	ValidationErrorUnknownMap       = errors.New("map id does not exist")
	ValidationErrorStartLocation    = errors.New("start location does not exist")
	ValidationErrorAmbiguousMap     = errors.New("map is owned by more than one single-map template")
)

var validationErrorCodeMap = map[error]int{
	ValidationErrorZeroTypeID:       520101,
	ValidationErrorNegativeDistance: 520102,
	ValidationErrorTeamSize:         520103,
	ValidationErrorLevelRange:       520104,
	ValidationErrorUnknownType:      520105,
	ValidationErrorUnknownMap:       520106,
	ValidationErrorStartLocation:    520107,
	ValidationErrorAmbiguousMap:     520108,
}

// ValidationErrorCode returns a code for the error.
// Wrapped errors are unwrapped; unregistered errors map to 20002.
func ValidationErrorCode(err error) int {
	for key, code := range validationErrorCodeMap {
		if errors.Is(err, key) {
			return code
		}
	}
	return 20002
}
