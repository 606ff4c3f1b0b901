// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"fmt"

	"github.com/AccelByte/extend-battleground-manager/pkg/constants"
)

// QueueIDType is the kind of matchmaking queue.
type QueueIDType uint8

const (
	QueueBattleground QueueIDType = iota
	QueueArena
	QueueWargame
	QueueCheatTest
	QueueArenaSkirmish
)

// QueueTypeID identifies one matchmaking queue. It is comparable and used as a map key.
type QueueTypeID struct {
	BattlemasterListID uint16
	Type               QueueIDType
	Rated              bool
	TeamSize           uint8
}

func (q QueueTypeID) String() string {
	return fmt.Sprintf("queue-%d-%d-rated:%t-%dv%d", q.BattlemasterListID, q.Type, q.Rated, q.TeamSize, q.TeamSize)
}

// TypeID returns the template type the queue draws from.
func (q QueueTypeID) TypeID() TypeID {
	return TypeID(q.BattlemasterListID)
}

// NewQueueTypeID builds a queue id.
func NewQueueTypeID(typeID TypeID, queueType QueueIDType, rated bool, teamSize uint8) QueueTypeID {
	return QueueTypeID{
		BattlemasterListID: uint16(typeID),
		Type:               queueType,
		Rated:              rated,
		TeamSize:           teamSize,
	}
}

// RatedArenaQueueID is the queue swept by the forced rated update for one team size.
func RatedArenaQueueID(teamSize uint8) QueueTypeID {
	return NewQueueTypeID(TypeID(constants.TypeAllArenas), QueueArena, true, teamSize)
}

// IsValidQueueID checks the queue id against the kind of the template it references.
func IsValidQueueID(q QueueTypeID, template *MatchTemplate) bool {
	if template == nil {
		return false
	}

	switch q.Type {
	case QueueBattleground:
		if template.Kind != KindBattleground {
			return false
		}
		if q.TeamSize != 0 {
			return false
		}
	case QueueArena:
		if template.Kind != KindArena {
			return false
		}
		if !q.Rated {
			return false
		}
		if q.TeamSize == 0 {
			return false
		}
	case QueueWargame:
		if q.Rated {
			return false
		}
	case QueueArenaSkirmish:
		if template.Kind != KindArena {
			return false
		}
		if !q.Rated {
			return false
		}
		if q.TeamSize != constants.ArenaType3v3 {
			return false
		}
	default:
		return false
	}

	return true
}
