// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package battleground

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/extend-battleground-manager/pkg/models"
)

type scriptFunc func(inst *Instance, elapsed time.Duration) Progress

func (f scriptFunc) Update(inst *Instance, elapsed time.Duration) Progress {
	return f(inst, elapsed)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusNone, StatusWaitQueue, true},
		{StatusNone, StatusWaitJoin, false},
		{StatusWaitQueue, StatusWaitJoin, true},
		{StatusWaitQueue, StatusInProgress, false},
		{StatusWaitJoin, StatusInProgress, true},
		{StatusWaitJoin, StatusWaitLeave, true},
		{StatusInProgress, StatusWaitLeave, true},
		{StatusInProgress, StatusWaitJoin, false},
		{StatusWaitLeave, StatusNone, false},
		{StatusWaitLeave, StatusInProgress, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestInstance_Lifecycle(t *testing.T) {
	inst := NewInstance(Params{TypeID: models.TypeID(2), InstanceID: 10, ClientID: 1, MapID: 489})
	assert.Equal(t, StatusNone, inst.Status())

	require.NoError(t, inst.Reset())
	assert.Equal(t, StatusWaitQueue, inst.Status())

	err := inst.SetStatus(StatusWaitLeave)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, StatusWaitQueue, inst.Status())

	require.NoError(t, inst.SetStatus(StatusWaitJoin))
	require.NoError(t, inst.SetStatus(StatusInProgress))
	require.NoError(t, inst.SetStatus(StatusWaitLeave))

	assert.Error(t, inst.Reset())
}

func TestInstance_Advance(t *testing.T) {
	calls := 0
	script := scriptFunc(func(inst *Instance, elapsed time.Duration) Progress {
		calls++
		// scripts may drive the status machine from inside Update
		if inst.Status() == StatusWaitJoin {
			_ = inst.SetStatus(StatusInProgress)
		}
		return Progress{Done: calls == 3, Elapsed: time.Duration(calls) * elapsed, Remaining: time.Minute}
	})

	inst := NewInstance(Params{TypeID: models.TypeID(2), InstanceID: 10, Script: script})
	require.NoError(t, inst.Reset())
	require.NoError(t, inst.SetStatus(StatusWaitJoin))

	assert.False(t, inst.Advance(time.Second))
	assert.Equal(t, StatusInProgress, inst.Status())
	assert.Equal(t, time.Second, inst.ElapsedTime())
	assert.Equal(t, time.Minute, inst.RemainingTime())

	assert.False(t, inst.Advance(time.Second))
	assert.True(t, inst.Advance(time.Second))
	assert.True(t, inst.ToBeDeleted())
	assert.Equal(t, 3*time.Second, inst.ElapsedTime())

	// once finished the script is not run again
	assert.True(t, inst.Advance(time.Second))
	assert.Equal(t, 3, calls)
}

func TestInstance_AdvanceWithoutScript(t *testing.T) {
	inst := NewInstance(Params{TypeID: models.TypeID(2), InstanceID: 10})
	assert.False(t, inst.Advance(time.Hour))

	inst.MarkForDeletion()
	assert.True(t, inst.Advance(time.Millisecond))
}

func TestInstance_TeamStartPosition(t *testing.T) {
	alliance := &models.StartLocation{ID: 1, MapID: 489}
	horde := &models.StartLocation{ID: 2, MapID: 489}
	template := &models.MatchTemplate{
		ID:             models.TypeID(2),
		Kind:           models.KindBattleground,
		MapIDs:         []uint32{489},
		StartLocations: [models.TeamCount]*models.StartLocation{alliance, horde},
	}
	inst := NewInstance(Params{Template: template, TypeID: template.ID, InstanceID: 1})

	assert.Same(t, alliance, inst.TeamStartPosition(models.TeamAlliance))
	assert.Same(t, horde, inst.TeamStartPosition(models.TeamHorde))
	assert.Nil(t, inst.TeamStartPosition(models.TeamCount))
	assert.False(t, inst.IsArena())
}

func TestHandle(t *testing.T) {
	var zero Handle
	assert.True(t, zero.IsZero())

	h := Handle{TypeID: models.TypeID(2), InstanceID: 7, Serial: 3}
	assert.False(t, h.IsZero())
	assert.Equal(t, "2/7#3", h.String())
}
