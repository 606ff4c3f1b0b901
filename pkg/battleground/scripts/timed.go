// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package scripts provides the in-match scripts the service runs when no ruleset is
// plugged in: fixed-length phases driving an instance through its status machine.
package scripts

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-battleground-manager/pkg/battleground"
	"github.com/AccelByte/extend-battleground-manager/pkg/models"
)

// Phases are the durations of the three timed phases of a match.
type Phases struct {
	JoinWindow  time.Duration
	MatchLength time.Duration
	LeaveWindow time.Duration
}

var (
	DefaultBattlegroundPhases = Phases{JoinWindow: 2 * time.Minute, MatchLength: 25 * time.Minute, LeaveWindow: 2 * time.Minute}
	DefaultArenaPhases        = Phases{JoinWindow: time.Minute, MatchLength: 47 * time.Minute, LeaveWindow: 2 * time.Minute}
)

// Timed moves WaitJoin to InProgress after the join window, InProgress to WaitLeave
// after the match length and finishes after the leave window.
type Timed struct {
	phases     Phases
	phaseTimer time.Duration
	inProgress time.Duration
	logger     *logrus.Entry
}

func NewTimed(phases Phases, logger *logrus.Entry) *Timed {
	return &Timed{phases: phases, logger: logger}
}

func (t *Timed) Update(inst *battleground.Instance, elapsed time.Duration) battleground.Progress {
	t.phaseTimer += elapsed

	switch inst.Status() {
	case battleground.StatusWaitJoin:
		if t.phaseTimer >= t.phases.JoinWindow {
			t.advance(inst, battleground.StatusInProgress)
		}
	case battleground.StatusInProgress:
		t.inProgress += elapsed
		if t.phaseTimer >= t.phases.MatchLength {
			t.advance(inst, battleground.StatusWaitLeave)
		}
	case battleground.StatusWaitLeave:
		if t.phaseTimer >= t.phases.LeaveWindow {
			return battleground.Progress{Done: true, Elapsed: t.inProgress}
		}
	}

	remaining := time.Duration(0)
	if inst.Status() == battleground.StatusInProgress && t.phases.MatchLength > t.phaseTimer {
		remaining = t.phases.MatchLength - t.phaseTimer
	}
	return battleground.Progress{Elapsed: t.inProgress, Remaining: remaining}
}

func (t *Timed) advance(inst *battleground.Instance, next battleground.Status) {
	if err := inst.SetStatus(next); err != nil {
		t.logger.WithError(err).Warnf("battleground %d did not advance", inst.InstanceID())
		return
	}
	t.phaseTimer = 0
}

// ScriptLookup resolves the script name bound to a map.
type ScriptLookup interface {
	Find(mapID uint32, typeID models.TypeID) (string, bool)
}

// Factory builds timed scripts. Phases are picked by script name first, then by kind.
type Factory struct {
	Lookup       ScriptLookup
	ByScriptName map[string]Phases
	Logger       *logrus.Entry
}

func (f *Factory) NewScript(template *models.MatchTemplate, mapID uint32) battleground.Script {
	logger := f.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	name := template.ScriptName
	if f.Lookup != nil {
		if bound, ok := f.Lookup.Find(mapID, template.ID); ok {
			name = bound
		}
	}
	if phases, ok := f.ByScriptName[name]; ok {
		return NewTimed(phases, logger)
	}
	if template.IsArena() {
		return NewTimed(DefaultArenaPhases, logger)
	}
	return NewTimed(DefaultBattlegroundPhases, logger)
}
