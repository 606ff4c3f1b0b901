// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package battleground provides the match instance owned by the instance directory,
// its status state machine and the weak handle external holders keep instead of a pointer.
package battleground

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AccelByte/extend-battleground-manager/pkg/models"
)

var ErrInvalidTransition = errors.New("invalid battleground status transition")

// Status is the lifecycle state of an instance.
type Status uint8

const (
	StatusNone Status = iota
	// StatusWaitQueue is the state right after Reset.
	StatusWaitQueue
	// StatusWaitJoin waits for the invited players to enter.
	StatusWaitJoin
	StatusInProgress
	// StatusWaitLeave is the ending state, the winner is known and players are leaving.
	StatusWaitLeave
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusWaitQueue:
		return "wait_queue"
	case StatusWaitJoin:
		return "wait_join"
	case StatusInProgress:
		return "in_progress"
	case StatusWaitLeave:
		return "wait_leave"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

var allowedTransitions = map[Status][]Status{
	StatusNone:       {StatusWaitQueue},
	StatusWaitQueue:  {StatusWaitJoin},
	StatusWaitJoin:   {StatusInProgress, StatusWaitLeave},
	StatusInProgress: {StatusWaitLeave},
	StatusWaitLeave:  {},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Progress is what a script reports back after advancing an instance.
type Progress struct {
	Done      bool
	Elapsed   time.Duration
	Remaining time.Duration
}

// Script is the in-match logic of an instance. Update is called once per directory
// sweep with the time accumulated since the previous sweep.
type Script interface {
	Update(inst *Instance, elapsed time.Duration) Progress
}

// Params carries everything an instance is constructed from.
type Params struct {
	Template   *models.MatchTemplate
	TypeID     models.TypeID
	InstanceID uint32
	ClientID   uint32
	Bracket    models.Bracket
	MapID      uint32
	TeamSize   uint8
	Rated      bool
	Script     Script
}

// Instance is a running battleground or arena.
type Instance struct {
	template   *models.MatchTemplate
	typeID     models.TypeID
	instanceID uint32
	clientID   uint32
	bracket    models.Bracket
	mapID      uint32
	teamSize   uint8
	rated      bool
	script     Script

	mu          sync.RWMutex
	status      Status
	elapsed     time.Duration
	remaining   time.Duration
	toBeDeleted bool
	handle      Handle
}

func NewInstance(params Params) *Instance {
	return &Instance{
		template:   params.Template,
		typeID:     params.TypeID,
		instanceID: params.InstanceID,
		clientID:   params.ClientID,
		bracket:    params.Bracket,
		mapID:      params.MapID,
		teamSize:   params.TeamSize,
		rated:      params.Rated,
		script:     params.Script,
		status:     StatusNone,
	}
}

func (i *Instance) Template() *models.MatchTemplate { return i.template }
func (i *Instance) TypeID() models.TypeID           { return i.typeID }
func (i *Instance) InstanceID() uint32              { return i.instanceID }
func (i *Instance) ClientID() uint32                { return i.clientID }
func (i *Instance) BracketID() models.BracketID     { return i.bracket.ID }
func (i *Instance) Bracket() models.Bracket         { return i.bracket }
func (i *Instance) MapID() uint32                   { return i.mapID }
func (i *Instance) TeamSize() uint8                 { return i.teamSize }
func (i *Instance) IsRated() bool                   { return i.rated }
func (i *Instance) IsArena() bool                   { return i.template != nil && i.template.IsArena() }

// TeamStartPosition returns the start location of a faction, nil for arenas.
func (i *Instance) TeamStartPosition(team models.Team) *models.StartLocation {
	if i.template == nil || team < 0 || team >= models.TeamCount {
		return nil
	}
	return i.template.StartLocations[team]
}

func (i *Instance) Status() Status {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.status
}

// Reset moves a freshly created instance into the queue-waiting state.
func (i *Instance) Reset() error {
	return i.SetStatus(StatusWaitQueue)
}

// SetStatus performs one state machine transition.
func (i *Instance) SetStatus(next Status) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !CanTransition(i.status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, i.status, next)
	}
	i.status = next
	return nil
}

// ElapsedTime is the displayed elapsed match time as last reported by the script.
func (i *Instance) ElapsedTime() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.elapsed
}

// RemainingTime is the displayed remaining match time as last reported by the script.
func (i *Instance) RemainingTime() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.remaining
}

// MarkForDeletion flags the instance for removal at the next sweep. It cannot be undone.
func (i *Instance) MarkForDeletion() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.toBeDeleted = true
}

func (i *Instance) ToBeDeleted() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.toBeDeleted
}

// Handle returns the weak reference of a registered instance, the zero handle before insertion.
func (i *Instance) Handle() Handle {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.handle
}

// Bind is called by the directory on insertion.
func (i *Instance) Bind(handle Handle) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.handle = handle
}

// Advance runs the script and reports whether the instance is finished. The script
// runs without the instance lock held so it may call SetStatus.
func (i *Instance) Advance(elapsed time.Duration) bool {
	if i.ToBeDeleted() {
		return true
	}
	if i.script == nil {
		return false
	}

	progress := i.script.Update(i, elapsed)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.elapsed = progress.Elapsed
	i.remaining = progress.Remaining
	if progress.Done {
		i.toBeDeleted = true
	}
	return i.toBeDeleted
}
