// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package queue schedules matchmaking queue re-evaluation: coalesced on-demand updates
// and the forced periodic sweep of rated arena queues.
package queue

import (
	"slices"
	"sync"
	"time"

	"github.com/AccelByte/extend-battleground-manager/pkg/models"
)

// ScheduledUpdate is one pending queue re-evaluation.
type ScheduledUpdate struct {
	Rating  uint32
	QueueID models.QueueTypeID
	Bracket models.BracketID
}

// ApplyFunc re-evaluates one queue bracket.
type ApplyFunc func(rating uint32, queueID models.QueueTypeID, bracket models.BracketID, elapsed time.Duration)

// Scheduler coalesces update requests between two drains. Schedule may be called from
// any goroutine; DrainAndApply is called by the tick loop only.
type Scheduler struct {
	mu      sync.Mutex
	pending []ScheduledUpdate
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule queues an update unless the same update is already pending.
// It reports whether the update was added.
func (s *Scheduler) Schedule(rating uint32, queueID models.QueueTypeID, bracket models.BracketID) bool {
	update := ScheduledUpdate{Rating: rating, QueueID: queueID, Bracket: bracket}

	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.pending, update) {
		return false
	}
	s.pending = append(s.pending, update)
	return true
}

// Pending returns the number of distinct updates waiting for the next drain.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// DrainAndApply takes the whole pending list and applies it in insertion order.
// Updates scheduled while apply runs land in the next drain.
func (s *Scheduler) DrainAndApply(elapsed time.Duration, apply ApplyFunc) int {
	s.mu.Lock()
	scheduled := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, update := range scheduled {
		apply(update.Rating, update.QueueID, update.Bracket, elapsed)
	}
	return len(scheduled)
}
