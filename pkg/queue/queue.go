// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package queue

import (
	"sync"
	"time"

	"github.com/elliotchance/pie/v2"

	"github.com/AccelByte/extend-battleground-manager/pkg/models"
)

// Queue is one matchmaking queue. Its internals live outside the manager.
type Queue interface {
	// UpdateEvents advances the queue's own event timers.
	UpdateEvents(elapsed time.Duration)
	// Update re-evaluates one bracket, trying to pop matches.
	Update(elapsed time.Duration, bracket models.BracketID, rating uint32)
}

// Factory builds the queue of an id on first access.
type Factory interface {
	NewQueue(id models.QueueTypeID) Queue
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(id models.QueueTypeID) Queue

func (f FactoryFunc) NewQueue(id models.QueueTypeID) Queue {
	return f(id)
}

// Set holds the queues created so far.
type Set struct {
	mu      sync.RWMutex
	queues  map[models.QueueTypeID]Queue
	factory Factory
}

func NewSet(factory Factory) *Set {
	return &Set{
		queues:  map[models.QueueTypeID]Queue{},
		factory: factory,
	}
}

// Get returns the queue of id, creating it when needed.
func (s *Set) Get(id models.QueueTypeID) Queue {
	s.mu.RLock()
	q, ok := s.queues[id]
	s.mu.RUnlock()
	if ok {
		return q
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok = s.queues[id]; ok {
		return q
	}
	q = s.factory.NewQueue(id)
	s.queues[id] = q
	return q
}

// Snapshot returns the queues created so far, ordered by id.
func (s *Set) Snapshot() []Queue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := pie.SortUsing(pie.Keys(s.queues), lessQueueID)
	return pie.Map(ids, func(id models.QueueTypeID) Queue { return s.queues[id] })
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.queues)
}

func lessQueueID(a, b models.QueueTypeID) bool {
	if a.BattlemasterListID != b.BattlemasterListID {
		return a.BattlemasterListID < b.BattlemasterListID
	}
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	if a.Rated != b.Rated {
		return !a.Rated
	}
	return a.TeamSize < b.TeamSize
}
