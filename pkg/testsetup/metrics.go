// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"sync"
	"time"

	"github.com/AccelByte/extend-battleground-manager/pkg/metrics"
)

// RecordingMetrics keeps the counters tests assert on.
type RecordingMetrics struct {
	mu               sync.Mutex
	Created          int
	Reaped           int
	Failures         map[string]int
	QueueUpdates     int
	ForcedSweeps     int
	OpenPerMap       map[uint32]int
	ElapsedFunctions map[string]int
}

func (s *RecordingMetrics) InstanceCreated(typeID uint32, bracket uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Created++
}

func (s *RecordingMetrics) InstanceReaped(typeID uint32, bracket uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reaped++
}

func (s *RecordingMetrics) AddCreationFailure(queue string, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Failures == nil {
		s.Failures = map[string]int{}
	}
	s.Failures[reason]++
}

func (s *RecordingMetrics) AddScheduledQueueUpdates(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.QueueUpdates += count
}

func (s *RecordingMetrics) AddForcedRatedSweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ForcedSweeps++
}

func (s *RecordingMetrics) AddElapsedTimeMs(function string, elapsedTime time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ElapsedFunctions == nil {
		s.ElapsedFunctions = map[string]int{}
	}
	s.ElapsedFunctions[function]++
}

func (s *RecordingMetrics) FreeSlotOpenInstances(mapID uint32, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.OpenPerMap == nil {
		s.OpenPerMap = map[uint32]int{}
	}
	s.OpenPerMap[mapID] = count
}

// Snapshot returns the lifecycle counters under the lock.
func (s *RecordingMetrics) Snapshot() (created, reaped, forcedSweeps int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Created, s.Reaped, s.ForcedSweeps
}

func (s *RecordingMetrics) FailureCount(reason string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Failures[reason]
}

func NewMetrics() metrics.BattlegroundMetrics {
	return &RecordingMetrics{}
}
