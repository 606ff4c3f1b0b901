// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package manager

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/AccelByte/extend-battleground-manager/pkg/constants"
	"github.com/AccelByte/extend-battleground-manager/pkg/envelope"
	"github.com/AccelByte/extend-battleground-manager/pkg/models"
)

// Tick is the per-heartbeat update. It must be called from a single goroutine.
// The steps run in order; a panic in one of them is logged and the next still runs.
func (m *Manager) Tick(ctx context.Context, elapsed time.Duration) {
	scope := envelope.NewTickScope(ctx, m.logger)
	defer scope.Finish()
	scope.SetAttributes("elapsed", elapsed)

	started := time.Now()

	m.guard(scope, "sweepAndReap", func() { m.sweepAndReap(scope, elapsed) })
	m.guard(scope, "queueEvents", func() { m.updateQueueEvents(elapsed) })
	m.guard(scope, "scheduledUpdates", func() { m.applyScheduledUpdates(scope, elapsed) })
	m.guard(scope, "ratedSweep", func() {
		if m.ratedSweep.Advance(elapsed) {
			m.forceRatedUpdate(scope, elapsed)
		}
	})

	if m.metrics != nil {
		m.metrics.AddElapsedTimeMs(constants.TickFunction, time.Since(started))
	}
}

func (m *Manager) guard(scope *envelope.Scope, step string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("tick step %s panicked: %v", step, r)
			scope.RecordError(err)
			scope.Log.WithField("stack", string(debug.Stack())).Error(err.Error())
		}
	}()
	fn()
}

// sweepAndReap accumulates elapsed time and advances the instances once the
// accumulator passes the objective update interval. The accumulator restarts from zero.
func (m *Manager) sweepAndReap(scope *envelope.Scope, elapsed time.Duration) {
	m.updateTimer += elapsed
	if m.updateTimer <= m.opts.ObjectiveUpdateInterval {
		return
	}
	accumulated := m.updateTimer
	m.updateTimer = 0

	started := time.Now()
	removed := m.directory.SweepAndReap(accumulated)
	for _, inst := range removed {
		scope.Log.Debugf("reaped battleground %d (type %s, client id %d)", inst.InstanceID(), inst.TypeID(), inst.ClientID())
		m.notifyReaped(inst)
	}
	if m.metrics != nil {
		m.metrics.AddElapsedTimeMs(constants.SweepFunction, time.Since(started))
	}
}

func (m *Manager) updateQueueEvents(elapsed time.Duration) {
	for _, q := range m.queues.Snapshot() {
		q.UpdateEvents(elapsed)
	}
}

func (m *Manager) applyScheduledUpdates(scope *envelope.Scope, elapsed time.Duration) {
	applied := m.scheduler.DrainAndApply(elapsed, func(rating uint32, queueID models.QueueTypeID, bracket models.BracketID, elapsed time.Duration) {
		m.guard(scope, "scheduledUpdate "+queueID.String(), func() {
			m.queues.Get(queueID).Update(elapsed, bracket, rating)
		})
	})
	if m.metrics != nil {
		m.metrics.AddScheduledQueueUpdates(applied)
	}
}

// forceRatedUpdate re-evaluates every bracket of every rated arena queue with no
// rating hint, so queues that received no join still widen their rating window.
func (m *Manager) forceRatedUpdate(scope *envelope.Scope, elapsed time.Duration) {
	scope.Log.Trace("forcing rated arena queue update")
	for _, teamSize := range m.opts.RatedTeamSizes {
		q := m.queues.Get(models.RatedArenaQueueID(teamSize))
		for bracket := constants.BracketIDFirst; bracket < m.opts.BracketCount; bracket++ {
			q.Update(elapsed, models.BracketID(bracket), 0)
		}
	}
	if m.metrics != nil {
		m.metrics.AddForcedRatedSweep()
	}
}
