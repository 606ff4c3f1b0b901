// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package manager drives the battleground lifecycle: it owns the instance and free slot
// directories, the queue update scheduler and the forced rated sweep, creates instances
// from the template catalog and runs the per-tick update.
package manager

import (
	"iter"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-battleground-manager/pkg/battleground"
	"github.com/AccelByte/extend-battleground-manager/pkg/battleground/directory"
	"github.com/AccelByte/extend-battleground-manager/pkg/battleground/freeslot"
	"github.com/AccelByte/extend-battleground-manager/pkg/constants"
	"github.com/AccelByte/extend-battleground-manager/pkg/envelope"
	"github.com/AccelByte/extend-battleground-manager/pkg/metrics"
	"github.com/AccelByte/extend-battleground-manager/pkg/models"
	"github.com/AccelByte/extend-battleground-manager/pkg/queue"
	"github.com/AccelByte/extend-battleground-manager/pkg/templates"
)

// Manager is constructed once by the service and passed to whoever needs it.
type Manager struct {
	opts Options

	registry    *templates.Registry
	brackets    BracketResolver
	instanceIDs InstanceIDAllocator
	scripts     ScriptFactory
	calendar    HolidayCalendar
	metrics     metrics.BattlegroundMetrics
	logger      *logrus.Entry

	directory  *directory.Directory
	freeSlots  *freeslot.Directory
	scheduler  *queue.Scheduler
	queues     *queue.Set
	ratedSweep *queue.RatedSweep
	pool       *models.Pool

	// updateTimer is only touched by Tick
	updateTimer time.Duration

	listenersMu sync.RWMutex
	listeners   []Listener

	rngMu      sync.Mutex
	randSource rand.Source

	testing      atomic.Bool
	arenaTesting atomic.Bool
}

func New(opts Options, deps Dependencies) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	m := &Manager{
		opts:        opts,
		registry:    deps.Registry,
		brackets:    deps.Brackets,
		instanceIDs: deps.InstanceIDs,
		scripts:     deps.Scripts,
		calendar:    deps.Calendar,
		metrics:     deps.Metrics,
		logger:      logger.WithField("component", "bg-manager"),
		directory:   directory.New(),
		scheduler:   queue.NewScheduler(),
		queues:      queue.NewSet(deps.Queues),
		ratedSweep:  queue.NewRatedSweep(opts.RatedUpdateInterval, opts.MaxRatingDifference),
		pool:        models.NewPool(),
		randSource:  deps.RandSource,
	}
	m.freeSlots = freeslot.New(m.directory)
	m.directory.OnRemove(m.onInstanceRemoved)

	return m
}

// onInstanceRemoved runs under the directory write lock.
func (m *Manager) onInstanceRemoved(inst *battleground.Instance) {
	m.freeSlots.Close(inst.MapID(), inst.InstanceID())
	if m.metrics != nil {
		m.metrics.InstanceReaped(uint32(inst.TypeID()), uint8(inst.BracketID()))
		m.metrics.FreeSlotOpenInstances(inst.MapID(), m.freeSlots.Len(inst.MapID()))
	}
}

// AddListener registers a lifecycle observer.
func (m *Manager) AddListener(listener Listener) {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()
	m.listeners = append(m.listeners, listener)
}

func (m *Manager) notifyCreated(inst *battleground.Instance) {
	m.listenersMu.RLock()
	defer m.listenersMu.RUnlock()
	for _, l := range m.listeners {
		l.InstanceCreated(inst)
	}
}

func (m *Manager) notifyReaped(inst *battleground.Instance) {
	m.listenersMu.RLock()
	defer m.listenersMu.RUnlock()
	for _, l := range m.listeners {
		l.InstanceReaped(inst)
	}
}

// Lookup returns a live instance. TypeNone or a random category searches every type.
func (m *Manager) Lookup(instanceID uint32, typeID models.TypeID) *battleground.Instance {
	return m.directory.Lookup(instanceID, typeID)
}

// Resolve returns the instance behind a handle, nil once it has been reaped.
func (m *Manager) Resolve(handle battleground.Handle) *battleground.Instance {
	return m.directory.Resolve(handle)
}

// Instances returns the live instances of a type, every instance for TypeNone.
func (m *Manager) Instances(typeID models.TypeID) []*battleground.Instance {
	return m.directory.Instances(typeID)
}

// OpenFreeSlot offers a ready instance to late joiners.
func (m *Manager) OpenFreeSlot(inst *battleground.Instance) error {
	if err := m.freeSlots.Open(inst); err != nil {
		return err
	}
	if m.metrics != nil {
		m.metrics.FreeSlotOpenInstances(inst.MapID(), m.freeSlots.Len(inst.MapID()))
	}
	return nil
}

// CloseFreeSlot stops offering an instance to late joiners.
func (m *Manager) CloseFreeSlot(mapID uint32, instanceID uint32) {
	m.freeSlots.Close(mapID, instanceID)
	if m.metrics != nil {
		m.metrics.FreeSlotOpenInstances(mapID, m.freeSlots.Len(mapID))
	}
}

// ListOpen yields the instances of a map accepting late joiners, most recently opened first.
func (m *Manager) ListOpen(mapID uint32) iter.Seq[*battleground.Instance] {
	return m.freeSlots.ListOpen(mapID)
}

// ScheduleQueueUpdate requests a re-evaluation of one queue bracket at the next tick.
func (m *Manager) ScheduleQueueUpdate(rating uint32, queueID models.QueueTypeID, bracket models.BracketID) {
	m.scheduler.Schedule(rating, queueID, bracket)
}

// Queue returns the queue of an id, creating it on first access.
func (m *Manager) Queue(queueID models.QueueTypeID) queue.Queue {
	return m.queues.Get(queueID)
}

// IsValidQueueID checks a queue id against the loaded template of its type.
func (m *Manager) IsValidQueueID(queueID models.QueueTypeID) bool {
	template, _ := m.registry.FindByTypeID(queueID.TypeID())
	return models.IsValidQueueID(queueID, template)
}

// MaxRatingDifference returns the configured rating difference, 5000 when it is unset.
func (m *Manager) MaxRatingDifference() uint32 {
	if m.opts.MaxRatingDifference == 0 {
		return constants.DefaultMaxRatingDifference
	}
	return m.opts.MaxRatingDifference
}

func (m *Manager) RatingDiscardTimer() time.Duration {
	return m.opts.RatingDiscardTimer
}

func (m *Manager) PrematureFinishTime() time.Duration {
	return m.opts.PrematureFinishTime
}

// ToggleTesting flips battleground testing mode and returns the new value.
func (m *Manager) ToggleTesting(scope *envelope.Scope) bool {
	on := !m.testing.Load()
	m.testing.Store(on)
	scope.Log.Infof("battleground testing mode: %t", on)
	return on
}

// ToggleArenaTesting flips arena testing mode and returns the new value.
func (m *Manager) ToggleArenaTesting(scope *envelope.Scope) bool {
	on := !m.arenaTesting.Load()
	m.arenaTesting.Store(on)
	scope.Log.Infof("arena testing mode: %t", on)
	return on
}

func (m *Manager) IsTesting() bool {
	return m.testing.Load()
}

func (m *Manager) IsArenaTesting() bool {
	return m.arenaTesting.Load()
}

// IsWeekend reports whether the call to arms event of a type is running.
func (m *Manager) IsWeekend(typeID models.TypeID) bool {
	holiday := models.WeekendHoliday(typeID)
	if holiday == models.HolidayNone || m.calendar == nil {
		return false
	}
	return m.calendar.IsHolidayActive(holiday)
}

// DeleteAll removes every instance, used on shutdown.
func (m *Manager) DeleteAll(rootScope *envelope.Scope) {
	scope := rootScope.NewChildScope("manager.DeleteAll")
	defer scope.Finish()

	removed := m.directory.RemoveAll()
	for _, inst := range removed {
		m.notifyReaped(inst)
	}
	scope.Log.Infof("deleted %d battlegrounds", len(removed))
}
