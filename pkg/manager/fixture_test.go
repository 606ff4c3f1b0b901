// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package manager

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/extend-battleground-manager/pkg/battleground"
	"github.com/AccelByte/extend-battleground-manager/pkg/common"
	"github.com/AccelByte/extend-battleground-manager/pkg/constants"
	"github.com/AccelByte/extend-battleground-manager/pkg/models"
	"github.com/AccelByte/extend-battleground-manager/pkg/queue"
	"github.com/AccelByte/extend-battleground-manager/pkg/templates"
	"github.com/AccelByte/extend-battleground-manager/pkg/testsetup"
)

const (
	mapWarsong   = 489
	mapArathi    = 529
	mapEye       = 566
	mapNagrand   = 559
	mapBladesEdg = 562
)

var (
	warsong   = models.TypeID(constants.TypeWarsong)
	arathi    = models.TypeID(constants.TypeArathi)
	eye       = models.TypeID(constants.TypeEyeOfStorm)
	nagrand   = models.TypeID(constants.TypeNagrand)
	bladeEdge = models.TypeID(constants.TypeBladesEdge)
	allArenas = models.TypeID(constants.TypeAllArenas)
	random    = models.TypeID(constants.TypeRandom)

	warsongQueue = models.NewQueueTypeID(warsong, models.QueueBattleground, false, 0)
	randomQueue  = models.NewQueueTypeID(random, models.QueueBattleground, false, 0)
)

// testCatalog has three battlegrounds in the random pool weighted 1, 1 and 2, and two
// arenas under the all arenas category.
func testCatalog() *templates.Catalog {
	return &templates.Catalog{
		Templates: []models.TemplateRow{
			{ID: 2, AllianceStartLoc: swag.Uint32(1), HordeStartLoc: swag.Uint32(2), Weight: 1},
			{ID: 3, AllianceStartLoc: swag.Uint32(3), HordeStartLoc: swag.Uint32(4), Weight: 1},
			{ID: 7, AllianceStartLoc: swag.Uint32(5), HordeStartLoc: swag.Uint32(6), Weight: 2},
			{ID: 4, AllianceStartLoc: swag.Uint32(7), HordeStartLoc: swag.Uint32(8), Weight: 1},
			{ID: 5, AllianceStartLoc: swag.Uint32(9), HordeStartLoc: swag.Uint32(10), Weight: 1},
			{ID: 6, Weight: 1},
			{ID: 32, Weight: 1},
		},
		Battlemasters: []models.BattlemasterEntry{
			{ID: 2, Kind: models.KindBattleground, MinPlayers: 10, MaxPlayers: 10, MinLevel: 10, MaxLevel: 80},
			{ID: 3, Kind: models.KindBattleground, MinPlayers: 15, MaxPlayers: 15, MinLevel: 20, MaxLevel: 80},
			{ID: 7, Kind: models.KindBattleground, MinPlayers: 15, MaxPlayers: 15, MinLevel: 61, MaxLevel: 80},
			{ID: 4, Kind: models.KindArena, MinPlayers: 2, MaxPlayers: 5, MinLevel: 80, MaxLevel: 80},
			{ID: 5, Kind: models.KindArena, MinPlayers: 2, MaxPlayers: 5, MinLevel: 80, MaxLevel: 80},
			{ID: 6, Kind: models.KindArena, MinPlayers: 2, MaxPlayers: 5, MinLevel: 80, MaxLevel: 80},
			{ID: 32, Kind: models.KindBattleground, MinPlayers: 10, MaxPlayers: 15, MinLevel: 10, MaxLevel: 80},
		},
		MapAssignments: []models.MapAssignment{
			{TypeID: 2, MapID: mapWarsong},
			{TypeID: 3, MapID: mapArathi},
			{TypeID: 7, MapID: mapEye},
			{TypeID: 4, MapID: mapNagrand},
			{TypeID: 5, MapID: mapBladesEdg},
			{TypeID: 6, MapID: mapNagrand},
			{TypeID: 6, MapID: mapBladesEdg},
			{TypeID: 32, MapID: mapWarsong},
			{TypeID: 32, MapID: mapArathi},
			{TypeID: 32, MapID: mapEye},
		},
		StartLocations: []models.StartLocation{
			{ID: 1, MapID: mapWarsong}, {ID: 2, MapID: mapWarsong},
			{ID: 3, MapID: mapArathi}, {ID: 4, MapID: mapArathi},
			{ID: 5, MapID: mapEye}, {ID: 6, MapID: mapEye},
			{ID: 7, MapID: mapNagrand}, {ID: 8, MapID: mapNagrand},
			{ID: 9, MapID: mapBladesEdg}, {ID: 10, MapID: mapBladesEdg},
		},
		Brackets: []models.BracketRow{
			{MapID: mapWarsong, BracketID: 0, MinLevel: 10, MaxLevel: 19},
			{MapID: mapWarsong, BracketID: 1, MinLevel: 20, MaxLevel: 80},
			{MapID: mapArathi, BracketID: 1, MinLevel: 20, MaxLevel: 80},
			{MapID: mapEye, BracketID: 1, MinLevel: 61, MaxLevel: 80},
			{MapID: mapNagrand, BracketID: 1, MinLevel: 80, MaxLevel: 80},
			{MapID: mapBladesEdg, BracketID: 1, MinLevel: 80, MaxLevel: 80},
		},
	}
}

func setWeight(catalog *templates.Catalog, typeID models.TypeID, weight int) {
	for i := range catalog.Templates {
		if catalog.Templates[i].ID == uint32(typeID) {
			catalog.Templates[i].Weight = weight
		}
	}
}

type queueUpdate struct {
	Bracket models.BracketID
	Rating  uint32
}

type recordingQueue struct {
	id          models.QueueTypeID
	panicUpdate bool
	panicEvents bool

	mu      sync.Mutex
	events  int
	updates []queueUpdate
}

func (q *recordingQueue) UpdateEvents(time.Duration) {
	if q.panicEvents {
		panic("queue events exploded")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events++
}

func (q *recordingQueue) Update(_ time.Duration, bracket models.BracketID, rating uint32) {
	if q.panicUpdate {
		panic("queue update exploded")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.updates = append(q.updates, queueUpdate{Bracket: bracket, Rating: rating})
}

func (q *recordingQueue) Updates() []queueUpdate {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]queueUpdate(nil), q.updates...)
}

func (q *recordingQueue) Events() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.events
}

type recordingQueues struct {
	mu          sync.Mutex
	queues      map[models.QueueTypeID]*recordingQueue
	panicUpdate map[models.QueueTypeID]bool
	panicEvents map[models.QueueTypeID]bool
}

func newRecordingQueues() *recordingQueues {
	return &recordingQueues{
		queues:      map[models.QueueTypeID]*recordingQueue{},
		panicUpdate: map[models.QueueTypeID]bool{},
		panicEvents: map[models.QueueTypeID]bool{},
	}
}

func (r *recordingQueues) NewQueue(id models.QueueTypeID) queue.Queue {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := &recordingQueue{id: id, panicUpdate: r.panicUpdate[id], panicEvents: r.panicEvents[id]}
	r.queues[id] = q
	return q
}

func (r *recordingQueues) get(id models.QueueTypeID) *recordingQueue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queues[id]
}

type recordingListener struct {
	mu      sync.Mutex
	created []uint32
	reaped  []uint32
}

func (l *recordingListener) InstanceCreated(inst *battleground.Instance) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.created = append(l.created, inst.InstanceID())
}

func (l *recordingListener) InstanceReaped(inst *battleground.Instance) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reaped = append(l.reaped, inst.InstanceID())
}

func (l *recordingListener) Reaped() []uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]uint32(nil), l.reaped...)
}

func (l *recordingListener) Created() []uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]uint32(nil), l.created...)
}

type constantIDs uint32

func (c constantIDs) GenerateInstanceID() uint32 { return uint32(c) }

type holidays map[models.HolidayID]bool

func (h holidays) IsHolidayActive(holiday models.HolidayID) bool { return h[holiday] }

type fixture struct {
	*Manager
	tables     *templates.Tables
	fakeQueues *recordingQueues
	listener   *recordingListener
	recorded   *testsetup.RecordingMetrics
}

type fixtureOption func(opts *Options, deps *Dependencies)

func withOptions(mutate func(opts *Options)) fixtureOption {
	return func(opts *Options, _ *Dependencies) { mutate(opts) }
}

func withIDs(ids InstanceIDAllocator) fixtureOption {
	return func(_ *Options, deps *Dependencies) { deps.InstanceIDs = ids }
}

func withScripts(scripts ScriptFactory) fixtureOption {
	return func(_ *Options, deps *Dependencies) { deps.Scripts = scripts }
}

func withCalendar(calendar HolidayCalendar) fixtureOption {
	return func(_ *Options, deps *Dependencies) { deps.Calendar = calendar }
}

func withQueues(queues *recordingQueues) fixtureOption {
	return func(_ *Options, deps *Dependencies) { deps.Queues = queues }
}

func newFixture(t *testing.T, catalog *templates.Catalog, options ...fixtureOption) *fixture {
	t.Helper()

	tables := templates.NewTables()
	result := tables.Load(testsetup.NewTestScope(), catalog)
	require.Empty(t, result.Errors)

	f := &fixture{
		tables:     tables,
		fakeQueues: newRecordingQueues(),
		listener:   &recordingListener{},
		recorded:   &testsetup.RecordingMetrics{},
	}

	opts := DefaultOptions()
	deps := Dependencies{
		Registry:    tables.Registry,
		Brackets:    tables.Brackets,
		InstanceIDs: &common.InstanceIDSequence{},
		Queues:      f.fakeQueues,
		Metrics:     f.recorded,
		Logger:      testsetup.NewTestTickLogger(),
		RandSource:  rand.NewPCG(1, 2),
	}
	for _, option := range options {
		option(&opts, &deps)
	}
	if q, ok := deps.Queues.(*recordingQueues); ok {
		f.fakeQueues = q
	}

	f.Manager = New(opts, deps)
	f.AddListener(f.listener)
	return f
}
