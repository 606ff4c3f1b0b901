// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package statestore mirrors the live instance set into redis so match browsers can
// list running battlegrounds without calling into the manager.
package statestore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-battleground-manager/pkg/battleground"
	"github.com/AccelByte/extend-battleground-manager/pkg/models"
)

const (
	defaultKeyPrefix = "bg:instances"
	defaultBuffer    = 1024
)

// InstanceSummary is the published view of one instance.
type InstanceSummary struct {
	InstanceID uint32    `json:"instanceId"`
	ClientID   uint32    `json:"clientId"`
	TypeID     uint32    `json:"typeId"`
	MapID      uint32    `json:"mapId"`
	BracketID  uint8     `json:"bracketId"`
	TeamSize   uint8     `json:"teamSize"`
	Rated      bool      `json:"rated"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func summarize(inst *battleground.Instance, now time.Time) InstanceSummary {
	return InstanceSummary{
		InstanceID: inst.InstanceID(),
		ClientID:   inst.ClientID(),
		TypeID:     uint32(inst.TypeID()),
		MapID:      inst.MapID(),
		BracketID:  uint8(inst.BracketID()),
		TeamSize:   inst.TeamSize(),
		Rated:      inst.IsRated(),
		Status:     inst.Status().String(),
		UpdatedAt:  now,
	}
}

type event struct {
	removed bool
	summary InstanceSummary
}

type entryKey struct {
	typeID     uint32
	instanceID uint32
}

// Publisher receives lifecycle callbacks on the tick goroutine and writes them to redis
// from its own goroutine. Callbacks never block: when the buffer is full the event is
// dropped and counted. A dropped removal is kept aside and deleted once the buffer
// drains, so a reaped instance is not advertised until the next restart.
type Publisher struct {
	client    redis.UniversalClient
	keyPrefix string
	events    chan event
	dropped   atomic.Uint64
	logger    *logrus.Entry
	now       func() time.Time

	mu              sync.Mutex
	pendingRemovals map[entryKey]struct{}
}

type Option func(*Publisher)

func WithKeyPrefix(prefix string) Option {
	return func(p *Publisher) { p.keyPrefix = prefix }
}

func WithBuffer(size int) Option {
	return func(p *Publisher) { p.events = make(chan event, size) }
}

func NewPublisher(client redis.UniversalClient, logger *logrus.Entry, opts ...Option) *Publisher {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	p := &Publisher{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		events:    make(chan event, defaultBuffer),
		logger:    logger.WithField("component", "statestore"),
		now:       time.Now,

		pendingRemovals: map[entryKey]struct{}{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) key(typeID uint32) string {
	return fmt.Sprintf("%s:%d", p.keyPrefix, typeID)
}

func (p *Publisher) InstanceCreated(inst *battleground.Instance) {
	p.offer(event{summary: summarize(inst, p.now())})
}

func (p *Publisher) InstanceReaped(inst *battleground.Instance) {
	p.offer(event{removed: true, summary: summarize(inst, p.now())})
}

func (p *Publisher) offer(ev event) {
	key := entryKey{typeID: ev.summary.TypeID, instanceID: ev.summary.InstanceID}
	select {
	case p.events <- ev:
		if !ev.removed {
			// a new holder of the id overwrites the stale entry itself
			p.mu.Lock()
			delete(p.pendingRemovals, key)
			p.mu.Unlock()
		}
	default:
		p.dropped.Add(1)
		if !ev.removed {
			return
		}
		p.mu.Lock()
		_, seen := p.pendingRemovals[key]
		p.pendingRemovals[key] = struct{}{}
		p.mu.Unlock()
		if !seen {
			p.logger.Warnf("publish buffer full, deferring removal of instance %d", key.instanceID)
		}
	}
}

// Dropped returns the number of events lost to a full buffer.
func (p *Publisher) Dropped() uint64 {
	return p.dropped.Load()
}

// PendingRemovals returns the number of dropped removals not yet written.
func (p *Publisher) PendingRemovals() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pendingRemovals)
}

// flushRemovals deletes the entries whose removal was dropped. Failed deletes are put
// back for the next flush.
func (p *Publisher) flushRemovals(ctx context.Context) {
	p.mu.Lock()
	if len(p.pendingRemovals) == 0 {
		p.mu.Unlock()
		return
	}
	pending := p.pendingRemovals
	p.pendingRemovals = map[entryKey]struct{}{}
	p.mu.Unlock()

	for key := range pending {
		field := strconv.FormatUint(uint64(key.instanceID), 10)
		if err := p.client.HDel(ctx, p.key(key.typeID), field).Err(); err != nil {
			p.logger.WithError(err).Warnf("failed removing instance %d", key.instanceID)
			p.mu.Lock()
			p.pendingRemovals[key] = struct{}{}
			p.mu.Unlock()
		}
	}
}

// Run writes events until ctx is cancelled. Write failures are logged and skipped.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-p.events:
			if err := p.write(ctx, ev); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				p.logger.WithError(err).Warnf("failed publishing instance %d", ev.summary.InstanceID)
			}
			// everything queued before a dropped removal has been written
			if len(p.events) == 0 {
				p.flushRemovals(ctx)
			}
		}
	}
}

func (p *Publisher) write(ctx context.Context, ev event) error {
	key := p.key(ev.summary.TypeID)
	field := strconv.FormatUint(uint64(ev.summary.InstanceID), 10)

	if ev.removed {
		return p.client.HDel(ctx, key, field).Err()
	}

	payload, err := json.Marshal(ev.summary)
	if err != nil {
		return fmt.Errorf("failed to marshal instance summary: %w", err)
	}
	return p.client.HSet(ctx, key, field, payload).Err()
}

// Snapshot reads the published instances of one type, ordered by instance id.
func (p *Publisher) Snapshot(ctx context.Context, typeID models.TypeID) ([]InstanceSummary, error) {
	values, err := p.client.HGetAll(ctx, p.key(uint32(typeID))).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read instances of type %d: %w", typeID, err)
	}

	summaries := make([]InstanceSummary, 0, len(values))
	for field, value := range values {
		var summary InstanceSummary
		if err := json.Unmarshal([]byte(value), &summary); err != nil {
			p.logger.WithError(err).Warnf("skipping malformed instance entry %s", field)
			continue
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].InstanceID < summaries[j].InstanceID })
	return summaries, nil
}

// Clear removes the published state of the given types, used on startup so a restarted
// manager does not advertise instances of its previous run.
func (p *Publisher) Clear(ctx context.Context, typeIDs []models.TypeID) error {
	if len(typeIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(typeIDs))
	for _, typeID := range typeIDs {
		keys = append(keys, p.key(uint32(typeID)))
	}
	return p.client.Del(ctx, keys...).Err()
}
