// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package directory is the single source of truth for the live battleground instances,
// partitioned by type and instance id, and for the client visible ids handed out per
// type and bracket.
package directory

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/elliotchance/pie/v2"

	"github.com/AccelByte/extend-battleground-manager/pkg/battleground"
	"github.com/AccelByte/extend-battleground-manager/pkg/models"
)

var ErrDuplicateKey = errors.New("instance id already registered")

// RemoveHook runs for every removed instance while the directory write lock is held,
// so the removal and the hook appear as one step to readers. Hooks must not call
// back into the directory.
type RemoveHook func(inst *battleground.Instance)

type entry struct {
	inst   *battleground.Instance
	serial uint64
}

type typeBucket struct {
	instances map[uint32]entry
	// allocated client ids per bracket, kept sorted ascending
	clientIDs map[models.BracketID][]uint32
}

func newTypeBucket() *typeBucket {
	return &typeBucket{
		instances: map[uint32]entry{},
		clientIDs: map[models.BracketID][]uint32{},
	}
}

type Directory struct {
	mu         sync.RWMutex
	buckets    map[models.TypeID]*typeBucket
	nextSerial uint64
	onRemove   []RemoveHook
}

func New() *Directory {
	return &Directory{
		buckets: map[models.TypeID]*typeBucket{},
	}
}

// OnRemove registers a hook. Register hooks before the directory is shared.
func (d *Directory) OnRemove(hook RemoveHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onRemove = append(d.onRemove, hook)
}

func (d *Directory) bucket(typeID models.TypeID) *typeBucket {
	b, ok := d.buckets[typeID]
	if !ok {
		b = newTypeBucket()
		d.buckets[typeID] = b
	}
	return b
}

// AllocateClientID returns the smallest positive id not in use for the type and bracket.
// Arena types have no client visible id and always get 0.
func (d *Directory) AllocateClientID(typeID models.TypeID, bracket models.BracketID) uint32 {
	if typeID.IsArena() {
		return 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	b := d.bucket(typeID)
	ids := b.clientIDs[bracket]
	var lastID uint32
	pos := len(ids)
	for i, id := range ids {
		if id != lastID+1 {
			pos = i
			break
		}
		lastID = id
	}
	lastID++
	b.clientIDs[bracket] = slices.Insert(ids, pos, lastID)
	return lastID
}

// ReleaseClientID frees an id. Releasing an id that is not allocated is a no-op.
func (d *Directory) ReleaseClientID(typeID models.TypeID, bracket models.BracketID, id uint32) {
	if id == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.releaseClientID(typeID, bracket, id)
}

func (d *Directory) releaseClientID(typeID models.TypeID, bracket models.BracketID, id uint32) {
	b, ok := d.buckets[typeID]
	if !ok {
		return
	}
	ids := b.clientIDs[bracket]
	if pos, found := slices.BinarySearch(ids, id); found {
		b.clientIDs[bracket] = slices.Delete(ids, pos, pos+1)
	}
}

// ClientIDs returns a copy of the allocated ids of a type and bracket.
func (d *Directory) ClientIDs(typeID models.TypeID, bracket models.BracketID) []uint32 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, ok := d.buckets[typeID]
	if !ok {
		return nil
	}
	return slices.Clone(b.clientIDs[bracket])
}

// Insert registers a new instance under its type and instance id.
func (d *Directory) Insert(inst *battleground.Instance) (battleground.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b := d.bucket(inst.TypeID())
	if _, exists := b.instances[inst.InstanceID()]; exists {
		return battleground.Handle{}, fmt.Errorf("%w: type %d instance %d", ErrDuplicateKey, inst.TypeID(), inst.InstanceID())
	}

	d.nextSerial++
	handle := battleground.Handle{
		TypeID:     inst.TypeID(),
		InstanceID: inst.InstanceID(),
		Serial:     d.nextSerial,
	}
	inst.Bind(handle)
	b.instances[inst.InstanceID()] = entry{inst: inst, serial: d.nextSerial}
	return handle, nil
}

// Lookup finds a live instance. TypeNone and random categories search every type.
func (d *Directory) Lookup(instanceID uint32, typeID models.TypeID) *battleground.Instance {
	if instanceID == 0 {
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if typeID == models.TypeNone || typeID.IsRandom() {
		for _, t := range pie.Sort(pie.Keys(d.buckets)) {
			if e, ok := d.buckets[t].instances[instanceID]; ok {
				return e.inst
			}
		}
		return nil
	}

	b, ok := d.buckets[typeID]
	if !ok {
		return nil
	}
	if e, ok := b.instances[instanceID]; ok {
		return e.inst
	}
	return nil
}

// Resolve returns the instance behind a handle, nil once it has been removed.
func (d *Directory) Resolve(h battleground.Handle) *battleground.Instance {
	if h.IsZero() {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, ok := d.buckets[h.TypeID]
	if !ok {
		return nil
	}
	e, ok := b.instances[h.InstanceID]
	if !ok || e.serial != h.Serial {
		return nil
	}
	return e.inst
}

// Len returns the number of live instances.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	count := 0
	for _, b := range d.buckets {
		count += len(b.instances)
	}
	return count
}

// Instances returns the live instances of a type ordered by instance id.
// TypeNone returns every live instance.
func (d *Directory) Instances(typeID models.TypeID) []*battleground.Instance {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.instances(typeID)
}

func (d *Directory) instances(typeID models.TypeID) []*battleground.Instance {
	var result []*battleground.Instance
	for t, b := range d.buckets {
		if typeID != models.TypeNone && t != typeID {
			continue
		}
		for _, e := range b.instances {
			result = append(result, e.inst)
		}
	}
	return pie.SortUsing(result, func(a, b *battleground.Instance) bool {
		if a.TypeID() != b.TypeID() {
			return a.TypeID() < b.TypeID()
		}
		return a.InstanceID() < b.InstanceID()
	})
}

// SweepAndReap advances every live instance by elapsed and removes those reporting
// completion. Scripts run outside the lock; the removals, client id releases and hooks
// of one sweep happen inside a single write lock section.
func (d *Directory) SweepAndReap(elapsed time.Duration) []*battleground.Instance {
	live := d.Instances(models.TypeNone)

	var finished []*battleground.Instance
	for _, inst := range live {
		if inst.Advance(elapsed) {
			finished = append(finished, inst)
		}
	}
	if len(finished) == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	removed := finished[:0]
	for _, inst := range finished {
		if d.remove(inst) {
			removed = append(removed, inst)
		}
	}
	return removed
}

// RemoveAll drops every instance, used on shutdown.
func (d *Directory) RemoveAll() []*battleground.Instance {
	d.mu.Lock()
	defer d.mu.Unlock()

	all := d.instances(models.TypeNone)
	for _, inst := range all {
		d.remove(inst)
	}
	return all
}

// remove must be called with the write lock held.
func (d *Directory) remove(inst *battleground.Instance) bool {
	b, ok := d.buckets[inst.TypeID()]
	if !ok {
		return false
	}
	e, ok := b.instances[inst.InstanceID()]
	if !ok || e.inst != inst {
		return false
	}

	delete(b.instances, inst.InstanceID())
	d.releaseClientID(inst.TypeID(), inst.BracketID(), inst.ClientID())
	for _, hook := range d.onRemove {
		hook(inst)
	}
	return true
}
