// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package freeslot tracks, per map, the instances that still accept late joiners.
package freeslot

import (
	"errors"
	"iter"
	"slices"
	"sync"

	"github.com/AccelByte/extend-battleground-manager/pkg/battleground"
)

var ErrNotRegistered = errors.New("instance is not registered in the directory")

// Directory keeps weak handles only; instances are resolved on iteration.
type Directory struct {
	mu       sync.Mutex
	byMap    map[uint32][]battleground.Handle
	resolver battleground.Resolver
}

func New(resolver battleground.Resolver) *Directory {
	return &Directory{
		byMap:    map[uint32][]battleground.Handle{},
		resolver: resolver,
	}
}

// Open puts the instance at the front of its map list: the most recently opened
// instance is offered first. Instances no longer held by the directory are rejected.
func (d *Directory) Open(inst *battleground.Instance) error {
	handle := inst.Handle()
	if handle.IsZero() {
		return ErrNotRegistered
	}
	// resolved before taking mu, the directory lock always comes first
	if d.resolver.Resolve(handle) != inst {
		return ErrNotRegistered
	}

	d.mu.Lock()
	d.byMap[inst.MapID()] = slices.Insert(d.byMap[inst.MapID()], 0, handle)
	d.mu.Unlock()

	// reaped between the check and the insert: its close already ran
	if d.resolver.Resolve(handle) != inst {
		d.remove(inst.MapID(), func(h battleground.Handle) bool { return h == handle })
		return ErrNotRegistered
	}
	return nil
}

// Close removes the entry of an instance. Closing an absent instance is a no-op.
func (d *Directory) Close(mapID uint32, instanceID uint32) {
	d.remove(mapID, func(h battleground.Handle) bool { return h.InstanceID == instanceID })
}

func (d *Directory) remove(mapID uint32, match func(battleground.Handle) bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	list := d.byMap[mapID]
	for i, h := range list {
		if match(h) {
			list = slices.Delete(list, i, i+1)
			break
		}
	}
	if len(list) == 0 {
		delete(d.byMap, mapID)
		return
	}
	d.byMap[mapID] = list
}

// Len returns the number of open entries of a map.
func (d *Directory) Len(mapID uint32) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.byMap[mapID])
}

// ListOpen yields the open instances of a map front to back. Every range takes a new
// snapshot of the list; entries whose instance was reaped in between are skipped.
func (d *Directory) ListOpen(mapID uint32) iter.Seq[*battleground.Instance] {
	return func(yield func(*battleground.Instance) bool) {
		d.mu.Lock()
		handles := slices.Clone(d.byMap[mapID])
		d.mu.Unlock()

		for _, h := range handles {
			inst := d.resolver.Resolve(h)
			if inst == nil {
				continue
			}
			if !yield(inst) {
				return
			}
		}
	}
}
