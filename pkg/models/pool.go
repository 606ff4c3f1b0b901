// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"sync"

	"gopkg.in/typ.v4/sync2"
)

// Pool reusable buffers for template resolution, which runs on every queue pop.
type Pool struct {
	Candidates *BufferPool[[]*MatchTemplate]
	Weights    *BufferPool[[]float64]
}

func NewPool() *Pool {
	return &Pool{
		Candidates: NewBufferPool(func() []*MatchTemplate {
			return make([]*MatchTemplate, 0, 8)
		}),
		Weights: NewBufferPool(func() []float64 {
			return make([]float64, 0, 8)
		}),
	}
}

// BufferPool is a sync2.Pool safe for concurrent Get: sync2.Pool rebinds its New hook
// on every Get, so calls are serialised here.
type BufferPool[T any] struct {
	mu   sync.Mutex
	pool sync2.Pool[T]
}

func NewBufferPool[T any](newFn func() T) *BufferPool[T] {
	return &BufferPool[T]{pool: sync2.Pool[T]{New: newFn}}
}

func (p *BufferPool[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pool.Get()
}

func (p *BufferPool[T]) Put(x T) {
	p.pool.Put(x)
}
