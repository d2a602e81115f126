// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package store provides a small subscribable state container.
//
// A Store holds one immutable snapshot of some state S. Every mutation goes
// through Update (or an Action built on top of it): the mutator receives the
// current snapshot and returns either that very snapshot, meaning nothing
// changed, or a newly allocated one. Only a snapshot that is not reference
// equal to the current one is committed, and only a committed snapshot is
// delivered to subscribers. This makes repeated idempotent mutations free of
// notifications.
//
// Listeners run in subscription order and see committed snapshots in commit
// order, once each. Only one goroutine delivers at a time: when no delivery is
// in flight, Update delivers on the calling goroutine before returning. A
// commit made while another delivery is in flight, including a commit made by
// a listener, is queued and delivered by the goroutine already delivering,
// right after the snapshot it is delivering.
//
// Mutators run while the store is locked and must not call back into the same
// store; listeners run unlocked and may.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/tochemey/extslot/log"
	"github.com/tochemey/extslot/metric"
)

// Listener receives every committed snapshot
type Listener[S any] func(state S)

type subscription[S any] struct {
	id       string
	listener Listener[S]
}

// Store is a subscribable container of immutable snapshots.
// S is expected to be a pointer (or another reference-comparable type) so that
// equality means identity.
type Store[S comparable] struct {
	mu            sync.Mutex
	state         S
	subscriptions []subscription[S]
	pending       []S
	delivering    bool

	version *atomic.Uint64
	name    string
	logger  log.Logger
	metric  *metric.StoreMetric
}

// New creates a Store holding the initial snapshot
func New[S comparable](initial S, opts ...Option) *Store[S] {
	cfg := &config{
		name:   "store",
		logger: log.DiscardLogger,
	}
	for _, opt := range opts {
		opt.Apply(cfg)
	}

	storeMetric := metric.NoopStoreMetric()
	if cfg.meter != nil {
		m, err := metric.NewStoreMetric(cfg.meter)
		if err != nil {
			cfg.logger.Warnf("store %s: metrics disabled: %v", cfg.name, err)
		} else {
			storeMetric = m
		}
	}

	return &Store[S]{
		state:   initial,
		version: atomic.NewUint64(0),
		name:    cfg.name,
		logger:  cfg.logger,
		metric:  storeMetric,
	}
}

// GetState returns the current snapshot
func (s *Store[S]) GetState() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Version returns the number of snapshots committed so far
func (s *Store[S]) Version() uint64 {
	return s.version.Load()
}

// SetState commits the given snapshot unless it is the current one.
// It reports whether a commit happened.
func (s *Store[S]) SetState(next S) bool {
	return s.Update(func(S) S { return next })
}

// Update runs the mutator against the current snapshot and commits its result
// when it differs from the current snapshot. It reports whether a commit happened.
func (s *Store[S]) Update(mutator func(state S) S) bool {
	s.mu.Lock()
	current := s.state
	next := mutator(current)
	if next == current {
		s.mu.Unlock()
		s.metric.SkipCount().Add(context.Background(), 1)
		return false
	}

	s.state = next
	version := s.version.Inc()
	s.pending = append(s.pending, next)
	owner := !s.delivering
	s.delivering = true
	s.mu.Unlock()

	s.metric.CommitCount().Add(context.Background(), 1)
	if s.logger.Enabled(log.DebugLevel) {
		s.logger.Debugf("store %s committed version %d", s.name, version)
	}

	if owner {
		s.deliver()
	}
	return true
}

// deliver drains the pending snapshots in commit order.
// The caller must have set delivering.
func (s *Store[S]) deliver() {
	drained := false
	defer func() {
		if !drained {
			// a listener panicked, let the next commit deliver
			s.mu.Lock()
			s.pending = nil
			s.delivering = false
			s.mu.Unlock()
		}
	}()

	s.mu.Lock()
	for len(s.pending) > 0 {
		next := s.pending[0]
		var zero S
		s.pending[0] = zero
		s.pending = s.pending[1:]
		listeners := make([]Listener[S], len(s.subscriptions))
		for i, sub := range s.subscriptions {
			listeners[i] = sub.listener
		}
		s.mu.Unlock()

		for _, listener := range listeners {
			listener(next)
		}
		s.mu.Lock()
	}
	s.pending = nil
	s.delivering = false
	s.mu.Unlock()
	drained = true
}

// Subscribe registers a listener and returns the function that removes it.
// Calling the returned function more than once is harmless.
func (s *Store[S]) Subscribe(listener Listener[S]) (unsubscribe func()) {
	id := uuid.NewString()
	s.mu.Lock()
	s.subscriptions = append(s.subscriptions, subscription[S]{id: id, listener: listener})
	s.mu.Unlock()
	s.metric.SubscribersCount().Add(context.Background(), 1)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			for i, sub := range s.subscriptions {
				if sub.id == id {
					s.subscriptions = append(s.subscriptions[:i:i], s.subscriptions[i+1:]...)
					break
				}
			}
			s.mu.Unlock()
			s.metric.SubscribersCount().Add(context.Background(), -1)
		})
	}
}

// SubscribersCount returns the number of active subscriptions
func (s *Store[S]) SubscribersCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscriptions)
}

// Action0 binds a mutator without arguments to the store
func Action0[S comparable](s *Store[S], mutator func(state S) S) func() {
	return func() {
		s.Update(mutator)
	}
}

// Action binds a one-argument mutator to the store. Calling the returned
// function applies the mutator with the given argument.
func Action[S comparable, A any](s *Store[S], mutator func(state S, a A) S) func(A) {
	return func(a A) {
		s.Update(func(state S) S {
			return mutator(state, a)
		})
	}
}

// Action2 binds a two-argument mutator to the store
func Action2[S comparable, A, B any](s *Store[S], mutator func(state S, a A, b B) S) func(A, B) {
	return func(a A, b B) {
		s.Update(func(state S) S {
			return mutator(state, a, b)
		})
	}
}
