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

package store

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/tochemey/extslot/log"
)

type counter struct {
	value int
}

func increment(state *counter, by int) *counter {
	if by == 0 {
		return state
	}
	return &counter{value: state.value + by}
}

func TestStore(t *testing.T) {
	t.Run("GetState returns the initial snapshot", func(t *testing.T) {
		initial := &counter{}
		s := New(initial)
		assert.Same(t, initial, s.GetState())
		assert.EqualValues(t, 0, s.Version())
	})
	t.Run("Update commits a new snapshot and notifies in subscription order", func(t *testing.T) {
		s := New(&counter{})
		var calls []string
		s.Subscribe(func(state *counter) { calls = append(calls, "first") })
		s.Subscribe(func(state *counter) { calls = append(calls, "second") })
		s.Subscribe(func(state *counter) { calls = append(calls, "third") })

		committed := s.Update(func(state *counter) *counter { return increment(state, 1) })
		require.True(t, committed)
		assert.Equal(t, []string{"first", "second", "third"}, calls)
		assert.Equal(t, 1, s.GetState().value)
		assert.EqualValues(t, 1, s.Version())
	})
	t.Run("Update returning the same snapshot neither commits nor notifies", func(t *testing.T) {
		initial := &counter{value: 3}
		s := New(initial)
		notified := 0
		s.Subscribe(func(*counter) { notified++ })

		committed := s.Update(func(state *counter) *counter { return increment(state, 0) })
		require.False(t, committed)
		assert.Zero(t, notified)
		assert.Same(t, initial, s.GetState())
		assert.EqualValues(t, 0, s.Version())
	})
	t.Run("Listeners receive the committed snapshot before Update returns", func(t *testing.T) {
		s := New(&counter{})
		var seen *counter
		s.Subscribe(func(state *counter) { seen = state })
		s.Update(func(state *counter) *counter { return increment(state, 5) })
		require.NotNil(t, seen)
		assert.Same(t, s.GetState(), seen)
	})
	t.Run("SetState", func(t *testing.T) {
		s := New(&counter{})
		notified := 0
		s.Subscribe(func(*counter) { notified++ })
		next := &counter{value: 9}
		assert.True(t, s.SetState(next))
		assert.False(t, s.SetState(next))
		assert.Equal(t, 1, notified)
	})
	t.Run("Unsubscribe", func(t *testing.T) {
		s := New(&counter{})
		notified := 0
		unsubscribe := s.Subscribe(func(*counter) { notified++ })
		require.Equal(t, 1, s.SubscribersCount())

		unsubscribe()
		unsubscribe()
		assert.Zero(t, s.SubscribersCount())

		s.Update(func(state *counter) *counter { return increment(state, 1) })
		assert.Zero(t, notified)
	})
	t.Run("Unsubscribe keeps the order of the remaining listeners", func(t *testing.T) {
		s := New(&counter{})
		var calls []int
		s.Subscribe(func(*counter) { calls = append(calls, 1) })
		unsubscribe := s.Subscribe(func(*counter) { calls = append(calls, 2) })
		s.Subscribe(func(*counter) { calls = append(calls, 3) })
		unsubscribe()

		s.Update(func(state *counter) *counter { return increment(state, 1) })
		assert.Equal(t, []int{1, 3}, calls)
	})
	t.Run("Listeners may mutate the store", func(t *testing.T) {
		s := New(&counter{})
		s.Subscribe(func(state *counter) {
			if state.value < 3 {
				s.Update(func(current *counter) *counter { return increment(current, 1) })
			}
		})
		s.Update(func(state *counter) *counter { return increment(state, 1) })
		assert.Equal(t, 3, s.GetState().value)
		assert.EqualValues(t, 3, s.Version())
	})
	t.Run("A commit made by a listener reaches every listener after the current one", func(t *testing.T) {
		s := New(&counter{})
		var first, second []int
		s.Subscribe(func(state *counter) {
			first = append(first, state.value)
			if state.value == 1 {
				s.Update(func(current *counter) *counter { return increment(current, 1) })
			}
		})
		s.Subscribe(func(state *counter) { second = append(second, state.value) })

		s.Update(func(state *counter) *counter { return increment(state, 1) })
		assert.Equal(t, []int{1, 2}, first)
		assert.Equal(t, []int{1, 2}, second)
		assert.Equal(t, 2, s.GetState().value)
	})
	t.Run("A listener ends on the latest snapshot when commits race a delivery", func(t *testing.T) {
		s := New(&counter{})
		entered := make(chan struct{})
		release := make(chan struct{})
		var (
			mu        sync.Mutex
			delivered []*counter
		)
		s.Subscribe(func(state *counter) {
			if state.value == 1 {
				close(entered)
				<-release
			}
			mu.Lock()
			delivered = append(delivered, state)
			mu.Unlock()
		})

		done := make(chan struct{})
		go func() {
			defer close(done)
			s.Update(func(state *counter) *counter { return increment(state, 1) })
		}()
		<-entered
		s.Update(func(state *counter) *counter { return increment(state, 1) })
		close(release)
		<-done

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, delivered, 2)
		assert.Equal(t, 1, delivered[0].value)
		assert.Same(t, s.GetState(), delivered[1])
	})
	t.Run("A panicking listener does not block later deliveries", func(t *testing.T) {
		s := New(&counter{})
		notified := 0
		s.Subscribe(func(state *counter) {
			if state.value == 1 {
				panic("boom")
			}
			notified++
		})
		assert.Panics(t, func() {
			s.Update(func(state *counter) *counter { return increment(state, 1) })
		})
		s.Update(func(state *counter) *counter { return increment(state, 1) })
		assert.Equal(t, 1, notified)
	})
	t.Run("Concurrent updates are all committed", func(t *testing.T) {
		s := New(&counter{}, WithMeter(noop.NewMeterProvider().Meter("test")))
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Update(func(state *counter) *counter { return increment(state, 1) })
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, s.GetState().value)
		assert.EqualValues(t, 50, s.Version())
	})
}

func TestActions(t *testing.T) {
	t.Run("Action", func(t *testing.T) {
		s := New(&counter{})
		notified := 0
		s.Subscribe(func(*counter) { notified++ })

		add := Action(s, increment)
		add(2)
		add(0)
		add(3)
		assert.Equal(t, 5, s.GetState().value)
		assert.Equal(t, 2, notified)
	})
	t.Run("Action2", func(t *testing.T) {
		s := New(&counter{})
		addTimes := Action2(s, func(state *counter, by, times int) *counter {
			return increment(state, by*times)
		})
		addTimes(2, 3)
		assert.Equal(t, 6, s.GetState().value)
	})
	t.Run("Action0", func(t *testing.T) {
		s := New(&counter{value: 4})
		reset := Action0(s, func(*counter) *counter { return &counter{} })
		reset()
		assert.Zero(t, s.GetState().value)
	})
}

func TestStoreLogging(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := log.NewZap(log.DebugLevel, buffer)
	s := New(&counter{}, WithName("counter"), WithLogger(logger))
	s.Update(func(state *counter) *counter { return increment(state, 1) })
	require.NoError(t, logger.Flush())
	assert.Contains(t, buffer.String(), "store counter committed version 1")
}
