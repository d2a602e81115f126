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

package metric

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// InstrumentationName is the meter name used by extslot
const InstrumentationName = "github.com/tochemey/extslot"

// StoreMetric defines the state store instrumentation
type StoreMetric struct {
	// Specifies the total number of committed state changes
	commitCount metric.Int64Counter
	// Specifies the total number of mutations that left the state untouched
	skipCount metric.Int64Counter
	// Specifies the number of live subscriptions
	subscribersCount metric.Int64UpDownCounter
}

// NewStoreMetric creates an instance of StoreMetric
func NewStoreMetric(meter metric.Meter) (*StoreMetric, error) {
	storeMetric := new(StoreMetric)
	var err error
	if storeMetric.commitCount, err = meter.Int64Counter(
		"extslot_store_commit_count",
		metric.WithDescription("Total number of committed state changes"),
	); err != nil {
		return nil, fmt.Errorf("failed to create commitCount instrument, %w", err)
	}

	if storeMetric.skipCount, err = meter.Int64Counter(
		"extslot_store_skip_count",
		metric.WithDescription("Total number of mutations that returned the current state"),
	); err != nil {
		return nil, fmt.Errorf("failed to create skipCount instrument, %w", err)
	}

	if storeMetric.subscribersCount, err = meter.Int64UpDownCounter(
		"extslot_store_subscribers",
		metric.WithDescription("Number of active store subscriptions"),
	); err != nil {
		return nil, fmt.Errorf("failed to create subscribersCount instrument, %w", err)
	}
	return storeMetric, nil
}

// NoopStoreMetric returns instruments that record nothing
func NoopStoreMetric() *StoreMetric {
	// the noop meter never fails
	storeMetric, _ := NewStoreMetric(noop.NewMeterProvider().Meter(InstrumentationName))
	return storeMetric
}

// CommitCount returns the committed state changes counter
func (x *StoreMetric) CommitCount() metric.Int64Counter {
	return x.commitCount
}

// SkipCount returns the no-op mutations counter
func (x *StoreMetric) SkipCount() metric.Int64Counter {
	return x.skipCount
}

// SubscribersCount returns the active subscriptions gauge
func (x *StoreMetric) SubscribersCount() metric.Int64UpDownCounter {
	return x.subscribersCount
}
