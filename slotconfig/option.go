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

package slotconfig

import (
	"time"

	"github.com/tochemey/extslot/log"
	"github.com/tochemey/extslot/store"
)

// Option is the interface that applies a Provider option.
type Option interface {
	// Apply sets the Option value of a Provider.
	Apply(provider *Provider)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Provider)

// Apply applies the option
func (f OptionFunc) Apply(p *Provider) {
	f(p)
}

// WithLogger sets the provider logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(p *Provider) {
		p.logger = logger
	})
}

// WithStoreOptions sets the options used to create every module store
func WithStoreOptions(opts ...store.Option) Option {
	return OptionFunc(func(p *Provider) {
		p.storeOptions = append(p.storeOptions, opts...)
	})
}

// WatcherOption configures a Watcher
type WatcherOption func(*Watcher)

// WithInterval overrides the default polling interval
func WithInterval(interval time.Duration) WatcherOption {
	return func(w *Watcher) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

// WithRetry sets how reading the watched files is retried
func WithRetry(maxRetries int, initialDelay, maxDelay time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.maxRetries = maxRetries
		w.initialDelay = initialDelay
		w.maxDelay = maxDelay
	}
}

// WithWatcherLogger sets the watcher logger
func WithWatcherLogger(logger log.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}
