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
	"context"
	stderrors "errors"
	"io/fs"
	"maps"
	"os"
	"slices"
	"sync"
	"time"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/flowchartsman/retry"
	"github.com/zeebo/xxh3"

	"github.com/tochemey/extslot/errors"
	"github.com/tochemey/extslot/internal/ticker"
	"github.com/tochemey/extslot/log"
)

const (
	defaultWatchInterval = 2 * time.Second
	defaultMaxRetries    = 3
	defaultInitialDelay  = 50 * time.Millisecond
	defaultMaxDelay      = 500 * time.Millisecond
)

// Watcher polls configuration files and pushes their content into a Provider.
// Files are fingerprinted with xxh3 so that touching a file without changing
// its content does not reload it. Missing files are skipped.
type Watcher struct {
	provider *Provider
	paths    []string
	interval time.Duration
	logger   log.Logger

	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration

	mu           sync.Mutex
	fingerprints map[string]uint64
	modules      goset.Set[string]

	lifecycle sync.Mutex
	started   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewWatcher creates a Watcher feeding the given provider
func NewWatcher(provider *Provider, paths []string, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		provider:     provider,
		paths:        slices.Clone(paths),
		interval:     defaultWatchInterval,
		logger:       log.DiscardLogger,
		maxRetries:   defaultMaxRetries,
		initialDelay: defaultInitialDelay,
		maxDelay:     defaultMaxDelay,
		modules:      goset.NewThreadUnsafeSet[string](),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start loads the files once then keeps polling them until Stop is called or ctx is done.
// The initial load error is returned; later errors are logged.
// A Stop issued while Start is loading waits for Start to complete.
func (w *Watcher) Start(ctx context.Context) error {
	if len(w.paths) == 0 {
		return errors.ErrNoConfigPaths
	}

	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()
	if w.started {
		return errors.ErrWatcherStarted
	}

	if _, err := w.Reload(ctx); err != nil {
		return err
	}

	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.started = true
	go w.loop(ctx, w.stopCh, w.doneCh)
	return nil
}

// Stop halts polling and waits for the polling goroutine to exit
func (w *Watcher) Stop() error {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()
	if !w.started {
		return errors.ErrWatcherNotStarted
	}
	w.started = false
	close(w.stopCh)
	<-w.doneCh
	w.stopCh, w.doneCh = nil, nil
	return nil
}

// Reload reads the watched files when their content changed since the last
// reload and applies them to the provider. Modules that vanished from the
// files get an empty configuration. It reports whether anything was applied.
func (w *Watcher) Reload(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	fingerprints := fingerprint(w.paths)
	if w.fingerprints != nil && maps.Equal(fingerprints, w.fingerprints) {
		return false, nil
	}

	existing := make([]string, 0, len(fingerprints))
	for _, path := range w.paths {
		if _, ok := fingerprints[path]; ok {
			existing = append(existing, path)
		}
	}

	var (
		configs map[string]*ModuleConfig
		loadErr error
	)
	retrier := retry.NewRetrier(w.maxRetries, w.initialDelay, w.maxDelay)
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		configs, loadErr = LoadFiles(ctx, existing...)
		if loadErr != nil && !isReadError(loadErr) {
			// a file that does not parse will not parse on the next attempt either
			return retry.Stop(loadErr)
		}
		return loadErr
	})
	if err != nil {
		if loadErr != nil {
			return false, loadErr
		}
		return false, err
	}

	loaded := goset.NewThreadUnsafeSet[string]()
	for moduleName := range configs {
		loaded.Add(moduleName)
	}
	for _, moduleName := range w.modules.Difference(loaded).ToSlice() {
		w.provider.SetModuleConfig(moduleName, &ModuleConfig{})
	}
	w.provider.Apply(configs)

	w.modules = loaded
	w.fingerprints = fingerprints
	w.logger.Debugf("loaded extension slot configuration of %d module(s) from %d file(s)", loaded.Cardinality(), len(existing))
	return true, nil
}

func (w *Watcher) loop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	tick := ticker.New(w.interval)
	tick.Start()
	defer tick.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-tick.C():
			if _, err := w.Reload(ctx); err != nil {
				w.logger.Errorf("failed to reload extension slot configuration: %v", err)
			}
		}
	}
}

// isReadError reports whether err comes from reading a file rather than decoding it
func isReadError(err error) bool {
	var pathErr *fs.PathError
	return stderrors.As(err, &pathErr)
}

// fingerprint hashes the content of every readable path
func fingerprint(paths []string) map[string]uint64 {
	out := make(map[string]uint64, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		out[path] = xxh3.Hash(data)
	}
	return out
}
