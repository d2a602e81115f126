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
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tochemey/extslot/errors"
)

func TestWatcher(t *testing.T) {
	t.Run("Start requires paths", func(t *testing.T) {
		watcher := NewWatcher(NewProvider(), nil)
		require.ErrorIs(t, watcher.Start(context.Background()), errors.ErrNoConfigPaths)
	})
	t.Run("Stop before Start", func(t *testing.T) {
		watcher := NewWatcher(NewProvider(), []string{"config.yaml"})
		require.ErrorIs(t, watcher.Stop(), errors.ErrWatcherNotStarted)
	})
	t.Run("Reload only applies changed content", func(t *testing.T) {
		ctx := context.Background()
		dir := t.TempDir()
		path := writeFile(t, dir, "config.yaml", yamlConfig)
		provider := NewProvider()
		watcher := NewWatcher(provider, []string{path, filepath.Join(dir, "absent.yaml")})

		changed, err := watcher.Reload(ctx)
		require.NoError(t, err)
		assert.True(t, changed)
		nav, ok := provider.SlotConfig("patient-chart", "nav")
		require.True(t, ok)
		assert.Equal(t, []string{"visits", "allergies"}, nav.Add)

		changed, err = watcher.Reload(ctx)
		require.NoError(t, err)
		assert.False(t, changed)

		writeFile(t, dir, "config.yaml", "modules:\n  home:\n    extensionSlots:\n      widgets:\n        add: [clock]\n")
		changed, err = watcher.Reload(ctx)
		require.NoError(t, err)
		assert.True(t, changed)

		_, ok = provider.SlotConfig("patient-chart", "nav")
		assert.False(t, ok, "modules dropped from the files are cleared")
		widgets, ok := provider.SlotConfig("home", "widgets")
		require.True(t, ok)
		assert.Equal(t, []string{"clock"}, widgets.Add)
	})
	t.Run("Reload surfaces parse errors", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "config.yaml", "modules: [unclosed")
		watcher := NewWatcher(NewProvider(), []string{path}, WithRetry(1, time.Millisecond, time.Millisecond))
		_, err := watcher.Reload(context.Background())
		require.Error(t, err)
	})
	t.Run("Reload does not retry files that fail to decode", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "config.yaml", "modules: [unclosed")
		watcher := NewWatcher(NewProvider(), []string{path}, WithRetry(5, 300*time.Millisecond, 300*time.Millisecond))

		begin := time.Now()
		_, err := watcher.Reload(context.Background())
		require.Error(t, err)
		var configErr *errors.ConfigError
		require.ErrorAs(t, err, &configErr)
		assert.Less(t, time.Since(begin), 250*time.Millisecond)
	})
	t.Run("Read failures are retried, decode failures are not", func(t *testing.T) {
		readErr := errors.NewConfigError("config.yaml", &fs.PathError{Op: "open", Path: "config.yaml", Err: fs.ErrPermission})
		assert.True(t, isReadError(readErr))
		assert.False(t, isReadError(errors.NewConfigError("config.yaml", errors.ErrUnsupportedConfigFormat)))

		_, parseErr := ParseYAML([]byte("modules: [unclosed"))
		require.Error(t, parseErr)
		assert.False(t, isReadError(errors.NewConfigError("config.yaml", parseErr)))
	})
	t.Run("Stop while Start is loading", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		dir := t.TempDir()
		path := writeFile(t, dir, "config.yaml", yamlConfig)
		watcher := NewWatcher(NewProvider(), []string{path}, WithInterval(10*time.Millisecond))

		started := make(chan error, 1)
		go func() { started <- watcher.Start(context.Background()) }()

		require.NotPanics(t, func() {
			require.Eventually(t, func() bool {
				return watcher.Stop() == nil
			}, time.Second, time.Millisecond)
		})
		require.NoError(t, <-started)
		require.ErrorIs(t, watcher.Stop(), errors.ErrWatcherNotStarted)
	})
	t.Run("Stop while a failing Start is loading", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "config.toml", "")
		watcher := NewWatcher(NewProvider(), []string{path})

		started := make(chan error, 1)
		go func() { started <- watcher.Start(context.Background()) }()

		var stopErr error
		require.NotPanics(t, func() { stopErr = watcher.Stop() })
		require.ErrorIs(t, stopErr, errors.ErrWatcherNotStarted)
		require.ErrorIs(t, <-started, errors.ErrUnsupportedConfigFormat)
		require.ErrorIs(t, watcher.Stop(), errors.ErrWatcherNotStarted)
	})
	t.Run("Start polls until Stop", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		ctx := context.Background()
		dir := t.TempDir()
		path := writeFile(t, dir, "config.hcl", hclConfig)
		provider := NewProvider()
		watcher := NewWatcher(provider, []string{path}, WithInterval(10*time.Millisecond))

		require.NoError(t, watcher.Start(ctx))
		require.ErrorIs(t, watcher.Start(ctx), errors.ErrWatcherStarted)

		_, ok := provider.SlotConfig("home", "widgets")
		require.True(t, ok)

		writeFile(t, dir, "config.hcl", `
module "home" {
  slot "widgets" {
    add = ["weather"]
  }
}
`)
		require.Eventually(t, func() bool {
			cfg, ok := provider.SlotConfig("home", "widgets")
			return ok && len(cfg.Add) == 1 && cfg.Add[0] == "weather"
		}, time.Second, 10*time.Millisecond)

		require.NoError(t, watcher.Stop())
	})
}
