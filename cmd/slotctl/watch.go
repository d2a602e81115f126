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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tochemey/extslot/errors"
	"github.com/tochemey/extslot/extension"
	"github.com/tochemey/extslot/slotconfig"
)

func newWatchCmd(root *rootOptions) *cobra.Command {
	var (
		moduleName string
		slotName   string
		interval   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a slot instance every time its resolution changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(root.configPaths) == 0 {
				return errors.ErrNoConfigPaths
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			env, err := setup(ctx, cmd, root)
			if err != nil {
				return err
			}
			defer func() { _ = env.logger.Flush() }()

			return watch(ctx, cmd.OutOrStdout(), env, root.configPaths, slotName, moduleName,
				slotconfig.WithInterval(interval),
				slotconfig.WithWatcherLogger(env.logger))
		},
	}
	cmd.Flags().StringVar(&moduleName, "module", "", "module owning the slot instance")
	cmd.Flags().StringVar(&slotName, "slot", "", "slot name")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "configuration polling interval")
	_ = cmd.MarkFlagRequired("module")
	_ = cmd.MarkFlagRequired("slot")
	return cmd
}

// watch prints the slot resolution once, then again on every change, until ctx is done
func watch(ctx context.Context, out io.Writer, env *environment, paths []string, slotName, moduleName string, opts ...slotconfig.WatcherOption) error {
	watcher := slotconfig.NewWatcher(env.provider, paths, opts...)

	var (
		mu   sync.Mutex
		last []string
	)
	show := func(state *extension.State) {
		ids := resolve(state, slotName, moduleName)
		mu.Lock()
		defer mu.Unlock()
		if last != nil && slices.Equal(last, ids) {
			return
		}
		last = ids
		_, _ = fmt.Fprintf(out, "%s [%s]\n", slotName, strings.Join(ids, ", "))
	}

	show(env.registry.State())
	unsubscribe := env.registry.Store().Subscribe(show)
	defer unsubscribe()
	unfollow := env.registry.FollowConfig(env.provider)
	defer unfollow()

	if err := watcher.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return watcher.Stop()
}

func resolve(state *extension.State, slotName, moduleName string) []string {
	slot, ok := state.Slots[slotName]
	if !ok {
		return []string{}
	}
	instance, ok := slot.Instance(moduleName)
	if !ok {
		return []string{}
	}
	return extension.AssignedIDs(state, instance, slot.AttachedIDs)
}
