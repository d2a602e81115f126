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

	"github.com/spf13/cobra"

	"github.com/tochemey/extslot/extension"
	"github.com/tochemey/extslot/internal/manifest"
	"github.com/tochemey/extslot/log"
	"github.com/tochemey/extslot/slotconfig"
)

type rootOptions struct {
	manifestPath string
	configPaths  []string
	logLevel     string
}

// environment is what every command works against
type environment struct {
	logger   *log.Zap
	provider *slotconfig.Provider
	registry *extension.Registry
}

func newRootCmd() *cobra.Command {
	opts := new(rootOptions)
	cmd := &cobra.Command{
		Use:           "slotctl",
		Short:         "Inspect extension slots",
		Long:          `slotctl loads an extension manifest and slot configuration files and prints how slots resolve.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.manifestPath, "manifest", "m", "", "extension manifest file (yaml)")
	flags.StringSliceVarP(&opts.configPaths, "config", "c", nil, "slot configuration files (yaml, json or hcl), later files win")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	_ = cmd.MarkPersistentFlagRequired("manifest")

	cmd.AddCommand(
		newResolveCmd(opts),
		newSlotsCmd(opts),
		newWatchCmd(opts),
	)
	return cmd
}

// setup builds the registry out of the configuration files and the manifest.
// Configuration is loaded first so that mounted slots pick it up.
func setup(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*environment, error) {
	level := log.ParseLevel(opts.logLevel)
	if level == log.InvalidLevel {
		return nil, fmt.Errorf("invalid log level %q", opts.logLevel)
	}
	logger := log.NewZap(level, cmd.ErrOrStderr())

	provider := slotconfig.NewProvider(slotconfig.WithLogger(logger))
	if len(opts.configPaths) > 0 {
		configs, err := slotconfig.LoadFiles(ctx, opts.configPaths...)
		if err != nil {
			return nil, err
		}
		provider.Apply(configs)
	}

	registry := extension.NewRegistry(
		extension.WithLogger(logger),
		extension.WithConfigSource(provider),
	)

	m, err := manifest.Load(opts.manifestPath)
	if err != nil {
		return nil, err
	}
	m.Apply(registry)
	logger.Infof("loaded %d extension(s) from %s", len(m.Extensions), opts.manifestPath)

	return &environment{
		logger:   logger,
		provider: provider,
		registry: registry,
	}, nil
}
