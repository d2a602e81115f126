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
	"fmt"

	"github.com/spf13/cobra"
)

func newSlotsCmd(root *rootOptions) *cobra.Command {
	var moduleName string
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List the slots a module mounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setup(cmd.Context(), cmd, root)
			if err != nil {
				return err
			}
			defer func() { _ = env.logger.Flush() }()

			for _, slotName := range env.registry.ExtensionSlotsForModule(moduleName) {
				ids := env.registry.ResolveSlot(slotName, moduleName)
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", slotName, len(ids)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&moduleName, "module", "", "module name")
	_ = cmd.MarkFlagRequired("module")
	return cmd
}
