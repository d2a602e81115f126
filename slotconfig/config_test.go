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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSlotConfig(t *testing.T) {
	t.Run("With well formed fields", func(t *testing.T) {
		cfg := DecodeSlotConfig(map[string]any{
			"add":    []any{"a", "b"},
			"remove": []string{"c"},
			"order":  []any{},
		})
		assert.Equal(t, []string{"a", "b"}, cfg.Add)
		assert.Equal(t, []string{"c"}, cfg.Remove)
		require.NotNil(t, cfg.Order)
		assert.Empty(t, cfg.Order)
		assert.False(t, cfg.IsZero())
	})
	t.Run("With a non-string element the field is absent", func(t *testing.T) {
		cfg := DecodeSlotConfig(map[string]any{
			"add":   []any{"a", 1},
			"order": []any{"b"},
		})
		assert.Nil(t, cfg.Add)
		assert.Equal(t, []string{"b"}, cfg.Order)
	})
	t.Run("With scalar values the fields are absent", func(t *testing.T) {
		cfg := DecodeSlotConfig(map[string]any{
			"add":    "a",
			"remove": 42,
			"order":  map[string]any{"a": 1},
		})
		assert.True(t, cfg.IsZero())
	})
	t.Run("With nil input", func(t *testing.T) {
		assert.True(t, DecodeSlotConfig(nil).IsZero())
	})
}

func TestDecodeModuleConfig(t *testing.T) {
	cfg := DecodeModuleConfig(map[string]any{
		"extensionSlots": map[string]any{
			"nav":    map[string]any{"add": []any{"x"}},
			"broken": "not a mapping",
		},
	})
	require.NotNil(t, cfg)
	slot, ok := cfg.SlotConfig("nav")
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, slot.Add)
	_, ok = cfg.SlotConfig("broken")
	assert.False(t, ok)

	empty := DecodeModuleConfig(map[string]any{"other": true})
	assert.Empty(t, empty.ExtensionSlotConfigs)
}

func TestModuleConfig(t *testing.T) {
	t.Run("SlotConfig on nil", func(t *testing.T) {
		var cfg *ModuleConfig
		_, ok := cfg.SlotConfig("nav")
		assert.False(t, ok)
	})
	t.Run("Equal", func(t *testing.T) {
		left := &ModuleConfig{ExtensionSlotConfigs: map[string]SlotConfig{"nav": {Add: []string{"a"}}}}
		right := &ModuleConfig{ExtensionSlotConfigs: map[string]SlotConfig{"nav": {Add: []string{"a"}}}}
		assert.True(t, left.Equal(right))
		assert.True(t, (*ModuleConfig)(nil).Equal(&ModuleConfig{}))

		right.ExtensionSlotConfigs["nav"] = SlotConfig{Add: []string{"a"}, Order: []string{}}
		assert.True(t, left.Equal(right), "nil and empty slices compare equal")

		right.ExtensionSlotConfigs["nav"] = SlotConfig{Add: []string{"b"}}
		assert.False(t, left.Equal(right))
	})
	t.Run("withSlot leaves the receiver untouched", func(t *testing.T) {
		original := &ModuleConfig{ExtensionSlotConfigs: map[string]SlotConfig{"nav": {Add: []string{"a"}}}}
		updated := original.withSlot("header", SlotConfig{Remove: []string{"b"}})
		assert.Len(t, original.ExtensionSlotConfigs, 1)
		assert.Len(t, updated.ExtensionSlotConfigs, 2)

		fromNil := (*ModuleConfig)(nil).withSlot("nav", SlotConfig{})
		assert.Len(t, fromNil.ExtensionSlotConfigs, 1)
	})
}

func TestNoConfig(t *testing.T) {
	_, ok := NoConfig.SlotConfig("module", "slot")
	assert.False(t, ok)
}
