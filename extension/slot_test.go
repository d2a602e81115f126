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

package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/extslot/slotconfig"
)

func sourceOf(moduleName, slotName string, cfg slotconfig.SlotConfig) slotconfig.Source {
	return slotconfig.SourceFunc(func(m, s string) (slotconfig.SlotConfig, bool) {
		if m == moduleName && s == slotName {
			return cfg, true
		}
		return slotconfig.SlotConfig{}, false
	})
}

func slotWithInstance(instance *SlotInstance) *SlotInfo {
	return newSlotInfo("nav").withInstance("module", instance)
}

func TestUpdatedSlotInfo(t *testing.T) {
	t.Run("Without instance the slot is returned unchanged", func(t *testing.T) {
		slot := newSlotInfo("nav")
		source := sourceOf("module", "nav", slotconfig.SlotConfig{Add: []string{"a"}})
		assert.Same(t, slot, UpdatedSlotInfo(source, "nav", "module", slot))
	})
	t.Run("Without configuration the slot is returned unchanged", func(t *testing.T) {
		slot := slotWithInstance(&SlotInstance{})
		assert.Same(t, slot, UpdatedSlotInfo(slotconfig.NoConfig, "nav", "module", slot))
		assert.Same(t, slot, UpdatedSlotInfo(nil, "nav", "module", slot))
	})
	t.Run("Added and removed ids are appended once", func(t *testing.T) {
		source := sourceOf("module", "nav", slotconfig.SlotConfig{
			Add:    []string{"b", "c", "b"},
			Remove: []string{"d"},
		})
		instance := &SlotInstance{AddedIDs: []string{"a", "b"}}
		slot := slotWithInstance(instance)

		updated := UpdatedSlotInfo(source, "nav", "module", slot)
		require.NotSame(t, slot, updated)
		got, ok := updated.Instance("module")
		require.True(t, ok)
		assert.Equal(t, []string{"a", "b", "c"}, got.AddedIDs)
		assert.Equal(t, []string{"d"}, got.RemovedIDs)
		assert.Equal(t, []string{"a", "b"}, instance.AddedIDs, "previous instance untouched")

		assert.Same(t, updated, UpdatedSlotInfo(source, "nav", "module", updated), "reapplying is a no-op")
	})
	t.Run("Order moves configured ids to the tail", func(t *testing.T) {
		source := sourceOf("module", "nav", slotconfig.SlotConfig{Order: []string{"a", "c"}})
		slot := slotWithInstance(&SlotInstance{IDOrder: []string{"a", "b", "c", "d"}})

		updated := UpdatedSlotInfo(source, "nav", "module", slot)
		got, _ := updated.Instance("module")
		assert.Equal(t, []string{"b", "d", "a", "c"}, got.IDOrder)
		assert.Same(t, updated, UpdatedSlotInfo(source, "nav", "module", updated))
	})
	t.Run("Order already at the tail is a no-op", func(t *testing.T) {
		source := sourceOf("module", "nav", slotconfig.SlotConfig{Order: []string{"b", "c"}})
		slot := slotWithInstance(&SlotInstance{IDOrder: []string{"a", "b", "c"}})
		assert.Same(t, slot, UpdatedSlotInfo(source, "nav", "module", slot))
	})
	t.Run("Order suffix compares whole ids", func(t *testing.T) {
		source := sourceOf("module", "nav", slotconfig.SlotConfig{Order: []string{"b"}})
		slot := slotWithInstance(&SlotInstance{IDOrder: []string{"ab"}})
		updated := UpdatedSlotInfo(source, "nav", "module", slot)
		got, _ := updated.Instance("module")
		assert.Equal(t, []string{"ab", "b"}, got.IDOrder)
	})
	t.Run("Order with repeated ids settles", func(t *testing.T) {
		source := sourceOf("module", "nav", slotconfig.SlotConfig{Order: []string{"a", "a"}})
		slot := slotWithInstance(&SlotInstance{})
		updated := UpdatedSlotInfo(source, "nav", "module", slot)
		got, _ := updated.Instance("module")
		assert.Equal(t, []string{"a"}, got.IDOrder)
		assert.Same(t, updated, UpdatedSlotInfo(source, "nav", "module", updated))
	})
	t.Run("Empty order is a no-op", func(t *testing.T) {
		source := sourceOf("module", "nav", slotconfig.SlotConfig{Order: []string{}})
		slot := slotWithInstance(&SlotInstance{IDOrder: []string{"a"}})
		assert.Same(t, slot, UpdatedSlotInfo(source, "nav", "module", slot))
	})
	t.Run("Other instances are shared", func(t *testing.T) {
		other := &SlotInstance{AddedIDs: []string{"z"}}
		slot := slotWithInstance(&SlotInstance{}).withInstance("other", other)
		source := sourceOf("module", "nav", slotconfig.SlotConfig{Add: []string{"a"}})

		updated := UpdatedSlotInfo(source, "nav", "module", slot)
		got, _ := updated.Instance("other")
		assert.Same(t, other, got)
		_, ok := slot.Instance("module")
		require.True(t, ok)
		original, _ := slot.Instance("module")
		assert.Empty(t, original.AddedIDs)
	})
}
