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
	"slices"

	"github.com/tochemey/extslot/slotconfig"
)

// UpdatedSlotInfo folds the configuration a module applies to a slot into the
// module's instance of that slot.
//
// Ids the configuration adds or removes are appended to the instance when not
// already recorded. A configured order that is not already the tail of the
// instance order is moved to the end of it, one id at a time.
//
// The given slot is returned as is when the module has no instance in it or
// when the configuration brings nothing new, so applying the same
// configuration twice yields the same pointer.
func UpdatedSlotInfo(source slotconfig.Source, slotName, moduleName string, slot *SlotInfo) *SlotInfo {
	instance, ok := slot.Instance(moduleName)
	if !ok {
		return slot
	}
	if source == nil {
		source = slotconfig.NoConfig
	}

	cfg, _ := source.SlotConfig(moduleName, slotName)
	updated := mergeSlotInstance(instance, cfg)
	if updated == instance {
		return slot
	}
	return slot.withInstance(moduleName, updated)
}

// mergeSlotInstance returns instance itself when cfg changes nothing
func mergeSlotInstance(instance *SlotInstance, cfg slotconfig.SlotConfig) *SlotInstance {
	added, addChanged := appendMissing(instance.AddedIDs, cfg.Add)
	removed, removeChanged := appendMissing(instance.RemovedIDs, cfg.Remove)
	order, orderChanged := applyOrder(instance.IDOrder, cfg.Order)
	if !addChanged && !removeChanged && !orderChanged {
		return instance
	}
	return &SlotInstance{
		AddedIDs:   added,
		RemovedIDs: removed,
		IDOrder:    order,
	}
}

// appendMissing appends to ids every element of extra it does not contain yet.
// ids is never modified.
func appendMissing(ids, extra []string) ([]string, bool) {
	out := ids
	changed := false
	for _, id := range extra {
		if slices.Contains(out, id) {
			continue
		}
		if !changed {
			out = slices.Clone(ids)
			changed = true
		}
		out = append(out, id)
	}
	return out, changed
}

// applyOrder moves every id of order to the end of current, in sequence,
// unless order already is the tail of current
func applyOrder(current, order []string) ([]string, bool) {
	if order == nil || hasSuffix(current, order) {
		return current, false
	}

	next := slices.Clone(current)
	for _, id := range order {
		next = slices.DeleteFunc(next, func(existing string) bool { return existing == id })
		next = append(next, id)
	}
	if slices.Equal(next, current) {
		return current, false
	}
	return next, true
}

func hasSuffix(ids, suffix []string) bool {
	if len(suffix) > len(ids) {
		return false
	}
	return slices.Equal(ids[len(ids)-len(suffix):], suffix)
}
