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

// Package slotconfig holds the per-module extension slot overrides consumed
// by the extension registry.
//
// Each module owns a store of ModuleConfig snapshots. A ModuleConfig maps slot
// names to a SlotConfig listing the extension ids the module adds to the slot,
// the ids it removes from it and the order it wants them in. Configuration is
// read synchronously through the Source interface at resolution time.
//
// Decoding is tolerant: a field that is not a sequence of strings is treated
// as absent instead of failing the whole configuration.
package slotconfig

import (
	"maps"
	"slices"
)

const (
	fieldAdd            = "add"
	fieldRemove         = "remove"
	fieldOrder          = "order"
	fieldExtensionSlots = "extensionSlots"
)

// SlotConfig is the override of one slot for one module.
// A nil field is absent; a non-nil empty field is present but empty.
type SlotConfig struct {
	// Add lists extension ids added to the slot, in order of appearance
	Add []string
	// Remove lists extension ids hidden from the slot
	Remove []string
	// Order lists extension ids in their preferred sequence
	Order []string
}

// IsZero reports whether no field is present
func (x SlotConfig) IsZero() bool {
	return x.Add == nil && x.Remove == nil && x.Order == nil
}

// Equal compares two slot configurations field by field
func (x SlotConfig) Equal(other SlotConfig) bool {
	return slices.Equal(x.Add, other.Add) &&
		slices.Equal(x.Remove, other.Remove) &&
		slices.Equal(x.Order, other.Order)
}

// ModuleConfig is the extension slot configuration of a single module.
// Snapshots are immutable once handed to a Provider.
type ModuleConfig struct {
	ExtensionSlotConfigs map[string]SlotConfig
}

// SlotConfig returns the configuration of the given slot. It is safe to call on a nil ModuleConfig.
func (x *ModuleConfig) SlotConfig(slotName string) (SlotConfig, bool) {
	if x == nil {
		return SlotConfig{}, false
	}
	cfg, ok := x.ExtensionSlotConfigs[slotName]
	return cfg, ok
}

// Equal reports whether both configurations hold the same slot overrides
func (x *ModuleConfig) Equal(other *ModuleConfig) bool {
	var left, right map[string]SlotConfig
	if x != nil {
		left = x.ExtensionSlotConfigs
	}
	if other != nil {
		right = other.ExtensionSlotConfigs
	}
	return maps.EqualFunc(left, right, SlotConfig.Equal)
}

// withSlot returns a copy of the configuration with the given slot replaced
func (x *ModuleConfig) withSlot(slotName string, cfg SlotConfig) *ModuleConfig {
	slots := make(map[string]SlotConfig, 1)
	if x != nil {
		slots = maps.Clone(x.ExtensionSlotConfigs)
		if slots == nil {
			slots = make(map[string]SlotConfig, 1)
		}
	}
	slots[slotName] = cfg
	return &ModuleConfig{ExtensionSlotConfigs: slots}
}

// Source gives synchronous read access to slot configuration
type Source interface {
	// SlotConfig returns the configuration a module applies to a slot
	SlotConfig(moduleName, slotName string) (SlotConfig, bool)
}

// SourceFunc adapts a function to the Source interface
type SourceFunc func(moduleName, slotName string) (SlotConfig, bool)

// SlotConfig implements Source
func (f SourceFunc) SlotConfig(moduleName, slotName string) (SlotConfig, bool) {
	return f(moduleName, slotName)
}

// NoConfig is a Source without any configuration
var NoConfig Source = SourceFunc(func(string, string) (SlotConfig, bool) {
	return SlotConfig{}, false
})

// DecodeSlotConfig builds a SlotConfig out of loosely typed data such as
// decoded YAML. Fields that are not sequences of strings are left absent.
func DecodeSlotConfig(raw map[string]any) SlotConfig {
	return SlotConfig{
		Add:    stringSequence(raw[fieldAdd]),
		Remove: stringSequence(raw[fieldRemove]),
		Order:  stringSequence(raw[fieldOrder]),
	}
}

// DecodeModuleConfig builds a ModuleConfig out of loosely typed data holding
// an "extensionSlots" mapping. Entries that are not mappings are skipped.
func DecodeModuleConfig(raw map[string]any) *ModuleConfig {
	cfg := &ModuleConfig{ExtensionSlotConfigs: make(map[string]SlotConfig)}
	slots, ok := raw[fieldExtensionSlots].(map[string]any)
	if !ok {
		return cfg
	}
	for slotName, value := range slots {
		slotRaw, ok := value.(map[string]any)
		if !ok {
			continue
		}
		cfg.ExtensionSlotConfigs[slotName] = DecodeSlotConfig(slotRaw)
	}
	return cfg
}

// stringSequence returns nil unless value is a sequence made only of strings
func stringSequence(value any) []string {
	switch v := value.(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}
