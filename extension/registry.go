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
	"maps"
	"slices"

	"github.com/tochemey/extslot/log"
	"github.com/tochemey/extslot/slotconfig"
	"github.com/tochemey/extslot/store"
)

// ConfigNotifier notifies the name of every module whose configuration changed
type ConfigNotifier interface {
	Subscribe(fn func(moduleName string)) (unsubscribe func())
}

var _ ConfigNotifier = (*slotconfig.Provider)(nil)

// Registry tracks registered extensions, the slots they are attached to and
// the slot instances mounted by modules.
//
// Every operation is a store action: it commits a new snapshot only when it
// changes something, and subscribers of Store are notified before it returns.
// Lookups on unknown names degrade to absent results; no operation fails.
type Registry struct {
	store        *store.Store[*State]
	source       slotconfig.Source
	logger       log.Logger
	storeOptions []store.Option

	registerExtension func(string, Details)
	attach            func(string, string)
	detach            func(string, string)
	detachAll         func(string)
	registerSlot      func(string, string)
	unregisterSlot    func(string, string)
	refreshModule     func(string)
	reset             func()
}

// NewRegistry creates an empty Registry
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		source: slotconfig.NoConfig,
		logger: log.DiscardLogger,
	}
	for _, opt := range opts {
		opt.Apply(r)
	}
	if r.source == nil {
		r.source = slotconfig.NoConfig
	}

	storeOptions := append([]store.Option{
		store.WithName("extensions"),
		store.WithLogger(r.logger),
	}, r.storeOptions...)
	r.store = store.New(NewState(), storeOptions...)

	r.registerExtension = store.Action2(r.store, registerExtension)
	r.attach = store.Action2(r.store, attach)
	r.detach = store.Action2(r.store, detach)
	r.detachAll = store.Action(r.store, detachAll)
	r.registerSlot = store.Action2(r.store, r.registerSlotInstance)
	r.unregisterSlot = store.Action2(r.store, r.unregisterSlotInstance)
	r.refreshModule = store.Action(r.store, r.refreshModuleInstances)
	r.reset = store.Action0(r.store, reset)
	return r
}

// Store returns the store holding the registry snapshots
func (r *Registry) Store() *store.Store[*State] {
	return r.store
}

// State returns the current snapshot
func (r *Registry) State() *State {
	return r.store.GetState()
}

// RegisterExtension registers an extension under the given name, replacing
// any previous registration of that name
func (r *Registry) RegisterExtension(name string, details Details) {
	r.registerExtension(name, details)
	r.logger.Debugf("extension %s registered by module %s", name, details.ModuleName)
}

// Attach appends an extension id to the ids attached to a slot.
// The slot is created when unknown. Attaching the same id twice records it twice.
func (r *Registry) Attach(slotName, extensionID string) {
	r.attach(slotName, extensionID)
	r.logger.Debugf("extension %s attached to slot %s", extensionID, slotName)
}

// Detach removes the first occurrence of an extension id from a slot
func (r *Registry) Detach(slotName, extensionID string) {
	r.detach(slotName, extensionID)
}

// DetachAll removes every extension id attached to a slot
func (r *Registry) DetachAll(slotName string) {
	r.detachAll(slotName)
}

// RegisterExtensionSlot creates the instance of a slot owned by a module,
// then applies the module configuration to it
func (r *Registry) RegisterExtensionSlot(moduleName, slotName string) {
	r.registerSlot(moduleName, slotName)
}

// UnregisterExtensionSlot removes the instance of a slot owned by a module
func (r *Registry) UnregisterExtensionSlot(moduleName, slotName string) {
	r.unregisterSlot(moduleName, slotName)
}

// RefreshModule applies the current configuration of a module to every slot
// instance the module owns
func (r *Registry) RefreshModule(moduleName string) {
	r.refreshModule(moduleName)
}

// FollowConfig refreshes a module's slot instances every time its
// configuration changes. It returns the function that stops following.
func (r *Registry) FollowConfig(notifier ConfigNotifier) (unsubscribe func()) {
	return notifier.Subscribe(func(moduleName string) {
		r.logger.Debugf("configuration of module %s changed, refreshing its slots", moduleName)
		r.RefreshModule(moduleName)
	})
}

// Reset drops every extension and slot
func (r *Registry) Reset() {
	r.reset()
}

// ExtensionSlotsForModule returns the sorted names of the slots in which the
// module owns an instance
func (r *Registry) ExtensionSlotsForModule(moduleName string) []string {
	return slotsOf(r.store.GetState(), moduleName)
}

// ExtensionRegistration returns the registration an extension id refers to.
// Only the name part of the id is used.
func (r *Registry) ExtensionRegistration(extensionID string) (*Registration, bool) {
	return r.store.GetState().Registration(extensionID)
}

// SlotInfo returns the current information of a slot
func (r *Registry) SlotInfo(slotName string) (*SlotInfo, bool) {
	slot, ok := r.store.GetState().Slots[slotName]
	return slot, ok
}

// AssignedIDs orders the ids of a slot instance against the current registrations
func (r *Registry) AssignedIDs(instance *SlotInstance, attachedIDs []string) []string {
	return AssignedIDs(r.store.GetState(), instance, attachedIDs)
}

// ResolveSlot returns the ordered extension ids of the instance a module owns
// in a slot. It returns nil when the slot or the instance does not exist.
func (r *Registry) ResolveSlot(slotName, moduleName string) []string {
	state := r.store.GetState()
	slot, ok := state.Slots[slotName]
	if !ok {
		return nil
	}
	instance, ok := slot.Instance(moduleName)
	if !ok {
		return nil
	}
	return AssignedIDs(state, instance, slot.AttachedIDs)
}

func reset(state *State) *State {
	if len(state.Extensions) == 0 && len(state.Slots) == 0 {
		return state
	}
	return NewState()
}

func registerExtension(state *State, name string, details Details) *State {
	return state.withExtension(name, newRegistration(name, details))
}

func attach(state *State, slotName, extensionID string) *State {
	slot, ok := state.Slots[slotName]
	if !ok {
		slot = newSlotInfo(slotName)
	}
	ids := make([]string, 0, len(slot.AttachedIDs)+1)
	ids = append(ids, slot.AttachedIDs...)
	ids = append(ids, extensionID)
	return state.withSlot(slot.withAttachedIDs(ids))
}

func detach(state *State, slotName, extensionID string) *State {
	slot, ok := state.Slots[slotName]
	if !ok {
		return state
	}
	index := slices.Index(slot.AttachedIDs, extensionID)
	if index < 0 {
		return state
	}
	ids := make([]string, 0, len(slot.AttachedIDs)-1)
	ids = append(ids, slot.AttachedIDs[:index]...)
	ids = append(ids, slot.AttachedIDs[index+1:]...)
	return state.withSlot(slot.withAttachedIDs(ids))
}

func detachAll(state *State, slotName string) *State {
	slot, ok := state.Slots[slotName]
	if !ok || len(slot.AttachedIDs) == 0 {
		return state
	}
	return state.withSlot(slot.withAttachedIDs([]string{}))
}

func (r *Registry) registerSlotInstance(state *State, moduleName, slotName string) *State {
	existing, ok := state.Slots[slotName]
	slot := existing
	switch {
	case !ok:
		slot = newSlotInfo(slotName).withInstance(moduleName, &SlotInstance{})
	case !hasInstance(existing, moduleName):
		slot = existing.withInstance(moduleName, &SlotInstance{})
	}

	updated := UpdatedSlotInfo(r.source, slotName, moduleName, slot)
	if ok && updated == existing {
		return state
	}
	r.logger.Debugf("slot %s instance of module %s registered", slotName, moduleName)
	return state.withSlot(updated)
}

func (r *Registry) unregisterSlotInstance(state *State, moduleName, slotName string) *State {
	existing, ok := state.Slots[slotName]
	if !ok || !hasInstance(existing, moduleName) {
		return state
	}
	r.logger.Debugf("slot %s instance of module %s unregistered", slotName, moduleName)
	return state.withSlot(existing.withoutInstance(moduleName))
}

func (r *Registry) refreshModuleInstances(state *State, moduleName string) *State {
	var updated []*SlotInfo
	for _, slotName := range slotsOf(state, moduleName) {
		slot := state.Slots[slotName]
		if next := UpdatedSlotInfo(r.source, slotName, moduleName, slot); next != slot {
			updated = append(updated, next)
		}
	}
	if len(updated) == 0 {
		return state
	}
	return state.withSlots(updated)
}

func hasInstance(slot *SlotInfo, moduleName string) bool {
	_, ok := slot.Instance(moduleName)
	return ok
}

func slotsOf(state *State, moduleName string) []string {
	names := make([]string, 0)
	for _, slotName := range slices.Sorted(maps.Keys(state.Slots)) {
		if hasInstance(state.Slots[slotName], moduleName) {
			names = append(names, slotName)
		}
	}
	return names
}
