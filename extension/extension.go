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

// Package extension implements the extension slot registry.
//
// Extensions are named, pluggable fragments. Slots are named insertion points
// extensions get attached to. A module that mounts a slot owns an instance of
// it, and the instance folds the module's slot configuration (extensions
// added, removed and explicitly ordered) on top of the statically attached
// extensions. The Registry keeps all of it in a single store of immutable
// snapshots and computes, on demand, the ordered list of extension ids a
// slot instance should render.
package extension

import (
	"context"
	"maps"

	"github.com/tochemey/extslot/errors"
	"github.com/tochemey/extslot/extid"
)

// Loader loads the code backing an extension
type Loader interface {
	Load(ctx context.Context) (any, error)
}

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc func(ctx context.Context) (any, error)

// Load implements Loader
func (f LoaderFunc) Load(ctx context.Context) (any, error) {
	return f(ctx)
}

// Capability describes whether an extension may be used in a connectivity
// mode. Options carries free-form settings for that mode.
type Capability struct {
	Enabled bool
	Options map[string]any
}

// Details is what a module declares when registering an extension
type Details struct {
	// ModuleName is the module providing the extension
	ModuleName string
	// Loader loads the extension code
	Loader Loader
	// Meta is free-form metadata. Keys are not enumerated by the registry.
	Meta map[string]any
	// Online tells whether the extension can be used online. Nil means yes.
	Online *Capability
	// Offline tells whether the extension can be used offline. Nil means no.
	Offline *Capability
	// Order is the default rank of the extension in the slots it is attached to.
	// Nil or negative means unranked.
	Order *int
}

// Registration is a registered extension.
// Registrations are immutable; registering the same name again replaces it.
type Registration struct {
	Name       string
	ModuleName string
	Loader     Loader
	Meta       map[string]any
	Online     *Capability
	Offline    *Capability
	Order      *int
}

func newRegistration(name string, details Details) *Registration {
	registration := &Registration{
		Name:       name,
		ModuleName: details.ModuleName,
		Loader:     details.Loader,
		Meta:       maps.Clone(details.Meta),
		Online:     details.Online,
		Offline:    details.Offline,
		Order:      details.Order,
	}
	if registration.Order != nil {
		order := *registration.Order
		registration.Order = &order
	}
	return registration
}

// Load loads the extension code
func (x *Registration) Load(ctx context.Context) (any, error) {
	if x.Loader == nil {
		return nil, errors.ErrMissingLoader
	}
	return x.Loader.Load(ctx)
}

// AvailableOnline reports whether the extension can be used while online
func (x *Registration) AvailableOnline() bool {
	return x.Online == nil || x.Online.Enabled
}

// AvailableOffline reports whether the extension can be used while offline
func (x *Registration) AvailableOffline() bool {
	return x.Offline != nil && x.Offline.Enabled
}

// SlotInstance is the configuration a module applied to a slot it mounts.
// All three lists only grow as configuration is applied.
type SlotInstance struct {
	AddedIDs   []string
	RemovedIDs []string
	IDOrder    []string
}

// SlotInfo describes a slot: the extension ids attached to it, in attachment
// order, and the instances of the modules mounting it.
type SlotInfo struct {
	Name        string
	AttachedIDs []string
	Instances   map[string]*SlotInstance
}

func newSlotInfo(name string) *SlotInfo {
	return &SlotInfo{
		Name:        name,
		AttachedIDs: []string{},
		Instances:   map[string]*SlotInstance{},
	}
}

// Instance returns the instance a module owns in the slot
func (x *SlotInfo) Instance(moduleName string) (*SlotInstance, bool) {
	if x == nil {
		return nil, false
	}
	instance, ok := x.Instances[moduleName]
	return instance, ok
}

func (x *SlotInfo) withAttachedIDs(ids []string) *SlotInfo {
	return &SlotInfo{Name: x.Name, AttachedIDs: ids, Instances: x.Instances}
}

func (x *SlotInfo) withInstance(moduleName string, instance *SlotInstance) *SlotInfo {
	instances := maps.Clone(x.Instances)
	if instances == nil {
		instances = make(map[string]*SlotInstance, 1)
	}
	instances[moduleName] = instance
	return &SlotInfo{Name: x.Name, AttachedIDs: x.AttachedIDs, Instances: instances}
}

func (x *SlotInfo) withoutInstance(moduleName string) *SlotInfo {
	instances := maps.Clone(x.Instances)
	delete(instances, moduleName)
	return &SlotInfo{Name: x.Name, AttachedIDs: x.AttachedIDs, Instances: instances}
}

// State is a snapshot of the registry.
// Snapshots are shared between readers and must never be modified.
type State struct {
	Extensions map[string]*Registration
	Slots      map[string]*SlotInfo
}

// NewState returns an empty snapshot
func NewState() *State {
	return &State{
		Extensions: map[string]*Registration{},
		Slots:      map[string]*SlotInfo{},
	}
}

// Registration returns the registration an extension id refers to
func (x *State) Registration(extensionID string) (*Registration, bool) {
	registration, ok := x.Extensions[extid.NameOf(extensionID)]
	return registration, ok
}

func (x *State) withExtension(name string, registration *Registration) *State {
	extensions := maps.Clone(x.Extensions)
	if extensions == nil {
		extensions = make(map[string]*Registration, 1)
	}
	extensions[name] = registration
	return &State{Extensions: extensions, Slots: x.Slots}
}

func (x *State) withSlot(slot *SlotInfo) *State {
	slots := maps.Clone(x.Slots)
	if slots == nil {
		slots = make(map[string]*SlotInfo, 1)
	}
	slots[slot.Name] = slot
	return &State{Extensions: x.Extensions, Slots: slots}
}

func (x *State) withSlots(updated []*SlotInfo) *State {
	slots := make(map[string]*SlotInfo, len(x.Slots))
	maps.Copy(slots, x.Slots)
	for _, slot := range updated {
		slots[slot.Name] = slot
	}
	return &State{Extensions: x.Extensions, Slots: slots}
}
