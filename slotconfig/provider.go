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
	"github.com/tochemey/extslot/internal/xsync"
	"github.com/tochemey/extslot/log"
	"github.com/tochemey/extslot/store"
)

// change is the snapshot published whenever a module configuration commits
type change struct {
	module string
}

// Provider owns one configuration store per module and implements Source.
type Provider struct {
	stores       *xsync.Map[string, *store.Store[*ModuleConfig]]
	changes      *store.Store[*change]
	logger       log.Logger
	storeOptions []store.Option
}

var _ Source = (*Provider)(nil)

// NewProvider creates an empty Provider
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		stores: xsync.NewMap[string, *store.Store[*ModuleConfig]](),
		logger: log.DiscardLogger,
	}
	for _, opt := range opts {
		opt.Apply(p)
	}
	p.changes = store.New[*change](nil, store.WithName("slotconfig.changes"), store.WithLogger(p.logger))
	return p
}

// ModuleStore returns the configuration store of a module, creating an empty one on first use
func (p *Provider) ModuleStore(moduleName string) *store.Store[*ModuleConfig] {
	moduleStore, _ := p.stores.GetOrCreate(moduleName, func() *store.Store[*ModuleConfig] {
		opts := append([]store.Option{
			store.WithName("slotconfig." + moduleName),
			store.WithLogger(p.logger),
		}, p.storeOptions...)
		moduleStore := store.New(&ModuleConfig{}, opts...)
		moduleStore.Subscribe(func(*ModuleConfig) {
			p.changes.SetState(&change{module: moduleName})
		})
		return moduleStore
	})
	return moduleStore
}

// SlotConfig implements Source. Reading never creates a module store.
func (p *Provider) SlotConfig(moduleName, slotName string) (SlotConfig, bool) {
	moduleStore, ok := p.stores.Get(moduleName)
	if !ok {
		return SlotConfig{}, false
	}
	return moduleStore.GetState().SlotConfig(slotName)
}

// SetModuleConfig replaces the configuration of a module.
// A configuration equal to the current one is not committed.
func (p *Provider) SetModuleConfig(moduleName string, cfg *ModuleConfig) {
	if cfg == nil {
		cfg = &ModuleConfig{}
	}
	committed := p.ModuleStore(moduleName).Update(func(current *ModuleConfig) *ModuleConfig {
		if current.Equal(cfg) {
			return current
		}
		return cfg
	})
	if committed {
		p.logger.Debugf("configuration of module %s updated", moduleName)
	}
}

// SetSlotConfig replaces the configuration a module applies to one slot
func (p *Provider) SetSlotConfig(moduleName, slotName string, cfg SlotConfig) {
	p.ModuleStore(moduleName).Update(func(current *ModuleConfig) *ModuleConfig {
		if existing, ok := current.SlotConfig(slotName); ok && existing.Equal(cfg) {
			return current
		}
		return current.withSlot(slotName, cfg)
	})
}

// Apply replaces the configuration of every module present in configs.
// Modules missing from configs are left untouched.
func (p *Provider) Apply(configs map[string]*ModuleConfig) {
	for moduleName, cfg := range configs {
		p.SetModuleConfig(moduleName, cfg)
	}
}

// Modules returns the names of the modules known to the provider, sorted
func (p *Provider) Modules() []string {
	return xsync.SortedKeys(p.stores)
}

// Subscribe registers a callback invoked with the module name after each
// committed change of that module configuration
func (p *Provider) Subscribe(fn func(moduleName string)) (unsubscribe func()) {
	return p.changes.Subscribe(func(c *change) {
		fn(c.module)
	})
}
