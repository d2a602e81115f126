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

// Package manifest decodes the declarative description of the extensions a
// process registers, the slots they attach to and the slot instances modules
// mount, and replays it against an extension registry.
//
//	extensions:
//	  - name: vitals
//	    module: "@app/patient-chart"
//	    order: 1
//	    offline: true
//	    meta:
//	      title: Vitals
//	    slots: [patient-banner]
//	attachments:
//	  - slot: patient-banner
//	    id: vitals#compact
//	mounts:
//	  - module: "@app/patient-chart"
//	    slot: patient-banner
package manifest

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/tochemey/extslot/errors"
	"github.com/tochemey/extslot/extension"
	"github.com/tochemey/extslot/extid"
	"github.com/tochemey/extslot/internal/validation"
)

// Manifest lists what to register, attach and mount
type Manifest struct {
	Extensions  []Extension  `yaml:"extensions"`
	Attachments []Attachment `yaml:"attachments"`
	Mounts      []Mount      `yaml:"mounts"`
}

// Extension declares one extension and the slots it is attached to under its own name
type Extension struct {
	Name    string         `yaml:"name"`
	Module  string         `yaml:"module"`
	Order   *int           `yaml:"order"`
	Online  *bool          `yaml:"online"`
	Offline *bool          `yaml:"offline"`
	Meta    map[string]any `yaml:"meta"`
	Slots   []string       `yaml:"slots"`
}

// Attachment attaches an extension id, usually carrying a discriminator, to a slot
type Attachment struct {
	Slot string `yaml:"slot"`
	ID   string `yaml:"id"`
}

// Mount is a slot instance owned by a module
type Mount struct {
	Module string `yaml:"module"`
	Slot   string `yaml:"slot"`
}

// Load reads and validates a manifest file
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(path, err)
	}
	manifest, err := Parse(data)
	if err != nil {
		return nil, errors.NewConfigError(path, err)
	}
	return manifest, nil
}

// Parse decodes and validates a manifest
func Parse(data []byte) (*Manifest, error) {
	manifest := new(Manifest)
	if err := yaml.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidManifest, err)
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Validate reports every problem of the manifest at once
func (m *Manifest) Validate() error {
	chain := validation.New(validation.AllErrors())
	for index, ext := range m.Extensions {
		chain.AddValidator(entryValidator(fmt.Sprintf("extensions[%d]", index), extensionValidator(ext)))
	}
	for index, attachment := range m.Attachments {
		chain.AddValidator(entryValidator(fmt.Sprintf("attachments[%d]", index), attachmentValidator(attachment)))
	}
	for index, mount := range m.Mounts {
		chain.AddValidator(entryValidator(fmt.Sprintf("mounts[%d]", index), validation.New(validation.AllErrors()).
			AddValidator(validation.NewRequiredValidator(mount.Module, errors.ErrModuleNameRequired)).
			AddValidator(validation.NewRequiredValidator(mount.Slot, errors.ErrSlotNameRequired))))
	}

	if err := chain.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidManifest, err)
	}
	return nil
}

// Apply registers the extensions, then attaches them, then mounts the slots
func (m *Manifest) Apply(registry *extension.Registry) {
	for _, ext := range m.Extensions {
		registry.RegisterExtension(ext.Name, ext.details())
		for _, slotName := range ext.Slots {
			registry.Attach(slotName, ext.Name)
		}
	}
	for _, attachment := range m.Attachments {
		registry.Attach(attachment.Slot, attachment.ID)
	}
	for _, mount := range m.Mounts {
		registry.RegisterExtensionSlot(mount.Module, mount.Slot)
	}
}

func (x Extension) details() extension.Details {
	return extension.Details{
		ModuleName: x.Module,
		Meta:       x.Meta,
		Online:     capability(x.Online),
		Offline:    capability(x.Offline),
		Order:      x.Order,
	}
}

func capability(enabled *bool) *extension.Capability {
	if enabled == nil {
		return nil
	}
	return &extension.Capability{Enabled: *enabled}
}

func extensionValidator(ext Extension) validation.Validator {
	chain := validation.New(validation.AllErrors()).
		AddValidator(extid.New(ext.Name)).
		AddValidator(validation.NewRequiredValidator(ext.Module, errors.ErrModuleNameRequired))
	for _, slotName := range ext.Slots {
		chain.AddValidator(validation.NewRequiredValidator(slotName, errors.ErrSlotNameRequired))
	}
	return chain
}

func attachmentValidator(attachment Attachment) validation.Validator {
	return validation.New(validation.AllErrors()).
		AddValidator(validation.NewRequiredValidator(attachment.Slot, errors.ErrSlotNameRequired)).
		AddValidator(validatorFunc(func() error {
			_, err := extid.Parse(attachment.ID)
			return err
		}))
}

type validatorFunc func() error

func (f validatorFunc) Validate() error {
	return f()
}

// entryValidator prefixes every violation of an entry with its location
func entryValidator(location string, v validation.Validator) validation.Validator {
	return validatorFunc(func() error {
		var violations error
		for _, err := range multierr.Errors(v.Validate()) {
			violations = multierr.Append(violations, fmt.Errorf("%s: %w", location, err))
		}
		return violations
	})
}
