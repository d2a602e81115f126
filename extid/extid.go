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

// Package extid provides the composite identifier of an extension attached to
// a slot.
//
// An extension id is made of the registered extension name and an optional
// discriminator. The discriminator tells apart several attachments of the same
// extension. The canonical textual representation is:
//
//	<name>#<discriminator>
//
// or just <name> when no discriminator is set. The name is the lookup key of
// the extension registration. Only the first '#' separates the two parts, so a
// discriminator may itself contain '#'.
package extid

import (
	"regexp"
	"strings"

	"github.com/tochemey/extslot/errors"
	"github.com/tochemey/extslot/internal/validation"
)

// Separator separates the extension name from its discriminator
const Separator = "#"

var namePattern = regexp.MustCompile(`^[^#\s]+$`)

// ID identifies an extension attachment.
// The zero value is an empty, invalid ID.
type ID struct {
	name          string
	discriminator string
}

var _ validation.Validator = ID{}

// New creates an ID without discriminator
func New(name string) ID {
	return ID{name: name}
}

// NewWithDiscriminator creates an ID for one of several attachments of the same extension
func NewWithDiscriminator(name, discriminator string) ID {
	return ID{name: name, discriminator: discriminator}
}

// Parse decodes the textual form of an extension id and validates it.
func Parse(s string) (ID, error) {
	name, discriminator, found := strings.Cut(s, Separator)
	id := ID{name: name, discriminator: discriminator}
	if found && discriminator == "" {
		return ID{}, errors.ErrEmptyDiscriminator
	}
	if err := id.Validate(); err != nil {
		return ID{}, err
	}
	return id, nil
}

// NameOf returns the extension name encoded in the given id without validating it.
// Lookups use it so that malformed ids simply resolve to nothing.
func NameOf(s string) string {
	name, _, _ := strings.Cut(s, Separator)
	return name
}

// Name returns the registered extension name
func (x ID) Name() string {
	return x.name
}

// Discriminator returns the discriminator, empty when none is set
func (x ID) Discriminator() string {
	return x.discriminator
}

// HasDiscriminator reports whether the id carries a discriminator
func (x ID) HasDiscriminator() bool {
	return x.discriminator != ""
}

// IsZero reports whether the id is the zero value
func (x ID) IsZero() bool {
	return x.name == "" && x.discriminator == ""
}

// String returns the canonical textual representation
func (x ID) String() string {
	if x.discriminator == "" {
		return x.name
	}
	return x.name + Separator + x.discriminator
}

// Validate checks the id name
func (x ID) Validate() error {
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewRequiredValidator(x.name, errors.ErrEmptyExtensionName)).
		AddValidator(validation.NewPatternValidator(namePattern, x.name, errors.ErrInvalidExtensionName)).
		Validate()
}
