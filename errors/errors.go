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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyExtensionName is returned when an extension id has no name part.
	ErrEmptyExtensionName = errors.New("extension name is required")

	// ErrInvalidExtensionName is returned when an extension name contains the
	// discriminator separator or whitespace.
	ErrInvalidExtensionName = errors.New("invalid extension name, must not contain '#' or whitespace")

	// ErrEmptyDiscriminator is returned when an extension id ends with the
	// discriminator separator but carries no discriminator.
	ErrEmptyDiscriminator = errors.New("extension id discriminator is empty")

	// ErrSlotNameRequired is returned when a slot name is required but not provided.
	ErrSlotNameRequired = errors.New("extension slot name is required")

	// ErrModuleNameRequired is returned when a module name is required but not provided.
	ErrModuleNameRequired = errors.New("module name is required")

	// ErrUnsupportedConfigFormat is returned when a configuration file extension
	// is neither YAML nor HCL.
	ErrUnsupportedConfigFormat = errors.New("unsupported configuration format")

	// ErrInvalidManifest is returned when an extension manifest cannot be used.
	ErrInvalidManifest = errors.New("invalid extension manifest")

	// ErrWatcherStarted is returned when a configuration watcher is started twice.
	ErrWatcherStarted = errors.New("configuration watcher already started")

	// ErrWatcherNotStarted is returned when a configuration watcher is stopped
	// before being started.
	ErrWatcherNotStarted = errors.New("configuration watcher has not started")

	// ErrNoConfigPaths is returned when a watcher has nothing to watch.
	ErrNoConfigPaths = errors.New("no configuration paths to watch")

	// ErrMissingLoader is returned when loading an extension registered without a loader.
	ErrMissingLoader = errors.New("extension has no loader")
)

// ConfigError wraps a failure to read or decode a configuration file
type ConfigError struct {
	path string
	err  error
}

var _ error = (*ConfigError)(nil)

// NewConfigError returns an instance of ConfigError
func NewConfigError(path string, err error) *ConfigError {
	return &ConfigError{
		path: path,
		err:  fmt.Errorf("config %s: %w", path, err),
	}
}

// Error implements the standard error interface
func (c *ConfigError) Error() string {
	return c.err.Error()
}

// Path returns the configuration file that failed
func (c *ConfigError) Path() string {
	return c.path
}

func (c *ConfigError) Unwrap() error {
	return c.err
}
