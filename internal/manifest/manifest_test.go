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

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/extslot/errors"
	"github.com/tochemey/extslot/extension"
)

const sample = `
extensions:
  - name: vitals
    module: "@app/patient-chart"
    order: 1
    offline: true
    meta:
      title: Vitals
    slots: [patient-banner]
  - name: allergies
    module: "@app/patient-chart"
    slots: [patient-banner]
attachments:
  - slot: patient-banner
    id: notes#compact
mounts:
  - module: "@app/patient-chart"
    slot: patient-banner
`

func TestParse(t *testing.T) {
	t.Run("With a valid manifest", func(t *testing.T) {
		manifest, err := Parse([]byte(sample))
		require.NoError(t, err)
		require.Len(t, manifest.Extensions, 2)
		assert.Equal(t, 1, *manifest.Extensions[0].Order)
		assert.Nil(t, manifest.Extensions[1].Order)
		assert.Equal(t, "Vitals", manifest.Extensions[0].Meta["title"])
		require.Len(t, manifest.Attachments, 1)
		require.Len(t, manifest.Mounts, 1)
	})
	t.Run("With invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("extensions: {"))
		require.ErrorIs(t, err, errors.ErrInvalidManifest)
	})
	t.Run("With every violation reported", func(t *testing.T) {
		_, err := Parse([]byte(`
extensions:
  - name: "bad#name"
    slots: [""]
attachments:
  - slot: nav
    id: "vitals#"
mounts:
  - module: m
`))
		require.ErrorIs(t, err, errors.ErrInvalidManifest)
		assert.ErrorIs(t, err, errors.ErrInvalidExtensionName)
		assert.ErrorIs(t, err, errors.ErrModuleNameRequired)
		assert.ErrorIs(t, err, errors.ErrSlotNameRequired)
		assert.ErrorIs(t, err, errors.ErrEmptyDiscriminator)
		assert.Contains(t, err.Error(), "extensions[0]")
		assert.Contains(t, err.Error(), "attachments[0]")
		assert.Contains(t, err.Error(), "mounts[0]")
	})
}

func TestValidate(t *testing.T) {
	manifest := &Manifest{Mounts: []Mount{{}}}
	err := manifest.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrModuleNameRequired)
	assert.ErrorIs(t, err, errors.ErrSlotNameRequired)

	require.NoError(t, new(Manifest).Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	manifest, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, manifest.Extensions, 2)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	var configErr *errors.ConfigError
	require.ErrorAs(t, err, &configErr)
}

func TestApply(t *testing.T) {
	manifest, err := Parse([]byte(sample))
	require.NoError(t, err)

	registry := extension.NewRegistry()
	manifest.Apply(registry)

	registration, ok := registry.ExtensionRegistration("vitals")
	require.True(t, ok)
	assert.True(t, registration.AvailableOffline())
	assert.True(t, registration.AvailableOnline())

	assert.Equal(t, []string{"patient-banner"}, registry.ExtensionSlotsForModule("@app/patient-chart"))
	assert.Equal(t, []string{"vitals", "allergies", "notes#compact"}, registry.ResolveSlot("patient-banner", "@app/patient-chart"))
}
