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
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/tochemey/extslot/errors"
)

// yamlDocument is the layout of a YAML (or JSON) configuration file
type yamlDocument struct {
	Modules map[string]any `yaml:"modules"`
}

var (
	moduleBlockSchema = &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{{Type: "module", LabelNames: []string{"name"}}},
	}
	slotBlockSchema = &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{{Type: "slot", LabelNames: []string{"name"}}},
	}
)

// LoadFile reads a configuration file. The format is chosen by extension:
// .yaml, .yml and .json are decoded as YAML, .hcl as HCL.
func LoadFile(path string) (map[string]*ModuleConfig, error) {
	var parse func([]byte, string) (map[string]*ModuleConfig, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		parse = func(data []byte, _ string) (map[string]*ModuleConfig, error) {
			return ParseYAML(data)
		}
	case ".hcl":
		parse = ParseHCL
	default:
		return nil, errors.NewConfigError(path, errors.ErrUnsupportedConfigFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(path, err)
	}

	configs, err := parse(data, path)
	if err != nil {
		return nil, errors.NewConfigError(path, err)
	}
	return configs, nil
}

// LoadFiles reads the given files concurrently and merges them in argument
// order: a slot configured in a later file replaces the same slot of the same
// module configured in an earlier one.
func LoadFiles(ctx context.Context, paths ...string) (map[string]*ModuleConfig, error) {
	results := make([]map[string]*ModuleConfig, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			configs, err := LoadFile(path)
			if err != nil {
				return err
			}
			results[i] = configs
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]*ModuleConfig)
	for _, configs := range results {
		for moduleName, cfg := range configs {
			existing, ok := merged[moduleName]
			if !ok {
				existing = &ModuleConfig{ExtensionSlotConfigs: make(map[string]SlotConfig, len(cfg.ExtensionSlotConfigs))}
				merged[moduleName] = existing
			}
			maps.Copy(existing.ExtensionSlotConfigs, cfg.ExtensionSlotConfigs)
		}
	}
	return merged, nil
}

// ParseYAML decodes a YAML document of the form:
//
//	modules:
//	  <module>:
//	    extensionSlots:
//	      <slot>:
//	        add: [...]
//	        remove: [...]
//	        order: [...]
//
// Module entries that are not mappings are skipped.
func ParseYAML(data []byte) (map[string]*ModuleConfig, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}

	configs := make(map[string]*ModuleConfig, len(doc.Modules))
	for moduleName, value := range doc.Modules {
		raw, ok := value.(map[string]any)
		if !ok {
			continue
		}
		configs[moduleName] = DecodeModuleConfig(raw)
	}
	return configs, nil
}

// ParseHCL decodes an HCL document of the form:
//
//	module "<module>" {
//	  slot "<slot>" {
//	    add    = [...]
//	    remove = [...]
//	    order  = [...]
//	  }
//	}
//
// Attributes whose expression cannot be evaluated statically are treated as absent.
func ParseHCL(data []byte, filename string) (map[string]*ModuleConfig, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	content, _, diags := file.Body.PartialContent(moduleBlockSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	configs := make(map[string]*ModuleConfig, len(content.Blocks))
	for _, moduleBlock := range content.Blocks {
		moduleName := moduleBlock.Labels[0]
		cfg, ok := configs[moduleName]
		if !ok {
			cfg = &ModuleConfig{ExtensionSlotConfigs: make(map[string]SlotConfig)}
			configs[moduleName] = cfg
		}

		slotContent, _, diags := moduleBlock.Body.PartialContent(slotBlockSchema)
		if diags.HasErrors() {
			return nil, diags
		}

		for _, slotBlock := range slotContent.Blocks {
			attrs, diags := slotBlock.Body.JustAttributes()
			if diags.HasErrors() {
				return nil, diags
			}

			raw := make(map[string]any, len(attrs))
			for name, attr := range attrs {
				value, diags := attr.Expr.Value(nil)
				if diags.HasErrors() {
					continue
				}
				raw[name] = fromCty(value)
			}
			cfg.ExtensionSlotConfigs[slotBlock.Labels[0]] = DecodeSlotConfig(raw)
		}
	}
	return configs, nil
}

// fromCty converts sequences of strings into []any of strings. Anything else
// is returned as the raw cty.Value so that decoding treats it as malformed.
func fromCty(value cty.Value) any {
	if value.IsNull() || !value.IsKnown() {
		return nil
	}

	ty := value.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return value
	}

	out := make([]any, 0, value.LengthInt())
	for it := value.ElementIterator(); it.Next(); {
		_, element := it.Element()
		if element.IsNull() || !element.IsKnown() || !element.Type().Equals(cty.String) {
			out = append(out, element)
			continue
		}
		out = append(out, element.AsString())
	}
	return out
}
