// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🎯 Load loads a configuration file from the given path. The format is
// determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
// - .sortrc will try both YAML and HCL formats
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var cfg *Config

	// For .sortrc files, try both YAML and HCL
	if ext == ".sortrc" || filepath.Base(path) == ".sortrc" {
		cfg, err = loadYAML(data)
		if err != nil {
			cfg, err = loadHCL(data, path)
		}
		if err != nil {
			return nil, errors.Errorf("parsing %s as YAML or HCL: %w", path, err)
		}
	} else {
		switch ext {
		case ".json":
			cfg, err = loadJSON(data)
		case ".yaml", ".yml":
			cfg, err = loadYAML(data)
		case ".hcl":
			cfg, err = loadHCL(data, path)
		default:
			return nil, errors.Errorf("unsupported config extension %q", ext)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// 🎯 LoadOrDefault loads the config at path, falling back to the built-in
// defaults when the file is absent or (with a logged warning) malformed.
// Used for the well-known config location so a broken config never blocks
// an organize run.
func LoadOrDefault(ctx context.Context, path string) *Config {
	logger := zerolog.Ctx(ctx)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Debug().Str("path", path).Msg("no config file, using defaults")
		return Default()
	}

	cfg, err := Load(ctx, path)
	if err != nil {
		logger.Warn().Str("path", path).Err(err).Msg("config unusable, falling back to defaults")
		return Default()
	}
	return cfg
}

// 💾 Save writes the config to path, JSON for .json and YAML otherwise.
func Save(ctx context.Context, path string, cfg *Config) error {
	var data []byte
	var err error
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return errors.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Errorf("writing config file: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("saved config")
	return nil
}

// loadJSON loads a configuration from JSON data
func loadJSON(data []byte) (*Config, error) {
	var cfg Config
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &cfg, nil
}

// loadYAML loads a configuration from YAML data
func loadYAML(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

// loadHCL loads a configuration from HCL data
func loadHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	type hclCategory struct {
		Name        string   `hcl:"name,label"`
		Extensions  []string `hcl:"extensions"`
		Destination string   `hcl:"destination,optional"`
	}
	type hclMonitor struct {
		Enabled     bool     `hcl:"enabled,optional"`
		Patterns    []string `hcl:"patterns,optional"`
		SettleDelay string   `hcl:"settle_delay,optional"`
	}
	type hclConfig struct {
		Sources           []string      `hcl:"sources,optional"`
		Destination       string        `hcl:"destination,optional"`
		OthersDestination string        `hcl:"others_destination,optional"`
		IgnorePatterns    []string      `hcl:"ignore_patterns,optional"`
		SkipHidden        *bool         `hcl:"skip_hidden,optional"`
		Categories        []hclCategory `hcl:"category,block"`
		Monitor           *hclMonitor   `hcl:"monitor,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Sources:           hclCfg.Sources,
		Destination:       hclCfg.Destination,
		OthersDestination: hclCfg.OthersDestination,
		IgnorePatterns:    hclCfg.IgnorePatterns,
		SkipHidden:        hclCfg.SkipHidden,
	}
	if len(hclCfg.Categories) > 0 {
		cfg.Categories = make(map[string]Category, len(hclCfg.Categories))
		for _, cat := range hclCfg.Categories {
			cfg.Categories[cat.Name] = Category{
				Extensions:  cat.Extensions,
				Destination: cat.Destination,
			}
		}
	}
	if hclCfg.Monitor != nil {
		cfg.Monitor = Monitor{
			Enabled:  hclCfg.Monitor.Enabled,
			Patterns: hclCfg.Monitor.Patterns,
		}
		if hclCfg.Monitor.SettleDelay != "" {
			parsed, err := time.ParseDuration(hclCfg.Monitor.SettleDelay)
			if err != nil {
				return nil, errors.Errorf("parsing settle_delay %q: %w", hclCfg.Monitor.SettleDelay, err)
			}
			cfg.Monitor.SettleDelay = Duration(parsed)
		}
	}
	return cfg, nil
}
