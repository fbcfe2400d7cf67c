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
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/sortrc/pkg/classify"
)

// 🏷️ Category maps a named category to its extensions. The name may contain
// '/' to express a subcategory path ("Documents/PDFs"). An optional
// destination overrides where this category's files land.
type Category struct {
	Extensions  []string `json:"extensions" yaml:"extensions"`
	Destination string   `json:"destination,omitempty" yaml:"destination,omitempty"`
}

// 👁️ Monitor configures filesystem-watch mode.
type Monitor struct {
	Enabled     bool     `json:"enabled" yaml:"enabled"`
	Patterns    []string `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	SettleDelay Duration `json:"settle_delay,omitempty" yaml:"settle_delay,omitempty"`
}

// 📚 Config is the complete rule configuration, loaded once per run and
// immutable for the duration of a run.
type Config struct {
	Sources           []string            `json:"sources,omitempty" yaml:"sources,omitempty"`
	Destination       string              `json:"destination,omitempty" yaml:"destination,omitempty"`
	OthersDestination string              `json:"others_destination,omitempty" yaml:"others_destination,omitempty"`
	Categories        map[string]Category `json:"categories,omitempty" yaml:"categories,omitempty"`
	IgnorePatterns    []string            `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty"`
	SkipHidden        *bool               `json:"skip_hidden,omitempty" yaml:"skip_hidden,omitempty"`
	Monitor           Monitor             `json:"monitor,omitempty" yaml:"monitor,omitempty"`
}

// DefaultSettleDelay is how long watch mode waits for a newly created file
// to stop changing before organizing it.
const DefaultSettleDelay = 500 * time.Millisecond

// 🏭 Default returns the built-in configuration: the classifier's default
// table, no fixed destination (files are organized below their source
// folder), and monitoring disabled.
func Default() *Config {
	categories := make(map[string]Category)
	for _, group := range classify.DefaultGroups() {
		categories[group.Category.String()] = Category{Extensions: group.Extensions}
	}
	return &Config{
		Categories: categories,
		Monitor: Monitor{
			Enabled:     false,
			Patterns:    []string{"*"},
			SettleDelay: Duration(DefaultSettleDelay),
		},
	}
}

// Rules builds the classifier rule table: the built-in defaults overlaid
// with the config's categories, so an absent or partial table falls back to
// the defaults.
func (c *Config) Rules() classify.RuleTable {
	rules := classify.DefaultRules()
	for name, category := range c.Categories {
		path := classify.CategoryPath(strings.Split(name, "/"))
		for _, ext := range category.Extensions {
			key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
			if key == "" {
				continue
			}
			rules[key] = path
		}
	}
	return rules
}

// CategoryDestination returns the per-category destination override, or ""
// when the category has none.
func (c *Config) CategoryDestination(category classify.CategoryPath) string {
	if cat, ok := c.Categories[category.String()]; ok {
		return cat.Destination
	}
	return ""
}

// SkipHiddenFiles reports whether dotfiles are excluded from organizing.
// True when unset.
func (c *Config) SkipHiddenFiles() bool {
	if c.SkipHidden == nil {
		return true
	}
	return *c.SkipHidden
}

// SettleDelay returns the watch settle delay, defaulting when unset.
func (c *Config) SettleDelay() time.Duration {
	if c.Monitor.SettleDelay <= 0 {
		return DefaultSettleDelay
	}
	return time.Duration(c.Monitor.SettleDelay)
}

// ✅ Validate checks category tables and glob patterns.
func (c *Config) Validate() error {
	for name, category := range c.Categories {
		if name == "" {
			return errors.New("category with empty name")
		}
		if len(category.Extensions) == 0 {
			return errors.Errorf("category %q: extensions are required", name)
		}
		for _, ext := range category.Extensions {
			if strings.TrimSpace(strings.TrimPrefix(ext, ".")) == "" {
				return errors.Errorf("category %q: empty extension", name)
			}
		}
	}
	for _, pattern := range c.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	for _, pattern := range c.Monitor.Patterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid monitor pattern %q", pattern)
		}
	}
	return nil
}
