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

package classify

import (
	"path/filepath"
	"strings"
)

// 🗂️ CategoryPath is the ordered sequence of folder segments below the
// organize destination, e.g. ["Documents", "PDFs"].
type CategoryPath []string

// String joins the segments with a forward slash for display.
func (p CategoryPath) String() string {
	return strings.Join(p, "/")
}

// Dir resolves the category directory below root using the platform separator.
func (p CategoryPath) Dir(root string) string {
	return filepath.Join(append([]string{root}, p...)...)
}

// 🗺️ RuleTable maps a lowercase file extension (no leading dot) to the
// category path it belongs to.
type RuleTable map[string]CategoryPath

// 🏷️ Fallback is the category for files whose extension has no rule.
var Fallback = CategoryPath{"Others"}

// 🎯 Classifier resolves file names to category paths. The rule table is
// copied at construction and never mutated afterwards, so a classifier is
// safe for concurrent use.
type Classifier struct {
	rules    RuleTable
	fallback CategoryPath
}

// 🏭 New creates a classifier over the given rule table. Extension keys are
// normalized to lowercase without a leading dot.
func New(rules RuleTable) *Classifier {
	c := &Classifier{
		rules:    make(RuleTable, len(rules)),
		fallback: Fallback,
	}
	for ext, category := range rules {
		c.rules[normalizeExt(ext)] = category
	}
	return c
}

// 🏭 Default creates a classifier over the built-in rule table.
func Default() *Classifier {
	return New(DefaultRules())
}

// Classify returns the category path for a file name. Unknown extensions and
// extension-less names resolve to the fallback category.
func (c *Classifier) Classify(fileName string) CategoryPath {
	ext := Ext(fileName)
	if ext == "" {
		return c.fallback
	}
	if category, ok := c.rules[ext]; ok {
		return category
	}
	return c.fallback
}

// Ext extracts the lowercase extension of a file name without the leading
// dot. Names with no dot, names ending in a dot, and dotfiles like
// ".gitignore" (a leading dot with no further dot) are extension-less.
func Ext(fileName string) string {
	base := filepath.Base(fileName)
	idx := strings.LastIndex(base, ".")
	if idx <= 0 || idx == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[idx+1:])
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
