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

package classify_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/sortrc/pkg/classify"
)

// 🧪 TestClassifyDefaults checks the built-in table group by group
func TestClassifyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{"image", "photo.jpg", "Images"},
		{"image_upper", "IMG.JPG", "Images"},
		{"icon", "favicon.ico", "Images/Icons"},
		{"video", "clip.mkv", "Videos"},
		{"pdf", "report.pdf", "Documents/PDFs"},
		{"word", "letter.docx", "Documents/Word"},
		{"spreadsheet", "budget.xlsx", "Documents/Spreadsheets"},
		{"presentation", "deck.pptx", "Documents/Presentations"},
		{"text", "notes.txt", "Documents/Text"},
		{"archive", "backup.tar", "Archives"},
		{"code", "main.go", "Code"},
		{"audio", "song.flac", "Audio"},
		{"program", "tool.exe", "Programs"},
		{"installer", "setup.msi", "Programs/Installers"},
		{"installer_dmg", "app.dmg", "Programs/Installers"},
		{"unknown_extension", "data.xyz", "Others"},
		{"no_extension", "Makefile", "Others"},
		{"trailing_dot", "weird.", "Others"},
		{"dotfile", ".gitignore", "Others"},
		{"dotfile_with_extension", ".config.yaml", "Code"},
	}

	c := classify.Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.fileName)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

// 🧪 TestClassifyCaseInsensitive verifies upper and lower case names classify identically
func TestClassifyCaseInsensitive(t *testing.T) {
	c := classify.Default()
	require.Equal(t, c.Classify("img.jpg"), c.Classify("IMG.JPG"))
	require.Equal(t, c.Classify("setup.msi"), c.Classify("SETUP.MSI"))
}

// 🧪 TestClassifyIdempotent verifies classification has no hidden state
func TestClassifyIdempotent(t *testing.T) {
	c := classify.Default()
	first := c.Classify("report.pdf")
	second := c.Classify("report.pdf")
	require.Equal(t, first, second)
}

// 🧪 TestClassifyCustomRules verifies rule tables override the defaults
func TestClassifyCustomRules(t *testing.T) {
	rules := classify.RuleTable{
		".PDF": classify.CategoryPath{"Paperwork"},
		"txt":  classify.CategoryPath{"Plain"},
	}
	c := classify.New(rules)

	assert.Equal(t, "Paperwork", c.Classify("scan.pdf").String())
	assert.Equal(t, "Plain", c.Classify("readme.txt").String())
	assert.Equal(t, "Others", c.Classify("photo.jpg").String())
}

// 🧪 TestCategoryPathDir verifies path resolution below a root
func TestCategoryPathDir(t *testing.T) {
	p := classify.CategoryPath{"Documents", "PDFs"}
	assert.Equal(t, filepath.Join("root", "Documents", "PDFs"), p.Dir("root"))
}

// 🧪 TestExt verifies extension extraction edge cases
func TestExt(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
	}{
		{"a.txt", "txt"},
		{"a.TXT", "txt"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{".bashrc", ""},
		{".config.json", "json"},
		{"trailing.", ""},
		{filepath.Join("some", "dir", "file.pdf"), "pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify.Ext(tt.fileName), "fileName=%s", tt.fileName)
	}
}
