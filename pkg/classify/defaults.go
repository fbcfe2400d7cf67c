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

// 📦 Group is one category and the extensions belonging to it.
type Group struct {
	Category   CategoryPath
	Extensions []string
}

// defaultGroups is the built-in extension table. Installer-only formats get
// the reserved Installers subcategory, distinct from general application
// binaries.
var defaultGroups = []Group{
	{CategoryPath{"Images"}, []string{"jpg", "jpeg", "png", "gif", "bmp", "svg", "webp", "tiff", "heic"}},
	{CategoryPath{"Images", "Icons"}, []string{"ico", "icns"}},
	{CategoryPath{"Videos"}, []string{"mp4", "mkv", "mov", "avi", "webm", "wmv", "flv", "m4v"}},
	{CategoryPath{"Documents", "PDFs"}, []string{"pdf"}},
	{CategoryPath{"Documents", "Word"}, []string{"doc", "docx", "odt", "rtf"}},
	{CategoryPath{"Documents", "Spreadsheets"}, []string{"xls", "xlsx", "ods", "csv"}},
	{CategoryPath{"Documents", "Presentations"}, []string{"ppt", "pptx", "odp"}},
	{CategoryPath{"Documents", "Text"}, []string{"txt", "md", "log"}},
	{CategoryPath{"Archives"}, []string{"zip", "rar", "tar", "gz", "bz2", "xz", "7z"}},
	{CategoryPath{"Code"}, []string{"go", "py", "js", "ts", "java", "c", "cpp", "h", "cs", "rb", "rs", "sh", "html", "css", "json", "yaml", "yml", "toml"}},
	{CategoryPath{"Audio"}, []string{"mp3", "wav", "flac", "ogg", "m4a", "aac", "wma"}},
	{CategoryPath{"Programs"}, []string{"exe", "app", "apk", "jar", "bin"}},
	{CategoryPath{"Programs", "Installers"}, []string{"msi", "dmg", "deb", "rpm", "pkg", "appimage"}},
}

// DefaultGroups returns the built-in category groups in a stable order.
func DefaultGroups() []Group {
	groups := make([]Group, len(defaultGroups))
	copy(groups, defaultGroups)
	return groups
}

// DefaultRules returns a fresh copy of the built-in rule table.
func DefaultRules() RuleTable {
	rules := make(RuleTable)
	for _, group := range defaultGroups {
		for _, ext := range group.Extensions {
			rules[ext] = group.Category
		}
	}
	return rules
}
