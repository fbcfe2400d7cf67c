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

// Package appdir resolves the per-user data locations: the default config
// file, the run ledger, and the watch lock.
package appdir

import (
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// EnvDataDir overrides the data directory, mainly for tests and scripting.
const EnvDataDir = "SORTRC_DATA_DIR"

const appName = "sortrc"

// Dir returns the sortrc data directory, creating it if needed.
func Dir() (string, error) {
	if override := os.Getenv(EnvDataDir); override != "" {
		if err := os.MkdirAll(override, 0755); err != nil {
			return "", errors.Errorf("creating data directory: %w", err)
		}
		return override, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Errorf("resolving user config directory: %w", err)
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Errorf("creating data directory: %w", err)
	}
	return dir, nil
}

// ConfigPath returns the default config file location.
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LedgerPath returns the well-known run ledger location.
func LedgerPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "last_run.json"), nil
}

// LockPath returns the watch single-instance lock location.
func LockPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.lock"), nil
}
