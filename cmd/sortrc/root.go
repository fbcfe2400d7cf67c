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

package main

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/sortrc/cmd/sortrc/opts"
	"github.com/walteh/sortrc/pkg/appdir"
	"github.com/walteh/sortrc/pkg/config"
	"github.com/walteh/sortrc/pkg/ledger"
	"github.com/walteh/sortrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	dataDir    string
	debug      bool
)

// initRootOpts populates the shared options used by all commands. An
// explicit --config must load cleanly; the well-known default location
// falls back to built-in defaults when absent or broken.
func initRootOpts(ctx context.Context, ro *opts.RootOpts) error {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	ro.UserLogger = log.New(color.Output, level)

	if dataDir != "" {
		if err := os.Setenv(appdir.EnvDataDir, dataDir); err != nil {
			return errors.Errorf("overriding data directory: %w", err)
		}
	}

	if configFile != "" {
		cfg, err := config.Load(ctx, configFile)
		if err != nil {
			return err
		}
		ro.Config = cfg
		ro.ConfigPath = configFile
	} else {
		path, err := appdir.ConfigPath()
		if err != nil {
			return err
		}
		ro.Config = config.LoadOrDefault(ctx, path)
		ro.ConfigPath = path
	}

	ledgerPath, err := appdir.LedgerPath()
	if err != nil {
		return err
	}
	ro.Store = ledger.NewStore(ledgerPath)

	lockPath, err := appdir.LockPath()
	if err != nil {
		return err
	}
	ro.LockPath = lockPath

	return nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default: the per-user config)")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override the data directory (config, ledger, lock)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
}
