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
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/sortrc/cmd/sortrc/commands"
	"github.com/walteh/sortrc/cmd/sortrc/opts"
	"github.com/walteh/sortrc/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ro := &opts.RootOpts{UserLogger: log.New(color.Output, zerolog.InfoLevel)}

	root := &cobra.Command{
		Use:           "sortrc",
		Short:         "Keep folders organized by sorting files into category subfolders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			return initRootOpts(cmd.Context(), ro)
		},
	}
	addRootFlags(root)

	root.AddCommand(
		commands.NewOrganizeCmd(ro),
		commands.NewUndoCmd(ro),
		commands.NewStatusCmd(ro),
		commands.NewWatchCmd(ro),
		commands.NewConfigCmd(ro),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		ro.UserLogger.Errorf("%s", err)
		os.Exit(1)
	}
}
