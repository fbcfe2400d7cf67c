package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/sortrc/cmd/sortrc/opts"
	"github.com/walteh/sortrc/pkg/log"
	"github.com/walteh/sortrc/pkg/organize"
	"gitlab.com/tozd/go/errors"
)

// NewUndoCmd creates a new undo command
func NewUndoCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Put the files from the last run back where they came from",
		Long: `Undo reverses the most recent organize run. It will:
1. Load the last run ledger
2. Move each file back to its original folder, newest first
3. Clear the ledger so the run cannot be undone twice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := log.NewContext(cmd.Context(), ro.UserLogger)

			organizer, err := organize.New(organize.Options{
				Config: ro.Config,
				Store:  ro.Store,
				Sink:   ro.UserLogger,
			})
			if err != nil {
				return errors.Errorf("creating organizer: %w", err)
			}

			report, err := organizer.Undo(ctx)
			if err != nil {
				return errors.Errorf("undoing last run: %w", err)
			}

			if report.NothingToUndo {
				ro.UserLogger.Info("Nothing to undo")
				return nil
			}

			if failed := report.Failed(); failed > 0 {
				ro.UserLogger.Warningf("Restored %d file(s), %d failed", report.Restored(), failed)
			} else {
				ro.UserLogger.Successf("Restored %d file(s)", report.Restored())
			}
			return nil
		},
	}

	return cmd
}
