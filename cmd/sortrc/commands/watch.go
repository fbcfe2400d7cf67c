package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/sortrc/cmd/sortrc/opts"
	"github.com/walteh/sortrc/pkg/log"
	"github.com/walteh/sortrc/pkg/organize"
	"github.com/walteh/sortrc/pkg/watch"
	"gitlab.com/tozd/go/errors"
)

// NewWatchCmd creates a new watch command
func NewWatchCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously organize the source folders",
		Long: `Watch keeps running and organizes new files as they arrive. It will:
1. Organize everything already sitting in the source folders
2. Wait for each new file to finish writing before moving it
3. Record every move so the session can be undone after it stops

Only one watcher can run at a time. Stop it with Ctrl-C.`,
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

			service, err := watch.New(watch.Options{
				Organizer:   organizer,
				LockPath:    ro.LockPath,
				Patterns:    ro.Config.Monitor.Patterns,
				SettleDelay: ro.Config.SettleDelay(),
			})
			if err != nil {
				return errors.Errorf("creating watch service: %w", err)
			}

			ro.UserLogger.Header("Watching for new files (Ctrl-C to stop)")
			if err := service.Run(ctx); err != nil {
				if errors.Is(err, watch.ErrAlreadyRunning) {
					return err
				}
				return errors.Errorf("watching folders: %w", err)
			}
			return nil
		},
	}

	return cmd
}
