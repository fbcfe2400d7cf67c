package commands

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/sortrc/cmd/sortrc/opts"
	"github.com/walteh/sortrc/pkg/log"
	"github.com/walteh/sortrc/pkg/organize"
	"gitlab.com/tozd/go/errors"
)

// NewOrganizeCmd creates a new organize command
func NewOrganizeCmd(ro *opts.RootOpts) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "organize [folder...]",
		Short: "Sort files from the source folders into category subfolders",
		Long: `Organize scans the configured source folders (or the folders given as
arguments), classifies every file by its extension, and moves each one into
its category folder. It will:
1. Scan each source folder for regular files
2. Classify every file by extension
3. Move each file, never overwriting anything that already exists
4. Record the run so it can be undone`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg := ro.Config
			if len(args) > 0 {
				sources := make([]string, 0, len(args))
				for _, arg := range args {
					abs, err := filepath.Abs(arg)
					if err != nil {
						return errors.Errorf("resolving folder %s: %w", arg, err)
					}
					sources = append(sources, abs)
				}
				cfg.Sources = sources
			}

			organizer, err := organize.New(organize.Options{
				Config: cfg,
				Store:  ro.Store,
				Sink:   ro.UserLogger,
			})
			if err != nil {
				return errors.Errorf("creating organizer: %w", err)
			}

			ctx = log.NewContext(ctx, ro.UserLogger)

			if dryRun {
				return previewPlan(ctx, organizer, ro.UserLogger)
			}

			summary, err := organizer.Run(ctx)
			if err != nil {
				return errors.Errorf("organizing files: %w", err)
			}

			switch summary.Outcome {
			case organize.OutcomeNoop:
				ro.UserLogger.Info("Nothing to organize")
			case organize.OutcomePartial:
				ro.UserLogger.Warningf("Organized with %d failure(s), run 'sortrc status' for details", summary.Failed)
			default:
				ro.UserLogger.Successf("Organized %d file(s)", summary.Moved)
			}
			if summary.Cancelled {
				ro.UserLogger.Warning("Interrupted, already-moved files stay undoable")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview the plan without moving anything")

	return cmd
}

// previewPlan prints where every file would go, without touching anything.
func previewPlan(ctx context.Context, organizer *organize.Organizer, userLogger *log.Logger) error {
	plan, err := organizer.Plan(ctx)
	if err != nil {
		return errors.Errorf("planning: %w", err)
	}
	if len(plan) == 0 {
		userLogger.Info("Nothing to organize")
		return nil
	}

	userLogger.Header("Planned moves (dry run)")
	for _, planned := range plan {
		userLogger.Infof("  %s -> %s", filepath.Base(planned.Source), planned.DestDir)
	}
	userLogger.Infof("%d file(s) would be moved", len(plan))
	return nil
}
