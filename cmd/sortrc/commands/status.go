package commands

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/walteh/sortrc/cmd/sortrc/opts"
	"github.com/walteh/sortrc/pkg/ledger"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCmd creates a new status command
func NewStatusCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what the last organize run did",
		Long: `Status prints the last run ledger: every file the run touched, where it
went, and whether the run can still be undone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, err := ro.Store.Load(ctx)
			if err != nil {
				if errors.Is(err, ledger.ErrLedgerCorrupt) {
					return errors.Errorf("run ledger at %s is unreadable, undo is unavailable: %w", ro.Store.Path(), err)
				}
				return errors.Errorf("loading run ledger: %w", err)
			}
			if led == nil {
				ro.UserLogger.Info("No runs recorded")
				return nil
			}

			ro.UserLogger.Header(fmt.Sprintf("Last run %s (%s)", led.RunID, led.CommittedAt.Local().Format("2006-01-02 15:04:05")))
			fmt.Fprintln(cmd.OutOrStdout(), renderLedgerTable(led))
			ro.UserLogger.Infof("%d record(s), undo available via 'sortrc undo'", len(led.Records))
			return nil
		},
	}

	return cmd
}

// renderLedgerTable formats the ledger records as a rounded table.
func renderLedgerTable(led *ledger.Ledger) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "File", "Category", "Destination", "Outcome"})

	for i, rec := range led.Records {
		outcome := string(rec.Outcome)
		if rec.Reason != "" {
			outcome = fmt.Sprintf("%s (%s)", outcome, rec.Reason)
		}
		dest := "-"
		if rec.Destination != "" {
			dest = filepath.Dir(rec.Destination)
		}
		tw.AppendRow(table.Row{
			i + 1,
			filepath.Base(rec.Source),
			rec.Category,
			dest,
			outcome,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
