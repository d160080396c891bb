package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mindpalace/internal/storage"
	"mindpalace/internal/ui"
)

func newSettingsCmd() *cobra.Command {
	var name string
	var budget int

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			current, err := svc.Settings(ctx)
			if err != nil {
				return err
			}

			changed := cmd.Flags().Changed("name") || cmd.Flags().Changed("budget")
			if changed {
				next := *current
				if cmd.Flags().Changed("name") {
					next.Name = name
				}
				if cmd.Flags().Changed("budget") {
					next.TimeBudgetSeconds = budget
				}
				if err := svc.UpdateSettings(ctx, next); err != nil {
					return err
				}
				current, err = svc.Settings(ctx)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconInfo, "Settings"))
			fmt.Fprintln(out, ui.LabelValue("Name", orUnset(current.Name)))
			fmt.Fprintln(out, ui.LabelValue("Time budget", fmt.Sprintf("%ds", current.TimeBudgetSeconds)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().IntVar(&budget, "budget", storage.DefaultTimeBudgetSeconds, "Per-exercise time budget in seconds")

	return cmd
}

func orUnset(s string) string {
	if s == "" {
		return ui.Muted.Render("(unset)")
	}
	return s
}
