package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mindpalace/internal/ui"
)

func newResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe all progress and start fresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errors.New("refusing to wipe progress without --force")
			}
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconWarn+" All progress wiped. A new journey begins."))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm the wipe")

	return cmd
}
