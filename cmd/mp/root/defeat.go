package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mindpalace/internal/engine"
	"mindpalace/internal/ui"
)

func newDefeatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defeat <palace>",
		Short: "Record a palace ruler defeat",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("palace key is required (e.g. foundations, concurrency)")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			key := engine.PalaceKey(args[0])
			if err := svc.RecordBossDefeat(ctx, key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				ui.IconPalace, ui.Gold.Render("The ruler of "+args[0]+" has fallen!"))

			_, err = svc.CheckAchievements(ctx)
			return err
		},
	}

	return cmd
}
