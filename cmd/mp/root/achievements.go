package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mindpalace/internal/ui"
)

func newAchievementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "List achievements and unlock status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			// Catch up on anything earned since the last mutation.
			if _, err := svc.CheckAchievements(ctx); err != nil {
				return err
			}

			all, err := svc.Achievements(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			unlocked := 0
			for _, a := range all {
				if a.Unlocked {
					unlocked++
				}
			}
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, fmt.Sprintf("Achievements (%d/%d)", unlocked, len(all))))
			for _, a := range all {
				if a.Unlocked {
					fmt.Fprintf(out, "%s %s %s %s\n",
						a.Icon, ui.Good.Render(a.Name),
						ui.Muted.Render(a.Description),
						ui.Dim.Render(a.UnlockedAt.Format("2006-01-02")))
				} else {
					fmt.Fprintf(out, "%s %s %s\n",
						"🔒", ui.Muted.Render(a.Name), ui.Dim.Render(a.Description))
				}
			}
			return nil
		},
	}

	return cmd
}
