package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mindpalace/internal/ui"
)

func newDailyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show today's challenges",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			snap, err := svc.DailyChallenges(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTarget, "Daily Challenges — "+snap.Date))
			for _, ch := range snap.Challenges {
				mark := ui.Muted.Render("[ ]")
				if _, done := snap.Completed[ch.ID]; done {
					mark = ui.Good.Render("[x]")
				}
				fmt.Fprintf(out, "%s %s %s\n",
					mark, ch.Name,
					ui.Gold.Render(fmt.Sprintf("+%d XP", ch.XPReward)))
			}

			t := snap.Today
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, ui.H2.Render("Today"))
			fmt.Fprintf(out, "- completions: %d  S ranks: %d  no-hint: %d  speedruns: %d\n",
				t.Completions, t.SRanks, t.NoHint, t.SpeedRuns)
			fmt.Fprintf(out, "- XP earned: %d  best combo: %d\n", t.XPEarned, t.MaxCombo)
			return nil
		},
	}

	return cmd
}
