package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mindpalace/internal/engine"
	"mindpalace/internal/ui"
)

func newSkillsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List skill levels grouped by palace",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			skills, err := svc.Skills(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconBook, "Skills"))
			for _, pd := range engine.PalaceDefs() {
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.H2.Render(pd.Name))
				for _, key := range pd.Skills {
					ss := skills[key]
					if ss.Level < 1 {
						ss.Level = 1
					}
					need := engine.SkillXPForLevel(ss.Level)
					fmt.Fprintf(out, "- %-14s L%-3d %s %s\n",
						engine.SkillName(key), ss.Level,
						ui.ProgressBar(ss.XP, need, 14),
						ui.Muted.Render(fmt.Sprintf("%d/%d", ss.XP, need)))
				}
			}
			return nil
		},
	}

	return cmd
}
