package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mindpalace/internal/engine"
	"mindpalace/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show player profile, stats, and streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := svc.Profile(ctx)
			if err != nil {
				return err
			}
			streak, err := svc.Streak(ctx)
			if err != nil {
				return err
			}
			count, err := svc.CompletionCount(ctx)
			if err != nil {
				return err
			}
			settings, err := svc.Settings(ctx)
			if err != nil {
				return err
			}

			name := p.Name
			if name == "" {
				name = settings.Name
			}
			if name == "" {
				name = "Wanderer"
			}

			into := engine.PlayerXPIntoLevel(p)
			next := engine.PlayerXPForLevel(p.Level)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Mind Palace Status"))
			fmt.Fprintln(out, ui.LabelValue("Name", name))
			fmt.Fprintln(out, ui.LabelValue("Level", p.Level))
			fmt.Fprintf(out, "%s %s %s\n",
				ui.Key.Render("XP:"),
				ui.ProgressBar(into, next, 30),
				ui.Muted.Render(fmt.Sprintf("%d/%d toward next (total %d)", into, next, p.TotalXP)))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("📊 Stats"))
			fmt.Fprintf(out, "- 🧠 Knowledge:   %d\n", p.Stats.Knowledge)
			fmt.Fprintf(out, "- 🛠 Proficiency: %d\n", p.Stats.Proficiency)
			fmt.Fprintf(out, "- 💪 Guts:        %d\n", p.Stats.Guts)
			fmt.Fprintf(out, "- 💫 Charm:       %d\n", p.Stats.Charm)
			fmt.Fprintf(out, "- 🤝 Kindness:    %d\n", p.Stats.Kindness)
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconFlame+" Streak"))
			fmt.Fprintln(out, ui.LabelValue("Current", fmt.Sprintf("%d days", streak.Current)))
			fmt.Fprintln(out, ui.LabelValue("Longest", fmt.Sprintf("%d days", streak.Longest)))
			if streak.LastActiveDate != "" {
				fmt.Fprintln(out, ui.LabelValue("Last active", streak.LastActiveDate))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.LabelValue("Exercises completed", count))
			fmt.Fprintln(out, ui.LabelValue("Time budget", fmt.Sprintf("%ds", settings.TimeBudgetSeconds)))
			return nil
		},
	}

	return cmd
}
