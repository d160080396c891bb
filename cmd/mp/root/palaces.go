package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mindpalace/internal/ui"
)

func newPalacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palaces",
		Short: "Show palace progress and objectives",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			snaps, err := svc.Palaces(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconPalace, "Palaces"))
			for _, p := range snaps {
				fmt.Fprintln(out, "")

				title := ui.H2.Render(p.Name)
				switch {
				case p.Defeated:
					title += " " + ui.Gold.Render("CLEARED")
				case !p.Unlocked:
					title += " " + ui.Muted.Render("🔒 locked")
				}
				fmt.Fprintln(out, title)
				fmt.Fprintf(out, "  %s %s %s\n",
					ui.Muted.Render("Ruler: "+p.Ruler),
					ui.ProgressBar(int(p.Progress*100), 100, 20),
					ui.Muted.Render(fmt.Sprintf("%.0f%%", p.Progress*100)))

				for _, obj := range p.Objectives {
					mark := ui.Muted.Render("[ ]")
					if obj.Complete {
						mark = ui.Good.Render("[x]")
					}
					fmt.Fprintf(out, "  %s %s %s\n",
						mark, obj.Label,
						ui.Muted.Render(fmt.Sprintf("(%d/%d)", obj.Current, obj.Target)))
				}
			}
			return nil
		},
	}

	return cmd
}
