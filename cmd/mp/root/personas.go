package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mindpalace/internal/ui"
)

func newPersonasCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "personas",
		Short: "Show awakened personas (one per mastered concept)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			personas, err := svc.Personas(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconMask, "Personas"))
			shown := 0
			for _, p := range personas {
				if !p.Awakened && !all {
					continue
				}
				shown++
				name := ui.Key.Render(p.Name)
				status := ui.Good.Render(fmt.Sprintf("rank %d", p.Rank))
				if !p.Awakened {
					name = ui.Muted.Render("???")
					status = ui.Muted.Render("dormant")
				}
				fmt.Fprintf(out, "- %s %s %s %s\n",
					name,
					ui.Muted.Render("("+p.Arcana+")"),
					status,
					ui.Dim.Render(string(p.Skill)))
			}
			if shown == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No personas awakened yet. Complete an exercise to awaken your first."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include dormant personas")

	return cmd
}
