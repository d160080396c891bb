package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mindpalace/internal/engine"
	"mindpalace/internal/ui"
)

func newStudyCmd() *cobra.Command {
	var stat string

	cmd := &cobra.Command{
		Use:   "study <minutes>",
		Short: "Log a study session for bonus XP (1 XP per minute)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("minutes is required")
			}
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return errors.New("minutes must be a positive integer")
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

			minutes, _ := strconv.Atoi(args[0])
			if err := svc.GrantBonusXP(ctx, minutes, engine.Stat(stat)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				ui.IconBook, ui.Gold.Render(fmt.Sprintf("+%d XP for %d minutes of study", minutes, minutes)))

			_, err = svc.CheckAchievements(ctx)
			return err
		},
	}

	cmd.Flags().StringVar(&stat, "stat", "", "Stat credited on level-up (knowledge|proficiency|guts|charm|kindness)")

	return cmd
}
