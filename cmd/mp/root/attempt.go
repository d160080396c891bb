package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mindpalace/internal/engine"
	"mindpalace/internal/ui"
)

func newAttemptCmd() *cobra.Command {
	var variant string
	var difficulty int
	var hints int
	var timeSpent float64
	var concept string

	cmd := &cobra.Command{
		Use:   "attempt <exercise-id>",
		Short: "Record a practice attempt (repeatable, diminishing mastery XP)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("exercise-id is required")
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

			res, err := svc.RecordAttempt(ctx, engine.CompletionSignal{
				ExerciseID: args[0],
				VariantID:  variant,
				Difficulty: difficulty,
				HintsUsed:  hints,
				TimeSpent:  timeSpent,
				Concept:    concept,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s  %s %s\n",
				ui.IconScroll,
				ui.H2.Render("Attempt #"+fmt.Sprint(res.Attempts)+" on "+res.ExerciseKey),
				ui.GradeText(string(res.Grade)),
				ui.Gold.Render(fmt.Sprintf("+%d mastery XP", res.MasteryXP)),
				ui.Muted.Render(fmt.Sprintf("(raw %d)", res.RawXP)))
			fmt.Fprintf(cmd.OutOrStdout(), "%s best grade so far: %s\n",
				ui.Muted.Render("  "), ui.GradeText(string(res.BestGrade)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&variant, "variant", "v", "default", "Exercise variant ID")
	cmd.Flags().IntVarP(&difficulty, "diff", "d", 1, "Difficulty (1-5)")
	cmd.Flags().IntVar(&hints, "hints", 0, "Hints used")
	cmd.Flags().Float64VarP(&timeSpent, "time", "t", 0, "Time spent in seconds")
	cmd.Flags().StringVarP(&concept, "concept", "c", "", "Course concept")

	return cmd
}
