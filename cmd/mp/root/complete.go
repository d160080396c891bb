package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mindpalace/internal/engine"
	"mindpalace/internal/ui"
)

func newCompleteCmd() *cobra.Command {
	var variant string
	var difficulty int
	var hints int
	var timeSpent float64
	var concept string

	cmd := &cobra.Command{
		Use:   "complete <exercise-id>",
		Short: "Record an official exercise completion",
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

			res, err := svc.CompleteExercise(ctx, engine.CompletionSignal{
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
			if res == nil {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Already completed. Use `mp attempt` for practice runs."))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s  %s\n",
				ui.IconDone,
				ui.Good.Render("Completed "+res.ExerciseKey),
				ui.GradeText(string(res.Grade)),
				ui.Gold.Render(fmt.Sprintf("+%d XP", res.XPEarned)))

			next := engine.PlayerXPForLevel(res.Level)
			fmt.Fprintf(cmd.OutOrStdout(), "%s Level %d %s %s\n",
				ui.IconBolt, res.Level,
				ui.ProgressBar(res.XPProgress, next, 24),
				ui.Muted.Render(fmt.Sprintf("%d/%d", res.XPProgress, next)))

			if res.SkillKey != engine.SkillNone {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  lvl %d\n",
					ui.IconBook, ui.Key.Render(engine.SkillName(res.SkillKey)), res.SkillLevel)
			}
			for _, ch := range res.ChallengesCompleted {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
					ui.IconTarget, ui.Good.Render("Challenge cleared:"), ch.Name)
			}

			_, err = svc.CheckAchievements(ctx)
			return err
		},
	}

	cmd.Flags().StringVarP(&variant, "variant", "v", "default", "Exercise variant ID")
	cmd.Flags().IntVarP(&difficulty, "diff", "d", 1, "Difficulty (1-5)")
	cmd.Flags().IntVar(&hints, "hints", 0, "Hints used")
	cmd.Flags().Float64VarP(&timeSpent, "time", "t", 0, "Time spent in seconds")
	cmd.Flags().StringVarP(&concept, "concept", "c", "", "Course concept (e.g. slices, goroutines)")

	return cmd
}
