package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mindpalace/internal/engine"
	"mindpalace/internal/ui"
)

func newExamCmd() *cobra.Command {
	var title string
	var score int
	var maxScore int

	cmd := &cobra.Command{
		Use:   "exam <exam-id>",
		Short: "Record an exam result",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("exam-id is required")
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

			res, err := svc.RecordExamResult(ctx, engine.ExamInput{
				ID:       args[0],
				Title:    title,
				Score:    score,
				MaxScore: maxScore,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			label := res.Title
			if label == "" {
				label = res.ID
			}
			fmt.Fprintf(out, "%s %s  %d/%d  %s\n",
				ui.IconScroll, ui.H2.Render(label), res.Score, res.MaxScore, ui.GradeText(res.Grade))
			if res.XPBonus > 0 {
				fmt.Fprintf(out, "%s %s\n", ui.IconBolt, ui.Gold.Render(fmt.Sprintf("+%d XP", res.XPBonus)))
			} else {
				fmt.Fprintln(out, ui.Muted.Render("No XP for a failing grade. Study up and retake it."))
			}

			_, err = svc.CheckAchievements(ctx)
			return err
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Exam title")
	cmd.Flags().IntVar(&score, "score", 0, "Points scored")
	cmd.Flags().IntVar(&maxScore, "max", 100, "Maximum points")

	return cmd
}
