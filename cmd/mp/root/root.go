package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mindpalace/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "mp",
	Short:         "Mind Palace — local-first gamified learning tracker",
	Long:          "Mind Palace tracks exercise completions locally and turns them into RPG progression: grades, XP, skills, streaks, palaces, and daily challenges.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newCompleteCmd(),
		newAttemptCmd(),
		newStatusCmd(),
		newSkillsCmd(),
		newPersonasCmd(),
		newPalacesCmd(),
		newDailyCmd(),
		newAchievementsCmd(),
		newExamCmd(),
		newStudyCmd(),
		newDefeatCmd(),
		newSettingsCmd(),
		newResetCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
