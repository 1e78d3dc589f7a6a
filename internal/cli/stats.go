package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/pomodoro"
)

// statsCmd implements 'focusflow stats'.
func statsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals, streak and the last 7 days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := openCore(flags)
			if err != nil {
				return err
			}
			defer c.Close()

			ref := now()
			completed, minutes := c.sessions.Totals()
			streak := pomodoro.Streak(c.sessions.All(), ref)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Pomodoros completed: %d\n", completed)
			fmt.Fprintf(out, "Focus time:          %s\n", formatMinutes(minutes))
			fmt.Fprintf(out, "Streak:              %d %s\n", streak, plural(streak, "day", "days"))
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%-12s %9s %7s\n", "Date", "Completed", "Voided")
			for _, d := range c.sessions.LastDays(ref, 7) {
				fmt.Fprintf(out, "%-12s %9d %7d\n", d.Date.Format(pomodoro.DateLayout), d.Completed, d.Voided)
			}
			return nil
		},
	}
}

func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
