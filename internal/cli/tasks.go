package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/pomodoro"
)

// addCmd implements 'focusflow add'.
func addCmd(flags *globalFlags) *cobra.Command {
	var (
		pomodoros int
		today     bool
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to the inventory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCore(flags)
			if err != nil {
				return err
			}
			defer c.Close()

			task, err := c.tasks.Add(strings.Join(args, " "), pomodoros)
			if err != nil {
				return err
			}
			where := "inventory"
			if today {
				if err := c.tasks.ToggleToday(task.ID); err != nil {
					return err
				}
				where = "today"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %s (%d pomodoros)\n", task.Title, where, task.Pomodoros)
			return nil
		},
	}
	cmd.Flags().IntVarP(&pomodoros, "pomodoros", "n", 1, "estimated pomodoros")
	cmd.Flags().BoolVar(&today, "today", false, "plan the task for today")
	return cmd
}

// listCmd implements 'focusflow list'.
func listCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks by section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := openCore(flags)
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			printSection(out, "Today", c.tasks.TodayQueue())
			printSection(out, "Inventory", c.tasks.Inventory())
			printSection(out, "Completed", c.tasks.CompletedTasks())
			return nil
		},
	}
}

func printSection(w io.Writer, name string, tasks []pomodoro.Task) {
	fmt.Fprintf(w, "%s (%d)\n", name, len(tasks))
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  -")
	}
	for i, t := range tasks {
		fmt.Fprintf(w, "  %d. %-40s %d/%d\n", i+1, t.Title, t.PomodorosCompleted, t.Pomodoros)
	}
}
