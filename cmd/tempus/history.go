package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyByDate bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show all tasks with their deadline history",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyByDate, "by-date", false, "Group tasks by start date, newest first")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if !historyByDate {
		fmt.Fprint(cmd.OutOrStdout(), st.HistoryText())
		return nil
	}

	groups := st.GroupByStartDate()
	if len(groups) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history yet.")
		return nil
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "== %s (%d) ==\n", g.Date, len(g.Tasks))
		printTasks(cmd, g.Tasks)
	}
	return nil
}
