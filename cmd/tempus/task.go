package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fentz26/tempus/internal/countdown"
	"github.com/fentz26/tempus/internal/focus"
	"github.com/fentz26/tempus/internal/models"
	"github.com/fentz26/tempus/internal/store"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Start a new task",
	RunE:  runTaskAdd,
}

var taskAdjustCmd = &cobra.Command{
	Use:   "adjust [task-id]",
	Short: "Move a task's deadline",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskAdjust,
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete [task-id]",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskComplete,
}

var taskTimeoutCmd = &cobra.Command{
	Use:   "timeout [task-id]",
	Short: "Mark a task timed out",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskTimeout,
}

var taskStatusCmd = &cobra.Command{
	Use:   "status [task-id] [status]",
	Short: "Set a task's status",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskStatus,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var (
	taskDesc     string
	taskDeadline string
	taskAt       string
	taskIn       string
	taskReason   string
	taskSummary  string
	taskStatus   string
)

func init() {
	taskCmd.AddCommand(taskAddCmd, taskAdjustCmd, taskCompleteCmd, taskTimeoutCmd, taskStatusCmd, taskShowCmd, taskListCmd)

	taskAddCmd.Flags().StringVar(&taskDesc, "desc", "", "Task description (required)")
	taskAddCmd.MarkFlagRequired("desc")
	addDeadlineFlags(taskAddCmd)

	taskAdjustCmd.Flags().StringVar(&taskReason, "reason", "", "Why the deadline moves (required)")
	taskAdjustCmd.MarkFlagRequired("reason")
	addDeadlineFlags(taskAdjustCmd)

	taskCompleteCmd.Flags().StringVar(&taskSummary, "summary", "", "Completion summary")

	taskListCmd.Flags().StringVar(&taskStatus, "status", "", "Filter by status (in_progress, completed, timed_out)")
}

func addDeadlineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&taskDeadline, "deadline", "", `Deadline as "YYYY-MM-DD HH:MM:SS"`)
	cmd.Flags().StringVar(&taskAt, "at", "", "Deadline as a time of day (HH:MM), rolled to tomorrow if passed")
	cmd.Flags().StringVar(&taskIn, "in", "", "Deadline as a duration from now (25m, 1h30m)")
	cmd.MarkFlagsMutuallyExclusive("deadline", "at", "in")
	cmd.MarkFlagsOneRequired("deadline", "at", "in")
}

// deadlineFromFlags resolves whichever deadline flag was given through the
// session's deadline parser.
func deadlineFromFlags() (time.Time, error) {
	for _, input := range []string{taskDeadline, taskAt, taskIn} {
		if input != "" {
			return svc.Deadline(input)
		}
	}
	return time.Time{}, focus.ErrBadDeadline
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	deadline, err := deadlineFromFlags()
	if err != nil {
		return err
	}

	// Only one task runs at a time, across sessions too.
	if active, ok, err := svc.Resume(); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("%w: %s (%s) is still in progress", countdown.ErrBusy, truncateID(active.ID), active.Description)
	}

	task, err := svc.NewTask(taskDesc, deadline)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created task: %s (deadline %s)\n", task.ID, models.FormatTime(task.CurrentDeadline))
	return nil
}

func runTaskAdjust(cmd *cobra.Command, args []string) error {
	task, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	deadline, err := deadlineFromFlags()
	if err != nil {
		return err
	}

	task, err = st.Adjust(task.ID, deadline, taskReason)
	if err != nil {
		return err
	}

	last := task.Adjustments[len(task.Adjustments)-1]
	fmt.Fprintf(cmd.OutOrStdout(), "Adjusted %s: %s -> %s (adjustment #%d)\n",
		truncateID(task.ID), models.FormatTime(last.OriginalDeadline), models.FormatTime(last.NewDeadline), last.Sequence)
	return nil
}

func runTaskComplete(cmd *cobra.Command, args []string) error {
	task, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	task, err = st.Complete(task.ID, taskSummary)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Completed %s at %s\n", truncateID(task.ID), models.FormatTime(*task.CompletionTime))
	return nil
}

func runTaskTimeout(cmd *cobra.Command, args []string) error {
	return setStatus(cmd, args[0], models.TaskStatusTimedOut)
}

func runTaskStatus(cmd *cobra.Command, args []string) error {
	return setStatus(cmd, args[0], models.TaskStatus(args[1]))
}

func setStatus(cmd *cobra.Command, ref string, status models.TaskStatus) error {
	task, err := st.Resolve(ref)
	if err != nil {
		return err
	}
	task, err = st.SetStatus(task.ID, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", truncateID(task.ID), task.Status)
	return nil
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	task, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ID:                %s\n%s\n", task.ID, store.DetailText(task))
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	status := models.NormalizeStatus(taskStatus)
	tasks := st.List(status)

	if len(tasks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tasks found")
		return nil
	}

	printTasks(cmd, tasks)
	return nil
}

func printTasks(cmd *cobra.Command, tasks []models.Task) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDESCRIPTION\tSTATUS\tDEADLINE\tADJ")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			truncateID(t.ID), truncate(t.Description, 40), t.Status, models.FormatTime(t.CurrentDeadline), t.TotalAdjustments)
	}
	w.Flush()
}

// describeErr turns store and session errors into CLI hints.
func describeErr(err error) error {
	switch {
	case errors.Is(err, store.ErrAmbiguous):
		return fmt.Errorf("%w; use more characters of the id", err)
	case errors.Is(err, store.ErrState):
		return fmt.Errorf("%w; strict mode is on", err)
	}
	return err
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
