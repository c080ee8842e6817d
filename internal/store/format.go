package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fentz26/tempus/internal/models"
)

// dateLayout keys history groups by calendar day.
const dateLayout = "2006-01-02"

// DateGroup holds the tasks started on one calendar day.
type DateGroup struct {
	Date  string
	Tasks []models.Task
}

// GroupByStartDate partitions all tasks by the local calendar date of their
// start time. Groups are ordered newest date first; tasks within a group
// keep creation order.
func (s *Store) GroupByStartDate() []DateGroup {
	return GroupByStartDate(s.List(""))
}

// GroupByStartDate groups tasks the same way as Store.GroupByStartDate.
func GroupByStartDate(tasks []models.Task) []DateGroup {
	byDate := make(map[string]int)
	var groups []DateGroup
	for _, t := range tasks {
		date := t.StartTime.In(time.Local).Format(dateLayout)
		i, ok := byDate[date]
		if !ok {
			i = len(groups)
			byDate[date] = i
			groups = append(groups, DateGroup{Date: date})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date > groups[j].Date
	})
	return groups
}

// HistoryText renders every task as a plain-text block.
func (s *Store) HistoryText() string {
	return HistoryText(s.List(""))
}

// HistoryText renders tasks as plain-text blocks separated by rules.
func HistoryText(tasks []models.Task) string {
	if len(tasks) == 0 {
		return "No history yet.\n"
	}

	var b strings.Builder
	for _, t := range tasks {
		fmt.Fprintf(&b, "Task ID:           %s\n", t.ID)
		fmt.Fprintf(&b, "Description:       %s\n", t.Description)
		fmt.Fprintf(&b, "Started:           %s\n", models.FormatTime(t.StartTime))
		fmt.Fprintf(&b, "Initial deadline:  %s\n", models.FormatTime(t.InitialDeadline))
		fmt.Fprintf(&b, "Current deadline:  %s\n", models.FormatTime(t.CurrentDeadline))
		fmt.Fprintf(&b, "Status:            %s\n", t.Status)
		if t.CompletionTime != nil {
			fmt.Fprintf(&b, "Completed:         %s\n", models.FormatTime(*t.CompletionTime))
		}
		if t.Summary != "" {
			fmt.Fprintf(&b, "Summary:           %s\n", t.Summary)
		}
		fmt.Fprintf(&b, "Adjustments:       %d\n", t.TotalAdjustments)
		fmt.Fprintf(&b, "Adjusted by:       %s\n", adjustedTime(t))
		b.WriteString(strings.Repeat("-", 40) + "\n")
	}
	return b.String()
}

// DetailText renders a single task including its adjustment log.
func DetailText(t models.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task:              %s\n", t.Description)
	fmt.Fprintf(&b, "Started:           %s\n", models.FormatTime(t.StartTime))
	fmt.Fprintf(&b, "Initial deadline:  %s\n", models.FormatTime(t.InitialDeadline))

	if len(t.Adjustments) > 0 {
		b.WriteString("\nAdjustments:\n")
		for _, a := range t.Adjustments {
			fmt.Fprintf(&b, "  #%d at %s\n", a.Sequence, models.FormatTime(a.Time))
			fmt.Fprintf(&b, "     reason: %s\n", a.Reason)
			fmt.Fprintf(&b, "     %s -> %s\n", models.FormatTime(a.OriginalDeadline), models.FormatTime(a.NewDeadline))
		}
	}

	if t.CompletionTime != nil {
		fmt.Fprintf(&b, "\nCompleted:         %s\n", models.FormatTime(*t.CompletionTime))
	}
	if t.Summary != "" {
		fmt.Fprintf(&b, "Summary:           %s\n", t.Summary)
	}

	b.WriteString("\nStats:\n")
	fmt.Fprintf(&b, "  adjustments:     %d\n", t.TotalAdjustments)
	fmt.Fprintf(&b, "  adjusted by:     %s\n", adjustedTime(t))
	fmt.Fprintf(&b, "  status:          %s", t.Status)
	return b.String()
}

func adjustedTime(t models.Task) string {
	return models.FormatDuration(time.Duration(t.TotalAdjustedTime * float64(time.Second)))
}
