package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/tempus/internal/models"
	"github.com/fentz26/tempus/internal/store"
)

var (
	listTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	statusRunning   = lipgloss.NewStyle().Foreground(cyanColor)
	statusCompleted = lipgloss.NewStyle().Foreground(successColor)
	statusTimedOut  = lipgloss.NewStyle().Foreground(errorColor)

	detailHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(primaryColor).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(mutedColor)
)

// historyItem implements list.Item for one stored task.
type historyItem struct {
	date string
	task models.Task
}

func (i historyItem) FilterValue() string { return i.task.Description }
func (i historyItem) Title() string       { return i.task.Description }
func (i historyItem) Description() string {
	return fmt.Sprintf("%s %s • %s • %d adj",
		i.date, i.task.StartTime.Format("15:04"), formatStatus(i.task.Status), i.task.TotalAdjustments)
}

func formatStatus(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusInProgress:
		return statusRunning.Render("● in progress")
	case models.TaskStatusCompleted:
		return statusCompleted.Render("● completed")
	case models.TaskStatusTimedOut:
		return statusTimedOut.Render("● timed out")
	default:
		return string(status)
	}
}

// historyItems flattens the date groups, newest day first.
func historyItems(groups []store.DateGroup) []list.Item {
	var items []list.Item
	for _, g := range groups {
		for _, t := range g.Tasks {
			items = append(items, historyItem{date: g.Date, task: t})
		}
	}
	return items
}

// HistoryModel manages the history screen: a task list and a detail pane.
type HistoryModel struct {
	store     *store.Store
	list      list.Model
	detail    viewport.Model
	showingID string
}

// NewHistoryModel creates a new history model
func NewHistoryModel(s *store.Store) *HistoryModel {
	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 80, 20)
	l.Title = "History"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = listTitleStyle

	return &HistoryModel{
		store:  s,
		list:   l,
		detail: viewport.New(80, 20),
	}
}

// SetSize sets the list and detail dimensions
func (m *HistoryModel) SetSize(w, h int) {
	m.list.SetSize(w, h)
	m.detail.Width = w
	m.detail.Height = h - 2
}

// Refresh reloads the tasks from the store.
func (m *HistoryModel) Refresh() {
	m.showingID = ""
	m.list.SetItems(historyItems(m.store.GroupByStartDate()))
	if len(m.list.Items()) == 0 {
		m.list.Title = "History (empty)"
	} else {
		m.list.Title = fmt.Sprintf("History [%d tasks]", len(m.list.Items()))
	}
}

// InDetail reports whether a single task is open.
func (m *HistoryModel) InDetail() bool {
	return m.showingID != ""
}

// Back closes the detail pane. It reports false when already on the list.
func (m *HistoryModel) Back() bool {
	if m.showingID == "" {
		return false
	}
	m.showingID = ""
	return true
}

// Filtering reports whether the list is capturing keys for its filter.
func (m *HistoryModel) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Update handles messages
func (m *HistoryModel) Update(msg tea.Msg) tea.Cmd {
	if m.InDetail() {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" && !m.Filtering() {
		if item, ok := m.list.SelectedItem().(historyItem); ok {
			m.showingID = item.task.ID
			m.detail.SetContent(store.DetailText(item.task))
			m.detail.GotoTop()
			return nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

// View renders the list or the open task
func (m *HistoryModel) View() string {
	if m.InDetail() {
		title := "Task"
		if item, ok := m.list.SelectedItem().(historyItem); ok {
			title = item.task.Description
		}
		return detailHeaderStyle.Render(title) + "\n" + m.detail.View()
	}
	return m.list.View()
}
