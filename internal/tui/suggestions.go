package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Suggestions provides autocomplete for commands
type Suggestions struct {
	items       []SuggestionItem
	filtered    []SuggestionItem
	selectedIdx int
	visible     bool
}

// SuggestionItem represents a single autocomplete suggestion
type SuggestionItem struct {
	Text        string
	Description string
}

var commandSuggestions = []SuggestionItem{
	{Text: "new", Description: "Start a task: new 25m <description>"},
	{Text: "adjust", Description: "Move the deadline: adjust 16:30 <reason>"},
	{Text: "done", Description: "Complete the task with an optional summary"},
	{Text: "timeout", Description: "Mark the task as timed out"},
	{Text: "remind", Description: "One-shot reminder: remind 15"},
	{Text: "history", Description: "Browse past tasks"},
	{Text: "quit", Description: "Leave tempus"},
}

// NewSuggestions creates a new suggestions handler
func NewSuggestions() *Suggestions {
	return &Suggestions{items: commandSuggestions}
}

// Update updates suggestions based on current input. Only a leading "/"
// followed by a partial command word opens the dropdown.
func (s *Suggestions) Update(input string) {
	if !strings.HasPrefix(input, "/") || strings.Contains(input, " ") {
		s.visible = false
		s.filtered = nil
		return
	}
	s.visible = true
	s.filter(strings.ToLower(strings.TrimPrefix(input, "/")))
}

func (s *Suggestions) filter(query string) {
	s.selectedIdx = 0
	if query == "" {
		s.filtered = s.items
		return
	}

	s.filtered = []SuggestionItem{}
	for _, item := range s.items {
		if strings.HasPrefix(item.Text, query) {
			s.filtered = append(s.filtered, item)
		}
	}
}

// Next moves to the next suggestion
func (s *Suggestions) Next() {
	if len(s.filtered) == 0 {
		return
	}
	s.selectedIdx = (s.selectedIdx + 1) % len(s.filtered)
}

// Prev moves to the previous suggestion
func (s *Suggestions) Prev() {
	if len(s.filtered) == 0 {
		return
	}
	s.selectedIdx--
	if s.selectedIdx < 0 {
		s.selectedIdx = len(s.filtered) - 1
	}
}

// Selected returns the currently selected suggestion
func (s *Suggestions) Selected() *SuggestionItem {
	if !s.IsVisible() || s.selectedIdx >= len(s.filtered) {
		return nil
	}
	return &s.filtered[s.selectedIdx]
}

// IsVisible returns whether suggestions are currently visible
func (s *Suggestions) IsVisible() bool {
	return s.visible && len(s.filtered) > 0
}

// Render renders the suggestions dropdown
func (s *Suggestions) Render(width int) string {
	if !s.IsVisible() {
		return ""
	}

	var b strings.Builder

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(secondaryColor).
		Padding(0, 1).
		Width(max(width-4, 20))

	itemStyle := lipgloss.NewStyle().Foreground(fgColor)
	descStyle := lipgloss.NewStyle().Foreground(mutedColor).Italic(true)

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Render("Commands"))
	b.WriteString("\n")

	const maxVisible = 5
	for i, item := range s.filtered {
		if i >= maxVisible {
			b.WriteString(descStyle.Render(fmt.Sprintf("  ... and %d more", len(s.filtered)-maxVisible)))
			break
		}
		if i == s.selectedIdx {
			b.WriteString(selectedStyle.Render("▶ "+item.Text) + " " + selectedStyle.Render(item.Description))
		} else {
			b.WriteString(itemStyle.Render("  "+item.Text) + " " + descStyle.Render(item.Description))
		}
		b.WriteString("\n")
	}

	return boxStyle.Render(b.String())
}
