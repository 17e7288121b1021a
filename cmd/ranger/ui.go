// # cmd/ranger/ui.go
package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ranger/internal/engine/conflicts"
	"ranger/internal/ui/report"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	conflictStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
	isConflict  bool
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list          list.Model
	conflictCount int
	projectCount  int
	freeCount     int
	lastUpdate    time.Time
}

type updateMsg struct {
	items         []list.Item
	conflictCount int
	projectCount  int
	freeCount     int
}

// toUpdateMsg flattens one analysis pass into the list the UI renders:
// conflicts first, then one next-free-id row per project.
func toUpdateMsg(data report.Data) updateMsg {
	items := make([]list.Item, 0)

	for _, c := range data.ObjectConflicts {
		desc := ""
		for i, o := range c.Declarations {
			if i > 0 {
				desc += ", "
			}
			desc += fmt.Sprintf("%s (%s:%d)", o.Project, o.Declaration.Location.Unit, o.Declaration.Location.Line)
		}
		items = append(items, item{
			title:      fmt.Sprintf("Object Conflict: %s %d", c.Kind, c.ID),
			desc:       desc,
			isConflict: true,
		})
	}
	for _, c := range data.FieldConflicts {
		items = append(items, item{
			title:      fmt.Sprintf("Field Conflict: %s field %d", c.Base, c.ChildID),
			desc:       describeOccurrences(c),
			isConflict: true,
		})
	}
	for _, c := range data.ValueConflicts {
		items = append(items, item{
			title:      fmt.Sprintf("Value Conflict: %s value %d", c.Base, c.ChildID),
			desc:       describeOccurrences(c),
			isConflict: true,
		})
	}
	for _, project := range data.Projects {
		if next, ok := data.NextByProject[project.Name]; ok {
			items = append(items, item{
				title: fmt.Sprintf("Next free id: %d", next),
				desc:  project.Name,
			})
		}
	}

	return updateMsg{
		items:         items,
		conflictCount: len(data.ObjectConflicts) + len(data.FieldConflicts) + len(data.ValueConflicts),
		projectCount:  len(data.Projects),
		freeCount:     data.TotalFree(),
	}
}

func describeOccurrences(c conflicts.ChildConflict) string {
	desc := ""
	for i, o := range c.Occurrences {
		if i > 0 {
			desc += ", "
		}
		desc += fmt.Sprintf("%s (%s %d)", o.Project, o.ExtensionName, o.ExtensionID)
	}
	return desc
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.conflictCount = msg.conflictCount
		m.projectCount = msg.projectCount
		m.freeCount = msg.freeCount
		m.lastUpdate = time.Now()
		m.list.SetItems(msg.items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d projects | %d free ids",
		m.lastUpdate.Format("15:04:05"), m.projectCount, m.freeCount))

	var summary string
	if m.conflictCount == 0 {
		summary = successStyle.Render("✅ No Conflicts")
	} else {
		summary = conflictStyle.Render(fmt.Sprintf("⚠️  %d Conflicts", m.conflictCount))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Identifier Range Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Conflicts & Free Ranges"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
