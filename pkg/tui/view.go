package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/helmcode/ticketctl/pkg/api"
	"github.com/helmcode/ticketctl/pkg/formatter"
	"github.com/helmcode/ticketctl/pkg/model"
	"github.com/helmcode/ticketctl/pkg/stats"
)

func (m *Model) View() string {
	var body string
	switch m.tab {
	case tabSubmit:
		body = m.viewSubmit()
	case tabTickets:
		body = m.viewTickets()
	case tabStats:
		body = m.viewStats()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewTabs(),
		"",
		body,
		"",
		m.viewHelp(),
	)
}

func (m *Model) viewTabs() string {
	active := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 2).
		Foreground(m.theme.SelectedForeground).
		Background(m.theme.SelectedBackground)
	inactive := lipgloss.NewStyle().Padding(0, 2).Foreground(m.theme.FaintText)

	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("F%d %s", i+1, name)
		if tab(i) == m.tab {
			tabs[i] = active.Render(label)
		} else {
			tabs[i] = inactive.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) viewSubmit() string {
	var b strings.Builder
	label := func(f field, text string) string {
		style := lipgloss.NewStyle().Bold(true)
		if m.focus == f {
			style = style.Foreground(m.theme.Accent)
		}
		return style.Render(text)
	}

	draft := m.session.Draft()
	overrides := m.session.Overrides()

	b.WriteString(m.theme.heading().Render("Submit a Support Ticket") + "\n\n")
	b.WriteString(label(fieldTitle, "Title") + "\n")
	b.WriteString(m.title.View() + "\n\n")
	b.WriteString(label(fieldDescription, "Description") + "\n")
	b.WriteString(m.description.View() + "\n\n")

	b.WriteString(label(fieldCategory, "Category") + "  " +
		m.selector(m.focus == fieldCategory, string(draft.Category), overrides.Category) + "\n")
	b.WriteString(label(fieldPriority, "Priority") + "  " +
		m.selector(m.focus == fieldPriority, string(draft.Priority), overrides.Priority) + "\n\n")

	switch {
	case m.session.Submitting():
		b.WriteString(m.theme.faint().Render("Submitting...") + "\n")
	case m.session.Classifying():
		b.WriteString(m.theme.faint().Render("Classifying description...") + "\n")
	}
	if advisory := m.session.Advisory(); advisory != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Warning).Render(advisory) + "\n")
	}
	if m.formErr != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Error).Render(api.Advisory(m.formErr)) + "\n")
	}
	if m.notice != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Success).Render(m.notice) + "\n")
	}
	return b.String()
}

func (m *Model) selector(focused bool, value string, manual bool) string {
	style := lipgloss.NewStyle().Foreground(m.theme.NormalText)
	if focused {
		style = style.Foreground(m.theme.SelectedForeground).Background(m.theme.SelectedBackground)
	}
	source := "auto"
	if manual {
		source = "manual"
	}
	return style.Render(fmt.Sprintf("‹ %-10s ›", value)) + " " + m.theme.faint().Render(source)
}

func (m *Model) viewTickets() string {
	var b strings.Builder

	b.WriteString(m.search.View() + "\n")
	b.WriteString(m.theme.faint().Render(fmt.Sprintf("category: %s  priority: %s  status: %s",
		filterLabel(m.filters.Category), filterLabel(m.filters.Priority), filterLabel(m.filters.Status))) + "\n\n")

	if m.listErr != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Error).Render(m.listErr) + "\n\n")
	}
	if m.loading && len(m.tickets) == 0 {
		b.WriteString(m.theme.faint().Render("Loading tickets...") + "\n")
		return b.String()
	}
	if len(m.tickets) == 0 {
		b.WriteString(m.theme.faint().Render("No tickets found.") + "\n")
		return b.String()
	}

	selected := lipgloss.NewStyle().
		Foreground(m.theme.SelectedForeground).
		Background(m.theme.SelectedBackground)
	for i, t := range m.tickets {
		heading := fmt.Sprintf("#%-4d %s", t.ID, t.Title)
		if i == m.cursor {
			heading = selected.Render("▸ " + heading)
		} else {
			heading = "  " + heading
		}
		b.WriteString(heading + "\n")
		if desc := formatter.Truncate(t.Description, descriptionPreview); desc != "" {
			b.WriteString("    " + m.theme.faint().Render(desc) + "\n")
		}
		b.WriteString(fmt.Sprintf("    %s · %s · %s · %s\n",
			t.Category,
			lipgloss.NewStyle().Foreground(m.theme.PriorityColor(t.Priority)).Render(string(t.Priority)),
			lipgloss.NewStyle().Foreground(m.theme.StatusColor(t.Status)).Render(string(t.Status)),
			m.theme.faint().Render(t.CreatedAt.Local().Format("2006-01-02 15:04")),
		))
	}
	return b.String()
}

func filterLabel[T ~string](v T) string {
	if v == "" {
		return "all"
	}
	return string(v)
}

func (m *Model) viewStats() string {
	var b strings.Builder
	b.WriteString(m.theme.heading().Render("Ticket Stats") + "\n\n")

	if m.statsErr != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Error).Render(m.statsErr) + "\n\n")
	}
	if m.summary == nil {
		if m.statsErr == "" {
			b.WriteString(m.theme.faint().Render("Loading stats...") + "\n")
		}
		return b.String()
	}

	s := m.summary
	fmt.Fprintf(&b, "Total tickets    %d\n", s.Total)
	fmt.Fprintf(&b, "Open tickets     %d (%.0f%%, backlog %s)\n", s.Open, s.OpenPercent, s.Backlog)
	fmt.Fprintf(&b, "Avg per day      %.2f\n\n", s.AvgPerDay)

	m.writeBreakdown(&b, "Priority breakdown", s.Priorities, func(k string) lipgloss.Color {
		return m.theme.PriorityColor(model.Priority(k))
	})
	m.writeBreakdown(&b, "Category breakdown", s.Categories, func(string) lipgloss.Color {
		return m.theme.Accent
	})
	m.writeBreakdown(&b, "Status breakdown", s.Statuses, func(k string) lipgloss.Color {
		return m.theme.StatusColor(model.Status(k))
	})
	return b.String()
}

func (m *Model) writeBreakdown(b *strings.Builder, title string, shares []stats.Share, colorOf func(string) lipgloss.Color) {
	if len(shares) == 0 {
		return
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title) + "\n")
	for _, share := range shares {
		width := int(share.Percent/100*30 + 0.5)
		bar := lipgloss.NewStyle().Foreground(colorOf(share.Key)).Render(strings.Repeat("█", width))
		fmt.Fprintf(b, "  %-12s %4d  %s\n", share.Key, share.Count, bar)
	}
	b.WriteString("\n")
}

func (m *Model) viewHelp() string {
	var bindings []key.Binding
	switch {
	case m.tab == tabSubmit && (m.focus == fieldCategory || m.focus == fieldPriority):
		bindings = []key.Binding{m.keys.NextField, m.keys.OptionPrev, m.keys.OptionNext, m.keys.Submit, m.keys.Classify, m.keys.Clear}
	case m.tab == tabSubmit:
		bindings = []key.Binding{m.keys.NextField, m.keys.Submit, m.keys.Classify, m.keys.Clear}
	case m.tab == tabTickets && m.searching:
		bindings = []key.Binding{m.keys.SearchDone}
	case m.tab == tabTickets:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Search, m.keys.CycleCategory,
			m.keys.CyclePriority, m.keys.CycleStatus, m.keys.ChangeStatus, m.keys.Reload}
	default:
		bindings = []key.Binding{m.keys.Reload}
	}
	bindings = append(bindings, m.keys.NextTab, m.keys.Quit)

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return lipgloss.NewStyle().Foreground(m.theme.FaintText).Render(strings.Join(parts, " • "))
}
