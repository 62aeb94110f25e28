package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/ticketctl/pkg/model"
	"github.com/helmcode/ticketctl/pkg/stats"
)

const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ValidateFormat rejects output formats the formatter cannot produce.
func ValidateFormat(format string) error {
	switch format {
	case FormatHuman, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("unsupported output format %q (supported: human, json, yaml)", format)
}

// DisplayTickets formats and displays a ticket listing
func DisplayTickets(w io.Writer, tickets []model.Ticket, format string) error {
	switch format {
	case FormatJSON:
		return displayJSON(w, tickets)
	case FormatYAML:
		return displayYAML(w, tickets)
	}

	if len(tickets) == 0 {
		fmt.Fprintln(w, color.HiBlackString("No tickets match the current filters."))
		return nil
	}

	for _, t := range tickets {
		displayTicketCard(w, t)
	}
	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "%d ticket(s)\n", len(tickets))
	return nil
}

// DisplayTicket shows a single ticket with its full description.
func DisplayTicket(w io.Writer, ticket *model.Ticket, format string) error {
	switch format {
	case FormatJSON:
		return displayJSON(w, ticket)
	case FormatYAML:
		return displayYAML(w, ticket)
	}

	bold := color.New(color.Bold)
	fmt.Fprintln(w)
	bold.Fprintf(w, "#%d %s\n", ticket.ID, ticket.Title)
	fmt.Fprintf(w, "   %s  %s  %s\n",
		categoryLabel(ticket.Category),
		priorityLabel(ticket.Priority),
		statusColor(ticket.Status).Sprint(ticket.Status),
	)
	if !ticket.CreatedAt.IsZero() {
		fmt.Fprintf(w, "   Created At: %s\n", ticket.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	if ticket.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, wrapText(ticket.Description, 80, "   "))
	}
	fmt.Fprintln(w)
	return nil
}

// DisplayStats shows the dashboard figures.
func DisplayStats(w io.Writer, summary stats.Summary, format string) error {
	switch format {
	case FormatJSON:
		return displayJSON(w, summary)
	case FormatYAML:
		return displayYAML(w, summary)
	}

	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(w)
	cyan.Fprintln(w, "📊 TICKET STATS")
	fmt.Fprintf(w, "   Total Tickets:   %d\n", summary.Total)
	fmt.Fprintf(w, "   Open Tickets:    %d (%.0f%%, backlog %s)\n",
		summary.Open, summary.OpenPercent, levelColor(summary.Backlog).Sprint(summary.Backlog))
	fmt.Fprintf(w, "   Avg Tickets/Day: %.2f\n\n", summary.AvgPerDay)

	displayBreakdown(w, "PRIORITY BREAKDOWN", summary.Priorities, getPriorityIcon)
	displayBreakdown(w, "CATEGORY BREAKDOWN", summary.Categories, nil)
	displayBreakdown(w, "STATUS BREAKDOWN", summary.Statuses, nil)

	if summary.Busiest != "" {
		fmt.Fprintf(w, "💡 Busiest category: %s\n", color.CyanString(summary.Busiest))
	}
	return nil
}

// DisplaySuggestion shows a classifier's proposal.
func DisplaySuggestion(w io.Writer, suggestion model.Suggestion, format string) error {
	switch format {
	case FormatJSON:
		return displayJSON(w, suggestion)
	case FormatYAML:
		return displayYAML(w, suggestion)
	}

	green := color.New(color.FgGreen, color.Bold)
	green.Fprintln(w, "✨ AI SUGGESTION:")
	fmt.Fprintf(w, "   Category: %s\n", categoryLabel(suggestion.Category))
	fmt.Fprintf(w, "   Priority: %s\n", priorityLabel(suggestion.Priority))
	return nil
}

func displayJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func displayYAML(w io.Writer, v any) error {
	output, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprint(w, string(output))
	return nil
}

func displayTicketCard(w io.Writer, t model.Ticket) {
	white := color.New(color.FgWhite, color.Bold)

	fmt.Fprintln(w, strings.Repeat("─", 80))
	white.Fprintf(w, "#%d %s\n", t.ID, t.Title)
	if desc := Truncate(t.Description, 140); desc != "" {
		fmt.Fprintf(w, "   %s\n", desc)
	}
	fmt.Fprintf(w, "   Category: %s | Priority: %s | Status: %s\n",
		categoryLabel(t.Category),
		priorityLabel(t.Priority),
		statusColor(t.Status).Sprint(t.Status),
	)
	if !t.CreatedAt.IsZero() {
		fmt.Fprintf(w, "   %s\n", color.HiBlackString("Created At: %s", t.CreatedAt.Local().Format("2006-01-02 15:04")))
	}
}

func displayBreakdown(w io.Writer, title string, shares []stats.Share, icon func(string) string) {
	if len(shares) == 0 {
		return
	}
	color.New(color.FgYellow, color.Bold).Fprintf(w, "%s:\n", title)
	for _, s := range shares {
		prefix := "•"
		if icon != nil {
			prefix = icon(s.Key)
		}
		fmt.Fprintf(w, "   %s %-12s %4d  %5.1f%%  %s\n", prefix, s.Key, s.Count, s.Percent, bar(s.Percent, 30))
	}
	fmt.Fprintln(w)
}

func bar(percent float64, width int) string {
	n := int(percent/100*float64(width) + 0.5)
	if n > width {
		n = width
	}
	return strings.Repeat("█", n)
}

func categoryLabel(c model.Category) string {
	return color.CyanString(string(c))
}

func priorityLabel(p model.Priority) string {
	return fmt.Sprintf("%s %s", getPriorityIcon(string(p)), levelColor(string(p)).Sprint(p))
}

func levelColor(level string) *color.Color {
	switch strings.ToLower(level) {
	case "critical":
		return color.New(color.FgRed, color.Bold)
	case "high":
		return color.New(color.FgRed)
	case "medium":
		return color.New(color.FgYellow)
	case "low":
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgWhite)
	}
}

func statusColor(s model.Status) *color.Color {
	switch s {
	case model.StatusOpen:
		return color.New(color.FgYellow)
	case model.StatusInProgress:
		return color.New(color.FgBlue)
	case model.StatusResolved:
		return color.New(color.FgGreen)
	case model.StatusClosed:
		return color.New(color.FgHiBlack)
	default:
		return color.New(color.FgWhite)
	}
}

func getPriorityIcon(priority string) string {
	switch strings.ToLower(priority) {
	case "critical":
		return "🔴"
	case "high":
		return "🟠"
	case "medium":
		return "🟡"
	case "low":
		return "🟢"
	default:
		return "⚪"
	}
}

// Truncate shortens text to max runes, adding "..." when cut.
func Truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "..."
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
