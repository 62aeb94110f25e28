package formatter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/ticketctl/pkg/model"
	"github.com/helmcode/ticketctl/pkg/stats"
)

func init() {
	color.NoColor = true
}

var sampleTickets = []model.Ticket{{
	ID:          3,
	Title:       "Double charge",
	Description: strings.Repeat("billed twice ", 20),
	Category:    model.CategoryBilling,
	Priority:    model.PriorityHigh,
	Status:      model.StatusInProgress,
	CreatedAt:   time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
}}

func TestDisplayTicketsHuman(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayTickets(&buf, sampleTickets, FormatHuman))

	out := buf.String()
	assert.Contains(t, out, "#3 Double charge")
	assert.Contains(t, out, "Category: billing | Priority: 🟠 high | Status: in_progress")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "1 ticket(s)")
}

func TestDisplayTicketsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayTickets(&buf, nil, FormatHuman))
	assert.Contains(t, buf.String(), "No tickets match")
}

func TestDisplayTicketsMachineFormats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayTickets(&buf, sampleTickets, FormatJSON))

	var decoded []model.Ticket
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, int64(3), decoded[0].ID)
	assert.Equal(t, model.StatusInProgress, decoded[0].Status)

	buf.Reset()
	require.NoError(t, DisplaySuggestion(&buf, model.Suggestion{Category: model.CategoryAccount, Priority: model.PriorityLow}, FormatYAML))
	var suggestion map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &suggestion))
	assert.Equal(t, map[string]string{"suggested_category": "account", "suggested_priority": "low"}, suggestion)
}

func TestDisplayStatsHuman(t *testing.T) {
	summary := stats.Summarize(&model.Stats{
		TotalTickets:      4,
		OpenTickets:       1,
		AvgTicketsPerDay:  1.5,
		PriorityBreakdown: map[string]int{"low": 1, "medium": 3},
		CategoryBreakdown: map[string]int{"technical": 4},
	})

	var buf bytes.Buffer
	require.NoError(t, DisplayStats(&buf, summary, FormatHuman))

	out := buf.String()
	assert.Contains(t, out, "Total Tickets:   4")
	assert.Contains(t, out, "Open Tickets:    1 (25%, backlog low)")
	assert.Contains(t, out, "Avg Tickets/Day: 1.50")
	assert.Contains(t, out, "PRIORITY BREAKDOWN")
	assert.Contains(t, out, "Busiest category: technical")
	assert.NotContains(t, out, "STATUS BREAKDOWN")
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, ValidateFormat("yaml"))
	assert.Error(t, ValidateFormat("xml"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 140))
	assert.Equal(t, "héllo...", Truncate("héllo wörld", 5))
}
