package stats

import (
	"sort"

	"github.com/helmcode/ticketctl/pkg/model"
)

// Share is one entry of a breakdown.
type Share struct {
	Key     string  `json:"key" yaml:"key"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Summary is the dashboard view of model.Stats with derived figures.
type Summary struct {
	Total       int     `json:"total_tickets" yaml:"total_tickets"`
	Open        int     `json:"open_tickets" yaml:"open_tickets"`
	OpenPercent float64 `json:"open_percent" yaml:"open_percent"`
	Backlog     string  `json:"backlog" yaml:"backlog"`
	AvgPerDay   float64 `json:"avg_tickets_per_day" yaml:"avg_tickets_per_day"`
	Priorities  []Share `json:"priority_breakdown" yaml:"priority_breakdown"`
	Categories  []Share `json:"category_breakdown" yaml:"category_breakdown"`
	Statuses    []Share `json:"status_breakdown,omitempty" yaml:"status_breakdown,omitempty"`
	Busiest     string  `json:"busiest_category,omitempty" yaml:"busiest_category,omitempty"`
}

func Summarize(s *model.Stats) Summary {
	summary := Summary{
		Total:      s.TotalTickets,
		Open:       s.OpenTickets,
		AvgPerDay:  s.AvgTicketsPerDay,
		Priorities: breakdown(s.PriorityBreakdown, model.Priorities, s.TotalTickets),
		Categories: breakdown(s.CategoryBreakdown, model.Categories, s.TotalTickets),
		Statuses:   breakdown(s.StatusBreakdown, model.Statuses, s.TotalTickets),
	}
	summary.OpenPercent = percent(s.OpenTickets, s.TotalTickets)
	summary.Backlog = backlogLevel(summary.OpenPercent)

	best := 0
	for _, share := range summary.Categories {
		if share.Count > best {
			best = share.Count
			summary.Busiest = share.Key
		}
	}
	return summary
}

// breakdown lists known keys in enum order (zero counts included), then
// any keys the server added, sorted.
func breakdown[T ~string](counts map[string]int, known []T, total int) []Share {
	if len(counts) == 0 {
		return nil
	}

	shares := make([]Share, 0, len(counts))
	seen := make(map[string]bool, len(known))
	for _, k := range known {
		key := string(k)
		seen[key] = true
		shares = append(shares, Share{Key: key, Count: counts[key], Percent: percent(counts[key], total)})
	}

	var extra []string
	for key := range counts {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		shares = append(shares, Share{Key: key, Count: counts[key], Percent: percent(counts[key], total)})
	}
	return shares
}

func percent(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

func backlogLevel(openPercent float64) string {
	if openPercent > 75 {
		return "critical"
	} else if openPercent > 50 {
		return "high"
	} else if openPercent > 25 {
		return "medium"
	}
	return "low"
}
