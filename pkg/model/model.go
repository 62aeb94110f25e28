package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Category string

const (
	CategoryBilling   Category = "billing"
	CategoryTechnical Category = "technical"
	CategoryAccount   Category = "account"
	CategoryGeneral   Category = "general"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryBilling, CategoryTechnical, CategoryAccount, CategoryGeneral}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists every priority from least to most urgent.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

// ParseCategory validates a category name, ignoring case and surrounding space.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (allowed: %s)", s, join(Categories))
}

// ParsePriority validates a priority name, ignoring case and surrounding space.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Priorities {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q (allowed: %s)", s, join(Priorities))
}

// ParseStatus validates a status name, ignoring case and surrounding space.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (allowed: %s)", s, join(Statuses))
}

func join[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// Draft is an unsaved ticket being edited in a form session.
type Draft struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Category    Category `json:"category" yaml:"category"`
	Priority    Priority `json:"priority" yaml:"priority"`
}

// NewDraft returns the blank draft a form starts from.
func NewDraft() Draft {
	return Draft{Category: CategoryGeneral, Priority: PriorityMedium}
}

type Ticket struct {
	ID          int64     `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Category    Category  `json:"category" yaml:"category"`
	Priority    Priority  `json:"priority" yaml:"priority"`
	Status      Status    `json:"status" yaml:"status"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// Suggestion is a classifier's proposal for a draft's category and priority.
type Suggestion struct {
	Category Category `json:"suggested_category" yaml:"suggested_category"`
	Priority Priority `json:"suggested_priority" yaml:"suggested_priority"`
}

type Stats struct {
	TotalTickets      int            `json:"total_tickets" yaml:"total_tickets"`
	OpenTickets       int            `json:"open_tickets" yaml:"open_tickets"`
	AvgTicketsPerDay  float64        `json:"avg_tickets_per_day" yaml:"avg_tickets_per_day"`
	PriorityBreakdown map[string]int `json:"priority_breakdown" yaml:"priority_breakdown"`
	CategoryBreakdown map[string]int `json:"category_breakdown" yaml:"category_breakdown"`
	StatusBreakdown   map[string]int `json:"status_breakdown,omitempty" yaml:"status_breakdown,omitempty"`
}

// Filters narrows a ticket listing. Empty fields match everything.
type Filters struct {
	Search   string   `json:"search,omitempty"`
	Category Category `json:"category,omitempty"`
	Priority Priority `json:"priority,omitempty"`
	Status   Status   `json:"status,omitempty"`
}

// Values encodes the non-empty filters as query parameters.
func (f Filters) Values() url.Values {
	q := url.Values{}
	if s := strings.TrimSpace(f.Search); s != "" {
		q.Set("search", s)
	}
	if f.Category != "" {
		q.Set("category", string(f.Category))
	}
	if f.Priority != "" {
		q.Set("priority", string(f.Priority))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	return q
}

// Next returns the value after cur in values, wrapping around.
// An unknown cur yields the first value.
func Next[T comparable](values []T, cur T) T {
	for i, v := range values {
		if v == cur {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

// Prev returns the value before cur in values, wrapping around.
// An unknown cur yields the last value.
func Prev[T comparable](values []T, cur T) T {
	for i, v := range values {
		if v == cur {
			return values[(i+len(values)-1)%len(values)]
		}
	}
	return values[len(values)-1]
}

// NextFilter cycles through "" (all) followed by values.
func NextFilter[T ~string](values []T, cur T) T {
	all := append([]T{""}, values...)
	return Next(all, cur)
}
