package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the ticket client TUI.
type KeyMap struct {
	// Tabs.
	TabSubmit  key.Binding
	TabTickets key.Binding
	TabStats   key.Binding
	NextTab    key.Binding

	// Submit form.
	NextField  key.Binding
	PrevField  key.Binding
	OptionPrev key.Binding // Selector: previous value.
	OptionNext key.Binding // Selector: next value.
	Submit     key.Binding
	Classify   key.Binding
	Clear      key.Binding

	// Ticket list.
	Up            key.Binding
	Down          key.Binding
	Search        key.Binding
	SearchDone    key.Binding
	CycleCategory key.Binding
	CyclePriority key.Binding
	CycleStatus   key.Binding
	ChangeStatus  key.Binding
	Reload        key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	TabSubmit: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("F1", "submit"),
	),
	TabTickets: key.NewBinding(
		key.WithKeys("f2"),
		key.WithHelp("F2", "tickets"),
	),
	TabStats: key.NewBinding(
		key.WithKeys("f3"),
		key.WithHelp("F3", "stats"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "next tab"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
	OptionPrev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "previous option"),
	),
	OptionNext: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "next option"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "submit"),
	),
	Classify: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "AI classify"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "clear form"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	SearchDone: key.NewBinding(
		key.WithKeys("esc", "enter"),
		key.WithHelp("esc", "done searching"),
	),
	CycleCategory: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "category filter"),
	),
	CyclePriority: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "priority filter"),
	),
	CycleStatus: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "status filter"),
	),
	ChangeStatus: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "change status"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}
