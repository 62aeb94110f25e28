package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/helmcode/ticketctl/pkg/api"
	"github.com/helmcode/ticketctl/pkg/form"
	"github.com/helmcode/ticketctl/pkg/model"
	"github.com/helmcode/ticketctl/pkg/stats"
)

// Backend is the ticket API surface the UI needs. *api.Client satisfies
// it.
type Backend interface {
	FetchTickets(ctx context.Context, filters model.Filters) ([]model.Ticket, error)
	CreateTicket(ctx context.Context, draft model.Draft) (*model.Ticket, error)
	UpdateTicket(ctx context.Context, id int64, status model.Status) (*model.Ticket, error)
	FetchStats(ctx context.Context) (*model.Stats, error)
}

// Config wires a Model to its collaborators.
type Config struct {
	Backend    Backend
	Classifier form.Classifier

	// Session carries the debounce settings for the submit form.
	// Dispatch is set by the UI and ignored here.
	Session form.Options

	Logger *zap.Logger
	Theme  *Theme
}

type tab int

const (
	tabSubmit tab = iota
	tabTickets
	tabStats
)

var tabNames = []string{"Submit", "Tickets", "Stats"}

type field int

const (
	fieldTitle field = iota
	fieldDescription
	fieldCategory
	fieldPriority
	fieldCount
)

const descriptionPreview = 140

type sessionMsg struct {
	event form.Event
}

type ticketsLoadedMsg struct {
	seq     int
	tickets []model.Ticket
	err     error
}

type statsLoadedMsg struct {
	stats *model.Stats
	err   error
}

type statusUpdatedMsg struct {
	ticket *model.Ticket
	err    error
}

// Model is the bubbletea model for the three-tab ticket client.
type Model struct {
	ctx     context.Context
	backend Backend
	session *form.Session
	log     *zap.Logger
	theme   Theme
	keys    KeyMap

	tab           tab
	width, height int

	// Submit tab.
	title       textinput.Model
	description textarea.Model
	focus       field
	notice      string
	formErr     error

	// Tickets tab.
	search    textinput.Model
	searching bool
	filters   model.Filters
	tickets   []model.Ticket
	cursor    int
	loadSeq   int
	loading   bool
	listErr   string

	// Stats tab.
	summary  *stats.Summary
	statsErr string
}

// NewModel builds the UI model. dispatch must deliver session events
// back into the running program, usually via Program.Send.
func NewModel(ctx context.Context, cfg Config, dispatch func(form.Event)) *Model {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	theme := DefaultTheme
	if cfg.Theme != nil {
		theme = *cfg.Theme
	}

	opts := cfg.Session
	opts.Dispatch = dispatch
	if opts.Logger == nil {
		opts.Logger = logger
	}

	title := textinput.New()
	title.Placeholder = "Brief summary of the issue"
	title.CharLimit = 200
	title.Width = 60
	title.Focus()

	description := textarea.New()
	description.Placeholder = "Describe the issue in detail..."
	description.CharLimit = 5000
	description.ShowLineNumbers = false
	description.SetWidth(62)
	description.SetHeight(5)

	search := textinput.New()
	search.Placeholder = "Search title or description"
	search.Prompt = "/ "
	search.Width = 40

	return &Model{
		ctx:         ctx,
		backend:     cfg.Backend,
		session:     form.New(ctx, cfg.Classifier, cfg.Backend, opts),
		log:         logger,
		theme:       theme,
		keys:        DefaultKeyMap,
		title:       title,
		description: description,
		search:      search,
	}
}

// Run starts the full-screen UI and blocks until the user quits.
func Run(ctx context.Context, cfg Config) error {
	var program *tea.Program
	m := NewModel(ctx, cfg, func(ev form.Event) {
		program.Send(sessionMsg{event: ev})
	})
	defer m.session.Close()

	program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadTickets(), m.loadStats())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case sessionMsg:
		return m, m.handleSession(msg.event)

	case ticketsLoadedMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.log.Warn("ticket load failed", zap.Error(msg.err))
			m.listErr = api.Advisory(msg.err)
			return m, nil
		}
		m.listErr = ""
		m.tickets = msg.tickets
		if m.cursor >= len(m.tickets) {
			m.cursor = max(len(m.tickets)-1, 0)
		}
		return m, nil

	case statsLoadedMsg:
		if msg.err != nil {
			m.log.Warn("stats load failed", zap.Error(msg.err))
			m.statsErr = api.Advisory(msg.err)
			return m, nil
		}
		summary := stats.Summarize(msg.stats)
		m.summary = &summary
		m.statsErr = ""
		return m, nil

	case statusUpdatedMsg:
		if msg.err != nil {
			m.listErr = api.Advisory(msg.err)
			return m, nil
		}
		return m, tea.Batch(m.loadTickets(), m.loadStats())

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, m.updateFocused(msg)
}

func (m *Model) handleSession(ev form.Event) tea.Cmd {
	switch m.session.Handle(ev) {
	case form.Submitted:
		m.syncInputs()
		m.formErr = nil
		m.notice = "Ticket submitted successfully!"
		return tea.Batch(m.loadTickets(), m.loadStats())
	case form.SubmitFailed:
		m.notice = ""
		m.formErr = m.session.Err()
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.session.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.TabSubmit):
		return m.switchTab(tabSubmit)
	case key.Matches(msg, m.keys.TabTickets):
		return m.switchTab(tabTickets)
	case key.Matches(msg, m.keys.TabStats):
		return m.switchTab(tabStats)
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab((m.tab + 1) % tab(len(tabNames)))
	}

	switch m.tab {
	case tabSubmit:
		return m.handleFormKeys(msg)
	case tabTickets:
		return m.handleListKeys(msg)
	default:
		if key.Matches(msg, m.keys.Reload) {
			return m.loadStats()
		}
	}
	return nil
}

func (m *Model) switchTab(t tab) tea.Cmd {
	m.tab = t
	if t == tabStats {
		return m.loadStats()
	}
	return nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.NextField):
		return m.focusField((m.focus + 1) % fieldCount)
	case key.Matches(msg, m.keys.PrevField):
		return m.focusField((m.focus + fieldCount - 1) % fieldCount)

	case key.Matches(msg, m.keys.Submit):
		m.notice = ""
		m.formErr = m.session.Submit()
		if errors.Is(m.formErr, form.ErrBusy) {
			m.formErr = nil
		}
		return nil

	case key.Matches(msg, m.keys.Classify):
		m.notice = ""
		m.formErr = m.session.SuggestNow()
		return nil

	case key.Matches(msg, m.keys.Clear):
		m.session.Reset()
		m.syncInputs()
		m.notice = ""
		m.formErr = nil
		return m.focusField(fieldTitle)
	}

	if m.focus == fieldCategory || m.focus == fieldPriority {
		m.handleSelectorKeys(msg)
		return nil
	}
	return m.updateFocused(msg)
}

// handleSelectorKeys cycles the focused selector. Any choice made here
// is an override the classifier will not touch again.
func (m *Model) handleSelectorKeys(msg tea.KeyMsg) {
	draft := m.session.Draft()
	forward := key.Matches(msg, m.keys.OptionNext)
	if !forward && !key.Matches(msg, m.keys.OptionPrev) {
		return
	}

	switch m.focus {
	case fieldCategory:
		next := model.Prev(model.Categories, draft.Category)
		if forward {
			next = model.Next(model.Categories, draft.Category)
		}
		m.session.SetCategory(next)
	case fieldPriority:
		next := model.Prev(model.Priorities, draft.Priority)
		if forward {
			next = model.Next(model.Priorities, draft.Priority)
		}
		m.session.SetPriority(next)
	}
}

func (m *Model) focusField(f field) tea.Cmd {
	m.focus = f
	m.title.Blur()
	m.description.Blur()

	switch f {
	case fieldTitle:
		return m.title.Focus()
	case fieldDescription:
		return m.description.Focus()
	}
	return nil
}

// updateFocused forwards msg to the focused text widget and pushes any
// edit into the session.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch {
	case m.tab == tabTickets && m.searching:
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.filters.Search = m.search.Value()
			return tea.Batch(cmd, m.loadTickets())
		}
	case m.tab == tabSubmit && m.focus == fieldTitle:
		m.title, cmd = m.title.Update(msg)
		if v := m.title.Value(); v != m.session.Draft().Title {
			m.session.SetTitle(v)
		}
	case m.tab == tabSubmit && m.focus == fieldDescription:
		m.description, cmd = m.description.Update(msg)
		if v := m.description.Value(); v != m.session.Draft().Description {
			m.session.SetDescription(v)
		}
	}
	return cmd
}

// syncInputs copies the session draft back into the text widgets after
// the session replaced it.
func (m *Model) syncInputs() {
	draft := m.session.Draft()
	if m.title.Value() != draft.Title {
		m.title.SetValue(draft.Title)
	}
	if m.description.Value() != draft.Description {
		m.description.SetValue(draft.Description)
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		if key.Matches(msg, m.keys.SearchDone) {
			m.searching = false
			m.search.Blur()
			return nil
		}
		return m.updateFocused(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m.search.Focus()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tickets)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.CycleCategory):
		m.filters.Category = model.NextFilter(model.Categories, m.filters.Category)
		return m.loadTickets()
	case key.Matches(msg, m.keys.CyclePriority):
		m.filters.Priority = model.NextFilter(model.Priorities, m.filters.Priority)
		return m.loadTickets()
	case key.Matches(msg, m.keys.CycleStatus):
		m.filters.Status = model.NextFilter(model.Statuses, m.filters.Status)
		return m.loadTickets()
	case key.Matches(msg, m.keys.ChangeStatus):
		return m.changeStatus()
	case key.Matches(msg, m.keys.Reload):
		return m.loadTickets()
	}
	return nil
}

// changeStatus advances the selected ticket to the next status.
func (m *Model) changeStatus() tea.Cmd {
	if m.cursor >= len(m.tickets) {
		return nil
	}
	selected := m.tickets[m.cursor]
	next := model.Next(model.Statuses, selected.Status)

	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		ticket, err := backend.UpdateTicket(ctx, selected.ID, next)
		return statusUpdatedMsg{ticket: ticket, err: err}
	}
}

// loadTickets fetches the list for the current filters. Only the result
// of the latest load is applied.
func (m *Model) loadTickets() tea.Cmd {
	m.loadSeq++
	m.loading = true

	seq, filters, ctx, backend := m.loadSeq, m.filters, m.ctx, m.backend
	filters.Search = strings.TrimSpace(filters.Search)
	return func() tea.Msg {
		tickets, err := backend.FetchTickets(ctx, filters)
		return ticketsLoadedMsg{seq: seq, tickets: tickets, err: err}
	}
}

func (m *Model) loadStats() tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		s, err := backend.FetchStats(ctx)
		return statsLoadedMsg{stats: s, err: err}
	}
}
