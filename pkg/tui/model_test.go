package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/helmcode/ticketctl/pkg/api"
	"github.com/helmcode/ticketctl/pkg/form"
	"github.com/helmcode/ticketctl/pkg/model"
)

type fakeBackend struct {
	mu       sync.Mutex
	tickets  []model.Ticket
	stats    *model.Stats
	fetchErr error
	filters  []model.Filters
	created  []model.Draft
	updates  map[int64]model.Status
}

func (b *fakeBackend) FetchTickets(_ context.Context, filters model.Filters) ([]model.Ticket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filters = append(b.filters, filters)
	return b.tickets, b.fetchErr
}

func (b *fakeBackend) CreateTicket(_ context.Context, draft model.Draft) (*model.Ticket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, draft)
	return &model.Ticket{ID: int64(len(b.created)), Title: draft.Title, Status: model.StatusOpen}, nil
}

func (b *fakeBackend) UpdateTicket(_ context.Context, id int64, status model.Status) (*model.Ticket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.updates == nil {
		b.updates = map[int64]model.Status{}
	}
	b.updates[id] = status
	return &model.Ticket{ID: id, Status: status}, nil
}

func (b *fakeBackend) FetchStats(context.Context) (*model.Stats, error) {
	if b.stats == nil {
		return nil, &api.NetworkError{Op: api.OpFetchStats, Err: errors.New("connection refused")}
	}
	return b.stats, nil
}

type stubClassifier struct {
	suggestion model.Suggestion
	err        error
}

func (c stubClassifier) Classify(context.Context, string) (model.Suggestion, error) {
	return c.suggestion, c.err
}

type harness struct {
	t       *testing.T
	m       *Model
	loop    *form.Loop
	clock   *clocktesting.FakeClock
	backend *fakeBackend
}

func newHarness(t *testing.T, classifier form.Classifier) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	clk := clocktesting.NewFakeClock(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	loop := form.NewLoop()
	backend := &fakeBackend{
		tickets: []model.Ticket{
			{ID: 1, Title: "Double charge", Description: "Billed twice", Category: model.CategoryBilling,
				Priority: model.PriorityHigh, Status: model.StatusOpen},
			{ID: 2, Title: "VPN drops", Description: "Disconnects hourly", Category: model.CategoryTechnical,
				Priority: model.PriorityMedium, Status: model.StatusInProgress},
		},
	}

	m := NewModel(ctx, Config{
		Backend:    backend,
		Classifier: classifier,
		Session:    form.Options{Clock: clk},
	}, loop.Dispatch)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	return &harness{t: t, m: m, loop: loop, clock: clk, backend: backend}
}

func (h *harness) key(k tea.KeyType) tea.Cmd {
	_, cmd := h.m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func (h *harness) typeText(text string) tea.Cmd {
	_, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return cmd
}

// pump delivers the next session event to the model.
func (h *harness) pump() tea.Cmd {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ev, err := h.loop.Next(ctx)
	require.NoError(h.t, err, "expected a session event")
	_, cmd := h.m.Update(sessionMsg{event: ev})
	return cmd
}

// run executes a command that performs I/O and feeds its message back.
func (h *harness) run(cmd tea.Cmd) tea.Cmd {
	h.t.Helper()
	require.NotNil(h.t, cmd)
	_, next := h.m.Update(cmd())
	return next
}

func (h *harness) fillForm(title, description string) {
	h.typeText(title)
	h.key(tea.KeyTab)
	h.typeText(description)
}

func TestSubmitTabDebouncedSuggestion(t *testing.T) {
	h := newHarness(t, stubClassifier{suggestion: model.Suggestion{
		Category: model.CategoryBilling,
		Priority: model.PriorityHigh,
	}})

	h.fillForm("Double charge", "I was billed twice for my invoice")
	assert.Equal(t, "Double charge", h.m.session.Draft().Title)
	assert.True(t, h.m.session.Pending())

	h.clock.Step(form.DefaultDelay)
	h.pump()
	assert.Contains(t, h.m.View(), "Classifying description...")
	h.pump()

	draft := h.m.session.Draft()
	assert.Equal(t, model.CategoryBilling, draft.Category)
	assert.Equal(t, model.PriorityHigh, draft.Priority)
	assert.NotContains(t, h.m.View(), "Classifying description...")
}

func TestSelectorChoiceIsNotOverwritten(t *testing.T) {
	h := newHarness(t, stubClassifier{suggestion: model.Suggestion{
		Category: model.CategoryBilling,
		Priority: model.PriorityCritical,
	}})

	h.fillForm("Login", "Cannot log in to my account since yesterday")
	h.key(tea.KeyTab)
	h.key(tea.KeyLeft) // general -> account
	assert.Equal(t, model.CategoryAccount, h.m.session.Draft().Category)
	assert.True(t, h.m.session.Overrides().Category)
	assert.Contains(t, h.m.View(), "manual")

	h.clock.Step(form.DefaultDelay)
	h.pump()
	h.pump()

	draft := h.m.session.Draft()
	assert.Equal(t, model.CategoryAccount, draft.Category)
	assert.Equal(t, model.PriorityCritical, draft.Priority)
}

func TestSubmitSuccessClearsForm(t *testing.T) {
	h := newHarness(t, stubClassifier{})

	h.fillForm("Double charge", "Billed twice")
	h.key(tea.KeyCtrlS)
	assert.True(t, h.m.session.Submitting())

	cmd := h.pump()
	assert.NotNil(t, cmd, "a submit reloads tickets and stats")
	assert.Empty(t, h.m.title.Value())
	assert.Empty(t, h.m.description.Value())
	assert.Contains(t, h.m.View(), "Ticket submitted successfully!")

	require.Len(t, h.backend.created, 1)
	assert.Equal(t, model.Draft{
		Title:       "Double charge",
		Description: "Billed twice",
		Category:    model.CategoryGeneral,
		Priority:    model.PriorityMedium,
	}, h.backend.created[0])
}

func TestSubmitBlankFormShowsValidation(t *testing.T) {
	h := newHarness(t, stubClassifier{})

	h.typeText("Only a title")
	h.key(tea.KeyCtrlS)

	assert.False(t, h.m.session.Submitting())
	assert.Contains(t, h.m.View(), api.AdvisoryValidation)
	assert.Empty(t, h.backend.created)
}

func TestClassifierFailureShowsAdvisory(t *testing.T) {
	h := newHarness(t, stubClassifier{err: &api.ClassifierUnavailable{Err: errors.New("502")}})

	h.fillForm("Printer", "The office printer is on fire")
	h.key(tea.KeyCtrlK)
	h.pump()

	assert.Contains(t, h.m.View(), api.AdvisoryClassifier)
	assert.Equal(t, model.CategoryGeneral, h.m.session.Draft().Category)
}

func TestClearResetsForm(t *testing.T) {
	h := newHarness(t, stubClassifier{})

	h.fillForm("Something", "Something is broken somewhere")
	h.key(tea.KeyCtrlR)

	assert.Empty(t, h.m.title.Value())
	assert.Empty(t, h.m.description.Value())
	assert.False(t, h.m.session.Pending())
	assert.Equal(t, fieldTitle, h.m.focus)
}

func TestTicketsTabFilters(t *testing.T) {
	h := newHarness(t, stubClassifier{})

	h.key(tea.KeyF2)
	h.run(h.m.loadTickets())
	view := h.m.View()
	assert.Contains(t, view, "#1")
	assert.Contains(t, view, "VPN drops")
	assert.Contains(t, view, "category: all")

	h.run(h.typeText("c"))
	h.run(h.typeText("f"))
	last := h.backend.filters[len(h.backend.filters)-1]
	assert.Equal(t, model.Filters{Category: model.CategoryBilling, Status: model.StatusOpen}, last)

	h.typeText("/")
	require.True(t, h.m.searching)
	seq := h.m.loadSeq
	assert.NotNil(t, h.typeText("vpn"))
	assert.Equal(t, "vpn", h.m.filters.Search)
	assert.Equal(t, seq+1, h.m.loadSeq, "a search edit reloads the list")

	h.key(tea.KeyEsc)
	assert.False(t, h.m.searching)
}

func TestTicketsStaleLoadIgnored(t *testing.T) {
	h := newHarness(t, stubClassifier{})

	h.m.Update(ticketsLoadedMsg{seq: h.m.loadSeq - 1, tickets: []model.Ticket{{ID: 99}}})
	assert.Empty(t, h.m.tickets)

	h.m.loadTickets()
	h.m.Update(ticketsLoadedMsg{seq: h.m.loadSeq, tickets: []model.Ticket{{ID: 7}}})
	require.Len(t, h.m.tickets, 1)
	assert.Equal(t, int64(7), h.m.tickets[0].ID)
}

func TestTicketsTruncateDescription(t *testing.T) {
	h := newHarness(t, stubClassifier{})
	long := strings.Repeat("x", 200)
	h.backend.tickets = []model.Ticket{{ID: 5, Title: "Long", Description: long}}

	h.key(tea.KeyF2)
	h.run(h.m.loadTickets())

	view := h.m.View()
	assert.Contains(t, view, strings.Repeat("x", descriptionPreview)+"...")
	assert.NotContains(t, view, long)
}

func TestChangeStatusAdvancesAndReloads(t *testing.T) {
	h := newHarness(t, stubClassifier{})
	h.key(tea.KeyF2)
	h.run(h.m.loadTickets())

	h.key(tea.KeyDown)
	reload := h.run(h.typeText("s"))
	assert.Equal(t, model.StatusResolved, h.backend.updates[2])
	assert.NotNil(t, reload)
}

func TestTicketLoadFailure(t *testing.T) {
	h := newHarness(t, stubClassifier{})
	h.backend.fetchErr = &api.NetworkError{Op: api.OpFetchTickets, Err: errors.New("connection refused")}

	h.key(tea.KeyF2)
	h.run(h.m.loadTickets())
	assert.Contains(t, h.m.View(), "Could not load tickets.")
}

func TestStatsTab(t *testing.T) {
	h := newHarness(t, stubClassifier{})

	h.run(h.key(tea.KeyF3))
	assert.Contains(t, h.m.View(), "Could not load stats.")

	h.backend.stats = &model.Stats{
		TotalTickets:      8,
		OpenTickets:       2,
		AvgTicketsPerDay:  1.25,
		PriorityBreakdown: map[string]int{"high": 2, "low": 6},
		CategoryBreakdown: map[string]int{"billing": 8},
	}
	h.run(h.typeText("r"))

	view := h.m.View()
	assert.NotContains(t, view, "Could not load stats.")
	assert.Contains(t, view, "Total tickets    8")
	assert.Contains(t, view, "Open tickets     2 (25%, backlog low)")
	assert.Contains(t, view, "Priority breakdown")
}

func TestQuitClosesSession(t *testing.T) {
	h := newHarness(t, stubClassifier{})
	h.fillForm("Title", "A description that is long enough")
	require.True(t, h.m.session.Pending())

	cmd := h.key(tea.KeyCtrlC)
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.False(t, h.m.session.Pending())
}
