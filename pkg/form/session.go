package form

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/helmcode/ticketctl/pkg/api"
	"github.com/helmcode/ticketctl/pkg/model"
)

const (
	DefaultDelay                = 700 * time.Millisecond
	DefaultMinDescriptionLength = 15
)

var (
	ErrBusy   = errors.New("a submission is already in progress")
	ErrClosed = errors.New("form session is closed")
)

// Classifier suggests a category and priority for a ticket description.
type Classifier interface {
	Classify(ctx context.Context, description string) (model.Suggestion, error)
}

// Submitter persists a finished draft.
type Submitter interface {
	CreateTicket(ctx context.Context, draft model.Draft) (*model.Ticket, error)
}

// Overrides records which selectors the user has edited by hand. A set flag
// keeps suggestions away from that field until the draft is reset.
type Overrides struct {
	Category bool `json:"category_overridden"`
	Priority bool `json:"priority_overridden"`
}

// Event is deferred work re-entering the session's owner loop. Events are
// opaque; owners pass them back to Handle unchanged.
type Event interface {
	event()
}

type debounceFired struct {
	gen uint64
}

type suggestionResolved struct {
	epoch      uint64
	request    uint64
	suggestion model.Suggestion
	err        error
}

type submitResolved struct {
	epoch  uint64
	ticket *model.Ticket
	err    error
}

func (debounceFired) event()      {}
func (suggestionResolved) event() {}
func (submitResolved) event()     {}

// Outcome tells the owner loop what handling an event did.
type Outcome int

const (
	Ignored Outcome = iota
	Requested
	Suggested
	SuggestionFailed
	Submitted
	SubmitFailed
)

func (o Outcome) String() string {
	switch o {
	case Requested:
		return "requested"
	case Suggested:
		return "suggested"
	case SuggestionFailed:
		return "suggestion_failed"
	case Submitted:
		return "submitted"
	case SubmitFailed:
		return "submit_failed"
	default:
		return "ignored"
	}
}

type Options struct {
	// Dispatch delivers an Event to the goroutine that owns the session.
	// It is called from timer and network goroutines and must be safe for
	// concurrent use. Required.
	Dispatch func(Event)

	// Clock schedules the debounce timer. Defaults to the real clock.
	Clock clock.WithDelayedExecution

	// Delay is the quiet period after the last description edit.
	Delay time.Duration

	// MinDescriptionLength is the trimmed length a description needs
	// before suggestions are requested.
	MinDescriptionLength int

	// Manual disables the debounce timer; suggestions are only requested
	// through SuggestNow.
	Manual bool

	Logger *zap.Logger

	// OnSubmitted is called on the owner goroutine after a ticket is
	// created, so dependent views can refresh.
	OnSubmitted func(model.Ticket)
}

// Session owns one ticket form: the draft, the override flags, the
// debounce timer and the bookkeeping for in-flight requests.
//
// A Session is not safe for concurrent use. Every method must be called
// from the owner goroutine; timer fires and network completions come back
// through Options.Dispatch and are applied by Handle.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc

	classifier  Classifier
	submitter   Submitter
	dispatch    func(Event)
	clock       clock.WithDelayedExecution
	delay       time.Duration
	minLength   int
	manual      bool
	log         *zap.Logger
	onSubmitted func(model.Ticket)

	draft     model.Draft
	overrides Overrides

	timer clock.Timer
	// gen changes whenever the timer is armed or cancelled; a fire event
	// carrying an older gen is stale.
	gen uint64
	// epoch changes on reset; results for an earlier epoch are dropped.
	epoch uint64
	// requests is the id of the last classification request issued and
	// resolved the newest id whose result has been applied.
	requests uint64
	resolved uint64
	inflight int

	submitting bool
	advisory   string
	err        error
	closed     bool
}

func New(ctx context.Context, classifier Classifier, submitter Submitter, opts Options) *Session {
	if opts.Dispatch == nil {
		panic("form: Options.Dispatch is required")
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.MinDescriptionLength <= 0 {
		opts.MinDescriptionLength = DefaultMinDescriptionLength
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(ctx)
	return &Session{
		ctx:         ctx,
		cancel:      cancel,
		classifier:  classifier,
		submitter:   submitter,
		dispatch:    opts.Dispatch,
		clock:       opts.Clock,
		delay:       opts.Delay,
		minLength:   opts.MinDescriptionLength,
		manual:      opts.Manual,
		log:         opts.Logger,
		onSubmitted: opts.OnSubmitted,
		draft:       model.NewDraft(),
	}
}

func (s *Session) Draft() model.Draft {
	return s.draft
}

func (s *Session) Overrides() Overrides {
	return s.overrides
}

// Pending reports whether a debounce timer is armed.
func (s *Session) Pending() bool {
	return s.timer != nil
}

// Classifying reports whether a classification request is in flight.
func (s *Session) Classifying() bool {
	return s.inflight > 0
}

func (s *Session) Submitting() bool {
	return s.submitting
}

// Busy reports whether the session still expects an event.
func (s *Session) Busy() bool {
	return s.Pending() || s.Classifying() || s.submitting
}

// Advisory is the message left by the last failed classification.
func (s *Session) Advisory() string {
	return s.advisory
}

// Err is the error left by the last rejected or failed submission.
func (s *Session) Err() error {
	return s.err
}

func (s *Session) SetTitle(title string) {
	if s.closed {
		return
	}
	s.draft.Title = title
}

// SetDescription updates the description and restarts the debounce timer
// when the trimmed text is long enough. Any pending timer is cancelled.
func (s *Session) SetDescription(description string) {
	if s.closed {
		return
	}
	s.draft.Description = description
	s.cancelTimer()
	if s.qualifies() {
		s.arm()
	}
}

// SetCategory records a manual category choice.
func (s *Session) SetCategory(category model.Category) {
	if s.closed {
		return
	}
	s.draft.Category = category
	s.overrides.Category = true
}

// SetPriority records a manual priority choice.
func (s *Session) SetPriority(priority model.Priority) {
	if s.closed {
		return
	}
	s.draft.Priority = priority
	s.overrides.Priority = true
}

// Reset clears the draft and both override flags. Results of requests
// issued before the reset are dropped when they arrive.
func (s *Session) Reset() {
	s.cancelTimer()
	s.epoch++
	s.draft = model.NewDraft()
	s.overrides = Overrides{}
	s.inflight = 0
	s.submitting = false
	s.advisory = ""
	s.err = nil
}

// Close ends the session: the pending timer is cancelled, in-flight
// requests see a cancelled context and their results are dropped.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancelTimer()
	s.cancel()
}

// SuggestNow requests a suggestion immediately instead of waiting for
// the debounce timer.
func (s *Session) SuggestNow() error {
	if s.closed {
		return ErrClosed
	}
	if strings.TrimSpace(s.draft.Description) == "" {
		return api.NewValidationError("Enter a description before classifying.", map[string][]string{
			"description": {"This field may not be blank."},
		})
	}
	s.cancelTimer()
	s.request()
	return nil
}

// Submit validates the draft and sends it. Blank titles or descriptions
// are rejected without a network call.
func (s *Session) Submit() error {
	if s.closed {
		return ErrClosed
	}
	if s.submitting {
		return ErrBusy
	}

	draft := s.draft
	fields := map[string][]string{}
	if strings.TrimSpace(draft.Title) == "" {
		fields["title"] = []string{"This field may not be blank."}
	}
	if strings.TrimSpace(draft.Description) == "" {
		fields["description"] = []string{"This field may not be blank."}
	}
	if len(fields) > 0 {
		s.err = api.NewValidationError(api.AdvisoryValidation, fields)
		return s.err
	}

	s.submitting = true
	s.err = nil

	ctx, submitter, dispatch, epoch := s.ctx, s.submitter, s.dispatch, s.epoch
	go func() {
		ticket, err := submitter.CreateTicket(ctx, draft)
		dispatch(submitResolved{epoch: epoch, ticket: ticket, err: err})
	}()
	return nil
}

// Handle applies an event delivered through Options.Dispatch.
func (s *Session) Handle(ev Event) Outcome {
	if s.closed {
		return Ignored
	}

	switch ev := ev.(type) {
	case debounceFired:
		if ev.gen != s.gen {
			return Ignored
		}
		s.timer = nil
		s.request()
		return Requested
	case suggestionResolved:
		return s.resolveSuggestion(ev)
	case submitResolved:
		return s.resolveSubmit(ev)
	}
	return Ignored
}

func (s *Session) qualifies() bool {
	if s.manual {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(s.draft.Description)) >= s.minLength
}

func (s *Session) arm() {
	s.gen++
	gen, dispatch := s.gen, s.dispatch
	s.timer = s.clock.AfterFunc(s.delay, func() {
		dispatch(debounceFired{gen: gen})
	})
}

func (s *Session) cancelTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Session) request() {
	s.requests++
	s.inflight++
	s.advisory = ""

	id, epoch, text := s.requests, s.epoch, s.draft.Description
	ctx, classifier, dispatch := s.ctx, s.classifier, s.dispatch
	s.log.Debug("requesting suggestion", zap.Uint64("request", id), zap.Int("length", len(text)))

	go func() {
		suggestion, err := classifier.Classify(ctx, text)
		dispatch(suggestionResolved{epoch: epoch, request: id, suggestion: suggestion, err: err})
	}()
}

func (s *Session) resolveSuggestion(ev suggestionResolved) Outcome {
	if ev.epoch != s.epoch {
		s.log.Debug("dropping suggestion for reset draft", zap.Uint64("request", ev.request))
		return Ignored
	}
	s.inflight--

	if ev.request < s.resolved {
		s.log.Debug("dropping superseded suggestion",
			zap.Uint64("request", ev.request),
			zap.Uint64("resolved", s.resolved),
		)
		return Ignored
	}
	s.resolved = ev.request

	if ev.err != nil {
		s.log.Warn("suggestion failed", zap.Uint64("request", ev.request), zap.Error(ev.err))
		s.advisory = api.AdvisoryClassifier
		return SuggestionFailed
	}

	if !s.overrides.Category && ev.suggestion.Category != "" {
		s.draft.Category = ev.suggestion.Category
	}
	if !s.overrides.Priority && ev.suggestion.Priority != "" {
		s.draft.Priority = ev.suggestion.Priority
	}
	s.log.Debug("applied suggestion",
		zap.Uint64("request", ev.request),
		zap.String("category", string(s.draft.Category)),
		zap.String("priority", string(s.draft.Priority)),
	)
	return Suggested
}

func (s *Session) resolveSubmit(ev submitResolved) Outcome {
	if ev.epoch != s.epoch {
		// The draft was cleared while the request was out. A created
		// ticket still needs the views refreshed.
		if ev.err != nil {
			return Ignored
		}
		s.notify(ev.ticket)
		return Submitted
	}

	s.submitting = false
	if ev.err != nil {
		s.log.Warn("submit failed", zap.Error(ev.err))
		s.err = ev.err
		return SubmitFailed
	}

	s.Reset()
	s.notify(ev.ticket)
	return Submitted
}

func (s *Session) notify(ticket *model.Ticket) {
	if s.onSubmitted != nil && ticket != nil {
		s.onSubmitted(*ticket)
	}
}
