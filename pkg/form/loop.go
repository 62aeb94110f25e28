package form

import "context"

// Loop is a channel-backed owner loop for sessions driven outside a UI
// framework, such as one-shot commands.
type Loop struct {
	events chan Event
}

func NewLoop() *Loop {
	return &Loop{events: make(chan Event, 64)}
}

// Dispatch queues an event. Pass it as Options.Dispatch.
func (l *Loop) Dispatch(ev Event) {
	l.events <- ev
}

// Next waits for the next queued event.
func (l *Loop) Next(ctx context.Context) (Event, error) {
	select {
	case ev := <-l.events:
		return ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RunUntilIdle feeds events to s until it no longer waits on a timer or a
// request. It returns the outcome of the last handled event.
func (l *Loop) RunUntilIdle(ctx context.Context, s *Session) (Outcome, error) {
	last := Ignored
	for s.Busy() {
		ev, err := l.Next(ctx)
		if err != nil {
			return last, err
		}
		if outcome := s.Handle(ev); outcome != Ignored {
			last = outcome
		}
	}
	return last, nil
}
