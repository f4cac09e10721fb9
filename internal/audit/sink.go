// Package audit delivers best-effort governance events to the log. Delivery is
// detached from the caller: a full buffer drops the event rather than delaying
// or failing the primary operation.
package audit

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event records one governance action against a configuration.
type Event struct {
	Domain string
	Scope  string
	Action string
	Actor  string
	Detail string
	At     time.Time
}

// Sink consumes events on a background goroutine.
type Sink struct {
	events chan Event
	log    *zap.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewSink starts a sink draining into the given logger
func NewSink(bufferSize int, log *zap.Logger) *Sink {
	if bufferSize < 1 {
		bufferSize = 1
	}
	s := &Sink{
		events: make(chan Event, bufferSize),
		log:    log,
		done:   make(chan struct{}),
	}
	go s.drain()
	return s
}

// Notify hands an event to the sink without blocking. Events are dropped when
// the buffer is full; the drop is logged internally and never surfaces to the
// caller.
func (s *Sink) Notify(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	select {
	case s.events <- e:
	default:
		s.log.Warn("audit event dropped, buffer full",
			zap.String("domain", e.Domain),
			zap.String("action", e.Action))
	}
}

// Close stops the sink after draining buffered events
func (s *Sink) Close() {
	s.closeOnce.Do(func() {
		close(s.events)
		<-s.done
	})
}

func (s *Sink) drain() {
	defer close(s.done)
	for e := range s.events {
		s.log.Info("audit",
			zap.String("domain", e.Domain),
			zap.String("scope", e.Scope),
			zap.String("action", e.Action),
			zap.String("actor", e.Actor),
			zap.String("detail", e.Detail),
			zap.Time("at", e.At))
	}
}
