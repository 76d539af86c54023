package events

import (
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"go.uber.org/multierr"
)

// Store keeps every stream in memory and hands each appended event to the
// subscribed handlers synchronously, in subscription order, after the append is visible.
type Store struct {
	mu       sync.RWMutex
	streams  map[string][]Event
	handlers map[string][]Handler
	logger   logr.Logger
}

func NewStore(logger logr.Logger) *Store {
	return &Store{
		streams:  make(map[string][]Event),
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

var _ Publisher = (*Store)(nil)

// Append versions the event within its stream and dispatches it.
// Handler failures are logged and returned together; the event stays appended.
func (s *Store) Append(event Event) error {
	if event.Stream == "" {
		return fmt.Errorf("event %s has no stream", event.Type)
	}

	s.mu.Lock()
	event.Version = len(s.streams[event.Stream]) + 1
	s.streams[event.Stream] = append(s.streams[event.Stream], event)
	handlers := append([]Handler(nil), s.handlers[event.Type]...)
	s.mu.Unlock()

	var errs error
	for _, handler := range handlers {
		if !handler.Accepts(event.Type) {
			continue
		}
		if err := handler.Handle(event); err != nil {
			s.logger.Error(err, "Event handler failed", "type", event.Type, "stream", event.Stream)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// Subscribe registers handler for each of the event types
func (s *Store) Subscribe(handler Handler, eventTypes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, eventType := range eventTypes {
		s.handlers[eventType] = append(s.handlers[eventType], handler)
	}
}

// Stream returns a copy of the stream's events in version order
func (s *Store) Stream(streamID string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Event(nil), s.streams[streamID]...)
}
