package events

import "time"

// Event is one fact appended to a line or order stream. The store assigns
// Version, counting from 1 within the stream.
type Event struct {
	Type    string
	Stream  string
	Payload any
	At      time.Time
	Version int
}

// Handler reacts to the event types it accepts
type Handler interface {
	Accepts(eventType string) bool
	Handle(event Event) error
}

// Publisher is the write side of an event log
type Publisher interface {
	Append(event Event) error
}
