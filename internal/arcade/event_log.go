package arcade

import (
	"fmt"
	"strings"
)

// Event categories and keys recorded by a session.
const (
	CatSession = "session"
	CatSpawn   = "spawn"
	CatScore   = "score"
	CatItem    = "item"
	CatClock   = "clock"
	CatKite    = "kite"

	KeyStart   = "start"
	KeyEnd     = "end"
	KeyGood    = "good"
	KeyCloud   = "cloud"
	KeyDecor   = "decor"
	KeyCatch   = "catch"
	KeyPenalty = "penalty"
	KeyExpire  = "expire"
	KeyTick    = "tick"
	KeyBadge   = "badge"
	KeyMove    = "position"
)

// Event is one recorded transition.
type Event struct {
	Frame    int
	Clock    float64 // sim seconds since Start
	Category string
	Key      string
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the event as a fixed-width log line.
//
//	[F=0044  0.70s] spawn    good       hat x=212.4
func (e Event) String() string {
	return fmt.Sprintf("[F=%04d %5.2fs] %-8s %-10s %s",
		e.Frame, e.Clock, e.Category, e.Key, e.Value)
}

// EventLog collects a session's transitions. It is cleared on Start, so it
// only ever holds one session.
type EventLog struct {
	events  []Event
	verbose bool
}

// NewEventLog creates an EventLog. Verbose logs also record the kite position
// every frame.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

// Add records a new event.
func (l *EventLog) Add(frame int, clock float64, category, key, value string, numVal float64) {
	l.events = append(l.events, Event{
		Frame:    frame,
		Clock:    clock,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an event only when verbose mode is on.
func (l *EventLog) AddVerbose(frame int, clock float64, category, key, value string, numVal float64) {
	if !l.verbose {
		return
	}
	l.Add(frame, clock, category, key, value, numVal)
}

// Reset drops all events.
func (l *EventLog) Reset() {
	l.events = l.events[:0]
}

// Events returns all recorded events.
func (l *EventLog) Events() []Event {
	return l.events
}

// Filter returns events matching category and/or key. Empty matches anything.
func (l *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range l.events {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many events match category and key.
func (l *EventLog) Count(category, key string) int {
	n := 0
	for _, e := range l.events {
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			n++
		}
	}
	return n
}

// FirstOf returns the earliest event matching category+key, or false if none.
func (l *EventLog) FirstOf(category, key string) (Event, bool) {
	for _, e := range l.events {
		if e.Category == category && e.Key == key {
			return e, true
		}
	}
	return Event{}, false
}

// LastOf returns the most recent event matching category+key, or false if none.
func (l *EventLog) LastOf(category, key string) (Event, bool) {
	for i := len(l.events) - 1; i >= 0; i-- {
		e := l.events[i]
		if e.Category == category && e.Key == key {
			return e, true
		}
	}
	return Event{}, false
}

// HasEvent returns true if at least one event matches category, key, and value substring.
func (l *EventLog) HasEvent(category, key, valueSubstr string) bool {
	for _, e := range l.events {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (l *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range l.events {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
