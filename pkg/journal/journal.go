// Package journal carries progress messages from the ingestion engine to
// the user. Sinks receive entries in emission order and never influence
// control flow.
package journal

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Entry is a single progress message. Entries are append-only and owned
// by whoever collects them, not by the emitter.
type Entry struct {
	ID       string    `json:"id"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	Time     time.Time `json:"time"`
}

// Sink receives progress messages. Log is fire-and-forget: implementations
// must not block the caller and must preserve emission order.
type Sink interface {
	Log(message string, severity Severity)
}

func newEntry(message string, severity Severity) Entry {
	return Entry{
		ID:       uuid.New().String(),
		Message:  message,
		Severity: severity,
		Time:     time.Now(),
	}
}

// Discard is a Sink that drops every entry.
type Discard struct{}

func (Discard) Log(string, Severity) {}

// Memory is a Sink that collects entries in order, for inspection in tests
// and by callers that render the log themselves.
type Memory struct {
	Entries []Entry
}

func (m *Memory) Log(message string, severity Severity) {
	m.Entries = append(m.Entries, newEntry(message, severity))
}

// BySeverity returns the collected entries matching the given severity,
// preserving order.
func (m *Memory) BySeverity(severity Severity) []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Severity == severity {
			out = append(out, e)
		}
	}
	return out
}

// Multi fans every entry out to each sink in order.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

type multi []Sink

func (m multi) Log(message string, severity Severity) {
	for _, s := range m {
		s.Log(message, severity)
	}
}
