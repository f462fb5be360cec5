// Package notify delivers board alerts (failed transitions, broken
// fetches) to chat platforms.
package notify

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/avelar/pitlane/internal/pipeline"
)

// Severity classifies an event for display (color hints, filtering).
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event is a board alert formatted for delivery.
type Event struct {
	Title    string
	Body     string
	Severity Severity
	OrderID  string
	Stage    pipeline.Stage
}

// Notifier delivers events to one destination.
type Notifier interface {
	Send(ctx context.Context, evt Event) error
	Close() error
}

// TransitionFailed builds the alert for a rolled-back stage change.
func TransitionFailed(orderID string, from, to pipeline.Stage, cause error) Event {
	return Event{
		Title:    fmt.Sprintf("Failed to update order %s", orderID),
		Body:     fmt.Sprintf("Move %s → %s was rolled back: %v", pipeline.Label(from), pipeline.Label(to), cause),
		Severity: SeverityError,
		OrderID:  orderID,
		Stage:    from,
	}
}

// FetchFailed builds the alert for a failed board refresh.
func FetchFailed(orgID string, cause error) Event {
	return Event{
		Title:    fmt.Sprintf("Board refresh failed for %s", orgID),
		Body:     fmt.Sprintf("Keeping the last good board: %v", cause),
		Severity: SeverityWarning,
	}
}

// Multi fans an event out to several notifiers. Send keeps going on
// failure and returns the first error.
type Multi struct {
	notifiers []Notifier
}

// NewMulti builds a fan-out notifier. Nil entries are skipped.
func NewMulti(notifiers ...Notifier) *Multi {
	m := &Multi{}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

// Send delivers to every destination.
func (m *Multi) Send(ctx context.Context, evt Event) error {
	var first error
	for _, n := range m.notifiers {
		if err := n.Send(ctx, evt); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes every destination.
func (m *Multi) Close() error {
	var first error
	for _, n := range m.notifiers {
		if err := n.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Log writes events to a writer. It is the fallback destination when no
// chat adapter is configured.
type Log struct {
	logger *log.Logger
}

// NewLog returns a writer-backed notifier.
func NewLog(w io.Writer) *Log {
	return &Log{logger: log.New(w, "", log.LstdFlags)}
}

// Send writes one line per event.
func (l *Log) Send(ctx context.Context, evt Event) error {
	l.logger.Printf("[%s] %s: %s", evt.Severity, evt.Title, evt.Body)
	return nil
}

// Close is a no-op.
func (l *Log) Close() error { return nil }
