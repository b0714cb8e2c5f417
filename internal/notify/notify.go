// Package notify delivers operator-facing confirmations after monitor
// actions. Nothing in the engine depends on a notification's outcome;
// delivery is purely informational.
package notify

import (
	"log/slog"
	"time"

	"github.com/igniteclubhq/pitchboard/internal/queue"
)

// Kind classifies a notification banner.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

// Notification is one operator toast. Timestamp records when the
// action happened, since a UI surface may drain much later.
type Notification struct {
	Kind      Kind      `json:"kind"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier receives operator-facing confirmations.
type Notifier interface {
	Notify(kind Kind, detail string)
}

// SlogNotifier logs notifications; used for headless runs and tests.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier wraps a logger as a Notifier.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *SlogNotifier) Notify(kind Kind, detail string) {
	switch kind {
	case KindError:
		n.logger.Error(detail, "kind", string(kind))
	default:
		n.logger.Info(detail, "kind", string(kind))
	}
}

// QueueNotifier buffers notifications for a UI surface to drain.
type QueueNotifier struct {
	q *queue.Queue[Notification]
}

// NewQueueNotifier creates an empty buffered notifier.
func NewQueueNotifier() *QueueNotifier {
	return &QueueNotifier{q: queue.New[Notification]()}
}

// Notify implements Notifier.
func (n *QueueNotifier) Notify(kind Kind, detail string) {
	n.q.Push(Notification{Kind: kind, Detail: detail, Timestamp: time.Now()})
}

// Drain returns all pending notifications, oldest first.
func (n *QueueNotifier) Drain() []Notification {
	return n.q.Drain()
}

// Pending returns the number of undelivered notifications.
func (n *QueueNotifier) Pending() int {
	return n.q.Len()
}
