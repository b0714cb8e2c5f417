// Package dispatcher routes operator actions from the UI boundary
// (pitch board dialogs, command prompt) to their registered handlers.
package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Well-known operator actions.
const (
	ActionAccept     = "sub:accept"
	ActionSkip       = "sub:skip"
	ActionSnooze     = "sub:snooze"
	ActionRegenerate = "plan:regenerate"
	ActionPause      = "plan:pause"
	ActionResume     = "plan:resume"
)

// Action is one incoming operator command.
type Action struct {
	Name      string
	Args      []string
	Timestamp time.Time
}

// HandlerFunc processes an action and returns a result.
type HandlerFunc func(Action) (any, error)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	bufferSize int
	logged     bool
}

// Buffered makes the handler async with a queue of the given size.
// Overflow drops the action and counts it.
func Buffered(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// Logged adds debug logging around the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Dispatcher routes operator actions to registered handlers.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger

	processed metric.Int64Counter
	dropped   metric.Int64Counter

	mu      sync.RWMutex
	buffers map[string]chan Action
}

// New creates a new Dispatcher with the given logger. Uses the global
// OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		buffers:  make(map[string]chan Action),
		logger:   logger,
	}

	m := meter()
	var err error

	d.processed, err = m.Int64Counter(
		"pitchboard.actions.processed",
		metric.WithDescription("Total operator actions processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.dropped, err = m.Int64Counter(
		"pitchboard.actions.dropped",
		metric.WithDescription("Operator actions dropped due to a full queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	return d, nil
}

// Register adds a handler for the given action with optional
// configuration.
func (d *Dispatcher) Register(action string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h
	if cfg.bufferSize > 0 {
		handler = d.withBuffer(action, cfg.bufferSize, handler)
	}
	if cfg.logged {
		handler = d.withLogging(action, handler)
	}

	d.handlers[action] = handler
}

// Dispatch routes an action to its registered handler.
func (d *Dispatcher) Dispatch(a Action) (any, error) {
	h, ok := d.handlers[a.Name]
	if !ok {
		return nil, fmt.Errorf("unknown action: %s", a.Name)
	}
	return h(a)
}

// HasHandler returns true if a handler is registered for the action.
func (d *Dispatcher) HasHandler(action string) bool {
	_, ok := d.handlers[action]
	return ok
}

func (d *Dispatcher) withBuffer(action string, size int, h HandlerFunc) HandlerFunc {
	buffer := make(chan Action, size)

	d.mu.Lock()
	d.buffers[action] = buffer
	d.mu.Unlock()

	attr := attribute.String("action", action)

	go func() {
		for a := range buffer {
			h(a)
			d.processed.Add(context.Background(), 1, metric.WithAttributes(attr))
		}
	}()

	return func(a Action) (any, error) {
		select {
		case buffer <- a:
			return "queued", nil
		default:
			d.dropped.Add(context.Background(), 1, metric.WithAttributes(attr))
			return nil, fmt.Errorf("queue full: %s", action)
		}
	}
}

func (d *Dispatcher) withLogging(action string, h HandlerFunc) HandlerFunc {
	return func(a Action) (any, error) {
		start := time.Now()
		d.logger.Debug("handling action", "action", action, "args", len(a.Args))

		result, err := h(a)

		if err != nil {
			d.logger.Error("action failed", "action", action, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("action complete", "action", action, "duration", time.Since(start))
		}

		return result, err
	}
}
