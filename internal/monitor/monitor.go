// Package monitor is the live execution side of the pitch board: it
// polls the match clock and the shared pitch-state snapshot,
// classifies plan events as due or upcoming, and executes, skips or
// re-balances substitutions as the game actually unfolds.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/igniteclubhq/pitchboard/internal/clock"
	"github.com/igniteclubhq/pitchboard/internal/model"
	"github.com/igniteclubhq/pitchboard/internal/notify"
	"github.com/igniteclubhq/pitchboard/internal/plan"
	"github.com/igniteclubhq/pitchboard/internal/storage"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Telemetry is an optional sink for match telemetry points.
type Telemetry interface {
	RecordSubstitution(action string, delaySeconds int)
	RecordFairness(spreadMinutes float64)
}

// Dependencies holds all dependencies for the monitor service.
type Dependencies struct {
	Store          storage.Backend
	Clock          clock.Source
	Notifier       notify.Notifier
	Logger         *slog.Logger
	Telemetry      Telemetry // optional
	PollInterval   time.Duration
	SnoozeDuration time.Duration
}

// PendingEvent is the classification result surfaced to the operator:
// either the first due event or the earliest upcoming one.
type PendingEvent struct {
	Index            int
	Event            model.SubstitutionEvent
	Due              bool
	CountdownSeconds int
}

// Service watches the running match and drives plan execution.
type Service struct {
	deps Dependencies

	mu          sync.RWMutex
	isRunning   bool
	stopChan    chan struct{}
	pokeChan    chan struct{}
	snoozeUntil time.Time
	pending     *PendingEvent

	// now is swappable for tests.
	now func() time.Time

	executed metric.Int64Counter
	skipped  metric.Int64Counter
}

// NewService creates a new monitor service.
func NewService(deps Dependencies) (*Service, error) {
	if deps.PollInterval <= 0 {
		deps.PollInterval = 2 * time.Second
	}
	if deps.SnoozeDuration <= 0 {
		deps.SnoozeDuration = 2 * time.Minute
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	s := &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
		pokeChan: make(chan struct{}, 1),
		now:      time.Now,
	}

	m := meter()
	var err error
	s.executed, err = m.Int64Counter(
		"pitchboard.substitutions.executed",
		metric.WithDescription("Substitutions executed against the live pitch"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating executed counter: %w", err)
	}
	s.skipped, err = m.Int64Counter(
		"pitchboard.substitutions.skipped",
		metric.WithDescription("Plan events skipped without a position change"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating skipped counter: %w", err)
	}
	return s, nil
}

// IsRunning returns whether the poll loop is active.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Pending returns the most recent classification, or nil when nothing
// is pending.
func (s *Service) Pending() *PendingEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pending == nil {
		return nil
	}
	p := *s.pending
	return &p
}

// Poke asks the loop to re-evaluate immediately. Wired to store and
// clock change notifications.
func (s *Service) Poke() {
	select {
	case s.pokeChan <- struct{}{}:
	default:
	}
}

// Start runs the poll loop until Stop.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	unsubscribe := s.deps.Store.Subscribe(s.Poke)

	go func() {
		defer func() {
			unsubscribe()
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		s.deps.Logger.Debug("Starting pitch monitor loop", "interval", s.deps.PollInterval)
		ticker := time.NewTicker(s.deps.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
			case <-s.pokeChan:
			}
			s.Poll()
		}
	}()

	return nil
}

// Stop stops the poll loop. Safe to call more than once; the flag is
// cleared here rather than in the goroutine's defer so a second Stop
// cannot close stopChan again.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		s.isRunning = false
		close(s.stopChan)
	}
}

// Poll classifies the plan against the current clock reading, caches
// and returns the result. Absent clock or state, an inactive or paused
// plan, and an active snooze all classify as nothing pending.
func (s *Service) Poll() *PendingEvent {
	pending := s.classify()

	s.mu.Lock()
	s.pending = pending
	s.mu.Unlock()
	return pending
}

func (s *Service) classify() *PendingEvent {
	s.mu.RLock()
	snoozed := s.now().Before(s.snoozeUntil)
	s.mu.RUnlock()
	if snoozed {
		return nil
	}

	snap, err := s.deps.Clock.ReadClock()
	if err != nil || snap == nil {
		return nil
	}
	state, err := s.deps.Store.ReadPitchState()
	if err != nil || state == nil || !state.PlanActive || state.PlanPaused {
		return nil
	}

	currentTotal := snap.TotalSeconds(s.now())
	halfDur := snap.HalfDurationSeconds()

	// First due event wins outright; otherwise the earliest upcoming.
	// Scanned independently because a manual reorder may leave list
	// order diverging from timestamp order.
	var upcoming *PendingEvent
	for i := range state.Plan {
		e := state.Plan[i]
		if e.Executed {
			continue
		}
		at := e.TotalSeconds(halfDur)
		if at <= currentTotal {
			return &PendingEvent{Index: i, Event: e, Due: true}
		}
		if upcoming == nil || at < upcoming.Event.TotalSeconds(halfDur) {
			upcoming = &PendingEvent{Index: i, Event: e, CountdownSeconds: at - currentTotal}
		}
	}
	return upcoming
}

// Snooze suppresses surfacing any pending event for the configured
// duration (or d, when positive). Plan state is never touched.
func (s *Service) Snooze(d time.Duration) {
	if d <= 0 {
		d = s.deps.SnoozeDuration
	}
	s.mu.Lock()
	s.snoozeUntil = s.now().Add(d)
	s.pending = nil
	s.mu.Unlock()
	s.deps.Logger.Info("Substitution prompts snoozed", "duration", d)
}

// Accept executes the plan event at index against the live pitch. The
// snapshot is re-read and validated first: the out-player must be on
// the field and the in-player on the bench. Any other combination
// marks the event executed as a no-op skip, because forcing an invalid
// swap would silently corrupt minute fairness for the rest of the
// match, while a no-op is always safe to explain and retry manually.
func (s *Service) Accept(index int) error {
	snap, err := s.deps.Clock.ReadClock()
	if err != nil || snap == nil {
		return fmt.Errorf("monitor: no match clock")
	}
	state, err := s.deps.Store.ReadPitchState()
	if err != nil || state == nil {
		return fmt.Errorf("monitor: no pitch state")
	}
	if index < 0 || index >= len(state.Plan) {
		return fmt.Errorf("monitor: event index %d out of range", index)
	}
	ev := &state.Plan[index]
	if ev.Executed {
		return fmt.Errorf("monitor: event already executed")
	}

	currentTotal := snap.TotalSeconds(s.now())
	halfDur := snap.HalfDurationSeconds()
	delay := currentTotal - ev.TotalSeconds(halfDur)

	out := model.FindPlayer(state.Players, ev.PlayerOutID)
	in := model.FindPlayer(state.Players, ev.PlayerInID)
	if out == nil || in == nil || !out.OnField() || in.OnField() {
		// Inconsistent pitch state: resolve as a no-op skip.
		ev.Executed = true
		if err := s.deps.Store.WritePitchState(state); err != nil {
			return fmt.Errorf("monitor: writing pitch state: %w", err)
		}
		s.skipped.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("reason", "inconsistent")))
		s.audit(ev, "inconsistent", delay)
		s.notify(notify.KindError, fmt.Sprintf(
			"Substitution skipped: pitch state no longer matches (%s off, %s on)",
			ev.PlayerOutID, ev.PlayerInID))
		s.Poll()
		return nil
	}

	s.applySwap(state, ev, out, in)
	ev.Executed = true

	if delay > plan.RebalanceDelaySeconds {
		state.Plan = plan.Rebalance(state.Plan, currentTotal, halfDur)
	}

	if err := s.deps.Store.WritePitchState(state); err != nil {
		return fmt.Errorf("monitor: writing pitch state: %w", err)
	}

	s.executed.Add(context.Background(), 1)
	s.audit(ev, "executed", delay)
	s.recordFairness(state, snap)
	if s.deps.Telemetry != nil {
		s.deps.Telemetry.RecordSubstitution("executed", delay)
	}
	s.notify(notify.KindSuccess, fmt.Sprintf(
		"Substitution made: %s on for %s", in.Name, out.Name))
	s.Poll()
	return nil
}

// Skip marks the event executed without touching any positions, and
// re-balances the rest of the schedule, since skipping perturbs the
// remaining plan's fairness just like a late accept.
func (s *Service) Skip(index int) error {
	snap, err := s.deps.Clock.ReadClock()
	if err != nil || snap == nil {
		return fmt.Errorf("monitor: no match clock")
	}
	state, err := s.deps.Store.ReadPitchState()
	if err != nil || state == nil {
		return fmt.Errorf("monitor: no pitch state")
	}
	if index < 0 || index >= len(state.Plan) {
		return fmt.Errorf("monitor: event index %d out of range", index)
	}
	ev := &state.Plan[index]
	if ev.Executed {
		return fmt.Errorf("monitor: event already executed")
	}

	currentTotal := snap.TotalSeconds(s.now())
	halfDur := snap.HalfDurationSeconds()
	delay := currentTotal - ev.TotalSeconds(halfDur)

	ev.Executed = true
	rec := *ev
	state.Plan = plan.Rebalance(state.Plan, currentTotal, halfDur)

	if err := s.deps.Store.WritePitchState(state); err != nil {
		return fmt.Errorf("monitor: writing pitch state: %w", err)
	}

	s.skipped.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("reason", "operator")))
	s.audit(&rec, "skipped", delay)
	if s.deps.Telemetry != nil {
		s.deps.Telemetry.RecordSubstitution("skipped", delay)
	}
	s.notify(notify.KindInfo, fmt.Sprintf(
		"Substitution skipped: %s stays on for now", rec.PlayerOutID))
	s.Poll()
	return nil
}

// applySwap moves the in-player onto the field and the out-player to
// the bench, carrying any position-swap passenger along.
func (s *Service) applySwap(state *model.PitchState, ev *model.SubstitutionEvent, out, in *model.Player) {
	vacatedPos := out.FieldPos
	vacatedLabel := out.PitchPosition

	swapped := false
	if ev.PositionSwap != nil {
		if passenger := model.FindPlayer(state.Players, ev.PositionSwap.PlayerID); passenger != nil && passenger.OnField() {
			in.FieldPos = passenger.FieldPos
			in.PitchPosition = passenger.PitchPosition
			passenger.FieldPos = vacatedPos
			passenger.PitchPosition = vacatedLabel
			swapped = true
		}
	}
	if !swapped {
		in.FieldPos = vacatedPos
		in.PitchPosition = vacatedLabel
	}
	out.FieldPos = nil
	out.PitchPosition = ""
}

func (s *Service) audit(ev *model.SubstitutionEvent, action string, delay int) {
	auditor, ok := s.deps.Store.(storage.Auditor)
	if !ok {
		return
	}
	err := auditor.RecordSubstitution(model.SubstitutionRecord{
		Half:         ev.Half,
		TimeSeconds:  ev.Time,
		PlayerOutID:  ev.PlayerOutID,
		PlayerInID:   ev.PlayerInID,
		Action:       action,
		DelaySeconds: delay,
	})
	if err != nil {
		s.deps.Logger.Error("Failed to record substitution audit", "error", err)
	}
}

// recordFairness publishes the projected minute spread after an
// executed substitution.
func (s *Service) recordFairness(state *model.PitchState, snap *clock.Snapshot) {
	if s.deps.Telemetry == nil || len(state.Players) == 0 {
		return
	}
	forecast := plan.Forecast(state.Players, state.Plan, snap.MinutesPerHalf)
	if len(forecast) == 0 {
		return
	}
	spread := forecast[0].PredictedMinutes - forecast[len(forecast)-1].PredictedMinutes
	s.deps.Telemetry.RecordFairness(spread)
}

func (s *Service) notify(kind notify.Kind, detail string) {
	if s.deps.Notifier != nil {
		s.deps.Notifier.Notify(kind, detail)
	}
}
