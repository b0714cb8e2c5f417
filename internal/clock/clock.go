// Package clock models the match timer the pitch board schedules
// against. The engine only ever sees read-only Snapshot values; Timer
// is the concrete local source used by the runner binary and tests.
package clock

import (
	"time"
)

// Snapshot is a read-only view of the match timer at some wall-clock
// instant.
type Snapshot struct {
	MinutesPerHalf int       `json:"minutesPerHalf"`
	CurrentHalf    int       `json:"currentHalf"`
	ElapsedSeconds int       `json:"elapsedSeconds"`
	IsRunning      bool      `json:"isRunning"`
	LastUpdate     time.Time `json:"lastUpdate"`
}

// TotalSeconds derives seconds since kickoff at the given wall-clock
// time, counting half 2 as offset by one half duration. While the
// timer runs, wall-clock time elapsed since LastUpdate is added on top
// of the recorded elapsed seconds.
func (s *Snapshot) TotalSeconds(now time.Time) int {
	elapsed := s.ElapsedSeconds
	if s.IsRunning {
		elapsed += int(now.Sub(s.LastUpdate).Seconds())
	}
	halfDur := s.MinutesPerHalf * 60
	if elapsed > halfDur {
		elapsed = halfDur
	}
	return (s.CurrentHalf-1)*halfDur + elapsed
}

// HalfDurationSeconds returns one half's duration in seconds.
func (s *Snapshot) HalfDurationSeconds() int {
	return s.MinutesPerHalf * 60
}

// Source provides the current match timer state. A nil snapshot with a
// nil error means no match clock exists yet.
type Source interface {
	ReadClock() (*Snapshot, error)
}
