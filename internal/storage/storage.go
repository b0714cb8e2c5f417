// internal/storage/storage.go
package storage

import "github.com/igniteclubhq/pitchboard/internal/model"

// Backend is the shared pitch-state store every surface reads before
// deciding an action and writes after executing one. ReadPitchState
// returns (nil, nil) when no snapshot has been written yet; callers
// treat that as "no active plan".
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Snapshot access
	ReadPitchState() (*model.PitchState, error)
	WritePitchState(*model.PitchState) error

	// Subscribe registers a callback fired after every write, so
	// pollers re-evaluate immediately on out-of-band changes. It
	// returns an unsubscribe function.
	Subscribe(fn func()) (unsubscribe func())
}

// Auditor is an optional interface for backends that keep an
// append-only record of what the monitor did to each plan event.
type Auditor interface {
	RecordSubstitution(rec model.SubstitutionRecord) error
}
