// Package gormstore persists the pitch-state snapshot through GORM so
// several operator surfaces can share one match. The snapshot lives in
// a single row with JSON columns; every monitor action also lands in an
// append-only audit table.
package gormstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/igniteclubhq/pitchboard/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// snapshotRow is the single persisted pitch-state row.
type snapshotRow struct {
	ID         uint           `gorm:"primarykey"`
	Players    datatypes.JSON `json:"players"`
	Plan       datatypes.JSON `json:"plan"`
	PlanActive bool           `json:"planActive"`
	PlanPaused bool           `json:"planPaused"`
	UpdatedAt  time.Time
}

func (*snapshotRow) TableName() string {
	return "pitch_snapshots"
}

// substitutionRow is one audit entry.
type substitutionRow struct {
	ID           uint `gorm:"primarykey"`
	CreatedAt    time.Time
	Half         int    `json:"half"`
	TimeSeconds  int    `json:"timeSeconds"`
	PlayerOutID  string `json:"playerOut" gorm:"size:127"`
	PlayerInID   string `json:"playerIn" gorm:"size:127"`
	Action       string `json:"action" gorm:"size:31"`
	DelaySeconds int    `json:"delaySeconds"`
}

func (*substitutionRow) TableName() string {
	return "substitution_audit"
}

// Backend implements the pitch-state store over a GORM connection
// (SQLite or Postgres).
type Backend struct {
	db *gorm.DB

	mu      sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New creates a new GORM storage backend over an open connection.
func New(db *gorm.DB) *Backend {
	return &Backend{
		db:   db,
		subs: make(map[int]func()),
	}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(&snapshotRow{}, &substitutionRow{}); err != nil {
		return fmt.Errorf("migrating pitch store schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ReadPitchState loads and decodes the snapshot row. A missing row or
// a row that fails to decode reads as (nil, nil): malformed persisted
// state surfaces as "no active plan" rather than an error the
// scheduler would have to interpret.
func (b *Backend) ReadPitchState() (*model.PitchState, error) {
	var row snapshotRow
	err := b.db.First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading pitch snapshot: %w", err)
	}

	state := &model.PitchState{
		PlanActive: row.PlanActive,
		PlanPaused: row.PlanPaused,
	}
	if err := json.Unmarshal(row.Players, &state.Players); err != nil {
		return nil, nil
	}
	if len(row.Plan) > 0 {
		if err := json.Unmarshal(row.Plan, &state.Plan); err != nil {
			return nil, nil
		}
	}
	return state, nil
}

// WritePitchState encodes and upserts the snapshot row, then notifies
// subscribers.
func (b *Backend) WritePitchState(state *model.PitchState) error {
	players, err := json.Marshal(state.Players)
	if err != nil {
		return fmt.Errorf("encoding players: %w", err)
	}
	planJSON, err := json.Marshal(state.Plan)
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}

	row := snapshotRow{
		ID:         1,
		Players:    players,
		Plan:       planJSON,
		PlanActive: state.PlanActive,
		PlanPaused: state.PlanPaused,
	}
	if err := b.db.Save(&row).Error; err != nil {
		return fmt.Errorf("writing pitch snapshot: %w", err)
	}

	b.mu.Lock()
	subs := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
	return nil
}

// Subscribe registers a change callback and returns an unsubscribe
// function. Only writes through this backend fire the callback;
// cross-process invalidation is the deployment's concern.
func (b *Backend) Subscribe(fn func()) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// RecordSubstitution appends one audit row.
func (b *Backend) RecordSubstitution(rec model.SubstitutionRecord) error {
	row := substitutionRow{
		Half:         rec.Half,
		TimeSeconds:  rec.TimeSeconds,
		PlayerOutID:  rec.PlayerOutID,
		PlayerInID:   rec.PlayerInID,
		Action:       rec.Action,
		DelaySeconds: rec.DelaySeconds,
	}
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("recording substitution: %w", err)
	}
	return nil
}
