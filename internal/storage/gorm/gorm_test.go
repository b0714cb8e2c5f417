package gormstore

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/igniteclubhq/pitchboard/internal/model"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	b := New(db)
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestReadPitchState_NoRow(t *testing.T) {
	b := newTestBackend(t)

	state, err := b.ReadPitchState()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestWriteRead_RoundTrip(t *testing.T) {
	b := newTestBackend(t)

	num := 4
	state := &model.PitchState{
		Players: []model.Player{
			{ID: "a", Name: "Alex", Number: &num, EligiblePositions: []string{"CM"}},
			{ID: "b", Name: "Bea"},
		},
		Plan: []model.SubstitutionEvent{
			{Half: 1, Time: 300, PlayerOutID: "a", PlayerInID: "b",
				PositionSwap: &model.PositionSwap{PlayerID: "c", FromPosition: "ST", ToPosition: "CM"}},
		},
		PlanActive: true,
		PlanPaused: true,
	}
	require.NoError(t, b.WritePitchState(state))

	got, err := b.ReadPitchState()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state.Players, got.Players)
	assert.Equal(t, state.Plan, got.Plan)
	assert.True(t, got.PlanActive)
	assert.True(t, got.PlanPaused)
}

func TestWritePitchState_Upserts(t *testing.T) {
	b := newTestBackend(t)

	require.NoError(t, b.WritePitchState(&model.PitchState{PlanActive: true}))
	require.NoError(t, b.WritePitchState(&model.PitchState{PlanActive: false}))

	got, err := b.ReadPitchState()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.PlanActive)
}

func TestReadPitchState_MalformedRowReadsAsAbsent(t *testing.T) {
	b := newTestBackend(t)

	row := snapshotRow{ID: 1, Players: []byte("{not json"), Plan: []byte("[]")}
	require.NoError(t, b.db.Save(&row).Error)

	state, err := b.ReadPitchState()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestSubscribe(t *testing.T) {
	b := newTestBackend(t)

	calls := 0
	unsubscribe := b.Subscribe(func() { calls++ })

	require.NoError(t, b.WritePitchState(&model.PitchState{}))
	assert.Equal(t, 1, calls)

	unsubscribe()
	require.NoError(t, b.WritePitchState(&model.PitchState{}))
	assert.Equal(t, 1, calls)
}

func TestRecordSubstitution(t *testing.T) {
	b := newTestBackend(t)

	require.NoError(t, b.RecordSubstitution(model.SubstitutionRecord{
		Half:         2,
		TimeSeconds:  310,
		PlayerOutID:  "a",
		PlayerInID:   "b",
		Action:       "executed",
		DelaySeconds: 42,
	}))

	var rows []substitutionRow
	require.NoError(t, b.db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Half)
	assert.Equal(t, "executed", rows[0].Action)
	assert.Equal(t, 42, rows[0].DelaySeconds)
}
