// internal/storage/memory/memory_test.go
package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igniteclubhq/pitchboard/internal/model"
)

func TestReadPitchState_Empty(t *testing.T) {
	b := New()
	require.NoError(t, b.Init())

	state, err := b.ReadPitchState()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestWriteRead_RoundTrip(t *testing.T) {
	b := New()
	state := &model.PitchState{
		Players:    []model.Player{{ID: "a", Name: "Alex"}},
		Plan:       []model.SubstitutionEvent{{Half: 1, Time: 300, PlayerOutID: "a", PlayerInID: "b"}},
		PlanActive: true,
	}
	require.NoError(t, b.WritePitchState(state))

	got, err := b.ReadPitchState()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state.Players, got.Players)
	assert.Equal(t, state.Plan, got.Plan)
	assert.True(t, got.PlanActive)
}

func TestWritePitchState_Isolation(t *testing.T) {
	b := New()
	state := &model.PitchState{
		Players: []model.Player{{ID: "a"}},
	}
	require.NoError(t, b.WritePitchState(state))

	// Mutating the written value or a read copy must not leak into the
	// stored snapshot.
	state.Players[0].ID = "mutated"
	first, err := b.ReadPitchState()
	require.NoError(t, err)
	assert.Equal(t, "a", first.Players[0].ID)

	first.Players[0].ID = "also-mutated"
	second, err := b.ReadPitchState()
	require.NoError(t, err)
	assert.Equal(t, "a", second.Players[0].ID)
}

func TestSubscribe(t *testing.T) {
	b := New()
	calls := 0
	unsubscribe := b.Subscribe(func() { calls++ })

	require.NoError(t, b.WritePitchState(&model.PitchState{}))
	assert.Equal(t, 1, calls)

	require.NoError(t, b.WritePitchState(&model.PitchState{}))
	assert.Equal(t, 2, calls)

	unsubscribe()
	require.NoError(t, b.WritePitchState(&model.PitchState{}))
	assert.Equal(t, 2, calls)
}

func TestSubscribe_MayReadBack(t *testing.T) {
	b := New()
	var seen *model.PitchState
	b.Subscribe(func() {
		state, err := b.ReadPitchState()
		require.NoError(t, err)
		seen = state
	})

	require.NoError(t, b.WritePitchState(&model.PitchState{PlanActive: true}))
	require.NotNil(t, seen)
	assert.True(t, seen.PlanActive)
}
