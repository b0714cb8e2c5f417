package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igniteclubhq/pitchboard/internal/model"
)

func TestLayout(t *testing.T) {
	for _, size := range []int{5, 7, 9, 11} {
		slots, err := Layout(size)
		require.NoError(t, err, "team size %d", size)
		require.Len(t, slots, size)
		assert.Equal(t, model.PositionGoalkeeper, slots[0].Position)

		seen := map[string]bool{}
		for _, s := range slots {
			assert.False(t, seen[s.Position], "duplicate position %s", s.Position)
			seen[s.Position] = true
			assert.GreaterOrEqual(t, s.Coord.X, 0.0)
			assert.LessOrEqual(t, s.Coord.X, 1.0)
			assert.GreaterOrEqual(t, s.Coord.Y, 0.0)
			assert.LessOrEqual(t, s.Coord.Y, 1.0)
		}
	}

	_, err := Layout(6)
	assert.Error(t, err)
}

func TestPlaceFormation(t *testing.T) {
	players := []model.Player{
		{ID: "gk", EligiblePositions: []string{model.PositionGoalkeeper}},
		{ID: "p1"}, {ID: "p2"}, {ID: "p3"}, {ID: "p4"}, {ID: "p5"}, {ID: "p6"},
		{ID: "sub1"}, {ID: "sub2"},
	}
	require.NoError(t, PlaceFormation(players, 7))

	assert.Equal(t, 7, model.CountOnField(players))

	keeper := model.FindPlayer(players, "gk")
	assert.Equal(t, model.PositionGoalkeeper, keeper.PitchPosition)
	assert.True(t, keeper.OnField())

	// Two flexible players remain on the bench.
	benched := 0
	for i := range players {
		if !players[i].OnField() {
			assert.Empty(t, players[i].PitchPosition)
			benched++
		}
	}
	assert.Equal(t, 2, benched)
}

func TestPlaceFormation_RestrictedFirst(t *testing.T) {
	players := []model.Player{
		{ID: "flex"},
		{ID: "striker", EligiblePositions: []string{"ST"}},
		{ID: "p1"}, {ID: "p2"}, {ID: "p3"}, {ID: "p4"}, {ID: "p5"},
	}
	require.NoError(t, PlaceFormation(players, 7))

	// The striker-only player lands in the striker slot even though a
	// flexible player was listed first.
	assert.Equal(t, "ST", model.FindPlayer(players, "striker").PitchPosition)
}

func TestPlaceFormation_Reassigns(t *testing.T) {
	players := []model.Player{
		{ID: "gk", EligiblePositions: []string{model.PositionGoalkeeper}},
		{ID: "p1"}, {ID: "p2"}, {ID: "p3"}, {ID: "p4"},
	}
	require.NoError(t, PlaceFormation(players, 5))
	firstKeeper := *model.FindPlayer(players, "gk")

	require.NoError(t, PlaceFormation(players, 5))
	assert.Equal(t, firstKeeper.PitchPosition, model.FindPlayer(players, "gk").PitchPosition)
	assert.Equal(t, 5, model.CountOnField(players))
}

func TestPlaceFormation_NotEnoughPlayers(t *testing.T) {
	players := []model.Player{{ID: "p1"}, {ID: "p2"}}
	assert.ErrorIs(t, PlaceFormation(players, 7), ErrNotEnoughPlayers)

	// Enough bodies but nobody may keep goal except nobody: all players
	// restricted to outfield slots.
	restricted := []model.Player{
		{ID: "a", EligiblePositions: []string{"LD"}},
		{ID: "b", EligiblePositions: []string{"RD"}},
		{ID: "c", EligiblePositions: []string{"LA"}},
		{ID: "d", EligiblePositions: []string{"RA"}},
		{ID: "e", EligiblePositions: []string{"LA"}},
	}
	assert.ErrorIs(t, PlaceFormation(restricted, 5), ErrNotEnoughPlayers)
}
