package plan

import (
	"testing"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igniteclubhq/pitchboard/internal/model"
)

func onPitch(id, position string, eligible ...string) model.Player {
	return model.Player{
		ID:                id,
		Name:              id,
		FieldPos:          &geom.XY{X: 0.5, Y: 0.5},
		PitchPosition:     position,
		EligiblePositions: eligible,
	}
}

func onBench(id string, eligible ...string) model.Player {
	return model.Player{ID: id, Name: id, EligiblePositions: eligible}
}

// sevenASide is a 7-a-side roster with three outfield bench players.
func sevenASide() []model.Player {
	return []model.Player{
		onPitch("gk", model.PositionGoalkeeper, model.PositionGoalkeeper),
		onPitch("f1", "LB"),
		onPitch("f2", "RB"),
		onPitch("f3", "CM"),
		onPitch("f4", "LW"),
		onPitch("f5", "RW"),
		onPitch("f6", "ST"),
		onBench("b1"),
		onBench("b2"),
		onBench("b3"),
	}
}

func TestGenerate_BasicRotation(t *testing.T) {
	players := sevenASide()
	events := Generate(players, GenerateOptions{
		TeamSize:            7,
		HalfDurationSeconds: 20 * 60,
		RotationSpeed:       RotationMedium,
	})

	require.NotEmpty(t, events)
	assert.True(t, model.PlanOrdered(events))
	assert.NoError(t, model.ValidatePlan(players, events))

	perHalf := map[int]int{}
	for _, e := range events {
		require.Contains(t, []int{1, 2}, e.Half)
		assert.GreaterOrEqual(t, e.Time, 0)
		assert.LessOrEqual(t, e.Time, 20*60)
		assert.NotEqual(t, "gk", e.PlayerOutID)
		assert.NotEqual(t, "gk", e.PlayerInID)
		perHalf[e.Half]++
	}
	// Three bench players at medium speed produce six windows a half.
	assert.GreaterOrEqual(t, perHalf[1], 3)
	assert.GreaterOrEqual(t, perHalf[2], 3)
}

// TestGenerate_FairMinutesSpread runs the full generate-then-forecast
// pipeline on a 7-a-side roster with two outfield bench players and a
// bench keeper: eight outfield players share six slots over 40 minutes,
// so everyone's fair share is 30 minutes and the plan must land each of
// them within three minutes of it.
func TestGenerate_FairMinutesSpread(t *testing.T) {
	players := []model.Player{
		onPitch("gk", model.PositionGoalkeeper, model.PositionGoalkeeper),
		onPitch("f1", "LB"),
		onPitch("f2", "RB"),
		onPitch("f3", "CM"),
		onPitch("f4", "LW"),
		onPitch("f5", "RW"),
		onPitch("f6", "ST"),
		onBench("b1"),
		onBench("b2"),
		onBench("gk2", model.PositionGoalkeeper),
	}
	events := Generate(players, GenerateOptions{
		TeamSize:            7,
		HalfDurationSeconds: 20 * 60,
		RotationSpeed:       RotationMedium,
	})

	require.NotEmpty(t, events)
	require.NoError(t, model.ValidatePlan(players, events))

	var keeperEvents []model.SubstitutionEvent
	for _, e := range events {
		if e.PlayerOutID == "gk" || e.PlayerInID == "gk2" {
			keeperEvents = append(keeperEvents, e)
		}
	}
	require.Len(t, keeperEvents, 1)
	assert.Equal(t, 2, keeperEvents[0].Half)
	assert.Equal(t, 0, keeperEvents[0].Time)
	assert.Equal(t, "gk", keeperEvents[0].PlayerOutID)
	assert.Equal(t, "gk2", keeperEvents[0].PlayerInID)

	const idealMinutes = 30.0
	for _, f := range Forecast(players, events, 20) {
		if f.PlayerID == "gk" || f.PlayerID == "gk2" {
			continue
		}
		assert.InDelta(t, idealMinutes, f.PredictedMinutes, 3.0,
			"player %s projected %.1f minutes", f.PlayerID, f.PredictedMinutes)
	}
}

func TestGenerate_NothingToSchedule(t *testing.T) {
	t.Run("no bench", func(t *testing.T) {
		players := []model.Player{onPitch("f1", "CM"), onPitch("f2", "ST")}
		assert.Empty(t, Generate(players, GenerateOptions{TeamSize: 2, HalfDurationSeconds: 1200}))
	})
	t.Run("zero team size", func(t *testing.T) {
		assert.Empty(t, Generate(sevenASide(), GenerateOptions{TeamSize: 0, HalfDurationSeconds: 1200}))
	})
	t.Run("zero half duration", func(t *testing.T) {
		assert.Empty(t, Generate(sevenASide(), GenerateOptions{TeamSize: 7, HalfDurationSeconds: 0}))
	})
	t.Run("half too short for a window", func(t *testing.T) {
		players := []model.Player{onPitch("f1", "CM"), onBench("b1")}
		assert.Empty(t, Generate(players, GenerateOptions{TeamSize: 1, HalfDurationSeconds: 60}))
	})
}

func TestGenerate_KeeperSwapAtHalfTime(t *testing.T) {
	players := []model.Player{
		onPitch("gk1", model.PositionGoalkeeper, model.PositionGoalkeeper),
		onPitch("f1", "CM"),
		onBench("gk2", model.PositionGoalkeeper),
	}
	events := Generate(players, GenerateOptions{TeamSize: 2, HalfDurationSeconds: 1200, RotationSpeed: RotationMedium})

	require.Len(t, events, 1)
	assert.Equal(t, 2, events[0].Half)
	assert.Equal(t, 0, events[0].Time)
	assert.Equal(t, "gk1", events[0].PlayerOutID)
	assert.Equal(t, "gk2", events[0].PlayerInID)
	assert.Nil(t, events[0].PositionSwap)
}

func TestGenerate_ChainedPositionSwap(t *testing.T) {
	players := []model.Player{
		onPitch("a", "LB"),
		onPitch("b", "ST"),
		onBench("c", "ST"),
	}
	events := Generate(players, GenerateOptions{
		TeamSize:            2,
		HalfDurationSeconds: 1200,
		RotationSpeed:       RotationSlow,
	})

	require.Len(t, events, 2)

	// c cannot take a's slot directly, so b shuffles across to cover it.
	first := events[0]
	assert.Equal(t, 1, first.Half)
	assert.Equal(t, 600, first.Time)
	assert.Equal(t, "a", first.PlayerOutID)
	assert.Equal(t, "c", first.PlayerInID)
	require.NotNil(t, first.PositionSwap)
	assert.Equal(t, "b", first.PositionSwap.PlayerID)
	assert.Equal(t, "ST", first.PositionSwap.FromPosition)
	assert.Equal(t, "LB", first.PositionSwap.ToPosition)

	second := events[1]
	assert.Equal(t, 2, second.Half)
	assert.Equal(t, "b", second.PlayerOutID)
	assert.Equal(t, "a", second.PlayerInID)
	assert.Nil(t, second.PositionSwap)
}

func TestGenerate_DisablePositionSwaps(t *testing.T) {
	players := []model.Player{
		onPitch("a", "LB"),
		onPitch("b", "ST"),
		onBench("c", "ST"),
	}
	events := Generate(players, GenerateOptions{
		TeamSize:             2,
		HalfDurationSeconds:  1200,
		RotationSpeed:        RotationSlow,
		DisablePositionSwaps: true,
	})

	require.NotEmpty(t, events)
	// Without chained swaps the only legal pairing is b off, c on.
	first := events[0]
	assert.Equal(t, "b", first.PlayerOutID)
	assert.Equal(t, "c", first.PlayerInID)
	assert.Nil(t, first.PositionSwap)
}

func TestGenerate_IllegalFallbackStillRotates(t *testing.T) {
	players := []model.Player{
		onPitch("a", "LB"),
		onPitch("b", "ST"),
		onBench("c", "CM"),
	}
	events := Generate(players, GenerateOptions{
		TeamSize:            2,
		HalfDurationSeconds: 1200,
		RotationSpeed:       RotationSlow,
	})

	// No legal slot exists for c anywhere, but c still gets minutes.
	require.NotEmpty(t, events)
	assert.Equal(t, "c", events[0].PlayerInID)
	assert.Nil(t, events[0].PositionSwap)
}

func TestGenerate_DisableBatchSubs(t *testing.T) {
	players := sevenASide()
	events := Generate(players, GenerateOptions{
		TeamSize:            7,
		HalfDurationSeconds: 20 * 60,
		RotationSpeed:       RotationMedium,
		DisableBatchSubs:    true,
	})

	require.NotEmpty(t, events)
	seen := map[[2]int]int{}
	for _, e := range events {
		seen[[2]int{e.Half, e.Time}]++
	}
	for at, n := range seen {
		assert.Equal(t, 1, n, "batched events at half %d time %d", at[0], at[1])
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	opts := GenerateOptions{TeamSize: 7, HalfDurationSeconds: 25 * 60, RotationSpeed: RotationFast}
	first := Generate(sevenASide(), opts)
	second := Generate(sevenASide(), opts)
	assert.Equal(t, first, second)
}
