package plan

import (
	"github.com/igniteclubhq/pitchboard/internal/model"
)

// RebalanceDelaySeconds is the drift past which the monitor
// redistributes the remaining schedule.
const RebalanceDelaySeconds = 30

// minRebalanceIntervalSeconds is the floor between redistributed
// events.
const minRebalanceIntervalSeconds = 60

// Rebalance redistributes every remaining unexecuted event evenly
// across the rest of the game, walking forward from the current match
// position. Executed events are untouched and relative order is
// preserved. Inputs are recomputed from current state on every call,
// so running it again with no further delay only re-spaces to the same
// timestamps.
func Rebalance(planEvents []model.SubstitutionEvent, currentTotalSeconds, halfDurationSeconds int) []model.SubstitutionEvent {
	out := model.ClonePlan(planEvents)
	if halfDurationSeconds <= 0 {
		return out
	}

	var remaining []*model.SubstitutionEvent
	for i := range out {
		if !out[i].Executed {
			remaining = append(remaining, &out[i])
		}
	}
	if len(remaining) == 0 {
		return out
	}

	gameDur := 2 * halfDurationSeconds
	remainingGame := gameDur - currentTotalSeconds
	if remainingGame < 0 {
		remainingGame = 0
	}
	interval := remainingGame / (len(remaining) + 1)
	if interval < minRebalanceIntervalSeconds {
		interval = minRebalanceIntervalSeconds
	}

	t := currentTotalSeconds
	for _, e := range remaining {
		t += interval
		half, offset := 1, t
		if offset >= halfDurationSeconds {
			half = 2
			offset -= halfDurationSeconds
			if offset > halfDurationSeconds {
				offset = halfDurationSeconds
			}
		}
		e.Half = half
		e.Time = offset
	}

	model.SortPlan(out)
	return out
}
