package plan

import (
	"errors"
	"fmt"

	"github.com/igniteclubhq/pitchboard/internal/model"
)

// Editor operation rejections. Each operation leaves its input plan
// untouched and returns a new slice on success.
var (
	ErrIndexOutOfRange = errors.New("plan: event index out of range")
	ErrEventExecuted   = errors.New("plan: event already executed")
	ErrInvalidPairing  = errors.New("plan: players are not a valid pairing at that time")
)

// Delete removes one event from the plan.
func Delete(planEvents []model.SubstitutionEvent, index int) ([]model.SubstitutionEvent, error) {
	if index < 0 || index >= len(planEvents) {
		return nil, ErrIndexOutOfRange
	}
	if planEvents[index].Executed {
		return nil, ErrEventExecuted
	}
	out := model.ClonePlan(planEvents)
	return append(out[:index], out[index+1:]...), nil
}

// Retime moves one event to a new minute and half, then re-sorts the
// whole plan by (half, time).
func Retime(planEvents []model.SubstitutionEvent, index, newMinute, newHalf int) ([]model.SubstitutionEvent, error) {
	if index < 0 || index >= len(planEvents) {
		return nil, ErrIndexOutOfRange
	}
	if planEvents[index].Executed {
		return nil, ErrEventExecuted
	}
	if newHalf != 1 && newHalf != 2 {
		return nil, fmt.Errorf("plan: half %d out of range", newHalf)
	}
	out := model.ClonePlan(planEvents)
	out[index].Time = newMinute * 60
	out[index].Half = newHalf
	model.SortPlan(out)
	return out, nil
}

// ReassignPlayers swaps the referenced players of one event without
// altering its timing.
func ReassignPlayers(planEvents []model.SubstitutionEvent, index int, outID, inID string) ([]model.SubstitutionEvent, error) {
	if index < 0 || index >= len(planEvents) {
		return nil, ErrIndexOutOfRange
	}
	if planEvents[index].Executed {
		return nil, ErrEventExecuted
	}
	out := model.ClonePlan(planEvents)
	out[index].PlayerOutID = outID
	out[index].PlayerInID = inID
	return out, nil
}

// CandidatesAt replays the plan up to the given moment and returns the
// players who would then be on the field and on the bench. Callers use
// it to offer only pairings Insert will accept.
func CandidatesAt(players []model.Player, planEvents []model.SubstitutionEvent, half, minute int) (field, bench []model.Player) {
	onField := make(map[string]bool, len(players))
	for i := range players {
		onField[players[i].ID] = players[i].OnField()
	}

	// Half duration only matters for relative ordering here; a day per
	// half keeps every legal minute inside its half.
	const orderHalfDur = 24 * 60 * 60
	at := (half-1)*orderHalfDur + minute*60

	ordered := model.ClonePlan(planEvents)
	model.SortPlan(ordered)
	for _, e := range ordered {
		if e.TotalSeconds(orderHalfDur) > at {
			break
		}
		onField[e.PlayerOutID] = false
		onField[e.PlayerInID] = true
	}

	for i := range players {
		if onField[players[i].ID] {
			field = append(field, players[i])
		} else {
			bench = append(bench, players[i])
		}
	}
	return field, bench
}

// Insert appends a new event and re-sorts. The out-player must be on
// the field and the in-player on the bench at that moment, per a
// replay of the plan up to the insertion time.
func Insert(players []model.Player, planEvents []model.SubstitutionEvent, half, minute int, outID, inID string) ([]model.SubstitutionEvent, error) {
	if half != 1 && half != 2 {
		return nil, fmt.Errorf("plan: half %d out of range", half)
	}
	field, bench := CandidatesAt(players, planEvents, half, minute)
	if model.FindPlayer(field, outID) == nil || model.FindPlayer(bench, inID) == nil {
		return nil, ErrInvalidPairing
	}
	out := model.ClonePlan(planEvents)
	out = append(out, model.SubstitutionEvent{
		Half:        half,
		Time:        minute * 60,
		PlayerOutID: outID,
		PlayerInID:  inID,
	})
	model.SortPlan(out)
	return out, nil
}

// Reorder moves an event to a new slot without changing its stamped
// time. This intentionally lets an operator produce a sequence whose
// order no longer matches its timestamps; that is an explicit manual
// override and is not auto-corrected. Moves that would touch or cross
// an executed event are rejected, since executed events never change
// order relative to the rest.
func Reorder(planEvents []model.SubstitutionEvent, from, to int) ([]model.SubstitutionEvent, error) {
	if from < 0 || from >= len(planEvents) || to < 0 || to >= len(planEvents) {
		return nil, ErrIndexOutOfRange
	}
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	for i := lo; i <= hi; i++ {
		if planEvents[i].Executed {
			return nil, ErrEventExecuted
		}
	}
	out := model.ClonePlan(planEvents)
	ev := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]model.SubstitutionEvent{ev}, out[to:]...)...)
	return out, nil
}
