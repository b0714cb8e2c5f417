package model

import (
	"fmt"
	"sort"
)

// PositionSwap is a third player who changes position on the field as a
// side effect of a substitution.
type PositionSwap struct {
	PlayerID     string `json:"playerId"`
	FromPosition string `json:"fromPosition"`
	ToPosition   string `json:"toPosition"`
}

// SubstitutionEvent is one planned swap. Time is seconds elapsed within
// the half. Executed events are immutable.
type SubstitutionEvent struct {
	Half         int           `json:"half"`
	Time         int           `json:"time"`
	PlayerOutID  string        `json:"playerOut"`
	PlayerInID   string        `json:"playerIn"`
	PositionSwap *PositionSwap `json:"positionSwap,omitempty"`
	Executed     bool          `json:"executed"`
}

// TotalSeconds returns the event's offset from kickoff, counting half 2
// as offset by one half duration.
func (e *SubstitutionEvent) TotalSeconds(halfDurationSeconds int) int {
	return (e.Half-1)*halfDurationSeconds + e.Time
}

// SortPlan orders events by (half, time) in place. Sorting is stable so
// same-instant events keep their creation order.
func SortPlan(plan []SubstitutionEvent) {
	sort.SliceStable(plan, func(i, j int) bool {
		if plan[i].Half != plan[j].Half {
			return plan[i].Half < plan[j].Half
		}
		return plan[i].Time < plan[j].Time
	})
}

// ClonePlan returns a deep copy of the plan.
func ClonePlan(plan []SubstitutionEvent) []SubstitutionEvent {
	out := make([]SubstitutionEvent, len(plan))
	for i, e := range plan {
		out[i] = e
		if e.PositionSwap != nil {
			ps := *e.PositionSwap
			out[i].PositionSwap = &ps
		}
	}
	return out
}

// PlanOrdered reports whether events are totally ordered by (half, time).
func PlanOrdered(plan []SubstitutionEvent) bool {
	for i := 1; i < len(plan); i++ {
		prev, cur := plan[i-1], plan[i]
		if cur.Half < prev.Half || (cur.Half == prev.Half && cur.Time < prev.Time) {
			return false
		}
	}
	return true
}

// ValidatePlan checks that the plan is a realizable sequence of state
// transitions against the given roster: every out-player is on the
// field and every in-player on the bench at the moment its event
// applies.
func ValidatePlan(players []Player, plan []SubstitutionEvent) error {
	onField := make(map[string]bool, len(players))
	known := make(map[string]bool, len(players))
	for i := range players {
		known[players[i].ID] = true
		if players[i].OnField() {
			onField[players[i].ID] = true
		}
	}
	for i, e := range plan {
		if e.Half != 1 && e.Half != 2 {
			return fmt.Errorf("event %d: half %d out of range", i, e.Half)
		}
		if !known[e.PlayerOutID] || !known[e.PlayerInID] {
			return fmt.Errorf("event %d: references unknown player", i)
		}
		if !onField[e.PlayerOutID] {
			return fmt.Errorf("event %d: player %s not on field", i, e.PlayerOutID)
		}
		if onField[e.PlayerInID] {
			return fmt.Errorf("event %d: player %s not on bench", i, e.PlayerInID)
		}
		onField[e.PlayerOutID] = false
		onField[e.PlayerInID] = true
	}
	return nil
}

// SubstitutionRecord is one audit entry: what happened to a plan event
// when the monitor acted on it.
type SubstitutionRecord struct {
	Half         int    `json:"half"`
	TimeSeconds  int    `json:"timeSeconds"`
	PlayerOutID  string `json:"playerOut"`
	PlayerInID   string `json:"playerIn"`
	Action       string `json:"action"` // executed | skipped | inconsistent
	DelaySeconds int    `json:"delaySeconds"`
}

// PitchState is the shared snapshot every surface reads before deciding
// an action and writes after executing one.
type PitchState struct {
	Players    []Player            `json:"players"`
	Plan       []SubstitutionEvent `json:"plan"`
	PlanActive bool                `json:"planActive"`
	PlanPaused bool                `json:"planPaused"`
}

// Clone returns a deep copy of the snapshot.
func (s *PitchState) Clone() *PitchState {
	if s == nil {
		return nil
	}
	return &PitchState{
		Players:    ClonePlayers(s.Players),
		Plan:       ClonePlan(s.Plan),
		PlanActive: s.PlanActive,
		PlanPaused: s.PlanPaused,
	}
}
