package model

import (
	geom "github.com/peterstace/simplefeatures/geom"
)

// PositionGoalkeeper is the pitch position label reserved for the keeper.
// The keeper never takes part in minute rotation.
const PositionGoalkeeper = "GK"

// Player is one roster entry. A player is on the field exactly when
// FieldPos is non-nil; PitchPosition is only meaningful in that case.
type Player struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Number            *int     `json:"number,omitempty"`
	FieldPos          *geom.XY `json:"fieldPos,omitempty"`
	EligiblePositions []string `json:"eligiblePositions,omitempty"`
	PitchPosition     string   `json:"pitchPosition,omitempty"`
}

// OnField reports whether the player currently occupies a field slot.
func (p *Player) OnField() bool {
	return p.FieldPos != nil
}

// CanPlay reports whether the player may occupy the given pitch
// position. An empty EligiblePositions set means unrestricted.
func (p *Player) CanPlay(position string) bool {
	if len(p.EligiblePositions) == 0 {
		return true
	}
	for _, pos := range p.EligiblePositions {
		if pos == position {
			return true
		}
	}
	return false
}

// GoalkeeperOnly reports whether the player is eligible for the
// goalkeeper position and nothing else.
func (p *Player) GoalkeeperOnly() bool {
	return len(p.EligiblePositions) == 1 && p.EligiblePositions[0] == PositionGoalkeeper
}

// SplitFieldBench partitions a roster into on-field and bench players,
// preserving roster order.
func SplitFieldBench(players []Player) (field, bench []Player) {
	for _, p := range players {
		if p.OnField() {
			field = append(field, p)
		} else {
			bench = append(bench, p)
		}
	}
	return field, bench
}

// FindPlayer returns a pointer into players for the given ID, or nil.
func FindPlayer(players []Player, id string) *Player {
	for i := range players {
		if players[i].ID == id {
			return &players[i]
		}
	}
	return nil
}

// CountOnField returns the number of players currently on the field.
func CountOnField(players []Player) int {
	n := 0
	for i := range players {
		if players[i].OnField() {
			n++
		}
	}
	return n
}

// ClonePlayers returns a deep copy of the roster so callers can mutate
// a snapshot without aliasing the source.
func ClonePlayers(players []Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = p
		if p.Number != nil {
			n := *p.Number
			out[i].Number = &n
		}
		if p.FieldPos != nil {
			xy := *p.FieldPos
			out[i].FieldPos = &xy
		}
		if p.EligiblePositions != nil {
			out[i].EligiblePositions = append([]string(nil), p.EligiblePositions...)
		}
	}
	return out
}
