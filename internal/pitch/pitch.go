package pitch

import (
	"errors"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/igniteclubhq/pitchboard/internal/model"
)

// ErrNotEnoughPlayers is returned when a roster cannot fill a starting
// formation.
var ErrNotEnoughPlayers = errors.New("not enough eligible players for formation")

// Slot is one starting position with its coordinate on a unit pitch.
// X runs goal line to goal line (own goal at 0), Y runs touchline to
// touchline.
type Slot struct {
	Position string
	Coord    geom.XY
}

// Layouts per team size. Position labels double as the pitch position
// strings carried on players.
var layouts = map[int][]Slot{
	5: {
		{Position: model.PositionGoalkeeper, Coord: geom.XY{X: 0.05, Y: 0.5}},
		{Position: "LD", Coord: geom.XY{X: 0.3, Y: 0.3}},
		{Position: "RD", Coord: geom.XY{X: 0.3, Y: 0.7}},
		{Position: "LA", Coord: geom.XY{X: 0.7, Y: 0.3}},
		{Position: "RA", Coord: geom.XY{X: 0.7, Y: 0.7}},
	},
	7: {
		{Position: model.PositionGoalkeeper, Coord: geom.XY{X: 0.05, Y: 0.5}},
		{Position: "LB", Coord: geom.XY{X: 0.25, Y: 0.3}},
		{Position: "RB", Coord: geom.XY{X: 0.25, Y: 0.7}},
		{Position: "CM", Coord: geom.XY{X: 0.5, Y: 0.5}},
		{Position: "LW", Coord: geom.XY{X: 0.65, Y: 0.2}},
		{Position: "RW", Coord: geom.XY{X: 0.65, Y: 0.8}},
		{Position: "ST", Coord: geom.XY{X: 0.85, Y: 0.5}},
	},
	9: {
		{Position: model.PositionGoalkeeper, Coord: geom.XY{X: 0.05, Y: 0.5}},
		{Position: "LB", Coord: geom.XY{X: 0.25, Y: 0.2}},
		{Position: "CB", Coord: geom.XY{X: 0.2, Y: 0.5}},
		{Position: "RB", Coord: geom.XY{X: 0.25, Y: 0.8}},
		{Position: "LM", Coord: geom.XY{X: 0.5, Y: 0.25}},
		{Position: "CM", Coord: geom.XY{X: 0.5, Y: 0.5}},
		{Position: "RM", Coord: geom.XY{X: 0.5, Y: 0.75}},
		{Position: "LS", Coord: geom.XY{X: 0.8, Y: 0.35}},
		{Position: "RS", Coord: geom.XY{X: 0.8, Y: 0.65}},
	},
	11: {
		{Position: model.PositionGoalkeeper, Coord: geom.XY{X: 0.05, Y: 0.5}},
		{Position: "LB", Coord: geom.XY{X: 0.2, Y: 0.15}},
		{Position: "LCB", Coord: geom.XY{X: 0.18, Y: 0.4}},
		{Position: "RCB", Coord: geom.XY{X: 0.18, Y: 0.6}},
		{Position: "RB", Coord: geom.XY{X: 0.2, Y: 0.85}},
		{Position: "LM", Coord: geom.XY{X: 0.5, Y: 0.2}},
		{Position: "LCM", Coord: geom.XY{X: 0.45, Y: 0.4}},
		{Position: "RCM", Coord: geom.XY{X: 0.45, Y: 0.6}},
		{Position: "RM", Coord: geom.XY{X: 0.5, Y: 0.8}},
		{Position: "LS", Coord: geom.XY{X: 0.8, Y: 0.35}},
		{Position: "RS", Coord: geom.XY{X: 0.8, Y: 0.65}},
	},
}

// Layout returns the starting slots for a team size.
func Layout(teamSize int) ([]Slot, error) {
	slots, ok := layouts[teamSize]
	if !ok {
		return nil, fmt.Errorf("no formation layout for team size %d", teamSize)
	}
	return slots, nil
}

// PlaceFormation assigns starting positions in place: the first
// eligible player found for each slot goes on the field, everyone else
// to the bench. Slots are filled most-constrained first so a
// keeper-only player always lands in goal.
func PlaceFormation(players []model.Player, teamSize int) error {
	slots, err := Layout(teamSize)
	if err != nil {
		return err
	}
	if len(players) < len(slots) {
		return ErrNotEnoughPlayers
	}

	for i := range players {
		players[i].FieldPos = nil
		players[i].PitchPosition = ""
	}

	placed := make(map[string]bool, len(slots))
	for _, slot := range slots {
		idx := -1
		for i := range players {
			if placed[players[i].ID] || !players[i].CanPlay(slot.Position) {
				continue
			}
			// Restricted players take priority over unrestricted ones
			// so flexible players stay available for later slots.
			if idx == -1 || (len(players[i].EligiblePositions) > 0 && len(players[idx].EligiblePositions) == 0) {
				idx = i
			}
		}
		if idx == -1 {
			return ErrNotEnoughPlayers
		}
		coord := slot.Coord
		players[idx].FieldPos = &coord
		players[idx].PitchPosition = slot.Position
		placed[players[idx].ID] = true
	}
	return nil
}
