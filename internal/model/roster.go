package model

import (
	"encoding/json"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
)

// rosterEntry is the on-disk roster shape. Field placement is given as
// a simple coordinate pair to keep hand-written roster files easy.
type rosterEntry struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Number            *int        `json:"number,omitempty"`
	FieldPos          *[2]float64 `json:"fieldPos,omitempty"`
	EligiblePositions []string    `json:"eligiblePositions,omitempty"`
	PitchPosition     string      `json:"pitchPosition,omitempty"`
}

// ParseRoster decodes a roster JSON document into players. Every entry
// must carry an ID and IDs must be unique.
func ParseRoster(data []byte) ([]Player, error) {
	var entries []rosterEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding roster: %w", err)
	}

	players := make([]Player, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("roster entry %d has no id", i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("duplicate player id %q", e.ID)
		}
		seen[e.ID] = true

		p := Player{
			ID:                e.ID,
			Name:              e.Name,
			Number:            e.Number,
			EligiblePositions: e.EligiblePositions,
			PitchPosition:     e.PitchPosition,
		}
		if e.FieldPos != nil {
			xy := geom.XY{X: e.FieldPos[0], Y: e.FieldPos[1]}
			p.FieldPos = &xy
		}
		players = append(players, p)
	}
	return players, nil
}
