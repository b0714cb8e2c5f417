package plan

import (
	"math"
	"sort"

	"github.com/igniteclubhq/pitchboard/internal/model"
)

// PlayerForecast is one player's projected playing time under a plan.
type PlayerForecast struct {
	PlayerID         string  `json:"playerId"`
	Name             string  `json:"name"`
	Number           *int    `json:"number,omitempty"`
	PredictedMinutes float64 `json:"predictedMinutes"`
	PercentOfGame    int     `json:"percentOfGame"`
	StartsOnPitch    bool    `json:"startsOnPitch"`
}

// Forecast replays the plan in (half, time) order and projects each
// player's minutes and share of the game. It is a pure simulation of
// (roster, plan) with no hidden state, so it gives the same answer for
// a freshly generated and a manually edited plan. Results are sorted
// by predicted minutes, most first.
func Forecast(players []model.Player, planEvents []model.SubstitutionEvent, minutesPerHalf int) []PlayerForecast {
	if minutesPerHalf <= 0 {
		return nil
	}
	halfDur := minutesPerHalf * 60
	gameDur := 2 * halfDur

	seconds := make(map[string]int, len(players))
	onField := make(map[string]bool, len(players))
	for i := range players {
		onField[players[i].ID] = players[i].OnField()
	}

	ordered := model.ClonePlan(planEvents)
	model.SortPlan(ordered)

	credit := func(interval int) {
		if interval <= 0 {
			return
		}
		for id, on := range onField {
			if on {
				seconds[id] += interval
			}
		}
	}

	cursor := 0
	for _, e := range ordered {
		at := e.TotalSeconds(halfDur)
		if at > gameDur {
			at = gameDur
		}
		credit(at - cursor)
		if at > cursor {
			cursor = at
		}
		onField[e.PlayerOutID] = false
		onField[e.PlayerInID] = true
	}
	credit(gameDur - cursor)

	out := make([]PlayerForecast, 0, len(players))
	for i := range players {
		p := &players[i]
		mins := float64(seconds[p.ID]) / 60
		out = append(out, PlayerForecast{
			PlayerID:         p.ID,
			Name:             p.Name,
			Number:           p.Number,
			PredictedMinutes: mins,
			PercentOfGame:    int(math.Round(mins / float64(2*minutesPerHalf) * 100)),
			StartsOnPitch:    p.OnField(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PredictedMinutes > out[j].PredictedMinutes
	})
	return out
}
