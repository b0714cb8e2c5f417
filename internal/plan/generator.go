// Package plan builds and maintains the substitution plan for one
// match: generating a fairness-balanced schedule, projecting playing
// time, applying operator edits, and redistributing timestamps when the
// live game drifts from the schedule.
package plan

import (
	"sort"

	"github.com/igniteclubhq/pitchboard/internal/model"
)

// RotationSpeed controls how aggressively the generator rotates the
// bench: more simultaneous swaps and more windows per half.
type RotationSpeed int

const (
	RotationSlow   RotationSpeed = 1
	RotationMedium RotationSpeed = 2
	RotationFast   RotationSpeed = 3
)

// minWindowSpacingSeconds is the closest two substitution windows may
// sit within one half.
const minWindowSpacingSeconds = 45

// maxSubsAtOnce caps simultaneous swaps in a single window.
const maxSubsAtOnce = 3

// GenerateOptions are the match parameters and rotation policy for one
// plan generation run.
type GenerateOptions struct {
	TeamSize             int
	HalfDurationSeconds  int
	RotationSpeed        RotationSpeed
	DisablePositionSwaps bool
	DisableBatchSubs     bool
}

// rotationPlayer is the generator's working view of one rotation-pool
// player. Seconds accumulate only while the player is on the field.
type rotationPlayer struct {
	id       string
	eligible []string
	position string
	onField  bool
	seconds  int
}

func (rp *rotationPlayer) canPlay(position string) bool {
	if len(rp.eligible) == 0 {
		return true
	}
	for _, pos := range rp.eligible {
		if pos == position {
			return true
		}
	}
	return false
}

// Generate builds an ordered substitution plan for both halves. The
// goalkeeper is kept out of rotation; if a bench player is eligible
// only for goal, a single keeper swap is scheduled at the start of
// half 2. An empty plan is returned when there is nothing to schedule:
// no bench players, a non-positive team size, or a non-positive half
// duration.
func Generate(players []model.Player, opts GenerateOptions) []model.SubstitutionEvent {
	if opts.TeamSize <= 0 || opts.HalfDurationSeconds <= 0 {
		return nil
	}
	field, bench := model.SplitFieldBench(players)
	if len(bench) == 0 {
		return nil
	}

	var fieldKeeper *model.Player
	pool := make([]*rotationPlayer, 0, len(players))
	for i := range field {
		p := &field[i]
		if p.PitchPosition == model.PositionGoalkeeper {
			fieldKeeper = p
			continue
		}
		pool = append(pool, &rotationPlayer{
			id:       p.ID,
			eligible: p.EligiblePositions,
			position: p.PitchPosition,
			onField:  true,
		})
	}
	var benchKeeper *model.Player
	benchOutfield := 0
	for i := range bench {
		p := &bench[i]
		if p.GoalkeeperOnly() {
			if benchKeeper == nil {
				benchKeeper = p
			}
			continue
		}
		benchOutfield++
		pool = append(pool, &rotationPlayer{
			id:       p.ID,
			eligible: p.EligiblePositions,
		})
	}

	var plan []model.SubstitutionEvent
	if benchOutfield > 0 {
		subsAtOnce := subsPerWindow(opts, benchOutfield)
		windows := windowsPerHalf(opts, benchOutfield)

		for half := 1; half <= 2; half++ {
			prev := 0
			for i := 1; i <= windows; i++ {
				t := i * opts.HalfDurationSeconds / (windows + 1)
				accumulate(pool, t-prev)
				prev = t
				plan = append(plan, runWindow(pool, half, t, subsAtOnce, opts.DisablePositionSwaps)...)
			}
			accumulate(pool, opts.HalfDurationSeconds-prev)
		}
	}

	if fieldKeeper != nil && benchKeeper != nil {
		plan = append(plan, model.SubstitutionEvent{
			Half:        2,
			Time:        0,
			PlayerOutID: fieldKeeper.ID,
			PlayerInID:  benchKeeper.ID,
		})
	}

	model.SortPlan(plan)
	return plan
}

// subsPerWindow decides how many swaps a single window may batch.
func subsPerWindow(opts GenerateOptions, benchOutfield int) int {
	if opts.DisableBatchSubs {
		return 1
	}
	n := int(opts.RotationSpeed)
	if n < 1 {
		n = 1
	}
	if n > maxSubsAtOnce {
		n = maxSubsAtOnce
	}
	if n > benchOutfield {
		n = benchOutfield
	}
	return n
}

// windowsPerHalf scales window count with the bench and the rotation
// speed, then clamps so adjacent windows stay at least
// minWindowSpacingSeconds apart. The count is independent of the
// batch size: coarser windows cannot keep the rotation tail near its
// fair share of minutes.
func windowsPerHalf(opts GenerateOptions, benchOutfield int) int {
	speed := int(opts.RotationSpeed)
	if speed < 1 {
		speed = 1
	}
	windows := benchOutfield * speed
	if windows < 1 {
		windows = 1
	}
	maxWindows := opts.HalfDurationSeconds/minWindowSpacingSeconds - 1
	if windows > maxWindows {
		windows = maxWindows
	}
	return windows
}

func accumulate(pool []*rotationPlayer, seconds int) {
	if seconds <= 0 {
		return
	}
	for _, rp := range pool {
		if rp.onField {
			rp.seconds += seconds
		}
	}
}

// swapCandidate is one scored pairing considered within a window.
type swapCandidate struct {
	out       *rotationPlayer
	in        *rotationPlayer
	passenger *rotationPlayer
	score     int
	legal     bool
}

// runWindow evaluates up to subsAtOnce swaps at one window time and
// returns the events it scheduled, mutating the pool state as it goes.
func runWindow(pool []*rotationPlayer, half, t, subsAtOnce int, disablePositionSwaps bool) []model.SubstitutionEvent {
	used := make(map[string]bool)
	var events []model.SubstitutionEvent

	for s := 0; s < subsAtOnce; s++ {
		fieldSide, benchSide := windowSides(pool, used)
		if len(fieldSide) == 0 || len(benchSide) == 0 {
			break
		}
		// Nothing to gain when the most-played field player has no time
		// advantage over the least-played bench player. Later swaps in
		// the same batch rotate regardless.
		if s == 0 && fieldSide[0].seconds <= benchSide[0].seconds {
			break
		}

		best := pickCandidate(fieldSide, benchSide, disablePositionSwaps)
		if best == nil {
			break
		}

		ev := model.SubstitutionEvent{
			Half:        half,
			Time:        t,
			PlayerOutID: best.out.id,
			PlayerInID:  best.in.id,
		}
		vacated := best.out.position
		best.out.onField = false
		best.out.position = ""
		if best.passenger != nil {
			ev.PositionSwap = &model.PositionSwap{
				PlayerID:     best.passenger.id,
				FromPosition: best.passenger.position,
				ToPosition:   vacated,
			}
			best.in.position = best.passenger.position
			best.passenger.position = vacated
			used[best.passenger.id] = true
		} else {
			best.in.position = vacated
		}
		best.in.onField = true
		used[best.out.id] = true
		used[best.in.id] = true
		events = append(events, ev)
	}
	return events
}

// windowSides returns the unused field players sorted most-played
// first and the unused bench players sorted least-played first. Ties
// break on ID so generation is deterministic.
func windowSides(pool []*rotationPlayer, used map[string]bool) (fieldSide, benchSide []*rotationPlayer) {
	for _, rp := range pool {
		if used[rp.id] {
			continue
		}
		if rp.onField {
			fieldSide = append(fieldSide, rp)
		} else {
			benchSide = append(benchSide, rp)
		}
	}
	sort.Slice(fieldSide, func(i, j int) bool {
		if fieldSide[i].seconds != fieldSide[j].seconds {
			return fieldSide[i].seconds > fieldSide[j].seconds
		}
		return fieldSide[i].id < fieldSide[j].id
	})
	sort.Slice(benchSide, func(i, j int) bool {
		if benchSide[i].seconds != benchSide[j].seconds {
			return benchSide[i].seconds < benchSide[j].seconds
		}
		return benchSide[i].id < benchSide[j].id
	})
	return fieldSide, benchSide
}

// pickCandidate scores every pairing and returns the single best one.
// Legal candidates strictly outrank illegal ones; an illegal pairing
// (position mismatch) scores at half weight and is only a fallback.
func pickCandidate(fieldSide, benchSide []*rotationPlayer, disablePositionSwaps bool) *swapCandidate {
	var best *swapCandidate
	consider := func(c swapCandidate) {
		if best == nil ||
			(c.legal && !best.legal) ||
			(c.legal == best.legal && c.score > best.score) {
			cc := c
			best = &cc
		}
	}

	for _, out := range fieldSide {
		for _, in := range benchSide {
			score := out.seconds - in.seconds
			if in.canPlay(out.position) {
				consider(swapCandidate{out: out, in: in, score: score, legal: true})
				continue
			}
			if !disablePositionSwaps {
				// Chained swap: the bench player takes a third player's
				// slot and that player moves into the vacated one.
				for _, passenger := range fieldSide {
					if passenger == out {
						continue
					}
					if in.canPlay(passenger.position) && passenger.canPlay(out.position) {
						consider(swapCandidate{out: out, in: in, passenger: passenger, score: score, legal: true})
						break
					}
				}
			}
			consider(swapCandidate{out: out, in: in, score: score / 2, legal: false})
		}
	}
	return best
}
