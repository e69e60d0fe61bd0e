package training

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// Rules are the progression policy constants.
type Rules struct {
	Cadence         int
	DurationStep    int
	RepsStep        int
	DurationCeiling int
	RepsCeiling     int
}

func DefaultRules() Rules {
	return Rules{
		Cadence:         7,
		DurationStep:    5,
		RepsStep:        1,
		DurationCeiling: 60,
		RepsCeiling:     12,
	}
}

// Normalized replaces every non-positive field with its default, so a partial
// override never yields a zero ceiling or a stalled cadence.
func (r Rules) Normalized() Rules {
	d := DefaultRules()
	if r.Cadence <= 0 {
		r.Cadence = d.Cadence
	}
	if r.DurationStep <= 0 {
		r.DurationStep = d.DurationStep
	}
	if r.RepsStep <= 0 {
		r.RepsStep = d.RepsStep
	}
	if r.DurationCeiling <= 0 {
		r.DurationCeiling = d.DurationCeiling
	}
	if r.RepsCeiling <= 0 {
		r.RepsCeiling = d.RepsCeiling
	}
	return r
}

// PlanItem is a plan exercise as progression sees it. BaseLevel is the difficulty
// level at which the exercise entered the plan.
type PlanItem struct {
	Exercise        Exercise
	Reps            int
	DurationSeconds int
	Sets            int
	Position        int
	BaseLevel       int
}

type PlanState struct {
	Level             int
	SessionsCompleted int
	Items             []PlanItem
}

type Substitution struct {
	Position int
	From     Exercise
	To       Exercise
}

type Outcome struct {
	SessionsCompleted int
	Level             int
	LevelIncreased    bool
	// Changed holds the indexes into PlanState.Items whose load or exercise changed.
	Changed       []int
	Substitutions []Substitution
	Clamped       []int
}

// Advance records one completed session. Every Cadence sessions the level rises and
// each item's load is recomputed from its catalog default; an item reaching its ceiling
// is swapped for an unused exercise of the same category, or held at the ceiling when
// the category has nothing left.
func (r Rules) Advance(state PlanState, catalog []Exercise, rnd *rand.Rand) (PlanState, Outcome) {
	r = r.Normalized()
	next := PlanState{
		Level:             max(1, state.Level),
		SessionsCompleted: state.SessionsCompleted + 1,
		Items:             append([]PlanItem(nil), state.Items...),
	}
	out := Outcome{SessionsCompleted: next.SessionsCompleted, Level: next.Level}

	if next.SessionsCompleted%r.Cadence != 0 {
		return next, out
	}

	next.Level++
	out.Level = next.Level
	out.LevelIncreased = true

	inPlan := make(map[uuid.UUID]bool, len(next.Items))
	for _, it := range next.Items {
		inPlan[it.Exercise.ID] = true
	}

	var pick *rand.Rand
	for i, it := range next.Items {
		load, ceiling := r.target(it, next.Level)
		if load < ceiling {
			if r.apply(&next.Items[i], load) {
				out.Changed = append(out.Changed, i)
			}
			continue
		}

		if pick == nil {
			pick = newRand(rnd)
		}
		if repl, ok := substitute(it.Exercise, catalog, inPlan, pick); ok {
			delete(inPlan, it.Exercise.ID)
			inPlan[repl.ID] = true
			reps, dur := initialLoad(repl)
			next.Items[i] = PlanItem{
				Exercise:        repl,
				Reps:            min(reps, r.RepsCeiling),
				DurationSeconds: min(dur, r.DurationCeiling),
				Sets:            repl.DefaultSets,
				Position:        it.Position,
				BaseLevel:       next.Level,
			}
			out.Changed = append(out.Changed, i)
			out.Substitutions = append(out.Substitutions, Substitution{Position: it.Position, From: it.Exercise, To: repl})
			continue
		}

		if r.apply(&next.Items[i], ceiling) {
			out.Changed = append(out.Changed, i)
		}
		out.Clamped = append(out.Clamped, i)
	}
	return next, out
}

// target is the load an item should carry at level, with the ceiling for its kind.
func (r Rules) target(it PlanItem, level int) (load, ceiling int) {
	base := it.BaseLevel
	if base <= 0 {
		base = 1
	}
	steps := max(0, level-base)
	if it.Exercise.IsTimed() {
		return it.Exercise.DefaultDurationSeconds + r.DurationStep*steps, r.DurationCeiling
	}
	return max(0, it.Exercise.DefaultReps) + r.RepsStep*steps, r.RepsCeiling
}

func (r Rules) apply(it *PlanItem, load int) bool {
	load = max(0, load)
	if it.Exercise.IsTimed() {
		changed := it.DurationSeconds != load || it.Reps != 0
		it.DurationSeconds, it.Reps = load, 0
		return changed
	}
	changed := it.Reps != load || it.DurationSeconds != 0
	it.Reps, it.DurationSeconds = load, 0
	return changed
}

func substitute(current Exercise, catalog []Exercise, inPlan map[uuid.UUID]bool, rnd *rand.Rand) (Exercise, bool) {
	var candidates []Exercise
	for _, ex := range catalog {
		if ex.Category == current.Category && !inPlan[ex.ID] && ex.ID != current.ID {
			candidates = append(candidates, ex)
		}
	}
	if len(candidates) == 0 {
		return Exercise{}, false
	}
	return candidates[rnd.IntN(len(candidates))], true
}
