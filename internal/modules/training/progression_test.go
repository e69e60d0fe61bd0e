package training

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
)

func item(e Exercise, pos int) PlanItem {
	reps, dur := initialLoad(e)
	return PlanItem{Exercise: e, Reps: reps, DurationSeconds: dur, Sets: e.DefaultSets, Position: pos, BaseLevel: 1}
}

func TestAdvanceCountsWithoutLevelUpOffCadence(t *testing.T) {
	e := ex("chin lift", CategoryJawline, 10, 0)
	state := PlanState{Level: 1, SessionsCompleted: 0, Items: []PlanItem{item(e, 1)}}
	next, out := DefaultRules().Advance(state, []Exercise{e}, nil)
	if next.SessionsCompleted != 1 || next.Level != 1 || out.LevelIncreased {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if next.Items[0].Reps != 10 {
		t.Fatalf("load should not change off cadence, got %d", next.Items[0].Reps)
	}
}

func TestAdvanceIncreasesLoadOnCadence(t *testing.T) {
	reps := ex("chin lift", CategoryJawline, 10, 0)
	timed := ex("cheek hold", CategoryPuffiness, 0, 30)
	state := PlanState{Level: 1, SessionsCompleted: 6, Items: []PlanItem{item(reps, 1), item(timed, 2)}}
	next, out := DefaultRules().Advance(state, []Exercise{reps, timed}, nil)
	if !out.LevelIncreased || next.Level != 2 || next.SessionsCompleted != 7 {
		t.Fatalf("expected level 2 at session 7, got %+v", out)
	}
	if next.Items[0].Reps != 11 || next.Items[0].DurationSeconds != 0 {
		t.Fatalf("reps item: %+v", next.Items[0])
	}
	if next.Items[1].DurationSeconds != 35 || next.Items[1].Reps != 0 {
		t.Fatalf("timed item: %+v", next.Items[1])
	}
	if len(out.Changed) != 2 {
		t.Fatalf("expected both items changed, got %v", out.Changed)
	}
	if state.Items[0].Reps != 10 {
		t.Fatalf("input state must not be mutated")
	}
}

func TestAdvanceClampsWhenNoSubstituteExists(t *testing.T) {
	hold := ex("long hold", CategoryPuffiness, 0, 55)
	other := ex("jaw push", CategoryJawline, 8, 0)
	state := PlanState{Level: 1, SessionsCompleted: 6, Items: []PlanItem{item(hold, 1), item(other, 2)}}
	next, out := DefaultRules().Advance(state, []Exercise{hold, other}, rand.New(rand.NewPCG(1, 2)))
	if next.Items[0].Exercise.ID != hold.ID {
		t.Fatalf("exercise should stay in the plan")
	}
	if next.Items[0].DurationSeconds != 60 {
		t.Fatalf("expected clamp at 60s, got %d", next.Items[0].DurationSeconds)
	}
	if len(out.Clamped) != 1 || out.Clamped[0] != 0 || len(out.Substitutions) != 0 {
		t.Fatalf("unexpected outcome %+v", out)
	}

	// Another cadence later it is still held at the ceiling.
	next.SessionsCompleted = 13
	again, _ := DefaultRules().Advance(next, []Exercise{hold, other}, nil)
	if again.Items[0].DurationSeconds != 60 {
		t.Fatalf("expected to stay at 60s, got %d", again.Items[0].DurationSeconds)
	}
}

func TestAdvanceSubstitutesSaturatedExercise(t *testing.T) {
	hold := ex("long hold", CategoryPuffiness, 0, 55)
	fresh := ex("lymph sweep", CategoryPuffiness, 0, 20)
	other := ex("jaw push", CategoryJawline, 8, 0)
	catalog := []Exercise{hold, fresh, other}
	state := PlanState{Level: 1, SessionsCompleted: 6, Items: []PlanItem{item(hold, 1), item(other, 2)}}

	next, out := DefaultRules().Advance(state, catalog, rand.New(rand.NewPCG(5, 6)))
	got := next.Items[0]
	if got.Exercise.ID != fresh.ID || got.Position != 1 {
		t.Fatalf("expected substitution in place, got %+v", got)
	}
	if got.DurationSeconds != 20 || got.BaseLevel != 2 {
		t.Fatalf("replacement should start from its defaults at the new level, got %+v", got)
	}
	if len(out.Substitutions) != 1 || out.Substitutions[0].From.ID != hold.ID {
		t.Fatalf("unexpected substitutions %+v", out.Substitutions)
	}

	// The replacement progresses from its own baseline.
	next.SessionsCompleted = 13
	later, _ := DefaultRules().Advance(next, catalog, nil)
	if later.Items[0].DurationSeconds != 25 {
		t.Fatalf("expected 25s one level after substitution, got %d", later.Items[0].DurationSeconds)
	}
}

func TestAdvanceRepsCeiling(t *testing.T) {
	a := ex("a", CategorySymmetry, 11, 0)
	b := ex("b", CategorySymmetry, 6, 0)
	state := PlanState{Level: 1, SessionsCompleted: 6, Items: []PlanItem{item(a, 1)}}
	next, out := DefaultRules().Advance(state, []Exercise{a, b}, nil)
	if next.Items[0].Exercise.ID != b.ID || next.Items[0].Reps != 6 {
		t.Fatalf("expected substitution at 12 reps, got %+v (%+v)", next.Items[0], out)
	}
}

func TestAdvanceNeverDuplicatesOrExceedsCeiling(t *testing.T) {
	var catalog []Exercise
	for i := 0; i < 4; i++ {
		catalog = append(catalog, ex(string(rune('a'+i))+"-timed", CategoryPuffiness, 0, 30+5*i))
		catalog = append(catalog, ex(string(rune('a'+i))+"-reps", CategoryJawline, 6+i, 0))
	}
	sel := Select(catalog, Preferences{SharperJawline: true, ReducePuffiness: true}, SelectOptions{Total: 4, Rand: rand.New(rand.NewPCG(2, 2))})
	state := PlanState{Level: 1}
	for _, s := range sel {
		state.Items = append(state.Items, PlanItem{Exercise: s.Exercise, Reps: s.Reps, DurationSeconds: s.DurationSeconds, Sets: s.Sets, Position: s.Position, BaseLevel: 1})
	}

	rules := DefaultRules()
	rnd := rand.New(rand.NewPCG(8, 8))
	for n := 0; n < 200; n++ {
		state, _ = rules.Advance(state, catalog, rnd)
		seen := map[uuid.UUID]bool{}
		for _, it := range state.Items {
			if seen[it.Exercise.ID] {
				t.Fatalf("session %d: duplicate %s", n, it.Exercise.Name)
			}
			seen[it.Exercise.ID] = true
			if it.Reps < 0 || it.DurationSeconds < 0 {
				t.Fatalf("session %d: negative load %+v", n, it)
			}
			if it.Reps > 0 && it.DurationSeconds > 0 {
				t.Fatalf("session %d: both reps and duration set %+v", n, it)
			}
			if it.DurationSeconds > rules.DurationCeiling || it.Reps > rules.RepsCeiling {
				t.Fatalf("session %d: load above ceiling %+v", n, it)
			}
		}
	}
	if state.SessionsCompleted != 200 || state.Level != 1+200/7 {
		t.Fatalf("unexpected counters: %d sessions, level %d", state.SessionsCompleted, state.Level)
	}
}

func TestNormalizedFillsNonPositiveFields(t *testing.T) {
	got := Rules{Cadence: 3, DurationStep: -1, RepsStep: 2, DurationCeiling: 0, RepsCeiling: 0}.Normalized()
	want := Rules{Cadence: 3, DurationStep: 5, RepsStep: 2, DurationCeiling: 60, RepsCeiling: 12}
	if got != want {
		t.Fatalf("Normalized() = %+v, want %+v", got, want)
	}
	if (Rules{}).Normalized() != DefaultRules() {
		t.Fatalf("zero rules should normalize to the defaults")
	}
}

func TestAdvanceWithZeroCeilingKeepsLoad(t *testing.T) {
	a := ex("a", CategorySymmetry, 10, 0)
	b := ex("b", CategorySymmetry, 6, 0)
	rules := DefaultRules()
	rules.RepsCeiling = 0
	state := PlanState{Level: 1, SessionsCompleted: 6, Items: []PlanItem{item(a, 1)}}
	next, out := rules.Advance(state, []Exercise{a, b}, nil)
	got := next.Items[0]
	if got.Exercise.ID != a.ID || got.Reps != 11 || got.DurationSeconds != 0 {
		t.Fatalf("expected a at 11 reps under the default ceiling, got %+v (%+v)", got, out)
	}
	if len(out.Substitutions) != 0 {
		t.Fatalf("unexpected substitutions %+v", out.Substitutions)
	}
}
