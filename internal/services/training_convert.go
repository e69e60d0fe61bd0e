package services

import (
	"github.com/google/uuid"

	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/modules/facemetrics"
	"github.com/yungbote/facefit-backend/internal/modules/training"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
	"github.com/yungbote/facefit-backend/internal/pkg/pointers"
)

// trainingCatalog converts catalog rows, dropping any whose category is unknown.
func trainingCatalog(log *logger.Logger, rows []*types.Exercise) ([]training.Exercise, map[uuid.UUID]*types.Exercise) {
	out := make([]training.Exercise, 0, len(rows))
	byID := make(map[uuid.UUID]*types.Exercise, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		ex, ok := trainingExercise(row)
		if !ok {
			log.Warn("Skipping exercise with unknown category", "exercise_id", row.ID, "target_metric", row.TargetMetric)
			continue
		}
		out = append(out, ex)
		byID[row.ID] = row
	}
	return out, byID
}

func trainingExercise(row *types.Exercise) (training.Exercise, bool) {
	cat, err := training.ParseCategory(row.TargetMetric)
	if err != nil {
		return training.Exercise{}, false
	}
	return training.Exercise{
		ID:                     row.ID,
		Name:                   row.Name,
		Category:               cat,
		DefaultReps:            row.DefaultReps,
		DefaultDurationSeconds: row.DefaultDurationSeconds,
		DefaultSets:            row.DefaultSets,
	}, true
}

// planState lifts a stored plan into progression state. Items whose exercise is no longer in
// the catalog keep their identity so they are never mistaken for a free slot, and progress
// from their stored load so a timed item stays timed.
func planState(plan *types.WorkoutPlan, byID map[uuid.UUID]*types.Exercise) training.PlanState {
	st := training.PlanState{
		Level:             plan.DifficultyLevel,
		SessionsCompleted: plan.SessionsCompleted,
		Items:             make([]training.PlanItem, 0, len(plan.Exercises)),
	}
	for _, pe := range plan.Exercises {
		row := byID[pe.ExerciseID]
		if row == nil {
			row = pe.Exercise
		}
		base := pe.BaseLevel
		var ex training.Exercise
		ok := false
		if row != nil {
			ex, ok = trainingExercise(row)
		}
		if !ok {
			ex = storedLoadExercise(pe)
			if row != nil {
				ex.Name = row.Name
			}
			base = max(1, plan.DifficultyLevel)
		}
		ex.ID = pe.ExerciseID
		st.Items = append(st.Items, training.PlanItem{
			Exercise:        ex,
			Reps:            pe.Reps,
			DurationSeconds: pe.DurationSeconds,
			Sets:            pe.Sets,
			Position:        pe.Position,
			BaseLevel:       base,
		})
	}
	return st
}

// storedLoadExercise stands in for a missing catalog row, taking its load kind and
// defaults from the plan row. Its category is empty, so it is never substituted.
func storedLoadExercise(pe types.PlanExercise) training.Exercise {
	ex := training.Exercise{DefaultSets: pe.Sets}
	if pe.DurationSeconds > 0 {
		ex.DefaultDurationSeconds = pe.DurationSeconds
	} else {
		ex.DefaultReps = pe.Reps
	}
	return ex
}

func scanMetrics(s *types.Scan) *facemetrics.Metrics {
	if !s.HasMetrics() {
		return nil
	}
	return &facemetrics.Metrics{
		JawlineAngle:   *s.JawlineAngle,
		SymmetryScore:  *s.SymmetryScore,
		PuffinessIndex: *s.PuffinessIndex,
	}
}

func goalTargets(userID uuid.UUID, t facemetrics.Targets) *types.UserGoal {
	prefs := training.DefaultPreferences()
	return &types.UserGoal{
		UserID:               userID,
		TargetJawlineAngle:   pointers.Float64(t.JawlineAngle),
		TargetSymmetryScore:  pointers.Float64(t.SymmetryScore),
		TargetPuffinessIndex: pointers.Float64(t.PuffinessIndex),
		// only used when the row is new; existing preferences are kept
		WantsSharperJawline: prefs.SharperJawline,
		WantsLessPuffiness:  prefs.ReducePuffiness,
		WantsBetterSymmetry: prefs.ImproveSymmetry,
	}
}

func goalPreferences(g *types.UserGoal) training.Preferences {
	if g == nil {
		return training.DefaultPreferences()
	}
	return training.Preferences{
		SharperJawline:  g.WantsSharperJawline,
		ReducePuffiness: g.WantsLessPuffiness,
		ImproveSymmetry: g.WantsBetterSymmetry,
	}
}
