package facemetrics

import "math"

type Targets struct {
	JawlineAngle   float64 `json:"target_jawline_angle"`
	SymmetryScore  float64 `json:"target_symmetry_score"`
	PuffinessIndex float64 `json:"target_puffiness_index"`
}

// DeriveTargets asks for a 5% sharper jaw, 10% more symmetry (capped at 100) and 10% less puffiness.
func DeriveTargets(m Metrics) Targets {
	return Targets{
		JawlineAngle:   round(m.JawlineAngle*0.95, 1),
		SymmetryScore:  math.Min(100, round(m.SymmetryScore*1.10, 1)),
		PuffinessIndex: round(m.PuffinessIndex*0.90, 2),
	}
}
