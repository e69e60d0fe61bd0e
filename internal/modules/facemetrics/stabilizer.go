package facemetrics

import "math"

const (
	jumpThreshold = 0.10
	historyWeight = 0.7
	readingWeight = 0.3
)

// Stabilize damps small changes against the previous stored triple and lets
// jumps larger than 10% of the previous value through untouched. A nil prev
// (first scan, or a previous scan missing its metrics) returns raw.
func Stabilize(raw Metrics, prev *Metrics) Metrics {
	if prev == nil {
		return raw
	}
	return Metrics{
		JawlineAngle:   smooth(raw.JawlineAngle, prev.JawlineAngle),
		SymmetryScore:  smooth(raw.SymmetryScore, prev.SymmetryScore),
		PuffinessIndex: smooth(raw.PuffinessIndex, prev.PuffinessIndex),
	}
}

func smooth(next, prev float64) float64 {
	if math.Abs(next-prev) > jumpThreshold*math.Abs(prev) {
		return next
	}
	return historyWeight*prev + readingWeight*next
}
