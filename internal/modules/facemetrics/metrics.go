package facemetrics

import "math"

type Metrics struct {
	JawlineAngle   float64 `json:"jawline_angle"`
	SymmetryScore  float64 `json:"symmetry_score"`
	PuffinessIndex float64 `json:"puffiness_index"`
}

const (
	minSymmetryScore  = 10.0
	minPuffinessIndex = 0.1
)

var symmetryPairs = [][2]int{
	{LeftEyeOuter, RightEyeOuter},
	{LeftEyeInner, RightEyeInner},
	{LeftMouth, RightMouth},
	{LeftCheekOuter, RightCheekOuter},
	{LeftJaw, RightJaw},
}

// Extract computes the metric triple from an accepted landmark set.
func Extract(ls LandmarkSet) Metrics {
	return Metrics{
		JawlineAngle:   round(jawlineAngle(ls), 1),
		SymmetryScore:  round(symmetryScore(ls), 1),
		PuffinessIndex: round(puffinessIndex(ls), 2),
	}
}

func jawlineAngle(ls LandmarkSet) float64 {
	chin := ls.Pixel(Chin)
	left := Angle(ls.Pixel(LeftCheekbone), ls.Pixel(LeftJaw), chin)
	right := Angle(ls.Pixel(RightCheekbone), ls.Pixel(RightJaw), chin)
	return (left + right) / 2
}

func symmetryScore(ls LandmarkSet) float64 {
	midX := ls.Pixel(Midline).X
	total := 0.0
	for _, pair := range symmetryPairs {
		dl := math.Abs(midX - ls.Pixel(pair[0]).X)
		dr := math.Abs(ls.Pixel(pair[1]).X - midX)
		avg := (dl + dr) / 2
		if avg > 0 {
			total += math.Abs(dl-dr) / avg
		}
	}
	avgDeviation := total / float64(len(symmetryPairs))
	return math.Max(minSymmetryScore, 100-avgDeviation*50)
}

func puffinessIndex(ls LandmarkSet) float64 {
	cheeks := Distance(ls.Pixel(LeftCheekOuter), ls.Pixel(RightCheekOuter))
	jaw := Distance(ls.Pixel(LeftJaw), ls.Pixel(RightJaw))
	ratio := 1.0
	if jaw > 0 {
		ratio = cheeks / jaw
	}
	return math.Max(minPuffinessIndex, ratio-1.0)
}
