package facemetrics

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) valid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y)
}

// Angle returns the angle at b, in degrees, between the rays b->a and b->c.
// A zero-length ray yields 0.
func Angle(a, b, c Point) float64 {
	bax, bay := a.X-b.X, a.Y-b.Y
	bcx, bcy := c.X-b.X, c.Y-b.Y
	na := math.Hypot(bax, bay)
	nc := math.Hypot(bcx, bcy)
	if na == 0 || nc == 0 {
		return 0
	}
	cos := (bax*bcx + bay*bcy) / (na * nc)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
