package facemetrics

import (
	"fmt"
	"math"
)

// Face-mesh topology indices used by the gate and the extractor.
const (
	NoseTip         = 1
	LeftEyeOuter    = 33
	LeftMouth       = 61
	LeftEyeInner    = 133
	Chin            = 152
	Midline         = 168
	LeftJaw         = 172
	LeftCheekbone   = 177
	LeftCheekOuter  = 234
	RightEyeOuter   = 263
	RightMouth      = 291
	RightEyeInner   = 362
	RightJaw        = 397
	RightCheekbone  = 401
	RightCheekOuter = 454

	MeshSize = 468
)

var requiredIndices = []int{
	NoseTip, LeftEyeOuter, LeftMouth, LeftEyeInner, Chin, Midline, LeftJaw, LeftCheekbone,
	LeftCheekOuter, RightEyeOuter, RightMouth, RightEyeInner, RightJaw, RightCheekbone, RightCheekOuter,
}

// LandmarkSet holds normalized [0,1] points plus the pixel size of the source image.
// Slots a detector did not report are NaN.
type LandmarkSet struct {
	Points []Point
	Width  int
	Height int
}

// NewSparseLandmarkSet returns a MeshSize set with every slot NaN.
func NewSparseLandmarkSet(width, height int) LandmarkSet {
	pts := make([]Point, MeshSize)
	for i := range pts {
		pts[i] = Point{X: math.NaN(), Y: math.NaN()}
	}
	return LandmarkSet{Points: pts, Width: width, Height: height}
}

// Validate reports ErrIncompleteLandmarks when any index the metrics depend on is absent.
func (ls LandmarkSet) Validate() error {
	if ls.Width <= 0 || ls.Height <= 0 {
		return fmt.Errorf("%w: invalid image size %dx%d", ErrIncompleteLandmarks, ls.Width, ls.Height)
	}
	for _, idx := range requiredIndices {
		if idx >= len(ls.Points) || !ls.Points[idx].valid() {
			return fmt.Errorf("%w: missing index %d", ErrIncompleteLandmarks, idx)
		}
	}
	return nil
}

func (ls LandmarkSet) At(i int) Point {
	return ls.Points[i]
}

func (ls LandmarkSet) Pixel(i int) Point {
	p := ls.Points[i]
	return Point{X: p.X * float64(ls.Width), Y: p.Y * float64(ls.Height)}
}

// Bounds is the bounding box of every reported point in normalized coordinates.
func (ls LandmarkSet) Bounds() (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range ls.Points {
		if !p.valid() {
			continue
		}
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, maxX, minY, maxY
}
