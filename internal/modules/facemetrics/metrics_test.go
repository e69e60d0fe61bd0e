package facemetrics

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestExtractFrontalFace(t *testing.T) {
	ls := frontalFace()
	m := Extract(ls)
	if m.SymmetryScore != 100 {
		t.Fatalf("symmetry: got %v want 100", m.SymmetryScore)
	}
	if m.PuffinessIndex != 0.25 {
		t.Fatalf("puffiness: got %v want 0.25", m.PuffinessIndex)
	}
	want := round(Angle(ls.Pixel(LeftCheekbone), ls.Pixel(LeftJaw), ls.Pixel(Chin)), 1)
	if m.JawlineAngle != want {
		t.Fatalf("jawline: got %v want %v", m.JawlineAngle, want)
	}
}

func TestExtractFloors(t *testing.T) {
	// Every right-hand point sits on the midline: maximum deviation.
	ls := frontalFace()
	midX := ls.At(Midline).X
	for _, pair := range symmetryPairs {
		ls = ls.with(pair[1], midX, ls.At(pair[1]).Y)
	}
	m := Extract(ls)
	if m.SymmetryScore != 10 {
		t.Fatalf("symmetry floor: got %v", m.SymmetryScore)
	}

	// Cheeks narrower than the jaw.
	narrow := frontalFace().with(LeftCheekOuter, 0.40, 0.5).with(RightCheekOuter, 0.60, 0.5)
	if got := Extract(narrow).PuffinessIndex; got != 0.1 {
		t.Fatalf("puffiness floor: got %v", got)
	}

	// Zero jaw width falls back to ratio 1.0.
	collapsed := frontalFace().with(LeftJaw, 0.5, 0.7).with(RightJaw, 0.5, 0.7)
	if got := Extract(collapsed).PuffinessIndex; got != 0.1 {
		t.Fatalf("collapsed jaw: got %v", got)
	}
}

func TestExtractRangesHoldForRandomFaces(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for n := 0; n < 500; n++ {
		ls := NewSparseLandmarkSet(640+r.IntN(1000), 480+r.IntN(1000))
		for _, idx := range requiredIndices {
			ls.Points[idx] = Point{X: r.Float64(), Y: r.Float64()}
		}
		m := Extract(ls)
		if m.SymmetryScore < 10 || m.SymmetryScore > 100 {
			t.Fatalf("symmetry out of range: %v", m.SymmetryScore)
		}
		if m.PuffinessIndex < 0.1 {
			t.Fatalf("puffiness below floor: %v", m.PuffinessIndex)
		}
		if m.JawlineAngle < 0 || m.JawlineAngle > 180 || math.IsNaN(m.JawlineAngle) {
			t.Fatalf("jawline out of range: %v", m.JawlineAngle)
		}
	}
}
