package facemetrics

import "testing"

func TestDeriveTargets(t *testing.T) {
	m := Metrics{JawlineAngle: 130.0, SymmetryScore: 80.0, PuffinessIndex: 0.40}
	got := DeriveTargets(m)
	want := Targets{JawlineAngle: 123.5, SymmetryScore: 88.0, PuffinessIndex: 0.36}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
	if again := DeriveTargets(m); again != got {
		t.Fatalf("expected identical output for identical input")
	}
}

func TestDeriveTargetsCapsSymmetry(t *testing.T) {
	for _, s := range []float64{91, 95.5, 100} {
		if got := DeriveTargets(Metrics{JawlineAngle: 120, SymmetryScore: s, PuffinessIndex: 0.2}).SymmetryScore; got != 100 {
			t.Fatalf("symmetry %v: target %v should cap at 100", s, got)
		}
	}
}
