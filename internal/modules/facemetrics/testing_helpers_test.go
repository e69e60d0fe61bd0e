package facemetrics

// frontalFace is a level, centered, perfectly symmetric face on a 1000x1000 capture.
func frontalFace() LandmarkSet {
	ls := NewSparseLandmarkSet(1000, 1000)
	set := func(i int, x, y float64) { ls.Points[i] = Point{X: x, Y: y} }
	set(Midline, 0.50, 0.45)
	set(NoseTip, 0.50, 0.50)
	set(LeftCheekOuter, 0.30, 0.50)
	set(RightCheekOuter, 0.70, 0.50)
	set(LeftEyeOuter, 0.38, 0.40)
	set(RightEyeOuter, 0.62, 0.40)
	set(LeftEyeInner, 0.45, 0.40)
	set(RightEyeInner, 0.55, 0.40)
	set(LeftMouth, 0.42, 0.65)
	set(RightMouth, 0.58, 0.65)
	set(LeftJaw, 0.34, 0.70)
	set(RightJaw, 0.66, 0.70)
	set(LeftCheekbone, 0.32, 0.55)
	set(RightCheekbone, 0.68, 0.55)
	set(Chin, 0.50, 0.85)
	return ls
}

func (ls LandmarkSet) with(i int, x, y float64) LandmarkSet {
	pts := append([]Point(nil), ls.Points...)
	pts[i] = Point{X: x, Y: y}
	return LandmarkSet{Points: pts, Width: ls.Width, Height: ls.Height}
}

var goodSignals = Signals{Brightness: 120, Sharpness: 300}
