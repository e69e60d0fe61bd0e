package facemetrics

import (
	"fmt"
	"math"
)

type Reason string

const (
	ReasonTooDark             Reason = "too_dark"
	ReasonTooBlurry           Reason = "too_blurry"
	ReasonNotFacingCamera     Reason = "not_facing_camera"
	ReasonHeadNotLevel        Reason = "head_not_level"
	ReasonFaceCutOff          Reason = "face_cut_off"
	ReasonTooFar              Reason = "too_far"
	ReasonTooClose            Reason = "too_close"
	ReasonNoFace              Reason = "no_face"
	ReasonDecodeFailure       Reason = "decode_failure"
	ReasonIncompleteLandmarks Reason = "incomplete_landmarks"
)

type QualityThresholds struct {
	MinBrightness  float64
	MinSharpness   float64
	MaxFacingRatio float64
	MaxEyeTilt     float64
	EdgeMargin     float64
	MinFaceWidth   float64
	MaxFaceWidth   float64
}

func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		MinBrightness:  60,
		MinSharpness:   50,
		MaxFacingRatio: 2.0,
		MaxEyeTilt:     0.1,
		EdgeMargin:     0.01,
		MinFaceWidth:   0.20,
		MaxFaceWidth:   0.85,
	}
}

// Normalized replaces thresholds that would reject every capture with their defaults.
// Zero floors stay zero and disable their check.
func (t QualityThresholds) Normalized() QualityThresholds {
	d := DefaultQualityThresholds()
	if !(t.MaxFacingRatio > 0) || math.IsInf(t.MaxFacingRatio, 0) {
		t.MaxFacingRatio = d.MaxFacingRatio
	}
	if !(t.MaxEyeTilt > 0) {
		t.MaxEyeTilt = d.MaxEyeTilt
	}
	if t.EdgeMargin < 0 || t.EdgeMargin >= 0.5 {
		t.EdgeMargin = d.EdgeMargin
	}
	if t.MaxFaceWidth < 0 {
		t.MaxFaceWidth = d.MaxFaceWidth
	}
	return t
}

// QualityError is a capture rejection the user can fix by retaking the photo.
type QualityError struct {
	Reason  Reason
	Message string
}

func (e *QualityError) Error() string {
	return fmt.Sprintf("capture rejected (%s): %s", e.Reason, e.Message)
}

func reject(reason Reason, msg string) *QualityError {
	return &QualityError{Reason: reason, Message: msg}
}

// Check runs the capture checks in priority order and returns the first failure, or nil.
// ls must already have passed Validate.
func (t QualityThresholds) Check(sig Signals, ls LandmarkSet) *QualityError {
	t = t.Normalized()
	if sig.Brightness < t.MinBrightness {
		return reject(ReasonTooDark, "Lighting is too dark. Please face a light source.")
	}
	if sig.Sharpness < t.MinSharpness {
		return reject(ReasonTooBlurry, "Image is too blurry. Hold the camera still.")
	}

	nose := ls.At(NoseTip)
	leftDist := math.Abs(nose.X - ls.At(LeftCheekOuter).X)
	rightDist := math.Abs(nose.X - ls.At(RightCheekOuter).X)
	if rightDist == 0 {
		return reject(ReasonNotFacingCamera, "Please look straight at the camera.")
	}
	ratio := leftDist / rightDist
	maxRatio := t.MaxFacingRatio
	if maxRatio < 1 {
		maxRatio = 1 / maxRatio
	}
	if ratio < 1/maxRatio || ratio > maxRatio {
		return reject(ReasonNotFacingCamera, "Please look straight at the camera.")
	}

	if math.Abs(ls.At(LeftEyeOuter).Y-ls.At(RightEyeOuter).Y) > t.MaxEyeTilt {
		return reject(ReasonHeadNotLevel, "Please keep your head level.")
	}

	minX, maxX, minY, maxY := ls.Bounds()
	m := t.EdgeMargin
	if minX < m || minY < m || maxX > 1-m || maxY > 1-m {
		return reject(ReasonFaceCutOff, "Too close, face cut off. Move back so your whole face fits.")
	}

	width := maxX - minX
	if width < t.MinFaceWidth {
		return reject(ReasonTooFar, "Too far. Please move closer to the camera.")
	}
	if t.MaxFaceWidth > 0 && width > t.MaxFaceWidth {
		return reject(ReasonTooClose, "Too close. Please move back a little.")
	}
	return nil
}
