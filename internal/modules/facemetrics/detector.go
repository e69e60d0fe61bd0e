package facemetrics

import (
	"context"
	"errors"
)

var (
	ErrNoFace              = errors.New("no face detected")
	ErrDecodeFailure       = errors.New("image could not be decoded")
	ErrIncompleteLandmarks = errors.New("landmark set incomplete")
)

// Detector finds a face in an encoded image and reports its landmarks.
type Detector interface {
	Detect(ctx context.Context, img []byte, width, height int) (LandmarkSet, error)
}

// DetectionReason maps a detector sentinel onto a scan failure reason code.
func DetectionReason(err error) (Reason, string, bool) {
	switch {
	case errors.Is(err, ErrNoFace):
		return ReasonNoFace, "No face detected. Make sure your whole face is visible.", true
	case errors.Is(err, ErrDecodeFailure):
		return ReasonDecodeFailure, "The photo could not be read. Please upload a JPEG or PNG.", true
	case errors.Is(err, ErrIncompleteLandmarks):
		return ReasonIncompleteLandmarks, "Could not map your facial features. Please retake the photo.", true
	}
	return "", "", false
}
