package facemetrics

// Analyze gates a capture and, when accepted, extracts its metrics. Rejections come back as
// *QualityError; a set missing required landmarks wraps ErrIncompleteLandmarks.
func Analyze(sig Signals, ls LandmarkSet, t QualityThresholds) (Metrics, error) {
	if err := ls.Validate(); err != nil {
		return Metrics{}, err
	}
	if qerr := t.Check(sig, ls); qerr != nil {
		return Metrics{}, qerr
	}
	return Extract(ls), nil
}
