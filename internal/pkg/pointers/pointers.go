package pointers

func Ptr[T any](v T) *T { return &v }

func Float64(v float64) *float64 { return &v }

// Float64Or dereferences p, returning fallback when p is nil.
func Float64Or(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}
