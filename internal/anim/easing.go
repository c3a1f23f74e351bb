package anim

// Easing maps linear progress in [0,1] onto an animation curve.
type Easing func(t float64) float64

// Linear leaves progress unchanged.
func Linear(t float64) float64 { return t }

// EaseInOutCubic accelerates into the midpoint and decelerates out of it.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	p := 2*t - 2
	return 1 + p*p*p/2
}

// EaseOutCubic starts fast and settles gently.
func EaseOutCubic(t float64) float64 {
	p := t - 1
	return p*p*p + 1
}
