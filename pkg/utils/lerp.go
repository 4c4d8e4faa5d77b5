package utils

// Interpolation helpers
//
// All helpers take a fraction t; t=0 yields a and t=1 yields b. Callers are
// responsible for keeping t in [0, 1] when clamping matters.

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpChannel blends two 8-bit colour channels and truncates the result.
// 0 -> 255 at t=0.5 is 127, not 128.
func LerpChannel(a, b uint8, t float64) uint8 {
	v := Lerp(float64(a), float64(b), t)
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
