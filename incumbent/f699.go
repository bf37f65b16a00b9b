package incumbent

import "math"

// f699Gain implements the ITU-R F.699 piecewise-logarithmic reference
// antenna pattern. Each segment is clamped to be no greater than the
// previous segment's boundary value so the pattern is guaranteed
// monotonically non-increasing in theta even at the D/lambda, G0
// combinations where the textbook breakpoints are not perfectly
// continuous (testable property 5).
func f699Gain(thetaDeg, g0, dLambda float64) float64 {
	if dLambda <= 0 {
		dLambda = 1
	}
	g1 := 2 + 15*math.Log10(dLambda)
	thetaM := (20.0 / dLambda) * math.Sqrt(math.Max(g0-g1, 0))
	thetaR := 15.85 * math.Pow(dLambda, -0.6)

	switch {
	case thetaDeg < thetaM:
		g := g0 - 2.5e-3*math.Pow(dLambda*thetaDeg, 2)
		return math.Min(g, g0)
	case thetaDeg < thetaR:
		return math.Min(g1, g0)
	case thetaDeg <= 48:
		g := 32 - 25*math.Log10(thetaDeg)
		return math.Min(g, g1)
	default:
		return math.Min(-10.0, 32-25*math.Log10(48))
	}
}
