package incumbent

import "math"

// f1245Gain implements the ITU-R F.1245 reference antenna pattern: the
// same piecewise shape as F.699 with a tighter near-in sidelobe floor,
// and a D/lambda-dependent main-lobe breakpoint psi_M. Segments are
// clamped against the previous boundary for the same monotonicity
// guarantee as f699Gain.
func f1245Gain(thetaDeg, g0, dLambda float64) float64 {
	if dLambda <= 0 {
		dLambda = 1
	}
	g1 := -21 + 25*math.Log10(dLambda)
	psiM := (20.0 / dLambda) * math.Sqrt(math.Max(g0-g1, 0))
	thetaR := 15.85 * math.Pow(dLambda, -0.6)

	switch {
	case thetaDeg < psiM:
		g := g0 - 2.5e-3*math.Pow(dLambda*thetaDeg, 2)
		return math.Min(g, g0)
	case thetaDeg < thetaR:
		return math.Min(g1, g0)
	case thetaDeg <= 48:
		g := 29 - 25*math.Log10(thetaDeg)
		return math.Min(g, g1)
	default:
		return math.Min(-13.0, 29-25*math.Log10(48))
	}
}
