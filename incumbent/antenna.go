// Package incumbent implements the fixed-service incumbent data model
// of spec §4.H: antenna discrimination models, the per-antenna
// beamwidth search, and passive-repeater (back-to-back antenna,
// billboard reflector) discrimination.
package incumbent

import (
	"errors"
	"math"

	"github.com/open-afc-project/openafc-sub001/interp"
)

// Model identifies a supported antenna reference pattern.
type Model int

const (
	ModelOmni Model = iota
	ModelF699
	ModelF1245
	ModelF1336Omni
	ModelLUT
	ModelR2AIP07
)

// Category is the R2-AIP-07 sub-branch label, supplied with the
// incumbent catalog record.
type Category int

const (
	CategoryB1 Category = iota
	CategoryB2
	CategoryAKnownHighPerformance
	CategoryAUnknown
)

var (
	// ErrAntennaFrequency is fatal per spec §7: R2-AIP-07 only covers
	// the 5925-6425 and 6525-6875 MHz bands.
	ErrAntennaFrequency = errors.New("incumbent: frequency outside R2-AIP-07 supported bands")
)

// Antenna is one antenna discrimination model bound to its fixed
// parameters: max gain, dish diameter-to-wavelength ratio, and,
// for R2-AIP-07, its category label.
type Antenna struct {
	Model     Model
	MaxGainDB float64
	DLambda   float64
	Category  Category
	LUT       *interp.Linear // angle (deg) -> gain (dB), only for ModelLUT
}

// clampAngle folds an angle-off-boresight into [0, 180] degrees, per
// spec §7's antenna-model domain-error clamp.
func clampAngle(thetaDeg float64) float64 {
	theta := math.Abs(thetaDeg)
	for theta > 360 {
		theta -= 360
	}
	if theta > 180 {
		theta = 360 - theta
	}
	return theta
}

// Gain returns the antenna's gain in dB at angle-off-boresight
// thetaDeg, for the given link frequency (MHz) and whether the caller
// is asking about the main (false) or diversity (true) receiver —
// both only meaningful for R2-AIP-07.
func (a *Antenna) Gain(thetaDeg, freqMHz float64, diversity bool) (float64, error) {
	theta := clampAngle(thetaDeg)
	switch a.Model {
	case ModelOmni:
		return 0, nil
	case ModelF699:
		return f699Gain(theta, a.MaxGainDB, a.DLambda), nil
	case ModelF1245:
		return f1245Gain(theta, a.MaxGainDB, a.DLambda), nil
	case ModelF1336Omni:
		return f1336OmniGain(theta, a.MaxGainDB), nil
	case ModelLUT:
		if a.LUT == nil {
			return 0, errors.New("incumbent: LUT model requires a table")
		}
		return a.LUT.Eval(theta) + a.MaxGainDB, nil
	case ModelR2AIP07:
		if !r2aip07FrequencySupported(freqMHz) {
			return 0, ErrAntennaFrequency
		}
		return r2aip07Gain(theta, a.MaxGainDB, a.Category, diversity), nil
	default:
		return 0, errors.New("incumbent: unknown antenna model")
	}
}

// Beamwidth finds the smallest angle theta, in degrees, at which the
// model's gain has fallen attnDB below its max gain, per spec §4.H:
// bracket from 0 by doubling until the drop exceeds attnDB, then
// bisect to 1e-8 degrees.
func (a *Antenna) Beamwidth(attnDB, freqMHz float64) (float64, error) {
	if attnDB <= 0 {
		return 0, nil
	}
	drop := func(theta float64) (float64, error) {
		g, err := a.Gain(theta, freqMHz, false)
		if err != nil {
			return 0, err
		}
		return a.MaxGainDB - g, nil
	}

	lo, hi := 0.0, 1.0
	for hi < 180 {
		d, err := drop(hi)
		if err != nil {
			return 0, err
		}
		if d >= attnDB {
			break
		}
		lo = hi
		hi *= 2
	}
	if hi > 180 {
		hi = 180
	}

	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		d, err := drop(mid)
		if err != nil {
			return 0, err
		}
		if hi-lo < 1e-8 {
			break
		}
		if d < attnDB {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi, nil
}
