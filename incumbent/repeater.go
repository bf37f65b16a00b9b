package incumbent

import "math"

// PRKind tags which passive-repeater variant a PR record carries.
type PRKind int

const (
	PRBackToBack PRKind = iota
	PRBillboard
)

// BackToBackParams are the matched reference-antenna parameters for a
// back-to-back antenna passive repeater.
type BackToBackParams struct {
	RxAntenna Antenna
	TxAntenna Antenna
	// SideAngleDeg is the angle off boresight used to read the side
	// lobe gain for the discrimination computation.
	SideAngleDeg float64
}

// Discrimination returns the back-to-back antenna's discrimination in
// dB: side-angle gain minus G0, per spec §4.H.
func (p BackToBackParams) Discrimination(freqMHz float64) (float64, error) {
	sideGain, err := p.RxAntenna.Gain(p.SideAngleDeg, freqMHz, false)
	if err != nil {
		return 0, err
	}
	return sideGain - p.RxAntenna.MaxGainDB, nil
}

// BillboardParams are the billboard-reflector geometry and reflection
// parameters of spec §4.H.
type BillboardParams struct {
	WidthOverLambda  float64
	HeightOverLambda float64
	IncidenceDeg     float64
	KS               float64
	Q                float64
	SOverLambda      float64
	Theta1Deg        float64
}

// Discrimination returns the billboard reflector's discrimination in
// dB at angle thetaDeg off the reflector's specular direction:
// max(D0, D1) where D0 is the flat-panel aperture loss and D1 is the
// three-branch sinc-based sidelobe function.
func (p BillboardParams) Discrimination(thetaDeg float64) float64 {
	incidenceRad := p.IncidenceDeg * math.Pi / 180.0
	d0 := -10 * math.Log10(4*math.Pi*p.WidthOverLambda*p.HeightOverLambda*math.Cos(incidenceRad))

	theta := math.Abs(thetaDeg)
	u := p.SOverLambda * math.Sin(theta*math.Pi/180.0)

	var d1 float64
	switch {
	case theta <= p.Theta1Deg:
		d1 = 20 * math.Log10(math.Abs(sinc(u)))
	case theta <= 20:
		d1 = -20 * math.Log10(math.Abs(math.Pi * u))
	default:
		u0 := p.SOverLambda * math.Sin(20*math.Pi/180.0)
		d1 = -20*math.Log10(math.Abs(math.Pi*u0)) - 0.4165*(theta-20)
	}

	return math.Max(d0, d1)
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	piX := math.Pi * x
	return math.Sin(piX) / piX
}

// PassiveRepeater is one node in an FS link's repeater chain: its
// position, the AGL heights of its rx/tx faces, the terrain height at
// its site, and its variant parameters. It stores no 3-D face
// positions, no incoming pointing vector and no per-segment path loss;
// face AMSL heights are derived on demand and discrimination is
// computed by Discrimination.
type PassiveRepeater struct {
	Kind PRKind

	LatDeg, LonDeg    float64
	RxHeightAGLM      float64
	TxHeightAGLM      float64
	TerrainHeightM    float64

	BackToBack *BackToBackParams
	Billboard  *BillboardParams
}

// RxHeightAMSLM and TxHeightAMSLM convert the repeater's AGL face
// heights to AMSL using its own terrain height.
func (p *PassiveRepeater) RxHeightAMSLM() float64 { return p.RxHeightAGLM + p.TerrainHeightM }
func (p *PassiveRepeater) TxHeightAMSLM() float64 { return p.TxHeightAGLM + p.TerrainHeightM }

// Discrimination dispatches to the repeater's variant-specific
// discrimination at the given incidence angle (back-to-back ignores
// thetaDeg, using its configured side angle instead).
func (p *PassiveRepeater) Discrimination(thetaDeg, freqMHz float64) (float64, error) {
	switch p.Kind {
	case PRBackToBack:
		return p.BackToBack.Discrimination(freqMHz)
	case PRBillboard:
		return p.Billboard.Discrimination(thetaDeg), nil
	default:
		return 0, nil
	}
}
