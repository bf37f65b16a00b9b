package incumbent

import (
	"math"
	"testing"
)

// Testable property 5: for F.699 and F.1245 at fixed G0 and D/lambda,
// gain is monotonically non-increasing for theta in [0, psi_M] and
// stays non-positive beyond the main lobe.
func TestF699MonotonicAndNonPositiveBeyondMainLobe(t *testing.T) {
	g0, dLambda := 40.0, 150.0
	prev := math.Inf(1)
	for theta := 0.0; theta <= 180; theta += 0.25 {
		g := f699Gain(theta, g0, dLambda)
		if g > prev+1e-9 {
			t.Fatalf("F.699 gain increased at theta=%v: prev=%v got=%v", theta, prev, g)
		}
		prev = g
	}
	if g := f699Gain(90, g0, dLambda); g > 0 {
		t.Errorf("expected non-positive gain well beyond main lobe, got %v", g)
	}
}

func TestF1245MonotonicAndNonPositiveBeyondMainLobe(t *testing.T) {
	g0, dLambda := 45.0, 200.0
	prev := math.Inf(1)
	for theta := 0.0; theta <= 180; theta += 0.25 {
		g := f1245Gain(theta, g0, dLambda)
		if g > prev+1e-9 {
			t.Fatalf("F.1245 gain increased at theta=%v: prev=%v got=%v", theta, prev, g)
		}
		prev = g
	}
	if g := f1245Gain(90, g0, dLambda); g > 0 {
		t.Errorf("expected non-positive gain well beyond main lobe, got %v", g)
	}
}

// Testable property 6: beamwidth(x) is increasing in x, beamwidth(0) =
// 0, beamwidth(G0) <= 180.
func TestBeamwidthConvergence(t *testing.T) {
	a := &Antenna{Model: ModelF699, MaxGainDB: 40, DLambda: 150}

	bw0, err := a.Beamwidth(0, 6000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bw0 != 0 {
		t.Errorf("expected beamwidth(0) = 0, got %v", bw0)
	}

	bwFull, err := a.Beamwidth(a.MaxGainDB, 6000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bwFull > 180 {
		t.Errorf("expected beamwidth(G0) <= 180, got %v", bwFull)
	}

	var prev float64
	for _, attn := range []float64{1, 5, 10, 20, 30} {
		bw, err := a.Beamwidth(attn, 6000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if bw < prev {
			t.Errorf("expected beamwidth to increase with attenuation: at %v dB got %v, prev %v", attn, bw, prev)
		}
		prev = bw
	}
}

func TestOmniGainAlwaysZero(t *testing.T) {
	a := &Antenna{Model: ModelOmni, MaxGainDB: 20}
	g, err := a.Gain(45, 6000, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g != 0 {
		t.Errorf("expected omni gain 0, got %v", g)
	}
}

func TestR2AIP07RejectsUnsupportedFrequency(t *testing.T) {
	a := &Antenna{Model: ModelR2AIP07, MaxGainDB: 40, Category: CategoryB1}
	if _, err := a.Gain(30, 5000, false); err != ErrAntennaFrequency {
		t.Fatalf("expected ErrAntennaFrequency, got %v", err)
	}
}

func TestR2AIP07LowAngleFallsBackToF699(t *testing.T) {
	a := &Antenna{Model: ModelR2AIP07, MaxGainDB: 40, Category: CategoryB1}
	g, err := a.Gain(2, 6000, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := f699Gain(2, 40, 100)
	if math.Abs(g-want) > 1e-9 {
		t.Errorf("expected F.699 fallback value %v, got %v", want, g)
	}
}

func TestClampAngleWrapsToZeroTo180(t *testing.T) {
	if got := clampAngle(200); math.Abs(got-160) > 1e-9 {
		t.Errorf("clampAngle(200) = %v, want 160", got)
	}
	if got := clampAngle(-30); math.Abs(got-30) > 1e-9 {
		t.Errorf("clampAngle(-30) = %v, want 30", got)
	}
}

func TestBackToBackDiscrimination(t *testing.T) {
	p := BackToBackParams{
		RxAntenna:    Antenna{Model: ModelF699, MaxGainDB: 35, DLambda: 100},
		SideAngleDeg: 30,
	}
	d, err := p.Discrimination(6000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d > 0 {
		t.Errorf("expected negative (lossy) discrimination off boresight, got %v", d)
	}
}

func TestBillboardDiscriminationUsesMaxOfD0D1(t *testing.T) {
	p := BillboardParams{
		WidthOverLambda:  10,
		HeightOverLambda: 8,
		IncidenceDeg:     10,
		SOverLambda:      5,
		Theta1Deg:        3,
	}
	d := p.Discrimination(1)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		t.Fatalf("expected finite discrimination, got %v", d)
	}
}
