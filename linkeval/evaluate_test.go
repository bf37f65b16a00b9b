package linkeval

import (
	"math"
	"testing"

	"github.com/open-afc-project/openafc-sub001/incumbent"
)

func baseRecord() *incumbent.Record {
	return &incumbent.Record{
		ID:           "FS-1",
		StartFreqMHz: 6100,
		StopFreqMHz:  6200,
		Primary: incumbent.Receiver{
			LatDeg:         40.01,
			LonDeg:         -105.0,
			HeightAGLM:     20,
			TerrainHeightM: 1500,
			Antenna:        incumbent.Antenna{Model: incumbent.ModelOmni, MaxGainDB: 35},
			FeederLossDB:   1,
			NoiseFloorDBm:  -110,
		},
	}
}

func TestINDecreasesWithDistance(t *testing.T) {
	rec := baseRecord()
	near := Link{
		RLAN: Endpoint{LatDeg: 40.009, LonDeg: -105.0, HeightAMSLM: 1520},
		RLANEIRP: 30, FreqMHz: 6150,
		Incumbent: rec, Model: FreeSpacePathLoss, SamplesPerProfile: 4,
	}
	far := near
	far.RLAN.LatDeg = 39.5

	inNear, err := IN(near)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inFar, err := IN(far)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inFar >= inNear {
		t.Errorf("expected farther RLAN to produce lower I/N: near=%v far=%v", inNear, inFar)
	}
}

func TestINRequiresPropagationModel(t *testing.T) {
	rec := baseRecord()
	l := Link{RLAN: Endpoint{LatDeg: 40.009, LonDeg: -105.0, HeightAMSLM: 1520}, RLANEIRP: 30, FreqMHz: 6150, Incumbent: rec}
	if _, err := IN(l); err != ErrNoProfile {
		t.Fatalf("expected ErrNoProfile, got %v", err)
	}
}

func TestINAppliesRepeaterChainGain(t *testing.T) {
	rec := baseRecord()
	rec.Repeaters = []incumbent.PassiveRepeater{
		{
			Kind:           incumbent.PRBackToBack,
			LatDeg:         40.005,
			LonDeg:         -105.0,
			RxHeightAGLM:   30,
			TxHeightAGLM:   30,
			TerrainHeightM: 1500,
			BackToBack: &incumbent.BackToBackParams{
				RxAntenna:    incumbent.Antenna{Model: incumbent.ModelF699, MaxGainDB: 35, DLambda: 100},
				SideAngleDeg: 30,
			},
		},
	}
	l := Link{
		RLAN: Endpoint{LatDeg: 40.009, LonDeg: -105.0, HeightAMSLM: 1520}, RLANEIRP: 30, FreqMHz: 6150,
		Incumbent: rec, Model: FreeSpacePathLoss, SamplesPerProfile: 4,
	}
	inVal, err := IN(l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.IsNaN(inVal) || math.IsInf(inVal, 0) {
		t.Fatalf("expected finite I/N with repeater chain, got %v", inVal)
	}
}

func TestClutterLossIsZeroOverBarrenAndPositiveOverUrban(t *testing.T) {
	if l := clutterLossDB(ClutterBarren, 6000); l != 0 {
		t.Errorf("expected zero clutter loss over barren ground, got %v", l)
	}
	if l := clutterLossDB(ClutterUrban, 6000); l <= 0 {
		t.Errorf("expected positive clutter loss over urban canopy, got %v", l)
	}
}

func TestBuildingEntryLossOnlyAppliesIndoor(t *testing.T) {
	if l := buildingEntryLossDB(false); l != 0 {
		t.Errorf("expected zero loss outdoor, got %v", l)
	}
	if l := buildingEntryLossDB(true); l <= 0 {
		t.Errorf("expected positive loss indoor, got %v", l)
	}
}

func TestPolarizationMismatchLossMinimalWhenAligned(t *testing.T) {
	aligned := polarizationMismatchLossDB(0, 0)
	crossed := polarizationMismatchLossDB(0, 90)
	if aligned >= crossed {
		t.Errorf("expected aligned polarization to have lower loss than crossed: aligned=%v crossed=%v", aligned, crossed)
	}
}

func TestFreeSpacePathLossIncreasesWithFrequency(t *testing.T) {
	profile := PathProfile{DistanceM: []float64{0, 5000}}
	low := FreeSpacePathLoss(40, -105, 1500, 40.05, -105, 1500, 3000, profile, ClutterBarren)
	high := FreeSpacePathLoss(40, -105, 1500, 40.05, -105, 1500, 6000, profile, ClutterBarren)
	if high <= low {
		t.Errorf("expected higher frequency to incur more path loss: low=%v high=%v", low, high)
	}
}
