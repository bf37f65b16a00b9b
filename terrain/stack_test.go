package terrain

import (
	"math"
	"testing"
)

type fakeGlobal struct{ elevation float64 }

func (f fakeGlobal) GetElevation(lat, lon float64) (float64, error) {
	return f.elevation, nil
}

func TestTerrainHeightFallsThroughToGlobal(t *testing.T) {
	s := NewStack(nil, nil, nil, nil, fakeGlobal{elevation: 42})
	terrainM, buildingM, _, source, err := s.TerrainHeight(10, 10, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if terrainM != 42 {
		t.Fatalf("expected 42, got %v", terrainM)
	}
	if !math.IsNaN(buildingM) {
		t.Fatalf("expected NaN building height, got %v", buildingM)
	}
	if source != SourceGlobal {
		t.Fatalf("expected SourceGlobal, got %v", source)
	}
}

func TestTerrainHeightNeverFails(t *testing.T) {
	s := NewStack(nil, nil, nil, nil, fakeGlobal{elevation: 0})
	_, _, _, _, err := s.TerrainHeight(-89.999, 179.999, false)
	if err != nil {
		t.Fatalf("global fallback must never fail, got %v", err)
	}
}

func TestCountsAccumulatePerSource(t *testing.T) {
	s := NewStack(nil, nil, nil, nil, fakeGlobal{elevation: 1})
	s.TerrainHeight(1, 1, false)
	s.TerrainHeight(2, 2, false)
	counts := s.Counts()
	if counts[SourceGlobal] != 2 {
		t.Fatalf("expected 2 global hits, got %d", counts[SourceGlobal])
	}
}

func TestGridFallbackClampsAndWraps(t *testing.T) {
	rows, cols := 181, 361
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(i)
	}
	g, err := NewGridFallback(rows, cols, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// north pole, prime meridian: row 0, col 180
	v, err := g.GetElevation(90, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := data[0*cols+180]
	if v != want {
		t.Fatalf("expected %v, got %v", want, v)
	}
}

func TestGridFallbackRejectsMismatchedData(t *testing.T) {
	_, err := NewGridFallback(10, 10, make([]float64, 5))
	if err == nil {
		t.Fatal("expected error for mismatched data length")
	}
}
