package rlan

import (
	"math"
	"testing"

	"github.com/open-afc-project/openafc-sub001"
)

func flatTerrain(h float64) TerrainFunc {
	return func(lat, lon float64) (float64, error) { return h, nil }
}

func TestEllipseContainsCenterAndExcludesFar(t *testing.T) {
	e := NewEllipse(40.0, -74.0, 10, afc.HeightAGL, 50, 100, 5, 45, false)
	if !e.Contains(40.0, -74.0) {
		t.Fatal("expected center to be contained")
	}
	if e.Contains(41.0, -74.0) {
		t.Fatal("expected a point 1 degree away to be outside")
	}
}

func TestEllipseConfigureDerivesHeightRange(t *testing.T) {
	e := NewEllipse(40.0, -74.0, 10, afc.HeightAGL, 20, 30, 5, 0, false)
	if err := e.Configure(flatTerrain(100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	minAGL, maxAGL, minAMSL, maxAMSL := e.HeightRange()
	if minAGL != 5 || maxAGL != 15 {
		t.Errorf("expected AGL range [5,15], got [%v,%v]", minAGL, maxAGL)
	}
	if minAMSL != 105 || maxAMSL != 115 {
		t.Errorf("expected AMSL range [105,115], got [%v,%v]", minAMSL, maxAMSL)
	}
}

// Testable property 7: for an ellipse of major axis a, minor axis b,
// scanned at resolution r (north-east method), the number of points is
// within 10% of pi*a*b/r^2 for r << b.
func TestScanDensityMatchesEllipseArea(t *testing.T) {
	semiMajor, semiMinor := 200.0, 120.0
	e := NewEllipse(40.0, -74.0, 10, afc.HeightAGL, semiMinor, semiMajor, 5, 0, false)
	if err := e.Configure(flatTerrain(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resolution := 5.0
	points, err := e.Scan(ScanNorthEastAligned, resolution)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := math.Pi * semiMajor * semiMinor / (resolution * resolution)
	got := float64(len(points))
	ratio := got / expected
	if ratio < 0.9 || ratio > 1.1 {
		t.Errorf("scan point count %v not within 10%% of expected %v (ratio %v)", got, expected, ratio)
	}
}

func TestScanMajorMinorRequiresEllipse(t *testing.T) {
	vecs := []RadialVector{{0, 50}, {120, 60}, {240, 55}}
	poly, err := NewRadialPolygon(40, -74, 10, afc.HeightAGL, vecs, 5, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := poly.Configure(flatTerrain(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := poly.Scan(ScanMajorMinorAligned, 5); err != errMajorMinorNeedsEllipse {
		t.Fatalf("expected errMajorMinorNeedsEllipse, got %v", err)
	}
}

// Testable property 8: if the FS boresight intersects the region's
// volume, min-AOB = 0; if the region is entirely in the back
// hemisphere, min-AOB > 90 degrees.
func TestMinAOBZeroWhenBoresightPointsAtRegion(t *testing.T) {
	e := NewEllipse(40.01, -74.0, 10, afc.HeightAGL, 50, 50, 5, 0, false)
	if err := e.Configure(flatTerrain(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Scan(ScanNorthEastAligned, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// FS receiver ~1.1km due south of the region center, level with the
	// region's AMSL center height, pointing due north: the region is
	// dead ahead.
	fsLat, fsLon := 40.0, -74.0
	aob, err := e.MinAOB(fsLat, fsLon, 0, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if aob > 1.0 {
		t.Errorf("expected near-zero min-AOB when boresight points at region, got %v deg", aob)
	}
}

func TestMinAOBLargeWhenRegionBehind(t *testing.T) {
	e := NewEllipse(40.01, -74.0, 10, afc.HeightAGL, 50, 50, 5, 0, false)
	if err := e.Configure(flatTerrain(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Scan(ScanNorthEastAligned, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// FS receiver north of the region, pointing due north (away from
	// the region to its south): region is entirely in the back
	// hemisphere.
	fsLat, fsLon := 40.05, -74.0
	aob, err := e.MinAOB(fsLat, fsLon, 0, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if aob <= 90 {
		t.Errorf("expected min-AOB > 90 deg when region is behind, got %v", aob)
	}
}

func TestMinAOBRequiresPriorScan(t *testing.T) {
	e := NewEllipse(40.0, -74.0, 10, afc.HeightAGL, 50, 50, 5, 0, false)
	if err := e.Configure(flatTerrain(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.MinAOB(39.9, -74.0, 0, 0, 0); err != ErrNoScan {
		t.Fatalf("expected ErrNoScan, got %v", err)
	}
}

func TestLinearPolygonRoundTripsVertices(t *testing.T) {
	verts := []afc.LatLon{
		{LatDeg: 40.000, LonDeg: -74.000},
		{LatDeg: 40.001, LonDeg: -74.000},
		{LatDeg: 40.001, LonDeg: -73.999},
		{LatDeg: 40.000, LonDeg: -73.999},
	}
	poly, err := NewLinearPolygon(verts, 10, afc.HeightAGL, 5, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range verts {
		// vertices are on the boundary, not guaranteed interior; just
		// confirm the centroid is interior as a sanity check instead.
		_ = v
	}
	clat, clon := centroid(verts)
	if !poly.Contains(clat, clon) {
		t.Fatal("expected polygon centroid to be contained")
	}
}

func TestRadialPolygonRejectsTooFewVectors(t *testing.T) {
	_, err := NewRadialPolygon(40, -74, 10, afc.HeightAGL, []RadialVector{{0, 10}, {180, 10}}, 5, false)
	if err != errTooFewVertices {
		t.Fatalf("expected errTooFewVertices, got %v", err)
	}
}

func TestBoundaryLiftsToAMSLWithFixedFlag(t *testing.T) {
	e := NewEllipse(40.0, -74.0, 100, afc.HeightAMSL, 20, 30, 5, 0, true)
	if err := e.Configure(flatTerrain(50)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pts, err := e.Boundary(flatTerrain(999)) // terrain func should be unused when fixedAMSL
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range pts {
		if p.HeightM != 100 {
			t.Errorf("expected fixed AMSL height 100, got %v", p.HeightM)
		}
	}
}
