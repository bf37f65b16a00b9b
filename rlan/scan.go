package rlan

import (
	"errors"
	"math"

	"github.com/open-afc-project/openafc-sub001"
	"github.com/open-afc-project/openafc-sub001/polygon"
)

var errMajorMinorNeedsEllipse = errors.New("rlan: major-minor scan requires an ellipse region")

// Scan enumerates ground sample points over the footprint per spec
// §4.G, stashing the scan's ground-coverage boundary for a subsequent
// MinAOB call. param is resolution_m for the aligned methods, or
// points_per_degree for the lat-lon-grid method.
func (r *Region) Scan(method Method, param float64) ([]afc.Point, error) {
	if !r.configured {
		return nil, ErrNotConfigured
	}
	switch method {
	case ScanNorthEastAligned:
		return r.scanNorthEastAligned(param)
	case ScanMajorMinorAligned:
		return r.scanMajorMinorAligned(param)
	case ScanLatLonGrid:
		return r.scanLatLonGrid(param)
	default:
		return nil, ErrUnknownMethod
	}
}

// scanNorthEastAligned steps Δlat = res/R and Δlon = Δlat/cos(center_lat);
// since the local ENU basis already relates east/north metres to those
// same angular steps, stepping by resolutionM in the local frame is
// equivalent and avoids re-deriving lat/lon increments per row.
func (r *Region) scanNorthEastAligned(resolutionM float64) ([]afc.Point, error) {
	minE, maxE, minN, maxN := r.shape.BoundsEN()
	var out []afc.Point
	for n := minN; n <= maxN; n += resolutionM {
		for e := minE; e <= maxE; e += resolutionM {
			if !r.shape.ContainsEN(e, n) {
				continue
			}
			lat, lon := r.basis.ToLatLon(e, n)
			out = append(out, afc.Point{LatDeg: lat, LonDeg: lon})
		}
	}

	r.lastScanMethod = ScanNorthEastAligned
	r.lastScanBoundEN = r.shape.VerticesEN()
	return out, nil
}

// scanMajorMinorAligned steps in the ellipse's own canonical
// coordinates so grid rows/columns land on radial fractions; only
// defined for the ellipse shape.
func (r *Region) scanMajorMinorAligned(resolutionM float64) ([]afc.Point, error) {
	axesShape, ok := r.shape.(ellipseAxes)
	if !ok {
		return nil, errMajorMinorNeedsEllipse
	}
	semiMajorM, semiMinorM, orientationDeg := axesShape.axes()
	rad := orientationDeg * math.Pi / 180.0
	cosT, sinT := math.Cos(rad), math.Sin(rad)

	nMajor := int(math.Ceil(semiMajorM / resolutionM))
	nMinor := int(math.Ceil(semiMinorM / resolutionM))

	var out []afc.Point
	for i := -nMajor; i <= nMajor; i++ {
		major := float64(i) * resolutionM
		if math.Abs(major) > semiMajorM {
			continue
		}
		for j := -nMinor; j <= nMinor; j++ {
			minor := float64(j) * resolutionM
			u := major / semiMajorM
			v := minor / semiMinorM
			if u*u+v*v > 1.0 {
				continue
			}
			north := major*cosT - minor*sinT
			east := major*sinT + minor*cosT
			lat, lon := r.basis.ToLatLon(east, north)
			out = append(out, afc.Point{LatDeg: lat, LonDeg: lon})
		}
	}

	r.lastScanMethod = ScanMajorMinorAligned
	r.lastScanBoundEN = r.shape.VerticesEN()
	return out, nil
}

// scanLatLonGrid samples at a fixed points-per-degree resolution,
// marking a grid cell covered when its center lies inside the
// footprint, then reconstructs (via package polygon) the boundary of
// the covered cells. Row and column extents are not computed, so a
// cell the footprint crosses without containing its center is not
// covered.
func (r *Region) scanLatLonGrid(pointsPerDegree float64) ([]afc.Point, error) {
	minE, maxE, minN, maxN := r.shape.BoundsEN()

	cellSizeDeg := 1.0 / pointsPerDegree
	dLatDeg := cellSizeDeg
	dLonDeg := cellSizeDeg

	dNorthM := dLatDeg * math.Pi / 180.0 * afc.EarthRadiusM
	dEastM := dLonDeg * math.Pi / 180.0 * afc.EarthRadiusM * r.basis.CosLat

	nRows := int(math.Ceil((maxN-minN)/dNorthM)) + 1
	nCols := int(math.Ceil((maxE-minE)/dEastM)) + 1
	if nRows <= 0 || nCols <= 0 {
		return nil, nil
	}

	covered := make([][]bool, nRows)
	for i := range covered {
		covered[i] = make([]bool, nCols)
	}

	for i := 0; i < nRows; i++ {
		n := minN + float64(i)*dNorthM
		for j := 0; j < nCols; j++ {
			e := minE + float64(j)*dEastM
			if r.shape.ContainsEN(e+dEastM/2, n+dNorthM/2) {
				covered[i][j] = true
			}
		}
	}

	var out []afc.Point
	set := &polygon.ScanSet{Cells: covered, NX: nCols, NY: nRows, OriginX: 0, OriginY: 0, CellSize: 1}
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			if !covered[i][j] {
				continue
			}
			e := minE + (float64(j)+0.5)*dEastM
			n := minN + (float64(i)+0.5)*dNorthM
			lat, lon := r.basis.ToLatLon(e, n)
			out = append(out, afc.Point{LatDeg: lat, LonDeg: lon})
		}
	}

	boundaryPoly := set.Polygon()
	r.lastScanMethod = ScanLatLonGrid
	if boundaryPoly != nil && len(boundaryPoly.Rings) > 0 {
		ring := boundaryPoly.Rings[0]
		verts := make([][2]float64, len(ring))
		for i, p := range ring {
			e := minE + float64(p.X)*dEastM
			n := minN + float64(p.Y)*dNorthM
			verts[i] = [2]float64{e, n}
		}
		r.lastScanBoundEN = verts
	} else {
		r.lastScanBoundEN = r.shape.VerticesEN()
	}

	return out, nil
}
