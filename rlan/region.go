// Package rlan implements the RLAN uncertainty-region model of spec
// §4.G: ellipse, linear-polygon, and radial-polygon region variants
// sharing one set of containment, scan, boundary, and min-angle-off-
// boresight operations, dispatched on a fixed shape tag per the
// tagged-variant treatment used throughout this engine in place of
// the source's deep inheritance.
package rlan

import (
	"errors"
	"math"

	"github.com/open-afc-project/openafc-sub001"
)

// Method selects a scan-point enumeration strategy.
type Method int

const (
	ScanNorthEastAligned Method = iota
	ScanMajorMinorAligned
	ScanLatLonGrid
)

// TerrainFunc resolves the terrain height (AMSL, metres) at a point;
// callers typically wire this to a terrain.Stack lookup.
type TerrainFunc func(latDeg, lonDeg float64) (float64, error)

// Shape is the ground-footprint contract each region variant
// implements; Region composes a Shape with the configure/scan/min-AOB
// machinery that is common to all three variants.
type Shape interface {
	// ContainsEN reports whether the local east/north metre offset
	// from the region's center lies within the footprint.
	ContainsEN(eastM, northM float64) bool
	// BoundsEN returns the shape's axis-aligned bounding box in local
	// east/north metres.
	BoundsEN() (minE, maxE, minN, maxN float64)
	// VerticesEN returns the shape's ground-footprint polygon as a
	// closed ring (no duplicated closing vertex) in local east/north
	// metres, used as the default min-AOB point set and as the
	// boundary() output for polygon-backed shapes.
	VerticesEN() [][2]float64
	// MaxDistanceM is the shape's furthest extent from its center.
	MaxDistanceM() float64
}

// ellipseAxes is implemented additionally by the ellipse shape so the
// major-minor-aligned scan method can read its canonical axes.
type ellipseAxes interface {
	axes() (semiMajorM, semiMinorM, orientationDeg float64)
}

var (
	ErrNotConfigured = errors.New("rlan: region used before configure")
	ErrNoScan        = errors.New("rlan: min-AOB requires a prior scan")
	ErrUnknownMethod = errors.New("rlan: unknown scan method")
)

// Region is the common implementation shared by Ellipse, LinearPolygon,
// and RadialPolygon: one local ENU basis, one configured height range,
// and one most-recent scan-boundary polygon.
type Region struct {
	shape Shape

	centerLatDeg, centerLonDeg float64
	centerHeightM              float64
	centerHeightType           afc.HeightType
	uncertaintyM               float64
	fixedAMSL                  bool

	basis afc.ENUBasis

	configured bool
	minTerrain, maxTerrain float64
	centerTerrain          float64
	minAGL, maxAGL         float64
	minAMSL, maxAMSL       float64

	lastScanMethod  Method
	lastScanBoundEN [][2]float64
}

func newRegion(shape Shape, centerLat, centerLon, centerHeightM float64, heightType afc.HeightType, uncertaintyM float64, fixedAMSL bool) *Region {
	return &Region{
		shape:            shape,
		centerLatDeg:     centerLat,
		centerLonDeg:     centerLon,
		centerHeightM:    centerHeightM,
		centerHeightType: heightType,
		uncertaintyM:     uncertaintyM,
		fixedAMSL:        fixedAMSL,
		basis:            afc.NewENUBasis(centerLat, centerLon),
	}
}

// groundSampleM is the fixed 1 m resolution spec §4.G mandates for the
// configure-time terrain min/max footprint scan.
const groundSampleM = 1.0

// Configure binds the region to terrain: it resolves the center's AMSL
// height, scans the footprint at 1 m resolution for min/max terrain
// height, and derives the AGL/AMSL height range per spec §4.G.
func (r *Region) Configure(terrain TerrainFunc) error {
	centerTerrain, err := terrain(r.centerLatDeg, r.centerLonDeg)
	if err != nil {
		return err
	}
	r.centerTerrain = centerTerrain

	var centerAMSL float64
	switch r.centerHeightType {
	case afc.HeightAMSL:
		centerAMSL = r.centerHeightM
	case afc.HeightAGL:
		centerAMSL = r.centerHeightM + centerTerrain
	default:
		return errors.New("rlan: unknown height type")
	}

	minE, maxE, minN, maxN := r.shape.BoundsEN()
	minTerrain := math.Inf(1)
	maxTerrain := math.Inf(-1)
	sampled := false

	stepM := groundSampleM
	// Cap the number of 1 m samples for very large footprints so
	// configure remains bounded; typical RLAN uncertainty regions are
	// tens to low hundreds of metres across and never hit this.
	const maxSamples = 200000
	spanE, spanN := maxE-minE, maxN-minN
	if spanE > 0 && spanN > 0 {
		estimate := (spanE / stepM) * (spanN / stepM)
		if estimate > maxSamples {
			stepM = math.Sqrt(spanE * spanN / maxSamples)
		}
	}

	for n := minN; n <= maxN; n += stepM {
		for e := minE; e <= maxE; e += stepM {
			if !r.shape.ContainsEN(e, n) {
				continue
			}
			lat, lon := r.basis.ToLatLon(e, n)
			h, terr := terrain(lat, lon)
			if terr != nil {
				return terr
			}
			sampled = true
			if h < minTerrain {
				minTerrain = h
			}
			if h > maxTerrain {
				maxTerrain = h
			}
		}
	}
	if !sampled {
		minTerrain, maxTerrain = centerTerrain, centerTerrain
	}
	r.minTerrain, r.maxTerrain = minTerrain, maxTerrain

	if r.fixedAMSL {
		r.minAGL = centerAMSL - r.uncertaintyM - maxTerrain
		r.maxAGL = centerAMSL + r.uncertaintyM - minTerrain
	} else {
		r.minAGL = centerAMSL - r.uncertaintyM - centerTerrain
		r.maxAGL = centerAMSL + r.uncertaintyM - centerTerrain
	}
	r.minAMSL = centerAMSL - r.uncertaintyM
	r.maxAMSL = centerAMSL + r.uncertaintyM

	r.configured = true
	return nil
}

// HeightRange returns the configured AGL and AMSL height bounds.
func (r *Region) HeightRange() (minAGL, maxAGL, minAMSL, maxAMSL float64) {
	return r.minAGL, r.maxAGL, r.minAMSL, r.maxAMSL
}

// Center returns the region's configured center.
func (r *Region) Center() (latDeg, lonDeg float64) {
	return r.centerLatDeg, r.centerLonDeg
}

// MaxDistanceM is the shape's furthest extent from its center.
func (r *Region) MaxDistanceM() float64 { return r.shape.MaxDistanceM() }

// Contains reports whether (lat, lon) lies within the ground footprint.
func (r *Region) Contains(latDeg, lonDeg float64) bool {
	e, n := r.basis.ToEastNorth(latDeg, lonDeg)
	return r.shape.ContainsEN(e, n)
}

// ClosestPoint returns the nearest point on the footprint boundary to
// (lat, lon), or (lat, lon) itself when it is already interior.
func (r *Region) ClosestPoint(latDeg, lonDeg float64) (outLatDeg, outLonDeg float64) {
	e, n := r.basis.ToEastNorth(latDeg, lonDeg)
	if r.shape.ContainsEN(e, n) {
		return latDeg, lonDeg
	}
	ce, cn := closestPointOnRing(r.shape.VerticesEN(), e, n)
	return r.basis.ToLatLon(ce, cn)
}

// Boundary returns the footprint vertices reprojected to (lat, lon)
// and lifted to AMSL: 32 vertices for an ellipse (the shape's own
// VerticesEN), or the polygon vertices for the polygon variants. Each
// vertex is lifted using the local terrain height, or the fixed center
// AMSL when fixedAMSL is set.
func (r *Region) Boundary(terrain TerrainFunc) ([]afc.Point, error) {
	if !r.configured {
		return nil, ErrNotConfigured
	}
	verts := r.shape.VerticesEN()
	out := make([]afc.Point, len(verts))
	for i, v := range verts {
		lat, lon := r.basis.ToLatLon(v[0], v[1])
		amsl := r.centerAMSL()
		if !r.fixedAMSL {
			h, err := terrain(lat, lon)
			if err != nil {
				return nil, err
			}
			amsl = h + (r.centerAMSL() - r.centerTerrain)
		}
		out[i] = afc.Point{LatDeg: lat, LonDeg: lon, HeightM: amsl, HeightType: afc.HeightAMSL}
	}
	return out, nil
}

func (r *Region) centerAMSL() float64 {
	if r.centerHeightType == afc.HeightAMSL {
		return r.centerHeightM
	}
	return r.centerHeightM + r.centerTerrain
}
