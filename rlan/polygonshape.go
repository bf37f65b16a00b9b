package rlan

import (
	"errors"
	"math"

	"github.com/open-afc-project/openafc-sub001"
)

var errTooFewVertices = errors.New("rlan: polygon region requires at least 3 vertices")

// vertexShape is the shared Shape implementation for the linear- and
// radial-polygon region variants: a fixed, already-projected ring of
// local east/north vertices.
type vertexShape struct {
	ring [][2]float64
}

func (s *vertexShape) ContainsEN(eastM, northM float64) bool {
	return containsRing(s.ring, eastM, northM)
}

func (s *vertexShape) BoundsEN() (minE, maxE, minN, maxN float64) {
	return ringBounds(s.ring)
}

func (s *vertexShape) VerticesEN() [][2]float64 { return s.ring }

func (s *vertexShape) MaxDistanceM() float64 {
	var maxD float64
	for _, v := range s.ring {
		d := math.Hypot(v[0], v[1])
		if d > maxD {
			maxD = d
		}
	}
	return maxD
}

// LinearPolygon is the linear-polygon RLAN region variant of spec §3:
// an explicit list of (lat, lon) vertices.
type LinearPolygon struct {
	*Region
}

// NewLinearPolygon builds a polygon region from vertices already in
// (lat, lon) degrees; they are projected to the local ENU frame
// centered on their own centroid.
func NewLinearPolygon(vertices []afc.LatLon, centerHeightM float64, heightType afc.HeightType, heightUncertaintyM float64, fixedAMSL bool) (*LinearPolygon, error) {
	if len(vertices) < 3 {
		return nil, errTooFewVertices
	}
	centerLat, centerLon := centroid(vertices)
	basis := afc.NewENUBasis(centerLat, centerLon)

	ring := make([][2]float64, len(vertices))
	for i, v := range vertices {
		e, n := basis.ToEastNorth(v.LatDeg, v.LonDeg)
		ring[i] = [2]float64{e, n}
	}
	shape := &vertexShape{ring: ring}
	return &LinearPolygon{Region: newRegion(shape, centerLat, centerLon, centerHeightM, heightType, heightUncertaintyM, fixedAMSL)}, nil
}

// RadialVector is one (bearing, length) vector defining a radial
// polygon vertex relative to its center.
type RadialVector struct {
	BearingDeg float64
	LengthM    float64
}

// RadialPolygon is the radial-polygon RLAN region variant of spec §3:
// a list of (bearing_deg_from_north, length_m) vectors projected onto
// the local east-north tangent plane around the center.
type RadialPolygon struct {
	*Region
}

// NewRadialPolygon builds a polygon region from bearing/length vectors
// around an explicit center.
func NewRadialPolygon(centerLatDeg, centerLonDeg, centerHeightM float64, heightType afc.HeightType, vectors []RadialVector, heightUncertaintyM float64, fixedAMSL bool) (*RadialPolygon, error) {
	if len(vectors) < 3 {
		return nil, errTooFewVertices
	}
	ring := make([][2]float64, len(vectors))
	for i, v := range vectors {
		rad := v.BearingDeg * math.Pi / 180.0
		ring[i] = [2]float64{v.LengthM * math.Sin(rad), v.LengthM * math.Cos(rad)}
	}
	shape := &vertexShape{ring: ring}
	return &RadialPolygon{Region: newRegion(shape, centerLatDeg, centerLonDeg, centerHeightM, heightType, heightUncertaintyM, fixedAMSL)}, nil
}

func centroid(vertices []afc.LatLon) (latDeg, lonDeg float64) {
	var sumLat, sumLon float64
	for _, v := range vertices {
		sumLat += v.LatDeg
		sumLon += v.LonDeg
	}
	n := float64(len(vertices))
	return sumLat / n, sumLon / n
}
