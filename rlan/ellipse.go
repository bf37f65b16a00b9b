package rlan

import (
	"math"

	"github.com/open-afc-project/openafc-sub001"
)

// ellipseShape is the ellipse ground footprint: center at the local
// ENU origin, semi-major/minor axes in metres, orientation measured
// clockwise from north per spec §3.
type ellipseShape struct {
	semiMajorM, semiMinorM float64
	orientationDeg         float64

	cosT, sinT float64 // precomputed rotation into canonical frame
}

func newEllipseShape(semiMajorM, semiMinorM, orientationDeg float64) *ellipseShape {
	rad := orientationDeg * math.Pi / 180.0
	return &ellipseShape{
		semiMajorM:     semiMajorM,
		semiMinorM:     semiMinorM,
		orientationDeg: orientationDeg,
		cosT:           math.Cos(rad),
		sinT:           math.Sin(rad),
	}
}

// toCanonical rotates a local east/north offset into the ellipse's own
// major/minor axis frame, where the major axis points along the
// orientation bearing (clockwise from north).
func (s *ellipseShape) toCanonical(eastM, northM float64) (major, minor float64) {
	major = northM*s.cosT + eastM*s.sinT
	minor = eastM*s.cosT - northM*s.sinT
	return major, minor
}

func (s *ellipseShape) fromCanonical(major, minor float64) (eastM, northM float64) {
	northM = major*s.cosT - minor*s.sinT
	eastM = major*s.sinT + minor*s.cosT
	return eastM, northM
}

func (s *ellipseShape) ContainsEN(eastM, northM float64) bool {
	major, minor := s.toCanonical(eastM, northM)
	u := major / s.semiMajorM
	v := minor / s.semiMinorM
	return u*u+v*v <= 1.0
}

func (s *ellipseShape) BoundsEN() (minE, maxE, minN, maxN float64) {
	// Axis-aligned bounding box of a rotated ellipse: half-extent along
	// each world axis is sqrt((a*sinT)^2+(b*cosT)^2) style via the
	// standard rotated-ellipse bound formula.
	a, b := s.semiMajorM, s.semiMinorM
	halfE := math.Sqrt(a*a*s.sinT*s.sinT + b*b*s.cosT*s.cosT)
	halfN := math.Sqrt(a*a*s.cosT*s.cosT + b*b*s.sinT*s.sinT)
	return -halfE, halfE, -halfN, halfN
}

const ellipseBoundaryVertices = 32

func (s *ellipseShape) VerticesEN() [][2]float64 {
	out := make([][2]float64, ellipseBoundaryVertices)
	for i := 0; i < ellipseBoundaryVertices; i++ {
		theta := 2 * math.Pi * float64(i) / float64(ellipseBoundaryVertices)
		major := s.semiMajorM * math.Cos(theta)
		minor := s.semiMinorM * math.Sin(theta)
		e, n := s.fromCanonical(major, minor)
		out[i] = [2]float64{e, n}
	}
	return out
}

func (s *ellipseShape) MaxDistanceM() float64 { return s.semiMajorM }

func (s *ellipseShape) axes() (semiMajorM, semiMinorM, orientationDeg float64) {
	return s.semiMajorM, s.semiMinorM, s.orientationDeg
}

// Ellipse is the ellipse RLAN region variant of spec §3.
type Ellipse struct {
	*Region
}

// NewEllipse builds an ellipse region. orientationDeg is measured
// clockwise from north, matching the incoming request convention.
func NewEllipse(centerLatDeg, centerLonDeg, centerHeightM float64, heightType afc.HeightType, semiMinorM, semiMajorM, heightUncertaintyM, orientationDeg float64, fixedAMSL bool) *Ellipse {
	shape := newEllipseShape(semiMajorM, semiMinorM, orientationDeg)
	return &Ellipse{Region: newRegion(shape, centerLatDeg, centerLonDeg, centerHeightM, heightType, heightUncertaintyM, fixedAMSL)}
}
