// Package polygon implements exact integer-grid polygon primitives:
// construction, containment, closest-point projection, scanline
// extents, and reconstruction of a polygon from a rasterized scan set.
//
// Coordinates are integers at a fixed resolution (a rational multiple
// of degrees, typically 1e-6 deg) so that topology (containment,
// orientation, edge crossing) is exact and never subject to
// floating-point drift.
package polygon

import "errors"

// ErrTooFewPoints is returned when a ring has fewer than 3 distinct
// vertices.
var ErrTooFewPoints = errors.New("polygon: ring needs at least 3 distinct points")

// Point is an integer-grid vertex.
type Point struct {
	X, Y int64
}

// FloatPoint is a floating-point vertex, used for closest-point
// projections that do not generally land on the integer grid.
type FloatPoint struct {
	X, Y float64
}

// Ring is an ordered, open sequence of vertices: the closing edge from
// the last point back to the first is implicit and never
// materialized as a duplicate point.
type Ring []Point

// Polygon is one or more closed rings sharing a common coordinate
// resolution. Rings are independent closed boundaries (as produced by
// a KML MultiGeometry of outer boundaries), not hole/outer pairs.
type Polygon struct {
	Rings []Ring
}

// dedupClosing drops a final vertex that duplicates the first, which
// is how KML and many shapefiles represent a closed ring.
func dedupClosing(verts []Point) []Point {
	if len(verts) >= 2 && verts[0] == verts[len(verts)-1] {
		return verts[:len(verts)-1]
	}
	return verts
}

// NewRing constructs a single ring from an explicit vertex list,
// dropping a duplicated closing vertex.
func NewRing(verts []Point) (Ring, error) {
	v := dedupClosing(verts)
	if len(v) < 3 {
		return nil, ErrTooFewPoints
	}
	r := make(Ring, len(v))
	copy(r, v)
	return r, nil
}

// New constructs a Polygon from explicit ring vertex lists.
func New(rings [][]Point) (*Polygon, error) {
	p := &Polygon{Rings: make([]Ring, 0, len(rings))}
	for _, rv := range rings {
		r, err := NewRing(rv)
		if err != nil {
			return nil, err
		}
		p.Rings = append(p.Rings, r)
	}
	return p, nil
}

// BoundingBox returns the axis-aligned bounding box over every vertex
// of every ring.
func (p *Polygon) BoundingBox() (minX, minY, maxX, maxY int64) {
	first := true
	for _, ring := range p.Rings {
		for _, v := range ring {
			if first {
				minX, maxX = v.X, v.X
				minY, maxY = v.Y, v.Y
				first = false
				continue
			}
			if v.X < minX {
				minX = v.X
			}
			if v.X > maxX {
				maxX = v.X
			}
			if v.Y < minY {
				minY = v.Y
			}
			if v.Y > maxY {
				maxY = v.Y
			}
		}
	}
	return
}

// Translate shifts every vertex of every ring by the given integer
// vector, in place.
func (p *Polygon) Translate(dx, dy int64) {
	for ri := range p.Rings {
		for vi := range p.Rings[ri] {
			p.Rings[ri][vi].X += dx
			p.Rings[ri][vi].Y += dy
		}
	}
}

// Reverse reverses the vertex order of every ring in place, flipping
// orientation.
func (p *Polygon) Reverse() {
	for ri := range p.Rings {
		reverseRing(p.Rings[ri])
	}
}

func reverseRing(r Ring) {
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
}

// SignedArea returns the shoelace-formula signed area, summed over all
// rings. Positive indicates counter-clockwise orientation.
func (p *Polygon) SignedArea() float64 {
	var total float64
	for _, ring := range p.Rings {
		total += ringSignedArea(ring)
	}
	return total
}

func ringSignedArea(r Ring) float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	var sum int64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return float64(sum) / 2.0
}

// NormalizeCCW reverses any ring whose signed area is negative so that
// every ring is counter-clockwise.
func (p *Polygon) NormalizeCCW() {
	for ri := range p.Rings {
		if ringSignedArea(p.Rings[ri]) < 0 {
			reverseRing(p.Rings[ri])
		}
	}
}
