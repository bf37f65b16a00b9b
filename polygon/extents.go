package polygon

import "sort"

// HorizontalExtents returns the sorted (xMin, xMax) pairs where the
// polygon's edges intersect the horizontal line at the given y,
// pairing intersections left-to-right. Used to rasterize the polygon
// one scanline at a time.
func (p *Polygon) HorizontalExtents(y int64) [][2]float64 {
	var xs []float64
	for _, ring := range p.Rings {
		n := len(ring)
		j := n - 1
		for i := 0; i < n; i++ {
			a, b := ring[j], ring[i]
			if (a.Y > y) != (b.Y > y) {
				x := float64(b.X-a.X)*float64(y-a.Y)/float64(b.Y-a.Y) + float64(a.X)
				xs = append(xs, x)
			}
			j = i
		}
	}
	return pairUp(xs)
}

// VerticalExtents is the symmetric counterpart of HorizontalExtents,
// for a vertical line at the given x.
func (p *Polygon) VerticalExtents(x int64) [][2]float64 {
	var ys []float64
	for _, ring := range p.Rings {
		n := len(ring)
		j := n - 1
		for i := 0; i < n; i++ {
			a, b := ring[j], ring[i]
			if (a.X > x) != (b.X > x) {
				y := float64(b.Y-a.Y)*float64(x-a.X)/float64(b.X-a.X) + float64(a.Y)
				ys = append(ys, y)
			}
			j = i
		}
	}
	return pairUp(ys)
}

func pairUp(vals []float64) [][2]float64 {
	sort.Float64s(vals)
	out := make([][2]float64, 0, len(vals)/2)
	for i := 0; i+1 < len(vals); i += 2 {
		out = append(out, [2]float64{vals[i], vals[i+1]})
	}
	return out
}
