package rlan

import (
	"math"
)

// MinAOB returns the smallest angle, in degrees, between the FS
// antenna's boresight and the line from the FS receiver to any point
// in the region's 3-D volume: the most recent scan's boundary polygon
// swept through the configured [min_height_AMSL, max_height_AMSL]
// range, per spec §4.G.
//
// fsAzimuthDeg is the boresight bearing clockwise from north;
// fsElevationDeg is the boresight elevation above the local horizontal
// (positive up).
func (r *Region) MinAOB(fsLatDeg, fsLonDeg, fsAzimuthDeg, fsElevationDeg, fsHeightAMSLM float64) (float64, error) {
	if !r.configured {
		return 0, ErrNotConfigured
	}
	if r.lastScanBoundEN == nil {
		return 0, ErrNoScan
	}

	fsE, fsN := r.basis.ToEastNorth(fsLatDeg, fsLonDeg)
	fsPos := [3]float64{fsE, fsN, fsHeightAMSLM}

	azRad := fsAzimuthDeg * math.Pi / 180.0
	elRad := fsElevationDeg * math.Pi / 180.0
	boresight := [3]float64{
		math.Sin(azRad) * math.Cos(elRad),
		math.Cos(azRad) * math.Cos(elRad),
		math.Sin(elRad),
	}

	if rayHitsVolume(fsPos, boresight, r.lastScanBoundEN, r.minAMSL, r.maxAMSL) {
		return 0, nil
	}

	maxCos := math.Inf(-1)
	heights := []float64{r.minAMSL, r.maxAMSL}
	ring := r.lastScanBoundEN
	count := len(ring)
	for _, h := range heights {
		for i := 0; i < count; i++ {
			a := ring[i]
			b := ring[(i+1)%count]
			v0 := [3]float64{a[0] - fsPos[0], a[1] - fsPos[1], h - fsPos[2]}
			edge := [3]float64{b[0] - a[0], b[1] - a[1], 0}

			d0 := dot3(v0, v0)
			d1 := 2 * dot3(v0, edge)
			d2 := dot3(edge, edge)
			c0 := dot3(v0, boresight)
			c1 := dot3(edge, boresight)

			evalCos := func(eps float64) float64 {
				dist2 := d0 + d1*eps + d2*eps*eps
				if dist2 <= 0 {
					return math.Inf(-1)
				}
				num := c0 + c1*eps
				return num / math.Sqrt(dist2)
			}

			if c := evalCos(0); c > maxCos {
				maxCos = c
			}
			if c := evalCos(1); c > maxCos {
				maxCos = c
			}

			denom := d2*c0 - c1*d1/2
			if denom != 0 {
				epsStar := (c1*d0 - c0*d1/2) / denom
				if epsStar > 0 && epsStar < 1 {
					if c := evalCos(epsStar); c > maxCos {
						maxCos = c
					}
				}
			}
		}
	}

	if maxCos > 1 {
		maxCos = 1
	}
	if maxCos < -1 {
		maxCos = -1
	}
	return math.Acos(maxCos) * 180.0 / math.Pi, nil
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// rayHitsVolume reports whether the ray from origin along dir (forward
// only, t >= 0) passes through the prism formed by extruding ring
// between heights minH and maxH.
func rayHitsVolume(origin, dir [3]float64, ring [][2]float64, minH, maxH float64) bool {
	if dir[2] != 0 {
		t0 := (minH - origin[2]) / dir[2]
		t1 := (maxH - origin[2]) / dir[2]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t1 < 0 {
			return false
		}
		if t0 < 0 {
			t0 = 0
		}
		for _, t := range []float64{t0, (t0 + t1) / 2, t1} {
			e := origin[0] + dir[0]*t
			n := origin[1] + dir[1]*t
			if containsRing(ring, e, n) {
				return true
			}
		}
		return false
	}

	// Horizontal boresight: the ray only ever occupies height
	// origin[2]; it must be within the swept range, and then we test
	// whether the ground ray crosses the footprint at any forward t,
	// out to the farthest ring vertex plus margin.
	if origin[2] < minH || origin[2] > maxH {
		return false
	}
	maxT := 0.0
	for _, v := range ring {
		d := math.Hypot(v[0]-origin[0], v[1]-origin[1])
		if d > maxT {
			maxT = d
		}
	}
	if maxT == 0 {
		maxT = 1
	}
	maxT *= 1.5
	steps := 256
	for i := 1; i <= steps; i++ {
		t := maxT * float64(i) / float64(steps)
		e := origin[0] + dir[0]*t
		n := origin[1] + dir[1]*t
		if containsRing(ring, e, n) {
			return true
		}
	}
	return false
}
