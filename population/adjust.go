package population

import (
	"math"

	"github.com/open-afc-project/openafc-sub001"
)

// AdjustRegion crops the grid to the smallest row/column band that
// contains every cell within maxRadiusM of any of fsReceivers, folding
// the mass of each discarded cell into the retained cell reached by
// clamping its row and column indices to the kept band, so the grid
// total is preserved. This keeps the dense grid
// from growing as large as the full region while still letting the
// discrete-probability picture (MakeCDF/GetProbFromCDF) reflect the
// true population near the incumbents being evaluated.
//
// AdjustRegion must be called before MakeCDF; it returns a new Grid
// and leaves the receiver untouched.
func (g *Grid) AdjustRegion(fsReceivers []afc.Point, maxRadiusM float64) *Grid {
	if g.isCumulative {
		panic("population: AdjustRegion called after MakeCDF")
	}
	if len(fsReceivers) == 0 || maxRadiusM <= 0 {
		return g.clone()
	}

	minI, maxI := g.NLat, -1
	minJ, maxJ := g.NLon, -1

	for i := 0; i < g.NLat; i++ {
		for j := 0; j < g.NLon; j++ {
			lat, lon := g.cellCenter(i, j)
			for _, rx := range fsReceivers {
				d := afc.HaversineM(lat, lon, rx.LatDeg, rx.LonDeg)
				if d <= maxRadiusM {
					if i < minI {
						minI = i
					}
					if i > maxI {
						maxI = i
					}
					if j < minJ {
						minJ = j
					}
					if j > maxJ {
						maxJ = j
					}
					break
				}
			}
		}
	}

	if maxI < 0 {
		// No cell within range of any receiver: keep the grid intact
		// rather than silently dropping all mass.
		return g.clone()
	}

	newNLat := maxI - minI + 1
	newNLon := maxJ - minJ + 1
	out := newEmptyGrid(
		g.MinLatDeg+float64(minI)*g.DeltaLat,
		g.MinLonDeg+float64(minJ)*g.DeltaLon,
		g.DeltaLat, g.DeltaLon, newNLat, newNLon,
	)

	for i := 0; i < g.NLat; i++ {
		for j := 0; j < g.NLon; j++ {
			mass := g.People[i][j]
			if mass == 0 {
				continue
			}

			ti := clampIndex(i-minI, 0, newNLat-1)
			tj := clampIndex(j-minJ, 0, newNLon-1)

			out.People[ti][tj] += mass
			if i >= minI && i <= maxI && j >= minJ && j <= maxJ {
				out.Env[ti][tj] = g.Env[i][j]
				out.Region[ti][tj] = g.Region[i][j]
			}
		}
	}

	return out
}

func (g *Grid) clone() *Grid {
	out := newEmptyGrid(g.MinLatDeg, g.MinLonDeg, g.DeltaLat, g.DeltaLon, g.NLat, g.NLon)
	for i := 0; i < g.NLat; i++ {
		copy(out.People[i], g.People[i])
		copy(out.Env[i], g.Env[i])
		copy(out.Region[i], g.Region[i])
	}
	return out
}

// Total returns the sum of People over the whole grid, the invariant
// AdjustRegion and Scale must both preserve.
func (g *Grid) Total() float64 {
	var sum float64
	for i := range g.People {
		for _, v := range g.People[i] {
			sum += v
		}
	}
	return math.Abs(sum) // guards against -0 from float accumulation
}
