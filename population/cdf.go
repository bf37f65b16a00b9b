package population

import (
	"errors"
)

// ErrAlreadyCDF is returned by MakeCDF when called on a grid that has
// already made the one-shot transition.
var ErrAlreadyCDF = errors.New("population: grid already converted to CDF")

// ScaleTargets gives, per environment class, the total population the
// grid's environment-class cells should sum to after Scale.
type ScaleTargets struct {
	Urban, Suburban, Rural, Barren float64
}

// Scale renormalizes the People matrix so that, over the cells whose
// region index equals regionFilter (or over every cell when
// regionFilter is negative), the sum of each environment class matches
// the corresponding target. One factor per environment class is
// applied so the relative shape within each class is preserved; one
// call covers one region, and a class with no mass stays empty.
func (g *Grid) Scale(targets ScaleTargets, regionFilter int) {
	sums := map[EnvClass]float64{}
	for i := 0; i < g.NLat; i++ {
		for j := 0; j < g.NLon; j++ {
			if regionFilter >= 0 && g.Region[i][j] != regionFilter {
				continue
			}
			sums[g.Env[i][j]] += g.People[i][j]
		}
	}

	factor := func(env EnvClass, target float64) float64 {
		cur := sums[env]
		if cur <= 0 {
			return 0
		}
		return target / cur
	}

	fUrban := factor(EnvUrban, targets.Urban)
	fSuburban := factor(EnvSuburban, targets.Suburban)
	fRural := factor(EnvRural, targets.Rural)
	fBarren := factor(EnvBarren, targets.Barren)

	for i := 0; i < g.NLat; i++ {
		for j := 0; j < g.NLon; j++ {
			if regionFilter >= 0 && g.Region[i][j] != regionFilter {
				continue
			}
			switch g.Env[i][j] {
			case EnvUrban:
				g.People[i][j] *= fUrban
			case EnvSuburban:
				g.People[i][j] *= fSuburban
			case EnvRural:
				g.People[i][j] *= fRural
			case EnvBarren:
				g.People[i][j] *= fBarren
			}
		}
	}
}

// EnvTotals returns the current summed People per environment class,
// used by callers (and tests) to verify Scale's postcondition.
func (g *Grid) EnvTotals() ScaleTargets {
	var t ScaleTargets
	for i := 0; i < g.NLat; i++ {
		for j := 0; j < g.NLon; j++ {
			switch g.Env[i][j] {
			case EnvUrban:
				t.Urban += g.People[i][j]
			case EnvSuburban:
				t.Suburban += g.People[i][j]
			case EnvRural:
				t.Rural += g.People[i][j]
			case EnvBarren:
				t.Barren += g.People[i][j]
			}
		}
	}
	return t
}

// MakeCDF performs the one-shot, irreversible row-major prefix-sum
// transition into cumulative mode. After this call, People[i][j] holds
// the cumulative mass up to and including cell (i, j) in row-major
// order, and GetProbFromCDF recovers the original per-cell mass by
// first difference.
func (g *Grid) MakeCDF(total float64) error {
	if g.isCumulative {
		return ErrAlreadyCDF
	}
	if total <= 0 {
		return errors.New("population: non-positive total for CDF normalization")
	}

	var running float64
	for i := 0; i < g.NLat; i++ {
		for j := 0; j < g.NLon; j++ {
			running += g.People[i][j]
			g.People[i][j] = running / total
		}
	}
	g.isCumulative = true
	return nil
}

// IsCumulative reports whether MakeCDF has been called.
func (g *Grid) IsCumulative() bool { return g.isCumulative }

// GetProbFromCDF returns the probability mass of cell (i, j),
// recovered as the first difference of the row-major cumulative
// values. Requires the grid to be in CDF mode.
func (g *Grid) GetProbFromCDF(i, j int) (float64, error) {
	if !g.isCumulative {
		return 0, errors.New("population: grid is not in CDF mode")
	}
	idx := i*g.NLon + j
	cur := g.People[i][j]
	if idx == 0 {
		return cur, nil
	}
	pi, pj := (idx-1)/g.NLon, (idx-1)%g.NLon
	prev := g.People[pi][pj]
	mass := cur - prev
	if mass < 0 {
		mass = 0
	}
	return mass, nil
}

// GetMassFromCDF recovers the original, pre-CDF cell mass in absolute
// (not normalized-probability) units given the total used in MakeCDF.
func (g *Grid) GetMassFromCDF(i, j int, total float64) (float64, error) {
	p, err := g.GetProbFromCDF(i, j)
	if err != nil {
		return 0, err
	}
	return p * total, nil
}

// clampIndex keeps v within [lo, hi], used defensively by AdjustRegion's
// radius sweep.
func clampIndex(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
