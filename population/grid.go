// Package population implements the dense lat/lon population-density
// grid of spec §4.F: built from a world geotiff or a tabular density
// file, classified into propagation environments, and usable as a
// weighted-sampling CDF.
package population

import (
	"errors"
	"math"

	"github.com/open-afc-project/openafc-sub001"
	"github.com/open-afc-project/openafc-sub001/polygon"
	"github.com/open-afc-project/openafc-sub001/raster"
)

// EnvClass is the propagation environment a cell is classified into,
// by density thresholds.
type EnvClass int

const (
	EnvUndefined EnvClass = iota
	EnvUrban
	EnvSuburban
	EnvRural
	EnvBarren
)

// Density thresholds in people per km^2, the conventional NTIA/FCC
// urban/suburban/rural/barren breakpoints.
const (
	urbanThresholdPerKm2    = 2000.0
	suburbanThresholdPerKm2 = 500.0
	ruralThresholdPerKm2    = 50.0
)

func classify(densityPerKm2 float64) EnvClass {
	switch {
	case densityPerKm2 >= urbanThresholdPerKm2:
		return EnvUrban
	case densityPerKm2 >= suburbanThresholdPerKm2:
		return EnvSuburban
	case densityPerKm2 >= ruralThresholdPerKm2:
		return EnvRural
	default:
		return EnvBarren
	}
}

// ErrOffGrid is fatal per spec §7: a tabular record more than 5% off
// the target grid spacing.
var ErrOffGrid = errors.New("population: tabular record off grid beyond tolerance")

// Grid is the dense (min_lat, min_lon, delta_lat, delta_lon, n_lat,
// n_lon) population grid with three parallel row-major matrices:
// people per cell, propagation-environment class, and region index.
type Grid struct {
	MinLatDeg, MinLonDeg float64
	DeltaLat, DeltaLon   float64
	NLat, NLon           int

	People [][]float64
	Env    [][]EnvClass
	Region [][]int

	isCumulative bool
}

func newEmptyGrid(minLat, minLon, dLat, dLon float64, nLat, nLon int) *Grid {
	g := &Grid{MinLatDeg: minLat, MinLonDeg: minLon, DeltaLat: dLat, DeltaLon: dLon, NLat: nLat, NLon: nLon}
	g.People = make([][]float64, nLat)
	g.Env = make([][]EnvClass, nLat)
	g.Region = make([][]int, nLat)
	for i := 0; i < nLat; i++ {
		g.People[i] = make([]float64, nLon)
		g.Env[i] = make([]EnvClass, nLon)
		g.Region[i] = make([]int, nLon)
		for j := range g.Region[i] {
			g.Region[i][j] = -1
		}
	}
	return g
}

func (g *Grid) cellCenter(i, j int) (lat, lon float64) {
	return g.MinLatDeg + (float64(i)+0.5)*g.DeltaLat, g.MinLonDeg + (float64(j)+0.5)*g.DeltaLon
}

// cellAreaM2 returns the area of a spherical-cap cell at row i: cells
// shrink in east-west extent toward the poles even though DeltaLon is
// constant, so area must be computed per-row from the cosine of the
// cell's center latitude.
func (g *Grid) cellAreaM2(i int) float64 {
	lat, _ := g.cellCenter(i, 0)
	latRad := lat * math.Pi / 180.0
	dLatRad := g.DeltaLat * math.Pi / 180.0
	dLonRad := g.DeltaLon * math.Pi / 180.0
	return afc.EarthRadiusM * afc.EarthRadiusM * dLatRad * dLonRad * math.Cos(latRad)
}

// NewFromGeoTIFF builds a Grid by clipping a world population-density
// raster (people per km^2, single resolution, full-earth coverage) to
// bbox, attributing each cell to the first region polygon in regions
// that contains its center, converting density to people-per-cell via
// the spherical-cap cell area, and classifying the environment by
// density thresholds.
//
// wrapLon handles the anti-meridian: bbox.MinLon may exceed
// bbox.MaxLon to describe a box that crosses +/-180.
func NewFromGeoTIFF(src *raster.Backend, bbox raster.Rect, dLat, dLon float64, regions []*polygon.Polygon, regionDegPerUnit float64) (*Grid, error) {
	if dLat <= 0 || dLon <= 0 {
		return nil, errors.New("population: non-positive grid spacing")
	}

	wraps := bbox.MinLon > bbox.MaxLon
	lonSpan := bbox.MaxLon - bbox.MinLon
	if wraps {
		lonSpan = (360.0 - bbox.MinLon) + bbox.MaxLon
	}

	nLat := int(math.Ceil((bbox.MaxLat - bbox.MinLat) / dLat))
	nLon := int(math.Ceil(lonSpan / dLon))
	if nLat <= 0 || nLon <= 0 {
		return nil, errors.New("population: empty bounding box")
	}

	g := newEmptyGrid(bbox.MinLat, bbox.MinLon, dLat, dLon, nLat, nLon)

	for i := 0; i < nLat; i++ {
		for j := 0; j < nLon; j++ {
			lat, lon := g.cellCenter(i, j)
			if wraps && lon > 180 {
				lon -= 360
			}

			densityPerKm2, ok, err := src.ValueAt(lat, lon, 0, false)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}

			areaM2 := g.cellAreaM2(i)
			densityPerM2 := densityPerKm2 / 1.0e6
			people := densityPerM2 * areaM2

			g.People[i][j] = people
			g.Env[i][j] = classify(densityPerKm2)

			for ri, region := range regions {
				px := int64(lon * regionDegPerUnit)
				py := int64(lat * regionDegPerUnit)
				if inside, _ := region.Contains(polygon.Point{X: px, Y: py}); inside {
					g.Region[i][j] = ri
					break
				}
			}
		}
	}
	return g, nil
}

// DensityRecord is one (lat, lon, density people/km^2) row yielded by
// an external tabular-density loader, per spec §1 non-goals ("Loading
// ... treated as: simple lookup interfaces").
type DensityRecord struct {
	LatDeg, LonDeg float64
	DensityPerKm2  float64
}

// NewFromTabular builds a Grid from a sequence of density records on
// an already-known grid shape, quantizing each record to the nearest
// cell and failing fatally if any record is more than 5% of a cell
// off-grid.
func NewFromTabular(minLat, minLon, dLat, dLon float64, nLat, nLon int, records []DensityRecord) (*Grid, error) {
	g := newEmptyGrid(minLat, minLon, dLat, dLon, nLat, nLon)

	const tolerance = 0.05
	for _, rec := range records {
		fi := (rec.LatDeg - minLat) / dLat
		fj := (rec.LonDeg - minLon) / dLon
		i := int(math.Round(fi))
		j := int(math.Round(fj))

		if math.Abs(fi-float64(i)) > tolerance || math.Abs(fj-float64(j)) > tolerance {
			return nil, ErrOffGrid
		}
		if i < 0 || i >= nLat || j < 0 || j >= nLon {
			return nil, ErrOffGrid
		}

		areaM2 := g.cellAreaM2(i)
		people := (rec.DensityPerKm2 / 1.0e6) * areaM2
		g.People[i][j] = people
		g.Env[i][j] = classify(rec.DensityPerKm2)
	}
	return g, nil
}
