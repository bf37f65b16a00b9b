package terrain

import (
	"fmt"
	"math"
)

// GridFallback is a dense, always-answering global elevation grid
// (e.g. a decimated worldwide DEM), grounded directly on
// other_examples' ETOPO1 ElevationProvider: a flat row-major array
// addressed by rounding (lat, lon) to the nearest cell, with latitude
// clamped and longitude wrapped instead of an out-of-range error since global
// coverage must never fail a query.
type GridFallback struct {
	rows, cols       int
	cellsPerDegLat   float64
	cellsPerDegLon   float64
	data             []float64
}

// NewGridFallback builds a GridFallback over a flat row-major
// elevation array spanning the whole globe at a fixed resolution.
func NewGridFallback(rows, cols int, data []float64) (*GridFallback, error) {
	if len(data) != rows*cols {
		return nil, fmt.Errorf("terrain: grid data length %d does not match %dx%d", len(data), rows, cols)
	}
	return &GridFallback{
		rows: rows, cols: cols,
		cellsPerDegLat: float64(rows-1) / 180.0,
		cellsPerDegLon: float64(cols-1) / 360.0,
		data:           data,
	}, nil
}

// GetElevation returns the elevation of the nearest grid cell to
// (lat, lon), clamping the row to the grid and wrapping the column
// around the globe.
func (g *GridFallback) GetElevation(lat, lon float64) (float64, error) {
	row := int(math.Round((90.0 - lat) * g.cellsPerDegLat))
	col := int(math.Round((lon + 180.0) * g.cellsPerDegLon))

	if row < 0 {
		row = 0
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	if col < 0 {
		col += g.cols
	}
	if col >= g.cols {
		col %= g.cols
	}

	return g.data[row*g.cols+col], nil
}
