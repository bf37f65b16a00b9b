// Package raster implements the tiled raster backend of spec §4.D: a
// per-file-name discovery layer, a per-tile in-memory LRU cache, and a
// single value-at(lat, lon) query surface over whatever generic raster
// files are registered, independent of the underlying raster format.
//
// Each discovered raster file is backed by a TileDB dense array (one
// array per file), grounded on the teacher's own TileDB schema/array
// plumbing in its tiledb.go — generalized here from beam/ping arrays
// to 2-D pixel arrays addressed by (row, col).
package raster

import "errors"

var (
	// ErrFileNotFound is fatal per spec §7: a required raster file is
	// missing from the discovered set.
	ErrFileNotFound = errors.New("raster: file not found")
	// ErrUnreadable is fatal: the file's geotransform or pixel format
	// could not be read.
	ErrUnreadable = errors.New("raster: file unreadable or geotransform missing")
	// ErrOutOfRange is fatal: a read fell outside the file's storage
	// rectangle.
	ErrOutOfRange = errors.New("raster: read out of range")
)

// Rect is an axis-aligned lat/lon bounding rectangle.
type Rect struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// Contains reports whether (lat, lon) falls within the rectangle,
// inclusive of edges.
func (r Rect) Contains(lat, lon float64) bool {
	return lat >= r.MinLat && lat <= r.MaxLat && lon >= r.MinLon && lon <= r.MaxLon
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinLat: minF(r.MinLat, o.MinLat),
		MinLon: minF(r.MinLon, o.MinLon),
		MaxLat: maxF(r.MaxLat, o.MaxLat),
		MaxLon: maxF(r.MaxLon, o.MaxLon),
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Expand grows the rectangle by the given margin in degrees on every
// side.
func (r Rect) Expand(marginDeg float64) Rect {
	return Rect{
		MinLat: r.MinLat - marginDeg,
		MinLon: r.MinLon - marginDeg,
		MaxLat: r.MaxLat + marginDeg,
		MaxLon: r.MaxLon + marginDeg,
	}
}
