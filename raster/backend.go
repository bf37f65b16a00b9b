package raster

import (
	"errors"
	"math"
)

// Backend is the single value-at(lat, lon) query surface over a
// multi-file raster source, per spec §4.D Query.
type Backend struct {
	mapper   NameMapper
	metadata *MetadataCache
	tiles    *TileCache
	openFile *OpenFileCache
	marginPx int

	// extent resolves a base name to the (rows, cols) pixel extent
	// of its storage rectangle; supplied by the caller since it
	// depends on the concrete raster format.
	extent func(baseName string) (rows, cols int, err error)
}

// NewBackend wires a NameMapper, metadata cache, tile cache and open-
// file cache into one query surface.
func NewBackend(mapper NameMapper, metadata *MetadataCache, tiles *TileCache, openFile *OpenFileCache, marginPx int, extent func(string) (int, int, error)) *Backend {
	return &Backend{mapper: mapper, metadata: metadata, tiles: tiles, openFile: openFile, marginPx: marginPx, extent: extent}
}

// pixelCoord converts (lat, lon) into the (row, col) pixel address
// within meta's storage rectangle.
func pixelCoord(meta *FileMeta, lat, lon float64) (row, col int) {
	row = int((meta.StorageRect.MaxLat - lat) * meta.PxPerDegLat)
	col = int((lon - meta.StorageRect.MinLon) * meta.PxPerDegLon)
	return
}

// resolveFile finds the first candidate file (from the name mapper)
// whose cached usable rectangle actually contains (lat, lon). It does
// not load metadata: a candidate with no entry in the metadata cache
// ends the search with ErrFileNotFound.
func (b *Backend) resolveFile(lat, lon float64) (*FileMeta, error) {
	for _, name := range b.mapper.Candidates(lat, lon) {
		meta, ok := b.metadata.Get(name)
		if !ok {
			return nil, ErrFileNotFound
		}
		if meta.UsableRect.Contains(lat, lon) {
			return meta, nil
		}
	}
	return nil, ErrFileNotFound
}

// ValueAt returns the pixel value at (lat, lon) for the given band.
// In direct mode it bypasses the tile cache and reads a single pixel;
// otherwise it locates (and if needed loads) the covering tile and
// indexes into it. hasData is false when the pixel equals the file's
// no-data sentinel.
func (b *Backend) ValueAt(lat, lon float64, band int, direct bool) (value float64, hasData bool, err error) {
	meta, err := b.resolveFile(lat, lon)
	if err != nil {
		return 0, false, err
	}

	row, col := pixelCoord(meta, lat, lon)

	src, err := b.openFile.Get(meta.BaseName)
	if err != nil {
		return 0, false, errors.Join(ErrFileNotFound, err)
	}

	if direct {
		v, err := src.ReadPixel(band, row, col)
		if err != nil {
			return 0, false, err
		}
		noData, hasNoData := meta.NoDataFor(band)
		if hasNoData && v == noData {
			return v, false, nil
		}
		return v, true, nil
	}

	rows, cols, err := b.extent(meta.BaseName)
	if err != nil {
		return 0, false, errors.Join(ErrUnreadable, err)
	}

	tile, err := b.tiles.FetchTile(src, meta.BaseName, meta, band, row, col, b.marginPx, rows, cols)
	if err != nil {
		return 0, false, err
	}
	v, ok := tile.at(row, col)
	return v, ok, nil
}

// Covers reports whether any known file's usable rectangle contains
// (lat, lon), lazily enumerating the directory-backed mapper on first
// use.
func (b *Backend) Covers(lat, lon float64) bool {
	for _, name := range b.mapper.All() {
		if meta, ok := b.metadata.Get(name); ok && meta.UsableRect.Contains(lat, lon) {
			return true
		}
	}
	return false
}

// BoundRect returns the union of every known file's usable rectangle.
func (b *Backend) BoundRect() Rect {
	all := b.metadata.All()
	if len(all) == 0 {
		return Rect{MinLat: math.NaN(), MinLon: math.NaN(), MaxLat: math.NaN(), MaxLon: math.NaN()}
	}
	rect := all[0].UsableRect
	for _, m := range all[1:] {
		rect = rect.Union(m.UsableRect)
	}
	return rect
}
