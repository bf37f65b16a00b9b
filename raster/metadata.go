package raster

import "sync"

// BandMeta describes one raster band: its pixel datatype and no-data
// sentinel, declared via struct tags on a caller-supplied descriptor
// type and parsed with stagparser (see band.go), the same tag-driven
// approach the teacher uses to drive TileDB attribute creation from
// struct tags in its own tiledb.go (CreateAttr).
type BandMeta struct {
	Index  int
	DType  string
	NoData float64
}

// FileMeta is the small per-file record cached by base name: its
// bounding rectangle (derived from the file's geotransform), pixels
// per degree on each axis, and per-band no-data sentinels.
//
// The geotransform may be rounded (PxPerDegLat/Lon snapped to the
// nearest multiple of RoundTo) and the usable rectangle shrunk from
// the storage rectangle by MarginPx pixels, guarding against edge
// pixels with bad interpolation.
type FileMeta struct {
	BaseName    string
	StorageRect Rect
	UsableRect  Rect
	PxPerDegLat float64
	PxPerDegLon float64
	Bands       []BandMeta
}

// NoDataFor returns the no-data sentinel for the given band, or (0,
// false) if the band is unknown.
func (f *FileMeta) NoDataFor(band int) (float64, bool) {
	for _, b := range f.Bands {
		if b.Index == band {
			return b.NoData, true
		}
	}
	return 0, false
}

// roundToMultiple snaps v to the nearest multiple of step (step > 0).
func roundToMultiple(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return float64(int64(v/step+0.5)) * step
}

// NewFileMeta builds a FileMeta from raw geotransform-derived values,
// applying the optional pixel-per-degree rounding and margin shrink
// described in spec §4.D.
func NewFileMeta(baseName string, storage Rect, pxPerDegLat, pxPerDegLon, roundTo float64, marginPx int, bands []BandMeta) *FileMeta {
	if roundTo > 0 {
		pxPerDegLat = roundToMultiple(pxPerDegLat, roundTo)
		pxPerDegLon = roundToMultiple(pxPerDegLon, roundTo)
	}

	marginDegLat := 0.0
	marginDegLon := 0.0
	if pxPerDegLat > 0 {
		marginDegLat = float64(marginPx) / pxPerDegLat
	}
	if pxPerDegLon > 0 {
		marginDegLon = float64(marginPx) / pxPerDegLon
	}

	return &FileMeta{
		BaseName:    baseName,
		StorageRect: storage,
		UsableRect: Rect{
			MinLat: storage.MinLat + marginDegLat, MaxLat: storage.MaxLat - marginDegLat,
			MinLon: storage.MinLon, MaxLon: storage.MaxLon,
		}.expandLon(-marginDegLon),
		PxPerDegLat: pxPerDegLat,
		PxPerDegLon: pxPerDegLon,
		Bands:       bands,
	}
}

// expandLon applies an independent longitude margin from the latitude
// margin applied by Expand, since pixel density can differ per axis
// near the poles.
func (r Rect) expandLon(marginDeg float64) Rect {
	return Rect{
		MinLat: r.MinLat,
		MaxLat: r.MaxLat,
		MinLon: r.MinLon - marginDeg,
		MaxLon: r.MaxLon + marginDeg,
	}
}

// MetadataCache maps a file base name to its FileMeta, populated
// through Put (OpenDirectory fills it for every discovered file when
// it builds the backend) and kept for the life of the
// backend (the cache itself is unbounded: the file count in a single
// deployment is small compared to the tile count drawn from them).
type MetadataCache struct {
	mu    sync.RWMutex
	byURI map[string]*FileMeta
}

// NewMetadataCache constructs an empty metadata cache.
func NewMetadataCache() *MetadataCache {
	return &MetadataCache{byURI: make(map[string]*FileMeta)}
}

// Get returns the cached metadata for baseName, if present.
func (c *MetadataCache) Get(baseName string) (*FileMeta, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.byURI[baseName]
	return m, ok
}

// Put installs metadata for baseName.
func (c *MetadataCache) Put(baseName string, meta *FileMeta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byURI[baseName] = meta
}

// All returns every cached FileMeta regardless of order.
func (c *MetadataCache) All() []*FileMeta {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*FileMeta, 0, len(c.byURI))
	for _, m := range c.byURI {
		out = append(out, m)
	}
	return out
}
