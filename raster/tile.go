package raster

import (
	"sync"

	"github.com/open-afc-project/openafc-sub001/lrucache"
)

// TileKey identifies one cached tile: a band of a file, at the
// top-left pixel offset of a tile of at most MaxTileSize pixels per
// side, aligned so the tile also respects the file's margin.
type TileKey struct {
	Band     int
	LatOff   int
	LonOff   int
	FileBase string
}

// Tile is the owning unit of cached pixel data: the entry owns its
// pixel buffer and carries a copy of its band's no-data sentinel
// rather than any reference to the file's metadata, per the
// "Deep inheritance -> tagged variants" / "Pointer graphs" design
// notes in spec §9.
type Tile struct {
	RowOff, ColOff int
	Rows, Cols     int
	Pixels         []float64 // row-major, len == Rows*Cols
	NoData         float64
	HasNoData      bool
}

func (t *Tile) at(row, col int) (float64, bool) {
	idx := (row-t.RowOff)*t.Cols + (col - t.ColOff)
	if idx < 0 || idx >= len(t.Pixels) {
		return 0, false
	}
	v := t.Pixels[idx]
	if t.HasNoData && v == t.NoData {
		return v, false
	}
	return v, true
}

// TileCache is the §4.D tile cache: keyed by (band, lat_offset,
// lon_offset, file_base_name), backed by lrucache.Cache so eviction
// follows the shared LRU discipline of spec §4.C. A tile that could not
// be read (out of range, or a failed block read) is stored as a nil
// tombstone; Get reports a tombstone as a miss, so a later query for
// the same area reads through the source again.
type TileCache struct {
	maxTileSize int
	mu          sync.Mutex
	cache       *lrucache.Cache[TileKey, *Tile]
}

// NewTileCache builds a tile cache of the given tile edge length in
// pixels and LRU capacity (number of tiles, not bytes).
func NewTileCache(maxTileSize, capacityTiles int) *TileCache {
	return &TileCache{
		maxTileSize: maxTileSize,
		cache:       lrucache.New[TileKey, *Tile](capacityTiles),
	}
}

// tileOrigin aligns (row, col) down to the start of its tile, honoring
// the margin offset so tiles never start inside the unusable border.
func (c *TileCache) tileOrigin(row, col, marginPx int) (int, int) {
	rowOff := ((row-marginPx)/c.maxTileSize)*c.maxTileSize + marginPx
	colOff := ((col-marginPx)/c.maxTileSize)*c.maxTileSize + marginPx
	return rowOff, colOff
}

// Get returns the cached tile for key, or (nil, false) on a miss
// (including a cached tombstone, reported identically to the caller
// since both mean "read through src").
func (c *TileCache) Get(key TileKey) (*Tile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.cache.Get(key)
	if !ok || t == nil {
		return nil, false
	}
	return t, true
}

// Put installs a tile (or a nil tombstone for a known-absent area)
// for key.
func (c *TileCache) Put(key TileKey, t *Tile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(key, t)
}

// FetchTile loads (or returns the cached) tile covering (row, col) of
// the given band from src, using meta for the no-data sentinel and
// the array's pixel bounds.
func (c *TileCache) FetchTile(src PixelSource, fileBase string, meta *FileMeta, band, row, col, marginPx, totalRows, totalCols int) (*Tile, error) {
	rowOff, colOff := c.tileOrigin(row, col, marginPx)
	if rowOff < 0 {
		rowOff = 0
	}
	if colOff < 0 {
		colOff = 0
	}

	key := TileKey{Band: band, LatOff: rowOff, LonOff: colOff, FileBase: fileBase}
	if t, ok := c.Get(key); ok {
		return t, nil
	}

	rows := c.maxTileSize
	if rowOff+rows > totalRows {
		rows = totalRows - rowOff
	}
	cols := c.maxTileSize
	if colOff+cols > totalCols {
		cols = totalCols - colOff
	}
	if rows <= 0 || cols <= 0 {
		c.Put(key, nil)
		return nil, ErrOutOfRange
	}

	buf, err := src.ReadBlock(band, rowOff, colOff, rows, cols)
	if err != nil {
		c.Put(key, nil)
		return nil, err
	}

	noData, hasNoData := meta.NoDataFor(band)
	tile := &Tile{
		RowOff: rowOff, ColOff: colOff,
		Rows: rows, Cols: cols,
		Pixels: buf, NoData: noData, HasNoData: hasNoData,
	}
	c.Put(key, tile)
	return tile, nil
}
