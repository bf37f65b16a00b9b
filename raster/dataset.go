package raster

import (
	"errors"
	"sync"

	tiledb "github.com/TileDB-Inc/TileDB-Go"

	"github.com/open-afc-project/openafc-sub001/lrucache"
)

// PixelSource reads a single band/pixel from one open raster file. It
// is the seam that lets the tile cache and direct-read path operate
// against either the real TileDB-backed Dataset or, in tests, a fake.
type PixelSource interface {
	// ReadPixel reads one pixel at (row, col) of the given band.
	ReadPixel(band, row, col int) (float64, error)
	// ReadBlock reads a rectangular block starting at (rowOff, colOff)
	// of size (rows, cols) for the given band, row-major.
	ReadBlock(band, rowOff, colOff, rows, cols int) ([]float64, error)
	Close() error
}

// tiledbDataset adapts one TileDB dense array (one array per
// discovered raster file) to PixelSource. Grounded on the teacher's
// ArrayOpen helper in tiledb.go, generalized from write-path schema
// construction to a read-path single/block pixel query.
type tiledbDataset struct {
	array *tiledb.Array
	ctx   *tiledb.Context
	attr  string // attribute name holding pixel values, one per band in this array's schema
}

// openTileDBDataset opens uri for reading.
func openTileDBDataset(ctx *tiledb.Context, uri, attr string) (*tiledbDataset, error) {
	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return nil, errors.Join(ErrUnreadable, err)
	}
	if err := array.Open(tiledb.TILEDB_READ); err != nil {
		array.Free()
		return nil, errors.Join(ErrUnreadable, err)
	}
	return &tiledbDataset{array: array, ctx: ctx, attr: attr}, nil
}

func (d *tiledbDataset) ReadBlock(band, rowOff, colOff, rows, cols int) ([]float64, error) {
	query, err := tiledb.NewQuery(d.ctx, d.array)
	if err != nil {
		return nil, errors.Join(ErrUnreadable, err)
	}
	defer query.Free()

	subArr, err := d.array.NewSubarray()
	if err != nil {
		return nil, errors.Join(ErrUnreadable, err)
	}
	defer subArr.Free()

	if err := subArr.SetSubarray([]int32{
		int32(rowOff), int32(rowOff + rows - 1),
		int32(colOff), int32(colOff + cols - 1),
	}); err != nil {
		return nil, errors.Join(ErrOutOfRange, err)
	}
	if err := query.SetSubarray(subArr); err != nil {
		return nil, errors.Join(ErrOutOfRange, err)
	}

	buffer := make([]float64, rows*cols)
	if _, err := query.SetDataBuffer(d.attr, buffer); err != nil {
		return nil, errors.Join(ErrUnreadable, err)
	}
	if err := query.Submit(); err != nil {
		return nil, errors.Join(ErrUnreadable, err)
	}

	return buffer, nil
}

func (d *tiledbDataset) ReadPixel(band, row, col int) (float64, error) {
	buf, err := d.ReadBlock(band, row, col, 1, 1)
	if err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		return 0, ErrOutOfRange
	}
	return buf[0], nil
}

func (d *tiledbDataset) Close() error {
	err := d.array.Close()
	d.array.Free()
	return err
}

// OpenFileCache is an LRU of open PixelSource handles, keyed by file
// base name, so a request touching many tiles from a small number of
// files does not repeatedly reopen the same backing array. Grounded
// on spec §4.D "the file is opened (through a small LRU of open
// files)".
type OpenFileCache struct {
	mu    sync.Mutex
	cache *lrucache.Cache[string, PixelSource]
	open  func(baseName string) (PixelSource, error)
}

// NewOpenFileCache builds a cache of at most capacity simultaneously
// open files, using open to materialize a PixelSource on a miss.
func NewOpenFileCache(capacity int, open func(baseName string) (PixelSource, error)) *OpenFileCache {
	return &OpenFileCache{cache: lrucache.New[string, PixelSource](capacity), open: open}
}

// Get returns an open PixelSource for baseName, opening it on a miss.
func (c *OpenFileCache) Get(baseName string) (PixelSource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if src, ok := c.cache.Get(baseName); ok {
		return src, nil
	}
	src, err := c.open(baseName)
	if err != nil {
		return nil, err
	}
	c.cache.Add(baseName, src)
	return src, nil
}
