package raster

import (
	"encoding/json"
	"errors"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// sidecarMeta is the on-disk geotransform record written alongside
// each raster's TileDB array, one JSON file per array, named
// "<array-uri>.meta.json". Grounded on the teacher's own
// WriteJson/VFS-based JSON read path (json.go): reading a small
// side-channel JSON document through tiledb.VFS works identically
// against local paths and object-store URIs, same as the pixel arrays
// themselves.
type sidecarMeta struct {
	StorageRect Rect       `json:"storageRect"`
	PxPerDegLat float64    `json:"pxPerDegLat"`
	PxPerDegLon float64    `json:"pxPerDegLon"`
	Bands       []BandMeta `json:"bands"`
}

func readSidecar(vfs *tiledb.VFS, arrayURI string) (*sidecarMeta, error) {
	metaURI := arrayURI + ".meta.json"
	handle, err := vfs.Open(metaURI, tiledb.TILEDB_VFS_READ)
	if err != nil {
		return nil, errors.Join(ErrUnreadable, err)
	}
	defer handle.Close()

	size, err := vfs.FileSize(metaURI)
	if err != nil {
		return nil, errors.Join(ErrUnreadable, err)
	}
	buf := make([]byte, size)
	if _, err := handle.Read(buf); err != nil {
		return nil, errors.Join(ErrUnreadable, err)
	}

	var sc sidecarMeta
	if err := json.Unmarshal(buf, &sc); err != nil {
		return nil, errors.Join(ErrUnreadable, err)
	}
	return &sc, nil
}

// OpenDirectory discovers every raster array under baseURI matching
// pattern, reads each one's sidecar geotransform, and wires a complete
// Backend: a DirectoryNameMapper, a populated MetadataCache, an LRU of
// open TileDB arrays, and the tile cache, per spec §4.D Discovery.
// roundTo and marginPx forward to NewFileMeta; tileEdgePx and
// tileCacheCapacity size the in-memory tile LRU; openFileCapacity sizes
// the open-array LRU. attr names the attribute within each array
// holding pixel values.
func OpenDirectory(ctx *tiledb.Context, vfs *tiledb.VFS, baseURI, pattern, attr string, roundTo float64, marginPx, tileEdgePx, tileCacheCapacity, openFileCapacity int) (*Backend, error) {
	mapper := NewDirectoryNameMapper(ctx, vfs, baseURI, pattern)
	metaCache := NewMetadataCache()

	for _, name := range mapper.All() {
		sc, err := readSidecar(vfs, name)
		if err != nil {
			continue // a file missing its sidecar is simply not servable, not fatal to the whole backend
		}
		meta := NewFileMeta(name, sc.StorageRect, sc.PxPerDegLat, sc.PxPerDegLon, roundTo, marginPx, sc.Bands)
		metaCache.Put(name, meta)
	}

	openCache := NewOpenFileCache(openFileCapacity, func(baseName string) (PixelSource, error) {
		return openTileDBDataset(ctx, baseName, attr)
	})
	tileCache := NewTileCache(tileEdgePx, tileCacheCapacity)

	extent := func(baseName string) (rows, cols int, err error) {
		meta, ok := metaCache.Get(baseName)
		if !ok {
			return 0, 0, ErrFileNotFound
		}
		rows = int((meta.StorageRect.MaxLat - meta.StorageRect.MinLat) * meta.PxPerDegLat)
		cols = int((meta.StorageRect.MaxLon - meta.StorageRect.MinLon) * meta.PxPerDegLon)
		return rows, cols, nil
	}

	return NewBackend(mapper, metaCache, tileCache, openCache, marginPx, extent), nil
}
