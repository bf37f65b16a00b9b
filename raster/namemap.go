package raster

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// NameMapper resolves the raster file(s) that may cover a given
// (lat, lon), per spec §4.D Discovery.
type NameMapper interface {
	// Candidates returns the base names of files that might cover the
	// point; the caller still checks each file's actual bound rect.
	Candidates(lat, lon float64) []string
	// All returns every known base name, used by Covers/BoundRect
	// sweeps.
	All() []string
}

// PatternNameMapper formats a file name for (lat, lon) from a pattern
// with substitutable fields: latHem, lonHem, latDegFloor, latDegCeil,
// lonDegFloor, lonDegCeil, each usable with a printf-like width, e.g.
// "%(latHem)s%(latDegFloor)02d%(lonHem)s%(lonDegFloor)03d.tif".
//
// latDegFloor/latDegCeil carry an off-by-one tiebreak for integer
// arguments: a point exactly on a tile boundary belongs to the tile
// whose top and left edges include it, so an integer-valued lat/lon
// resolves to the floor tile without also matching the adjacent
// ceil tile.
type PatternNameMapper struct {
	Pattern string
}

func hemLat(lat float64) string {
	if lat < 0 {
		return "S"
	}
	return "N"
}

func hemLon(lon float64) string {
	if lon < 0 {
		return "W"
	}
	return "E"
}

// degFloorCeil returns (floorAbs, ceilAbs) applying the boundary
// tiebreak: an exact-integer value's tile is the floor tile, so
// ceil is reported equal to floor in that case (no adjacent-tile
// candidate is generated for it).
func degFloorCeil(v float64) (floorAbs, ceilAbs int) {
	f := math.Floor(math.Abs(v))
	c := math.Ceil(math.Abs(v))
	if f == c {
		return int(f), int(f)
	}
	return int(f), int(c)
}

func (m PatternNameMapper) format(latHem, lonHem string, latDeg, lonDeg int) string {
	r := strings.NewReplacer(
		"%(latHem)s", latHem,
		"%(lonHem)s", lonHem,
	)
	out := r.Replace(m.Pattern)
	out = strings.ReplaceAll(out, "%(latDegFloor)02d", fmt.Sprintf("%02d", latDeg))
	out = strings.ReplaceAll(out, "%(latDegCeil)02d", fmt.Sprintf("%02d", latDeg))
	out = strings.ReplaceAll(out, "%(lonDegFloor)03d", fmt.Sprintf("%03d", lonDeg))
	out = strings.ReplaceAll(out, "%(lonDegCeil)03d", fmt.Sprintf("%03d", lonDeg))
	return out
}

// Candidates formats the up-to-4 file names (floor/ceil of lat crossed
// with floor/ceil of lon) that could cover the point, deduplicated.
func (m PatternNameMapper) Candidates(lat, lon float64) []string {
	latFloor, latCeil := degFloorCeil(lat)
	lonFloor, lonCeil := degFloorCeil(lon)

	seen := map[string]bool{}
	var out []string
	for _, la := range uniqueInts(latFloor, latCeil) {
		for _, lo := range uniqueInts(lonFloor, lonCeil) {
			name := m.format(hemLat(lat), hemLon(lon), la, lo)
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

func uniqueInts(a, b int) []int {
	if a == b {
		return []int{a}
	}
	return []int{a, b}
}

// All is unsupported for a pattern mapper: candidates are generated on
// demand, there is no enumerable file list.
func (m PatternNameMapper) All() []string { return nil }

// DirectoryNameMapper reads every file in a directory once, building a
// list of (bound rectangle, file name) pairs, lazily on first use.
// Grounded on the teacher's search/search.go trawl/FindGsf directory
// walk, generalized from *.gsf to any raster extension and rewired
// from a plain filepath.Match walk to tiledb.VFS.List so the same code
// also works against object-store URIs.
type DirectoryNameMapper struct {
	ctx     *tiledb.Context
	vfs     *tiledb.VFS
	baseURI string
	pattern string

	mu      sync.Mutex
	scanned bool
	entries []string // base names discovered under baseURI
}

// NewDirectoryNameMapper constructs a lazy directory-scanning mapper.
func NewDirectoryNameMapper(ctx *tiledb.Context, vfs *tiledb.VFS, baseURI, pattern string) *DirectoryNameMapper {
	return &DirectoryNameMapper{ctx: ctx, vfs: vfs, baseURI: baseURI, pattern: pattern}
}

func (m *DirectoryNameMapper) ensureScanned() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scanned {
		return
	}
	m.entries = trawl(m.vfs, m.pattern, m.baseURI, nil)
	m.scanned = true
}

// trawl recursively walks uri, matching file base names against
// pattern, exactly as the teacher's search.trawl does for *.gsf.
func trawl(vfs *tiledb.VFS, pattern, uri string, items []string) []string {
	dirs, files, err := vfs.List(uri)
	if err != nil {
		return items
	}

	for _, file := range files {
		if match, _ := filepath.Match(pattern, filepath.Base(file)); match {
			items = append(items, file)
		}
	}
	for _, dir := range dirs {
		items = trawl(vfs, pattern, dir, items)
	}
	return items
}

// Candidates ignores (lat, lon) and returns every known file; callers
// narrow by checking each file's actual bound rectangle via the
// metadata cache.
func (m *DirectoryNameMapper) Candidates(lat, lon float64) []string {
	m.ensureScanned()
	return m.entries
}

// All returns every discovered file, scanning the directory on first
// use.
func (m *DirectoryNameMapper) All() []string {
	m.ensureScanned()
	return m.entries
}
