package raster

import "testing"

// fakeNameMapper resolves to a single fixed file regardless of (lat, lon).
type fakeNameMapper struct{ name string }

func (f fakeNameMapper) Candidates(lat, lon float64) []string { return []string{f.name} }
func (f fakeNameMapper) All() []string                        { return []string{f.name} }

// fakeSource is an in-memory PixelSource for a 10x10 band.
type fakeSource struct {
	reads int
	grid  [][]float64
}

func newFakeSource() *fakeSource {
	g := make([][]float64, 10)
	for r := range g {
		g[r] = make([]float64, 10)
		for c := range g[r] {
			g[r][c] = float64(r*10 + c)
		}
	}
	return &fakeSource{grid: g}
}

func (f *fakeSource) ReadPixel(band, row, col int) (float64, error) {
	f.reads++
	return f.grid[row][col], nil
}

func (f *fakeSource) ReadBlock(band, rowOff, colOff, rows, cols int) ([]float64, error) {
	f.reads++
	out := make([]float64, 0, rows*cols)
	for r := rowOff; r < rowOff+rows; r++ {
		for c := colOff; c < colOff+cols; c++ {
			out = append(out, f.grid[r][c])
		}
	}
	return out, nil
}

func (f *fakeSource) Close() error { return nil }

func newTestBackend(t *testing.T, tileCacheCapacity int) (*Backend, *fakeSource) {
	t.Helper()
	src := newFakeSource()

	meta := NewFileMeta("fake.tif", Rect{MinLat: 0, MinLon: 0, MaxLat: 1, MaxLon: 1}, 10, 10, 0, 0, nil)
	metaCache := NewMetadataCache()
	metaCache.Put("fake.tif", meta)

	openCache := NewOpenFileCache(1, func(name string) (PixelSource, error) { return src, nil })
	tileCache := NewTileCache(4, tileCacheCapacity)

	backend := NewBackend(fakeNameMapper{name: "fake.tif"}, metaCache, tileCache, openCache, 0,
		func(string) (int, int, error) { return 10, 10, nil })
	return backend, src
}

// TestTileCacheValueEquivalence is testable property 4 from spec §8:
// value-at in direct mode equals value-at in cached mode.
func TestTileCacheValueEquivalence(t *testing.T) {
	direct, srcDirect := newTestBackend(t, 8)
	cached, srcCached := newTestBackend(t, 8)

	lat, lon := 0.55, 0.33 // row=4, col=3 given 10 px/deg and MaxLat=1

	vDirect, okDirect, err := direct.ValueAt(lat, lon, 0, true)
	if err != nil {
		t.Fatalf("direct read error: %v", err)
	}
	vCached, okCached, err := cached.ValueAt(lat, lon, 0, false)
	if err != nil {
		t.Fatalf("cached read error: %v", err)
	}
	if vDirect != vCached || okDirect != okCached {
		t.Fatalf("direct (%v,%v) != cached (%v,%v)", vDirect, okDirect, vCached, okCached)
	}
	_ = srcDirect
	_ = srcCached
}

// TestTileCacheDisabledEqualsDirect: a cache size of 0 (effectively
// disabled, i.e. capacity 1 re-fetching every time) still returns
// values matching direct mode.
func TestTileCacheDisabledEqualsDirect(t *testing.T) {
	disabled, _ := newTestBackend(t, 1)
	for _, pt := range [][2]float64{{0.1, 0.1}, {0.9, 0.9}, {0.5, 0.2}} {
		vDirect, okDirect, err := disabled.ValueAt(pt[0], pt[1], 0, true)
		if err != nil {
			t.Fatalf("direct error: %v", err)
		}
		vCached, okCached, err := disabled.ValueAt(pt[0], pt[1], 0, false)
		if err != nil {
			t.Fatalf("cached error: %v", err)
		}
		if vDirect != vCached || okDirect != okCached {
			t.Fatalf("mismatch at %v: direct(%v,%v) cached(%v,%v)", pt, vDirect, okDirect, vCached, okCached)
		}
	}
}

func TestTileCacheServesRepeatQueriesWithoutRefetch(t *testing.T) {
	backend, src := newTestBackend(t, 8)
	lat, lon := 0.55, 0.33

	if _, _, err := backend.ValueAt(lat, lon, 0, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	readsAfterFirst := src.reads
	if _, _, err := backend.ValueAt(lat, lon, 0, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.reads != readsAfterFirst {
		t.Fatalf("expected no additional reads on tile cache hit, got %d -> %d", readsAfterFirst, src.reads)
	}
}

func TestPatternNameMapperCandidates(t *testing.T) {
	m := PatternNameMapper{Pattern: "%(latHem)s%(latDegFloor)02d%(lonHem)s%(lonDegFloor)03d.tif"}
	names := m.Candidates(40.5, -74.5)
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found["N40W074.tif"] {
		t.Fatalf("expected N40W074.tif among candidates, got %v", names)
	}
}

func TestPatternNameMapperIntegerBoundaryTiebreak(t *testing.T) {
	m := PatternNameMapper{Pattern: "%(latHem)s%(latDegFloor)02d%(lonHem)s%(lonDegFloor)03d.tif"}
	names := m.Candidates(40.0, -74.0)
	if len(names) != 1 {
		t.Fatalf("expected exactly 1 candidate for an exact-integer point, got %v", names)
	}
	if names[0] != "N40W074.tif" {
		t.Fatalf("expected floor tile N40W074.tif, got %v", names[0])
	}
}

func TestCoversAndBoundRect(t *testing.T) {
	backend, _ := newTestBackend(t, 8)
	if !backend.Covers(0.5, 0.5) {
		t.Fatal("expected backend to cover a point inside the fixture file")
	}
	if backend.Covers(5, 5) {
		t.Fatal("expected backend not to cover a point far outside the fixture file")
	}
	rect := backend.BoundRect()
	if rect.MinLat != 0 || rect.MaxLat != 1 {
		t.Fatalf("unexpected bound rect: %+v", rect)
	}
}
