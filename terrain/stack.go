// Package terrain implements the layered height query of spec §4.E: a
// prioritized stack of LIDAR, canopy DSM, high-resolution DEM, SRTM,
// and a global fallback grid, presented as one terrain-height query
// with per-point source attribution and hit counters.
package terrain

import (
	"math"
	"sync"

	"github.com/open-afc-project/openafc-sub001/raster"
)

// LidarResult classifies a LIDAR lookup's outcome beyond a plain
// hit/miss, per spec §4.E.
type LidarResult int

const (
	LidarOutsideRegion LidarResult = iota
	LidarNoData
	LidarNoBuilding
	LidarBuilding
)

func (r LidarResult) String() string {
	switch r {
	case LidarOutsideRegion:
		return "OUTSIDE_REGION"
	case LidarNoData:
		return "NO_DATA"
	case LidarNoBuilding:
		return "NO_BUILDING"
	case LidarBuilding:
		return "BUILDING"
	default:
		return "UNKNOWN"
	}
}

// Source identifies which layer of the stack answered a query.
type Source int

const (
	SourceCDSM Source = iota
	SourceLIDAR
	SourceDEP
	SourceSRTM
	SourceGlobal
)

func (s Source) String() string {
	switch s {
	case SourceCDSM:
		return "CDSM"
	case SourceLIDAR:
		return "LIDAR"
	case SourceDEP:
		return "DEP"
	case SourceSRTM:
		return "SRTM"
	default:
		return "GLOBAL"
	}
}

// GlobalFallback is the last-resort terrain source: a single always-
// answering elevation grid. Grounded on the layered-elevation-getter
// shape of other_examples' ETOPO1 reader (ElevationGetter interface):
// bounded global coverage, explicit error return, no no-data sentinel
// since global coverage is total.
type GlobalFallback interface {
	GetElevation(lat, lon float64) (float64, error)
}

const (
	lidarTerrainBand  = 0
	lidarBuildingBand = 1
)

// Stack is the ordered five-tier terrain query. CDSM and DEP are
// optional; a nil backend is simply skipped.
type Stack struct {
	lidar  *raster.Backend
	cdsm   *raster.Backend
	dep    *raster.Backend
	srtm   *raster.Backend
	global GlobalFallback

	mu     sync.Mutex
	counts map[Source]int64
}

// NewStack wires the five source layers. cdsm and dep may be nil.
func NewStack(lidar, cdsm, dep, srtm *raster.Backend, global GlobalFallback) *Stack {
	return &Stack{
		lidar:  lidar,
		cdsm:   cdsm,
		dep:    dep,
		srtm:   srtm,
		global: global,
		counts: make(map[Source]int64),
	}
}

func (s *Stack) record(src Source) {
	s.mu.Lock()
	s.counts[src]++
	s.mu.Unlock()
}

// Counts returns a snapshot of the per-source hit counters, suitable
// for a printable end-of-run summary.
func (s *Stack) Counts() map[Source]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Source]int64, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// TerrainHeight resolves the terrain (and, where available, building)
// height at (lat, lon), consulting sources in priority order per spec
// §4.E. buildingM is math.NaN() when no building height applies.
func (s *Stack) TerrainHeight(lat, lon float64, cdsmFlag bool) (terrainM, buildingM float64, lidar LidarResult, source Source, err error) {
	if cdsmFlag && s.cdsm != nil {
		if v, ok, cerr := s.cdsm.ValueAt(lat, lon, 0, false); cerr == nil && ok {
			s.record(SourceCDSM)
			return v, math.NaN(), LidarOutsideRegion, SourceCDSM, nil
		}
	}

	if s.lidar != nil && s.lidar.Covers(lat, lon) {
		s.record(SourceLIDAR)
		terrainV, terrainOK, terr := s.lidar.ValueAt(lat, lon, lidarTerrainBand, false)
		if terr != nil {
			return 0, math.NaN(), LidarNoData, SourceLIDAR, terr
		}
		if !terrainOK {
			return 0, math.NaN(), LidarNoData, SourceLIDAR, nil
		}
		buildingV, buildingOK, berr := s.lidar.ValueAt(lat, lon, lidarBuildingBand, false)
		if berr != nil || !buildingOK {
			return terrainV, math.NaN(), LidarNoBuilding, SourceLIDAR, nil
		}
		return terrainV, buildingV, LidarBuilding, SourceLIDAR, nil
	}

	if s.dep != nil {
		if v, ok, derr := s.dep.ValueAt(lat, lon, 0, false); derr == nil && ok {
			s.record(SourceDEP)
			return v, math.NaN(), LidarOutsideRegion, SourceDEP, nil
		}
	}

	if s.srtm != nil {
		if v, ok, serr := s.srtm.ValueAt(lat, lon, 0, false); serr == nil && ok {
			s.record(SourceSRTM)
			return v, math.NaN(), LidarOutsideRegion, SourceSRTM, nil
		}
	}

	// Global fallback never fails per spec §7: "a point outside all
	// terrain tiles falls through to the global fallback and never
	// fails".
	v, gerr := s.global.GetElevation(lat, lon)
	s.record(SourceGlobal)
	if gerr != nil {
		return 0, math.NaN(), LidarOutsideRegion, SourceGlobal, gerr
	}
	return v, math.NaN(), LidarOutsideRegion, SourceGlobal, nil
}
