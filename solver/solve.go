// Package solver implements the top-level EIRP solver of spec §4.J:
// for each inquiry, window the incumbent catalog, evaluate every
// surviving (incumbent, channel, scan-point, height) combination in
// parallel, and reduce to a per-channel permitted EIRP.
package solver

import (
	"context"
	"runtime"
	"strconv"

	"github.com/alitto/pond"
	"github.com/samber/lo"

	"github.com/open-afc-project/openafc-sub001"
	"github.com/open-afc-project/openafc-sub001/afcmsg"
	"github.com/open-afc-project/openafc-sub001/audit"
	"github.com/open-afc-project/openafc-sub001/exclusion"
	"github.com/open-afc-project/openafc-sub001/incumbent"
	"github.com/open-afc-project/openafc-sub001/linkeval"
	"github.com/open-afc-project/openafc-sub001/rlan"
)

// Engine bundles the shared, read-only-during-solve dependencies a
// request is solved against: the FS catalog, the RAS/exclusion-zone
// catalog, the terrain lookup, and the propagation model, per spec
// §4.J/§5. The tile cache and terrain stack behind Terrain are the
// only mutable shared state; Engine itself holds nothing mutable.
type Engine struct {
	Catalog     Catalog
	RASZones    []exclusion.Zone
	Terrain     rlan.TerrainFunc
	Propagation linkeval.PropagationModel
	Audit       *audit.Writer
}

// Fixed scan parameters; a production deployment would source these
// from the configuration document, but spec §6's Config does not name
// a field for them, so they are held as engine constants here.
const (
	scanMethod         = rlan.ScanNorthEastAligned
	scanResolutionM    = 30.0
	samplesPerProfile  = 8
)

// color is the per-channel availability classification of spec §4.J
// step 4.
type color int

const (
	colorGreen color = iota
	colorYellow
	colorRed
	colorBlack
)

// channelResult is one evaluated channel's outcome before being
// folded into the wire response.
type channelResult struct {
	channel    afcmsg.Channel
	permitted  float64
	col        color
}

// Solve resolves every inquiry in req against the engine's catalogs
// and caches, per spec §4.J/§6.
func Solve(ctx context.Context, req afcmsg.Request, cfg afcmsg.Config, engine Engine) afcmsg.Response {
	resp := afcmsg.Response{Version: req.Version}
	for _, inq := range req.Inquiries {
		resp.Responses = append(resp.Responses, solveInquiry(ctx, inq, cfg, engine))
	}
	return resp
}

func solveInquiry(ctx context.Context, inq afcmsg.Inquiry, cfg afcmsg.Config, engine Engine) afcmsg.InquiryResponse {
	out := afcmsg.InquiryResponse{RequestID: inq.RequestID, RulesetID: "US_47_CFR_PART_15_SUBPART_E"}

	region, err := buildRegion(inq.Location, inq.Elevation)
	if err != nil {
		return invalidResponse(inq.RequestID, err)
	}
	if err := region.Configure(engine.Terrain); err != nil {
		return fatalAsInvalid(inq.RequestID, err)
	}

	minLat, minLon, maxLat, maxLon := boundRectM(region, cfg.MaxLinkDistanceKm*1000)
	candidates, err := engine.Catalog.Query(minLat, minLon, maxLat, maxLon)
	if err != nil {
		return fatalAsInvalid(inq.RequestID, err)
	}
	candidates = lo.Filter(candidates, func(rec *incumbent.Record, _ int) bool {
		return rec.Bounds.MaxPathLossDB <= 0 || rec.Bounds.MinPathLossDB < cfg.MaxEIRPDBm-cfg.INThresholdDB
	})

	channels := resolveRequestedChannels(inq)
	if len(channels) == 0 {
		return afcmsg.InquiryResponse{
			RequestID:    inq.RequestID,
			RulesetID:    out.RulesetID,
			ResponseCode: afcmsg.ResponseCode{Code: int(afc.CodeMissingParam), Description: "no channel or frequency range requested"},
		}
	}

	indoor := inq.IndoorDeployment == afcmsg.IndoorIndoor

	// Scan the region and derive each incumbent's angle off boresight
	// once, up front, on this goroutine. region.Scan mutates the
	// region's internal scan cache, so it must never be called from
	// the worker pool below; every channel/incumbent worker only reads
	// the scanPoints slice and aobByIncumbent map built here.
	scanPoints, err := region.Scan(scanMethod, scanResolutionM)
	if err != nil {
		scanPoints = nil
	}
	aobByIncumbent := make(map[*incumbent.Record]float64, len(candidates))
	for _, rec := range candidates {
		rx := rec.Primary
		aob, err := region.MinAOB(rx.LatDeg, rx.LonDeg, rx.AzimuthDeg, rx.ElevationDeg, rx.HeightAMSLM())
		if err == nil {
			aobByIncumbent[rec] = aob
		}
	}
	_, maxAGL, minAMSL, maxAMSL := region.HeightRange()
	heights := [2]float64{minAMSL, maxAMSL}
	centerLat, centerLon := region.Center()

	n := runtime.NumCPU()
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	results := make([]channelResult, len(channels))
	for i, ch := range channels {
		i, ch := i, ch
		pool.Submit(func() {
			results[i] = evaluateChannel(ch, candidates, scanPoints, heights, aobByIncumbent, centerLat, centerLon, maxAGL, engine, cfg, indoor)
		})
	}
	pool.StopAndWait()

	out.AvailableChannelInfo, out.AvailableFrequencyInfo = buildOutputs(inq, results)
	out.ResponseCode = afcmsg.ResponseCode{Code: int(afc.CodeSuccess)}
	return out
}

// evaluateChannel computes the permitted EIRP and color for one
// channel against every surviving incumbent, per spec §4.J steps 3-4.
// It touches no shared mutable region state: scanPoints, heights, and
// aobByIncumbent were all derived from the region once, before any
// worker was dispatched.
func evaluateChannel(ch afcmsg.Channel, candidates []*incumbent.Record, scanPoints []afc.Point, heights [2]float64, aobByIncumbent map[*incumbent.Record]float64, centerLatDeg, centerLonDeg, maxAGLM float64, engine Engine, cfg afcmsg.Config, indoor bool) channelResult {
	overlapping := lo.Filter(candidates, func(rec *incumbent.Record, _ int) bool {
		return rec.OverlapsChannel(ch.StartMHz, ch.StopMHz)
	})

	// Per spec §4.J step 4: the channel's permitted EIRP is the minimum
	// across every surviving incumbent, defaulting to the configured
	// ceiling when nothing overlaps.
	perIncumbent := lo.Map(overlapping, func(rec *incumbent.Record, _ int) float64 {
		return permittedEIRPForIncumbent(ch, scanPoints, heights, rec, aobByIncumbent[rec], engine, cfg, indoor)
	})
	permitted := lo.MinBy(append(perIncumbent, cfg.MaxEIRPDBm), func(item, min float64) bool {
		return item < min
	})

	col := colorGreen
	switch {
	case permitted < cfg.MinEIRPDBm:
		permitted = cfg.MinEIRPDBm
		col = colorRed
	case permitted < cfg.MaxEIRPDBm:
		col = colorYellow
	}

	if exclusion.AnyDenies(engine.RASZones, centerLatDeg, centerLonDeg, maxAGLM, ch.StartMHz, ch.StopMHz) {
		col = colorBlack
	}

	return channelResult{channel: ch, permitted: permitted, col: col}
}

// permittedEIRPForIncumbent finds the EIRP that drives the worst-case
// I/N over the region's scan points and height extremes to the
// configured threshold, per spec §4.J steps 3a-3c. Because I/N is
// exactly linear in EIRP (everything else is a fixed per-sample
// offset), the permitted EIRP is derived directly from the I/N
// computed at a reference EIRP of 0 dBm rather than by search.
// scanPoints, heights, and fsBoresightAOBDeg are precomputed by the
// caller so this function never touches the shared region.
func permittedEIRPForIncumbent(ch afcmsg.Channel, scanPoints []afc.Point, heights [2]float64, rec *incumbent.Record, fsBoresightAOBDeg float64, engine Engine, cfg afcmsg.Config, indoor bool) float64 {
	if len(scanPoints) == 0 {
		return cfg.MaxEIRPDBm
	}

	worst := cfg.MaxEIRPDBm
	for _, pt := range scanPoints {
		for _, heightAMSL := range heights {
			link := linkeval.Link{
				RLAN: linkeval.Endpoint{
					LatDeg: pt.LatDeg, LonDeg: pt.LonDeg, HeightAMSLM: heightAMSL,
					Indoor: indoor,
				},
				RLANEIRP:          0,
				FreqMHz:           (ch.StartMHz + ch.StopMHz) / 2,
				Incumbent:         rec,
				Model:             engine.Propagation,
				SamplesPerProfile: samplesPerProfile,
				FSBoresightAOBDeg: fsBoresightAOBDeg,
			}
			in0, err := linkeval.IN(link)
			if err != nil {
				continue
			}
			permitted := cfg.INThresholdDB - in0
			if permitted < worst {
				worst = permitted
				if engine.Audit != nil && in0 >= cfg.INThresholdDB {
					_ = engine.Audit.Write(audit.Row{
						IncumbentID:   rec.ID,
						ChannelLabel:  channelLabel(ch),
						ScanLatDeg:    pt.LatDeg,
						ScanLonDeg:    pt.LonDeg,
						ScanHeightM:   heightAMSL,
						FreqMHz:       link.FreqMHz,
						INThresholdDB: cfg.INThresholdDB,
						INActualDB:    in0,
						EIRPDBm:       permitted,
					})
				}
			}
		}
	}
	return worst
}

func channelLabel(ch afcmsg.Channel) string {
	return strconv.Itoa(ch.GlobalOperatingClass) + "/" + strconv.Itoa(ch.ChannelCFI)
}
