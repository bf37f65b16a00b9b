package linkeval

import (
	"errors"
	"math"

	"github.com/open-afc-project/openafc-sub001"
	"github.com/open-afc-project/openafc-sub001/incumbent"
)

// ErrNoProfile is returned by IN when the link's PropagationModel is
// nil.
var ErrNoProfile = errors.New("linkeval: propagation model is required")

// Endpoint is one end of the evaluated link.
type Endpoint struct {
	LatDeg, LonDeg   float64
	HeightAMSLM      float64
	PolarizationDeg  float64
	ClutterClass     ClutterClass
	Indoor           bool
}

// Link bundles everything the evaluator needs for one (RLAN sample,
// incumbent, channel) triple, per spec §4.I.
type Link struct {
	RLAN      Endpoint
	RLANEIRP  float64 // dBm, the candidate EIRP being evaluated
	FreqMHz   float64
	Incumbent *incumbent.Record
	Diversity bool
	Model     PropagationModel
	SamplesPerProfile int

	// FSBoresightAOBDeg is the angle off boresight, at the incumbent's
	// receive antenna, used to read its discrimination. Callers
	// typically derive this once per incumbent via the RLAN region's
	// min-AOB operation (spec §4.G) over the whole uncertainty volume,
	// rather than recomputing exact per-scan-point geometry.
	FSBoresightAOBDeg float64
}

// segment is one hop of the link: RLAN -> repeater(s) -> incumbent
// receiver, given by its two endpoints.
type segment struct {
	fromLatDeg, fromLonDeg, fromHeightM float64
	toLatDeg, toLonDeg, toHeightM       float64
}

func buildSegments(l Link) []segment {
	segs := make([]segment, 0, len(l.Incumbent.Repeaters)+1)
	fromLat, fromLon, fromH := l.RLAN.LatDeg, l.RLAN.LonDeg, l.RLAN.HeightAMSLM

	for _, pr := range l.Incumbent.Repeaters {
		segs = append(segs, segment{
			fromLatDeg: fromLat, fromLonDeg: fromLon, fromHeightM: fromH,
			toLatDeg: pr.LatDeg, toLonDeg: pr.LonDeg, toHeightM: pr.RxHeightAMSLM(),
		})
		fromLat, fromLon, fromH = pr.LatDeg, pr.LonDeg, pr.TxHeightAMSLM()
	}

	rx := l.Incumbent.Primary
	if l.Diversity && l.Incumbent.Diversity != nil {
		rx = *l.Incumbent.Diversity
	}
	segs = append(segs, segment{
		fromLatDeg: fromLat, fromLonDeg: fromLon, fromHeightM: fromH,
		toLatDeg: rx.LatDeg, toLonDeg: rx.LonDeg, toHeightM: rx.HeightAMSLM(),
	})
	return segs
}

func sampleProfile(s segment, n int) PathProfile {
	if n < 2 {
		n = 2
	}
	total := afc.HaversineM(s.fromLatDeg, s.fromLonDeg, s.toLatDeg, s.toLonDeg)
	dists := make([]float64, n)
	for i := 0; i < n; i++ {
		dists[i] = total * float64(i) / float64(n-1)
	}
	dH := s.toHeightM - s.fromHeightM
	var nearEl, farEl float64
	if total > 0 {
		nearEl = math.Atan2(dH, total) * 180.0 / math.Pi
		farEl = math.Atan2(-dH, total) * 180.0 / math.Pi
	}
	return PathProfile{
		DistanceM:                    dists,
		ElevationAngleAtEndpointsDeg: [2]float64{nearEl, farEl},
	}
}

// IN computes the I/N, in dB, at the incumbent's LNA for the given
// link, per the five steps of spec §4.I.
func IN(l Link) (float64, error) {
	if l.Model == nil {
		return 0, ErrNoProfile
	}

	segs := buildSegments(l)
	totalPathLossDB := 0.0
	for _, s := range segs {
		profile := sampleProfile(s, l.SamplesPerProfile)
		totalPathLossDB += l.Model(s.fromLatDeg, s.fromLonDeg, s.fromHeightM,
			s.toLatDeg, s.toLonDeg, s.toHeightM, l.FreqMHz, profile, l.RLAN.ClutterClass)
	}

	totalPathLossDB += clutterLossDB(l.RLAN.ClutterClass, l.FreqMHz)
	totalPathLossDB += buildingEntryLossDB(l.RLAN.Indoor)

	rx := l.Incumbent.Primary
	if l.Diversity && l.Incumbent.Diversity != nil {
		rx = *l.Incumbent.Diversity
	}
	totalPathLossDB += polarizationMismatchLossDB(l.RLAN.PolarizationDeg, rx.PolarizationDeg)
	totalPathLossDB += rx.FeederLossDB

	rxGainDB, err := rx.Antenna.Gain(l.FSBoresightAOBDeg, l.FreqMHz, l.Diversity)
	if err != nil {
		return 0, err
	}

	repeaterGainDB := 0.0
	for i := range l.Incumbent.Repeaters {
		pr := &l.Incumbent.Repeaters[i]
		d, err := pr.Discrimination(l.FSBoresightAOBDeg, l.FreqMHz)
		if err != nil {
			return 0, err
		}
		repeaterGainDB += d
	}

	rxPowerDBm := l.RLANEIRP - totalPathLossDB + rxGainDB + repeaterGainDB
	return rxPowerDBm - rx.NoiseFloorDBm, nil
}
