package linkeval

import (
	"math"

	"github.com/open-afc-project/openafc-sub001"
)

// PathProfile is the terrain/surface sample sequence between two link
// endpoints, at the caller-chosen spacing of spec §4.I step 2.
type PathProfile struct {
	DistanceM     []float64
	TerrainHeightM []float64
	// ElevationAngleAtEndpointsDeg holds the elevation angle (degrees,
	// positive up) of the straight line to the far endpoint, as seen
	// from the near endpoint, for each of the two endpoints in order
	// [near, far].
	ElevationAngleAtEndpointsDeg [2]float64
}

// PropagationModel is the pluggable path-loss function of spec §4.I
// step 3: (lat1, lon1, h1, lat2, lon2, h2, freqMHz, profile, env) ->
// path_loss_dB.
type PropagationModel func(lat1, lon1, h1, lat2, lon2, h2, freqMHz float64, profile PathProfile, env ClutterClass) float64

// FreeSpacePathLoss is the default propagation model: the Friis
// free-space formula applied to the great-circle-plus-height-
// corrected 3-D distance, ignoring the terrain profile. It is the
// fallback used whenever no sharper model (ITM, etc.) is wired in,
// matching the "treated here as a pluggable function" framing of spec
// §4.I step 3.
func FreeSpacePathLoss(lat1, lon1, h1, lat2, lon2, h2, freqMHz float64, profile PathProfile, env ClutterClass) float64 {
	var horizM float64
	if n := len(profile.DistanceM); n > 0 {
		horizM = profile.DistanceM[n-1]
	} else {
		horizM = afc.HaversineM(lat1, lon1, lat2, lon2)
	}
	dH := h2 - h1
	distM := math.Hypot(horizM, dH)
	if distM < 1 {
		distM = 1
	}
	distKm := distM / 1000.0
	return 20*math.Log10(distKm) + 20*math.Log10(freqMHz) + 32.45
}
