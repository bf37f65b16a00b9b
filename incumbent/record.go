package incumbent

// Receiver is one FS link endpoint: its position, antenna, and
// per-band noise/loss parameters, per spec §3.
type Receiver struct {
	LatDeg, LonDeg float64
	HeightAGLM     float64
	TerrainHeightM float64

	// AzimuthDeg and ElevationDeg point the antenna's boresight, used
	// together with a link geometry to derive the angle off boresight
	// that Antenna.Gain consumes.
	AzimuthDeg   float64
	ElevationDeg float64

	Antenna         Antenna
	FeederLossDB    float64
	PolarizationDeg float64
	NoiseFloorDBm   float64
}

// HeightAMSLM converts the receiver's AGL height to AMSL using its
// own terrain height.
func (r Receiver) HeightAMSLM() float64 { return r.HeightAGLM + r.TerrainHeightM }

// PathLossBounds is the coarse pre-filter bound computed once per
// incumbent: any RLAN sample whose unobstructed free-space loss to
// this incumbent is already below MinPathLossDB cannot possibly be
// screened out, so the solver may skip it outright when the bound
// shows no interference is achievable.
type PathLossBounds struct {
	MinPathLossDB, MaxPathLossDB float64
}

// Record is one fixed-service incumbent link: identifier, operating
// band, primary (and optional diversity) receiver, zero or more
// passive repeaters forming a chain back toward the RLAN side, and
// the coarse path-loss bounds used to window the catalog.
type Record struct {
	ID string

	StartFreqMHz, StopFreqMHz float64
	UsedBandwidthMHz          float64

	Primary   Receiver
	Diversity *Receiver

	Repeaters []PassiveRepeater

	Bounds PathLossBounds
}

// OverlapsChannel reports whether the incumbent's operating band
// overlaps the given channel's frequency range.
func (r Record) OverlapsChannel(startMHz, stopMHz float64) bool {
	return r.StartFreqMHz < stopMHz && startMHz < r.StopFreqMHz
}

// LastHopNode returns the position the RLAN-facing ray must target:
// the incoming face of the nearest passive repeater if the chain has
// one, otherwise the primary receiver.
func (r Record) LastHopNode() (latDeg, lonDeg, heightAMSLM float64) {
	if len(r.Repeaters) > 0 {
		pr := r.Repeaters[0]
		return pr.LatDeg, pr.LonDeg, pr.RxHeightAMSLM()
	}
	return r.Primary.LatDeg, r.Primary.LonDeg, r.Primary.HeightAMSLM()
}
