package afcmsg

// Band is one named frequency-band definition of spec §6.
type Band struct {
	Name            string
	StartMHz, StopMHz float64
}

var (
	// BandUNII5 and BandUNII7 are the two 6 GHz sub-bands this engine
	// protects; UNII-6 and UNII-8 fall outside the spec's scope.
	BandUNII5 = Band{Name: "UNII-5", StartMHz: 5925, StopMHz: 6425}
	BandUNII7 = Band{Name: "UNII-7", StartMHz: 6525, StopMHz: 6875}
)

// Channel is one resolved (global operating class, CFI) channelization
// entry: its bandwidth and the frequency range it occupies.
type Channel struct {
	GlobalOperatingClass int
	ChannelCFI           int
	BandwidthMHz         float64
	StartMHz, StopMHz    float64
}

// opClassBandwidth and opClassChanStep give the 6 GHz channelization
// plan for classes 131-134: 20/40/80/160 MHz channels respectively,
// CFIs spaced by 4/8/16/32 starting at 1/3/7/15, with channel-to-frequency
// center = 5950 + 5*CFI MHz, per the GLOSSARY's "global operating
// class" definition and the §8 test fixtures' CFI values.
var (
	opClassBandwidth = map[int]float64{131: 20, 132: 40, 133: 80, 134: 160}
	opClassChanStep  = map[int]int{131: 4, 132: 8, 133: 16, 134: 32}
)

func chanCenterMHz(cfi int) float64 { return 5950 + 5*float64(cfi) }

func bandContains(b Band, startMHz, stopMHz float64) bool {
	return startMHz >= b.StartMHz && stopMHz <= b.StopMHz
}

// ChannelsForClass enumerates every valid CFI for the given global
// operating class whose channel falls entirely within UNII-5 or
// UNII-7, per spec §6's UNII-5/UNII-7 band definitions.
func ChannelsForClass(globalOperatingClass int) []Channel {
	bw, ok := opClassBandwidth[globalOperatingClass]
	if !ok {
		return nil
	}
	step := opClassChanStep[globalOperatingClass]

	var out []Channel
	for cfi := step/2 - 1; cfi <= 233; cfi += step {
		center := chanCenterMHz(cfi)
		start, stop := center-bw/2, center+bw/2
		if bandContains(BandUNII5, start, stop) || bandContains(BandUNII7, start, stop) {
			out = append(out, Channel{
				GlobalOperatingClass: globalOperatingClass,
				ChannelCFI:           cfi,
				BandwidthMHz:         bw,
				StartMHz:             start,
				StopMHz:              stop,
			})
		}
	}
	return out
}

// ResolveChannel looks up one specific (class, CFI) pair, for request
// documents that filter to particular channel-CFI values.
func ResolveChannel(globalOperatingClass, cfi int) (Channel, bool) {
	for _, c := range ChannelsForClass(globalOperatingClass) {
		if c.ChannelCFI == cfi {
			return c, true
		}
	}
	return Channel{}, false
}
