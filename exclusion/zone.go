// Package exclusion implements the Radio-Astronomy Site / Exclusion
// Zone model of spec §3: a tagged-variant region (rectangle, union of
// rectangles, fixed-radius circle, or horizon-distance circle) that
// denies a channel outright for a transmitter inside it, per spec
// §4.J step 4's "black" color.
package exclusion

import (
	"github.com/open-afc-project/openafc-sub001"
)

// Kind tags which exclusion-zone variant a Zone carries, per spec §9's
// tagged-variant treatment of the source's RAS virtual base class.
type Kind int

const (
	KindRectangle Kind = iota
	KindRectangleUnion
	KindFixedRadiusCircle
	KindHorizonDistanceCircle
)

// Rectangle is a lat/lon-aligned bounding box.
type Rectangle struct {
	MinLatDeg, MinLonDeg, MaxLatDeg, MaxLonDeg float64
}

func (r Rectangle) contains(latDeg, lonDeg float64) bool {
	return latDeg >= r.MinLatDeg && latDeg <= r.MaxLatDeg && lonDeg >= r.MinLonDeg && lonDeg <= r.MaxLonDeg
}

// Zone is one RAS site or permanent exclusion region: its shape, the
// frequency band it governs, and the minimum AGL transmitter height it
// applies to (a transmitter shorter than this is not governed here).
type Zone struct {
	Kind Kind

	Rectangles []Rectangle // one entry for KindRectangle/KindRectangleUnion

	CenterLatDeg, CenterLonDeg float64
	RadiusM                    float64 // KindFixedRadiusCircle

	StartFreqMHz, StopFreqMHz float64
	MinAGLHeightM             float64
}

// NewFixedRadiusCircle builds a fixed-radius circular exclusion zone.
func NewFixedRadiusCircle(centerLatDeg, centerLonDeg, radiusM, startMHz, stopMHz, minAGLHeightM float64) Zone {
	return Zone{
		Kind:          KindFixedRadiusCircle,
		CenterLatDeg:  centerLatDeg,
		CenterLonDeg:  centerLonDeg,
		RadiusM:       radiusM,
		StartFreqMHz:  startMHz,
		StopFreqMHz:   stopMHz,
		MinAGLHeightM: minAGLHeightM,
	}
}

// NewHorizonDistanceCircle builds a circle whose radius is the radio
// horizon distance from a transmitter of the given AGL height, per
// spec §3's "radius = horizon distance from the transmitter given its
// AGL height".
func NewHorizonDistanceCircle(centerLatDeg, centerLonDeg, txHeightAGLM, startMHz, stopMHz, minAGLHeightM float64) Zone {
	return Zone{
		Kind:          KindHorizonDistanceCircle,
		CenterLatDeg:  centerLatDeg,
		CenterLonDeg:  centerLonDeg,
		RadiusM:       afc.HorizonDistanceM(txHeightAGLM),
		StartFreqMHz:  startMHz,
		StopFreqMHz:   stopMHz,
		MinAGLHeightM: minAGLHeightM,
	}
}

// NewRectangle and NewRectangleUnion build box-shaped exclusion zones.
func NewRectangle(box Rectangle, startMHz, stopMHz, minAGLHeightM float64) Zone {
	return Zone{Kind: KindRectangle, Rectangles: []Rectangle{box}, StartFreqMHz: startMHz, StopFreqMHz: stopMHz, MinAGLHeightM: minAGLHeightM}
}

func NewRectangleUnion(boxes []Rectangle, startMHz, stopMHz, minAGLHeightM float64) Zone {
	return Zone{Kind: KindRectangleUnion, Rectangles: boxes, StartFreqMHz: startMHz, StopFreqMHz: stopMHz, MinAGLHeightM: minAGLHeightM}
}

// Contains reports whether (latDeg, lonDeg) falls within the zone's
// footprint, dispatching on its tag.
func (z Zone) Contains(latDeg, lonDeg float64) bool {
	switch z.Kind {
	case KindRectangle, KindRectangleUnion:
		for _, r := range z.Rectangles {
			if r.contains(latDeg, lonDeg) {
				return true
			}
		}
		return false
	case KindFixedRadiusCircle, KindHorizonDistanceCircle:
		return afc.HaversineM(z.CenterLatDeg, z.CenterLonDeg, latDeg, lonDeg) <= z.RadiusM
	default:
		return false
	}
}

// Governs reports whether this zone applies to a transmitter of the
// given AGL height operating on a channel overlapping [startMHz,
// stopMHz].
func (z Zone) Governs(txHeightAGLM, startMHz, stopMHz float64) bool {
	if txHeightAGLM < z.MinAGLHeightM {
		return false
	}
	return z.StartFreqMHz < stopMHz && startMHz < z.StopFreqMHz
}

// Denies reports whether a transmitter at (latDeg, lonDeg, heightAGLM)
// is denied this channel by this zone: it governs the channel and the
// point lies inside the zone's footprint.
func (z Zone) Denies(latDeg, lonDeg, heightAGLM, startMHz, stopMHz float64) bool {
	return z.Governs(heightAGLM, startMHz, stopMHz) && z.Contains(latDeg, lonDeg)
}

// AnyDenies reports whether any zone in the catalog denies the given
// transmitter this channel, per spec §4.J step 4's "black" color rule.
func AnyDenies(zones []Zone, latDeg, lonDeg, heightAGLM, startMHz, stopMHz float64) bool {
	for _, z := range zones {
		if z.Denies(latDeg, lonDeg, heightAGLM, startMHz, stopMHz) {
			return true
		}
	}
	return false
}
