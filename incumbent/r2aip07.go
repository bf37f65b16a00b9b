package incumbent

import "math"

// r2aip07G0Threshold is the G0 breakpoint (dBi) the R2-AIP-07 branch
// tests against per spec §4.H.
const r2aip07G0Threshold = 38.0

// r2aip07LowAngleDeg: below this angle off boresight the model always
// falls back to F.699 regardless of category.
const r2aip07LowAngleDeg = 5.0

func r2aip07FrequencySupported(freqMHz float64) bool {
	return (freqMHz >= 5925 && freqMHz <= 6425) || (freqMHz >= 6525 && freqMHz <= 6875)
}

// r2aip07SuppressionDB is the minimum suppression (dB) a category's
// sub-branch mandates for angles past the F.699 low-angle fallback.
// The figures below follow the shape the spec describes (higher
// minimum suppression for higher-performance categories, a lower
// floor for the diversity receiver) pending the authoritative
// per-category table, which the spec references in §6 but the
// retrieved specification text does not carry; see DESIGN.md.
func r2aip07SuppressionDB(category Category, diversity bool) float64 {
	switch category {
	case CategoryB1:
		if diversity {
			return 10
		}
		return 15
	case CategoryB2:
		if diversity {
			return 15
		}
		return 20
	case CategoryAKnownHighPerformance, CategoryAUnknown:
		if diversity {
			return 20
		}
		return 25
	default:
		return r2aip07SuppressionDB(CategoryB1, diversity)
	}
}

// r2aip07SuppressionADB is the suppression figure used by the
// "Category A unknown" max(suppression_A, G0 - F.699(theta)) branch.
func r2aip07SuppressionADB(diversity bool) float64 {
	if diversity {
		return 20
	}
	return 25
}

// r2aip07Gain implements the FCC R2-AIP-07 branching of spec §4.H: a
// G0 threshold, a low-angle F.699 fallback, a category branch (with
// blank/unrecognized categories falling back to B1), and the
// asymmetric "Category A unknown" max-suppression rule.
func r2aip07Gain(thetaDeg, g0 float64, category Category, diversity bool) float64 {
	if thetaDeg < r2aip07LowAngleDeg {
		return f699Gain(thetaDeg, g0, 100)
	}
	if g0 < r2aip07G0Threshold {
		return f699Gain(thetaDeg, g0, 100)
	}

	if category == CategoryAUnknown {
		// Literal spec formula: max(suppression_A, G0 - F.699(theta)).
		suppressionA := r2aip07SuppressionADB(diversity)
		viaF699 := g0 - f699Gain(thetaDeg, g0, 100)
		return math.Max(suppressionA, viaF699)
	}

	suppression := r2aip07SuppressionDB(category, diversity)
	return g0 - suppression
}
