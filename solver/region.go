package solver

import (
	"github.com/open-afc-project/openafc-sub001"
	"github.com/open-afc-project/openafc-sub001/afcmsg"
	"github.com/open-afc-project/openafc-sub001/rlan"
)

func heightType(h afcmsg.HeightType) (afc.HeightType, error) {
	switch h {
	case afcmsg.HeightAMSL:
		return afc.HeightAMSL, nil
	case afcmsg.HeightAGL:
		return afc.HeightAGL, nil
	default:
		return 0, afc.NewRequestError(afc.CodeInvalidValue, "unknown height type")
	}
}

// buildRegion resolves one inquiry's location union into the matching
// rlan.Region variant, per spec §3/§4.G's tagged-variant dispatch. The
// uncertainty-interpretation flag (fixed-AMSL vs fixed-AGL) follows the
// inquiry's own height type: an AMSL-tagged elevation keeps its
// uncertainty fixed in AMSL, an AGL-tagged elevation keeps it fixed
// relative to the (possibly varying) local terrain.
func buildRegion(loc afcmsg.Location, elev afcmsg.Elevation) (*rlan.Region, error) {
	ht, err := heightType(elev.HeightType)
	if err != nil {
		return nil, err
	}
	fixedAMSL := elev.HeightType == afcmsg.HeightAMSL

	switch {
	case loc.Ellipse != nil:
		e := loc.Ellipse
		ellipse := rlan.NewEllipse(e.CenterLatDeg, e.CenterLonDeg, elev.HeightM, ht,
			e.SemiMinorM, e.SemiMajorM, elev.VerticalUncertaintyM, e.OrientationDeg, fixedAMSL)
		return ellipse.Region, nil

	case len(loc.LinearPolygon) > 0:
		verts := make([]afc.LatLon, len(loc.LinearPolygon))
		for i, v := range loc.LinearPolygon {
			verts[i] = afc.LatLon{LatDeg: v.LatDeg, LonDeg: v.LonDeg}
		}
		poly, err := rlan.NewLinearPolygon(verts, elev.HeightM, ht, elev.VerticalUncertaintyM, fixedAMSL)
		if err != nil {
			return nil, afc.NewRequestError(afc.CodeInvalidValue, err.Error())
		}
		return poly.Region, nil

	case len(loc.RadialPolygon) > 0:
		vecs := make([]rlan.RadialVector, len(loc.RadialPolygon))
		for i, v := range loc.RadialPolygon {
			vecs[i] = rlan.RadialVector{BearingDeg: v.BearingDeg, LengthM: v.LengthM}
		}
		poly, err := rlan.NewRadialPolygon(loc.RadialCenterLatDeg, loc.RadialCenterLonDeg, elev.HeightM, ht,
			vecs, elev.VerticalUncertaintyM, fixedAMSL)
		if err != nil {
			return nil, afc.NewRequestError(afc.CodeInvalidValue, err.Error())
		}
		return poly.Region, nil

	default:
		return nil, afc.NewRequestError(afc.CodeInvalidValue, "location carries no recognized variant")
	}
}

// boundRectM expands the region's footprint by radiusM in every
// direction, returning a lat/lon bounding box suitable for windowing
// the incumbent catalog, per spec §4.J step 2's `boundRect()`.
func boundRectM(region *rlan.Region, radiusM float64) (minLat, minLon, maxLat, maxLon float64) {
	centerLat, centerLon := region.Center()
	total := region.MaxDistanceM() + radiusM
	basis := afc.NewENUBasis(centerLat, centerLon)
	minLat, minLon = basis.ToLatLon(-total, -total)
	maxLat, maxLon = basis.ToLatLon(total, total)
	return minLat, minLon, maxLat, maxLon
}
