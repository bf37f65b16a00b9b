package polygon

import (
	"encoding/xml"
	"errors"
	"strconv"
	"strings"
)

// ErrNoPlacemark is returned when the KML document has no recognizable
// Placemark/Polygon/outerBoundaryIs/coordinates structure.
var ErrNoPlacemark = errors.New("polygon: no placemark boundary found in KML")

type kmlCoordinates struct {
	Text string `xml:",chardata"`
}

type kmlOuterBoundary struct {
	Coordinates kmlCoordinates `xml:"coordinates"`
}

type kmlPolygon struct {
	OuterBoundaryIs kmlOuterBoundary `xml:"outerBoundaryIs"`
}

type kmlMultiGeometry struct {
	Polygons []kmlPolygon `xml:"Polygon"`
}

type kmlPlacemark struct {
	Polygon        *kmlPolygon       `xml:"Polygon"`
	MultiGeometry  *kmlMultiGeometry `xml:"MultiGeometry"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

// NewFromKML parses a KML document containing one Placemark with
// either a single outer-boundary Polygon or a MultiGeometry of such
// Polygons. Coordinates are whitespace-separated "lon,lat[,h]" triples;
// each is quantized by multiplying degrees by unitsPerDeg and rounding
// to the nearest integer.
func NewFromKML(kmlText string, unitsPerDeg float64) (*Polygon, error) {
	var doc kmlDoc
	if err := xml.Unmarshal([]byte(kmlText), &doc); err != nil {
		return nil, err
	}
	if len(doc.Placemarks) == 0 {
		return nil, ErrNoPlacemark
	}

	var rings [][]Point
	for _, pm := range doc.Placemarks {
		if pm.Polygon != nil {
			r, err := parseCoordinates(pm.Polygon.OuterBoundaryIs.Coordinates.Text, unitsPerDeg)
			if err != nil {
				return nil, err
			}
			rings = append(rings, r)
		}
		if pm.MultiGeometry != nil {
			for _, poly := range pm.MultiGeometry.Polygons {
				r, err := parseCoordinates(poly.OuterBoundaryIs.Coordinates.Text, unitsPerDeg)
				if err != nil {
					return nil, err
				}
				rings = append(rings, r)
			}
		}
	}
	if len(rings) == 0 {
		return nil, ErrNoPlacemark
	}
	return New(rings)
}

// parseCoordinates tokenizes a KML <coordinates> block of
// whitespace-separated "lon,lat[,h]" triples and quantizes to the
// integer grid, dropping a duplicated closing vertex.
func parseCoordinates(text string, unitsPerDeg float64) ([]Point, error) {
	fields := strings.Fields(text)
	pts := make([]Point, 0, len(fields))
	for _, f := range fields {
		parts := strings.Split(f, ",")
		if len(parts) < 2 {
			continue
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, err
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, err
		}
		pts = append(pts, Point{
			X: int64(lon*unitsPerDeg + sign(lon)*0.5),
			Y: int64(lat*unitsPerDeg + sign(lat)*0.5),
		})
	}
	return dedupClosing(pts), nil
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
