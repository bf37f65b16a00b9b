package solver

import "github.com/open-afc-project/openafc-sub001/incumbent"

// Catalog is the FS database query interface of spec §6: a simple
// bounding-rectangle lookup yielding the incumbent records inside it.
type Catalog interface {
	Query(minLatDeg, minLonDeg, maxLatDeg, maxLonDeg float64) ([]*incumbent.Record, error)
}
