package raster

import (
	"reflect"

	stgpsr "github.com/yuin/stagparser"
)

// bandTagDefs is the set of recognized `afc:"..."` tag keys, mirroring
// the teacher's tiledb struct-tag vocabulary (dtype, ftype) in
// tiledb.go's CreateAttr: dtype names the pixel datatype, nodata
// gives the sentinel value for that band as a float.
var bandTagDefs = []stgpsr.Definition{
	stgpsr.NewDefinition("dtype", []stgpsr.Kind{stgpsr.String}, false),
	stgpsr.NewDefinition("nodata", []stgpsr.Kind{stgpsr.Float, stgpsr.Int}, true),
}

// BandDescriptor is embedded (by convention) in a caller's raster band
// struct to declare per-band datatype and no-data metadata via struct
// tags instead of a config file, e.g.:
//
//	type lidarBands struct {
//	    Terrain float32 `afc:"dtype=float32,nodata=-9999"`
//	    Height  float32 `afc:"dtype=float32,nodata=-9999"`
//	}
//
// ParseBandTags walks every exported field of descriptor and parses
// its `afc` tag into a BandMeta, index assigned in field declaration
// order.
func ParseBandTags(descriptor any) ([]BandMeta, error) {
	t := reflect.TypeOf(descriptor)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	out := make([]BandMeta, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("afc")
		if !ok {
			continue
		}

		defs, err := stgpsr.Parse(tag, bandTagDefs...)
		if err != nil {
			return nil, err
		}

		meta := BandMeta{Index: i}
		for _, def := range defs {
			switch def.Name() {
			case "dtype":
				v, _ := def.Attribute("dtype")
				meta.DType, _ = v.(string)
			case "nodata":
				v, _ := def.Attribute("nodata")
				switch n := v.(type) {
				case int64:
					meta.NoData = float64(n)
				case float64:
					meta.NoData = n
				}
			}
		}
		out = append(out, meta)
	}
	return out, nil
}
