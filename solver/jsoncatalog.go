package solver

import (
	"encoding/json"
	"io"

	"github.com/open-afc-project/openafc-sub001/exclusion"
	"github.com/open-afc-project/openafc-sub001/incumbent"
)

// wireReceiver is the JSON wire shape of one FS receiver, read from
// the const-inputs catalog document. Grounded on the teacher's flat,
// tag-free metadata structs (file_info.Metadata) rather than a
// polymorphic envelope.
type wireReceiver struct {
	LatDeg          float64 `json:"latitude"`
	LonDeg          float64 `json:"longitude"`
	HeightAGLM      float64 `json:"heightAGL"`
	TerrainHeightM  float64 `json:"terrainHeight"`
	AzimuthDeg      float64 `json:"azimuth"`
	ElevationDeg    float64 `json:"elevation"`
	AntennaModel    string  `json:"antennaModel"`
	MaxGainDB       float64 `json:"maxGain"`
	DLambda         float64 `json:"dLambda"`
	Category        string  `json:"category,omitempty"`
	FeederLossDB    float64 `json:"feederLoss"`
	PolarizationDeg float64 `json:"polarization"`
	NoiseFloorDBm   float64 `json:"noiseFloor"`
}

// wireRecord is one catalog entry: an FS link plus its coarse path-loss
// pre-filter bounds, computed offline when the catalog is built.
type wireRecord struct {
	ID               string        `json:"id"`
	StartFreqMHz     float64       `json:"startFreq"`
	StopFreqMHz      float64       `json:"stopFreq"`
	UsedBandwidthMHz float64       `json:"usedBandwidth"`
	Primary          wireReceiver  `json:"primary"`
	Diversity        *wireReceiver `json:"diversity,omitempty"`
	MinPathLossDB    float64       `json:"minPathLoss"`
	MaxPathLossDB    float64       `json:"maxPathLoss"`
}

var antennaModelByName = map[string]incumbent.Model{
	"omni":    incumbent.ModelOmni,
	"f699":    incumbent.ModelF699,
	"f1245":   incumbent.ModelF1245,
	"f1336":   incumbent.ModelF1336Omni,
	"r2aip07": incumbent.ModelR2AIP07,
}

var categoryByName = map[string]incumbent.Category{
	"b1":                 incumbent.CategoryB1,
	"b2":                 incumbent.CategoryB2,
	"a-known-high-perf":  incumbent.CategoryAKnownHighPerformance,
	"a-unknown":          incumbent.CategoryAUnknown,
}

func (w wireReceiver) toReceiver() incumbent.Receiver {
	return incumbent.Receiver{
		LatDeg:         w.LatDeg,
		LonDeg:         w.LonDeg,
		HeightAGLM:     w.HeightAGLM,
		TerrainHeightM: w.TerrainHeightM,
		AzimuthDeg:     w.AzimuthDeg,
		ElevationDeg:   w.ElevationDeg,
		Antenna: incumbent.Antenna{
			Model:     antennaModelByName[w.AntennaModel],
			MaxGainDB: w.MaxGainDB,
			DLambda:   w.DLambda,
			Category:  categoryByName[w.Category],
		},
		FeederLossDB:    w.FeederLossDB,
		PolarizationDeg: w.PolarizationDeg,
		NoiseFloorDBm:   w.NoiseFloorDBm,
	}
}

func (w wireRecord) toRecord() *incumbent.Record {
	rec := &incumbent.Record{
		ID:               w.ID,
		StartFreqMHz:     w.StartFreqMHz,
		StopFreqMHz:      w.StopFreqMHz,
		UsedBandwidthMHz: w.UsedBandwidthMHz,
		Primary:          w.Primary.toReceiver(),
		Bounds:           incumbent.PathLossBounds{MinPathLossDB: w.MinPathLossDB, MaxPathLossDB: w.MaxPathLossDB},
	}
	if w.Diversity != nil {
		rx := w.Diversity.toReceiver()
		rec.Diversity = &rx
	}
	return rec
}

// wireZone is one exclusion-zone catalog entry; kind selects which of
// the remaining fields are meaningful, mirroring the tagged-variant
// style of exclusion.Zone itself.
type wireZone struct {
	Kind           string  `json:"kind"`
	MinLatDeg      float64 `json:"minLat,omitempty"`
	MinLonDeg      float64 `json:"minLon,omitempty"`
	MaxLatDeg      float64 `json:"maxLat,omitempty"`
	MaxLonDeg      float64 `json:"maxLon,omitempty"`
	CenterLatDeg   float64 `json:"centerLat,omitempty"`
	CenterLonDeg   float64 `json:"centerLon,omitempty"`
	RadiusM        float64 `json:"radiusM,omitempty"`
	TxHeightAGLM   float64 `json:"txHeightAGL,omitempty"`
	MinHeightAGLM  float64 `json:"minHeightAGL,omitempty"`
	StartFreqMHz   float64 `json:"startFreq"`
	StopFreqMHz    float64 `json:"stopFreq"`
}

func (w wireZone) toZone() (exclusion.Zone, bool) {
	switch w.Kind {
	case "rectangle":
		box := exclusion.Rectangle{MinLatDeg: w.MinLatDeg, MinLonDeg: w.MinLonDeg, MaxLatDeg: w.MaxLatDeg, MaxLonDeg: w.MaxLonDeg}
		return exclusion.NewRectangle(box, w.StartFreqMHz, w.StopFreqMHz, w.MinHeightAGLM), true
	case "fixedRadiusCircle":
		return exclusion.NewFixedRadiusCircle(w.CenterLatDeg, w.CenterLonDeg, w.RadiusM, w.StartFreqMHz, w.StopFreqMHz, w.MinHeightAGLM), true
	case "horizonDistanceCircle":
		return exclusion.NewHorizonDistanceCircle(w.CenterLatDeg, w.CenterLonDeg, w.TxHeightAGLM, w.StartFreqMHz, w.StopFreqMHz, w.MinHeightAGLM), true
	default:
		return exclusion.Zone{}, false
	}
}

// constInputs is the top-level shape of the const-inputs document: the
// FS link catalog and the RAS/coordination exclusion zones, both held
// fixed across every inquiry in a run.
type constInputs struct {
	FSRecords []wireRecord `json:"fsRecords"`
	RASZones  []wireZone   `json:"rasZones"`
}

// jsonCatalog implements Catalog over an in-memory catalog loaded
// once from the const-inputs document. Production deployments with a
// catalog too large to hold in memory would swap this for a TileDB- or
// raster-backed spatial index (see raster.Backend's own tiling
// discipline); a flat in-memory scan is the right shape for the
// catalog sizes this engine targets (thousands, not millions, of FS
// links per run).
type jsonCatalog struct {
	records []*incumbent.Record
}

func (c jsonCatalog) Query(minLat, minLon, maxLat, maxLon float64) ([]*incumbent.Record, error) {
	var out []*incumbent.Record
	for _, rec := range c.records {
		lat, lon := rec.Primary.LatDeg, rec.Primary.LonDeg
		if lat >= minLat && lat <= maxLat && lon >= minLon && lon <= maxLon {
			out = append(out, rec)
		}
	}
	return out, nil
}

// LoadConstInputs reads and decodes the const-inputs document from r,
// returning the catalog and the RAS exclusion zones separately, since
// Engine keeps them in distinct fields.
func LoadConstInputs(r io.Reader) (Catalog, []exclusion.Zone, error) {
	var doc constInputs
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, err
	}

	records := make([]*incumbent.Record, 0, len(doc.FSRecords))
	for _, w := range doc.FSRecords {
		records = append(records, w.toRecord())
	}

	var zones []exclusion.Zone
	for _, w := range doc.RASZones {
		if z, ok := w.toZone(); ok {
			zones = append(zones, z)
		}
	}

	return jsonCatalog{records: records}, zones, nil
}
