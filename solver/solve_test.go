package solver

import (
	"context"
	"testing"

	"github.com/open-afc-project/openafc-sub001"
	"github.com/open-afc-project/openafc-sub001/afcmsg"
	"github.com/open-afc-project/openafc-sub001/incumbent"
	"github.com/open-afc-project/openafc-sub001/linkeval"
)

type fakeCatalog struct {
	records []*incumbent.Record
}

func (c fakeCatalog) Query(minLat, minLon, maxLat, maxLon float64) ([]*incumbent.Record, error) {
	return c.records, nil
}

func flatTerrain(latDeg, lonDeg float64) (float64, error) { return 1500, nil }

func baseInquiry() afcmsg.Inquiry {
	return afcmsg.Inquiry{
		RequestID: "req-1",
		Location: afcmsg.Location{
			Ellipse: &afcmsg.Ellipse{
				CenterLatDeg: 40.0,
				CenterLonDeg: -105.0,
				SemiMajorM:   150,
				SemiMinorM:   100,
			},
		},
		Elevation: afcmsg.Elevation{
			HeightM:              1520,
			HeightType:           afcmsg.HeightAMSL,
			VerticalUncertaintyM: 5,
		},
		InquiredChannels: []afcmsg.InquiredChannel{{GlobalOperatingClass: 131}},
	}
}

func nearbyIncumbent() *incumbent.Record {
	return &incumbent.Record{
		ID:           "FS-near",
		StartFreqMHz: 5950,
		StopFreqMHz:  5970,
		Primary: incumbent.Receiver{
			LatDeg:         40.002,
			LonDeg:         -105.0,
			HeightAGLM:     20,
			TerrainHeightM: 1500,
			Antenna:        incumbent.Antenna{Model: incumbent.ModelOmni, MaxGainDB: 30},
			NoiseFloorDBm:  -110,
		},
	}
}

func testConfig() afcmsg.Config {
	cfg := afcmsg.DefaultConfig()
	cfg.MinEIRPDBm = -10
	cfg.MaxEIRPDBm = 36
	cfg.MaxLinkDistanceKm = 50
	return cfg
}

func TestSolveGreenWhenNoOverlappingIncumbents(t *testing.T) {
	inq := baseInquiry()
	req := afcmsg.Request{Version: "1.4", Inquiries: []afcmsg.Inquiry{inq}}
	engine := Engine{
		Catalog:     fakeCatalog{},
		Terrain:     flatTerrain,
		Propagation: linkeval.FreeSpacePathLoss,
	}
	resp := Solve(context.Background(), req, testConfig(), engine)
	if len(resp.Responses) != 1 {
		t.Fatalf("expected one response, got %d", len(resp.Responses))
	}
	out := resp.Responses[0]
	if out.ResponseCode.Code != int(afc.CodeSuccess) {
		t.Fatalf("expected success, got code %d: %s", out.ResponseCode.Code, out.ResponseCode.Description)
	}
	if len(out.AvailableChannelInfo) == 0 {
		t.Fatalf("expected channel info with no overlapping incumbents")
	}
	for _, eirp := range out.AvailableChannelInfo[0].MaxEirpDBm {
		if eirp != testConfig().MaxEIRPDBm {
			t.Errorf("expected max EIRP with no interferers, got %v", eirp)
		}
	}
}

func TestSolveReducesEIRPWithOverlappingIncumbent(t *testing.T) {
	inq := baseInquiry()
	req := afcmsg.Request{Version: "1.4", Inquiries: []afcmsg.Inquiry{inq}}
	cfg := testConfig()
	engine := Engine{
		Catalog:     fakeCatalog{records: []*incumbent.Record{nearbyIncumbent()}},
		Terrain:     flatTerrain,
		Propagation: linkeval.FreeSpacePathLoss,
	}
	resp := Solve(context.Background(), req, cfg, engine)
	out := resp.Responses[0]
	if out.ResponseCode.Code != int(afc.CodeSuccess) {
		t.Fatalf("expected success, got code %d: %s", out.ResponseCode.Code, out.ResponseCode.Description)
	}
	var sawReduced bool
	for _, info := range out.AvailableChannelInfo {
		for _, eirp := range info.MaxEirpDBm {
			if eirp < cfg.MaxEIRPDBm {
				sawReduced = true
			}
		}
	}
	if !sawReduced {
		t.Errorf("expected at least one channel's EIRP reduced by the nearby incumbent")
	}
}

func TestSolveMissingChannelRequestIsInvalid(t *testing.T) {
	inq := baseInquiry()
	inq.InquiredChannels = nil
	req := afcmsg.Request{Version: "1.4", Inquiries: []afcmsg.Inquiry{inq}}
	engine := Engine{
		Catalog:     fakeCatalog{},
		Terrain:     flatTerrain,
		Propagation: linkeval.FreeSpacePathLoss,
	}
	resp := Solve(context.Background(), req, testConfig(), engine)
	out := resp.Responses[0]
	if out.ResponseCode.Code == int(afc.CodeSuccess) {
		t.Fatalf("expected a non-success response code for a channel-less inquiry")
	}
}

func TestSolveInvalidLocationIsReportedPerInquiry(t *testing.T) {
	inq := baseInquiry()
	inq.Location = afcmsg.Location{}
	req := afcmsg.Request{Version: "1.4", Inquiries: []afcmsg.Inquiry{inq}}
	engine := Engine{
		Catalog:     fakeCatalog{},
		Terrain:     flatTerrain,
		Propagation: linkeval.FreeSpacePathLoss,
	}
	resp := Solve(context.Background(), req, testConfig(), engine)
	out := resp.Responses[0]
	if out.ResponseCode.Code == int(afc.CodeSuccess) {
		t.Fatalf("expected a non-success response code for a location with no recognized variant")
	}
}

func TestResolveRequestedChannelsExpandsClass(t *testing.T) {
	inq := baseInquiry()
	channels := resolveRequestedChannels(inq)
	if len(channels) == 0 {
		t.Fatalf("expected class 131 to expand to at least one channel")
	}
	for _, ch := range channels {
		if ch.GlobalOperatingClass != 131 {
			t.Errorf("expected only class 131 channels, got %d", ch.GlobalOperatingClass)
		}
	}
}

func TestResolveRequestedChannelsExpandsFrequencyRange(t *testing.T) {
	inq := baseInquiry()
	inq.InquiredChannels = nil
	inq.InquiredFrequencyRange = []afcmsg.FrequencyRange{{LowFreqMHz: 5925, HighFreqMHz: 6025}}
	channels := resolveRequestedChannels(inq)
	if len(channels) == 0 {
		t.Fatalf("expected the frequency range to expand to at least one channel")
	}
	for _, ch := range channels {
		if ch.StartMHz < 5925 || ch.StopMHz > 6025 {
			t.Errorf("channel %v falls outside requested range", ch)
		}
	}
}
