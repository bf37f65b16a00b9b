package audit

import (
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"io"
	"testing"
)

func TestWriterRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows := []Row{
		{IncumbentID: "FS-1", ChannelLabel: "131/5", ScanLatDeg: 40.1, ScanLonDeg: -105.0, FreqMHz: 5955, INThresholdDB: -6, INActualDB: -2, EIRPDBm: 20},
		{IncumbentID: "FS-2", ChannelLabel: "132/3", ScanLatDeg: 40.2, ScanLonDeg: -105.1, FreqMHz: 5965, INThresholdDB: -6, INActualDB: -6, EIRPDBm: 18},
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			t.Fatalf("unexpected write error: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	gr, err := gzip.NewReader(&buf)
	if err != nil {
		t.Fatalf("unexpected gzip error: %v", err)
	}
	defer gr.Close()
	cr := csv.NewReader(gr)
	records, err := cr.ReadAll()
	if err != nil {
		t.Fatalf("unexpected csv error: %v", err)
	}
	if len(records) != len(rows)+1 {
		t.Fatalf("expected %d records including header, got %d", len(rows)+1, len(records))
	}
	if records[0][0] != "incumbent_id" {
		t.Errorf("expected header row first, got %v", records[0])
	}
	if records[1][0] != "FS-1" || records[2][0] != "FS-2" {
		t.Errorf("unexpected incumbent IDs: %v, %v", records[1][0], records[2][0])
	}
}

func TestWriterProducesValidGzip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gr, err := gzip.NewReader(&buf)
	if err != nil {
		t.Fatalf("expected valid gzip stream: %v", err)
	}
	if _, err := io.ReadAll(gr); err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
}
