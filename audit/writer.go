// Package audit implements the exc_thr.csv.gz writer of spec §6: one
// row per (incumbent, channel, scan-point) that hit the I/N threshold,
// for after-the-fact review of a solved request.
package audit

import (
	"compress/gzip"
	"encoding/csv"
	"io"
	"strconv"
	"sync"
)

// Row is one threshold-hit record.
type Row struct {
	IncumbentID  string
	ChannelLabel string
	ScanLatDeg   float64
	ScanLonDeg   float64
	ScanHeightM  float64
	FreqMHz      float64
	INThresholdDB float64
	INActualDB   float64
	EIRPDBm      float64
}

var header = []string{
	"incumbent_id", "channel", "scan_lat", "scan_lon", "scan_height_m",
	"freq_mhz", "in_threshold_db", "in_actual_db", "eirp_dbm",
}

// Writer gzip-compresses and CSV-encodes a stream of Rows, matching
// the teacher's own stdlib-only output path (its JSON encoder writes
// directly to an io.Writer with no intermediate buffering library).
// Write is safe to call from multiple goroutines, since the solver
// evaluates channels concurrently and each may hit the threshold.
type Writer struct {
	mu  sync.Mutex
	gz  *gzip.Writer
	csv *csv.Writer
}

// NewWriter wraps w with a gzip layer and a CSV encoder, writing the
// header row immediately.
func NewWriter(w io.Writer) (*Writer, error) {
	gz := gzip.NewWriter(w)
	cw := csv.NewWriter(gz)
	if err := cw.Write(header); err != nil {
		return nil, err
	}
	return &Writer{gz: gz, csv: cw}, nil
}

// Write appends one threshold-hit row.
func (w *Writer) Write(r Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	record := []string{
		r.IncumbentID,
		r.ChannelLabel,
		strconv.FormatFloat(r.ScanLatDeg, 'f', -1, 64),
		strconv.FormatFloat(r.ScanLonDeg, 'f', -1, 64),
		strconv.FormatFloat(r.ScanHeightM, 'f', -1, 64),
		strconv.FormatFloat(r.FreqMHz, 'f', -1, 64),
		strconv.FormatFloat(r.INThresholdDB, 'f', -1, 64),
		strconv.FormatFloat(r.INActualDB, 'f', -1, 64),
		strconv.FormatFloat(r.EIRPDBm, 'f', -1, 64),
	}
	return w.csv.Write(record)
}

// Close flushes the CSV and gzip layers, in that order, and returns
// the first error encountered.
func (w *Writer) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return err
	}
	return w.gz.Close()
}
