package models

import "time"

// FileStat describes the outcome of aggregating one log file.
type FileStat struct {
	Path    string
	Records int64
	Skipped int64
	Bytes   int64
	Elapsed time.Duration
}

// ScanStats is a compact summary of a completed scan, used by the
// dashboard cards and the status bar.
type ScanStats struct {
	Files    int
	Records  int64
	Offsite  int64
	Skipped  int64
	Bytes    int64
	Elapsed  time.Duration
	LastScan time.Time
}

// OffsitePercent returns the off-site share of all requests, or zero
// when nothing was scanned.
func (s ScanStats) OffsitePercent() float64 {
	if s.Records == 0 {
		return 0
	}
	return float64(s.Offsite) / float64(s.Records) * 100
}
