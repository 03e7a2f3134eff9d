package models

import "testing"

func TestScanStats_OffsitePercent(t *testing.T) {
	tests := []struct {
		name  string
		stats ScanStats
		want  float64
	}{
		{"empty scan", ScanStats{}, 0},
		{"no offsite", ScanStats{Records: 100}, 0},
		{"all offsite", ScanStats{Records: 50, Offsite: 50}, 100},
		{"typical share", ScanStats{Records: 200, Offsite: 17}, 8.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.OffsitePercent(); got != tt.want {
				t.Errorf("OffsitePercent() = %v, want %v", got, tt.want)
			}
		})
	}
}
