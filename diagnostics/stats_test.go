package diagnostics

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/icgen/cosmicic/grid"
	"github.com/icgen/cosmicic/whitenoise"
)

func TestComputeFieldStatsBasic(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	st := ComputeFieldStats(0, data)
	if st.N != 10 {
		t.Fatalf("N = %d, want 10", st.N)
	}
	if math.Abs(st.Mean-5.5) > 1e-9 {
		t.Errorf("Mean = %v, want 5.5", st.Mean)
	}
	if st.Min != 1 || st.Max != 10 {
		t.Errorf("Min/Max = %v/%v, want 1/10", st.Min, st.Max)
	}
}

func TestComputeFieldStatsEmpty(t *testing.T) {
	st := ComputeFieldStats(2, nil)
	if st.Level != 2 || st.N != 0 {
		t.Errorf("empty stats = %+v, want Level=2 N=0", st)
	}
}

func TestFieldReportOnePerLevel(t *testing.T) {
	fields := []*whitenoise.Field{
		{Data: []float64{1, 2, 3, 4}, Nx: 1, Ny: 2, Nz: 2},
		{Data: []float64{5, 6, 7, 8, 9, 10, 11, 12}, Nx: 2, Ny: 2, Nz: 2},
	}
	report := FieldReport(fields)
	if len(report) != 2 {
		t.Fatalf("got %d reports, want 2", len(report))
	}
	if report[0].Level != 0 || report[1].Level != 1 {
		t.Errorf("levels = %d, %d, want 0, 1", report[0].Level, report[1].Level)
	}
}

func TestDownsampleResidualIsZeroForConsistentFields(t *testing.T) {
	coarse, err := grid.NewLevel(0, grid.Box{Lo: [3]int{0, 0, 0}, Hi: [3]int{2, 2, 2}}, grid.MinGhost, 2)
	if err != nil {
		t.Fatalf("NewLevel coarse: %v", err)
	}
	fine, err := grid.NewLevel(1, grid.Box{Lo: [3]int{0, 0, 0}, Hi: [3]int{4, 4, 4}}, grid.MinGhost, 4)
	if err != nil {
		t.Fatalf("NewLevel fine: %v", err)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				fine.Set(i, j, k, 3.0)
			}
		}
	}
	grid.RestrictMGStraight(coarse, fine, [3]int{0, 0, 0})
	if got := DownsampleResidual(coarse, fine, [3]int{0, 0, 0}); got > 1e-12 {
		t.Errorf("residual = %v, want ~0 for an already-consistent pair", got)
	}
}

func TestZeroMeanResidualDetectsNonzeroMean(t *testing.T) {
	if got := ZeroMeanResidual([]float64{1, 2, 3}); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("residual = %v, want 2.0", got)
	}
	if got := ZeroMeanResidual([]float64{-1, 0, 1}); got > 1e-12 {
		t.Errorf("residual = %v, want ~0", got)
	}
}

func TestWriteCSVIncludesHeaderAndRow(t *testing.T) {
	var buf bytes.Buffer
	stats := []FieldStats{ComputeFieldStats(0, []float64{1, 2, 3})}
	if err := WriteCSV(&buf, stats); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "level") || !strings.Contains(out, "mean") {
		t.Errorf("CSV output missing expected header columns: %q", out)
	}
}
