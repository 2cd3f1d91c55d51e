// Package diagnostics reports sanity statistics on grid and white-noise
// fields before they are handed to a downstream simulator: per-level
// means, the downsample-average residual between adjacent refinement
// levels, and the zero-mean residual of a restricted source field.
// Grounded on the teacher's telemetry package (WindowStats/Collector),
// generalized from per-tick ecosystem counters to per-level field
// statistics.
package diagnostics

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/icgen/cosmicic/grid"
	"github.com/icgen/cosmicic/whitenoise"
)

// FieldStats summarizes one level's field values, mirroring the
// teacher's WindowStats shape: a flat struct of named scalar
// quantities, csv-tagged for gocsv.
type FieldStats struct {
	Level    int     `csv:"level"`
	N        int     `csv:"n"`
	Mean     float64 `csv:"mean"`
	StdDev   float64 `csv:"stddev"`
	Min      float64 `csv:"min"`
	Max      float64 `csv:"max"`
	P10      float64 `csv:"p10"`
	P50      float64 `csv:"p50"`
	P90      float64 `csv:"p90"`
}

// ComputeFieldStats computes FieldStats for one level's data, using
// gonum/stat for mean/stddev/quantile the way the teacher's
// telemetry.ComputeEnergyStats hand-rolled the same quantities.
func ComputeFieldStats(level int, data []float64) FieldStats {
	if len(data) == 0 {
		return FieldStats{Level: level}
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	mean := stat.Mean(sorted, nil)
	std := stat.StdDev(sorted, nil)

	return FieldStats{
		Level:  level,
		N:      len(data),
		Mean:   mean,
		StdDev: std,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P10:    stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:    stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:    stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

// FieldReport summarizes an entire multi-level white-noise field, one
// FieldStats per level (stencil source arrays go through SourceReport).
func FieldReport(fields []*whitenoise.Field) []FieldStats {
	out := make([]FieldStats, len(fields))
	for i, f := range fields {
		out[i] = ComputeFieldStats(i, f.Data)
	}
	return out
}

// SourceReport summarizes the per-level source arrays TwoLPTSource,
// LLADensity, and LuDensity return.
func SourceReport(source [][]float64) []FieldStats {
	out := make([]FieldStats, len(source))
	for i, data := range source {
		out[i] = ComputeFieldStats(i, data)
	}
	return out
}

// DownsampleResidual measures how far a fine level's 8-cell restriction
// deviates from the coarse level it should match, per spec.md §4.4
// rule 2 (the downsample-average invariant). Returns the maximum
// absolute per-cell residual over the coarse cells the fine level
// covers; cells outside the fine patch are not compared.
func DownsampleResidual(coarse, fine *grid.Level, coarseOrigin [3]int) float64 {
	shadow, err := grid.NewLevel(coarse.ID, coarse.Domain, grid.MinGhost, coarse.Res)
	if err != nil {
		return 0
	}
	grid.RestrictMGStraight(shadow, fine, coarseOrigin)

	nx, ny, nz := coarse.Domain.Size(0), coarse.Domain.Size(1), coarse.Domain.Size(2)
	var maxResidual float64
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				if !shadow.Refined(i, j, k) {
					continue
				}
				d := shadow.At(i, j, k) - coarse.At(i, j, k)
				if d < 0 {
					d = -d
				}
				if d > maxResidual {
					maxResidual = d
				}
			}
		}
	}
	return maxResidual
}

// ZeroMeanResidual reports how far a restricted source field's
// coarsest-level mean deviates from zero, per spec.md §8's "2LPT
// source has zero mean over the coarsest level after mean subtraction"
// testable property.
func ZeroMeanResidual(coarsestLevelSource []float64) float64 {
	if len(coarsestLevelSource) == 0 {
		return 0
	}
	var sum float64
	for _, v := range coarsestLevelSource {
		sum += v
	}
	mean := sum / float64(len(coarsestLevelSource))
	if mean < 0 {
		return -mean
	}
	return mean
}
