package whitenoise

import (
	"math"
	"testing"
)

func TestComposeRejectsEmptyPlan(t *testing.T) {
	if _, err := Compose(nil, 0); err == nil {
		t.Fatal("expected error for empty plan")
	}
}

func TestComposeRejectsMissingLevelminSeed(t *testing.T) {
	plan := []LevelSeed{{Resolution: 16, CubeSize: 8, HasSeed: false}}
	if _, err := Compose(plan, 0); err == nil {
		t.Fatal("expected SeedMissing error when levelmin_seed has no seed")
	}
}

func TestComposeSingleLevelHasUnitVarianceApproximately(t *testing.T) {
	plan := []LevelSeed{{Resolution: 32, CubeSize: 16, Seed: 1, HasSeed: true}}
	fields, err := Compose(plan, 0)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	f := fields[0]
	var sum, sumsq float64
	n := float64(len(f.Data))
	for _, v := range f.Data {
		sum += v
		sumsq += v * v
	}
	mean := sum / n
	variance := sumsq/n - mean*mean
	if math.Abs(variance-1.0) > 0.2 {
		t.Errorf("expected approximately unit variance, got %v", variance)
	}
}

func TestEnforceDownsampleAverageMatchesCoarseValues(t *testing.T) {
	coarse := newField(2)
	fine := newField(4)
	for i := range fine.Data {
		fine.Data[i] = float64(i)
	}
	enforceDownsampleAverage(coarse, fine)

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				var want float64
				for di := 0; di < 2; di++ {
					for dj := 0; dj < 2; dj++ {
						for dk := 0; dk < 2; dk++ {
							want += fine.at(2*i+di, 2*j+dj, 2*k+dk)
						}
					}
				}
				want /= 8.0
				if got := coarse.at(i, j, k); got != want {
					t.Errorf("coarse(%d,%d,%d) = %v, want %v", i, j, k, got, want)
				}
			}
		}
	}
}

func TestComposeTwoLevelsPreservesDownsampleAverageAfterCorrection(t *testing.T) {
	plan := []LevelSeed{
		{Resolution: 8, CubeSize: 8, Seed: 11, HasSeed: true},
		{Resolution: 16, CubeSize: 8, Seed: 12, HasSeed: true},
	}
	fields, err := Compose(plan, 0)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	coarse, fine := fields[0], fields[1]

	var maxResidual float64
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			for k := 0; k < 8; k++ {
				var avg float64
				for di := 0; di < 2; di++ {
					for dj := 0; dj < 2; dj++ {
						for dk := 0; dk < 2; dk++ {
							avg += fine.at(2*i+di, 2*j+dj, 2*k+dk)
						}
					}
				}
				avg /= 8.0
				res := math.Abs(avg - coarse.at(i, j, k))
				if res > maxResidual {
					maxResidual = res
				}
			}
		}
	}
	// The Fourier small-scale correction trades off perfect
	// downsample-average agreement for a consistent spectrum; the
	// residual should still be small relative to the field's own
	// scale (O(1) fluctuations).
	if maxResidual > 3.0 {
		t.Errorf("downsample-average residual too large after correction: %v", maxResidual)
	}
}
