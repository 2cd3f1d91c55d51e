package stencil

import (
	"github.com/icgen/cosmicic/errs"
	"github.com/icgen/cosmicic/grid"
)

// TwoLPTSource computes the second-order Lagrangian perturbation
// theory source term on every level of h, then restricts top-down to
// the coarsest level and subtracts the coarsest level's mean from
// every level so the resulting Poisson problem has zero mean overall,
// spec.md §4.6.
func TwoLPTSource(h *grid.Hierarchy, order Order) ([][]float64, error) {
	if err := validOrder(order); err != nil {
		return nil, err
	}

	out := make([][]float64, len(h.Levels))
	for li, lvl := range h.Levels {
		out[li] = computeLevelSource(lvl, order, twoLPTAtCell)
	}

	restrictSourceTopDown(h, out)

	mean := meanOf(out[0])
	for li := range out {
		for i := range out[li] {
			out[li][i] -= mean
		}
	}
	return out, nil
}

func twoLPTAtCell(hs hessian) float64 {
	var sum float64
	for a := 0; a < 3; a++ {
		for b := a + 1; b < 3; b++ {
			sum += hs.D[a][a]*hs.D[b][b] - hs.D[a][b]*hs.D[a][b]
		}
	}
	return -sum
}

// LLADensity computes the local Lagrangian approximation density,
// spec.md §4.6. At order 6, the spec requires reproducing the source
// reference's sign flip on the quadratic terms (a documented open
// question, not treated as a bug): the "+" below at order 6 vs "-" at
// orders 2 and 4.
func LLADensity(h *grid.Hierarchy, order Order) ([][]float64, error) {
	if err := validOrder(order); err != nil {
		return nil, err
	}
	out := make([][]float64, len(h.Levels))
	for li, lvl := range h.Levels {
		sign := -1.0
		if order == Order6 {
			sign = 1.0
		}
		out[li] = computeLevelSource(lvl, order, func(hs hessian) float64 {
			trace := hs.D[0][0] + hs.D[1][1] + hs.D[2][2]
			var quad float64
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					quad += hs.D[a][b] * hs.D[b][a]
				}
			}
			var diagSq float64
			for a := 0; a < 3; a++ {
				diagSq += hs.D[a][a] * hs.D[a][a]
			}
			return trace + sign*(quad+diagSq)
		})
	}
	return out, nil
}

// LuDensity computes the Lu density reconstruction, spec.md §4.6.
// Second order only: D_ii = 1 + second_difference_i.
func LuDensity(h *grid.Hierarchy) ([][]float64, error) {
	out := make([][]float64, len(h.Levels))
	for li, lvl := range h.Levels {
		out[li] = computeLevelSource(lvl, Order2, func(hs hessian) float64 {
			var sum float64
			for a := 0; a < 3; a++ {
				sum += 1 + hs.D[a][a]
			}
			return -(sum - 3)
		})
	}
	return out, nil
}

// computeLevelSource evaluates fn(hessian) at every interior cell of
// lvl in parallel, grounded on forEachCellParallel's axis-slab
// worker split.
func computeLevelSource(lvl *grid.Level, order Order, fn func(hessian) float64) []float64 {
	nx, ny, nz := lvl.Domain.Size(0), lvl.Domain.Size(1), lvl.Domain.Size(2)
	out := make([]float64, nx*ny*nz)
	h2 := h2Level(lvl)

	forEachCellParallel(lvl, func(i, j, k int) {
		hs := computeHessian(lvl, i, j, k, order, h2)
		out[(i*ny+j)*nz+k] = fn(hs)
	})
	return out
}

// restrictSourceTopDown restricts each level's source field into its
// parent using the mg_straight operator (grid.RestrictMGStraight),
// from finest to coarsest, so out[0] ends up holding the
// fully-restricted source at the coarsest level.
func restrictSourceTopDown(h *grid.Hierarchy, out [][]float64) {
	for li := len(h.Levels) - 1; li > 0; li-- {
		fine := h.Levels[li]
		coarse := h.Levels[li-1]
		nxf, nyf, nzf := fine.Domain.Size(0), fine.Domain.Size(1), fine.Domain.Size(2)
		nyc, nzc := coarse.Domain.Size(1), coarse.Domain.Size(2)

		for fi := 0; fi < nxf; fi += 2 {
			for fj := 0; fj < nyf; fj += 2 {
				for fk := 0; fk < nzf; fk += 2 {
					var sum float64
					for di := 0; di < 2; di++ {
						for dj := 0; dj < 2; dj++ {
							for dk := 0; dk < 2; dk++ {
								sum += out[li][((fi+di)*nyf+(fj+dj))*nzf+(fk+dk)]
							}
						}
					}
					ci, cj, ck := fi/2, fj/2, fk/2
					out[li-1][(ci*nyc+cj)*nzc+ck] = sum / 8.0
				}
			}
		}
	}
}

func meanOf(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// unigridError returns UnigridRequired if h does not have exactly one
// level, since TwoLPTSourceUnigrid's FFT path has no restriction step.
func unigridError(h *grid.Hierarchy) error {
	if len(h.Levels) != 1 {
		return errs.New(errs.UnigridRequired, "TwoLPTSourceUnigrid: requires a single-level (unigrid) hierarchy, got %d levels", len(h.Levels))
	}
	return nil
}
