// Package stencil implements the three finite-difference density
// operators of spec.md §4.6 (2LPT source, LLA density, Lu density) and
// the unigrid FFT alternative of §4.7. Each operator iterates
// level-by-level; within a level the outermost axis is split across a
// worker-per-chunk goroutine pool, grounded on
// the teacher's game/parallel.go concurrency pattern.
package stencil

import (
	"runtime"
	"sync"

	"github.com/icgen/cosmicic/errs"
	"github.com/icgen/cosmicic/grid"
)

// Order is a stencil accuracy order; only 2, 4, and 6 are defined.
type Order int

const (
	Order2 Order = 2
	Order4 Order = 4
	Order6 Order = 6
)

func validOrder(o Order) error {
	switch o {
	case Order2, Order4, Order6:
		return nil
	default:
		return errs.New(errs.UnsupportedOrder, "stencil: order must be one of {2,4,6}, got %d", o)
	}
}

// hessian is the local 3x3 symmetric second-derivative matrix of the
// displacement potential at one cell.
type hessian struct {
	D [3][3]float64
}

// neighbor returns phi at (i,j,k) shifted by delta along axis.
func neighbor(l *grid.Level, i, j, k, axis, delta int) float64 {
	switch axis {
	case 0:
		return l.At(i+delta, j, k)
	case 1:
		return l.At(i, j+delta, k)
	default:
		return l.At(i, j, k+delta)
	}
}

// corner returns phi at (i,j,k) shifted by (da along axisA, db along
// axisB), for the off-diagonal (mixed partial) stencils.
func corner(l *grid.Level, i, j, k, axisA, axisB, da, db int) float64 {
	shift := [3]int{0, 0, 0}
	shift[axisA] += da
	shift[axisB] += db
	return l.At(i+shift[0], j+shift[1], k+shift[2])
}

// diagonal computes h^2 * d^2 phi/dx_axis^2 at (i,j,k), spec.md §4.6.
func diagonal(l *grid.Level, i, j, k, axis int, order Order, h2 float64) float64 {
	p0 := l.At(i, j, k)
	switch order {
	case Order2:
		pm1 := neighbor(l, i, j, k, axis, -1)
		pp1 := neighbor(l, i, j, k, axis, 1)
		return (pm1 - 2*p0 + pp1) * h2
	case Order4:
		pm2 := neighbor(l, i, j, k, axis, -2)
		pm1 := neighbor(l, i, j, k, axis, -1)
		pp1 := neighbor(l, i, j, k, axis, 1)
		pp2 := neighbor(l, i, j, k, axis, 2)
		return (-pm2 + 16*pm1 - 30*p0 + 16*pp1 - pp2) * h2 / 12.0
	default: // Order6
		pm3 := neighbor(l, i, j, k, axis, -3)
		pm2 := neighbor(l, i, j, k, axis, -2)
		pm1 := neighbor(l, i, j, k, axis, -1)
		pp1 := neighbor(l, i, j, k, axis, 1)
		pp2 := neighbor(l, i, j, k, axis, 2)
		pp3 := neighbor(l, i, j, k, axis, 3)
		return (2*pm3 - 27*pm2 + 270*pm1 - 490*p0 + 270*pp1 - 27*pp2 + 2*pp3) * h2 / 180.0
	}
}

// offDiagonal computes h^2 * d^2 phi/(dx_a dx_b) at (i,j,k), spec.md
// §4.6. Orders 2 and 4 share the standard 4-corner stencil; order 6
// combines the corner differences C(1,1), C(1,2)+C(2,1) and C(2,2)
// (C(a,b) taken at offsets ±a along axisA and ±b along axisB) with
// weights {64,-8,1} and prefactor h^2/(4*36), the product of two
// fourth-order central first-difference stencils.
func offDiagonal(l *grid.Level, i, j, k, axisA, axisB int, order Order, h2 float64) float64 {
	corner1 := corner(l, i, j, k, axisA, axisB, 1, 1) - corner(l, i, j, k, axisA, axisB, 1, -1) -
		corner(l, i, j, k, axisA, axisB, -1, 1) + corner(l, i, j, k, axisA, axisB, -1, -1)

	if order == Order2 || order == Order4 {
		return corner1 * h2 / 4.0
	}

	corner2 := corner(l, i, j, k, axisA, axisB, 1, 2) - corner(l, i, j, k, axisA, axisB, 1, -2) -
		corner(l, i, j, k, axisA, axisB, -1, 2) + corner(l, i, j, k, axisA, axisB, -1, -2) +
		corner(l, i, j, k, axisA, axisB, 2, 1) - corner(l, i, j, k, axisA, axisB, 2, -1) -
		corner(l, i, j, k, axisA, axisB, -2, 1) + corner(l, i, j, k, axisA, axisB, -2, -1)
	corner3 := corner(l, i, j, k, axisA, axisB, 2, 2) - corner(l, i, j, k, axisA, axisB, 2, -2) -
		corner(l, i, j, k, axisA, axisB, -2, 2) + corner(l, i, j, k, axisA, axisB, -2, -2)

	return (64*corner1 - 8*corner2 + corner3) * h2 / (4.0 * 36.0)
}

// computeHessian fills the full symmetric Hessian at one cell.
func computeHessian(l *grid.Level, i, j, k int, order Order, h2 float64) hessian {
	var hs hessian
	for a := 0; a < 3; a++ {
		hs.D[a][a] = diagonal(l, i, j, k, a, order, h2)
	}
	for a := 0; a < 3; a++ {
		for b := a + 1; b < 3; b++ {
			v := offDiagonal(l, i, j, k, a, b, order, h2)
			hs.D[a][b] = v
			hs.D[b][a] = v
		}
	}
	return hs
}

// forEachCellParallel runs fn(i,j,k) over every interior cell of l,
// splitting the outermost (i) axis across GOMAXPROCS goroutines, per
// spec.md §5's concurrency model (disjoint per-cell writes, no
// inter-thread dependency within a level).
func forEachCellParallel(l *grid.Level, fn func(i, j, k int)) {
	nx := l.Domain.Size(0)
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > nx {
		numWorkers = nx
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	chunk := (nx + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		i0 := w * chunk
		i1 := i0 + chunk
		if i1 > nx {
			i1 = nx
		}
		if i0 >= i1 {
			continue
		}
		wg.Add(1)
		go func(i0, i1 int) {
			defer wg.Done()
			ny, nz := l.Domain.Size(1), l.Domain.Size(2)
			for i := i0; i < i1; i++ {
				for j := 0; j < ny; j++ {
					for k := 0; k < nz; k++ {
						fn(i, j, k)
					}
				}
			}
		}(i0, i1)
	}
	wg.Wait()
}

// h2Level returns h^2 for level l using spec.md §4.6's convention
// h_l = 2^l (grid spacing expressed in the level's own normalized
// index units, not a physical box length -- grid.Level.CellPos uses a
// separate, physical [0,1)^3 convention for positions).
func h2Level(l *grid.Level) float64 {
	h := 1.0
	for i := 0; i < l.ID; i++ {
		h *= 2
	}
	return h * h
}
