// Package grid implements the nested refinement hierarchy of spec.md
// §4.5: an ordered list of levels, each a rectangular sub-mesh with
// ghost zones, a per-cell refinement mask, and the two inter-level
// transfer operators (mg_straight restriction, trilinear injection)
// the stencil package assumes are already applied before it runs.
package grid

import (
	"github.com/icgen/cosmicic/errs"
)

// MinGhost is the minimum ghost-zone width required to support the
// widest stencil this repo uses (6th order, half-width 3).
const MinGhost = 3

// Box is an axis-aligned rectangular region in a level's own cell
// index space: Lo inclusive, Hi exclusive.
type Box struct {
	Lo, Hi [3]int
}

// Size returns Hi[axis]-Lo[axis].
func (b Box) Size(axis int) int { return b.Hi[axis] - b.Lo[axis] }

// Level is one rectangular sub-mesh of the hierarchy.
type Level struct {
	ID     int // refinement index (levelmin..levelmax)
	Domain Box // interior cells, in this level's own index units
	Ghost  int
	Res    int // global per-axis resolution at this level (box length 1)

	data    []float64 // (nx+2g)*(ny+2g)*(nz+2g), ghost-padded
	refMask []bool    // nx*ny*nz, true where a finer level covers the cell
}

func (l *Level) nx() int { return l.Domain.Size(0) }
func (l *Level) ny() int { return l.Domain.Size(1) }
func (l *Level) nz() int { return l.Domain.Size(2) }

func (l *Level) strideY() int { return l.ny() + 2*l.Ghost }
func (l *Level) strideZ() int { return l.nz() + 2*l.Ghost }

// NewLevel allocates a level's storage, including ghost padding.
func NewLevel(id int, domain Box, ghost, res int) (*Level, error) {
	if ghost < 0 {
		return nil, errs.New(errs.InvalidCosmology, "grid.NewLevel: ghost width must be >= 0, got %d", ghost)
	}
	nx, ny, nz := domain.Size(0), domain.Size(1), domain.Size(2)
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, errs.New(errs.InvalidCosmology, "grid.NewLevel: empty domain %+v", domain)
	}
	l := &Level{ID: id, Domain: domain, Ghost: ghost, Res: res}
	l.data = make([]float64, (nx+2*ghost)*(ny+2*ghost)*(nz+2*ghost))
	l.refMask = make([]bool, nx*ny*nz)
	return l, nil
}

// idx maps interior-relative (i,j,k) (may be negative or >= n, within
// the ghost width) to a flat storage index.
func (l *Level) idx(i, j, k int) int {
	gi, gj, gk := i+l.Ghost, j+l.Ghost, k+l.Ghost
	return (gi*l.strideY()+gj)*l.strideZ() + gk
}

// At returns the field value at interior-relative (i,j,k); negative or
// out-of-range indices (up to Ghost) read the ghost zone.
func (l *Level) At(i, j, k int) float64 { return l.data[l.idx(i, j, k)] }

// Set writes the field value at interior-relative (i,j,k).
func (l *Level) Set(i, j, k int, v float64) { l.data[l.idx(i, j, k)] = v }

// Refined reports whether interior cell (i,j,k) of this level is
// covered by a finer level, spec.md §4.5.
func (l *Level) Refined(i, j, k int) bool {
	return l.refMask[(i*l.ny()+j)*l.nz()+k]
}

// SetRefined marks interior cell (i,j,k) as covered (or not) by a
// finer level; called by the hierarchy when it wires up levels.
func (l *Level) SetRefined(i, j, k int, v bool) {
	l.refMask[(i*l.ny()+j)*l.nz()+k] = v
}

// CellPos returns the [0,1)^3 position of the center of interior cell
// (i,j,k) at this level's resolution, spec.md §4.5.
func (l *Level) CellPos(i, j, k int) [3]float64 {
	h := 1.0 / float64(l.Res)
	ii, jj, kk := i+l.Domain.Lo[0], j+l.Domain.Lo[1], k+l.Domain.Lo[2]
	return [3]float64{
		(float64(ii) + 0.5) * h,
		(float64(jj) + 0.5) * h,
		(float64(kk) + 0.5) * h,
	}
}

// Hierarchy is the ordered list of levels, levelmin first.
type Hierarchy struct {
	Levels []*Level
}

// New builds an empty hierarchy of n levels starting at levelmin with
// the given per-level domains, each at twice the previous level's
// resolution (standard x2 nested refinement).
func New(levelmin int, domains []Box, ghost int) (*Hierarchy, error) {
	if len(domains) == 0 {
		return nil, errs.New(errs.InvalidCosmology, "grid.New: need at least one level")
	}
	if ghost < MinGhost {
		ghost = MinGhost
	}
	h := &Hierarchy{Levels: make([]*Level, len(domains))}
	res := domains[0].Size(0)
	for li, dom := range domains {
		lvl, err := NewLevel(levelmin+li, dom, ghost, res)
		if err != nil {
			return nil, err
		}
		h.Levels[li] = lvl
		res *= 2
	}
	return h, nil
}

// Size returns the extent along axis of level index li (0-based into
// Levels, not the absolute refinement id).
func (h *Hierarchy) Size(li, axis int) int { return h.Levels[li].Domain.Size(axis) }

// CountLeafCells sums unrefined cells across levels l0..l1 inclusive
// (0-based indices into Levels), spec.md §4.5.
func (h *Hierarchy) CountLeafCells(l0, l1 int) int {
	count := 0
	for li := l0; li <= l1 && li < len(h.Levels); li++ {
		lvl := h.Levels[li]
		for i := 0; i < lvl.nx(); i++ {
			for j := 0; j < lvl.ny(); j++ {
				for k := 0; k < lvl.nz(); k++ {
					if !lvl.Refined(i, j, k) {
						count++
					}
				}
			}
		}
	}
	return count
}

// RestrictMGStraight implements the mg_straight coarse<-fine
// restriction, spec.md §4.5: each coarse cell covered by the fine
// level is set to the unweighted mean of its 8 covering fine cells.
// coarseOrigin is the fine level's (Lo) offset into the coarse level's
// own index space (i.e. where the fine patch sits, in coarse units).
func RestrictMGStraight(coarse, fine *Level, coarseOrigin [3]int) {
	nxf, nyf, nzf := fine.nx(), fine.ny(), fine.nz()
	for fi := 0; fi < nxf; fi += 2 {
		for fj := 0; fj < nyf; fj += 2 {
			for fk := 0; fk < nzf; fk += 2 {
				var sum float64
				for di := 0; di < 2; di++ {
					for dj := 0; dj < 2; dj++ {
						for dk := 0; dk < 2; dk++ {
							sum += fine.At(fi+di, fj+dj, fk+dk)
						}
					}
				}
				ci := coarseOrigin[0] + fi/2
				cj := coarseOrigin[1] + fj/2
				ck := coarseOrigin[2] + fk/2
				coarse.Set(ci, cj, ck, sum/8.0)
				coarse.SetRefined(ci, cj, ck, true)
			}
		}
	}
}

// InjectTrilinear implements the standard trilinear fine<-coarse
// injection, spec.md §4.5, used to fill a fine level's ghost zone from
// its parent coarse level. coarseOrigin is as in RestrictMGStraight.
func InjectTrilinear(fine, coarse *Level, coarseOrigin [3]int) {
	nxf, nyf, nzf := fine.nx(), fine.ny(), fine.nz()
	for fi := -fine.Ghost; fi < nxf+fine.Ghost; fi++ {
		for fj := -fine.Ghost; fj < nyf+fine.Ghost; fj++ {
			for fk := -fine.Ghost; fk < nzf+fine.Ghost; fk++ {
				// Only the ghost shell needs injecting; interior cells
				// keep their own refined values.
				if fi >= 0 && fi < nxf && fj >= 0 && fj < nyf && fk >= 0 && fk < nzf {
					continue
				}
				cx := float64(coarseOrigin[0]) + float64(fi)/2.0
				cy := float64(coarseOrigin[1]) + float64(fj)/2.0
				cz := float64(coarseOrigin[2]) + float64(fk)/2.0
				fine.Set(fi, fj, fk, trilinearSample(coarse, cx, cy, cz))
			}
		}
	}
}

func trilinearSample(coarse *Level, x, y, z float64) float64 {
	i0, j0, k0 := floorInt(x), floorInt(y), floorInt(z)
	tx, ty, tz := x-float64(i0), y-float64(j0), z-float64(k0)

	var v float64
	for di := 0; di < 2; di++ {
		wx := 1 - tx
		if di == 1 {
			wx = tx
		}
		for dj := 0; dj < 2; dj++ {
			wy := 1 - ty
			if dj == 1 {
				wy = ty
			}
			for dk := 0; dk < 2; dk++ {
				wz := 1 - tz
				if dk == 1 {
					wz = tz
				}
				v += wx * wy * wz * coarse.At(i0+di, j0+dj, k0+dk)
			}
		}
	}
	return v
}

func floorInt(x float64) int {
	i := int(x)
	if x < 0 && float64(i) != x {
		i--
	}
	return i
}

// PeriodicWrap fills the ghost zone of the coarsest level by wrapping
// its own interior, spec.md §4.5's boundary rule (b).
func PeriodicWrap(l *Level) {
	nx, ny, nz := l.nx(), l.ny(), l.nz()
	for i := -l.Ghost; i < nx+l.Ghost; i++ {
		for j := -l.Ghost; j < ny+l.Ghost; j++ {
			for k := -l.Ghost; k < nz+l.Ghost; k++ {
				if i >= 0 && i < nx && j >= 0 && j < ny && k >= 0 && k < nz {
					continue
				}
				si := ((i % nx) + nx) % nx
				sj := ((j % ny) + ny) % ny
				sk := ((k % nz) + nz) % nz
				l.Set(i, j, k, l.At(si, sj, sk))
			}
		}
	}
}
