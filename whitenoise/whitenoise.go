// Package whitenoise composes the multi-scale Gaussian white-noise
// hierarchy of spec.md §4.4 on top of rng.LevelRNG, enforcing the
// downsample-average invariant between a coarse level and its
// refinement and applying the Fourier-space small-scale correction via
// gonum.org/v1/gonum/dsp/fourier.
package whitenoise

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/icgen/cosmicic/errs"
	"github.com/icgen/cosmicic/rng"
)

// Field is a real cubic field of shape Nx*Ny*Nz in row-major order.
type Field struct {
	Data           []float64
	Nx, Ny, Nz int
}

func newField(n int) *Field {
	return &Field{Data: make([]float64, n*n*n), Nx: n, Ny: n, Nz: n}
}

func (f *Field) at(i, j, k int) float64 { return f.Data[(i*f.Ny+j)*f.Nz+k] }
func (f *Field) set(i, j, k int, v float64) { f.Data[(i*f.Ny+j)*f.Nz+k] = v }

// LevelSeed is one entry of the plan passed to Compose: a resolution,
// and either a numeric seed (generated via rng.LevelRNG) or an
// externally loaded field (already-filled Data, e.g. read from a
// wnoise_%04d.bin file by streams.ReadWhiteNoiseFile).
type LevelSeed struct {
	Resolution int
	CubeSize   int
	Seed       int64
	HasSeed    bool
	External   *Field // used instead of Seed when HasSeed is false
	ZeroMean   bool
	KCut       float64 // Nyquist fraction at which small-scale correction truncates; 0 defaults to 1.0
}

// Compose builds one consistent Field per level of plan, applying the
// downsample-average invariant and small-scale correction between
// each adjacent pair, per spec.md §4.4 rules 1-3. levelminSeed is the
// index (into plan) of the coarsest level carrying its own seed;
// finer levels without a seed inherit consistency from it through the
// correction step alone.
func Compose(plan []LevelSeed, levelminSeed int) ([]*Field, error) {
	if len(plan) == 0 {
		return nil, errs.New(errs.SeedMissing, "whitenoise.Compose: empty level plan")
	}
	if levelminSeed < 0 || levelminSeed >= len(plan) {
		return nil, errs.New(errs.SeedMissing, "whitenoise.Compose: levelminSeed %d out of range [0,%d)", levelminSeed, len(plan))
	}
	if !plan[levelminSeed].HasSeed && plan[levelminSeed].External == nil {
		return nil, errs.New(errs.SeedMissing, "whitenoise.Compose: level %d designated levelmin_seed carries no seed and no external field", levelminSeed)
	}

	fields := make([]*Field, len(plan))

	for l, spec := range plan {
		if spec.External != nil {
			if spec.External.Nx != spec.Resolution || spec.External.Ny != spec.Resolution || spec.External.Nz != spec.Resolution {
				return nil, errs.New(errs.WhiteNoiseShapeMismatch, "whitenoise.Compose: level %d external field shape (%d,%d,%d) != expected %d^3",
					l, spec.External.Nx, spec.External.Ny, spec.External.Nz, spec.Resolution)
			}
			fields[l] = spec.External
			continue
		}
		if !spec.HasSeed {
			// Unseeded, non-external level: material content comes
			// entirely from the correction step against its seeded
			// neighbor (rule 1), so it starts from an independent
			// draw with an arbitrary-but-fixed seed.
			spec.Seed = int64(l) + 1
		}
		cubeSize := spec.CubeSize
		if cubeSize <= 0 {
			cubeSize = rng.DefaultCubeSize
		}
		lvl, err := rng.NewLevelRNG(spec.Resolution, cubeSize, spec.Seed, spec.ZeroMean)
		if err != nil {
			return nil, errs.Wrap(errs.SeedMissing, err, "level %d", l)
		}
		fields[l] = materialize(lvl)
	}

	for l := 0; l < len(fields)-1; l++ {
		coarse, fine := fields[l], fields[l+1]
		if fine.Nx != 2*coarse.Nx {
			continue // not a direct x2 refinement; nothing to correct
		}
		enforceDownsampleAverage(coarse, fine)
		kcut := plan[l+1].KCut
		if kcut <= 0 {
			kcut = 1.0
		}
		if err := correctAvg(coarse, fine, kcut); err != nil {
			return nil, errs.Wrap(errs.NumericalFailure, err, "correcting levels %d/%d", l, l+1)
		}
	}

	return fields, nil
}

// materialize draws a full Nx^3 field from a LevelRNG, freeing each
// cube once its values are copied out so resident memory stays
// bounded to the cube working set (spec.md §4.3).
func materialize(lvl *rng.LevelRNG) *Field {
	f := newField(lvl.Res)
	for ic := 0; ic < lvl.NCubes; ic++ {
		for jc := 0; jc < lvl.NCubes; jc++ {
			for kc := 0; kc < lvl.NCubes; kc++ {
				base := ic * lvl.CubeSize
				baseJ := jc * lvl.CubeSize
				baseK := kc * lvl.CubeSize
				for ii := 0; ii < lvl.CubeSize; ii++ {
					for jj := 0; jj < lvl.CubeSize; jj++ {
						for kk := 0; kk < lvl.CubeSize; kk++ {
							f.set(base+ii, baseJ+jj, baseK+kk, lvl.Get(base+ii, baseJ+jj, baseK+kk))
						}
					}
				}
				lvl.FreeCube(ic, jc, kc)
			}
		}
	}
	return f
}

// enforceDownsampleAverage overwrites coarse in place so that every
// coarse cell equals the mean of its 8 covering fine cells, spec.md
// §4.4 rule 2, restricted to the region fine actually covers (which is
// the whole coarse grid when fine is exactly 2x coarse).
func enforceDownsampleAverage(coarse, fine *Field) {
	n := coarse.Nx
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				var sum float64
				for di := 0; di < 2; di++ {
					for dj := 0; dj < 2; dj++ {
						for dk := 0; dk < 2; dk++ {
							sum += fine.at(2*i+di, 2*j+dj, 2*k+dk)
						}
					}
				}
				coarse.set(i, j, k, sum/8.0)
			}
		}
	}
}

// correctAvg implements spec.md §4.4 rule 3: forward FFT the fine
// field; for every mode with |k|_inf < (Nfine/2)*kcut that also exists
// on the coarse grid, replace the fine coefficient with the coarse
// field's (rescaled) coefficient; inverse FFT. Modes at or above the
// cutoff, and low-k modes beyond the coarse grid's Nyquist, keep the
// fine field's own values. This removes the interpolation bias the
// downsample-average enforcement alone does not correct in Fourier
// space.
func correctAvg(coarse, fine *Field, kcut float64) error {
	n := fine.Nx
	nc := coarse.Nx

	fftRows := fourier.NewCmplxFFT(n)
	fftCoarseRows := fourier.NewCmplxFFT(nc)

	fineHat := fft3D(fine.Data, n, fftRows)
	coarseHat := fft3D(coarse.Data, nc, fftCoarseRows)

	cutoff := float64(n/2) * kcut

	out := make([]complex128, n*n*n)
	copy(out, fineHat)

	for i := 0; i < n; i++ {
		ki := foldFreq(i, n)
		for j := 0; j < n; j++ {
			kj := foldFreq(j, n)
			for k := 0; k < n; k++ {
				kk := foldFreq(k, n)
				idx := (i*n+j)*n + k
				if absMax3(ki, kj, kk) >= cutoff {
					continue
				}
				// Low-k bin: substitute the coarse grid's value at
				// the corresponding frequency, if it exists there.
				if ci, ok := mapFreq(ki, nc); ok {
					if cj, ok := mapFreq(kj, nc); ok {
						if ck, ok := mapFreq(kk, nc); ok {
							cidx := (ci*nc+cj)*nc + ck
							out[idx] = coarseHat[cidx] * complex(float64(n*n*n)/float64(nc*nc*nc), 0)
						}
					}
				}
			}
		}
	}

	back := ifft3D(out, n, fftRows)
	for i, v := range back {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return errs.New(errs.NumericalFailure, "correctAvg: non-finite value at flattened index %d", i)
		}
		fine.Data[i] = real(v)
	}
	return nil
}

func foldFreq(i, n int) int {
	if i > n/2 {
		return i - n
	}
	return i
}

// mapFreq maps a signed frequency defined on an n-point grid onto the
// corresponding bin of an nc-point grid (nc <= n), returning ok=false
// if the frequency has no counterpart (it is above the coarse grid's
// own Nyquist).
func mapFreq(k, nc int) (int, bool) {
	if k > nc/2 || k < -(nc/2) {
		return 0, false
	}
	if k < 0 {
		k += nc
	}
	return k, true
}

func absMax3(a, b, c int) float64 {
	m := absInt(a)
	if v := absInt(b); v > m {
		m = v
	}
	if v := absInt(c); v > m {
		m = v
	}
	return float64(m)
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// fft3D applies a 3-D complex forward FFT to a real row-major field by
// separable 1-D transforms along each axis.
func fft3D(data []float64, n int, row *fourier.CmplxFFT) []complex128 {
	buf := make([]complex128, n*n*n)
	for i, v := range data {
		buf[i] = complex(v, 0)
	}
	transformAxes(buf, n, row, false)
	return buf
}

func ifft3D(data []complex128, n int, row *fourier.CmplxFFT) []complex128 {
	out := make([]complex128, len(data))
	copy(out, data)
	transformAxes(out, n, row, true)
	norm := complex(1.0/float64(n*n*n), 0)
	for i := range out {
		out[i] *= norm
	}
	return out
}

func transformAxes(buf []complex128, n int, row *fourier.CmplxFFT, inverse bool) {
	line := make([]complex128, n)
	apply := func(start, stride int) {
		for t, s := 0, start; t < n; t, s = t+1, s+stride {
			line[t] = buf[s]
		}
		var out []complex128
		if inverse {
			out = row.Inverse(nil, line)
			for t := range out {
				out[t] *= complex(float64(n), 0) // undo gonum's internal 1/n so only the final 3-D pass normalizes
			}
		} else {
			out = row.Forward(nil, line)
		}
		for t, s := 0, start; t < n; t, s = t+1, s+stride {
			buf[s] = out[t]
		}
	}

	// axis k (fastest-varying)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			apply((i*n+j)*n, 1)
		}
	}
	// axis j
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			apply(i*n*n+k, n)
		}
	}
	// axis i (slowest-varying)
	for j := 0; j < n; j++ {
		for k := 0; k < n; k++ {
			apply(j*n+k, n*n)
		}
	}
}
