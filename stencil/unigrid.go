package stencil

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/icgen/cosmicic/errs"
	"github.com/icgen/cosmicic/grid"
)

// TwoLPTSourceUnigrid computes the 2LPT source via the FFT path of
// spec.md §4.7, valid only for a single-level hierarchy. phi is the
// displacement potential on h.Levels[0]'s interior, box length 1 (the
// 2*pi/L normalization is left to the caller, per spec.md §4.7's note).
func TwoLPTSourceUnigrid(h *grid.Hierarchy) ([]float64, error) {
	if err := unigridError(h); err != nil {
		return nil, err
	}
	lvl := h.Levels[0]
	nx, ny, nz := lvl.Domain.Size(0), lvl.Domain.Size(1), lvl.Domain.Size(2)
	if nx != ny || ny != nz {
		return nil, errs.New(errs.UnigridRequired, "TwoLPTSourceUnigrid: requires a cubic grid, got %dx%dx%d", nx, ny, nz)
	}
	n := nx

	phi := make([]complex128, n*n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				phi[(i*n+j)*n+k] = complex(lvl.At(i, j, k), 0)
			}
		}
	}

	fft := fourier.NewCmplxFFT(n)
	phiHat := forward3D(phi, n, fft)

	norm := 1.0 / float64(n*n*n)

	// Six independent D_ij = -k_i*k_j*norm*phiHat fields, DC zeroed.
	dHat := make([][]complex128, 6)
	pairs := [6][2]int{{0, 0}, {1, 1}, {2, 2}, {0, 1}, {0, 2}, {1, 2}}
	for p, ax := range pairs {
		dHat[p] = make([]complex128, n*n*n)
		for i := 0; i < n; i++ {
			ki := foldK(i, n)
			for j := 0; j < n; j++ {
				kj := foldK(j, n)
				for k := 0; k < n; k++ {
					kk := foldK(k, n)
					idx := (i*n+j)*n + k
					if i == 0 && j == 0 && k == 0 {
						dHat[p][idx] = 0
						continue
					}
					kvec := [3]float64{2 * math.Pi * float64(ki), 2 * math.Pi * float64(kj), 2 * math.Pi * float64(kk)}
					dHat[p][idx] = complex(-kvec[ax[0]]*kvec[ax[1]]*norm, 0) * phiHat[idx]
				}
			}
		}
	}

	dReal := make([][]float64, 6)
	for p := range dHat {
		back := inverse3D(dHat[p], n, fft)
		dReal[p] = make([]float64, n*n*n)
		for i, v := range back {
			dReal[p][i] = real(v)
		}
	}

	out := make([]float64, n*n*n)
	// index map: 0=D00 1=D11 2=D22 3=D01 4=D02 5=D12
	for i := range out {
		d00, d11, d22 := dReal[0][i], dReal[1][i], dReal[2][i]
		d01, d02, d12 := dReal[3][i], dReal[4][i], dReal[5][i]
		out[i] = -((d00*d11 - d01*d01) + (d00*d22 - d02*d02) + (d11*d22 - d12*d12))
	}
	return out, nil
}

func foldK(i, n int) int {
	if i > n/2 {
		return i - n
	}
	return i
}

func forward3D(buf []complex128, n int, fft *fourier.CmplxFFT) []complex128 {
	out := make([]complex128, len(buf))
	copy(out, buf)
	transform3D(out, n, fft, false)
	return out
}

func inverse3D(buf []complex128, n int, fft *fourier.CmplxFFT) []complex128 {
	out := make([]complex128, len(buf))
	copy(out, buf)
	transform3D(out, n, fft, true)
	norm := complex(1.0/float64(n*n*n), 0)
	for i := range out {
		out[i] *= norm
	}
	return out
}

// transform3D applies separable 1-D transforms along each axis of a
// row-major n^3 complex buffer. When inverse is true, gonum's own
// internal 1/n normalization on fft.Inverse is undone per-axis so a
// single 1/n^3 factor is applied once by the caller.
func transform3D(buf []complex128, n int, fft *fourier.CmplxFFT, inverse bool) {
	line := make([]complex128, n)
	apply := func(start, stride int) {
		for t, s := 0, start; t < n; t, s = t+1, s+stride {
			line[t] = buf[s]
		}
		var out []complex128
		if inverse {
			out = fft.Inverse(nil, line)
			for t := range out {
				out[t] *= complex(float64(n), 0)
			}
		} else {
			out = fft.Forward(nil, line)
		}
		for t, s := 0, start; t < n; t, s = t+1, s+stride {
			buf[s] = out[t]
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			apply((i*n+j)*n, 1)
		}
	}
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			apply(i*n*n+k, n)
		}
	}
	for j := 0; j < n; j++ {
		for k := 0; k < n; k++ {
			apply(j*n+k, n*n)
		}
	}
}
