// Package fftlog implements the one-dimensional log-spaced Hankel
// transform (order μ=1/2, i.e. the spherical Bessel j0 kernel) used to
// convert a transfer function T(k) into the isotropic real-space
// convolution kernel T_r(r), per spec.md §4.2. It uses
// gonum.org/v1/gonum/dsp/fourier for the complex DFT step, and the
// adaptive quadrature in fftlog/quad for the r=0 endpoint integral.
package fftlog

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/icgen/cosmicic/errs"
	"github.com/icgen/cosmicic/fftlog/quad"
)

// Function is the minimal contract fftlog.Transform needs from a
// transfer function: evaluate T(k) and report its valid domain.
// transfer.Function satisfies this.
type Function interface {
	T(k float64) float64
	TMin() float64
	TMax() float64
}

const (
	mu   = 0.5     // Hankel order for the j0 (spherical Bessel, l=0) kernel
	qmin = 1.0e-6  // fixed log-grid bound, per spec.md §4.2 step 1
	qmax = 1.0e6
)

// Transform implements spec.md §4.2 steps 1-8: it builds the FFTLog
// log-spaced grid, applies Hamilton anti-ringing, performs the forward
// and inverse complex DFTs with the frequency-domain U·phase multiply,
// computes the r=0 endpoint by direct quadrature, and returns a
// RealKernel whose two interpolating splines span exactly
// [splineRMin, splineRMax].
//
// n is the FFTLog grid size (spec.md prescribes N=2^14=16384; smaller
// values are accepted for faster, lower-resolution kernels, e.g. in
// tests). ns is the primordial spectral index, pnorm the power-spectrum
// normalization, dplus the linear growth factor at the seed redshift,
// and kNyquist the box's Nyquist wavenumber (used to bound the r=0
// endpoint integral at sqrt(3/2)*kNyquist, per spec.md §4.2 step 7).
func Transform(tf Function, ns, pnorm, dplus float64, splineRMin, splineRMax, kNyquist float64, n int) (*RealKernel, error) {
	// The FFTLog biasing exponent q is nominally 0.8 before being
	// overwritten to 0.2; per spec.md §9's Open Question the inner,
	// overwriting value is authoritative and is the only one reproduced.
	const q = 0.2

	k0 := math.Exp(0.5 * (math.Log(qmax) + math.Log(qmin)))
	r0 := math.Exp(0.5 * (math.Log(qmax) + math.Log(qmin)))
	L := math.Log(qmax) - math.Log(qmin)
	dlnk := L / float64(n)
	dlnr := dlnk
	k0r0 := k0 * r0

	k0r0 = krgood(mu, q, dlnr, k0r0)

	sqrtPnorm := math.Sqrt(pnorm)
	in := make([]complex128, n)
	for i := 0; i < n; i++ {
		k := k0 * math.Exp((float64(i)-float64(n)/2+1)*dlnk)
		val := dplus * sqrtPnorm * tf.T(k) * math.Pow(k, 0.5*ns) * math.Pow(k, 1.5-q)
		in[i] = complex(val, 0)
	}

	fft := fourier.NewCmplxFFT(n)
	out := fft.Forward(nil, in)

	fftnorm := complex(1.0/float64(n), 0)
	for i := 0; i < n; i++ {
		ii := i
		if ii > n/2 {
			ii -= n
		}
		x := complex(q, float64(ii)*2*math.Pi/L)
		lnG1 := lnGammaComplex(0.5 * (complex(mu+1, 0) + x))
		lnG2 := lnGammaComplex(0.5 * (complex(mu+1, 0) - x))

		var U complex128
		if math.Exp(real(lnG2)) < 1e-19 {
			U = complex(1, 0)
		} else {
			logU := x*cmplx.Log(complex(2, 0)) + lnG1 - lnG2
			U = cmplx.Exp(logU)
		}

		phase := cmplx.Pow(complex(k0r0, 0), complex(0, 2*math.Pi*float64(ii)/L))
		cu := out[i] * U * phase * fftnorm
		if cmplx.IsNaN(cu) || cmplx.IsInf(cu) {
			return nil, errs.New(errs.NumericalFailure, "NaN/Inf in FFTLog frequency-domain product at bin %d", i)
		}
		out[i] = cu
	}

	back := fft.Inverse(nil, out)

	rr := make([]float64, n)
	TT := make([]float64, n)
	r0b := k0r0 / k0
	for i := 0; i < n; i++ {
		ii := i - (n/2 - 1)
		r := r0b * math.Exp(-float64(ii)*dlnr)
		j := n - i - 1
		rr[j] = r
		TT[j] = 4.0 * math.Pi * math.Sqrt(math.Pi/2.0) * real(back[i]) * math.Pow(r, -(1.5 + q))
	}

	integrand := func(k float64) float64 {
		if k <= 0 {
			return 0
		}
		return 4.0 * math.Pi * dplus * sqrtPnorm * tf.T(k) * math.Pow(k, 0.5*ns) * k * k
	}
	tr0, err := quad.Adaptive(integrand, 0, math.Sqrt(1.5)*kNyquist, 1e-8, 20000)
	if err != nil {
		return nil, errs.Wrap(errs.NumericalFailure, err, "FFTLog r=0 endpoint integral")
	}

	return newRealKernel(rr, TT, tr0, splineRMin, splineRMax)
}

// krgood implements Hamilton's (2000) anti-ringing correction to k0*r0,
// spec.md §4.2 step 3.
func krgood(mu, q, dlnr, kr float64) float64 {
	xp := 0.5 * (mu + 1.0 + q)
	xm := 0.5 * (mu + 1.0 - q)
	y := math.Pi / (2.0 * dlnr)

	argP := imag(lnGammaComplex(complex(xp, y)))
	argM := imag(lnGammaComplex(complex(xm, y)))

	arg := math.Log(2.0/kr)/dlnr + (argP+argM)/math.Pi
	iarg := math.Round(arg)
	if arg != iarg {
		return kr * math.Exp((arg-iarg)*dlnr)
	}
	return kr
}
