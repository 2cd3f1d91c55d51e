package fftlog

import (
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/icgen/cosmicic/errs"
)

// RealKernel is the interpolable real-space convolution kernel T_r(r),
// per spec.md §4.2 step 8 / data model §3: a pair of cubic splines over
// x = 2*log10(r) (equivalently log10(r^2)) carrying (log10|T_r|, sign),
// plus the direct-integration r=0 value.
type RealKernel struct {
	absSpline interp.NotAKnot
	sgnSpline interp.NotAKnot
	tr0       float64
	rMin      float64
	rMax      float64
}

// newRealKernel filters the raw (r, T_r(r)) samples to [rMin, rMax],
// fits the two splines over log10(r^2), per spec.md §4.2 step 8.
func newRealKernel(rr, TT []float64, tr0, rMin, rMax float64) (*RealKernel, error) {
	xs := make([]float64, 0, len(rr))
	absYs := make([]float64, 0, len(rr))
	sgnYs := make([]float64, 0, len(rr))

	for i, r := range rr {
		if r <= rMin || r >= rMax {
			continue
		}
		x := math.Log10(r * r)
		t := TT[i]
		xs = append(xs, x)
		absYs = append(absYs, math.Log10(math.Abs(t)))
		if t >= 0 {
			sgnYs = append(sgnYs, 1.0)
		} else {
			sgnYs = append(sgnYs, -1.0)
		}
	}

	if len(xs) < 4 {
		return nil, errs.New(errs.NumericalFailure, "FFTLog kernel: only %d samples fall inside [%g, %g], need >= 4", len(xs), rMin, rMax)
	}

	k := &RealKernel{tr0: tr0, rMin: rMin, rMax: rMax}
	if err := k.absSpline.Fit(xs, absYs); err != nil {
		return nil, errs.Wrap(errs.NumericalFailure, err, "fitting |T_r| spline")
	}
	if err := k.sgnSpline.Fit(xs, sgnYs); err != nil {
		return nil, errs.Wrap(errs.NumericalFailure, err, "fitting sign(T_r) spline")
	}
	return k, nil
}

// RMin returns the lower bound of the spline's domain.
func (k *RealKernel) RMin() float64 { return k.rMin }

// RMax returns the upper bound of the spline's domain.
func (k *RealKernel) RMax() float64 { return k.rMax }

// Tr0 returns the direct-integration r=0 value.
func (k *RealKernel) Tr0() float64 { return k.tr0 }

// Eval returns T_r(r) given r^2, per spec.md §4.2's evaluation rule:
// below r^2=1e-16 it returns the r=0 value; otherwise it reconstructs
// the signed value from the two splines.
func (k *RealKernel) Eval(r2 float64) float64 {
	if r2 < 1e-16 {
		return k.tr0
	}
	x := math.Log10(r2)
	logAbs := k.absSpline.Predict(x)
	sgn := k.sgnSpline.Predict(x)
	s := 1.0
	if sgn < 0 {
		s = -1.0
	}
	return math.Pow(10, logAbs) * s
}
