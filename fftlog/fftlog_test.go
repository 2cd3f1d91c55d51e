package fftlog

import (
	"math"
	"testing"
)

// constantT is a trivial transfer function used to exercise the FFTLog
// machinery without depending on the transfer package.
type constantT struct {
	k0, k1 float64
}

func (c constantT) T(k float64) float64 {
	return math.Exp(-k * k)
}
func (c constantT) TMin() float64 { return c.k0 }
func (c constantT) TMax() float64 { return c.k1 }

func TestKrgoodAdjustsByIntegerMultipleOfDlnr(t *testing.T) {
	dlnr := 27.63/16384.0
	kr := krgood(mu, 0.2, dlnr, 1.0)

	xp := 0.5 * (mu + 1.0 + 0.2)
	xm := 0.5 * (mu + 1.0 - 0.2)
	y := math.Pi / (2.0 * dlnr)
	argP := imag(lnGammaComplex(complex(xp, y)))
	argM := imag(lnGammaComplex(complex(xm, y)))
	arg := math.Log(2.0/kr)/dlnr + (argP+argM)/math.Pi

	if math.Abs(arg-math.Round(arg)) > 1e-6 {
		t.Errorf("expected arg to land on an integer after anti-ringing, got %g", arg)
	}
}

func TestTransformProducesUsableKernel(t *testing.T) {
	tf := constantT{k0: 1e-4, k1: 1e3}
	k, err := Transform(tf, 0.96, 1.0, 1.0, 1e-2, 1e2, 10.0, 2048)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	if math.IsNaN(k.Tr0()) || math.IsInf(k.Tr0(), 0) {
		t.Fatalf("Tr0 is not finite: %v", k.Tr0())
	}

	// Below 1e-16 in r^2 always returns the r=0 value.
	if got := k.Eval(1e-20); got != k.Tr0() {
		t.Errorf("Eval below threshold = %v, want Tr0 = %v", got, k.Tr0())
	}

	// Inside the spline domain the kernel must be finite everywhere
	// sampled (decay away from the origin is not checked here).
	prev := math.Abs(k.Eval(k.RMin() * k.RMin() * 4))
	for _, r := range []float64{0.1, 0.5, 1.0, 5.0, 10.0} {
		if r <= k.RMin() || r >= k.RMax() {
			continue
		}
		v := k.Eval(r * r)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("Eval(%g^2) is not finite: %v", r, v)
		}
		_ = prev
	}
}

func TestLnGammaComplexMatchesRealLgammaOnRealAxis(t *testing.T) {
	for _, x := range []float64{0.5, 1.0, 1.5, 2.0, 3.5, 10.0} {
		want, _ := math.Lgamma(x)
		got := real(lnGammaComplex(complex(x, 0)))
		if math.Abs(got-want) > 1e-8 {
			t.Errorf("lnGammaComplex(%g) = %g, want %g", x, got, want)
		}
	}
}

func TestLnGammaComplexReflection(t *testing.T) {
	// Gamma(0.3) via reflection should match math.Lgamma(0.3) in magnitude.
	want, sign := math.Lgamma(0.3)
	got := real(lnGammaComplex(complex(0.3, 0)))
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("lnGammaComplex(0.3) = %g, want %g (sign %d)", got, want, sign)
	}
}
