package quad

import (
	"math"
	"testing"
)

func TestAdaptiveIntegratesPolynomialExactly(t *testing.T) {
	got, err := Adaptive(func(x float64) float64 { return x * x }, 0, 3, 1e-10, 20000)
	if err != nil {
		t.Fatalf("Adaptive: %v", err)
	}
	want := 9.0 // integral of x^2 from 0 to 3 is 9
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAdaptiveIntegratesGaussian(t *testing.T) {
	got, err := Adaptive(func(x float64) float64 { return math.Exp(-x * x) }, -6, 6, 1e-8, 20000)
	if err != nil {
		t.Fatalf("Adaptive: %v", err)
	}
	want := math.Sqrt(math.Pi)
	if math.Abs(got-want) > 1e-4 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAdaptiveHandlesReversedLimits(t *testing.T) {
	fwd, err := Adaptive(func(x float64) float64 { return x }, 0, 2, 1e-8, 20000)
	if err != nil {
		t.Fatalf("Adaptive: %v", err)
	}
	rev, err := Adaptive(func(x float64) float64 { return x }, 2, 0, 1e-8, 20000)
	if err != nil {
		t.Fatalf("Adaptive: %v", err)
	}
	if math.Abs(fwd+rev) > 1e-9 {
		t.Errorf("expected reversed-limit integral to negate: fwd=%v rev=%v", fwd, rev)
	}
}

func TestAdaptiveZeroWidthIsZero(t *testing.T) {
	got, err := Adaptive(func(x float64) float64 { return 1 / x }, 1, 1, 1e-8, 20000)
	if err != nil {
		t.Fatalf("Adaptive: %v", err)
	}
	if got != 0 {
		t.Errorf("expected zero-width integral to be 0, got %v", got)
	}
}

func TestAdaptiveFailsOnNaN(t *testing.T) {
	_, err := Adaptive(func(x float64) float64 { return math.NaN() }, 0, 1, 1e-8, 20000)
	if err == nil {
		t.Fatal("expected error on NaN integrand")
	}
}
