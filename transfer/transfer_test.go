package transfer

import (
	"math"
	"testing"

	"github.com/icgen/cosmicic/cosmology"
)

func lcdm() cosmology.Cosmology {
	return cosmology.Cosmology{
		OmegaM: 0.276, OmegaB: 0.045, OmegaLambda: 0.724,
		H0: 70.3, Sigma8: 0.811, NS: 0.961, AStart: 0.02,
	}
}

func TestBBKSIsPositiveAndMonotoneAtLargeK(t *testing.T) {
	c := lcdm()
	b := BBKS{Cosmology: c, Sugiyama: true}
	prev := b.T(0.01)
	for _, k := range []float64{0.1, 1.0, 5.0, 10.0} {
		v := b.T(k)
		if v <= 0 {
			t.Errorf("T(%v) = %v, want positive", k, v)
		}
		if v >= prev {
			t.Errorf("T(%v) = %v not decreasing from previous %v", k, v, prev)
		}
		prev = v
	}
}

func TestEisensteinHuAtZeroIsUnity(t *testing.T) {
	e, err := NewEisensteinHu(lcdm(), 0)
	if err != nil {
		t.Fatalf("NewEisensteinHu: %v", err)
	}
	if got := e.T(0); got != 1.0 {
		t.Errorf("T(0) = %v, want 1.0", got)
	}
}

func TestEisensteinHuIsPositiveAndDecaying(t *testing.T) {
	e, err := NewEisensteinHu(lcdm(), 0)
	if err != nil {
		t.Fatalf("NewEisensteinHu: %v", err)
	}
	for _, k := range []float64{0.001, 0.01, 0.1, 1.0, 10.0} {
		v := e.T(k)
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("T(%v) = %v, want finite positive", k, v)
		}
	}
	if e.T(10.0) >= e.T(0.01) {
		t.Errorf("expected large-scale suppression: T(10)=%v T(0.01)=%v", e.T(10.0), e.T(0.01))
	}
}

func TestNewEisensteinHuRejectsZeroBaryonFraction(t *testing.T) {
	c := lcdm()
	c.OmegaB = 0
	if _, err := NewEisensteinHu(c, 0); err == nil {
		t.Fatal("expected error for zero baryon fraction")
	}
}

func TestEisensteinHuWDMSuppressesSmallScales(t *testing.T) {
	c := lcdm()
	c.WDMMass = 2.0
	c.WDMGx = 1.5
	base, err := NewEisensteinHu(c, 0)
	if err != nil {
		t.Fatalf("NewEisensteinHu: %v", err)
	}
	wdm := NewEisensteinHuWDM(c, base)

	k := 5.0
	if wdm.T(k) >= base.T(k) {
		t.Errorf("expected WDM suppression at k=%v: wdm=%v cdm=%v", k, wdm.T(k), base.T(k))
	}
}

func TestTabulatedInterpolatesAndClamps(t *testing.T) {
	k := []float64{0.01, 0.1, 1.0, 10.0}
	tv := []float64{1.0, 0.8, 0.3, 0.01}
	tb, err := NewTabulated(k, tv)
	if err != nil {
		t.Fatalf("NewTabulated: %v", err)
	}
	if got := tb.T(0.001); got != 1.0 {
		t.Errorf("below-range clamp = %v, want 1.0", got)
	}
	if got := tb.T(100.0); got != 0.01 {
		t.Errorf("above-range clamp = %v, want 0.01", got)
	}
	mid := tb.T(0.1)
	if math.Abs(mid-0.8) > 1e-9 {
		t.Errorf("T(0.1) = %v, want 0.8 (exact table point)", mid)
	}
}

func TestNewTabulatedRejectsNonMonotoneK(t *testing.T) {
	_, err := NewTabulated([]float64{0.1, 0.05, 1.0}, []float64{1, 0.9, 0.1})
	if err == nil {
		t.Fatal("expected BadTable error for non-monotone k")
	}
}

func TestCAMBTableSelectsColumn(t *testing.T) {
	k := []float64{0.01, 0.05, 0.1, 0.5, 1.0}
	total := []float64{1.0, 0.9, 0.7, 0.3, 0.1}
	cdm := []float64{1.0, 0.95, 0.8, 0.4, 0.15}
	baryon := []float64{1.0, 0.85, 0.6, 0.2, 0.05}

	ct, err := NewCAMBTable(k, total, cdm, baryon, CAMBCDM)
	if err != nil {
		t.Fatalf("NewCAMBTable: %v", err)
	}
	if got := ct.T(0.01); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("T(0.01) = %v, want 1.0 (CDM column at first row)", got)
	}
	if got := ct.TBaryon(0.01); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("TBaryon(0.01) = %v, want 1.0", got)
	}
}

func TestNormalizeToSigma8ProducesPositiveNormalization(t *testing.T) {
	c := lcdm()
	e, err := NewEisensteinHu(c, 0)
	if err != nil {
		t.Fatalf("NewEisensteinHu: %v", err)
	}
	pnorm, err := NormalizeToSigma8(e, c)
	if err != nil {
		t.Fatalf("NormalizeToSigma8: %v", err)
	}
	if pnorm <= 0 || math.IsNaN(pnorm) || math.IsInf(pnorm, 0) {
		t.Errorf("pnorm = %v, want finite positive", pnorm)
	}
}
