// Package cosmology holds the immutable cosmological parameter bundle
// (spec.md §3) and the growth-factor integral that
// original_source/cosmology.cc computes but spec.md's distillation
// takes as externally supplied (dplus) — see SPEC_FULL.md §10. The
// sigma-8 normalization (pnorm) lives in transfer.NormalizeToSigma8.
package cosmology

import (
	"math"

	"github.com/icgen/cosmicic/errs"
	"github.com/icgen/cosmicic/fftlog/quad"
)

// Cosmology is an immutable bundle of cosmological parameters. Zero value
// for WDMMass/OmegaHDM/DegenHDM/YHe means "not set" (the base ΛCDM model).
type Cosmology struct {
	OmegaM, OmegaB, OmegaLambda float64
	H0                          float64 // in 100 km/s/Mpc units
	Sigma8                      float64
	NS                          float64 // primordial power-law index n_s
	AStart                      float64 // scale factor at which the field is seeded

	WDMMass, WDMGx     float64 // optional warm dark matter mass [keV] and degeneracy
	OmegaHDM, DegenHDM float64 // optional massive-neutrino density and degeneracy
	YHe                float64 // optional helium mass fraction
}

// H returns H0 in dimensionless little-h units (H0/100).
func (c Cosmology) H() float64 { return c.H0 / 100.0 }

// FBaryon returns Omega_b/Omega_m.
func (c Cosmology) FBaryon() float64 { return c.OmegaB / c.OmegaM }

// New validates and returns a Cosmology. Fails InvalidCosmology if
// f_baryon <= 0 or omega_m*h^2 <= 0, per spec.md §4.1.
func New(c Cosmology) (Cosmology, error) {
	h := c.H()
	omegaMH2 := c.OmegaM * h * h
	if omegaMH2 <= 0 {
		return Cosmology{}, errs.New(errs.InvalidCosmology, "omega_m*h^2 = %g must be positive", omegaMH2)
	}
	if c.OmegaM <= 0 || c.FBaryon() <= 0 {
		return Cosmology{}, errs.New(errs.InvalidCosmology, "f_baryon = %g must be positive", c.FBaryon())
	}
	return c, nil
}

// hubbleE returns E(a) = H(a)/H0 for a flat or curved FLRW model with
// matter + curvature + cosmological constant, used by the growth-factor
// integral below. Radiation is neglected, as in original_source/cosmology.cc.
func (c Cosmology) hubbleE(a float64) float64 {
	omegaK := 1.0 - c.OmegaM - c.OmegaLambda
	e2 := c.OmegaM/(a*a*a) + omegaK/(a*a) + c.OmegaLambda
	if e2 < 0 {
		e2 = 0
	}
	return math.Sqrt(e2)
}

// GrowthFactor computes the linear growth factor D+(a), normalized so
// D+(1) is NOT forced to 1 — callers that need the normalized growth use
// GrowthFactor(c, a)/GrowthFactor(c, 1). This is the integral solution of
// the linear perturbation growth ODE,
//
//	D+(a) ∝ H(a)/H0 * ∫_0^a da' / (a' H(a')/H0)^3
//
// evaluated with the same adaptive quadrature fftlog/quad uses for the
// FFTLog r=0 endpoint and the sigma_8 normalization integral, here with
// 1e-8 absolute tolerance and a 20000-interval workspace.
func GrowthFactor(c Cosmology, a float64) (float64, error) {
	integrand := func(ap float64) float64 {
		if ap <= 0 {
			return 0
		}
		eap := c.hubbleE(ap)
		return 1.0 / (ap * eap) / (ap * eap) / (ap * eap)
	}
	integral, err := quad.Adaptive(integrand, 0, a, 1e-8, 20000)
	if err != nil {
		return 0, errs.Wrap(errs.NumericalFailure, err, "growth factor integral at a=%g", a)
	}
	return 2.5 * c.OmegaM * c.hubbleE(a) * integral, nil
}
