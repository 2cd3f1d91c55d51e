// Package transfer implements the TransferFunction variants of spec.md
// §4.1: BBKS, Eisenstein & Hu (with and without baryon wiggles, WDM
// suppression, massive-neutrino extension), and two file-backed variants
// (Tabulated, CAMBTable). Every variant satisfies fftlog.Function.
package transfer

import (
	"math"

	"github.com/icgen/cosmicic/cosmology"
	"github.com/icgen/cosmicic/errs"
)

// Function is the common TransferFunction contract (spec.md §3):
// T(k) for k > 0, with the domain over which the fit is valid.
type Function interface {
	T(k float64) float64
	TMin() float64
	TMax() float64
}

// SpeciesFunction is implemented by variants that distinguish the
// baryon and CDM contributions to T(k).
type SpeciesFunction interface {
	Function
	TBaryon(k float64) float64
	TCDM(k float64) float64
}

// BBKS is the Bardeen, Bond, Kaiser & Szalay (1986) fit, with the
// optional Sugiyama (1995) baryon correction to the shape parameter Γ.
type BBKS struct {
	Cosmology cosmology.Cosmology
	Sugiyama  bool
	// Gamma overrides the shape parameter; if <= 0 it is computed from
	// Cosmology on every call to T (it is not cached).
	Gamma float64
}

func (b BBKS) gamma() float64 {
	if b.Gamma > 0 {
		return b.Gamma
	}
	h := b.Cosmology.H()
	g := b.Cosmology.OmegaM * h
	if b.Sugiyama {
		g *= math.Exp(-b.Cosmology.OmegaB * (1 + math.Sqrt(2*h)/b.Cosmology.OmegaM))
	}
	return g
}

// T implements the BBKS fit, spec.md §4.1.
func (b BBKS) T(k float64) float64 {
	q := k / b.gamma()
	num := math.Log(1+2.34*q) / (2.34 * q)
	den := 1 + 3.89*q + 259.21*q*q + 162.771336*q*q*q + 2027.16958081*q*q*q*q
	return num * math.Pow(den, -0.25)
}

// TMin and TMax bound the regime BBKS is normally trusted in.
func (b BBKS) TMin() float64 { return 1e-5 }
func (b BBKS) TMax() float64 { return 1e4 }

// EisensteinHu is the full Eisenstein & Hu (1998) fit with baryon
// acoustic wiggles. The derived scalars in set() reproduce EH98 §3's
// constants bit-for-bit, per spec.md §4.1.
type EisensteinHu struct {
	omhh, obhh   float64
	thetaCMB     float64
	fBaryon      float64
	zEquality    float64
	kEquality    float64
	zDrag        float64
	rDrag        float64
	rEquality    float64
	soundHorizon float64
	kSilk        float64
	alphaC       float64
	betaC        float64
	alphaB       float64
	betaB        float64
	betaNode     float64
}

// NewEisensteinHu sets the EH98 scalar quantities from a Cosmology and
// a CMB temperature (Kelvin; 0 selects the COBE/FIRAS value 2.728 K).
func NewEisensteinHu(c cosmology.Cosmology, tcmb float64) (*EisensteinHu, error) {
	h := c.H()
	omhh := c.OmegaM * h * h
	fBaryon := c.OmegaB / c.OmegaM
	if fBaryon <= 0 || omhh <= 0 {
		return nil, errs.New(errs.InvalidCosmology, "Eisenstein-Hu: need f_baryon>0 and omega_m*h^2>0, got f_baryon=%g omhh=%g", fBaryon, omhh)
	}
	if tcmb <= 0 {
		tcmb = 2.728
	}
	e := &EisensteinHu{}
	e.omhh = omhh
	e.obhh = omhh * fBaryon
	e.fBaryon = fBaryon
	e.thetaCMB = tcmb / 2.7

	e.zEquality = 2.50e4 * e.omhh / pow4(e.thetaCMB)
	e.kEquality = 0.0746 * e.omhh / sqr(e.thetaCMB)

	zDragB1 := 0.313 * math.Pow(e.omhh, -0.419) * (1 + 0.607*math.Pow(e.omhh, 0.674))
	zDragB2 := 0.238 * math.Pow(e.omhh, 0.223)
	e.zDrag = 1291 * math.Pow(e.omhh, 0.251) / (1 + 0.659*math.Pow(e.omhh, 0.828)) *
		(1 + zDragB1*math.Pow(e.obhh, zDragB2))

	e.rDrag = 31.5 * e.obhh / pow4(e.thetaCMB) * (1000 / e.zDrag)
	e.rEquality = 31.5 * e.obhh / pow4(e.thetaCMB) * (1000 / e.zEquality)

	e.soundHorizon = 2.0 / 3.0 / e.kEquality * math.Sqrt(6.0/e.rEquality) *
		math.Log((math.Sqrt(1+e.rDrag)+math.Sqrt(e.rDrag+e.rEquality))/(1+math.Sqrt(e.rEquality)))

	e.kSilk = 1.6 * math.Pow(e.obhh, 0.52) * math.Pow(e.omhh, 0.73) * (1 + math.Pow(10.4*e.omhh, -0.95))

	alphaCA1 := math.Pow(46.9*e.omhh, 0.670) * (1 + math.Pow(32.1*e.omhh, -0.532))
	alphaCA2 := math.Pow(12.0*e.omhh, 0.424) * (1 + math.Pow(45.0*e.omhh, -0.582))
	e.alphaC = math.Pow(alphaCA1, -fBaryon) * math.Pow(alphaCA2, -cube(fBaryon))

	betaCB1 := 0.944 / (1 + math.Pow(458*e.omhh, -0.708))
	betaCB2 := math.Pow(0.395*e.omhh, -0.0266)
	e.betaC = 1.0 / (1 + betaCB1*(math.Pow(1-fBaryon, betaCB2)-1))

	y := e.zEquality / (1 + e.zDrag)
	alphaBG := y * (-6*math.Sqrt(1+y) + (2+3*y)*math.Log((math.Sqrt(1+y)+1)/(math.Sqrt(1+y)-1)))
	e.alphaB = 2.07 * e.kEquality * e.soundHorizon * math.Pow(1+e.rDrag, -0.75) * alphaBG

	e.betaNode = 8.41 * math.Pow(e.omhh, 0.435)
	e.betaB = 0.5 + fBaryon + (3-2*fBaryon)*math.Sqrt(sqr(17.2*e.omhh)+1)

	return e, nil
}

// onek evaluates the EH98 fit at k (in Mpc^-1), returning (T_baryon,
// T_cdm); spec.md §4.1 formulas 18-24.
func (e *EisensteinHu) onek(k float64) (tb, tc float64) {
	k = math.Abs(k)
	if k == 0 {
		return 1, 1
	}
	q := k / 13.41 / e.kEquality
	xx := k * e.soundHorizon

	lnBeta := math.Log(2.718282 + 1.8*e.betaC*q)
	lnNoBeta := math.Log(2.718282 + 1.8*q)
	cAlpha := 14.2/e.alphaC + 386.0/(1+69.9*math.Pow(q, 1.08))
	cNoAlpha := 14.2 + 386.0/(1+69.9*math.Pow(q, 1.08))

	fSplit := 1.0 / (1.0 + pow4(xx/5.4))
	tc = fSplit*lnBeta/(lnBeta+cNoAlpha*sqr(q)) + (1-fSplit)*lnBeta/(lnBeta+cAlpha*sqr(q))

	sTilde := e.soundHorizon * math.Pow(1+cube(e.betaNode/xx), -1.0/3.0)
	xxTilde := k * sTilde

	tb0 := lnNoBeta / (lnNoBeta + cNoAlpha*sqr(q))
	tb = sinc(xxTilde) * (tb0/(1+sqr(xx/5.2)) + e.alphaB/(1+cube(e.betaB/xx))*math.Exp(-math.Pow(k/e.kSilk, 1.4)))

	return tb, tc
}

// T returns f_b*T_b + f_c*T_c, spec.md §4.1.
func (e *EisensteinHu) T(k float64) float64 {
	tb, tc := e.onek(k)
	return e.fBaryon*tb + (1-e.fBaryon)*tc
}

// TBaryon returns the baryonic piece of the fit alone.
func (e *EisensteinHu) TBaryon(k float64) float64 { tb, _ := e.onek(k); return tb }

// TCDM returns the CDM piece of the fit alone.
func (e *EisensteinHu) TCDM(k float64) float64 { _, tc := e.onek(k); return tc }

func (e *EisensteinHu) TMin() float64 { return 0 }
func (e *EisensteinHu) TMax() float64 { return 1e3 }

// EisensteinHuWDM multiplies an EisensteinHu fit by the warm dark
// matter free-streaming suppression factor, spec.md §4.1.
type EisensteinHuWDM struct {
	*EisensteinHu
	alpha float64
}

// NewEisensteinHuWDM builds the WDM suppression scale α from the
// cosmology and wraps base.
func NewEisensteinHuWDM(c cosmology.Cosmology, base *EisensteinHu) *EisensteinHuWDM {
	alpha := 0.05 * math.Pow(c.OmegaM/0.4, 0.15) * math.Pow(c.H()/0.65, 1.3) *
		math.Pow(c.WDMMass, -1.15) * math.Pow(1.5/c.WDMGx, 0.29)
	return &EisensteinHuWDM{EisensteinHu: base, alpha: alpha}
}

// T applies the suppression [1+(alpha*k)^2]^-5 to the wrapped fit.
func (w *EisensteinHuWDM) T(k float64) float64 {
	t := w.EisensteinHu.T(k)
	return t * math.Pow(1+sqr(w.alpha*k), -5.0)
}

func sqr(x float64) float64  { return x * x }
func cube(x float64) float64 { return x * x * x }
func pow4(x float64) float64 { return x * x * x * x }

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-8 {
		return 1
	}
	return math.Sin(x) / x
}
