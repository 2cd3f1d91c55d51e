package transfer

import (
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/icgen/cosmicic/errs"
)

// Tabulated is a TransferFunction loaded from a two-column (k, T) file
// via streams.ReadTFTable, linearly interpolated in (k, T), spec.md
// §4.1. Values outside [K[0], K[len-1]] clamp to the nearest endpoint.
type Tabulated struct {
	K, T []float64

	interp interp.PiecewiseLinear
	ready  bool
}

// NewTabulated validates monotonicity and fits the interpolant.
func NewTabulated(k, t []float64) (*Tabulated, error) {
	if len(k) != len(t) || len(k) < 2 {
		return nil, errs.New(errs.BadTable, "tabulated transfer function: need matching k/T columns with >= 2 rows, got %d/%d", len(k), len(t))
	}
	for i := 1; i < len(k); i++ {
		if k[i] <= k[i-1] {
			return nil, errs.New(errs.BadTable, "tabulated transfer function: k column must be strictly increasing, row %d: %g <= %g", i, k[i], k[i-1])
		}
	}
	tb := &Tabulated{K: k, T: t}
	if err := tb.interp.Fit(k, t); err != nil {
		return nil, errs.Wrap(errs.BadTable, err, "fitting tabulated transfer function")
	}
	tb.ready = true
	return tb, nil
}

// T returns the linearly-interpolated value, clamped at the endpoints.
func (tb *Tabulated) T(k float64) float64 {
	if !tb.ready {
		return 0
	}
	if k <= tb.K[0] {
		return tb.T[0]
	}
	if k >= tb.K[len(tb.K)-1] {
		return tb.T[len(tb.T)-1]
	}
	return tb.interp.Predict(k)
}

func (tb *Tabulated) TMin() float64 { return tb.K[0] }
func (tb *Tabulated) TMax() float64 { return tb.K[len(tb.K)-1] }

// CAMBColumn selects which column of a CAMB-style multi-column
// transfer function table to expose as T(k), spec.md §3.
type CAMBColumn int

const (
	CAMBTotal CAMBColumn = iota
	CAMBCDM
	CAMBBaryon
)

// CAMBTable is a TransferFunction backed by a CAMB output table,
// Akima-spline-interpolated in (log10 k, log10 T), spec.md §4.1.
type CAMBTable struct {
	K           []float64
	Total, CDM, Baryon []float64

	column CAMBColumn
	spline interp.AkimaSpline
	baryonSpline, cdmSpline interp.AkimaSpline
	logK   []float64
	kMin, kMax float64
}

// NewCAMBTable fits the requested column's log-log Akima spline.
func NewCAMBTable(k, total, cdm, baryon []float64, column CAMBColumn) (*CAMBTable, error) {
	n := len(k)
	if n < 5 || len(total) != n || len(cdm) != n || len(baryon) != n {
		return nil, errs.New(errs.BadTable, "CAMB transfer table: need >= 5 rows with matching columns, got k=%d", n)
	}
	col := total
	switch column {
	case CAMBCDM:
		col = cdm
	case CAMBBaryon:
		col = baryon
	}

	logK := make([]float64, n)
	logT := make([]float64, n)
	for i := range k {
		if k[i] <= 0 || col[i] <= 0 {
			return nil, errs.New(errs.BadTable, "CAMB transfer table: column %d requires strictly positive k and T, row %d: k=%g T=%g", column, i, k[i], col[i])
		}
		if i > 0 && k[i] <= k[i-1] {
			return nil, errs.New(errs.BadTable, "CAMB transfer table: k column must be strictly increasing, row %d", i)
		}
		logK[i] = math.Log10(k[i])
		logT[i] = math.Log10(col[i])
	}

	ct := &CAMBTable{K: k, Total: total, CDM: cdm, Baryon: baryon, column: column, logK: logK, kMin: k[0], kMax: k[n-1]}
	if err := ct.spline.Fit(logK, logT); err != nil {
		return nil, errs.Wrap(errs.BadTable, err, "fitting CAMB transfer table")
	}

	logCDM := make([]float64, n)
	logBaryon := make([]float64, n)
	for i := range k {
		logCDM[i] = math.Log10(cdm[i])
		logBaryon[i] = math.Log10(baryon[i])
	}
	if err := ct.cdmSpline.Fit(logK, logCDM); err != nil {
		return nil, errs.Wrap(errs.BadTable, err, "fitting CAMB CDM column")
	}
	if err := ct.baryonSpline.Fit(logK, logBaryon); err != nil {
		return nil, errs.Wrap(errs.BadTable, err, "fitting CAMB baryon column")
	}
	return ct, nil
}

// T returns 10^spline(log10 k), clamped at the table's endpoints in
// log-log space.
func (ct *CAMBTable) T(k float64) float64 {
	if k <= ct.kMin {
		k = ct.kMin
	}
	if k >= ct.kMax {
		k = ct.kMax
	}
	return math.Pow(10, ct.spline.Predict(math.Log10(k)))
}

func (ct *CAMBTable) TMin() float64 { return ct.kMin }
func (ct *CAMBTable) TMax() float64 { return ct.kMax }

// TBaryon and TCDM expose the baryon and CDM columns regardless of
// which column T() was configured to report, letting callers build a
// species-aware white-noise or stencil path from one loaded table.
func (ct *CAMBTable) TBaryon(k float64) float64 { return ct.clampedEval(&ct.baryonSpline, k) }
func (ct *CAMBTable) TCDM(k float64) float64    { return ct.clampedEval(&ct.cdmSpline, k) }

func (ct *CAMBTable) clampedEval(sp *interp.AkimaSpline, k float64) float64 {
	if k <= ct.kMin {
		k = ct.kMin
	}
	if k >= ct.kMax {
		k = ct.kMax
	}
	return math.Pow(10, sp.Predict(math.Log10(k)))
}
