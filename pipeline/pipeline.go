// Package pipeline is the in-process orchestrator wiring cosmology,
// transfer function, FFTLog kernel, white-noise composition, grid
// hierarchy, and stencil operators into one run, grounded on the
// teacher's game.Game: a single struct built once from config that
// owns every subsystem's state and exposes a small number of
// lifecycle/step methods, rather than a free function pushing data
// through a pipe.
package pipeline

import (
	"log/slog"

	"github.com/icgen/cosmicic/config"
	"github.com/icgen/cosmicic/cosmology"
	"github.com/icgen/cosmicic/diagnostics"
	"github.com/icgen/cosmicic/fftlog"
	"github.com/icgen/cosmicic/grid"
	"github.com/icgen/cosmicic/rng"
	"github.com/icgen/cosmicic/stencil"
	"github.com/icgen/cosmicic/transfer"
	"github.com/icgen/cosmicic/whitenoise"
)

// Run holds the complete state of one initial-conditions generation
// pass: the resolved cosmology, transfer function, FFTLog kernel, the
// white-noise field hierarchy, the grid hierarchy, and the computed
// source fields, mirroring the breadth of state game.Game holds for
// one simulation session.
type Run struct {
	log *slog.Logger

	Cosmology cosmology.Cosmology
	TCMB      float64
	Transfer  transfer.Function
	Kernel    *fftlog.RealKernel

	Grid       *grid.Hierarchy
	WhiteNoise []*whitenoise.Field
	Source     [][]float64
}

// Option configures New beyond what config.Cfg() already supplies.
type Option func(*buildOptions)

type buildOptions struct {
	logger *slog.Logger
	order  stencil.Order
}

// WithLogger overrides the default slog.Default() logger, matching the
// teacher's convention of a few types holding their own *slog.Logger
// instead of threading one through every call.
func WithLogger(l *slog.Logger) Option {
	return func(o *buildOptions) { o.logger = l }
}

// WithOrder records a stencil accuracy order in the build options
// (default Order2). Run does not keep this value; ComputeSource uses
// the order passed to it.
func WithOrder(order stencil.Order) Option {
	return func(o *buildOptions) { o.order = order }
}

// New builds a cosmology from cfg.Cosmology, but does not yet evaluate
// the transfer function or compose white noise — see BuildTransfer,
// ComposeWhiteNoise, BuildGrid, and ComputeSource, the lifecycle steps
// a caller runs in sequence, mirroring game.Game's
// spawnInitialPopulation/updateSpatialGrid/updateBehaviorAndPhysics
// staged-method pattern rather than one monolithic constructor.
func New(cfg *config.Config, opts ...Option) (*Run, error) {
	built := buildOptions{logger: slog.Default(), order: stencil.Order2}
	for _, opt := range opts {
		opt(&built)
	}

	c, err := cosmology.New(cosmology.Cosmology{
		OmegaM:      cfg.Cosmology.OmegaM,
		OmegaB:      cfg.Cosmology.OmegaB,
		OmegaLambda: cfg.Cosmology.OmegaL,
		H0:          cfg.Cosmology.H0,
		Sigma8:      cfg.Cosmology.Sigma8,
		NS:          cfg.Cosmology.NSpec,
		AStart:      cfg.Cosmology.AStart,
		WDMMass:     cfg.Cosmology.WDMMass,
		WDMGx:       cfg.Cosmology.WDMGx,
		OmegaHDM:    cfg.Cosmology.OmegaHDM,
		DegenHDM:    cfg.Cosmology.DegenHDM,
		YHe:         cfg.Cosmology.YHe,
	})
	if err != nil {
		return nil, err
	}

	return &Run{log: built.logger, Cosmology: c, TCMB: cfg.Cosmology.TCMB}, nil
}

// BuildTransfer evaluates an Eisenstein-Hu transfer function for the
// run's cosmology (the most commonly used variant per spec.md §4.1)
// and stores it as r.Transfer for BuildKernel to consume.
func (r *Run) BuildTransfer() error {
	eh, err := transfer.NewEisensteinHu(r.Cosmology, r.TCMB)
	if err != nil {
		return err
	}
	r.Transfer = eh
	r.log.Info("transfer function built", "kind", "EisensteinHu", "omega_m", r.Cosmology.OmegaM)
	return nil
}

// BuildKernel normalizes the stored transfer function to sigma_8 and
// runs the FFTLog transform to produce the real-space convolution
// kernel, per spec.md §4.2.
func (r *Run) BuildKernel(dplus float64, rMin, rMax, kNyquist float64, n int) error {
	pnorm, err := transfer.NormalizeToSigma8(r.Transfer, r.Cosmology)
	if err != nil {
		return err
	}
	kernel, err := fftlog.Transform(r.Transfer, r.Cosmology.NS, pnorm, dplus, rMin, rMax, kNyquist, n)
	if err != nil {
		return err
	}
	r.Kernel = kernel
	r.log.Info("fftlog kernel built", "pnorm", pnorm, "dplus", dplus)
	return nil
}

// ComposeWhiteNoise builds the multi-scale Gaussian white-noise
// hierarchy from the run's per-level seed plan, per spec.md §4.3/4.4.
func (r *Run) ComposeWhiteNoise(plan []whitenoise.LevelSeed, levelminSeed int) error {
	fields, err := whitenoise.Compose(plan, levelminSeed)
	if err != nil {
		return err
	}
	r.WhiteNoise = fields
	r.log.Info("white noise composed", "levels", len(fields))
	return nil
}

// BuildGrid constructs the nested refinement hierarchy that the
// stencil operators run over, per spec.md §4.5.
func (r *Run) BuildGrid(levelmin int, domains []grid.Box, ghost int) error {
	h, err := grid.New(levelmin, domains, ghost)
	if err != nil {
		return err
	}
	r.Grid = h
	r.log.Info("grid hierarchy built", "levels", len(h.Levels))
	return nil
}

// ComputeSource computes the 2LPT source term at the given stencil
// order from whatever displacement potential the caller has already
// written into r.Grid's levels. It does not fill the grid from
// r.WhiteNoise; deriving the potential from white noise plus the
// FFTLog kernel is left to the caller.
func (r *Run) ComputeSource(order stencil.Order) error {
	out, err := stencil.TwoLPTSource(r.Grid, order)
	if err != nil {
		return err
	}
	r.Source = out
	r.log.Info("2LPT source computed", "order", order, "levels", len(out))
	return nil
}

// Diagnostics reports sanity statistics on the current white-noise and
// source fields, per the diagnostics package's telemetry-grounded role.
func (r *Run) Diagnostics() diagnostics.Report {
	return diagnostics.Report{
		WhiteNoise: diagnostics.FieldReport(r.WhiteNoise),
		Source:     diagnostics.SourceReport(r.Source),
	}
}

// SeedLevelRNG is a convenience constructor for one plan entry's
// rng.LevelRNG, used by callers building a whitenoise.LevelSeed plan
// from config.RandomConfig.Seeds.
func SeedLevelRNG(res, cubeSize int, seed int64, zeroMean bool) (*rng.LevelRNG, error) {
	return rng.NewLevelRNG(res, cubeSize, seed, zeroMean)
}
