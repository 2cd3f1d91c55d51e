package pipeline

import (
	"testing"

	"github.com/icgen/cosmicic/config"
	"github.com/icgen/cosmicic/grid"
	"github.com/icgen/cosmicic/stencil"
	"github.com/icgen/cosmicic/whitenoise"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func TestNewBuildsValidCosmology(t *testing.T) {
	cfg := testConfig(t)
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Cosmology.OmegaM != cfg.Cosmology.OmegaM {
		t.Errorf("OmegaM = %v, want %v", r.Cosmology.OmegaM, cfg.Cosmology.OmegaM)
	}
	if r.TCMB != cfg.Cosmology.TCMB {
		t.Errorf("TCMB = %v, want %v", r.TCMB, cfg.Cosmology.TCMB)
	}
}

func TestBuildTransferProducesUsableFunction(t *testing.T) {
	cfg := testConfig(t)
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.BuildTransfer(); err != nil {
		t.Fatalf("BuildTransfer: %v", err)
	}
	if r.Transfer == nil {
		t.Fatal("Transfer is nil after BuildTransfer")
	}
	if v := r.Transfer.T(0.1); v <= 0 || v > 1 {
		t.Errorf("T(0.1) = %v, want in (0, 1]", v)
	}
}

func TestComposeWhiteNoiseWithOrderedOption(t *testing.T) {
	cfg := testConfig(t)
	r, err := New(cfg, WithOrder(stencil.Order4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	plan := []whitenoise.LevelSeed{
		{Resolution: 8, CubeSize: 4, Seed: 42, HasSeed: true},
	}
	if err := r.ComposeWhiteNoise(plan, 0); err != nil {
		t.Fatalf("ComposeWhiteNoise: %v", err)
	}
	if len(r.WhiteNoise) != 1 {
		t.Fatalf("got %d fields, want 1", len(r.WhiteNoise))
	}
	if len(r.WhiteNoise[0].Data) != 8*8*8 {
		t.Errorf("field has %d elements, want %d", len(r.WhiteNoise[0].Data), 8*8*8)
	}
}

func TestBuildGridAndComputeSource(t *testing.T) {
	cfg := testConfig(t)
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	domains := []grid.Box{{Lo: [3]int{0, 0, 0}, Hi: [3]int{8, 8, 8}}}
	if err := r.BuildGrid(0, domains, grid.MinGhost); err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	if err := r.ComputeSource(stencil.Order2); err != nil {
		t.Fatalf("ComputeSource: %v", err)
	}
	if len(r.Source) != 1 || len(r.Source[0]) != 8*8*8 {
		t.Fatalf("unexpected source shape: %d levels, len(source[0])=%d", len(r.Source), len(r.Source[0]))
	}
}

func TestDiagnosticsReportsBothFields(t *testing.T) {
	cfg := testConfig(t)
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	plan := []whitenoise.LevelSeed{{Resolution: 4, CubeSize: 4, Seed: 1, HasSeed: true}}
	if err := r.ComposeWhiteNoise(plan, 0); err != nil {
		t.Fatalf("ComposeWhiteNoise: %v", err)
	}
	domains := []grid.Box{{Lo: [3]int{0, 0, 0}, Hi: [3]int{4, 4, 4}}}
	if err := r.BuildGrid(0, domains, grid.MinGhost); err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	if err := r.ComputeSource(stencil.Order2); err != nil {
		t.Fatalf("ComputeSource: %v", err)
	}
	report := r.Diagnostics()
	if len(report.WhiteNoise) != 1 || len(report.Source) != 1 {
		t.Fatalf("report = %+v, want one entry in each", report)
	}
}
