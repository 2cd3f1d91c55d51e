package grid

import (
	"math"
	"testing"
)

func box(n int) Box { return Box{Lo: [3]int{0, 0, 0}, Hi: [3]int{n, n, n}} }

func TestNewRejectsEmptyDomainList(t *testing.T) {
	if _, err := New(4, nil, 3); err == nil {
		t.Fatal("expected error for empty domain list")
	}
}

func TestCellPosCentersAreWithinUnitBox(t *testing.T) {
	h, err := New(4, []Box{box(8)}, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	lvl := h.Levels[0]
	p := lvl.CellPos(0, 0, 0)
	want := 1.0 / 16.0 // half a cell width at res=8
	for a := 0; a < 3; a++ {
		if math.Abs(p[a]-want) > 1e-12 {
			t.Errorf("CellPos(0,0,0)[%d] = %v, want %v", a, p[a], want)
		}
	}
	last := lvl.CellPos(7, 7, 7)
	for a := 0; a < 3; a++ {
		if last[a] <= 0 || last[a] >= 1 {
			t.Errorf("CellPos(7,7,7)[%d] = %v, want in (0,1)", a, last[a])
		}
	}
}

func TestCountLeafCellsExcludesRefinedCells(t *testing.T) {
	h, err := New(4, []Box{box(4)}, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	lvl := h.Levels[0]
	total := 4 * 4 * 4
	if got := h.CountLeafCells(0, 0); got != total {
		t.Fatalf("expected %d leaf cells before refinement, got %d", total, got)
	}
	lvl.SetRefined(0, 0, 0, true)
	if got := h.CountLeafCells(0, 0); got != total-1 {
		t.Errorf("expected %d leaf cells after refining one, got %d", total-1, got)
	}
}

func TestRestrictMGStraightAveragesEightFineCells(t *testing.T) {
	coarse, err := NewLevel(4, box(4), 3, 4)
	if err != nil {
		t.Fatalf("NewLevel coarse: %v", err)
	}
	fine, err := NewLevel(5, box(8), 3, 8)
	if err != nil {
		t.Fatalf("NewLevel fine: %v", err)
	}
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			for k := 0; k < 8; k++ {
				fine.Set(i, j, k, float64(i+j+k))
			}
		}
	}
	RestrictMGStraight(coarse, fine, [3]int{0, 0, 0})

	var want float64
	for di := 0; di < 2; di++ {
		for dj := 0; dj < 2; dj++ {
			for dk := 0; dk < 2; dk++ {
				want += float64(di + dj + dk)
			}
		}
	}
	want /= 8.0
	if got := coarse.At(0, 0, 0); math.Abs(got-want) > 1e-12 {
		t.Errorf("coarse(0,0,0) = %v, want %v", got, want)
	}
	if !coarse.Refined(0, 0, 0) {
		t.Error("expected coarse cell to be marked refined after restriction")
	}
}

func TestPeriodicWrapFillsGhostFromOppositeFace(t *testing.T) {
	lvl, err := NewLevel(4, box(4), 3, 4)
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}
	for i := 0; i < 4; i++ {
		lvl.Set(i, 0, 0, float64(i+1))
	}
	PeriodicWrap(lvl)
	if got := lvl.At(-1, 0, 0); got != 4 {
		t.Errorf("ghost cell at i=-1 = %v, want 4 (wrap of i=3)", got)
	}
	if got := lvl.At(4, 0, 0); got != 1 {
		t.Errorf("ghost cell at i=4 = %v, want 1 (wrap of i=0)", got)
	}
}

func TestInjectTrilinearReproducesConstantField(t *testing.T) {
	coarse, err := NewLevel(4, box(4), 3, 4)
	if err != nil {
		t.Fatalf("NewLevel coarse: %v", err)
	}
	for i := -3; i < 7; i++ {
		for j := -3; j < 7; j++ {
			for k := -3; k < 7; k++ {
				coarse.Set(i, j, k, 7.0)
			}
		}
	}
	fine, err := NewLevel(5, box(8), 3, 8)
	if err != nil {
		t.Fatalf("NewLevel fine: %v", err)
	}
	InjectTrilinear(fine, coarse, [3]int{0, 0, 0})
	if got := fine.At(-1, 0, 0); math.Abs(got-7.0) > 1e-9 {
		t.Errorf("injected ghost value = %v, want 7.0", got)
	}
}
