package pcl

import (
	"math"
	"testing"
)

func TestNormalizeTopDownAccounting(t *testing.T) {
	grid := NewHitGrid(1, 3)
	grid.At(0, 3).CanopyHits = 2
	grid.At(0, 2).CanopyHits = 1
	grid.At(0, 0).SkyHits = 1 // 4 pulses total in the column

	Normalize(grid)

	testCases := []struct {
		zbin     int
		expected float64
	}{
		{3, 0.5}, // 2 hits / 4 available
		{2, 0.5}, // 1 hit / 2 remaining
		{1, 0},   // no hits, 1 remaining
		{0, 0},   // no canopy hits
	}
	for _, tc := range testCases {
		if got := grid.At(0, tc.zbin).Density; got != tc.expected {
			t.Errorf("zbin %d density = %f, want %f", tc.zbin, got, tc.expected)
		}
	}
}

func TestNormalizeBudgetNonIncreasing(t *testing.T) {
	cfg := DefaultConfig()
	pulses := transectOf(2, 8, 3, 6.0)
	classified := Classify(pulses, cfg)
	grid := BuildGrid(classified, 20, cfg)
	Normalize(grid)

	for x := 0; x < grid.LengthM; x++ {
		available := grid.ColumnPulses(x)
		for z := grid.ZMax; z >= 0; z-- {
			next := available - grid.At(x, z).CanopyHits
			if next > available {
				t.Fatalf("column %d: available pulses increased going down", x)
			}
			if available == 0 && grid.At(x, z).Density != 0 {
				t.Fatalf("column %d zbin %d: density defined after budget exhausted", x, z)
			}
			available = next
		}
		if available < 0 {
			t.Fatalf("column %d: budget went negative", x)
		}
	}
}

func TestNormalizeExhaustedBudget(t *testing.T) {
	// All pulses intercepted at the top: everything below is 0.
	grid := NewHitGrid(1, 2)
	grid.At(0, 2).CanopyHits = 5

	Normalize(grid)

	if got := grid.At(0, 2).Density; got != 1 {
		t.Errorf("top cell density = %f, want 1", got)
	}
	for z := 1; z >= 0; z-- {
		if got := grid.At(0, z).Density; got != 0 {
			t.Errorf("zbin %d density = %f, want 0 after exhaustion", z, got)
		}
	}
}

func TestApplyVAIBeerLambert(t *testing.T) {
	grid := NewHitGrid(1, 1)
	grid.At(0, 1).Density = 0.5
	cfg := DefaultConfig()

	ApplyVAI(grid, cfg)

	want := -math.Log(0.5)
	if got := grid.At(0, 1).VAI; math.Abs(got-want) > 1e-12 {
		t.Errorf("vai = %f, want %f", got, want)
	}
}

func TestApplyVAIExtinctionCoefficient(t *testing.T) {
	grid := NewHitGrid(1, 1)
	grid.At(0, 1).Density = 0.5
	cfg := DefaultConfig().WithExtinctionK(0.5)

	ApplyVAI(grid, cfg)

	want := -math.Log(0.5) / 0.5
	if got := grid.At(0, 1).VAI; math.Abs(got-want) > 1e-12 {
		t.Errorf("vai = %f, want %f", got, want)
	}
}

func TestApplyVAISaturationGetsRemainingBudget(t *testing.T) {
	grid := NewHitGrid(1, 2)
	grid.At(0, 2).Density = 1 - math.Exp(-3) // vai 3
	grid.At(0, 1).Density = 1                // saturated: remaining budget

	cfg := DefaultConfig()
	ApplyVAI(grid, cfg)

	if got := grid.At(0, 1).VAI; math.Abs(got-5) > 1e-9 {
		t.Errorf("saturated cell vai = %f, want 5 (remaining budget to MaxVAI=8)", got)
	}
	sum := grid.At(0, 0).VAI + grid.At(0, 1).VAI + grid.At(0, 2).VAI
	if math.Abs(sum-cfg.MaxVAI) > 1e-9 {
		t.Errorf("column sum = %f, want exactly %f", sum, cfg.MaxVAI)
	}
}

func TestApplyVAIColumnCapRedistributes(t *testing.T) {
	// Four cells whose raw VAI computes to 3 each: uncapped column
	// sum 12 against a cap of 8. The cap must rescale the whole
	// column, not truncate the last cell.
	grid := NewHitGrid(1, 3)
	d := 1 - math.Exp(-3)
	for z := 0; z <= 3; z++ {
		grid.At(0, z).Density = d
	}
	cfg := DefaultConfig()

	ApplyVAI(grid, cfg)

	sum := 0.0
	for z := 0; z <= 3; z++ {
		sum += grid.At(0, z).VAI
	}
	if math.Abs(sum-8) > 1e-9 {
		t.Errorf("capped column sum = %f, want exactly 8", sum)
	}
	for z := 0; z <= 3; z++ {
		if got := grid.At(0, z).VAI; math.Abs(got-2) > 1e-9 {
			t.Errorf("zbin %d vai = %f, want 2 (proportional redistribution of 8/12)", z, got)
		}
	}
}

func TestApplyVAIBounds(t *testing.T) {
	cfg := DefaultConfig()
	pulses := transectOf(4, 12, 2, 9.0)
	classified := Classify(pulses, cfg)
	grid := BuildGrid(classified, 40, cfg)
	Normalize(grid)
	ApplyVAI(grid, cfg)

	for _, c := range grid.Cells {
		if c.VAI < 0 || c.VAI > cfg.MaxVAI {
			t.Fatalf("cell (%d,%d) vai = %f outside [0, %f]", c.XBin, c.ZBin, c.VAI, cfg.MaxVAI)
		}
	}
}

func TestApplyVAIEmptyCellsStayZero(t *testing.T) {
	grid := NewHitGrid(2, 5)
	ApplyVAI(grid, DefaultConfig())
	for _, c := range grid.Cells {
		if c.VAI != 0 {
			t.Fatalf("cell with no data must keep vai 0, got %f", c.VAI)
		}
	}
}
