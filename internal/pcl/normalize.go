package pcl

import "math"

// Normalize performs the top-down Beer-Lambert light-extinction
// accounting, writing a normalised density into every cell.
//
// Per column: available pulses start at the column's total pulse
// count (canopy plus sky). Walking from the top bin downward, each
// cell's density is its canopy hits over the pulses still available
// at that height; the cell's hits are then removed from the budget
// before descending. Once the budget reaches zero the density is 0
// for that cell and every cell below it. The budget is non-increasing
// top to bottom.
func Normalize(grid *HitGrid) {
	for x := 0; x < grid.LengthM; x++ {
		available := grid.ColumnPulses(x)
		for z := grid.ZMax; z >= 0; z-- {
			cell := grid.At(x, z)
			if available > 0 {
				cell.Density = float64(cell.CanopyHits) / float64(available)
			} else {
				cell.Density = 0
			}
			available -= cell.CanopyHits
		}
	}
}

// ApplyVAI converts each cell's normalised density into a vegetation
// area index, walking columns top-down so saturation can draw on the
// column's remaining VAI budget.
//
// vai = -ln(1 - density) / k for density < 1. A saturated cell
// (density == 1: the remaining light is fully intercepted) is
// assigned the column's remaining budget up to cfg.MaxVAI. After the
// walk, a column whose raw cumulative VAI exceeds cfg.MaxVAI is
// rescaled proportionally so the column sum is exactly the cap:
// capping redistributes across the column instead of truncating
// whichever cell happened to overflow. Cells with no observations
// keep vai = 0.
func ApplyVAI(grid *HitGrid, cfg *Config) {
	for x := 0; x < grid.LengthM; x++ {
		cumulative := 0.0
		for z := grid.ZMax; z >= 0; z-- {
			cell := grid.At(x, z)
			var vai float64
			switch {
			case cell.Density <= 0:
				vai = 0
			case cell.Density >= 1:
				vai = cfg.MaxVAI - cumulative
				if vai < 0 {
					vai = 0
				}
			default:
				vai = -math.Log(1-cell.Density) / cfg.ExtinctionK
			}
			cell.VAI = vai
			cumulative += vai
		}

		if cumulative > cfg.MaxVAI {
			scale := cfg.MaxVAI / cumulative
			for z := 0; z <= grid.ZMax; z++ {
				grid.At(x, z).VAI *= scale
			}
		}
	}
}
