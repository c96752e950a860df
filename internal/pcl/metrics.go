package pcl

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ComputeMetrics runs the structural metrics suite over the summary
// rows and the finished grid. All per-column numeric edge cases
// (empty columns, zero variance, zero VAI sums) recover to defined
// sentinels; the suite never fails.
func ComputeMetrics(grid *HitGrid, rows []SummaryRow) StructuralMetrics {
	m := StructuralMetrics{
		Rumple:      rumple(rows),
		GapFraction: gapFraction(rows),
	}
	m.MeanVAI, m.MaxVAI = vaiAggregates(rows)
	m.RugosityTop, m.Rugosity = rugosity(grid, rows)
	m.MeanENL, m.ENLColumns = meanENL(grid, rows)
	return m
}

// rumple is the per-metre unrolled canopy-top surface length: each
// 1 m step contributes sqrt(1 + dh^2) where dh is the top-height
// change from the previous column, with the first segment flat. A
// flat canopy yields exactly 1; any relief pushes it above 1.
func rumple(rows []SummaryRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	surface := 1.0
	for i := 1; i < len(rows); i++ {
		dh := float64(rows[i].MaxHeight - rows[i-1].MaxHeight)
		surface += math.Sqrt(1 + dh*dh)
	}
	return surface / float64(len(rows))
}

// gapFraction is the fraction of transect columns that intercepted no
// light at all (column VAI sum of zero).
func gapFraction(rows []SummaryRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	gaps := 0
	for _, r := range rows {
		if r.VAISum == 0 {
			gaps++
		}
	}
	return float64(gaps) / float64(len(rows))
}

// vaiAggregates returns the mean and maximum of the per-column VAI
// sums.
func vaiAggregates(rows []SummaryRow) (mean, max float64) {
	if len(rows) == 0 {
		return 0, 0
	}
	sums := make([]float64, len(rows))
	for i, r := range rows {
		sums[i] = r.VAISum
		if r.VAISum > max {
			max = r.VAISum
		}
	}
	return stat.Mean(sums, nil), max
}

// rugosity returns the vertical (top) rugosity and the combined
// complexity index.
//
// Top rugosity is the across-column standard deviation of canopy top
// height. The combined index folds in the internal structure: the
// mean, over all columns, of the within-column standard deviation of
// VAI across that column's occupied zbins. Columns with fewer than
// two occupied zbins have zero internal variance and contribute 0,
// never NaN.
func rugosity(grid *HitGrid, rows []SummaryRow) (top, combined float64) {
	if len(rows) == 0 {
		return 0, 0
	}

	tops := make([]float64, len(rows))
	for i, r := range rows {
		tops[i] = float64(r.MaxHeight)
	}
	if len(tops) > 1 {
		top = stat.StdDev(tops, nil)
	}

	withinSum := 0.0
	for x := 0; x < grid.LengthM; x++ {
		var vals []float64
		for _, c := range grid.Column(x) {
			if c.VAI > 0 {
				vals = append(vals, c.VAI)
			}
		}
		if len(vals) > 1 {
			withinSum += stat.StdDev(vals, nil)
		}
	}
	meanWithin := withinSum / float64(grid.LengthM)

	combined = math.Sqrt(top*top + meanWithin*meanWithin)
	return top, combined
}

// meanENL aggregates the effective number of layers across columns
// with nonzero VAI sums. Per column, ENL = 1 / sum(p_i^2) with p_i
// the fraction of the column's VAI in zbin i. Columns with zero VAI
// are excluded from the aggregate rather than counted as zero; when
// every column is excluded the aggregate is reported as 0 with a
// column count of 0.
func meanENL(grid *HitGrid, rows []SummaryRow) (mean float64, columns int) {
	sum := 0.0
	for x := 0; x < grid.LengthM; x++ {
		vaiSum := rows[x].VAISum
		if vaiSum <= 0 {
			continue
		}
		sq := 0.0
		for _, c := range grid.Column(x) {
			p := c.VAI / vaiSum
			sq += p * p
		}
		if sq > 0 {
			sum += 1 / sq
			columns++
		}
	}
	if columns == 0 {
		return 0, 0
	}
	return sum / float64(columns), columns
}
