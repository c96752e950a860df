package pcl

// Summarize aggregates the grid into one SummaryRow per xbin,
// ascending. Columns with zero hits still produce a row with
// zero-valued fields so downstream consumers see every metre of the
// transect.
func Summarize(grid *HitGrid) []SummaryRow {
	rows := make([]SummaryRow, grid.LengthM)
	for x := 0; x < grid.LengthM; x++ {
		row := SummaryRow{XBin: x}
		for _, c := range grid.Column(x) {
			if c.CanopyHits > 0 {
				row.TotalHits += c.CanopyHits
				row.FilledBins++
				if c.ZBin > row.MaxHeight {
					row.MaxHeight = c.ZBin
				}
			}
			row.VAISum += c.VAI
		}
		rows[x] = row
	}
	return rows
}

// Profile builds the PAVD vertical profile: for each height bin, the
// mean VAI across all transect columns plus the raw canopy hit count.
// The profile is always derivable; callers decide via Config.PAVD
// whether to hand it to the plotting collaborator.
func Profile(grid *HitGrid) []ProfileBin {
	bins := make([]ProfileBin, grid.ZMax+1)
	if grid.LengthM == 0 {
		return bins
	}
	for z := 0; z <= grid.ZMax; z++ {
		sum := 0.0
		hits := 0
		for x := 0; x < grid.LengthM; x++ {
			c := grid.At(x, z)
			sum += c.VAI
			hits += c.CanopyHits
		}
		bins[z] = ProfileBin{
			ZBin:    z,
			MeanVAI: sum / float64(grid.LengthM),
			Hits:    hits,
		}
	}
	return bins
}
