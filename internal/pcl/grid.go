package pcl

// BuildGrid assigns every classified pulse to a (xbin, zbin) cell and
// returns the dense grid. The grid covers every xbin in [0, lengthM)
// and zbin in [0, cfg.ZMax] so the top-down normaliser always has
// full-column coverage; cells with no observations stay at zero
// counts.
//
// Along-track position: pulses sharing a marker index are spread
// uniformly, in acquisition order, across the marker interval
// [index*spacing, (index+1)*spacing). Pulses at the final marker are
// clamped into the last xbin. This reconstructs walking distance from
// the marker count without assuming a constant pulse rate across the
// whole transect.
//
// Height: zbin = floor(adjusted height), clamped into the top bin for
// returns above cfg.ZMax. Clamping rather than dropping keeps the
// per-cell invariant canopy+sky == pulses assigned. Sky hits carry no
// height and are recorded in zbin 0 of their column; they contribute
// to the column pulse total only.
func BuildGrid(pulses []classifiedPulse, lengthM int, cfg *Config) *HitGrid {
	grid := NewHitGrid(lengthM, cfg.ZMax)

	// Group by marker interval, preserving Seq order within each.
	perMarker := make(map[int][]classifiedPulse)
	for _, p := range pulses {
		perMarker[p.MarkerIndex] = append(perMarker[p.MarkerIndex], p)
	}

	for marker, group := range perMarker {
		n := len(group)
		for k, p := range group {
			x := float64(marker*cfg.MarkerSpacing) +
				float64(k)/float64(n)*float64(cfg.MarkerSpacing)
			xbin := int(x)
			if xbin >= lengthM {
				xbin = lengthM - 1
			}
			if xbin < 0 {
				xbin = 0
			}

			if !p.CanopyHit {
				grid.At(xbin, 0).SkyHits++
				continue
			}
			zbin := int(p.Height)
			if zbin > cfg.ZMax {
				zbin = cfg.ZMax
			}
			grid.At(xbin, zbin).CanopyHits++
		}
	}
	return grid
}
