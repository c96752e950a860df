package pcl

import "sort"

// TransectLength derives the total along-track distance in metres
// from the highest marker index observed: length = spacing * max
// index. It returns a ConfigurationError when no pulses are present
// or the computed length is not positive.
func TransectLength(pulses []PulseRecord, markerSpacing int) (int, error) {
	if len(pulses) == 0 {
		return 0, configErrorf("no pulses in transect")
	}
	maxMarker := -1
	for _, p := range pulses {
		if p.MarkerIndex > maxMarker {
			maxMarker = p.MarkerIndex
		}
	}
	length := markerSpacing * maxMarker
	if length <= 0 {
		return 0, configErrorf("no usable markers: max marker index %d, spacing %d", maxMarker, markerSpacing)
	}
	return length, nil
}

// Classify labels every pulse as canopy hit or sky hit and adjusts
// canopy return heights for the instrument mounting offset so that 0
// means ground level. Classification is total and mutually exclusive:
// no pulse is dropped. Output is in acquisition (Seq) order regardless
// of input order, so downstream aggregates are order-independent.
//
// A return is a canopy hit when a distance is present and, if the
// out-of-range filter is enabled, within cfg.MaxReturnDistance;
// otherwise the pulse is a sky hit.
//
// Height policy: adjusted heights below ground are clamped to zero.
// Such returns are mount-offset-displaced ground returns; clamping
// keeps them in the ground bin and preserves hit-count conservation.
func Classify(pulses []PulseRecord, cfg *Config) []classifiedPulse {
	out := make([]classifiedPulse, 0, len(pulses))
	for _, p := range pulses {
		cp := classifiedPulse{Seq: p.Seq, MarkerIndex: p.MarkerIndex}
		if p.ReturnDistance != nil {
			d := *p.ReturnDistance
			inRange := d >= 0 && (cfg.MaxReturnDistance <= 0 || d <= cfg.MaxReturnDistance)
			if inRange {
				cp.CanopyHit = true
				h := d - cfg.UserHeight
				if h < 0 {
					h = 0
				}
				cp.Height = h
			}
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// Cover computes the first-order transect-level cover fractions,
// independent of any spatial binning.
func Cover(pulses []classifiedPulse) CoverMetrics {
	m := CoverMetrics{TotalPulses: len(pulses)}
	for _, p := range pulses {
		if p.CanopyHit {
			m.CanopyHits++
		} else {
			m.SkyHits++
		}
	}
	if m.TotalPulses > 0 {
		m.SkyFraction = float64(m.SkyHits) / float64(m.TotalPulses)
		m.CoverFraction = 1 - m.SkyFraction
	}
	return m
}
