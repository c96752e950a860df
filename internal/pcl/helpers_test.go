package pcl

// Test fixture builders shared across the package's tests.

// canopy returns a canopy-hit pulse with the given acquisition order,
// marker index and raw return distance in metres.
func canopy(seq, marker int, dist float64) PulseRecord {
	d := dist
	return PulseRecord{Seq: seq, MarkerIndex: marker, ReturnDistance: &d}
}

// sky returns a sky-hit pulse (no return).
func sky(seq, marker int) PulseRecord {
	return PulseRecord{Seq: seq, MarkerIndex: marker}
}

// transectOf builds an interleaved pulse sequence spanning markers
// 0..markers, with hitsPer canopy pulses at height dist and skyPer
// sky pulses per marker interval.
func transectOf(markers, hitsPer, skyPer int, dist float64) []PulseRecord {
	var pulses []PulseRecord
	seq := 0
	for m := 0; m <= markers; m++ {
		for i := 0; i < hitsPer; i++ {
			pulses = append(pulses, canopy(seq, m, dist))
			seq++
		}
		for i := 0; i < skyPer; i++ {
			pulses = append(pulses, sky(seq, m))
			seq++
		}
	}
	return pulses
}
