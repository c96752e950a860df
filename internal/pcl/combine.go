package pcl

import "math"

// Combine merges the cover metrics, summary aggregates, structural
// metrics and transect metadata into one OutputRecord. It is a pure
// merge: nothing is recomputed. It fails with IncompleteResultError
// when an upstream stage produced a missing or undefined required
// field, which is fatal for the transect.
func Combine(id string, lengthM int, cover CoverMetrics, rows []SummaryRow, metrics StructuralMetrics) (OutputRecord, error) {
	if id == "" {
		return OutputRecord{}, &IncompleteResultError{Missing: "transect id"}
	}
	if lengthM <= 0 {
		return OutputRecord{}, &IncompleteResultError{Missing: "transect length"}
	}
	if cover.TotalPulses == 0 {
		return OutputRecord{}, &IncompleteResultError{Missing: "cover metrics"}
	}
	if len(rows) != lengthM {
		return OutputRecord{}, &IncompleteResultError{Missing: "summary rows"}
	}
	for _, v := range []float64{
		cover.CoverFraction, cover.SkyFraction,
		metrics.MeanVAI, metrics.MaxVAI, metrics.Rumple,
		metrics.GapFraction, metrics.RugosityTop, metrics.Rugosity,
		metrics.MeanENL,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return OutputRecord{}, &IncompleteResultError{Missing: "finite metric value"}
		}
	}

	return OutputRecord{
		ID:            id,
		LengthM:       lengthM,
		TotalPulses:   cover.TotalPulses,
		CanopyHits:    cover.CanopyHits,
		SkyHits:       cover.SkyHits,
		CoverFraction: cover.CoverFraction,
		SkyFraction:   cover.SkyFraction,
		MeanVAI:       metrics.MeanVAI,
		MaxVAI:        metrics.MaxVAI,
		Rumple:        metrics.Rumple,
		GapFraction:   metrics.GapFraction,
		RugosityTop:   metrics.RugosityTop,
		Rugosity:      metrics.Rugosity,
		MeanENL:       metrics.MeanENL,
		ENLColumns:    metrics.ENLColumns,
	}, nil
}
