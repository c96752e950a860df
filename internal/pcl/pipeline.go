package pcl

// Process runs the full transect pipeline: classification, binning,
// light-extinction normalisation, VAI derivation, summary aggregation
// and the structural metrics suite, finishing with the variable
// combiner. It is a pure function of its inputs: no I/O, no shared
// state, and identical inputs always yield an identical Result.
//
// Errors are configuration problems (ConfigurationError) or a
// structurally incomplete upstream result (IncompleteResultError);
// both abort this transect only. Per-cell numeric edge cases never
// abort: every transect that passes validation yields a complete
// OutputRecord.
func Process(id string, pulses []PulseRecord, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}

	lengthM, err := TransectLength(pulses, cfg.MarkerSpacing)
	if err != nil {
		return nil, err
	}

	classified := Classify(pulses, cfg)
	cover := Cover(classified)

	grid := BuildGrid(classified, lengthM, cfg)
	Normalize(grid)
	ApplyVAI(grid, cfg)

	rows := Summarize(grid)
	profile := Profile(grid)
	metrics := ComputeMetrics(grid, rows)

	record, err := Combine(id, lengthM, cover, rows, metrics)
	if err != nil {
		return nil, err
	}

	return &Result{
		Grid:    grid,
		Summary: rows,
		Profile: profile,
		Record:  record,
	}, nil
}
