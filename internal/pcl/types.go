package pcl

// PulseRecord is a single laser pulse as delivered by an ingest
// collaborator. ReturnDistance is nil for a sky hit (no return).
// Records are immutable once read; every stage that needs a different
// shape produces its own structure.
type PulseRecord struct {
	// Seq is the acquisition order of the pulse within its transect.
	// It is the canonical ordering key: aggregated results must not
	// depend on the order records arrive in.
	Seq int

	// MarkerIndex is the count of along-track distance markers passed
	// before this pulse was emitted.
	MarkerIndex int

	// ReturnDistance is the raw return distance in metres, measured
	// from the instrument. Nil means the pulse returned nothing.
	ReturnDistance *float64
}

// IsSky reports whether the pulse carries no return.
func (p PulseRecord) IsSky() bool { return p.ReturnDistance == nil }

// classifiedPulse is the classifier's per-pulse output: a total,
// mutually exclusive canopy/sky label plus the ground-referenced
// return height for canopy hits.
type classifiedPulse struct {
	Seq         int
	MarkerIndex int
	CanopyHit   bool
	// Height is the mount-offset-adjusted return height in metres
	// above ground. Only meaningful when CanopyHit is true.
	Height float64
}

// Cell is one 1 m x 1 m unit of the hit grid. Counts are written by
// the grid builder; Density by the normaliser; VAI by the VAI
// calculator. Cells are never modified after that.
type Cell struct {
	XBin       int
	ZBin       int
	CanopyHits int
	SkyHits    int
	Density    float64
	VAI        float64
}

// Pulses returns the number of pulses assigned to the cell.
func (c Cell) Pulses() int { return c.CanopyHits + c.SkyHits }

// HitGrid is the dense cell grid for one transect: every xbin in
// [0, LengthM) and every zbin in [0, ZMax] has a cell, including
// cells with zero observations. Cells are stored in a flat slice
// indexed xbin*(ZMax+1)+zbin for O(1) lookup.
type HitGrid struct {
	LengthM int
	ZMax    int
	Cells   []Cell
}

// NewHitGrid allocates a dense grid covering lengthM columns and
// zMax+1 height bins, with all counts zero.
func NewHitGrid(lengthM, zMax int) *HitGrid {
	g := &HitGrid{
		LengthM: lengthM,
		ZMax:    zMax,
		Cells:   make([]Cell, lengthM*(zMax+1)),
	}
	for x := 0; x < lengthM; x++ {
		for z := 0; z <= zMax; z++ {
			c := g.At(x, z)
			c.XBin = x
			c.ZBin = z
		}
	}
	return g
}

// At returns the cell at (xbin, zbin). Callers must stay within
// [0, LengthM) x [0, ZMax].
func (g *HitGrid) At(x, z int) *Cell {
	return &g.Cells[x*(g.ZMax+1)+z]
}

// Column returns the cells of one xbin ordered bottom-up
// (zbin 0 first). The returned slice aliases the grid.
func (g *HitGrid) Column(x int) []Cell {
	start := x * (g.ZMax + 1)
	return g.Cells[start : start+g.ZMax+1]
}

// ColumnPulses returns the total pulse count assigned to a column.
func (g *HitGrid) ColumnPulses(x int) int {
	total := 0
	for _, c := range g.Column(x) {
		total += c.Pulses()
	}
	return total
}

// SummaryRow aggregates one grid column (one metre of transect).
// Empty columns still produce a row with zero-valued fields.
type SummaryRow struct {
	XBin int
	// MaxHeight is the canopy top: the highest zbin with any canopy
	// hit, or 0 for a column with no hits.
	MaxHeight int
	// TotalHits is the canopy hit count summed over the column.
	TotalHits int
	// VAISum is the column's cumulative vegetation area index.
	VAISum float64
	// FilledBins counts zbins with at least one canopy hit.
	FilledBins int
}

// ProfileBin is one height bin of the PAVD vertical profile: the mean
// VAI at this height across all transect columns.
type ProfileBin struct {
	ZBin    int
	MeanVAI float64
	Hits    int
}

// CoverMetrics are the first-order transect-level cover fractions,
// computed before any spatial binning.
type CoverMetrics struct {
	TotalPulses   int
	CanopyHits    int
	SkyHits       int
	SkyFraction   float64
	CoverFraction float64
}

// StructuralMetrics is the output of the structural metrics suite.
type StructuralMetrics struct {
	MeanVAI     float64
	MaxVAI      float64
	Rumple      float64
	GapFraction float64
	// RugosityTop is the across-column standard deviation of canopy
	// top height (vertical heterogeneity).
	RugosityTop float64
	// Rugosity combines top-height and within-column VAI spread into
	// one complexity index.
	Rugosity float64
	// MeanENL is the mean effective number of layers over columns
	// with nonzero VAI; zero when no column qualifies.
	MeanENL float64
	// ENLColumns is the number of columns contributing to MeanENL.
	ENLColumns int
}

// OutputRecord is the flat per-transect result row handed to output
// collaborators. The field set is fixed.
type OutputRecord struct {
	ID            string
	LengthM       int
	TotalPulses   int
	CanopyHits    int
	SkyHits       int
	CoverFraction float64
	SkyFraction   float64
	MeanVAI       float64
	MaxVAI        float64
	Rumple        float64
	GapFraction   float64
	RugosityTop   float64
	Rugosity      float64
	MeanENL       float64
	ENLColumns    int
}

// Result bundles everything one pipeline run produces for a transect.
type Result struct {
	Grid    *HitGrid
	Summary []SummaryRow
	Profile []ProfileBin
	Record  OutputRecord
}
