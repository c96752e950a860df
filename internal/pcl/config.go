package pcl

import "fmt"

// Default configuration values. These mirror the documented defaults
// of the field protocol: a hand-carried instrument mounted one metre
// above ground, distance markers every ten metres, and a cumulative
// VAI ceiling of eight per column.
const (
	DefaultUserHeight    = 1.0
	DefaultMarkerSpacing = 10
	DefaultMaxVAI        = 8.0
	DefaultZMax          = 40
	DefaultExtinctionK   = 1.0
)

// Config holds the pipeline configuration for one transect. Build it
// with DefaultConfig and the With* setters, then Validate once at
// pipeline entry; stages never re-check defaults per call.
type Config struct {
	// UserHeight is the laser-to-ground mounting offset in metres,
	// subtracted from every canopy return height.
	UserHeight float64

	// MarkerSpacing is the along-track distance between markers in
	// metres. Transect length is MarkerSpacing times the highest
	// marker index observed.
	MarkerSpacing int

	// MaxVAI caps the cumulative vegetation area index per column.
	MaxVAI float64

	// ZMax is the grid's fixed height ceiling in metres. Returns
	// above it are clamped into the top bin, never dropped, so cell
	// counts stay conserved.
	ZMax int

	// ExtinctionK is the Beer-Lambert extinction coefficient used by
	// the VAI transform.
	ExtinctionK float64

	// MaxReturnDistance, when positive, treats returns beyond this
	// distance as out of sensor range: the pulse is classified as a
	// sky hit. Zero disables the filter. The filter is off by
	// default; enabling it is an explicit caller decision.
	MaxReturnDistance float64

	// PAVD requests the per-height VAI profile artifact for the
	// downstream profile plotter.
	PAVD bool

	// Hist adds a hit-count histogram to the PAVD artifact.
	Hist bool
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		UserHeight:    DefaultUserHeight,
		MarkerSpacing: DefaultMarkerSpacing,
		MaxVAI:        DefaultMaxVAI,
		ZMax:          DefaultZMax,
		ExtinctionK:   DefaultExtinctionK,
	}
}

// Validate checks the configuration once at pipeline entry.
func (c *Config) Validate() error {
	if c.UserHeight < 0 {
		return fmt.Errorf("UserHeight must be non-negative, got %f", c.UserHeight)
	}
	if c.MarkerSpacing <= 0 {
		return fmt.Errorf("MarkerSpacing must be positive, got %d", c.MarkerSpacing)
	}
	if c.MaxVAI <= 0 {
		return fmt.Errorf("MaxVAI must be positive, got %f", c.MaxVAI)
	}
	if c.ZMax <= 0 {
		return fmt.Errorf("ZMax must be positive, got %d", c.ZMax)
	}
	if c.ExtinctionK <= 0 {
		return fmt.Errorf("ExtinctionK must be positive, got %f", c.ExtinctionK)
	}
	if c.MaxReturnDistance < 0 {
		return fmt.Errorf("MaxReturnDistance must be non-negative, got %f", c.MaxReturnDistance)
	}
	return nil
}

// WithUserHeight sets the instrument mounting offset in metres.
func (c *Config) WithUserHeight(h float64) *Config {
	c.UserHeight = h
	return c
}

// WithMarkerSpacing sets the along-track marker spacing in metres.
func (c *Config) WithMarkerSpacing(m int) *Config {
	c.MarkerSpacing = m
	return c
}

// WithMaxVAI sets the per-column cumulative VAI cap.
func (c *Config) WithMaxVAI(v float64) *Config {
	c.MaxVAI = v
	return c
}

// WithZMax sets the grid height ceiling in metres.
func (c *Config) WithZMax(z int) *Config {
	c.ZMax = z
	return c
}

// WithExtinctionK sets the Beer-Lambert extinction coefficient.
func (c *Config) WithExtinctionK(k float64) *Config {
	c.ExtinctionK = k
	return c
}

// WithMaxReturnDistance enables the out-of-range return filter.
func (c *Config) WithMaxReturnDistance(d float64) *Config {
	c.MaxReturnDistance = d
	return c
}

// WithPAVD requests the PAVD profile artifact.
func (c *Config) WithPAVD(enabled bool) *Config {
	c.PAVD = enabled
	return c
}

// WithHist adds a histogram to the PAVD artifact.
func (c *Config) WithHist(enabled bool) *Config {
	c.Hist = enabled
	return c
}
