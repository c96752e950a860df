package pcl

import "fmt"

// ConfigurationError reports input or configuration problems that
// abort the whole transect's pipeline: an unreadable pulse set, no
// markers, a zero or negative transect length. The error is fatal for
// the transect only; a batch run continues with the rest.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("transect configuration: %s", e.Reason)
}

// configErrorf builds a ConfigurationError from a format string.
func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// IncompleteResultError reports a missing required field reaching the
// variable combiner. Per-cell numeric edge cases never raise it; they
// recover locally to defined sentinels. It indicates an upstream
// stage produced a structurally incomplete result.
type IncompleteResultError struct {
	Missing string
}

func (e *IncompleteResultError) Error() string {
	return fmt.Sprintf("incomplete pipeline result: missing %s", e.Missing)
}
