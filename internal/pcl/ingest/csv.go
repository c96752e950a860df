// Package ingest reads pulse-record tables for the pipeline. The
// core only requires the logical schema (marker index, optional
// return distance); this package adapts the common CSV shape of
// field-collected PCL transects to it.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/forest-data/canopy.report/internal/pcl"
)

// skySentinel marks no-return pulses in legacy exports that encode
// sky hits as a large negative distance instead of an empty field.
const skySentinel = -9000

// TransectFile is one ingested transect: an identifier derived from
// the source filename and its pulse records in acquisition order.
type TransectFile struct {
	ID     string
	Pulses []pcl.PulseRecord
}

// ReadPulses parses a pulse table from r. The first row must be a
// header; recognised columns (case-insensitive) are "marker",
// "marker_index" or "index" for the marker count and
// "return_distance" or "distance" for the raw return. An empty
// distance, "NA", "NaN" or a legacy negative sentinel means sky hit.
// Unrecognised extra columns are ignored. Acquisition order is row
// order.
func ReadPulses(r io.Reader) ([]pcl.PulseRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, &pcl.ConfigurationError{Reason: fmt.Sprintf("unreadable input: %v", err)}
	}
	markerCol, distCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "marker", "marker_index", "index":
			markerCol = i
		case "return_distance", "distance":
			distCol = i
		}
	}
	if markerCol < 0 || distCol < 0 {
		return nil, &pcl.ConfigurationError{
			Reason: fmt.Sprintf("input header %v is missing marker or return_distance columns", header),
		}
	}

	var pulses []pcl.PulseRecord
	seq := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &pcl.ConfigurationError{Reason: fmt.Sprintf("row %d: %v", seq+2, err)}
		}
		if markerCol >= len(row) || distCol >= len(row) {
			return nil, &pcl.ConfigurationError{Reason: fmt.Sprintf("row %d: too few columns", seq+2)}
		}

		marker, err := strconv.Atoi(strings.TrimSpace(row[markerCol]))
		if err != nil {
			return nil, &pcl.ConfigurationError{
				Reason: fmt.Sprintf("row %d: invalid marker index %q", seq+2, row[markerCol]),
			}
		}

		rec := pcl.PulseRecord{Seq: seq, MarkerIndex: marker}
		if d, ok := parseDistance(row[distCol]); ok {
			rec.ReturnDistance = &d
		}
		pulses = append(pulses, rec)
		seq++
	}
	return pulses, nil
}

// parseDistance interprets the raw return-distance field. The second
// return is false for any sky-hit encoding.
func parseDistance(field string) (float64, bool) {
	s := strings.TrimSpace(field)
	if s == "" {
		return 0, false
	}
	switch strings.ToLower(s) {
	case "na", "nan", "null":
		return 0, false
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if d <= skySentinel || d < 0 {
		return 0, false
	}
	return d, true
}

// ReadFile reads one transect CSV. The transect ID is the base
// filename without extension.
func ReadFile(path string) (TransectFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return TransectFile{}, &pcl.ConfigurationError{Reason: fmt.Sprintf("open %s: %v", path, err)}
	}
	defer f.Close()

	pulses, err := ReadPulses(f)
	if err != nil {
		return TransectFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return TransectFile{ID: transectID(path), Pulses: pulses}, nil
}

// ReadDir reads every .csv file directly under dir, sorted by name so
// batch job order is stable across runs.
func ReadDir(dir string) ([]TransectFile, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no transect files in %s", dir)
	}
	sort.Strings(matches)

	files := make([]TransectFile, 0, len(matches))
	for _, path := range matches {
		tf, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, tf)
	}
	return files, nil
}

// transectID derives a transect identifier from a file path.
func transectID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
