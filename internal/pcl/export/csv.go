// Package export writes the pipeline's output structures as flat CSV
// tables: the per-transect OutputRecord table, the per-metre summary
// matrix, the full hit grid and the PAVD vertical profile.
package export

import (
	"encoding/csv"
	"fmt"
	"log"
	"strconv"

	"github.com/forest-data/canopy.report/internal/fsutil"
	"github.com/forest-data/canopy.report/internal/pcl"
)

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

func itoa(v int) string { return strconv.Itoa(v) }

// writeTable creates path on fs and streams rows through a CSV writer.
func writeTable(fs fsutil.FileSystem, path string, header []string, rows [][]string) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// WriteOutputRecords writes the per-transect metrics table, one row
// per transect.
func WriteOutputRecords(fs fsutil.FileSystem, path string, records []pcl.OutputRecord) error {
	header := []string{
		"id", "length_m", "total_pulses", "canopy_hits", "sky_hits",
		"cover_fraction", "sky_fraction", "mean_vai", "max_vai",
		"rumple", "gap_fraction", "rugosity_top", "rugosity",
		"mean_enl", "enl_columns",
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ID, itoa(r.LengthM), itoa(r.TotalPulses), itoa(r.CanopyHits), itoa(r.SkyHits),
			ftoa(r.CoverFraction), ftoa(r.SkyFraction), ftoa(r.MeanVAI), ftoa(r.MaxVAI),
			ftoa(r.Rumple), ftoa(r.GapFraction), ftoa(r.RugosityTop), ftoa(r.Rugosity),
			ftoa(r.MeanENL), itoa(r.ENLColumns),
		})
	}
	if err := writeTable(fs, path, header, rows); err != nil {
		return err
	}
	log.Printf("Exported %d transect records to %s", len(records), path)
	return nil
}

// WriteSummary writes the per-metre summary matrix of one transect.
func WriteSummary(fs fsutil.FileSystem, path string, rows []pcl.SummaryRow) error {
	header := []string{"xbin", "max_height_m", "total_hits", "vai_sum", "filled_bins"}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			itoa(r.XBin), itoa(r.MaxHeight), itoa(r.TotalHits), ftoa(r.VAISum), itoa(r.FilledBins),
		})
	}
	return writeTable(fs, path, header, table)
}

// WriteHitGrid writes the full cell grid, one row per (xbin, zbin),
// for the hit-grid rendering collaborator.
func WriteHitGrid(fs fsutil.FileSystem, path string, grid *pcl.HitGrid) error {
	header := []string{"xbin", "zbin", "canopy_hits", "sky_hits", "density", "vai"}
	rows := make([][]string, 0, len(grid.Cells))
	for _, c := range grid.Cells {
		rows = append(rows, []string{
			itoa(c.XBin), itoa(c.ZBin), itoa(c.CanopyHits), itoa(c.SkyHits),
			ftoa(c.Density), ftoa(c.VAI),
		})
	}
	if err := writeTable(fs, path, header, rows); err != nil {
		return err
	}
	log.Printf("Exported %d grid cells to %s", len(grid.Cells), path)
	return nil
}

// WriteProfile writes the PAVD vertical profile.
func WriteProfile(fs fsutil.FileSystem, path string, profile []pcl.ProfileBin) error {
	header := []string{"zbin", "mean_vai", "hits"}
	rows := make([][]string, 0, len(profile))
	for _, b := range profile {
		rows = append(rows, []string{itoa(b.ZBin), ftoa(b.MeanVAI), itoa(b.Hits)})
	}
	return writeTable(fs, path, header, rows)
}
