// Package render draws the pipeline's visual artifacts: the hit-grid
// heatmap, the PAVD vertical profile (optionally with a hit-count
// histogram) and the batch HTML report.
package render

import (
	"fmt"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/forest-data/canopy.report/internal/fsutil"
	"github.com/forest-data/canopy.report/internal/pcl"
)

// gridXYZ adapts a HitGrid to the plotter heat-map interface: columns
// are transect metres, rows are height bins, Z is the cell VAI.
type gridXYZ struct {
	grid *pcl.HitGrid
}

func (g gridXYZ) Dims() (cols, rows int) { return g.grid.LengthM, g.grid.ZMax + 1 }
func (g gridXYZ) Z(c, r int) float64     { return g.grid.At(c, r).VAI }
func (g gridXYZ) X(c int) float64        { return float64(c) }
func (g gridXYZ) Y(r int) float64        { return float64(r) }

// savePNG renders p at the given size into a file created on fs.
func savePNG(fs fsutil.FileSystem, path string, p *plot.Plot, w, h vg.Length) error {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := wt.WriteTo(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// HitGridHeatmap renders the transect's VAI grid as a PNG heatmap:
// along-track metres on X, height bins on Y, VAI as colour.
func HitGridHeatmap(fs fsutil.FileSystem, path string, grid *pcl.HitGrid, id string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Canopy Hit Grid (VAI)", id)
	p.X.Label.Text = "Distance along transect (m)"
	p.Y.Label.Text = "Height (m)"

	hm := plotter.NewHeatMap(gridXYZ{grid: grid}, palette.Heat(12, 1))
	p.Add(hm)

	if err := savePNG(fs, path, p, 14*vg.Inch, 6*vg.Inch); err != nil {
		return err
	}
	log.Printf("Rendered hit grid for %s to %s", id, path)
	return nil
}

// PAVDProfile renders the vertical plant-area density profile: mean
// VAI on X against height on Y.
func PAVDProfile(fs fsutil.FileSystem, path string, profile []pcl.ProfileBin, id string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - PAVD Profile", id)
	p.X.Label.Text = "Mean VAI"
	p.Y.Label.Text = "Height (m)"

	pts := make(plotter.XYs, 0, len(profile))
	for _, b := range profile {
		pts = append(pts, plotter.XY{X: b.MeanVAI, Y: float64(b.ZBin)})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("profile line: %w", err)
	}
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("mean VAI", line)
	p.Legend.Top = true

	return savePNG(fs, path, p, 6*vg.Inch, 8*vg.Inch)
}

// HitHistogram renders the per-height canopy hit counts as a bar
// chart. It accompanies the PAVD profile when the hist option is set.
func HitHistogram(fs fsutil.FileSystem, path string, profile []pcl.ProfileBin, id string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Canopy Hits by Height", id)
	p.X.Label.Text = "Height bin (m)"
	p.Y.Label.Text = "Canopy hits"

	values := make(plotter.Values, len(profile))
	for i, b := range profile {
		values[i] = float64(b.Hits)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(4))
	if err != nil {
		return fmt.Errorf("histogram bars: %w", err)
	}
	p.Add(bars)

	return savePNG(fs, path, p, 10*vg.Inch, 5*vg.Inch)
}
