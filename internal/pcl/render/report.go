package render

import (
	"fmt"
	"log"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/forest-data/canopy.report/internal/fsutil"
	"github.com/forest-data/canopy.report/internal/pcl"
)

// BatchReport renders a single HTML page comparing the structural
// metrics of every transect in a batch run: a grouped bar chart of
// the complexity indices and a cover-versus-rugosity scatter.
func BatchReport(fs fsutil.FileSystem, path string, records []pcl.OutputRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to report")
	}

	ids := make([]string, 0, len(records))
	meanVAI := make([]opts.BarData, 0, len(records))
	rumple := make([]opts.BarData, 0, len(records))
	rugosity := make([]opts.BarData, 0, len(records))
	enl := make([]opts.BarData, 0, len(records))
	scatter := make([]opts.ScatterData, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
		meanVAI = append(meanVAI, opts.BarData{Value: r.MeanVAI})
		rumple = append(rumple, opts.BarData{Value: r.Rumple})
		rugosity = append(rugosity, opts.BarData{Value: r.Rugosity})
		enl = append(enl, opts.BarData{Value: r.MeanENL})
		scatter = append(scatter, opts.ScatterData{
			Name:  r.ID,
			Value: []interface{}{r.CoverFraction, r.Rugosity},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Canopy Structure Report", Theme: "dark", Width: "1100px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Canopy Structural Complexity", Subtitle: fmt.Sprintf("transects=%d", len(records))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(ids).
		AddSeries("mean VAI", meanVAI).
		AddSeries("rumple", rumple).
		AddSeries("rugosity", rugosity).
		AddSeries("mean ENL", enl)

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "700px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Cover vs Rugosity"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Cover fraction", Min: 0, Max: 1}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Rugosity"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	sc.AddSeries("transects", scatter, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))

	page := components.NewPage()
	page.AddCharts(bar, sc)

	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	log.Printf("Rendered batch report for %d transects to %s", len(records), path)
	return nil
}
