// Package main is the batch driver for the PCL canopy-structure
// pipeline: it reads transect pulse tables, runs the transform over a
// worker pool, and hands the results to the CSV, plot, report and
// database collaborators.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/forest-data/canopy.report/internal/fsutil"
	"github.com/forest-data/canopy.report/internal/pcl"
	"github.com/forest-data/canopy.report/internal/pcl/batch"
	"github.com/forest-data/canopy.report/internal/pcl/export"
	"github.com/forest-data/canopy.report/internal/pcl/ingest"
	"github.com/forest-data/canopy.report/internal/pcl/render"
	"github.com/forest-data/canopy.report/internal/pcldb"
	"github.com/forest-data/canopy.report/internal/version"
)

// cliConfig holds the flag-driven configuration for one invocation.
type cliConfig struct {
	Input       string
	OutputDir   string
	DBPath      string
	Workers     int
	UserHeight  float64
	Spacing     int
	MaxVAI      float64
	ZMax        int
	ExtinctionK float64
	MaxReturn   float64
	PAVD        bool
	Hist        bool
	Report      bool
	ShowVersion bool
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.Input, "input", "", "Transect CSV file, or directory of transect CSVs")
	flag.StringVar(&cfg.OutputDir, "output", "out", "Output directory for CSV and plot artifacts")
	flag.StringVar(&cfg.DBPath, "db", "", "Optional SQLite database to persist run results")
	flag.IntVar(&cfg.Workers, "workers", 0, "Concurrent transects (0 = number of CPUs)")
	flag.Float64Var(&cfg.UserHeight, "user-height", pcl.DefaultUserHeight, "Instrument mounting offset above ground (m)")
	flag.IntVar(&cfg.Spacing, "marker-spacing", pcl.DefaultMarkerSpacing, "Distance between transect markers (m)")
	flag.Float64Var(&cfg.MaxVAI, "max-vai", pcl.DefaultMaxVAI, "Cumulative VAI cap per column")
	flag.IntVar(&cfg.ZMax, "zmax", pcl.DefaultZMax, "Grid height ceiling (m)")
	flag.Float64Var(&cfg.ExtinctionK, "k", pcl.DefaultExtinctionK, "Beer-Lambert extinction coefficient")
	flag.Float64Var(&cfg.MaxReturn, "max-return-distance", 0, "Treat returns beyond this distance as sky hits (0 = disabled)")
	flag.BoolVar(&cfg.PAVD, "pavd", false, "Write and plot the PAVD vertical profile")
	flag.BoolVar(&cfg.Hist, "hist", false, "Add a hit-count histogram to the PAVD artifact")
	flag.BoolVar(&cfg.Report, "report", false, "Render an HTML batch report")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()

	if cfg.ShowVersion {
		fmt.Printf("pcl %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	if cfg.Input == "" {
		log.Fatal("Input file or directory is required (-input)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Run failed: %v", err)
	}
}

func run(ctx context.Context, cfg cliConfig) error {
	pipelineCfg := pcl.DefaultConfig().
		WithUserHeight(cfg.UserHeight).
		WithMarkerSpacing(cfg.Spacing).
		WithMaxVAI(cfg.MaxVAI).
		WithZMax(cfg.ZMax).
		WithExtinctionK(cfg.ExtinctionK).
		WithMaxReturnDistance(cfg.MaxReturn).
		WithPAVD(cfg.PAVD).
		WithHist(cfg.Hist)
	if err := pipelineCfg.Validate(); err != nil {
		return err
	}

	files, err := loadTransects(cfg.Input)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d transects from %s", len(files), cfg.Input)

	jobs := make([]batch.Job, len(files))
	for i, tf := range files {
		jobs[i] = batch.Job{ID: tf.ID, Pulses: tf.Pulses}
	}

	outcomes, err := batch.Run(ctx, jobs, pipelineCfg, cfg.Workers)
	if err != nil {
		return err
	}

	fs := fsutil.OSFileSystem{}
	if err := fs.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
			continue
		}
		if err := writeTransectArtifacts(fs, cfg, o); err != nil {
			return err
		}
	}

	records := batch.Records(outcomes)
	if len(records) == 0 {
		return fmt.Errorf("all %d transects failed", len(jobs))
	}
	metricsPath := filepath.Join(cfg.OutputDir, "canopy_metrics.csv")
	if err := export.WriteOutputRecords(fs, metricsPath, records); err != nil {
		return err
	}

	if cfg.Report {
		reportPath := filepath.Join(cfg.OutputDir, "report.html")
		if err := render.BatchReport(fs, reportPath, records); err != nil {
			return err
		}
	}

	if cfg.DBPath != "" {
		if err := persistRun(cfg.DBPath, records); err != nil {
			return err
		}
	}

	log.Printf("Processed %d transects (%d failed)", len(jobs), failed)
	return nil
}

// loadTransects reads a single transect CSV or every CSV in a
// directory.
func loadTransects(input string) ([]ingest.TransectFile, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("input not found: %w", err)
	}
	if info.IsDir() {
		return ingest.ReadDir(input)
	}
	tf, err := ingest.ReadFile(input)
	if err != nil {
		return nil, err
	}
	return []ingest.TransectFile{tf}, nil
}

// writeTransectArtifacts writes the per-transect outputs: summary
// matrix, hit grid table, heatmap, and the PAVD artifacts when
// requested.
func writeTransectArtifacts(fs fsutil.FileSystem, cfg cliConfig, o batch.Outcome) error {
	res := o.Result
	base := filepath.Join(cfg.OutputDir, o.ID)

	if err := export.WriteSummary(fs, base+"_summary.csv", res.Summary); err != nil {
		return err
	}
	if err := export.WriteHitGrid(fs, base+"_hit_grid.csv", res.Grid); err != nil {
		return err
	}
	if err := render.HitGridHeatmap(fs, base+"_hit_grid.png", res.Grid, o.ID); err != nil {
		return err
	}

	if cfg.PAVD {
		if err := export.WriteProfile(fs, base+"_pavd.csv", res.Profile); err != nil {
			return err
		}
		if err := render.PAVDProfile(fs, base+"_pavd.png", res.Profile, o.ID); err != nil {
			return err
		}
		if cfg.Hist {
			if err := render.HitHistogram(fs, base+"_hist.png", res.Profile, o.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// persistRun stores the batch's records under a fresh run ID.
func persistRun(path string, records []pcl.OutputRecord) error {
	db, err := pcldb.NewDB(path)
	if err != nil {
		return fmt.Errorf("open results database: %w", err)
	}
	defer db.Close()

	runID := pcldb.NewRunID()
	if err := db.RecordRun(runID, records); err != nil {
		return err
	}
	log.Printf("Stored %d transect records under run %s in %s", len(records), runID, path)
	return nil
}
