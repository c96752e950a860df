package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forest-data/canopy.report/internal/pcl"
)

func TestReadPulses(t *testing.T) {
	input := strings.Join([]string{
		"index,return_distance,intensity",
		"0,12.5,40",
		"0,NA,0",
		"1,,0",
		"1,3.25,55",
		"2,-9999999,0",
	}, "\n")

	pulses, err := ReadPulses(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pulses) != 5 {
		t.Fatalf("pulses = %d, want 5", len(pulses))
	}

	testCases := []struct {
		i      int
		marker int
		sky    bool
		dist   float64
	}{
		{0, 0, false, 12.5},
		{1, 0, true, 0},
		{2, 1, true, 0},
		{3, 1, false, 3.25},
		{4, 2, true, 0}, // legacy sentinel encoding
	}
	for _, tc := range testCases {
		p := pulses[tc.i]
		if p.Seq != tc.i {
			t.Errorf("row %d seq = %d, want %d", tc.i, p.Seq, tc.i)
		}
		if p.MarkerIndex != tc.marker {
			t.Errorf("row %d marker = %d, want %d", tc.i, p.MarkerIndex, tc.marker)
		}
		if p.IsSky() != tc.sky {
			t.Errorf("row %d sky = %v, want %v", tc.i, p.IsSky(), tc.sky)
		}
		if !tc.sky && *p.ReturnDistance != tc.dist {
			t.Errorf("row %d distance = %f, want %f", tc.i, *p.ReturnDistance, tc.dist)
		}
	}
}

func TestReadPulsesHeaderVariants(t *testing.T) {
	testCases := []struct {
		name   string
		header string
	}{
		{"canonical", "marker,return_distance"},
		{"legacy_index", "index,distance"},
		{"mixed_case", "Marker_Index,Return_Distance"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pulses, err := ReadPulses(strings.NewReader(tc.header + "\n3,1.5\n"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(pulses) != 1 || pulses[0].MarkerIndex != 3 {
				t.Errorf("pulses = %+v", pulses)
			}
		})
	}
}

func TestReadPulsesErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"empty_input", ""},
		{"missing_columns", "foo,bar\n1,2\n"},
		{"bad_marker", "marker,return_distance\nx,1.5\n"},
		{"short_row", "marker,return_distance\n1\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadPulses(strings.NewReader(tc.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var cfgErr *pcl.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigurationError, got %T: %v", err, err)
			}
		})
	}
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	content := "marker,return_distance\n0,5.5\n1,NA\n"
	for _, name := range []string{"site_b.csv", "site_a.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	files, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d, want 2", len(files))
	}
	if files[0].ID != "site_a" || files[1].ID != "site_b" {
		t.Errorf("ids = %s, %s; want sorted site_a, site_b", files[0].ID, files[1].ID)
	}
	if len(files[0].Pulses) != 2 {
		t.Errorf("pulses = %d, want 2", len(files[0].Pulses))
	}
}

func TestReadDirEmpty(t *testing.T) {
	if _, err := ReadDir(t.TempDir()); err == nil {
		t.Error("expected error for directory without transects")
	}
}
