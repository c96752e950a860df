package pcl

import (
	"errors"
	"testing"
)

func TestTransectLength(t *testing.T) {
	testCases := []struct {
		name      string
		pulses    []PulseRecord
		spacing   int
		expected  int
		expectErr bool
	}{
		{"one_marker_interval", []PulseRecord{sky(0, 0), sky(1, 1)}, 10, 10, false},
		{"three_intervals", []PulseRecord{sky(0, 0), sky(1, 3)}, 10, 30, false},
		{"custom_spacing", []PulseRecord{sky(0, 0), sky(1, 2)}, 5, 10, false},
		{"no_pulses", nil, 10, 0, true},
		{"no_markers_past_zero", []PulseRecord{sky(0, 0), sky(1, 0)}, 10, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TransectLength(tc.pulses, tc.spacing)
			if tc.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var cfgErr *ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Errorf("expected ConfigurationError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("length = %d, want %d", got, tc.expected)
			}
		})
	}
}

func TestClassifyTotalAndExclusive(t *testing.T) {
	pulses := []PulseRecord{
		canopy(0, 0, 12.5),
		sky(1, 0),
		canopy(2, 1, 3.0),
		sky(3, 1),
	}
	cfg := DefaultConfig()

	classified := Classify(pulses, cfg)
	if len(classified) != len(pulses) {
		t.Fatalf("classifier dropped pulses: got %d, want %d", len(classified), len(pulses))
	}

	hits := 0
	for _, c := range classified {
		if c.CanopyHit {
			hits++
		}
	}
	if hits != 2 {
		t.Errorf("canopy hits = %d, want 2", hits)
	}
}

func TestClassifyHeightAdjustment(t *testing.T) {
	testCases := []struct {
		name       string
		dist       float64
		userHeight float64
		expected   float64
	}{
		{"normal_return", 12.5, 1.0, 11.5},
		{"at_mount_height", 1.0, 1.0, 0},
		{"below_ground_clamped", 0.4, 1.0, 0},
		{"zero_offset", 5.0, 0, 5.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig().WithUserHeight(tc.userHeight)
			classified := Classify([]PulseRecord{canopy(0, 0, tc.dist)}, cfg)
			if !classified[0].CanopyHit {
				t.Fatal("expected canopy hit")
			}
			if classified[0].Height != tc.expected {
				t.Errorf("height = %f, want %f", classified[0].Height, tc.expected)
			}
		})
	}
}

func TestClassifyOutOfRangeFilter(t *testing.T) {
	cfg := DefaultConfig().WithMaxReturnDistance(30)
	classified := Classify([]PulseRecord{
		canopy(0, 0, 12.0),
		canopy(1, 0, 45.0), // beyond sensor range
	}, cfg)

	if !classified[0].CanopyHit {
		t.Error("in-range return should be a canopy hit")
	}
	if classified[1].CanopyHit {
		t.Error("out-of-range return should be classified as sky hit")
	}
}

func TestClassifyRestoresAcquisitionOrder(t *testing.T) {
	pulses := []PulseRecord{
		canopy(2, 1, 3.0),
		sky(0, 0),
		canopy(1, 0, 5.0),
	}
	classified := Classify(pulses, DefaultConfig())
	for i, c := range classified {
		if c.Seq != i {
			t.Errorf("position %d has seq %d, want %d", i, c.Seq, i)
		}
	}
}

func TestCover(t *testing.T) {
	testCases := []struct {
		name          string
		pulses        []PulseRecord
		wantSky       float64
		wantCover     float64
		wantTotal     int
		wantSkyCount  int
		wantHitsCount int
	}{
		{"mixed", []PulseRecord{canopy(0, 0, 5), sky(1, 0), sky(2, 1), canopy(3, 1, 2)}, 0.5, 0.5, 4, 2, 2},
		{"all_sky", []PulseRecord{sky(0, 0), sky(1, 1)}, 1, 0, 2, 2, 0},
		{"all_canopy", []PulseRecord{canopy(0, 0, 5), canopy(1, 1, 6)}, 0, 1, 2, 0, 2},
		{"empty", nil, 0, 0, 0, 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := Cover(Classify(tc.pulses, DefaultConfig()))
			if m.SkyFraction != tc.wantSky {
				t.Errorf("sky fraction = %f, want %f", m.SkyFraction, tc.wantSky)
			}
			if m.CoverFraction != tc.wantCover {
				t.Errorf("cover fraction = %f, want %f", m.CoverFraction, tc.wantCover)
			}
			if m.TotalPulses != tc.wantTotal || m.SkyHits != tc.wantSkyCount || m.CanopyHits != tc.wantHitsCount {
				t.Errorf("counts = (%d, %d, %d), want (%d, %d, %d)",
					m.TotalPulses, m.SkyHits, m.CanopyHits, tc.wantTotal, tc.wantSkyCount, tc.wantHitsCount)
			}
		})
	}
}
