package criteria

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Default(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Region != "Qarabagh" {
		t.Errorf("expected region Qarabagh, got %q", c.Region)
	}
	if c.ElevationM.Min != 1400 || c.ElevationM.Max != 3000 {
		t.Errorf("unexpected elevation range %+v", c.ElevationM)
	}
	if c.MaxSlopeDeg != 20 {
		t.Errorf("expected max slope 20, got %v", c.MaxSlopeDeg)
	}

	summary := strings.Join(c.Summary(), "\n")
	for _, want := range []string{"Elevation: 1400–3000 m", "Slope: < 20°", "N, NE", "NDVI-based validation"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.yaml")
	data := []byte("region: Andar\nelevation_m: {min: 1000, max: 2500}\nmax_slope_deg: 15\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Region != "Andar" || c.MaxSlopeDeg != 15 {
		t.Errorf("unexpected criteria %+v", c)
	}
	if len(c.Summary()) != 2 {
		t.Errorf("expected only elevation and slope lines, got %v", c.Summary())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "region: [unclosed"},
		{"no region", "elevation_m: {min: 1, max: 2}\nmax_slope_deg: 10\n"},
		{"inverted elevation", "region: A\nelevation_m: {min: 3000, max: 1400}\nmax_slope_deg: 10\n"},
		{"slope too steep", "region: A\nelevation_m: {min: 1, max: 2}\nmax_slope_deg: 95\n"},
		{"slope zero", "region: A\nelevation_m: {min: 1, max: 2}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
