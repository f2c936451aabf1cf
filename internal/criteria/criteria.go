package criteria

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Criteria describes the terrain and vegetation thresholds the upstream
// suitability classification used. It is display-only.
type Criteria struct {
	Region      string   `yaml:"region" json:"region"`
	ElevationM  Range    `yaml:"elevation_m" json:"elevation_m"`
	MaxSlopeDeg float64  `yaml:"max_slope_deg" json:"max_slope_deg"`
	Aspects     []string `yaml:"aspects" json:"aspects"`
	Vegetation  string   `yaml:"vegetation" json:"vegetation"`
	Notes       []string `yaml:"notes" json:"notes"`
}

// Load reads criteria from a YAML file, or the built-in defaults when path is
// empty.
func Load(path string) (*Criteria, error) {
	data := defaultYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading criteria file: %w", err)
		}
	}
	return Parse(data)
}

func Parse(data []byte) (*Criteria, error) {
	var c Criteria
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing criteria YAML: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Criteria) validate() error {
	if c.Region == "" {
		return errors.New("criteria: region is required")
	}
	if c.ElevationM.Min >= c.ElevationM.Max {
		return fmt.Errorf("criteria: elevation min %g must be below max %g", c.ElevationM.Min, c.ElevationM.Max)
	}
	if c.MaxSlopeDeg <= 0 || c.MaxSlopeDeg > 90 {
		return fmt.Errorf("criteria: max slope must be in (0, 90], got %g", c.MaxSlopeDeg)
	}
	return nil
}

// Summary renders the criteria as the bullet lines of the regional context
// page.
func (c *Criteria) Summary() []string {
	lines := []string{
		fmt.Sprintf("Elevation: %g–%g m", c.ElevationM.Min, c.ElevationM.Max),
		fmt.Sprintf("Slope: < %g°", c.MaxSlopeDeg),
	}
	if len(c.Aspects) > 0 {
		lines = append(lines, fmt.Sprintf("Aspect: %s facing preferred", strings.Join(c.Aspects, ", ")))
	}
	if c.Vegetation != "" {
		lines = append(lines, "Vegetation: "+c.Vegetation)
	}
	return lines
}
