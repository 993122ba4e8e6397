// Package input loads and validates meter group files. Validation lives
// here, upstream of the engine: the engine assumes every group it receives
// already satisfies the coincident demand invariant.
package input

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gridflow/lvplan/core/model"
)

// File is the on-disk shape of a meter input file.
type File struct {
	Groups []model.MeterGroup `json:"groups" yaml:"groups"`
}

// Load reads meter groups from a YAML or JSON file, derives the demand
// fields left at zero and validates every group.
func Load(path string) ([]model.MeterGroup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported input format: %s", filepath.Ext(path))
	}
	if len(f.Groups) == 0 {
		return nil, fmt.Errorf("%s: no meter groups", path)
	}
	for i := range f.Groups {
		Derive(&f.Groups[i])
		if err := f.Groups[i].Validate(); err != nil {
			return nil, err
		}
	}
	return f.Groups, nil
}

// Derive fills the demand fields that follow from the rated capacity when
// the file leaves them at zero: CDL per meter from capacity and demand
// factor, total CDL from the group invariant.
func Derive(g *model.MeterGroup) {
	if g.CoincidenceFactor == 0 {
		g.CoincidenceFactor = 1
	}
	if g.CDLPerMeter == 0 {
		g.CDLPerMeter = g.CapacityAmps * g.DemandFactor
	}
	if g.TotalCDL == 0 {
		g.TotalCDL = g.CDLPerMeter * float64(g.Count) * g.CoincidenceFactor
	}
}
