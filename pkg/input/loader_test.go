package input

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridflow/lvplan/core/model"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoad_YAMLWithDerivation(t *testing.T) {
	path := writeTemp(t, "meters.yaml", `
groups:
  - id: res
    type: residential
    count: 10
    capacity_amps: 60
    demand_factor: 0.6
    coincidence_factor: 0.8
    load_category: residential
`)
	groups, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}
	g := groups[0]
	if math.Abs(g.CDLPerMeter-36) > 1e-9 {
		t.Errorf("expected derived CDL per meter 36, got %v", g.CDLPerMeter)
	}
	if math.Abs(g.TotalCDL-288) > 1e-9 {
		t.Errorf("expected derived total CDL 288, got %v", g.TotalCDL)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := writeTemp(t, "meters.json", `{
  "groups": [
    {"id": "com", "count": 2, "capacity_amps": 200, "demand_factor": 0.7}
  ]
}`)
	groups, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if groups[0].CoincidenceFactor != 1 {
		t.Errorf("expected coincidence defaulted to 1, got %v", groups[0].CoincidenceFactor)
	}
	if math.Abs(groups[0].TotalCDL-280) > 1e-9 {
		t.Errorf("expected total CDL 280, got %v", groups[0].TotalCDL)
	}
}

func TestLoad_RejectsEmptyFile(t *testing.T) {
	path := writeTemp(t, "meters.yaml", "groups: []\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for a file with no groups")
	}
}

func TestLoad_RejectsUnknownExtension(t *testing.T) {
	path := writeTemp(t, "meters.txt", "groups: []\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestLoad_RejectsInvalidGroup(t *testing.T) {
	path := writeTemp(t, "meters.yaml", `
groups:
  - id: bad
    count: 0
    capacity_amps: 60
    demand_factor: 0.6
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for zero count")
	}
}

func TestLoad_RejectsBrokenInvariant(t *testing.T) {
	path := writeTemp(t, "meters.yaml", `
groups:
  - id: bad
    count: 2
    capacity_amps: 60
    demand_factor: 0.6
    cdl_per_meter: 36
    total_cdl: 999
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error when total CDL contradicts the per-meter figure")
	}
}

func TestDerive_KeepsExplicitValues(t *testing.T) {
	g := model.MeterGroup{
		Count: 4, CapacityAmps: 100, DemandFactor: 0.5,
		CDLPerMeter: 40, CoincidenceFactor: 0.9,
	}
	Derive(&g)
	if g.CDLPerMeter != 40 {
		t.Errorf("explicit CDL per meter must not be overwritten, got %v", g.CDLPerMeter)
	}
	if math.Abs(g.TotalCDL-144) > 1e-9 {
		t.Errorf("expected total CDL 144, got %v", g.TotalCDL)
	}
}
