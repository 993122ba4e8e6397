package distribution

import (
	"fmt"
	"sort"

	"github.com/gridflow/lvplan/core/model"
)

// Catalog holds the available transformer classes sorted ascending by safe
// load. Planning happens per transformer against the shrinking remaining
// load, not upfront: placement is constrained by per-breaker limits, so a
// one-shot plan based on the aggregate alone would mis-provision breakers.
type Catalog struct {
	Types []model.TransformerType `json:"types" yaml:"types"`
}

// DefaultCatalog returns the standard 400 V distribution classes.
func DefaultCatalog() Catalog {
	return Catalog{Types: []model.TransformerType{
		{Name: "300kVA", CapacityKVA: 300, MaxCurrentAmps: 433, Breakers: 4, SafeLoadAmps: 346, MinLoadAmps: 100},
		{Name: "500kVA", CapacityKVA: 500, MaxCurrentAmps: 722, Breakers: 6, SafeLoadAmps: 577, MinLoadAmps: 170},
		{Name: "1000kVA", CapacityKVA: 1000, MaxCurrentAmps: 1443, Breakers: 8, SafeLoadAmps: 1154, MinLoadAmps: 350},
		{Name: "1500kVA", CapacityKVA: 1500, MaxCurrentAmps: 2165, Breakers: 10, SafeLoadAmps: 1732, MinLoadAmps: 520},
	}}
}

// Validate checks the catalog is non-empty and sorted ascending by safe load.
func (c Catalog) Validate() error {
	if len(c.Types) == 0 {
		return fmt.Errorf("catalog: at least one transformer type is required")
	}
	for i, tt := range c.Types {
		if tt.SafeLoadAmps <= 0 || tt.Breakers <= 0 {
			return fmt.Errorf("catalog: type %s has invalid safe load or breaker count", tt.Name)
		}
		if i > 0 && c.Types[i-1].SafeLoadAmps > tt.SafeLoadAmps {
			return fmt.Errorf("catalog: types must be sorted ascending by safe load")
		}
	}
	return nil
}

// SelectForLoad returns the smallest type whose safe load covers the given
// load. When none does, the largest type is returned and the overload is
// flagged downstream rather than prevented.
func (c Catalog) SelectForLoad(loadAmps float64) *model.TransformerType {
	i := sort.Search(len(c.Types), func(i int) bool {
		return c.Types[i].SafeLoadAmps >= loadAmps
	})
	if i == len(c.Types) {
		i = len(c.Types) - 1
	}
	return &c.Types[i]
}

// DedicatedTypeFor maps an oversized meter rating to its host transformer
// class: 1600 A meters land on the 1000 kVA class, 2500 A meters (and
// anything rated 2000 A or more) on the 1500 kVA class.
func (c Catalog) DedicatedTypeFor(capacityAmps float64) *model.TransformerType {
	wantKVA := 1000.0
	if capacityAmps >= 2000 {
		wantKVA = 1500
	}
	for i := range c.Types {
		if c.Types[i].CapacityKVA >= wantKVA {
			return &c.Types[i]
		}
	}
	return &c.Types[len(c.Types)-1]
}
