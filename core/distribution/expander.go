package distribution

import (
	"fmt"

	"github.com/gridflow/lvplan/core/model"
)

// ExpandGroups flattens meter groups into individually addressable meters.
// Each meter carries the coincidence-adjusted share of the group total, so
// the expanded CDL sum equals the sum of the group totals exactly. Groups
// with a non-positive count must be rejected by the input layer; they are
// skipped here.
func ExpandGroups(groups []model.MeterGroup) []model.IndividualMeter {
	var meters []model.IndividualMeter
	for _, g := range groups {
		if g.Count <= 0 {
			continue
		}
		share := g.TotalCDL / float64(g.Count)
		for i := 1; i <= g.Count; i++ {
			meters = append(meters, model.IndividualMeter{
				ID:           model.MeterID{Base: fmt.Sprintf("%s_%d", g.ID, i)},
				GroupID:      g.ID,
				TypeName:     g.Name,
				CapacityAmps: g.CapacityAmps,
				CDL:          share,
				LoadCategory: g.LoadCategory,
				UsagePattern: g.UsagePattern,
			})
		}
	}
	return meters
}
