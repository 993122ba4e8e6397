// Package connection derives the physical wiring scheme from a balanced
// plan: split-breaker pairs are recombined into logical units, meters are
// classified by capacity tier, light meters share DP outlets through a
// best-fit packing pass, and every connection point receives its cable,
// fuse and meter-box configuration.
package connection

import (
	"fmt"
	"math"
	"sort"

	"github.com/gridflow/lvplan/core/logger"
	"github.com/gridflow/lvplan/core/model"
)

// Capacity tiers. Heavy meters feed directly from the substation, medium
// meters get individual CT-metered DP connections, light meters share DP
// outlets.
const (
	heavyMinAmps  = 300
	mediumMinAmps = 200
)

// Resolver turns transformers of a balanced plan into final connections.
type Resolver struct {
	cfg Config
	log logger.Logger
}

// New returns a Resolver. A nil logger is replaced with a no-op.
func New(cfg Config, log logger.Logger) (*Resolver, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Resolver{cfg: cfg, log: log}, nil
}

// logicalGroup is one recombined breaker unit: either a plain occupied
// breaker or a merged split pair.
type logicalGroup struct {
	transformerID int
	breakers      []int
	meters        []model.IndividualMeter
}

// Resolve computes the final connection records for the given plan. The
// input is treated as read-only.
func (r *Resolver) Resolve(transformers []*model.Transformer) []model.FinalConnection {
	groups := r.buildGroups(transformers)

	outlet := 1
	var conns []model.FinalConnection
	for _, g := range groups {
		var heavy, medium, light []model.IndividualMeter
		for _, m := range g.meters {
			switch {
			case m.CapacityAmps >= heavyMinAmps:
				heavy = append(heavy, m)
			case m.CapacityAmps >= mediumMinAmps:
				medium = append(medium, m)
			default:
				light = append(light, m)
			}
		}

		for _, m := range heavy {
			conns = append(conns, r.newConnection(g, []model.IndividualMeter{m}, r.ssConfig(m.CDL, m.CapacityAmps), nil))
		}
		for _, m := range medium {
			cfg := r.dpConfig(m.CDL)
			cfg.BoxType = "200/250A CT box"
			conns = append(conns, r.newConnection(g, []model.IndividualMeter{m}, cfg, r.takeOutlets(&outlet, cfg.CableCount)))
		}
		for _, bin := range r.packLight(light) {
			cfg := r.dpConfig(bin.load)
			conns = append(conns, r.newConnection(g, bin.meters, cfg, r.takeOutlets(&outlet, cfg.CableCount)))
		}
	}
	r.log.Infof("resolved %d connections from %d logical groups", len(conns), len(groups))
	return conns
}

// buildGroups recombines split pairs and wraps every remaining occupied
// breaker, sorted by transformer id then leading breaker number.
func (r *Resolver) buildGroups(transformers []*model.Transformer) []logicalGroup {
	var groups []logicalGroup
	for _, t := range transformers {
		consumed := make(map[*model.Breaker]bool)
		for _, b := range t.Breakers {
			partB, ok := splitHalf(b, model.HalfB)
			if !ok {
				continue
			}
			sibling := findSibling(t, partB.ID.Base)
			if sibling == nil {
				r.log.Warnf("split meter %s has no first half on transformer %d", partB.ID.Base, t.ID)
				continue
			}
			partA, _ := splitHalf(sibling, model.HalfA)
			merged := mergeSplit(partA, partB)
			meters := []model.IndividualMeter{merged}
			meters = append(meters, othersThan(sibling, partA.ID)...)
			meters = append(meters, othersThan(b, partB.ID)...)
			nums := []int{sibling.Number, b.Number}
			sort.Ints(nums)
			groups = append(groups, logicalGroup{transformerID: t.ID, breakers: nums, meters: meters})
			consumed[b] = true
			consumed[sibling] = true
		}
		for _, b := range t.Breakers {
			if consumed[b] || len(b.Meters) == 0 {
				continue
			}
			meters := make([]model.IndividualMeter, len(b.Meters))
			copy(meters, b.Meters)
			groups = append(groups, logicalGroup{transformerID: t.ID, breakers: []int{b.Number}, meters: meters})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].transformerID != groups[j].transformerID {
			return groups[i].transformerID < groups[j].transformerID
		}
		return groups[i].breakers[0] < groups[j].breakers[0]
	})
	return groups
}

// splitHalf returns the split-half meter of the given side hosted on the
// breaker, if any.
func splitHalf(b *model.Breaker, half model.SplitHalf) (model.IndividualMeter, bool) {
	for _, m := range b.Meters {
		if m.ID.Half == half {
			return m, true
		}
	}
	return model.IndividualMeter{}, false
}

// findSibling locates the breaker of the same transformer holding the first
// half of the split meter with the given base id.
func findSibling(t *model.Transformer, base string) *model.Breaker {
	for _, b := range t.Breakers {
		for _, m := range b.Meters {
			if m.ID.Half == model.HalfA && m.ID.Base == base {
				return b
			}
		}
	}
	return nil
}

// mergeSplit reconstitutes the original meter from its two halves.
func mergeSplit(partA, partB model.IndividualMeter) model.IndividualMeter {
	merged := partA
	merged.ID.Half = model.Whole
	merged.CDL = partA.CDL + partB.CDL
	merged.Note = ""
	return merged
}

// othersThan returns the breaker's meters except the one with the given id.
func othersThan(b *model.Breaker, id model.MeterID) []model.IndividualMeter {
	var rest []model.IndividualMeter
	for _, m := range b.Meters {
		if m.ID != id {
			rest = append(rest, m)
		}
	}
	return rest
}

// bin is one shared DP outlet being filled.
type bin struct {
	meters []model.IndividualMeter
	load   float64
}

// packLight groups light meters onto shared outlets: descending by CDL,
// each meter joins the open bin with the smallest remaining headroom that
// still fits it, or opens a new bin.
func (r *Resolver) packLight(meters []model.IndividualMeter) []*bin {
	sorted := make([]model.IndividualMeter, len(meters))
	copy(sorted, meters)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CDL > sorted[j].CDL })

	var bins []*bin
	for _, m := range sorted {
		var best *bin
		for _, b := range bins {
			if b.load+m.CDL > r.cfg.BreakerSafeAmps {
				continue
			}
			if best == nil || b.load > best.load {
				best = b
			}
		}
		if best == nil {
			best = &bin{}
			bins = append(bins, best)
		}
		best.meters = append(best.meters, m)
		best.load += m.CDL
	}
	return bins
}

// dpConfig selects the DP cable configuration by fixed CDL breakpoints.
func (r *Resolver) dpConfig(cdl float64) model.ConnectionConfig {
	var count, size int
	switch {
	case cdl <= 108:
		count, size = 1, 70
	case cdl <= 184:
		count, size = 1, 185
	case cdl <= 216:
		count, size = 2, 70
	default:
		count, size = 2, 185
	}
	return model.ConnectionConfig{
		Feed:         model.FeedDP,
		FuseCount:    count * r.cfg.FusesPerCable,
		CableCount:   count,
		CableSizeMM2: size,
		FeederDesc:   fmt.Sprintf("%d x %dmm² from DP", count, size),
		BoxType:      "standard meter box",
	}
}

// ssConfig selects the substation feed configuration for a heavy meter.
func (r *Resolver) ssConfig(cdl, capacityAmps float64) model.ConnectionConfig {
	count := 1
	switch {
	case cdl <= r.cfg.BreakerSafeAmps:
		count = 1
	case cdl <= 2*r.cfg.BreakerSafeAmps:
		count = 2
	default:
		count = int(math.Ceil(cdl / r.cfg.BreakerSafeAmps))
	}
	return model.ConnectionConfig{
		Feed:         model.FeedSS,
		FuseCount:    count * r.cfg.FusesPerCable,
		CableCount:   count,
		CableSizeMM2: 300,
		FeederDesc:   fmt.Sprintf("%d x 300mm² from SS", count),
		BoxType:      heavyBoxType(capacityAmps),
	}
}

// heavyBoxType picks the meter-box label by fixed capacity breakpoints.
func heavyBoxType(capacityAmps float64) string {
	switch {
	case capacityAmps >= 800:
		return "remote metering box"
	case capacityAmps >= 500:
		return "500-600A CT box"
	default:
		return "300-400A box"
	}
}

// takeOutlets reserves cableCount sequential DP outlet numbers.
func (r *Resolver) takeOutlets(next *int, cableCount int) []int {
	nums := make([]int, 0, cableCount)
	for i := 0; i < cableCount; i++ {
		nums = append(nums, *next)
		*next++
	}
	return nums
}

func (r *Resolver) newConnection(g logicalGroup, meters []model.IndividualMeter, cfg model.ConnectionConfig, outlets []int) model.FinalConnection {
	var total float64
	ids := make([]string, 0, len(meters))
	for _, m := range meters {
		total += m.CDL
		ids = append(ids, m.ID.String())
	}
	return model.FinalConnection{
		TransformerID:  g.transformerID,
		BreakerNumbers: g.breakers,
		Meters:         meters,
		MeterIDs:       ids,
		TotalCDL:       total,
		Config:         cfg,
		OutletNumbers:  outlets,
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
