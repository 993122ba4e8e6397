package distribution

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gridflow/lvplan/core/model"
)

// needsSplit reports whether a meter must be divided across two breakers:
// it is below the dedicated threshold but either rated in the split range
// or too heavy for a single breaker.
func (w *workspace) needsSplit(m model.IndividualMeter) bool {
	if m.CapacityAmps >= w.cfg.Limits.DedicatedMinAmps {
		return false
	}
	return m.CapacityAmps >= w.cfg.Limits.SplitMinAmps || m.CDL > w.cfg.Limits.BreakerSafeAmps
}

// placeDedicated hosts an oversized meter on its own single-breaker
// transformer. The unit and its breaker are excluded from all later
// balancing; their safe capacity becomes the meter's own rating.
func (w *workspace) placeDedicated(m model.IndividualMeter) {
	tt := w.cfg.Catalog.DedicatedTypeFor(m.CapacityAmps)
	reason := fmt.Sprintf("dedicated to %.0fA meter %s", m.CapacityAmps, m.ID)
	t := w.newTransformer(tt, true, reason)
	b := t.Breakers[0]
	b.Dedicated = true
	b.DedicationReason = reason
	b.DedicatedCapacityAmps = m.CapacityAmps
	w.commit(t, b, m)
	w.log.Debugw("dedicated placement", map[string]any{
		"meter": m.ID.String(), "capacity_amps": m.CapacityAmps, "type": tt.Name,
	})
}

// sortGeneralQueue orders meters for placement: split meters first, then
// descending CDL within each class.
func (w *workspace) sortGeneralQueue(queue []model.IndividualMeter) {
	sort.SliceStable(queue, func(i, j int) bool {
		si, sj := w.needsSplit(queue[i]), w.needsSplit(queue[j])
		if si != sj {
			return si
		}
		return queue[i].CDL > queue[j].CDL
	})
}

// placeGeneral runs the iterative per-transformer fill: size a transformer
// to the remaining load, take a batch up to its safe load, place the batch,
// and push anything unplaced back onto the queue for the next unit.
func (w *workspace) placeGeneral(queue []model.IndividualMeter) error {
	for len(queue) > 0 {
		remaining := totalCDL(queue)
		tt := w.cfg.Catalog.SelectForLoad(remaining)
		t := w.newTransformer(tt, false, "")

		batch, rest := takeBatch(queue, tt.SafeLoadAmps)
		target := w.targetLoad(batch, t)

		var deferred []model.IndividualMeter
		for _, m := range batch {
			var ok bool
			if w.needsSplit(m) {
				ok = w.placeSplit(t, m)
			} else {
				ok = w.placeScored(t, m, target)
			}
			if !ok {
				deferred = append(deferred, m)
			}
		}
		if len(deferred) == len(batch) {
			// The freshly sized transformer accepted nothing, so no later
			// iteration can succeed either. Abort instead of dropping meters.
			return fmt.Errorf("%w: %d meters left with no hosting transformer", ErrInfeasible, len(queue))
		}
		w.log.Debugw("transformer filled", map[string]any{
			"transformer": t.ID, "type": tt.Name, "placed": len(batch) - len(deferred),
			"deferred": len(deferred), "assigned_load": t.AssignedLoad,
		})
		queue = append(deferred, rest...)
	}
	return nil
}

// placeSplit halves the meter across the breaker pair with the smallest
// combined load whose members can each take half. Both breakers become
// dedicated to the split and admit no further meters. Empty breakers accept
// an oversized half as sole occupant; the overload is reported, not hidden.
func (w *workspace) placeSplit(t *model.Transformer, m model.IndividualMeter) bool {
	half := m.CDL / 2
	ceiling := w.cfg.Limits.BreakerSafeAmps

	eligible := func(b *model.Breaker) bool {
		if b.Dedicated {
			return false
		}
		if b.Load+half <= ceiling {
			return true
		}
		return len(b.Meters) == 0 && half > ceiling
	}

	var first, second *model.Breaker
	best := math.MaxFloat64
	for i, bi := range t.Breakers {
		if !eligible(bi) {
			continue
		}
		for _, bj := range t.Breakers[i+1:] {
			if !eligible(bj) {
				continue
			}
			if combined := bi.Load + bj.Load; combined < best {
				best = combined
				first, second = bi, bj
			}
		}
	}
	if first == nil || second == nil {
		return false
	}

	reason := fmt.Sprintf("half of split meter %s", m.ID.Base)
	for _, b := range []*model.Breaker{first, second} {
		b.Dedicated = true
		b.DedicationReason = reason
	}
	partA := m
	partA.ID.Half = model.HalfA
	partA.CDL = half
	partA.Note = "part 1 of split meter"
	partB := m
	partB.ID.Half = model.HalfB
	partB.CDL = half
	partB.Note = "part 2 of split meter"
	w.commit(t, first, partA)
	w.commit(t, second, partB)
	return true
}

// placeScored assigns a normal meter to the highest-scoring eligible
// breaker. A meter whose CDL alone exceeds the ceiling may only take an
// empty breaker as sole occupant. Ties keep the first breaker found.
func (w *workspace) placeScored(t *model.Transformer, m model.IndividualMeter, target float64) bool {
	ceiling := w.cfg.Limits.BreakerSafeAmps

	var best *model.Breaker
	var bestScore float64
	for _, b := range t.Breakers {
		if b.Dedicated {
			continue
		}
		if b.Load+m.CDL > ceiling {
			if !(len(b.Meters) == 0 && m.CDL > ceiling) {
				continue
			}
		}
		score := w.scoreBreaker(t, b, m, target)
		if best == nil || score > bestScore {
			best = b
			bestScore = score
		}
	}
	if best == nil {
		return false
	}
	if m.CDL > ceiling {
		w.log.Warnf("meter %s (%.1fA) alone exceeds the %.0fA breaker ceiling", m.ID, m.CDL, ceiling)
	}
	w.commit(t, best, m)
	return true
}

// scoreBreaker computes the weighted placement score for adding the meter
// to the breaker: closeness to the target load, resulting spread across the
// transformer's general breakers, category diversity, and a bias towards
// lighter breakers.
func (w *workspace) scoreBreaker(t *model.Transformer, b *model.Breaker, m model.IndividualMeter, target float64) float64 {
	newLoad := b.Load + m.CDL

	targetScore := clampScore(100 - math.Abs(newLoad-target))

	var loads []float64
	for _, ob := range t.Breakers {
		if ob.Dedicated {
			continue
		}
		l := ob.Load
		if ob == b {
			l = newLoad
		}
		loads = append(loads, l)
	}
	balanceScore := clampScore(100 - 2*stat.PopStdDev(loads, nil))

	diversityScore := 0.0
	if !b.HasCategory(m.LoadCategory) {
		diversityScore = 100
	}

	fillScore := clampScore((w.cfg.Limits.BreakerSafeAmps - b.Load) / w.cfg.Limits.BreakerSafeAmps * 100)

	ww := w.cfg.Weights
	return ww.Target*targetScore + ww.Balance*balanceScore + ww.Diversity*diversityScore + ww.Fill*fillScore
}

// targetLoad divides the batch across the minimum number of breakers able
// to host it, capped at the breakers available on the transformer.
func (w *workspace) targetLoad(batch []model.IndividualMeter, t *model.Transformer) float64 {
	batchLoad := totalCDL(batch)
	if batchLoad <= 0 {
		return 0
	}
	free := 0
	for _, b := range t.Breakers {
		if !b.Dedicated {
			free++
		}
	}
	n := int(math.Ceil(batchLoad / w.cfg.Limits.BreakerSafeAmps))
	if n < 1 {
		n = 1
	}
	if free > 0 && n > free {
		n = free
	}
	return batchLoad / float64(n)
}

// takeBatch pops meters from the queue front while they fit under the safe
// load, always taking at least one so progress is guaranteed.
func takeBatch(queue []model.IndividualMeter, safeLoad float64) (batch, rest []model.IndividualMeter) {
	var sum float64
	i := 0
	for ; i < len(queue); i++ {
		if i > 0 && sum+queue[i].CDL > safeLoad {
			break
		}
		sum += queue[i].CDL
	}
	return queue[:i], queue[i:]
}

func totalCDL(meters []model.IndividualMeter) float64 {
	var sum float64
	for _, m := range meters {
		sum += m.CDL
	}
	return sum
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
