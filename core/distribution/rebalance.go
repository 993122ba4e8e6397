package distribution

import "github.com/gridflow/lvplan/core/model"

// rebalance runs the bounded local search on every general transformer:
// move the smallest movable meter from the heaviest breaker to the lightest
// until the spread drops under the threshold or the round budget runs out.
func (w *workspace) rebalance() {
	for _, t := range w.transformers {
		if t.Dedicated {
			continue
		}
		w.rebalanceTransformer(t)
	}
}

func (w *workspace) rebalanceTransformer(t *model.Transformer) {
	threshold := w.cfg.Limits.RebalanceThresholdAmps
	for round := 0; round < w.cfg.Limits.RebalanceRounds; round++ {
		lightest, heaviest := loadExtremes(t)
		if lightest == nil || heaviest == nil || lightest == heaviest {
			return
		}
		diff := heaviest.Load - lightest.Load
		if diff < threshold {
			return
		}
		m, ok := w.smallestMovable(heaviest, lightest, diff)
		if !ok {
			return
		}
		w.move(m.ID, t, heaviest, t, lightest)
		w.log.Debugw("rebalanced meter", map[string]any{
			"transformer": t.ID, "meter": m.ID.String(),
			"from": heaviest.Number, "to": lightest.Number,
		})
	}
}

// loadExtremes returns the least- and most-loaded non-dedicated breakers
// holding at least one meter.
func loadExtremes(t *model.Transformer) (lightest, heaviest *model.Breaker) {
	for _, b := range t.Breakers {
		if b.Dedicated || len(b.Meters) == 0 {
			continue
		}
		if lightest == nil || b.Load < lightest.Load {
			lightest = b
		}
		if heaviest == nil || b.Load > heaviest.Load {
			heaviest = b
		}
	}
	return lightest, heaviest
}

// smallestMovable picks the smallest meter on the source breaker whose move
// keeps the destination under the safe ceiling and strictly narrows the
// load gap, so bounded rounds cannot oscillate.
func (w *workspace) smallestMovable(from, to *model.Breaker, diff float64) (model.IndividualMeter, bool) {
	ceiling := w.cfg.Limits.BreakerSafeAmps
	var pick model.IndividualMeter
	found := false
	for _, m := range from.Meters {
		if to.Load+m.CDL > ceiling || m.CDL >= diff {
			continue
		}
		if !found || m.CDL < pick.CDL {
			pick = m
			found = true
		}
	}
	return pick, found
}

// consolidate repeatedly relocates lone small meters (20-300 A rated) off
// their breakers onto the least-loaded breaker with room anywhere in the
// plan. Freeing breakers matters because DP outlets and meter boxes are
// costed per occupied breaker, not per meter.
func (w *workspace) consolidate() {
	for iter := 0; iter < w.cfg.Limits.ConsolidationRounds; iter++ {
		if !w.consolidateOnce() {
			return
		}
	}
}

func (w *workspace) consolidateOnce() bool {
	min := w.cfg.Limits.ConsolidationMinAmps
	max := w.cfg.Limits.ConsolidationMaxAmps

	for _, t := range w.transformers {
		if t.Dedicated {
			continue
		}
		for _, b := range t.Breakers {
			if b.Dedicated || len(b.Meters) != 1 {
				continue
			}
			m := b.Meters[0]
			if m.CapacityAmps < min || m.CapacityAmps > max {
				continue
			}
			toT, to := w.bestConsolidationTarget(t, b, m)
			if to == nil {
				continue
			}
			w.move(m.ID, t, b, toT, to)
			w.log.Debugw("consolidated meter", map[string]any{
				"meter": m.ID.String(), "from_transformer": t.ID, "from_breaker": b.Number,
				"to_transformer": toT.ID, "to_breaker": to.Number,
			})
			return true
		}
	}
	return false
}

// bestConsolidationTarget finds the least-loaded occupied breaker able to
// absorb the meter, respecting both the breaker ceiling and the destination
// transformer's safe-load headroom.
func (w *workspace) bestConsolidationTarget(fromT *model.Transformer, from *model.Breaker, m model.IndividualMeter) (*model.Transformer, *model.Breaker) {
	ceiling := w.cfg.Limits.BreakerSafeAmps
	var bestT *model.Transformer
	var best *model.Breaker
	for _, ot := range w.transformers {
		if ot.Dedicated {
			continue
		}
		if ot != fromT && ot.AssignedLoad+m.CDL > ot.Type.SafeLoadAmps {
			continue
		}
		for _, ob := range ot.Breakers {
			if ob == from || ob.Dedicated || len(ob.Meters) == 0 {
				continue
			}
			if ob.Load+m.CDL > ceiling {
				continue
			}
			if best == nil || ob.Load < best.Load {
				bestT = ot
				best = ob
			}
		}
	}
	return bestT, best
}
