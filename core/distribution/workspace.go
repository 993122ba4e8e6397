package distribution

import (
	"github.com/gridflow/lvplan/core/logger"
	"github.com/gridflow/lvplan/core/model"
)

// workspace owns every transformer and breaker of one run. All membership
// mutation goes through commit and move so breaker and transformer stats
// are recomputed atomically with the change; derived fields are never read
// before recomputation.
type workspace struct {
	cfg          Config
	log          logger.Logger
	transformers []*model.Transformer
}

func newWorkspace(cfg Config, log logger.Logger) *workspace {
	return &workspace{cfg: cfg, log: log}
}

// newTransformer allocates a unit of the given class. Dedicated units get a
// single breaker; general units get the full complement of their class.
func (w *workspace) newTransformer(tt *model.TransformerType, dedicated bool, reason string) *model.Transformer {
	n := tt.Breakers
	if dedicated {
		n = 1
	}
	t := &model.Transformer{
		ID:               len(w.transformers) + 1,
		Type:             tt,
		Dedicated:        dedicated,
		DedicationReason: reason,
	}
	for i := 1; i <= n; i++ {
		t.Breakers = append(t.Breakers, &model.Breaker{Number: i})
	}
	w.transformers = append(w.transformers, t)
	return t
}

// commit adds a meter to a breaker and immediately recomputes the stats of
// the breaker and its transformer.
func (w *workspace) commit(t *model.Transformer, b *model.Breaker, m model.IndividualMeter) {
	b.Meters = append(b.Meters, m)
	w.recomputeBreaker(b)
	w.recomputeTransformer(t)
}

// move transfers a meter between breakers, possibly across transformers,
// and recomputes all touched stats. It reports whether the meter was found.
func (w *workspace) move(id model.MeterID, fromT *model.Transformer, from *model.Breaker, toT *model.Transformer, to *model.Breaker) bool {
	for i, m := range from.Meters {
		if m.ID != id {
			continue
		}
		from.Meters = append(from.Meters[:i], from.Meters[i+1:]...)
		to.Meters = append(to.Meters, m)
		w.recomputeBreaker(from)
		w.recomputeBreaker(to)
		w.recomputeTransformer(fromT)
		if toT != fromT {
			w.recomputeTransformer(toT)
		}
		return true
	}
	return false
}

func (w *workspace) recomputeBreaker(b *model.Breaker) {
	var load float64
	b.TypeNames = b.TypeNames[:0]
	b.LoadCategories = b.LoadCategories[:0]
	b.UsagePatterns = b.UsagePatterns[:0]
	for _, m := range b.Meters {
		load += m.CDL
		b.TypeNames = appendDistinct(b.TypeNames, m.TypeName)
		b.LoadCategories = appendDistinct(b.LoadCategories, m.LoadCategory)
		b.UsagePatterns = appendDistinct(b.UsagePatterns, m.UsagePattern)
	}
	b.Load = load
	cap := b.EffectiveCapacity(w.cfg.Limits.BreakerSafeAmps)
	b.UtilizationPercent = 0
	if cap > 0 {
		b.UtilizationPercent = load / cap * 100
	}
}

func (w *workspace) recomputeTransformer(t *model.Transformer) {
	var load float64
	for _, b := range t.Breakers {
		load += b.Load
	}
	t.AssignedLoad = load
}

func (w *workspace) recomputeAll() {
	for _, t := range w.transformers {
		for _, b := range t.Breakers {
			w.recomputeBreaker(b)
		}
		w.recomputeTransformer(t)
	}
}

// finalize drops transformers that ended up empty (consolidation can drain
// them) and renumbers the survivors densely from 1.
func (w *workspace) finalize() []*model.Transformer {
	var out []*model.Transformer
	for _, t := range w.transformers {
		if t.AssignedLoad <= 0 && len(t.ActiveBreakers()) == 0 {
			continue
		}
		t.ID = len(out) + 1
		out = append(out, t)
	}
	w.transformers = out
	return out
}

func appendDistinct(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
