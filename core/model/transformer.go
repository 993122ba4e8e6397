package model

// TransformerType is a catalog constant describing one standard transformer
// class. Instances are shared by pointer across every Transformer of that
// class and never mutated.
type TransformerType struct {
	Name           string  `json:"name" yaml:"name"`
	CapacityKVA    float64 `json:"capacity_kva" yaml:"capacity_kva"`
	MaxCurrentAmps float64 `json:"max_current_amps" yaml:"max_current_amps"`
	Breakers       int     `json:"breakers" yaml:"breakers"`
	SafeLoadAmps   float64 `json:"safe_load_amps" yaml:"safe_load_amps"`
	MinLoadAmps    float64 `json:"min_load_amps" yaml:"min_load_amps"`
}

// Breaker is one capacity slot inside a transformer. Load and the derived
// sets are recomputed by the workspace after every membership change and
// must never be written directly.
type Breaker struct {
	Number             int
	Meters             []IndividualMeter
	Load               float64
	UtilizationPercent float64

	// Dedicated breakers are reserved for a single oversized meter or one
	// half of a split meter and excluded from general balancing.
	Dedicated        bool
	DedicationReason string
	// DedicatedCapacityAmps overrides the standard ceiling when the breaker
	// hosts an oversized meter (the meter's own rated capacity).
	DedicatedCapacityAmps float64

	TypeNames      []string
	LoadCategories []string
	UsagePatterns  []string
}

// EffectiveCapacity returns the capacity used for utilization: the
// dedicated-meter rating when set, otherwise the standard safe ceiling.
func (b *Breaker) EffectiveCapacity(standardAmps float64) float64 {
	if b.DedicatedCapacityAmps > 0 {
		return b.DedicatedCapacityAmps
	}
	return standardAmps
}

// HasCategory reports whether a meter of the given load category is already
// present on the breaker.
func (b *Breaker) HasCategory(category string) bool {
	for _, c := range b.LoadCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Transformer is one allocated unit. IDs are reassigned densely after empty
// units are filtered out, so consumers can rely on 1..n numbering.
type Transformer struct {
	ID           int
	Type         *TransformerType
	Breakers     []*Breaker
	AssignedLoad float64

	// Dedicated transformers host exactly one oversized meter and are
	// excluded from balancing and from standard overload checks.
	Dedicated        bool
	DedicationReason string
}

// SafeLoad returns the load the transformer may carry without being flagged.
// Dedicated units are sized to their single meter, so their breaker's
// dedicated rating is the reference instead of the catalog threshold.
func (t *Transformer) SafeLoad() float64 {
	if t.Dedicated && len(t.Breakers) == 1 && t.Breakers[0].DedicatedCapacityAmps > 0 {
		return t.Breakers[0].DedicatedCapacityAmps
	}
	return t.Type.SafeLoadAmps
}

// ActiveBreakers returns the breakers currently holding at least one meter.
func (t *Transformer) ActiveBreakers() []*Breaker {
	var active []*Breaker
	for _, b := range t.Breakers {
		if len(b.Meters) > 0 {
			active = append(active, b)
		}
	}
	return active
}
