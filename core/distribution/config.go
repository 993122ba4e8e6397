package distribution

import "fmt"

// Weights tune the breaker scoring formula. The values are empirically
// chosen; they are exposed as configuration rather than hard-coded so they
// can be adjusted per deployment.
type Weights struct {
	// Target rewards landing the post-add load close to the per-breaker
	// target for the current batch.
	Target float64 `json:"target" yaml:"target"`
	// Balance rewards a low standard deviation across the batch breakers.
	Balance float64 `json:"balance" yaml:"balance"`
	// Diversity rewards breakers not yet hosting the meter's load category.
	Diversity float64 `json:"diversity" yaml:"diversity"`
	// Fill biases placement towards lighter breakers.
	Fill float64 `json:"fill" yaml:"fill"`
}

// Limits collect the hard capacity constants and iteration bounds.
type Limits struct {
	BreakerSafeAmps        float64 `json:"breaker_safe_amps" yaml:"breaker_safe_amps"`
	SplitMinAmps           float64 `json:"split_min_amps" yaml:"split_min_amps"`
	DedicatedMinAmps       float64 `json:"dedicated_min_amps" yaml:"dedicated_min_amps"`
	RebalanceRounds        int     `json:"rebalance_rounds" yaml:"rebalance_rounds"`
	RebalanceThresholdAmps float64 `json:"rebalance_threshold_amps" yaml:"rebalance_threshold_amps"`
	ConsolidationRounds    int     `json:"consolidation_rounds" yaml:"consolidation_rounds"`
	ConsolidationMinAmps   float64 `json:"consolidation_min_amps" yaml:"consolidation_min_amps"`
	ConsolidationMaxAmps   float64 `json:"consolidation_max_amps" yaml:"consolidation_max_amps"`
}

// Config defines everything the balancing engine needs for one run.
type Config struct {
	Catalog Catalog `json:"catalog" yaml:"catalog"`
	Weights Weights `json:"weights" yaml:"weights"`
	Limits  Limits  `json:"limits" yaml:"limits"`
}

// DefaultWeights returns the tuned scoring weights.
func DefaultWeights() Weights {
	return Weights{Target: 0.40, Balance: 0.30, Diversity: 0.15, Fill: 0.15}
}

// DefaultLimits returns the standard capacity constants and iteration caps.
func DefaultLimits() Limits {
	return Limits{
		BreakerSafeAmps:        248,
		SplitMinAmps:           400,
		DedicatedMinAmps:       1600,
		RebalanceRounds:        5,
		RebalanceThresholdAmps: 20,
		ConsolidationRounds:    20,
		ConsolidationMinAmps:   20,
		ConsolidationMaxAmps:   300,
	}
}

// DefaultConfig returns a fully populated engine configuration.
func DefaultConfig() Config {
	return Config{Catalog: DefaultCatalog(), Weights: DefaultWeights(), Limits: DefaultLimits()}
}

// SetDefaults fills any zero-valued section with its default.
func (c *Config) SetDefaults() {
	if len(c.Catalog.Types) == 0 {
		c.Catalog = DefaultCatalog()
	}
	if c.Weights == (Weights{}) {
		c.Weights = DefaultWeights()
	}
	def := DefaultLimits()
	if c.Limits.BreakerSafeAmps == 0 {
		c.Limits.BreakerSafeAmps = def.BreakerSafeAmps
	}
	if c.Limits.SplitMinAmps == 0 {
		c.Limits.SplitMinAmps = def.SplitMinAmps
	}
	if c.Limits.DedicatedMinAmps == 0 {
		c.Limits.DedicatedMinAmps = def.DedicatedMinAmps
	}
	if c.Limits.RebalanceRounds == 0 {
		c.Limits.RebalanceRounds = def.RebalanceRounds
	}
	if c.Limits.RebalanceThresholdAmps == 0 {
		c.Limits.RebalanceThresholdAmps = def.RebalanceThresholdAmps
	}
	if c.Limits.ConsolidationRounds == 0 {
		c.Limits.ConsolidationRounds = def.ConsolidationRounds
	}
	if c.Limits.ConsolidationMinAmps == 0 {
		c.Limits.ConsolidationMinAmps = def.ConsolidationMinAmps
	}
	if c.Limits.ConsolidationMaxAmps == 0 {
		c.Limits.ConsolidationMaxAmps = def.ConsolidationMaxAmps
	}
}

// Validate checks the configuration is usable by the engine.
func (c Config) Validate() error {
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if c.Limits.BreakerSafeAmps <= 0 {
		return fmt.Errorf("limits: breaker safe ceiling must be positive")
	}
	if c.Limits.DedicatedMinAmps <= c.Limits.SplitMinAmps {
		return fmt.Errorf("limits: dedicated threshold must exceed split threshold")
	}
	if c.Limits.RebalanceRounds < 0 || c.Limits.ConsolidationRounds < 0 {
		return fmt.Errorf("limits: iteration bounds must not be negative")
	}
	if c.Weights.Target < 0 || c.Weights.Balance < 0 || c.Weights.Diversity < 0 || c.Weights.Fill < 0 {
		return fmt.Errorf("weights must not be negative")
	}
	return nil
}
