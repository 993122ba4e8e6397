package connection

import "fmt"

// Config fixes the wiring breakpoints of the resolver. The cable tables are
// utility standards; only the ceiling and fuse convention are expected to
// vary between deployments.
type Config struct {
	// BreakerSafeAmps is the shared-bin ceiling and the SS cable step.
	BreakerSafeAmps float64 `json:"breaker_safe_amps" yaml:"breaker_safe_amps"`
	// FusesPerCable is the fuse count installed per cable run.
	FusesPerCable int `json:"fuses_per_cable" yaml:"fuses_per_cable"`
}

// DefaultConfig returns the standard three-phase wiring constants.
func DefaultConfig() Config {
	return Config{BreakerSafeAmps: 248, FusesPerCable: 3}
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	if c.BreakerSafeAmps == 0 {
		c.BreakerSafeAmps = 248
	}
	if c.FusesPerCable == 0 {
		c.FusesPerCable = 3
	}
}

// Validate checks the constants are usable.
func (c Config) Validate() error {
	if c.BreakerSafeAmps <= 0 {
		return fmt.Errorf("connection: breaker safe ceiling must be positive")
	}
	if c.FusesPerCable <= 0 {
		return fmt.Errorf("connection: fuses per cable must be positive")
	}
	return nil
}
