package model

// DistributionSummary is a derived snapshot of one balanced plan. It is
// recomputed from the transformers and never a source of truth.
type DistributionSummary struct {
	TransformerCount int `json:"transformer_count"`
	BreakerCount     int `json:"breaker_count"`
	MeterCount       int `json:"meter_count"`

	TotalCDLAmps float64 `json:"total_cdl_amps"`
	TotalKVA     float64 `json:"total_kva"`

	OverloadedBreakers     int `json:"overloaded_breakers"`
	OverloadedTransformers int `json:"overloaded_transformers"`

	MinUtilization float64 `json:"min_utilization"`
	MaxUtilization float64 `json:"max_utilization"`
	AvgUtilization float64 `json:"avg_utilization"`

	BalanceScore      float64 `json:"balance_score"`
	EfficiencyPercent float64 `json:"efficiency_percent"`

	TransformersByType map[string]int `json:"transformers_by_type"`
}

// DistributionResults is the full outcome of one balancing run. Consumers
// must treat it as an immutable value tree.
type DistributionResults struct {
	RunID        string
	Transformers []*Transformer
	Summary      DistributionSummary
}

// FeedSource identifies the physical feed point of a connection.
type FeedSource string

const (
	FeedDP FeedSource = "DP"
	FeedSS FeedSource = "SS"
)

// ConnectionConfig describes the wiring of one physical connection point.
type ConnectionConfig struct {
	Feed         FeedSource `json:"feed"`
	FuseCount    int        `json:"fuse_count"`
	CableCount   int        `json:"cable_count"`
	CableSizeMM2 int        `json:"cable_size_mm2"`
	FeederDesc   string     `json:"feeder_desc"`
	BoxType      string     `json:"box_type"`
}

// FinalConnection binds one or more meters, already recombined across split
// breakers, to a single physical connection point.
type FinalConnection struct {
	TransformerID  int               `json:"transformer_id"`
	BreakerNumbers []int             `json:"breaker_numbers"`
	Meters         []IndividualMeter `json:"-"`
	MeterIDs       []string          `json:"meter_ids"`
	TotalCDL       float64           `json:"total_cdl"`
	Config         ConnectionConfig  `json:"config"`
	OutletNumbers  []int             `json:"outlet_numbers,omitempty"`
}
