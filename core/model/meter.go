package model

import "fmt"

// SplitHalf identifies which part of a split meter an individual record
// represents. Whole means the meter was never split.
type SplitHalf int

const (
	Whole SplitHalf = iota
	HalfA
	HalfB
)

// MeterID identifies an individual meter. Split meters keep the base id of
// the original meter and tag the half, so no string parsing is needed to
// find the sibling half later.
type MeterID struct {
	Base string
	Half SplitHalf
}

// String renders the id for display and export. Split halves carry the
// conventional _p1/_p2 suffixes.
func (id MeterID) String() string {
	switch id.Half {
	case HalfA:
		return id.Base + "_p1"
	case HalfB:
		return id.Base + "_p2"
	default:
		return id.Base
	}
}

// MeterGroup is one input row: a homogeneous batch of meters sharing type,
// rated capacity and demand characteristics. Groups are immutable once the
// engine runs; the input layer must guarantee
// CDLPerMeter * Count * CoincidenceFactor == TotalCDL beforehand.
type MeterGroup struct {
	ID                string  `json:"id" yaml:"id"`
	Type              string  `json:"type" yaml:"type"`
	Name              string  `json:"name" yaml:"name"`
	Count             int     `json:"count" yaml:"count"`
	CapacityAmps      float64 `json:"capacity_amps" yaml:"capacity_amps"`
	DemandFactor      float64 `json:"demand_factor" yaml:"demand_factor"`
	CoincidenceFactor float64 `json:"coincidence_factor" yaml:"coincidence_factor"`
	CDLPerMeter       float64 `json:"cdl_per_meter" yaml:"cdl_per_meter"`
	TotalCDL          float64 `json:"total_cdl" yaml:"total_cdl"`
	LoadCategory      string  `json:"load_category" yaml:"load_category"`
	UsagePattern      string  `json:"usage_pattern" yaml:"usage_pattern"`
}

// Validate checks the fields the engine relies on. Count and capacity must
// be positive and the coincident demand invariant must hold.
func (g MeterGroup) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("meter group: id is required")
	}
	if g.Count <= 0 {
		return fmt.Errorf("meter group %s: count must be positive", g.ID)
	}
	if g.CapacityAmps <= 0 {
		return fmt.Errorf("meter group %s: capacity must be positive", g.ID)
	}
	if g.DemandFactor <= 0 || g.DemandFactor > 1 {
		return fmt.Errorf("meter group %s: demand factor must be in (0,1]", g.ID)
	}
	if g.CoincidenceFactor <= 0 || g.CoincidenceFactor > 1 {
		return fmt.Errorf("meter group %s: coincidence factor must be in (0,1]", g.ID)
	}
	want := g.CDLPerMeter * float64(g.Count) * g.CoincidenceFactor
	if diff := g.TotalCDL - want; diff > 1e-6 || diff < -1e-6 {
		return fmt.Errorf("meter group %s: total CDL %.3f does not match cdl_per_meter*count*coincidence %.3f", g.ID, g.TotalCDL, want)
	}
	return nil
}

// IndividualMeter is one physical meter derived from a MeterGroup. Its CDL
// is the coincidence-adjusted share of the group total, so summing all
// individual meters reproduces the group totals exactly.
type IndividualMeter struct {
	ID           MeterID
	GroupID      string
	TypeName     string
	CapacityAmps float64
	CDL          float64
	LoadCategory string
	UsagePattern string
	Note         string
}
