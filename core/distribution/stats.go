package distribution

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/gridflow/lvplan/core/model"
)

// kvaPerAmp converts amperes to kVA on a 400 V three-phase system.
const kvaPerAmp = 0.4 * 1.7320508075688772

// summarize derives the run-level report from the finalized plan. It only
// reads recomputed breaker and transformer stats, so calling it twice on an
// unchanged plan yields identical values.
func summarize(transformers []*model.Transformer, limits Limits) model.DistributionSummary {
	s := model.DistributionSummary{TransformersByType: make(map[string]int)}

	var utilizations []float64
	var generalUtilizations []float64
	var totalSafe float64

	for _, t := range transformers {
		s.TransformerCount++
		s.TransformersByType[t.Type.Name]++
		s.TotalCDLAmps += t.AssignedLoad
		totalSafe += t.Type.SafeLoadAmps
		if t.AssignedLoad > t.SafeLoad() {
			s.OverloadedTransformers++
		}
		for _, b := range t.Breakers {
			if len(b.Meters) == 0 {
				continue
			}
			s.BreakerCount++
			s.MeterCount += len(b.Meters)
			utilizations = append(utilizations, b.UtilizationPercent)
			if !b.Dedicated {
				generalUtilizations = append(generalUtilizations, b.UtilizationPercent)
			}
			if b.Load > b.EffectiveCapacity(limits.BreakerSafeAmps) {
				s.OverloadedBreakers++
			}
		}
	}

	s.TotalKVA = s.TotalCDLAmps * kvaPerAmp

	if len(utilizations) > 0 {
		s.MinUtilization = utilizations[0]
		s.MaxUtilization = utilizations[0]
		for _, u := range utilizations {
			s.MinUtilization = math.Min(s.MinUtilization, u)
			s.MaxUtilization = math.Max(s.MaxUtilization, u)
		}
		s.AvgUtilization = stat.Mean(utilizations, nil)
	}

	s.BalanceScore = balanceScore(generalUtilizations)
	if totalSafe > 0 {
		s.EfficiencyPercent = s.TotalCDLAmps / totalSafe * 100
	}
	return s
}

// balanceScore maps the utilization spread of the general breakers onto a
// 0-100 scale. Fewer than two such breakers means nothing can be skewed.
func balanceScore(utilizations []float64) float64 {
	if len(utilizations) < 2 {
		return 100
	}
	score := 100 - 2*stat.PopStdDev(utilizations, nil)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
