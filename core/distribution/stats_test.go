package distribution

import (
	"math"
	"testing"
)

func TestBalanceScore(t *testing.T) {
	if got := balanceScore(nil); got != 100 {
		t.Errorf("no breakers: expected 100, got %v", got)
	}
	if got := balanceScore([]float64{42}); got != 100 {
		t.Errorf("single breaker: expected 100, got %v", got)
	}
	if got := balanceScore([]float64{50, 50, 50}); got != 100 {
		t.Errorf("uniform utilization: expected 100, got %v", got)
	}
	// Population stddev of {0, 100} is 50, so the score bottoms out.
	if got := balanceScore([]float64{0, 100}); got != 0 {
		t.Errorf("maximal skew: expected 0, got %v", got)
	}
	// Stddev of {40, 60} is 10, score 100-20.
	if got := balanceScore([]float64{40, 60}); math.Abs(got-80) > 1e-9 {
		t.Errorf("expected 80, got %v", got)
	}
}

func TestSummarize_OverloadCounters(t *testing.T) {
	cfg := DefaultConfig()
	ws := newWorkspace(cfg, nopLogger{})
	tr := ws.newTransformer(&cfg.Catalog.Types[0], false, "")

	// One breaker past the 248A ceiling, and enough total load to push the
	// 300kVA unit past its 346A safe load.
	ws.commit(tr, tr.Breakers[0], meter("a", 200, 150, "residential"))
	ws.commit(tr, tr.Breakers[0], meter("b", 200, 110, "residential"))
	ws.commit(tr, tr.Breakers[1], meter("c", 150, 100, "residential"))

	s := summarize(ws.transformers, cfg.Limits)
	if s.OverloadedBreakers != 1 {
		t.Errorf("expected 1 overloaded breaker, got %d", s.OverloadedBreakers)
	}
	if s.OverloadedTransformers != 1 {
		t.Errorf("expected 1 overloaded transformer, got %d", s.OverloadedTransformers)
	}
	if s.MeterCount != 3 || s.BreakerCount != 2 {
		t.Errorf("unexpected counts: %d meters on %d breakers", s.MeterCount, s.BreakerCount)
	}
	if math.Abs(s.TotalCDLAmps-360) > 1e-9 {
		t.Errorf("expected 360A total, got %v", s.TotalCDLAmps)
	}
}

func TestSummarize_KVAConversion(t *testing.T) {
	cfg := DefaultConfig()
	ws := newWorkspace(cfg, nopLogger{})
	tr := ws.newTransformer(&cfg.Catalog.Types[0], false, "")
	ws.commit(tr, tr.Breakers[0], meter("a", 150, 100, "residential"))

	s := summarize(ws.transformers, cfg.Limits)
	want := 100 * 0.4 * math.Sqrt(3)
	if math.Abs(s.TotalKVA-want) > 1e-9 {
		t.Errorf("expected %.3f kVA for 100A, got %v", want, s.TotalKVA)
	}
}

func TestSummarize_DedicatedExcludedFromBalance(t *testing.T) {
	cfg := DefaultConfig()
	ws := newWorkspace(cfg, nopLogger{})

	gen := ws.newTransformer(&cfg.Catalog.Types[0], false, "")
	ws.commit(gen, gen.Breakers[0], meter("a", 150, 100, "residential"))
	ws.commit(gen, gen.Breakers[1], meter("b", 150, 100, "residential"))

	ded := ws.newTransformer(cfg.Catalog.DedicatedTypeFor(1700), true, "oversized meter")
	ded.Breakers[0].Dedicated = true
	ded.Breakers[0].DedicatedCapacityAmps = 1700
	ws.commit(ded, ded.Breakers[0], meter("big", 1700, 1530, "industrial"))

	s := summarize(ws.transformers, cfg.Limits)
	if s.BalanceScore != 100 {
		t.Errorf("dedicated breakers must not skew balance, got %v", s.BalanceScore)
	}
	if s.MaxUtilization <= s.MinUtilization {
		t.Errorf("dedicated utilization still counts for min/max: min %v max %v",
			s.MinUtilization, s.MaxUtilization)
	}
}

func TestSummarize_Efficiency(t *testing.T) {
	cfg := DefaultConfig()
	ws := newWorkspace(cfg, nopLogger{})
	tr := ws.newTransformer(&cfg.Catalog.Types[0], false, "")
	ws.commit(tr, tr.Breakers[0], meter("a", 200, 173, "residential"))

	s := summarize(ws.transformers, cfg.Limits)
	want := 173.0 / 346.0 * 100
	if math.Abs(s.EfficiencyPercent-want) > 1e-9 {
		t.Errorf("expected efficiency %.2f%%, got %v", want, s.EfficiencyPercent)
	}
}
