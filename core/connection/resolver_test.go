package connection

import (
	"math"
	"testing"

	"github.com/gridflow/lvplan/core/model"
)

func mustResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := New(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return r
}

func lightMeter(id string, capacity, cdl float64) model.IndividualMeter {
	return model.IndividualMeter{
		ID:           model.MeterID{Base: id},
		CapacityAmps: capacity,
		CDL:          cdl,
	}
}

func breaker(number int, meters ...model.IndividualMeter) *model.Breaker {
	b := &model.Breaker{Number: number, Meters: meters}
	for _, m := range meters {
		b.Load += m.CDL
	}
	return b
}

func TestResolve_RecombinesSplit(t *testing.T) {
	partA := model.IndividualMeter{
		ID: model.MeterID{Base: "s_1", Half: model.HalfA}, CapacityAmps: 600, CDL: 240,
	}
	partB := model.IndividualMeter{
		ID: model.MeterID{Base: "s_1", Half: model.HalfB}, CapacityAmps: 600, CDL: 240,
	}
	tr := &model.Transformer{ID: 1, Type: &model.TransformerType{Name: "500kVA"}, Breakers: []*model.Breaker{
		breaker(1, partA), breaker(2, partB),
	}}
	tr.Breakers[0].Dedicated = true
	tr.Breakers[1].Dedicated = true

	conns := mustResolver(t).Resolve([]*model.Transformer{tr})
	if len(conns) != 1 {
		t.Fatalf("expected one merged connection, got %d", len(conns))
	}
	c := conns[0]
	if len(c.BreakerNumbers) != 2 || c.BreakerNumbers[0] != 1 || c.BreakerNumbers[1] != 2 {
		t.Errorf("expected breakers [1 2], got %v", c.BreakerNumbers)
	}
	if math.Abs(c.TotalCDL-480) > 1e-9 {
		t.Errorf("expected merged CDL 480, got %v", c.TotalCDL)
	}
	if len(c.Meters) != 1 || c.Meters[0].ID.Half != model.Whole {
		t.Fatalf("halves must merge back into one whole meter")
	}
	if c.Config.Feed != model.FeedSS {
		t.Errorf("a 600A meter feeds from the substation, got %v", c.Config.Feed)
	}
	if c.Config.CableCount != 2 || c.Config.CableSizeMM2 != 300 {
		t.Errorf("480A CDL wants 2 x 300mm², got %d x %dmm²", c.Config.CableCount, c.Config.CableSizeMM2)
	}
	if c.Config.FuseCount != 6 {
		t.Errorf("expected 6 fuses for 2 cables, got %d", c.Config.FuseCount)
	}
	if len(c.OutletNumbers) != 0 {
		t.Errorf("substation feeds consume no DP outlets, got %v", c.OutletNumbers)
	}
}

func TestResolve_OrphanHalfSkipped(t *testing.T) {
	partB := model.IndividualMeter{
		ID: model.MeterID{Base: "s_1", Half: model.HalfB}, CapacityAmps: 600, CDL: 240,
	}
	tr := &model.Transformer{ID: 1, Type: &model.TransformerType{Name: "500kVA"}, Breakers: []*model.Breaker{
		breaker(1, partB),
	}}
	conns := mustResolver(t).Resolve([]*model.Transformer{tr})
	// The orphan is still wired as a plain breaker group rather than dropped.
	if len(conns) != 1 {
		t.Fatalf("expected the orphan half wired standalone, got %d connections", len(conns))
	}
}

func TestResolve_Tiers(t *testing.T) {
	tr := &model.Transformer{ID: 1, Type: &model.TransformerType{Name: "500kVA"}, Breakers: []*model.Breaker{
		breaker(1, lightMeter("heavy_1", 400, 240)),
		breaker(2, lightMeter("medium_1", 200, 140)),
		breaker(3, lightMeter("light_1", 60, 36), lightMeter("light_2", 60, 36)),
	}}

	conns := mustResolver(t).Resolve([]*model.Transformer{tr})
	if len(conns) != 3 {
		t.Fatalf("expected 3 connections, got %d", len(conns))
	}
	heavy, medium, light := conns[0], conns[1], conns[2]

	if heavy.Config.Feed != model.FeedSS || heavy.Config.BoxType != "300-400A box" {
		t.Errorf("heavy tier: got feed %v box %q", heavy.Config.Feed, heavy.Config.BoxType)
	}
	if medium.Config.Feed != model.FeedDP || medium.Config.BoxType != "200/250A CT box" {
		t.Errorf("medium tier: got feed %v box %q", medium.Config.Feed, medium.Config.BoxType)
	}
	if light.Config.Feed != model.FeedDP || light.Config.BoxType != "standard meter box" {
		t.Errorf("light tier: got feed %v box %q", light.Config.Feed, light.Config.BoxType)
	}
	if len(light.Meters) != 2 {
		t.Errorf("expected both light meters sharing one outlet, got %d", len(light.Meters))
	}
}

func TestResolve_OutletNumbering(t *testing.T) {
	// First group takes a 2-cable DP config (200A CDL), second takes 1 cable.
	tr := &model.Transformer{ID: 1, Type: &model.TransformerType{Name: "500kVA"}, Breakers: []*model.Breaker{
		breaker(1, lightMeter("a_1", 240, 200)),
		breaker(2, lightMeter("b_1", 100, 70)),
	}}
	conns := mustResolver(t).Resolve([]*model.Transformer{tr})
	if len(conns) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(conns))
	}
	first, second := conns[0], conns[1]
	if len(first.OutletNumbers) != 2 || first.OutletNumbers[0] != 1 || first.OutletNumbers[1] != 2 {
		t.Errorf("expected outlets [1 2], got %v", first.OutletNumbers)
	}
	if len(second.OutletNumbers) != 1 || second.OutletNumbers[0] != 3 {
		t.Errorf("outlet numbering must continue across groups, got %v", second.OutletNumbers)
	}
}

func TestResolve_GroupOrdering(t *testing.T) {
	t1 := &model.Transformer{ID: 1, Type: &model.TransformerType{Name: "300kVA"}, Breakers: []*model.Breaker{
		breaker(1), // empty, skipped
		breaker(2, lightMeter("a_1", 60, 36)),
	}}
	t2 := &model.Transformer{ID: 2, Type: &model.TransformerType{Name: "300kVA"}, Breakers: []*model.Breaker{
		breaker(1, lightMeter("b_1", 60, 36)),
	}}
	conns := mustResolver(t).Resolve([]*model.Transformer{t2, t1})
	if len(conns) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(conns))
	}
	if conns[0].TransformerID != 1 || conns[1].TransformerID != 2 {
		t.Errorf("connections must order by transformer id, got %d then %d",
			conns[0].TransformerID, conns[1].TransformerID)
	}
}

func TestPackLight(t *testing.T) {
	r := mustResolver(t)
	meters := []model.IndividualMeter{
		lightMeter("a", 100, 120),
		lightMeter("b", 100, 120),
		lightMeter("c", 60, 100),
		lightMeter("d", 30, 20),
	}
	bins := r.packLight(meters)
	if len(bins) != 2 {
		t.Fatalf("expected 2 bins, got %d", len(bins))
	}
	for _, b := range bins {
		if b.load > r.cfg.BreakerSafeAmps {
			t.Errorf("bin exceeds the 248A ceiling at %v", b.load)
		}
		if len(b.meters) == 0 {
			t.Errorf("empty bin emitted")
		}
	}
	var total float64
	var count int
	for _, b := range bins {
		total += b.load
		count += len(b.meters)
	}
	if count != 4 || math.Abs(total-360) > 1e-9 {
		t.Fatalf("packing lost meters: %d meters, %vA", count, total)
	}
}

func TestDPConfigBreakpoints(t *testing.T) {
	r := mustResolver(t)
	cases := []struct {
		cdl   float64
		count int
		size  int
	}{
		{108, 1, 70},
		{109, 1, 185},
		{184, 1, 185},
		{185, 2, 70},
		{216, 2, 70},
		{217, 2, 185},
	}
	for _, tc := range cases {
		cfg := r.dpConfig(tc.cdl)
		if cfg.CableCount != tc.count || cfg.CableSizeMM2 != tc.size {
			t.Errorf("cdl %.0f: expected %d x %dmm², got %d x %dmm²",
				tc.cdl, tc.count, tc.size, cfg.CableCount, cfg.CableSizeMM2)
		}
		if cfg.FuseCount != cfg.CableCount*3 {
			t.Errorf("cdl %.0f: expected 3 fuses per cable", tc.cdl)
		}
	}
}

func TestSSConfigScaling(t *testing.T) {
	r := mustResolver(t)
	cases := []struct {
		cdl   float64
		count int
	}{
		{200, 1},
		{248, 1},
		{400, 2},
		{496, 2},
		{2000, 9}, // ceil(2000/248)
	}
	for _, tc := range cases {
		cfg := r.ssConfig(tc.cdl, 400)
		if cfg.CableCount != tc.count {
			t.Errorf("cdl %.0f: expected %d cables, got %d", tc.cdl, tc.count, cfg.CableCount)
		}
		if cfg.CableSizeMM2 != 300 {
			t.Errorf("substation cables are always 300mm²")
		}
		if cfg.FuseCount != tc.count*3 {
			t.Errorf("cdl %.0f: expected %d fuses, got %d", tc.cdl, tc.count*3, cfg.FuseCount)
		}
	}
}

func TestHeavyBoxType(t *testing.T) {
	cases := []struct {
		capacity float64
		want     string
	}{
		{300, "300-400A box"},
		{499, "300-400A box"},
		{500, "500-600A CT box"},
		{799, "500-600A CT box"},
		{800, "remote metering box"},
		{1600, "remote metering box"},
	}
	for _, tc := range cases {
		if got := heavyBoxType(tc.capacity); got != tc.want {
			t.Errorf("capacity %.0f: expected %q, got %q", tc.capacity, tc.want, got)
		}
	}
}
