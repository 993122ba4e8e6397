package distribution

import (
	"testing"

	"github.com/gridflow/lvplan/core/model"
)

func TestCatalog_SelectForLoad(t *testing.T) {
	c := DefaultCatalog()
	cases := []struct {
		load float64
		want string
	}{
		{35, "300kVA"},
		{346, "300kVA"},
		{400, "500kVA"},
		{1200, "1500kVA"},
		{5000, "1500kVA"}, // nothing fits, largest wins
	}
	for _, tc := range cases {
		if got := c.SelectForLoad(tc.load).Name; got != tc.want {
			t.Errorf("load %.0f: expected %s, got %s", tc.load, tc.want, got)
		}
	}
}

func TestCatalog_DedicatedTypeFor(t *testing.T) {
	c := DefaultCatalog()
	if got := c.DedicatedTypeFor(1600).Name; got != "1000kVA" {
		t.Errorf("1600A meter: expected 1000kVA, got %s", got)
	}
	if got := c.DedicatedTypeFor(2500).Name; got != "1500kVA" {
		t.Errorf("2500A meter: expected 1500kVA, got %s", got)
	}
}

func TestCatalog_ValidateRejectsUnsorted(t *testing.T) {
	c := Catalog{Types: []model.TransformerType{
		{Name: "big", SafeLoadAmps: 1000, Breakers: 8},
		{Name: "small", SafeLoadAmps: 300, Breakers: 4},
	}}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for unsorted catalog")
	}
}

func TestCatalog_ValidateRejectsEmpty(t *testing.T) {
	if err := (Catalog{}).Validate(); err == nil {
		t.Fatalf("expected error for empty catalog")
	}
}
