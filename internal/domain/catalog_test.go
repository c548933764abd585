package domain_test

import (
	"testing"

	"bodymetrics/internal/domain"
)

func TestDefaultCatalog(t *testing.T) {
	c := domain.DefaultCatalog()
	list := c.List()
	if len(list) == 0 {
		t.Fatal("catalog is empty")
	}
	if list[0].Key != "weight" {
		t.Errorf("first metric = %q; want weight", list[0].Key)
	}
	for _, cfg := range list {
		if cfg.Unit == "" || cfg.Name == "" {
			t.Errorf("metric %q has no unit or name", cfg.Key)
		}
		if !c.Has(cfg.Key) {
			t.Errorf("Has(%q) = false", cfg.Key)
		}
	}
	if c.Has("shoeSize") {
		t.Error("Has(shoeSize) = true")
	}
}

func TestCatalogListIsACopy(t *testing.T) {
	c := domain.DefaultCatalog()
	list := c.List()
	list[0].Unit = "lb"
	if cfg, _ := c.Lookup("weight"); cfg.Unit != "kg" {
		t.Fatalf("catalog mutated through List: %q", cfg.Unit)
	}
}

func TestNewCatalog_KeepsOrderAndDropsDuplicates(t *testing.T) {
	c := domain.NewCatalog([]domain.MetricConfig{
		{Key: "b", Unit: "x"},
		{Key: "a", Unit: "y"},
		{Key: "b", Unit: "z"},
	})
	list := c.List()
	if len(list) != 2 || list[0].Key != "b" || list[1].Key != "a" {
		t.Fatalf("unexpected list %+v", list)
	}
	if cfg, _ := c.Lookup("b"); cfg.Unit != "x" {
		t.Errorf("duplicate overrode first config: %q", cfg.Unit)
	}
}
