package calculator

import (
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestKPaToPSI(t *testing.T) {
	if got := KPaToPSI(100); got != 14.50 {
		t.Errorf("expected 14.50, got %v", got)
	}
	if got := KPaToPSI(0); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if math.Abs(100*PSIPerKPa-14.5038) > 1e-9 {
		t.Errorf("unexpected conversion factor %v", PSIPerKPa)
	}
}

func TestRemaining_HalfTank(t *testing.T) {
	liters := RemainingLiters(ptr(50), ptr(378.541))
	gallons := RemainingGallons(ptr(50), ptr(378.541))
	if liters == nil || gallons == nil {
		t.Fatal("expected non-nil results")
	}
	if *liters != 189.3 {
		t.Errorf("expected 189.3 L, got %v", *liters)
	}
	if *gallons != 50.0 {
		t.Errorf("expected 50.0 gal, got %v", *gallons)
	}
}

func TestRemaining_MissingOperands(t *testing.T) {
	if RemainingLiters(nil, ptr(100)) != nil {
		t.Error("expected nil liters without level")
	}
	if RemainingLiters(ptr(40), nil) != nil {
		t.Error("expected nil liters without capacity")
	}
	if RemainingGallons(nil, nil) != nil {
		t.Error("expected nil gallons without operands")
	}
	if CapacityGallons(nil) != nil {
		t.Error("expected nil capacity gallons")
	}
}

func TestRemaining_GallonsLitersAgree(t *testing.T) {
	levels := []float64{0, 1, 12.5, 33, 50, 71.2, 99.9, 100}
	capacities := []float64{37.85, 120, 378.541, 1892.7, 3785.41}
	for _, lvl := range levels {
		for _, c := range capacities {
			l := RemainingLiters(ptr(lvl), ptr(c))
			g := RemainingGallons(ptr(lvl), ptr(c))
			// Each side is rounded to 0.1, so allow both rounding errors.
			tol := 0.05*LitersPerGallon + 0.05 + 1e-9
			if diff := math.Abs(*g*LitersPerGallon - *l); diff > tol {
				t.Errorf("level=%v cap=%v: gallons %v and liters %v disagree by %v", lvl, c, *g, *l, diff)
			}
		}
	}
}

func TestNormalizePressure(t *testing.T) {
	v, converted := NormalizePressure(ptr(100), UnitKPa)
	if !converted || v == nil || *v != 14.50 {
		t.Errorf("expected converted 14.50, got %v (converted=%v)", v, converted)
	}

	v, converted = NormalizePressure(ptr(42.7), "psi")
	if converted || v == nil || *v != 42.7 {
		t.Errorf("expected passthrough 42.7, got %v (converted=%v)", v, converted)
	}

	v, converted = NormalizePressure(nil, UnitKPa)
	if v != nil || converted {
		t.Error("expected nil pressure for missing reading")
	}
}

func TestCapacityGallons(t *testing.T) {
	g := CapacityGallons(ptr(1892.705))
	if g == nil || *g != 500.0 {
		t.Errorf("expected 500.0, got %v", g)
	}
}
