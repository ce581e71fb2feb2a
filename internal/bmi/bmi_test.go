package bmi

import (
	"math"
	"testing"
)

func TestClassifyFormula(t *testing.T) {
	r := Classify(95, 180)
	if !r.Available {
		t.Fatal("expected available result")
	}
	if r.BMI != 29.32 {
		t.Errorf("Classify(95, 180).BMI = %v, want 29.32", r.BMI)
	}
	if r.Category != CategoryOverweight {
		t.Errorf("Classify(95, 180).Category = %q, want %q", r.Category, CategoryOverweight)
	}
	if r.Tier != TierNotIndicated {
		t.Errorf("Classify(95, 180).Tier = %q, want %q", r.Tier, TierNotIndicated)
	}
}

func TestClassifyRounding(t *testing.T) {
	// 70 / 1.7² = 24.2214... rounds to 24.22
	r := Classify(70, 170)
	if r.BMI != 24.22 {
		t.Errorf("Classify(70, 170).BMI = %v, want 24.22", r.BMI)
	}
}

func TestClassifyDegenerate(t *testing.T) {
	for _, c := range [][2]float64{{70, 0}, {0, 170}, {-5, 170}, {70, -1}, {0, 0}} {
		r := Classify(c[0], c[1])
		if r.Available {
			t.Errorf("Classify(%v, %v) should be unavailable", c[0], c[1])
		}
		if math.IsNaN(r.BMI) || math.IsInf(r.BMI, 0) {
			t.Errorf("Classify(%v, %v) produced non-finite BMI", c[0], c[1])
		}
	}
}

func TestCategoryBoundaries(t *testing.T) {
	cases := []struct {
		bmi  float64
		want Category
	}{
		{18.49, CategoryUnderweight},
		{18.5, CategoryNormal},
		{24.99, CategoryNormal},
		{25.00, CategoryOverweight},
		{29.99, CategoryOverweight},
		{30.00, CategoryObesity1},
		{34.99, CategoryObesity1},
		{35.00, CategoryObesity2},
		{39.99, CategoryObesity2},
		{40.00, CategoryObesity3},
	}
	for _, c := range cases {
		if got := categoryOf(c.bmi); got != c.want {
			t.Errorf("categoryOf(%v) = %q, want %q", c.bmi, got, c.want)
		}
	}
}

func TestTierBoundaries(t *testing.T) {
	cases := []struct {
		bmi  float64
		want Tier
	}{
		{40.0, TierEligible},
		{42.5, TierEligible},
		{39.99, TierComorbidities},
		{35.0, TierComorbidities},
		{34.99, TierNotIndicated},
		{22.0, TierNotIndicated},
	}
	for _, c := range cases {
		if got := tierOf(c.bmi); got != c.want {
			t.Errorf("tierOf(%v) = %q, want %q", c.bmi, got, c.want)
		}
	}
}

func TestMonotonicInWeight(t *testing.T) {
	prev := 0.0
	for w := 40.0; w <= 200; w += 5 {
		r := Classify(w, 175)
		if !r.Available {
			t.Fatalf("Classify(%v, 175) unavailable", w)
		}
		if r.BMI <= prev {
			t.Errorf("BMI not increasing at weight %v: %v <= %v", w, r.BMI, prev)
		}
		prev = r.BMI
	}
}
