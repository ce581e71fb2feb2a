// Package bmi computes the body-mass index and its classification.
//
// BMI = weight (kg) / (height (m))², rounded to two decimal places. Six
// ordered categories with half-open lower bounds, plus a surgery-eligibility
// tier used to pick the advisory narrative.
package bmi

import "math"

// Category is one of the six ordered BMI classifications.
type Category string

const (
	CategoryUnderweight Category = "abaixo do peso"
	CategoryNormal      Category = "peso normal"
	CategoryOverweight  Category = "sobrepeso"
	CategoryObesity1    Category = "obesidade grau I"
	CategoryObesity2    Category = "obesidade grau II"
	CategoryObesity3    Category = "obesidade grau III"
)

// Tier is the surgery-eligibility tier layered on top of the BMI value.
type Tier string

const (
	// TierEligible: BMI >= 40, meets the criterion on BMI alone.
	TierEligible Tier = "eligible"
	// TierComorbidities: BMI in [35, 40), eligible only with comorbidities.
	TierComorbidities Tier = "comorbidities"
	// TierNotIndicated: BMI < 35, redirect to non-surgical professionals.
	TierNotIndicated Tier = "not-indicated"
)

// Result pairs the computed BMI with its classification. When Available is
// false the inputs were degenerate and the numeric fields are meaningless.
type Result struct {
	Available bool
	BMI       float64
	Category  Category
	Tier      Tier
}

// Unavailable is the explicit result for degenerate input.
var Unavailable = Result{}

// Classify computes the BMI for a weight in kilograms and a height in
// centimeters. Zero or negative input yields the explicit Unavailable result,
// never a division error, infinity or NaN.
func Classify(weightKg, heightCm float64) Result {
	if weightKg <= 0 || heightCm <= 0 {
		return Unavailable
	}
	heightM := heightCm / 100
	value := weightKg / (heightM * heightM)
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return Unavailable
	}
	value = math.Round(value*100) / 100
	return Result{
		Available: true,
		BMI:       value,
		Category:  categoryOf(value),
		Tier:      tierOf(value),
	}
}

// categoryOf maps a BMI value to its category. Boundaries are half-open on
// the lower bound: 25.00 is sobrepeso, 39.99 is obesidade grau II.
func categoryOf(value float64) Category {
	switch {
	case value < 18.5:
		return CategoryUnderweight
	case value < 25:
		return CategoryNormal
	case value < 30:
		return CategoryOverweight
	case value < 35:
		return CategoryObesity1
	case value < 40:
		return CategoryObesity2
	default:
		return CategoryObesity3
	}
}

func tierOf(value float64) Tier {
	switch {
	case value >= 40:
		return TierEligible
	case value >= 35:
		return TierComorbidities
	default:
		return TierNotIndicated
	}
}
