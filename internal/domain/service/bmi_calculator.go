package service

import (
	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/pkg/constants"
)

// CalculateBMI expects height in centimeters and weight in kilograms.
// A non-positive height or weight yields BMI 0 in the Unknown category instead of dividing by zero.
func CalculateBMI(heightCm, weightKg float64) models.BMIResult {
	if heightCm <= 0 || weightKg <= 0 {
		return models.BMIResult{Value: 0, Category: constants.BMIUnknown}
	}

	h := heightCm / 100.0
	bmi := weightKg / (h * h)
	return models.BMIResult{Value: bmi, Category: BMICategory(bmi)}
}

// BMICategory classifies a BMI value with the fixed WHO-style cutoffs.
func BMICategory(bmi float64) constants.BMICategory {
	switch {
	case bmi <= 0:
		return constants.BMIUnknown
	case bmi < constants.BMIUnderweightLimit:
		return constants.BMIUnderweight
	case bmi < constants.BMINormalLimit:
		return constants.BMINormal
	case bmi < constants.BMIOverweightLimit:
		return constants.BMIOverweight
	default:
		return constants.BMIObese
	}
}
