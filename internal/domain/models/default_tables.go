package models

func yesNo(yes, no int) []OptionWeight {
	return []OptionWeight{
		{Value: 1, Label: "Yes", Points: yes},
		{Value: 2, Label: "No", Points: no},
	}
}

func highMediumNormal() []OptionWeight {
	return []OptionWeight{
		{Value: 1, Label: "High", Points: 3},
		{Value: 2, Label: "Medium", Points: 2},
		{Value: 3, Label: "Normal", Points: 1},
	}
}

// DefaultScoringTables returns the stock questionnaire weights, tier cutoffs and advice.
// A fresh copy is returned on every call.
func DefaultScoringTables() ScoringTables {
	return ScoringTables{
		Questions: []QuestionWeights{
			{ID: 1, Text: "What is your age group?", Options: []OptionWeight{
				{Value: 1, Label: "< 30", Points: 0},
				{Value: 2, Label: "30-45", Points: 1},
				{Value: 3, Label: "45-60", Points: 2},
				{Value: 4, Label: "60+", Points: 3},
			}},
			{ID: 2, Text: "What is your gender?", Options: []OptionWeight{
				{Value: 1, Label: "Male", Points: 2},
				{Value: 2, Label: "Female", Points: 0},
			}},
			{ID: 3, Text: "Family history of diabetes?", Options: yesNo(3, 0)},
			{ID: 4, Text: "High blood pressure?", Options: yesNo(2, 0)},
			{ID: 5, Text: "Physically active?", Options: yesNo(0, 2)},
			{ID: 6, Text: "Blurry vision?", Options: yesNo(2, 0)},
			{ID: 7, Text: "Numbness in hands or feet?", Options: yesNo(2, 0)},
			{ID: 8, Text: "HbA1c level?", Options: highMediumNormal()},
			{ID: 9, Text: "Fasting glucose level?", Options: highMediumNormal()},
			{ID: 10, Text: "Excessive thirst or urination?", Options: yesNo(2, 0)},
		},
		Thresholds: []TierThreshold{
			{Tier: TierMinimal, MinScore: 0, Headline: "Excellent health indicators."},
			{Tier: TierLow, MinScore: 5, Headline: "Continue healthy habits with awareness."},
			{Tier: TierModerate, MinScore: 10, Headline: "Lifestyle modifications suggested."},
			{Tier: TierElevated, MinScore: 14, Headline: "Preventive action recommended."},
			{Tier: TierHigh, MinScore: 18, Headline: "Medical consultation strongly advised."},
			{Tier: TierCritical, MinScore: 22, Headline: "Urgent medical attention required."},
		},
		Recommendations: []TierRecommendations{
			{Tier: TierMinimal, Items: []string{
				"Continue your current healthy lifestyle",
				"Maintain regular annual check-ups",
				"Stay physically active and eat a balanced diet",
				"Continue monitoring your health as you age",
			}},
			{Tier: TierLow, Items: []string{
				"Maintain regular annual health check-ups",
				"Continue a balanced diet rich in vegetables and lean proteins",
				"Stay physically active with regular exercise",
				"Monitor family health history and stay informed",
				"Limit alcohol consumption and avoid smoking",
			}},
			{Tier: TierModerate, Items: []string{
				"Annual health screening including blood glucose check",
				"Follow a balanced Mediterranean-style diet",
				"Include 30 minutes of physical activity most days",
				"Limit processed carbohydrates and choose whole grains",
				"Monitor your weight and waist circumference monthly",
				"Manage stress through meditation or relaxation techniques",
			}},
			{Tier: TierElevated, Items: []string{
				"Schedule a check-up with your doctor within the month",
				"Request fasting glucose and HbA1c screening",
				"Reduce processed food and added sugar consumption",
				"Increase fiber intake to 25-30g per day",
				"Exercise at least 150 minutes per week (moderate intensity)",
				"Maintain a healthy weight (target BMI 18.5-24.9)",
				"Stay hydrated with 8-10 glasses of water daily",
			}},
			{Tier: TierHigh, Items: []string{
				"Consult your primary care physician within 1-2 weeks",
				"Get a fasting blood glucose test and HbA1c test",
				"Monitor blood glucose 2-3 times daily for 2 weeks",
				"Reduce refined sugar intake to under 25g per day",
				"Start a low glycemic index (GI) diet plan",
				"Exercise for 30 minutes daily (walking, swimming, or cycling)",
				"Aim for 7-8 hours of quality sleep each night",
			}},
			{Tier: TierCritical, Items: []string{
				"Schedule an appointment with an endocrinologist within 24-48 hours",
				"Get comprehensive blood work including HbA1c, fasting glucose, and lipid panel",
				"Monitor blood glucose levels 4-6 times daily",
				"Begin medication review with your healthcare provider",
				"Consider continuous glucose monitoring (CGM) device",
				"Reduce carbohydrate intake immediately to under 130g per day",
				"Avoid all sugary beverages and processed foods",
			}},
		},
		BMIPoints: BMIPoints{Overweight: 2, Obese: 5},
	}
}
