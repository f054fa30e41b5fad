package ml

import "math"

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

type LearningPace string

const (
	PaceSlow   LearningPace = "slow"
	PaceSteady LearningPace = "steady"
	PaceFast   LearningPace = "fast"
)

// DropoutRiskThreshold is the risk score at or above which an enrollment is
// flagged as a likely dropout.
const DropoutRiskThreshold = 0.6

// PredictSkillLevel classifies a learner from behavioral metrics. The branches
// are ordered business rules: the intermediate check only runs when the
// beginner check fails.
func PredictSkillLevel(avgTimePerStep, retryFrequency float64) SkillLevel {
	if avgTimePerStep > 120 && retryFrequency > 1.5 {
		return SkillBeginner
	}
	if avgTimePerStep > 60 && retryFrequency > 1 {
		return SkillIntermediate
	}
	return SkillAdvanced
}

// SkillLevelFromAssessmentScore maps a 0-100 quiz score to a skill level.
func SkillLevelFromAssessmentScore(score int) SkillLevel {
	if score >= 80 {
		return SkillAdvanced
	}
	if score >= 55 {
		return SkillIntermediate
	}
	return SkillBeginner
}

// EstimateDaysToCompletion returns -1 when no estimate is possible (zero speed
// or an empty roadmap). A calculable estimate is always at least one day, even
// at 100% progress.
func EstimateDaysToCompletion(progressPercent, completionSpeed float64, totalSteps int) int {
	if completionSpeed <= 0 || totalSteps <= 0 {
		return -1
	}

	stepsCompleted := int(math.Round(progressPercent / 100 * float64(totalSteps)))
	stepsRemaining := totalSteps - stepsCompleted
	if stepsRemaining < 0 {
		stepsRemaining = 0
	}

	days := int(math.Ceil(float64(stepsRemaining) / completionSpeed))
	if days < 1 {
		days = 1
	}
	return days
}

// CalculateDropoutRisk is an additive scorecard over inactivity, progress speed
// and streak, capped at 1.0. The thresholds are hand-authored rules, not model
// output.
func CalculateDropoutRisk(daysInactive int, progressSpeed float64, streakLength int) float64 {
	risk := 0.0

	switch {
	case daysInactive > 7:
		risk += 0.6
	case daysInactive > 3:
		risk += 0.3
	case daysInactive > 0:
		risk += 0.1
	}

	switch {
	case progressSpeed < 0.1:
		risk += 0.2
	case progressSpeed < 0.5:
		risk += 0.1
	}

	if streakLength == 0 {
		risk += 0.1
	}

	return math.Min(1, risk)
}

// PredictLearningPace buckets steps-per-day throughput.
func PredictLearningPace(completionSpeed float64) LearningPace {
	if completionSpeed < 0.25 {
		return PaceSlow
	}
	if completionSpeed < 1 {
		return PaceSteady
	}
	return PaceFast
}
