package metrics

import (
	"math"

	"project/backend/models"
)

// Defaults are the fallback metric values for enrollments without history.
// Under the defaults a cold-start user classifies as intermediate rather than
// erroring out.
type Defaults struct {
	AvgTimePerStep float64
	RetryFrequency float64
}

// Aggregated holds the two scalar inputs the skill predictor consumes.
type Aggregated struct {
	AvgTimePerStep float64
	RetryFrequency float64
}

// Aggregate reduces an enrollment's session logs and completed steps to
// averaged metrics. Recomputing over identical inputs yields identical output,
// so the derived metric cache can be rebuilt at any time.
func Aggregate(sessions []models.SessionLog, completions []models.StepProgress, defaults Defaults) Aggregated {
	out := Aggregated{
		AvgTimePerStep: defaults.AvgTimePerStep,
		RetryFrequency: defaults.RetryFrequency,
	}

	if len(completions) > 0 {
		totalSeconds := 0
		for _, s := range sessions {
			totalSeconds += s.TimeSpentSeconds
		}
		out.AvgTimePerStep = math.Round(float64(totalSeconds) / float64(len(completions)))
	}

	if len(sessions) > 0 {
		totalAttempts := 0
		for _, s := range sessions {
			totalAttempts += s.RetryAttempt
		}
		out.RetryFrequency = float64(totalAttempts) / float64(len(sessions))
	}

	return out
}
