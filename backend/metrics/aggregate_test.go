package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"project/backend/models"
)

var testDefaults = Defaults{AvgTimePerStep: 90, RetryFrequency: 1.2}

func TestAggregateDefaultsWhenEmpty(t *testing.T) {
	out := Aggregate(nil, nil, testDefaults)
	assert.Equal(t, 90.0, out.AvgTimePerStep)
	assert.Equal(t, 1.2, out.RetryFrequency)
}

func TestAggregateAverages(t *testing.T) {
	sessions := []models.SessionLog{
		{TimeSpentSeconds: 120, RetryAttempt: 1},
		{TimeSpentSeconds: 180, RetryAttempt: 2},
	}
	completions := []models.StepProgress{
		{StepID: 1},
		{StepID: 2},
	}

	out := Aggregate(sessions, completions, testDefaults)
	assert.Equal(t, 150.0, out.AvgTimePerStep)
	assert.Equal(t, 1.5, out.RetryFrequency)
}

func TestAggregateRoundsTimePerStep(t *testing.T) {
	sessions := []models.SessionLog{
		{TimeSpentSeconds: 100, RetryAttempt: 1},
	}
	completions := []models.StepProgress{
		{StepID: 1},
		{StepID: 2},
		{StepID: 3},
	}

	out := Aggregate(sessions, completions, testDefaults)
	assert.Equal(t, 33.0, out.AvgTimePerStep)
}

func TestAggregateSessionsWithoutCompletions(t *testing.T) {
	sessions := []models.SessionLog{
		{TimeSpentSeconds: 60, RetryAttempt: 3},
	}

	// No completed steps: time per step keeps the default, retries average
	out := Aggregate(sessions, nil, testDefaults)
	assert.Equal(t, 90.0, out.AvgTimePerStep)
	assert.Equal(t, 3.0, out.RetryFrequency)
}

func TestAggregateIsIdempotent(t *testing.T) {
	sessions := []models.SessionLog{
		{TimeSpentSeconds: 95, RetryAttempt: 1},
		{TimeSpentSeconds: 215, RetryAttempt: 2},
		{TimeSpentSeconds: 40, RetryAttempt: 1},
	}
	completions := []models.StepProgress{
		{StepID: 1},
		{StepID: 2},
	}

	first := Aggregate(sessions, completions, testDefaults)
	second := Aggregate(sessions, completions, testDefaults)
	assert.Equal(t, first, second)
}
