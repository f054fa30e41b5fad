package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"project/backend/metrics"
	"project/backend/models"
)

// MetricsService maintains the derived UserMetric cache for each enrollment.
type MetricsService struct {
	DB       *gorm.DB
	Defaults metrics.Defaults
}

func NewMetricsService(db *gorm.DB, defaults metrics.Defaults) *MetricsService {
	return &MetricsService{DB: db, Defaults: defaults}
}

// UpdateUserMetrics recomputes the cached metric row for an enrollment from
// its session logs, completed steps and the user's latest daily stat, then
// upserts it. No-op until the enrollment has at least one completed step.
// Recomputation is idempotent: identical inputs produce an identical row.
func (s *MetricsService) UpdateUserMetrics(userID, enrollmentID uint) error {
	var sessions []models.SessionLog
	if err := s.DB.Where("user_id = ? AND enrollment_id = ?", userID, enrollmentID).
		Find(&sessions).Error; err != nil {
		return err
	}

	var completions []models.StepProgress
	if err := s.DB.Where("enrollment_id = ?", enrollmentID).
		Find(&completions).Error; err != nil {
		return err
	}
	if len(completions) == 0 {
		return nil
	}

	aggregated := metrics.Aggregate(sessions, completions, s.Defaults)

	// Streak is user-scoped, not enrollment-scoped.
	streakLength := 0
	var latest models.DailyStat
	err := s.DB.Where("user_id = ?", userID).Order("date DESC").First(&latest).Error
	if err == nil {
		streakLength = latest.StreakCurrent
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var existing models.UserMetric
	err = s.DB.Where("user_id = ? AND enrollment_id = ?", userID, enrollmentID).
		First(&existing).Error
	switch {
	case err == nil:
		existing.AvgTimePerStep = aggregated.AvgTimePerStep
		existing.RetryFrequency = aggregated.RetryFrequency
		existing.StreakLength = streakLength
		existing.LastUpdated = time.Now()
		return s.DB.Save(&existing).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		metric := models.UserMetric{
			UserID:         userID,
			EnrollmentID:   enrollmentID,
			AvgTimePerStep: aggregated.AvgTimePerStep,
			RetryFrequency: aggregated.RetryFrequency,
			StreakLength:   streakLength,
			LastUpdated:    time.Now(),
		}
		return s.DB.Create(&metric).Error
	default:
		return err
	}
}

// GetUserMetrics returns the cached metric row, or nil when the enrollment has
// none yet.
func (s *MetricsService) GetUserMetrics(userID, enrollmentID uint) (*models.UserMetric, error) {
	var metric models.UserMetric
	err := s.DB.Where("user_id = ? AND enrollment_id = ?", userID, enrollmentID).
		First(&metric).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &metric, nil
}
