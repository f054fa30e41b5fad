package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"project/backend/models"
)

const dateLayout = "2006-01-02"

// NextStreak derives a day's streak from the previous day's record. A missing
// or inactive predecessor resets the streak to 1.
func NextStreak(prev *models.DailyStat) int {
	if prev != nil && prev.IsActive {
		return prev.StreakCurrent + 1
	}
	return 1
}

// ActivityService maintains the per-user daily activity records and the
// consecutive-day streak counter.
type ActivityService struct {
	DB *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{DB: db}
}

// CalculateAndUpdateStreak recomputes today's streak from yesterday's record
// and writes it to today's daily stat, creating the row if needed. The
// recompute is pure, so repeated same-day calls settle on the same value.
func (s *ActivityService) CalculateAndUpdateStreak(userID uint, now time.Time) (int, error) {
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	var prev *models.DailyStat
	var yesterdayStat models.DailyStat
	err := s.DB.Where("user_id = ? AND date = ?", userID, yesterday).First(&yesterdayStat).Error
	if err == nil {
		prev = &yesterdayStat
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	newStreak := NextStreak(prev)

	var todayStat models.DailyStat
	err = s.DB.Where("user_id = ? AND date = ?", userID, today).First(&todayStat).Error
	switch {
	case err == nil:
		todayStat.StreakCurrent = newStreak
		todayStat.IsActive = true
		if err := s.DB.Save(&todayStat).Error; err != nil {
			return 0, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		stat := models.DailyStat{
			UserID:        userID,
			Date:          today,
			StreakCurrent: newStreak,
			IsActive:      true,
		}
		if err := s.DB.Create(&stat).Error; err != nil {
			return 0, err
		}
	default:
		return 0, err
	}

	return newStreak, nil
}

// RecordActivity accumulates today's counters. The first event of a day
// creates the row with a freshly computed streak; later events only add
// minutes and steps, never double-increment the streak.
func (s *ActivityService) RecordActivity(userID uint, minutes int, now time.Time) error {
	today := now.Format(dateLayout)

	var existing models.DailyStat
	err := s.DB.Where("user_id = ? AND date = ?", userID, today).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if _, err := s.CalculateAndUpdateStreak(userID, now); err != nil {
			return err
		}
		// Streak calculation created today's row; accumulate onto it.
		if err := s.DB.Where("user_id = ? AND date = ?", userID, today).First(&existing).Error; err != nil {
			return err
		}
	}

	existing.MinutesSpent += minutes
	existing.StepsCompleted++
	existing.IsActive = true
	return s.DB.Save(&existing).Error
}

// UserStats summarizes lifetime activity for the stats endpoint.
type UserStats struct {
	TotalSteps   int `json:"totalSteps"`
	TotalMinutes int `json:"totalMinutes"`
	Streak       int `json:"streak"`
}

func (s *ActivityService) GetUserStats(userID uint) (UserStats, error) {
	var totals struct {
		TotalSteps   int
		TotalMinutes int
	}
	err := s.DB.Model(&models.DailyStat{}).
		Select("COALESCE(SUM(steps_completed), 0) AS total_steps, COALESCE(SUM(minutes_spent), 0) AS total_minutes").
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return UserStats{}, err
	}

	latest, err := s.LatestDailyStat(userID)
	if err != nil {
		return UserStats{}, err
	}

	streak := 0
	if latest != nil {
		streak = latest.StreakCurrent
	}

	return UserStats{
		TotalSteps:   totals.TotalSteps,
		TotalMinutes: totals.TotalMinutes,
		Streak:       streak,
	}, nil
}

// LatestDailyStat returns the most recent daily stat for a user, or nil when
// the user has no recorded activity.
func (s *ActivityService) LatestDailyStat(userID uint) (*models.DailyStat, error) {
	var stat models.DailyStat
	err := s.DB.Where("user_id = ?", userID).Order("date DESC").First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// DailyActivity returns the most recent daily stats, newest first.
func (s *ActivityService) DailyActivity(userID uint, days int) ([]models.DailyStat, error) {
	var stats []models.DailyStat
	err := s.DB.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(days).
		Find(&stats).Error
	return stats, err
}
