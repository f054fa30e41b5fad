package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyStat holds one row per user per calendar day. StreakCurrent for day D
// is StreakCurrent(D-1)+1 when D-1 was active, else 1.
type DailyStat struct {
	gorm.Model
	UserID         uint   `gorm:"index:idx_user_date,unique"`
	Date           string `gorm:"index:idx_user_date,unique"` // YYYY-MM-DD
	StepsCompleted int
	MinutesSpent   int
	StreakCurrent  int
	IsActive       bool `gorm:"default:true"`
}

// UserMetric is a derived cache keyed by (user, enrollment). Not authoritative:
// it can be rebuilt from session logs and daily stats at any time.
type UserMetric struct {
	gorm.Model
	UserID         uint `gorm:"index:idx_user_enrollment,unique"`
	EnrollmentID   uint `gorm:"index:idx_user_enrollment,unique"`
	AvgTimePerStep float64
	RetryFrequency float64
	StreakLength   int
	LastUpdated    time.Time
}

// Assessment is an immutable point-in-time quiz result. The most recent one
// for an enrollment overrides the behavioral skill prediction.
type Assessment struct {
	gorm.Model
	UserID       uint
	EnrollmentID uint   `gorm:"index"`
	Score        int    // 0-100
	SkillLevel   string // beginner, intermediate, advanced
}
