package models

import (
	"time"

	"gorm.io/gorm"
)

type Enrollment struct {
	gorm.Model
	UserID         uint   `gorm:"index:idx_user_roadmap,unique"`
	RoadmapID      uint   `gorm:"index:idx_user_roadmap,unique"`
	Status         string `gorm:"default:active"` // active, completed, dropped
	Progress       int    `gorm:"default:0"`      // percentage 0-100
	LastAccessedAt time.Time
	Roadmap        Roadmap
}

// StepProgress is the immutable record of a completed step. One row per
// (enrollment, step); repeat attempts accumulate time and overwrite the
// attempt count instead of inserting duplicates.
type StepProgress struct {
	gorm.Model
	EnrollmentID     uint   `gorm:"index:idx_enrollment_step,unique"`
	StepID           uint   `gorm:"index:idx_enrollment_step,unique"`
	Status           string `gorm:"default:completed"`
	AttemptCount     int    `gorm:"default:1"`
	TimeSpentSeconds int
	StartedAt        *time.Time
	CompletedAt      time.Time
}

// SessionLog is an append-only log of step work sessions; retry attempts
// recorded here drive the retry frequency metric.
type SessionLog struct {
	gorm.Model
	UserID           uint
	EnrollmentID     uint `gorm:"index"`
	StepID           uint
	TimeSpentSeconds int
	RetryAttempt     int `gorm:"default:1"`
}
