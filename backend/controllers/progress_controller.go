package controllers

import (
	"errors"
	"math"
	"strconv"
	"time"

	"project/backend/config"
	"project/backend/models"
	"project/backend/services"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProgressController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Activity *services.ActivityService
	Metrics  *services.MetricsService
}

func NewProgressController(db *gorm.DB, cfg *config.Config, activity *services.ActivityService, metrics *services.MetricsService) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg, Activity: activity, Metrics: metrics}
}

type CompleteStepInput struct {
	TimeSpentSeconds int `json:"timeSpentSeconds"`
	AttemptNumber    int `json:"attemptNumber"`
}

// CompleteStep records a step completion and runs the bookkeeping that feeds
// the predictors: step progress upsert, session log, streak and daily stat
// update, enrollment progress recompute and the metric cache refresh.
func (pc *ProgressController) CompleteStep(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	enrollmentID, err := strconv.Atoi(c.Params("enrollmentId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid enrollment ID")
	}
	stepID, err := strconv.Atoi(c.Params("stepId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid step ID")
	}

	// Time tracking is optional; an absent or malformed body falls back to
	// the untracked defaults.
	var input CompleteStepInput
	if err := c.BodyParser(&input); err != nil {
		input = CompleteStepInput{}
	}
	if input.TimeSpentSeconds < 0 {
		input.TimeSpentSeconds = 0
	}
	if input.AttemptNumber < 1 {
		input.AttemptNumber = 1
	}

	var enrollment models.Enrollment
	if err := pc.DB.First(&enrollment, enrollmentID).Error; err != nil {
		return utils.NotFound(c, "Enrollment not found")
	}
	if enrollment.UserID != userID {
		return utils.Forbidden(c, "Forbidden")
	}

	now := time.Now()

	// Upsert the completion record: one row per (enrollment, step), repeat
	// attempts accumulate time and overwrite the attempt count.
	var record models.StepProgress
	err = pc.DB.Where("enrollment_id = ? AND step_id = ?", enrollment.ID, stepID).First(&record).Error
	switch {
	case err == nil:
		record.TimeSpentSeconds += input.TimeSpentSeconds
		record.AttemptCount = input.AttemptNumber
		if err := pc.DB.Save(&record).Error; err != nil {
			return utils.InternalServerError(c, "Failed to record step completion")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = models.StepProgress{
			EnrollmentID:     enrollment.ID,
			StepID:           uint(stepID),
			Status:           "completed",
			AttemptCount:     input.AttemptNumber,
			TimeSpentSeconds: input.TimeSpentSeconds,
			StartedAt:        &now,
			CompletedAt:      now,
		}
		if err := pc.DB.Create(&record).Error; err != nil {
			return utils.InternalServerError(c, "Failed to record step completion")
		}
	default:
		return utils.InternalServerError(c, "Could not query database")
	}

	session := models.SessionLog{
		UserID:           userID,
		EnrollmentID:     enrollment.ID,
		StepID:           uint(stepID),
		TimeSpentSeconds: input.TimeSpentSeconds,
		RetryAttempt:     input.AttemptNumber,
	}
	if err := pc.DB.Create(&session).Error; err != nil {
		return utils.InternalServerError(c, "Failed to log session")
	}

	streak, err := pc.Activity.CalculateAndUpdateStreak(userID, now)
	if err != nil {
		return utils.InternalServerError(c, "Failed to update streak")
	}

	minutes := int(math.Ceil(float64(input.TimeSpentSeconds) / 60))
	if minutes == 0 {
		minutes = pc.Cfg.DefaultSessionMinutes
	}
	if err := pc.Activity.RecordActivity(userID, minutes, now); err != nil {
		return utils.InternalServerError(c, "Failed to record activity")
	}

	newProgress, err := pc.recalculateProgress(&enrollment, now)
	if err != nil {
		return utils.InternalServerError(c, "Failed to update progress")
	}

	if err := pc.Metrics.UpdateUserMetrics(userID, enrollment.ID); err != nil {
		return utils.InternalServerError(c, "Failed to update metrics")
	}

	return c.JSON(fiber.Map{
		"message":     "Step completed successfully",
		"progress":    newProgress,
		"streak":      streak,
		"timeTracked": input.TimeSpentSeconds,
	})
}

func (pc *ProgressController) recalculateProgress(enrollment *models.Enrollment, now time.Time) (int, error) {
	var totalSteps int64
	if err := pc.DB.Model(&models.Step{}).Where("roadmap_id = ?", enrollment.RoadmapID).Count(&totalSteps).Error; err != nil {
		return 0, err
	}

	var completed int64
	if err := pc.DB.Model(&models.StepProgress{}).Where("enrollment_id = ?", enrollment.ID).Count(&completed).Error; err != nil {
		return 0, err
	}

	newProgress := enrollment.Progress
	if totalSteps > 0 {
		newProgress = int(math.Round(float64(completed) / float64(totalSteps) * 100))
	}

	enrollment.Progress = newProgress
	enrollment.LastAccessedAt = now
	if newProgress >= 100 {
		enrollment.Status = "completed"
	}
	if err := pc.DB.Save(enrollment).Error; err != nil {
		return 0, err
	}

	return newProgress, nil
}
