package controllers

import (
	"errors"
	"math"
	"time"

	"project/backend/config"
	"project/backend/ml"
	"project/backend/models"
	"project/backend/services"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MLController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Activity *services.ActivityService
	Metrics  *services.MetricsService
}

func NewMLController(db *gorm.DB, cfg *config.Config, activity *services.ActivityService, metrics *services.MetricsService) *MLController {
	return &MLController{DB: db, Cfg: cfg, Activity: activity, Metrics: metrics}
}

// daysBetween returns whole calendar-agnostic days elapsed since from, never
// negative.
func daysBetween(from, to time.Time) int {
	if from.IsZero() {
		return 0
	}
	days := int(math.Floor(to.Sub(from).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// RecommendRoadmap scores the catalog against a user profile. Public: used
// before signup.
func (mc *MLController) RecommendRoadmap(c *fiber.Ctx) error {
	var input ml.RecommendInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Goal == "" || input.Interest == "" {
		return utils.BadRequest(c, "Goal and interest are required")
	}
	if input.Year < 0 {
		return utils.BadRequest(c, "Year must be non-negative")
	}
	switch input.SkillLevel {
	case ml.SkillBeginner, ml.SkillIntermediate, ml.SkillAdvanced:
	default:
		return utils.BadRequest(c, "Invalid skill level")
	}

	var roadmaps []models.Roadmap
	if err := mc.DB.Find(&roadmaps).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch roadmaps")
	}

	recommendation, err := ml.RecommendRoadmap(roadmaps, input)
	if err != nil {
		if errors.Is(err, ml.ErrNoRoadmaps) {
			return utils.NotFound(c, "No roadmaps found")
		}
		return utils.InternalServerError(c, "Failed to generate recommendation")
	}

	return c.JSON(recommendation)
}

type enrollmentInput struct {
	EnrollmentID uint `json:"enrollmentId"`
}

func (mc *MLController) ownedEnrollment(c *fiber.Ctx) (*models.Enrollment, uint, error) {
	userID, err := utils.ExtractUserIDFromToken(c, mc.Cfg)
	if err != nil {
		return nil, 0, utils.Unauthorized(c, "Unauthorized")
	}

	var input enrollmentInput
	if err := c.BodyParser(&input); err != nil || input.EnrollmentID == 0 {
		return nil, 0, utils.BadRequest(c, "Enrollment ID is required")
	}

	var enrollment models.Enrollment
	if err := mc.DB.First(&enrollment, input.EnrollmentID).Error; err != nil {
		return nil, 0, utils.NotFound(c, "Enrollment not found")
	}
	if enrollment.UserID != userID {
		return nil, 0, utils.Forbidden(c, "Forbidden")
	}

	return &enrollment, userID, nil
}

// PredictSkillLevel returns the latest assessment's skill level when one
// exists; otherwise it classifies from the cached behavioral metrics, falling
// back to the configured cold-start defaults.
func (mc *MLController) PredictSkillLevel(c *fiber.Ctx) error {
	enrollment, userID, errResp := mc.ownedEnrollment(c)
	if enrollment == nil {
		return errResp
	}

	var assessment models.Assessment
	err := mc.DB.Where("user_id = ? AND enrollment_id = ?", userID, enrollment.ID).
		Order("created_at DESC").First(&assessment).Error
	if err == nil {
		return c.JSON(fiber.Map{"skillLevel": assessment.SkillLevel})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not query database")
	}

	metric, err := mc.Metrics.GetUserMetrics(userID, enrollment.ID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	avgTimePerStep := mc.Cfg.DefaultAvgTimePerStep
	retryFrequency := mc.Cfg.DefaultRetryFrequency
	if metric != nil {
		avgTimePerStep = metric.AvgTimePerStep
		retryFrequency = metric.RetryFrequency
	}

	skillLevel := ml.PredictSkillLevel(avgTimePerStep, retryFrequency)
	return c.JSON(fiber.Map{"skillLevel": skillLevel})
}

// PredictProgressSpeed estimates days to completion and the learning pace from
// the enrollment's throughput since creation.
func (mc *MLController) PredictProgressSpeed(c *fiber.Ctx) error {
	enrollment, _, errResp := mc.ownedEnrollment(c)
	if enrollment == nil {
		return errResp
	}

	totalSteps, stepsCompleted, err := mc.enrollmentCounts(enrollment)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	now := time.Now()
	daysSinceEnrollment := daysBetween(enrollment.CreatedAt, now)
	if daysSinceEnrollment < 1 {
		daysSinceEnrollment = 1
	}
	completionSpeed := float64(stepsCompleted) / float64(daysSinceEnrollment)

	progressPercent := float64(enrollment.Progress)
	if totalSteps > 0 {
		progressPercent = math.Round(float64(stepsCompleted) / float64(totalSteps) * 100)
	}

	predictedDays := ml.EstimateDaysToCompletion(progressPercent, completionSpeed, int(totalSteps))
	pace := ml.PredictLearningPace(completionSpeed)

	return c.JSON(fiber.Map{
		"predictedDaysToCompletion": predictedDays,
		"learningPace":              pace,
	})
}

// PredictDropoutRisk scores disengagement risk from inactivity, throughput and
// streak.
func (mc *MLController) PredictDropoutRisk(c *fiber.Ctx) error {
	enrollment, userID, errResp := mc.ownedEnrollment(c)
	if enrollment == nil {
		return errResp
	}

	_, stepsCompleted, err := mc.enrollmentCounts(enrollment)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	now := time.Now()
	daysSinceEnrollment := daysBetween(enrollment.CreatedAt, now)
	if daysSinceEnrollment < 1 {
		daysSinceEnrollment = 1
	}
	progressSpeed := float64(stepsCompleted) / float64(daysSinceEnrollment)

	lastAccessed := enrollment.LastAccessedAt
	if lastAccessed.IsZero() {
		lastAccessed = enrollment.CreatedAt
	}
	daysInactive := daysBetween(lastAccessed, now)

	// Streak comes from the metric cache when present, else from the latest
	// daily stat.
	streakLength := 0
	metric, err := mc.Metrics.GetUserMetrics(userID, enrollment.ID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if metric != nil {
		streakLength = metric.StreakLength
	} else {
		latest, err := mc.Activity.LatestDailyStat(userID)
		if err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
		if latest != nil {
			streakLength = latest.StreakCurrent
		}
	}

	riskScore := ml.CalculateDropoutRisk(daysInactive, progressSpeed, streakLength)
	dropoutRisk := riskScore >= ml.DropoutRiskThreshold

	return c.JSON(fiber.Map{
		"dropoutRisk": dropoutRisk,
		"riskScore":   riskScore,
	})
}

func (mc *MLController) enrollmentCounts(enrollment *models.Enrollment) (int64, int64, error) {
	var totalSteps int64
	if err := mc.DB.Model(&models.Step{}).Where("roadmap_id = ?", enrollment.RoadmapID).Count(&totalSteps).Error; err != nil {
		return 0, 0, err
	}
	var stepsCompleted int64
	if err := mc.DB.Model(&models.StepProgress{}).Where("enrollment_id = ?", enrollment.ID).Count(&stepsCompleted).Error; err != nil {
		return 0, 0, err
	}
	return totalSteps, stepsCompleted, nil
}
