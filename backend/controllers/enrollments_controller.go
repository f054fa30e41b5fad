package controllers

import (
	"errors"
	"strconv"
	"time"

	"project/backend/config"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EnrollmentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewEnrollmentsController(db *gorm.DB, cfg *config.Config) *EnrollmentsController {
	return &EnrollmentsController{DB: db, Cfg: cfg}
}

// GetEnrollments returns the authenticated user's enrollments with their
// roadmaps.
func (ec *EnrollmentsController) GetEnrollments(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ec.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var enrollments []models.Enrollment
	if err := ec.DB.Preload("Roadmap").Where("user_id = ?", userID).Find(&enrollments).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch enrollments")
	}

	return c.JSON(enrollments)
}

// Enroll registers the user in a roadmap. Duplicate enrollments are rejected.
func (ec *EnrollmentsController) Enroll(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ec.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	roadmapID, err := strconv.Atoi(c.Params("roadmapId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid roadmap ID")
	}

	var roadmap models.Roadmap
	if err := ec.DB.First(&roadmap, roadmapID).Error; err != nil {
		return utils.NotFound(c, "Roadmap not found")
	}

	var existing models.Enrollment
	err = ec.DB.Where("user_id = ? AND roadmap_id = ?", userID, roadmapID).First(&existing).Error
	if err == nil {
		return utils.BadRequest(c, "Already enrolled")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not query database")
	}

	enrollment := models.Enrollment{
		UserID:         userID,
		RoadmapID:      roadmap.ID,
		Status:         "active",
		LastAccessedAt: time.Now(),
	}
	if err := ec.DB.Create(&enrollment).Error; err != nil {
		return utils.InternalServerError(c, "Failed to enroll")
	}

	return utils.Created(c, enrollment)
}

// GetEnrollment returns one enrollment with its roadmap, steps and progress
// details. Ownership is enforced.
func (ec *EnrollmentsController) GetEnrollment(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ec.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	enrollmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid enrollment ID")
	}

	var enrollment models.Enrollment
	if err := ec.DB.Preload("Roadmap.Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order ASC")
	}).First(&enrollment, enrollmentID).Error; err != nil {
		return utils.NotFound(c, "Enrollment not found")
	}

	if enrollment.UserID != userID {
		return utils.Forbidden(c, "Forbidden")
	}

	var progressDetails []models.StepProgress
	if err := ec.DB.Where("enrollment_id = ?", enrollment.ID).Find(&progressDetails).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch progress")
	}

	return c.JSON(fiber.Map{
		"enrollment":      enrollment,
		"progressDetails": progressDetails,
	})
}
