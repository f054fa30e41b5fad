package controllers

import (
	"project/backend/config"
	"project/backend/ml"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AssessmentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAssessmentsController(db *gorm.DB, cfg *config.Config) *AssessmentsController {
	return &AssessmentsController{DB: db, Cfg: cfg}
}

type CreateAssessmentInput struct {
	EnrollmentID uint `json:"enrollmentId"`
	Score        int  `json:"score"`
}

// CreateAssessment records a quiz result. The score determines the skill
// level, and the newest assessment for an enrollment overrides the behavioral
// prediction.
func (ac *AssessmentsController) CreateAssessment(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input CreateAssessmentInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.EnrollmentID == 0 {
		return utils.BadRequest(c, "Enrollment ID is required")
	}
	if input.Score < 0 || input.Score > 100 {
		return utils.BadRequest(c, "Score must be between 0 and 100")
	}

	var enrollment models.Enrollment
	if err := ac.DB.First(&enrollment, input.EnrollmentID).Error; err != nil {
		return utils.NotFound(c, "Enrollment not found")
	}
	if enrollment.UserID != userID {
		return utils.Forbidden(c, "Forbidden")
	}

	skillLevel := ml.SkillLevelFromAssessmentScore(input.Score)

	assessment := models.Assessment{
		UserID:       userID,
		EnrollmentID: enrollment.ID,
		Score:        input.Score,
		SkillLevel:   string(skillLevel),
	}
	if err := ac.DB.Create(&assessment).Error; err != nil {
		return utils.InternalServerError(c, "Failed to record assessment")
	}

	return utils.Created(c, fiber.Map{
		"assessmentId": assessment.ID,
		"skillLevel":   skillLevel,
	})
}
