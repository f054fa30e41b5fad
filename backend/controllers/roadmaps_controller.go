package controllers

import (
	"strconv"

	"project/backend/config"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RoadmapsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewRoadmapsController(db *gorm.DB, cfg *config.Config) *RoadmapsController {
	return &RoadmapsController{DB: db, Cfg: cfg}
}

// GetRoadmaps returns the full roadmap catalog.
func (rc *RoadmapsController) GetRoadmaps(c *fiber.Ctx) error {
	var roadmaps []models.Roadmap
	if err := rc.DB.Find(&roadmaps).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch roadmaps")
	}
	return c.JSON(roadmaps)
}

// GetRoadmap returns one roadmap with its steps in sequence order.
func (rc *RoadmapsController) GetRoadmap(c *fiber.Ctx) error {
	roadmapID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid roadmap ID")
	}

	var roadmap models.Roadmap
	if err := rc.DB.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order ASC")
	}).First(&roadmap, roadmapID).Error; err != nil {
		return utils.NotFound(c, "Roadmap not found")
	}

	return c.JSON(roadmap)
}

type CreateRoadmapInput struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
}

// CreateRoadmap adds a catalog entry. Admin only.
func (rc *RoadmapsController) CreateRoadmap(c *fiber.Ctx) error {
	var input CreateRoadmapInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Slug == "" || input.Title == "" || input.Category == "" || input.Difficulty == "" {
		return utils.BadRequest(c, "Slug, title, category and difficulty are required")
	}

	roadmap := models.Roadmap{
		Slug:        input.Slug,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Difficulty:  input.Difficulty,
	}
	if err := rc.DB.Create(&roadmap).Error; err != nil {
		return utils.InternalServerError(c, "Could not create roadmap")
	}

	return utils.Created(c, roadmap)
}

type CreateStepInput struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Content          string `json:"content"`
	SequenceOrder    int    `json:"sequenceOrder"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
}

// AddStep appends a step to a roadmap. Admin only.
func (rc *RoadmapsController) AddStep(c *fiber.Ctx) error {
	roadmapID, err := strconv.Atoi(c.Params("roadmapId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid roadmap ID")
	}

	var roadmap models.Roadmap
	if err := rc.DB.First(&roadmap, roadmapID).Error; err != nil {
		return utils.NotFound(c, "Roadmap not found")
	}

	var input CreateStepInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}
	if input.EstimatedMinutes <= 0 {
		input.EstimatedMinutes = 30
	}

	step := models.Step{
		RoadmapID:        roadmap.ID,
		Title:            input.Title,
		Description:      input.Description,
		Content:          input.Content,
		SequenceOrder:    input.SequenceOrder,
		EstimatedMinutes: input.EstimatedMinutes,
	}
	if err := rc.DB.Create(&step).Error; err != nil {
		return utils.InternalServerError(c, "Could not create step")
	}

	return utils.Created(c, step)
}
