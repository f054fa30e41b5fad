package controllers

import (
	"strconv"
	"time"

	"project/backend/config"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AnalyticsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAnalyticsController(db *gorm.DB, cfg *config.Config) *AnalyticsController {
	return &AnalyticsController{DB: db, Cfg: cfg}
}

// GetRoadmapAnalytics returns enrollment and completion statistics for one
// roadmap. Admin only.
func (ac *AnalyticsController) GetRoadmapAnalytics(c *fiber.Ctx) error {
	roadmapID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid roadmap ID")
	}

	var roadmap models.Roadmap
	if err := ac.DB.First(&roadmap, roadmapID).Error; err != nil {
		return utils.NotFound(c, "Roadmap not found")
	}

	var stats struct {
		TotalEnrollments int64   `json:"total_enrollments"`
		Completed        int64   `json:"completed"`
		AvgProgress      float64 `json:"avg_progress"`
	}

	ac.DB.Model(&models.Enrollment{}).
		Where("roadmap_id = ?", roadmapID).
		Count(&stats.TotalEnrollments)

	ac.DB.Model(&models.Enrollment{}).
		Where("roadmap_id = ? AND progress >= 100", roadmapID).
		Count(&stats.Completed)

	ac.DB.Model(&models.Enrollment{}).
		Select("COALESCE(AVG(progress), 0)").
		Where("roadmap_id = ?", roadmapID).
		Scan(&stats.AvgProgress)

	// Per-step completion counts
	var stepStats []struct {
		StepID    uint   `json:"step_id"`
		StepTitle string `json:"step_title"`
		Completed int64  `json:"completed"`
	}

	ac.DB.Raw(`
		SELECT s.id AS step_id, s.title AS step_title,
		COUNT(sp.id) AS completed
		FROM steps s
		LEFT JOIN step_progresses sp ON sp.step_id = s.id
		WHERE s.roadmap_id = ?
		GROUP BY s.id, s.title
		ORDER BY s.sequence_order
	`, roadmapID).Scan(&stepStats)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"roadmap_id":    roadmapID,
		"roadmap_title": roadmap.Title,
		"stats":         stats,
		"step_stats":    stepStats,
	})
}

// GetPlatformAnalytics returns platform-wide metrics. Admin only.
func (ac *AnalyticsController) GetPlatformAnalytics(c *fiber.Ctx) error {
	var metrics struct {
		TotalUsers       int64   `json:"total_users"`
		ActiveUsers      int64   `json:"active_users"`
		TotalRoadmaps    int64   `json:"total_roadmaps"`
		TotalEnrollments int64   `json:"total_enrollments"`
		AvgProgress      float64 `json:"avg_progress"`
	}

	ac.DB.Model(&models.User{}).Count(&metrics.TotalUsers)
	ac.DB.Model(&models.LoginHistory{}).
		Distinct("user_id").
		Where("login_time > ?", time.Now().AddDate(0, 0, -30)).
		Count(&metrics.ActiveUsers)
	ac.DB.Model(&models.Roadmap{}).Count(&metrics.TotalRoadmaps)
	ac.DB.Model(&models.Enrollment{}).Count(&metrics.TotalEnrollments)
	ac.DB.Model(&models.Enrollment{}).
		Select("COALESCE(AVG(progress), 0)").
		Scan(&metrics.AvgProgress)

	// Most popular roadmaps by enrollment count
	var popularRoadmaps []map[string]interface{}
	ac.DB.Raw(`
		SELECT r.id, r.title,
		COUNT(e.id) AS enrollments,
		COALESCE(AVG(e.progress), 0) AS avg_progress
		FROM roadmaps r
		LEFT JOIN enrollments e ON e.roadmap_id = r.id
		GROUP BY r.id, r.title
		ORDER BY enrollments DESC
		LIMIT 5
	`).Scan(&popularRoadmaps)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"metrics":          metrics,
		"popular_roadmaps": popularRoadmaps,
		"timestamp":        time.Now().Format(time.RFC3339),
	})
}
