package controllers

import (
	"project/backend/config"
	"project/backend/services"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StatsController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Activity *services.ActivityService
}

func NewStatsController(db *gorm.DB, cfg *config.Config, activity *services.ActivityService) *StatsController {
	return &StatsController{DB: db, Cfg: cfg, Activity: activity}
}

// GetStats returns lifetime totals, the current streak and the last 30 days of
// daily activity.
func (sc *StatsController) GetStats(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	stats, err := sc.Activity.GetUserStats(userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch stats")
	}

	activity, err := sc.Activity.DailyActivity(userID, 30)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch daily activity")
	}

	return c.JSON(fiber.Map{
		"totalSteps":    stats.TotalSteps,
		"totalMinutes":  stats.TotalMinutes,
		"streak":        stats.Streak,
		"dailyActivity": activity,
	})
}
