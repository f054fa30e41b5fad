package routes

import (
	"project/backend/config"
	"project/backend/controllers"
	"project/backend/metrics"
	"project/backend/middleware"
	"project/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	activityService := services.NewActivityService(db)
	metricsService := services.NewMetricsService(db, metrics.Defaults{
		AvgTimePerStep: cfg.DefaultAvgTimePerStep,
		RetryFrequency: cfg.DefaultRetryFrequency,
	})

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg, activityService)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Roadmap catalog
	roadmapsController := controllers.NewRoadmapsController(db, cfg)
	app.Get("/api/roadmaps", roadmapsController.GetRoadmaps)
	app.Get("/api/roadmaps/:id", roadmapsController.GetRoadmap)

	// Enrollments
	enrollmentsController := controllers.NewEnrollmentsController(db, cfg)
	app.Get("/api/enrollments", authMiddleware, enrollmentsController.GetEnrollments)
	app.Post("/api/roadmaps/:roadmapId/enroll", authMiddleware, enrollmentsController.Enroll)
	app.Get("/api/enrollments/:id", authMiddleware, enrollmentsController.GetEnrollment)

	// Progress
	progressController := controllers.NewProgressController(db, cfg, activityService, metricsService)
	app.Post("/api/enrollments/:enrollmentId/steps/:stepId/complete", authMiddleware, progressController.CompleteStep)

	// Stats
	statsController := controllers.NewStatsController(db, cfg, activityService)
	app.Get("/api/stats", authMiddleware, statsController.GetStats)

	// Assessments
	assessmentsController := controllers.NewAssessmentsController(db, cfg)
	app.Post("/api/assessments", authMiddleware, assessmentsController.CreateAssessment)

	// Predictions
	mlController := controllers.NewMLController(db, cfg, activityService, metricsService)
	mlGroup := app.Group("/api/ml/predict")
	mlGroup.Post("/roadmap-recommendation", mlController.RecommendRoadmap)
	mlGroup.Post("/skill-level", authMiddleware, mlController.PredictSkillLevel)
	mlGroup.Post("/progress-speed", authMiddleware, mlController.PredictProgressSpeed)
	mlGroup.Post("/dropout-risk", authMiddleware, mlController.PredictDropoutRisk)

	// Admin routes
	analyticsController := controllers.NewAnalyticsController(db, cfg)
	admin := app.Group("/api/admin", authMiddleware, adminMiddleware)
	admin.Post("/roadmaps", roadmapsController.CreateRoadmap)
	admin.Post("/roadmaps/:roadmapId/steps", roadmapsController.AddStep)
	admin.Get("/roadmaps/:id/analytics", analyticsController.GetRoadmapAnalytics)
	admin.Get("/analytics/platform", analyticsController.GetPlatformAnalytics)
}
