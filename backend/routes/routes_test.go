package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"project/backend/config"
	"project/backend/models"
	"project/backend/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:             "test-secret",
		DefaultAvgTimePerStep: 90,
		DefaultRetryFrequency: 1.2,
		DefaultSessionMinutes: 30,
	}
}

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := utils.MigrateModels(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	app := fiber.New()
	SetupRoutes(app, db, testConfig())
	return app, db
}

func performJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	resp.Body.Close()
	return resp, raw
}

func registerUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	resp, raw := performJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register returned %d: %s", resp.StatusCode, raw)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Token == "" {
		t.Fatalf("register returned no token: %s", raw)
	}
	return body.Token
}

func seedRoadmap(t *testing.T, db *gorm.DB, category, difficulty string, stepCount int) models.Roadmap {
	t.Helper()

	roadmap := models.Roadmap{
		Slug:       fmt.Sprintf("%s-%s", category, difficulty),
		Title:      category,
		Category:   category,
		Difficulty: difficulty,
	}
	if err := db.Create(&roadmap).Error; err != nil {
		t.Fatalf("failed to seed roadmap: %v", err)
	}
	for i := 1; i <= stepCount; i++ {
		step := models.Step{
			RoadmapID:        roadmap.ID,
			Title:            fmt.Sprintf("Step %d", i),
			SequenceOrder:    i,
			EstimatedMinutes: 30,
		}
		if err := db.Create(&step).Error; err != nil {
			t.Fatalf("failed to seed step: %v", err)
		}
	}
	return roadmap
}

func enroll(t *testing.T, app *fiber.App, token string, roadmapID uint) uint {
	t.Helper()

	resp, raw := performJSON(t, app, http.MethodPost, fmt.Sprintf("/api/roadmaps/%d/enroll", roadmapID), token, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("enroll returned %d: %s", resp.StatusCode, raw)
	}

	var body struct {
		Data struct {
			ID uint `json:"ID"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Data.ID == 0 {
		t.Fatalf("enroll returned no enrollment id: %s", raw)
	}
	return body.Data.ID
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := setupTestApp(t)

	token := registerUser(t, app, "alice")
	assert.NotEmpty(t, token)

	resp, raw := performJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"username": "alice",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(raw, &body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "alice", body.User.Username)

	resp, _ = performJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"username": "alice",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = performJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, _ := performJSON(t, app, http.MethodGet, "/api/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = performJSON(t, app, http.MethodGet, "/api/enrollments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEnrollmentFlow(t *testing.T) {
	app, db := setupTestApp(t)
	token := registerUser(t, app, "alice")
	roadmap := seedRoadmap(t, db, "backend", "beginner", 3)

	enrollmentID := enroll(t, app, token, roadmap.ID)
	assert.NotZero(t, enrollmentID)

	// Duplicate enrollment is rejected
	resp, _ := performJSON(t, app, http.MethodPost, fmt.Sprintf("/api/roadmaps/%d/enroll", roadmap.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown roadmap
	resp, _ = performJSON(t, app, http.MethodPost, "/api/roadmaps/999/enroll", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw := performJSON(t, app, http.MethodGet, "/api/enrollments", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var enrollments []models.Enrollment
	assert.NoError(t, json.Unmarshal(raw, &enrollments))
	assert.Len(t, enrollments, 1)
	assert.Equal(t, "active", enrollments[0].Status)
	assert.Equal(t, roadmap.ID, enrollments[0].Roadmap.ID)
}

func TestEnrollmentOwnership(t *testing.T) {
	app, db := setupTestApp(t)
	tokenA := registerUser(t, app, "alice")
	tokenB := registerUser(t, app, "bob")
	roadmap := seedRoadmap(t, db, "backend", "beginner", 2)

	enrollmentID := enroll(t, app, tokenA, roadmap.ID)

	resp, _ := performJSON(t, app, http.MethodGet, fmt.Sprintf("/api/enrollments/%d", enrollmentID), tokenB, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = performJSON(t, app, http.MethodPost, fmt.Sprintf("/api/enrollments/%d/steps/1/complete", enrollmentID), tokenB, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCompleteStepUpdatesProgressAndStreak(t *testing.T) {
	app, db := setupTestApp(t)
	token := registerUser(t, app, "alice")
	roadmap := seedRoadmap(t, db, "backend", "beginner", 2)
	enrollmentID := enroll(t, app, token, roadmap.ID)

	var steps []models.Step
	assert.NoError(t, db.Where("roadmap_id = ?", roadmap.ID).Order("sequence_order ASC").Find(&steps).Error)

	resp, raw := performJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/enrollments/%d/steps/%d/complete", enrollmentID, steps[0].ID), token,
		fiber.Map{"timeSpentSeconds": 120, "attemptNumber": 1})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var first struct {
		Progress    int `json:"progress"`
		Streak      int `json:"streak"`
		TimeTracked int `json:"timeTracked"`
	}
	assert.NoError(t, json.Unmarshal(raw, &first))
	assert.Equal(t, 50, first.Progress)
	assert.Equal(t, 1, first.Streak)
	assert.Equal(t, 120, first.TimeTracked)

	resp, raw = performJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/enrollments/%d/steps/%d/complete", enrollmentID, steps[1].ID), token,
		fiber.Map{"timeSpentSeconds": 180, "attemptNumber": 1})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var second struct {
		Progress int `json:"progress"`
		Streak   int `json:"streak"`
	}
	assert.NoError(t, json.Unmarshal(raw, &second))
	assert.Equal(t, 100, second.Progress)
	assert.Equal(t, 1, second.Streak)

	var enrollment models.Enrollment
	assert.NoError(t, db.First(&enrollment, enrollmentID).Error)
	assert.Equal(t, "completed", enrollment.Status)
	assert.Equal(t, 100, enrollment.Progress)

	// The metric cache was refreshed from the two sessions
	var metric models.UserMetric
	assert.NoError(t, db.Where("enrollment_id = ?", enrollmentID).First(&metric).Error)
	assert.Equal(t, 150.0, metric.AvgTimePerStep)
	assert.Equal(t, 1.0, metric.RetryFrequency)
	assert.Equal(t, 1, metric.StreakLength)

	resp, raw = performJSON(t, app, http.MethodGet, "/api/stats", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		TotalSteps   int `json:"totalSteps"`
		TotalMinutes int `json:"totalMinutes"`
		Streak       int `json:"streak"`
	}
	assert.NoError(t, json.Unmarshal(raw, &stats))
	assert.Equal(t, 2, stats.TotalSteps)
	assert.Equal(t, 4, stats.TotalMinutes)
	assert.Equal(t, 1, stats.Streak)
}

func TestCompleteStepWithoutBodyUsesDefaults(t *testing.T) {
	app, db := setupTestApp(t)
	token := registerUser(t, app, "alice")
	roadmap := seedRoadmap(t, db, "backend", "beginner", 4)
	enrollmentID := enroll(t, app, token, roadmap.ID)

	var step models.Step
	assert.NoError(t, db.Where("roadmap_id = ?", roadmap.ID).First(&step).Error)

	resp, raw := performJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/enrollments/%d/steps/%d/complete", enrollmentID, step.ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Progress    int `json:"progress"`
		TimeTracked int `json:"timeTracked"`
	}
	assert.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 25, body.Progress)
	assert.Equal(t, 0, body.TimeTracked)

	// Untracked completions credit the default session length
	var stat models.DailyStat
	assert.NoError(t, db.Where("user_id = (?)", db.Model(&models.User{}).Select("id").Where("username = ?", "alice")).First(&stat).Error)
	assert.Equal(t, 30, stat.MinutesSpent)
}

func TestAssessmentOverridesSkillPrediction(t *testing.T) {
	app, db := setupTestApp(t)
	token := registerUser(t, app, "alice")
	roadmap := seedRoadmap(t, db, "backend", "beginner", 2)
	enrollmentID := enroll(t, app, token, roadmap.ID)

	// Cold start: no sessions, no assessments, defaults classify intermediate
	resp, raw := performJSON(t, app, http.MethodPost, "/api/ml/predict/skill-level", token,
		fiber.Map{"enrollmentId": enrollmentID})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var prediction struct {
		SkillLevel string `json:"skillLevel"`
	}
	assert.NoError(t, json.Unmarshal(raw, &prediction))
	assert.Equal(t, "intermediate", prediction.SkillLevel)

	resp, raw = performJSON(t, app, http.MethodPost, "/api/assessments", token,
		fiber.Map{"enrollmentId": enrollmentID, "score": 85})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			SkillLevel string `json:"skillLevel"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "advanced", created.Data.SkillLevel)

	// The assessment now wins over the behavioral classification
	resp, raw = performJSON(t, app, http.MethodPost, "/api/ml/predict/skill-level", token,
		fiber.Map{"enrollmentId": enrollmentID})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.Unmarshal(raw, &prediction))
	assert.Equal(t, "advanced", prediction.SkillLevel)

	// Out-of-range scores are rejected
	resp, _ = performJSON(t, app, http.MethodPost, "/api/assessments", token,
		fiber.Map{"enrollmentId": enrollmentID, "score": 101})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPredictProgressSpeed(t *testing.T) {
	app, db := setupTestApp(t)
	token := registerUser(t, app, "alice")
	roadmap := seedRoadmap(t, db, "backend", "beginner", 10)
	enrollmentID := enroll(t, app, token, roadmap.ID)

	var steps []models.Step
	assert.NoError(t, db.Where("roadmap_id = ?", roadmap.ID).Order("sequence_order ASC").Find(&steps).Error)

	for _, step := range steps[:2] {
		resp, _ := performJSON(t, app, http.MethodPost,
			fmt.Sprintf("/api/enrollments/%d/steps/%d/complete", enrollmentID, step.ID), token,
			fiber.Map{"timeSpentSeconds": 60, "attemptNumber": 1})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, raw := performJSON(t, app, http.MethodPost, "/api/ml/predict/progress-speed", token,
		fiber.Map{"enrollmentId": enrollmentID})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Two steps on day one: speed 2/day, eight steps left, four days out
	var body struct {
		PredictedDaysToCompletion int    `json:"predictedDaysToCompletion"`
		LearningPace              string `json:"learningPace"`
	}
	assert.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 4, body.PredictedDaysToCompletion)
	assert.Equal(t, "fast", body.LearningPace)
}

func TestPredictDropoutRiskFreshEnrollment(t *testing.T) {
	app, db := setupTestApp(t)
	token := registerUser(t, app, "alice")
	roadmap := seedRoadmap(t, db, "backend", "beginner", 5)
	enrollmentID := enroll(t, app, token, roadmap.ID)

	resp, raw := performJSON(t, app, http.MethodPost, "/api/ml/predict/dropout-risk", token,
		fiber.Map{"enrollmentId": enrollmentID})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// No completions and no streak yet, but accessed today: 0.2 + 0.1
	var body struct {
		DropoutRisk bool    `json:"dropoutRisk"`
		RiskScore   float64 `json:"riskScore"`
	}
	assert.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.DropoutRisk)
	assert.InDelta(t, 0.3, body.RiskScore, 1e-9)
}

func TestRecommendationEndpoint(t *testing.T) {
	app, db := setupTestApp(t)

	input := fiber.Map{
		"skillLevel": "beginner",
		"goal":       "become a backend developer",
		"year":       1,
		"interest":   "apis and databases",
	}

	// Empty catalog
	resp, _ := performJSON(t, app, http.MethodPost, "/api/ml/predict/roadmap-recommendation", "", input)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	frontend := seedRoadmap(t, db, "frontend", "beginner", 1)
	backend := seedRoadmap(t, db, "backend", "beginner", 1)
	_ = frontend

	resp, raw := performJSON(t, app, http.MethodPost, "/api/ml/predict/roadmap-recommendation", "", input)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		RecommendedRoadmapID uint    `json:"recommendedRoadmapId"`
		Confidence           float64 `json:"confidence"`
	}
	assert.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, backend.ID, body.RecommendedRoadmapID)
	// interest 0.5 + goal 0.2 + skill 0.2 + year 0.1 = 1.0, capped
	assert.InDelta(t, 0.95, body.Confidence, 1e-9)

	// Missing fields are rejected
	resp, _ = performJSON(t, app, http.MethodPost, "/api/ml/predict/roadmap-recommendation", "",
		fiber.Map{"skillLevel": "beginner", "year": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminRoutes(t *testing.T) {
	app, db := setupTestApp(t)
	token := registerUser(t, app, "alice")

	createInput := fiber.Map{
		"slug":       "go-developer",
		"title":      "Go Developer",
		"category":   "backend",
		"difficulty": "intermediate",
	}

	// Regular users cannot manage the catalog
	resp, _ := performJSON(t, app, http.MethodPost, "/api/admin/roadmaps", token, createInput)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	assert.NoError(t, db.Model(&models.User{}).Where("username = ?", "alice").Update("role", "admin").Error)

	resp, raw := performJSON(t, app, http.MethodPost, "/api/admin/roadmaps", token, createInput)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			ID uint `json:"ID"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(raw, &created))
	assert.NotZero(t, created.Data.ID)

	resp, _ = performJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/admin/roadmaps/%d/steps", created.Data.ID), token,
		fiber.Map{"title": "Basics", "sequenceOrder": 1})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var step models.Step
	assert.NoError(t, db.Where("roadmap_id = ?", created.Data.ID).First(&step).Error)
	assert.Equal(t, 30, step.EstimatedMinutes)
}
