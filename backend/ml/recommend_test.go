package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"project/backend/models"
)

func roadmap(id uint, category, difficulty string) models.Roadmap {
	return models.Roadmap{
		Model:      gorm.Model{ID: id},
		Category:   category,
		Difficulty: difficulty,
	}
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "backend", NormalizeCategory("I want to build APIs"))
	assert.Equal(t, "devops", NormalizeCategory("docker and kubernetes"))
	assert.Equal(t, "ai", NormalizeCategory("Machine Learning"))
	assert.Equal(t, "cloud", NormalizeCategory("AWS certification"))
	assert.Equal(t, "", NormalizeCategory("gardening"))
}

func TestDifficultyFromYear(t *testing.T) {
	assert.Equal(t, SkillBeginner, DifficultyFromYear(0))
	assert.Equal(t, SkillBeginner, DifficultyFromYear(1))
	assert.Equal(t, SkillIntermediate, DifficultyFromYear(2))
	assert.Equal(t, SkillIntermediate, DifficultyFromYear(3))
	assert.Equal(t, SkillAdvanced, DifficultyFromYear(4))
}

func TestRecommendRoadmapEmptyCatalog(t *testing.T) {
	_, err := RecommendRoadmap(nil, RecommendInput{
		SkillLevel: SkillBeginner,
		Goal:       "backend",
		Year:       1,
		Interest:   "backend",
	})
	assert.ErrorIs(t, err, ErrNoRoadmaps)
}

func TestRecommendRoadmapPicksBestMatch(t *testing.T) {
	catalog := []models.Roadmap{
		roadmap(1, "frontend", "beginner"),
		roadmap(2, "backend", "intermediate"),
		roadmap(3, "ai", "advanced"),
	}

	rec, err := RecommendRoadmap(catalog, RecommendInput{
		SkillLevel: SkillIntermediate,
		Goal:       "become a backend developer",
		Year:       2,
		Interest:   "server side programming and databases",
	})
	assert.NoError(t, err)
	assert.Equal(t, uint(2), rec.RecommendedRoadmapID)
	// interest 0.5 + goal 0.2 + skill 0.2 + year 0.1 = 1.0, capped confidence
	assert.InDelta(t, 0.95, rec.Confidence, 1e-9)
}

func TestRecommendRoadmapTieBreaksOnLowestID(t *testing.T) {
	input := RecommendInput{
		SkillLevel: SkillBeginner,
		Goal:       "learn web development",
		Year:       1,
		Interest:   "web development",
	}

	// Identical candidates: both score the same on every rule
	a := roadmap(1, "frontend", "beginner")
	b := roadmap(2, "frontend", "beginner")

	rec, err := RecommendRoadmap([]models.Roadmap{a, b}, input)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), rec.RecommendedRoadmapID)

	// Reversed catalog order must not change the winner
	rec, err = RecommendRoadmap([]models.Roadmap{b, a}, input)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), rec.RecommendedRoadmapID)
}

func TestRecommendRoadmapConfidenceFloor(t *testing.T) {
	catalog := []models.Roadmap{
		roadmap(7, "blockchain", "advanced"),
	}

	// Nothing matches: score 0 still yields the 0.4 confidence floor
	rec, err := RecommendRoadmap(catalog, RecommendInput{
		SkillLevel: SkillBeginner,
		Goal:       "gardening",
		Year:       1,
		Interest:   "cooking",
	})
	assert.NoError(t, err)
	assert.Equal(t, uint(7), rec.RecommendedRoadmapID)
	assert.InDelta(t, 0.4, rec.Confidence, 1e-9)
}
