package ml

import (
	"errors"
	"math"
	"strings"

	"project/backend/models"
)

// ErrNoRoadmaps is returned when the catalog has no candidates to score.
var ErrNoRoadmaps = errors.New("no roadmaps available")

type categoryEntry struct {
	category string
	keywords []string
}

// Keyword table for free-text category inference. A slice, not a map: the
// first category whose keyword matches wins, so iteration order is fixed.
var categoryKeywords = []categoryEntry{
	{"backend", []string{"backend", "server", "api", "database", "node", "express"}},
	{"frontend", []string{"frontend", "ui", "ux", "web", "react", "css", "html"}},
	{"ai", []string{"ai", "ml", "machine", "learning", "data"}},
	{"devops", []string{"devops", "ci", "cd", "docker", "kubernetes"}},
	{"mobile", []string{"mobile", "android", "ios", "flutter", "react native"}},
	{"cybersecurity", []string{"cyber", "security", "infosec", "pentest"}},
	{"cloud", []string{"cloud", "aws", "azure", "gcp"}},
	{"blockchain", []string{"blockchain", "web3", "crypto", "solidity"}},
	{"fullstack", []string{"fullstack", "full-stack", "full stack"}},
}

// NormalizeCategory maps free text to a known roadmap category, or "" when no
// keyword matches.
func NormalizeCategory(input string) string {
	text := strings.ToLower(input)
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				return entry.category
			}
		}
	}
	return ""
}

// DifficultyFromYear buckets a study year into a difficulty level.
func DifficultyFromYear(year int) SkillLevel {
	if year <= 1 {
		return SkillBeginner
	}
	if year <= 3 {
		return SkillIntermediate
	}
	return SkillAdvanced
}

type RecommendInput struct {
	SkillLevel SkillLevel `json:"skillLevel"`
	Goal       string     `json:"goal"`
	Year       int        `json:"year"`
	Interest   string     `json:"interest"`
}

type Recommendation struct {
	RecommendedRoadmapID uint    `json:"recommendedRoadmapId"`
	Confidence           float64 `json:"confidence"`
}

// RecommendRoadmap scores every candidate independently and returns the best
// match. Ties are broken by the lowest roadmap ID, so the result is stable
// regardless of catalog order. Confidence has a floor of 0.4 even when nothing
// matched.
func RecommendRoadmap(roadmaps []models.Roadmap, input RecommendInput) (Recommendation, error) {
	if len(roadmaps) == 0 {
		return Recommendation{}, ErrNoRoadmaps
	}

	interestCategory := NormalizeCategory(input.Interest)
	goalCategory := NormalizeCategory(input.Goal)
	yearDifficulty := DifficultyFromYear(input.Year)

	best := roadmaps[0]
	bestScore := -1.0

	for _, roadmap := range roadmaps {
		score := 0.0

		if interestCategory != "" && roadmap.Category == interestCategory {
			score += 0.5
		}
		if goalCategory != "" && roadmap.Category == goalCategory {
			score += 0.2
		}
		if roadmap.Difficulty == string(input.SkillLevel) {
			score += 0.2
		}
		if roadmap.Difficulty == string(yearDifficulty) {
			score += 0.1
		}

		if score > bestScore || (score == bestScore && roadmap.ID < best.ID) {
			best = roadmap
			bestScore = score
		}
	}

	confidence := math.Min(0.95, 0.4+0.6*math.Max(0, bestScore))

	return Recommendation{RecommendedRoadmapID: best.ID, Confidence: confidence}, nil
}
