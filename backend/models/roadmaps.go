package models

import "gorm.io/gorm"

type Roadmap struct {
	gorm.Model
	Slug        string `gorm:"unique;not null"`
	Title       string `gorm:"not null"`
	Description string
	Category    string // backend, frontend, ai, devops, mobile, cybersecurity, cloud, blockchain, fullstack
	Difficulty  string // beginner, intermediate, advanced
	Steps       []Step
}

type Step struct {
	gorm.Model
	RoadmapID        uint
	Title            string
	Description      string
	Content          string // Markdown content
	SequenceOrder    int
	EstimatedMinutes int `gorm:"default:30"`
}
