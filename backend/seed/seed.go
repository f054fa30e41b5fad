package seed

import (
	"fmt"

	"gorm.io/gorm"

	"project/backend/models"
)

type roadmapSeed struct {
	Slug        string
	Title       string
	Description string
	Category    string
	Difficulty  string
	Steps       []string
}

var catalog = []roadmapSeed{
	{
		Slug:        "frontend-developer",
		Title:       "Frontend Developer",
		Description: "Build beautiful and interactive user interfaces.",
		Category:    "frontend",
		Difficulty:  "beginner",
		Steps: []string{
			"HTML Fundamentals",
			"CSS Basics & Flexbox",
			"Responsive Design with Tailwind",
			"JavaScript Essentials",
			"DOM Manipulation",
			"Async JS (Fetch & Promises)",
			"React Fundamentals",
			"React Hooks & State",
			"Frontend Project Construction",
		},
	},
	{
		Slug:        "backend-developer",
		Title:       "Backend Developer",
		Description: "Master server-side logic, databases, and APIs.",
		Category:    "backend",
		Difficulty:  "intermediate",
		Steps: []string{
			"Runtime & Language Basics",
			"Package Management",
			"Web Framework Fundamentals",
			"REST API Design Principles",
			"SQL Fundamentals",
			"ORM & PostgreSQL",
			"Authentication & Security",
			"Testing & Error Handling",
			"API Deployment & Scaling",
		},
	},
	{
		Slug:        "ai-engineer",
		Title:       "AI Engineer",
		Description: "Learn to build and deploy intelligent systems.",
		Category:    "ai",
		Difficulty:  "advanced",
		Steps: []string{
			"Python for AI & Data Science",
			"Math for ML: Linear Algebra",
			"Statistical Modeling Basics",
			"Supervised Learning Models",
			"Deep Learning & Neural Networks",
			"Natural Language Processing",
			"Large Language Models (LLMs)",
			"Prompt Engineering Strategies",
			"AI Model Deployment",
		},
	},
	{
		Slug:        "devops-engineer",
		Title:       "DevOps Engineer",
		Description: "Automate, deploy, and manage scalable infrastructure.",
		Category:    "devops",
		Difficulty:  "intermediate",
		Steps: []string{
			"Linux System Administration",
			"Git & Version Control",
			"Docker Fundamentals",
			"Kubernetes Orchestration",
			"CI/CD Pipeline Design",
			"Infrastructure as Code (Terraform)",
			"Monitoring & Logging",
			"Cloud Platform Basics",
			"DevOps Best Practices",
		},
	},
	{
		Slug:        "mobile-developer",
		Title:       "Mobile Developer",
		Description: "Create native and cross-platform mobile applications.",
		Category:    "mobile",
		Difficulty:  "beginner",
		Steps: []string{
			"Mobile Development Overview",
			"React Native Basics",
			"Component Architecture",
			"State Management in Mobile",
			"Navigation & Routing",
			"API Integration & Networking",
			"Local Storage & Persistence",
			"Mobile UI/UX Patterns",
			"Publishing to App Stores",
		},
	},
	{
		Slug:        "cybersecurity-specialist",
		Title:       "Cybersecurity Specialist",
		Description: "Protect systems and data from cyber threats.",
		Category:    "cybersecurity",
		Difficulty:  "advanced",
		Steps: []string{
			"Network Security Fundamentals",
			"Cryptography & Encryption",
			"Ethical Hacking Basics",
			"Penetration Testing Methods",
			"Web Application Security",
			"Threat Detection & Analysis",
			"Security Compliance & Standards",
			"Incident Response & Forensics",
			"Advanced Security Operations",
		},
	},
	{
		Slug:        "cloud-architect",
		Title:       "Cloud Architect",
		Description: "Design and manage cloud infrastructure at scale.",
		Category:    "cloud",
		Difficulty:  "intermediate",
		Steps: []string{
			"Cloud Computing Fundamentals",
			"AWS Core Services",
			"Azure Platform Overview",
			"Cloud Networking & VPC",
			"Serverless Architecture",
			"Cloud Storage Solutions",
			"Identity & Access Management",
			"Cost Optimization Strategies",
			"Cloud Migration Patterns",
		},
	},
	{
		Slug:        "blockchain-developer",
		Title:       "Blockchain Developer",
		Description: "Build decentralized applications and smart contracts.",
		Category:    "blockchain",
		Difficulty:  "advanced",
		Steps: []string{
			"Blockchain Fundamentals",
			"Ethereum & Smart Contracts",
			"Solidity Programming",
			"Web3 Integration",
			"DApp Development",
			"Token Standards (ERC-20, ERC-721)",
			"DeFi Protocols",
			"Security Best Practices",
			"Deployment & Testing",
		},
	},
	{
		Slug:        "fullstack-developer",
		Title:       "Full-Stack Developer",
		Description: "Master both frontend and backend development.",
		Category:    "fullstack",
		Difficulty:  "intermediate",
		Steps: []string{
			"HTML, CSS & JavaScript Mastery",
			"Modern Frontend Frameworks",
			"Backend Architecture Patterns",
			"Database Design & Optimization",
			"RESTful & GraphQL APIs",
			"Authentication & Authorization",
			"Deployment & Hosting",
			"Performance Optimization",
			"Full-Stack Project Integration",
		},
	},
}

// Roadmaps populates an empty catalog with the default roadmaps. A non-empty
// catalog is left untouched.
func Roadmaps(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Roadmap{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, data := range catalog {
		roadmap := models.Roadmap{
			Slug:        data.Slug,
			Title:       data.Title,
			Description: data.Description,
			Category:    data.Category,
			Difficulty:  data.Difficulty,
		}
		if err := db.Create(&roadmap).Error; err != nil {
			return err
		}

		for i, title := range data.Steps {
			step := models.Step{
				RoadmapID:        roadmap.ID,
				Title:            title,
				Description:      fmt.Sprintf("Master %s in this detailed learning guide.", title),
				Content:          fmt.Sprintf("# %s\n\nThis guide covers the core concepts and practical implementations of %s.", title, title),
				SequenceOrder:    i + 1,
				EstimatedMinutes: 60,
			}
			if err := db.Create(&step).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
