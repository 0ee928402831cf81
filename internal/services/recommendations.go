package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/SVPraveen1/spotmies-learning-path/internal/models"
)

// maxFallbackTopics caps the deterministic fallback roadmap length.
const maxFallbackTopics = 12

// RecommendationService produces topic roadmaps from assessment history.
// Gemini output is preferred; every failure degrades to a deterministic
// fallback table so the operation never errors for the user.
type RecommendationService struct {
	gemini *GeminiService // nil disables AI generation
}

func NewRecommendationService(gemini *GeminiService) *RecommendationService {
	return &RecommendationService{gemini: gemini}
}

// BuildRoadmap generates a roadmap for the given assessment history. Returns
// ValidationError when the history is empty; otherwise it always succeeds.
func (s *RecommendationService) BuildRoadmap(ctx context.Context, summaries []models.AssessmentSummary) (*models.Roadmap, error) {
	if len(summaries) == 0 {
		return nil, &ValidationError{Fields: map[string]string{
			"assessments": "Please complete at least one assessment before generating a learning path",
		}}
	}

	if s.gemini != nil {
		roadmap, err := s.gemini.GenerateLearningPath(ctx, summaries)
		if err == nil {
			return roadmap, nil
		}
		logGenerationFailure("learning path generation", err)
	}

	return fallbackRoadmap(summaries), nil
}

// NextSteps returns a progress nudge, AI-generated when possible.
func (s *RecommendationService) NextSteps(ctx context.Context, path *models.LearningPath) *models.NextSteps {
	var completed, remaining []string
	for _, t := range path.Topics {
		if t.Status == models.TopicCompleted {
			completed = append(completed, t.Title)
		} else {
			remaining = append(remaining, t.Title)
		}
	}

	if s.gemini != nil {
		steps, err := s.gemini.NextRecommendations(ctx, completed, remaining)
		if err == nil {
			return steps
		}
		logGenerationFailure("next-step recommendation", err)
	}

	steps := &models.NextSteps{
		Message:   "Great progress! Keep going!",
		NextSteps: []string{"Continue with the next topic in your path"},
	}
	if len(remaining) > 0 {
		steps.FocusTopic = remaining[0]
	}
	return steps
}

// fallbackRoadmap builds a deterministic roadmap from the static topic table,
// weakest subject first. No external calls, no randomness.
func fallbackRoadmap(summaries []models.AssessmentSummary) *models.Roadmap {
	ordered := make([]models.AssessmentSummary, len(summaries))
	copy(ordered, summaries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score < ordered[j].Score
	})

	var topics []models.Topic
	order := 1
	seen := make(map[string]bool)
	for _, summary := range ordered {
		if seen[summary.Subject] {
			continue
		}
		seen[summary.Subject] = true

		weak := summary.Score < 50
		for i, ft := range fallbackTopics[summary.Subject] {
			estimated := "3-5 days"
			if weak {
				estimated = "1-2 weeks"
			}
			topic := models.Topic{
				ID:            fmt.Sprintf("%s-%d", summary.Subject, i+1),
				Title:         ft.title,
				Description:   ft.description,
				Subject:       summary.Subject,
				Difficulty:    ft.difficulty,
				EstimatedTime: estimated,
				Status:        models.TopicNotStarted,
				Order:         order,
				Prerequisites: []string{},
				Resources:     ft.resources,
			}
			if i > 0 {
				topic.Prerequisites = []string{fmt.Sprintf("%s-%d", summary.Subject, i)}
			}
			topics = append(topics, topic)
			order++
		}
	}

	if len(topics) > maxFallbackTopics {
		topics = topics[:maxFallbackTopics]
	}

	return &models.Roadmap{
		Overview:          "Based on your assessment results, we've created a personalized learning path to help you improve your skills.",
		EstimatedDuration: "4-6 weeks",
		Topics:            topics,
	}
}

type fallbackTopic struct {
	title       string
	description string
	difficulty  string
	resources   []models.Resource
}

var fallbackTopics = map[string][]fallbackTopic{
	"javascript": {
		{
			title:       "JavaScript Fundamentals",
			description: "Core JavaScript concepts including variables, functions, and control flow",
			difficulty:  "beginner",
			resources: []models.Resource{
				{Title: "JavaScript Basics - MDN", URL: "https://developer.mozilla.org/en-US/docs/Learn/JavaScript/First_steps", Type: "documentation", Duration: "Self-paced", IsFree: true},
				{Title: "JavaScript Course - freeCodeCamp", URL: "https://www.freecodecamp.org/learn/javascript-algorithms-and-data-structures/", Type: "course", Duration: "Self-paced", IsFree: true},
			},
		},
		{
			title:       "ES6+ Features",
			description: "Modern JavaScript features including arrow functions, destructuring, and modules",
			difficulty:  "intermediate",
			resources: []models.Resource{
				{Title: "ES6 Features Overview", URL: "https://www.freecodecamp.org/news/write-less-do-more-with-javascript-es6-5fd4a8e50ee2/", Type: "article", Duration: "Self-paced", IsFree: true},
			},
		},
		{
			title:       "Asynchronous JavaScript",
			description: "Promises, async/await, and handling asynchronous operations",
			difficulty:  "advanced",
			resources: []models.Resource{
				{Title: "Async JavaScript - MDN", URL: "https://developer.mozilla.org/en-US/docs/Learn/JavaScript/Asynchronous", Type: "documentation", Duration: "Self-paced", IsFree: true},
			},
		},
	},
	"databases": {
		{
			title:       "Database Fundamentals",
			description: "Understanding relational and non-relational databases",
			difficulty:  "beginner",
			resources: []models.Resource{
				{Title: "Database Design Course", URL: "https://www.freecodecamp.org/news/database-design-course/", Type: "course", Duration: "Self-paced", IsFree: true},
			},
		},
		{
			title:       "SQL Essentials",
			description: "Writing queries, joins, and aggregations against relational data",
			difficulty:  "intermediate",
			resources: []models.Resource{
				{Title: "SQL Tutorial - W3Schools", URL: "https://www.w3schools.com/sql/", Type: "documentation", Duration: "Self-paced", IsFree: true},
			},
		},
		{
			title:       "MongoDB Essentials",
			description: "Working with MongoDB, documents, and queries",
			difficulty:  "intermediate",
			resources: []models.Resource{
				{Title: "MongoDB University", URL: "https://university.mongodb.com/", Type: "course", Duration: "Self-paced", IsFree: true},
			},
		},
	},
	"react": {
		{
			title:       "React Basics",
			description: "Components, JSX, and React fundamentals",
			difficulty:  "beginner",
			resources: []models.Resource{
				{Title: "React Documentation", URL: "https://react.dev/learn", Type: "documentation", Duration: "Self-paced", IsFree: true},
			},
		},
		{
			title:       "React Hooks",
			description: "useState, useEffect, and custom hooks",
			difficulty:  "intermediate",
			resources: []models.Resource{
				{Title: "React Hooks Guide", URL: "https://react.dev/reference/react/hooks", Type: "documentation", Duration: "Self-paced", IsFree: true},
			},
		},
		{
			title:       "State Management Patterns",
			description: "Context, reducers, and structuring shared state",
			difficulty:  "advanced",
			resources: []models.Resource{
				{Title: "Managing State - React Docs", URL: "https://react.dev/learn/managing-state", Type: "documentation", Duration: "Self-paced", IsFree: true},
			},
		},
	},
	"nodejs": {
		{
			title:       "Node.js Basics",
			description: "Understanding the Node.js runtime and core modules",
			difficulty:  "beginner",
			resources: []models.Resource{
				{Title: "Node.js Tutorial", URL: "https://nodejs.org/en/learn/getting-started/introduction-to-nodejs", Type: "documentation", Duration: "Self-paced", IsFree: true},
			},
		},
		{
			title:       "Express.js Framework",
			description: "Building REST APIs with Express",
			difficulty:  "intermediate",
			resources: []models.Resource{
				{Title: "Express.js Guide", URL: "https://expressjs.com/en/starter/installing.html", Type: "documentation", Duration: "Self-paced", IsFree: true},
			},
		},
		{
			title:       "Streams and Performance",
			description: "Processing data incrementally and profiling Node services",
			difficulty:  "advanced",
			resources: []models.Resource{
				{Title: "Node.js Streams", URL: "https://nodejs.org/api/stream.html", Type: "documentation", Duration: "Self-paced", IsFree: true},
			},
		},
	},
}
