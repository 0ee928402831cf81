package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/SVPraveen1/spotmies-learning-path/internal/models"
)

// generatedQuestionCount is how many questions each AI-generated quiz holds.
const generatedQuestionCount = 10

var subjectTopics = map[string]string{
	"javascript": "variables, functions, closures, prototypes, ES6+, async/await, the event loop, promises, arrays, objects",
	"databases":  "SQL, NoSQL, MongoDB, indexing, normalization, ACID, transactions, queries, joins, aggregation, schemas",
	"react":      "components, hooks, state, props, JSX, the virtual DOM, lifecycle, context, Redux basics, React Router, performance",
	"nodejs":     "the event loop, modules, npm, Express, middleware, REST APIs, streams, buffers, the file system, authentication",
}

type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{} // Token bucket
}

func NewGeminiService(apiKey string, concurrentReqs int) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-flash")
	model.SetTemperature(0.7)
	model.SetTopP(0.95)

	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// GenerateQuizQuestions asks Gemini for a fresh question set for a subject.
// The caller falls back to the static bank on any error.
func (s *GeminiService) GenerateQuizQuestions(ctx context.Context, subject, title string, numQuestions int) ([]models.Question, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer s.releaseRate()

	prompt := buildQuizPrompt(subject, title, numQuestions)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	rawText := stripCodeFences(extractText(resp))

	questions, err := parseQuizJSON(rawText)
	if err != nil {
		return nil, err
	}

	valid := validateQuizQuestions(subject, questions)
	if len(valid) == 0 {
		return nil, fmt.Errorf("Gemini returned no usable questions")
	}
	return valid, nil
}

// GenerateLearningPath turns assessment history into a topic roadmap. The
// caller substitutes the deterministic fallback path on any error.
func (s *GeminiService) GenerateLearningPath(ctx context.Context, summaries []models.AssessmentSummary) (*models.Roadmap, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer s.releaseRate()

	prompt := buildLearningPathPrompt(summaries)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	rawText := stripCodeFences(extractText(resp))

	roadmap, err := parseRoadmapJSON(rawText)
	if err != nil {
		return nil, err
	}
	if len(roadmap.Topics) == 0 {
		return nil, fmt.Errorf("Gemini returned a roadmap with no topics")
	}
	return roadmap, nil
}

// NextRecommendations produces a short progress-aware nudge.
func (s *GeminiService) NextRecommendations(ctx context.Context, completed, remaining []string) (*models.NextSteps, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer s.releaseRate()

	prompt := buildNextStepsPrompt(completed, remaining)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	rawText := stripCodeFences(extractText(resp))

	var steps models.NextSteps
	if err := json.Unmarshal([]byte(rawText), &steps); err != nil {
		start := strings.Index(rawText, "{")
		end := strings.LastIndex(rawText, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("failed to parse next-steps response: %w", err)
		}
		if err := json.Unmarshal([]byte(rawText[start:end+1]), &steps); err != nil {
			return nil, fmt.Errorf("failed to parse next-steps response: %w", err)
		}
	}
	if steps.Message == "" {
		return nil, fmt.Errorf("Gemini returned an empty next-steps message")
	}
	return &steps, nil
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func parseQuizJSON(rawText string) ([]models.Question, error) {
	var payload struct {
		Questions []models.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(rawText), &payload); err == nil && len(payload.Questions) > 0 {
		return payload.Questions, nil
	}

	// Try to extract the JSON object
	start := strings.Index(rawText, "{")
	end := strings.LastIndex(rawText, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(rawText[start:end+1]), &payload); err == nil && len(payload.Questions) > 0 {
			return payload.Questions, nil
		}
	}
	return nil, fmt.Errorf("failed to parse quiz questions from model output")
}

func parseRoadmapJSON(rawText string) (*models.Roadmap, error) {
	var roadmap models.Roadmap
	if err := json.Unmarshal([]byte(rawText), &roadmap); err == nil {
		return &roadmap, nil
	}

	start := strings.Index(rawText, "{")
	end := strings.LastIndex(rawText, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(rawText[start:end+1]), &roadmap); err == nil {
			return &roadmap, nil
		}
	}
	return nil, fmt.Errorf("failed to parse roadmap from model output")
}

// validateQuizQuestions drops malformed questions and normalizes the rest:
// exactly 4 options, correct index in range, stable per-subject ids.
func validateQuizQuestions(subject string, questions []models.Question) []models.Question {
	var valid []models.Question
	for _, q := range questions {
		if q.Question == "" || len(q.Options) != 4 {
			continue
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			continue
		}
		if q.Explanation == "" {
			q.Explanation = "Review the topic for more details."
		}
		q.ID = fmt.Sprintf("%s-ai-%d", subject, len(valid)+1)
		valid = append(valid, q)
	}
	return valid
}

func buildQuizPrompt(subject, title string, numQuestions int) string {
	topics, ok := subjectTopics[subject]
	if !ok {
		topics = "general programming concepts"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("You are an expert quiz generator. Create %d unique multiple-choice questions for a %s skill assessment.\n\n", numQuestions, title))
	b.WriteString(fmt.Sprintf("Topics to cover: %s\n", topics))
	b.WriteString(fmt.Sprintf("Random seed: %d (use this to generate a completely new set of questions)\n\n", time.Now().UnixNano()))

	b.WriteString(`Requirements:
1. Questions should vary in difficulty (3 easy, 4 medium, 3 hard)
2. Each question must have exactly 4 options
3. Questions should test practical knowledge, not just definitions
4. Include some code-based questions where appropriate
5. Make questions unique and DIFFERENT from previous generations

CRITICAL: Return ONLY valid JSON. No preamble, no markdown, no backticks.

JSON format:
{
  "questions": [
    {
      "question": "The question text goes here?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0,
      "explanation": "Brief explanation of why this answer is correct",
      "difficulty": "easy|medium|hard"
    }
  ]
}

correctAnswer is the index (0-3) of the correct option.
`)

	return b.String()
}

func buildLearningPathPrompt(summaries []models.AssessmentSummary) string {
	assessmentJSON, _ := json.MarshalIndent(summaries, "", "  ")

	var b strings.Builder
	b.WriteString("You are an expert learning path generator. Based on the following assessment results, create a personalized learning roadmap.\n\n")
	b.WriteString("Assessment Results:\n")
	b.Write(assessmentJSON)
	b.WriteString("\n\n")

	b.WriteString(`Generate a learning path with 8-12 topics. For each topic, consider:
1. Weak areas (low scores) should get more foundational topics
2. Strong areas (high scores) should get advanced topics
3. Include prerequisite relationships between topics
4. Provide real learning resources (free online resources preferred)

CRITICAL: Return ONLY valid JSON. No preamble, no markdown, no backticks.

JSON format:
{
  "overview": "Brief personalized message about the learning path",
  "estimatedDuration": "Total estimated time to complete",
  "topics": [
    {
      "id": "topic-1",
      "title": "Topic Title",
      "description": "What this topic covers and why it matters",
      "subject": "javascript|databases|react|nodejs|general",
      "difficulty": "beginner|intermediate|advanced",
      "estimatedTime": "Time to complete this topic",
      "order": 1,
      "prerequisites": [],
      "resources": [
        {
          "title": "Resource Title",
          "url": "https://actual-url.com",
          "type": "video|article|course|documentation|practice",
          "duration": "Duration or read time",
          "isFree": true
        }
      ]
    }
  ]
}

Use real URLs from MDN, freeCodeCamp, official docs, etc. Order topics from
foundational to advanced and keep the path achievable.
`)

	return b.String()
}

func buildNextStepsPrompt(completed, remaining []string) string {
	var b strings.Builder
	b.WriteString("Based on the user's progress through their learning path, suggest what they should focus on next.\n\n")
	b.WriteString(fmt.Sprintf("Completed topics: %s\n", strings.Join(completed, ", ")))
	b.WriteString(fmt.Sprintf("Remaining topics: %s\n\n", strings.Join(remaining, ", ")))
	b.WriteString(`Provide a brief motivational message and 2-3 specific next steps.

CRITICAL: Return ONLY valid JSON. No preamble, no markdown, no backticks.

JSON format:
{"message": "Encouraging message about progress", "nextSteps": ["Step 1", "Step 2"], "focusTopic": "The most important topic to focus on next"}
`)
	return b.String()
}

// logGenerationFailure records an upstream generation failure; callers always
// continue on the fallback path, so these are never surfaced to users.
func logGenerationFailure(operation string, err error) {
	log.Printf("WARNING: %s failed, using fallback: %v", operation, err)
}
