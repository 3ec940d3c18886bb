package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prepdeck/backend/models"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

const (
	ModelName        = "gemini-2.5-flash"
	MaxQuestionCount = 20
)

// GeminiService generates interview question sets. The model is instructed
// to return strict JSON with "questions" and "description" keys; extraction
// goes through gjson so stray prose around the JSON does not break parsing.
type GeminiService struct {
	genaiClient *genai.Client
}

// QuestionSet is a generated batch of interview questions
type QuestionSet struct {
	Questions   []string `json:"questions"`
	Description string   `json:"description"`
}

func NewGeminiService(apiKey string) *GeminiService {
	genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		slog.Error("Failed to create genai client", "error", err)
		return nil
	}

	return &GeminiService{genaiClient: genaiClient}
}

// GenerateQuestionSet asks the model for count questions on topic for role
func (g *GeminiService) GenerateQuestionSet(ctx context.Context, role models.JobRole, topic string, count int) (*QuestionSet, error) {
	if g.genaiClient == nil {
		return nil, fmt.Errorf("genai client not initialized")
	}
	if count < 1 || count > MaxQuestionCount {
		count = 5
	}

	prompt := buildQuestionPrompt(role, topic, count)

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			"You are an experienced technical interviewer preparing question sets for mock interviews. Respond with strict JSON only.",
			genai.RoleUser,
		),
		ResponseMIMEType: "application/json",
	}

	result, err := g.genaiClient.Models.GenerateContent(
		ctx,
		ModelName,
		genai.Text(prompt),
		config,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate questions: %v", ErrUpstream, err)
	}

	set := parseQuestionSet(result.Text())
	slog.Info("Question set generated", "job_role", role, "topic", topic, "count", len(set.Questions))
	return set, nil
}

func buildQuestionPrompt(role models.JobRole, topic string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d interview questions for a %s candidate.\n", count, role)
	if topic != "" {
		fmt.Fprintf(&b, "Focus the questions on: %s.\n", topic)
	}
	b.WriteString(`Mix conceptual and practical questions, ordered from easier to harder.

Respond with a single JSON object shaped exactly as:
{"questions": ["question 1", "question 2"], "description": "one-sentence summary of the set"}`)
	return b.String()
}

// parseQuestionSet tolerantly extracts the question set from model output.
// Malformed output degrades to an empty set with the raw text preserved in
// the description rather than failing the request.
func parseQuestionSet(response string) *QuestionSet {
	set := &QuestionSet{}

	// Models sometimes wrap the JSON in prose; parse just the object.
	raw := response
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}

	parsed := gjson.Parse(raw)
	for _, q := range parsed.Get("questions").Array() {
		if text := strings.TrimSpace(q.String()); text != "" {
			set.Questions = append(set.Questions, text)
		}
	}
	set.Description = parsed.Get("description").String()

	if len(set.Questions) == 0 {
		slog.Error("Failed to parse question set from model output", "response_length", len(response))
		set.Description = strings.TrimSpace(response)
	}
	return set
}
