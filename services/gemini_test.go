package services

import (
	"strings"
	"testing"

	"github.com/prepdeck/backend/models"
)

func TestParseQuestionSet(t *testing.T) {
	response := `{"questions": ["What is a goroutine?", "  Explain channels.  ", ""], "description": "Concurrency basics"}`

	set := parseQuestionSet(response)
	if len(set.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d: %+v", len(set.Questions), set.Questions)
	}
	if set.Questions[1] != "Explain channels." {
		t.Errorf("expected trimmed question, got %q", set.Questions[1])
	}
	if set.Description != "Concurrency basics" {
		t.Errorf("unexpected description %q", set.Description)
	}
}

func TestParseQuestionSetToleratesProseAroundJSON(t *testing.T) {
	response := "Here is your set:\n" +
		`{"questions": ["Q1"], "description": "one"}` +
		"\nLet me know if you need more."

	set := parseQuestionSet(response)
	if len(set.Questions) != 1 || set.Questions[0] != "Q1" {
		t.Fatalf("expected question extracted from surrounding prose, got %+v", set.Questions)
	}
}

func TestParseQuestionSetMalformedFallsBackToRawText(t *testing.T) {
	response := "Sorry, I cannot produce JSON today."

	set := parseQuestionSet(response)
	if len(set.Questions) != 0 {
		t.Errorf("expected no questions, got %+v", set.Questions)
	}
	if set.Description != response {
		t.Errorf("expected raw text preserved in description, got %q", set.Description)
	}
}

func TestBuildQuestionPrompt(t *testing.T) {
	prompt := buildQuestionPrompt(models.JobRoleBackend, "database indexing", 7)

	for _, want := range []string{"7 interview questions", "backend", "database indexing", `"questions"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}

	noTopic := buildQuestionPrompt(models.JobRoleFrontend, "", 5)
	if strings.Contains(noTopic, "Focus the questions on") {
		t.Error("expected no topic line when topic is empty")
	}
}
