package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nyayasetu/ai-backend/internal/engine"
	"github.com/nyayasetu/ai-backend/internal/models"
	"github.com/nyayasetu/ai-backend/internal/redact"
)

const validFilingJSON = `{
  "suggestions": {
    "caseType": {"recommended": "Mediation", "confidence": 0.85, "rationale": "amicable"},
    "requiredDocuments": [{"type": "Contract", "description": "agreement", "priority": "Required"}],
    "fieldHints": {"estimatedTimeline": "2-3 months"},
    "urgency": {"level": "Medium", "confidence": 0.7, "factors": ["payment overdue"]}
  }
}`

func TestParseFilingSuggestionsFenced(t *testing.T) {
	fenced := "```json\n" + validFilingJSON + "\n```"
	s, err := parseFilingSuggestions(fenced)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.CaseType.Recommended != models.CaseTypeMediation {
		t.Fatalf("expected Mediation, got %s", s.CaseType.Recommended)
	}
	if len(s.RequiredDocuments) != 1 {
		t.Fatalf("expected one document suggestion, got %d", len(s.RequiredDocuments))
	}
}

func TestParseFilingSuggestionsRejectsUnknownCaseType(t *testing.T) {
	bad := strings.Replace(validFilingJSON, "Mediation", "Banana", 1)
	_, err := parseFilingSuggestions(bad)
	if !errors.Is(err, ErrBadProviderJSON) {
		t.Fatalf("expected ErrBadProviderJSON, got %v", err)
	}
}

func TestDefaultSuggestions(t *testing.T) {
	s := DefaultSuggestions()
	if s.CaseType.Recommended != models.CaseTypeMediation {
		t.Fatalf("expected Mediation default, got %s", s.CaseType.Recommended)
	}
	if s.CaseType.Confidence != 0.5 || s.Urgency.Confidence != 0.5 {
		t.Fatalf("expected low-confidence defaults, got %+v", s)
	}
	if s.Urgency.Level != "Medium" {
		t.Fatalf("expected Medium urgency, got %s", s.Urgency.Level)
	}
}

func TestGetFilingSuggestionsEndToEnd(t *testing.T) {
	manager := engine.NewManager("mock", zerolog.Nop(), engine.MockEngine{ModelVersion: "mock-v1"})
	svc := &FilingService{
		Manager:  manager,
		Redactor: redact.New(),
		Logger:   zerolog.Nop(),
	}

	req := models.FilingRequest{
		DisputeTitle:       "Unpaid invoice",
		DisputeDescription: "Vendor owes Rs. 50,000, contact rajesh@example.com",
		Parties: []models.Party{
			{Name: "Rajesh Kumar", Role: "Complainant", Type: "Individual"},
		},
	}
	resp, err := svc.GetFilingSuggestions(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.RequestID == "" {
		t.Fatalf("expected a request id")
	}
	if !models.ValidCaseType(resp.Suggestions.CaseType.Recommended) {
		t.Fatalf("invalid case type %q", resp.Suggestions.CaseType.Recommended)
	}
	if resp.Metadata["provider"] != "mock" {
		t.Fatalf("expected mock provider metadata, got %v", resp.Metadata["provider"])
	}
}

func TestPrepareSafeInputStripsPII(t *testing.T) {
	svc := &FilingService{Redactor: redact.New(), Logger: zerolog.Nop()}
	req := models.FilingRequest{
		DisputeDescription: "Email rajesh@example.com about the Rs. 50,000 claim",
		Parties: []models.Party{
			{Name: "Rajesh Kumar", Role: "Complainant", Type: "Individual"},
		},
	}
	safe := svc.prepareSafeInput(req)

	if strings.Contains(safe.Description, "rajesh@example.com") {
		t.Fatalf("email leaked into safe input: %q", safe.Description)
	}
	if !strings.Contains(safe.Description, "Rs. 50,000") {
		t.Fatalf("amount should be preserved for reasoning: %q", safe.Description)
	}
	if len(safe.Parties) != 1 || safe.Parties[0].Role != "Complainant" {
		t.Fatalf("expected role-only party, got %+v", safe.Parties)
	}
	prompt := svc.buildPrompt(safe)
	if strings.Contains(prompt, "Rajesh Kumar") {
		t.Fatalf("party name leaked into prompt")
	}
}
