package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/nyayasetu/ai-backend/internal/db"
	"github.com/nyayasetu/ai-backend/internal/engine"
	"github.com/nyayasetu/ai-backend/internal/models"
	"github.com/nyayasetu/ai-backend/internal/redact"
)

// FilingService produces structured filing suggestions from a free-text
// dispute description. PII is redacted and party names stripped before any
// data leaves the process boundary.
type FilingService struct {
	Manager  *engine.Manager
	Store    *db.Store
	Redactor *redact.Redactor
	Logger   zerolog.Logger
	Sem      *semaphore.Weighted
}

type safeParty struct {
	Role string `json:"role"`
	Type string `json:"type"`
}

type safeFilingInput struct {
	Title             string                    `json:"title"`
	Description       string                    `json:"description"`
	CaseType          string                    `json:"case_type,omitempty"`
	Parties           []safeParty               `json:"parties"`
	EstimatedAmount   *float64                  `json:"estimated_amount,omitempty"`
	Jurisdiction      string                    `json:"jurisdiction,omitempty"`
	UploadedDocuments []models.UploadedDocument `json:"uploaded_documents"`
}

func (s *FilingService) GetFilingSuggestions(ctx context.Context, req models.FilingRequest) (models.FilingResponse, error) {
	start := time.Now()

	prompt := s.buildPrompt(s.prepareSafeInput(req))

	if s.Sem != nil {
		if err := s.Sem.Acquire(ctx, 1); err != nil {
			return models.FilingResponse{}, err
		}
		defer s.Sem.Release(1)
	}

	result, err := s.Manager.GenerateResponse(ctx, prompt, req.PreferredProvider, engine.Params{
		Temperature: 0.1,
		MaxTokens:   1500,
	})
	if err != nil {
		s.recordActivity(ctx, req, "failed", "", nil)
		return models.FilingResponse{}, err
	}

	suggestions, err := parseFilingSuggestions(result.Content)
	if err != nil {
		s.Logger.Error().Err(err).Str("provider", result.Provider).Msg("filing response rejected")
		s.recordActivity(ctx, req, "failed", result.Provider, nil)
		return models.FilingResponse{}, err
	}

	resp := models.FilingResponse{
		RequestID:   uuid.NewString(),
		Suggestions: suggestions,
		Metadata: map[string]any{
			"provider":           result.Provider,
			"model":              result.Model,
			"timestamp":          time.Now().UTC().Format(time.RFC3339),
			"processing_time_ms": time.Since(start).Milliseconds(),
		},
	}

	payload, _ := json.Marshal(resp)
	s.recordActivity(ctx, req, "completed", result.Provider, payload)
	return resp, nil
}

// prepareSafeInput redacts the description (amounts preserved so the model
// can reason about the dispute value) and drops party names entirely.
func (s *FilingService) prepareSafeInput(req models.FilingRequest) safeFilingInput {
	parties := make([]safeParty, 0, len(req.Parties))
	for _, p := range req.Parties {
		parties = append(parties, safeParty{Role: p.Role, Type: p.Type})
	}
	docs := req.UploadedDocuments
	if docs == nil {
		docs = []models.UploadedDocument{}
	}
	return safeFilingInput{
		Title:             req.DisputeTitle,
		Description:       s.Redactor.RedactText(req.DisputeDescription, true),
		CaseType:          req.CaseType,
		Parties:           parties,
		EstimatedAmount:   req.EstimatedAmount,
		Jurisdiction:      req.Jurisdiction,
		UploadedDocuments: docs,
	}
}

func (s *FilingService) buildPrompt(input safeFilingInput) string {
	b, _ := json.MarshalIndent(input, "", "  ")
	return fmt.Sprintf(`You are a legal intake assistant for an Online Dispute Resolution (ODR) platform in India.
Your task is to analyze dispute information and provide structured suggestions for case filing.

IMPORTANT: Return ONLY valid JSON. No additional text, explanations, or markdown.

Given the dispute information, provide suggestions for:
1. Most appropriate case type (Mediation, Conciliation, Negotiation, or Arbitration)
2. Required and recommended documents
3. Field hints and improvements
4. Urgency assessment

Input: %s

Return JSON in this exact format:
{
  "suggestions": {
    "caseType": {
      "recommended": "Mediation|Conciliation|Negotiation|Arbitration",
      "confidence": 0.85,
      "rationale": "Clear explanation for recommendation",
      "alternatives": [
        {"type": "Arbitration", "confidence": 0.65, "reason": "Alternative reasoning"}
      ]
    },
    "requiredDocuments": [
      {
        "type": "Contract|Invoice|Email_Communication|Legal_Notice|Financial_Statement|Identity_Proof|Evidence_Photo|Other",
        "description": "Clear description of document needed",
        "priority": "Required|Recommended|Optional",
        "reason": "Why this document is important"
      }
    ],
    "fieldHints": {
      "title": "Suggested improved title",
      "jurisdiction": "Suggested jurisdiction",
      "estimatedTimeline": "Expected resolution timeframe",
      "suggestedAmount": 50000
    },
    "urgency": {
      "level": "Low|Medium|High",
      "confidence": 0.75,
      "factors": ["List of factors determining urgency"]
    }
  }
}`, string(b))
}

func parseFilingSuggestions(content string) (models.FilingSuggestions, error) {
	envelope, err := decodeEnvelope(content, "suggestions")
	if err != nil {
		return models.FilingSuggestions{}, err
	}
	var suggestions models.FilingSuggestions
	if err := json.Unmarshal(envelope["suggestions"], &suggestions); err != nil {
		return models.FilingSuggestions{}, fmt.Errorf("%w: %v", ErrBadProviderJSON, err)
	}
	if !models.ValidCaseType(suggestions.CaseType.Recommended) {
		return models.FilingSuggestions{}, fmt.Errorf("%w: invalid case type %q", ErrBadProviderJSON, suggestions.CaseType.Recommended)
	}
	return suggestions, nil
}

// DefaultSuggestions is the documented low-confidence fallback the boundary
// layer may substitute when the provider answer is unusable.
func DefaultSuggestions() models.FilingSuggestions {
	return models.FilingSuggestions{
		CaseType: models.CaseTypeSuggestion{
			Recommended: models.CaseTypeMediation,
			Confidence:  0.5,
			Rationale:   "Default recommendation due to parsing error",
		},
		RequiredDocuments: []models.DocumentSuggestion{},
		FieldHints:        models.FieldHints{},
		Urgency: models.UrgencyAssessment{
			Level:      "Medium",
			Confidence: 0.5,
			Factors:    []string{"Unable to analyze"},
		},
	}
}

func (s *FilingService) recordActivity(ctx context.Context, req models.FilingRequest, status, provider string, payload []byte) {
	if s.Store == nil {
		return
	}
	title := req.DisputeTitle
	if title == "" {
		title = "Filing suggestions"
	}
	a := models.Activity{
		ID:        uuid.NewString(),
		Kind:      models.ActivityFiling,
		Title:     title,
		Status:    status,
		Provider:  provider,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.RecordActivity(ctx, a); err != nil {
		s.Logger.Warn().Err(err).Str("kind", a.Kind).Msg("history write failed")
	}
}
