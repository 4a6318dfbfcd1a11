package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/nyayasetu/ai-backend/internal/utils"
)

// MockEngine answers with deterministic canned JSON so the service runs
// end-to-end without provider credentials. The case type varies with the
// prompt hash; the shape matches whichever contract the prompt asks for.
type MockEngine struct {
	ModelVersion string
}

func (m MockEngine) Name() string { return "mock" }

func (m MockEngine) Available(ctx context.Context) bool { return true }

func (m MockEngine) Generate(ctx context.Context, prompt string, p Params) (Result, error) {
	h := utils.HashStringToUint64(prompt)

	var content string
	switch {
	case strings.Contains(prompt, `"case_assessment"`):
		content = mockHearingJSON
	case strings.Contains(prompt, `"caseType"`):
		caseTypes := []string{"Mediation", "Conciliation", "Negotiation", "Arbitration"}
		urgency := []string{"Low", "Medium", "High"}
		content = fmt.Sprintf(mockFilingJSON,
			caseTypes[h%uint64(len(caseTypes))],
			urgency[(h/7)%uint64(len(urgency))])
	default:
		content = mockFormatJSON
	}

	return Result{
		Content:  content,
		Provider: "mock",
		Model:    m.ModelVersion,
		Usage: Usage{
			PromptTokens:     len(strings.Fields(prompt)),
			CompletionTokens: len(strings.Fields(content)),
		},
	}, nil
}

const mockFilingJSON = `{
  "suggestions": {
    "caseType": {
      "recommended": "%s",
      "confidence": 0.72,
      "rationale": "Deterministic suggestion from the mock engine.",
      "alternatives": []
    },
    "requiredDocuments": [
      {"type": "Contract", "description": "Any written agreement between the parties", "priority": "Required", "reason": "Establishes the terms in dispute"}
    ],
    "fieldHints": {
      "title": "Review and clarify the dispute title",
      "estimatedTimeline": "2-3 months"
    },
    "urgency": {
      "level": "%s",
      "confidence": 0.6,
      "factors": ["mock assessment"]
    }
  }
}`

const mockHearingJSON = `{
  "summary": {
    "hearing_type": "Civil",
    "duration_minutes": 60,
    "key_issues": ["Contract interpretation"],
    "judge_orders": []
  },
  "participants": {"judge": "Presiding Judge"},
  "arguments": {"plaintiff": {"main_points": ["mock argument"]}, "defendant": {"main_points": ["mock argument"]}},
  "case_assessment": {"strength_plaintiff": "Moderate", "strength_defendant": "Moderate", "likely_outcome": "Uncertain", "settlement_possibility": "Medium"},
  "recommendations": {"for_plaintiff": ["gather evidence"], "for_defendant": ["gather evidence"]}
}`

const mockFormatJSON = `{
  "format_type": "summary",
  "language": "en",
  "content": {
    "structured": [],
    "summary": "Mock summary of the transcript.",
    "key_points": ["mock key point"]
  },
  "metadata": {
    "total_duration": "unknown",
    "speakers": [],
    "word_count": 0,
    "confidence": 0.5
  }
}`
