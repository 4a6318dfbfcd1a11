package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/nyayasetu/ai-backend/internal/db"
	"github.com/nyayasetu/ai-backend/internal/engine"
	"github.com/nyayasetu/ai-backend/internal/models"
	"github.com/nyayasetu/ai-backend/internal/storage"
)

const maxHearingVideoBytes = 100 * 1024 * 1024

var hearingVideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".webm"}

// HearingService analyzes stored hearing recordings: transcribe, then ask
// the engine manager for a structured legal analysis of the transcript.
type HearingService struct {
	Files       *storage.Handler
	Transcriber *TranscriptionService
	Manager     *engine.Manager
	Store       *db.Store
	Logger      zerolog.Logger
	Sem         *semaphore.Weighted
}

type AnalyzeOptions struct {
	AnalysisType string
	Provider     string
	Language     string
}

type HearingResult struct {
	Transcription models.TranscriptionResult `json:"transcription"`
	Analysis      models.HearingAnalysis     `json:"analysis"`
	Metadata      map[string]any             `json:"metadata"`
}

func (s *HearingService) AnalyzeHearing(ctx context.Context, fileID string, opts AnalyzeOptions) (HearingResult, error) {
	start := time.Now()

	path, ok := s.Files.Path(fileID)
	if !ok {
		return HearingResult{}, storage.ErrNotFound
	}
	if err := validateHearingVideo(path); err != nil {
		return HearingResult{}, err
	}

	transcription, err := s.Transcriber.transcribePath(ctx, path, TranscribeOptions{
		Language:   opts.Language,
		Timestamps: true,
	})
	if err != nil {
		s.record(ctx, fileID, "failed", "", nil)
		return HearingResult{}, err
	}

	prompt := buildHearingPrompt(transcription)

	if s.Sem != nil {
		if err := s.Sem.Acquire(ctx, 1); err != nil {
			return HearingResult{}, err
		}
		defer s.Sem.Release(1)
	}

	result, err := s.Manager.GenerateResponse(ctx, prompt, opts.Provider, engine.Params{
		Temperature: 0.1,
		MaxTokens:   2000,
	})
	if err != nil {
		s.record(ctx, fileID, "failed", "", nil)
		return HearingResult{}, err
	}

	analysis, err := parseHearingAnalysis(result.Content)
	if err != nil {
		s.Logger.Error().Err(err).Str("provider", result.Provider).Str("file_id", fileID).Msg("hearing analysis rejected")
		s.record(ctx, fileID, "failed", result.Provider, nil)
		return HearingResult{}, err
	}

	if _, err := s.Files.MoveToProcessed(fileID); err != nil {
		s.Logger.Warn().Err(err).Str("file_id", fileID).Msg("move to processed failed")
	} else if s.Store != nil {
		if err := s.Store.UpdateFileStatus(ctx, fileID, models.FileStatusProcessed); err != nil {
			s.Logger.Warn().Err(err).Str("file_id", fileID).Msg("file status update failed")
		}
	}

	out := HearingResult{
		Transcription: transcription,
		Analysis:      analysis,
		Metadata: map[string]any{
			"provider":           result.Provider,
			"model":              result.Model,
			"analysis_type":      opts.AnalysisType,
			"analysis_timestamp": time.Now().UTC().Format(time.RFC3339),
			"processing_time_ms": time.Since(start).Milliseconds(),
		},
	}
	payload, _ := json.Marshal(out)
	s.record(ctx, fileID, "completed", result.Provider, payload)
	return out, nil
}

func validateHearingVideo(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return storage.ErrNotFound
	}
	if info.Size() > maxHearingVideoBytes {
		return fmt.Errorf("%w: file too large, maximum size %.1fMB", storage.ErrInvalid, float64(maxHearingVideoBytes)/(1024*1024))
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range hearingVideoExtensions {
		if e == ext {
			return nil
		}
	}
	return fmt.Errorf("%w: unsupported video format %q, supported: %s", storage.ErrInvalid, ext, strings.Join(hearingVideoExtensions, ", "))
}

func buildHearingPrompt(t models.TranscriptionResult) string {
	segments, _ := json.MarshalIndent(t.Segments, "", "  ")
	return fmt.Sprintf(`You are a legal AI assistant analyzing a court hearing transcription.
Provide a comprehensive analysis of the hearing.

IMPORTANT: Return ONLY valid JSON. No additional text, explanations, or markdown.

Transcription:
%s

Segments:
%s

Analyze this court hearing and provide:

1. Key Issues Discussed
2. Arguments Presented by Each Party
3. Judge's Questions and Concerns
4. Evidence Mentioned
5. Next Steps or Orders
6. Overall Case Assessment

Return JSON in this exact format:
{
  "summary": {
    "hearing_type": "Civil|Criminal|Family|Commercial",
    "duration_minutes": 60,
    "key_issues": ["List of main issues discussed"],
    "next_hearing_date": "2024-02-15",
    "judge_orders": ["List of any orders given"]
  },
  "participants": {
    "judge": "Judge name or title",
    "plaintiff_lawyer": "Lawyer name or firm",
    "defendant_lawyer": "Lawyer name or firm",
    "witnesses": ["List of witnesses mentioned"]
  },
  "arguments": {
    "plaintiff": {
      "main_points": ["Key arguments presented"],
      "evidence": ["Evidence mentioned"],
      "requests": ["What plaintiff is asking for"]
    },
    "defendant": {
      "main_points": ["Key arguments presented"],
      "evidence": ["Evidence mentioned"],
      "defenses": ["Defense strategies used"]
    }
  },
  "case_assessment": {
    "strength_plaintiff": "Strong|Moderate|Weak",
    "strength_defendant": "Strong|Moderate|Weak",
    "likely_outcome": "Favorable to plaintiff|Favorable to defendant|Uncertain",
    "settlement_possibility": "High|Medium|Low",
    "estimated_timeline": "1-3 months|3-6 months|6+ months"
  },
  "recommendations": {
    "for_plaintiff": ["Action items for plaintiff"],
    "for_defendant": ["Action items for defendant"],
    "evidence_needed": ["Additional evidence to gather"],
    "legal_strategies": ["Suggested legal approaches"]
  }
}`, t.Text, string(segments))
}

func parseHearingAnalysis(content string) (models.HearingAnalysis, error) {
	if _, err := decodeEnvelope(content, "summary", "participants", "arguments", "case_assessment", "recommendations"); err != nil {
		return models.HearingAnalysis{}, err
	}
	var analysis models.HearingAnalysis
	if err := json.Unmarshal([]byte(stripJSONFence(content)), &analysis); err != nil {
		return models.HearingAnalysis{}, fmt.Errorf("%w: %v", ErrBadProviderJSON, err)
	}
	return analysis, nil
}

func (s *HearingService) record(ctx context.Context, fileID, status, provider string, payload []byte) {
	if s.Store == nil {
		return
	}
	a := models.Activity{
		ID:        uuid.NewString(),
		Kind:      models.ActivityHearing,
		Title:     "Hearing analysis " + fileID,
		Status:    status,
		Provider:  provider,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.RecordActivity(ctx, a); err != nil {
		s.Logger.Warn().Err(err).Str("kind", a.Kind).Msg("history write failed")
	}
}
