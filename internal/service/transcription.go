package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/semaphore"

	"github.com/nyayasetu/ai-backend/internal/db"
	"github.com/nyayasetu/ai-backend/internal/engine"
	"github.com/nyayasetu/ai-backend/internal/models"
	"github.com/nyayasetu/ai-backend/internal/storage"
)

// Whisper's practical input ceiling.
const maxWhisperBytes = 25 * 1024 * 1024

var transcribableExtensions = []string{".mp3", ".wav", ".m4a", ".flac", ".ogg", ".mp4", ".avi", ".mov"}

// ErrTranscriptionUnavailable is returned when no speech-to-text credentials
// are configured.
var ErrTranscriptionUnavailable = errors.New("transcription engine is not configured")

// TranscriptionService turns stored audio uploads into text via the Whisper
// API and formats raw transcripts through the engine manager.
type TranscriptionService struct {
	Files        *storage.Handler
	Audio        *openai.Client
	WhisperModel string
	Manager      *engine.Manager
	Store        *db.Store
	Logger       zerolog.Logger
	Sem          *semaphore.Weighted
}

type TranscribeOptions struct {
	Language   string
	Timestamps bool
}

func (s *TranscriptionService) Transcribe(ctx context.Context, fileID string, opts TranscribeOptions) (models.TranscriptionResult, error) {
	path, ok := s.Files.Path(fileID)
	if !ok {
		return models.TranscriptionResult{}, storage.ErrNotFound
	}
	if err := validateTranscribable(path); err != nil {
		return models.TranscriptionResult{}, err
	}

	result, err := s.transcribePath(ctx, path, opts)
	if err != nil {
		s.Logger.Error().Err(err).Str("file_id", fileID).Msg("transcription failed")
		s.record(ctx, fileID, "failed", nil)
		return models.TranscriptionResult{}, err
	}

	if _, err := s.Files.MoveToProcessed(fileID); err != nil {
		s.Logger.Warn().Err(err).Str("file_id", fileID).Msg("move to processed failed")
	} else if s.Store != nil {
		if err := s.Store.UpdateFileStatus(ctx, fileID, models.FileStatusProcessed); err != nil {
			s.Logger.Warn().Err(err).Str("file_id", fileID).Msg("file status update failed")
		}
	}

	payload, _ := json.Marshal(result)
	s.record(ctx, fileID, "completed", payload)
	return result, nil
}

// transcribePath runs the Whisper call itself; the hearing pipeline reuses it
// on files validated under its own extension rules. The Whisper size ceiling
// is enforced here so every caller hits it before the upstream call.
func (s *TranscriptionService) transcribePath(ctx context.Context, path string, opts TranscribeOptions) (models.TranscriptionResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.TranscriptionResult{}, storage.ErrNotFound
	}
	if info.Size() > maxWhisperBytes {
		return models.TranscriptionResult{}, fmt.Errorf("%w: file too large for transcription, maximum size %.1fMB", storage.ErrInvalid, float64(maxWhisperBytes)/(1024*1024))
	}
	if s.Audio == nil {
		return models.TranscriptionResult{}, ErrTranscriptionUnavailable
	}

	if s.Sem != nil {
		if err := s.Sem.Acquire(ctx, 1); err != nil {
			return models.TranscriptionResult{}, err
		}
		defer s.Sem.Release(1)
	}

	req := openai.AudioRequest{
		Model:    s.WhisperModel,
		FilePath: path,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: opts.Language,
	}
	resp, err := s.Audio.CreateTranscription(ctx, req)
	if err != nil {
		return models.TranscriptionResult{}, err
	}

	result := models.TranscriptionResult{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
		Duration: resp.Duration,
		Segments: []models.TranscriptionSegment{},
	}
	if opts.Timestamps {
		for _, seg := range resp.Segments {
			result.Segments = append(result.Segments, models.TranscriptionSegment{
				Start:      seg.Start,
				End:        seg.End,
				Text:       strings.TrimSpace(seg.Text),
				Confidence: seg.AvgLogprob,
			})
		}
	}
	return result, nil
}

func validateTranscribable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return storage.ErrNotFound
	}
	if info.Size() > maxWhisperBytes {
		return fmt.Errorf("%w: file too large, maximum size %.1fMB", storage.ErrInvalid, float64(maxWhisperBytes)/(1024*1024))
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range transcribableExtensions {
		if e == ext {
			return nil
		}
	}
	return fmt.Errorf("%w: unsupported file format %q, supported: %s", storage.ErrInvalid, ext, strings.Join(transcribableExtensions, ", "))
}

// SupportedLanguages mirrors the Whisper language list.
func SupportedLanguages() map[string]any {
	return map[string]any{
		"supported_languages": []string{
			"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh",
			"hi", "ar", "tr", "pl", "nl", "sv", "da", "no", "fi", "el",
			"he", "th", "vi", "id", "ms", "tl", "sw", "af", "sq", "am",
			"az", "ba", "eu", "be", "bn", "bs", "br", "bg", "ca", "cs",
			"cy", "et", "fa", "gl", "gu", "ht", "ha", "haw", "iw", "is",
			"ga", "jv", "kn", "kk", "km", "rw", "ky", "lo", "la", "lv",
			"ln", "lt", "lb", "mk", "mg", "ml", "mt", "mi", "mr", "mn",
			"my", "ne", "nn", "oc", "ps", "pa", "ro", "sa", "sr", "sn",
			"sd", "si", "sk", "sl", "so", "su", "tg", "ta", "tt", "te",
			"uk", "ur", "uz", "yi", "yo", "zu",
		},
		"default_language": "en",
		"auto_detect":      true,
	}
}

// FormatTranscript reshapes a raw transcript (structured / summary /
// key_points) through the engine manager.
func (s *TranscriptionService) FormatTranscript(ctx context.Context, req models.TranscriptFormatRequest) (models.TranscriptFormatResponse, error) {
	formatType := req.FormatType
	if formatType == "" {
		formatType = "structured"
	}
	language := req.Language
	if language == "" {
		language = "en"
	}

	prompt := buildFormatPrompt(req.RawText, formatType, language)

	if s.Sem != nil {
		if err := s.Sem.Acquire(ctx, 1); err != nil {
			return models.TranscriptFormatResponse{}, err
		}
		defer s.Sem.Release(1)
	}

	result, err := s.Manager.GenerateResponse(ctx, prompt, req.Provider, engine.Params{
		Temperature: 0.2,
		MaxTokens:   2000,
	})
	if err != nil {
		return models.TranscriptFormatResponse{}, err
	}

	envelope, err := decodeEnvelope(result.Content, "content")
	if err != nil {
		s.Logger.Error().Err(err).Str("provider", result.Provider).Msg("transcript format response rejected")
		return models.TranscriptFormatResponse{}, err
	}
	formatted := make(map[string]any, len(envelope))
	for k, v := range envelope {
		var val any
		_ = json.Unmarshal(v, &val)
		formatted[k] = val
	}

	return models.TranscriptFormatResponse{
		RequestID:           uuid.NewString(),
		FormattedTranscript: formatted,
		Metadata: map[string]any{
			"provider":    result.Provider,
			"model":       result.Model,
			"format_type": formatType,
			"language":    language,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

func buildFormatPrompt(rawText, formatType, language string) string {
	instructions := map[string]string{
		"structured": "Format as structured transcript with timestamps, speakers, and content",
		"summary":    "Create a concise summary of the key points",
		"key_points": "Extract and list the main key points",
	}
	instruction, ok := instructions[formatType]
	if !ok {
		instruction = "Format as requested"
	}
	return fmt.Sprintf(`You are a legal AI assistant processing court hearing transcripts.
Format this transcript according to the requested format.

IMPORTANT: Return ONLY valid JSON. No additional text, explanations, or markdown.

Format Type: %s
Language: %s
Instructions: %s

Raw Transcript:
%s

Return JSON in this format:
{
  "format_type": "%s",
  "language": "%s",
  "content": {
    "structured": [
      {"timestamp": "00:00:00", "speaker": "Judge", "content": "Please state your case"}
    ],
    "summary": "Brief summary of the hearing",
    "key_points": ["Key point 1", "Key point 2"]
  },
  "metadata": {
    "total_duration": "estimated duration",
    "speakers": ["List of identified speakers"],
    "word_count": 0,
    "confidence": 0.85
  }
}`, formatType, language, instruction, rawText, formatType, language)
}

func (s *TranscriptionService) record(ctx context.Context, fileID, status string, payload []byte) {
	if s.Store == nil {
		return
	}
	a := models.Activity{
		ID:        uuid.NewString(),
		Kind:      models.ActivityTranscription,
		Title:     "Transcription " + fileID,
		Status:    status,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.RecordActivity(ctx, a); err != nil {
		s.Logger.Warn().Err(err).Str("kind", a.Kind).Msg("history write failed")
	}
}
