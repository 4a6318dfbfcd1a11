package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nyayasetu/ai-backend/internal/engine"
	"github.com/nyayasetu/ai-backend/internal/models"
	"github.com/nyayasetu/ai-backend/internal/storage"
)

func TestValidateTranscribable(t *testing.T) {
	dir := t.TempDir()

	ok := filepath.Join(dir, "audio.mp3")
	if err := os.WriteFile(ok, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := validateTranscribable(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(bad, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := validateTranscribable(bad); !errors.Is(err, storage.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for unsupported format, got %v", err)
	}

	if err := validateTranscribable(filepath.Join(dir, "missing.mp3")); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTranscribeWithoutAudioClient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hearing.mp3")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	svc := &TranscriptionService{Logger: zerolog.Nop()}

	_, err := svc.transcribePath(context.Background(), path, TranscribeOptions{})
	if !errors.Is(err, ErrTranscriptionUnavailable) {
		t.Fatalf("expected ErrTranscriptionUnavailable, got %v", err)
	}
}

func TestTranscribePathEnforcesWhisperCeiling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.mp3")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(maxWhisperBytes + 1); err != nil {
		t.Fatal(err)
	}
	f.Close()

	svc := &TranscriptionService{Logger: zerolog.Nop()}
	_, err = svc.transcribePath(context.Background(), path, TranscribeOptions{})
	if !errors.Is(err, storage.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for oversized file, got %v", err)
	}
}

func TestTranscribePathMissingFile(t *testing.T) {
	svc := &TranscriptionService{Logger: zerolog.Nop()}
	_, err := svc.transcribePath(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"), TranscribeOptions{})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFormatTranscriptDefaults(t *testing.T) {
	manager := engine.NewManager("mock", zerolog.Nop(), engine.MockEngine{ModelVersion: "mock-v1"})
	svc := &TranscriptionService{Manager: manager, Logger: zerolog.Nop()}

	resp, err := svc.FormatTranscript(context.Background(), models.TranscriptFormatRequest{
		RawText: "Judge: please state your case. Counsel: we seek damages.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.RequestID == "" {
		t.Fatalf("expected a request id")
	}
	if resp.Metadata["format_type"] != "structured" || resp.Metadata["language"] != "en" {
		t.Fatalf("expected defaults applied, got %v", resp.Metadata)
	}
	if _, ok := resp.FormattedTranscript["content"]; !ok {
		t.Fatalf("expected content in formatted transcript, got %v", resp.FormattedTranscript)
	}
}

func TestSupportedLanguages(t *testing.T) {
	out := SupportedLanguages()
	langs, ok := out["supported_languages"].([]string)
	if !ok || len(langs) == 0 {
		t.Fatalf("expected language list")
	}
	if out["default_language"] != "en" {
		t.Fatalf("expected en default, got %v", out["default_language"])
	}
}
