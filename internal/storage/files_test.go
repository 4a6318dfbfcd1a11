package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newTestHandler(t *testing.T, maxBytes int64) *Handler {
	t.Helper()
	h, err := New(filepath.Join(t.TempDir(), "uploads"), filepath.Join(t.TempDir(), "processed"), maxBytes)
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}
	return h
}

// Minimal RIFF/WAVE header, enough for content sniffing.
func wavContent() []byte {
	return []byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00\x01\x00\x01\x00")
}

func TestSaveAndPath(t *testing.T) {
	h := newTestHandler(t, 1<<20)

	meta, err := h.Save(wavContent(), "recording.wav", "audio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.FileID == "" || meta.Status != "uploaded" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if !strings.HasSuffix(meta.StoredFilename, ".wav") {
		t.Fatalf("expected original extension kept, got %s", meta.StoredFilename)
	}
	if !strings.HasPrefix(meta.MimeType, "audio/") {
		t.Fatalf("expected sniffed audio MIME, got %s", meta.MimeType)
	}

	path, ok := h.Path(meta.FileID)
	if !ok {
		t.Fatalf("expected stored file to be found")
	}
	if filepath.Base(path) != meta.StoredFilename {
		t.Fatalf("expected %s, got %s", meta.StoredFilename, path)
	}
}

func TestSaveRejectsOversize(t *testing.T) {
	h := newTestHandler(t, 8)
	_, err := h.Save(wavContent(), "big.wav", "audio")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected size message, got %v", err)
	}
}

func TestSaveRejectsBadExtension(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	_, err := h.Save(wavContent(), "malware.exe", "audio")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveRejectsMimeMismatch(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	_, err := h.Save([]byte("just plain text pretending to be audio"), "fake.mp3", "audio")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for MIME mismatch, got %v", err)
	}
}

func TestSaveRejectsUnknownCategory(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	_, err := h.Save(wavContent(), "recording.wav", "archive")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestDocumentCategory(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	meta, err := h.Save([]byte("hearing notes for case 12"), "notes.txt", "document")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.FileType != "document" {
		t.Fatalf("expected document type, got %s", meta.FileType)
	}
}

func TestMoveToProcessed(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	meta, err := h.Save(wavContent(), "recording.wav", "audio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dst, err := h.MoveToProcessed(meta.FileID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("expected processed file to exist: %v", err)
	}
	if _, ok := h.Path(meta.FileID); ok {
		t.Fatalf("expected file gone from upload dir")
	}
}

func TestDelete(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	meta, err := h.Save(wavContent(), "recording.wav", "audio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	existed, err := h.Delete(meta.FileID)
	if err != nil || !existed {
		t.Fatalf("expected delete to succeed, existed=%v err=%v", existed, err)
	}
	if _, ok := h.Path(meta.FileID); ok {
		t.Fatalf("expected file gone after delete")
	}

	existed, err = h.Delete(meta.FileID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if existed {
		t.Fatalf("second delete should report missing file")
	}
}

func TestPathUnknownID(t *testing.T) {
	h := newTestHandler(t, 1<<20)
	if _, ok := h.Path("does-not-exist"); ok {
		t.Fatalf("expected miss for unknown id")
	}
}

func TestLockSharding(t *testing.T) {
	h := newTestHandler(t, 1<<20)

	if h.lock("some-id") != h.lock("some-id") {
		t.Fatalf("expected stable lock for the same id")
	}

	// Lookups for arbitrary ids never allocate new lock state.
	distinct := map[*sync.Mutex]struct{}{}
	for i := 0; i < 1000; i++ {
		distinct[h.lock(fmt.Sprintf("id-%d", i))] = struct{}{}
	}
	if len(distinct) > lockShards {
		t.Fatalf("expected at most %d shards, got %d", lockShards, len(distinct))
	}
}
