package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/nyayasetu/ai-backend/internal/models"
	"github.com/nyayasetu/ai-backend/internal/utils"
)

// ErrInvalid marks validation failures the HTTP layer maps to 400.
var ErrInvalid = errors.New("invalid file")

var ErrNotFound = errors.New("file not found")

var allowedExtensions = map[string][]string{
	"audio":    {".mp3", ".wav", ".m4a", ".flac", ".ogg"},
	"video":    {".mp4", ".avi", ".mov", ".mkv", ".webm"},
	"document": {".pdf", ".doc", ".docx", ".txt", ".rtf"},
}

var expectedMimes = map[string][]string{
	"audio":    {"audio/"},
	"video":    {"video/"},
	"document": {"application/pdf", "application/msword", "application/vnd.openxmlformats", "text/"},
}

const lockShards = 64

// Handler stores uploaded blobs on local disk keyed by a generated
// identifier. Operations on the same identifier serialize on a sharded lock
// so a delete cannot race a read or a move. The shard array is fixed size,
// so lock state stays bounded no matter how many ids pass through.
type Handler struct {
	UploadDir    string
	ProcessedDir string
	MaxBytes     int64

	locks [lockShards]sync.Mutex
}

func New(uploadDir, processedDir string, maxBytes int64) (*Handler, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return nil, err
	}
	return &Handler{UploadDir: uploadDir, ProcessedDir: processedDir, MaxBytes: maxBytes}, nil
}

func (h *Handler) lock(id string) *sync.Mutex {
	return &h.locks[utils.HashStringToUint64(id)%lockShards]
}

// Save validates size, extension and sniffed MIME type against the declared
// category, then writes the content as {uuid}{ext} in the upload directory.
func (h *Handler) Save(content []byte, filename, category string) (models.UploadedFile, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if err := h.validate(content, ext, category); err != nil {
		return models.UploadedFile{}, err
	}

	fileID := uuid.NewString()
	stored := fileID + ext
	path := filepath.Join(h.UploadDir, stored)

	mu := h.lock(fileID)
	mu.Lock()
	defer mu.Unlock()

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return models.UploadedFile{}, err
	}

	return models.UploadedFile{
		FileID:           fileID,
		OriginalFilename: filename,
		StoredFilename:   stored,
		FilePath:         path,
		FileSize:         int64(len(content)),
		MimeType:         mimetype.Detect(content).String(),
		FileType:         category,
		Status:           models.FileStatusUploaded,
	}, nil
}

func (h *Handler) validate(content []byte, ext, category string) error {
	if int64(len(content)) > h.MaxBytes {
		return fmt.Errorf("%w: file too large, maximum size %.1fMB", ErrInvalid, float64(h.MaxBytes)/(1024*1024))
	}
	exts, ok := allowedExtensions[category]
	if !ok {
		return fmt.Errorf("%w: unknown file category %q", ErrInvalid, category)
	}
	found := false
	for _, e := range exts {
		if e == ext {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: invalid extension %q, allowed for %s: %s", ErrInvalid, ext, category, strings.Join(exts, ", "))
	}

	detected := mimetype.Detect(content).String()
	for _, prefix := range expectedMimes[category] {
		if strings.HasPrefix(detected, prefix) {
			return nil
		}
	}
	return fmt.Errorf("%w: invalid MIME type %q for category %s", ErrInvalid, detected, category)
}

// Path locates the stored file for an identifier, tolerating an unknown
// extension.
func (h *Handler) Path(fileID string) (string, bool) {
	mu := h.lock(fileID)
	mu.Lock()
	defer mu.Unlock()
	return h.pathLocked(fileID)
}

func (h *Handler) pathLocked(fileID string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(h.UploadDir, fileID+"*"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// MoveToProcessed relocates the stored file into the processed directory,
// preserving its filename.
func (h *Handler) MoveToProcessed(fileID string) (string, error) {
	mu := h.lock(fileID)
	mu.Lock()
	defer mu.Unlock()

	src, ok := h.pathLocked(fileID)
	if !ok {
		return "", ErrNotFound
	}
	dst := filepath.Join(h.ProcessedDir, filepath.Base(src))
	if err := os.Rename(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// Delete removes the stored file, reporting whether one actually existed.
func (h *Handler) Delete(fileID string) (bool, error) {
	mu := h.lock(fileID)
	mu.Lock()
	defer mu.Unlock()

	path, ok := h.pathLocked(fileID)
	if !ok {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		return false, err
	}
	return true, nil
}
