package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"newznepal/internal/pkg/logger"
	"newznepal/internal/pkg/storage"
)

// MaxFileSize is the largest image accepted.
const MaxFileSize = 5 * 1024 * 1024

// allowedTypes maps accepted image types to the extension stored objects get.
var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// Stored describes an object that was written to the store.
type Stored struct {
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

// Service validates news images and hands them to the object store.
// Nothing is persisted in the database; the post row keeps the URL.
type Service struct {
	store storage.ObjectStore
	now   func() time.Time
	rand  func() string
}

func NewService(store storage.ObjectStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		rand:  func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:12] },
	}
}

// Upload checks size and type, then stores the file under a fresh name.
// A file that fails any check never reaches the store.
func (s *Service) Upload(ctx context.Context, fh *multipart.FileHeader) (*Stored, error) {
	if fh == nil {
		return nil, ErrNoFile
	}
	if fh.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fh.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	declared := strings.ToLower(strings.TrimSpace(strings.Split(fh.Header.Get("Content-Type"), ";")[0]))
	if declared != "" && declared != "application/octet-stream" {
		if _, ok := allowedTypes[declared]; !ok {
			return nil, ErrInvalidMimeType
		}
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	mt, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to detect file type: %w", err)
	}
	sniffed := mt.String()
	ext, ok := allowedTypes[sniffed]
	if !ok {
		return nil, ErrInvalidMimeType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}

	name := fmt.Sprintf("%d-%s.%s", s.now().UnixMilli(), s.rand(), ext)
	url, err := s.store.Put(ctx, name, io.LimitReader(file, MaxFileSize), fh.Size, sniffed)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("file", name).
		Int64("size", fh.Size).
		Str("mime", sniffed).
		Msg("image uploaded")
	return &Stored{FileName: name, URL: url}, nil
}

// Delete removes a previously uploaded object by name.
func (s *Service) Delete(ctx context.Context, fileName string) error {
	if storage.ValidateKey(fileName) != nil {
		return ErrInvalidFileName
	}
	err := s.store.Delete(ctx, fileName)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUploadNotFound
	}
	if err != nil {
		return err
	}
	logger.Info().Str("file", fileName).Msg("image deleted")
	return nil
}
