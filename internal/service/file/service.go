package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/storage"
)

type FileService interface {
	// UploadCompanyLogo stores a logo image and returns its storage key
	UploadCompanyLogo(ctx context.Context, companyID string, file io.Reader, filename string) (string, error)

	// UploadSignature stores a review signature PNG and returns its storage key
	UploadSignature(ctx context.Context, companyID string, png []byte) (string, error)

	DeleteFile(ctx context.Context, key string) error
	GetFileURL(ctx context.Context, key string) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadCompanyLogo implements FileService.
func (s *fileServiceImpl) UploadCompanyLogo(ctx context.Context, companyID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var contentType string
	switch ext {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	default:
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png allowed")
	}

	key, err := s.storage.Upload(ctx, file, storage.NewKey("logos", companyID, ext), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload company logo: %w", err)
	}
	return key, nil
}

// UploadSignature implements FileService.
func (s *fileServiceImpl) UploadSignature(ctx context.Context, companyID string, png []byte) (string, error) {
	key, err := s.storage.Upload(ctx, bytes.NewReader(png), storage.NewKey("signatures", companyID, ".png"), "image/png")
	if err != nil {
		return "", fmt.Errorf("failed to upload signature: %w", err)
	}
	return key, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// GetFileURL returns the public URL for key. Local storage never expires links.
func (s *fileServiceImpl) GetFileURL(ctx context.Context, key string) (string, error) {
	return s.storage.GetURL(ctx, key, 0)
}
