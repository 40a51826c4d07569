package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPath  = errors.New("invalid file path")
	ErrFileNotFound = errors.New("file not found")
)

// FileStorage keeps uploaded company logos and review signatures.
type FileStorage interface {
	// Upload stores the content under key and returns the cleaned key
	Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error)

	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file; a missing file is not an error
	Delete(ctx context.Context, key string) error

	GetURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	Exists(ctx context.Context, key string) (bool, error)
}

// NewKey builds "<folder>/<companyID>/<uuid><ext>".
func NewKey(folder, companyID, ext string) string {
	return path.Join(folder, companyID, fmt.Sprintf("%s%s", uuid.NewString(), ext))
}
