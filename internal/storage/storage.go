package storage

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"panjarku-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxUploadSize caps receipt/photo uploads at 2MB
const MaxUploadSize = 2 << 20

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// FileStore saves validated uploads under a public base directory and returns
// relative paths suitable for serving via the static /uploads route.
type FileStore struct {
	baseDir string
}

// NewFileStore returns a FileStore rooted at baseDir (e.g. "uploads")
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

// Save validates and stores an uploaded file under baseDir/subdir, returning
// the relative path to persist on the entity.
func (s *FileStore) Save(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	if file.Size > MaxUploadSize {
		return "", apperror.Unprocessable("file '%s' exceeds the 2MB limit", file.Filename)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", apperror.Unprocessable("file type '%s' is not allowed (pdf, jpg, jpeg, png)", ext)
	}

	name := uuid.New().String() + ext
	relPath := filepath.Join(subdir, name)
	dst := filepath.Join(s.baseDir, relPath)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("failed to store file: %w", err)
	}

	return relPath, nil
}
