// utils/files.go - Upload folder and filename helpers
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadBasePath returns the root directory for stored artifacts.
func UploadBasePath() string {
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	return uploadPath
}

// CreateReviewFolderIfNotExists prepares the per-review artifact folder
// (uploads/reviews/<review_id>) and returns its path.
func CreateReviewFolderIfNotExists(basePath string, reviewID int) (string, error) {
	folder := filepath.Join(basePath, "reviews", fmt.Sprintf("%d", reviewID))
	if err := os.MkdirAll(folder, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create review folder: %w", err)
	}
	return folder, nil
}

// GenerateUniqueFilename builds a collision-free stored filename that
// keeps the original extension.
func GenerateUniqueFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return uuid.New().String() + ext
}
