package models

import "time"

// FileUpload represents the file_uploads table: bookkeeping for every
// stored review artifact.
type FileUpload struct {
	FileID       int       `gorm:"primaryKey;column:file_id" json:"file_id"`
	OriginalName string    `gorm:"column:original_name" json:"original_name"`
	StoredPath   string    `gorm:"column:stored_path" json:"stored_path"`
	FileSize     int64     `gorm:"column:file_size" json:"file_size"`
	MimeType     string    `gorm:"column:mime_type" json:"mime_type"`
	UploadedBy   int       `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`

	// Relations
	Uploader *User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

// TableName overrides
func (FileUpload) TableName() string {
	return "file_uploads"
}

// IsValidDocumentType reports whether the mime type is accepted for
// review artifacts.
func (f *FileUpload) IsValidDocumentType() bool {
	validTypes := []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	for _, validType := range validTypes {
		if f.MimeType == validType {
			return true
		}
	}
	return false
}

// GetFileSizeInMB returns the stored size in megabytes.
func (f *FileUpload) GetFileSizeInMB() float64 {
	return float64(f.FileSize) / (1024 * 1024)
}
