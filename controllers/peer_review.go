package controllers

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"peer-review-api/config"
	"peer-review-api/models"
	"peer-review-api/services"
	"peer-review-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxArtifactSize = 10 * 1024 * 1024 // 10MB

var allowedArtifactExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

type PeerReviewUpdateRequest struct {
	ReportLink  *string    `json:"reviewedTeamReportLink"`
	DueDate     *time.Time `json:"dueDate"`
	ReviewGrade *int       `json:"reviewGrade"`
}

// GetPeerReviews lists reviews, optionally filtered by sprint and team.
func GetPeerReviews(c *gin.Context) {
	query := config.DB.Model(&models.PeerReview{})

	if sprint := c.Query("sprint"); sprint != "" {
		query = query.Where("sprint = ?", sprint)
	}
	if reviewingTeamID := c.Query("reviewing_team_id"); reviewingTeamID != "" {
		query = query.Where("reviewing_team_id = ?", reviewingTeamID)
	}
	if reviewedTeamID := c.Query("reviewed_team_id"); reviewedTeamID != "" {
		query = query.Where("reviewed_team_id = ?", reviewedTeamID)
	}

	var reviews []models.PeerReview
	if err := query.Order("sprint ASC, reviewing_team_id ASC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load peer reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// GetPeerReview returns one review.
func GetPeerReview(c *gin.Context) {
	var review models.PeerReview
	if err := config.DB.First(&review, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Peer review not found"})
		return
	}
	c.JSON(http.StatusOK, review)
}

// UpdatePeerReview updates instructor-managed fields: the reviewed team's
// report link, the due date and the final review grade. Assigning a grade
// moves the review to graded; artifact recomputation never leaves that
// state afterwards.
func UpdatePeerReview(c *gin.Context) {
	var review models.PeerReview
	if err := config.DB.First(&review, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Peer review not found"})
		return
	}

	var req PeerReviewUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.ReportLink != nil {
		updates["report_link"] = *req.ReportLink
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.ReviewGrade != nil {
		updates["review_grade"] = *req.ReviewGrade
		updates["status"] = models.ReviewStatusGraded
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&models.PeerReview{}).
			Where("review_id = ?", review.ReviewID).
			Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update peer review"})
			return
		}
	}

	if err := config.DB.First(&review, review.ReviewID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load peer review"})
		return
	}

	c.JSON(http.StatusOK, review)
}

// UploadReviewArtifact stores an uploaded summary or comments file on a
// review. Re-uploading replaces the previous artifact of the same type.
// Suggested grades may accompany a summary upload as form fields.
func UploadReviewArtifact(c *gin.Context) {
	artifactType := c.Param("type")
	if artifactType != models.ArtifactSummary && artifactType != models.ArtifactComments {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown artifact type"})
		return
	}

	var review models.PeerReview
	if err := config.DB.First(&review, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Peer review not found"})
		return
	}

	if !requesterMayEditReview(c, &review) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of the reviewing team"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	upload := models.FileUpload{
		OriginalName: file.Filename,
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		UploadedBy:   currentUserID(c),
	}

	if upload.FileSize > maxArtifactSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File size %.1fMB exceeds the 10MB limit", upload.GetFileSizeInMB()),
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedArtifactExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type not allowed"})
		return
	}
	if upload.MimeType != "" && !upload.IsValidDocumentType() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type not allowed"})
		return
	}

	var suggested *models.SuggestedGrades
	if artifactType == models.ArtifactSummary {
		if assignment := c.PostForm("assignment"); assignment != "" {
			score, err := strconv.Atoi(assignment)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid suggested assignment grade"})
				return
			}
			suggested = &models.SuggestedGrades{Assignment: score}
			if iteration := c.PostForm("iteration"); iteration != "" {
				iterScore, err := strconv.Atoi(iteration)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid suggested iteration grade"})
					return
				}
				suggested.Iteration = &iterScore
			}
		}
	}

	folder, err := utils.CreateReviewFolderIfNotExists(utils.UploadBasePath(), review.ReviewID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload directory"})
		return
	}

	storedName := utils.GenerateUniqueFilename(file.Filename)
	fullPath := filepath.Join(folder, storedName)

	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	now := time.Now()
	upload.StoredPath = fullPath
	upload.UploadedAt = now

	link := fmt.Sprintf("/api/v1/peer-reviews/%d/files/%s/download", review.ReviewID, artifactType)

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		// A re-upload replaces the prior artifact of this type.
		if review.ArtifactFileID(artifactType) != nil {
			if err := services.DetachArtifact(tx, &review, artifactType, now); err != nil {
				return err
			}
		}

		if err := tx.Create(&upload).Error; err != nil {
			return err
		}

		return services.AttachArtifact(tx, &review, artifactType, upload.FileID, link, suggested, now)
	}); err != nil {
		os.Remove(fullPath)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fileUrl": link,
		"review":  review,
	})
}

// DeleteReviewArtifact detaches an artifact, rolling the review back to
// pending when the submission becomes incomplete.
func DeleteReviewArtifact(c *gin.Context) {
	artifactType := c.Param("type")
	if artifactType != models.ArtifactSummary && artifactType != models.ArtifactComments {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown artifact type"})
		return
	}

	var review models.PeerReview
	if err := config.DB.First(&review, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Peer review not found"})
		return
	}

	if !requesterMayEditReview(c, &review) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of the reviewing team"})
		return
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		return services.DetachArtifact(tx, &review, artifactType, time.Now())
	}); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// DownloadReviewArtifact streams a stored artifact back to the caller.
func DownloadReviewArtifact(c *gin.Context) {
	artifactType := c.Param("type")
	if artifactType != models.ArtifactSummary && artifactType != models.ArtifactComments {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown artifact type"})
		return
	}

	var review models.PeerReview
	if err := config.DB.First(&review, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Peer review not found"})
		return
	}

	fileID := review.ArtifactFileID(artifactType)
	if fileID == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artifact not uploaded"})
		return
	}

	var file models.FileUpload
	if err := config.DB.First(&file, *fileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File record not found"})
		return
	}

	c.FileAttachment(file.StoredPath, file.OriginalName)
}

// ExportSprintArchive bundles every uploaded artifact of a sprint into
// one zip download for offline grading.
func ExportSprintArchive(c *gin.Context) {
	sprint, err := strconv.Atoi(c.Query("sprint"))
	if err != nil || sprint < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sprint query parameter is required"})
		return
	}

	var reviews []models.PeerReview
	if err := config.DB.Where("sprint = ?", sprint).
		Order("reviewing_team_id ASC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load peer reviews"})
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=sprint-%d-peer-reviews.zip", sprint))

	zw := zip.NewWriter(c.Writer)
	defer zw.Close()

	for _, review := range reviews {
		for _, artifactType := range []string{models.ArtifactSummary, models.ArtifactComments} {
			fileID := review.ArtifactFileID(artifactType)
			if fileID == nil {
				continue
			}

			var file models.FileUpload
			if err := config.DB.First(&file, *fileID).Error; err != nil {
				continue
			}

			src, err := os.Open(file.StoredPath)
			if err != nil {
				continue
			}

			name := fmt.Sprintf("team-%d/%s%s",
				review.ReviewingTeamID, artifactType, filepath.Ext(file.OriginalName))
			dst, err := zw.Create(name)
			if err != nil {
				src.Close()
				return
			}
			if _, err := io.Copy(dst, src); err != nil {
				src.Close()
				return
			}
			src.Close()
		}
	}
}

// requesterMayEditReview gates artifact mutations: instructors always,
// students only for reviews their own team is the reviewer of.
func requesterMayEditReview(c *gin.Context, review *models.PeerReview) bool {
	role, _ := c.Get("role")
	if role == models.RoleInstructor {
		return true
	}

	studentIDValue, exists := c.Get("studentID")
	if !exists {
		return false
	}

	var student models.Student
	if err := config.DB.First(&student, studentIDValue.(int)).Error; err != nil {
		return false
	}

	return student.TeamID != nil && *student.TeamID == review.ReviewingTeamID
}
