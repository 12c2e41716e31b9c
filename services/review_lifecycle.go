package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"

	"peer-review-api/models"
)

// RecomputeStatus derives the review status from its artifact links.
// Idempotent. Only the pending/submitted pair is artifact-driven: a
// graded review is an instructor decision and is never touched here.
// Both summary and comments present moves the review to submitted,
// stamping submitted_at if unset; a missing artifact rolls it back to
// pending and clears the timestamp.
func RecomputeStatus(review *models.PeerReview, now time.Time) {
	if review.Status == models.ReviewStatusGraded {
		return
	}

	if review.SummaryLink != nil && review.CommentsLink != nil {
		review.Status = models.ReviewStatusSubmitted
		if review.SubmittedAt == nil {
			submittedAt := now
			review.SubmittedAt = &submittedAt
		}
		return
	}

	review.Status = models.ReviewStatusPending
	review.SubmittedAt = nil
}

// AttachArtifact links a stored file to the review as the given artifact
// type and persists the recomputed status. Suggested grades ride along
// with the summary upload. Runs on the caller's transaction. A graded
// review's artifacts are frozen: mutating them is a conflict.
func AttachArtifact(tx *gorm.DB, review *models.PeerReview, artifactType string, fileID int, link string, suggested *models.SuggestedGrades, now time.Time) error {
	if review.Status == models.ReviewStatusGraded {
		return fmt.Errorf("%w: review %d is already graded", ErrConflict, review.ReviewID)
	}

	updates := map[string]interface{}{}

	switch artifactType {
	case models.ArtifactSummary:
		review.SummaryFileID = &fileID
		review.SummaryLink = &link
		updates["summary_file_id"] = fileID
		updates["summary_link"] = link
		if suggested != nil {
			review.SuggestedGrades = suggested
			updates["suggested_grades"] = suggested
		}
	case models.ArtifactComments:
		review.CommentsFileID = &fileID
		review.CommentsLink = &link
		updates["comments_file_id"] = fileID
		updates["comments_link"] = link
	default:
		return fmt.Errorf("%w: unknown artifact type %q", ErrInvalidInput, artifactType)
	}

	RecomputeStatus(review, now)
	updates["status"] = review.Status
	updates["submitted_at"] = review.SubmittedAt

	if err := tx.Model(&models.PeerReview{}).
		Where("review_id = ?", review.ReviewID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to attach %s artifact: %w", artifactType, err)
	}
	return nil
}

// DetachArtifact removes the given artifact from the review, persists the
// recomputed status and drops the file bookkeeping row, all on the
// caller's transaction. Physical deletion of the stored file is
// best-effort: database state stays authoritative over the filesystem,
// so a failed removal is logged and never blocks the rollback to pending.
// Like AttachArtifact, a graded review's artifacts cannot be changed.
func DetachArtifact(tx *gorm.DB, review *models.PeerReview, artifactType string, now time.Time) error {
	if review.Status == models.ReviewStatusGraded {
		return fmt.Errorf("%w: review %d is already graded", ErrConflict, review.ReviewID)
	}

	var fileID *int
	updates := map[string]interface{}{}

	switch artifactType {
	case models.ArtifactSummary:
		fileID = review.SummaryFileID
		review.SummaryFileID = nil
		review.SummaryLink = nil
		updates["summary_file_id"] = nil
		updates["summary_link"] = nil
	case models.ArtifactComments:
		fileID = review.CommentsFileID
		review.CommentsFileID = nil
		review.CommentsLink = nil
		updates["comments_file_id"] = nil
		updates["comments_link"] = nil
	default:
		return fmt.Errorf("%w: unknown artifact type %q", ErrInvalidInput, artifactType)
	}

	if fileID == nil {
		return fmt.Errorf("%w: review %d has no %s artifact", ErrNotFound, review.ReviewID, artifactType)
	}

	RecomputeStatus(review, now)
	updates["status"] = review.Status
	updates["submitted_at"] = review.SubmittedAt

	if err := tx.Model(&models.PeerReview{}).
		Where("review_id = ?", review.ReviewID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to detach %s artifact: %w", artifactType, err)
	}

	var file models.FileUpload
	if err := tx.First(&file, *fileID).Error; err == nil {
		if err := tx.Delete(&models.FileUpload{}, *fileID).Error; err != nil {
			return fmt.Errorf("failed to delete file record: %w", err)
		}
		if err := os.Remove(file.StoredPath); err != nil {
			log.Printf("Warning: failed to remove stored artifact %s: %v", file.StoredPath, err)
		}
	}

	return nil
}
