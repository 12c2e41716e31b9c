package services

import (
	"database/sql/driver"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"peer-review-api/models"
)

func strPtr(s string) *string { return &s }

func TestRecomputeStatusSubmitsWhenBothArtifactsPresent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	review := models.PeerReview{
		Status:       models.ReviewStatusPending,
		SummaryLink:  strPtr("/files/summary.pdf"),
		CommentsLink: strPtr("/files/comments.pdf"),
	}

	RecomputeStatus(&review, now)

	if review.Status != models.ReviewStatusSubmitted {
		t.Fatalf("expected submitted, got %s", review.Status)
	}
	if review.SubmittedAt == nil || !review.SubmittedAt.Equal(now) {
		t.Fatalf("expected submitted_at %v, got %v", now, review.SubmittedAt)
	}
}

func TestRecomputeStatusPreservesExistingTimestamp(t *testing.T) {
	original := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	review := models.PeerReview{
		Status:       models.ReviewStatusSubmitted,
		SummaryLink:  strPtr("/files/summary.pdf"),
		CommentsLink: strPtr("/files/comments.pdf"),
		SubmittedAt:  &original,
	}

	RecomputeStatus(&review, original.Add(48*time.Hour))

	if review.SubmittedAt == nil || !review.SubmittedAt.Equal(original) {
		t.Fatalf("submitted_at was rewritten: got %v", review.SubmittedAt)
	}
}

func TestRecomputeStatusRollsBackToPending(t *testing.T) {
	submitted := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	review := models.PeerReview{
		Status:      models.ReviewStatusSubmitted,
		SummaryLink: strPtr("/files/summary.pdf"),
		SubmittedAt: &submitted,
	}

	RecomputeStatus(&review, time.Now())

	if review.Status != models.ReviewStatusPending {
		t.Fatalf("expected pending, got %s", review.Status)
	}
	if review.SubmittedAt != nil {
		t.Fatalf("expected submitted_at cleared, got %v", review.SubmittedAt)
	}
}

func TestRecomputeStatusLeavesGradedUntouched(t *testing.T) {
	submitted := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	review := models.PeerReview{
		Status:      models.ReviewStatusGraded,
		SubmittedAt: &submitted,
	}

	RecomputeStatus(&review, time.Now())

	if review.Status != models.ReviewStatusGraded {
		t.Fatalf("graded review was demoted to %s", review.Status)
	}
	if review.SubmittedAt == nil || !review.SubmittedAt.Equal(submitted) {
		t.Fatalf("graded review timestamp changed: %v", review.SubmittedAt)
	}
}

func TestAttachArtifactRejectsUnknownType(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	review := models.PeerReview{ReviewID: 4}
	err := AttachArtifact(db, &review, "slides", 1, "/files/slides.pdf", nil, time.Now())
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("store was touched: %v", err)
	}
}

func TestAttachSummaryCompletesSubmission(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .peer_reviews. SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	review := models.PeerReview{
		ReviewID:     4,
		Status:       models.ReviewStatusPending,
		CommentsLink: strPtr("/files/comments.pdf"),
	}
	suggested := &models.SuggestedGrades{Assignment: 85}

	if err := AttachArtifact(db, &review, models.ArtifactSummary, 12, "/files/summary.pdf", suggested, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if review.Status != models.ReviewStatusSubmitted {
		t.Fatalf("expected submitted, got %s", review.Status)
	}
	if review.SubmittedAt == nil || !review.SubmittedAt.Equal(now) {
		t.Fatalf("expected submitted_at %v, got %v", now, review.SubmittedAt)
	}
	if review.SummaryFileID == nil || *review.SummaryFileID != 12 {
		t.Fatalf("expected summary file 12, got %v", review.SummaryFileID)
	}
	if review.SuggestedGrades == nil || review.SuggestedGrades.Assignment != 85 {
		t.Fatalf("suggested grades not attached: %+v", review.SuggestedGrades)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttachArtifactRejectsGradedReview(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	review := models.PeerReview{ReviewID: 4, Status: models.ReviewStatusGraded}
	err := AttachArtifact(db, &review, models.ArtifactSummary, 12, "/files/summary.pdf", nil, time.Now())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("store was touched: %v", err)
	}
}

func TestDetachArtifactRejectsGradedReview(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	fileID := 12
	review := models.PeerReview{
		ReviewID:      4,
		Status:        models.ReviewStatusGraded,
		SummaryFileID: &fileID,
		SummaryLink:   strPtr("/files/summary.pdf"),
	}
	err := DetachArtifact(db, &review, models.ArtifactSummary, time.Now())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if review.SummaryFileID == nil || review.SummaryLink == nil {
		t.Fatal("graded review artifact fields were cleared")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("store was touched: %v", err)
	}
}

func TestDetachArtifactWithoutFile(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	review := models.PeerReview{ReviewID: 4}
	err := DetachArtifact(db, &review, models.ArtifactComments, time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("store was touched: %v", err)
	}
}

func TestDetachSummaryRollsBackAndRemovesFile(t *testing.T) {
	storedPath := filepath.Join(t.TempDir(), "summary.pdf")
	if err := os.WriteFile(storedPath, []byte("pdf"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .peer_reviews. SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM .file_uploads."),
			columns: []string{"file_id", "stored_path"},
			rows: [][]driver.Value{
				{int64(12), storedPath},
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("DELETE FROM .file_uploads."),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	fileID := 12
	submitted := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	review := models.PeerReview{
		ReviewID:      4,
		Status:        models.ReviewStatusSubmitted,
		SummaryFileID: &fileID,
		SummaryLink:   strPtr("/files/summary.pdf"),
		CommentsLink:  strPtr("/files/comments.pdf"),
		SubmittedAt:   &submitted,
	}

	if err := DetachArtifact(db, &review, models.ArtifactSummary, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if review.Status != models.ReviewStatusPending {
		t.Fatalf("expected pending after detach, got %s", review.Status)
	}
	if review.SubmittedAt != nil {
		t.Fatalf("expected submitted_at cleared, got %v", review.SubmittedAt)
	}
	if review.SummaryFileID != nil || review.SummaryLink != nil {
		t.Fatal("summary artifact fields were not cleared")
	}
	if _, err := os.Stat(storedPath); !os.IsNotExist(err) {
		t.Fatalf("stored file was not removed: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDetachSurvivesMissingStoredFile(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .peer_reviews. SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM .file_uploads."),
			columns: []string{"file_id", "stored_path"},
			rows: [][]driver.Value{
				{int64(9), "/nonexistent/uploads/reviews/4/comments.pdf"},
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("DELETE FROM .file_uploads."),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	fileID := 9
	review := models.PeerReview{
		ReviewID:       4,
		Status:         models.ReviewStatusPending,
		CommentsFileID: &fileID,
		CommentsLink:   strPtr("/files/comments.pdf"),
	}

	if err := DetachArtifact(db, &review, models.ArtifactComments, time.Now()); err != nil {
		t.Fatalf("expected missing stored file to be tolerated, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDetachToleratesOrphanedFileRecord(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .peer_reviews. SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM .file_uploads."),
			columns: []string{"file_id", "stored_path"},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	fileID := 9
	review := models.PeerReview{
		ReviewID:      4,
		Status:        models.ReviewStatusSubmitted,
		SummaryFileID: &fileID,
		SummaryLink:   strPtr("/files/summary.pdf"),
	}

	if err := DetachArtifact(db, &review, models.ArtifactSummary, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
