package services

import (
	"fmt"

	"gorm.io/gorm"

	"peer-review-api/models"
)

// GenerateAssignments produces the full review schedule for an ordered
// set of teams: one reviewing assignment per team per sprint. For sprint
// s, team i reviews team (i + shift) mod n with shift = (s mod (n-1)) + 1,
// so shift is always in 1..n-1 and no team ever reviews itself. The shift
// cycle repeats with period n-1; a team may re-review the same target on
// later sprints, which is accepted.
//
// Fewer than two teams yields an empty schedule and no error. The
// function is pure: same teams in the same order and the same sprint
// count always produce the same records in the same order.
func GenerateAssignments(teams []models.Team, totalSprints int) ([]models.PeerReview, error) {
	if totalSprints <= 0 {
		return nil, fmt.Errorf("%w: total sprints must be positive, got %d", ErrInvalidInput, totalSprints)
	}

	n := len(teams)
	if n < 2 {
		return nil, nil
	}

	reviews := make([]models.PeerReview, 0, n*totalSprints)
	for sprint := 1; sprint <= totalSprints; sprint++ {
		shift := (sprint % (n - 1)) + 1
		for i := 0; i < n; i++ {
			reviews = append(reviews, models.PeerReview{
				Sprint:          sprint,
				ReviewingTeamID: teams[i].TeamID,
				ReviewedTeamID:  teams[(i+shift)%n].TeamID,
				Status:          models.ReviewStatusPending,
			})
		}
	}
	return reviews, nil
}

// RegenerateForProject replaces the project's review schedule: one DELETE
// of every prior record touching the team set followed by one bulk INSERT
// of the fresh schedule, both on the caller's transaction so a concurrent
// reader never observes a partially regenerated schedule. When the
// generator yields nothing (fewer than two teams) no rows are touched.
func RegenerateForProject(tx *gorm.DB, project *models.Project, teams []models.Team) error {
	reviews, err := GenerateAssignments(teams, project.TotalSprints)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		return nil
	}

	teamIDs := make([]int, len(teams))
	for i, t := range teams {
		teamIDs[i] = t.TeamID
	}

	if err := tx.Where("reviewing_team_id IN ? OR reviewed_team_id IN ?", teamIDs, teamIDs).
		Delete(&models.PeerReview{}).Error; err != nil {
		return fmt.Errorf("failed to delete prior reviews: %w", err)
	}

	if err := tx.Create(&reviews).Error; err != nil {
		return fmt.Errorf("failed to insert review schedule: %w", err)
	}

	return nil
}

// MaybeRegenerateOnLock is the lock trigger. It must run inside the same
// transaction as the lock-flag update, after the update is applied. The
// generator fires iff this operation flipped the team from unlocked to
// locked and every team of the project is now locked. Sibling lock state
// is re-read on the transaction, so two teams locked concurrently settle
// on the same final schedule even if both operations fire.
//
// The trigger is edge-sensitive: re-saving an already-locked team does
// nothing, but unlocking and re-locking a team of a fully locked project
// re-fires full regeneration, replacing in-flight submissions.
func MaybeRegenerateOnLock(tx *gorm.DB, project *models.Project, team *models.Team, wasLocked bool) (bool, error) {
	if wasLocked || !team.IsLocked {
		return false, nil
	}
	if team.ProjectID == nil {
		return false, nil
	}

	// team_id order is creation order, which fixes the schedule indexing
	var teams []models.Team
	if err := tx.Where("project_id = ?", *team.ProjectID).
		Order("team_id ASC").
		Find(&teams).Error; err != nil {
		return false, fmt.Errorf("failed to load project teams: %w", err)
	}

	for _, t := range teams {
		if !t.IsLocked {
			return false, nil
		}
	}

	if err := RegenerateForProject(tx, project, teams); err != nil {
		return false, err
	}
	return true, nil
}
