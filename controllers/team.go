package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"peer-review-api/config"
	"peer-review-api/models"
	"peer-review-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TeamUpdateRequest struct {
	Name     *string `json:"name"`
	Color    *string `json:"color"`
	IsLocked *bool   `json:"isLocked"`
}

type TeamCreateRequest struct {
	Name      string `json:"name" binding:"required"`
	Color     string `json:"color"`
	ProjectID *int   `json:"projectId"`
}

// GetTeams lists all teams with their students.
func GetTeams(c *gin.Context) {
	var teams []models.Team
	if err := config.DB.Preload("Students").Order("team_id ASC").Find(&teams).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load teams"})
		return
	}
	c.JSON(http.StatusOK, teams)
}

// GetTeam returns one team with its students.
func GetTeam(c *gin.Context) {
	var team models.Team
	if err := config.DB.Preload("Students").First(&team, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}
	c.JSON(http.StatusOK, team)
}

// CreateTeam creates a team.
func CreateTeam(c *gin.Context) {
	var req TeamCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Color == "" {
		req.Color = randomTeamColor()
	}

	team := models.Team{
		Name:      req.Name,
		Color:     req.Color,
		ProjectID: req.ProjectID,
		CreatedAt: time.Now(),
	}
	if err := config.DB.Create(&team).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team"})
		return
	}

	c.JSON(http.StatusCreated, team)
}

// requesterMayLockTeam reports whether the authenticated user may change
// a team's lock flag. Locking is instructor control: it can wipe and
// regenerate the project's whole review schedule.
func requesterMayLockTeam(c *gin.Context) bool {
	role, _ := c.Get("role")
	return role == models.RoleInstructor
}

// UpdateTeam updates a team's name, color and lock flag. Students may
// rename and recolor their team; lock-flag changes are instructor only.
// The lock-flag write and the schedule trigger run in one transaction,
// so either both the lock and the regenerated schedule are committed or
// neither is.
func UpdateTeam(c *gin.Context) {
	var req TeamUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.IsLocked != nil && !requesterMayLockTeam(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only instructors can change the team lock"})
		return
	}

	var team models.Team
	var project models.Project
	generated := false

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&team, c.Param("id")).Error; err != nil {
			return fmt.Errorf("%w: team", services.ErrNotFound)
		}

		wasLocked := team.IsLocked
		now := time.Now()
		updates := map[string]interface{}{"updated_at": now}
		if req.Name != nil {
			team.Name = *req.Name
			updates["name"] = *req.Name
		}
		if req.Color != nil {
			team.Color = *req.Color
			updates["color"] = *req.Color
		}
		if req.IsLocked != nil {
			team.IsLocked = *req.IsLocked
			updates["is_locked"] = *req.IsLocked
		}

		if err := tx.Model(&models.Team{}).
			Where("team_id = ?", team.TeamID).
			Updates(updates).Error; err != nil {
			return err
		}

		if req.IsLocked == nil || team.ProjectID == nil {
			return nil
		}

		if err := tx.First(&project, *team.ProjectID).Error; err != nil {
			return fmt.Errorf("%w: project", services.ErrNotFound)
		}

		var err error
		generated, err = services.MaybeRegenerateOnLock(tx, &project, &team, wasLocked)
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if generated {
		// Mail is best-effort and must not touch the committed transaction.
		notifyScheduleGenerated(project)
	}

	c.JSON(http.StatusOK, team)
}

// DeleteTeam removes a team and detaches its students.
func DeleteTeam(c *gin.Context) {
	var team models.Team
	if err := config.DB.First(&team, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Student{}).
			Where("team_id = ?", team.TeamID).
			Updates(map[string]interface{}{"team_id": nil, "is_rep": false}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Team{}, team.TeamID).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete team"})
		return
	}

	c.Status(http.StatusNoContent)
}

// notifyScheduleGenerated mails the project's team representatives that
// review assignments are available. Failures are logged only.
func notifyScheduleGenerated(project models.Project) {
	var reps []models.Student
	if err := config.DB.
		Joins("JOIN teams ON teams.team_id = students.team_id").
		Where("teams.project_id = ? AND students.is_rep = ?", project.ProjectID, true).
		Find(&reps).Error; err != nil {
		log.Printf("Warning: failed to load team reps for project %d: %v", project.ProjectID, err)
		return
	}

	recipients := make([]string, 0, len(reps))
	for _, rep := range reps {
		if rep.Email != "" {
			recipients = append(recipients, rep.Email)
		}
	}
	if len(recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("Peer review assignments for %s are ready", project.Name)
	html := fmt.Sprintf(
		"<p>All teams of <b>%s</b> are locked and the peer review schedule has been generated.</p>"+
			"<p>Log in to see which team your team reviews each sprint.</p>",
		project.Name,
	)
	if err := sendMailFunc(recipients, subject, html); err != nil {
		log.Printf("Warning: failed to send schedule notification for project %d: %v", project.ProjectID, err)
	}
}
