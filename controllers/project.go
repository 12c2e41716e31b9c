package controllers

import (
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"peer-review-api/config"
	"peer-review-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var teamColors = []string{
	"bg-indigo-500",
	"bg-emerald-500",
	"bg-amber-500",
	"bg-rose-500",
	"bg-sky-500",
	"bg-fuchsia-500",
}

func randomTeamColor() string {
	return teamColors[rand.Intn(len(teamColors))]
}

type CreateProjectRequest struct {
	Name               string `json:"name" binding:"required"`
	MaxTeams           int    `json:"maxTeams" binding:"required,min=1"`
	MaxStudentsPerTeam int    `json:"maxStudentsPerTeam" binding:"required,min=1"`
	TotalSprints       int    `json:"totalSprints"`
}

type AssignTeamsRequest struct {
	ProjectID int `json:"projectId" binding:"required"`
	Teams     []struct {
		ID       int    `json:"id" binding:"required"`
		Name     string `json:"name"`
		Color    string `json:"color"`
		Students []struct {
			ID    int  `json:"id" binding:"required"`
			IsRep bool `json:"isRep"`
		} `json:"students"`
	} `json:"teams"`
}

// CreateProject creates a project together with its empty teams, the way
// the team formation flow expects them to pre-exist.
func CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.TotalSprints <= 0 {
		req.TotalSprints = 3
	}

	project := models.Project{
		Name:               req.Name,
		MaxTeams:           req.MaxTeams,
		MaxStudentsPerTeam: req.MaxStudentsPerTeam,
		TotalSprints:       req.TotalSprints,
		CreatedAt:          time.Now(),
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		for i := 1; i <= req.MaxTeams; i++ {
			team := models.Team{
				Name:      project.Name + " - Team " + strconv.Itoa(i),
				Color:     randomTeamColor(),
				ProjectID: &project.ProjectID,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(&team).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	if err := config.DB.Preload("Teams.Students").First(&project, project.ProjectID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load project"})
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProjects lists all projects with their teams and students.
func GetProjects(c *gin.Context) {
	var projects []models.Project
	if err := config.DB.Preload("Teams.Students").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load projects"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetProject returns one project with its teams and students.
func GetProject(c *gin.Context) {
	var project models.Project
	if err := config.DB.Preload("Teams.Students").First(&project, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

// AssignTeams applies an instructor's team layout: team names, colors and
// student membership in one pass.
func AssignTeams(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return
	}

	var req AssignTeamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ProjectID != projectID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectId mismatch"})
		return
	}

	var project models.Project
	if err := config.DB.First(&project, projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, teamDef := range req.Teams {
			var team models.Team
			if err := tx.First(&team, teamDef.ID).Error; err != nil {
				continue
			}

			updates := map[string]interface{}{
				"project_id": projectID,
			}
			if teamDef.Name != "" {
				updates["name"] = teamDef.Name
			}
			if teamDef.Color != "" {
				updates["color"] = teamDef.Color
			}
			if err := tx.Model(&models.Team{}).
				Where("team_id = ?", team.TeamID).
				Updates(updates).Error; err != nil {
				return err
			}

			for _, studentDef := range teamDef.Students {
				if err := tx.Model(&models.Student{}).
					Where("student_id = ?", studentDef.ID).
					Updates(map[string]interface{}{
						"team_id": team.TeamID,
						"is_rep":  studentDef.IsRep,
					}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign teams"})
		return
	}

	if err := config.DB.Preload("Teams.Students").First(&project, projectID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load project"})
		return
	}

	c.JSON(http.StatusOK, project)
}

// JoinTeam lets a student join (or switch to) an unlocked team of the
// project. A student already sitting in a locked team of the project may
// not move; a team takes at most one representative.
func JoinTeam(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return
	}

	teamID, err := strconv.Atoi(c.Query("team_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "team_id query parameter is required"})
		return
	}
	asRep := c.Query("as_rep") == "true"

	studentIDValue, exists := c.Get("studentID")
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User has no linked student"})
		return
	}
	studentID := studentIDValue.(int)

	var project models.Project
	if err := config.DB.Preload("Teams.Students").First(&project, projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var team models.Team
	if err := config.DB.Preload("Students").First(&team, teamID).Error; err != nil ||
		team.ProjectID == nil || *team.ProjectID != projectID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Team does not belong to project"})
		return
	}

	// A member of a locked team of this project is frozen in place.
	for _, t := range project.Teams {
		if !t.IsLocked {
			continue
		}
		for _, s := range t.Students {
			if s.StudentID == studentID {
				c.JSON(http.StatusBadRequest, gin.H{"error": "You are already in a locked team for this project"})
				return
			}
		}
	}

	if len(team.Students) >= project.MaxStudentsPerTeam {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Team is full"})
		return
	}

	if team.IsLocked {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Team is locked"})
		return
	}

	if asRep && team.HasRep() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Representative already exists for this team"})
		return
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		// Detach the student from any other team of this project first.
		teamIDs := make([]int, 0, len(project.Teams))
		for _, t := range project.Teams {
			teamIDs = append(teamIDs, t.TeamID)
		}
		if len(teamIDs) > 0 {
			if err := tx.Model(&models.Student{}).
				Where("student_id = ? AND team_id IN ?", studentID, teamIDs).
				Updates(map[string]interface{}{"team_id": nil, "is_rep": false}).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Student{}).
			Where("student_id = ?", studentID).
			Updates(map[string]interface{}{"team_id": team.TeamID, "is_rep": asRep}).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join team"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Joined team"})
}
