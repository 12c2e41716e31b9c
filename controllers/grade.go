package controllers

import (
	"net/http"

	"peer-review-api/config"
	"peer-review-api/models"

	"github.com/gin-gonic/gin"
)

type GradeCreateRequest struct {
	StudentID  int    `json:"studentId" binding:"required"`
	Sprint     int    `json:"sprint" binding:"required,min=1"`
	Assignment string `json:"assignment" binding:"required"`
	Score      int    `json:"score"`
}

type GradeUpdateRequest struct {
	Sprint     *int    `json:"sprint"`
	Assignment *string `json:"assignment"`
	Score      *int    `json:"score"`
}

type TeamGradeCreateRequest struct {
	TeamID     int     `json:"teamId" binding:"required"`
	Sprint     int     `json:"sprint" binding:"required,min=1"`
	Assignment string  `json:"assignment" binding:"required"`
	Score      int     `json:"score"`
	Comments   *string `json:"comments"`
}

type TeamGradeUpdateRequest struct {
	Sprint     *int    `json:"sprint"`
	Assignment *string `json:"assignment"`
	Score      *int    `json:"score"`
	Comments   *string `json:"comments"`
}

// GetGrades lists student grades, filtered by student and sprint.
func GetGrades(c *gin.Context) {
	query := config.DB.Model(&models.Grade{})
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if sprint := c.Query("sprint"); sprint != "" {
		query = query.Where("sprint = ?", sprint)
	}

	var grades []models.Grade
	if err := query.Find(&grades).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load grades"})
		return
	}
	c.JSON(http.StatusOK, grades)
}

// CreateGrade records a student grade.
func CreateGrade(c *gin.Context) {
	var req GradeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidAssignmentLetter(req.Assignment) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown assignment letter"})
		return
	}

	grade := models.Grade{
		StudentID:  req.StudentID,
		Sprint:     req.Sprint,
		Assignment: req.Assignment,
		Score:      req.Score,
	}
	if err := config.DB.Create(&grade).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create grade"})
		return
	}

	c.JSON(http.StatusCreated, grade)
}

// UpdateGrade updates the provided fields only.
func UpdateGrade(c *gin.Context) {
	var grade models.Grade
	if err := config.DB.First(&grade, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Grade not found"})
		return
	}

	var req GradeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Sprint != nil {
		updates["sprint"] = *req.Sprint
	}
	if req.Assignment != nil {
		if !models.ValidAssignmentLetter(*req.Assignment) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown assignment letter"})
			return
		}
		updates["assignment"] = *req.Assignment
	}
	if req.Score != nil {
		updates["score"] = *req.Score
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&models.Grade{}).
			Where("grade_id = ?", grade.GradeID).
			Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update grade"})
			return
		}
	}

	if err := config.DB.First(&grade, grade.GradeID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load grade"})
		return
	}

	c.JSON(http.StatusOK, grade)
}

// DeleteGrade removes a grade.
func DeleteGrade(c *gin.Context) {
	result := config.DB.Delete(&models.Grade{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete grade"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": result.RowsAffected > 0})
}

// GetTeamGrades lists team grades, filtered by team and sprint.
func GetTeamGrades(c *gin.Context) {
	query := config.DB.Model(&models.TeamGrade{})
	if teamID := c.Query("team_id"); teamID != "" {
		query = query.Where("team_id = ?", teamID)
	}
	if sprint := c.Query("sprint"); sprint != "" {
		query = query.Where("sprint = ?", sprint)
	}

	var grades []models.TeamGrade
	if err := query.Find(&grades).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load team grades"})
		return
	}
	c.JSON(http.StatusOK, grades)
}

// CreateTeamGrade records a team grade.
func CreateTeamGrade(c *gin.Context) {
	var req TeamGradeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidAssignmentLetter(req.Assignment) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown assignment letter"})
		return
	}

	grade := models.TeamGrade{
		TeamID:     req.TeamID,
		Sprint:     req.Sprint,
		Assignment: req.Assignment,
		Score:      req.Score,
		Comments:   req.Comments,
	}
	if err := config.DB.Create(&grade).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team grade"})
		return
	}

	c.JSON(http.StatusCreated, grade)
}

// UpdateTeamGrade updates the provided fields only.
func UpdateTeamGrade(c *gin.Context) {
	var grade models.TeamGrade
	if err := config.DB.First(&grade, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team grade not found"})
		return
	}

	var req TeamGradeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Sprint != nil {
		updates["sprint"] = *req.Sprint
	}
	if req.Assignment != nil {
		if !models.ValidAssignmentLetter(*req.Assignment) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown assignment letter"})
			return
		}
		updates["assignment"] = *req.Assignment
	}
	if req.Score != nil {
		updates["score"] = *req.Score
	}
	if req.Comments != nil {
		updates["comments"] = *req.Comments
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&models.TeamGrade{}).
			Where("team_grade_id = ?", grade.TeamGradeID).
			Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update team grade"})
			return
		}
	}

	if err := config.DB.First(&grade, grade.TeamGradeID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load team grade"})
		return
	}

	c.JSON(http.StatusOK, grade)
}

// DeleteTeamGrade removes a team grade.
func DeleteTeamGrade(c *gin.Context) {
	result := config.DB.Delete(&models.TeamGrade{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete team grade"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": result.RowsAffected > 0})
}
