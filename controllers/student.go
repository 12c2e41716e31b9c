package controllers

import (
	"net/http"
	"time"

	"peer-review-api/config"
	"peer-review-api/models"
	"peer-review-api/utils"

	"github.com/gin-gonic/gin"
)

type StudentCreateRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	TeamID *int   `json:"teamId"`
}

type StudentUpdateRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	TeamID *int    `json:"teamId"`
	IsRep  *bool   `json:"isRep"`
}

// GetStudents lists all students.
func GetStudents(c *gin.Context) {
	var students []models.Student
	if err := config.DB.Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load students"})
		return
	}
	c.JSON(http.StatusOK, students)
}

// GetStudent returns one student.
func GetStudent(c *gin.Context) {
	var student models.Student
	if err := config.DB.First(&student, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	c.JSON(http.StatusOK, student)
}

// CreateStudent creates a student record.
func CreateStudent(c *gin.Context) {
	var req StudentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student := models.Student{
		Name:      utils.SanitizeInput(req.Name),
		Email:     utils.SanitizeInput(req.Email),
		TeamID:    req.TeamID,
		CreatedAt: time.Now(),
	}
	if err := config.DB.Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create student"})
		return
	}

	c.JSON(http.StatusCreated, student)
}

// UpdateStudent updates the provided fields only.
func UpdateStudent(c *gin.Context) {
	var student models.Student
	if err := config.DB.First(&student, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	var req StudentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	if req.Name != nil {
		updates["name"] = utils.SanitizeInput(*req.Name)
	}
	if req.Email != nil {
		updates["email"] = utils.SanitizeInput(*req.Email)
	}
	if req.TeamID != nil {
		updates["team_id"] = *req.TeamID
	}
	if req.IsRep != nil {
		updates["is_rep"] = *req.IsRep
	}

	if err := config.DB.Model(&models.Student{}).
		Where("student_id = ?", student.StudentID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update student"})
		return
	}

	if err := config.DB.First(&student, student.StudentID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load student"})
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudent removes a student record.
func DeleteStudent(c *gin.Context) {
	var student models.Student
	if err := config.DB.First(&student, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	if err := config.DB.Delete(&models.Student{}, student.StudentID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete student"})
		return
	}

	c.Status(http.StatusNoContent)
}
