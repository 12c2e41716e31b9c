package controllers

import (
	"net/http"

	"peer-review-api/config"
	"peer-review-api/models"

	"github.com/gin-gonic/gin"
)

type StudentDashboard struct {
	Student           models.Student      `json:"student"`
	Teams             []models.Team       `json:"teams"`
	Students          []models.Student    `json:"students"`
	Grades            []models.Grade      `json:"grades"`
	ReviewAssignments []models.PeerReview `json:"reviewAssignments"`
}

// GetStudentDashboard assembles everything a student's dashboard shows:
// their record, all teams and students, their grades and the review
// assignments their team is involved in on either side.
func GetStudentDashboard(c *gin.Context) {
	var student models.Student
	if err := config.DB.First(&student, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	var teams []models.Team
	if err := config.DB.Preload("Students").Order("team_id ASC").Find(&teams).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load teams"})
		return
	}

	var students []models.Student
	if err := config.DB.Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load students"})
		return
	}

	var grades []models.Grade
	if err := config.DB.Where("student_id = ?", student.StudentID).Find(&grades).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load grades"})
		return
	}

	reviews := []models.PeerReview{}
	if student.TeamID != nil {
		if err := config.DB.
			Where("reviewing_team_id = ? OR reviewed_team_id = ?", *student.TeamID, *student.TeamID).
			Order("sprint ASC").
			Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load review assignments"})
			return
		}
	}

	c.JSON(http.StatusOK, StudentDashboard{
		Student:           student,
		Teams:             teams,
		Students:          students,
		Grades:            grades,
		ReviewAssignments: reviews,
	})
}
