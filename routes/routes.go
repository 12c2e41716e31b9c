package routes

import (
	"peer-review-api/controllers"
	"peer-review-api/middleware"
	"peer-review-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/auth/register", controllers.Register)
			public.POST("/auth/login", controllers.Login)
			public.POST("/auth/forgot-password", controllers.ForgotPassword)
			public.POST("/auth/reset-password", controllers.ResetPassword)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Peer Review API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/auth/me", controllers.GetProfile)
			protected.PUT("/auth/change-password", controllers.ChangePassword)

			// Projects
			projects := protected.Group("/projects")
			{
				projects.GET("", controllers.GetProjects)
				projects.GET("/:id", controllers.GetProject)
				projects.POST("", middleware.RequireRole(models.RoleInstructor), controllers.CreateProject)
				projects.POST("/:id/assign-teams", middleware.RequireRole(models.RoleInstructor), controllers.AssignTeams)
				projects.POST("/:id/join-team", middleware.RequireRole(models.RoleStudent), controllers.JoinTeam)
			}

			// Teams
			teams := protected.Group("/teams")
			{
				teams.GET("", controllers.GetTeams)
				teams.GET("/:id", controllers.GetTeam)
				teams.POST("", middleware.RequireRole(models.RoleInstructor), controllers.CreateTeam)
				// Team rename and lock; locking the last team generates the review schedule
				teams.PUT("/:id", controllers.UpdateTeam)
				teams.DELETE("/:id", middleware.RequireRole(models.RoleInstructor), controllers.DeleteTeam)
			}

			// Students
			students := protected.Group("/students")
			{
				students.GET("", controllers.GetStudents)
				students.GET("/:id", controllers.GetStudent)
				students.POST("", middleware.RequireRole(models.RoleInstructor), controllers.CreateStudent)
				students.PUT("/:id", middleware.RequireRole(models.RoleInstructor), controllers.UpdateStudent)
				students.DELETE("/:id", middleware.RequireRole(models.RoleInstructor), controllers.DeleteStudent)
			}

			// Peer reviews
			reviews := protected.Group("/peer-reviews")
			{
				reviews.GET("", controllers.GetPeerReviews)
				reviews.GET("/export", middleware.RequireRole(models.RoleInstructor), controllers.ExportSprintArchive)
				reviews.GET("/:id", controllers.GetPeerReview)
				reviews.PUT("/:id", middleware.RequireRole(models.RoleInstructor), controllers.UpdatePeerReview)
				reviews.POST("/:id/files/:type", controllers.UploadReviewArtifact)
				reviews.DELETE("/:id/files/:type", controllers.DeleteReviewArtifact)
				reviews.GET("/:id/files/:type/download", controllers.DownloadReviewArtifact)
			}

			// Grades
			grades := protected.Group("/grades")
			{
				grades.GET("", controllers.GetGrades)
				grades.POST("", middleware.RequireRole(models.RoleInstructor), controllers.CreateGrade)
				grades.PUT("/:id", middleware.RequireRole(models.RoleInstructor), controllers.UpdateGrade)
				grades.DELETE("/:id", middleware.RequireRole(models.RoleInstructor), controllers.DeleteGrade)
			}

			// Team grades
			teamGrades := protected.Group("/team-grades")
			{
				teamGrades.GET("", controllers.GetTeamGrades)
				teamGrades.POST("", middleware.RequireRole(models.RoleInstructor), controllers.CreateTeamGrade)
				teamGrades.PUT("/:id", middleware.RequireRole(models.RoleInstructor), controllers.UpdateTeamGrade)
				teamGrades.DELETE("/:id", middleware.RequireRole(models.RoleInstructor), controllers.DeleteTeamGrade)
			}

			// Dashboard
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/students/:id", controllers.GetStudentDashboard)
			}
		}
	}
}
