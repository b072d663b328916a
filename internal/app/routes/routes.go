package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mertdogan/coursehub/internal/app/controllers"
	"github.com/mertdogan/coursehub/internal/app/models"
	"github.com/mertdogan/coursehub/internal/app/models/dto"
	"github.com/mertdogan/coursehub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	batchController *controllers.BatchController,
	videoController *controllers.VideoController,
	enrollmentController *controllers.EnrollmentController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	adminOnly := authMiddleware.RoleRequired(string(models.RoleAdmin))
	uploaderRoles := authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleTrainer))

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/admin/login", authController.AdminLogin)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authProtected := authenticated.Group("/auth")
	{
		authProtected.GET("/profile", authController.GetProfile)
		authProtected.PUT("/profile", authController.UpdateProfile)
		authProtected.POST("/profile/picture", authController.UploadProfilePicture)
		authProtected.POST("/profile/resume", authController.UploadResume)
		authProtected.POST("/change-password", authController.ChangePassword)
		authProtected.POST("/logout", authController.Logout)
	}

	// Course catalog is visible to every authenticated user; writes are
	// admin-only.
	courses := authenticated.Group("/courses")
	{
		courses.GET("", courseController.ListCourses)
		courses.GET("/:id", courseController.GetCourse)
		courses.GET("/:id/batches", courseController.ListCourseBatches)

		coursesAdmin := courses.Group("")
		coursesAdmin.Use(adminOnly)
		{
			coursesAdmin.POST("", courseController.CreateCourse)
			coursesAdmin.PUT("/:id", courseController.UpdateCourse)
			coursesAdmin.PATCH("/:id/approve", courseController.ApproveCourse)
			coursesAdmin.DELETE("/:id", courseController.DeleteCourse)
		}
	}

	batches := authenticated.Group("/batches")
	{
		batches.GET("/:id", batchController.GetBatch)

		batchesAdmin := batches.Group("")
		batchesAdmin.Use(adminOnly)
		{
			batchesAdmin.POST("", batchController.CreateBatch)
			batchesAdmin.PUT("/:id", batchController.UpdateBatch)
			batchesAdmin.DELETE("/:id", batchController.DeleteBatch)
		}
	}

	videos := authenticated.Group("/videos")
	{
		videos.GET("", videoController.ListVideos)
		videos.GET("/search", videoController.SearchVideos)
		videos.GET("/:id", videoController.GetVideo)

		// Upload is trainer/admin; per-video ownership is enforced in the
		// service for updates and deletes.
		videosUploader := videos.Group("")
		videosUploader.Use(uploaderRoles)
		{
			videosUploader.POST("", videoController.CreateVideo)
			videosUploader.PUT("/:id", videoController.UpdateVideo)
			videosUploader.DELETE("/:id", videoController.DeleteVideo)
		}
	}

	enrollments := authenticated.Group("/enrollments")
	{
		enrollmentsStudent := enrollments.Group("")
		enrollmentsStudent.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
		{
			enrollmentsStudent.POST("/requests", enrollmentController.CreateRequest)
			enrollmentsStudent.GET("/requests/my", enrollmentController.ListMyRequests)
		}

		enrollmentsAdmin := enrollments.Group("")
		enrollmentsAdmin.Use(adminOnly)
		{
			enrollmentsAdmin.GET("/requests", enrollmentController.ListRequests)
			enrollmentsAdmin.POST("/requests/:id/approve", enrollmentController.ApproveRequest)
			enrollmentsAdmin.POST("/requests/:id/reject", enrollmentController.RejectRequest)
			enrollmentsAdmin.POST("/assignments/students", enrollmentController.AssignStudent)
			enrollmentsAdmin.POST("/assignments/trainers", enrollmentController.AssignTrainer)
		}
	}

	admin := authenticated.Group("/admin")
	admin.Use(adminOnly)
	{
		admin.GET("/dashboard", adminController.GetDashboard)
		admin.GET("/students", adminController.ListStudents)
		admin.GET("/students/:id", adminController.GetStudent)
		admin.GET("/trainers", adminController.ListTrainers)
		admin.GET("/trainers/:id", adminController.GetTrainer)
		admin.PATCH("/users/:id/status", adminController.UpdateUserStatus)
		admin.DELETE("/users/:id/courses/:courseId", adminController.RemoveUserCourse)
		admin.DELETE("/users/:id/batches/:batchId", adminController.RemoveUserBatch)
		admin.POST("/users/:id/reassign", adminController.ReassignUser)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.APIResponse{
			Success: true,
			Data:    gin.H{"status": "ok"},
		})
	})
}
