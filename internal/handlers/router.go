package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskhive/project-management-api/internal/config"
	"github.com/taskhive/project-management-api/internal/logger"
	"github.com/taskhive/project-management-api/internal/middleware"
	"github.com/taskhive/project-management-api/internal/repository"
	"github.com/taskhive/project-management-api/internal/services"
	"github.com/taskhive/project-management-api/internal/storage"
	"gorm.io/gorm"
)

// SetupRouter wires repositories, services and handlers onto a gin engine.
func SetupRouter(db *gorm.DB, cfg *config.Config, log *logger.Logger) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reportRepo := repository.NewReportRepository(db)

	store := storage.NewLocalStore(cfg.UploadDir)

	tokenService := services.NewTokenService(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(db, userRepo, taskRepo)
	projectService := services.NewProjectService(db, projectRepo, taskRepo, userRepo, store, log)
	taskService := services.NewTaskService(db, taskRepo, projectRepo, userRepo, store, log)
	fileService := services.NewFileService(db, projectRepo, taskRepo, userRepo, store, log)
	notificationService := services.NewNotificationService(notificationRepo)
	reportService := services.NewReportService(reportRepo)

	authHandler := NewAuthHandler(authService, tokenService)
	userHandler := NewUserHandler(userService)
	projectHandler := NewProjectHandler(projectService)
	taskHandler := NewTaskHandler(taskService)
	fileHandler := NewFileHandler(fileService)
	notificationHandler := NewNotificationHandler(notificationService)
	reportHandler := NewReportHandler(reportService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Uploaded files are served straight off the local blob store
	r.Static(storage.URLPrefix, cfg.UploadDir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Management API is running",
		})
	})
	r.GET("/health/db", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(503, gin.H{"status": "error", "message": "Database unreachable"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// Public routes
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// Routes for any authenticated user
		authed := api.Group("")
		authed.Use(middleware.RequireAuth(tokenService))
		{
			authed.GET("/profile", authHandler.GetProfile)
			authed.PUT("/profile", authHandler.UpdateProfile)

			notifications := authed.Group("/notifications")
			{
				notifications.GET("", notificationHandler.ListNotifications)
				notifications.GET("/unread-count", notificationHandler.UnreadCount)
				notifications.PUT("/:id/read", notificationHandler.MarkRead)
				notifications.POST("/read-all", notificationHandler.MarkAllRead)
			}

			// Admin routes
			admin := authed.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/reports/summary", reportHandler.Summary)

				admin.GET("/members", userHandler.ListMembers)
				admin.POST("/members", userHandler.CreateMember)
				admin.PUT("/members/:id", userHandler.UpdateMember)
				admin.DELETE("/members/:id", userHandler.DeleteMember)

				admin.GET("/tasks", taskHandler.ListTasks)

				admin.GET("/projects", projectHandler.ListProjects)
				admin.POST("/projects", projectHandler.CreateProject)

				project := admin.Group("/projects/:project_id")
				{
					project.GET("", projectHandler.GetProject)
					project.PUT("", projectHandler.UpdateProject)
					project.DELETE("", projectHandler.DeleteProject)
					project.PUT("/members", projectHandler.UpdateMembers)
					project.POST("/complete", projectHandler.CompleteProject)

					project.GET("/files", fileHandler.ListProjectFiles)
					project.POST("/files", fileHandler.UploadProjectFile)
					project.DELETE("/files/:file_id", fileHandler.DeleteProjectFile)

					project.GET("/tasks", taskHandler.ListProjectTasks)
					project.POST("/tasks", taskHandler.CreateTask)

					task := project.Group("/tasks/:task_number")
					{
						task.GET("", taskHandler.GetTask)
						task.PUT("", taskHandler.UpdateTask)
						task.DELETE("", taskHandler.DeleteTask)
						task.PUT("/status", taskHandler.UpdateStatus)
						task.POST("/approve", taskHandler.ApproveTask)
						task.POST("/reject", taskHandler.RejectTask)
						task.POST("/complete", taskHandler.CompleteTask)

						task.GET("/comments", taskHandler.ListComments)
						task.POST("/comments", taskHandler.AddComment)

						task.GET("/files", fileHandler.ListAttachments)
						task.POST("/files", fileHandler.UploadAttachment)
						task.DELETE("/files/:file_id", fileHandler.DeleteAttachment)
					}
				}
			}

			// Member routes
			member := authed.Group("/member")
			{
				member.GET("/projects", projectHandler.ListMyProjects)
				member.GET("/tasks", taskHandler.ListMyTasks)

				project := member.Group("/projects/:project_id")
				project.Use(middleware.RequireProjectAccess(projectRepo, "project_id"))
				{
					project.GET("", projectHandler.GetProject)
					project.GET("/tasks", taskHandler.ListProjectTasks)
					project.GET("/files", fileHandler.ListProjectFiles)

					// Mutations are limited to the task's assignee
					assigneeOnly := middleware.RequireTaskAssignment(taskRepo)

					task := project.Group("/tasks/:task_number")
					{
						task.GET("", taskHandler.GetTask)
						task.PUT("/status", assigneeOnly, taskHandler.UpdateStatus)

						task.GET("/comments", taskHandler.ListComments)
						task.POST("/comments", assigneeOnly, taskHandler.AddComment)

						task.GET("/files", fileHandler.ListAttachments)
						task.POST("/files", assigneeOnly, fileHandler.UploadAttachment)
					}
				}
			}
		}
	}

	return r
}
