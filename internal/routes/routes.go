package routes

import (
	"fieldops-api/internal/handlers"
	"fieldops-api/internal/middleware"
	"fieldops-api/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204) // This depends on the implementation of the frontend
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "FieldOps API is running in Health Check Endpoint",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		// Login endpoint
		api.POST("/login", handlers.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		protectedRoutes.GET("/users", handlers.GetAllUsers)
		protectedRoutes.GET("/projects", handlers.GetProjects)
		protectedRoutes.GET("/projects/:id", handlers.GetProjectByID)
		protectedRoutes.GET("/tasks", handlers.GetTasks)
		protectedRoutes.GET("/tasks/:id", handlers.GetTaskByID)
		protectedRoutes.GET("/ws", handlers.WebSocketHandler)
	}

	// Admin routes: project/task creation, review decisions, reassignment
	adminRoutes := protectedRoutes.Group("")
	adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
	{
		adminRoutes.POST("/register", handlers.Register)
		adminRoutes.POST("/projects", handlers.CreateProject)
		adminRoutes.POST("/tasks", handlers.CreateTask)
		adminRoutes.GET("/tasks/:id/audit", handlers.GetTaskAudit)
		adminRoutes.POST("/tasks/:id/approve", handlers.ApproveTask)
		adminRoutes.POST("/tasks/:id/reject", handlers.RejectTask)
		adminRoutes.POST("/tasks/:id/reassign", handlers.ReassignTask)
	}

	// Technician routes: field work progress
	technicianRoutes := protectedRoutes.Group("")
	technicianRoutes.Use(middleware.RequireRole(models.RoleTechnician))
	{
		technicianRoutes.POST("/tasks/:id/start", handlers.StartTask)
		technicianRoutes.POST("/tasks/:id/submit", handlers.SubmitTask)
	}

	return ginRouter
}
