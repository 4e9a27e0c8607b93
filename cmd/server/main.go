package main

import (
	"log"
	"os"

	"fieldops-api/internal/database"
	"fieldops-api/internal/routes"
)

func main() {
	// Init database
	database.InitDB()

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8008"
	}
	log.Printf("Server starting on port :%s", port)
	log.Println("API endpoints:")
	log.Println("  POST   /api/login")
	log.Println("  POST   /api/register")
	log.Println("  GET    /api/users")
	log.Println("  POST   /api/projects")
	log.Println("  GET    /api/projects")
	log.Println("  POST   /api/tasks")
	log.Println("  GET    /api/tasks")
	log.Println("  POST   /api/tasks/:id/start")
	log.Println("  POST   /api/tasks/:id/submit")
	log.Println("  POST   /api/tasks/:id/approve")
	log.Println("  POST   /api/tasks/:id/reject")
	log.Println("  POST   /api/tasks/:id/reassign")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(":" + port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
