package handlers

import (
	"net/http"

	"fieldops-api/internal/database"
	"fieldops-api/internal/models"

	"github.com/gin-gonic/gin"
)

type UserResponse struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
}

// GetAllUsers returns all users, optionally filtered by role (protected)
// GET /api/users?role=technician
func GetAllUsers(c *gin.Context) {
	query := database.GetDB().Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	// Map to safe response payload
	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, UserResponse{
			ID:       u.ID,
			Username: u.Username,
			Role:     u.Role,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"users": resp,
		"count": len(resp),
	})
}
