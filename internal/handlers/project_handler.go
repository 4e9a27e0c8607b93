package handlers

import (
	"errors"
	"net/http"

	"fieldops-api/internal/database"
	"fieldops-api/internal/models"
	"fieldops-api/internal/projectnum"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateProjectRequest represents the request payload for creating a project.
// ProjectNumber is optional; when absent the allocator generates one.
type CreateProjectRequest struct {
	ProjectNumber string `json:"projectNumber"`
	ClientName    string `json:"clientName" binding:"required"`
	SiteAddress   string `json:"siteAddress"`
}

// CreateProject handles POST /api/projects (admin only).
// Number allocation and the project insert run in one transaction so the
// uniqueness check cannot be split from the write.
func CreateProject(c *gin.Context) {
	adminID := c.GetString("user_id")

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var project models.Project
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		number := req.ProjectNumber
		if number != "" {
			if err := projectnum.Claim(tx, number); err != nil {
				return err
			}
		} else {
			allocated, err := projectnum.Allocate(tx)
			if err != nil {
				return err
			}
			number = allocated
		}

		project = models.Project{
			ID:            uuid.NewString(),
			ProjectNumber: number,
			ClientName:    req.ClientName,
			SiteAddress:   req.SiteAddress,
			CreatedByID:   adminID,
		}
		return tx.Create(&project).Error
	})

	switch {
	case err == nil:
		c.JSON(http.StatusCreated, project)
	case errors.Is(err, projectnum.ErrForbiddenCharacter),
		errors.Is(err, projectnum.ErrNumberInUse),
		errors.Is(err, projectnum.ErrEmptyCandidate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, projectnum.ErrAllocationExhausted):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
	}
}

// GetProjects handles GET /api/projects
func GetProjects(c *gin.Context) {
	var projects []models.Project
	if err := database.GetDB().Order("created_at desc").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"count":    len(projects),
	})
}

// GetProjectByID handles GET /api/projects/:id
func GetProjectByID(c *gin.Context) {
	projectID := c.Param("id")

	var project models.Project
	if err := database.GetDB().First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project"})
		}
		return
	}

	c.JSON(http.StatusOK, project)
}
