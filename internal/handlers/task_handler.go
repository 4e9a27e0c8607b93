package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fieldops-api/internal/database"
	"fieldops-api/internal/lifecycle"
	"fieldops-api/internal/models"
	"fieldops-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	ProjectID          string          `json:"projectId" binding:"required"`
	TaskType           models.TaskType `json:"taskType" binding:"required"`
	TechnicianID       string          `json:"technicianId"`
	UseDateRange       bool            `json:"useDateRange"`
	ScheduledStartDate string          `json:"scheduledStartDate"`
	ScheduledEndDate   string          `json:"scheduledEndDate"`
	DueDate            string          `json:"dueDate"`
	EngagementNotes    string          `json:"engagementNotes"`
	LocationName       string          `json:"locationName"`
	LocationNotes      string          `json:"locationNotes"`
}

// RejectTaskRequest represents the admin rejection payload
type RejectTaskRequest struct {
	RejectionRemarks    string `json:"rejectionRemarks" binding:"required"`
	ResubmissionDueDate string `json:"resubmissionDueDate" binding:"required"`
}

// ReassignTaskRequest represents the reassignment payload
type ReassignTaskRequest struct {
	TechnicianID       string `json:"technicianId" binding:"required"`
	UseDateRange       bool   `json:"useDateRange"`
	ScheduledStartDate string `json:"scheduledStartDate"`
	ScheduledEndDate   string `json:"scheduledEndDate"`
	DueDate            string `json:"dueDate"`
	EngagementNotes    string `json:"engagementNotes"`
	ConfirmIfInFlight  bool   `json:"confirmIfInFlight"`
}

// workflow builds the lifecycle controller over the active DB handle with
// websocket notifications wired in.
func workflow() *lifecycle.Controller {
	return lifecycle.NewController(database.GetDB(), realtime.GetHub())
}

// respondWorkflowError maps the lifecycle error taxonomy onto HTTP statuses.
func respondWorkflowError(c *gin.Context, err error) {
	var validationErr *lifecycle.ValidationError
	var transitionErr *lifecycle.InvalidTransitionError
	var dateRangeErr *lifecycle.InvalidDateRangeError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &dateRangeErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": dateRangeErr.Error()})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": transitionErr.Error(),
			"from":  transitionErr.From,
			"to":    transitionErr.To,
		})
	case errors.Is(err, lifecycle.ErrReassignmentNotConfirmed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process task"})
	}
}

/*
*
CreateTask handles POST /api/tasks (admin only)
Creates a task against a project, optionally bound to a technician.
*/
func CreateTask(c *gin.Context) {
	adminID := c.GetString("user_id")

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := workflow().CreateTask(lifecycle.CreateTaskInput{
		ProjectID:    req.ProjectID,
		TaskType:     req.TaskType,
		TechnicianID: req.TechnicianID,
		Schedule: lifecycle.Schedule{
			UseDateRange:       req.UseDateRange,
			ScheduledStartDate: req.ScheduledStartDate,
			ScheduledEndDate:   req.ScheduledEndDate,
			DueDate:            req.DueDate,
			EngagementNotes:    req.EngagementNotes,
		},
		LocationName:  req.LocationName,
		LocationNotes: req.LocationNotes,
		CreatedByID:   adminID,
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	enrichTechnician(task)
	c.JSON(http.StatusCreated, task)
}

/*
*
GetTasks handles GET /api/tasks
Returns tasks for authenticated users with pagination.
Optional query params: projectId, technicianId, status, page, limit, sort.
*/
func GetTasks(c *gin.Context) {
	// Query params: page (default 1), limit (default 5), sort (asc|desc on created_at, default desc)
	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "5")
	sortParam := strings.ToLower(c.DefaultQuery("sort", "desc"))

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = 5
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit

	order := "created_at desc"
	if sortParam == "asc" {
		order = "created_at asc"
	}

	db := database.GetDB()
	query := db.Model(&models.Task{})
	if projectID := c.Query("projectId"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if technicianID := c.Query("technicianId"); technicianID != "" {
		query = query.Where("assigned_technician_id = ?", technicianID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	// Total count (without pagination)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count tasks"})
		return
	}

	// Fetch paginated tasks with sorting
	var tasks []models.Task
	if err := query.Session(&gorm.Session{}).Order(order).Limit(limit).Offset(offset).Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	// Enrich technician refs for the page in one pass
	var users []models.User
	if err := db.Find(&users).Error; err == nil {
		userByID := make(map[string]models.User, len(users))
		for _, u := range users {
			userByID[u.ID] = u
		}
		for i := range tasks {
			if u, ok := userByID[tasks[i].AssignedTechnicianID]; ok {
				tasks[i].AssignedTechnician = &models.TechnicianRef{
					ID:       u.ID,
					Username: u.Username,
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks), // number of items in this page
		"total": total,      // total tasks (all pages) for current filter
		"page":  page,
		"limit": limit,
		"sort":  sortParam,
	})
}

// GetTaskByID handles GET /api/tasks/:id
func GetTaskByID(c *gin.Context) {
	taskID := c.Param("id")

	var task models.Task
	if err := database.GetDB().First(&task, "id = ?", taskID).Error; err != nil {
		respondWorkflowError(c, lifecycle.ErrNotFound)
		return
	}

	enrichTechnician(&task)
	c.JSON(http.StatusOK, task)
}

// GetTaskAudit handles GET /api/tasks/:id/audit (admin only)
// Returns the action trail for a task, oldest first.
func GetTaskAudit(c *gin.Context) {
	taskID := c.Param("id")

	var task models.Task
	if err := database.GetDB().First(&task, "id = ?", taskID).Error; err != nil {
		respondWorkflowError(c, lifecycle.ErrNotFound)
		return
	}

	var trail []models.TaskAudit
	if err := database.GetDB().
		Where("task_id = ?", taskID).
		Order("created_at asc").
		Find(&trail).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit trail"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"taskId": taskID,
		"audit":  trail,
		"count":  len(trail),
	})
}

// StartTask handles POST /api/tasks/:id/start (technician only)
func StartTask(c *gin.Context) {
	task, err := workflow().Start(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	enrichTechnician(task)
	c.JSON(http.StatusOK, task)
}

// SubmitTask handles POST /api/tasks/:id/submit (technician only)
func SubmitTask(c *gin.Context) {
	task, err := workflow().Submit(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	enrichTechnician(task)
	c.JSON(http.StatusOK, task)
}

// ApproveTask handles POST /api/tasks/:id/approve (admin only)
func ApproveTask(c *gin.Context) {
	task, err := workflow().Approve(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	enrichTechnician(task)
	c.JSON(http.StatusOK, task)
}

// RejectTask handles POST /api/tasks/:id/reject (admin only)
func RejectTask(c *gin.Context) {
	var req RejectTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := workflow().Reject(c.Param("id"), c.GetString("user_id"),
		req.RejectionRemarks, req.ResubmissionDueDate)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	enrichTechnician(task)
	c.JSON(http.StatusOK, task)
}

// ReassignTask handles POST /api/tasks/:id/reassign (admin only)
func ReassignTask(c *gin.Context) {
	var req ReassignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := workflow().Reassign(c.Param("id"), lifecycle.ReassignInput{
		TechnicianID: req.TechnicianID,
		Schedule: lifecycle.Schedule{
			UseDateRange:       req.UseDateRange,
			ScheduledStartDate: req.ScheduledStartDate,
			ScheduledEndDate:   req.ScheduledEndDate,
			DueDate:            req.DueDate,
			EngagementNotes:    req.EngagementNotes,
		},
		ConfirmIfInFlight: req.ConfirmIfInFlight,
	}, c.GetString("user_id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	enrichTechnician(task)
	c.JSON(http.StatusOK, task)
}

// enrichTechnician fills the response-side technician ref on a task.
func enrichTechnician(task *models.Task) {
	if task == nil || task.AssignedTechnicianID == "" {
		return
	}
	var u models.User
	if err := database.GetDB().First(&u, "id = ?", task.AssignedTechnicianID).Error; err == nil {
		task.AssignedTechnician = &models.TechnicianRef{ID: u.ID, Username: u.Username}
	}
}
