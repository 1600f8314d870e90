package handlers

import (
	"net/http"
	"strconv"

	"taskboard-api/internal/metrics"
	"taskboard-api/internal/middleware"
	"taskboard-api/internal/models"
	"taskboard-api/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskHandler handles task operations
type TaskHandler struct {
	storage storage.Store
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(store storage.Store) *TaskHandler {
	return &TaskHandler{storage: store}
}

// GetTasks handles GET /tasks?done=&priority=&list_id=&limit=&offset=
func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.Fail("Authentication required"))
		return
	}

	filter, ok := parseTaskFilter(c)
	if !ok {
		return
	}

	h.respondTasks(c, userID, filter)
}

// GetPendingTasks handles GET /tasks/pending
func (h *TaskHandler) GetPendingTasks(c *gin.Context) {
	h.respondFixedDone(c, false)
}

// GetCompletedTasks handles GET /tasks/completed
func (h *TaskHandler) GetCompletedTasks(c *gin.Context) {
	h.respondFixedDone(c, true)
}

// respondFixedDone serves the pending/completed convenience routes,
// which behave like GET /tasks with the done filter pinned.
func (h *TaskHandler) respondFixedDone(c *gin.Context, done bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.Fail("Authentication required"))
		return
	}

	filter, ok := parseTaskFilter(c)
	if !ok {
		return
	}
	filter.Done = &done

	h.respondTasks(c, userID, filter)
}

func (h *TaskHandler) respondTasks(c *gin.Context, userID uuid.UUID, filter models.TaskFilter) {
	tasks, total, err := h.storage.GetTasks(userID, filter)
	if err != nil {
		if err == storage.ErrListNotFound {
			c.JSON(http.StatusNotFound, models.Fail("List not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to retrieve tasks"))
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Tasks retrieved",
		Items:   tasks,
		Total:   &total,
	})
}

// GetTaskByID handles GET /tasks/:taskId
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.Fail("Authentication required"))
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid task ID format"))
		return
	}

	task, err := h.storage.GetTaskByID(userID, taskID)
	if err != nil {
		if err == storage.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, models.Fail("Task not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to retrieve task"))
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Task retrieved",
		Item:    task,
	})
}

// CreateTask handles POST /lists/:listId/items
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.Fail("Authentication required"))
		return
	}

	listID, err := uuid.Parse(c.Param("listId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid list ID format"))
		return
	}

	var req models.CreateTaskRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid request body: "+bindErr.Error()))
		return
	}

	task, err := h.storage.CreateTask(userID, listID, req)
	if err != nil {
		if err == storage.ErrListNotFound {
			c.JSON(http.StatusNotFound, models.Fail("List not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to create task"))
		return
	}

	metrics.TaskCreated()
	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Task created",
		Item:    task,
	})
}

// CompleteTask handles PUT /tasks/:taskId/complete
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.Fail("Authentication required"))
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid task ID format"))
		return
	}

	task, err := h.storage.CompleteTask(userID, taskID)
	if err != nil {
		if err == storage.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, models.Fail("Task not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to complete task"))
		return
	}

	metrics.TaskCompleted()
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Task completed",
		Item:    task,
	})
}

// DeleteTask handles DELETE /tasks/:taskId
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.Fail("Authentication required"))
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid task ID format"))
		return
	}

	if err := h.storage.DeleteTask(userID, taskID); err != nil {
		if err == storage.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, models.Fail("Task not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to delete task"))
		return
	}

	c.JSON(http.StatusOK, models.OK("Task deleted"))
}

// Helper functions for query parameter validation

// parseTaskFilter parses done, priority, list_id, limit and offset query
// parameters. On a validation failure it writes a 400 envelope and
// returns ok=false.
func parseTaskFilter(c *gin.Context) (models.TaskFilter, bool) {
	filter := models.TaskFilter{Limit: 20}

	switch done := c.Query("done"); done {
	case "":
	case "true":
		t := true
		filter.Done = &t
	case "false":
		f := false
		filter.Done = &f
	default:
		c.JSON(http.StatusBadRequest, models.Fail("done must be true or false"))
		return filter, false
	}

	if priorityStr := c.Query("priority"); priorityStr != "" {
		p := models.Priority(priorityStr)
		if !p.IsValid() {
			c.JSON(http.StatusBadRequest, models.Fail("priority must be one of: low, medium, high"))
			return filter, false
		}
		filter.Priority = &p
	}

	if listIDStr := c.Query("list_id"); listIDStr != "" {
		listID, err := uuid.Parse(listIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid list_id format"))
			return filter, false
		}
		filter.ListID = &listID
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, models.Fail("limit must be a positive integer"))
			return filter, false
		}
		if limit > 100 {
			limit = 100
		}
		filter.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, models.Fail("offset must be a non-negative integer"))
			return filter, false
		}
		filter.Offset = offset
	}

	return filter, true
}
