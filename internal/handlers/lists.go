package handlers

import (
	"net/http"
	"strconv"

	"taskboard-api/internal/middleware"
	"taskboard-api/internal/models"
	"taskboard-api/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListHandler handles list operations
type ListHandler struct {
	storage storage.Store
}

// NewListHandler creates a new list handler
func NewListHandler(store storage.Store) *ListHandler {
	return &ListHandler{storage: store}
}

// GetAllLists handles GET /lists
func (h *ListHandler) GetAllLists(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.Fail("Authentication required"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	lists, total, err := h.storage.GetAllLists(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to retrieve lists"))
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Lists retrieved",
		Items:   lists,
		Total:   &total,
	})
}

// CreateList handles POST /lists
func (h *ListHandler) CreateList(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.Fail("Authentication required"))
		return
	}

	var req models.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid request body: "+err.Error()))
		return
	}

	list, err := h.storage.CreateList(userID, req)
	if err != nil {
		if err == storage.ErrListNameExists {
			c.JSON(http.StatusConflict, models.Fail("A list with this name already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to create list"))
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "List created",
		Item:    list,
	})
}

// GetListByID handles GET /lists/:listId
func (h *ListHandler) GetListByID(c *gin.Context) {
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

	list, err := h.storage.GetListByID(userID, listID)
	if err != nil {
		if err == storage.ErrListNotFound {
			c.JSON(http.StatusNotFound, models.Fail("List not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to retrieve list"))
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "List retrieved",
		Item:    list,
	})
}

// UpdateList handles PUT /lists/:listId
func (h *ListHandler) UpdateList(c *gin.Context) {
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

	var req models.UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid request body: "+err.Error()))
		return
	}

	list, err := h.storage.UpdateList(userID, listID, req)
	if err != nil {
		if err == storage.ErrListNotFound {
			c.JSON(http.StatusNotFound, models.Fail("List not found"))
			return
		}
		if err == storage.ErrListNameExists {
			c.JSON(http.StatusConflict, models.Fail("A list with this name already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to update list"))
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "List updated",
		Item:    list,
	})
}

// DeleteList handles DELETE /lists/:listId
func (h *ListHandler) DeleteList(c *gin.Context) {
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

	if err := h.storage.DeleteList(userID, listID); err != nil {
		if err == storage.ErrListNotFound {
			c.JSON(http.StatusNotFound, models.Fail("List not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to delete list"))
		return
	}

	c.JSON(http.StatusOK, models.OK("List deleted"))
}
