package storage

import (
	"taskboard-api/internal/models"

	"github.com/google/uuid"
)

// Store defines the interface for storage operations
type Store interface {
	// List operations
	CreateList(userID uuid.UUID, req models.CreateListRequest) (*models.List, error)
	GetAllLists(userID uuid.UUID, limit, offset int) ([]models.List, int64, error)
	GetListByID(userID, listID uuid.UUID) (*models.List, error)
	UpdateList(userID, listID uuid.UUID, req models.UpdateListRequest) (*models.List, error)
	DeleteList(userID, listID uuid.UUID) error

	// Task operations
	CreateTask(userID, listID uuid.UUID, req models.CreateTaskRequest) (*models.Task, error)
	GetTasks(userID uuid.UUID, filter models.TaskFilter) ([]models.Task, int64, error)
	GetTaskByID(userID, taskID uuid.UUID) (*models.Task, error)
	CompleteTask(userID, taskID uuid.UUID) (*models.Task, error)
	DeleteTask(userID, taskID uuid.UUID) error
}
