package storage

import (
	"errors"

	"taskboard-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostgresStorage implements storage using PostgreSQL with GORM
type PostgresStorage struct {
	db *gorm.DB
}

// NewPostgresStorage creates a new PostgreSQL storage instance
func NewPostgresStorage(db *gorm.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// CreateList creates a new list for a user
func (s *PostgresStorage) CreateList(userID uuid.UUID, req models.CreateListRequest) (*models.List, error) {
	// Check if list with same name exists for this user
	var existing models.List
	result := s.db.Where("user_id = ? AND name = ?", userID, req.Name).First(&existing)
	if result.Error == nil {
		return nil, ErrListNameExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	list := &models.List{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.db.Create(list).Error; err != nil {
		return nil, err
	}

	list.TaskCount = 0
	return list, nil
}

// GetAllLists retrieves a user's lists with limit/offset paging
func (s *PostgresStorage) GetAllLists(userID uuid.UUID, limit, offset int) ([]models.List, int64, error) {
	var lists []models.List
	var total int64

	if err := s.db.Model(&models.List{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := s.db.Where("user_id = ?", userID).Order("created_at DESC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&lists).Error; err != nil {
		return nil, 0, err
	}

	for i := range lists {
		var count int64
		s.db.Model(&models.Task{}).Where("list_id = ?", lists[i].ID).Count(&count)
		lists[i].TaskCount = int(count)
	}

	return lists, total, nil
}

// GetListByID retrieves a list by ID for a user
func (s *PostgresStorage) GetListByID(userID, listID uuid.UUID) (*models.List, error) {
	list, err := s.findUserList(userID, listID)
	if err != nil {
		return nil, err
	}

	var count int64
	s.db.Model(&models.Task{}).Where("list_id = ?", list.ID).Count(&count)
	list.TaskCount = int(count)

	return list, nil
}

// UpdateList updates an existing list for a user
func (s *PostgresStorage) UpdateList(userID, listID uuid.UUID, req models.UpdateListRequest) (*models.List, error) {
	list, err := s.findUserList(userID, listID)
	if err != nil {
		return nil, err
	}

	// Check if new name conflicts with another of the user's lists
	if req.Name != nil && *req.Name != list.Name {
		var existing models.List
		result := s.db.Where("user_id = ? AND name = ? AND id != ?", userID, *req.Name, listID).First(&existing)
		if result.Error == nil {
			return nil, ErrListNameExists
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, result.Error
		}
		list.Name = *req.Name
	}

	if req.Description != nil {
		list.Description = *req.Description
	}

	if err := s.db.Save(list).Error; err != nil {
		return nil, err
	}

	var count int64
	s.db.Model(&models.Task{}).Where("list_id = ?", list.ID).Count(&count)
	list.TaskCount = int(count)

	return list, nil
}

// DeleteList deletes a list and all its tasks for a user
func (s *PostgresStorage) DeleteList(userID, listID uuid.UUID) error {
	result := s.db.Where("user_id = ?", userID).Delete(&models.List{}, "id = ?", listID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrListNotFound
	}

	// Soft-delete the orphaned tasks as well
	return s.db.Where("list_id = ?", listID).Delete(&models.Task{}).Error
}

// CreateTask creates a new task in a list owned by a user. The position
// is read-then-write (max + 1 among siblings); concurrent creates can
// race, which callers accept as best effort.
func (s *PostgresStorage) CreateTask(userID, listID uuid.UUID, req models.CreateTaskRequest) (*models.Task, error) {
	if _, err := s.findUserList(userID, listID); err != nil {
		return nil, err
	}

	var maxPosition int
	err := s.db.Model(&models.Task{}).
		Where("list_id = ?", listID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPosition).Error
	if err != nil {
		return nil, err
	}

	priority := models.PriorityMedium
	if req.Priority != nil {
		priority = *req.Priority
	}

	task := &models.Task{
		ListID:      listID,
		Name:        req.Name,
		Description: req.Description,
		Priority:    priority,
		Position:    maxPosition + 1,
		Completed:   false,
	}

	if err := s.db.Create(task).Error; err != nil {
		return nil, err
	}

	return task, nil
}

// GetTasks retrieves tasks across the user's lists with filtering and
// limit/offset paging. The returned count is the number of matching
// rows before paging.
func (s *PostgresStorage) GetTasks(userID uuid.UUID, filter models.TaskFilter) ([]models.Task, int64, error) {
	if filter.ListID != nil {
		if _, err := s.findUserList(userID, *filter.ListID); err != nil {
			return nil, 0, err
		}
	}

	// Build the filtered query fresh for count and fetch; gorm chains
	// are not safely reusable across terminal calls.
	filtered := func() *gorm.DB {
		q := s.db.Model(&models.Task{}).
			Joins("JOIN lists ON lists.id = tasks.list_id AND lists.deleted_at IS NULL").
			Where("lists.user_id = ?", userID)

		if filter.ListID != nil {
			q = q.Where("tasks.list_id = ?", *filter.ListID)
		}
		if filter.Priority != nil {
			q = q.Where("tasks.priority = ?", *filter.Priority)
		}
		if filter.Done != nil {
			q = q.Where("tasks.completed = ?", *filter.Done)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := filtered().Order("tasks.position ASC, tasks.created_at ASC").Offset(filter.Offset)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// GetTaskByID retrieves a specific task owned (through its list) by the user
func (s *PostgresStorage) GetTaskByID(userID, taskID uuid.UUID) (*models.Task, error) {
	return s.findUserTask(userID, taskID)
}

// CompleteTask marks a task as completed and stamps the completion time.
// Completing an already-completed task is a no-op.
func (s *PostgresStorage) CompleteTask(userID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.findUserTask(userID, taskID)
	if err != nil {
		return nil, err
	}

	if !task.Completed {
		now := s.db.NowFunc()
		task.Completed = true
		task.CompletedAt = &now

		if err := s.db.Save(task).Error; err != nil {
			return nil, err
		}
	}

	return task, nil
}

// DeleteTask deletes a task owned (through its list) by the user
func (s *PostgresStorage) DeleteTask(userID, taskID uuid.UUID) error {
	if _, err := s.findUserTask(userID, taskID); err != nil {
		return err
	}

	result := s.db.Delete(&models.Task{}, "id = ?", taskID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// findUserList loads a list and verifies ownership
func (s *PostgresStorage) findUserList(userID, listID uuid.UUID) (*models.List, error) {
	var list models.List
	if err := s.db.First(&list, "id = ? AND user_id = ?", listID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	return &list, nil
}

// findUserTask loads a task and verifies the owning list belongs to the user
func (s *PostgresStorage) findUserTask(userID, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := s.db.
		Joins("JOIN lists ON lists.id = tasks.list_id AND lists.deleted_at IS NULL").
		Where("tasks.id = ? AND lists.user_id = ?", taskID, userID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}
