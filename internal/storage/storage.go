package storage

import (
	"errors"
	"sort"
	"sync"
	"time"

	"taskboard-api/internal/models"

	"github.com/google/uuid"
)

var (
	ErrListNotFound   = errors.New("list not found")
	ErrTaskNotFound   = errors.New("task not found")
	ErrListNameExists = errors.New("list with this name already exists")
)

// Storage provides in-memory storage for lists and tasks
type Storage struct {
	mu    sync.RWMutex
	lists map[uuid.UUID]*models.List // maps list ID to list
	tasks map[uuid.UUID]*models.Task // maps task ID to task
}

// NewStorage creates a new in-memory storage instance
func NewStorage() *Storage {
	return &Storage{
		lists: make(map[uuid.UUID]*models.List),
		tasks: make(map[uuid.UUID]*models.Task),
	}
}

// CreateList creates a new list for a specific user
func (s *Storage) CreateList(userID uuid.UUID, req models.CreateListRequest) (*models.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check if list with same name exists for this user
	for _, list := range s.lists {
		if list.UserID == userID && list.Name == req.Name {
			return nil, ErrListNameExists
		}
	}

	now := time.Now()
	list := &models.List{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
		TaskCount:   0,
	}

	s.lists[list.ID] = list
	return list, nil
}

// GetAllLists retrieves all lists for a specific user with limit/offset paging
func (s *Storage) GetAllLists(userID uuid.UUID, limit, offset int) ([]models.List, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allLists := make([]models.List, 0, len(s.lists))
	for _, list := range s.lists {
		if list.UserID == userID {
			listCopy := *list
			listCopy.TaskCount = s.countTasksInList(list.ID)
			allLists = append(allLists, listCopy)
		}
	}

	// Sort by creation date (newest first)
	sort.Slice(allLists, func(i, j int) bool {
		return allLists[i].CreatedAt.After(allLists[j].CreatedAt)
	})

	total := int64(len(allLists))
	paged := pageSlice(allLists, limit, offset)
	return paged, total, nil
}

// GetListByID retrieves a list by ID for a specific user
func (s *Storage) GetListByID(userID, listID uuid.UUID) (*models.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, exists := s.lists[listID]
	if !exists || list.UserID != userID {
		return nil, ErrListNotFound
	}

	listCopy := *list
	listCopy.TaskCount = s.countTasksInList(listID)
	return &listCopy, nil
}

// UpdateList updates an existing list for a specific user
func (s *Storage) UpdateList(userID, listID uuid.UUID, req models.UpdateListRequest) (*models.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, exists := s.lists[listID]
	if !exists || list.UserID != userID {
		return nil, ErrListNotFound
	}

	// Check if new name conflicts with existing list for this user
	if req.Name != nil && *req.Name != list.Name {
		for _, l := range s.lists {
			if l.UserID == userID && l.ID != listID && l.Name == *req.Name {
				return nil, ErrListNameExists
			}
		}
		list.Name = *req.Name
	}

	if req.Description != nil {
		list.Description = *req.Description
	}

	list.UpdatedAt = time.Now()

	listCopy := *list
	listCopy.TaskCount = s.countTasksInList(listID)
	return &listCopy, nil
}

// DeleteList deletes a list and all its tasks for a specific user
func (s *Storage) DeleteList(userID, listID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, exists := s.lists[listID]
	if !exists || list.UserID != userID {
		return ErrListNotFound
	}

	for taskID, task := range s.tasks {
		if task.ListID == listID {
			delete(s.tasks, taskID)
		}
	}

	delete(s.lists, listID)
	return nil
}

// CreateTask creates a new task in a list owned by a specific user.
// The task position is one past the current maximum in the list; the
// whole assignment happens under the write lock.
func (s *Storage) CreateTask(userID, listID uuid.UUID, req models.CreateTaskRequest) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, exists := s.lists[listID]
	if !exists || list.UserID != userID {
		return nil, ErrListNotFound
	}

	maxPosition := 0
	for _, task := range s.tasks {
		if task.ListID == listID && task.Position > maxPosition {
			maxPosition = task.Position
		}
	}

	priority := models.PriorityMedium
	if req.Priority != nil {
		priority = *req.Priority
	}

	now := time.Now()
	task := &models.Task{
		ID:          uuid.New(),
		ListID:      listID,
		Name:        req.Name,
		Description: req.Description,
		Priority:    priority,
		Position:    maxPosition + 1,
		Completed:   false,
		CompletedAt: nil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.tasks[task.ID] = task
	taskCopy := *task
	return &taskCopy, nil
}

// GetTasks retrieves tasks across all lists owned by a specific user,
// applying the filter and returning the matching count before paging.
func (s *Storage) GetTasks(userID uuid.UUID, filter models.TaskFilter) ([]models.Task, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// A list_id filter must point at a list the caller owns
	if filter.ListID != nil {
		list, exists := s.lists[*filter.ListID]
		if !exists || list.UserID != userID {
			return nil, 0, ErrListNotFound
		}
	}

	result := make([]models.Task, 0)
	for _, task := range s.tasks {
		list, exists := s.lists[task.ListID]
		if !exists || list.UserID != userID {
			continue
		}

		if filter.ListID != nil && task.ListID != *filter.ListID {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		if filter.Done != nil && task.Completed != *filter.Done {
			continue
		}

		result = append(result, *task)
	}

	// Stable ordering: position within list, creation time across lists
	sort.Slice(result, func(i, j int) bool {
		if result[i].Position != result[j].Position {
			return result[i].Position < result[j].Position
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	total := int64(len(result))
	paged := pageSlice(result, filter.Limit, filter.Offset)
	return paged, total, nil
}

// GetTaskByID retrieves a specific task from a list owned by a specific user
func (s *Storage) GetTaskByID(userID, taskID uuid.UUID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, err := s.findUserTask(userID, taskID)
	if err != nil {
		return nil, err
	}

	taskCopy := *task
	return &taskCopy, nil
}

// CompleteTask marks a task as completed and stamps the completion time.
// Completing an already-completed task is a no-op.
func (s *Storage) CompleteTask(userID, taskID uuid.UUID) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.findUserTask(userID, taskID)
	if err != nil {
		return nil, err
	}

	if !task.Completed {
		now := time.Now()
		task.Completed = true
		task.CompletedAt = &now
		task.UpdatedAt = now
	}

	taskCopy := *task
	return &taskCopy, nil
}

// DeleteTask deletes a task from a list owned by a specific user
func (s *Storage) DeleteTask(userID, taskID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findUserTask(userID, taskID); err != nil {
		return err
	}

	delete(s.tasks, taskID)
	return nil
}

// findUserTask resolves a task and verifies the owning list belongs to
// the user (must be called with lock held)
func (s *Storage) findUserTask(userID, taskID uuid.UUID) (*models.Task, error) {
	task, exists := s.tasks[taskID]
	if !exists {
		return nil, ErrTaskNotFound
	}

	list, exists := s.lists[task.ListID]
	if !exists || list.UserID != userID {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// countTasksInList counts tasks in a list (must be called with lock held)
func (s *Storage) countTasksInList(listID uuid.UUID) int {
	count := 0
	for _, task := range s.tasks {
		if task.ListID == listID {
			count++
		}
	}
	return count
}

// pageSlice applies limit/offset to a slice. A non-positive limit
// means no limit.
func pageSlice[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset > len(items) {
		offset = len(items)
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
