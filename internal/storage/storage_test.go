package storage

import (
	"fmt"
	"testing"

	"taskboard-api/internal/models"
	"taskboard-api/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUserID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func TestNewStorage(t *testing.T) {
	store := NewStorage()
	assert.NotNil(t, store)
	assert.NotNil(t, store.lists)
	assert.NotNil(t, store.tasks)
}

func TestCreateList(t *testing.T) {
	store := NewStorage()

	t.Run("successfully creates a list", func(t *testing.T) {
		req := models.CreateListRequest{
			Name:        "Work Tasks",
			Description: "Tasks for work",
		}

		list, err := store.CreateList(testUserID, req)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.NotEqual(t, uuid.Nil, list.ID)
		assert.Equal(t, testUserID, list.UserID)
		assert.Equal(t, "Work Tasks", list.Name)
		assert.Equal(t, "Tasks for work", list.Description)
		assert.Equal(t, 0, list.TaskCount)
		assert.False(t, list.CreatedAt.IsZero())
	})

	t.Run("fails when list name already exists", func(t *testing.T) {
		req := models.CreateListRequest{
			Name:        "Duplicate List",
			Description: "First",
		}
		_, err := store.CreateList(testUserID, req)
		require.NoError(t, err)

		// Try to create with same name
		req.Description = "Second"
		_, err = store.CreateList(testUserID, req)
		assert.ErrorIs(t, err, ErrListNameExists)
	})

	t.Run("allows same name for a different user", func(t *testing.T) {
		req := models.CreateListRequest{Name: "Shared Name"}
		_, err := store.CreateList(testUserID, req)
		require.NoError(t, err)

		otherUser := uuid.New()
		list, err := store.CreateList(otherUser, req)
		require.NoError(t, err)
		assert.Equal(t, otherUser, list.UserID)
	})
}

func TestGetAllLists(t *testing.T) {
	store := NewStorage()

	for i := 1; i <= 25; i++ {
		req := models.CreateListRequest{
			Name: fmt.Sprintf("List %02d", i),
		}
		_, err := store.CreateList(testUserID, req)
		require.NoError(t, err)
	}

	t.Run("returns paged lists with total", func(t *testing.T) {
		lists, total, err := store.GetAllLists(testUserID, 10, 0)
		require.NoError(t, err)
		assert.Len(t, lists, 10)
		assert.Equal(t, int64(25), total)
	})

	t.Run("returns remaining items past the last full page", func(t *testing.T) {
		lists, total, err := store.GetAllLists(testUserID, 10, 20)
		require.NoError(t, err)
		assert.Len(t, lists, 5)
		assert.Equal(t, int64(25), total)
	})

	t.Run("offset beyond total returns empty slice", func(t *testing.T) {
		lists, total, err := store.GetAllLists(testUserID, 10, 100)
		require.NoError(t, err)
		assert.Empty(t, lists)
		assert.Equal(t, int64(25), total)
	})

	t.Run("does not return other users' lists", func(t *testing.T) {
		lists, total, err := store.GetAllLists(uuid.New(), 10, 0)
		require.NoError(t, err)
		assert.Empty(t, lists)
		assert.Equal(t, int64(0), total)
	})
}

func TestGetListByID(t *testing.T) {
	store := NewStorage()

	created, err := store.CreateList(testUserID, models.CreateListRequest{Name: "Test List"})
	require.NoError(t, err)

	t.Run("successfully retrieves list", func(t *testing.T) {
		list, err := store.GetListByID(testUserID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, list.ID)
		assert.Equal(t, created.Name, list.Name)
	})

	t.Run("includes task count", func(t *testing.T) {
		_, err := store.CreateTask(testUserID, created.ID, models.CreateTaskRequest{Name: "Task"})
		require.NoError(t, err)

		list, err := store.GetListByID(testUserID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, list.TaskCount)
	})

	t.Run("fails when list not found", func(t *testing.T) {
		_, err := store.GetListByID(testUserID, uuid.New())
		assert.ErrorIs(t, err, ErrListNotFound)
	})

	t.Run("fails for another user's list", func(t *testing.T) {
		_, err := store.GetListByID(uuid.New(), created.ID)
		assert.ErrorIs(t, err, ErrListNotFound)
	})
}

func TestUpdateList(t *testing.T) {
	store := NewStorage()

	created, err := store.CreateList(testUserID, models.CreateListRequest{
		Name:        "Original Name",
		Description: "Original Description",
	})
	require.NoError(t, err)

	t.Run("updates name and description", func(t *testing.T) {
		list, err := store.UpdateList(testUserID, created.ID, models.UpdateListRequest{
			Name:        testutil.StringPtr("New Name"),
			Description: testutil.StringPtr("New Description"),
		})
		require.NoError(t, err)
		assert.Equal(t, "New Name", list.Name)
		assert.Equal(t, "New Description", list.Description)
	})

	t.Run("fails when new name conflicts", func(t *testing.T) {
		_, err := store.CreateList(testUserID, models.CreateListRequest{Name: "Taken"})
		require.NoError(t, err)

		_, err = store.UpdateList(testUserID, created.ID, models.UpdateListRequest{
			Name: testutil.StringPtr("Taken"),
		})
		assert.ErrorIs(t, err, ErrListNameExists)
	})

	t.Run("fails when list not found", func(t *testing.T) {
		_, err := store.UpdateList(testUserID, uuid.New(), models.UpdateListRequest{
			Name: testutil.StringPtr("Whatever"),
		})
		assert.ErrorIs(t, err, ErrListNotFound)
	})
}

func TestDeleteList(t *testing.T) {
	store := NewStorage()

	t.Run("deletes list and its tasks", func(t *testing.T) {
		list, err := store.CreateList(testUserID, models.CreateListRequest{Name: "Doomed"})
		require.NoError(t, err)

		task, err := store.CreateTask(testUserID, list.ID, models.CreateTaskRequest{Name: "Orphan"})
		require.NoError(t, err)

		err = store.DeleteList(testUserID, list.ID)
		require.NoError(t, err)

		_, err = store.GetListByID(testUserID, list.ID)
		assert.ErrorIs(t, err, ErrListNotFound)

		_, err = store.GetTaskByID(testUserID, task.ID)
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	t.Run("fails when list not found", func(t *testing.T) {
		err := store.DeleteList(testUserID, uuid.New())
		assert.ErrorIs(t, err, ErrListNotFound)
	})
}

func TestCreateTask(t *testing.T) {
	store := NewStorage()

	list, err := store.CreateList(testUserID, models.CreateListRequest{Name: "Inbox"})
	require.NoError(t, err)

	t.Run("creates task with defaults", func(t *testing.T) {
		task, err := store.CreateTask(testUserID, list.ID, models.CreateTaskRequest{
			Name:        "Buy milk",
			Description: "Two liters",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, list.ID, task.ListID)
		assert.Equal(t, "Buy milk", task.Name)
		assert.Equal(t, models.PriorityMedium, task.Priority)
		assert.False(t, task.Completed)
		assert.Nil(t, task.CompletedAt)
	})

	t.Run("honors explicit priority", func(t *testing.T) {
		task, err := store.CreateTask(testUserID, list.ID, models.CreateTaskRequest{
			Name:     "Urgent",
			Priority: testutil.PriorityPtr(models.PriorityHigh),
		})
		require.NoError(t, err)
		assert.Equal(t, models.PriorityHigh, task.Priority)
	})

	t.Run("assigns sequential positions within a list", func(t *testing.T) {
		fresh, err := store.CreateList(testUserID, models.CreateListRequest{Name: "Ordered"})
		require.NoError(t, err)

		for i := 1; i <= 3; i++ {
			task, err := store.CreateTask(testUserID, fresh.ID, models.CreateTaskRequest{
				Name: fmt.Sprintf("Task %d", i),
			})
			require.NoError(t, err)
			assert.Equal(t, i, task.Position)
		}
	})

	t.Run("positions are independent across lists", func(t *testing.T) {
		other, err := store.CreateList(testUserID, models.CreateListRequest{Name: "Other"})
		require.NoError(t, err)

		task, err := store.CreateTask(testUserID, other.ID, models.CreateTaskRequest{Name: "First here"})
		require.NoError(t, err)
		assert.Equal(t, 1, task.Position)
	})

	t.Run("fails when list not found", func(t *testing.T) {
		_, err := store.CreateTask(testUserID, uuid.New(), models.CreateTaskRequest{Name: "Lost"})
		assert.ErrorIs(t, err, ErrListNotFound)
	})

	t.Run("fails for another user's list", func(t *testing.T) {
		_, err := store.CreateTask(uuid.New(), list.ID, models.CreateTaskRequest{Name: "Intruder"})
		assert.ErrorIs(t, err, ErrListNotFound)
	})
}

func TestGetTasks(t *testing.T) {
	store := NewStorage()

	workList, err := store.CreateList(testUserID, models.CreateListRequest{Name: "Work"})
	require.NoError(t, err)
	homeList, err := store.CreateList(testUserID, models.CreateListRequest{Name: "Home"})
	require.NoError(t, err)

	_, err = store.CreateTask(testUserID, workList.ID, models.CreateTaskRequest{
		Name:     "Write report",
		Priority: testutil.PriorityPtr(models.PriorityHigh),
	})
	require.NoError(t, err)

	reviewTask, err := store.CreateTask(testUserID, workList.ID, models.CreateTaskRequest{
		Name:     "Review PRs",
		Priority: testutil.PriorityPtr(models.PriorityLow),
	})
	require.NoError(t, err)

	_, err = store.CreateTask(testUserID, homeList.ID, models.CreateTaskRequest{
		Name: "Water plants",
	})
	require.NoError(t, err)

	_, err = store.CompleteTask(testUserID, reviewTask.ID)
	require.NoError(t, err)

	t.Run("returns all tasks across lists", func(t *testing.T) {
		tasks, total, err := store.GetTasks(testUserID, models.TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, tasks, 3)
		assert.Equal(t, int64(3), total)
	})

	t.Run("filters by done status", func(t *testing.T) {
		tasks, total, err := store.GetTasks(testUserID, models.TaskFilter{
			Done: testutil.BoolPtr(true),
		})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Review PRs", tasks[0].Name)
		assert.True(t, tasks[0].Completed)
	})

	t.Run("filters by priority", func(t *testing.T) {
		tasks, _, err := store.GetTasks(testUserID, models.TaskFilter{
			Priority: testutil.PriorityPtr(models.PriorityHigh),
		})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Write report", tasks[0].Name)
	})

	t.Run("filters by list", func(t *testing.T) {
		listID := homeList.ID
		tasks, _, err := store.GetTasks(testUserID, models.TaskFilter{ListID: &listID})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Water plants", tasks[0].Name)
	})

	t.Run("combines filters", func(t *testing.T) {
		listID := workList.ID
		tasks, total, err := store.GetTasks(testUserID, models.TaskFilter{
			ListID: &listID,
			Done:   testutil.BoolPtr(false),
		})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Write report", tasks[0].Name)
	})

	t.Run("orders by position", func(t *testing.T) {
		listID := workList.ID
		tasks, _, err := store.GetTasks(testUserID, models.TaskFilter{ListID: &listID})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.LessOrEqual(t, tasks[0].Position, tasks[1].Position)
	})

	t.Run("applies limit and offset with total before paging", func(t *testing.T) {
		tasks, total, err := store.GetTasks(testUserID, models.TaskFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
		assert.Equal(t, int64(3), total)
	})

	t.Run("fails when filtering by a list the user does not own", func(t *testing.T) {
		listID := workList.ID
		_, _, err := store.GetTasks(uuid.New(), models.TaskFilter{ListID: &listID})
		assert.ErrorIs(t, err, ErrListNotFound)
	})

	t.Run("does not return other users' tasks", func(t *testing.T) {
		tasks, total, err := store.GetTasks(uuid.New(), models.TaskFilter{})
		require.NoError(t, err)
		assert.Empty(t, tasks)
		assert.Equal(t, int64(0), total)
	})
}

func TestGetTaskByID(t *testing.T) {
	store := NewStorage()

	list, err := store.CreateList(testUserID, models.CreateListRequest{Name: "Inbox"})
	require.NoError(t, err)
	task, err := store.CreateTask(testUserID, list.ID, models.CreateTaskRequest{Name: "Find me"})
	require.NoError(t, err)

	t.Run("successfully retrieves task", func(t *testing.T) {
		got, err := store.GetTaskByID(testUserID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
		assert.Equal(t, "Find me", got.Name)
	})

	t.Run("fails when task not found", func(t *testing.T) {
		_, err := store.GetTaskByID(testUserID, uuid.New())
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	t.Run("fails for another user's task", func(t *testing.T) {
		_, err := store.GetTaskByID(uuid.New(), task.ID)
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestCompleteTask(t *testing.T) {
	store := NewStorage()

	list, err := store.CreateList(testUserID, models.CreateListRequest{Name: "Inbox"})
	require.NoError(t, err)
	task, err := store.CreateTask(testUserID, list.ID, models.CreateTaskRequest{Name: "Finish"})
	require.NoError(t, err)

	t.Run("marks task completed with timestamp", func(t *testing.T) {
		completed, err := store.CompleteTask(testUserID, task.ID)
		require.NoError(t, err)
		assert.True(t, completed.Completed)
		require.NotNil(t, completed.CompletedAt)
	})

	t.Run("completing again keeps original timestamp", func(t *testing.T) {
		first, err := store.GetTaskByID(testUserID, task.ID)
		require.NoError(t, err)
		require.NotNil(t, first.CompletedAt)

		again, err := store.CompleteTask(testUserID, task.ID)
		require.NoError(t, err)
		assert.True(t, again.Completed)
		assert.Equal(t, *first.CompletedAt, *again.CompletedAt)
	})

	t.Run("fails when task not found", func(t *testing.T) {
		_, err := store.CompleteTask(testUserID, uuid.New())
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestDeleteTask(t *testing.T) {
	store := NewStorage()

	list, err := store.CreateList(testUserID, models.CreateListRequest{Name: "Inbox"})
	require.NoError(t, err)
	task, err := store.CreateTask(testUserID, list.ID, models.CreateTaskRequest{Name: "Remove me"})
	require.NoError(t, err)

	t.Run("fails for another user's task", func(t *testing.T) {
		err := store.DeleteTask(uuid.New(), task.ID)
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	t.Run("successfully deletes task", func(t *testing.T) {
		err := store.DeleteTask(testUserID, task.ID)
		require.NoError(t, err)

		_, err = store.GetTaskByID(testUserID, task.ID)
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	t.Run("fails when task not found", func(t *testing.T) {
		err := store.DeleteTask(testUserID, uuid.New())
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}
