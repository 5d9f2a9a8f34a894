package gorm_test

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpad/backend/tasksvc"
	taskgorm "github.com/taskpad/backend/tasksvc/db/gorm"
	"gorm.io/driver/sqlite"
	stdgorm "gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) tasksvc.TaskRepository {
	t.Helper()

	db, err := stdgorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "test.db")),
		&stdgorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tasksvc.Task{}))

	return taskgorm.NewTaskRepository(db)
}

func newTask(title, userID string) tasksvc.Task {
	return tasksvc.Task{
		Title:     title,
		Status:    tasksvc.StatusPending,
		Priority:  tasksvc.PriorityMedium,
		DueDate:   tasksvc.NewDate(2025, time.January, 10),
		StartDate: tasksvc.NewDate(2025, time.January, 1),
		UserID:    userID,
	}
}

func TestCreateAssignsID(t *testing.T) {
	repo := newTestRepository(t)

	task, err := repo.Create(newTask("Buy milk", "owner-1"))

	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestFindIsScopedToOwner(t *testing.T) {
	repo := newTestRepository(t)

	task, err := repo.Create(newTask("Buy milk", "owner-1"))
	require.NoError(t, err)

	found, err := repo.Find("owner-1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, found.ID)

	_, err = repo.Find("owner-2", task.ID)
	assert.Equal(t, tasksvc.ErrTaskNotFound, err)
}

func TestUpdateAppliesOnlyPatchedFields(t *testing.T) {
	repo := newTestRepository(t)

	task, err := repo.Create(newTask("Buy milk", "owner-1"))
	require.NoError(t, err)

	status := tasksvc.StatusDone
	updated, err := repo.Update("owner-1", task.ID, tasksvc.Patch{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, tasksvc.StatusDone, updated.Status)
	assert.Equal(t, "Buy milk", updated.Title)
	assert.Equal(t, tasksvc.PriorityMedium, updated.Priority)
}

func TestUpdateUnknownTask(t *testing.T) {
	repo := newTestRepository(t)

	title := "anything"
	_, err := repo.Update("owner-1", "no-such-id", tasksvc.Patch{Title: &title})

	assert.Equal(t, tasksvc.ErrTaskNotFound, err)
}

func TestDelete(t *testing.T) {
	repo := newTestRepository(t)

	task, err := repo.Create(newTask("Buy milk", "owner-1"))
	require.NoError(t, err)

	_, err = repo.Delete("owner-2", task.ID)
	assert.Equal(t, tasksvc.ErrTaskNotFound, err)

	ok, err := repo.Delete("owner-1", task.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Delete("owner-1", task.ID)
	assert.Equal(t, tasksvc.ErrTaskNotFound, err)
}

func TestFindAllPaginatesNewestFirst(t *testing.T) {
	repo := newTestRepository(t)

	base := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		task := newTask(fmt.Sprintf("task %02d", i), "owner-1")
		task.CreatedAt = base.Add(time.Duration(i) * time.Second)
		_, err := repo.Create(task)
		require.NoError(t, err)
	}
	_, err := repo.Create(newTask("someone else's", "owner-2"))
	require.NoError(t, err)

	page1, total, err := repo.FindAll("owner-1", 1, 10, tasksvc.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	require.Len(t, page1, 10)
	assert.Equal(t, "task 24", page1[0].Title)

	page3, total, err := repo.FindAll("owner-1", 3, 10, tasksvc.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	require.Len(t, page3, 5)
	assert.Equal(t, "task 00", page3[4].Title)
}

func TestFindAllEmptyPage(t *testing.T) {
	repo := newTestRepository(t)

	tasks, total, err := repo.FindAll("owner-1", 1, 10, tasksvc.Filter{})

	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, tasks)
}

func TestFindAllFilters(t *testing.T) {
	repo := newTestRepository(t)

	pending := newTask("pending one", "owner-1")
	_, err := repo.Create(pending)
	require.NoError(t, err)

	done := newTask("done one", "owner-1")
	done.Status = tasksvc.StatusDone
	done.Priority = tasksvc.PriorityUrgent
	_, err = repo.Create(done)
	require.NoError(t, err)

	status := tasksvc.StatusDone
	tasks, total, err := repo.FindAll("owner-1", 1, 10, tasksvc.Filter{Status: &status})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "done one", tasks[0].Title)

	priority := tasksvc.PriorityLow
	tasks, total, err = repo.FindAll("owner-1", 1, 10, tasksvc.Filter{Priority: &priority})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, tasks)
}
