package taskservice_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpad/backend/tasksvc"
	taskgorm "github.com/taskpad/backend/tasksvc/db/gorm"
	"github.com/taskpad/backend/tasksvc/pkg/taskservice"
	"gorm.io/driver/sqlite"
	stdgorm "gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ana  = tasksvc.Auth{UserID: "user-ana", Email: "ana@x.com"}
	bob  = tasksvc.Auth{UserID: "user-bob", Email: "bob@x.com"}
	none = tasksvc.Auth{}
)

func newTestService(t *testing.T) taskservice.Service {
	t.Helper()

	db, err := stdgorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "test.db")),
		&stdgorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tasksvc.Task{}))

	return taskservice.NewBasicService(taskgorm.NewTaskRepository(db))
}

func validTask(title string) tasksvc.Task {
	return tasksvc.Task{
		Title:     title,
		Status:    tasksvc.StatusPending,
		Priority:  tasksvc.PriorityHigh,
		DueDate:   tasksvc.NewDate(2025, time.January, 10),
		StartDate: tasksvc.NewDate(2025, time.January, 1),
	}
}

func TestCreateTask(t *testing.T) {
	svc := newTestService(t)

	task, err := svc.CreateTask(context.Background(), ana, validTask("Buy milk"))

	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, ana.UserID, task.UserID)
}

func TestCreateTaskIgnoresBodyOwner(t *testing.T) {
	svc := newTestService(t)

	spoofed := validTask("Buy milk")
	spoofed.UserID = bob.UserID

	task, err := svc.CreateTask(context.Background(), ana, spoofed)

	require.NoError(t, err)
	assert.Equal(t, ana.UserID, task.UserID)
}

func TestCreateTaskValidation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name   string
		auth   tasksvc.Auth
		mutate func(*tasksvc.Task)
	}{
		{name: "missing owner", auth: none, mutate: func(*tasksvc.Task) {}},
		{name: "empty title", auth: ana, mutate: func(task *tasksvc.Task) { task.Title = "" }},
		{name: "bad status", auth: ana, mutate: func(task *tasksvc.Task) { task.Status = "DONE" }},
		{name: "bad priority", auth: ana, mutate: func(task *tasksvc.Task) { task.Priority = "HIGH" }},
		{name: "zero due date", auth: ana, mutate: func(task *tasksvc.Task) { task.DueDate = tasksvc.Date{} }},
		{name: "zero start date", auth: ana, mutate: func(task *tasksvc.Task) { task.StartDate = tasksvc.Date{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask("Buy milk")
			tt.mutate(&task)

			_, err := svc.CreateTask(context.Background(), tt.auth, task)
			assert.Equal(t, tasksvc.ErrInvalidArgument, err)
		})
	}
}

func TestTasksPagination(t *testing.T) {
	svc := newTestService(t)

	for i := 0; i < 25; i++ {
		_, err := svc.CreateTask(context.Background(), ana, validTask(fmt.Sprintf("task %02d", i)))
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	seen := map[string]bool{}
	var pages [][]tasksvc.Task
	for page := 1; page <= 3; page++ {
		tasks, total, err := svc.Tasks(context.Background(), ana, page, 10, tasksvc.Filter{})
		require.NoError(t, err)
		assert.EqualValues(t, 25, total)
		pages = append(pages, tasks)

		// Pages never overlap.
		for _, task := range tasks {
			assert.False(t, seen[task.ID])
			seen[task.ID] = true
		}
	}

	// The union of the pages is the whole set, newest first.
	assert.Len(t, seen, 25)
	assert.Len(t, pages[0], 10)
	assert.Len(t, pages[2], 5)
	assert.Equal(t, "task 24", pages[0][0].Title)
	assert.Equal(t, "task 00", pages[2][4].Title)
}

func TestTasksRejectsBadPaging(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Tasks(context.Background(), ana, 0, 10, tasksvc.Filter{})
	assert.Equal(t, tasksvc.ErrInvalidArgument, err)

	_, _, err = svc.Tasks(context.Background(), ana, 1, 0, tasksvc.Filter{})
	assert.Equal(t, tasksvc.ErrInvalidArgument, err)
}

func TestTasksEmptyResult(t *testing.T) {
	svc := newTestService(t)

	tasks, total, err := svc.Tasks(context.Background(), ana, 1, 10, tasksvc.Filter{})

	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, tasks)
}

func TestUpdateTaskIsIdempotent(t *testing.T) {
	svc := newTestService(t)

	task, err := svc.CreateTask(context.Background(), ana, validTask("Buy milk"))
	require.NoError(t, err)

	title := "Buy oat milk"
	status := tasksvc.StatusDone
	patch := tasksvc.Patch{Title: &title, Status: &status}

	first, err := svc.UpdateTask(context.Background(), ana, task.ID, patch)
	require.NoError(t, err)

	second, err := svc.UpdateTask(context.Background(), ana, task.ID, patch)
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Priority, second.Priority)

	tasks, _, err := svc.Tasks(context.Background(), ana, 1, 10, tasksvc.Filter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy oat milk", tasks[0].Title)
	assert.Equal(t, tasksvc.StatusDone, tasks[0].Status)
}

func TestUpdateTaskOfAnotherOwner(t *testing.T) {
	svc := newTestService(t)

	task, err := svc.CreateTask(context.Background(), ana, validTask("Buy milk"))
	require.NoError(t, err)

	title := "hijacked"
	_, err = svc.UpdateTask(context.Background(), bob, task.ID, tasksvc.Patch{Title: &title})
	assert.Equal(t, tasksvc.ErrTaskNotFound, err)

	// Ana's task is untouched.
	kept, _, err := svc.Tasks(context.Background(), ana, 1, 10, tasksvc.Filter{})
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "Buy milk", kept[0].Title)
}

func TestUpdateTaskValidation(t *testing.T) {
	svc := newTestService(t)

	task, err := svc.CreateTask(context.Background(), ana, validTask("Buy milk"))
	require.NoError(t, err)

	empty := ""
	_, err = svc.UpdateTask(context.Background(), ana, task.ID, tasksvc.Patch{Title: &empty})
	assert.Equal(t, tasksvc.ErrInvalidArgument, err)

	bad := tasksvc.Status("DONE")
	_, err = svc.UpdateTask(context.Background(), ana, task.ID, tasksvc.Patch{Status: &bad})
	assert.Equal(t, tasksvc.ErrInvalidArgument, err)
}

func TestCompleteTask(t *testing.T) {
	svc := newTestService(t)

	task, err := svc.CreateTask(context.Background(), ana, validTask("Buy milk"))
	require.NoError(t, err)

	done, err := svc.CompleteTask(context.Background(), ana, task.ID)

	require.NoError(t, err)
	assert.Equal(t, tasksvc.StatusDone, done.Status)
	assert.Equal(t, "Buy milk", done.Title)
}

func TestDeleteTaskThenUpdate(t *testing.T) {
	svc := newTestService(t)

	task, err := svc.CreateTask(context.Background(), ana, validTask("Buy milk"))
	require.NoError(t, err)

	ok, err := svc.DeleteTask(context.Background(), ana, task.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	title := "too late"
	_, err = svc.UpdateTask(context.Background(), ana, task.ID, tasksvc.Patch{Title: &title})
	assert.Equal(t, tasksvc.ErrTaskNotFound, err)

	_, err = svc.DeleteTask(context.Background(), ana, task.ID)
	assert.Equal(t, tasksvc.ErrTaskNotFound, err)
}
