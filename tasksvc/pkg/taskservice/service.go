package taskservice

import (
	"context"

	"github.com/go-kit/kit/log"
	"github.com/taskpad/backend/tasksvc"
)

type Service interface {
	CreateTask(ctx context.Context, a tasksvc.Auth, task tasksvc.Task) (tasksvc.Task, error)
	Tasks(ctx context.Context, a tasksvc.Auth, page, pageSize int, filter tasksvc.Filter) ([]tasksvc.Task, int64, error)
	UpdateTask(ctx context.Context, a tasksvc.Auth, taskID string, patch tasksvc.Patch) (tasksvc.Task, error)
	CompleteTask(ctx context.Context, a tasksvc.Auth, taskID string) (tasksvc.Task, error)
	DeleteTask(ctx context.Context, a tasksvc.Auth, taskID string) (bool, error)
}

func New(t tasksvc.TaskRepository, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(t)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	tasks tasksvc.TaskRepository
}

func NewBasicService(t tasksvc.TaskRepository) Service {
	return basicService{tasks: t}
}

func (s basicService) CreateTask(_ context.Context, a tasksvc.Auth, task tasksvc.Task) (tasksvc.Task, error) {
	if a.UserID == "" || task.Title == "" {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}
	if !task.Status.Valid() || !task.Priority.Valid() {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}
	if task.DueDate.IsZero() || task.StartDate.IsZero() {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}

	// The owner always comes from the verified token, never from the body.
	task.ID = ""
	task.UserID = a.UserID

	return s.tasks.Create(task)
}

func (s basicService) Tasks(_ context.Context, a tasksvc.Auth, page, pageSize int, filter tasksvc.Filter) ([]tasksvc.Task, int64, error) {
	if a.UserID == "" || page < 1 || pageSize < 1 {
		return nil, 0, tasksvc.ErrInvalidArgument
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, tasksvc.ErrInvalidArgument
	}
	if filter.Priority != nil && !filter.Priority.Valid() {
		return nil, 0, tasksvc.ErrInvalidArgument
	}

	return s.tasks.FindAll(a.UserID, page, pageSize, filter)
}

func (s basicService) UpdateTask(_ context.Context, a tasksvc.Auth, taskID string, patch tasksvc.Patch) (tasksvc.Task, error) {
	if a.UserID == "" || taskID == "" {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}
	if patch.Title != nil && *patch.Title == "" {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return tasksvc.Task{}, tasksvc.ErrInvalidArgument
	}

	return s.tasks.Update(a.UserID, taskID, patch)
}

func (s basicService) CompleteTask(ctx context.Context, a tasksvc.Auth, taskID string) (tasksvc.Task, error) {
	done := tasksvc.StatusDone
	return s.UpdateTask(ctx, a, taskID, tasksvc.Patch{Status: &done})
}

func (s basicService) DeleteTask(_ context.Context, a tasksvc.Auth, taskID string) (bool, error) {
	if a.UserID == "" || taskID == "" {
		return false, tasksvc.ErrInvalidArgument
	}
	return s.tasks.Delete(a.UserID, taskID)
}
