package taskendpoint

import (
	"context"

	stdjwt "github.com/dgrijalva/jwt-go"
	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/taskpad/backend/tasksvc"
	"github.com/taskpad/backend/tasksvc/pkg/taskservice"
)

type Set struct {
	CreateTaskEndpoint   endpoint.Endpoint
	TasksEndpoint        endpoint.Endpoint
	UpdateTaskEndpoint   endpoint.Endpoint
	CompleteTaskEndpoint endpoint.Endpoint
	DeleteTaskEndpoint   endpoint.Endpoint
}

func New(svc taskservice.Service, logger log.Logger) Set {
	var createTaskEndpoint endpoint.Endpoint
	{
		createTaskEndpoint = MakeCreateTaskEndpoint(svc)
		createTaskEndpoint = LoggingMiddleware(log.With(logger, "method", "CreateTask"))(createTaskEndpoint)
	}

	var tasksEndpoint endpoint.Endpoint
	{
		tasksEndpoint = MakeTasksEndpoint(svc)
		tasksEndpoint = LoggingMiddleware(log.With(logger, "method", "Tasks"))(tasksEndpoint)
	}

	var updateTaskEndpoint endpoint.Endpoint
	{
		updateTaskEndpoint = MakeUpdateTaskEndpoint(svc)
		updateTaskEndpoint = LoggingMiddleware(log.With(logger, "method", "UpdateTask"))(updateTaskEndpoint)
	}

	var completeTaskEndpoint endpoint.Endpoint
	{
		completeTaskEndpoint = MakeCompleteTaskEndpoint(svc)
		completeTaskEndpoint = LoggingMiddleware(log.With(logger, "method", "CompleteTask"))(completeTaskEndpoint)
	}

	var deleteTaskEndpoint endpoint.Endpoint
	{
		deleteTaskEndpoint = MakeDeleteTaskEndpoint(svc)
		deleteTaskEndpoint = LoggingMiddleware(log.With(logger, "method", "DeleteTask"))(deleteTaskEndpoint)
	}

	return Set{
		CreateTaskEndpoint:   createTaskEndpoint,
		TasksEndpoint:        tasksEndpoint,
		UpdateTaskEndpoint:   updateTaskEndpoint,
		CompleteTaskEndpoint: completeTaskEndpoint,
		DeleteTaskEndpoint:   deleteTaskEndpoint,
	}
}

func MakeCreateTaskEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		auth, err := claims(ctx)
		if err != nil {
			return TaskResponse{Err: err}, nil
		}

		req := request.(CreateTaskRequest)
		t, err := s.CreateTask(ctx, auth, tasksvc.Task{
			Title:       req.Title,
			Description: req.Description,
			Status:      req.Status,
			Priority:    req.Priority,
			DueDate:     req.DueDate,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
		})
		return TaskResponse{Task: t, Err: err}, nil
	}
}

func MakeTasksEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		auth, err := claims(ctx)
		if err != nil {
			return TasksResponse{Err: err}, nil
		}

		req := request.(TasksRequest)
		t, total, err := s.Tasks(ctx, auth, req.Page, req.PageSize, req.Filter)
		return TasksResponse{Tasks: t, Total: total, Err: err}, nil
	}
}

func MakeUpdateTaskEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		auth, err := claims(ctx)
		if err != nil {
			return TaskResponse{Err: err}, nil
		}

		req := request.(UpdateTaskRequest)
		t, err := s.UpdateTask(ctx, auth, req.TaskID, req.Patch)
		return TaskResponse{Task: t, Err: err}, nil
	}
}

func MakeCompleteTaskEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		auth, err := claims(ctx)
		if err != nil {
			return TaskResponse{Err: err}, nil
		}

		req := request.(CompleteTaskRequest)
		t, err := s.CompleteTask(ctx, auth, req.TaskID)
		return TaskResponse{Task: t, Err: err}, nil
	}
}

func MakeDeleteTaskEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		auth, err := claims(ctx)
		if err != nil {
			return DeleteTaskResponse{Err: err}, nil
		}

		req := request.(DeleteTaskRequest)
		ok, err := s.DeleteTask(ctx, auth, req.TaskID)

		var message string
		if ok {
			message = tasksvc.TaskDeletedMessage
		}
		return DeleteTaskResponse{Message: message, Err: err}, nil
	}
}

func claims(ctx context.Context) (tasksvc.Auth, error) {
	claims, ok := ctx.Value(kitjwt.JWTClaimsContextKey).(stdjwt.MapClaims)
	if !ok {
		return tasksvc.Auth{}, tasksvc.ErrClaimsMissing
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return tasksvc.Auth{}, tasksvc.ErrClaimsInvalid
	}

	email, ok := claims["email"].(string)
	if !ok {
		return tasksvc.Auth{}, tasksvc.ErrClaimsInvalid
	}

	return tasksvc.Auth{UserID: sub, Email: email}, nil
}

var (
	_ endpoint.Failer = TaskResponse{}
	_ endpoint.Failer = TasksResponse{}
	_ endpoint.Failer = DeleteTaskResponse{}
)

type CreateTaskRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      tasksvc.Status   `json:"status"`
	Priority    tasksvc.Priority `json:"priority"`
	DueDate     tasksvc.Date     `json:"dueDate"`
	StartDate   tasksvc.Date     `json:"startDate"`
	EndDate     *tasksvc.Date    `json:"endDate"`
}

type TasksRequest struct {
	Page     int
	PageSize int
	Filter   tasksvc.Filter
}

type UpdateTaskRequest struct {
	TaskID string
	Patch  tasksvc.Patch
}

type CompleteTaskRequest struct {
	TaskID string
}

type DeleteTaskRequest struct {
	TaskID string
}

// TaskResponse serializes as the bare task object.
type TaskResponse struct {
	tasksvc.Task
	Err error `json:"-"`
}

func (r TaskResponse) Failed() error { return r.Err }

type TasksResponse struct {
	Tasks []tasksvc.Task `json:"tasks"`
	Total int64          `json:"total"`
	Err   error          `json:"-"`
}

func (r TasksResponse) Failed() error { return r.Err }

type DeleteTaskResponse struct {
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (r DeleteTaskResponse) Failed() error { return r.Err }
