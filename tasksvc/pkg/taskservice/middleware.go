package taskservice

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
	"github.com/taskpad/backend/tasksvc"
)

type Middleware func(Service) Service

func LoggingMiddleware(logger log.Logger) Middleware {
	return func(next Service) Service {
		return loggingMiddleware{logger, next}
	}
}

type loggingMiddleware struct {
	logger log.Logger
	next   Service
}

func (mw loggingMiddleware) CreateTask(ctx context.Context, a tasksvc.Auth, task tasksvc.Task) (t tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "CreateTask",
			"user_id", a.UserID,
			"title", task.Title,
			"err", err,
		)
	}()
	return mw.next.CreateTask(ctx, a, task)
}

func (mw loggingMiddleware) Tasks(ctx context.Context, a tasksvc.Auth, page, pageSize int, filter tasksvc.Filter) (t []tasksvc.Task, total int64, err error) {
	defer func() {
		mw.logger.Log(
			"method", "Tasks",
			"user_id", a.UserID,
			"page", page,
			"page_size", pageSize,
			"total", total,
			"err", err,
		)
	}()
	return mw.next.Tasks(ctx, a, page, pageSize, filter)
}

func (mw loggingMiddleware) UpdateTask(ctx context.Context, a tasksvc.Auth, taskID string, patch tasksvc.Patch) (t tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "UpdateTask",
			"user_id", a.UserID,
			"task_id", taskID,
			"err", err,
		)
	}()
	return mw.next.UpdateTask(ctx, a, taskID, patch)
}

func (mw loggingMiddleware) CompleteTask(ctx context.Context, a tasksvc.Auth, taskID string) (t tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "CompleteTask",
			"user_id", a.UserID,
			"task_id", taskID,
			"err", err,
		)
	}()
	return mw.next.CompleteTask(ctx, a, taskID)
}

func (mw loggingMiddleware) DeleteTask(ctx context.Context, a tasksvc.Auth, taskID string) (result bool, err error) {
	defer func() {
		mw.logger.Log(
			"method", "DeleteTask",
			"user_id", a.UserID,
			"task_id", taskID,
			"result", result,
			"err", err,
		)
	}()
	return mw.next.DeleteTask(ctx, a, taskID)
}

func InstrumentingMiddleware(counter metrics.Counter, latency metrics.Histogram) Middleware {
	return func(next Service) Service {
		return instrumentingMiddleware{counter, latency, next}
	}
}

type instrumentingMiddleware struct {
	requestCount   metrics.Counter
	requestLatency metrics.Histogram
	next           Service
}

func (mw instrumentingMiddleware) CreateTask(ctx context.Context, a tasksvc.Auth, task tasksvc.Task) (t tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "create_task").Add(1)
		mw.requestLatency.With("method", "create_task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.CreateTask(ctx, a, task)
}

func (mw instrumentingMiddleware) Tasks(ctx context.Context, a tasksvc.Auth, page, pageSize int, filter tasksvc.Filter) (t []tasksvc.Task, total int64, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "tasks").Add(1)
		mw.requestLatency.With("method", "tasks").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.Tasks(ctx, a, page, pageSize, filter)
}

func (mw instrumentingMiddleware) UpdateTask(ctx context.Context, a tasksvc.Auth, taskID string, patch tasksvc.Patch) (t tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "update_task").Add(1)
		mw.requestLatency.With("method", "update_task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.UpdateTask(ctx, a, taskID, patch)
}

func (mw instrumentingMiddleware) CompleteTask(ctx context.Context, a tasksvc.Auth, taskID string) (t tasksvc.Task, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "complete_task").Add(1)
		mw.requestLatency.With("method", "complete_task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.CompleteTask(ctx, a, taskID)
}

func (mw instrumentingMiddleware) DeleteTask(ctx context.Context, a tasksvc.Auth, taskID string) (result bool, err error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "delete_task").Add(1)
		mw.requestLatency.With("method", "delete_task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.DeleteTask(ctx, a, taskID)
}
