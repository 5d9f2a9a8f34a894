package tasktransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	stdjwt "github.com/dgrijalva/jwt-go"
	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/circuitbreaker"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/ratelimit"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
	"github.com/taskpad/backend/authsvc"
	"github.com/taskpad/backend/tasksvc"
	"github.com/taskpad/backend/tasksvc/pkg/taskendpoint"
	"golang.org/x/time/rate"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

func NewHTTPHandler(endpoints taskendpoint.Set, logger log.Logger) http.Handler {
	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(errorEncoder),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
	}

	kf := func(token *stdjwt.Token) (interface{}, error) {
		return []byte(authsvc.JWTSecret()), nil
	}

	limiter := ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Every(time.Second), 100))

	guard := func(name string, e endpoint.Endpoint) endpoint.Endpoint {
		e = limiter(e)
		e = circuitbreaker.Gobreaker(gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    name,
			Timeout: 30 * time.Second,
		}))(e)
		e = kitjwt.NewParser(kf, stdjwt.SigningMethodHS256, kitjwt.MapClaimsFactory)(e)
		return e
	}

	createTaskHandler := httptransport.NewServer(
		guard("CreateTask", endpoints.CreateTaskEndpoint),
		decodeHTTPCreateTaskRequest,
		encodeHTTPCreateTaskResponse,
		append(options, httptransport.ServerBefore(kitjwt.HTTPToContext()))...,
	)

	tasksHandler := httptransport.NewServer(
		guard("Tasks", endpoints.TasksEndpoint),
		decodeHTTPTasksRequest,
		encodeHTTPGenericResponse,
		append(options, httptransport.ServerBefore(kitjwt.HTTPToContext()))...,
	)

	updateTaskHandler := httptransport.NewServer(
		guard("UpdateTask", endpoints.UpdateTaskEndpoint),
		decodeHTTPUpdateTaskRequest,
		encodeHTTPGenericResponse,
		append(options, httptransport.ServerBefore(kitjwt.HTTPToContext()))...,
	)

	completeTaskHandler := httptransport.NewServer(
		guard("CompleteTask", endpoints.CompleteTaskEndpoint),
		decodeHTTPCompleteTaskRequest,
		encodeHTTPGenericResponse,
		append(options, httptransport.ServerBefore(kitjwt.HTTPToContext()))...,
	)

	deleteTaskHandler := httptransport.NewServer(
		guard("DeleteTask", endpoints.DeleteTaskEndpoint),
		decodeHTTPDeleteTaskRequest,
		encodeHTTPGenericResponse,
		append(options, httptransport.ServerBefore(kitjwt.HTTPToContext()))...,
	)

	r := mux.NewRouter()

	r.Methods("POST").Path("/tasks").Handler(createTaskHandler)
	r.Methods("GET").Path("/tasks").Handler(tasksHandler)
	r.Methods("PATCH").Path("/tasks/{task_id}/complete").Handler(completeTaskHandler)
	r.Methods("PATCH").Path("/tasks/{task_id}").Handler(updateTaskHandler)
	r.Methods("DELETE").Path("/tasks/{task_id}").Handler(deleteTaskHandler)
	r.Methods("GET").Path("/metrics").Handler(promhttp.Handler())

	return r
}

func errorEncoder(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(err2code(err))
	json.NewEncoder(w).Encode(errorWrapper{Error: err.Error()})
}

type errorWrapper struct {
	Error string `json:"error"`
}

func err2code(err error) int {
	// Any token problem surfaces as a plain 401 with no hint about whether
	// the token was missing, malformed, forged or expired.
	if _, ok := err.(*stdjwt.ValidationError); ok {
		return http.StatusUnauthorized
	}

	switch err {
	case kitjwt.ErrTokenContextMissing,
		kitjwt.ErrTokenInvalid,
		kitjwt.ErrTokenExpired,
		kitjwt.ErrTokenMalformed,
		kitjwt.ErrTokenNotActive,
		kitjwt.ErrUnexpectedSigningMethod,
		tasksvc.ErrClaimsMissing,
		tasksvc.ErrClaimsInvalid:
		return http.StatusUnauthorized
	case tasksvc.ErrTaskNotFound:
		return http.StatusNotFound
	case tasksvc.ErrInvalidArgument, ErrBadRouting:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func decodeHTTPCreateTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req taskendpoint.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, tasksvc.ErrInvalidArgument
	}
	return req, nil
}

func decodeHTTPTasksRequest(_ context.Context, r *http.Request) (interface{}, error) {
	req := taskendpoint.TasksRequest{Page: defaultPage, PageSize: defaultPageSize}

	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return nil, tasksvc.ErrInvalidArgument
		}
		req.Page = page
	}
	if v := q.Get("pageSize"); v != "" {
		pageSize, err := strconv.Atoi(v)
		if err != nil {
			return nil, tasksvc.ErrInvalidArgument
		}
		req.PageSize = pageSize
	}
	if v := q.Get("status"); v != "" {
		status := tasksvc.Status(v)
		req.Filter.Status = &status
	}
	if v := q.Get("priority"); v != "" {
		priority := tasksvc.Priority(v)
		req.Filter.Priority = &priority
	}

	return req, nil
}

func decodeHTTPUpdateTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	taskID, ok := vars["task_id"]
	if !ok {
		return nil, ErrBadRouting
	}

	var patch tasksvc.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		return nil, tasksvc.ErrInvalidArgument
	}

	return taskendpoint.UpdateTaskRequest{TaskID: taskID, Patch: patch}, nil
}

func decodeHTTPCompleteTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	taskID, ok := vars["task_id"]
	if !ok {
		return nil, ErrBadRouting
	}

	return taskendpoint.CompleteTaskRequest{TaskID: taskID}, nil
}

func decodeHTTPDeleteTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	taskID, ok := vars["task_id"]
	if !ok {
		return nil, ErrBadRouting
	}

	return taskendpoint.DeleteTaskRequest{TaskID: taskID}, nil
}

// ErrBadRouting is returned when an expected path variable is missing.
// It always indicates programmer error.
var ErrBadRouting = errors.New("inconsistent mapping between route and handler (programmer error)")

func encodeHTTPCreateTaskResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if f, ok := response.(endpoint.Failer); ok && f.Failed() != nil {
		errorEncoder(ctx, f.Failed(), w)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(response)
}

func encodeHTTPGenericResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if f, ok := response.(endpoint.Failer); ok && f.Failed() != nil {
		errorEncoder(ctx, f.Failed(), w)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}
