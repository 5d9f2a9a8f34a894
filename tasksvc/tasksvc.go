package tasksvc

import (
	"errors"
	"time"
)

// Status is the task lifecycle state. Complete moves PENDENTE to CONCLUIDO;
// nothing moves it back except a generic update.
type Status string

const (
	StatusPending Status = "PENDENTE"
	StatusDone    Status = "CONCLUIDO"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "BAIXA"
	PriorityMedium Priority = "MEDIA"
	PriorityHigh   Priority = "ALTA"
	PriorityUrgent Priority = "URGENTE"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	DueDate     Date      `json:"dueDate"`
	StartDate   Date      `json:"startDate"`
	EndDate     *Date     `json:"endDate,omitempty"`
	UserID      string    `json:"userId" gorm:"index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Patch holds a partial update; nil fields are left unchanged.
type Patch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *Status   `json:"status"`
	Priority    *Priority `json:"priority"`
	DueDate     *Date     `json:"dueDate"`
	StartDate   *Date     `json:"startDate"`
	EndDate     *Date     `json:"endDate"`
}

// Values translates the patch into the column assignments to apply.
func (p Patch) Values() map[string]interface{} {
	v := map[string]interface{}{}
	if p.Title != nil {
		v["title"] = *p.Title
	}
	if p.Description != nil {
		v["description"] = *p.Description
	}
	if p.Status != nil {
		v["status"] = *p.Status
	}
	if p.Priority != nil {
		v["priority"] = *p.Priority
	}
	if p.DueDate != nil {
		v["due_date"] = *p.DueDate
	}
	if p.StartDate != nil {
		v["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		v["end_date"] = *p.EndDate
	}
	return v
}

// Filter narrows a listing; nil fields match everything.
type Filter struct {
	Status   *Status
	Priority *Priority
}

// TaskRepository operations are scoped to the owning user throughout, so a
// task id belonging to another user behaves as if it did not exist.
type TaskRepository interface {
	Create(task Task) (Task, error)
	FindAll(userID string, page, pageSize int, filter Filter) ([]Task, int64, error)
	Find(userID, taskID string) (Task, error)
	Update(userID, taskID string, patch Patch) (Task, error)
	Delete(userID, taskID string) (bool, error)
}

// Auth is the acting identity decoded from a verified bearer token.
type Auth struct {
	UserID string
	Email  string
}

const TaskDeletedMessage = "Tarefa deletada com sucesso!"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTaskNotFound    = errors.New("Tarefa não encontrada.")
	ErrClaimsMissing   = errors.New("JWT claims was not passed through the context")
	ErrClaimsInvalid   = errors.New("JWT claims was invalid")
)
