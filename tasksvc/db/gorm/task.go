package gorm

import (
	"errors"

	"github.com/taskpad/backend/tasksvc"
	"github.com/twinj/uuid"
	stdgorm "gorm.io/gorm"
)

type taskRepository struct {
	db *stdgorm.DB
}

func NewTaskRepository(db *stdgorm.DB) tasksvc.TaskRepository {
	return &taskRepository{db}
}

func (t *taskRepository) Create(task tasksvc.Task) (tasksvc.Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewV4().String()
	}

	result := t.db.Create(&task)

	return task, result.Error
}

func (t *taskRepository) FindAll(userID string, page, pageSize int, filter tasksvc.Filter) ([]tasksvc.Task, int64, error) {
	scope := func(db *stdgorm.DB) *stdgorm.DB {
		db = db.Where("user_id = ?", userID)
		if filter.Status != nil {
			db = db.Where("status = ?", *filter.Status)
		}
		if filter.Priority != nil {
			db = db.Where("priority = ?", *filter.Priority)
		}
		return db
	}

	var total int64
	if err := t.db.Model(&tasksvc.Task{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := []tasksvc.Task{}
	result := t.db.Scopes(scope).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&tasks)

	return tasks, total, result.Error
}

func (t *taskRepository) Find(userID, taskID string) (tasksvc.Task, error) {
	var task tasksvc.Task
	result := t.db.Where("id = ? AND user_id = ?", taskID, userID).First(&task)

	if errors.Is(result.Error, stdgorm.ErrRecordNotFound) {
		return tasksvc.Task{}, tasksvc.ErrTaskNotFound
	}

	return task, result.Error
}

func (t *taskRepository) Update(userID, taskID string, patch tasksvc.Patch) (tasksvc.Task, error) {
	task, err := t.Find(userID, taskID)
	if err != nil {
		return tasksvc.Task{}, err
	}

	values := patch.Values()
	if len(values) == 0 {
		return task, nil
	}

	result := t.db.Model(&task).Updates(values)
	if result.Error != nil {
		return tasksvc.Task{}, result.Error
	}

	return t.Find(userID, taskID)
}

func (t *taskRepository) Delete(userID, taskID string) (bool, error) {
	result := t.db.Where("id = ? AND user_id = ?", taskID, userID).Delete(&tasksvc.Task{})

	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, tasksvc.ErrTaskNotFound
	}
	return true, nil
}
