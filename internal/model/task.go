package model

import "time"

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses перечисляет все допустимые статусы в порядке отображения
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTask - провалидированные данные для создания задачи
type NewTask struct {
	Title       string
	Description string
	Status      Status
}

// TaskUpdate - провалидированный частичный апдейт, nil означает "не менять"
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *Status
}

func (u TaskUpdate) Apply(t Task) Task {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	return t
}

// CreateTaskRequest - тело POST /tasks
type CreateTaskRequest struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Status      Optional[Status] `json:"status"`
}

// UpdateTaskRequest - тело PUT /tasks/{id}
type UpdateTaskRequest struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Status      Optional[Status] `json:"status"`
}
