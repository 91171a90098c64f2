package repo

import (
	"context"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

// TaskRepository определяет интерфейс для работы с задачами.
// Хранилище единолично назначает id, createdAt и updatedAt.
type TaskRepository interface {
	Create(ctx context.Context, t model.NewTask) (model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, id string, u model.TaskUpdate) (model.Task, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
