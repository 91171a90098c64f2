package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

// MemoryRepo - хранилище в памяти процесса, для разработки и тестов.
// Порядок List совпадает с порядком вставки.
type MemoryRepo struct {
	mu    sync.RWMutex
	order []string
	tasks map[string]model.Task
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		tasks: make(map[string]model.Task),
		now:   time.Now,
	}
}

func (r *MemoryRepo) Create(_ context.Context, t model.NewTask) (model.Task, error) {
	now := r.now().UTC()
	task := model.Task{
		ID:          uuid.NewString(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = task
	r.order = append(r.order, task.ID)
	return task, nil
}

func (r *MemoryRepo) List(_ context.Context) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.Task, 0, len(r.order))
	for _, id := range r.order {
		tasks = append(tasks, r.tasks[id])
	}
	return tasks, nil
}

func (r *MemoryRepo) Update(_ context.Context, id string, u model.TaskUpdate) (model.Task, error) {
	now := r.now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	task = u.Apply(task)
	if now.After(task.UpdatedAt) {
		task.UpdatedAt = now
	}
	r.tasks[id] = task
	return task, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(r.tasks, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepo) Ping(context.Context) error { return nil }

func (r *MemoryRepo) Close(context.Context) error { return nil }
