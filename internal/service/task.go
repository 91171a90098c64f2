package service

import (
	"context"

	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
)

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, req model.CreateTaskRequest) (model.Task, error) {
	t, err := model.ValidateForCreate(req) // Валидация до обращения к хранилищу
	if err != nil {
		return model.Task{}, err
	}
	return s.repo.Create(ctx, t)
}

func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx)
}

func (s *TaskService) Update(ctx context.Context, id string, req model.UpdateTaskRequest) (model.Task, error) {
	u, err := model.ValidateForUpdate(req)
	if err != nil {
		return model.Task{}, err
	}
	return s.repo.Update(ctx, id, u)
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
