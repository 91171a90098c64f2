package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
	"github.com/BuzzLyutic/task-tracker/internal/service"
	"github.com/BuzzLyutic/task-tracker/pkg/respond"
)

const maxBodyBytes = 1 << 20

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

// DeleteResult - data в ответе на DELETE
type DeleteResult struct {
	ID string `json:"id"`
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.List(r.Context())
	if err != nil {
		h.handleErrors(w, r, err, "Failed to fetch tasks")
		return
	}
	respond.Data(w, r, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTaskRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.handleErrors(w, r, err, "Failed to create task")
		return
	}

	w.Header().Set("Location", "/api/tasks/"+task.ID)
	respond.Data(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.UpdateTaskRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.handleErrors(w, r, err, "Failed to update task")
		return
	}

	respond.Data(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleErrors(w, r, err, "Failed to delete task")
		return
	}

	respond.JSON(w, r, http.StatusOK, respond.Envelope{
		Success: true,
		Message: "Task deleted successfully",
		Data:    DeleteResult{ID: id},
	})
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	var vErr *model.ValidationError
	switch {
	case errors.As(err, &vErr):
		respond.Error(w, r, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, repo.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, "Task not found")
	default:
		h.logger.Error("internal error",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		respond.Error(w, r, http.StatusInternalServerError, internalMsg)
	}
}

// decodeBody читает JSON-тело, пустое тело считается пустым объектом
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
