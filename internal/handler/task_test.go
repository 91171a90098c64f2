package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/repo"
	"github.com/BuzzLyutic/task-tracker/internal/service"
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func decodeEnvelope[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

func setupHandler(t *testing.T) (*TaskHandler, *repo.MemoryRepo) {
	t.Helper()
	store := repo.NewMemoryRepo()
	return NewTaskHandler(service.NewTaskService(store), zap.NewNop()), store
}

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func createTask(t *testing.T, h *TaskHandler, body string) model.Task {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeEnvelope[model.Task](t, w).Data
}

func TestTaskHandler_Create(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantCode      int
		wantMessage   string
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:     "successful creation",
			body:     `{"title":"Buy milk"}`,
			wantCode: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				env := decodeEnvelope[model.Task](t, w)
				assert.True(t, env.Success)
				assert.NotEmpty(t, env.Data.ID)
				assert.Equal(t, "Buy milk", env.Data.Title)
				assert.Equal(t, model.StatusPending, env.Data.Status)
				assert.Equal(t, "/api/tasks/"+env.Data.ID, w.Header().Get("Location"))
			},
		},
		{
			name:     "with status and description",
			body:     `{"title":"Report","description":"Q3","status":"In Progress"}`,
			wantCode: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				env := decodeEnvelope[model.Task](t, w)
				assert.Equal(t, "Q3", env.Data.Description)
				assert.Equal(t, model.StatusInProgress, env.Data.Status)
			},
		},
		{
			name:     "server assigned fields ignored",
			body:     `{"title":"x","id":"mine","createdAt":"2000-01-01T00:00:00Z"}`,
			wantCode: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				env := decodeEnvelope[model.Task](t, w)
				assert.NotEqual(t, "mine", env.Data.ID)
				assert.NotEqual(t, 2000, env.Data.CreatedAt.Year())
			},
		},
		{
			name:        "empty body",
			body:        "",
			wantCode:    http.StatusBadRequest,
			wantMessage: "Title is required",
		},
		{
			name:        "whitespace title",
			body:        `{"title":"   "}`,
			wantCode:    http.StatusBadRequest,
			wantMessage: "Title is required",
		},
		{
			name:        "title too long",
			body:        `{"title":"` + strings.Repeat("a", 101) + `"}`,
			wantCode:    http.StatusBadRequest,
			wantMessage: "Title cannot exceed 100 characters",
		},
		{
			name:     "unknown status",
			body:     `{"title":"x","status":"Archived"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:        "invalid json",
			body:        `{"title":`,
			wantCode:    http.StatusBadRequest,
			wantMessage: "Invalid request body",
		},
		{
			name:        "wrong field type",
			body:        `{"title":7}`,
			wantCode:    http.StatusBadRequest,
			wantMessage: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, store := setupHandler(t)

			req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			handler.Create(w, req)

			assert.Equal(t, tt.wantCode, w.Code)

			if tt.wantCode != http.StatusCreated {
				env := decodeEnvelope[any](t, w)
				assert.False(t, env.Success)
				if tt.wantMessage != "" {
					assert.Equal(t, tt.wantMessage, env.Message)
				}
				tasks, _ := store.List(context.Background())
				assert.Empty(t, tasks, "no record should be persisted")
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestTaskHandler_List(t *testing.T) {
	handler, _ := setupHandler(t)

	t.Run("empty list", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
	})

	created := []model.Task{
		createTask(t, handler, `{"title":"Task 1"}`),
		createTask(t, handler, `{"title":"Task 2","status":"Completed"}`),
	}

	t.Run("list all tasks", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope[[]model.Task](t, w)
		assert.True(t, env.Success)
		require.Len(t, env.Data, 2)
		assert.Equal(t, created[0].ID, env.Data[0].ID)
		assert.Equal(t, created[1].ID, env.Data[1].ID)
	})
}

func TestTaskHandler_Update(t *testing.T) {
	handler, store := setupHandler(t)
	created := createTask(t, handler, `{"title":"Original","description":"keep"}`)

	update := func(id, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+id, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.Update(w, withID(req, id))
		return w
	}

	t.Run("status only", func(t *testing.T) {
		w := update(created.ID, `{"status":"Completed"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope[model.Task](t, w)
		assert.Equal(t, model.StatusCompleted, env.Data.Status)
		assert.Equal(t, "Original", env.Data.Title)
		assert.Equal(t, "keep", env.Data.Description)
		assert.Equal(t, created.ID, env.Data.ID)
		assert.True(t, created.CreatedAt.Equal(env.Data.CreatedAt))
		assert.False(t, env.Data.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("null description clears it", func(t *testing.T) {
		w := update(created.ID, `{"description":null}`)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope[model.Task](t, w)
		assert.Equal(t, "", env.Data.Description)
	})

	t.Run("unknown status leaves record unchanged", func(t *testing.T) {
		before, _ := store.List(context.Background())

		w := update(created.ID, `{"status":"Archived"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		after, _ := store.List(context.Background())
		assert.Equal(t, before, after)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		w := update(created.ID, `{"title":""}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validation runs before lookup", func(t *testing.T) {
		w := update("missing", `{"status":"Archived"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		w := update("missing", `{"title":"x"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope[any](t, w)
		assert.Equal(t, "Task not found", env.Message)
	})

	t.Run("invalid json", func(t *testing.T) {
		w := update(created.ID, `not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	handler, _ := setupHandler(t)
	created := createTask(t, handler, `{"title":"To Delete"}`)

	del := func(id string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.Delete(w, withID(httptest.NewRequest(http.MethodDelete, "/api/tasks/"+id, nil), id))
		return w
	}

	t.Run("successful delete", func(t *testing.T) {
		w := del(created.ID)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope[DeleteResult](t, w)
		assert.True(t, env.Success)
		assert.Equal(t, created.ID, env.Data.ID)
	})

	t.Run("delete again", func(t *testing.T) {
		w := del(created.ID)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// brokenRepo имитирует недоступное хранилище
type brokenRepo struct{}

var errDown = &repo.StorageError{Op: "test", Err: errors.New("connection refused")}

func (brokenRepo) Create(context.Context, model.NewTask) (model.Task, error) {
	return model.Task{}, errDown
}
func (brokenRepo) List(context.Context) ([]model.Task, error) { return nil, errDown }
func (brokenRepo) Update(context.Context, string, model.TaskUpdate) (model.Task, error) {
	return model.Task{}, errDown
}
func (brokenRepo) Delete(context.Context, string) error { return errDown }
func (brokenRepo) Ping(context.Context) error          { return errDown }
func (brokenRepo) Close(context.Context) error         { return nil }

func TestTaskHandler_StorageErrors(t *testing.T) {
	handler := NewTaskHandler(service.NewTaskService(brokenRepo{}), zap.NewNop())

	tests := []struct {
		name    string
		call    func(w http.ResponseWriter)
		wantMsg string
	}{
		{
			name: "list",
			call: func(w http.ResponseWriter) {
				handler.List(w, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
			},
			wantMsg: "Failed to fetch tasks",
		},
		{
			name: "create",
			call: func(w http.ResponseWriter) {
				handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{"title":"x"}`)))
			},
			wantMsg: "Failed to create task",
		},
		{
			name: "update",
			call: func(w http.ResponseWriter) {
				req := httptest.NewRequest(http.MethodPut, "/api/tasks/1", strings.NewReader(`{"title":"x"}`))
				handler.Update(w, withID(req, "1"))
			},
			wantMsg: "Failed to update task",
		},
		{
			name: "delete",
			call: func(w http.ResponseWriter) {
				handler.Delete(w, withID(httptest.NewRequest(http.MethodDelete, "/api/tasks/1", nil), "1"))
			},
			wantMsg: "Failed to delete task",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.call(w)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			env := decodeEnvelope[any](t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMsg, env.Message)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}
