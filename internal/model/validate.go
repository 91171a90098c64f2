package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// ValidationError - ошибка во входных данных, сообщение безопасно отдавать клиенту
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateForCreate проверяет тело создания и возвращает нормализованную задачу.
// Статус по умолчанию - Pending.
func ValidateForCreate(req CreateTaskRequest) (NewTask, error) {
	var t NewTask

	if !req.Title.Present() {
		return t, invalid("title", "Title is required")
	}
	title, err := validateTitle(req.Title.Value)
	if err != nil {
		return t, err
	}
	t.Title = title

	if req.Description.Present() {
		desc, err := validateDescription(req.Description.Value)
		if err != nil {
			return t, err
		}
		t.Description = desc
	}

	t.Status = StatusPending
	if req.Status.Set {
		if req.Status.Null {
			return t, invalid("status", "Status cannot be null")
		}
		if err := validateStatus(req.Status.Value); err != nil {
			return t, err
		}
		t.Status = req.Status.Value
	}

	return t, nil
}

// ValidateForUpdate проверяет только переданные поля, отсутствующие остаются nil.
// Явный null в description очищает описание.
func ValidateForUpdate(req UpdateTaskRequest) (TaskUpdate, error) {
	var u TaskUpdate

	if req.Title.Set {
		if req.Title.Null {
			return u, invalid("title", "Title is required")
		}
		title, err := validateTitle(req.Title.Value)
		if err != nil {
			return u, err
		}
		u.Title = &title
	}

	if req.Description.Set {
		desc := ""
		if !req.Description.Null {
			var err error
			if desc, err = validateDescription(req.Description.Value); err != nil {
				return u, err
			}
		}
		u.Description = &desc
	}

	if req.Status.Set {
		if req.Status.Null {
			return u, invalid("status", "Status cannot be null")
		}
		if err := validateStatus(req.Status.Value); err != nil {
			return u, err
		}
		status := req.Status.Value
		u.Status = &status
	}

	return u, nil
}

func validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", invalid("title", "Title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", invalid("title", "Title cannot exceed %d characters", MaxTitleLength)
	}
	return title, nil
}

func validateDescription(raw string) (string, error) {
	desc := strings.TrimSpace(raw)
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return "", invalid("description", "Description cannot exceed %d characters", MaxDescriptionLength)
	}
	return desc, nil
}

func validateStatus(s Status) error {
	if !s.Valid() {
		return invalid("status", "Status must be one of: %s, %s, %s", StatusPending, StatusInProgress, StatusCompleted)
	}
	return nil
}
