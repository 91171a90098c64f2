package repo

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/task-tracker/internal/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

const taskColumns = `id, title, description, status, created_at, updated_at`

type PostgresRepo struct { // Репозиторий для работы с PostgreSQL
	pool *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{
		pool: pool,
	}
}

// EnsureSchema применяет встроенные миграции, они идемпотентны
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return err
	}
	for _, e := range entries {
		sql, err := migrations.ReadFile("migrations/" + e.Name())
		if err != nil {
			return err
		}
		if _, err := r.pool.Exec(ctx, string(sql)); err != nil {
			return storageErr(fmt.Sprintf("migrate %s", e.Name()), err)
		}
	}
	return nil
}

func (r *PostgresRepo) Create(ctx context.Context, t model.NewTask) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (id, title, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+taskColumns,
		uuid.New(), t.Title, t.Description, string(t.Status),
	)
	task, err := scanTask(row)
	if err != nil {
		return task, storageErr("create", err)
	}
	return task, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY seq`)
	if err != nil {
		return nil, storageErr("list", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, storageErr("list", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, storageErr("list", rows.Err())
}

func (r *PostgresRepo) Update(ctx context.Context, id string, u model.TaskUpdate) (model.Task, error) {
	uid, err := uuid.Parse(id)
	if err != nil { // Невалидный id не может совпасть ни с одной записью
		return model.Task{}, ErrNotFound
	}

	var status *string
	if u.Status != nil {
		s := string(*u.Status)
		status = &s
	}

	// Last write wins: версий нет, каждая запись атомарна
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    status = COALESCE($4, status),
		    updated_at = GREATEST(now(), created_at)
		WHERE id = $1
		RETURNING `+taskColumns,
		uid, u.Title, u.Description, status,
	)
	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return task, ErrNotFound
	}
	if err != nil {
		return task, storageErr("update", err)
	}
	return task, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", uid)
	if err != nil {
		return storageErr("delete", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return storageErr("ping", r.pool.Ping(ctx))
}

func (r *PostgresRepo) Close(_ context.Context) error {
	r.pool.Close()
	return nil
}

func scanTask(row pgx.Row) (model.Task, error) {
	var (
		t      model.Task
		id     uuid.UUID
		status string
	)
	err := row.Scan(&id, &t.Title, &t.Description, &status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return t, err
	}
	t.ID = id.String()
	t.Status = model.Status(status)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}
