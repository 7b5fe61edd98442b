package postgres

import (
	"context"
	"fmt"
	"suru/internal/logger"
	"suru/internal/models/task"
	repo "suru/internal/repository"
	"suru/internal/repository/postgres"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const taskColumns = `id, project_id, title, description, status, priority, due_date, tags,
	assignee_id, parent_task_id, subtasks, created_by, created_at, updated_at, version`

type TaskStorage struct {
	db *postgres.Storage
}

func NewTaskStorage(db *postgres.Storage) *TaskStorage {
	return &TaskStorage{db: db}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}

// Save вставляет задачу с начальной версией, иначе обновляет строку,
// только если в базе лежит версия на единицу меньше
func (s *TaskStorage) Save(ctx context.Context, t *task.Task) error {
	start := time.Now()
	defer postgres.Observe("task.save", start, zap.String("task_id", t.ID().String()))

	snap := t.Snapshot()
	if snap.Version == task.InitialVersion {
		return s.insert(ctx, snap)
	}

	query := `UPDATE tasks
			SET project_id = $2,
				title = $3,
				description = $4,
				status = $5,
				priority = $6,
				due_date = $7,
				tags = $8,
				assignee_id = $9,
				parent_task_id = $10,
				subtasks = $11,
				updated_at = $12,
				version = $13
			WHERE id = $1 AND version = $14`

	tag, err := s.db.Pool().Exec(ctx, query,
		snap.ID,
		snap.ProjectID,
		snap.Title,
		snap.Description,
		snap.Status,
		snap.Priority,
		snap.DueDate,
		nonNilTags(snap.Tags),
		snap.AssigneeID,
		snap.ParentTaskID,
		nonNilIDs(snap.Subtasks),
		snap.UpdatedAt,
		snap.Version,
		snap.Version-1,
	)
	if err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err := s.db.ResolveMiss(ctx, "tasks", snap.ID)
		logger.Warn("Repository: Задача не обновлена",
			zap.String("task_id", snap.ID.String()),
			zap.Int("expected_version", snap.Version-1),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *TaskStorage) insert(ctx context.Context, snap task.Snapshot) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			ON CONFLICT (id) DO NOTHING`

	tag, err := s.db.Pool().Exec(ctx, query,
		snap.ID,
		snap.ProjectID,
		snap.Title,
		snap.Description,
		snap.Status,
		snap.Priority,
		snap.DueDate,
		nonNilTags(snap.Tags),
		snap.AssigneeID,
		snap.ParentTaskID,
		nonNilIDs(snap.Subtasks),
		snap.CreatedBy,
		snap.CreatedAt,
		snap.UpdatedAt,
		snap.Version,
	)
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err)
		return fmt.Errorf("добавление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrVersionConflict
	}
	return nil
}

func (s *TaskStorage) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()
	defer postgres.Observe("task.find", start)

	row := s.db.Pool().QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err)
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

func (s *TaskStorage) FindMany(ctx context.Context, filter task.Filter) ([]*task.Task, int, error) {
	start := time.Now()
	defer postgres.Observe("task.find_many", start)

	var where postgres.Where
	if filter.ProjectID != nil {
		where.Add("project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		where.Add("status = ?", *filter.Status)
	}
	if filter.AssigneeID != "" {
		where.Add("assignee_id = ?", filter.AssigneeID)
	}
	if filter.ParentTaskID != nil {
		where.Add("parent_task_id = ?", *filter.ParentTaskID)
	}
	if len(filter.Tags) > 0 {
		where.Add("tags @> ?", filter.Tags)
	}

	var total int
	if err := s.db.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM tasks`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		logger.Error("Repository: Не удалось посчитать задачи", err)
		return nil, 0, fmt.Errorf("подсчёт задач: %w", err)
	}

	page, args := where.Page(repo.NormalizeLimit(filter.Limit), filter.Offset)
	rows, err := s.db.Pool().Query(ctx, `SELECT `+taskColumns+` FROM tasks`+where.SQL()+` ORDER BY created_at, id`+page, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err)
		return nil, 0, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, 0, fmt.Errorf("итерация по строкам: %w", err)
	}
	return tasks, total, nil
}

func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	defer postgres.Observe("task.delete", start)

	tag, err := s.db.Pool().Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err)
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *TaskStorage) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := s.db.Pool().QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("проверка задачи: %w", err)
	}
	return exists, nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	var snap task.Snapshot
	err := row.Scan(
		&snap.ID,
		&snap.ProjectID,
		&snap.Title,
		&snap.Description,
		&snap.Status,
		&snap.Priority,
		&snap.DueDate,
		&snap.Tags,
		&snap.AssigneeID,
		&snap.ParentTaskID,
		&snap.Subtasks,
		&snap.CreatedBy,
		&snap.CreatedAt,
		&snap.UpdatedAt,
		&snap.Version,
	)
	if err != nil {
		return nil, err
	}
	return task.Reconstitute(snap), nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func nonNilIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
