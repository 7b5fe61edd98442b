package service

import (
	"context"
	"errors"
	"suru/internal/dto"
	"suru/internal/errs"
	"suru/internal/logger"
	"suru/internal/models/task"
	"suru/internal/models/vo"
	rep "suru/internal/repository"

	"go.uber.org/zap"
)

const resourceTask = "Task"

type TaskService struct {
	repo     TaskRepository
	projects ProjectRepository
}

func NewTaskService(repo TaskRepository, projects ProjectRepository) *TaskService {
	return &TaskService{
		repo:     repo,
		projects: projects,
	}
}

// TaskQuery - фильтр списка задач в том виде, в каком он приходит с транспорта
type TaskQuery struct {
	ProjectID    string
	Status       string
	AssigneeID   string
	Tags         []string
	ParentTaskID string
	Page         int
	PageSize     int
}

func (s *TaskService) CreateTask(ctx context.Context, caller Caller, p task.CreateParams) (dto.TaskDTO, error) {
	if err := caller.require(); err != nil {
		return dto.TaskDTO{}, err
	}
	p.CreatedBy = caller.UserID

	t, err := task.New(p)
	if err != nil {
		return dto.TaskDTO{}, err
	}

	var parent *task.Task
	if t.IsSubtask() {
		if parent, err = s.loadParent(ctx, t); err != nil {
			return dto.TaskDTO{}, err
		}
	}
	if err := s.ensureProjectOpen(ctx, t); err != nil {
		return dto.TaskDTO{}, err
	}

	if parent != nil {
		err = s.attachSubtask(ctx, parent, t)
	} else if err = s.repo.Save(ctx, t); err != nil {
		err = translate(err, resourceTask, t.ID().String())
	}
	if err != nil {
		return dto.TaskDTO{}, err
	}

	logger.Info("Service: Задача создана",
		zap.String("task_id", t.ID().String()),
		zap.String("project_id", t.ProjectID().String()),
	)
	return dto.FromTask(t), nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (dto.TaskDTO, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return dto.TaskDTO{}, err
	}
	return dto.FromTask(t), nil
}

// UpdateTask применяет все изменения одной мутацией, версия растёт на единицу
func (s *TaskService) UpdateTask(ctx context.Context, caller Caller, id string, version int, opts ...task.UpdateOption) (dto.TaskDTO, error) {
	if err := caller.require(); err != nil {
		return dto.TaskDTO{}, err
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return dto.TaskDTO{}, err
	}
	if err := checkVersion(resourceTask, id, version, t.Version()); err != nil {
		return dto.TaskDTO{}, err
	}
	if err := t.UpdateDetails(opts...); err != nil {
		return dto.TaskDTO{}, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return dto.TaskDTO{}, translate(err, resourceTask, id)
	}
	return dto.FromTask(t), nil
}

// AssignTask: пустой assigneeID снимает исполнителя
func (s *TaskService) AssignTask(ctx context.Context, caller Caller, id, assigneeID string) (dto.TaskDTO, error) {
	if err := caller.require(); err != nil {
		return dto.TaskDTO{}, err
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return dto.TaskDTO{}, err
	}
	t.AssignTo(assigneeID)
	if err := s.repo.Save(ctx, t); err != nil {
		return dto.TaskDTO{}, translate(err, resourceTask, id)
	}

	logger.Info("Service: Исполнитель задачи изменён",
		zap.String("task_id", id),
		zap.String("assignee_id", t.AssigneeID()),
	)
	return dto.FromTask(t), nil
}

// AddSubtask создаёт подзадачу в проекте родителя и дописывает её в список родителя
func (s *TaskService) AddSubtask(ctx context.Context, caller Caller, parentID, title, description string) (dto.TaskDTO, error) {
	if err := caller.require(); err != nil {
		return dto.TaskDTO{}, err
	}
	parent, err := s.load(ctx, parentID)
	if err != nil {
		return dto.TaskDTO{}, err
	}
	if err := parent.EnsureCanHoldSubtasks(); err != nil {
		return dto.TaskDTO{}, err
	}

	sub, err := task.New(task.CreateParams{
		ProjectID:    parent.ProjectID().String(),
		Title:        title,
		Description:  description,
		Priority:     task.PriorityMedium.String(),
		ParentTaskID: parent.ID().String(),
		CreatedBy:    caller.UserID,
	})
	if err != nil {
		return dto.TaskDTO{}, err
	}
	if err := s.ensureProjectOpen(ctx, sub); err != nil {
		return dto.TaskDTO{}, err
	}
	if err := s.attachSubtask(ctx, parent, sub); err != nil {
		return dto.TaskDTO{}, err
	}
	return dto.FromTask(sub), nil
}

func (s *TaskService) DeleteTask(ctx context.Context, caller Caller, id string) error {
	if err := caller.require(); err != nil {
		return err
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if t.IsSubtask() {
		if err := s.detachSubtask(ctx, t); err != nil {
			return err
		}
	}
	// подзадачи без родителя не живут
	for _, subID := range t.Subtasks() {
		if err := s.repo.Delete(ctx, subID); err != nil && !errors.Is(err, rep.ErrNotFound) {
			return translate(err, resourceTask, subID.String())
		}
	}
	if err := s.repo.Delete(ctx, t.ID()); err != nil {
		return translate(err, resourceTask, id)
	}
	logger.Info("Service: Задача удалена", zap.String("task_id", id), zap.Int("subtasks", len(t.Subtasks())))
	return nil
}

func (s *TaskService) ListTasks(ctx context.Context, q TaskQuery) (dto.Page[dto.TaskDTO], error) {
	filter := task.Filter{AssigneeID: q.AssigneeID, Tags: q.Tags}
	var err error
	if filter.ProjectID, err = vo.ParseOptionalID("Project ID", q.ProjectID); err != nil {
		return dto.Page[dto.TaskDTO]{}, err
	}
	if filter.ParentTaskID, err = vo.ParseOptionalID("Parent task ID", q.ParentTaskID); err != nil {
		return dto.Page[dto.TaskDTO]{}, err
	}
	if q.Status != "" {
		status, err := task.ParseStatus(q.Status)
		if err != nil {
			return dto.Page[dto.TaskDTO]{}, err
		}
		filter.Status = &status
	}

	page, limit, offset := pageWindow(q.Page, q.PageSize)
	filter.Limit, filter.Offset = limit, offset

	tasks, total, err := s.repo.FindMany(ctx, filter)
	if err != nil {
		return dto.Page[dto.TaskDTO]{}, translate(err, resourceTask, "list")
	}
	return dto.NewPage(dto.FromTasks(tasks), total, page, limit), nil
}

func (s *TaskService) load(ctx context.Context, rawID string) (*task.Task, error) {
	id, err := vo.ParseID("Task ID", rawID)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, resourceTask, rawID)
	}
	return t, nil
}

// loadParent проверяет родителя задачи, созданной сразу как подзадача
func (s *TaskService) loadParent(ctx context.Context, t *task.Task) (*task.Task, error) {
	parentID := t.ParentTaskID().String()
	parent, err := s.repo.FindByID(ctx, *t.ParentTaskID())
	if err != nil {
		return nil, translate(err, resourceTask, parentID)
	}
	if err := parent.EnsureCanHoldSubtasks(); err != nil {
		return nil, err
	}
	if parent.ProjectID() != t.ProjectID() {
		return nil, errs.Invariant("Subtask must belong to the same project as its parent")
	}
	return parent, nil
}

// attachSubtask сохраняет подзадачу, затем родителя через CAS. Если родителя
// успели изменить, подзадача удаляется и вызывающий получает конфликт.
func (s *TaskService) attachSubtask(ctx context.Context, parent, sub *task.Task) error {
	if err := parent.AddSubtask(sub); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		return translate(err, resourceTask, sub.ID().String())
	}
	if err := s.repo.Save(ctx, parent); err != nil {
		if delErr := s.repo.Delete(ctx, sub.ID()); delErr != nil {
			logger.Warn("Service: Не удалось откатить подзадачу",
				zap.String("task_id", sub.ID().String()),
				zap.Error(delErr),
			)
		}
		return translate(err, resourceTask, parent.ID().String())
	}

	logger.Info("Service: Подзадача добавлена",
		zap.String("task_id", sub.ID().String()),
		zap.String("parent_task_id", parent.ID().String()),
	)
	return nil
}

// detachSubtask убирает подзадачу из списка родителя. Пропавший родитель не мешает удалению.
func (s *TaskService) detachSubtask(ctx context.Context, sub *task.Task) error {
	parent, err := s.repo.FindByID(ctx, *sub.ParentTaskID())
	if errors.Is(err, rep.ErrNotFound) {
		return nil
	}
	if err != nil {
		return translate(err, resourceTask, sub.ParentTaskID().String())
	}
	if !parent.RemoveSubtask(sub.ID()) {
		return nil
	}
	if err := s.repo.Save(ctx, parent); err != nil {
		return translate(err, resourceTask, parent.ID().String())
	}
	return nil
}

// ensureProjectOpen не даёт заводить задачи в несуществующем или архивном проекте
func (s *TaskService) ensureProjectOpen(ctx context.Context, t *task.Task) error {
	p, err := s.projects.FindByID(ctx, t.ProjectID())
	if err != nil {
		return translate(err, resourceProject, t.ProjectID().String())
	}
	if p.IsArchived() {
		return errs.Invariant("Cannot add task to archived project")
	}
	return nil
}
