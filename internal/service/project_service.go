package service

import (
	"context"
	"suru/internal/dto"
	"suru/internal/errs"
	"suru/internal/logger"
	"suru/internal/models/project"
	"suru/internal/models/vo"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resourceProject = "Project"

// ProjectService управляет проектами; права берутся из роли в команде проекта
type ProjectService struct {
	repo  ProjectRepository
	teams TeamRepository
}

func NewProjectService(repo ProjectRepository, teams TeamRepository) *ProjectService {
	return &ProjectService{
		repo:  repo,
		teams: teams,
	}
}

type ProjectQuery struct {
	TeamID   string
	Archived *bool
	Page     int
	PageSize int
}

func (s *ProjectService) CreateProject(ctx context.Context, caller Caller, name, description, teamID string) (dto.ProjectDTO, error) {
	if err := caller.require(); err != nil {
		return dto.ProjectDTO{}, err
	}
	p, err := project.New(name, description, teamID, caller.UserID)
	if err != nil {
		return dto.ProjectDTO{}, err
	}
	if err := s.authorize(ctx, caller, p.TeamID()); err != nil {
		return dto.ProjectDTO{}, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return dto.ProjectDTO{}, translate(err, resourceProject, p.ID().String())
	}
	logger.Info("Service: Проект создан", zap.String("project_id", p.ID().String()), zap.String("team_id", teamID))
	return dto.FromProject(p), nil
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (dto.ProjectDTO, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return dto.ProjectDTO{}, err
	}
	return dto.FromProject(p), nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, caller Caller, id string, version int, name, description *string) (dto.ProjectDTO, error) {
	return s.mutate(ctx, caller, id, &version, func(p *project.Project) error {
		return p.UpdateDetails(name, description)
	})
}

func (s *ProjectService) ArchiveProject(ctx context.Context, caller Caller, id string) (dto.ProjectDTO, error) {
	return s.mutate(ctx, caller, id, nil, (*project.Project).Archive)
}

func (s *ProjectService) UnarchiveProject(ctx context.Context, caller Caller, id string) (dto.ProjectDTO, error) {
	return s.mutate(ctx, caller, id, nil, (*project.Project).Unarchive)
}

func (s *ProjectService) DeleteProject(ctx context.Context, caller Caller, id string) error {
	if err := caller.require(); err != nil {
		return err
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, caller, p.TeamID()); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, p.ID()); err != nil {
		return translate(err, resourceProject, id)
	}
	logger.Info("Service: Проект удалён", zap.String("project_id", id))
	return nil
}

func (s *ProjectService) ListProjects(ctx context.Context, q ProjectQuery) (dto.Page[dto.ProjectDTO], error) {
	teamID, err := vo.ParseOptionalID("Team ID", q.TeamID)
	if err != nil {
		return dto.Page[dto.ProjectDTO]{}, err
	}
	page, limit, offset := pageWindow(q.Page, q.PageSize)

	projects, total, err := s.repo.FindMany(ctx, project.Filter{
		TeamID:   teamID,
		Archived: q.Archived,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return dto.Page[dto.ProjectDTO]{}, translate(err, resourceProject, "list")
	}
	return dto.NewPage(dto.FromProjects(projects), total, page, limit), nil
}

// mutate: version == nil означает, что клиент версию не присылал
func (s *ProjectService) mutate(ctx context.Context, caller Caller, id string, version *int, apply func(*project.Project) error) (dto.ProjectDTO, error) {
	if err := caller.require(); err != nil {
		return dto.ProjectDTO{}, err
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return dto.ProjectDTO{}, err
	}
	if version != nil {
		if err := checkVersion(resourceProject, id, *version, p.Version()); err != nil {
			return dto.ProjectDTO{}, err
		}
	}
	if err := s.authorize(ctx, caller, p.TeamID()); err != nil {
		return dto.ProjectDTO{}, err
	}
	if err := apply(p); err != nil {
		return dto.ProjectDTO{}, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return dto.ProjectDTO{}, translate(err, resourceProject, id)
	}
	return dto.FromProject(p), nil
}

// authorize: управлять проектами команды могут только владелец и админы
func (s *ProjectService) authorize(ctx context.Context, caller Caller, teamID uuid.UUID) error {
	t, err := s.teams.FindByID(ctx, teamID)
	if err != nil {
		return translate(err, resourceTeam, teamID.String())
	}
	m, ok := t.Member(caller.UserID)
	if !ok || !m.Role.CanManageProjects() {
		logger.Warn("Service: Недостаточно прав для управления проектом",
			zap.String("team_id", teamID.String()),
			zap.String("actor_id", caller.UserID),
		)
		return errs.Forbidden("Only owner or admin can manage projects")
	}
	return nil
}

func (s *ProjectService) load(ctx context.Context, rawID string) (*project.Project, error) {
	id, err := vo.ParseID("Project ID", rawID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, resourceProject, rawID)
	}
	return p, nil
}
