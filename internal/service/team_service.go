package service

import (
	"context"
	"suru/internal/dto"
	"suru/internal/errs"
	"suru/internal/logger"
	"suru/internal/models/project"
	"suru/internal/models/team"
	"suru/internal/models/vo"

	"go.uber.org/zap"
)

const resourceTeam = "Team"

type TeamService struct {
	repo     TeamRepository
	projects ProjectRepository
}

func NewTeamService(repo TeamRepository, projects ProjectRepository) *TeamService {
	return &TeamService{repo: repo, projects: projects}
}

func (s *TeamService) CreateTeam(ctx context.Context, caller Caller, name, description string) (dto.TeamDTO, error) {
	if err := caller.require(); err != nil {
		return dto.TeamDTO{}, err
	}
	t, err := team.New(name, description, caller.UserID)
	if err != nil {
		return dto.TeamDTO{}, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return dto.TeamDTO{}, translate(err, resourceTeam, t.ID().String())
	}
	logger.Info("Service: Команда создана", zap.String("team_id", t.ID().String()), zap.String("owner_id", caller.UserID))
	return dto.FromTeam(t), nil
}

func (s *TeamService) GetTeam(ctx context.Context, id string) (dto.TeamDTO, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return dto.TeamDTO{}, err
	}
	return dto.FromTeam(t), nil
}

// UpdateTeam доступен владельцу и админам; nil-поля не меняются
func (s *TeamService) UpdateTeam(ctx context.Context, caller Caller, id string, version int, name, description *string) (dto.TeamDTO, error) {
	if err := caller.require(); err != nil {
		return dto.TeamDTO{}, err
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return dto.TeamDTO{}, err
	}
	if err := checkVersion(resourceTeam, id, version, t.Version()); err != nil {
		return dto.TeamDTO{}, err
	}
	if m, ok := t.Member(caller.UserID); !ok || !m.Role.CanManageMembers() {
		return dto.TeamDTO{}, errs.Forbidden("Only owner or admin can update team")
	}
	if err := t.UpdateDetails(name, description); err != nil {
		return dto.TeamDTO{}, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return dto.TeamDTO{}, translate(err, resourceTeam, id)
	}
	return dto.FromTeam(t), nil
}

func (s *TeamService) DeleteTeam(ctx context.Context, caller Caller, id string) error {
	if err := caller.require(); err != nil {
		return err
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !t.CanDelete(caller.UserID) {
		return errs.Forbidden("Only team owner can delete team")
	}
	// проекты команды без команды не живут, удалять их молча нельзя
	teamID := t.ID()
	_, total, err := s.projects.FindMany(ctx, project.Filter{TeamID: &teamID, Limit: 1})
	if err != nil {
		return translate(err, resourceProject, "list")
	}
	if total > 0 {
		return errs.Conflict("Cannot delete team with existing projects", nil)
	}
	if err := s.repo.Delete(ctx, t.ID()); err != nil {
		return translate(err, resourceTeam, id)
	}
	logger.Info("Service: Команда удалена", zap.String("team_id", id))
	return nil
}

func (s *TeamService) AddMember(ctx context.Context, caller Caller, teamID, userID, role string) (dto.TeamDTO, error) {
	return s.mutate(ctx, caller, teamID, func(t *team.Team) error {
		return t.AddMember(userID, role, caller.UserID)
	})
}

func (s *TeamService) RemoveMember(ctx context.Context, caller Caller, teamID, userID string) (dto.TeamDTO, error) {
	return s.mutate(ctx, caller, teamID, func(t *team.Team) error {
		return t.RemoveMember(userID, caller.UserID)
	})
}

func (s *TeamService) UpdateMemberRole(ctx context.Context, caller Caller, teamID, userID, role string) (dto.TeamDTO, error) {
	return s.mutate(ctx, caller, teamID, func(t *team.Team) error {
		return t.ChangeMemberRole(userID, role, caller.UserID)
	})
}

func (s *TeamService) ListMembers(ctx context.Context, teamID string) ([]dto.TeamMemberDTO, error) {
	t, err := s.load(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return dto.FromMembers(t.Members()), nil
}

// ListUserTeams - команды, в которых состоит пользователь
func (s *TeamService) ListUserTeams(ctx context.Context, userID string, page, pageSize int) (dto.Page[dto.TeamDTO], error) {
	member, err := vo.RequiredRef("User ID", userID)
	if err != nil {
		return dto.Page[dto.TeamDTO]{}, err
	}
	page, limit, offset := pageWindow(page, pageSize)

	teams, total, err := s.repo.FindMany(ctx, team.Filter{MemberUserID: member, Limit: limit, Offset: offset})
	if err != nil {
		return dto.Page[dto.TeamDTO]{}, translate(err, resourceTeam, "list")
	}
	return dto.NewPage(dto.FromTeams(teams), total, page, limit), nil
}

// mutate - общий путь для операций над участниками: загрузка, одна мутация, сохранение
func (s *TeamService) mutate(ctx context.Context, caller Caller, teamID string, apply func(*team.Team) error) (dto.TeamDTO, error) {
	if err := caller.require(); err != nil {
		return dto.TeamDTO{}, err
	}
	t, err := s.load(ctx, teamID)
	if err != nil {
		return dto.TeamDTO{}, err
	}
	if err := apply(t); err != nil {
		if errs.Is(err, errs.KindForbidden) {
			logger.Warn("Service: Недостаточно прав в команде",
				zap.String("team_id", teamID),
				zap.String("actor_id", caller.UserID),
			)
		}
		return dto.TeamDTO{}, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return dto.TeamDTO{}, translate(err, resourceTeam, teamID)
	}
	return dto.FromTeam(t), nil
}

func (s *TeamService) load(ctx context.Context, rawID string) (*team.Team, error) {
	id, err := vo.ParseID("Team ID", rawID)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, resourceTeam, rawID)
	}
	return t, nil
}
