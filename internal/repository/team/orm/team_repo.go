package orm

import (
	"context"
	"fmt"
	"suru/internal/logger"
	"suru/internal/models/team"
	"suru/internal/repository/orm"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TeamStorage хранит команду в двух таблицах, участники переписываются целиком
// в той же транзакции, что и CAS по версии команды
type TeamStorage struct {
	db *gorm.DB
}

func NewTeamStorage(db *gorm.DB) *TeamStorage {
	return &TeamStorage{db: db}
}

func (s *TeamStorage) Save(ctx context.Context, t *team.Team) error {
	snap := t.Snapshot()
	err := orm.Tx(ctx, s.db, func(tx *gorm.DB) error {
		if snap.Version == team.InitialVersion {
			if err := orm.Insert(tx, toTeamRecord(snap)); err != nil {
				return err
			}
		} else {
			values := map[string]any{
				"name":        snap.Name,
				"description": snap.Description,
				"updated_at":  snap.UpdatedAt,
			}
			if err := orm.CompareAndSwap(tx, &orm.TeamRecord{}, snap.ID, snap.Version, values); err != nil {
				return err
			}
			if err := tx.Where("team_id = ?", snap.ID).Delete(&orm.MemberRecord{}).Error; err != nil {
				return fmt.Errorf("очистка участников: %w", err)
			}
		}

		members := toMemberRecords(snap)
		if len(members) == 0 {
			return nil
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		logger.Warn("Repository: Команда не сохранена",
			zap.String("team_id", snap.ID.String()),
			zap.Int("version", snap.Version),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *TeamStorage) FindByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	var record orm.TeamRecord
	if err := orm.First(ctx, s.db, &record, id); err != nil {
		return nil, err
	}
	teams, err := s.withMembers(ctx, []orm.TeamRecord{record})
	if err != nil {
		return nil, err
	}
	return teams[0], nil
}

func (s *TeamStorage) FindMany(ctx context.Context, filter team.Filter) ([]*team.Team, int, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.CreatedBy != "" {
			db = db.Where("created_by = ?", filter.CreatedBy)
		}
		if filter.MemberUserID != "" {
			db = db.Where("id IN (?)", s.db.Model(&orm.MemberRecord{}).Select("team_id").Where("user_id = ?", filter.MemberUserID))
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&orm.TeamRecord{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("подсчёт команд: %w", err)
	}

	var records []orm.TeamRecord
	err := s.db.WithContext(ctx).Scopes(scope, orm.Paginate(filter.Limit, filter.Offset)).
		Order("created_at, id").
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("получение команд: %w", err)
	}

	teams, err := s.withMembers(ctx, records)
	if err != nil {
		return nil, 0, err
	}
	return teams, int(total), nil
}

func (s *TeamStorage) Delete(ctx context.Context, id uuid.UUID) error {
	return orm.Tx(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&orm.MemberRecord{}).Error; err != nil {
			return err
		}
		return orm.DeleteByID(ctx, tx, &orm.TeamRecord{}, id)
	})
}

func (s *TeamStorage) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return orm.Exists(ctx, s.db, &orm.TeamRecord{}, id)
}

func (s *TeamStorage) withMembers(ctx context.Context, records []orm.TeamRecord) ([]*team.Team, error) {
	teams := make([]*team.Team, 0, len(records))
	if len(records) == 0 {
		return teams, nil
	}

	ids := make([]uuid.UUID, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	var members []orm.MemberRecord
	if err := s.db.WithContext(ctx).Where("team_id IN ?", ids).Order("position").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("получение участников: %w", err)
	}

	byTeam := make(map[uuid.UUID][]team.Member, len(records))
	for _, m := range members {
		byTeam[m.TeamID] = append(byTeam[m.TeamID], team.Member{
			UserID:   m.UserID,
			TeamID:   m.TeamID,
			Role:     team.Role(m.Role),
			JoinedAt: m.JoinedAt,
		})
	}

	for _, r := range records {
		teams = append(teams, team.Reconstitute(team.Snapshot{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			CreatedBy:   r.CreatedBy,
			Members:     byTeam[r.ID],
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
			Version:     r.Version,
		}))
	}
	return teams, nil
}

func toTeamRecord(s team.Snapshot) *orm.TeamRecord {
	return &orm.TeamRecord{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Version:     s.Version,
	}
}

func toMemberRecords(s team.Snapshot) []orm.MemberRecord {
	records := make([]orm.MemberRecord, len(s.Members))
	for i, m := range s.Members {
		records[i] = orm.MemberRecord{
			TeamID:   s.ID,
			UserID:   m.UserID,
			Role:     m.Role.String(),
			JoinedAt: m.JoinedAt,
			Position: i,
		}
	}
	return records
}
