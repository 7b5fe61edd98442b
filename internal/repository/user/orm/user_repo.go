package orm

import (
	"context"
	"fmt"
	"suru/internal/models/auth"
	repo "suru/internal/repository"
	"suru/internal/repository/orm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStorage struct {
	db *gorm.DB
}

func NewUserStorage(db *gorm.DB) *UserStorage {
	return &UserStorage{db: db}
}

// Save проверяет уникальность почты в той же транзакции, уникальный индекс страхует гонку
func (s *UserStorage) Save(ctx context.Context, u *auth.User) error {
	snap := u.Snapshot()
	return orm.Tx(ctx, s.db, func(tx *gorm.DB) error {
		var taken int64
		err := tx.Model(&orm.UserRecord{}).Where("email = ? AND id <> ?", snap.Email, snap.ID).Count(&taken).Error
		if err != nil {
			return fmt.Errorf("проверка почты: %w", err)
		}
		if taken > 0 {
			return repo.ErrDuplicate
		}

		if snap.Version == auth.UserInitialVersion {
			return orm.Insert(tx, &orm.UserRecord{
				ID:              snap.ID,
				Email:           snap.Email,
				PasswordHash:    snap.PasswordHash,
				IsActive:        snap.IsActive,
				IsEmailVerified: snap.IsEmailVerified,
				CreatedAt:       snap.CreatedAt,
				UpdatedAt:       snap.UpdatedAt,
				Version:         snap.Version,
			})
		}
		return orm.CompareAndSwap(tx, &orm.UserRecord{}, snap.ID, snap.Version, map[string]any{
			"email":             snap.Email,
			"password_hash":     snap.PasswordHash,
			"is_active":         snap.IsActive,
			"is_email_verified": snap.IsEmailVerified,
			"updated_at":        snap.UpdatedAt,
		})
	})
}

func (s *UserStorage) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	var record orm.UserRecord
	if err := orm.First(ctx, s.db, &record, id); err != nil {
		return nil, err
	}
	return fromRecord(record), nil
}

func (s *UserStorage) FindByEmail(ctx context.Context, email auth.Email) (*auth.User, error) {
	var records []orm.UserRecord
	if err := s.db.WithContext(ctx).Where("email = ?", email.String()).Limit(1).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("поиск по почте: %w", err)
	}
	if len(records) == 0 {
		return nil, repo.ErrNotFound
	}
	return fromRecord(records[0]), nil
}

func (s *UserStorage) ExistsByEmail(ctx context.Context, email auth.Email) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&orm.UserRecord{}).Where("email = ?", email.String()).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *UserStorage) FindMany(ctx context.Context, filter auth.UserFilter) ([]*auth.User, int, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.IsActive != nil {
			db = db.Where("is_active = ?", *filter.IsActive)
		}
		if filter.IsEmailVerified != nil {
			db = db.Where("is_email_verified = ?", *filter.IsEmailVerified)
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&orm.UserRecord{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("подсчёт пользователей: %w", err)
	}

	var records []orm.UserRecord
	err := s.db.WithContext(ctx).Scopes(scope, orm.Paginate(filter.Limit, filter.Offset)).
		Order("created_at, id").
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("получение пользователей: %w", err)
	}

	users := make([]*auth.User, len(records))
	for i, r := range records {
		users[i] = fromRecord(r)
	}
	return users, int(total), nil
}

func (s *UserStorage) Delete(ctx context.Context, id uuid.UUID) error {
	return orm.DeleteByID(ctx, s.db, &orm.UserRecord{}, id)
}

func (s *UserStorage) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return orm.Exists(ctx, s.db, &orm.UserRecord{}, id)
}

func fromRecord(r orm.UserRecord) *auth.User {
	return auth.ReconstituteUser(auth.UserSnapshot{
		ID:              r.ID,
		Email:           r.Email,
		PasswordHash:    r.PasswordHash,
		IsActive:        r.IsActive,
		IsEmailVerified: r.IsEmailVerified,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Version:         r.Version,
	})
}
