package orm

import (
	"time"

	"github.com/google/uuid"
)

type TeamRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:100;not null"`
	Description string    `gorm:"not null;default:''"`
	CreatedBy   string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
	Version     int       `gorm:"not null"`
}

func (TeamRecord) TableName() string { return "teams" }

type MemberRecord struct {
	TeamID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID   string    `gorm:"primaryKey;index:idx_team_members_user"`
	Role     string    `gorm:"size:10;not null"`
	JoinedAt time.Time `gorm:"not null"`
	Position int       `gorm:"not null"`
}

func (MemberRecord) TableName() string { return "team_members" }

type ProjectRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:100;not null"`
	Description string    `gorm:"not null;default:''"`
	TeamID      uuid.UUID `gorm:"type:uuid;not null;index:idx_projects_team"`
	Archived    bool      `gorm:"not null"`
	CreatedBy   string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
	Version     int       `gorm:"not null"`
}

func (ProjectRecord) TableName() string { return "projects" }

type UserRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email           string    `gorm:"size:320;not null;uniqueIndex"`
	PasswordHash    string    `gorm:"size:60;not null"`
	IsActive        bool      `gorm:"not null"`
	IsEmailVerified bool      `gorm:"not null"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime:false"`
	Version         int       `gorm:"not null"`
}

func (UserRecord) TableName() string { return "users" }
