package project

import (
	"suru/internal/errs"
	"suru/internal/models/vo"
	"time"

	"github.com/google/uuid"
)

const (
	InitialVersion = 1

	NameMinLength = 1
	NameMaxLength = 100
)

type Name struct {
	value string
}

func NewName(raw string) (Name, error) {
	value, err := vo.BoundedText("Project name", raw, NameMinLength, NameMaxLength)
	if err != nil {
		return Name{}, err
	}
	return Name{value: value}, nil
}

func (n Name) String() string {
	return n.value
}

func (n Name) Equals(other Name) bool {
	return n.value == other.value
}

type Project struct {
	id          uuid.UUID
	name        Name
	description string
	teamID      uuid.UUID
	archived    bool
	createdBy   string
	createdAt   time.Time
	updatedAt   time.Time
	version     int
}

type Snapshot struct {
	ID          uuid.UUID
	Name        string
	Description string
	TeamID      uuid.UUID
	Archived    bool
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int
}

type Filter struct {
	TeamID    *uuid.UUID
	CreatedBy string
	Archived  *bool
	Limit     int
	Offset    int
}

func (f Filter) Matches(p *Project) bool {
	if f.TeamID != nil && p.teamID != *f.TeamID {
		return false
	}
	if f.CreatedBy != "" && p.createdBy != f.CreatedBy {
		return false
	}
	if f.Archived != nil && p.archived != *f.Archived {
		return false
	}
	return true
}

func New(name, description, teamID, createdBy string) (*Project, error) {
	parsed, err := NewName(name)
	if err != nil {
		return nil, err
	}
	team, err := vo.ParseID("Team ID", teamID)
	if err != nil {
		return nil, err
	}
	creator, err := vo.RequiredRef("Created by", createdBy)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Project{
		id:          vo.NewID(),
		name:        parsed,
		description: deref(vo.OptionalText(&description)),
		teamID:      team,
		createdBy:   creator,
		createdAt:   now,
		updatedAt:   now,
		version:     InitialVersion,
	}, nil
}

func Reconstitute(s Snapshot) *Project {
	return &Project{
		id:          s.ID,
		name:        Name{value: s.Name},
		description: s.Description,
		teamID:      s.TeamID,
		archived:    s.Archived,
		createdBy:   s.CreatedBy,
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
		version:     s.Version,
	}
}

func (p *Project) Snapshot() Snapshot {
	return Snapshot{
		ID:          p.id,
		Name:        p.name.String(),
		Description: p.description,
		TeamID:      p.teamID,
		Archived:    p.archived,
		CreatedBy:   p.createdBy,
		CreatedAt:   p.createdAt,
		UpdatedAt:   p.updatedAt,
		Version:     p.version,
	}
}

// UpdateDetails запрещён для архивного проекта
func (p *Project) UpdateDetails(name, description *string) error {
	if p.archived {
		return errs.Invariant("Cannot update archived project")
	}
	if name == nil && description == nil {
		return errs.Invariant("No changes provided")
	}
	newName := p.name
	if name != nil {
		parsed, err := NewName(*name)
		if err != nil {
			return err
		}
		newName = parsed
	}

	p.name = newName
	if description != nil {
		p.description = deref(vo.OptionalText(description))
	}
	p.touch()
	return nil
}

func (p *Project) Archive() error {
	if p.archived {
		return errs.Invariant("Project is already archived")
	}
	p.archived = true
	p.touch()
	return nil
}

func (p *Project) Unarchive() error {
	if !p.archived {
		return errs.Invariant("Project is not archived")
	}
	p.archived = false
	p.touch()
	return nil
}

func (p *Project) touch() {
	p.updatedAt = time.Now().UTC()
	p.version++
}

func (p *Project) ID() uuid.UUID { return p.id }
func (p *Project) Name() Name { return p.name }
func (p *Project) Description() string { return p.description }
func (p *Project) TeamID() uuid.UUID { return p.teamID }
func (p *Project) IsArchived() bool { return p.archived }
func (p *Project) CreatedBy() string { return p.createdBy }
func (p *Project) CreatedAt() time.Time { return p.createdAt }
func (p *Project) UpdatedAt() time.Time { return p.updatedAt }
func (p *Project) Version() int { return p.version }

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
