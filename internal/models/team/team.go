package team

import (
	"suru/internal/errs"
	"suru/internal/models/vo"
	"time"

	"github.com/google/uuid"
)

const InitialVersion = 1

// Member - участник команды, живёт только внутри агрегата Team
type Member struct {
	UserID   string
	TeamID   uuid.UUID
	Role     Role
	JoinedAt time.Time
}

func (m Member) IsOwner() bool {
	return m.Role.IsOwner()
}

type Team struct {
	id          uuid.UUID
	name        Name
	description string
	createdBy   string
	members     []Member
	createdAt   time.Time
	updatedAt   time.Time
	version     int
}

type Snapshot struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedBy   string
	Members     []Member
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int
}

// New создаёт команду, создатель сразу становится владельцем
func New(name, description, createdBy string) (*Team, error) {
	parsed, err := NewName(name)
	if err != nil {
		return nil, err
	}
	creator, err := vo.RequiredRef("Created by", createdBy)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := vo.NewID()
	return &Team{
		id:          id,
		name:        parsed,
		description: deref(vo.OptionalText(&description)),
		createdBy:   creator,
		members: []Member{{
			UserID:   creator,
			TeamID:   id,
			Role:     RoleOwner,
			JoinedAt: now,
		}},
		createdAt: now,
		updatedAt: now,
		version:   InitialVersion,
	}, nil
}

func Reconstitute(s Snapshot) *Team {
	return &Team{
		id:          s.ID,
		name:        Name{value: s.Name},
		description: s.Description,
		createdBy:   s.CreatedBy,
		members:     append([]Member{}, s.Members...),
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
		version:     s.Version,
	}
}

func (t *Team) Snapshot() Snapshot {
	return Snapshot{
		ID:          t.id,
		Name:        t.name.String(),
		Description: t.description,
		CreatedBy:   t.createdBy,
		Members:     t.Members(),
		CreatedAt:   t.createdAt,
		UpdatedAt:   t.updatedAt,
		Version:     t.version,
	}
}

// UpdateDetails: nil - поле не меняется, пустое описание очищает его
func (t *Team) UpdateDetails(name, description *string) error {
	if name == nil && description == nil {
		return errs.Invariant("No changes provided")
	}
	newName := t.name
	if name != nil {
		parsed, err := NewName(*name)
		if err != nil {
			return err
		}
		newName = parsed
	}

	t.name = newName
	if description != nil {
		t.description = deref(vo.OptionalText(description))
	}
	t.touch()
	return nil
}

// AddMember проверяет членство и права до разбора роли
func (t *Team) AddMember(userID, rawRole, addedBy string) error {
	userID, err := vo.RequiredRef("User ID", userID)
	if err != nil {
		return err
	}
	if t.IsMember(userID) {
		return errs.Conflict("User is already a member of this team", nil)
	}
	if !t.canManage(addedBy) {
		return errs.Forbidden("Only owner or admin can add members")
	}
	role, err := ParseRole(rawRole)
	if err != nil {
		return err
	}
	if role.IsOwner() {
		return errs.Invariant("Team can only have one owner")
	}

	t.members = append(t.members, Member{
		UserID:   userID,
		TeamID:   t.id,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	})
	t.touch()
	return nil
}

func (t *Team) RemoveMember(userID, removedBy string) error {
	idx := t.indexOf(userID)
	if idx < 0 {
		return errs.Invariant("User is not a member of this team")
	}
	if t.members[idx].IsOwner() {
		return errs.Invariant("Cannot remove team owner")
	}
	if !t.canManage(removedBy) {
		return errs.Forbidden("Only owner or admin can remove members")
	}

	t.members = append(t.members[:idx:idx], t.members[idx+1:]...)
	t.touch()
	return nil
}

func (t *Team) ChangeMemberRole(userID, rawRole, changedBy string) error {
	idx := t.indexOf(userID)
	if idx < 0 {
		return errs.Invariant("User is not a member of this team")
	}
	if t.members[idx].IsOwner() {
		return errs.Invariant("Cannot change owner role")
	}
	if !t.canManage(changedBy) {
		return errs.Forbidden("Only owner or admin can change member roles")
	}
	role, err := ParseRole(rawRole)
	if err != nil {
		return err
	}
	if role.IsOwner() {
		return errs.Invariant("Team can only have one owner")
	}

	t.members[idx].Role = role
	t.touch()
	return nil
}

// Member возвращает копию участника
func (t *Team) Member(userID string) (Member, bool) {
	idx := t.indexOf(userID)
	if idx < 0 {
		return Member{}, false
	}
	return t.members[idx], true
}

func (t *Team) IsMember(userID string) bool {
	return t.indexOf(userID) >= 0
}

func (t *Team) MemberCount() int {
	return len(t.members)
}

func (t *Team) Members() []Member {
	return append([]Member{}, t.members...)
}

// Owner - единственный участник с ролью OWNER
func (t *Team) Owner() (Member, bool) {
	for _, m := range t.members {
		if m.IsOwner() {
			return m, true
		}
	}
	return Member{}, false
}

// CanDelete - удалять команду может только владелец
func (t *Team) CanDelete(userID string) bool {
	m, ok := t.Member(userID)
	return ok && m.Role.CanDeleteTeam()
}

func (t *Team) canManage(actorID string) bool {
	m, ok := t.Member(actorID)
	return ok && m.Role.CanManageMembers()
}

func (t *Team) indexOf(userID string) int {
	for i, m := range t.members {
		if m.UserID == userID {
			return i
		}
	}
	return -1
}

func (t *Team) touch() {
	t.updatedAt = time.Now().UTC()
	t.version++
}

func (t *Team) ID() uuid.UUID { return t.id }
func (t *Team) Name() Name { return t.name }
func (t *Team) Description() string { return t.description }
func (t *Team) CreatedBy() string { return t.createdBy }
func (t *Team) CreatedAt() time.Time { return t.createdAt }
func (t *Team) UpdatedAt() time.Time { return t.updatedAt }
func (t *Team) Version() int { return t.version }

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

type Filter struct {
	CreatedBy    string
	MemberUserID string
	Limit        int
	Offset       int
}

func (f Filter) Matches(t *Team) bool {
	if f.CreatedBy != "" && t.createdBy != f.CreatedBy {
		return false
	}
	if f.MemberUserID != "" && !t.IsMember(f.MemberUserID) {
		return false
	}
	return true
}
