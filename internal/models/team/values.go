package team

import (
	"suru/internal/errs"
	"suru/internal/models/vo"
)

const (
	NameMinLength = 1
	NameMaxLength = 100
)

type Name struct {
	value string
}

func NewName(raw string) (Name, error) {
	value, err := vo.BoundedText("Team name", raw, NameMinLength, NameMaxLength)
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

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleOwner, RoleAdmin, RoleMember:
		return Role(raw), nil
	}
	return "", errs.Validation("role", errs.RuleEnum, "Invalid team role: "+raw)
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsOwner() bool {
	return r == RoleOwner
}

func (r Role) CanManageMembers() bool {
	return r == RoleOwner || r == RoleAdmin
}

func (r Role) CanManageProjects() bool {
	return r == RoleOwner || r == RoleAdmin
}

func (r Role) CanDeleteTeam() bool {
	return r == RoleOwner
}
