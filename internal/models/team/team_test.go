package team_test

import (
	"strings"
	"suru/internal/errs"
	"suru/internal/models/team"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTeam(t *testing.T) *team.Team {
	t.Helper()
	tm, err := team.New("Platform", "", "U1")
	require.NoError(t, err)
	return tm
}

func TestNew_CreatorIsOwner(t *testing.T) {
	tm := newTeam(t)

	assert.Equal(t, 1, tm.Version())
	assert.Equal(t, 1, tm.MemberCount())
	assert.Equal(t, tm.CreatedAt(), tm.UpdatedAt())

	owner, ok := tm.Member("U1")
	require.True(t, ok)
	assert.True(t, owner.IsOwner())
	assert.Equal(t, tm.ID(), owner.TeamID)
}

func TestNew_Validation(t *testing.T) {
	_, err := team.New("", "", "U1")
	assert.Equal(t, "Team name is required", errs.MessageOf(err))

	_, err = team.New(strings.Repeat("n", 101), "", "U1")
	assert.Equal(t, "Team name must be between 1 and 100 characters", errs.MessageOf(err))

	_, err = team.New("Platform", "", " ")
	assert.Equal(t, "Created by is required", errs.MessageOf(err))
}

func TestRemoveMember_OwnerProtected(t *testing.T) {
	tm := newTeam(t)

	err := tm.RemoveMember("U1", "U1")
	require.Error(t, err)
	assert.Equal(t, "Cannot remove team owner", errs.MessageOf(err))
	assert.Equal(t, 1, tm.Version())
	assert.Equal(t, 1, tm.MemberCount())
}

func TestAddMember(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		role    string
		addedBy string
		kind    errs.Kind
		message string
	}{
		{name: "owner adds member", userID: "U2", role: "MEMBER", addedBy: "U1"},
		{name: "owner adds admin", userID: "U2", role: "ADMIN", addedBy: "U1"},
		{name: "unknown role", userID: "U2", role: "GUEST", addedBy: "U1", kind: errs.KindValidation, message: "Invalid team role: GUEST"},
		{name: "duplicate", userID: "U1", role: "MEMBER", addedBy: "U1", kind: errs.KindConflict, message: "User is already a member of this team"},
		{name: "outsider", userID: "U2", role: "MEMBER", addedBy: "stranger", kind: errs.KindForbidden, message: "Only owner or admin can add members"},
		{name: "second owner", userID: "U2", role: "OWNER", addedBy: "U1", kind: errs.KindValidation, message: "Team can only have one owner"},
		{name: "member with unknown role", userID: "U1", role: "GUEST", addedBy: "U1", kind: errs.KindConflict, message: "User is already a member of this team"},
		{name: "outsider with unknown role", userID: "U2", role: "GUEST", addedBy: "stranger", kind: errs.KindForbidden, message: "Only owner or admin can add members"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := newTeam(t)
			err := tm.AddMember(tt.userID, tt.role, tt.addedBy)

			if tt.kind == "" {
				require.NoError(t, err)
				assert.Equal(t, 2, tm.MemberCount())
				assert.Equal(t, 2, tm.Version())
				m, ok := tm.Member(tt.userID)
				require.True(t, ok)
				assert.Equal(t, tt.role, m.Role.String())
				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.kind, errs.KindOf(err))
			assert.Equal(t, tt.message, errs.MessageOf(err))
			assert.Equal(t, 1, tm.MemberCount())
			assert.Equal(t, 1, tm.Version())
		})
	}
}

func TestPermissions_MemberCannotManage(t *testing.T) {
	tm := newTeam(t)
	require.NoError(t, tm.AddMember("U2", "MEMBER", "U1"))
	require.NoError(t, tm.AddMember("U3", "ADMIN", "U1"))
	require.Equal(t, 3, tm.Version())

	err := tm.AddMember("U4", "MEMBER", "U2")
	assert.True(t, errs.Is(err, errs.KindForbidden))

	err = tm.RemoveMember("U3", "U2")
	assert.Equal(t, "Only owner or admin can remove members", errs.MessageOf(err))
	assert.True(t, errs.Is(err, errs.KindForbidden))

	err = tm.ChangeMemberRole("U3", "MEMBER", "U2")
	assert.Equal(t, "Only owner or admin can change member roles", errs.MessageOf(err))
	assert.True(t, errs.Is(err, errs.KindForbidden))

	assert.Equal(t, 3, tm.Version())

	// админ может управлять участниками
	require.NoError(t, tm.AddMember("U4", "MEMBER", "U3"))
	require.NoError(t, tm.RemoveMember("U2", "U3"))
	assert.False(t, tm.IsMember("U2"))
	assert.Equal(t, 5, tm.Version())
}

func TestChangeMemberRole(t *testing.T) {
	tm := newTeam(t)
	require.NoError(t, tm.AddMember("U2", "MEMBER", "U1"))

	require.NoError(t, tm.ChangeMemberRole("U2", "ADMIN", "U1"))
	m, _ := tm.Member("U2")
	assert.Equal(t, team.RoleAdmin, m.Role)
	assert.Equal(t, 3, tm.Version())

	err := tm.ChangeMemberRole("U1", "MEMBER", "U2")
	assert.Equal(t, "Cannot change owner role", errs.MessageOf(err))

	err = tm.ChangeMemberRole("nobody", "MEMBER", "U1")
	assert.Equal(t, "User is not a member of this team", errs.MessageOf(err))

	err = tm.ChangeMemberRole("U2", "OWNER", "U1")
	assert.Equal(t, "Team can only have one owner", errs.MessageOf(err))

	// права и членство проверяются раньше роли
	err = tm.ChangeMemberRole("nobody", "GUEST", "U1")
	assert.Equal(t, "User is not a member of this team", errs.MessageOf(err))

	err = tm.ChangeMemberRole("U2", "GUEST", "stranger")
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))

	err = tm.ChangeMemberRole("U2", "GUEST", "U1")
	assert.Equal(t, "Invalid team role: GUEST", errs.MessageOf(err))

	assert.Equal(t, 3, tm.Version())
}

func TestMembers_ReturnsCopy(t *testing.T) {
	tm := newTeam(t)

	members := tm.Members()
	members[0].Role = team.RoleMember
	members = append(members, team.Member{UserID: "intruder"})

	owner, _ := tm.Member("U1")
	assert.True(t, owner.IsOwner())
	assert.False(t, tm.IsMember("intruder"))
	assert.Equal(t, 1, tm.MemberCount())
}

func TestUpdateDetails(t *testing.T) {
	tm := newTeam(t)
	name := "Core"
	desc := "core team"

	require.NoError(t, tm.UpdateDetails(&name, &desc))
	assert.Equal(t, "Core", tm.Name().String())
	assert.Equal(t, "core team", tm.Description())
	assert.Equal(t, 2, tm.Version())

	bad := ""
	err := tm.UpdateDetails(&bad, &desc)
	assert.Equal(t, "Team name is required", errs.MessageOf(err))
	assert.Equal(t, "Core", tm.Name().String())

	err = tm.UpdateDetails(nil, nil)
	assert.Equal(t, "No changes provided", errs.MessageOf(err))
	assert.Equal(t, 2, tm.Version())
}

func TestOwnerAndDeletePermission(t *testing.T) {
	tm := newTeam(t)
	require.NoError(t, tm.AddMember("U2", "ADMIN", "U1"))

	owner, ok := tm.Owner()
	require.True(t, ok)
	assert.Equal(t, "U1", owner.UserID)
	assert.True(t, tm.CanDelete("U1"))
	assert.False(t, tm.CanDelete("U2"))
	assert.False(t, tm.CanDelete("nobody"))
}

func TestReconstitute_RoundTrip(t *testing.T) {
	tm := newTeam(t)
	require.NoError(t, tm.AddMember("U2", "ADMIN", "U1"))

	restored := team.Reconstitute(tm.Snapshot())

	assert.Equal(t, tm.Snapshot(), restored.Snapshot())
	assert.Equal(t, tm.MemberCount(), restored.MemberCount())
	m, ok := restored.Member("U2")
	require.True(t, ok)
	assert.Equal(t, team.RoleAdmin, m.Role)
}

func TestRole_Capabilities(t *testing.T) {
	assert.True(t, team.RoleOwner.CanDeleteTeam())
	assert.False(t, team.RoleAdmin.CanDeleteTeam())
	assert.True(t, team.RoleAdmin.CanManageMembers())
	assert.True(t, team.RoleAdmin.CanManageProjects())
	assert.False(t, team.RoleMember.CanManageMembers())
	assert.False(t, team.RoleMember.CanManageProjects())

	_, err := team.ParseRole("owner")
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestFilter_Matches(t *testing.T) {
	tm := newTeam(t)
	require.NoError(t, tm.AddMember("U2", "MEMBER", "U1"))

	assert.True(t, team.Filter{}.Matches(tm))
	assert.True(t, team.Filter{CreatedBy: "U1", MemberUserID: "U2"}.Matches(tm))
	assert.False(t, team.Filter{MemberUserID: "U3"}.Matches(tm))
	assert.False(t, team.Filter{CreatedBy: "U2"}.Matches(tm))
}
