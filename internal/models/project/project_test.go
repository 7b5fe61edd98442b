package project_test

import (
	"strings"
	"suru/internal/errs"
	"suru/internal/models/project"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject(t *testing.T) *project.Project {
	t.Helper()
	p, err := project.New("Roadmap", "Q3 work", uuid.NewString(), "U1")
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	p := newProject(t)

	assert.Equal(t, 1, p.Version())
	assert.False(t, p.IsArchived())
	assert.Equal(t, "Roadmap", p.Name().String())
	assert.Equal(t, "Q3 work", p.Description())
	assert.Equal(t, p.CreatedAt(), p.UpdatedAt())
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		pname   string
		teamID  string
		message string
	}{
		{name: "empty name", pname: "", teamID: uuid.NewString(), message: "Project name is required"},
		{name: "long name", pname: strings.Repeat("p", 101), teamID: uuid.NewString(), message: "Project name must be between 1 and 100 characters"},
		{name: "missing team", pname: "p", teamID: "", message: "Team ID is required"},
		{name: "bad team", pname: "p", teamID: "team-1", message: "Invalid UUID format: team-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := project.New(tt.pname, "", tt.teamID, "U1")
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.KindValidation))
			assert.Equal(t, tt.message, errs.MessageOf(err))
		})
	}
}

func TestArchivedProjectIsFrozen(t *testing.T) {
	p := newProject(t)
	require.NoError(t, p.Archive())
	assert.Equal(t, 2, p.Version())

	name := "x"
	err := p.UpdateDetails(&name, nil)
	require.Error(t, err)
	assert.Equal(t, "Cannot update archived project", errs.MessageOf(err))
	assert.Equal(t, "Roadmap", p.Name().String())
	assert.Equal(t, 2, p.Version())
}

func TestArchiveUnarchive_RejectNoOps(t *testing.T) {
	p := newProject(t)

	err := p.Unarchive()
	assert.Equal(t, "Project is not archived", errs.MessageOf(err))
	assert.Equal(t, 1, p.Version())

	require.NoError(t, p.Archive())
	err = p.Archive()
	assert.Equal(t, "Project is already archived", errs.MessageOf(err))
	assert.Equal(t, 2, p.Version())

	require.NoError(t, p.Unarchive())
	assert.False(t, p.IsArchived())
	assert.Equal(t, 3, p.Version())
}

func TestUpdateDetails(t *testing.T) {
	p := newProject(t)
	before := p.Snapshot()
	name := "  Renamed "
	empty := ""

	require.NoError(t, p.UpdateDetails(&name, &empty))
	assert.Equal(t, "Renamed", p.Name().String())
	assert.Empty(t, p.Description())
	assert.Equal(t, before.TeamID, p.TeamID())
	assert.Equal(t, before.CreatedBy, p.CreatedBy())
	assert.Equal(t, before.CreatedAt, p.CreatedAt())
	assert.Equal(t, 2, p.Version())
	assert.False(t, p.UpdatedAt().Before(before.UpdatedAt))

	long := strings.Repeat("z", 101)
	err := p.UpdateDetails(&long, nil)
	assert.True(t, errs.Is(err, errs.KindValidation))
	assert.Equal(t, 2, p.Version())
}

func TestReconstitute_RoundTrip(t *testing.T) {
	p := newProject(t)
	require.NoError(t, p.Archive())

	restored := project.Reconstitute(p.Snapshot())
	assert.Equal(t, p.Snapshot(), restored.Snapshot())
	assert.True(t, restored.IsArchived())
}

func TestFilter_Matches(t *testing.T) {
	p := newProject(t)
	teamID := p.TeamID()
	archived := true
	active := false

	assert.True(t, project.Filter{TeamID: &teamID, CreatedBy: "U1", Archived: &active}.Matches(p))
	assert.False(t, project.Filter{Archived: &archived}.Matches(p))
	assert.False(t, project.Filter{CreatedBy: "U2"}.Matches(p))
}
