package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/aditotot/Spinner/models"
	"github.com/aditotot/Spinner/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistration(t *testing.T) (*RegistrationService, *State, *fakeNotifier) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(filepath.Join(t.TempDir(), "data.json"), nil, logger)
	state := NewState(models.NewTournamentState())
	notifier := newFakeNotifier()
	return NewRegistrationService(state, st, notifier, logger), state, notifier
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestRegistration(t)

	_, err := svc.Register(context.Background(), "u1", "alpha", "   ", "EU")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.Register(context.Background(), "u1", "alpha", "Alpha", "MOON")
	assert.ErrorIs(t, err, ErrInvalidRegion)
}

func TestRegisterUpsertsByIdentity(t *testing.T) {
	svc, _, _ := newTestRegistration(t)

	reg, err := svc.Register(context.Background(), "u1", "alpha", "Alpha", "eu")
	require.NoError(t, err)
	assert.Equal(t, "EU", reg.Region, "region is stored normalized")

	// Re-registration under the same user overwrites in place.
	_, err = svc.Register(context.Background(), "u1", "alpha", "AlphaPrime", "INDIA")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "u2", "bravo", "Bravo", "USW")
	require.NoError(t, err)

	regs := svc.state.Registrations()
	require.Len(t, regs, 2)
	assert.Equal(t, "AlphaPrime", regs[0].IGN)
	assert.Equal(t, "INDIA", regs[0].Region)
	assert.Equal(t, "Bravo", regs[1].IGN)
}

func TestRegisterAssignsParticipantRole(t *testing.T) {
	svc, state, notifier := newTestRegistration(t)

	data := state.lock()
	data.Config.ParticipantRoleID = "participant-role"
	state.unlock()

	_, err := svc.Register(context.Background(), "u1", "alpha", "Alpha", "EU")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, notifier.assignedRoleUsers)
}

func TestGroupedNamesPartition(t *testing.T) {
	svc, _, _ := newTestRegistration(t)

	for _, reg := range []struct{ id, ign, region string }{
		{"u1", "Alpha", "USW"},
		{"u2", "Bravo", "EU"},
		{"u3", "Charlie", "INDIA"},
		{"u4", "Delta", "ASIA"},
	} {
		_, err := svc.Register(context.Background(), reg.id, reg.id, reg.ign, reg.region)
		require.NoError(t, err)
	}

	groups := svc.GroupedNames()
	assert.Equal(t, []string{"Alpha", "Bravo"}, groups[models.RegionGroup1])
	assert.Equal(t, []string{"Charlie", "Delta"}, groups[models.RegionGroup2])
}

func TestNamesByRegionIsCaseInsensitive(t *testing.T) {
	svc, _, _ := newTestRegistration(t)

	_, err := svc.Register(context.Background(), "u1", "alpha", "Alpha", "EU")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "u2", "bravo", "Bravo", "INDIA")
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha"}, svc.NamesByRegion("eu"))
	assert.Empty(t, svc.NamesByRegion("AU"))
}

func TestGroupedRegistrationsTotal(t *testing.T) {
	svc, _, _ := newTestRegistration(t)

	_, err := svc.Register(context.Background(), "u1", "alpha", "Alpha", "EU")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "u2", "bravo", "Bravo", "AU")
	require.NoError(t, err)

	groups, total := svc.GroupedRegistrations()
	assert.Equal(t, 2, total)
	require.Len(t, groups[models.RegionGroup1], 1)
	assert.Equal(t, "u1", groups[models.RegionGroup1][0].UserID)
	require.Len(t, groups[models.RegionGroup2], 1)
	assert.Equal(t, "u2", groups[models.RegionGroup2][0].UserID)
}
