package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aditotot/Spinner/models"
	"github.com/aditotot/Spinner/notify"
	"github.com/aditotot/Spinner/store"
)

// RegistrationService maintains the participant registry. Registrations
// are never deleted, only overwritten by re-registration under the same
// identity.
type RegistrationService struct {
	state    *State
	store    *store.Store
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewRegistrationService(state *State, st *store.Store, notifier notify.Notifier, logger *slog.Logger) *RegistrationService {
	return &RegistrationService{
		state:    state,
		store:    st,
		notifier: notifier,
		logger:   logger,
	}
}

// Register upserts a participant record keyed by their Discord user id.
// Last write wins, including the in-game name.
func (s *RegistrationService) Register(ctx context.Context, userID, username, ign, region string) (*models.Registration, error) {
	ign = strings.TrimSpace(ign)
	if ign == "" {
		return nil, fmt.Errorf("%w: in-game name is required", ErrValidationFailed)
	}
	region = models.NormalizeRegion(region)
	if !models.IsValidRegion(region) {
		return nil, fmt.Errorf("%w: use one of %s", ErrInvalidRegion, strings.Join(models.Regions, ", "))
	}

	data := s.state.lock()
	defer s.state.unlock()

	reg := models.Registration{
		UserID:   userID,
		Username: username,
		IGN:      ign,
		Region:   region,
	}

	updated := false
	for i := range data.Registrations {
		if data.Registrations[i].UserID == userID {
			data.Registrations[i] = reg
			updated = true
			break
		}
	}
	if !updated {
		data.Registrations = append(data.Registrations, reg)
	}

	if err := s.store.Save(data); err != nil {
		s.logger.Error("failed to persist registrations", slog.Any("error", err))
	}

	if data.Config.ParticipantRoleID != "" {
		if err := s.notifier.AssignRole(ctx, userID, data.Config.ParticipantRoleID); err != nil {
			s.logger.Warn("failed to assign participant role",
				slog.String("user_id", userID), slog.Any("error", err))
		}
	}
	return &reg, nil
}

// GroupedNames partitions registered in-game names by the fixed wheel
// groups.
func (s *RegistrationService) GroupedNames() map[string][]string {
	data := s.state.lock()
	defer s.state.unlock()

	groups := map[string][]string{
		models.RegionGroup1: {},
		models.RegionGroup2: {},
	}
	for _, reg := range data.Registrations {
		group := models.RegionGroup(reg.Region)
		groups[group] = append(groups[group], reg.IGN)
	}
	return groups
}

// NamesByRegion returns the in-game names registered under a region,
// matched case-insensitively.
func (s *RegistrationService) NamesByRegion(region string) []string {
	data := s.state.lock()
	defer s.state.unlock()

	region = models.NormalizeRegion(region)
	names := []string{}
	for _, reg := range data.Registrations {
		if models.NormalizeRegion(reg.Region) == region {
			names = append(names, reg.IGN)
		}
	}
	return names
}

// GroupedRegistrations returns full registration records per wheel group,
// plus the overall total. Used by the registration listing command.
func (s *RegistrationService) GroupedRegistrations() (map[string][]models.Registration, int) {
	data := s.state.lock()
	defer s.state.unlock()

	groups := map[string][]models.Registration{
		models.RegionGroup1: {},
		models.RegionGroup2: {},
	}
	for _, reg := range data.Registrations {
		group := models.RegionGroup(reg.Region)
		groups[group] = append(groups[group], reg)
	}
	return groups, len(data.Registrations)
}
