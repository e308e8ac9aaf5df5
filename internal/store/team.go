package store

import (
	"context"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/notify"
)

// Team returns a copy of the team list
func (s *Store) Team() []models.TeamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TeamMember(nil), s.team...)
}

func (s *Store) memberIndex(id string) int {
	for i, m := range s.team {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) replaceMember(id string, m models.TeamMember) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.memberIndex(id); i >= 0 {
		s.team[i] = m
	}
}

// CreateTeamMember adds a member and records an invitation notification
func (s *Store) CreateTeamMember(ctx context.Context, input models.TeamMemberInput) (*models.TeamMember, error) {
	m, err := s.api.CreateTeamMember(ctx, input)
	if err != nil {
		s.logger.Error().Err(err).Str("email", input.Email).Msg("failed to add team member")
		return nil, err
	}

	s.mu.Lock()
	s.team = append(s.team, *m)
	s.mu.Unlock()

	id := m.ID
	if id == "" {
		id = s.newID()
	}
	invited := models.TeamMember{Name: input.Name, Email: input.Email, Role: input.Role}
	if err := s.PushNotification(notify.TeamMemberInvited(id, invited)); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist invitation notification")
	}
	return m, nil
}

// UpdateTeamMember replaces a member with the server's updated copy
func (s *Store) UpdateTeamMember(ctx context.Context, id string, input models.TeamMemberInput) (*models.TeamMember, error) {
	m, err := s.api.UpdateTeamMember(ctx, id, input)
	if err != nil {
		s.logger.Error().Err(err).Str("member", id).Msg("failed to update team member")
		return nil, err
	}
	s.replaceMember(id, *m)
	return m, nil
}

// EditTeamMember applies edit to the member's current fields and sends the update
func (s *Store) EditTeamMember(ctx context.Context, id string, edit func(*models.TeamMemberInput)) (*models.TeamMember, error) {
	s.mu.RLock()
	i := s.memberIndex(id)
	var input models.TeamMemberInput
	if i >= 0 {
		input = s.team[i].Input()
	}
	s.mu.RUnlock()
	if i < 0 {
		return nil, ErrMemberNotFound
	}
	edit(&input)
	return s.UpdateTeamMember(ctx, id, input)
}

// PromoteTeamMember grants a member elevated rights
func (s *Store) PromoteTeamMember(ctx context.Context, id string) (*models.TeamMember, error) {
	m, err := s.api.PromoteTeamMember(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("member", id).Msg("failed to promote team member")
		return nil, err
	}
	s.replaceMember(id, *m)
	return m, nil
}

// ResendInvite re-sends a pending member's invitation
func (s *Store) ResendInvite(ctx context.Context, id string) error {
	if err := s.api.ResendInvite(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("member", id).Msg("failed to resend invite")
		return err
	}
	return nil
}

// DeleteTeamMember removes a member
func (s *Store) DeleteTeamMember(ctx context.Context, id string) error {
	if err := s.api.DeleteTeamMember(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("member", id).Msg("failed to delete team member")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.memberIndex(id); i >= 0 {
		s.team = append(s.team[:i:i], s.team[i+1:]...)
	}
	return nil
}
