// Package store holds the client's session, projects, team and notifications.
//
// Every mutating operation calls the backend without holding the lock and
// applies the response afterwards, so overlapping calls for the same entity
// resolve as last response wins.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tgienger/projexis/internal/api"
	"github.com/tgienger/projexis/internal/db"
	"github.com/tgienger/projexis/internal/models"
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrProjectNotFound  = errors.New("project not found")
	ErrSubtaskNotFound  = errors.New("subtask not found")
	ErrMemberNotFound   = errors.New("team member not found")
)

type Store struct {
	api    *api.Client
	db     *db.DB
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string

	mu             sync.RWMutex
	user           *models.User
	projects       []models.Project
	team           []models.TeamMember
	notifications  []models.Notification
	unreadMessages int
}

type Option func(*Store)

// WithClock replaces the wall clock used for deadline notifications
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator replaces the generator used for ad hoc notification ids
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

func New(client *api.Client, database *db.DB, logger zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		api:    client,
		db:     database,
		logger: logger.With().Str("component", "store").Logger(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticated reports whether a session is active
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns the signed-in user
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Login signs in with email and password
func (s *Store) Login(ctx context.Context, email, password string) error {
	session, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.startSession(ctx, session)
}

// Register creates an account and signs in
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	session, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	return s.startSession(ctx, session)
}

// AcceptInvite completes an invitation and signs in
func (s *Store) AcceptInvite(ctx context.Context, inviteToken, password string) error {
	session, err := s.api.AcceptInvite(ctx, inviteToken, password)
	if err != nil {
		return err
	}
	return s.startSession(ctx, session)
}

func (s *Store) startSession(ctx context.Context, session *api.Session) error {
	if err := s.db.SaveSession(session.Token, session.User); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := s.activate(session.Token, session.User); err != nil {
		return err
	}

	s.logger.Info().Str("user", session.User.Email).Msg("signed in")
	if err := s.Reload(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("initial load incomplete")
	}
	return nil
}

// activate installs the session in memory along with the user's stored notifications
func (s *Store) activate(token string, user models.User) error {
	stored, err := s.db.Notifications(user.Email)
	if err != nil {
		// Unreadable history must not lock the account out
		s.logger.Warn().Err(err).Str("user", user.Email).Msg("discarding unreadable notifications")
		if err := s.db.DeleteNotifications(user.Email); err != nil {
			return fmt.Errorf("delete notifications: %w", err)
		}
		stored = nil
	}

	s.api.SetToken(token)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.projects = nil
	s.team = nil
	s.unreadMessages = 0
	s.notifications = stored
	return nil
}

// Restore resumes the persisted session without fetching the profile.
// It reports false when there is no usable session on disk.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	token, err := s.db.Token()
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	user, err := s.db.User()
	if err != nil {
		s.logger.Warn().Err(err).Msg("discarding unreadable session")
		return false, s.db.ClearSession()
	}
	if tokenExpired(token, s.now()) {
		s.logger.Info().Str("user", user.Email).Msg("session expired")
		return false, s.db.ClearSession()
	}

	if err := s.activate(token, *user); err != nil {
		return false, err
	}
	if err := s.Reload(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("reload after restore incomplete")
	}
	return true, nil
}

// tokenExpired reads the exp claim without verifying the signature.
// Tokens that are not JWTs or carry no exp are treated as live.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}

// Logout clears the session and everything held for it, in memory and on disk
func (s *Store) Logout() error {
	s.mu.Lock()
	email := ""
	if s.user != nil {
		email = s.user.Email
	}
	s.user = nil
	s.projects = nil
	s.team = nil
	s.notifications = nil
	s.unreadMessages = 0
	s.mu.Unlock()

	s.api.SetToken("")
	if err := s.db.ClearSession(); err != nil {
		return err
	}
	if email != "" {
		if err := s.db.DeleteNotifications(email); err != nil {
			return err
		}
	}
	s.logger.Info().Str("user", email).Msg("signed out")
	return nil
}

// Reload fetches projects and team concurrently and replaces the local lists.
// A failed list keeps its previous contents.
func (s *Store) Reload(ctx context.Context) error {
	var (
		wg       sync.WaitGroup
		projects []models.Project
		team     []models.TeamMember
		projErr  error
		teamErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		projects, projErr = s.api.ListProjects(ctx)
	}()
	go func() {
		defer wg.Done()
		team, teamErr = s.api.ListTeam(ctx)
	}()
	wg.Wait()

	s.mu.Lock()
	if projErr == nil {
		s.projects = projects
	}
	if teamErr == nil {
		s.team = team
	}
	s.mu.Unlock()

	if projErr != nil {
		s.logger.Error().Err(projErr).Msg("failed to load projects")
	}
	if teamErr != nil {
		s.logger.Error().Err(teamErr).Msg("failed to load team")
	}
	if projErr == nil {
		s.RecomputeNotifications()
	}
	return errors.Join(projErr, teamErr)
}

// UpdateProfile updates the signed-in user's profile and re-persists it
func (s *Store) UpdateProfile(ctx context.Context, input models.ProfileInput) (*models.User, error) {
	if !s.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	user, err := s.api.UpdateProfile(ctx, input)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to update profile")
		return nil, err
	}

	s.mu.Lock()
	if user.ID == "" && s.user != nil {
		user.ID = s.user.ID
	}
	u := *user
	s.user = &u
	s.mu.Unlock()

	if err := s.db.SaveUser(u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// UpdatePassword changes the signed-in user's password
func (s *Store) UpdatePassword(ctx context.Context, current, next string) error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	return s.api.UpdatePassword(ctx, current, next)
}
