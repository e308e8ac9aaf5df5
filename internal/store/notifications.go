package store

import (
	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/notify"
)

// Notifications returns a copy of the notification list, newest first
func (s *Store) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Notification(nil), s.notifications...)
}

// UnreadCount counts unread notifications
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return notify.UnreadCount(s.notifications)
}

// RecomputeNotifications regenerates the project-derived notifications.
// It runs after every change to the project list and does nothing until
// the user is signed in with at least one project.
func (s *Store) RecomputeNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || len(s.projects) == 0 {
		return
	}
	s.notifications = notify.Reconcile(s.notifications, s.projects, s.now())
	if err := s.persistLocked(); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist notifications")
	}
}

// PushNotification adds an ad hoc notification at the front
func (s *Store) PushNotification(n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, changed := notify.Push(s.notifications, n)
	if !changed {
		return nil
	}
	s.notifications = list
	return s.persistLocked()
}

// ReportError records a failed operation as an error notification
func (s *Store) ReportError(title string, err error) error {
	return s.PushNotification(notify.Failure(s.newID(), title, err))
}

// MarkRead marks one notification read
func (s *Store) MarkRead(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = notify.MarkRead(s.notifications, id)
	return s.persistLocked()
}

// MarkAllRead marks every notification read
func (s *Store) MarkAllRead() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = notify.MarkAllRead(s.notifications)
	return s.persistLocked()
}

// ClearNotifications removes every notification
func (s *Store) ClearNotifications() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
	return s.persistLocked()
}

// persistLocked saves the list under the signed-in user's email. Callers hold mu.
func (s *Store) persistLocked() error {
	if s.user == nil || s.user.Email == "" {
		return nil
	}
	return s.db.SaveNotifications(s.user.Email, s.notifications)
}
