package db

import (
	"encoding/json"
	"errors"

	"github.com/tgienger/projexis/internal/models"
)

const (
	tokenKey         = "projexis_token"
	userKey          = "projexis_user"
	notificationsKey = "projexis_notifs_"
)

// NotificationsKey returns the storage key for a user's notifications
func NotificationsKey(email string) string {
	return notificationsKey + email
}

// Token returns the persisted session token
func (db *DB) Token() (string, error) {
	return db.Get(tokenKey)
}

// User returns the persisted session user
func (db *DB) User() (*models.User, error) {
	raw, err := db.Get(userKey)
	if err != nil {
		return nil, err
	}
	u := &models.User{}
	if err := json.Unmarshal([]byte(raw), u); err != nil {
		return nil, err
	}
	return u, nil
}

// SaveSession persists the token and user profile together
func (db *DB) SaveSession(token string, user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := tx.Exec(upsert, tokenKey, token); err != nil {
		return err
	}
	if _, err := tx.Exec(upsert, userKey, string(data)); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveUser replaces the persisted session user
func (db *DB) SaveUser(user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return db.Set(userKey, string(data))
}

// ClearSession removes the persisted token and user
func (db *DB) ClearSession() error {
	_, err := db.Exec("DELETE FROM kv WHERE key IN (?, ?)", tokenKey, userKey)
	return err
}

// Notifications returns the persisted notifications for email; nil when none are stored
func (db *DB) Notifications(email string) ([]models.Notification, error) {
	raw, err := db.Get(NotificationsKey(email))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []models.Notification
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SaveNotifications persists the notification list for email
func (db *DB) SaveNotifications(email string, list []models.Notification) error {
	if list == nil {
		list = []models.Notification{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return db.Set(NotificationsKey(email), string(data))
}

// DeleteNotifications removes the persisted notifications for email
func (db *DB) DeleteNotifications(email string) error {
	return db.Delete(NotificationsKey(email))
}
