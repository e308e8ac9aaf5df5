package db

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/tgienger/projexis/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestGetSetDelete(t *testing.T) {
	database := openTestDB(t)

	if _, err := database.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := database.Set("k", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := database.Set("k", "v2"); err != nil {
		t.Fatalf("Set overwrite failed: %v", err)
	}
	got, err := database.Get("k")
	if err != nil || got != "v2" {
		t.Fatalf("Get = %q, %v; want v2", got, err)
	}
	if err := database.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := database.Get("k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	database := openTestDB(t)
	user := models.User{ID: "u1", Name: "Sarah", Email: "sarah@example.com"}

	if err := database.SaveSession("tok", user); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	token, err := database.Token()
	if err != nil || token != "tok" {
		t.Fatalf("Token = %q, %v", token, err)
	}
	got, err := database.User()
	if err != nil {
		t.Fatalf("User failed: %v", err)
	}
	if *got != user {
		t.Errorf("User = %+v, want %+v", *got, user)
	}

	if err := database.ClearSession(); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}
	if _, err := database.Token(); !errors.Is(err, ErrNotFound) {
		t.Errorf("token survived ClearSession: %v", err)
	}
	if _, err := database.User(); !errors.Is(err, ErrNotFound) {
		t.Errorf("user survived ClearSession: %v", err)
	}
}

func TestNotificationsScopedByEmail(t *testing.T) {
	database := openTestDB(t)

	list, err := database.Notifications("a@example.com")
	if err != nil || list != nil {
		t.Fatalf("expected nil list for unknown user, got %v, %v", list, err)
	}

	saved := []models.Notification{{ID: "error-1", Type: models.NotificationError, Read: true}}
	if err := database.SaveNotifications("a@example.com", saved); err != nil {
		t.Fatalf("SaveNotifications failed: %v", err)
	}
	if err := database.SaveNotifications("b@example.com", nil); err != nil {
		t.Fatalf("SaveNotifications failed: %v", err)
	}

	got, err := database.Notifications("a@example.com")
	if err != nil || len(got) != 1 || got[0] != saved[0] {
		t.Errorf("Notifications(a) = %+v, %v", got, err)
	}
	other, err := database.Notifications("b@example.com")
	if err != nil || other == nil || len(other) != 0 {
		t.Errorf("Notifications(b) = %#v, %v; want empty non-nil", other, err)
	}
}
