package ui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/tgienger/projexis/internal/api"
	"github.com/tgienger/projexis/internal/api/apitest"
	"github.com/tgienger/projexis/internal/db"
	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/store"
	"github.com/tgienger/projexis/internal/ui/views"
)

func newSignedInStore(t *testing.T) (*store.Store, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(t)
	srv.SetProjects(apitest.Project{
		ID:     "p1",
		Name:   "Website",
		Status: "In Progress",
		Tasks:  []apitest.Task{{ID: "t1", Subtasks: []apitest.Subtask{{ID: "s1"}}}},
	})

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	client := api.New(srv.BaseURL(), 5*time.Second, zerolog.Nop())
	s := store.New(client, database, zerolog.Nop())
	if err := s.Login(context.Background(), srv.User().Email, apitest.Password); err != nil {
		t.Fatal(err)
	}
	return s, srv
}

func TestNewAppStartsOnLoginWithoutSession(t *testing.T) {
	srv := apitest.NewServer(t)
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()
	s := store.New(api.New(srv.BaseURL(), time.Second, zerolog.Nop()), database, zerolog.Nop())

	app := NewApp(s, zerolog.Nop(), time.Minute)
	if app.currentView != ViewLogin {
		t.Errorf("currentView = %v, want ViewLogin", app.currentView)
	}
}

func TestNavigation(t *testing.T) {
	s, _ := newSignedInStore(t)
	app := NewApp(s, zerolog.Nop(), time.Minute)
	if app.currentView != ViewProjects {
		t.Fatalf("currentView = %v, want ViewProjects", app.currentView)
	}

	app.Update(views.SelectedProject{ID: "p1"})
	if app.currentView != ViewTasks || app.taskList == nil {
		t.Errorf("after SelectedProject currentView = %v", app.currentView)
	}

	app.Update(views.ShowNotifications{})
	if app.currentView != ViewNotifications {
		t.Errorf("after ShowNotifications currentView = %v", app.currentView)
	}

	app.Update(views.ShowTeam{})
	if app.currentView != ViewTeam {
		t.Errorf("after ShowTeam currentView = %v", app.currentView)
	}

	app.Update(views.BackToProjects{})
	if app.currentView != ViewProjects {
		t.Errorf("after BackToProjects currentView = %v", app.currentView)
	}
}

func TestStaleTicksAreIgnored(t *testing.T) {
	s, _ := newSignedInStore(t)
	app := NewApp(s, zerolog.Nop(), time.Minute)
	app.Init()
	current := app.pollGen

	if _, cmd := app.Update(pollTickMsg{gen: current - 1}); cmd != nil {
		t.Error("stale tick scheduled a poll")
	}
	if _, cmd := app.Update(pollTickMsg{gen: current}); cmd == nil {
		t.Error("current tick did not schedule a poll")
	}

	app.Update(views.LogoutRequested{})
	if app.currentView != ViewLogin {
		t.Fatalf("currentView = %v, want ViewLogin", app.currentView)
	}
	if _, cmd := app.Update(pollTickMsg{gen: current}); cmd != nil {
		t.Error("tick from the previous session scheduled a poll")
	}
	if s.Authenticated() {
		t.Error("store still authenticated after logout")
	}
}

func TestErrorsBecomeNotifications(t *testing.T) {
	s, _ := newSignedInStore(t)
	app := NewApp(s, zerolog.Nop(), time.Minute)

	app.Update(views.ErrMsg{Title: "Could not update subtask", Err: errors.New("Database unavailable")})

	if !app.statusIsErr || app.status != "Could not update subtask: Database unavailable" {
		t.Errorf("status = %q (err %v)", app.status, app.statusIsErr)
	}
	list := s.Notifications()
	if len(list) == 0 || list[0].Type != models.NotificationError || list[0].Message != "Database unavailable" {
		t.Errorf("notifications = %+v", list)
	}
	if app.unread != s.UnreadCount() {
		t.Errorf("header unread = %d, want %d", app.unread, s.UnreadCount())
	}

	// any key clears the status line
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	if app.status != "" {
		t.Errorf("status = %q after key press", app.status)
	}
}
