package views

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// requestTimeout bounds every backend call started from a view
const requestTimeout = 30 * time.Second

// SelectedProject signals that a project was opened
type SelectedProject struct {
	ID string
}

// BackToProjects signals to go back to project list
type BackToProjects struct{}

// ShowNotifications opens the notifications panel
type ShowNotifications struct{}

// ShowTeam opens the team list
type ShowTeam struct{}

// LoggedIn signals that a session is active
type LoggedIn struct{}

// LogoutRequested asks the app to end the session
type LogoutRequested struct{}

// NotificationsChanged asks the app to refresh its header counts
type NotificationsChanged struct{}

// ErrMsg reports a failed operation to the app
type ErrMsg struct {
	Title string
	Err   error
}

func (e ErrMsg) Error() string {
	return e.Title + ": " + e.Err.Error()
}

func fail(title string, err error) tea.Msg {
	return ErrMsg{Title: title, Err: err}
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
