package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/tgienger/projexis/internal/store"
	"github.com/tgienger/projexis/internal/ui/styles"
	"github.com/tgienger/projexis/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewLogin View = iota
	ViewProjects
	ViewTasks
	ViewNotifications
	ViewTeam
)

// page is what every view implements
type page interface {
	tea.Model
	Refresh() tea.Cmd
}

type App struct {
	store        *store.Store
	logger       zerolog.Logger
	pollInterval time.Duration
	styles       *styles.Styles

	currentView   View
	login         *views.LoginView
	projectList   *views.ProjectListView
	taskList      *views.TaskListView
	notifications *views.NotificationsView
	team          *views.TeamView

	// pollGen invalidates ticks scheduled by an earlier session
	pollGen int

	status      string
	statusIsErr bool
	unread      int
	messages    int

	width  int
	height int
}

// pollTickMsg fires when the next background poll is due
type pollTickMsg struct {
	gen int
}

type polledMsg struct {
	gen   int
	added int
	err   error
}

// Creates a new application
func NewApp(s *store.Store, logger zerolog.Logger, pollInterval time.Duration) *App {
	a := &App{
		store:        s,
		logger:       logger.With().Str("component", "ui").Logger(),
		pollInterval: pollInterval,
		styles:       styles.NewStyles(),
		currentView:  ViewLogin,
		login:        views.NewLoginView(s),
		projectList:  views.NewProjectListView(s),
	}
	if s.Authenticated() {
		a.currentView = ViewProjects
	}
	return a
}

func (a *App) Init() tea.Cmd {
	if a.currentView == ViewLogin {
		return a.login.Init()
	}
	return a.startSession()
}

// startSession shows the project list and starts background polling
func (a *App) startSession() tea.Cmd {
	a.pollGen++
	a.currentView = ViewProjects
	a.refreshCounts()
	gen := a.pollGen
	return tea.Batch(
		a.projectList.Init(),
		a.resize(),
		func() tea.Msg { return pollTickMsg{gen: gen} },
	)
}

// endSession drops back to the login screen; pending ticks are ignored
func (a *App) endSession() tea.Cmd {
	a.pollGen++
	if err := a.store.Logout(); err != nil {
		a.logger.Error().Err(err).Msg("logout failed")
	}
	a.currentView = ViewLogin
	a.login = views.NewLoginView(a.store)
	a.projectList = views.NewProjectListView(a.store)
	a.taskList = nil
	a.unread, a.messages = 0, 0
	a.setStatus("Signed out", false)
	return tea.Batch(a.login.Init(), a.resize())
}

func (a *App) poll(gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.pollInterval)
		defer cancel()
		a.store.RecomputeNotifications()
		added, err := a.store.PollMessages(ctx)
		return polledMsg{gen: gen, added: added, err: err}
	}
}

func (a *App) scheduleTick(gen int) tea.Cmd {
	return tea.Tick(a.pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{gen: gen}
	})
}

func (a *App) refreshCounts() {
	a.unread = a.store.UnreadCount()
	a.messages = a.store.UnreadMessages()
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusIsErr = isErr
}

// resize replays the last window size so a freshly opened view can lay out
func (a *App) resize() tea.Cmd {
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

func (a *App) active() page {
	switch a.currentView {
	case ViewProjects:
		return a.projectList
	case ViewTasks:
		if a.taskList != nil {
			return a.taskList
		}
	case ViewNotifications:
		if a.notifications != nil {
			return a.notifications
		}
	case ViewTeam:
		if a.team != nil {
			return a.team
		}
	}
	return nil
}

// bodySize is the space left for a view under the header and status line
func (a *App) bodySize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: a.width, Height: max(a.height-4, 0)}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.login.Update(msg)
		// Always update project list size since it persists
		a.projectList.Update(a.bodySize())
		if p := a.active(); p != nil && a.currentView != ViewProjects {
			p.Update(a.bodySize())
		}
		return a, nil

	case views.LoggedIn:
		a.setStatus("", false)
		return a, a.startSession()

	case views.LogoutRequested:
		return a, a.endSession()

	case views.SelectedProject:
		a.currentView = ViewTasks
		a.taskList = views.NewTaskListView(a.store, msg.ID)
		return a, tea.Batch(a.taskList.Init(), a.resize(), a.projectList.Refresh())

	case views.BackToProjects:
		a.currentView = ViewProjects
		return a, tea.Batch(a.projectList.Refresh(), a.resize())

	case views.ShowNotifications:
		a.currentView = ViewNotifications
		a.notifications = views.NewNotificationsView(a.store)
		return a, tea.Batch(a.notifications.Init(), a.resize())

	case views.ShowTeam:
		a.currentView = ViewTeam
		a.team = views.NewTeamView(a.store)
		return a, tea.Batch(a.team.Init(), a.resize())

	case views.NotificationsChanged:
		a.refreshCounts()
		if a.currentView == ViewNotifications && a.notifications != nil {
			return a, a.notifications.Refresh()
		}
		return a, nil

	case views.ErrMsg:
		return a, a.handleError(msg)

	case pollTickMsg:
		if msg.gen != a.pollGen || !a.store.Authenticated() {
			return a, nil
		}
		return a, a.poll(msg.gen)

	case polledMsg:
		if msg.gen != a.pollGen {
			return a, nil
		}
		if msg.err != nil {
			a.logger.Warn().Err(msg.err).Msg("message poll failed")
		}
		a.refreshCounts()
		cmds := []tea.Cmd{a.scheduleTick(msg.gen)}
		if msg.added > 0 && a.currentView == ViewNotifications && a.notifications != nil {
			cmds = append(cmds, a.notifications.Refresh())
		}
		return a, tea.Batch(cmds...)
	}

	if a.currentView == ViewLogin {
		_, cmd := a.login.Update(msg)
		return a, cmd
	}

	if _, ok := msg.(tea.KeyMsg); ok && a.status != "" {
		a.setStatus("", false)
	}

	var cmd tea.Cmd
	if p := a.active(); p != nil {
		_, cmd = p.Update(msg)
	}
	return a, cmd
}

// handleError shows a failure on the status line and records it as a notification
func (a *App) handleError(msg views.ErrMsg) tea.Cmd {
	a.logger.Error().Err(msg.Err).Str("op", msg.Title).Msg("operation failed")

	if errors.Is(msg.Err, store.ErrNotAuthenticated) {
		return a.endSession()
	}

	a.setStatus(msg.Error(), true)
	if err := a.store.ReportError(msg.Title, msg.Err); err != nil {
		a.logger.Warn().Err(err).Msg("failed to record error notification")
	}
	a.refreshCounts()

	// The view may be showing a speculative change the store rolled back
	if p := a.active(); p != nil {
		return p.Refresh()
	}
	return nil
}

func (a *App) View() string {
	if a.currentView == ViewLogin {
		return styles.CenterView(a.login.View(), a.width, a.height)
	}

	var body string
	if p := a.active(); p != nil {
		body = p.View()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(),
		body,
		a.renderStatus(),
	)
	return styles.CenterView(content, a.width, a.height)
}

func (a *App) renderHeader() string {
	s := a.styles
	width := styles.ContentWidth(a.width)

	name := ""
	if u, ok := a.store.User(); ok {
		name = u.Name
	}

	bell := s.Badge.Render(fmt.Sprintf("🔔 %d", a.unread))
	if a.unread > 0 {
		bell = s.BadgeActive.Render(fmt.Sprintf("🔔 %d", a.unread))
	}
	mail := s.Badge.Render(fmt.Sprintf("✉ %d", a.messages))
	if a.messages > 0 {
		mail = s.BadgeActive.Render(fmt.Sprintf("✉ %d", a.messages))
	}

	left := s.Brand.Render("Projexis") + s.TitleMuted.Render("  "+name)
	right := lipgloss.JoinHorizontal(lipgloss.Center, bell, " ", mail)
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)

	return s.Header.Width(width).Render(left + lipgloss.NewStyle().Width(gap).Render("") + right)
}

func (a *App) renderStatus() string {
	if a.status == "" {
		return ""
	}
	if a.statusIsErr {
		return a.styles.StatusError.Render(a.status)
	}
	return a.styles.StatusBar.Render(a.status)
}
