package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/store"
	"github.com/tgienger/projexis/internal/ui/keys"
	"github.com/tgienger/projexis/internal/ui/styles"
)

var notificationIcons = map[models.NotificationType]string{
	models.NotificationTask:       "✓",
	models.NotificationDeadline:   "⏰",
	models.NotificationMention:    "@",
	models.NotificationAssignment: "+",
	models.NotificationError:      "!",
}

// NotificationsView is the notification panel
type NotificationsView struct {
	store  *store.Store
	items  []models.Notification
	styles *styles.Styles
	keys   keys.KeyMap

	width   int
	height  int
	cursor  int
	scrollY int

	confirmingClear bool
}

func NewNotificationsView(s *store.Store) *NotificationsView {
	return &NotificationsView{
		store:  s,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

type notificationsLoadedMsg struct {
	items []models.Notification
}

func (v *NotificationsView) Init() tea.Cmd {
	return v.load
}

// Refresh re-reads the notifications from the store
func (v *NotificationsView) Refresh() tea.Cmd {
	return v.load
}

func (v *NotificationsView) load() tea.Msg {
	return notificationsLoadedMsg{items: v.store.Notifications()}
}

// persist runs a notification transform and reloads the panel
func (v *NotificationsView) persist(title string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return fail(title, err)
		}
		return NotificationsChanged{}
	}
}

func (v *NotificationsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case notificationsLoadedMsg:
		v.items = msg.items
		if v.cursor >= len(v.items) {
			v.cursor = max(0, len(v.items)-1)
		}
		v.ensureVisible()
		return v, nil

	case tea.KeyMsg:
		if v.confirmingClear {
			switch msg.String() {
			case "y", "Y":
				v.confirmingClear = false
				return v, v.persist("Could not clear notifications", v.store.ClearNotifications)
			case "n", "N", "esc":
				v.confirmingClear = false
			}
			return v, nil
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToProjects{} }
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
				v.ensureVisible()
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.items)-1 {
				v.cursor++
				v.ensureVisible()
			}
		case key.Matches(msg, v.keys.MarkRead):
			if v.cursor < len(v.items) {
				id := v.items[v.cursor].ID
				return v, v.persist("Could not update notification", func() error {
					return v.store.MarkRead(id)
				})
			}
		case key.Matches(msg, v.keys.MarkAllRead):
			return v, v.persist("Could not update notifications", v.store.MarkAllRead)
		case key.Matches(msg, v.keys.Clear):
			if len(v.items) > 0 {
				v.confirmingClear = true
			}
		}
	}
	return v, nil
}

func (v *NotificationsView) visibleItems() int {
	// Each item is 2 lines + 1 margin
	return max((v.height-10)/3, 1)
}

func (v *NotificationsView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *NotificationsView) View() string {
	s := v.styles
	unread := 0
	for _, n := range v.items {
		if !n.Read {
			unread++
		}
	}

	title := s.Title.Render("Notifications")
	if unread > 0 {
		title += " " + s.Unread.Render(fmt.Sprintf("(%d unread)", unread))
	}

	var body string
	switch {
	case v.confirmingClear:
		body = lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Foreground(styles.Current.Error).Render("Clear all notifications?"),
			"",
			lipgloss.JoinHorizontal(lipgloss.Center,
				s.ButtonPrimary.Render(" Y - Yes "),
				"  ",
				s.Button.Render(" N - No "),
			),
		)
	case len(v.items) == 0:
		body = s.TitleMuted.Render("You're all caught up.")
	default:
		end := min(v.scrollY+v.visibleItems(), len(v.items))
		var rows []string
		for i := v.scrollY; i < end; i++ {
			rows = append(rows, v.renderItem(v.items[i], i == v.cursor))
		}
		body = lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	help := s.Help.Render(fmt.Sprintf("%s read • %s read all • %s clear • %s back",
		s.HelpKey.Render("↵"),
		s.HelpKey.Render("a"),
		s.HelpKey.Render("c"),
		s.HelpKey.Render("esc"),
	))
	return lipgloss.JoinVertical(lipgloss.Left, title, "", body, help)
}

func (v *NotificationsView) renderItem(n models.Notification, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	icon := notificationIcons[n.Type]
	if icon == "" {
		icon = "•"
	}
	titleText := fmt.Sprintf("%s %s", icon, n.Title)
	if !n.Read {
		titleText = s.Unread.Render("● ") + titleText
	} else {
		titleText = "  " + titleText
	}
	if n.Time != "" {
		titleText += s.TitleMuted.Render("  " + n.Time)
	}

	style := s.ListItem
	if selected {
		style = s.ListSelected
	}
	msgStyle := style.Foreground(styles.Current.ForegroundDim)
	if n.Type == models.NotificationError {
		msgStyle = style.Foreground(styles.Current.Error)
	}

	message := strings.TrimSpace(n.Message)
	return lipgloss.JoinVertical(lipgloss.Left,
		style.Width(width).Render(titleText),
		msgStyle.Width(width).Render("    "+message),
	) + "\n"
}
