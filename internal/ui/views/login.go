package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/projexis/internal/store"
	"github.com/tgienger/projexis/internal/ui/keys"
	"github.com/tgienger/projexis/internal/ui/styles"
)

const (
	loginFieldName = iota
	fieldEmail
	fieldPassword
)

// LoginView signs in or registers
type LoginView struct {
	store  *store.Store
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	registering bool
	inputs      []textinput.Model
	focusIdx    int
	submitting  bool
	err         string
}

func NewLoginView(s *store.Store) *LoginView {
	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 100

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 200

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 200
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	v := &LoginView{
		store:    s,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		inputs:   []textinput.Model{name, email, password},
		focusIdx: fieldEmail,
	}
	v.updateFocus()
	return v
}

type loginFailedMsg struct {
	err error
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// fields returns the input indexes shown in the current mode
func (v *LoginView) fields() []int {
	if v.registering {
		return []int{loginFieldName, fieldEmail, fieldPassword}
	}
	return []int{fieldEmail, fieldPassword}
}

func (v *LoginView) position() int {
	for i, f := range v.fields() {
		if f == v.focusIdx {
			return i
		}
	}
	return 0
}

func (v *LoginView) move(dir int) {
	fields := v.fields()
	pos := (v.position() + dir + len(fields)) % len(fields)
	v.focusIdx = fields[pos]
	v.updateFocus()
}

func (v *LoginView) updateFocus() {
	for i := range v.inputs {
		if i == v.focusIdx {
			v.inputs[i].Focus()
		} else {
			v.inputs[i].Blur()
		}
	}
}

func (v *LoginView) submit() tea.Cmd {
	name := strings.TrimSpace(v.inputs[loginFieldName].Value())
	email := strings.TrimSpace(v.inputs[fieldEmail].Value())
	password := v.inputs[fieldPassword].Value()
	if email == "" || password == "" || (v.registering && name == "") {
		v.err = "Please fill in every field"
		return nil
	}

	v.submitting = true
	v.err = ""
	registering := v.registering
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		var err error
		if registering {
			err = v.store.Register(ctx, name, email, password)
		} else {
			err = v.store.Login(ctx, email, password)
		}
		if err != nil {
			return loginFailedMsg{err: err}
		}
		return LoggedIn{}
	}
}

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case loginFailedMsg:
		v.submitting = false
		v.err = msg.err.Error()
		return v, nil

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}
		switch {
		case msg.String() == "ctrl+c" || key.Matches(msg, v.keys.Back):
			return v, tea.Quit
		case msg.String() == "ctrl+r":
			v.registering = !v.registering
			v.err = ""
			if v.registering {
				v.focusIdx = loginFieldName
			} else if v.focusIdx == loginFieldName {
				v.focusIdx = fieldEmail
			}
			v.updateFocus()
			return v, nil
		case key.Matches(msg, v.keys.ShiftTab):
			v.move(-1)
			return v, nil
		case key.Matches(msg, v.keys.Tab):
			v.move(1)
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if v.position() < len(v.fields())-1 {
				v.move(1)
				return v, nil
			}
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	v.inputs[v.focusIdx], cmd = v.inputs[v.focusIdx].Update(msg)
	return v, cmd
}

func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	title := "Sign in to Projexis"
	toggle := "Ctrl+R: create an account"
	if v.registering {
		title = "Create your Projexis account"
		toggle = "Ctrl+R: sign in instead"
	}

	labels := map[int]string{loginFieldName: "Name:", fieldEmail: "Email:", fieldPassword: "Password:"}
	rows := []string{s.Title.Render(title), ""}
	for _, f := range v.fields() {
		style := s.Input
		if f == v.focusIdx {
			style = s.InputFocused
		}
		rows = append(rows, labels[f], style.Width(inputWidth).Render(v.inputs[f].View()))
	}

	rows = append(rows, "")
	switch {
	case v.submitting:
		rows = append(rows, s.TitleMuted.Render("Signing in..."))
	case v.err != "":
		rows = append(rows, s.StatusError.Render(v.err))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • Enter: submit • "+toggle+" • Esc: quit"))

	return lipgloss.Place(contentWidth, max(v.height, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
