package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/store"
	"github.com/tgienger/projexis/internal/ui/keys"
	"github.com/tgienger/projexis/internal/ui/styles"
)

// TeamView lists team members and their invitation state
type TeamView struct {
	store   *store.Store
	members []models.TeamMember
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int
	cursor int

	adding    bool
	editingID string            // member being edited, empty when inviting
	inputs    []textinput.Model // name, email, role
	focusIdx int
	formErr  string

	confirmingDelete bool
	notice           string
}

func NewTeamView(s *store.Store) *TeamView {
	placeholders := []string{"Full name", "Email", "Role"}
	inputs := make([]textinput.Model, len(placeholders))
	for i, p := range placeholders {
		in := textinput.New()
		in.Placeholder = p
		in.CharLimit = 100
		inputs[i] = in
	}

	return &TeamView{
		store:  s,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		inputs: inputs,
	}
}

type teamLoadedMsg struct {
	members []models.TeamMember
}

type teamChangedMsg struct {
	notice string
}

func (v *TeamView) Init() tea.Cmd {
	return v.load
}

// Refresh re-reads the team from the store
func (v *TeamView) Refresh() tea.Cmd {
	return v.load
}

func (v *TeamView) load() tea.Msg {
	return teamLoadedMsg{members: v.store.Team()}
}

func (v *TeamView) selected() (models.TeamMember, bool) {
	if v.cursor >= len(v.members) {
		return models.TeamMember{}, false
	}
	return v.members[v.cursor], true
}

// call runs a team operation and reports its outcome
func (v *TeamView) call(title, notice string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return fail(title, err)
		}
		return teamChangedMsg{notice: notice}
	}
}

func (v *TeamView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case teamLoadedMsg:
		v.members = msg.members
		if v.cursor >= len(v.members) {
			v.cursor = max(0, len(v.members)-1)
		}
		return v, nil

	case teamChangedMsg:
		v.notice = msg.notice
		return v, tea.Batch(v.load, notificationsChanged)

	case tea.KeyMsg:
		if v.adding {
			return v.updateAdding(msg)
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *TeamView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.members)-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.New):
		v.startAdding(models.TeamMember{})
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Edit):
		if m, ok := v.selected(); ok {
			v.startAdding(m)
			return v, textinput.Blink
		}
	case key.Matches(msg, v.keys.Delete):
		if _, ok := v.selected(); ok {
			v.confirmingDelete = true
		}
	case key.Matches(msg, v.keys.Promote):
		if m, ok := v.selected(); ok {
			return v, v.call("Could not promote member", m.Name+" promoted", func() error {
				ctx, cancel := requestContext()
				defer cancel()
				_, err := v.store.PromoteTeamMember(ctx, m.ID)
				return err
			})
		}
	case key.Matches(msg, v.keys.Invite):
		if m, ok := v.selected(); ok && m.Status == models.MemberPending {
			return v, v.call("Could not resend invite", "Invite sent to "+m.Email, func() error {
				ctx, cancel := requestContext()
				defer cancel()
				return v.store.ResendInvite(ctx, m.ID)
			})
		}
	}
	return v, nil
}

func (v *TeamView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		if m, ok := v.selected(); ok {
			return v, v.call("Could not remove member", m.Name+" removed", func() error {
				ctx, cancel := requestContext()
				defer cancel()
				return v.store.DeleteTeamMember(ctx, m.ID)
			})
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return v, nil
}

// startAdding opens the form, prefilled from m when it is an existing member
func (v *TeamView) startAdding(m models.TeamMember) {
	v.adding = true
	v.editingID = m.ID
	v.focusIdx = 0
	v.formErr = ""
	for i, value := range []string{m.Name, m.Email, m.Role} {
		v.inputs[i].Reset()
		v.inputs[i].SetValue(value)
	}
	v.updateFocus()
}

func (v *TeamView) updateFocus() {
	for i := range v.inputs {
		if i == v.focusIdx {
			v.inputs[i].Focus()
		} else {
			v.inputs[i].Blur()
		}
	}
}

func (v *TeamView) submit() tea.Cmd {
	input := models.TeamMemberInput{
		Name:  strings.TrimSpace(v.inputs[0].Value()),
		Email: strings.TrimSpace(v.inputs[1].Value()),
		Role:  strings.TrimSpace(v.inputs[2].Value()),
	}
	if input.Name == "" || input.Email == "" {
		v.formErr = "name and email are required"
		return nil
	}
	v.adding = false
	if id := v.editingID; id != "" {
		return v.call("Could not update team member", input.Name+" updated", func() error {
			ctx, cancel := requestContext()
			defer cancel()
			_, err := v.store.EditTeamMember(ctx, id, func(in *models.TeamMemberInput) {
				in.Name, in.Email, in.Role = input.Name, input.Email, input.Role
			})
			return err
		})
	}
	return v.call("Could not add team member", "Invitation sent to "+input.Email, func() error {
		ctx, cancel := requestContext()
		defer cancel()
		_, err := v.store.CreateTeamMember(ctx, input)
		return err
	})
}

func (v *TeamView) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(v.inputs)
	switch {
	case key.Matches(msg, v.keys.Back):
		v.adding = false
		return v, nil
	case msg.String() == "ctrl+s":
		return v, v.submit()
	case key.Matches(msg, v.keys.ShiftTab):
		v.focusIdx = (v.focusIdx + n - 1) % n
		v.updateFocus()
		return v, nil
	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % n
		v.updateFocus()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < n-1 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.inputs[v.focusIdx], cmd = v.inputs[v.focusIdx].Update(msg)
	return v, cmd
}

func (v *TeamView) View() string {
	s := v.styles
	if v.adding {
		return v.renderForm()
	}

	rows := []string{s.Title.Render("Team"), ""}
	if len(v.members) == 0 {
		rows = append(rows, s.TitleMuted.Render("No team members yet. Press 'n' to invite one."))
	}
	width := max(styles.ContentWidth(v.width)-4, 20)
	for i, m := range v.members {
		status := lipgloss.NewStyle().Foreground(styles.Current.Success).Render(string(m.Status))
		if m.Status == models.MemberPending {
			status = lipgloss.NewStyle().Foreground(styles.Current.Warning).Render(string(m.Status))
		}
		line := fmt.Sprintf("%-20s %-16s %-26s %s", m.Name, m.Role, m.Email, status)
		style := s.ListItem
		if i == v.cursor {
			style = s.ListSelected
		}
		rows = append(rows, style.Width(width).Render(line))
	}

	if v.confirmingDelete {
		if m, ok := v.selected(); ok {
			rows = append(rows, "", s.StatusError.Render(fmt.Sprintf("Remove %s? (y/n)", m.Name)))
		}
	} else if v.notice != "" {
		rows = append(rows, "", s.StatusBar.Render(v.notice))
	}

	rows = append(rows, s.Help.Render(fmt.Sprintf("%s invite • %s edit • %s promote • %s resend • %s remove • %s back",
		s.HelpKey.Render("n"),
		s.HelpKey.Render("e"),
		s.HelpKey.Render("p"),
		s.HelpKey.Render("i"),
		s.HelpKey.Render("d"),
		s.HelpKey.Render("esc"),
	)))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *TeamView) renderForm() string {
	s := v.styles
	inputWidth := clamp(styles.ContentWidth(v.width)-6, 20, 50)

	labels := []string{"Name:", "Email:", "Role:"}
	title, hint := "Invite Team Member", "send invite"
	if v.editingID != "" {
		title, hint = "Edit Team Member", "save"
	}
	rows := []string{s.Title.Render(title), ""}
	for i, in := range v.inputs {
		style := s.Input
		if i == v.focusIdx {
			style = s.InputFocused
		}
		rows = append(rows, labels[i], style.Width(inputWidth).Render(in.View()))
	}
	if v.formErr != "" {
		rows = append(rows, "", s.StatusError.Render(v.formErr))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • Ctrl+S: "+hint+" • Esc: cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
