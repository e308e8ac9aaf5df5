package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/progress"
	"github.com/tgienger/projexis/internal/stats"
	"github.com/tgienger/projexis/internal/store"
	"github.com/tgienger/projexis/internal/ui/keys"
	"github.com/tgienger/projexis/internal/ui/styles"
)

type projectItem struct {
	view models.ProjectView
}

func (i projectItem) Title() string       { return i.view.Project.Name }
func (i projectItem) Description() string { return i.view.Project.Description }
func (i projectItem) FilterValue() string { return i.view.Project.Name }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, lineStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		lineStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		lineStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	project := p.view.Project
	priority := lipgloss.NewStyle().
		Foreground(styles.PriorityColor(project.Priority)).
		Render(string(project.Priority))
	title := fmt.Sprintf("%s  %s", project.Name, priority)

	barWidth := clamp(width-40, 10, 30)
	line := fmt.Sprintf("%s %3d%%  %s · %s",
		styles.ProgressBar(p.view.Progress, barWidth),
		p.view.Progress,
		progress.Label(p.view.Progress),
		lipgloss.NewStyle().Foreground(styles.StatusColor(project.Status)).Render(string(project.Status)),
	)
	if !project.EndDate.IsZero() {
		line += " · due " + project.EndDate.String()
	}

	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(title), lineStyle.Render(line))
}

const (
	fieldName = iota
	fieldDesc
	fieldPriority
	fieldStatus
	fieldDue
	fieldCount
)

// ProjectListView lists projects with their progress
type ProjectListView struct {
	store            *store.Store
	list             list.Model
	delegate         *projectDelegate
	styles           *styles.Styles
	keys             keys.KeyMap
	width            int
	height           int
	creating         bool
	editingID        string // set while the form edits an existing project
	loaded           bool
	summary          stats.Summary
	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string
	formErr          string
	fields           [fieldCount]textinput.Model
	focusIdx         int // fieldCount is the submit button

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

func NewProjectListView(s *store.Store) *ProjectListView {
	st := styles.NewStyles()

	var fields [fieldCount]textinput.Model
	for i, f := range []struct {
		placeholder string
		limit       int
	}{
		fieldName:     {"Project name", 100},
		fieldDesc:     {"Description (optional)", 500},
		fieldPriority: {"Low, Medium, High or Critical", 8},
		fieldStatus:   {"Planning, In Progress, On Hold, Review, Completed", 11},
		fieldDue:      {"YYYY-MM-DD (optional)", 10},
	} {
		fields[i] = textinput.New()
		fields[i].Placeholder = f.placeholder
		fields[i].CharLimit = f.limit
	}

	delegate := &projectDelegate{styles: st, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = st.Title
	l.SetShowHelp(false)

	return &ProjectListView{
		store:    s,
		list:     l,
		delegate: delegate,
		styles:   st,
		keys:     keys.DefaultKeyMap(),
		fields:   fields,
	}
}

func (v *ProjectListView) Init() tea.Cmd {
	return v.loadProjects
}

func (v *ProjectListView) loadProjects() tea.Msg {
	return projectsLoadedMsg{projects: v.store.ProjectsWithProgress(), summary: v.store.Summary()}
}

func (v *ProjectListView) reload() tea.Msg {
	ctx, cancel := requestContext()
	defer cancel()
	if err := v.store.Reload(ctx); err != nil {
		return fail("Could not load projects", err)
	}
	return v.loadProjects()
}

type projectsLoadedMsg struct {
	projects []models.ProjectView
	summary  stats.Summary
}

type projectDeletedMsg struct{}

// Refresh re-reads the project list from the store
func (v *ProjectListView) Refresh() tea.Cmd {
	return v.loadProjects
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		// Use content width (capped at MaxWidth) for internal layout
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-9)
		return v, nil

	case projectsLoadedMsg:
		items := make([]list.Item, len(msg.projects))
		for i, p := range msg.projects {
			items[i] = projectItem{view: p}
		}
		v.list.SetItems(items)
		v.summary = msg.summary
		v.loaded = true
		return v, nil

	case projectDeletedMsg:
		return v, tea.Batch(v.loadProjects, notificationsChanged)

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.creating {
			return v.updateCreating(msg)
		}

		// Keys belong to the filter input while it is open
		if v.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, nil
		case key.Matches(msg, v.keys.New):
			v.startCreate()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Edit):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				v.startEdit(item.view.Project)
				return v, textinput.Blink
			}
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Reload):
			return v, v.reload
		case key.Matches(msg, v.keys.Notifications):
			return v, func() tea.Msg { return ShowNotifications{} }
		case key.Matches(msg, v.keys.Team):
			return v, func() tea.Msg { return ShowTeam{} }
		case key.Matches(msg, v.keys.Logout):
			return v, func() tea.Msg { return LogoutRequested{} }
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				id := item.view.Project.ID
				return v, func() tea.Msg {
					return SelectedProject{ID: id}
				}
			}
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				v.confirmingDelete = true
				v.deleteTargetID = item.view.Project.ID
				v.deleteTargetName = item.view.Project.Name
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		id := v.deleteTargetID
		return v, func() tea.Msg {
			ctx, cancel := requestContext()
			defer cancel()
			if err := v.store.DeleteProject(ctx, id); err != nil {
				return fail("Could not delete project", err)
			}
			return projectDeletedMsg{}
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *ProjectListView) startCreate() {
	v.openForm("", models.Project{Priority: models.PriorityMedium, Status: models.StatusPlanning})
}

func (v *ProjectListView) startEdit(p models.Project) {
	v.openForm(p.ID, p)
}

func (v *ProjectListView) openForm(id string, p models.Project) {
	v.creating = true
	v.editingID = id
	v.focusIdx = fieldName
	v.formErr = ""
	for i := range v.fields {
		v.fields[i].Reset()
	}
	v.fields[fieldName].SetValue(p.Name)
	v.fields[fieldDesc].SetValue(p.Description)
	v.fields[fieldPriority].SetValue(string(p.Priority))
	v.fields[fieldStatus].SetValue(string(p.Status))
	v.fields[fieldDue].SetValue(p.EndDate.String())
	v.updateFocus()
}

func (v *ProjectListView) value(field int) string {
	return strings.TrimSpace(v.fields[field].Value())
}

// applyForm validates the form and copies it onto input
func (v *ProjectListView) applyForm(input *models.ProjectInput) error {
	name := v.value(fieldName)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	priority, status := models.PriorityMedium, models.StatusPlanning
	var err error
	if val := v.value(fieldPriority); val != "" {
		if priority, err = models.ParsePriority(val); err != nil {
			return err
		}
	}
	if val := v.value(fieldStatus); val != "" {
		if status, err = models.ParseStatus(val); err != nil {
			return err
		}
	}
	due, err := models.ParseDate(v.value(fieldDue))
	if err != nil {
		return err
	}
	input.Name = name
	input.Description = v.value(fieldDesc)
	input.Priority = priority
	input.Status = status
	input.EndDate = due
	input.AssignedTeam = []string{}
	return nil
}

func (v *ProjectListView) submit() tea.Cmd {
	var form models.ProjectInput
	if err := v.applyForm(&form); err != nil {
		v.formErr = err.Error()
		return nil
	}
	v.creating = false

	if id := v.editingID; id != "" {
		return func() tea.Msg {
			ctx, cancel := requestContext()
			defer cancel()
			_, err := v.store.EditProject(ctx, id, func(in *models.ProjectInput) error {
				in.Name, in.Description, in.EndDate = form.Name, form.Description, form.EndDate
				in.Priority, in.Status = form.Priority, form.Status
				return nil
			})
			if err != nil {
				return fail("Could not update project", err)
			}
			return v.loadProjects()
		}
	}

	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		p, err := v.store.CreateProject(ctx, form)
		if err != nil {
			return fail("Could not create project", err)
		}
		return SelectedProject{ID: p.ID}
	}
}

func (v *ProjectListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.submit()

	case key.Matches(msg, v.keys.ShiftTab):
		v.focusIdx = (v.focusIdx + fieldCount) % (fieldCount + 1)
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % (fieldCount + 1)
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < fieldCount {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v, v.submit()
	}

	if v.focusIdx == fieldCount {
		return v, nil
	}
	var cmd tea.Cmd
	v.fields[v.focusIdx], cmd = v.fields[v.focusIdx].Update(msg)
	return v, cmd
}

func (v *ProjectListView) updateFocus() {
	for i := range v.fields {
		if i == v.focusIdx {
			v.fields[i].Focus()
		} else {
			v.fields[i].Blur()
		}
	}
}

// View renders the view
func (v *ProjectListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.creating {
		return v.renderCreateForm()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	return v.renderSummary() + "\n" + v.list.View() + "\n" + v.renderHelp()
}

// renderSummary is the dashboard line above the list
func (v *ProjectListView) renderSummary() string {
	s := v.summary
	parts := []string{
		fmt.Sprintf("%d projects", s.Total),
		fmt.Sprintf("%d active", s.Active),
		fmt.Sprintf("%d done", s.Completed),
		fmt.Sprintf("%d on hold", s.OnHold),
		fmt.Sprintf("avg %d%%", s.AverageProgress),
	}
	line := v.styles.TitleMuted.Render(strings.Join(parts, " · "))
	if d, ok := s.NextDeadline(); ok {
		text := fmt.Sprintf("next: %s in %dd", d.Name, d.DaysLeft)
		color := styles.Current.Warning
		if d.Overdue() {
			text = fmt.Sprintf("next: %s overdue %dd", d.Name, -d.DaysLeft)
			color = styles.Current.Error
		}
		line += "  " + lipgloss.NewStyle().Foreground(color).Render(text)
	}
	return line
}

func (v *ProjectListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Projects"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first project"),
		"",
		s.ButtonPrimary.Render(" New Project "),
	)

	return lipgloss.Place(contentWidth, max(v.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

func (v *ProjectListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	title, button := "New Project", " Create "
	if v.editingID != "" {
		title, button = "Edit Project", " Save "
	}

	rows := []string{s.Title.Render(title)}
	for i, label := range []string{"Name:", "Description:", "Priority:", "Status:", "Due date:"} {
		style := s.Input
		if i == v.focusIdx {
			style = s.InputFocused
		}
		rows = append(rows, "", label, style.Width(inputWidth).Render(v.fields[i].View()))
	}
	btnStyle := s.Button
	if v.focusIdx == fieldCount {
		btnStyle = s.ButtonFocused
	}
	rows = append(rows, "", btnStyle.Render(button))
	if v.formErr != "" {
		rows = append(rows, "", s.StatusError.Render(v.formErr))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))

	return lipgloss.Place(contentWidth, max(v.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (v *ProjectListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 60 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s new • %s edit • %s del • %s alerts • %s team • %s reload • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("N"),
			v.styles.HelpKey.Render("t"),
			v.styles.HelpKey.Render("r"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *ProjectListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↵") + "      open project",
		s.HelpKey.Render("n") + "      new project",
		s.HelpKey.Render("e") + "      edit project",
		s.HelpKey.Render("d") + "      delete project",
		s.HelpKey.Render("/") + "      filter",
		s.HelpKey.Render("N") + "      notifications",
		s.HelpKey.Render("t") + "      team",
		s.HelpKey.Render("r") + "      reload",
		s.HelpKey.Render("L") + "      log out",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	return lipgloss.Place(contentWidth, max(v.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		s.Panel.Render(content),
	)
}

func (v *ProjectListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Project?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q and all of its tasks will be removed.", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	return lipgloss.Place(contentWidth, max(v.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

func notificationsChanged() tea.Msg {
	return NotificationsChanged{}
}
