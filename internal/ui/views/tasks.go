package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/progress"
	"github.com/tgienger/projexis/internal/store"
	"github.com/tgienger/projexis/internal/ui/keys"
	"github.com/tgienger/projexis/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// taskRow is one line of the task tree; subtask is -1 for a task heading
type taskRow struct {
	task    int
	subtask int
}

// TaskListView shows one project's tasks and lets subtasks be toggled
type TaskListView struct {
	store     *store.Store
	projectID string
	project   models.ProjectView
	missing   bool
	rows      []taskRow
	styles    *styles.Styles
	keys      keys.KeyMap

	width  int
	height int

	cursor  int
	scrollY int

	// adding names a new task, or a subtask of addTo when set
	adding   bool
	addTo    string
	input    textinput.Model
	removing bool

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewTaskListView creates the detail view for projectID
func NewTaskListView(s *store.Store, projectID string) *TaskListView {
	input := textinput.New()
	input.CharLimit = 200
	return &TaskListView{
		store:     s,
		projectID: projectID,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		input:     input,
	}
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return v.loadProject
}

type projectLoadedMsg struct {
	project models.Project
	missing bool
}

type subtaskToggledMsg struct{}

type projectEditedMsg struct{}

func (v *TaskListView) loadProject() tea.Msg {
	p, err := v.store.Project(v.projectID)
	if errors.Is(err, store.ErrProjectNotFound) {
		return projectLoadedMsg{missing: true}
	}
	return projectLoadedMsg{project: p}
}

// Refresh re-reads the project from the store
func (v *TaskListView) Refresh() tea.Cmd {
	return v.loadProject
}

func (v *TaskListView) setProject(p models.Project) {
	v.project = progress.WithProgress(p)
	v.rows = v.rows[:0]
	for ti, t := range p.Tasks {
		v.rows = append(v.rows, taskRow{task: ti, subtask: -1})
		for si := range t.Subtasks {
			v.rows = append(v.rows, taskRow{task: ti, subtask: si})
		}
	}
	if v.cursor >= len(v.rows) {
		v.cursor = max(0, len(v.rows)-1)
	}
}

func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case projectLoadedMsg:
		v.missing = msg.missing
		if !msg.missing {
			v.setProject(msg.project)
		}
		return v, nil

	case subtaskToggledMsg, projectEditedMsg:
		return v, tea.Batch(v.loadProject, notificationsChanged)

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.adding {
			return v.updateAdding(msg)
		}
		if v.removing {
			return v.updateRemoving(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle), key.Matches(msg, v.keys.Enter):
		return v, v.toggleSelected()

	case key.Matches(msg, v.keys.AddTask):
		return v, v.startAdding("", "New task name")

	case key.Matches(msg, v.keys.New):
		if v.cursor < len(v.rows) {
			task := v.project.Project.Tasks[v.rows[v.cursor].task]
			return v, v.startAdding(task.ID, "New subtask in "+task.Name)
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		v.removing = v.cursor < len(v.rows)
		return v, nil

	case key.Matches(msg, v.keys.Notifications):
		return v, func() tea.Msg { return ShowNotifications{} }
	}
	return v, nil
}

// toggleSelected flips the selected subtask on screen and asks the store to persist it
func (v *TaskListView) toggleSelected() tea.Cmd {
	if v.cursor >= len(v.rows) {
		return nil
	}
	row := v.rows[v.cursor]
	if row.subtask < 0 {
		return nil
	}

	p := v.project.Project
	task := p.Tasks[row.task]
	st := &task.Subtasks[row.subtask]
	st.Completed = !st.Completed
	v.setProject(p)

	projectID, taskID, subtaskID := p.ID, task.ID, st.ID
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		if err := v.store.ToggleSubtask(ctx, projectID, taskID, subtaskID); err != nil {
			return fail("Could not update subtask", err)
		}
		return subtaskToggledMsg{}
	}
}

func (v *TaskListView) startAdding(taskID, placeholder string) tea.Cmd {
	v.adding = true
	v.addTo = taskID
	v.input.Reset()
	v.input.Placeholder = placeholder
	v.input.Focus()
	return textinput.Blink
}

func (v *TaskListView) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.adding = false
		v.input.Blur()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		name := strings.TrimSpace(v.input.Value())
		if name == "" {
			return v, nil
		}
		v.adding = false
		v.input.Blur()
		taskID := v.addTo
		return v, v.edit("Could not add task", func(in *models.ProjectInput) error {
			if taskID == "" {
				return in.AddTask(name)
			}
			return in.AddSubtask(taskID, name)
		})
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *TaskListView) updateRemoving(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.removing = false
		if v.cursor >= len(v.rows) {
			return v, nil
		}
		row := v.rows[v.cursor]
		task := v.project.Project.Tasks[row.task]
		if row.subtask < 0 {
			return v, v.edit("Could not remove task", func(in *models.ProjectInput) error {
				return in.RemoveTask(task.ID)
			})
		}
		subtaskID := task.Subtasks[row.subtask].ID
		return v, v.edit("Could not remove subtask", func(in *models.ProjectInput) error {
			return in.RemoveSubtask(task.ID, subtaskID)
		})
	case "n", "N", "esc":
		v.removing = false
	}
	return v, nil
}

// edit sends a change to the project's task tree
func (v *TaskListView) edit(title string, fn func(*models.ProjectInput) error) tea.Cmd {
	projectID := v.projectID
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		if _, err := v.store.EditProject(ctx, projectID, fn); err != nil {
			return fail(title, err)
		}
		return projectEditedMsg{}
	}
}

func (v *TaskListView) visibleRows() int {
	return max(v.height-14, 3)
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleRows()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.missing {
		return v.styles.TitleMuted.Render("This project no longer exists. Press esc to go back.")
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	switch {
	case v.adding:
		b.WriteString(v.styles.InputFocused.Width(clamp(styles.ContentWidth(v.width)-6, 20, 60)).Render(v.input.View()))
		b.WriteString("\n")
		b.WriteString(v.styles.TitleMuted.Render("Enter: add • Esc: cancel"))
	case v.removing:
		b.WriteString(v.styles.StatusError.Render(v.removePrompt()))
	default:
		b.WriteString(v.renderHelp())
	}
	return b.String()
}

func (v *TaskListView) removePrompt() string {
	if v.cursor >= len(v.rows) {
		return ""
	}
	row := v.rows[v.cursor]
	task := v.project.Project.Tasks[row.task]
	if row.subtask < 0 {
		return fmt.Sprintf("Remove task %q and its subtasks? (y/n)", task.Name)
	}
	return fmt.Sprintf("Remove subtask %q? (y/n)", task.Subtasks[row.subtask].Name)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	p := v.project.Project
	contentWidth := styles.ContentWidth(v.width)

	meta := []string{lipgloss.NewStyle().Foreground(styles.StatusColor(p.Status)).Render(string(p.Status))}
	if p.Priority != "" {
		meta = append(meta, lipgloss.NewStyle().
			Foreground(styles.PriorityColor(p.Priority)).
			Render(string(p.Priority)))
	}
	if p.Category != "" {
		meta = append(meta, p.Category)
	}
	if !p.StartDate.IsZero() || !p.EndDate.IsZero() {
		meta = append(meta, fmt.Sprintf("%s → %s", dateOrDash(p.StartDate), dateOrDash(p.EndDate)))
	}

	barWidth := clamp(contentWidth-30, 10, 40)
	bar := fmt.Sprintf("%s %3d%%  %s",
		styles.ProgressBar(v.project.Progress, barWidth),
		v.project.Progress,
		progress.Label(v.project.Progress),
	)

	rows := []string{
		s.Title.Render("← " + p.Name),
		s.TitleMuted.Render(strings.Join(meta, " · ")),
	}
	if p.Description != "" {
		rows = append(rows, lipgloss.NewStyle().Width(max(contentWidth-4, 20)).Render(p.Description))
	}
	rows = append(rows, bar)
	if team := teamNames(p.AssignedTeam); team != "" {
		rows = append(rows, s.TitleMuted.Render("Team: "+team))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func dateOrDash(d models.Date) string {
	if d.IsZero() {
		return "—"
	}
	return d.String()
}

func teamNames(refs []models.MemberRef) string {
	var names []string
	for _, ref := range refs {
		if m, ok := ref.Member(); ok && m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return strings.Join(names, ", ")
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if len(v.rows) == 0 {
		return s.TitleMuted.Render("This project has no tasks yet.")
	}

	end := min(v.scrollY+v.visibleRows(), len(v.rows))
	var lines []string
	for i := v.scrollY; i < end; i++ {
		lines = append(lines, v.renderRow(v.rows[i], i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *TaskListView) renderRow(row taskRow, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)
	task := v.project.Tasks[row.task]

	var line string
	if row.subtask < 0 {
		line = fmt.Sprintf("%s  %s %d%%",
			task.Task.Name,
			styles.ProgressBar(task.Progress, 10),
			task.Progress,
		)
	} else {
		st := task.Task.Subtasks[row.subtask]
		box := "[ ]"
		if st.Completed {
			box = lipgloss.NewStyle().Foreground(styles.Current.Success).Render("[x]")
		}
		line = "   " + box + " " + st.Name
	}

	style := s.ListItem
	if selected {
		style = s.ListSelected
	}
	return style.Width(width).Render(line)
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s toggle • %s add task • %s add subtask • %s remove • %s move • %s back • %s quit",
			v.styles.HelpKey.Render("space"),
			v.styles.HelpKey.Render("T"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("↑↓"),
			v.styles.HelpKey.Render("esc"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("space") + "  toggle subtask",
		s.HelpKey.Render("T") + "      add task",
		s.HelpKey.Render("n") + "      add subtask",
		s.HelpKey.Render("d") + "      remove task or subtask",
		s.HelpKey.Render("↑/k") + "    up",
		s.HelpKey.Render("↓/j") + "    down",
		s.HelpKey.Render("N") + "      notifications",
		s.HelpKey.Render("esc") + "    back to projects",
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
