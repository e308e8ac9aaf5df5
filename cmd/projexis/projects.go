package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/progress"
)

func projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"ls"},
		Short:   "List projects with their progress",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				list := a.store.ProjectsWithProgress()
				rows := make([][]string, 0, len(list))
				for _, v := range list {
					p := v.Project
					rows = append(rows, []string{
						p.ID,
						p.Name,
						string(p.Status),
						string(p.Priority),
						p.EndDate.String(),
						fmt.Sprintf("%d%% %s", v.Progress, progress.Label(v.Progress)),
					})
				}
				return render(cmd, list,
					[]string{"ID", "NAME", "STATUS", "PRIORITY", "DUE", "PROGRESS"}, rows)
			})
		},
	}
	addOutputFlag(cmd)

	cmd.AddCommand(projectShowCmd())
	cmd.AddCommand(projectCreateCmd())
	cmd.AddCommand(projectEditCmd())
	cmd.AddCommand(projectDeleteCmd())
	return cmd
}

func projectShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <project>",
		Short: "Show a project's tasks and subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				p, err := a.store.Project(args[0])
				if err != nil {
					return err
				}
				view := progress.WithProgress(p)

				var rows [][]string
				for _, t := range view.Tasks {
					rows = append(rows, []string{t.Task.ID, t.Task.Name, "", strconv.Itoa(t.Progress) + "%"})
					for _, st := range t.Task.Subtasks {
						done := "[ ]"
						if st.Completed {
							done = "[x]"
						}
						rows = append(rows, []string{st.ID, "  " + st.Name, done, ""})
					}
				}
				return render(cmd, view, []string{"ID", "NAME", "DONE", "PROGRESS"}, rows)
			})
		},
	}
	addOutputFlag(cmd)
	return cmd
}

func projectCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			desc, _ := cmd.Flags().GetString("description")
			category, _ := cmd.Flags().GetString("category")
			priority, _ := cmd.Flags().GetString("priority")
			start, _ := cmd.Flags().GetString("start")
			due, _ := cmd.Flags().GetString("due")
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			input := models.ProjectInput{
				Name:         name,
				Description:  desc,
				Category:     category,
				Priority:     models.Priority(priority),
				Status:       models.StatusPlanning,
				AssignedTeam: []string{},
			}
			var err error
			if input.StartDate, err = models.ParseDate(start); err != nil {
				return err
			}
			if input.EndDate, err = models.ParseDate(due); err != nil {
				return err
			}

			return withSession(cmd.Context(), func(a *app) error {
				p, err := a.store.CreateProject(cmd.Context(), input)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", p.Name, p.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringP("name", "n", "", "project name")
	cmd.Flags().StringP("description", "d", "", "project description")
	cmd.Flags().String("category", "", "project category")
	cmd.Flags().String("priority", string(models.PriorityMedium), "Low, Medium, High or Critical")
	cmd.Flags().String("start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	return cmd
}

func projectEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <project>",
		Short: "Change a project's details, tasks and assigned team",
		Long: `Change a project's details, tasks and assigned team.

Only the flags given are changed. Subtasks are addressed as task:subtask,
using the ids shown by 'projexis projects show'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edit, err := projectEdits(cmd)
			if err != nil {
				return err
			}
			return withSession(cmd.Context(), func(a *app) error {
				p, err := a.store.EditProject(cmd.Context(), args[0], edit)
				if err != nil {
					return err
				}
				view := progress.WithProgress(*p)
				fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s: %d tasks, %d%% complete (%s)\n",
					p.Name, len(p.Tasks), view.Progress, p.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringP("name", "n", "", "project name")
	cmd.Flags().StringP("description", "d", "", "project description")
	cmd.Flags().String("category", "", "project category")
	cmd.Flags().String("priority", "", "Low, Medium, High or Critical")
	cmd.Flags().String("status", "", "Planning, In Progress, On Hold, Review or Completed")
	cmd.Flags().String("start", "", "start date (YYYY-MM-DD), empty to clear")
	cmd.Flags().String("due", "", "due date (YYYY-MM-DD), empty to clear")
	cmd.Flags().StringArray("add-task", nil, "add a task by name")
	cmd.Flags().StringArray("remove-task", nil, "remove a task by id")
	cmd.Flags().StringArray("add-subtask", nil, "add a subtask as task:name")
	cmd.Flags().StringArray("remove-subtask", nil, "remove a subtask as task:subtask")
	cmd.Flags().StringArray("assign", nil, "assign a team member by id")
	cmd.Flags().StringArray("unassign", nil, "unassign a team member by id")
	return cmd
}

// projectEdits validates the edit flags up front and returns the change they describe
func projectEdits(cmd *cobra.Command) (func(*models.ProjectInput) error, error) {
	flags := cmd.Flags()
	var edits []func(*models.ProjectInput) error

	for _, name := range []string{"name", "description", "category"} {
		if !flags.Changed(name) {
			continue
		}
		v, _ := flags.GetString(name)
		switch name {
		case "name":
			if strings.TrimSpace(v) == "" {
				return nil, fmt.Errorf("--name cannot be empty")
			}
			edits = append(edits, func(in *models.ProjectInput) error { in.Name = v; return nil })
		case "description":
			edits = append(edits, func(in *models.ProjectInput) error { in.Description = v; return nil })
		case "category":
			edits = append(edits, func(in *models.ProjectInput) error { in.Category = v; return nil })
		}
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		p, err := models.ParsePriority(v)
		if err != nil {
			return nil, err
		}
		edits = append(edits, func(in *models.ProjectInput) error { in.Priority = p; return nil })
	}
	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		st, err := models.ParseStatus(v)
		if err != nil {
			return nil, err
		}
		edits = append(edits, func(in *models.ProjectInput) error { in.Status = st; return nil })
	}
	if flags.Changed("start") {
		v, _ := flags.GetString("start")
		d, err := models.ParseDate(v)
		if err != nil {
			return nil, err
		}
		edits = append(edits, func(in *models.ProjectInput) error { in.StartDate = d; return nil })
	}
	if flags.Changed("due") {
		v, _ := flags.GetString("due")
		d, err := models.ParseDate(v)
		if err != nil {
			return nil, err
		}
		edits = append(edits, func(in *models.ProjectInput) error { in.EndDate = d; return nil })
	}

	removeTasks, _ := flags.GetStringArray("remove-task")
	for _, id := range removeTasks {
		id := id
		edits = append(edits, func(in *models.ProjectInput) error { return in.RemoveTask(id) })
	}
	removeSubtasks, _ := flags.GetStringArray("remove-subtask")
	for _, v := range removeSubtasks {
		taskID, subtaskID, err := splitPair("remove-subtask", v)
		if err != nil {
			return nil, err
		}
		edits = append(edits, func(in *models.ProjectInput) error { return in.RemoveSubtask(taskID, subtaskID) })
	}
	addTasks, _ := flags.GetStringArray("add-task")
	for _, name := range addTasks {
		name := name
		edits = append(edits, func(in *models.ProjectInput) error { return in.AddTask(name) })
	}
	addSubtasks, _ := flags.GetStringArray("add-subtask")
	for _, v := range addSubtasks {
		taskID, name, err := splitPair("add-subtask", v)
		if err != nil {
			return nil, err
		}
		edits = append(edits, func(in *models.ProjectInput) error { return in.AddSubtask(taskID, name) })
	}
	assign, _ := flags.GetStringArray("assign")
	for _, id := range assign {
		id := id
		edits = append(edits, func(in *models.ProjectInput) error { in.Assign(id); return nil })
	}
	unassign, _ := flags.GetStringArray("unassign")
	for _, id := range unassign {
		id := id
		edits = append(edits, func(in *models.ProjectInput) error { in.Unassign(id); return nil })
	}

	if len(edits) == 0 {
		return nil, fmt.Errorf("nothing to change, see 'projexis projects edit --help'")
	}
	return func(in *models.ProjectInput) error {
		for _, edit := range edits {
			if err := edit(in); err != nil {
				return err
			}
		}
		return nil
	}, nil
}

func splitPair(flag, v string) (string, string, error) {
	left, right, ok := strings.Cut(v, ":")
	if !ok || left == "" || right == "" {
		return "", "", fmt.Errorf("--%s wants task:value, got %q", flag, v)
	}
	return left, right, nil
}

func projectDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <project>",
		Aliases: []string{"rm"},
		Short:   "Delete a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				if err := a.store.DeleteProject(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
				return nil
			})
		},
	}
}

func toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <project> <task> <subtask>",
		Short: "Flip a subtask between done and not done",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				projectID, taskID, subtaskID := args[0], args[1], args[2]
				if err := a.store.ToggleSubtask(cmd.Context(), projectID, taskID, subtaskID); err != nil {
					return err
				}

				p, err := a.store.Project(projectID)
				if err != nil {
					return err
				}
				state := "not done"
				if st := p.Subtask(taskID, subtaskID); st != nil && st.Completed {
					state = "done"
				}
				view := progress.WithProgress(p)
				fmt.Fprintf(cmd.OutOrStdout(), "Subtask marked %s. %s is %d%% complete (%s)\n",
					state, p.Name, view.Progress, p.Status)
				return nil
			})
		},
	}
}
