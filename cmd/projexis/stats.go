package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/progress"
	"github.com/tgienger/projexis/internal/stats"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stats",
		Aliases: []string{"dashboard"},
		Short:   "Summarize projects by status, priority and deadline",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				s := a.store.Summary()
				rows := [][]string{
					{"Projects", fmt.Sprint(s.Total)},
					{"Active", fmt.Sprint(s.Active)},
					{"Completed", fmt.Sprint(s.Completed)},
					{"On hold", fmt.Sprint(s.OnHold)},
					{"Average progress", fmt.Sprintf("%d%% %s", s.AverageProgress, progress.Label(s.AverageProgress))},
				}
				for _, c := range s.ByStatus {
					rows = append(rows, []string{"Status " + c.Label, fmt.Sprintf("%d (%d%%)", c.Count, c.Percent)})
				}
				for _, c := range s.ByPriority {
					rows = append(rows, []string{"Priority " + c.Label, fmt.Sprintf("%d (%d%%)", c.Count, c.Percent)})
				}
				for _, d := range s.Deadlines {
					rows = append(rows, []string{"Due " + d.Due.String(), d.Name + ", " + describeDeadline(d)})
				}
				return render(cmd, s, []string{"METRIC", "VALUE"}, rows)
			})
		},
	}
	addOutputFlag(cmd)
	return cmd
}

func describeDeadline(d stats.Deadline) string {
	switch {
	case d.Overdue():
		return fmt.Sprintf("overdue by %d day(s)", -d.DaysLeft)
	case d.DaysLeft == 0:
		return "due today"
	}
	return fmt.Sprintf("%d day(s) left", d.DaysLeft)
}

func calendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar [YYYY-MM]",
		Short: "Show which projects run on each day of a month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := time.Now()
			if len(args) == 1 {
				var err error
				if month, err = time.Parse("2006-01", args[0]); err != nil {
					return fmt.Errorf("invalid month %q, want YYYY-MM", args[0])
				}
			}
			return withSession(cmd.Context(), func(a *app) error {
				days := stats.Month(a.store.Projects(), month.Year(), month.Month())
				rows := make([][]string, 0, len(days))
				for _, d := range days {
					names := make([]string, len(d.Projects))
					for i, p := range d.Projects {
						names[i] = p.Name
					}
					rows = append(rows, []string{d.Date.String(), strings.Join(names, ", ")})
				}
				if days == nil {
					days = []stats.Day{}
				}
				return render(cmd, days, []string{"DATE", "PROJECTS"}, rows)
			})
		},
	}
	addOutputFlag(cmd)
	return cmd
}

func teamProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects <member>",
		Short: "List the projects a member is assigned to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				list := stats.MemberProjects(a.store.Projects(), args[0])
				views := make([]models.ProjectView, 0, len(list))
				rows := make([][]string, 0, len(list))
				for _, p := range list {
					v := progress.WithProgress(p)
					views = append(views, v)
					rows = append(rows, []string{p.ID, p.Name, string(p.Status), fmt.Sprintf("%d%%", v.Progress)})
				}
				return render(cmd, views, []string{"ID", "NAME", "STATUS", "PROGRESS"}, rows)
			})
		},
	}
	addOutputFlag(cmd)
	return cmd
}
