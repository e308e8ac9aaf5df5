// Package stats summarizes the project list for the dashboard, analytics
// and calendar screens.
package stats

import (
	"sort"
	"time"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/notify"
	"github.com/tgienger/projexis/internal/progress"
)

// Count is the number of projects sharing a status or priority
type Count struct {
	Label   string `json:"label" yaml:"label"`
	Count   int    `json:"count" yaml:"count"`
	Percent int    `json:"percent" yaml:"percent"`
}

// Deadline is an open project with an end date
type Deadline struct {
	ProjectID string      `json:"projectId" yaml:"projectId"`
	Name      string      `json:"name" yaml:"name"`
	Due       models.Date `json:"due" yaml:"due"`
	DaysLeft  int         `json:"daysLeft" yaml:"daysLeft"`
}

// Overdue reports whether the deadline has passed
func (d Deadline) Overdue() bool { return d.DaysLeft < 0 }

// Summary is the aggregate view of a project list
type Summary struct {
	Total           int        `json:"total" yaml:"total"`
	Active          int        `json:"active" yaml:"active"`
	Completed       int        `json:"completed" yaml:"completed"`
	OnHold          int        `json:"onHold" yaml:"onHold"`
	AverageProgress int        `json:"averageProgress" yaml:"averageProgress"`
	ByStatus        []Count    `json:"byStatus" yaml:"byStatus"`
	ByPriority      []Count    `json:"byPriority" yaml:"byPriority"`
	Deadlines       []Deadline `json:"deadlines" yaml:"deadlines"`
}

// percent returns round-half-up of 100*n/total
func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return (200*n + total) / (2 * total)
}

// IsActive reports whether a project is still being worked on
func IsActive(p models.Project) bool {
	return p.Status != models.StatusCompleted && p.Status != models.StatusOnHold
}

// Summarize counts projects by status and priority, averages their progress
// and lists open deadlines soonest first.
func Summarize(projects []models.Project, now time.Time) Summary {
	s := Summary{
		Total:      len(projects),
		ByStatus:   make([]Count, 0, len(models.Statuses)),
		ByPriority: make([]Count, 0, len(models.Priorities)),
		Deadlines:  []Deadline{},
	}

	statuses := make(map[models.Status]int)
	priorities := make(map[models.Priority]int)
	sum := 0
	for _, p := range projects {
		statuses[p.Status]++
		priorities[p.Priority]++
		sum += progress.ProjectProgress(p.Tasks)

		switch {
		case p.Status == models.StatusCompleted:
			s.Completed++
		case p.Status == models.StatusOnHold:
			s.OnHold++
		default:
			s.Active++
		}

		if p.Status != models.StatusCompleted && !p.EndDate.IsZero() {
			s.Deadlines = append(s.Deadlines, Deadline{
				ProjectID: p.ID,
				Name:      p.Name,
				Due:       p.EndDate,
				DaysLeft:  notify.DaysLeft(p.EndDate, now),
			})
		}
	}
	if s.Total > 0 {
		s.AverageProgress = (2*sum + s.Total) / (2 * s.Total)
	}

	for _, st := range models.Statuses {
		s.ByStatus = append(s.ByStatus, Count{string(st), statuses[st], percent(statuses[st], s.Total)})
	}
	// highest urgency first
	for i := len(models.Priorities) - 1; i >= 0; i-- {
		p := models.Priorities[i]
		s.ByPriority = append(s.ByPriority, Count{string(p), priorities[p], percent(priorities[p], s.Total)})
	}

	sort.SliceStable(s.Deadlines, func(i, j int) bool {
		return s.Deadlines[i].DaysLeft < s.Deadlines[j].DaysLeft
	})
	return s
}

// NextDeadline returns the most pressing open deadline
func (s Summary) NextDeadline() (Deadline, bool) {
	if len(s.Deadlines) == 0 {
		return Deadline{}, false
	}
	return s.Deadlines[0], true
}

// OnDate returns the projects whose start to end span covers d. Projects
// missing either date are left out.
func OnDate(projects []models.Project, d models.Date) []models.Project {
	day := d.Midnight(time.UTC)
	var out []models.Project
	for _, p := range projects {
		if p.StartDate.IsZero() || p.EndDate.IsZero() {
			continue
		}
		if day.Before(p.StartDate.Midnight(time.UTC)) || day.After(p.EndDate.Midnight(time.UTC)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Day is one calendar day with the projects running on it
type Day struct {
	Date     models.Date      `json:"date" yaml:"date"`
	Projects []models.Project `json:"projects" yaml:"projects"`
}

// Month lists every day of the month that has at least one project running
func Month(projects []models.Project, year int, month time.Month) []Day {
	var days []Day
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for t := first; t.Month() == month; t = t.AddDate(0, 0, 1) {
		d := models.DateOf(t)
		if on := OnDate(projects, d); len(on) > 0 {
			days = append(days, Day{Date: d, Projects: on})
		}
	}
	return days
}

// MemberProjects returns the projects memberID is assigned to
func MemberProjects(projects []models.Project, memberID string) []models.Project {
	var out []models.Project
	for _, p := range projects {
		for _, ref := range p.AssignedTeam {
			if ref.ID() == memberID {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Load is a member's share of the open work
type Load struct {
	Member   models.TeamMember `json:"member" yaml:"member"`
	Projects int               `json:"projects" yaml:"projects"`
	Active   int               `json:"active" yaml:"active"`
}

// Workload counts assigned and active projects per member, in team order
func Workload(projects []models.Project, team []models.TeamMember) []Load {
	out := make([]Load, 0, len(team))
	for _, m := range team {
		l := Load{Member: m}
		for _, p := range MemberProjects(projects, m.ID) {
			l.Projects++
			if IsActive(p) {
				l.Active++
			}
		}
		out = append(out, l)
	}
	return out
}
