// Package notify derives and reconciles the notification set shown to a user.
//
// Project-derived notifications are regenerated from scratch on every pass
// and keep their read flag by id. Everything else (mentions, invitations,
// failures) is carried through untouched.
package notify

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tgienger/projexis/internal/models"
)

// Limit caps the number of retained notifications
const Limit = 50

const day = 24 * time.Hour

// Rule priorities; lower sorts first.
const (
	priorityOverdue    = 1
	priorityDueSoon    = 2
	priorityDueWeek    = 3
	priorityCompletion = 4
)

// DaysLeft returns whole days until the end date, rounded up
func DaysLeft(end models.Date, now time.Time) int {
	d := end.Midnight(now.Location()).Sub(now)
	return int(math.Ceil(float64(d) / float64(day)))
}

func deadlineNotification(p models.Project, now time.Time) (models.Notification, bool) {
	if p.EndDate.IsZero() || p.Status == models.StatusCompleted {
		return models.Notification{}, false
	}
	left := DaysLeft(p.EndDate, now)
	switch {
	case left < 0:
		return models.Notification{
			ID:       OverdueID(p.ID).String(),
			Type:     models.NotificationDeadline,
			Title:    "Project Overdue",
			Message:  fmt.Sprintf("%q passed its deadline %d day(s) ago", p.Name, -left),
			Time:     "Overdue",
			Priority: priorityOverdue,
		}, true
	case left <= 3:
		return models.Notification{
			ID:       DueSoonID(p.ID).String(),
			Type:     models.NotificationDeadline,
			Title:    "Deadline Soon",
			Message:  fmt.Sprintf("%q is due in %d day(s)", p.Name, left),
			Time:     fmt.Sprintf("%dd left", left),
			Priority: priorityDueSoon,
		}, true
	case left <= 7:
		return models.Notification{
			ID:       DueWeekID(p.ID).String(),
			Type:     models.NotificationDeadline,
			Title:    "Deadline This Week",
			Message:  fmt.Sprintf("%q is due in %d days", p.Name, left),
			Time:     fmt.Sprintf("%dd left", left),
			Priority: priorityDueWeek,
		}, true
	}
	return models.Notification{}, false
}

func completionNotification(p models.Project) (models.Notification, bool) {
	if p.Status == models.StatusCompleted {
		return models.Notification{
			ID:       CompletedID(p.ID).String(),
			Type:     models.NotificationTask,
			Title:    "Project Completed 🎉",
			Message:  fmt.Sprintf("%q has been marked as completed", p.Name),
			Time:     "Recently",
			Priority: priorityCompletion,
		}, true
	}

	total, done := 0, 0
	for _, t := range p.Tasks {
		for _, s := range t.Subtasks {
			total++
			if s.Completed {
				done++
			}
		}
	}
	if total == 0 || done != total {
		return models.Notification{}, false
	}
	return models.Notification{
		ID:       AllTasksDoneID(p.ID).String(),
		Type:     models.NotificationTask,
		Title:    "All Tasks Done",
		Message:  fmt.Sprintf("All subtasks in %q are complete", p.Name),
		Time:     "Just now",
		Priority: priorityCompletion,
	}, true
}

// Generate derives the project notifications for the given moment, most urgent first.
// Each project contributes at most one deadline and one completion notification.
func Generate(projects []models.Project, now time.Time) []models.Notification {
	var out []models.Notification
	seen := make(map[string]bool)
	add := func(n models.Notification, ok bool) {
		if !ok || seen[n.ID] {
			return
		}
		seen[n.ID] = true
		out = append(out, n)
	}

	for _, p := range projects {
		add(deadlineNotification(p, now))
		add(completionNotification(p))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// Reconcile regenerates project notifications and merges them with the
// previous set: read flags carry over by id, manual entries follow the
// generated ones and the result is capped.
func Reconcile(prev []models.Notification, projects []models.Project, now time.Time) []models.Notification {
	generated := Generate(projects, now)

	readByID := make(map[string]bool, len(prev))
	var manual []models.Notification
	for _, n := range prev {
		if ParseID(n.ID).Kind.ProjectDerived() {
			if _, ok := readByID[n.ID]; !ok {
				readByID[n.ID] = n.Read
			}
			continue
		}
		manual = append(manual, n)
	}

	out := make([]models.Notification, 0, len(generated)+len(manual))
	for _, n := range generated {
		n.Read = readByID[n.ID]
		out = append(out, n)
	}
	out = append(out, manual...)
	return Cap(out)
}

// Cap keeps the first Limit entries
func Cap(list []models.Notification) []models.Notification {
	if len(list) > Limit {
		return list[:Limit]
	}
	return list
}

// Push prepends an ad hoc notification unless one with the same id exists.
// The boolean reports whether the set changed.
func Push(list []models.Notification, n models.Notification) ([]models.Notification, bool) {
	for _, existing := range list {
		if existing.ID == n.ID {
			return list, false
		}
	}
	out := make([]models.Notification, 0, len(list)+1)
	out = append(out, n)
	out = append(out, list...)
	return Cap(out), true
}

// MarkRead returns a copy of list with the given id marked read
func MarkRead(list []models.Notification, id string) []models.Notification {
	out := make([]models.Notification, len(list))
	for i, n := range list {
		if n.ID == id {
			n.Read = true
		}
		out[i] = n
	}
	return out
}

// MarkAllRead returns a copy of list with every entry marked read
func MarkAllRead(list []models.Notification) []models.Notification {
	out := make([]models.Notification, len(list))
	for i, n := range list {
		n.Read = true
		out[i] = n
	}
	return out
}

// UnreadCount counts entries not yet read
func UnreadCount(list []models.Notification) int {
	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}
	return count
}
