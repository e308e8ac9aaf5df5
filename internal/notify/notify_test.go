package notify

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tgienger/projexis/internal/models"
)

var now = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func dateIn(days int) models.Date {
	return models.DateOf(now.AddDate(0, 0, days))
}

func TestParseID(t *testing.T) {
	tests := []struct {
		id      string
		kind    Kind
		target  string
		derived bool
	}{
		{"deadline-overdue-p1", KindOverdue, "p1", true},
		{"deadline-soon-p1", KindDueSoon, "p1", true},
		{"deadline-week-p1", KindDueWeek, "p1", true},
		{"deadline-custom-p1", KindDeadline, "custom-p1", true},
		{"completed-p2", KindCompleted, "p2", true},
		{"alltasks-done-p3", KindAllTasksDone, "p3", true},
		{"mention-msg-m1", KindMention, "m1", false},
		{"team-member-t1", KindTeamMember, "t1", false},
		{"error-x", KindError, "x", false},
		{"something", KindOther, "something", false},
	}
	for _, tt := range tests {
		got := ParseID(tt.id)
		if got.Kind != tt.kind || got.Target != tt.target {
			t.Errorf("ParseID(%q) = %+v, want kind %v target %q", tt.id, got, tt.kind, tt.target)
		}
		if got.Kind.ProjectDerived() != tt.derived {
			t.Errorf("ParseID(%q).ProjectDerived() = %v", tt.id, !tt.derived)
		}
		if got.String() != tt.id {
			t.Errorf("round trip of %q gave %q", tt.id, got.String())
		}
	}
}

func TestGenerateOverdue(t *testing.T) {
	projects := []models.Project{{ID: "p1", Name: "Late", EndDate: dateIn(-1), Status: models.StatusInProgress}}

	got := Generate(projects, now)
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d: %+v", len(got), got)
	}
	if !strings.HasPrefix(got[0].ID, "deadline-overdue-") || got[0].Priority != 1 {
		t.Errorf("unexpected notification %+v", got[0])
	}
	if got[0].Message != `"Late" passed its deadline 1 day(s) ago` {
		t.Errorf("message = %q", got[0].Message)
	}
}

func TestGenerateDeadlineBands(t *testing.T) {
	tests := []struct {
		days     int
		prefix   string
		priority int
	}{
		{0, "deadline-soon-", 2},
		{3, "deadline-soon-", 2},
		{4, "deadline-week-", 3},
		{7, "deadline-week-", 3},
	}
	for _, tt := range tests {
		projects := []models.Project{{ID: "p", Name: "P", EndDate: dateIn(tt.days), Status: models.StatusPlanning}}
		got := Generate(projects, now)
		if len(got) != 1 || !strings.HasPrefix(got[0].ID, tt.prefix) || got[0].Priority != tt.priority {
			t.Errorf("days=%d: got %+v", tt.days, got)
		}
	}

	far := []models.Project{{ID: "p", Name: "P", EndDate: dateIn(8)}}
	if got := Generate(far, now); len(got) != 0 {
		t.Errorf("expected nothing for 8 days out, got %+v", got)
	}

	noDate := []models.Project{{ID: "p", Name: "P"}}
	if got := Generate(noDate, now); len(got) != 0 {
		t.Errorf("expected nothing without an end date, got %+v", got)
	}
}

func TestGenerateCompleted(t *testing.T) {
	projects := []models.Project{{
		ID:      "p1",
		Name:    "Done",
		EndDate: dateIn(-10),
		Status:  models.StatusCompleted,
		Tasks:   []models.Task{{ID: "t", Subtasks: []models.Subtask{{ID: "s", Completed: true}}}},
	}}
	got := Generate(projects, now)
	if len(got) != 1 || !strings.HasPrefix(got[0].ID, "completed-") {
		t.Fatalf("expected one completed notification, got %+v", got)
	}
}

func TestGenerateAllTasksDoneWithDeadline(t *testing.T) {
	projects := []models.Project{
		{
			ID:      "p1",
			Name:    "Wrapping up",
			EndDate: dateIn(2),
			Status:  models.StatusReview,
			Tasks: []models.Task{
				{ID: "a", Subtasks: []models.Subtask{{ID: "1", Completed: true}}},
				{ID: "b", Subtasks: []models.Subtask{{ID: "2", Completed: true}}},
			},
		},
		{ID: "p0", Name: "Overdue", EndDate: dateIn(-3), Status: models.StatusOnHold},
	}

	got := Generate(projects, now)
	ids := make([]string, len(got))
	for i, n := range got {
		ids[i] = n.ID
	}
	want := []string{"deadline-overdue-p0", "deadline-soon-p1", "alltasks-done-p1"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestGenerateNoSubtasks(t *testing.T) {
	projects := []models.Project{{ID: "p", Tasks: []models.Task{{ID: "a"}}}}
	if got := Generate(projects, now); len(got) != 0 {
		t.Errorf("empty task list must not count as all done, got %+v", got)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	projects := []models.Project{
		{ID: "p1", Name: "A", EndDate: dateIn(-1)},
		{ID: "p2", Name: "B", Status: models.StatusCompleted},
	}
	manual := models.Notification{ID: "mention-msg-1", Type: models.NotificationMention}

	first := Reconcile([]models.Notification{manual}, projects, now)
	first = MarkRead(first, "completed-p2")
	second := Reconcile(first, projects, now)
	third := Reconcile(second, projects, now)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass changed the set\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if !reflect.DeepEqual(second, third) {
		t.Errorf("third pass changed the set\nsecond: %+v\nthird:  %+v", second, third)
	}
	if last := third[len(third)-1]; last.ID != manual.ID {
		t.Errorf("manual notification should follow generated ones, got %+v", third)
	}
}

func TestReconcilePreservesReadAcrossContentChange(t *testing.T) {
	projects := []models.Project{
		{ID: "p1", Name: "Late", EndDate: dateIn(-1)},
		{ID: "p2", Name: "Other", EndDate: dateIn(30)},
	}
	set := Reconcile(nil, projects, now)
	set = MarkRead(set, "deadline-overdue-p1")

	// A day later, after an unrelated edit to p2.
	projects[1].Name = "Other (renamed)"
	later := Reconcile(set, projects, now.Add(24*time.Hour))

	if len(later) != 1 {
		t.Fatalf("expected 1 notification, got %+v", later)
	}
	if !later[0].Read {
		t.Error("read flag lost on regeneration")
	}
	if later[0].Message != `"Late" passed its deadline 2 day(s) ago` {
		t.Errorf("message not refreshed: %q", later[0].Message)
	}
}

func TestReconcileDropsStaleDerived(t *testing.T) {
	prev := []models.Notification{
		{ID: "deadline-soon-gone", Read: true},
		{ID: "team-member-1"},
	}
	got := Reconcile(prev, nil, now)
	if len(got) != 1 || got[0].ID != "team-member-1" {
		t.Errorf("expected only the manual entry, got %+v", got)
	}
}

func TestPushCap(t *testing.T) {
	var list []models.Notification
	for i := 0; i < 60; i++ {
		var changed bool
		list, changed = Push(list, models.Notification{ID: fmt.Sprintf("error-%d", i)})
		if !changed {
			t.Fatalf("push %d reported no change", i)
		}
	}
	if len(list) != Limit {
		t.Fatalf("expected %d retained, got %d", Limit, len(list))
	}
	if list[0].ID != "error-59" || list[Limit-1].ID != "error-10" {
		t.Errorf("expected most recent first, got first=%s last=%s", list[0].ID, list[Limit-1].ID)
	}
}

func TestPushDuplicate(t *testing.T) {
	list := []models.Notification{{ID: "mention-msg-1", Message: "old"}}
	got, changed := Push(list, models.Notification{ID: "mention-msg-1", Message: "new"})
	if changed || len(got) != 1 || got[0].Message != "old" {
		t.Errorf("duplicate push should be ignored, got %+v", got)
	}
}

func TestReadTransforms(t *testing.T) {
	list := []models.Notification{{ID: "a"}, {ID: "b"}, {ID: "c", Read: true}}
	if got := UnreadCount(list); got != 2 {
		t.Errorf("UnreadCount = %d, want 2", got)
	}

	marked := MarkRead(list, "a")
	if UnreadCount(marked) != 1 || list[0].Read {
		t.Error("MarkRead must not mutate its input")
	}
	if UnreadCount(MarkAllRead(list)) != 0 {
		t.Error("MarkAllRead left unread entries")
	}
}

func TestFailure(t *testing.T) {
	n := Failure("1", "Could not send message", errors.New("receiver not found"))
	if n.ID != "error-1" || n.Type != models.NotificationError || n.Message != "receiver not found" {
		t.Errorf("unexpected failure notification %+v", n)
	}
	if n := Failure("2", "x", nil); n.Message != "Please try again." {
		t.Errorf("default message = %q", n.Message)
	}
}
