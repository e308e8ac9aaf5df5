package models

import (
	"slices"
	"testing"
	"time"
)

func TestParsePriorityAndStatus(t *testing.T) {
	if p, err := ParsePriority("critical"); err != nil || p != PriorityCritical {
		t.Errorf("ParsePriority(critical) = %q, %v", p, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("ParsePriority(urgent) should fail")
	}
	if s, err := ParseStatus("in progress"); err != nil || s != StatusInProgress {
		t.Errorf("ParseStatus(in progress) = %q, %v", s, err)
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Error("ParseStatus(done) should fail")
	}
}

func TestProjectInputKeepsEveryField(t *testing.T) {
	p := Project{
		ID:        "p1",
		Name:      "Launch",
		StartDate: NewDate(2026, time.October, 1),
		Priority:  PriorityHigh,
		Status:    StatusReview,
		Tasks: []Task{{
			ID:       "a",
			Subtasks: []Subtask{{ID: "a1", Completed: true}},
		}},
		AssignedTeam: []MemberRef{Reference("m1"), Embedded(TeamMember{ID: "m2", Name: "Ben"})},
	}
	in := p.Input()
	if in.Name != "Launch" || in.StartDate != p.StartDate || in.Priority != PriorityHigh || in.Status != StatusReview {
		t.Errorf("Input() = %+v", in)
	}
	if !slices.Equal(in.AssignedTeam, []string{"m1", "m2"}) {
		t.Errorf("AssignedTeam = %v", in.AssignedTeam)
	}

	in.Tasks[0].Subtasks[0].Completed = false
	if !p.Tasks[0].Subtasks[0].Completed {
		t.Error("Input() shares subtasks with the project")
	}

	if in := (Project{}).Input(); in.Tasks == nil || in.AssignedTeam == nil {
		t.Errorf("empty project Input() = %+v, want non-nil slices", in)
	}
}

func TestProjectInputTaskEdits(t *testing.T) {
	in := Project{Tasks: []Task{{ID: "a", Subtasks: []Subtask{{ID: "a1"}, {ID: "a2"}}}}}.Input()

	if err := in.AddTask("  "); err == nil {
		t.Error("AddTask with blank name should fail")
	}
	if err := in.AddTask("Ship"); err != nil {
		t.Fatal(err)
	}
	if len(in.Tasks) != 2 || in.Tasks[1].ID != "" || in.Tasks[1].Subtasks == nil {
		t.Errorf("tasks after AddTask = %+v", in.Tasks)
	}

	if err := in.AddSubtask("a", "Sign off"); err != nil {
		t.Fatal(err)
	}
	if err := in.AddSubtask("missing", "x"); err == nil {
		t.Error("AddSubtask on unknown task should fail")
	}
	if err := in.RemoveSubtask("a", "a1"); err != nil {
		t.Fatal(err)
	}
	if err := in.RemoveSubtask("a", "a1"); err == nil {
		t.Error("removing a subtask twice should fail")
	}
	names := []string{}
	for _, st := range in.Tasks[0].Subtasks {
		names = append(names, st.ID+st.Name)
	}
	if !slices.Equal(names, []string{"a2", "Sign off"}) {
		t.Errorf("subtasks = %v", names)
	}

	if err := in.RemoveTask("a"); err != nil {
		t.Fatal(err)
	}
	if len(in.Tasks) != 1 || in.Tasks[0].Name != "Ship" {
		t.Errorf("tasks after RemoveTask = %+v", in.Tasks)
	}
}

func TestProjectInputAssign(t *testing.T) {
	in := ProjectInput{AssignedTeam: []string{"m1"}}
	in.Assign("m1")
	in.Assign("m2")
	in.Unassign("m1")
	if !slices.Equal(in.AssignedTeam, []string{"m2"}) {
		t.Errorf("AssignedTeam = %v", in.AssignedTeam)
	}
}
