package models

import (
	"fmt"
	"slices"
	"strings"
)

// Priorities lists every priority from least to most urgent
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// ParsePriority matches s case-insensitively against the known priorities
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// ParseStatus matches s case-insensitively against the known statuses
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Input returns an update payload carrying every field of the project
func (p Project) Input() ProjectInput {
	c := p.Clone()
	in := ProjectInput{
		Name:         c.Name,
		Description:  c.Description,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		Priority:     c.Priority,
		Category:     c.Category,
		Status:       c.Status,
		Tasks:        c.Tasks,
		AssignedTeam: make([]string, 0, len(c.AssignedTeam)),
	}
	if in.Tasks == nil {
		in.Tasks = []Task{}
	}
	for _, ref := range c.AssignedTeam {
		in.AssignedTeam = append(in.AssignedTeam, ref.ID())
	}
	return in
}

// Input returns an update payload carrying the member's editable fields
func (m TeamMember) Input() TeamMemberInput {
	return TeamMemberInput{
		Name:   m.Name,
		Role:   m.Role,
		Email:  m.Email,
		Phone:  m.Phone,
		Avatar: m.Avatar,
	}
}

// AddTask appends a task without an id; the backend assigns one
func (in *ProjectInput) AddTask(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("task name is required")
	}
	in.Tasks = append(in.Tasks, Task{Name: name, Subtasks: []Subtask{}})
	return nil
}

func (in *ProjectInput) taskIndex(taskID string) int {
	return slices.IndexFunc(in.Tasks, func(t Task) bool { return t.ID == taskID })
}

// RemoveTask drops a task and its subtasks
func (in *ProjectInput) RemoveTask(taskID string) error {
	i := in.taskIndex(taskID)
	if i < 0 {
		return fmt.Errorf("task %q not found", taskID)
	}
	in.Tasks = slices.Delete(in.Tasks, i, i+1)
	return nil
}

// AddSubtask appends an open subtask to a task
func (in *ProjectInput) AddSubtask(taskID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("subtask name is required")
	}
	i := in.taskIndex(taskID)
	if i < 0 {
		return fmt.Errorf("task %q not found", taskID)
	}
	in.Tasks[i].Subtasks = append(in.Tasks[i].Subtasks, Subtask{Name: name})
	return nil
}

// RemoveSubtask drops one subtask from a task
func (in *ProjectInput) RemoveSubtask(taskID, subtaskID string) error {
	i := in.taskIndex(taskID)
	if i < 0 {
		return fmt.Errorf("task %q not found", taskID)
	}
	subs := in.Tasks[i].Subtasks
	j := slices.IndexFunc(subs, func(s Subtask) bool { return s.ID == subtaskID })
	if j < 0 {
		return fmt.Errorf("subtask %q not found", subtaskID)
	}
	in.Tasks[i].Subtasks = slices.Delete(subs, j, j+1)
	return nil
}

// Assign adds a member id unless already assigned
func (in *ProjectInput) Assign(memberID string) {
	if !slices.Contains(in.AssignedTeam, memberID) {
		in.AssignedTeam = append(in.AssignedTeam, memberID)
	}
}

// Unassign removes a member id
func (in *ProjectInput) Unassign(memberID string) {
	in.AssignedTeam = slices.DeleteFunc(in.AssignedTeam, func(id string) bool { return id == memberID })
}
