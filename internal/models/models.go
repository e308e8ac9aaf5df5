package models

// Priority is the urgency assigned to a project
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Status is the lifecycle stage of a project
type Status string

const (
	StatusPlanning   Status = "Planning"
	StatusInProgress Status = "In Progress"
	StatusOnHold     Status = "On Hold"
	StatusReview     Status = "Review"
	StatusCompleted  Status = "Completed"
)

// Statuses lists every project status in workflow order
var Statuses = []Status{StatusPlanning, StatusInProgress, StatusOnHold, StatusReview, StatusCompleted}

// Project represents a tracked unit of work
type Project struct {
	ID           string      `json:"id" yaml:"id"`
	Name         string      `json:"name" yaml:"name"`
	Description  string      `json:"description" yaml:"description"`
	StartDate    Date        `json:"startDate" yaml:"startDate"`
	EndDate      Date        `json:"endDate" yaml:"endDate"`
	Priority     Priority    `json:"priority" yaml:"priority"`
	Category     string      `json:"category" yaml:"category"`
	Status       Status      `json:"status" yaml:"status"`
	Tasks        []Task      `json:"tasks" yaml:"tasks"`
	AssignedTeam []MemberRef `json:"assignedTeam" yaml:"assignedTeam"`
}

// Task is a unit of work inside a project
type Task struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Subtasks []Subtask `json:"subtasks" yaml:"subtasks"`
}

// Subtask is the unit of completion
type Subtask struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Clone returns a deep copy of the project
func (p Project) Clone() Project {
	c := p
	c.Tasks = make([]Task, len(p.Tasks))
	for i, t := range p.Tasks {
		c.Tasks[i] = t
		c.Tasks[i].Subtasks = append([]Subtask(nil), t.Subtasks...)
	}
	c.AssignedTeam = append([]MemberRef(nil), p.AssignedTeam...)
	return c
}

// Subtask returns a pointer to the subtask addressed by task and subtask ID, or nil
func (p *Project) Subtask(taskID, subtaskID string) *Subtask {
	for i := range p.Tasks {
		if p.Tasks[i].ID != taskID {
			continue
		}
		for j := range p.Tasks[i].Subtasks {
			if p.Tasks[i].Subtasks[j].ID == subtaskID {
				return &p.Tasks[i].Subtasks[j]
			}
		}
	}
	return nil
}

// ProjectInput is the payload for creating or updating a project
type ProjectInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	StartDate    Date     `json:"startDate"`
	EndDate      Date     `json:"endDate"`
	Priority     Priority `json:"priority"`
	Category     string   `json:"category"`
	Status       Status   `json:"status"`
	Tasks        []Task   `json:"tasks"`
	AssignedTeam []string `json:"assignedTeam"`
}

// ProjectView is a project together with its derived progress
type ProjectView struct {
	Project  Project    `json:"project" yaml:"project"`
	Progress int        `json:"progress" yaml:"progress"`
	Tasks    []TaskView `json:"tasks" yaml:"tasks"`
}

// TaskView is a task together with its derived progress
type TaskView struct {
	Task     Task `json:"task" yaml:"task"`
	Progress int  `json:"progress" yaml:"progress"`
}
