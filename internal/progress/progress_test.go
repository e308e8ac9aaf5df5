package progress

import (
	"testing"

	"github.com/tgienger/projexis/internal/models"
)

func subtasks(done, total int) []models.Subtask {
	out := make([]models.Subtask, total)
	for i := range out {
		out[i] = models.Subtask{ID: string(rune('a' + i)), Completed: i < done}
	}
	return out
}

func TestTaskProgress(t *testing.T) {
	tests := []struct {
		name        string
		done, total int
		want        int
	}{
		{"empty", 0, 0, 0},
		{"none done", 0, 4, 0},
		{"all done", 3, 3, 100},
		{"half", 1, 2, 50},
		{"one third", 1, 3, 33},
		{"two thirds", 2, 3, 67},
		{"one eighth rounds half up", 1, 8, 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TaskProgress(subtasks(tt.done, tt.total)); got != tt.want {
				t.Errorf("TaskProgress(%d/%d) = %d, want %d", tt.done, tt.total, got, tt.want)
			}
		})
	}
}

func TestTaskProgressMonotonic(t *testing.T) {
	const total = 7
	prev := -1
	for done := 0; done <= total; done++ {
		got := TaskProgress(subtasks(done, total))
		if got < prev {
			t.Fatalf("progress decreased from %d to %d at %d done", prev, got, done)
		}
		prev = got
	}
	if prev != 100 {
		t.Errorf("expected 100 when all done, got %d", prev)
	}
}

func TestProjectProgress(t *testing.T) {
	if got := ProjectProgress(nil); got != 0 {
		t.Errorf("ProjectProgress(nil) = %d, want 0", got)
	}

	// 25 and 75 average to exactly 50
	tasks := []models.Task{
		{ID: "a", Subtasks: subtasks(1, 4)},
		{ID: "b", Subtasks: subtasks(3, 4)},
	}
	if got := ProjectProgress(tasks); got != 50 {
		t.Errorf("ProjectProgress(25,75) = %d, want 50", got)
	}

	// 33 and 34 average to 33.5 which rounds up
	tasks = []models.Task{
		{ID: "a", Subtasks: subtasks(1, 3)},
		{ID: "b", Subtasks: subtasks(17, 50)},
	}
	if got := ProjectProgress(tasks); got != 34 {
		t.Errorf("ProjectProgress(33,34) = %d, want 34", got)
	}
}

func TestProjectProgressMixedTasks(t *testing.T) {
	project := models.Project{
		Tasks: []models.Task{
			{ID: "A", Subtasks: []models.Subtask{{ID: "1", Completed: true}, {ID: "2"}}},
			{ID: "B"},
		},
	}
	view := WithProgress(project)
	if view.Tasks[0].Progress != 50 {
		t.Errorf("task A progress = %d, want 50", view.Tasks[0].Progress)
	}
	if view.Tasks[1].Progress != 0 {
		t.Errorf("task B progress = %d, want 0", view.Tasks[1].Progress)
	}
	if view.Progress != 25 {
		t.Errorf("project progress = %d, want 25", view.Progress)
	}
}

func TestColorAndLabel(t *testing.T) {
	tests := []struct {
		progress int
		color    Color
		label    string
	}{
		{100, ColorComplete, "Completed"},
		{99, ColorGood, "Near Completion"},
		{75, ColorGood, "Near Completion"},
		{74, ColorWarning, "On Track"},
		{50, ColorWarning, "On Track"},
		{25, ColorPoor, "In Progress"},
		{24, ColorCritical, "Just Started"},
		{0, ColorCritical, "Just Started"},
	}
	for _, tt := range tests {
		if got := ColorFor(tt.progress); got != tt.color {
			t.Errorf("ColorFor(%d) = %s, want %s", tt.progress, got, tt.color)
		}
		if got := Label(tt.progress); got != tt.label {
			t.Errorf("Label(%d) = %q, want %q", tt.progress, got, tt.label)
		}
	}
}
