// Package progress derives completion percentages from subtask state.
package progress

import "github.com/tgienger/projexis/internal/models"

// Color is a progress band token
type Color string

const (
	ColorComplete Color = "complete"
	ColorGood     Color = "good"
	ColorWarning  Color = "warning"
	ColorPoor     Color = "poor"
	ColorCritical Color = "critical"
)

// roundPercent returns round-half-up of 100*num/den for non-negative inputs
func roundPercent(num, den int) int {
	if den == 0 {
		return 0
	}
	return (200*num + den) / (2 * den)
}

// TaskProgress returns the share of completed subtasks as a percentage
func TaskProgress(subtasks []models.Subtask) int {
	completed := 0
	for _, s := range subtasks {
		if s.Completed {
			completed++
		}
	}
	return roundPercent(completed, len(subtasks))
}

// ProjectProgress returns the rounded mean of task progress values
func ProjectProgress(tasks []models.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	sum := 0
	for _, t := range tasks {
		sum += TaskProgress(t.Subtasks)
	}
	// sum/len(tasks) rounded half up
	return (2*sum + len(tasks)) / (2 * len(tasks))
}

// ColorFor maps a progress value onto its band
func ColorFor(progress int) Color {
	switch {
	case progress == 100:
		return ColorComplete
	case progress >= 75:
		return ColorGood
	case progress >= 50:
		return ColorWarning
	case progress >= 25:
		return ColorPoor
	default:
		return ColorCritical
	}
}

// Label returns the qualitative status for a progress value
func Label(progress int) string {
	switch {
	case progress == 100:
		return "Completed"
	case progress >= 75:
		return "Near Completion"
	case progress >= 50:
		return "On Track"
	case progress >= 25:
		return "In Progress"
	default:
		return "Just Started"
	}
}

// WithProgress attaches derived progress to a project and each of its tasks
func WithProgress(p models.Project) models.ProjectView {
	view := models.ProjectView{
		Project:  p,
		Progress: ProjectProgress(p.Tasks),
		Tasks:    make([]models.TaskView, len(p.Tasks)),
	}
	for i, t := range p.Tasks {
		view.Tasks[i] = models.TaskView{Task: t, Progress: TaskProgress(t.Subtasks)}
	}
	return view
}
