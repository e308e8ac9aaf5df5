package store

import (
	"context"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/progress"
	"github.com/tgienger/projexis/internal/stats"
)

// Projects returns a copy of the project list
func (s *Store) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Project, len(s.projects))
	for i, p := range s.projects {
		out[i] = p.Clone()
	}
	return out
}

// Project returns a copy of the project with id
func (s *Store) Project(id string) (models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.projectIndex(id)
	if i < 0 {
		return models.Project{}, ErrProjectNotFound
	}
	return s.projects[i].Clone(), nil
}

// ProjectsWithProgress returns every project with its derived progress
func (s *Store) ProjectsWithProgress() []models.ProjectView {
	projects := s.Projects()
	out := make([]models.ProjectView, len(projects))
	for i, p := range projects {
		out[i] = progress.WithProgress(p)
	}
	return out
}

// Summary aggregates the project list as of the store's clock
func (s *Store) Summary() stats.Summary {
	return stats.Summarize(s.Projects(), s.now())
}

func (s *Store) projectIndex(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// CreateProject creates a project and puts it first in the list
func (s *Store) CreateProject(ctx context.Context, input models.ProjectInput) (*models.Project, error) {
	p, err := s.api.CreateProject(ctx, input)
	if err != nil {
		s.logger.Error().Err(err).Str("name", input.Name).Msg("failed to create project")
		return nil, err
	}

	s.mu.Lock()
	s.projects = append([]models.Project{p.Clone()}, s.projects...)
	s.mu.Unlock()

	s.RecomputeNotifications()
	return p, nil
}

// UpdateProject replaces a project with the server's updated copy
func (s *Store) UpdateProject(ctx context.Context, id string, input models.ProjectInput) (*models.Project, error) {
	p, err := s.api.UpdateProject(ctx, id, input)
	if err != nil {
		s.logger.Error().Err(err).Str("project", id).Msg("failed to update project")
		return nil, err
	}

	s.mu.Lock()
	if i := s.projectIndex(id); i >= 0 {
		s.projects[i] = p.Clone()
	}
	s.mu.Unlock()

	s.RecomputeNotifications()
	return p, nil
}

// EditProject applies edit to the full payload of the current project and
// sends it as an update. Fields edit leaves alone are sent unchanged.
func (s *Store) EditProject(ctx context.Context, id string, edit func(*models.ProjectInput) error) (*models.Project, error) {
	current, err := s.Project(id)
	if err != nil {
		return nil, err
	}
	input := current.Input()
	if err := edit(&input); err != nil {
		return nil, err
	}
	return s.UpdateProject(ctx, id, input)
}

// DeleteProject deletes a project
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	if err := s.api.DeleteProject(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("project", id).Msg("failed to delete project")
		return err
	}

	s.mu.Lock()
	if i := s.projectIndex(id); i >= 0 {
		s.projects = append(s.projects[:i:i], s.projects[i+1:]...)
	}
	s.mu.Unlock()

	s.RecomputeNotifications()
	return nil
}

// toggle is a speculative subtask flip with the value it replaced
type toggle struct {
	projectID string
	taskID    string
	subtaskID string
	prior     bool
}

// apply flips the subtask locally and captures its prior value
func (s *Store) apply(projectID, taskID, subtaskID string) (toggle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(projectID)
	if i < 0 {
		return toggle{}, ErrProjectNotFound
	}
	st := s.projects[i].Subtask(taskID, subtaskID)
	if st == nil {
		return toggle{}, ErrSubtaskNotFound
	}
	t := toggle{projectID: projectID, taskID: taskID, subtaskID: subtaskID, prior: st.Completed}
	st.Completed = !st.Completed
	return t, nil
}

// commit applies the status the server reported for the project, if any
func (s *Store) commit(t toggle, status models.Status) {
	if status == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.projectIndex(t.projectID); i >= 0 {
		s.projects[i].Status = status
	}
}

// rollback restores the captured prior value
func (s *Store) rollback(t toggle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndex(t.projectID)
	if i < 0 {
		return
	}
	if st := s.projects[i].Subtask(t.taskID, t.subtaskID); st != nil {
		st.Completed = t.prior
	}
}

// ToggleSubtask flips a subtask optimistically and reverts it if the backend rejects the change
func (s *Store) ToggleSubtask(ctx context.Context, projectID, taskID, subtaskID string) error {
	t, err := s.apply(projectID, taskID, subtaskID)
	if err != nil {
		return err
	}
	s.RecomputeNotifications()

	result, err := s.api.ToggleSubtask(ctx, projectID, taskID, subtaskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project", projectID).
			Str("subtask", subtaskID).
			Msg("failed to toggle subtask, reverting")
		s.rollback(t)
		s.RecomputeNotifications()
		return err
	}

	s.commit(t, result.ProjectStatus)
	s.RecomputeNotifications()
	return nil
}
