package api

import (
	"context"
	"net/http"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/normalize"
)

// ToggleResult is the backend's answer to a subtask toggle
type ToggleResult struct {
	// ProjectStatus is set when the toggle changed the project's status.
	ProjectStatus models.Status `json:"projectStatus"`
}

// ListProjects returns every project visible to the user
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var raws []normalize.RawProject
	if err := c.do(ctx, http.MethodGet, "/projects", true, nil, &raws); err != nil {
		return nil, err
	}
	c.warnInvalidDates(raws...)
	return normalize.Projects(raws), nil
}

// warnInvalidDates logs project dates that were dropped during normalization
func (c *Client) warnInvalidDates(raws ...normalize.RawProject) {
	for _, raw := range raws {
		if fields := normalize.InvalidDates(raw); len(fields) > 0 {
			id := normalize.ID(raw.ID)
			if id == "" {
				id = normalize.ID(raw.MongoID)
			}
			c.logger.Warn().
				Str("project_id", id).
				Strs("fields", fields).
				Msg("ignoring unreadable project dates")
		}
	}
}

// CreateProject creates a project
func (c *Client) CreateProject(ctx context.Context, input models.ProjectInput) (*models.Project, error) {
	var raw normalize.RawProject
	if err := c.do(ctx, http.MethodPost, "/projects", true, input, &raw); err != nil {
		return nil, err
	}
	c.warnInvalidDates(raw)
	p := normalize.Project(raw)
	return &p, nil
}

// UpdateProject replaces a project's editable fields
func (c *Client) UpdateProject(ctx context.Context, id string, input models.ProjectInput) (*models.Project, error) {
	var raw normalize.RawProject
	if err := c.do(ctx, http.MethodPut, "/projects/"+escape(id), true, input, &raw); err != nil {
		return nil, err
	}
	c.warnInvalidDates(raw)
	p := normalize.Project(raw)
	return &p, nil
}

// DeleteProject deletes a project
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+escape(id), true, nil, nil)
}

// ToggleSubtask flips a subtask's completed flag on the server
func (c *Client) ToggleSubtask(ctx context.Context, projectID, taskID, subtaskID string) (*ToggleResult, error) {
	path := "/projects/" + escape(projectID) +
		"/tasks/" + escape(taskID) +
		"/subtasks/" + escape(subtaskID) + "/toggle"
	var result ToggleResult
	if err := c.do(ctx, http.MethodPatch, path, true, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
