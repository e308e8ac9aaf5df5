package api

import (
	"context"
	"net/http"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/normalize"
)

// ListTeam returns every team member
func (c *Client) ListTeam(ctx context.Context) ([]models.TeamMember, error) {
	var raws []normalize.RawMember
	if err := c.do(ctx, http.MethodGet, "/team", true, nil, &raws); err != nil {
		return nil, err
	}
	return normalize.Members(raws), nil
}

// CreateTeamMember adds a member and sends the invitation email
func (c *Client) CreateTeamMember(ctx context.Context, input models.TeamMemberInput) (*models.TeamMember, error) {
	return c.memberRequest(ctx, http.MethodPost, "/team", input)
}

// UpdateTeamMember updates a member's details
func (c *Client) UpdateTeamMember(ctx context.Context, id string, input models.TeamMemberInput) (*models.TeamMember, error) {
	return c.memberRequest(ctx, http.MethodPut, "/team/"+escape(id), input)
}

// PromoteTeamMember grants a member elevated rights
func (c *Client) PromoteTeamMember(ctx context.Context, id string) (*models.TeamMember, error) {
	return c.memberRequest(ctx, http.MethodPatch, "/team/"+escape(id)+"/promote", nil)
}

// DeleteTeamMember removes a member
func (c *Client) DeleteTeamMember(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/team/"+escape(id), true, nil, nil)
}

// ResendInvite re-sends a pending member's invitation
func (c *Client) ResendInvite(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/team/resend-invite/"+escape(id), true, nil, nil)
}

func (c *Client) memberRequest(ctx context.Context, method, path string, body any) (*models.TeamMember, error) {
	var raw normalize.RawMember
	if err := c.do(ctx, method, path, true, body, &raw); err != nil {
		return nil, err
	}
	m := normalize.Member(raw)
	return &m, nil
}
