package api

import (
	"context"
	"net/http"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/normalize"
)

// Session is a credential and the profile it belongs to
type Session struct {
	Token string
	User  models.User
}

type sessionResponse struct {
	Token string            `json:"token"`
	User  normalize.RawUser `json:"user"`
}

func (r sessionResponse) session() *Session {
	return &Session{Token: r.Token, User: normalize.User(r.User)}
}

// Login exchanges credentials for a session
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", false, body, &resp); err != nil {
		return nil, err
	}
	return resp.session(), nil
}

// Register creates an account and returns its session
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", false, body, &resp); err != nil {
		return nil, err
	}
	return resp.session(), nil
}

// AcceptInvite sets a password for an invited member and returns its session
func (c *Client) AcceptInvite(ctx context.Context, inviteToken, password string) (*Session, error) {
	body := map[string]string{"token": inviteToken, "password": password}
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/auth/accept-invite", false, body, &resp); err != nil {
		return nil, err
	}
	return resp.session(), nil
}

// Me fetches the current user's profile
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var raw normalize.RawUser
	if err := c.do(ctx, http.MethodGet, "/auth/me", true, nil, &raw); err != nil {
		return nil, err
	}
	u := normalize.User(raw)
	return &u, nil
}

// UpdateProfile updates the current user's profile
func (c *Client) UpdateProfile(ctx context.Context, input models.ProfileInput) (*models.User, error) {
	var raw normalize.RawUser
	if err := c.do(ctx, http.MethodPut, "/auth/profile", true, input, &raw); err != nil {
		return nil, err
	}
	u := normalize.User(raw)
	return &u, nil
}

// UpdatePassword changes the current user's password
func (c *Client) UpdatePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return c.do(ctx, http.MethodPut, "/auth/password", true, body, nil)
}

// ForgotPassword requests a password reset email
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", false, map[string]string{"email": email}, nil)
}

// ResetPassword sets a new password using a reset token
func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) error {
	body := map[string]string{"token": resetToken, "password": password}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", false, body, nil)
}
