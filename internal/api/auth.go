package api

import (
	"context"
	"net/http"

	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthPayload is returned by register and login: the freshly issued
// token plus the authenticated user.
type AuthPayload struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// ProfilePatch carries partial user updates; nil fields are omitted.
type ProfilePatch struct {
	Name        *string            `json:"name,omitempty"`
	Avatar      *string            `json:"avatar,omitempty"`
	Preferences *model.Preferences `json:"preferences,omitempty"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthPayload, error) {
	var payload AuthPayload
	if err := c.do(ctx, http.MethodPost, "/user/register", nil, req, &payload); err != nil {
		return AuthPayload{}, err
	}
	return payload, nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthPayload, error) {
	var payload AuthPayload
	if err := c.do(ctx, http.MethodPost, "/user/login", nil, req, &payload); err != nil {
		return AuthPayload{}, err
	}
	return payload, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/user/logout", nil, nil, nil)
}

func (c *Client) Profile(ctx context.Context) (model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/user/profile", nil, nil, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, patch ProfilePatch) (model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPut, "/user/profile", nil, patch, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	return c.do(ctx, http.MethodPut, "/user/change-password", nil, body, nil)
}

func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	body := map[string]string{"password": password}
	return c.do(ctx, http.MethodDelete, "/user/account", nil, body, nil)
}
