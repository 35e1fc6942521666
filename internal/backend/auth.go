package backend

import (
	"context"
	"encoding/json"
	"net/http"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*TokenPair, error) {
	const op = "backend.Client.Login"

	var out TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &out); err != nil {
		return nil, wrap(op, err)
	}
	return &out, nil
}

func (c *Client) RefreshToken(ctx context.Context, pair TokenPair) (*TokenPair, error) {
	const op = "backend.Client.RefreshToken"

	var out TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/refresh-token", nil, pair, &out); err != nil {
		return nil, wrap(op, err)
	}
	return &out, nil
}

// Register, ForgotPassword and ResetPassword forward the payload untouched.

func (c *Client) Register(ctx context.Context, body json.RawMessage) error {
	return c.forward(ctx, "backend.Client.Register", "/auth/register", body)
}

func (c *Client) ForgotPassword(ctx context.Context, body json.RawMessage) error {
	return c.forward(ctx, "backend.Client.ForgotPassword", "/auth/forgot-password", body)
}

func (c *Client) ResetPassword(ctx context.Context, body json.RawMessage) error {
	return c.forward(ctx, "backend.Client.ResetPassword", "/auth/reset-password", body)
}

func (c *Client) forward(ctx context.Context, op, path string, body json.RawMessage) error {
	if err := c.do(ctx, http.MethodPost, path, nil, body, nil); err != nil {
		return wrap(op, err)
	}
	return nil
}
