package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/iliyamo/fivec-menu/internal/model"
)

const adminPrefix = "/api/v2/admin"

type messageResponse struct {
	Message string `json:"message"`
}

// RequestMagicLink asks the API to email a login link.  The API answers
// with the same message whether or not the address is registered.
func (c *Client) RequestMagicLink(ctx context.Context, email string) (string, error) {
	var out messageResponse
	_, err := c.send(ctx, call{
		method: http.MethodPost,
		path:   adminPrefix + "/auth/request-link",
		body:   map[string]string{"email": email},
	}, &out)
	return out.Message, err
}

// VerifyMagicLink exchanges a link token for a session and returns the
// session token the API set in its cookie.
func (c *Client) VerifyMagicLink(ctx context.Context, token string) (string, error) {
	resp, err := c.send(ctx, call{
		method: http.MethodPost,
		path:   adminPrefix + "/auth/verify",
		body:   map[string]string{"token": token},
	}, nil)
	if err != nil {
		return "", err
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookie && ck.Value != "" {
			return ck.Value, nil
		}
	}
	return "", errors.New("verify: API did not issue a session cookie")
}

// Logout ends the session upstream.
func (c *Client) Logout(ctx context.Context, session string) error {
	_, err := c.send(ctx, call{method: http.MethodPost, path: adminPrefix + "/auth/logout", session: session}, nil)
	return err
}

// ListHours returns all regular hours ordered by hall, day and meal.
func (c *Client) ListHours(ctx context.Context, session string) ([]model.Hours, error) {
	var out []model.Hours
	_, err := c.send(ctx, call{method: http.MethodGet, path: adminPrefix + "/hours", session: session}, &out)
	return out, err
}

// CreateHours adds a regular hours row.
func (c *Client) CreateHours(ctx context.Context, session string, in model.HoursCreate) (*model.Hours, error) {
	var out model.Hours
	if _, err := c.send(ctx, call{method: http.MethodPost, path: adminPrefix + "/hours", session: session, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateHours changes start/end/active of a row.
func (c *Client) UpdateHours(ctx context.Context, session string, id int64, in model.HoursUpdate) (*model.Hours, error) {
	var out model.Hours
	path := fmt.Sprintf("%s/hours/%d", adminPrefix, id)
	if _, err := c.send(ctx, call{method: http.MethodPut, path: path, session: session, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteHours removes a row.
func (c *Client) DeleteHours(ctx context.Context, session string, id int64) error {
	path := fmt.Sprintf("%s/hours/%d", adminPrefix, id)
	_, err := c.send(ctx, call{method: http.MethodDelete, path: path, session: session}, nil)
	return err
}

// ListOverrides returns all overrides, newest date first.
func (c *Client) ListOverrides(ctx context.Context, session string) ([]model.Override, error) {
	var out []model.Override
	_, err := c.send(ctx, call{method: http.MethodGet, path: adminPrefix + "/overrides", session: session}, &out)
	return out, err
}

// CreateOverride adds a date override.
func (c *Client) CreateOverride(ctx context.Context, session string, in model.OverrideCreate) (*model.Override, error) {
	var out model.Override
	if _, err := c.send(ctx, call{method: http.MethodPost, path: adminPrefix + "/overrides", session: session, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOverride changes start/end/reason of an override.
func (c *Client) UpdateOverride(ctx context.Context, session string, id int64, in model.OverrideUpdate) (*model.Override, error) {
	var out model.Override
	path := fmt.Sprintf("%s/overrides/%d", adminPrefix, id)
	if _, err := c.send(ctx, call{method: http.MethodPut, path: path, session: session, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteOverride removes an override.
func (c *Client) DeleteOverride(ctx context.Context, session string, id int64) error {
	path := fmt.Sprintf("%s/overrides/%d", adminPrefix, id)
	_, err := c.send(ctx, call{method: http.MethodDelete, path: path, session: session}, nil)
	return err
}

// ParserHealth returns the scraper health summary per hall.
func (c *Client) ParserHealth(ctx context.Context, session string) ([]model.ParserHealth, error) {
	var out []model.ParserHealth
	_, err := c.send(ctx, call{method: http.MethodGet, path: adminPrefix + "/health", session: session}, &out)
	return out, err
}
