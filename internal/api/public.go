package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iliyamo/fivec-menu/internal/calendar"
	"github.com/iliyamo/fivec-menu/internal/model"
)

// ListHalls returns every dining hall.
func (c *Client) ListHalls(ctx context.Context) ([]model.Hall, error) {
	var out []model.Hall
	_, err := c.send(ctx, call{method: http.MethodGet, path: "/api/v2/halls/"}, &out)
	return out, err
}

// ListOpenNow returns the halls serving right now with their current meal.
func (c *Client) ListOpenNow(ctx context.Context) ([]model.OpenHall, error) {
	var out []model.OpenHall
	_, err := c.send(ctx, call{method: http.MethodGet, path: "/api/v2/open-now/"}, &out)
	return out, err
}

// GetMenu returns the menu for one hall, date and meal.
func (c *Client) GetMenu(ctx context.Context, hallID string, date calendar.Date, meal string) (*model.Menu, error) {
	q := url.Values{}
	q.Set("hall_id", hallID)
	q.Set("date", date.String())
	q.Set("meal", meal)
	var out model.Menu
	if _, err := c.send(ctx, call{method: http.MethodGet, path: "/api/v2/menus/", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
