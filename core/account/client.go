package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"improved-initiative/core/library"

	"github.com/gofiber/fiber/v2"
)

// ErrNotConfigured is returned when no account base URL is set.
var ErrNotConfigured = errors.New("account: not configured")

// Client talks to the account service.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

// NewClient creates a Client, or returns ErrNotConfigured.
func NewClient(cfg Config) (*Client, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		timeout: timeout,
	}, nil
}

// Save stores one item of kind slug.
func (c *Client) Save(ctx context.Context, slug string, item any) error {
	_, err := c.do(ctx, fiber.MethodPost, "/my/"+slug+"/", item)
	return err
}

// SaveBatch stores many items of kind slug in one request.
func (c *Client) SaveBatch(ctx context.Context, slug string, items []any) error {
	_, err := c.do(ctx, fiber.MethodPost, "/my/"+slug+"/batch", items)
	return err
}

// Delete removes one item of kind slug.
func (c *Client) Delete(ctx context.Context, slug, id string) error {
	_, err := c.do(ctx, fiber.MethodDelete, "/my/"+slug+"/"+id, nil)
	if errors.Is(err, library.ErrNotFound) {
		return nil
	}
	return err
}

// Fetch implements library.Fetcher for account links such as "/my/spells/".
func (c *Client) Fetch(ctx context.Context, link, id string) ([]byte, error) {
	return c.do(ctx, fiber.MethodGet, link+id, nil)
}

// Listings returns the account's listings of kind slug.
func (c *Client) Listings(ctx context.Context, slug string) ([]library.ListingMeta, error) {
	body, err := c.do(ctx, fiber.MethodGet, "/my/"+slug+"/", nil)
	if errors.Is(err, library.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var metas []library.ListingMeta
	if err := json.Unmarshal(body, &metas); err != nil {
		return nil, fmt.Errorf("failed to decode account listings %s: %w", slug, err)
	}
	return metas, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	if payload != nil {
		agent.JSON(payload)
	}
	agent.Timeout(timeout)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, fmt.Errorf("invalid account url %s: %w", path, err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("account %s %s failed: %w", method, path, errors.Join(errs...))
	}
	switch {
	case code == fiber.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", library.ErrNotFound, path)
	case code < 200 || code > 299:
		return nil, fmt.Errorf("account %s %s returned status %d", method, path, code)
	}
	return body, nil
}
