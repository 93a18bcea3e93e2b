package catalog

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

// HTTPSource reads the catalog from another instance of this service.
type HTTPSource struct {
	baseURL string
	timeout time.Duration
}

// NewHTTPSource creates an HTTPSource rooted at baseURL.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

func (s *HTTPSource) FetchCatalog(ctx context.Context, catalogPath string) ([]library.ListingMeta, error) {
	code, body, err := s.get(ctx, catalogPath)
	if err != nil {
		return nil, err
	}
	switch {
	case code == fiber.StatusNotFound:
		return nil, nil
	case code != fiber.StatusOK:
		return nil, fmt.Errorf("catalog %s returned status %d", catalogPath, code)
	}
	if len(body) == 0 || string(body) == "null" {
		return nil, nil
	}
	var metas []library.ListingMeta
	if err := json.Unmarshal(body, &metas); err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", catalogPath, err)
	}
	return metas, nil
}

func (s *HTTPSource) Fetch(ctx context.Context, link, id string) ([]byte, error) {
	code, body, err := s.get(ctx, link+id)
	if err != nil {
		return nil, err
	}
	switch {
	case code == fiber.StatusNotFound:
		return nil, fmt.Errorf("%w: %s%s", ErrNotFound, link, id)
	case code != fiber.StatusOK:
		return nil, fmt.Errorf("catalog item %s%s returned status %d", link, id, code)
	}
	return body, nil
}

func (s *HTTPSource) get(ctx context.Context, path string) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	agent := fiber.Get(s.baseURL + path)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	agent.Timeout(timeout)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return 0, nil, fmt.Errorf("invalid catalog url %s: %w", path, err)
	}
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, nil, fmt.Errorf("failed to fetch %s: %w", path, errors.Join(errs...))
	}
	return code, body, nil
}
