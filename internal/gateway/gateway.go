// Package gateway obtains session links from the external game server.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gamehub/internal/config"
)

// ErrNoEndpoint is returned when the game server hands back no link.
var ErrNoEndpoint = errors.New("gateway returned no endpoint")

// Allocator hands out the link clients use to reach a new game session.
type Allocator interface {
	Allocate(ctx context.Context) (string, error)
}

// New builds the allocator selected by cfg.Mode.
func New(cfg config.Gateway, logger *slog.Logger) (Allocator, error) {
	switch cfg.Mode {
	case config.GatewayStatic, "":
		return NewStatic(cfg.Endpoint), nil
	case config.GatewayHTTP:
		if strings.TrimSpace(cfg.Endpoint) == "" {
			return nil, errors.New("gateway: http mode requires GATEWAY_URL")
		}
		return NewHTTPClient(HTTPConfig{
			URL:     cfg.Endpoint,
			Timeout: cfg.Timeout,
			Retries: cfg.Retries,
			Logger:  logger,
		}), nil
	default:
		return nil, fmt.Errorf("gateway: unknown mode %q", cfg.Mode)
	}
}

// Static returns the same configured link for every session. It stands in
// for the game server until one is deployed.
type Static struct {
	endpoint string
}

func NewStatic(endpoint string) *Static {
	return &Static{endpoint: strings.TrimSpace(endpoint)}
}

func (s *Static) Allocate(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.endpoint == "" {
		return "", ErrNoEndpoint
	}
	return s.endpoint, nil
}

// Func adapts a plain function to Allocator.
type Func func(ctx context.Context) (string, error)

func (f Func) Allocate(ctx context.Context) (string, error) {
	return f(ctx)
}
