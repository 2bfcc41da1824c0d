package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aoldacloud/console/internal/adapter/outbound/heimdall"
	"github.com/aoldacloud/console/internal/domain/auth"
)

// ProxyService relays proxy record CRUD to Heimdall. Ownership is enforced
// here: create and list always act on the authenticated caller's username,
// never on one supplied by the client.
type ProxyService struct {
	heimdall *heimdall.Client
	logger   *slog.Logger
}

// NewProxyService creates a new ProxyService.
func NewProxyService(client *heimdall.Client, logger *slog.Logger) *ProxyService {
	return &ProxyService{heimdall: client, logger: logger}
}

// Proxies lists the caller's proxy records.
func (s *ProxyService) Proxies(ctx context.Context) ([]heimdall.Proxy, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.heimdall.ListByUser(ctx, principal.Username)
}

// Proxy fetches one proxy record. Records owned by other users are
// reported as not found rather than revealed.
func (s *ProxyService) Proxy(ctx context.Context, id int64) (*heimdall.Proxy, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.heimdall.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Username != principal.Username {
		return nil, fmt.Errorf("proxy %d: %w", id, ErrNotOwned)
	}
	return p, nil
}

// CreateProxy registers a proxy record for the caller.
func (s *ProxyService) CreateProxy(ctx context.Context, p heimdall.Proxy) (*heimdall.Proxy, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	p.Username = principal.Username
	s.logger.Info("creating proxy",
		"username", principal.Username,
		"proxy_name", p.ProxyName,
	)
	return s.heimdall.Add(ctx, p)
}

// UpdateProxy replaces one of the caller's proxy records.
func (s *ProxyService) UpdateProxy(ctx context.Context, p heimdall.Proxy) (*heimdall.Proxy, error) {
	if _, err := s.Proxy(ctx, p.ID); err != nil {
		return nil, err
	}
	principal, _ := auth.PrincipalFromContext(ctx)
	p.Username = principal.Username
	return s.heimdall.Update(ctx, p)
}

// DeleteProxy removes one of the caller's proxy records.
func (s *ProxyService) DeleteProxy(ctx context.Context, id int64) error {
	if _, err := s.Proxy(ctx, id); err != nil {
		return err
	}
	principal, _ := auth.PrincipalFromContext(ctx)
	s.logger.Info("deleting proxy", "username", principal.Username, "proxy_id", id)
	return s.heimdall.Delete(ctx, id)
}
