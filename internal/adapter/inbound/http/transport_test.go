package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/aoldacloud/console/internal/adapter/outbound/heimdall"
	"github.com/aoldacloud/console/internal/adapter/outbound/memory"
	"github.com/aoldacloud/console/internal/service"
)

func testServices(store *memory.SessionStore) Services {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := &stubProvider{}
	factory := stubFactory{}
	hc := heimdall.New("http://127.0.0.1:0")
	return Services{
		Auth:      service.NewAuthService(provider, factory, store, time.Hour, logger),
		Directory: service.NewDirectoryService(factory, logger),
		Compute:   service.NewComputeService(factory, logger),
		Network:   service.NewNetworkService(factory, logger),
		Proxy:     service.NewProxyService(hc, logger),
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

func TestTransportStartsAndShutsDownCleanly(t *testing.T) {
	defer goleak.VerifyNone(t,
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)

	store := memory.NewSessionStore()
	transport := NewHTTPTransport(testServices(store), store,
		WithAddr(freeAddr(t)),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithSessionCounter(store),
	)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- transport.Start(ctx)
	}()

	// Give the listener a moment to come up, then trigger shutdown.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Fatalf("Start() returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("transport did not shut down")
	}
}

func TestTransportRejectsBusyAddr(t *testing.T) {
	store := memory.NewSessionStore()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	defer l.Close()

	transport := NewHTTPTransport(testServices(store), store,
		WithAddr(l.Addr().String()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := transport.Start(ctx); err == nil {
		t.Fatal("expected bind error for busy address")
	}
}
