package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	httptransport "github.com/aoldacloud/console/internal/adapter/inbound/http"
	"github.com/aoldacloud/console/internal/adapter/outbound/heimdall"
	"github.com/aoldacloud/console/internal/adapter/outbound/keystone"
	"github.com/aoldacloud/console/internal/adapter/outbound/memory"
	"github.com/aoldacloud/console/internal/config"
	"github.com/aoldacloud/console/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the console API server",
	Long: `Start the console API server.

The server authenticates logins against Keystone, issues console session
tokens, and relays compute, network, and proxy operations to the OpenStack
and Heimdall APIs under each caller's project scope.

Examples:
  # Start with config file settings
  console serve

  # Start with a specific config file
  console --config /path/to/console.yaml serve

  # Start against a specific Keystone
  CONSOLE_KEYSTONE_AUTH_URL=https://keystone:5000/v3 console serve`,
	RunE: runServe,
}

var devMode bool

func init() {
	serveCmd.Flags().BoolVar(&devMode, "dev", false, "Enable development mode (verbose logging, local frontend origin)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration (without validation, so CLI flags can override first)
	cfg, err := config.LoadConfigRaw()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if devMode {
		cfg.DevMode = true
	}

	cfg.SetDevDefaults()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Signal context for graceful shutdown.
	// stop() restores default signal handling so a second Ctrl+C does a hard kill.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()

	logLevel := parseLogLevel(cfg.Server.LogLevel)
	if cfg.DevMode {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if configFile := config.ConfigFileUsed(); configFile != "" {
		logger.Info("loaded config", "file", configFile)
	}

	if err := run(ctx, cfg, logger); err != nil {
		return err
	}

	logger.Info("console stopped")
	return nil
}

// run wires all components together and serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Outbound adapters
	identity := keystone.New(cfg.Keystone.AuthURL, cfg.Keystone.DomainName,
		keystone.WithRegion(cfg.Keystone.Region),
		keystone.WithTimeout(cfg.KeystoneTimeout()),
		keystone.WithLogger(logger.With("component", "keystone")),
	)

	var heimdallClient *heimdall.Client
	if cfg.Heimdall.BaseURL != "" {
		heimdallClient = heimdall.New(cfg.Heimdall.BaseURL,
			heimdall.WithTimeout(cfg.HeimdallTimeout()),
			heimdall.WithLogger(logger.With("component", "heimdall")),
		)
	} else {
		logger.Warn("heimdall.base_url not configured, proxy endpoints will fail")
		heimdallClient = heimdall.New("http://127.0.0.1:0")
	}

	sessionStore := memory.NewSessionStore()

	// Services
	ttl := cfg.SessionTTLDuration()
	authService := service.NewAuthService(identity, identity, sessionStore, ttl, logger.With("component", "auth"))
	directoryService := service.NewDirectoryService(identity, logger.With("component", "directory"))
	computeService := service.NewComputeService(identity, logger.With("component", "compute"))
	networkService := service.NewNetworkService(identity, logger.With("component", "network"))
	proxyService := service.NewProxyService(heimdallClient, logger.With("component", "proxy"))

	healthChecker := httptransport.NewHealthChecker(sessionStore, identity, Version)

	opts := []httptransport.Option{
		httptransport.WithAddr(cfg.Server.HTTPAddr),
		httptransport.WithAllowedOrigins(cfg.Server.AllowedOrigins),
		httptransport.WithLogger(logger.With("component", "http")),
		httptransport.WithSessionCounter(sessionStore),
		httptransport.WithHealthChecker(healthChecker),
		httptransport.WithCookieSettings(httptransport.CookieSettings{
			MaxAge:   int(ttl.Seconds()),
			Secure:   cfg.Server.Cookie.Secure,
			HTTPOnly: cfg.Server.Cookie.HTTPOnly,
		}),
	}
	if cfg.Server.LoginRateLimit > 0 {
		opts = append(opts, httptransport.WithLoginRateLimit(cfg.Server.LoginRateLimit, cfg.LoginRateWindowDuration()))
	}
	if len(cfg.Server.PublicPaths) > 0 {
		opts = append(opts, httptransport.WithPublicPaths(cfg.Server.PublicPaths))
	}
	if cfg.Server.TLSCertFile != "" && cfg.Server.TLSKeyFile != "" {
		opts = append(opts, httptransport.WithTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile))
	}

	transport := httptransport.NewHTTPTransport(httptransport.Services{
		Auth:      authService,
		Directory: directoryService,
		Compute:   computeService,
		Network:   networkService,
		Proxy:     proxyService,
	}, sessionStore, opts...)

	logger.Info("console starting",
		"addr", cfg.Server.HTTPAddr,
		"keystone", cfg.Keystone.AuthURL,
		"session_ttl", ttl.String(),
		"dev_mode", cfg.DevMode,
	)

	return transport.Start(ctx)
}

// parseLogLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
