// Command nrcc-search serves the NRCC chemical database as MCP tools over
// streamable HTTP.
//
// Usage:
//
//	nrcc-search                      start the server (configured from the environment)
//	nrcc-search -issue-token alice   print an HS256 token signed with JWT_SECRET
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonwraymond/nrcc-search/auth"
	"github.com/jonwraymond/nrcc-search/cache"
	"github.com/jonwraymond/nrcc-search/config"
	"github.com/jonwraymond/nrcc-search/mcpserver"
	"github.com/jonwraymond/nrcc-search/nrcc"
	"github.com/jonwraymond/nrcc-search/observe"
	"github.com/jonwraymond/nrcc-search/resilience"
)

var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "nrcc-search:", err)
		os.Exit(1)
	}
}

func run() error {
	envFile := flag.String("env-file", ".env", "optional dotenv file read before the environment")
	issue := flag.String("issue-token", "", "print a token for this subject signed with JWT_SECRET and exit")
	ttl := flag.Duration("token-ttl", time.Hour, "lifetime of the token printed by -issue-token")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, *envFile)
	if err != nil {
		return err
	}

	if *issue != "" {
		return issueToken(cfg, *issue, *ttl)
	}

	obs, err := observe.NewObserver(ctx, cfg.Observe(version))
	if err != nil {
		return fmt.Errorf("failed to start telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = obs.Shutdown(sctx)
	}()
	logger := obs.Logger()

	validator := auth.NewValidator(
		auth.Config{APIKey: cfg.APIKey, JWTSecret: cfg.JWTSecret},
		auth.WithLogger(logger),
		auth.WithMetrics(obs.Metrics()),
	)
	if !validator.Enabled() {
		logger.Warn(ctx, "API_KEY and JWT_SECRET are unset, every call bypasses authentication")
	}

	limiter := resilience.NewRateLimiter(resilience.RateLimiterConfig{
		MaxCalls: cfg.RateLimit.MaxCalls,
		Window:   cfg.RateLimit.Window(),
	})

	var store *cache.MemoryCache
	nrccCfg := nrcc.Config{
		BaseURL: cfg.NRCC.BaseURL,
		Timeout: cfg.NRCC.Timeout,
		Logger:  logger,
	}
	if cfg.CacheTTL > 0 {
		store = cache.NewMemoryCache()
		nrccCfg.Cache = store
		nrccCfg.Policy = cache.PolicyWithTTL(cfg.CacheTTL)
		go purge(ctx, store, cfg.CacheTTL)
	}

	srv := mcpserver.New(mcpserver.Options{
		Version:   version,
		Searcher:  nrcc.NewClient(nrccCfg),
		Scope:     cfg.RateLimit.Scope,
		Limiter:   limiter,
		Validator: validator,
		Observer:  obs,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server starting",
			observe.F("addr", httpServer.Addr),
			observe.F("endpoint", mcpserver.EndpointPath),
			observe.F("auth_enabled", validator.Enabled()),
			observe.F("rate_limit_max_calls", cfg.RateLimit.MaxCalls),
			observe.F("rate_limit_window_seconds", cfg.RateLimit.WindowSeconds),
			observe.F("rate_limit_scope", cfg.RateLimit.Scope),
			observe.F("cache_ttl", cfg.CacheTTL.String()),
			observe.F("version", version),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(sctx); err != nil {
		errs = append(errs, fmt.Errorf("mcp shutdown: %w", err))
	}
	if err := httpServer.Shutdown(sctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	logger.Info(context.Background(), "shutdown complete")
	return errors.Join(errs...)
}

func issueToken(cfg *config.Config, subject string, ttl time.Duration) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	token, err := auth.IssueToken([]byte(cfg.JWTSecret), subject, ttl)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	fmt.Println(token)
	return nil
}

// purge drops expired cache entries every ttl until ctx is done.
func purge(ctx context.Context, store *cache.MemoryCache, ttl time.Duration) {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			store.Purge()
		}
	}
}
