// Command gatekitd runs the gatekit authentication service over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	// PostgreSQL driver for the sql store backend.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/gatekit/gatekit"
	"github.com/gatekit/gatekit/internal/handlers"
	"github.com/gatekit/gatekit/ratelimit"
	"github.com/gatekit/gatekit/store"
	filestore "github.com/gatekit/gatekit/store/file"
	memorystore "github.com/gatekit/gatekit/store/memory"
	sqlstore "github.com/gatekit/gatekit/store/sql"
)

func main() {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("service exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg := loadConfig()

	st, err := buildStore(cfg, log)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}

	opts := []gatekit.Option{
		gatekit.WithSecret(cfg.Secret),
		gatekit.WithStore(st),
		gatekit.WithTokenTTL(cfg.TokenTTL),
		gatekit.WithLoginLimit(cfg.LoginLimit, cfg.LoginWindow),
		gatekit.WithLogger(log),
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		opts = append(opts, gatekit.WithLimiter(ratelimit.NewRedisLimiter(&ratelimit.RedisConfig{
			Client: client,
			Limit:  cfg.LoginLimit,
			Period: cfg.LoginWindow,
		})))
	}

	svc, err := gatekit.New(opts...)
	if err != nil {
		return fmt.Errorf("creating auth service: %w", err)
	}
	defer svc.Close()

	h := handlers.New(svc, log)
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.Recoverer)
	router.Mount("/", h.Routes())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr, "store", cfg.StoreBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// buildStore creates the configured credential store backend.
func buildStore(cfg *config, log *slog.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case "file":
		return filestore.New(cfg.DataPath, log)
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return sqlstore.New(ctx, &sqlstore.Config{
			DSN:          cfg.DatabaseDSN,
			MaxOpenConns: 10,
		})
	case "memory":
		return memorystore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
