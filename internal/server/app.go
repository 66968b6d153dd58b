// Package server initializes and runs the application: it opens the
// database and redis connections, runs migrations, and starts the HTTP
// server together with the background jobs (revocation reaper and
// exchange-rate fetcher), shutting everything down gracefully on SIGINT,
// SIGTERM, or SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/curexhq/curex/internal/logging"
	"github.com/curexhq/curex/internal/server/auth"
	"github.com/curexhq/curex/internal/server/config"
	"github.com/curexhq/curex/internal/server/httpapi"
	"github.com/curexhq/curex/internal/server/rates"
	"github.com/curexhq/curex/internal/server/reaper"
	"github.com/curexhq/curex/internal/server/repositories/repomanager"
	"github.com/curexhq/curex/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	redis   *redis.Client
	handler http.Handler
	reaper  *reaper.Reaper
	fetcher *rates.Fetcher
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	signer := auth.NewSigner([]byte(cfg.SecretKey))
	issuer := auth.NewTokenIssuer(signer, cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)

	ratesStore := rates.NewRedisStore(rdb)

	authService := services.NewAuthService(db, rm, signer, issuer)
	userService := services.NewUserService(db, rm)
	currencyService := services.NewCurrencyService(ratesStore)

	httpServer := httpapi.NewServer(authService, userService, currencyService, logger)

	return &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		redis:   rdb,
		handler: httpServer.Routes(),
		reaper:  reaper.New(rm.RevokedTokens(db), cfg.ReaperInterval, logger),
		fetcher: rates.NewFetcher(cfg.RatesAPIURL, cfg.RatesAPIKey, ratesStore, cfg.RatesRefreshInterval, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, err.Error())
		}
	}()

	app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.reaper.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.fetcher.Run(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
	if err := app.redis.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
