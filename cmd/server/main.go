// Command server runs the member registration API over a Google Sheets
// worksheet.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pauloqxm/adatualiza/internal/members/handler"
	"github.com/pauloqxm/adatualiza/internal/members/service"
	"github.com/pauloqxm/adatualiza/internal/members/store"
	"github.com/pauloqxm/adatualiza/internal/platform/config"
	"github.com/pauloqxm/adatualiza/internal/platform/httpserver"
	"github.com/pauloqxm/adatualiza/internal/platform/logger"
	"github.com/pauloqxm/adatualiza/internal/platform/metrics"
	"github.com/pauloqxm/adatualiza/internal/platform/redis"
	"github.com/pauloqxm/adatualiza/internal/sheets"
	httptransport "github.com/pauloqxm/adatualiza/internal/transport/http"
)

const snapshotCacheKey = "adatualiza:snapshot"

func main() {
	if err := run(); err != nil {
		logger.New().Error("fatal", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SpreadsheetID == "" {
		return errors.New("ADATUALIZA_SPREADSHEET_ID is required")
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}

	creds, err := sheets.ResolveCredentials(cfg.CredentialsJSON)
	if err != nil {
		return err
	}

	backend, err := sheets.NewClient(ctx, cfg.SpreadsheetID, cfg.WorksheetTitle, creds,
		sheets.WithLogger(log),
		sheets.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}

	var cache store.SnapshotCache
	if redisClient != nil {
		cache = store.NewRedisCache(redisClient.Client, snapshotCacheKey, cfg.SnapshotTTL, log)
		log.Info("snapshot cache", "backend", "redis")
		defer redisClient.Close()
	} else {
		cache = store.NewMemoryCache(cfg.SnapshotTTL, nil)
		log.Info("snapshot cache", "backend", "memory")
	}

	records := store.New(backend, cache,
		store.WithLogger(log),
		store.WithMetrics(m),
	)

	members := service.New(records, location,
		service.WithLogger(log),
		service.WithMetrics(m),
	)

	checks := map[string]httptransport.HealthChecker{}
	if redisClient != nil {
		checks["redis"] = redisClient
	}

	router := httptransport.NewRouter(log, checks, handler.New(members, log))
	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr, "worksheet", cfg.WorksheetTitle)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
