package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/api"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/assets"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/chart"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/config"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/criteria"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/dashboard"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/dataset"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port, "source", cfg.Data.Source)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := dataset.NewSource(cfg.Data)
	if err != nil {
		logging.Fatalf("Failed to configure data source: %v", err)
	}
	loader := dataset.NewLoader(src)

	// Load errors are fatal; everything after this serves from memory.
	ds, err := loader.Load(ctx)
	if err != nil {
		logging.Fatalf("Failed to load suitability data: %v", err)
	}

	crit, err := criteria.Load(cfg.Data.CriteriaPath)
	if err != nil {
		logging.Fatalf("Failed to load criteria: %v", err)
	}

	store := assets.NewStore(cfg.Maps.Dir, cfg.Maps.Elevation)
	renderer := chart.NewRenderer(cfg.Charts.CacheTTL)
	if cfg.Charts.Warmup {
		renderer.Warm(ctx, ds, cfg.Worker.Count, cfg.Worker.BufferSize)
	}

	svc := dashboard.NewService(loader, store, crit)
	svc.OnInvalidate(renderer.Flush)

	// SIGHUP re-reads the tables and drops charts rendered from the old ones.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for range reload {
			svc.Invalidate()
			ds, err := svc.Dataset(ctx)
			if err != nil {
				slog.Error("reload failed", "error", err)
				continue
			}
			if cfg.Charts.Warmup {
				renderer.Warm(ctx, ds, cfg.Worker.Count, cfg.Worker.BufferSize)
			}
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Map-Warning"},
		AllowCredentials: false,
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimitRPS))

	handler := api.NewHandler(svc, renderer, store)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
