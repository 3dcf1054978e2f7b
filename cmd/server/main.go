package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jengzang/survival-explorer-go/internal/api"
	"github.com/jengzang/survival-explorer-go/internal/config"
	"github.com/jengzang/survival-explorer-go/internal/database"
	"github.com/jengzang/survival-explorer-go/internal/datum"
	"github.com/jengzang/survival-explorer-go/internal/density"
	"github.com/jengzang/survival-explorer-go/internal/middleware"
	"github.com/jengzang/survival-explorer-go/internal/observability"
	"github.com/jengzang/survival-explorer-go/internal/repository"
	"github.com/jengzang/survival-explorer-go/internal/service"
	"github.com/jengzang/survival-explorer-go/internal/territory"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	if !strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	// 初始化数据库
	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		return err
	}
	defer db.Close()

	transformer, err := datum.New(cfg.Datum)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return err
	}

	selector := density.NewSelector(nil)
	if cfg.Game.Seed != 0 {
		selector = density.NewSeededSelector(cfg.Game.Seed)
	}

	builder := territory.NewBuilder(transformer,
		territory.WithClosureEpsilon(cfg.Game.ClosureEpsilon),
		territory.WithSphericalThreshold(cfg.Game.SphericalThresholdMeters),
	)

	poiRepo := repository.NewPOIRepository(db)
	presence := service.NewPresenceService(repository.NewPresenceRepository(db), cfg.Game.ActiveWindow)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.Game.RateLimit, cfg.Game.RateWindow)
	go limiter.Run(ctx)
	go prunePresence(ctx, presence, cfg.Game.ActiveWindow, logger)

	// 初始化路由
	router := api.SetupRouter(api.Deps{
		JWTSecret: []byte(cfg.JWTSecret),
		Logger:    logger,
		Metrics:   metrics,
		Limiter:   limiter,
		Presence:  presence,
		Exploration: service.NewExplorationService(presence, poiRepo, selector, service.ExplorationOptions{
			NearbyRadiusMeters:  cfg.Game.NearbyRadiusMeters,
			CatalogRadiusMeters: cfg.Game.CatalogRadiusMeters,
			Metrics:             metrics,
		}),
		POIs:        service.NewPOIService(poiRepo),
		Territories: service.NewTerritoryService(repository.NewTerritoryRepository(db), builder, cfg.Game.MaxPathPoints, metrics),
	})

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		// 启动服务器
		logger.Info("server starting", "addr", cfg.Port, "datum", transformer.Name())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// prunePresence drops inactive presence rows once per active window
func prunePresence(ctx context.Context, presence *service.PresenceService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := presence.Prune(ctx)
			if err != nil {
				logger.Warn("failed to prune presence", "error", err)
				continue
			}
			if n > 0 {
				logger.Debug("pruned presence", "rows", n)
			}
		}
	}
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
