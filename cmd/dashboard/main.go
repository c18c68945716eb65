package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"student_dashboard_go/config"
	"student_dashboard_go/handlers"
	"student_dashboard_go/logger"
	"student_dashboard_go/middleware"
	"student_dashboard_go/services/charts"
	"student_dashboard_go/services/dashboard"
	"student_dashboard_go/services/i18n"
	"student_dashboard_go/services/jobs"
	"student_dashboard_go/services/live"
	"student_dashboard_go/services/notify"
	"student_dashboard_go/services/page"
	"student_dashboard_go/services/refresh"
	"student_dashboard_go/services/stats"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	if len(cfg.Defaulted) > 0 {
		zlog.Debug("Using default configuration values", zap.Strings("keys", cfg.Defaulted))
	}
	for _, w := range cfg.Warnings {
		zlog.Warn("Configuration", zap.String("problem", w))
	}

	if err := i18n.Load(); err != nil {
		zlog.Fatal("Failed to load locales", zap.Error(err))
	}
	zlog.Info("Loaded locales", zap.Strings("languages", i18n.Languages()))
	for lang, keys := range i18n.Missing() {
		zlog.Warn("Locale is missing keys, falling back to en", zap.String("locale", lang), zap.Strings("keys", keys))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Dashboard client
	p := page.Dashboard()
	presenter := notify.NewPresenter(cfg.NotificationTTL, cfg.MaxNotifications, zlog)
	registry := charts.NewRegistry(p, charts.NewGoChartPainter(), zlog)
	fetcher := stats.NewClient(cfg.StatsBaseURL, cfg.SessionCookie)
	dash := dashboard.New(p, fetcher, registry, presenter, zlog, dashboard.Options{
		AttendanceDays:  cfg.AttendanceDays,
		Locale:          cfg.Locale,
		AnimateCounters: cfg.AnimateCounters,
	})

	// Initial load, then timers and live events
	dash.RequestRefresh(ctx, refresh.ScopeAll)

	scheduler, err := jobs.StartScheduler(ctx, dash, jobs.Intervals{
		Full:     cfg.RefreshInterval,
		Counters: cfg.CounterRefreshInterval,
		Charts:   cfg.ChartRefreshInterval,
	}, zlog)
	if err != nil {
		zlog.Fatal("Failed to start scheduler", zap.Error(err))
	}

	listener := live.NewListener(dash, presenter, zlog, cfg.Locale)
	liveClient := live.NewClient(cfg.LiveURL, cfg.SessionCookie, cfg.ReconnectInterval, listener, zlog)
	liveDone := make(chan struct{})
	go func() {
		defer close(liveDone)
		if err := liveClient.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zlog.Warn("live client stopped", zap.Error(err))
		}
	}()

	// Preview server
	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			zlog.Debug("request", zap.String("method", v.Method), zap.String("uri", v.URI), zap.Int("status", v.Status))
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CSPNonce())
	e.Use(middleware.Locale(cfg))

	refreshLimiter := middleware.NewRefreshRateLimiter()
	defer refreshLimiter.Stop()
	handlers.RegisterRoutes(e, handlers.NewDashboardHandler(dash, presenter, listener, zlog), refreshLimiter.Middleware())

	go func() {
		zlog.Info("Preview server starting", zap.String("port", cfg.ServerPort), zap.String("stats", cfg.StatsBaseURL), zap.String("live", cfg.LiveURL))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("server shutdown", zap.Error(err))
	}

	scheduler.Stop()
	<-liveDone
	dash.Close()
	presenter.Close()
}
