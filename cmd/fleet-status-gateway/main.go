package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet-status-gateway/internal/config"
	"fleet-status-gateway/internal/health"
	"fleet-status-gateway/internal/httpserver"
	"fleet-status-gateway/internal/oled"
	"fleet-status-gateway/internal/probe"
	"fleet-status-gateway/internal/x11"

	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatal("config load", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	collector := health.NewCollector(
		cfg.SystemdServices,
		cfg.ProcessPatterns,
		probe.NewSystemdChecker(cfg.ProbeTimeout()),
		probe.NewPgrepChecker(cfg.ProbeTimeout()),
		probe.Uptime{}.String,
	)

	env := x11.Env{Display: cfg.Display, Xauthority: cfg.Xauthority}
	locator := x11.NewLocator(env, cfg.ProbeTimeout())
	capturer := x11.NewCapturer(env, cfg.ScreenCaptureCmd, cfg.CaptureTimeout(), logger.Named("capture"))

	if cfg.OLEDPort != "" {
		display := oled.NewDisplay(cfg.OLEDPort, cfg.OLEDBaud, logger.Named("oled"))
		go display.Run(ctx, collector.Report, 5*time.Second)
	}

	var reqLog *zap.Logger
	if cfg.LogRequests {
		reqLog = logger.Named("http")
	}

	router, err := httpserver.NewRouter(httpserver.RouterDeps{
		Config:     cfg,
		Health:     collector,
		Windows:    locator,
		Screens:    capturer,
		RequestLog: reqLog,
	})
	if err != nil {
		logger.Fatal("router init", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		_ = srv.Shutdown(shutCtx)
	}()

	logger.Info("fleet-status-gateway listening", zap.String("addr", cfg.ListenAddr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("fleet-status-gateway stopped")
}
