package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/trackwise-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/repository"
	attendanceService "github.com/cmlabs-hris/trackwise-backend-go/internal/service/attendance"
	overviewService "github.com/cmlabs-hris/trackwise-backend-go/internal/service/overview"
	realtimeService "github.com/cmlabs-hris/trackwise-backend-go/internal/service/realtime"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := repository.Open(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}()
	slog.Info("Store connected", "driver", stores.Driver)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("error creating jwt service: %w", err)
	}

	hub := sse.NewHub(cfg.Realtime.Buffer)
	realtimeSvc := realtimeService.NewRealtimeService(hub)
	attendanceSvc := attendanceService.NewAttendanceService(stores.Attendance, stores.Employees, realtimeSvc)
	overviewSvc := overviewService.NewOverviewService(stores.Attendance, stores.Employees, stores.Counters, stores.Counters, nil)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	overviewHandler := appHTTP.NewOverviewHandler(overviewSvc)
	realtimeHandler := appHTTP.NewRealtimeHandler(JWTService, realtimeSvc, realtimeSvc, cfg.Realtime.Keepalive)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		overviewHandler,
		realtimeHandler,
		appHTTP.RouterOptions{
			AppName:        cfg.App.Name,
			Version:        cfg.App.Version,
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			MetricsEnabled: cfg.Metrics.Enabled,
		},
	)

	scheduler := cron.NewScheduler()
	if cfg.Cron.MarkAbsent {
		cron.NewAttendanceJobs(attendanceSvc, nil).RegisterJobs(scheduler)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	// Streams end with their request context, so requests derive from ctx
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "version", cfg.App.Version)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
