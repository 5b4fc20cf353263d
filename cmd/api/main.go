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

	"github.com/go-chi/httplog/v3"

	"github.com/cmlabs-hris/hr-portal-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hr-portal-go/internal/handler/http"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/incidence"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hr-portal-go/internal/repository/mysql"
	"github.com/cmlabs-hris/hr-portal-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hr-portal-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hr-portal-go/internal/service/auth"
	blogService "github.com/cmlabs-hris/hr-portal-go/internal/service/blog"
	employeeService "github.com/cmlabs-hris/hr-portal-go/internal/service/employee"
	"github.com/cmlabs-hris/hr-portal-go/internal/service/file"
	movementService "github.com/cmlabs-hris/hr-portal-go/internal/service/movement"
	"github.com/cmlabs-hris/hr-portal-go/migrations"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, migrations.FS); err != nil {
		return err
	}

	timeClockDB, err := database.NewTimeClockDB(ctx, cfg.TimeClockDB())
	if err != nil {
		return err
	}
	defer timeClockDB.Close()

	var incidences incidence.Source
	if cfg.Incidence.Watch {
		watcher, err := incidence.NewWatcher(cfg.Incidence.Path)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
		incidences = watcher
	} else {
		table, err := incidence.Load(cfg.Incidence.Path)
		if err != nil {
			return err
		}
		incidences = incidence.Static{T: table}
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize local storage: %w", err)
	}

	recordRepo := mysql.NewAttendanceRepository(timeClockDB, cfg.TimeClock.Table)
	movementRepo := postgresql.NewMovementRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	credentialRepo := postgresql.NewCredentialRepository(db)
	postRepo := postgresql.NewPostRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.SecureCookie)
	hub := sse.NewHub()

	attendanceSvc := attendanceService.NewAttendanceService(recordRepo, movementRepo, incidences, hub, attendanceService.Options{
		Location:        cfg.App.Location,
		RefreshInterval: cfg.Dashboard.RefreshInterval,
		ClockInterval:   cfg.Dashboard.ClockInterval,
		SnapshotTTL:     cfg.Dashboard.SnapshotTTL,
	})
	movementSvc := movementService.NewMovementService(movementRepo, recordRepo, incidences, attendanceSvc)
	authSvc := serviceAuth.NewAuthService(credentialRepo, employeeRepo, JWTService)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	imageSvc := file.NewImageService(fileStorage, file.ImageOptions{})
	blogSvc := blogService.NewBlogService(postRepo, employeeRepo, imageSvc)

	scheduler := cron.NewScheduler(ctx)
	cron.NewDashboardJobs(attendanceSvc).RegisterJobs(scheduler)
	scheduler.AddJob("prune_revoked_tokens", time.Hour, func(ctx context.Context) error {
		if n := JWTService.PruneRevoked(); n > 0 {
			slog.Info("Pruned expired revoked tokens", "removed", n)
		}
		return nil
	})
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.App.CORSOrigins,
	}, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Movement:   appHTTP.NewMovementHandler(movementSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Blog:       appHTTP.NewBlogHandler(blogSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Open dashboard streams end when ctx does.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "timezone", cfg.App.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
