// Package studentms собирает все зависимости приложения и запускает HTTP-сервер.
package studentms

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/studentms/studentms/internal/cache"
	"github.com/studentms/studentms/internal/config"
	"github.com/studentms/studentms/internal/filestore"
	"github.com/studentms/studentms/internal/lib/jwt"
	"github.com/studentms/studentms/internal/lib/smtp"
	"github.com/studentms/studentms/internal/migrations"
	adminservice "github.com/studentms/studentms/internal/services/admin"
	authservice "github.com/studentms/studentms/internal/services/auth"
	otpservice "github.com/studentms/studentms/internal/services/otp"
	senderservice "github.com/studentms/studentms/internal/services/sender"
	studentservice "github.com/studentms/studentms/internal/services/student"
	userservice "github.com/studentms/studentms/internal/services/user"
	"github.com/studentms/studentms/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	files, err := filestore.NewClient(ctx, cfg.FileStore)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.NewSenderService(logger, transport)

	otpStore := cache.NewOTPStore(cacheRedis)
	otpService := otpservice.New(otpStore, senderService, db, jwtMaker, cfg.OTP.CodeTTL, logger)
	authService := authservice.NewAuthService(db, jwtMaker)
	userService := userservice.New(db, files, logger)
	studentService := studentservice.New(db, cacheRedis, logger)
	adminService := adminservice.New(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, &Services{
		Auth:     authService,
		OTP:      otpService,
		Users:    userService,
		Students: studentService,
		Admin:    adminService,
		Files:    files,
		DB:       db,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close() //nolint:errcheck
		return err
	}
}
