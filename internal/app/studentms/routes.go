// Package studentms предоставляет маршруты для основного приложения.
package studentms

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/studentms/studentms/internal/config"
	"github.com/studentms/studentms/internal/filestore"
	adminstats "github.com/studentms/studentms/internal/http/handlers/admin/stats"
	adminuserlist "github.com/studentms/studentms/internal/http/handlers/admin/userlist"
	adminuserread "github.com/studentms/studentms/internal/http/handlers/admin/userread"
	adminuserremove "github.com/studentms/studentms/internal/http/handlers/admin/userremove"
	"github.com/studentms/studentms/internal/http/handlers/admin/userrole"
	"github.com/studentms/studentms/internal/http/handlers/auth/login"
	"github.com/studentms/studentms/internal/http/handlers/auth/logout"
	"github.com/studentms/studentms/internal/http/handlers/auth/register"
	"github.com/studentms/studentms/internal/http/handlers/auth/requestotp"
	"github.com/studentms/studentms/internal/http/handlers/auth/verifyotp"
	"github.com/studentms/studentms/internal/http/handlers/health"
	studentcreate "github.com/studentms/studentms/internal/http/handlers/student/create"
	studentlist "github.com/studentms/studentms/internal/http/handlers/student/list"
	studentread "github.com/studentms/studentms/internal/http/handlers/student/read"
	studentremove "github.com/studentms/studentms/internal/http/handlers/student/remove"
	studentupdate "github.com/studentms/studentms/internal/http/handlers/student/update"
	userread "github.com/studentms/studentms/internal/http/handlers/user/read"
	userremove "github.com/studentms/studentms/internal/http/handlers/user/remove"
	userupdate "github.com/studentms/studentms/internal/http/handlers/user/update"
	"github.com/studentms/studentms/internal/http/middlewarectx"
	adminservice "github.com/studentms/studentms/internal/services/admin"
	authservice "github.com/studentms/studentms/internal/services/auth"
	otpservice "github.com/studentms/studentms/internal/services/otp"
	studentservice "github.com/studentms/studentms/internal/services/student"
	userservice "github.com/studentms/studentms/internal/services/user"
	"github.com/studentms/studentms/internal/storage/repository"
)

// Services собирает сервисы, которые нужны маршрутам приложения.
type Services struct {
	Auth     *authservice.AuthService
	OTP      *otpservice.Service
	Users    *userservice.Service
	Students *studentservice.Service
	Admin    *adminservice.Service
	Files    *filestore.Client
	DB       *repository.Storage
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, svc *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", health.New(logger, svc.DB).ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, svc.Auth, svc.Files, cfg.TokenTTL).ServeHTTP)
		r.Post("/auth/login", login.New(logger, svc.Auth, cfg.TokenTTL).ServeHTTP)
		r.Post("/auth/logout", logout.New(logger).ServeHTTP)
		r.Post("/auth/otp/request", requestotp.New(logger, svc.OTP).ServeHTTP)
		r.Post("/auth/otp/verify", verifyotp.New(logger, svc.OTP, cfg.TokenTTL).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthMiddleware(svc.Auth, logger))

			r.Get("/users/{uid}", userread.New(logger, svc.Users).ServeHTTP)
			r.Patch("/users/{uid}", userupdate.New(logger, svc.Users).ServeHTTP)
			r.Delete("/users/{uid}", userremove.New(logger, svc.Users).ServeHTTP)

			r.Post("/students", studentcreate.New(logger, svc.Students, svc.Files).ServeHTTP)
			r.Get("/students", studentlist.New(logger, svc.Students).ServeHTTP)
			r.Get("/students/{uid}", studentread.New(logger, svc.Students).ServeHTTP)
			r.Patch("/students/{uid}", studentupdate.New(logger, svc.Students).ServeHTTP)
			r.Delete("/students/{uid}", studentremove.New(logger, svc.Students).ServeHTTP)

			// Панель администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))

				r.Get("/admin/stats", adminstats.New(logger, svc.Admin).ServeHTTP)
				r.Get("/admin/users", adminuserlist.New(logger, svc.Admin).ServeHTTP)
				r.Get("/admin/users/{uid}", adminuserread.New(logger, svc.Admin).ServeHTTP)
				r.Delete("/admin/users/{uid}", adminuserremove.New(logger, svc.Admin).ServeHTTP)
				r.Patch("/admin/users/{uid}/role", userrole.New(logger, svc.Admin).ServeHTTP)

				// Администратор управляет студентами теми же обработчиками
				r.Post("/admin/students", studentcreate.New(logger, svc.Students, svc.Files).ServeHTTP)
				r.Get("/admin/students", studentlist.New(logger, svc.Students).ServeHTTP)
				r.Delete("/admin/students/{uid}", studentremove.New(logger, svc.Students).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
