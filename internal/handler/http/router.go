package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"github.com/cmlabs-hris/hr-portal-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/jwt"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Movement   MovementHandler
	Employee   EmployeeHandler
	Blog       BlogHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
		// Heartbeat probes.
		Skip: func(req *http.Request, respStatus int) bool {
			return req.URL.Path == "/"
		},
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
		})

		// Image names are unguessable ULIDs; <img> tags load them without a token.
		r.Get("/images/{name}", h.Blog.ServeImage)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(JWTService.Verifier())
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/auth/profile", h.Auth.Profile)
			r.Get("/employees/me", h.Employee.GetMe)

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/me", h.Attendance.GetMyDashboard)
				r.Get("/me/stream", h.Attendance.Stream)
				r.Get("/incidence-options", h.Attendance.IncidenceOptions)
			})

			r.Route("/movements", func(r chi.Router) {
				r.Post("/", h.Movement.Create)
				r.Get("/me", h.Movement.ListMine)
			})

			r.Route("/blog/posts", func(r chi.Router) {
				r.Get("/", h.Blog.List)
				r.Post("/", h.Blog.Create)
				r.Post("/images", h.Blog.UploadImages)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Blog.Get)
					r.Put("/", h.Blog.Update)
					r.Delete("/", h.Blog.Delete)
					r.Post("/like", h.Blog.Like)
					r.Delete("/like", h.Blog.Unlike)
				})
			})
		})
	})
	return r
}
